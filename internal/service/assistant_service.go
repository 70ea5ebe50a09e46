package service

import (
	"context"
	"time"

	"wevysya-assistant-be/internal/dto"
	"wevysya-assistant-be/pkg/assistant/action"
	"wevysya-assistant-be/pkg/assistant/intent"
	"wevysya-assistant-be/pkg/assistant/retrieval"
	"wevysya-assistant-be/pkg/events"
	pkgNats "wevysya-assistant-be/pkg/nats"

	"go.uber.org/zap"
)

type IAssistantService interface {
	ClassifyIntent(ctx context.Context, req *dto.ClassifyIntentRequest) (*dto.ClassifyIntentResponse, error)
	ExecuteAction(ctx context.Context, req *dto.ExecuteActionRequest) (*dto.ExecuteActionResponse, error)
	ListActions(ctx context.Context) *dto.ListActionsResponse

	// Pipeline surface used by the voice state machine
	Classify(ctx context.Context, query string) *intent.Intent
	Execute(ctx context.Context, it *intent.Intent) *action.Result
}

// assistantService glues the two-stage pipeline together: knowledge
// retrieval grounds the classifier, the classifier resolves an intent, and
// the action engine dispatches executable ones.
type assistantService struct {
	retriever      *retrieval.Retriever
	classifier     *intent.Classifier
	engine         *action.Engine
	catalog        intent.Catalog
	eventPublisher *pkgNats.Publisher
	logger         *zap.Logger
}

func NewAssistantService(
	retriever *retrieval.Retriever,
	classifier *intent.Classifier,
	engine *action.Engine,
	catalog intent.Catalog,
	eventPublisher *pkgNats.Publisher,
	logger *zap.Logger,
) IAssistantService {
	return &assistantService{
		retriever:      retriever,
		classifier:     classifier,
		engine:         engine,
		catalog:        catalog,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Classify resolves a query to an intent. It never fails: retrieval
// degrades internally and classification falls back to keyword rules.
func (s *assistantService) Classify(ctx context.Context, query string) *intent.Intent {
	start := time.Now()

	contextText := s.retriever.SearchKnowledge(ctx, query, retrieval.DefaultLimit)
	resolved := s.classifier.ClassifyIntent(ctx, query, contextText)

	s.logger.Info("intent classified",
		zap.String("type", string(resolved.Type)),
		zap.String("category", resolved.Category),
		zap.Float64("confidence", resolved.Confidence),
		zap.Duration("elapsed", time.Since(start)),
	)

	s.publishInteraction(ctx, query, resolved)
	return resolved
}

func (s *assistantService) Execute(ctx context.Context, it *intent.Intent) *action.Result {
	return s.engine.Execute(ctx, it)
}

func (s *assistantService) ClassifyIntent(ctx context.Context, req *dto.ClassifyIntentRequest) (*dto.ClassifyIntentResponse, error) {
	resolved := s.Classify(ctx, req.Query)

	res := &dto.ClassifyIntentResponse{
		Type:       string(resolved.Type),
		Category:   resolved.Category,
		Response:   resolved.Response,
		Confidence: resolved.Confidence,
	}
	if resolved.Action != nil {
		res.Action = &dto.ActionDTO{
			Name:       resolved.Action.Name,
			Parameters: paramsToMap(resolved.Action.Parameters),
			Screen:     resolved.Action.Screen,
		}
	}
	return res, nil
}

func (s *assistantService) ExecuteAction(ctx context.Context, req *dto.ExecuteActionRequest) (*dto.ExecuteActionResponse, error) {
	raw := make(map[string]any, len(req.Parameters))
	for k, v := range req.Parameters {
		raw[k] = v
	}

	it := &intent.Intent{
		Type:     intent.TypeAction,
		Category: req.Category,
	}
	if entry, ok := s.catalog.Lookup(req.Category); ok {
		it.Action = &intent.Action{
			Name:       entry.Category,
			Parameters: intent.DecodeParams(entry.Category, raw),
			Screen:     entry.Screen,
		}
	}

	result := s.engine.Execute(ctx, it)

	res := &dto.ExecuteActionResponse{
		Success:    result.Success,
		NoOp:       result.NoOp,
		Navigation: result.Navigation,
		Screen:     result.Screen,
		Error:      result.Error,
	}
	if len(result.Data) > 0 {
		res.Members = make([]dto.MemberDTO, len(result.Data))
		for i, m := range result.Data {
			res.Members[i] = dto.MemberDTO{
				Id:         m.ID,
				FullName:   m.FullName,
				Profession: m.Profession,
				Location:   m.Location,
				Firm:       m.Firm,
			}
		}
	}
	return res, nil
}

func (s *assistantService) ListActions(ctx context.Context) *dto.ListActionsResponse {
	entries := s.catalog.Entries()
	res := &dto.ListActionsResponse{
		Actions: make([]dto.ActionCatalogEntry, len(entries)),
	}
	for i, e := range entries {
		res.Actions[i] = dto.ActionCatalogEntry{
			Category:    e.Category,
			Screen:      e.Screen,
			Description: e.Description,
		}
	}
	return res
}

// publishInteraction emits an activity event for downstream consumers.
// Failures are logged, never surfaced: activity tracking is auxiliary.
func (s *assistantService) publishInteraction(ctx context.Context, query string, resolved *intent.Intent) {
	if s.eventPublisher == nil {
		return
	}

	evt := events.NewAssistantInteraction(query, string(resolved.Type), resolved.Category, resolved.Confidence)
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("failed to publish interaction event", zap.Error(err))
	}
}

func paramsToMap(p intent.Params) map[string]string {
	switch v := p.(type) {
	case intent.SearchMemberParams:
		out := map[string]string{}
		if v.Profession != "" {
			out["profession"] = v.Profession
		}
		if v.Location != "" {
			out["location"] = v.Location
		}
		return out
	case intent.PostDealParams:
		out := map[string]string{}
		if v.Title != "" {
			out["title"] = v.Title
		}
		if v.Description != "" {
			out["description"] = v.Description
		}
		return out
	case intent.RawParams:
		out := make(map[string]string, len(v))
		for k, val := range v {
			if s, ok := val.(string); ok {
				out[k] = s
			}
		}
		return out
	default:
		return nil
	}
}
