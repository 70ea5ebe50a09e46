package action

import (
	"context"
	"log"

	"wevysya-assistant-be/internal/constant"
	"wevysya-assistant-be/pkg/assistant/intent"
	"wevysya-assistant-be/pkg/store"
)

// MemberDirectory is the live query surface behind search_member
type MemberDirectory interface {
	Search(ctx context.Context, profession, location string, limit int) ([]store.Member, error)
}

// Result describes the outcome of dispatching an intent. NoOp results are
// returned for non-executable intents and unknown action names; they are
// never errors.
type Result struct {
	Success    bool           `json:"success"`
	NoOp       bool           `json:"no_op,omitempty"`
	Navigation bool           `json:"navigation,omitempty"`
	Screen     string         `json:"screen,omitempty"`
	Data       []store.Member `json:"data,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// Engine dispatches executable intents against the registry
type Engine struct {
	registry *Registry
	members  MemberDirectory
	logger   *log.Logger
}

func NewEngine(registry *Registry, members MemberDirectory, logger *log.Logger) *Engine {
	return &Engine{
		registry: registry,
		members:  members,
		logger:   logger,
	}
}

// MemberSearchLimit caps the live directory query
const MemberSearchLimit = 20

// Execute dispatches an intent. Handlers for navigation-only categories
// return a navigation descriptor; search_member performs a live filtered
// query and returns matches or a structured failure. Execute never panics
// for unknown input.
func (e *Engine) Execute(ctx context.Context, it *intent.Intent) *Result {
	if !it.Executable() {
		return &Result{Success: true, NoOp: true}
	}

	entry, ok := e.registry.Lookup(it.Action.Name)
	if !ok {
		e.logger.Printf("[WARN] Unknown action name %q, treating as no-op", it.Action.Name)
		return &Result{Success: true, NoOp: true}
	}

	switch entry.Category {
	case constant.ActionSearchMember:
		return e.executeMemberSearch(ctx, entry, it.Action.Parameters)
	default:
		return &Result{
			Success:    true,
			Navigation: true,
			Screen:     entry.Screen,
		}
	}
}

func (e *Engine) executeMemberSearch(ctx context.Context, entry intent.ActionEntry, params intent.Params) *Result {
	var profession, location string
	switch p := params.(type) {
	case intent.SearchMemberParams:
		profession = p.Profession
		location = p.Location
	case intent.RawParams:
		if s, ok := p["profession"].(string); ok {
			profession = s
		}
		if s, ok := p["location"].(string); ok {
			location = s
		}
	}

	matches, err := e.members.Search(ctx, profession, location, MemberSearchLimit)
	if err != nil {
		e.logger.Printf("[ERROR] Member search failed: %v", err)
		return &Result{Success: false, Error: err.Error()}
	}

	return &Result{
		Success:    true,
		Navigation: true,
		Screen:     entry.Screen,
		Data:       matches,
	}
}
