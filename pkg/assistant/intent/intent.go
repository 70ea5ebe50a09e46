package intent

import (
	"wevysya-assistant-be/internal/constant"
)

// Type discriminates the two kinds of assistant decisions
type Type string

const (
	TypeKnowledge Type = constant.IntentTypeKnowledge
	TypeAction    Type = constant.IntentTypeAction
)

// Intent is the structured output of classification. Exactly one of the two
// shapes is meaningful: a knowledge answer (Action == nil) or an executable
// action. Action is populated only when Category resolves in the registry;
// an action-typed intent without it is non-executable and callers fall back
// to showing Response.
type Intent struct {
	Type       Type    `json:"type"`
	Category   string  `json:"category,omitempty"`
	Action     *Action `json:"action,omitempty"`
	Response   string  `json:"response"`
	Confidence float64 `json:"confidence"`
}

// Action carries everything the dispatch layer needs. Screen is copied from
// the registry entry, never taken from the model output.
type Action struct {
	Name       string `json:"name"`
	Parameters Params `json:"parameters"`
	Screen     string `json:"screen"`
}

// Executable reports whether the intent can be dispatched
func (i *Intent) Executable() bool {
	return i != nil && i.Type == TypeAction && i.Action != nil
}

// Params is a tagged union keyed by action category. Categories without
// extracted parameters yet use RawParams (possibly empty).
type Params interface {
	isParams()
}

// SearchMemberParams filters the live member-directory query
type SearchMemberParams struct {
	Profession string `json:"profession,omitempty"`
	Location   string `json:"location,omitempty"`
}

// PostDealParams pre-fills the deal form
type PostDealParams struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// RawParams keeps unrecognized extractions available to the UI layer
type RawParams map[string]any

func (SearchMemberParams) isParams() {}
func (PostDealParams) isParams()     {}
func (RawParams) isParams()          {}

// DecodeParams converts the untyped wire map into the category's variant
func DecodeParams(category string, raw map[string]any) Params {
	if raw == nil {
		raw = map[string]any{}
	}
	switch category {
	case constant.ActionSearchMember:
		return SearchMemberParams{
			Profession: stringField(raw, "profession"),
			Location:   stringField(raw, "location"),
		}
	case constant.ActionPostDeal:
		return PostDealParams{
			Title:       stringField(raw, "title"),
			Description: stringField(raw, "description"),
		}
	default:
		return RawParams(raw)
	}
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// ActionEntry describes one member of the closed action vocabulary
type ActionEntry struct {
	Category    string `json:"category"`
	Screen      string `json:"screen"`
	Description string `json:"description"`
}

// Catalog gives the classifier access to the action vocabulary without
// owning it. The registry in pkg/assistant/action implements this.
type Catalog interface {
	Lookup(category string) (ActionEntry, bool)
	Entries() []ActionEntry
}
