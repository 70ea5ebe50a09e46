package intent

import (
	"strings"

	"wevysya-assistant-be/internal/constant"
)

// FallbackIntent is the deterministic local classification used whenever the
// remote classifier is unavailable. Rules are evaluated in priority order,
// first match wins, and every query terminates in some intent. The ladder is
// deliberately conservative: it never guesses an action it cannot
// substantiate from a plain keyword check.
func FallbackIntent(query string, catalog Catalog) *Intent {
	q := strings.ToLower(query)

	switch {
	case strings.Contains(q, "find") || strings.Contains(q, "search"):
		return fallbackAction(constant.ActionSearchMember, constant.SearchMemberCannedReply, catalog)

	case strings.Contains(q, "deal") && (strings.Contains(q, "post") || strings.Contains(q, "create")):
		return fallbackAction(constant.ActionPostDeal, constant.PostDealCannedReply, catalog)

	case strings.Contains(q, "deal"):
		return fallbackAction(constant.ActionViewDeals, constant.ViewDealsCannedReply, catalog)

	default:
		return &Intent{
			Type:       TypeKnowledge,
			Category:   constant.KnowledgeCategoryGeneral,
			Response:   constant.KnowledgeLookupResponse,
			Confidence: 0.5,
		}
	}
}

func fallbackAction(category, response string, catalog Catalog) *Intent {
	resolved := &Intent{
		Type:       TypeAction,
		Category:   category,
		Response:   response,
		Confidence: 0.7,
	}
	if entry, ok := catalog.Lookup(category); ok {
		resolved.Action = &Action{
			Name:       category,
			Parameters: DecodeParams(category, nil),
			Screen:     entry.Screen,
		}
	}
	return resolved
}
