package action

import (
	"wevysya-assistant-be/internal/constant"
	"wevysya-assistant-be/pkg/assistant/intent"
)

// Registry is the closed mapping from action category to navigation target.
// It is built once at process start and immutable thereafter; it is not
// user- or tenant-configurable at runtime.
type Registry struct {
	entries map[string]intent.ActionEntry
	order   []string
}

var _ intent.Catalog = &Registry{}

// NewRegistry returns the fixed action vocabulary of the mobile app
func NewRegistry() *Registry {
	entries := []intent.ActionEntry{
		{
			Category:    constant.ActionSearchMember,
			Screen:      "/(tabs)/discover",
			Description: "Find community members by profession and/or location",
		},
		{
			Category:    constant.ActionPostDeal,
			Screen:      "/deals/create",
			Description: "Open the form to post a new business deal",
		},
		{
			Category:    constant.ActionViewDeals,
			Screen:      "/(tabs)/deals",
			Description: "Browse the current business deals",
		},
		{
			Category:    constant.ActionSendLink,
			Screen:      "/links/create",
			Description: "Send a referral link to another member",
		},
		{
			Category:    constant.ActionCreateI2We,
			Screen:      "/i2we/create",
			Description: "Schedule a one-to-one I2We meeting",
		},
		{
			Category:    constant.ActionViewProfile,
			Screen:      "/(tabs)/profile",
			Description: "Open the user's own profile",
		},
		{
			Category:    constant.ActionViewChannels,
			Screen:      "/(tabs)/channels",
			Description: "Browse community channels",
		},
		{
			Category:    constant.ActionViewActivity,
			Screen:      "/activity",
			Description: "View recent community activity",
		},
	}

	byCategory := make(map[string]intent.ActionEntry, len(entries))
	order := make([]string, 0, len(entries))
	for _, e := range entries {
		byCategory[e.Category] = e
		order = append(order, e.Category)
	}

	return &Registry{entries: byCategory, order: order}
}

// Lookup resolves a category; a miss is a normal outcome, not an error
func (r *Registry) Lookup(category string) (intent.ActionEntry, bool) {
	entry, ok := r.entries[category]
	return entry, ok
}

// Entries returns the vocabulary in registration order
func (r *Registry) Entries() []intent.ActionEntry {
	out := make([]intent.ActionEntry, 0, len(r.order))
	for _, category := range r.order {
		out = append(out, r.entries[category])
	}
	return out
}
