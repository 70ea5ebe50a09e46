package intent

import (
	"testing"

	"wevysya-assistant-be/internal/constant"

	"github.com/stretchr/testify/assert"
)

// stubCatalog mirrors the shape of the real registry without importing it
type stubCatalog struct {
	entries map[string]ActionEntry
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{entries: map[string]ActionEntry{
		constant.ActionSearchMember: {Category: constant.ActionSearchMember, Screen: "/(tabs)/discover", Description: "search the member directory"},
		constant.ActionPostDeal:     {Category: constant.ActionPostDeal, Screen: "/deals/create", Description: "post a business deal"},
		constant.ActionViewDeals:    {Category: constant.ActionViewDeals, Screen: "/(tabs)/deals", Description: "browse deals"},
	}}
}

func (c *stubCatalog) Lookup(category string) (ActionEntry, bool) {
	e, ok := c.entries[category]
	return e, ok
}

func (c *stubCatalog) Entries() []ActionEntry {
	out := make([]ActionEntry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	return out
}

func TestFallbackIntentLadder(t *testing.T) {
	catalog := newStubCatalog()

	tests := []struct {
		name           string
		query          string
		wantType       Type
		wantCategory   string
		wantConfidence float64
	}{
		{
			name:           "find routes to member search",
			query:          "find me a chartered accountant",
			wantType:       TypeAction,
			wantCategory:   constant.ActionSearchMember,
			wantConfidence: 0.7,
		},
		{
			name:           "search routes to member search",
			query:          "search members in Jaipur",
			wantType:       TypeAction,
			wantCategory:   constant.ActionSearchMember,
			wantConfidence: 0.7,
		},
		{
			name:           "post a deal",
			query:          "I want to post a deal",
			wantType:       TypeAction,
			wantCategory:   constant.ActionPostDeal,
			wantConfidence: 0.7,
		},
		{
			name:           "create a deal",
			query:          "create deal for textiles",
			wantType:       TypeAction,
			wantCategory:   constant.ActionPostDeal,
			wantConfidence: 0.7,
		},
		{
			name:           "deal alone views deals",
			query:          "any good deal today",
			wantType:       TypeAction,
			wantCategory:   constant.ActionViewDeals,
			wantConfidence: 0.7,
		},
		{
			name:           "everything else is knowledge",
			query:          "what is WeVysya",
			wantType:       TypeKnowledge,
			wantCategory:   constant.KnowledgeCategoryGeneral,
			wantConfidence: 0.5,
		},
		{
			name:           "case insensitive",
			query:          "FIND someone",
			wantType:       TypeAction,
			wantCategory:   constant.ActionSearchMember,
			wantConfidence: 0.7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FallbackIntent(tt.query, catalog)

			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Equal(t, tt.wantConfidence, got.Confidence)
			assert.NotEmpty(t, got.Response)
		})
	}
}

func TestFallbackFindBeatsDealKeyword(t *testing.T) {
	// "find" and "deal" in one query: find wins, rules are priority ordered
	got := FallbackIntent("find a deal partner", newStubCatalog())

	assert.Equal(t, constant.ActionSearchMember, got.Category)
}

func TestFallbackActionCarriesScreenFromCatalog(t *testing.T) {
	got := FallbackIntent("find someone", newStubCatalog())

	assert.True(t, got.Executable())
	assert.Equal(t, "/(tabs)/discover", got.Action.Screen)
	assert.Equal(t, constant.ActionSearchMember, got.Action.Name)
}

func TestFallbackParametersAreEmpty(t *testing.T) {
	got := FallbackIntent("find textile merchants in Surat", newStubCatalog())

	params, ok := got.Action.Parameters.(SearchMemberParams)
	assert.True(t, ok)
	assert.Empty(t, params.Profession)
	assert.Empty(t, params.Location)
}
