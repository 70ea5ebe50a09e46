package action

import (
	"testing"

	"wevysya-assistant-be/internal/constant"

	"github.com/stretchr/testify/assert"
)

func TestRegistryClosedVocabulary(t *testing.T) {
	r := NewRegistry()

	want := []string{
		constant.ActionSearchMember,
		constant.ActionPostDeal,
		constant.ActionViewDeals,
		constant.ActionSendLink,
		constant.ActionCreateI2We,
		constant.ActionViewProfile,
		constant.ActionViewChannels,
		constant.ActionViewActivity,
	}

	entries := r.Entries()
	assert.Len(t, entries, len(want))
	for i, category := range want {
		assert.Equal(t, category, entries[i].Category)
		assert.NotEmpty(t, entries[i].Screen)
		assert.NotEmpty(t, entries[i].Description)
	}
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()

	entry, ok := r.Lookup(constant.ActionSearchMember)
	assert.True(t, ok)
	assert.Equal(t, "/(tabs)/discover", entry.Screen)

	_, ok = r.Lookup("launch_rocket")
	assert.False(t, ok)

	_, ok = r.Lookup("")
	assert.False(t, ok)
}
