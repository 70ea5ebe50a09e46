package memory

import (
	"time"

	"wevysya-assistant-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// VoiceSessionRepository keeps ephemeral per-interaction assistant state.
// Sessions are TTL-evicted; an evicted session simply restarts from idle.
type VoiceSessionRepository struct {
	cache *cache.Cache
}

func NewVoiceSessionRepository() *VoiceSessionRepository {
	// Default expiration 30 minutes, purge sweep every 10 minutes
	c := cache.New(30*time.Minute, 10*time.Minute)
	return &VoiceSessionRepository{
		cache: c,
	}
}

func (r *VoiceSessionRepository) Save(session *store.VoiceSession) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *VoiceSessionRepository) Get(sessionID string) (*store.VoiceSession, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.VoiceSession), true
	}
	return nil, false
}

func (r *VoiceSessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
