package memory

import (
	"time"

	"ai-curriculum-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// SessionRepository indexes in-flight sessions so they can be inspected
// while their stream is still open. Entries expire on their own: a session
// that never reaches a terminal event does not leak.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Default expiration of 1 hour, purge sweep every 10 minutes.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *entity.ProcessingSession) {
	r.cache.Set(session.Id.String(), session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*entity.ProcessingSession, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*entity.ProcessingSession), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

// The live index doubles as a stream.SessionSink so the consumer-side fold
// stays free of ambient global state.

func (r *SessionRepository) Created(session *entity.ProcessingSession) {
	r.Save(session)
}

func (r *SessionRepository) Appended(session *entity.ProcessingSession, _ *entity.LogEntry) {
	r.Save(session)
}

func (r *SessionRepository) Terminated(session *entity.ProcessingSession) {
	r.Save(session)
}
