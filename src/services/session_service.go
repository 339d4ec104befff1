// backend/src/services/session_service.go
package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/username/bsm/src/models"
)

// SessionService holds the per-session view state for Portfolio Management.
// Sessions expire after the configured TTL; an expired or unknown session
// simply falls back to the main overview.
type SessionService struct {
	views *cache.Cache
}

func NewSessionService(ttl time.Duration) *SessionService {
	return &SessionService{views: cache.New(ttl, 2*ttl)}
}

// NewSessionID mints an identifier for a fresh session.
func (s *SessionService) NewSessionID() string {
	return uuid.New().String()
}

// View returns the session's current view, defaulting to the main overview.
func (s *SessionService) View(sessionID string) models.ViewState {
	if v, found := s.views.Get(sessionID); found {
		if state, ok := v.(models.ViewState); ok {
			return state
		}
	}
	return models.ViewMain
}

// SetView records an explicit view change. The new state takes effect on the
// session's next request.
func (s *SessionService) SetView(sessionID string, state models.ViewState) {
	s.views.Set(sessionID, state, cache.DefaultExpiration)
}
