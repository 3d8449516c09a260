package storefront

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registry holds the live sessions keyed by session id. Sessions are volatile:
// nothing survives a restart.
type Registry struct {
	deps Deps

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(deps Deps) *Registry {
	return &Registry{
		deps:     deps.withDefaults(),
		sessions: make(map[string]*Session),
	}
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// GetOrOpen returns the session for id, or a new session under a freshly
// generated id when id is unknown. created reports the latter.
func (r *Registry) GetOrOpen(id string) (s *Session, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id != "" {
		if s, ok := r.sessions[id]; ok {
			// Marked under r.mu so EvictIdle cannot close it once handed out.
			s.markSeen()
			return s, false
		}
	}

	s = NewSession(uuid.NewString(), r.deps)
	r.sessions[s.ID()] = s
	r.deps.Metrics.SessionOpened()
	r.deps.Logger.Debug("session opened", zap.String("session_id", s.ID()))
	return s, true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// EvictIdle closes and forgets sessions not used for longer than maxIdle.
func (r *Registry) EvictIdle(maxIdle time.Duration) int {
	cutoff := r.deps.Now().Add(-maxIdle)

	r.mu.Lock()
	var idle []*Session
	for id, s := range r.sessions {
		if s.LastSeen().Before(cutoff) {
			idle = append(idle, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range idle {
		s.Close()
		r.deps.Metrics.SessionClosed()
		r.deps.Logger.Debug("session evicted", zap.String("session_id", s.ID()))
	}
	return len(idle)
}

// RunJanitor evicts idle sessions every interval until ctx is done.
func (r *Registry) RunJanitor(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.EvictIdle(maxIdle); n > 0 {
				r.deps.Logger.Info("evicted idle sessions", zap.Int("count", n))
			}
		}
	}
}

// Close tears down every session.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
		r.deps.Metrics.SessionClosed()
	}
}
