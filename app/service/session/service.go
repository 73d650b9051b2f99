package session

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"nspire/app/config"

	"github.com/samber/do"
)

const sweepInterval = time.Minute

// Service owns the process-wide session map and the per-user abuse counters.
// Absence of a key means "fresh session".
type Service struct {
	cfg *config.Config

	mu       sync.RWMutex
	sessions map[string]*Session
	abuse    map[string]int

	epoch atomic.Uint64
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg:      do.MustInvoke[*config.Config](di),
		sessions: make(map[string]*Session),
		abuse:    make(map[string]int),
	}, nil
}

// GetOrCreate returns the user's session, creating a fresh one on first
// contact. The second result reports whether the session already existed.
func (s *Service) GetOrCreate(userID string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[userID]; ok {
		sess.LastSeen = time.Now()
		return sess, true
	}

	sess := &Session{
		UserID:   userID,
		State:    StateNew,
		Epoch:    s.epoch.Add(1),
		LastSeen: time.Now(),
	}
	s.sessions[userID] = sess

	return sess, false
}

// Get returns the user's session without creating one.
func (s *Service) Get(userID string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[userID]
	return sess, ok
}

// Delete drops the user's session. The next message starts from scratch
// with a new epoch, so in-flight generation results for the old session
// can be told apart and discarded.
func (s *Service) Delete(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
}

// Reset replaces the user's session with a fresh one, used for the
// defensive recovery from an impossible state value.
func (s *Service) Reset(userID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &Session{
		UserID:   userID,
		State:    StateNew,
		Epoch:    s.epoch.Add(1),
		LastSeen: time.Now(),
	}
	s.sessions[userID] = sess

	return sess
}

// Alive reports whether the user's session still carries the given epoch.
func (s *Service) Alive(userID string, epoch uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[userID]
	return ok && sess.Epoch == epoch
}

// RecordAbuse increments the user's abuse counter and returns the new value.
// Counters survive session deletion and never reset while the process lives.
func (s *Service) RecordAbuse(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.abuse[userID]++
	return s.abuse[userID]
}

// AbuseCount returns the user's abuse counter.
func (s *Service) AbuseCount(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.abuse[userID]
}

// RunJanitor evicts sessions idle longer than the configured TTL.
func (s *Service) RunJanitor(ctx context.Context) {
	if s.cfg.Session.IdleTTL <= 0 {
		return
	}

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(time.Now())
		}
	}
}

func (s *Service) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for userID, sess := range s.sessions {
		if idle := now.Sub(sess.LastSeen); idle > s.cfg.Session.IdleTTL {
			delete(s.sessions, userID)

			slog.Info("Evicted idle session",
				"user_id", userID,
				"idle", idle)
		}
	}
}
