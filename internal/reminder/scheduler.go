package reminder

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mitkov/calbot/internal/logging"
)

// Scheduler schedules one-shot deliveries keyed by an identifier.
// Scheduling an identifier that is already pending replaces the
// earlier entry. All entries are in-process only.
type Scheduler struct {
	mu      sync.Mutex
	pending map[string]*time.Timer
	stopped bool
	logger  *slog.Logger
}

// NewScheduler creates an empty scheduler.
// If logger is nil, slog.Default() is used.
func NewScheduler(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		pending: make(map[string]*time.Timer),
		logger:  logging.WithOperation(logger, "reminder"),
	}
}

// Schedule registers deliver to run once at the given instant. The
// delivery runs on its own goroutine and must not block the caller.
// If at is not in the future, deliver runs almost immediately.
func (s *Scheduler) Schedule(id string, at time.Time, deliver func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	if timer, ok := s.pending[id]; ok {
		timer.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(time.Until(at), func() {
		// The callback cannot run before Schedule returns since the
		// scheduling goroutine still holds the mutex, so timer is
		// assigned by the time this lock is acquired.
		s.mu.Lock()
		owner := s.pending[id] == timer
		if owner {
			delete(s.pending, id)
		}
		stopped := s.stopped
		s.mu.Unlock()

		// A replaced or cancelled entry never delivers.
		if !owner || stopped {
			return
		}

		s.logger.Debug("reminder fired", slog.String("id", id))
		deliver()
	})
	s.pending[id] = timer

	s.logger.Debug("reminder scheduled",
		slog.String("id", id),
		slog.Time("at", at))
}

// Cancel removes a pending delivery. Cancelling an unknown or already
// fired identifier is a no-op.
func (s *Scheduler) Cancel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.pending[id]; ok {
		timer.Stop()
		delete(s.pending, id)
	}
}

// Pending returns the number of deliveries not yet fired.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Stop cancels all pending deliveries and rejects new ones.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	for id, timer := range s.pending {
		timer.Stop()
		delete(s.pending, id)
	}
}
