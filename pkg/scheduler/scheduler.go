package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/followme/attendance-cli/pkg/attendance"
	"github.com/followme/attendance-cli/pkg/logger"
	"github.com/followme/attendance-cli/pkg/token"
)

const (
	// Period is the fixed interval between periodic submission checks.
	Period = 60 * time.Second
	// StuckTimeout is how long a submission may hold the latch before the
	// scheduler assumes it is wedged and force-releases it.
	StuckTimeout = 30 * time.Second
)

// submitter is the coordinator surface the scheduler drives.
type submitter interface {
	PendingOrFailed() []attendance.Entry
	EnsureAuthenticated() (*token.Token, error)
	SubmitPending() (int, error)
}

// Scheduler opportunistically flushes the attendance queue: a periodic tick
// plus connectivity-restored events both trigger a submission check. It is
// fire-and-forget: failures never propagate past it; a failed submission
// shows up only as entry status.
type Scheduler struct {
	coord  submitter
	tokens *token.Cache

	mu              sync.Mutex
	online          bool
	submitting      bool
	submissionStart time.Time

	now func() time.Time
}

// New creates a scheduler over the given coordinator and token cache.
func New(coord submitter, tokens *token.Cache) *Scheduler {
	return &Scheduler{
		coord:  coord,
		tokens: tokens,
		now:    time.Now,
	}
}

// SetOnline records the connectivity state. The offline-to-online edge
// triggers an immediate submission check.
func (s *Scheduler) SetOnline(online bool) {
	s.mu.Lock()
	wasOnline := s.online
	s.online = online
	s.mu.Unlock()

	if online && !wasOnline {
		logger.Info("Connectivity restored")
		s.CheckAndSubmit()
	}
}

// IsOnline reports the last observed connectivity state.
func (s *Scheduler) IsOnline() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online
}

// Run ticks until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(Period)
	defer ticker.Stop()

	logger.Info("Submission scheduler started", "period", Period)
	for {
		select {
		case <-ctx.Done():
			logger.Info("Submission scheduler stopped")
			return
		case <-ticker.C:
			s.CheckAndSubmit()
		}
	}
}

// CheckAndSubmit runs one submission check. At most one submission runs at
// a time; a latch held longer than StuckTimeout is force-released so a
// wedged attempt cannot block the queue forever. The release only frees the
// local latch; an in-flight HTTP call may still complete and write its
// results, which the coordinator's status transitions tolerate.
func (s *Scheduler) CheckAndSubmit() {
	s.mu.Lock()
	if s.submitting {
		if s.now().Sub(s.submissionStart) > StuckTimeout {
			logger.Warn("Force-releasing stuck submission latch", "heldFor", s.now().Sub(s.submissionStart))
			s.submitting = false
			s.submissionStart = time.Time{}
		}
		s.mu.Unlock()
		return
	}
	online := s.online
	s.mu.Unlock()

	if !online {
		return
	}

	if len(s.coord.PendingOrFailed()) == 0 {
		return
	}

	// Pre-flight auth: a failure here returns without touching entry
	// state; only a failed submission marks entries Failed.
	if tok, err := s.tokens.Load(); err != nil || tok == nil || tok.IsExpired() {
		if _, err := s.coord.EnsureAuthenticated(); err != nil {
			logger.Debug("Skipping submission, authentication unavailable", "err", err)
			return
		}
	}

	s.submit()
}

func (s *Scheduler) submit() {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return
	}
	s.submitting = true
	s.submissionStart = s.now()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.submissionStart = time.Time{}
		s.mu.Unlock()
	}()

	count, err := s.coord.SubmitPending()
	if err != nil {
		logger.Warn("Background submission failed", "err", err)
		return
	}
	if count > 0 {
		logger.Info("Background submission complete", "attempted", count)
	}
}
