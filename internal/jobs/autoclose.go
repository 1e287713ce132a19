package jobs

import (
	"context"
	"sync"
	"time"

	"the-code-sage/guildhall/internal/logging"
)

// CloseFunc performs the actual close. It returns true only when this call
// transitioned the mission, so a timer firing after a manual close is a
// silent no-op.
type CloseFunc func(ctx context.Context, missionID int64, trigger string) (bool, error)

// AutoCloseScheduler arms one cancellable timer per mission. Evaluations arm
// the long fuse, explicit close requests re-arm a short one, and a mission
// reaching CLOSED by any path disarms whatever is pending.
type AutoCloseScheduler struct {
	closeFn CloseFunc

	mu     sync.Mutex
	timers map[int64]*time.Timer
}

func NewAutoCloseScheduler(closeFn CloseFunc) *AutoCloseScheduler {
	return &AutoCloseScheduler{
		closeFn: closeFn,
		timers:  make(map[int64]*time.Timer),
	}
}

// Schedule arms (or re-arms) the close timer for a mission. A later call
// replaces the pending fuse, so repeated evaluations keep pushing the
// deadline out.
func (s *AutoCloseScheduler) Schedule(missionID int64, delay time.Duration, trigger string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.timers[missionID]; ok {
		existing.Stop()
	}

	s.timers[missionID] = time.AfterFunc(delay, func() {
		s.fire(missionID, trigger)
	})

	logging.Debug("Mission close scheduled",
		"mission_id", missionID, "delay", delay.String(), "trigger", trigger)
}

// Cancel disarms the pending timer for a mission, reporting whether one was
// armed.
func (s *AutoCloseScheduler) Cancel(missionID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer, ok := s.timers[missionID]
	if !ok {
		return false
	}
	timer.Stop()
	delete(s.timers, missionID)
	return true
}

// Pending reports whether a close timer is armed for the mission.
func (s *AutoCloseScheduler) Pending(missionID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[missionID]
	return ok
}

// Shutdown disarms every pending timer.
func (s *AutoCloseScheduler) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

func (s *AutoCloseScheduler) fire(missionID int64, trigger string) {
	s.mu.Lock()
	delete(s.timers, missionID)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := s.closeFn(ctx, missionID, trigger); err != nil {
		logging.Error("Scheduled mission close failed",
			"mission_id", missionID, "trigger", trigger, "error", err.Error())
	}
}
