package bot

import (
	"time"

	"golang.org/x/exp/rand"
)

// DelayBounds is the inclusive [min, max] range the bot's move delay is
// drawn from uniformly, per §4.7's scheduling rule.
type DelayBounds struct {
	Min time.Duration
	Max time.Duration
}

// DefaultDelayBounds matches §4.7's [1500, 3500] ms window.
var DefaultDelayBounds = DelayBounds{Min: 1500 * time.Millisecond, Max: 3500 * time.Millisecond}

// Scheduler arms a one-shot timer that feeds a "bot move ready" event into
// the caller's serialized event loop, the same shape as the teacher's
// periodic ping ticker in hub.go generalized from a fixed interval to a
// single random-delay fire. At most one timer is armed at a time; arming
// again cancels whatever is pending.
type Scheduler struct {
	bounds DelayBounds
	rng    *rand.Rand
	timer  *time.Timer
}

// NewScheduler returns a scheduler drawing delays from bounds using rng.
func NewScheduler(bounds DelayBounds, rng *rand.Rand) *Scheduler {
	return &Scheduler{bounds: bounds, rng: rng}
}

// Arm cancels any pending timer and starts a new one that calls fire after a
// uniformly random delay in the scheduler's bounds. fire is invoked on its
// own goroutine — per §5's ordering guarantees, the caller must post it as
// an event onto the engine's channel rather than mutate state directly.
func (s *Scheduler) Arm(fire func()) {
	s.Cancel()
	delay := s.bounds.Min
	span := s.bounds.Max - s.bounds.Min
	if span > 0 {
		delay += time.Duration(s.rng.Int63n(int64(span) + 1))
	}
	s.timer = time.AfterFunc(delay, fire)
}

// Cancel disarms any pending timer. Idempotent: safe to call when nothing is
// armed, matching §5's cancellation guarantee.
func (s *Scheduler) Cancel() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
