package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// SessionSweepJobID identifies the job removing idle sessions.
const SessionSweepJobID = "session-sweep"

// AddSessionSweep schedules sweep every interval. Runs never overlap.
func (s *Scheduler) AddSessionSweep(interval time.Duration, sweep JobFunc) error {
	if interval <= 0 {
		return fmt.Errorf("invalid sweep interval %s", interval)
	}
	return s.AddSingletonJob(
		SessionSweepJobID,
		"Session sweep",
		"Removes sessions that have been idle for longer than the idle timeout",
		"every "+interval.String(),
		gocron.DurationJob(interval),
		sweep,
	)
}
