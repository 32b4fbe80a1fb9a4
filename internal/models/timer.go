package models

import "time"

// TimerStatus is the server-side lifecycle of a timer module.
type TimerStatus string

const (
	TimerIdle     TimerStatus = "idle"
	TimerRunning  TimerStatus = "running"
	TimerPaused   TimerStatus = "paused"
	TimerFinished TimerStatus = "finished"
)

// TimerState is the timer module's server state. EndsAt is set while
// running; RemainingSeconds is set while paused. Clients derive the
// displayed remaining time from these plus their own clock.
type TimerState struct {
	DurationSeconds  int         `json:"duration_seconds"`
	Status           TimerStatus `json:"status"`
	EndsAt           *time.Time  `json:"ends_at"`
	RemainingSeconds *int        `json:"remaining_seconds"`
}
