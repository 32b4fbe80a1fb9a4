package stageapi

import (
	"context"
	"fmt"

	"github.com/crowdstage/live/internal/models"
)

type setTimerRequest struct {
	DurationSeconds int `json:"duration_seconds"`
}

// TimerState fetches the timer module's current server state.
func (c *Client) TimerState(ctx context.Context, sessionID, moduleID, bearer string) (*models.TimerState, error) {
	var state models.TimerState
	if err := c.GetJSON(ctx, fmt.Sprintf(TimerEndpoint, sessionID, moduleID), bearer, &state); err != nil {
		return nil, fmt.Errorf("failed to fetch timer state: %w", err)
	}
	return &state, nil
}

// TimerAction performs one of the TimerAction* verbs (start, pause, resume,
// reset).
func (c *Client) TimerAction(ctx context.Context, sessionID, moduleID, bearer, action string) error {
	return c.PostJSON(ctx, fmt.Sprintf(TimerActionEndpoint, sessionID, moduleID, action), bearer, nil, nil)
}

// SetTimer replaces the timer's configured duration.
func (c *Client) SetTimer(ctx context.Context, sessionID, moduleID, bearer string, durationSeconds int) error {
	return c.PutJSON(ctx, fmt.Sprintf(TimerEndpoint, sessionID, moduleID), bearer, setTimerRequest{DurationSeconds: durationSeconds}, nil)
}
