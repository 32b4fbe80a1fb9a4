package stageapi

import (
	"context"
	"fmt"

	"github.com/crowdstage/live/internal/models"
)

// RosterResponse is the participant list plus the server's active-count
// aggregate. ActiveCount is -1 when the backend predates the aggregate.
type RosterResponse struct {
	Participants []models.Participant `json:"participants"`
	ActiveCount  int                  `json:"active_count"`
}

// Participants fetches the session roster.
func (c *Client) Participants(ctx context.Context, sessionID, bearer string) (*RosterResponse, error) {
	resp := RosterResponse{ActiveCount: -1}
	if err := c.GetJSON(ctx, fmt.Sprintf(ParticipantsEndpoint, sessionID), bearer, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch participants: %w", err)
	}
	return &resp, nil
}
