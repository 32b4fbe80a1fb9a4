package stageapi

import (
	"context"
	"fmt"

	"github.com/crowdstage/live/internal/models"
)

// AnonymousJoinRequest joins a session without an account. The device
// fingerprint lets the backend dedupe repeat joins from the same device, so
// re-joining after a page reload resolves to the existing participant.
type AnonymousJoinRequest struct {
	DisplayName       string `json:"display_name,omitempty"`
	DeviceFingerprint string `json:"device_fingerprint"`
}

// JoinResult identifies the participant the caller became. ParticipantToken
// is only set by the anonymous join endpoint.
type JoinResult struct {
	SessionID        string `json:"session_id"`
	ParticipantID    string `json:"participant_id"`
	ParticipantToken string `json:"participant_token,omitempty"`
}

type emailCodeRequest struct {
	Email string `json:"email"`
}

// EmailCodeResponse echoes a verification code in development environments
// so the flow can be exercised without a mail server.
type EmailCodeResponse struct {
	DevCode string `json:"dev_code,omitempty"`
}

type emailVerifyRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	DisplayName string `json:"display_name,omitempty"`
}

// EmailVerifyResponse carries the guest token used for the follow-up guest
// join and for subsequent heartbeats.
type EmailVerifyResponse struct {
	GuestToken string `json:"guest_token"`
}

// SessionByCode looks up public session metadata by its short passcode.
func (c *Client) SessionByCode(ctx context.Context, code string) (*models.SessionSnapshot, error) {
	var snapshot models.SessionSnapshot
	if err := c.GetJSON(ctx, fmt.Sprintf(SessionByCodeEndpoint, code), "", &snapshot); err != nil {
		return nil, fmt.Errorf("failed to look up session %q: %w", code, err)
	}
	return &snapshot, nil
}

// JoinAnonymous joins without credentials. bearer may carry an existing
// participant token, in which case the backend resolves to the same
// participant instead of creating a new one.
func (c *Client) JoinAnonymous(ctx context.Context, sessionID, bearer string, req AnonymousJoinRequest) (*JoinResult, error) {
	var result JoinResult
	if err := c.PostJSON(ctx, fmt.Sprintf(JoinAnonymousEndpoint, sessionID), bearer, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// JoinRegistered joins using the global user session token.
func (c *Client) JoinRegistered(ctx context.Context, sessionID, userToken string) (*JoinResult, error) {
	var result JoinResult
	if err := c.PostJSON(ctx, fmt.Sprintf(JoinRegisteredEndpoint, sessionID), userToken, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// JoinGuest joins using a guest token obtained from email-code verification.
func (c *Client) JoinGuest(ctx context.Context, sessionID, guestToken string) (*JoinResult, error) {
	var result JoinResult
	if err := c.PostJSON(ctx, fmt.Sprintf(JoinGuestEndpoint, sessionID), guestToken, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RequestEmailCode asks the backend to mail a verification code.
func (c *Client) RequestEmailCode(ctx context.Context, sessionID, email string) (*EmailCodeResponse, error) {
	var resp EmailCodeResponse
	if err := c.PostJSON(ctx, fmt.Sprintf(EmailCodeRequestEndpoint, sessionID), "", emailCodeRequest{Email: email}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyEmailCode exchanges a mailed code for a guest token.
func (c *Client) VerifyEmailCode(ctx context.Context, sessionID, email, code, displayName string) (*EmailVerifyResponse, error) {
	var resp EmailVerifyResponse
	req := emailVerifyRequest{Email: email, Code: code, DisplayName: displayName}
	if err := c.PostJSON(ctx, fmt.Sprintf(EmailCodeVerifyEndpoint, sessionID), "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Heartbeat signals liveness for a joined participant. bearer must be the
// token that is authoritative for mode.
func (c *Client) Heartbeat(ctx context.Context, sessionID string, mode models.EntryMode, bearer string) error {
	return c.PostJSON(ctx, fmt.Sprintf(HeartbeatEndpoint, sessionID, mode), bearer, nil, nil)
}
