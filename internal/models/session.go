package models

import "time"

// EntryMode is the authentication method a session requires of joining
// participants. Exactly one credential type is authoritative per mode:
// anonymous uses the participant token, email_code uses the guest token,
// registered uses the global user session token. SSO is recognized but not
// wired to a join flow yet.
type EntryMode string

const (
	EntryAnonymous  EntryMode = "anonymous"
	EntryRegistered EntryMode = "registered"
	EntrySSO        EntryMode = "sso"
	EntryEmailCode  EntryMode = "email_code"
)

// SessionSnapshot is the public metadata returned by the session lookup
// endpoint, before any join has happened.
type SessionSnapshot struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Title     string    `json:"title"`
	EntryMode EntryMode `json:"entry_mode"`
	IsStarted bool      `json:"is_started"`
}

// Participant is one roster entry. LastSeenAt is advanced by heartbeats;
// IsActive reflects the server's liveness window.
type Participant struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"display_name"`
	EntryMode   EntryMode  `json:"entry_mode"`
	JoinedAt    time.Time  `json:"joined_at"`
	LastSeenAt  *time.Time `json:"last_seen_at"`
	IsActive    bool       `json:"is_active"`
}
