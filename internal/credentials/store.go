// Package credentials owns the client-side tokens that survive reloads: the
// participant token (anonymous entry), the guest token (email-code entry),
// the global user session token (registered entry), and the device
// fingerprint. The store is an injected dependency so the core never touches
// ambient storage directly.
package credentials

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/crowdstage/live/internal/models"
)

// ErrMissingCredential means the token that is authoritative for the current
// entry mode is absent. Callers must stop with a defined auth-error rather
// than silently trying another token.
var ErrMissingCredential = errors.New("authoritative credential for entry mode is missing")

// ErrUnsupportedEntryMode means the mode has no join capability wired
// (currently SSO).
var ErrUnsupportedEntryMode = errors.New("entry mode has no join capability")

// Store is the persistence surface for client credentials.
type Store interface {
	ParticipantToken() (string, bool)
	SetParticipantToken(token string) error
	GuestToken() (string, bool)
	SetGuestToken(token string) error
	UserToken() (string, bool)
	SetUserToken(token string) error
	// Fingerprint returns a stable per-device id, minting one on first use.
	Fingerprint() (string, error)
	Clear() error
}

// Authoritative returns the one token that is valid for mode. Exactly one
// token type is authoritative per mode; a missing token is
// ErrMissingCredential, never a fallback to another token.
func Authoritative(store Store, mode models.EntryMode) (string, error) {
	switch mode {
	case models.EntryAnonymous:
		if token, ok := store.ParticipantToken(); ok {
			return token, nil
		}
	case models.EntryEmailCode:
		if token, ok := store.GuestToken(); ok {
			return token, nil
		}
	case models.EntryRegistered:
		if token, ok := store.UserToken(); ok {
			return token, nil
		}
	case models.EntrySSO:
		return "", ErrUnsupportedEntryMode
	default:
		return "", fmt.Errorf("unknown entry mode %q", mode)
	}
	return "", fmt.Errorf("%w: %s", ErrMissingCredential, mode)
}

func newFingerprint() string {
	return uuid.New().String()
}
