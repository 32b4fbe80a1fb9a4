// Package join owns how an unauthenticated visitor becomes a session
// participant. The flow is an explicit state machine: transition is pure,
// and the Negotiator is the shell that performs network effects and feeds
// the resulting events back in.
package join

import "github.com/crowdstage/live/internal/models"

// Kind tags the active State variant.
type Kind string

const (
	// KindLoading is the initial state while session metadata loads.
	KindLoading Kind = "loading"
	// KindSessionInfo shows session metadata; the visitor has not joined.
	// This is the actionable fallback for rejected join attempts.
	KindSessionInfo Kind = "session_info"
	// KindEmailRequest is the email-code flow waiting for code entry.
	KindEmailRequest Kind = "email_request"
	// KindLoginRedirect means registered entry needs a user login first.
	KindLoginRedirect Kind = "login_redirect"
	// KindNotAvailable is the defined dead-end for entry modes with no
	// join capability (SSO). Not an error.
	KindNotAvailable Kind = "not_available"
	// KindJoined is terminal for the negotiator; session content takes
	// over from here.
	KindJoined Kind = "joined"
	// KindFailed is terminal: session context could not be established at
	// all. Only the initial load reaches it.
	KindFailed Kind = "failed"
)

// State is the negotiator's tagged union. Kind selects which fields are
// meaningful; Message carries either the terminal failure text (KindFailed)
// or an inline rejection on an actionable state.
type State struct {
	Kind    Kind
	Session *models.SessionSnapshot

	// KindEmailRequest
	Email   string
	DevCode string

	// KindLoginRedirect
	ReturnPath string

	// KindJoined
	SessionID     string
	ParticipantID string
	Mode          models.EntryMode

	Message string
}

type event interface{ isEvent() }

type evSessionLoaded struct{ session *models.SessionSnapshot }
type evLoadFailed struct{ message string }
type evJoined struct {
	sessionID     string
	participantID string
	mode          models.EntryMode
}
type evCodeRequested struct{ email, devCode string }
type evRejected struct{ message string }
type evLoginRequired struct{ returnPath string }
type evNotAvailable struct{}

func (evSessionLoaded) isEvent() {}
func (evLoadFailed) isEvent()    {}
func (evJoined) isEvent()        {}
func (evCodeRequested) isEvent() {}
func (evRejected) isEvent()      {}
func (evLoginRequired) isEvent() {}
func (evNotAvailable) isEvent()  {}

// transition is the pure state-transition function. Joined and Failed are
// terminal; rejections keep the current actionable state and only attach a
// message, so the visitor can always retry.
func transition(s State, e event) State {
	switch s.Kind {
	case KindJoined, KindFailed:
		return s
	}

	switch ev := e.(type) {
	case evSessionLoaded:
		return State{Kind: KindSessionInfo, Session: ev.session}
	case evLoadFailed:
		return State{Kind: KindFailed, Message: ev.message}
	case evJoined:
		return State{
			Kind:          KindJoined,
			Session:       s.Session,
			SessionID:     ev.sessionID,
			ParticipantID: ev.participantID,
			Mode:          ev.mode,
		}
	case evCodeRequested:
		return State{
			Kind:    KindEmailRequest,
			Session: s.Session,
			Email:   ev.email,
			DevCode: ev.devCode,
		}
	case evRejected:
		next := s
		next.Message = ev.message
		return next
	case evLoginRequired:
		return State{Kind: KindLoginRedirect, Session: s.Session, ReturnPath: ev.returnPath}
	case evNotAvailable:
		return State{Kind: KindNotAvailable, Session: s.Session}
	}
	return s
}
