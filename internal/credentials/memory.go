package credentials

import "sync"

// Memory is an in-process Store for tests and short-lived tools.
type Memory struct {
	mu          sync.Mutex
	participant string
	guest       string
	user        string
	fingerprint string
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) ParticipantToken() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.participant, m.participant != ""
}

func (m *Memory) SetParticipantToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.participant = token
	return nil
}

func (m *Memory) GuestToken() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.guest, m.guest != ""
}

func (m *Memory) SetGuestToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.guest = token
	return nil
}

func (m *Memory) UserToken() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user, m.user != ""
}

func (m *Memory) SetUserToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = token
	return nil
}

func (m *Memory) Fingerprint() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fingerprint == "" {
		m.fingerprint = newFingerprint()
	}
	return m.fingerprint, nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.participant, m.guest, m.user = "", "", ""
	return nil
}
