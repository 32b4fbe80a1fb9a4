package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

type fileState struct {
	ParticipantToken string `json:"participant_token,omitempty"`
	GuestToken       string `json:"guest_token,omitempty"`
	UserToken        string `json:"user_token,omitempty"`
	Fingerprint      string `json:"device_fingerprint,omitempty"`
}

// File is a Store backed by a JSON file, the CLI stand-in for browser local
// storage. Writes go through a temp file and rename.
type File struct {
	path string

	mu    sync.Mutex
	state fileState
}

var _ Store = (*File)(nil)

// OpenFile loads an existing credential file or starts empty when none
// exists yet.
func OpenFile(path string) (*File, error) {
	f := &File{path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}
	if err := json.Unmarshal(data, &f.state); err != nil {
		return nil, fmt.Errorf("failed to parse credential file: %w", err)
	}
	return f, nil
}

func (f *File) ParticipantToken() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.ParticipantToken, f.state.ParticipantToken != ""
}

func (f *File) SetParticipantToken(token string) error {
	return f.update(func(s *fileState) { s.ParticipantToken = token })
}

func (f *File) GuestToken() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.GuestToken, f.state.GuestToken != ""
}

func (f *File) SetGuestToken(token string) error {
	return f.update(func(s *fileState) { s.GuestToken = token })
}

func (f *File) UserToken() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.UserToken, f.state.UserToken != ""
}

func (f *File) SetUserToken(token string) error {
	return f.update(func(s *fileState) { s.UserToken = token })
}

func (f *File) Fingerprint() (string, error) {
	f.mu.Lock()
	if f.state.Fingerprint != "" {
		fp := f.state.Fingerprint
		f.mu.Unlock()
		return fp, nil
	}
	f.mu.Unlock()

	fp := newFingerprint()
	if err := f.update(func(s *fileState) { s.Fingerprint = fp }); err != nil {
		return "", err
	}
	return fp, nil
}

func (f *File) Clear() error {
	return f.update(func(s *fileState) {
		s.ParticipantToken, s.GuestToken, s.UserToken = "", "", ""
	})
}

func (f *File) update(mutate func(*fileState)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	mutate(&f.state)

	data, err := json.MarshalIndent(f.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed to create credential dir: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace credential file: %w", err)
	}
	return nil
}
