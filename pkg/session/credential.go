//
//  Copyright © PortalGuard Authors. All rights reserved.
//

package session

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/balaipom/portalguard/pkg/core/config"
	"github.com/pkg/errors"
)

// CredentialSlot holds at most one opaque token string across
// restarts. A missing credential reads as the empty string, not an
// error.
type CredentialSlot interface {
	// Read returns the stored token, or "" when none is stored.
	Read() (string, error)

	// Write stores the token, replacing any previous value.
	Write(token string) error

	// Delete removes the stored token. Deleting an empty slot is a
	// no-op.
	Delete() error
}

// FileSlot persists the token in a single file with 0600 permissions.
type FileSlot struct {
	path string
}

// NewFileSlot creates a [FileSlot] at an explicit path.
func NewFileSlot(path string) *FileSlot {
	return &FileSlot{path: path}
}

// NewConfiguredFileSlot creates a [FileSlot] at the path named by the
// session.credential-file configuration key.
func NewConfiguredFileSlot() *FileSlot {
	return NewFileSlot(config.VConfig.GetString(config.CredentialFile))
}

// Read returns the stored token. A missing file reads as "".
func (s *FileSlot) Read() (string, error) {
	data, err := os.ReadFile(filepath.Clean(s.path))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrap(err, "reading credential slot")
	}
	return strings.TrimSpace(string(data)), nil
}

// Write stores the token with owner-only permissions.
func (s *FileSlot) Write(token string) error {
	if err := os.WriteFile(s.path, []byte(token), 0600); err != nil {
		return errors.Wrap(err, "writing credential slot")
	}
	return nil
}

// Delete removes the credential file, tolerating a missing file.
func (s *FileSlot) Delete() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "deleting credential slot")
	}
	return nil
}

// MemorySlot holds the token in process memory only. Intended for
// tests and ephemeral sessions.
type MemorySlot struct {
	mu    sync.Mutex
	token string
}

// NewMemorySlot creates an empty [MemorySlot].
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

// Read returns the stored token.
func (s *MemorySlot) Read() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

// Write stores the token.
func (s *MemorySlot) Write(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Delete clears the stored token.
func (s *MemorySlot) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

var _ CredentialSlot = (*FileSlot)(nil)
var _ CredentialSlot = (*MemorySlot)(nil)
