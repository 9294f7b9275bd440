package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/djherbis/times"

	"github.com/pfrederiksen/gig-o-download/internal/crypto"
	"github.com/pfrederiksen/gig-o-download/internal/logger"
)

// Store persists the auth token in a single cache file
type Store struct {
	path string
	enc  *crypto.Encryptor
	ttl  time.Duration

	now       func() time.Time
	createdAt func(path string) (time.Time, error)
}

// NewStore creates a Store for the token file at path. enc may be nil to
// store the token in plaintext.
func NewStore(path string, enc *crypto.Encryptor, ttl time.Duration) *Store {
	return &Store{
		path:      path,
		enc:       enc,
		ttl:       ttl,
		now:       time.Now,
		createdAt: fileCreatedAt,
	}
}

// Path returns the token file location
func (s *Store) Path() string {
	return s.path
}

// Load returns the cached token. ok is false when no token file exists.
func (s *Store) Load() (token string, ok bool, err error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading auth token: %w", err)
	}

	token, err = s.enc.Decrypt(strings.TrimSpace(string(data)))
	if err != nil {
		return "", false, fmt.Errorf("decrypting auth token: %w", err)
	}
	return token, true, nil
}

// Save writes a new token file, replacing any existing one so its creation
// time starts over.
func (s *Store) Save(token string) error {
	stored, err := s.enc.Encrypt(token)
	if err != nil {
		return fmt.Errorf("encrypting auth token: %w", err)
	}

	if err := s.Invalidate(); err != nil {
		return err
	}
	if err := os.WriteFile(s.path, []byte(stored), 0600); err != nil {
		return fmt.Errorf("writing auth token: %w", err)
	}
	return nil
}

// Invalidate deletes the token file. A missing file is not an error.
func (s *Store) Invalidate() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing auth token: %w", err)
	}
	return nil
}

// ExpireStale deletes the token file when it was created ttl or more ago and
// reports whether it did. Called once at startup; Load never checks age.
func (s *Store) ExpireStale() (bool, error) {
	created, err := s.createdAt(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("checking auth token age: %w", err)
	}

	age := s.now().Sub(created)
	if age < s.ttl {
		return false, nil
	}

	logger.Info("Expiring cached auth token", logger.Fields{
		"path": s.path,
		"age":  age.Round(time.Minute).String(),
	})
	return true, s.Invalidate()
}

// fileCreatedAt returns the file's birth time where the platform records one,
// otherwise its status change time, otherwise its modification time.
func fileCreatedAt(path string) (time.Time, error) {
	ts, err := times.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	switch {
	case ts.HasBirthTime():
		return ts.BirthTime(), nil
	case ts.HasChangeTime():
		return ts.ChangeTime(), nil
	default:
		return ts.ModTime(), nil
	}
}
