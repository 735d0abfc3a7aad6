// Package memory implements an in-memory contact directory.
package memory

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"icalbridge/directory"
)

// Store implements directory.Directory backed by a map. Lookups are
// case-insensitive on the email address.
type Store struct {
	mu       sync.RWMutex
	contacts map[string]directory.Contact // map[lowercased email]Contact
	logger   *slog.Logger
}

// New creates a new in-memory contact directory
func New(opts ...Option) *Store {
	s := &Store{
		contacts: make(map[string]directory.Contact),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	// Apply options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Option represents a configuration option for the Store
type Option func(*Store)

// WithLogger sets the logger for the store
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// AddContact adds a contact to the store, keyed by its email address
func (s *Store) AddContact(c directory.Contact) error {
	email := strings.ToLower(strings.TrimSpace(c.Email))
	if email == "" {
		return fmt.Errorf("contact has no email address")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.contacts[email]; exists {
		s.logger.Warn("failed to add contact: already exists",
			"email", email)
		return fmt.Errorf("contact already exists: %s", email)
	}

	s.contacts[email] = c

	s.logger.Info("contact added successfully",
		"email", email,
		"id", c.ID)

	return nil
}

// LookupByEmail implements directory.Directory
func (s *Store) LookupByEmail(email string) (*directory.Contact, bool) {
	s.mu.RLock()
	c, exists := s.contacts[strings.ToLower(strings.TrimSpace(email))]
	s.mu.RUnlock()

	if !exists {
		s.logger.Debug("contact lookup miss",
			"email", email)
		return nil, false
	}

	s.logger.Debug("contact lookup hit",
		"email", email,
		"id", c.ID)

	contact := c
	return &contact, true
}
