package view

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/juliandevatbs/SRLIMS/internal/table"
)

// Session holds the current view. Installing a new view closes the previous
// one first, so only one view and its resources are alive at a time. All
// methods are safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	current *ChainView
	log     logrus.FieldLogger
}

func NewSession(log logrus.FieldLogger) *Session {
	return &Session{log: log}
}

// Install closes the current view and makes v current. v is installed even
// when closing the previous view fails; that error is returned.
func (s *Session) Install(v *ChainView) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.current != nil {
		err = s.current.Close()
		if err != nil {
			s.log.WithField("source", s.current.Source()).Warnf("Error closing view: %s", err)
		}
	}

	s.current = v
	if v != nil {
		s.log.WithField("source", v.Source()).Debug("view installed")
	}

	return err
}

// Do runs fn with the current view while holding the session lock. It fails
// with table.ErrNotFound when no view is installed.
func (s *Session) Do(fn func(v *ChainView) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return errors.Wrap(table.ErrNotFound, "no data source loaded")
	}

	return fn(s.current)
}

// Close closes the current view and leaves the session empty.
func (s *Session) Close() error {
	return s.Install(nil)
}
