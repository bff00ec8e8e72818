// Package newitem implements the item registration page.
package newitem

import (
	"github.com/almoxarifado/catalogo/internal/catalog"
	"github.com/almoxarifado/catalogo/internal/shared"
)

const sessionKey = "newitem.state"

// State is the registration page state kept per browser session.
type State struct {
	Form    catalog.ItemForm    `json:"form"`
	Errors  catalog.FieldErrors `json:"errors"`
	Loading bool                `json:"loading"`
}

// NewState returns an empty form without errors.
func NewState() State {
	return State{Errors: catalog.FieldErrors{}}
}

// Change updates one field and drops its validation error.
func (s *State) Change(field, value string) error {
	if err := s.Form.Set(field, value); err != nil {
		return err
	}
	if s.Errors == nil {
		s.Errors = catalog.FieldErrors{}
	}
	s.Errors.Clear(field)
	return nil
}

// Reset empties the form and its errors.
func (s *State) Reset() {
	s.Form = catalog.ItemForm{}
	s.Errors = catalog.FieldErrors{}
}

// LoadState reads the page state from the session.
func LoadState(sess *shared.Session) State {
	st := NewState()
	if sess == nil || !sess.Decode(sessionKey, &st) {
		return NewState()
	}
	if st.Errors == nil {
		st.Errors = catalog.FieldErrors{}
	}
	return st
}

// SaveState writes the page state into the session.
func SaveState(sess *shared.Session, st State) error {
	if sess == nil {
		return shared.ErrSessionMissing
	}
	return sess.Encode(sessionKey, st)
}
