// Package search implements the item lookup page: filter state, the local
// preview over the demonstration catalog and the remote search action.
package search

import (
	"github.com/almoxarifado/catalogo/internal/catalog"
	"github.com/almoxarifado/catalogo/internal/shared"
)

const sessionKey = "search.state"

// State is the mutable page state kept per browser session.
type State struct {
	Filters         catalog.FilterCriteria `json:"filters"`
	Results         []catalog.Item         `json:"results"`
	SearchPerformed bool                   `json:"search_performed"`
	Loading         bool                   `json:"loading"`
	FilterOpen      bool                   `json:"filter_open"`
}

// NewState returns the initial page state: no filters, no results, panel open.
func NewState() State {
	return State{Results: []catalog.Item{}, FilterOpen: true}
}

// SetFilter updates one filter field by form name.
func (s *State) SetFilter(field, value string) error {
	return s.Filters.Set(field, value)
}

// Clear resets filters, results and the search performed flag.
func (s *State) Clear() {
	s.Filters = catalog.FilterCriteria{}
	s.Results = []catalog.Item{}
	s.SearchPerformed = false
}

// TogglePanel opens or collapses the filter panel.
func (s *State) TogglePanel() {
	s.FilterOpen = !s.FilterOpen
}

// ActiveFilters is the number of non-empty filter fields.
func (s State) ActiveFilters() int {
	return s.Filters.ActiveCount()
}

// Preview applies the current filters to the demonstration catalog.
func (s State) Preview() []catalog.Item {
	return catalog.Filter(catalog.MockItems(), s.Filters)
}

// LoadState reads the page state from the session, falling back to NewState.
func LoadState(sess *shared.Session) State {
	st := NewState()
	if sess == nil || !sess.Decode(sessionKey, &st) {
		return NewState()
	}
	if st.Results == nil {
		st.Results = []catalog.Item{}
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
