package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almoxarifado/catalogo/internal/catalog"
	"github.com/almoxarifado/catalogo/internal/shared"
)

func TestNewStateOpensPanelWithoutResults(t *testing.T) {
	st := NewState()
	assert.True(t, st.FilterOpen)
	assert.False(t, st.SearchPerformed)
	assert.Empty(t, st.Results)
	assert.Equal(t, 0, st.ActiveFilters())
	assert.Len(t, st.Preview(), len(catalog.MockItems()))
}

func TestClearResetsFiltersAndResults(t *testing.T) {
	st := NewState()
	require.NoError(t, st.SetFilter(catalog.FilterCode, "CIM001"))
	require.NoError(t, st.SetFilter(catalog.FilterMaxPrice, "50"))
	st.Results = []catalog.Item{{Code: "CIM001"}}
	st.SearchPerformed = true
	st.FilterOpen = false

	st.Clear()
	assert.Equal(t, 0, st.ActiveFilters())
	assert.Empty(t, st.Results)
	assert.False(t, st.SearchPerformed)
	assert.False(t, st.FilterOpen, "panel state is untouched by clear")
}

func TestSetFilterRejectsUnknownField(t *testing.T) {
	st := NewState()
	assert.ErrorIs(t, st.SetFilter("preco", "1"), catalog.ErrUnknownField)
}

func TestPreviewDescriptionCimento(t *testing.T) {
	st := NewState()
	require.NoError(t, st.SetFilter(catalog.FilterDescription, "Cimento"))
	preview := st.Preview()
	require.Len(t, preview, 1)
	assert.Equal(t, "CIM001", preview[0].Code)
}

func TestTogglePanel(t *testing.T) {
	st := NewState()
	st.TogglePanel()
	assert.False(t, st.FilterOpen)
	st.TogglePanel()
	assert.True(t, st.FilterOpen)
}

func TestStateSessionRoundTrip(t *testing.T) {
	sess := &shared.Session{ID: "s"}
	assert.Equal(t, NewState(), LoadState(sess))

	st := NewState()
	require.NoError(t, st.SetFilter(catalog.FilterSupplier, "ABC"))
	st.SearchPerformed = true
	st.Results = []catalog.Item{{ID: "1", Code: "CIM001", UnitPrice: 35.5}}
	require.NoError(t, SaveState(sess, st))

	assert.Equal(t, st, LoadState(sess))
	assert.ErrorIs(t, SaveState(nil, st), shared.ErrSessionMissing)
}

func TestLoadStateIgnoresCorruptPayload(t *testing.T) {
	sess := &shared.Session{ID: "s"}
	require.NoError(t, sess.Encode(sessionKey, "not a page state"))
	assert.Equal(t, NewState(), LoadState(sess))
}
