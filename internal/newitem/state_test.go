package newitem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almoxarifado/catalogo/internal/catalog"
	"github.com/almoxarifado/catalogo/internal/shared"
)

func TestChangeClearsOnlyThatFieldError(t *testing.T) {
	st := NewState()
	errs, ok := catalog.ValidateForm(st.Form)
	require.False(t, ok)
	st.Errors = errs
	require.Len(t, st.Errors, 5)

	require.NoError(t, st.Change(catalog.FieldCode, "CIM001"))
	assert.False(t, st.Errors.Has(catalog.FieldCode))
	assert.Len(t, st.Errors, 4)
	assert.Equal(t, "CIM001", st.Form.Code)
}

func TestChangeFormatsPriceAsCents(t *testing.T) {
	st := NewState()
	require.NoError(t, st.Change(catalog.FieldUnitPrice, "3550"))
	assert.Equal(t, "35.50", st.Form.UnitPrice)
	require.NoError(t, st.Change(catalog.FieldUnitPrice, "R$ 5"))
	assert.Equal(t, "0.05", st.Form.UnitPrice)
}

func TestChangeUnknownField(t *testing.T) {
	st := NewState()
	assert.ErrorIs(t, st.Change("cor", "azul"), catalog.ErrUnknownField)
}

func TestStateSessionRoundTrip(t *testing.T) {
	sess := &shared.Session{ID: "s"}
	assert.Equal(t, NewState(), LoadState(sess))

	st := NewState()
	require.NoError(t, st.Change(catalog.FieldDescription, "Cimento"))
	st.Errors[catalog.FieldCode] = "Código é obrigatório"
	require.NoError(t, SaveState(sess, st))
	assert.Equal(t, st, LoadState(sess))

	assert.ErrorIs(t, SaveState(nil, st), shared.ErrSessionMissing)
}
