package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() ItemForm {
	return ItemForm{
		Description: "Cimento Portland",
		Code:        "CIM001",
		Unit:        "UN",
		UnitPrice:   "35.50",
		Supplier:    "Fornecedor ABC Ltda",
	}
}

func TestValidateFormEmptyReportsEveryField(t *testing.T) {
	errs, ok := ValidateForm(ItemForm{})
	assert.False(t, ok)
	require.Len(t, errs, 5)
	assert.Equal(t, "Descrição é obrigatória", errs[FieldDescription])
	assert.Equal(t, "Código é obrigatório", errs[FieldCode])
	assert.Equal(t, "Unidade de medida é obrigatória", errs[FieldUnit])
	assert.Equal(t, "Valor unitário é obrigatório", errs[FieldUnitPrice])
	assert.Equal(t, "Fornecedor é obrigatório", errs[FieldSupplier])
}

func TestValidateFormBlankTextIsMissing(t *testing.T) {
	form := validForm()
	form.Description = "   "
	form.Supplier = "\t"
	errs, ok := ValidateForm(form)
	assert.False(t, ok)
	assert.Len(t, errs, 2)
	assert.True(t, errs.Has(FieldDescription))
	assert.True(t, errs.Has(FieldSupplier))
}

func TestValidateFormPriceMustBePositive(t *testing.T) {
	for _, price := range []string{"0", "-5", "0.00"} {
		form := validForm()
		form.UnitPrice = price
		errs, ok := ValidateForm(form)
		assert.False(t, ok, "price %q", price)
		assert.Equal(t, map[string]string{FieldUnitPrice: "Valor deve ser maior que zero"}, map[string]string(errs))
	}
}

func TestValidateFormPriceMustParse(t *testing.T) {
	form := validForm()
	form.UnitPrice = "dez"
	errs, ok := ValidateForm(form)
	assert.False(t, ok)
	assert.Equal(t, "Valor unitário inválido", errs[FieldUnitPrice])
}

func TestValidateFormValid(t *testing.T) {
	errs, ok := ValidateForm(validForm())
	assert.True(t, ok)
	assert.Empty(t, errs)
}

func TestItemFormSetFormatsPrice(t *testing.T) {
	var form ItemForm
	require.NoError(t, form.Set(FieldUnitPrice, "R$ 3550"))
	assert.Equal(t, "35.50", form.UnitPrice)
	require.NoError(t, form.Set(FieldCode, "CIM001"))
	assert.Equal(t, "CIM001", form.Get(FieldCode))
	assert.ErrorIs(t, form.Set("valor", "1"), ErrUnknownField)
}

func TestFieldErrorsClear(t *testing.T) {
	errs := FieldErrors{FieldCode: "x", FieldSupplier: "y"}
	errs.Clear(FieldCode)
	assert.False(t, errs.Has(FieldCode))
	assert.True(t, errs.Has(FieldSupplier))
}

func TestFormatCentsInput(t *testing.T) {
	cases := map[string]string{
		"3550":     "35.50",
		"5":        "0.05",
		"350":      "3.50",
		"35.50":    "35.50",
		"3.505":    "35.05",
		"0000":     "0.00",
		"00123":    "1.23",
		"abc":      "",
		"":         "",
		"1.234,56": "1234.56",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatCentsInput(in), "input %q", in)
	}
}

func TestFormatBRL(t *testing.T) {
	got := FormatBRL(35.5)
	assert.True(t, strings.HasPrefix(got, "R$ "), got)
	assert.Contains(t, got, "35")
}
