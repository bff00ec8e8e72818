package catalog

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Form field names of the registration page.
const (
	FieldDescription = "descricao"
	FieldCode        = "codigo"
	FieldUnit        = "unidade_medida"
	FieldUnitPrice   = "valor_unitario"
	FieldSupplier    = "fornecedor"
)

// FormFields lists the registration fields in display order.
var FormFields = []string{FieldDescription, FieldCode, FieldUnit, FieldUnitPrice, FieldSupplier}

const (
	msgPriceNotPositive = "Valor deve ser maior que zero"
	msgPriceInvalid     = "Valor unitário inválido"
)

var requiredMessages = map[string]string{
	FieldDescription: "Descrição é obrigatória",
	FieldCode:        "Código é obrigatório",
	FieldUnit:        "Unidade de medida é obrigatória",
	FieldUnitPrice:   "Valor unitário é obrigatório",
	FieldSupplier:    "Fornecedor é obrigatório",
}

// ItemForm mirrors the registration form inputs.
type ItemForm struct {
	Description string `json:"descricao"`
	Code        string `json:"codigo"`
	Unit        string `json:"unidade_medida"`
	UnitPrice   string `json:"valor_unitario"`
	Supplier    string `json:"fornecedor"`
}

// Get returns the value of a field by its form name.
func (f ItemForm) Get(field string) string {
	switch field {
	case FieldDescription:
		return f.Description
	case FieldCode:
		return f.Code
	case FieldUnit:
		return f.Unit
	case FieldUnitPrice:
		return f.UnitPrice
	case FieldSupplier:
		return f.Supplier
	}
	return ""
}

// Set updates a field by its form name. Price input goes through
// FormatCentsInput, mirroring the cents-first money input of the page.
func (f *ItemForm) Set(field, value string) error {
	switch field {
	case FieldDescription:
		f.Description = value
	case FieldCode:
		f.Code = value
	case FieldUnit:
		f.Unit = value
	case FieldUnitPrice:
		f.UnitPrice = FormatCentsInput(value)
	case FieldSupplier:
		f.Supplier = value
	default:
		return ErrUnknownField
	}
	return nil
}

// FieldErrors maps form field names to their validation message.
type FieldErrors map[string]string

// Has reports whether field currently carries an error.
func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Clear drops the error of a single field.
func (e FieldErrors) Clear(field string) {
	delete(e, field)
}

// itemInput is the validated projection of ItemForm.
type itemInput struct {
	Description string `form:"descricao" validate:"required"`
	Code        string `form:"codigo" validate:"required"`
	Unit        string `form:"unidade_medida" validate:"required"`
	UnitPrice   string `form:"valor_unitario" validate:"required,positive_amount"`
	Supplier    string `form:"fornecedor" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("form")
	})
	if err := v.RegisterValidation("positive_amount", positiveAmount); err != nil {
		panic(err)
	}
	return v
}

func positiveAmount(fl validator.FieldLevel) bool {
	v, ok := ParseAmount(fl.Field().String())
	return ok && v > 0
}

// ValidateForm checks every required field and the price rule. It reports the
// errors found and whether the form may be submitted.
func ValidateForm(form ItemForm) (FieldErrors, bool) {
	input := itemInput{
		Description: strings.TrimSpace(form.Description),
		Code:        strings.TrimSpace(form.Code),
		Unit:        form.Unit,
		UnitPrice:   form.UnitPrice,
		Supplier:    strings.TrimSpace(form.Supplier),
	}
	errs := FieldErrors{}
	err := validate.Struct(input)
	if err == nil {
		return errs, true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs[FieldUnitPrice] = msgPriceInvalid
		return errs, false
	}
	for _, fe := range verrs {
		errs[fe.Field()] = fieldMessage(fe)
	}
	return errs, false
}

func fieldMessage(fe validator.FieldError) string {
	if fe.Tag() == "positive_amount" {
		if _, ok := ParseAmount(fe.Value().(string)); !ok {
			return msgPriceInvalid
		}
		return msgPriceNotPositive
	}
	if msg, ok := requiredMessages[fe.Field()]; ok {
		return msg
	}
	return fe.Error()
}
