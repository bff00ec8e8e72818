package catalog

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Form field names shared by the filter form, its handlers and templates.
const (
	FilterCode        = "codigo"
	FilterDescription = "descricao"
	FilterSupplier    = "fornecedor"
	FilterUnit        = "unidade_medida"
	FilterMinPrice    = "valor_min"
	FilterMaxPrice    = "valor_max"
)

// ErrUnknownField is returned when a form field name is not recognised.
var ErrUnknownField = errors.New("catalog: unknown field")

// FilterCriteria holds the user supplied constraints of the search page.
// An empty string means the field does not constrain the result.
type FilterCriteria struct {
	Code        string `json:"codigo"`
	Description string `json:"descricao"`
	Supplier    string `json:"fornecedor"`
	Unit        string `json:"unidade_medida"`
	MinPrice    string `json:"valor_min"`
	MaxPrice    string `json:"valor_max"`
}

// Set updates a single field by its form name.
func (f *FilterCriteria) Set(field, value string) error {
	switch field {
	case FilterCode:
		f.Code = value
	case FilterDescription:
		f.Description = value
	case FilterSupplier:
		f.Supplier = value
	case FilterUnit:
		f.Unit = value
	case FilterMinPrice:
		f.MinPrice = value
	case FilterMaxPrice:
		f.MaxPrice = value
	default:
		return ErrUnknownField
	}
	return nil
}

// ActiveCount returns how many fields hold a non-empty value.
func (f FilterCriteria) ActiveCount() int {
	count := 0
	for _, v := range []string{f.Code, f.Description, f.Supplier, f.Unit, f.MinPrice, f.MaxPrice} {
		if v != "" {
			count++
		}
	}
	return count
}

// IsEmpty reports whether no field constrains the result.
func (f FilterCriteria) IsEmpty() bool {
	return f.ActiveCount() == 0
}

// PriceRange holds the parsed bounds of the price filter. A nil bound is open.
type PriceRange struct {
	Min *float64
	Max *float64
}

// PriceRange parses the min/max fields. Unparsable bounds are left open.
func (f FilterCriteria) PriceRange() PriceRange {
	var r PriceRange
	if v, ok := ParseAmount(f.MinPrice); ok {
		r.Min = &v
	}
	if v, ok := ParseAmount(f.MaxPrice); ok {
		r.Max = &v
	}
	return r
}

// Contains reports whether price lies within the inclusive range. NaN never
// matches.
func (r PriceRange) Contains(price float64) bool {
	if math.IsNaN(price) {
		return false
	}
	if r.Min != nil && price < *r.Min {
		return false
	}
	if r.Max != nil && price > *r.Max {
		return false
	}
	return true
}

// Filter returns the items that satisfy every constraint, preserving order.
func Filter(items []Item, criteria FilterCriteria) []Item {
	fold := cases.Fold()
	code := fold.String(criteria.Code)
	description := fold.String(criteria.Description)
	supplier := fold.String(criteria.Supplier)
	prices := criteria.PriceRange()

	out := make([]Item, 0, len(items))
	for _, item := range items {
		if !strings.Contains(fold.String(item.Code), code) {
			continue
		}
		if !strings.Contains(fold.String(item.Description), description) {
			continue
		}
		if !strings.Contains(fold.String(item.Supplier), supplier) {
			continue
		}
		if criteria.Unit != "" && item.Unit != criteria.Unit {
			continue
		}
		if !prices.Contains(item.UnitPrice) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// FilterByPrice applies only the price range of criteria. Used on remote results,
// whose text fields were already matched by the catalog service.
func FilterByPrice(items []Item, criteria FilterCriteria) []Item {
	prices := criteria.PriceRange()
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if prices.Contains(item.UnitPrice) {
			out = append(out, item)
		}
	}
	return out
}

// ParseAmount parses a user typed decimal. A lone comma is accepted as the
// decimal separator. Empty, malformed and non-finite input reports false.
func ParseAmount(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if !strings.Contains(s, ".") && strings.Count(s, ",") == 1 {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
