package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/almoxarifado/catalogo/internal/catalog"
)

// produto is the wire shape returned by /api/produtos/.
type produto struct {
	ID            looseString  `json:"id"`
	Codigo        string       `json:"codigo"`
	Descricao     string       `json:"descricao"`
	UnidadeMedida string       `json:"unidade_medida"`
	ValorUnitario looseNumber  `json:"valor_unitario"`
	Fornecedor    supplierName `json:"fornecedor"`
}

func (p produto) toItem() catalog.Item {
	return catalog.Item{
		ID:          string(p.ID),
		Code:        p.Codigo,
		Description: p.Descricao,
		Unit:        p.UnidadeMedida,
		UnitPrice:   float64(p.ValorUnitario),
		Supplier:    string(p.Fornecedor),
	}
}

// NewItem is the body posted to create a catalog entry.
type NewItem struct {
	Codigo        string  `json:"codigo"`
	Descricao     string  `json:"descricao"`
	UnidadeMedida string  `json:"unidade_medida"`
	ValorUnitario float64 `json:"valor_unitario"`
	Fornecedor    string  `json:"fornecedor"`
}

// looseNumber accepts a JSON number or a decimal string such as "35.50".
type looseNumber float64

func (n *looseNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("valor_unitario %q: %w", s, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("valor_unitario %q: not a finite number", s)
		}
		*n = looseNumber(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = looseNumber(v)
	return nil
}

// looseString accepts a JSON string or number.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = looseString(num.String())
	return nil
}

// supplierName accepts a plain name, a nested supplier object or a supplier id.
type supplierName string

func (s *supplierName) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var nested struct {
			Nome string `json:"nome"`
		}
		if err := json.Unmarshal(data, &nested); err != nil {
			return err
		}
		*s = supplierName(nested.Nome)
		return nil
	}
	var plain looseString
	if err := plain.UnmarshalJSON(data); err != nil {
		return err
	}
	*s = supplierName(plain)
	return nil
}

// decodeList accepts either a bare array or a paginated {"results": [...]} envelope.
func decodeList(data []byte) ([]produto, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var page struct {
			Results []produto `json:"results"`
		}
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, err
		}
		return page.Results, nil
	}
	var list []produto
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}
