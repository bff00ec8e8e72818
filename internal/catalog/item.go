// Package catalog holds the item model and the pure filtering, validation and
// formatting rules shared by the search and registration pages.
package catalog

// Item represents a catalog entry as displayed in search results.
type Item struct {
	ID          string  `json:"id"`
	Code        string  `json:"codigo"`
	Description string  `json:"descricao"`
	Unit        string  `json:"unidade_medida"`
	UnitPrice   float64 `json:"valor_unitario"`
	Supplier    string  `json:"fornecedor"`
}

// Unit represents a unit of measure offered in select inputs.
type Unit struct {
	Code  string
	Label string
}

var searchUnits = []Unit{
	{Code: "UN", Label: "Unidade"},
	{Code: "KG", Label: "Quilograma"},
	{Code: "M", Label: "Metro"},
	{Code: "M2", Label: "Metro Quadrado"},
	{Code: "M3", Label: "Metro Cúbico"},
	{Code: "L", Label: "Litro"},
	{Code: "CX", Label: "Caixa"},
	{Code: "SC", Label: "Saco"},
}

var createUnits = []Unit{
	{Code: "UN", Label: "Unidade"},
	{Code: "KG", Label: "Quilograma"},
	{Code: "M", Label: "Metro"},
	{Code: "M2", Label: "Metro Quadrado"},
	{Code: "M3", Label: "Metro Cúbico"},
	{Code: "L", Label: "Litro"},
	{Code: "CX", Label: "Caixa"},
	{Code: "PC", Label: "Peça"},
}

// SearchUnits returns the units selectable as a search filter.
func SearchUnits() []Unit {
	return append([]Unit(nil), searchUnits...)
}

// CreateUnits returns the units selectable when registering an item.
func CreateUnits() []Unit {
	return append([]Unit(nil), createUnits...)
}

// UnitLabel returns the display name of a unit code, or the code itself when
// the catalog API sends one outside both lists.
func UnitLabel(code string) string {
	for _, list := range [][]Unit{searchUnits, createUnits} {
		for _, u := range list {
			if u.Code == code {
				return u.Label
			}
		}
	}
	return code
}

// MockItems returns the fixed demonstration dataset used by the local filter preview.
func MockItems() []Item {
	return []Item{
		{ID: "1", Code: "CIM001", Description: "Cimento Portland 50kg", Unit: "SC", UnitPrice: 35.50, Supplier: "Fornecedor ABC Ltda"},
		{ID: "2", Code: "ARE002", Description: "Areia grossa m³", Unit: "M3", UnitPrice: 120.00, Supplier: "Fornecedor XYZ Ltda"},
		{ID: "3", Code: "BRI003", Description: "Tijolo cerâmico 6 furos", Unit: "UN", UnitPrice: 1.25, Supplier: "Fornecedor ABC Ltda"},
		{ID: "4", Code: "FER004", Description: "Ferro redondo 10mm", Unit: "KG", UnitPrice: 8.75, Supplier: "Fornecedor DEF Ltda"},
		{ID: "5", Code: "CAL005", Description: "Cal hidratada 20kg", Unit: "SC", UnitPrice: 28.00, Supplier: "Fornecedor XYZ Ltda"},
		{ID: "6", Code: "TIN006", Description: "Tinta acrílica branca 18L", Unit: "L", UnitPrice: 65.00, Supplier: "Fornecedor GHI Ltda"},
	}
}
