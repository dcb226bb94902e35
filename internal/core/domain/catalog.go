package domain

import (
	"context"
	"errors"
	"strings"
)

const (
	DefaultLineQuantity = "1"

	// MaxSearchResults caps a catalog search.
	MaxSearchResults = 50
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

// Product is one row of the shared catalog feed.
type Product struct {
	Name          string `json:"nombre"`
	InventoryCode string `json:"codigo_inventario"`
	Warehouse     string `json:"bodega"`
	Barcode       string `json:"codigo_barras"`
}

// ProductFromRow maps a catalog sheet row laid out as
// name, inventory code, warehouse, barcode. Missing cells are blank.
func ProductFromRow(row []string) Product {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	return Product{
		Name:          cell(0),
		InventoryCode: cell(1),
		Warehouse:     cell(2),
		Barcode:       cell(3),
	}
}

// Line turns the product into a new checklist line with quantity 1.
func (p Product) Line() ChecklistLine {
	inv := p.InventoryCode
	if inv == "" {
		inv = InventoryCodeNone
	}
	return ChecklistLine{
		Barcode:       p.Barcode,
		Name:          p.Name,
		InventoryCode: inv,
		Warehouse:     p.Warehouse,
		Quantity:      DefaultLineQuantity,
	}
}

// Matches reports whether the lowercase query occurs in any column.
func (p Product) Matches(query string) bool {
	for _, field := range []string{p.Name, p.InventoryCode, p.Warehouse, p.Barcode} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// HasCode reports an exact barcode or inventory code match, the way a
// scanned or typed code is resolved.
func (p Product) HasCode(code string) bool {
	return (p.Barcode != "" && p.Barcode == code) || (p.InventoryCode != "" && p.InventoryCode == code)
}

type CatalogSource interface {
	Fetch(ctx context.Context) ([]Product, error)
}
