package domain

import (
	"math"
	"strconv"
	"strings"
)

const (
	// InventoryCodeNone marks a line whose product has no inventory code.
	InventoryCodeNone = "N/A"

	// NoWarehouse groups lines with a blank warehouse in exports.
	NoWarehouse = "SIN_BODEGA"
)

// ChecklistLine is one product entry on a checklist. JSON names match the
// persisted document shape.
type ChecklistLine struct {
	Barcode       string `json:"codigo_barras"`
	Name          string `json:"nombre"`
	InventoryCode string `json:"codigo_inventario"`
	Warehouse     string `json:"bodega"`
	Quantity      string `json:"cantidad"`
	Checked       bool   `json:"revisado"`
	Dispatched    bool   `json:"despachado"`
}

// ItemKey derives the deduplication key of a line. Only the four identity
// fields participate; quantity and flags never change the key.
func ItemKey(l ChecklistLine) string {
	inv := strings.TrimSpace(l.InventoryCode)
	if inv != "" && inv != InventoryCodeNone {
		return "inv:" + inv
	}

	if bar := strings.TrimSpace(l.Barcode); bar != "" {
		return "bar:" + bar
	}

	name := strings.ToLower(strings.TrimSpace(l.Name))
	warehouse := strings.ToLower(strings.TrimSpace(l.Warehouse))
	return "name:" + name + "|" + warehouse
}

func (l ChecklistLine) Key() string {
	return ItemKey(l)
}

// Units returns the integer value of the first run of digits in the
// quantity text, or 0 when there is none.
func (l ChecklistLine) Units() int {
	return QuantityValue(l.Quantity)
}

// QuantityValue extracts the first run of decimal digits from free-text
// quantity input. Text without digits, or a run too large for an int,
// yields 0.
func QuantityValue(q string) int {
	start := strings.IndexFunc(q, isDigit)
	if start < 0 {
		return 0
	}

	end := start
	for end < len(q) && isDigit(rune(q[end])) {
		end++
	}

	n, err := strconv.Atoi(q[start:end])
	if err != nil {
		return 0
	}
	return n
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// Checklist is an ordered list of lines, most recently added first.
type Checklist []ChecklistLine

type ReconcileResult struct {
	Merged bool `json:"merged"`
	Index  int  `json:"index"`
}

// IndexOf returns the position of the line sharing key, or -1.
func (c Checklist) IndexOf(key string) int {
	for i, l := range c {
		if l.Key() == key {
			return i
		}
	}
	return -1
}

// Reconcile merges the candidate into the checklist. A line with the same
// identity gets the sum of both quantities and keeps its position and
// flags; otherwise the candidate is inserted at the front. The receiver is
// not modified.
func (c Checklist) Reconcile(candidate ChecklistLine) (Checklist, ReconcileResult) {
	out := c.Clone()

	if idx := out.IndexOf(candidate.Key()); idx >= 0 {
		out[idx].Quantity = strconv.Itoa(addUnits(out[idx].Units(), candidate.Units()))
		return out, ReconcileResult{Merged: true, Index: idx}
	}

	out = append(Checklist{candidate}, out...)
	return out, ReconcileResult{Merged: false, Index: 0}
}

// addUnits sums two non-negative quantities, saturating at math.MaxInt.
func addUnits(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

// Remove returns a copy without the line at index.
func (c Checklist) Remove(index int) (Checklist, ChecklistLine, error) {
	if index < 0 || index >= len(c) {
		return nil, ChecklistLine{}, ErrLineIndexOutOfRange
	}

	removed := c[index]
	out := make(Checklist, 0, len(c)-1)
	out = append(out, c[:index]...)
	out = append(out, c[index+1:]...)
	return out, removed, nil
}

// Clone returns an independent copy; a nil checklist clones to an empty one.
func (c Checklist) Clone() Checklist {
	out := make(Checklist, len(c))
	copy(out, c)
	return out
}

// DisplayNumber is the row number shown next to the line at index. The
// newest line carries the highest number.
func (c Checklist) DisplayNumber(index int) int {
	return len(c) - index
}

type WarehouseGroup struct {
	Warehouse string    `json:"bodega"`
	Lines     Checklist `json:"items"`
}

// GroupByWarehouse splits the checklist per warehouse, keeping first-seen
// order for groups and list order inside each group.
func (c Checklist) GroupByWarehouse() []WarehouseGroup {
	var groups []WarehouseGroup
	positions := make(map[string]int)

	for _, l := range c {
		wh := strings.TrimSpace(l.Warehouse)
		if wh == "" {
			wh = NoWarehouse
		}

		pos, ok := positions[wh]
		if !ok {
			pos = len(groups)
			positions[wh] = pos
			groups = append(groups, WarehouseGroup{Warehouse: wh})
		}
		groups[pos].Lines = append(groups[pos].Lines, l)
	}

	return groups
}
