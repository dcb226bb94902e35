package domain

import "testing"

func TestProductFromRow(t *testing.T) {
	t.Parallel()

	p := ProductFromRow([]string{" Tornillo ", "INV-1"})
	if p.Name != "Tornillo" || p.InventoryCode != "INV-1" || p.Warehouse != "" || p.Barcode != "" {
		t.Errorf("Unexpected product %+v", p)
	}

	line := p.Line()
	if line.Quantity != DefaultLineQuantity {
		t.Errorf("Expected quantity %s, got %s", DefaultLineQuantity, line.Quantity)
	}

	line = Product{Name: "Clavo"}.Line()
	if line.InventoryCode != InventoryCodeNone {
		t.Errorf("Expected %s for a blank inventory code, got %q", InventoryCodeNone, line.InventoryCode)
	}
}

func TestProductMatching(t *testing.T) {
	t.Parallel()

	p := Product{Name: "Tornillo Fino", InventoryCode: "INV-1", Warehouse: "B1", Barcode: "750100"}

	for _, q := range []string{"fino", "inv-1", "b1", "7501"} {
		if !p.Matches(q) {
			t.Errorf("Expected %q to match", q)
		}
	}
	if p.Matches("clavo") {
		t.Error("Expected no match")
	}

	if !p.HasCode("750100") || !p.HasCode("INV-1") {
		t.Error("Expected exact codes to resolve")
	}
	if p.HasCode("7501") || (Product{}).HasCode("") {
		t.Error("Partial and blank codes must not resolve")
	}
}

func TestDocumentPaths(t *testing.T) {
	t.Parallel()

	c := HistoryCollection("lista_sexta_calle", "", "u1")
	want := "checklist_contributions/lista_sexta_calle__base/users/u1/history"
	if string(c) != want {
		t.Errorf("Expected %s, got %s", want, c)
	}

	p := SnapshotPath("lista_sexta_calle", "alterna", "u1", "2026-03-10")
	parent, id := p.Split()
	if id != "2026-03-10" || parent != HistoryCollection("lista_sexta_calle", "alterna", "u1") {
		t.Errorf("Unexpected split %s / %s", parent, id)
	}

	if parent, id := DocumentPath("root").Split(); parent != "" || id != "root" {
		t.Errorf("Unexpected split of a bare id: %q %q", parent, id)
	}
}
