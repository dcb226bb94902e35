package domain

type ExportRow struct {
	Position      int    `json:"position"`
	Barcode       string `json:"codigo_barras"`
	Name          string `json:"nombre"`
	InventoryCode string `json:"codigo_inventario"`
	Warehouse     string `json:"bodega"`
	QuantityText  string `json:"cantidad"`
	Units         int    `json:"unidades"`
	Checked       bool   `json:"revisado"`
	Dispatched    bool   `json:"despachado"`
}

type ExportGroup struct {
	Warehouse  string      `json:"bodega"`
	TotalUnits int         `json:"total_unidades"`
	Rows       []ExportRow `json:"rows"`
}

// ChecklistExport is the data behind the per-warehouse and general
// PDF/XLSX documents of one snapshot.
type ChecklistExport struct {
	StoreKey   string        `json:"tienda_key"`
	StoreName  string        `json:"tienda"`
	Version    string        `json:"version"`
	Date       string        `json:"date"`
	UpdatedAt  string        `json:"updatedAt,omitempty"`
	TotalLines int           `json:"total_lines"`
	TotalUnits int           `json:"total_units"`
	Rows       []ExportRow   `json:"rows"`
	Groups     []ExportGroup `json:"groups"`
}
