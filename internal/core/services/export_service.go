package services

import (
	"context"

	"github.com/comitanigiacomo/checklist-sync-engine/internal/core/domain"
)

// ExportService projects a saved snapshot into the rows used by the
// general and per-warehouse documents.
type ExportService struct {
	storeAccess
	snapshots *SnapshotService
}

func NewExportService(snapshots *SnapshotService, stores *domain.StoreDirectory, policy domain.AccessPolicy) *ExportService {
	return &ExportService{
		storeAccess: storeAccess{stores: stores, policy: policy},
		snapshots:   snapshots,
	}
}

func (s *ExportService) Export(ctx context.Context, session domain.Session, date string) (*domain.ChecklistExport, error) {
	store, version, err := s.resolve(session)
	if err != nil {
		return nil, err
	}

	day := s.snapshots.Today()
	if date != "" {
		if err := domain.ValidateDate(date); err != nil {
			return nil, err
		}
		day = date
	}

	snap := s.snapshots.Load(ctx, store.Key, version, session.UserID(), day).OrSkeleton(store.Key, store.Name, version)
	return BuildExport(snap, store, version, day), nil
}

// BuildExport numbers the rows the way they are displayed and totals the
// numeric quantities overall and per warehouse.
func BuildExport(snap *domain.ChecklistSnapshot, store domain.Store, version, date string) *domain.ChecklistExport {
	exp := &domain.ChecklistExport{
		StoreKey:   store.Key,
		StoreName:  store.Name,
		Version:    version,
		Date:       date,
		UpdatedAt:  snap.Meta.UpdatedAt,
		TotalLines: len(snap.Items),
		Rows:       make([]domain.ExportRow, 0, len(snap.Items)),
		Groups:     []domain.ExportGroup{},
	}
	if snap.Meta.StoreName != "" {
		exp.StoreName = snap.Meta.StoreName
	}

	for i, l := range snap.Items {
		row := exportRow(l, snap.Items.DisplayNumber(i))
		exp.TotalUnits += row.Units
		exp.Rows = append(exp.Rows, row)
	}

	for _, g := range snap.Items.GroupByWarehouse() {
		group := domain.ExportGroup{
			Warehouse: g.Warehouse,
			Rows:      make([]domain.ExportRow, 0, len(g.Lines)),
		}
		for i, l := range g.Lines {
			row := exportRow(l, i+1)
			row.Warehouse = g.Warehouse
			group.TotalUnits += row.Units
			group.Rows = append(group.Rows, row)
		}
		exp.Groups = append(exp.Groups, group)
	}

	return exp
}

func exportRow(l domain.ChecklistLine, position int) domain.ExportRow {
	inv := l.InventoryCode
	if inv == "" {
		inv = domain.InventoryCodeNone
	}
	return domain.ExportRow{
		Position:      position,
		Barcode:       l.Barcode,
		Name:          l.Name,
		InventoryCode: inv,
		Warehouse:     l.Warehouse,
		QuantityText:  l.Quantity,
		Units:         l.Units(),
		Checked:       l.Checked,
		Dispatched:    l.Dispatched,
	}
}
