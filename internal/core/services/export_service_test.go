package services

import (
	"context"
	"testing"

	"github.com/comitanigiacomo/checklist-sync-engine/internal/adapters/docstore"
	"github.com/comitanigiacomo/checklist-sync-engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildExport(t *testing.T) {
	store := domain.Store{Key: testStore, Name: "Sexta Calle"}
	snap := domain.NewSnapshot(testStore, "", "base")
	snap.Items = domain.Checklist{
		{Name: "Tornillo", InventoryCode: "INV-1", Warehouse: "B1", Quantity: "3"},
		{Name: "Clavo", Warehouse: "", Quantity: "2 cajas", Checked: true},
		{Name: "Tuerca", InventoryCode: "INV-3", Warehouse: "B1", Quantity: "varios"},
	}

	exp := BuildExport(snap, store, "base", testToday)

	assert.Equal(t, "Sexta Calle", exp.StoreName)
	assert.Equal(t, 3, exp.TotalLines)
	assert.Equal(t, 5, exp.TotalUnits)

	require.Len(t, exp.Rows, 3)
	assert.Equal(t, 3, exp.Rows[0].Position)
	assert.Equal(t, 1, exp.Rows[2].Position)
	assert.Equal(t, domain.InventoryCodeNone, exp.Rows[1].InventoryCode)
	assert.True(t, exp.Rows[1].Checked)
	assert.Equal(t, 0, exp.Rows[2].Units)

	require.Len(t, exp.Groups, 2)
	assert.Equal(t, "B1", exp.Groups[0].Warehouse)
	assert.Equal(t, 3, exp.Groups[0].TotalUnits)
	require.Len(t, exp.Groups[0].Rows, 2)
	assert.Equal(t, 1, exp.Groups[0].Rows[0].Position)
	assert.Equal(t, 2, exp.Groups[0].Rows[1].Position)
	assert.Equal(t, domain.NoWarehouse, exp.Groups[1].Warehouse)
	assert.Equal(t, domain.NoWarehouse, exp.Groups[1].Rows[0].Warehouse)
}

func TestExportService_Export(t *testing.T) {
	ctx := context.Background()
	snapshots := NewSnapshotService(docstore.NewMemoryStore(), testCalendar(t), nil)
	service := NewExportService(snapshots, testDirectory(t), allowStores{})

	payload := domain.NewSnapshot(testStore, "Sexta Calle", "base")
	payload.Items = domain.Checklist{lineA}
	_, err := snapshots.Save(ctx, testStore, "base", "u1", payload, testYesterday)
	require.NoError(t, err)

	t.Run("Success: Exports a past day", func(t *testing.T) {
		exp, err := service.Export(ctx, testSession(testUser("u1"), "base", ""), testYesterday)
		require.NoError(t, err)
		assert.Equal(t, testYesterday, exp.Date)
		assert.Equal(t, 1, exp.TotalLines)
		assert.NotEmpty(t, exp.UpdatedAt)
	})

	t.Run("Success: A day without snapshot exports empty", func(t *testing.T) {
		exp, err := service.Export(ctx, testSession(testUser("u1"), "base", ""), "")
		require.NoError(t, err)
		assert.Equal(t, testToday, exp.Date)
		assert.Empty(t, exp.Rows)
		assert.Empty(t, exp.Groups)
	})

	t.Run("Fail: Bad date", func(t *testing.T) {
		_, err := service.Export(ctx, testSession(testUser("u1"), "base", ""), "ayer")
		assert.ErrorIs(t, err, domain.ErrInvalidDate)
	})
}
