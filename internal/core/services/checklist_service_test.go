package services

import (
	"context"
	"testing"

	"github.com/comitanigiacomo/checklist-sync-engine/internal/adapters/docstore"
	"github.com/comitanigiacomo/checklist-sync-engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChecklistService(t *testing.T, store domain.DocumentStore, policy domain.AccessPolicy) *ChecklistService {
	t.Helper()
	if policy == nil {
		policy = allowStores{}
	}
	return NewChecklistService(NewSnapshotService(store, testCalendar(t), nil), testDirectory(t), policy, nil)
}

func testSession(user *domain.User, version, viewDate string, items ...domain.ChecklistLine) domain.Session {
	return domain.Session{
		User:       user,
		StoreKey:   testStore,
		VersionKey: version,
		ViewDate:   viewDate,
		Items:      items,
	}
}

func TestChecklistService_AddLine(t *testing.T) {
	service := newChecklistService(t, docstore.NewMemoryStore(), nil)

	t.Run("Success: New line goes to the front", func(t *testing.T) {
		res, err := service.AddLine(testSession(testUser("u1"), "base", "", lineA), lineB)
		require.NoError(t, err)

		assert.False(t, res.Refused)
		assert.Equal(t, domain.Checklist{lineB, lineA}, res.Items)
		assert.False(t, res.Reconcile.Merged)
	})

	t.Run("Success: Same identity sums quantities in place", func(t *testing.T) {
		more := lineA
		more.Quantity = "5 unidades"

		res, err := service.AddLine(testSession(testUser("u1"), "base", "", lineB, lineA), more)
		require.NoError(t, err)

		require.Len(t, res.Items, 2)
		assert.Equal(t, "8", res.Items[1].Quantity)
		assert.Equal(t, 1, res.Reconcile.Index)
	})

	t.Run("Success: Viewing today explicitly is not historical", func(t *testing.T) {
		res, err := service.AddLine(testSession(testUser("u1"), "base", testToday), lineA)
		require.NoError(t, err)
		assert.False(t, res.Refused)
	})

	t.Run("Refused: Past day keeps the rows", func(t *testing.T) {
		res, err := service.AddLine(testSession(testUser("u1"), "base", testYesterday, lineA), lineB)
		require.NoError(t, err)

		assert.True(t, res.Refused)
		assert.Equal(t, domain.ReasonHistoricalEdit, res.Reason)
		assert.Equal(t, domain.Checklist{lineA}, res.Items)
	})

	t.Run("Fail: Unknown store", func(t *testing.T) {
		s := testSession(testUser("u1"), "base", "")
		s.StoreKey = "lista_inexistente"

		_, err := service.AddLine(s, lineA)
		assert.ErrorIs(t, err, domain.ErrUnknownStore)
	})
}

func TestChecklistService_RemoveLine(t *testing.T) {
	service := newChecklistService(t, docstore.NewMemoryStore(), nil)

	res, err := service.RemoveLine(testSession(testUser("u1"), "base", "", lineA, lineB), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.Checklist{lineA}, res.Items)
	assert.Equal(t, lineB, *res.Removed)

	_, err = service.RemoveLine(testSession(testUser("u1"), "base", "", lineA), 1)
	assert.ErrorIs(t, err, domain.ErrLineIndexOutOfRange)

	res, err = service.RemoveLine(testSession(testUser("u1"), "base", testYesterday, lineA), 0)
	require.NoError(t, err)
	assert.True(t, res.Refused)
	assert.Equal(t, domain.Checklist{lineA}, res.Items)
}

func TestChecklistService_SaveOpenClear(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Save then open today", func(t *testing.T) {
		service := newChecklistService(t, docstore.NewMemoryStore(), nil)

		saved, err := service.Save(ctx, testSession(testUser("u1"), "alterna", "", lineA, lineB))
		require.NoError(t, err)
		assert.Equal(t, testToday, saved.Date)
		assert.Equal(t, "Sexta Calle", saved.Snapshot.Meta.StoreName)
		assert.Equal(t, domain.VersionAlternate, saved.Snapshot.Meta.Version)
		assert.Equal(t, []string{testToday}, saved.History)

		view, err := service.Open(ctx, testSession(testUser("u1"), "alterna", ""), "")
		require.NoError(t, err)
		assert.Equal(t, testToday, view.Date)
		assert.False(t, view.ReadOnly)
		assert.Equal(t, domain.Checklist{lineA, lineB}, view.Snapshot.Items())
	})

	t.Run("Success: Opening a past day is read-only", func(t *testing.T) {
		service := newChecklistService(t, docstore.NewMemoryStore(), nil)

		view, err := service.Open(ctx, testSession(testUser("u1"), "base", ""), testYesterday)
		require.NoError(t, err)
		assert.True(t, view.ReadOnly)
		assert.Equal(t, testToday, view.Today)
		assert.False(t, view.Snapshot.Present())
	})

	t.Run("Fail: Open with a malformed date", func(t *testing.T) {
		service := newChecklistService(t, docstore.NewMemoryStore(), nil)

		_, err := service.Open(ctx, testSession(testUser("u1"), "base", ""), "2026-13-40")
		assert.ErrorIs(t, err, domain.ErrInvalidDate)
	})

	t.Run("Refused: Save and clear on a past day write nothing", func(t *testing.T) {
		store := new(MockDocumentStore)
		service := newChecklistService(t, store, nil)

		res, err := service.Save(ctx, testSession(testUser("u1"), "base", testYesterday, lineA))
		require.NoError(t, err)
		assert.Equal(t, domain.ReasonHistoricalSave, res.Reason)

		res, err = service.Clear(ctx, testSession(testUser("u1"), "base", testYesterday, lineA))
		require.NoError(t, err)
		assert.Equal(t, domain.ReasonHistoricalClear, res.Reason)

		store.AssertNotCalled(t, "Set")
	})

	t.Run("Success: Clear keeps the day in the history", func(t *testing.T) {
		service := newChecklistService(t, docstore.NewMemoryStore(), nil)

		_, err := service.Save(ctx, testSession(testUser("u1"), "base", "", lineA))
		require.NoError(t, err)

		res, err := service.Clear(ctx, testSession(testUser("u1"), "base", "", lineA))
		require.NoError(t, err)
		assert.Empty(t, res.Snapshot.Items)
		assert.Equal(t, []string{testToday}, res.History)

		view, err := service.Open(ctx, testSession(testUser("u1"), "base", ""), "")
		require.NoError(t, err)
		assert.True(t, view.Snapshot.Present())
		assert.Empty(t, view.Snapshot.Items())
	})

	t.Run("Fail: Forbidden store", func(t *testing.T) {
		service := newChecklistService(t, docstore.NewMemoryStore(), allowStores{"lista_avenida_morazan": true})

		_, err := service.Save(ctx, testSession(testUser("u1"), "base", "", lineA))
		assert.ErrorIs(t, err, domain.ErrStoreForbidden)

		_, err = service.History(ctx, testSession(testUser("u1"), "base", ""))
		assert.ErrorIs(t, err, domain.ErrStoreForbidden)
	})

	t.Run("Fail: Missing or disabled user", func(t *testing.T) {
		service := newChecklistService(t, docstore.NewMemoryStore(), nil)

		_, err := service.Save(ctx, testSession(nil, "base", "", lineA))
		assert.ErrorIs(t, err, domain.ErrUnauthorized)

		disabled := testUser("u1")
		disabled.Active = false
		_, err = service.Save(ctx, testSession(disabled, "base", "", lineA))
		assert.ErrorIs(t, err, domain.ErrUserInactive)
	})
}

func TestChecklistService_Stores(t *testing.T) {
	service := newChecklistService(t, docstore.NewMemoryStore(), allowStores{"lista_avenida_morazan": true})

	stores, err := service.Stores(testUser("u1"))
	require.NoError(t, err)
	require.Len(t, stores, 1)
	assert.Equal(t, "lista_avenida_morazan", stores[0].Key)

	_, err = service.Stores(nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
