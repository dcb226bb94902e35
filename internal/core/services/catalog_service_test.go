package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/comitanigiacomo/checklist-sync-engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCatalogSource struct {
	mock.Mock
}

func (m *MockCatalogSource) Fetch(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

type invalidatingSource struct {
	MockCatalogSource
	invalidated int
}

func (s *invalidatingSource) Invalidate(ctx context.Context) error {
	s.invalidated++
	return nil
}

var testProducts = []domain.Product{
	{Name: "Tornillo 3/8", InventoryCode: "INV-001", Warehouse: "B1", Barcode: "750100"},
	{Name: "Tuerca", InventoryCode: "INV-002", Warehouse: "B2", Barcode: "750200"},
	{Name: "Clavo", Warehouse: "B1", Barcode: "750300"},
}

func TestCatalogService_Search(t *testing.T) {
	ctx := context.Background()
	source := new(MockCatalogSource)
	source.On("Fetch", mock.Anything).Return(testProducts, nil).Once()
	service := NewCatalogService(source, nil)

	assert.Len(t, service.Search(ctx, "b1", 0), 2)
	assert.Len(t, service.Search(ctx, "750", 2), 2)
	assert.Equal(t, "Tuerca", service.Search(ctx, "  TUER ", 0)[0].Name)
	assert.Empty(t, service.Search(ctx, "   ", 0))
	assert.Empty(t, service.Search(ctx, "martillo", 0))

	source.AssertNumberOfCalls(t, "Fetch", 1)
	assert.False(t, service.LastRefresh().IsZero())
}

func TestCatalogService_SearchCap(t *testing.T) {
	many := make([]domain.Product, 0, 80)
	for i := 0; i < 80; i++ {
		many = append(many, domain.Product{Name: fmt.Sprintf("Producto %d", i)})
	}
	source := new(MockCatalogSource)
	source.On("Fetch", mock.Anything).Return(many, nil)
	service := NewCatalogService(source, nil)

	assert.Len(t, service.Search(context.Background(), "producto", 500), domain.MaxSearchResults)
}

func TestCatalogService_Lookup(t *testing.T) {
	ctx := context.Background()
	source := new(MockCatalogSource)
	source.On("Fetch", mock.Anything).Return(testProducts, nil)
	service := NewCatalogService(source, nil)

	p, err := service.Lookup(ctx, "INV-002")
	require.NoError(t, err)
	assert.Equal(t, "Tuerca", p.Name)

	p, err = service.Lookup(ctx, " 750300 ")
	require.NoError(t, err)
	assert.Equal(t, "Clavo", p.Name)

	_, err = service.Lookup(ctx, "Tuerca")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = service.Lookup(ctx, "")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCatalogService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Refresh invalidates the cache and reloads", func(t *testing.T) {
		source := new(invalidatingSource)
		source.On("Fetch", mock.Anything).Return(testProducts[:1], nil).Once()
		source.On("Fetch", mock.Anything).Return(testProducts, nil).Once()
		service := NewCatalogService(source, nil)

		assert.Len(t, service.Products(ctx), 1)
		require.NoError(t, service.Refresh(ctx))
		assert.Len(t, service.Products(ctx), 3)
		assert.Equal(t, 1, source.invalidated)
	})

	t.Run("Fail: Failed refresh keeps the previous rows", func(t *testing.T) {
		source := new(MockCatalogSource)
		source.On("Fetch", mock.Anything).Return(testProducts, nil).Once()
		source.On("Fetch", mock.Anything).Return(nil, errors.New("quota exceeded")).Once()
		service := NewCatalogService(source, nil)

		require.NoError(t, service.Refresh(ctx))
		err := service.Refresh(ctx)

		assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
		assert.Len(t, service.Products(ctx), 3)
	})

	t.Run("Success: Unavailable source degrades to an empty catalog", func(t *testing.T) {
		source := new(MockCatalogSource)
		source.On("Fetch", mock.Anything).Return(nil, errors.New("no network"))
		service := NewCatalogService(source, nil)

		assert.Empty(t, service.Products(ctx))
		assert.Empty(t, service.Search(ctx, "tornillo", 0))
		assert.True(t, service.LastRefresh().IsZero())
	})

	t.Run("Success: Failed first load is not retried on reads", func(t *testing.T) {
		source := new(MockCatalogSource)
		source.On("Fetch", mock.Anything).Return(nil, errors.New("no network")).Once()
		source.On("Fetch", mock.Anything).Return(testProducts, nil).Once()
		service := NewCatalogService(source, nil)

		for i := 0; i < 3; i++ {
			assert.Empty(t, service.Search(ctx, "tornillo", 0))
			_, err := service.Lookup(ctx, "750100")
			assert.ErrorIs(t, err, domain.ErrProductNotFound)
		}
		source.AssertNumberOfCalls(t, "Fetch", 1)

		require.NoError(t, service.Refresh(ctx))
		product, err := service.Lookup(ctx, "750100")
		require.NoError(t, err)
		assert.Equal(t, "Tornillo 3/8", product.Name)
		source.AssertNumberOfCalls(t, "Fetch", 2)
	})

	t.Run("Fail: No source configured", func(t *testing.T) {
		service := NewCatalogService(nil, nil)
		assert.ErrorIs(t, service.Refresh(ctx), domain.ErrCatalogUnavailable)
	})
}
