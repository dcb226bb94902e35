package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/checklist-sync-engine/internal/adapters/cache"
	"github.com/comitanigiacomo/checklist-sync-engine/internal/core/domain"
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

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	_ = godotenv.Load("../../../.env")

	rdb, err := cache.NewRedisClient(context.Background(), cache.Options{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       2,
	})
	if err != nil {
		t.Skipf("Skipping Redis integration test: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })

	require.NoError(t, rdb.FlushDB(context.Background()).Err())
	return rdb
}

func TestCachedCatalogSource_Integration(t *testing.T) {
	rdb := newTestRedis(t)
	ctx := context.Background()
	products := []domain.Product{{Name: "Coca Cola 600ml", InventoryCode: "INV1", Warehouse: "A", Barcode: "750"}}

	t.Run("Second fetch is served from the cache", func(t *testing.T) {
		require.NoError(t, rdb.FlushDB(ctx).Err())
		next := new(MockCatalogSource)
		next.On("Fetch", mock.Anything).Return(products, nil).Once()

		source := NewCachedCatalogSource(next, rdb, time.Minute, nil)

		first, err := source.Fetch(ctx)
		require.NoError(t, err)
		second, err := source.Fetch(ctx)
		require.NoError(t, err)

		assert.Equal(t, products, first)
		assert.Equal(t, products, second)
		next.AssertNumberOfCalls(t, "Fetch", 1)
	})

	t.Run("Invalidate forces a new fetch", func(t *testing.T) {
		require.NoError(t, rdb.FlushDB(ctx).Err())
		next := new(MockCatalogSource)
		next.On("Fetch", mock.Anything).Return(products, nil).Twice()

		source := NewCachedCatalogSource(next, rdb, time.Minute, nil)

		_, err := source.Fetch(ctx)
		require.NoError(t, err)
		require.NoError(t, source.Invalidate(ctx))
		_, err = source.Fetch(ctx)
		require.NoError(t, err)

		next.AssertNumberOfCalls(t, "Fetch", 2)
	})

	t.Run("Corrupted entry is replaced", func(t *testing.T) {
		require.NoError(t, rdb.Set(ctx, catalogCacheKey, "{broken", time.Minute).Err())
		next := new(MockCatalogSource)
		next.On("Fetch", mock.Anything).Return(products, nil).Once()

		source := NewCachedCatalogSource(next, rdb, time.Minute, nil)

		got, err := source.Fetch(ctx)
		require.NoError(t, err)
		assert.Equal(t, products, got)
	})

	t.Run("Feed errors are not cached", func(t *testing.T) {
		require.NoError(t, rdb.FlushDB(ctx).Err())
		next := new(MockCatalogSource)
		next.On("Fetch", mock.Anything).Return(nil, errors.New("sheets down"))

		source := NewCachedCatalogSource(next, rdb, time.Minute, nil)

		_, err := source.Fetch(ctx)
		assert.Error(t, err)

		exists, err := rdb.Exists(ctx, catalogCacheKey).Result()
		require.NoError(t, err)
		assert.Zero(t, exists)
	})
}
