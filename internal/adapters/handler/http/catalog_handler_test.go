package http

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/checklist-sync-engine/internal/adapters/docstore"
	"github.com/comitanigiacomo/checklist-sync-engine/internal/core/domain"
)

type fakeQueue struct {
	accept  bool
	reasons []string
}

func (q *fakeQueue) Enqueue(reason string) bool {
	if !q.accept {
		return false
	}
	q.reasons = append(q.reasons, reason)
	return true
}

func setupCatalogRouter(t *testing.T, user *domain.User, queue RefreshQueue) *gin.Engine {
	gin.SetMode(gin.TestMode)
	stack := newTestStack(t, docstore.NewMemoryStore())

	router := gin.New()
	NewCatalogHandler(stack.catalog, queue).RegisterRoutes(router.Group("", asUser(user)))
	return router
}

func TestCatalogHandler_Search(t *testing.T) {
	router := setupCatalogRouter(t, testUser("u1"), nil)

	t.Run("Success: Matches any column case-insensitively", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/catalog/search?q=TORNI", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var res struct {
			Products []domain.Product `json:"products"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		require.Len(t, res.Products, 1)
		assert.Equal(t, "INV-001", res.Products[0].InventoryCode)
	})

	t.Run("Success: Limit caps the results", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/catalog/search?q=750&limit=1", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var res struct {
			Products []domain.Product `json:"products"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Len(t, res.Products, 1)
	})

	t.Run("Success: Blank query returns an empty list", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/catalog/search?q=%20", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"products":[]}`, w.Body.String())
	})

	t.Run("Fail: Bad limit is 400", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/catalog/search?q=a&limit=many", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCatalogHandler_Lookup(t *testing.T) {
	router := setupCatalogRouter(t, testUser("u1"), nil)

	t.Run("Success: Barcode resolves to a ready line", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/catalog/products/750200", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var res struct {
			Product domain.Product       `json:"product"`
			Line    domain.ChecklistLine `json:"line"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, "Tuerca", res.Product.Name)
		assert.Equal(t, domain.InventoryCodeNone, res.Line.InventoryCode)
		assert.Equal(t, domain.DefaultLineQuantity, res.Line.Quantity)
	})

	t.Run("Fail: Unknown code is 404", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/catalog/products/999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCatalogHandler_Refresh(t *testing.T) {
	admin := testUser("admin-1")
	admin.Role = domain.RoleAdmin

	t.Run("Success: Admin schedules a refresh", func(t *testing.T) {
		queue := &fakeQueue{accept: true}
		router := setupCatalogRouter(t, admin, queue)

		w := doJSON(router, http.MethodPost, "/catalog/refresh", nil)

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Equal(t, []string{"manual"}, queue.reasons)
	})

	t.Run("Fail: Regular users are 403", func(t *testing.T) {
		queue := &fakeQueue{accept: true}
		router := setupCatalogRouter(t, testUser("u1"), queue)

		w := doJSON(router, http.MethodPost, "/catalog/refresh", nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, queue.reasons)
	})

	t.Run("Fail: Full queue is 503", func(t *testing.T) {
		router := setupCatalogRouter(t, admin, &fakeQueue{accept: false})

		w := doJSON(router, http.MethodPost, "/catalog/refresh", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestCatalogHandler_Status(t *testing.T) {
	router := setupCatalogRouter(t, testUser("u1"), nil)

	w := doJSON(router, http.MethodGet, "/catalog/status", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Products    int        `json:"products"`
		RefreshedAt *time.Time `json:"refreshed_at"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 2, res.Products)
	require.NotNil(t, res.RefreshedAt)
	assert.False(t, res.RefreshedAt.IsZero())
}
