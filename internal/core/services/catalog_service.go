package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/comitanigiacomo/checklist-sync-engine/internal/core/domain"
)

// invalidator is implemented by caching catalog sources.
type invalidator interface {
	Invalidate(ctx context.Context) error
}

// CatalogService keeps the product catalog in memory. It is loaded on first
// use and replaced on Refresh; a failed refresh keeps the previous rows.
type CatalogService struct {
	source domain.CatalogSource
	logger *slog.Logger

	mu        sync.RWMutex
	products  []domain.Product
	loaded    bool
	refreshed time.Time
}

func NewCatalogService(source domain.CatalogSource, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{
		source: source,
		logger: logger,
	}
}

// Refresh fetches the catalog again, bypassing any cache in front of the
// source.
func (s *CatalogService) Refresh(ctx context.Context) error {
	if inv, ok := s.source.(invalidator); ok {
		if err := inv.Invalidate(ctx); err != nil {
			s.logger.WarnContext(ctx, "catalog cache invalidation failed", "error", err)
		}
	}
	return s.load(ctx)
}

func (s *CatalogService) load(ctx context.Context) error {
	if s.source == nil {
		return domain.ErrCatalogUnavailable
	}

	products, err := s.source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("catalog service: fetch: %w: %w", domain.ErrCatalogUnavailable, err)
	}

	s.mu.Lock()
	s.products = products
	s.loaded = true
	s.refreshed = time.Now().UTC()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "catalog loaded", "products", len(products))
	return nil
}

// Products returns the current catalog, loading it on first use. A failed
// first load is logged and leaves an empty catalog until the next Refresh.
func (s *CatalogService) Products(ctx context.Context) []domain.Product {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()

	if !loaded {
		if err := s.load(ctx); err != nil {
			s.logger.ErrorContext(ctx, "catalog load failed", "error", err)
			s.mu.Lock()
			s.loaded = true
			s.mu.Unlock()
			return []domain.Product{}
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Search returns up to limit products containing the query in any column,
// case-insensitively. A blank query returns nothing.
func (s *CatalogService) Search(ctx context.Context, query string, limit int) []domain.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []domain.Product{}
	}
	if limit <= 0 || limit > domain.MaxSearchResults {
		limit = domain.MaxSearchResults
	}

	results := []domain.Product{}
	for _, p := range s.Products(ctx) {
		if p.Matches(q) {
			results = append(results, p)
			if len(results) == limit {
				break
			}
		}
	}
	return results
}

// Lookup resolves a scanned or typed code by exact barcode or inventory code.
func (s *CatalogService) Lookup(ctx context.Context, code string) (domain.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.Product{}, domain.ErrProductNotFound
	}
	for _, p := range s.Products(ctx) {
		if p.HasCode(code) {
			return p, nil
		}
	}
	return domain.Product{}, domain.ErrProductNotFound
}

// LastRefresh is the time of the last successful load, zero if none.
func (s *CatalogService) LastRefresh() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshed
}
