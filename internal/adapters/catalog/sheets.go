package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/comitanigiacomo/checklist-sync-engine/internal/core/domain"
)

const (
	DefaultBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"
	DefaultRange   = "catalogo!A2:D"
)

var ErrNotConfigured = errors.New("sheets catalog: api key and sheet id are required")

type Config struct {
	APIKey  string
	SheetID string
	Range   string

	// BaseURL overrides the Sheets API endpoint.
	BaseURL string
}

// SheetsSource reads the product catalog from a Google Sheets range through
// the values API. Each row is name, inventory code, warehouse, barcode.
type SheetsSource struct {
	config Config
	client *http.Client
}

var _ domain.CatalogSource = (*SheetsSource)(nil)

func NewSheetsSource(cfg Config) *SheetsSource {
	if cfg.Range == "" {
		cfg.Range = DefaultRange
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &SheetsSource{
		config: cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *SheetsSource) Configured() bool {
	return s.config.APIKey != "" && s.config.SheetID != ""
}

type valuesResponse struct {
	Values [][]string `json:"values"`
}

func (s *SheetsSource) Fetch(ctx context.Context) ([]domain.Product, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/%s/values/%s?key=%s",
		s.config.BaseURL,
		url.PathEscape(s.config.SheetID),
		url.PathEscape(s.config.Range),
		url.QueryEscape(s.config.APIKey),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("sheets request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sheets request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("sheets API returned status %d: %s", resp.StatusCode, body)
	}

	var data valuesResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode sheets response: %w", err)
	}

	products := make([]domain.Product, 0, len(data.Values))
	for _, row := range data.Values {
		p := domain.ProductFromRow(row)
		if p == (domain.Product{}) {
			continue
		}
		products = append(products, p)
	}

	return products, nil
}
