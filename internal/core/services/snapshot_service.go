package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/comitanigiacomo/checklist-sync-engine/internal/core/domain"
)

// SnapshotService persists day-keyed checklist snapshots and lists the
// days that have one. Reads never fail: a missing document and a store
// failure both come back as an absent snapshot.
type SnapshotService struct {
	store    domain.DocumentStore
	calendar *domain.BusinessCalendar
	logger   *slog.Logger
}

func NewSnapshotService(store domain.DocumentStore, calendar *domain.BusinessCalendar, logger *slog.Logger) *SnapshotService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotService{
		store:    store,
		calendar: calendar,
		logger:   logger,
	}
}

func (s *SnapshotService) Today() string {
	return s.calendar.Today()
}

// Save replaces the snapshot of the given day (today when date is empty)
// and returns the date written. The payload's meta is stamped in place
// with the writer and the write time.
func (s *SnapshotService) Save(ctx context.Context, storeKey, versionKey, userID string, payload *domain.ChecklistSnapshot, date string) (string, error) {
	storeKey = strings.TrimSpace(storeKey)
	userID = strings.TrimSpace(userID)

	if storeKey == "" {
		return "", domain.ErrStoreKeyRequired
	}
	if userID == "" {
		return "", domain.ErrUserIDRequired
	}

	day, err := s.calendar.ResolveDate(date)
	if err != nil {
		return "", err
	}

	if payload == nil {
		payload = domain.NewSnapshot(storeKey, "", versionKey)
	}
	if payload.Items == nil {
		payload.Items = domain.Checklist{}
	}

	payload.Meta.StoreKey = storeKey
	payload.Meta.Version = domain.NormalizeVersion(versionKey)
	payload.Stamp(userID, s.calendar.Now())

	if s.store == nil {
		return "", fmt.Errorf("snapshot service: save: %w", domain.ErrTransportUnavailable)
	}

	doc, err := encodeSnapshot(payload)
	if err != nil {
		return "", fmt.Errorf("snapshot service: encode snapshot: %w", err)
	}

	path := domain.SnapshotPath(storeKey, versionKey, userID, day)
	if err := s.store.Set(ctx, path, doc, domain.SetOptions{Merge: true}); err != nil {
		return "", fmt.Errorf("snapshot service: save %s: %w: %w", path, domain.ErrTransportUnavailable, err)
	}

	s.logger.DebugContext(ctx, "snapshot saved",
		"store", storeKey, "version", payload.Meta.Version, "user", userID, "date", day, "items", len(payload.Items))

	return day, nil
}

// encodeSnapshot marshals the write body. An empty display name is left out
// so the merge keeps the stored one.
func encodeSnapshot(payload *domain.ChecklistSnapshot) ([]byte, error) {
	doc, err := json.Marshal(payload)
	if err != nil || payload.Meta.StoreName != "" {
		return doc, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc, &fields); err != nil {
		return nil, err
	}
	var meta map[string]json.RawMessage
	if err := json.Unmarshal(fields["meta"], &meta); err != nil {
		return nil, err
	}
	delete(meta, "tienda")

	if fields["meta"], err = json.Marshal(meta); err != nil {
		return nil, err
	}
	return json.Marshal(fields)
}

// Load returns the snapshot of the given day (today when date is empty).
func (s *SnapshotService) Load(ctx context.Context, storeKey, versionKey, userID, date string) domain.OptionalSnapshot {
	storeKey = strings.TrimSpace(storeKey)
	userID = strings.TrimSpace(userID)
	if storeKey == "" || userID == "" {
		return domain.NoSnapshot()
	}

	day, err := s.calendar.ResolveDate(date)
	if err != nil {
		s.logger.WarnContext(ctx, "snapshot load skipped", "date", date, "error", err)
		return domain.NoSnapshot()
	}

	if s.store == nil {
		s.logger.ErrorContext(ctx, "snapshot load failed", "error", domain.ErrTransportUnavailable)
		return domain.NoSnapshot()
	}

	path := domain.SnapshotPath(storeKey, versionKey, userID, day)
	doc, found, err := s.store.Get(ctx, path)
	if err != nil {
		s.logger.ErrorContext(ctx, "snapshot load failed",
			"store", storeKey, "version", domain.NormalizeVersion(versionKey), "user", userID, "date", day, "error", err)
		return domain.NoSnapshot()
	}
	if !found {
		return domain.NoSnapshot()
	}

	var snap domain.ChecklistSnapshot
	if err := json.Unmarshal(doc, &snap); err != nil {
		s.logger.ErrorContext(ctx, "snapshot document is corrupted", "path", string(path), "error", err)
		return domain.NoSnapshot()
	}
	if snap.Items == nil {
		snap.Items = domain.Checklist{}
	}

	return domain.SomeSnapshot(snap)
}

// ListHistoryDates returns the distinct days, ascending, that have a saved
// snapshot for the user on the store/version list.
func (s *SnapshotService) ListHistoryDates(ctx context.Context, storeKey, versionKey, userID string) []string {
	storeKey = strings.TrimSpace(storeKey)
	userID = strings.TrimSpace(userID)
	if storeKey == "" || userID == "" {
		return []string{}
	}

	if s.store == nil {
		s.logger.ErrorContext(ctx, "history listing failed", "error", domain.ErrTransportUnavailable)
		return []string{}
	}

	ids, err := s.store.ListChildren(ctx, domain.HistoryCollection(storeKey, versionKey, userID))
	if err != nil {
		s.logger.ErrorContext(ctx, "history listing failed",
			"store", storeKey, "version", domain.NormalizeVersion(versionKey), "user", userID, "error", err)
		return []string{}
	}

	seen := make(map[string]bool, len(ids))
	dates := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		dates = append(dates, id)
	}
	sort.Strings(dates)

	return dates
}
