package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/comitanigiacomo/checklist-sync-engine/internal/core/domain"
)

// MigrationService moves a single line between the two versions of a
// store's list. The two snapshot writes are independent: if the source
// rewrite fails after the destination was saved, the line is left in both
// lists and the caller gets ErrPartialMigration.
type MigrationService struct {
	storeAccess
	snapshots *SnapshotService
	logger    *slog.Logger
}

func NewMigrationService(snapshots *SnapshotService, stores *domain.StoreDirectory, policy domain.AccessPolicy, logger *slog.Logger) *MigrationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MigrationService{
		storeAccess: storeAccess{stores: stores, policy: policy},
		snapshots:   snapshots,
		logger:      logger,
	}
}

type MoveLineResult struct {
	domain.Outcome
	FromVersion string                    `json:"from_version,omitempty"`
	ToVersion   string                    `json:"to_version,omitempty"`
	Date        string                    `json:"date,omitempty"`
	Items       domain.Checklist          `json:"items"`
	Destination *domain.ChecklistSnapshot `json:"destination,omitempty"`
	Merged      bool                      `json:"merged"`
	History     []string                  `json:"history,omitempty"`
}

func (s *MigrationService) MoveLine(ctx context.Context, session domain.Session, index int) (*MoveLineResult, error) {
	if session.UserID() == "" {
		return &MoveLineResult{Outcome: domain.Refuse(domain.ReasonNoSession), Items: session.Items.Clone()}, nil
	}

	today := s.snapshots.Today()
	if session.IsHistorical(today) {
		return &MoveLineResult{Outcome: domain.Refuse(domain.ReasonHistoricalMove), Items: session.Items.Clone()}, nil
	}

	store, from, err := s.resolve(session)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(session.Items) {
		return nil, domain.ErrLineIndexOutOfRange
	}

	userID := session.UserID()
	to := domain.SiblingVersion(from)
	line := session.Items[index]

	dest := s.snapshots.Load(ctx, store.Key, to, userID, today).OrSkeleton(store.Key, store.Name, to)
	dest.Meta.StoreKey = store.Key
	dest.Meta.StoreName = store.Name
	dest.Meta.Version = to

	merged, res := dest.Items.Reconcile(line)
	dest.Items = merged

	if _, err := s.snapshots.Save(ctx, store.Key, to, userID, dest, today); err != nil {
		return nil, fmt.Errorf("migration service: save destination %s: %w", to, err)
	}

	remaining, _, err := session.Items.Remove(index)
	if err != nil {
		return nil, err
	}

	source := domain.NewSnapshot(store.Key, store.Name, from)
	source.Items = remaining
	if _, err := s.snapshots.Save(ctx, store.Key, from, userID, source, today); err != nil {
		s.logger.ErrorContext(ctx, "line moved but source list not rewritten",
			"store", store.Key, "from", from, "to", to, "user", userID, "key", line.Key(), "error", err)
		return nil, fmt.Errorf("migration service: save source %s: %w: %w", from, domain.ErrPartialMigration, err)
	}

	s.logger.InfoContext(ctx, "line moved",
		"store", store.Key, "from", from, "to", to, "user", userID, "merged", res.Merged)

	return &MoveLineResult{
		FromVersion: from,
		ToVersion:   to,
		Date:        today,
		Items:       remaining,
		Destination: dest,
		Merged:      res.Merged,
		History:     s.snapshots.ListHistoryDates(ctx, store.Key, from, userID),
	}, nil
}
