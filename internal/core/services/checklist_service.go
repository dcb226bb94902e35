package services

import (
	"context"
	"log/slog"

	"github.com/comitanigiacomo/checklist-sync-engine/internal/core/domain"
)

// ChecklistService implements the editing controls of a checklist session:
// adding and removing lines, saving, clearing and switching the viewed day.
// Every mutating control is refused while a past day is on screen.
type ChecklistService struct {
	storeAccess
	snapshots *SnapshotService
	logger    *slog.Logger
}

func NewChecklistService(snapshots *SnapshotService, stores *domain.StoreDirectory, policy domain.AccessPolicy, logger *slog.Logger) *ChecklistService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChecklistService{
		storeAccess: storeAccess{stores: stores, policy: policy},
		snapshots:   snapshots,
		logger:      logger,
	}
}

type EditResult struct {
	domain.Outcome
	Items     domain.Checklist        `json:"items"`
	Reconcile *domain.ReconcileResult `json:"reconcile,omitempty"`
	Removed   *domain.ChecklistLine   `json:"removed,omitempty"`
}

type SaveResult struct {
	domain.Outcome
	Date     string                    `json:"date,omitempty"`
	Snapshot *domain.ChecklistSnapshot `json:"snapshot,omitempty"`
	History  []string                  `json:"history,omitempty"`
}

type DayView struct {
	Date     string                  `json:"date"`
	Today    string                  `json:"today"`
	ReadOnly bool                    `json:"read_only"`
	Snapshot domain.OptionalSnapshot `json:"snapshot"`
}

// Reconcile merges a line into a checklist without any session context.
func (s *ChecklistService) Reconcile(items domain.Checklist, line domain.ChecklistLine) (domain.Checklist, domain.ReconcileResult) {
	return items.Reconcile(line)
}

func (s *ChecklistService) AddLine(session domain.Session, line domain.ChecklistLine) (*EditResult, error) {
	if _, _, err := s.resolve(session); err != nil {
		return nil, err
	}

	if session.IsHistorical(s.snapshots.Today()) {
		return &EditResult{Outcome: domain.Refuse(domain.ReasonHistoricalEdit), Items: session.Items.Clone()}, nil
	}

	items, res := session.Items.Reconcile(line)
	return &EditResult{Items: items, Reconcile: &res}, nil
}

func (s *ChecklistService) RemoveLine(session domain.Session, index int) (*EditResult, error) {
	if _, _, err := s.resolve(session); err != nil {
		return nil, err
	}

	if session.IsHistorical(s.snapshots.Today()) {
		return &EditResult{Outcome: domain.Refuse(domain.ReasonHistoricalEdit), Items: session.Items.Clone()}, nil
	}

	items, removed, err := session.Items.Remove(index)
	if err != nil {
		return nil, err
	}
	return &EditResult{Items: items, Removed: &removed}, nil
}

// Save writes the session's rows as today's snapshot.
func (s *ChecklistService) Save(ctx context.Context, session domain.Session) (*SaveResult, error) {
	return s.save(ctx, session, session.Items, domain.ReasonHistoricalSave)
}

// Clear saves an empty list for today. The day stays in the history.
func (s *ChecklistService) Clear(ctx context.Context, session domain.Session) (*SaveResult, error) {
	return s.save(ctx, session, domain.Checklist{}, domain.ReasonHistoricalClear)
}

func (s *ChecklistService) save(ctx context.Context, session domain.Session, items domain.Checklist, refusal string) (*SaveResult, error) {
	store, version, err := s.resolve(session)
	if err != nil {
		return nil, err
	}

	today := s.snapshots.Today()
	if session.IsHistorical(today) {
		return &SaveResult{Outcome: domain.Refuse(refusal)}, nil
	}

	payload := domain.NewSnapshot(store.Key, store.Name, version)
	payload.Items = items.Clone()

	date, err := s.snapshots.Save(ctx, store.Key, version, session.UserID(), payload, today)
	if err != nil {
		return nil, err
	}

	return &SaveResult{
		Date:     date,
		Snapshot: payload,
		History:  s.snapshots.ListHistoryDates(ctx, store.Key, version, session.UserID()),
	}, nil
}

// Open loads the snapshot of a day for viewing. Any day other than today
// is read-only; an empty date returns to today.
func (s *ChecklistService) Open(ctx context.Context, session domain.Session, date string) (*DayView, error) {
	store, version, err := s.resolve(session)
	if err != nil {
		return nil, err
	}

	today := s.snapshots.Today()
	day := today
	if date != "" {
		if err := domain.ValidateDate(date); err != nil {
			return nil, err
		}
		day = date
	}

	return &DayView{
		Date:     day,
		Today:    today,
		ReadOnly: day != today,
		Snapshot: s.snapshots.Load(ctx, store.Key, version, session.UserID(), day),
	}, nil
}

func (s *ChecklistService) History(ctx context.Context, session domain.Session) ([]string, error) {
	store, version, err := s.resolve(session)
	if err != nil {
		return nil, err
	}
	return s.snapshots.ListHistoryDates(ctx, store.Key, version, session.UserID()), nil
}

func (s *ChecklistService) Stores(user *domain.User) ([]domain.Store, error) {
	return s.AllowedStores(user)
}
