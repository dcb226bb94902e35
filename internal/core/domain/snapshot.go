package domain

import (
	"encoding/json"
	"strings"
	"time"
)

const (
	VersionBase      = "base"
	VersionAlternate = "alterna"

	// StoreListSeparator joins store and version keys. It is not escaped, so
	// a store key containing it can collide with another pairing.
	StoreListSeparator = "__"

	// TimestampLayout matches ISO-8601 UTC timestamps with millisecond precision.
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// NormalizeVersion trims the version key and defaults it to base.
func NormalizeVersion(versionKey string) string {
	v := strings.TrimSpace(versionKey)
	if v == "" {
		return VersionBase
	}
	return v
}

// ParseVersion accepts only the two known list versions.
func ParseVersion(versionKey string) (string, error) {
	v := NormalizeVersion(versionKey)
	if v != VersionBase && v != VersionAlternate {
		return "", ErrInvalidVersion
	}
	return v, nil
}

// SiblingVersion is the list a line moves to from versionKey.
func SiblingVersion(versionKey string) string {
	if NormalizeVersion(versionKey) == VersionAlternate {
		return VersionBase
	}
	return VersionAlternate
}

// StoreListID namespaces every snapshot of one store/version pair.
func StoreListID(storeKey, versionKey string) string {
	return strings.TrimSpace(storeKey) + StoreListSeparator + NormalizeVersion(versionKey)
}

type SnapshotMeta struct {
	StoreKey  string `json:"tienda_key"`
	StoreName string `json:"tienda"`
	Version   string `json:"version"`
	UpdatedAt string `json:"updatedAt"`
	UpdatedBy string `json:"updatedBy"`
}

// ChecklistSnapshot is the persisted unit: the full checklist of one
// store, version, user and day.
type ChecklistSnapshot struct {
	Meta  SnapshotMeta `json:"meta"`
	Items Checklist    `json:"items"`
}

// NewSnapshot builds an empty snapshot skeleton for a store/version.
func NewSnapshot(storeKey, storeName, versionKey string) *ChecklistSnapshot {
	return &ChecklistSnapshot{
		Meta: SnapshotMeta{
			StoreKey:  storeKey,
			StoreName: storeName,
			Version:   NormalizeVersion(versionKey),
		},
		Items: Checklist{},
	}
}

// Stamp records who wrote the snapshot and when.
func (s *ChecklistSnapshot) Stamp(userID string, at time.Time) {
	s.Meta.UpdatedAt = at.UTC().Format(TimestampLayout)
	s.Meta.UpdatedBy = userID
}

// OptionalSnapshot is either a loaded snapshot or nothing. The absent
// value serializes as an empty JSON object.
type OptionalSnapshot struct {
	snapshot *ChecklistSnapshot
}

func SomeSnapshot(s ChecklistSnapshot) OptionalSnapshot {
	return OptionalSnapshot{snapshot: &s}
}

func NoSnapshot() OptionalSnapshot {
	return OptionalSnapshot{}
}

func (o OptionalSnapshot) Present() bool {
	return o.snapshot != nil
}

func (o OptionalSnapshot) Get() (ChecklistSnapshot, bool) {
	if o.snapshot == nil {
		return ChecklistSnapshot{}, false
	}
	return *o.snapshot, true
}

// Items returns the stored lines, or an empty checklist when absent.
func (o OptionalSnapshot) Items() Checklist {
	if o.snapshot == nil {
		return Checklist{}
	}
	return o.snapshot.Items.Clone()
}

// OrSkeleton returns the snapshot, or an empty one carrying the given
// store identity when absent.
func (o OptionalSnapshot) OrSkeleton(storeKey, storeName, versionKey string) *ChecklistSnapshot {
	if o.snapshot == nil {
		return NewSnapshot(storeKey, storeName, versionKey)
	}
	s := *o.snapshot
	s.Items = s.Items.Clone()
	return &s
}

func (o OptionalSnapshot) MarshalJSON() ([]byte, error) {
	if o.snapshot == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(o.snapshot)
}
