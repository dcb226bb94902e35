package domain

import (
	"context"
	"strings"
)

const (
	CollectionContributions = "checklist_contributions"
	CollectionUsers         = "users"
	CollectionHistory       = "history"
)

// CollectionPath addresses a collection of documents, e.g.
// checklist_contributions/{storeListId}/users/{userId}/history.
type CollectionPath string

// DocumentPath addresses one document inside a collection.
type DocumentPath string

func (c CollectionPath) Doc(id string) DocumentPath {
	return DocumentPath(string(c) + "/" + id)
}

// Split returns the parent collection and the document id.
func (p DocumentPath) Split() (CollectionPath, string) {
	s := string(p)
	i := strings.LastIndex(s, "/")
	if i < 0 {
		return "", s
	}
	return CollectionPath(s[:i]), s[i+1:]
}

// HistoryCollection holds one document per saved day for a user on a
// store/version list.
func HistoryCollection(storeKey, versionKey, userID string) CollectionPath {
	return CollectionPath(strings.Join([]string{
		CollectionContributions, StoreListID(storeKey, versionKey),
		CollectionUsers, userID,
		CollectionHistory,
	}, "/"))
}

func SnapshotPath(storeKey, versionKey, userID, date string) DocumentPath {
	return HistoryCollection(storeKey, versionKey, userID).Doc(date)
}

type SetOptions struct {
	// Merge keeps fields of the stored document that the new document does
	// not mention. Arrays are replaced, never merged element-wise.
	Merge bool
}

// DocumentStore is keyed hierarchical persistence for JSON documents.
// Writes are last-write-wins; there is no compare-and-swap.
type DocumentStore interface {
	// Get returns the document body and whether it exists.
	Get(ctx context.Context, path DocumentPath) ([]byte, bool, error)

	Set(ctx context.Context, path DocumentPath, doc []byte, opts SetOptions) error

	// ListChildren returns the ids of the documents directly in a collection.
	ListChildren(ctx context.Context, collection CollectionPath) ([]string, error)
}
