package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/checklist-sync-engine/internal/core/domain"
)

var _ domain.DocumentStore = (*SQLStore)(nil)

const queryTimeout = 3 * time.Second

// SQLStore keeps documents in a single table keyed by path, with the parent
// collection and document id split out for listing.
type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Get(ctx context.Context, path domain.DocumentPath) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return getBody(ctx, s.db, path)
}

type queryer interface {
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func getBody(ctx context.Context, q queryer, path domain.DocumentPath) ([]byte, bool, error) {
	var body string
	err := q.QueryRowxContext(ctx, q.Rebind(`SELECT body FROM documents WHERE path = ?`), string(path)).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("docstore: get %s: %w", path, err)
	}
	return []byte(body), true, nil
}

func (s *SQLStore) Set(ctx context.Context, path domain.DocumentPath, doc []byte, opts domain.SetOptions) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("docstore: begin: %w", err)
	}
	defer tx.Rollback()

	var existing []byte
	var found bool
	if opts.Merge {
		existing, found, err = getBody(ctx, tx, path)
		if err != nil {
			return err
		}
	}

	body, err := resolve(existing, found, doc, opts)
	if err != nil {
		return err
	}

	parent, id := path.Split()
	query := tx.Rebind(`
		INSERT INTO documents (path, parent, doc_id, body, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (path) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
	`)
	if _, err := tx.ExecContext(ctx, query, string(path), string(parent), id, string(body), time.Now().UTC()); err != nil {
		return fmt.Errorf("docstore: set %s: %w", path, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("docstore: commit %s: %w", path, err)
	}
	return nil
}

func (s *SQLStore) ListChildren(ctx context.Context, collection domain.CollectionPath) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var ids []string
	query := s.db.Rebind(`SELECT doc_id FROM documents WHERE parent = ? ORDER BY doc_id`)
	if err := s.db.SelectContext(ctx, &ids, query, string(collection)); err != nil {
		return nil, fmt.Errorf("docstore: list %s: %w", collection, err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
