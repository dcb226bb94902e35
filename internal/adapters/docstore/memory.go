package docstore

import (
	"context"
	"sort"
	"sync"

	"github.com/comitanigiacomo/checklist-sync-engine/internal/core/domain"
)

var _ domain.DocumentStore = (*MemoryStore)(nil)

type MemoryStore struct {
	docs     map[domain.DocumentPath][]byte
	children map[domain.CollectionPath]map[string]struct{}

	mu sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:     make(map[domain.DocumentPath][]byte),
		children: make(map[domain.CollectionPath]map[string]struct{}),
	}
}

func (s *MemoryStore) Get(ctx context.Context, path domain.DocumentPath) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[path]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(doc))
	copy(out, doc)
	return out, true, nil
}

func (s *MemoryStore) Set(ctx context.Context, path domain.DocumentPath, doc []byte, opts domain.SetOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, found := s.docs[path]
	body, err := resolve(existing, found, doc, opts)
	if err != nil {
		return err
	}

	stored := make([]byte, len(body))
	copy(stored, body)
	s.docs[path] = stored

	parent, id := path.Split()
	if s.children[parent] == nil {
		s.children[parent] = make(map[string]struct{})
	}
	s.children[parent][id] = struct{}{}
	return nil
}

func (s *MemoryStore) ListChildren(ctx context.Context, collection domain.CollectionPath) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.children[collection]))
	for id := range s.children[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
