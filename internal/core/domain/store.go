package domain

import (
	"fmt"
	"strings"
)

type Store struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

func DefaultStores() []Store {
	return []Store{
		{Key: "lista_sexta_calle", Name: "Sexta Calle"},
		{Key: "lista_avenida_morazan", Name: "Avenida Morazán"},
		{Key: "lista_centro_comercial", Name: "Centro Comercial"},
	}
}

// StoreDirectory is the fixed set of stores the service knows about, in
// display order.
type StoreDirectory struct {
	stores []Store
	byKey  map[string]Store
}

func NewStoreDirectory(stores []Store) (*StoreDirectory, error) {
	d := &StoreDirectory{byKey: make(map[string]Store, len(stores))}
	for _, s := range stores {
		s.Key = strings.TrimSpace(s.Key)
		s.Name = strings.TrimSpace(s.Name)
		if s.Key == "" {
			return nil, fmt.Errorf("store directory: %w", ErrStoreKeyRequired)
		}
		if strings.Contains(s.Key, "/") {
			return nil, fmt.Errorf("store directory: key %q must not contain '/'", s.Key)
		}
		if _, dup := d.byKey[s.Key]; dup {
			return nil, fmt.Errorf("store directory: duplicate key %q", s.Key)
		}
		if s.Name == "" {
			s.Name = s.Key
		}
		d.byKey[s.Key] = s
		d.stores = append(d.stores, s)
	}
	return d, nil
}

func (d *StoreDirectory) Lookup(key string) (Store, error) {
	s, ok := d.byKey[strings.TrimSpace(key)]
	if !ok {
		return Store{}, ErrUnknownStore
	}
	return s, nil
}

func (d *StoreDirectory) All() []Store {
	out := make([]Store, len(d.stores))
	copy(out, d.stores)
	return out
}

// AccessPolicy decides whether a user may work on a store's checklists.
type AccessPolicy interface {
	Allowed(user *User, storeKey string) (bool, error)
}
