package services

import (
	"errors"
	"fmt"

	"github.com/comitanigiacomo/checklist-sync-engine/internal/core/domain"
)

// storeAccess resolves the store and version a session works on and checks
// the user may touch them.
type storeAccess struct {
	stores *domain.StoreDirectory
	policy domain.AccessPolicy
}

func (a storeAccess) resolve(session domain.Session) (domain.Store, string, error) {
	store, err := a.stores.Lookup(session.StoreKey)
	if err != nil {
		return domain.Store{}, "", err
	}

	version, err := domain.ParseVersion(session.VersionKey)
	if err != nil {
		return domain.Store{}, "", err
	}

	if err := a.authorize(session.User, store.Key); err != nil {
		return domain.Store{}, "", err
	}

	return store, version, nil
}

func (a storeAccess) authorize(user *domain.User, storeKey string) error {
	if user == nil || user.ID == "" {
		return domain.ErrUnauthorized
	}
	if !user.Active {
		return domain.ErrUserInactive
	}

	ok, err := a.policy.Allowed(user, storeKey)
	if err != nil {
		return fmt.Errorf("store access policy: %w", err)
	}
	if !ok {
		return domain.ErrStoreForbidden
	}
	return nil
}

// AllowedStores lists the stores the user may open, in directory order.
func (a storeAccess) AllowedStores(user *domain.User) ([]domain.Store, error) {
	allowed := []domain.Store{}
	for _, s := range a.stores.All() {
		err := a.authorize(user, s.Key)
		if err == nil {
			allowed = append(allowed, s)
			continue
		}
		if !errors.Is(err, domain.ErrStoreForbidden) {
			return nil, err
		}
	}
	return allowed, nil
}
