package api

import "github.com/dmelojr/Diagnos/internal/services"

type authStoreAdapter struct {
	store Store
}

func newAuthStoreAdapter(store Store) services.AuthStore {
	return &authStoreAdapter{store: store}
}

func (a *authStoreAdapter) FindUserByEmail(email string) (*services.User, error) {
	u, err := a.store.FindUserByEmail(email)
	if err != nil {
		return nil, storeErr(err)
	}
	if u == nil {
		return nil, nil
	}
	return &services.User{ID: u.ID, Email: u.Email, PassHash: u.PassHash, Role: u.Role, CreatedAt: u.CreatedAt}, nil
}

func (a *authStoreAdapter) AddUser(u *services.User) error {
	if u == nil {
		return services.NewInvalidError("user required")
	}
	return storeErr(a.store.AddUser(&User{ID: u.ID, Email: u.Email, PassHash: u.PassHash, Role: u.Role, CreatedAt: u.CreatedAt}))
}

func (a *authStoreAdapter) CountUsers() (int, error) {
	n, err := a.store.CountUsers()
	if err != nil {
		return 0, storeErr(err)
	}
	return n, nil
}

var _ services.AuthStore = (*authStoreAdapter)(nil)
