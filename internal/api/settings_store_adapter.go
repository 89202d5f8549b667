package api

import "github.com/dmelojr/Diagnos/internal/services"

type settingsStoreAdapter struct {
	store Store
}

func newSettingsStoreAdapter(store Store) services.SettingsStore {
	return &settingsStoreAdapter{store: store}
}

func (a *settingsStoreAdapter) GetSettings() (*services.Settings, error) {
	st, err := a.store.GetSettings()
	if err != nil {
		return nil, storeErr(err)
	}
	if st == nil {
		return nil, nil
	}
	return &services.Settings{Logo: st.Logo, NavbarLogo: st.NavbarLogo, UpdatedAt: st.UpdatedAt}, nil
}

func (a *settingsStoreAdapter) UpsertSettings(st *services.Settings) error {
	if st == nil {
		return services.NewInvalidError("settings required")
	}
	return storeErr(a.store.UpsertSettings(&Settings{Logo: st.Logo, NavbarLogo: st.NavbarLogo}))
}

var _ services.SettingsStore = (*settingsStoreAdapter)(nil)
