package services

// SettingsStore is the storage dependency needed by SettingsService.
type SettingsStore interface {
	GetSettings() (*Settings, error)
	UpsertSettings(st *Settings) error
}

// SettingsService manages the site-wide branding singleton.
type SettingsService struct {
	store  SettingsStore
	policy *Policy
}

func NewSettingsService(store SettingsStore) *SettingsService {
	return &SettingsService{store: store, policy: NewPolicy()}
}

// Get is public: branding renders on pages shown before login.
func (s *SettingsService) Get(caller Identity) (*Settings, error) {
	if err := s.policy.Authorize(caller, ActionSettingsRead, ""); err != nil {
		return nil, err
	}
	st, err := s.store.GetSettings()
	if err != nil {
		return nil, err
	}
	if st == nil {
		return &Settings{}, nil
	}
	return st, nil
}

// Update replaces both branding fields. The store stamps UpdatedAt.
func (s *SettingsService) Update(caller Identity, logo, navbarLogo string) (*Settings, error) {
	if err := s.policy.Authorize(caller, ActionSettingsWrite, ""); err != nil {
		return nil, err
	}
	if err := s.store.UpsertSettings(&Settings{Logo: logo, NavbarLogo: navbarLogo}); err != nil {
		return nil, err
	}
	return s.store.GetSettings()
}
