package services

import (
	"testing"
	"time"
)

type stubSettingsStore struct {
	settings *Settings
}

func (s *stubSettingsStore) GetSettings() (*Settings, error) {
	if s.settings == nil {
		return nil, nil
	}
	copy := *s.settings
	return &copy, nil
}

func (s *stubSettingsStore) UpsertSettings(st *Settings) error {
	copy := *st
	copy.UpdatedAt = time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	s.settings = &copy
	return nil
}

func TestSettingsGetIsPublic(t *testing.T) {
	svc := NewSettingsService(&stubSettingsStore{})

	got, err := svc.Get(Identity{})
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Logo != "" || got.NavbarLogo != "" {
		t.Fatalf("empty store should yield zero settings, got %+v", got)
	}
}

func TestSettingsUpdateRequiresAuth(t *testing.T) {
	store := &stubSettingsStore{}
	svc := NewSettingsService(store)

	_, err := svc.Update(Identity{}, "logo.png", "nav.png")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorUnauthenticated {
		t.Fatalf("error = %v, want unauthenticated", err)
	}
	if store.settings != nil {
		t.Fatalf("nothing should be stored")
	}

	got, err := svc.Update(memberCaller, "logo.png", "nav.png")
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if got.Logo != "logo.png" || got.NavbarLogo != "nav.png" {
		t.Fatalf("settings = %+v", got)
	}
	if got.UpdatedAt.IsZero() {
		t.Fatalf("store should stamp updated_at")
	}
}
