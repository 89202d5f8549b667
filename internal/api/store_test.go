package api

import (
	"testing"
	"time"
)

func TestMemoryStoreSnapshotOrderAndIsolation(t *testing.T) {
	m := newMemoryStore()
	if _, err := m.AddPillar(&Pillar{ID: "p2", Name: "Operations", Order: 2}); err != nil {
		t.Fatalf("AddPillar: %v", err)
	}
	if _, err := m.AddPillar(&Pillar{ID: "p1", Name: "Security", Order: 1}); err != nil {
		t.Fatalf("AddPillar: %v", err)
	}
	if _, err := m.AddQuestion(&Question{ID: "q1", PillarID: "p1", Text: "X?", Order: 1}); err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}

	snap, err := m.CatalogSnapshot()
	if err != nil {
		t.Fatalf("CatalogSnapshot: %v", err)
	}
	if len(snap.Pillars) != 2 || snap.Pillars[0].ID != "p1" || snap.Pillars[1].ID != "p2" {
		t.Fatalf("pillar order wrong: %+v", snap.Pillars)
	}
	if len(snap.Pillars[0].Questions) != 1 {
		t.Fatalf("p1 questions = %d, want 1", len(snap.Pillars[0].Questions))
	}

	// Mutating the snapshot must not leak into the store.
	snap.Pillars[0].Name = "tampered"
	snap.Pillars[0].Questions[0].Text = "tampered"
	again, _ := m.CatalogSnapshot()
	if again.Pillars[0].Name != "Security" || again.Pillars[0].Questions[0].Text != "X?" {
		t.Fatalf("snapshot shares memory with the store")
	}
}

func TestMemoryStoreDeletePillarCascades(t *testing.T) {
	m := newMemoryStore()
	_, _ = m.AddPillar(&Pillar{ID: "p1", Name: "Security"})
	_, _ = m.AddQuestion(&Question{ID: "q1", PillarID: "p1", Text: "X?"})
	_, _ = m.AddQuestion(&Question{ID: "q2", PillarID: "p1", Text: "Y?"})

	if err := m.DeletePillar("p1"); err != nil {
		t.Fatalf("DeletePillar: %v", err)
	}
	for _, id := range []string{"q1", "q2"} {
		q, err := m.GetQuestion(id)
		if err != nil {
			t.Fatalf("GetQuestion: %v", err)
		}
		if q != nil {
			t.Fatalf("question %s survived cascade", id)
		}
	}
}

func TestMemoryStoreStampsTimestamps(t *testing.T) {
	m := newMemoryStore()
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return created }

	p, err := m.AddPillar(&Pillar{ID: "p1", Name: "Security"})
	if err != nil {
		t.Fatalf("AddPillar: %v", err)
	}
	if !p.CreatedAt.Equal(created) || !p.UpdatedAt.Equal(created) {
		t.Fatalf("timestamps = %v/%v, want both %v", p.CreatedAt, p.UpdatedAt, created)
	}

	m.now = func() time.Time { return updated }
	p.Name = "Renamed"
	if err := m.UpdatePillar(p); err != nil {
		t.Fatalf("UpdatePillar: %v", err)
	}
	got, _ := m.GetPillar("p1")
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("created_at changed on update: %v", got.CreatedAt)
	}
	if !got.UpdatedAt.Equal(updated) {
		t.Fatalf("updated_at = %v, want %v", got.UpdatedAt, updated)
	}
}

func TestMemoryStoreResultsNewestFirst(t *testing.T) {
	m := newMemoryStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		_, err := m.AddResult(&DiagnosticResult{ID: id, UserID: "u1", CreatedAt: base.Add(time.Duration(i) * time.Hour)})
		if err != nil {
			t.Fatalf("AddResult: %v", err)
		}
	}
	_, _ = m.AddResult(&DiagnosticResult{ID: "other", UserID: "u2", CreatedAt: base})

	got, err := m.ListResultsByUser("u1")
	if err != nil {
		t.Fatalf("ListResultsByUser: %v", err)
	}
	if len(got) != 3 || got[0].ID != "c" || got[1].ID != "b" || got[2].ID != "a" {
		t.Fatalf("order wrong: %v", got)
	}

	if err := m.DeleteResult("b"); err != nil {
		t.Fatalf("DeleteResult: %v", err)
	}
	got, _ = m.ListResultsByUser("u1")
	if len(got) != 2 {
		t.Fatalf("after delete len = %d, want 2", len(got))
	}
}

func TestMemoryStoreUsersAndSettings(t *testing.T) {
	m := newMemoryStore()
	if err := m.AddUser(&User{ID: "u1", Email: "User@Example.com", Role: "admin"}); err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	if err := m.AddUser(&User{ID: "u2", Email: "user@example.com"}); err == nil {
		t.Fatalf("expected duplicate email error")
	}
	u, err := m.FindUserByEmail("user@example.com")
	if err != nil || u == nil || u.ID != "u1" {
		t.Fatalf("lookup = %v, %v", u, err)
	}
	if n, _ := m.CountUsers(); n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}

	st, _ := m.GetSettings()
	if st != nil {
		t.Fatalf("empty store should have nil settings")
	}
	if err := m.UpsertSettings(&Settings{Logo: "l.png"}); err != nil {
		t.Fatalf("UpsertSettings: %v", err)
	}
	st, _ = m.GetSettings()
	if st == nil || st.Logo != "l.png" || st.UpdatedAt.IsZero() {
		t.Fatalf("settings = %+v", st)
	}
}
