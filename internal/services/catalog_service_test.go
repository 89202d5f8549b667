package services

import (
	"sort"
	"testing"
)

type stubCatalogStore struct {
	pillars   map[string]*Pillar
	questions map[string]*Question
}

func newStubCatalogStore() *stubCatalogStore {
	return &stubCatalogStore{
		pillars:   map[string]*Pillar{},
		questions: map[string]*Question{},
	}
}

func (s *stubCatalogStore) InsertPillar(p *Pillar) (*Pillar, error) {
	copy := *p
	s.pillars[p.ID] = &copy
	return &copy, nil
}

func (s *stubCatalogStore) UpdatePillar(p *Pillar) error {
	if _, ok := s.pillars[p.ID]; !ok {
		return NewNotFoundError("pillar not found")
	}
	copy := *p
	s.pillars[p.ID] = &copy
	return nil
}

func (s *stubCatalogStore) DeletePillar(id string) error {
	if _, ok := s.pillars[id]; !ok {
		return NewNotFoundError("pillar not found")
	}
	delete(s.pillars, id)
	for qid, q := range s.questions {
		if q.PillarID == id {
			delete(s.questions, qid)
		}
	}
	return nil
}

func (s *stubCatalogStore) GetPillar(id string) (*Pillar, error) {
	if p, ok := s.pillars[id]; ok {
		copy := *p
		return &copy, nil
	}
	return nil, nil
}

func (s *stubCatalogStore) InsertQuestion(q *Question) (*Question, error) {
	copy := *q
	s.questions[q.ID] = &copy
	return &copy, nil
}

func (s *stubCatalogStore) UpdateQuestion(q *Question) error {
	if _, ok := s.questions[q.ID]; !ok {
		return NewNotFoundError("question not found")
	}
	copy := *q
	s.questions[q.ID] = &copy
	return nil
}

func (s *stubCatalogStore) DeleteQuestion(id string) error {
	if _, ok := s.questions[id]; !ok {
		return NewNotFoundError("question not found")
	}
	delete(s.questions, id)
	return nil
}

func (s *stubCatalogStore) GetQuestion(id string) (*Question, error) {
	if q, ok := s.questions[id]; ok {
		copy := *q
		return &copy, nil
	}
	return nil, nil
}

func (s *stubCatalogStore) Snapshot() (*CatalogSnapshot, error) {
	out := &CatalogSnapshot{}
	for _, p := range s.pillars {
		copy := *p
		copy.Questions = nil
		for _, q := range s.questions {
			if q.PillarID == p.ID {
				qc := *q
				copy.Questions = append(copy.Questions, &qc)
			}
		}
		sort.Slice(copy.Questions, func(i, j int) bool { return copy.Questions[i].ID < copy.Questions[j].ID })
		out.Pillars = append(out.Pillars, &copy)
	}
	sort.Slice(out.Pillars, func(i, j int) bool { return out.Pillars[i].ID < out.Pillars[j].ID })
	return out, nil
}

var (
	memberCaller = Identity{UserID: "u1", Role: RoleMember}
	adminCaller  = Identity{UserID: "boss", Role: RoleAdmin}
)

func TestCreatePillarGeneratesID(t *testing.T) {
	svc := NewCatalogService(newStubCatalogStore())

	p, err := svc.CreatePillar(memberCaller, &Pillar{Name: "Security"})
	if err != nil {
		t.Fatalf("CreatePillar returned error: %v", err)
	}
	if p.ID == "" {
		t.Fatalf("expected generated id")
	}
	if p.Name != "Security" {
		t.Fatalf("name = %q, want Security", p.Name)
	}

	if _, err := svc.CreatePillar(memberCaller, &Pillar{Name: "   "}); err == nil {
		t.Fatalf("expected invalid error for blank name")
	}
}

func TestCreatePillarRequiresAuth(t *testing.T) {
	svc := NewCatalogService(newStubCatalogStore())

	_, err := svc.CreatePillar(Identity{}, &Pillar{Name: "Security"})
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorUnauthenticated {
		t.Fatalf("error = %v, want unauthenticated", err)
	}
}

func TestCreateQuestionDefaults(t *testing.T) {
	store := newStubCatalogStore()
	store.pillars["p1"] = &Pillar{ID: "p1", Name: "Security"}
	svc := NewCatalogService(store)

	q, err := svc.CreateQuestion(memberCaller, &Question{PillarID: "p1", Text: "Backups offsite?", PositiveAnswer: AnswerYes})
	if err != nil {
		t.Fatalf("CreateQuestion returned error: %v", err)
	}
	if q.Points != 1 {
		t.Fatalf("default points = %d, want 1", q.Points)
	}
	if q.AnswerType != AnswerTypeBinary {
		t.Fatalf("default answer type = %q, want BINARY", q.AnswerType)
	}
	if q.ID == "" {
		t.Fatalf("expected generated question id")
	}
}

func TestCreateQuestionValidation(t *testing.T) {
	store := newStubCatalogStore()
	store.pillars["p1"] = &Pillar{ID: "p1", Name: "Security"}
	svc := NewCatalogService(store)

	cases := []struct {
		name string
		in   *Question
		code ErrorCode
	}{
		{"missing pillar", &Question{PillarID: "ghost", Text: "X?", PositiveAnswer: AnswerYes}, ErrorNotFound},
		{"blank text", &Question{PillarID: "p1", Text: " ", PositiveAnswer: AnswerYes}, ErrorInvalid},
		{"bad positive answer", &Question{PillarID: "p1", Text: "X?", PositiveAnswer: "YES"}, ErrorInvalid},
		{"negative points", &Question{PillarID: "p1", Text: "X?", PositiveAnswer: AnswerNo, Points: -2}, ErrorInvalid},
		{"bad answer type", &Question{PillarID: "p1", Text: "X?", PositiveAnswer: AnswerNo, AnswerType: "QUAD"}, ErrorInvalid},
	}
	for _, c := range cases {
		_, err := svc.CreateQuestion(memberCaller, c.in)
		se, ok := AsServiceError(err)
		if !ok || se.Code != c.code {
			t.Fatalf("%s: error = %v, want %s", c.name, err, c.code)
		}
	}
}

func TestUpdateQuestionKeepsPillarWhenOmitted(t *testing.T) {
	store := newStubCatalogStore()
	store.pillars["p1"] = &Pillar{ID: "p1", Name: "Security"}
	store.questions["q1"] = &Question{ID: "q1", PillarID: "p1", Text: "Old?", Points: 2, PositiveAnswer: AnswerYes, AnswerType: AnswerTypeBinary}
	svc := NewCatalogService(store)

	got, err := svc.UpdateQuestion(memberCaller, "q1", &Question{Text: "New?", Points: 3, PositiveAnswer: AnswerNo, AnswerType: AnswerTypeTernary})
	if err != nil {
		t.Fatalf("UpdateQuestion returned error: %v", err)
	}
	if got.PillarID != "p1" {
		t.Fatalf("pillar id = %q, want p1", got.PillarID)
	}
	if got.Text != "New?" || got.Points != 3 || got.PositiveAnswer != AnswerNo {
		t.Fatalf("updated question = %+v", got)
	}

	if _, err := svc.UpdateQuestion(memberCaller, "ghost", &Question{Text: "X?", PositiveAnswer: AnswerYes}); err == nil {
		t.Fatalf("expected not found for unknown question")
	}
}

func TestDeletePillarRequiresAdmin(t *testing.T) {
	store := newStubCatalogStore()
	store.pillars["p1"] = &Pillar{ID: "p1", Name: "Security"}
	store.questions["q1"] = &Question{ID: "q1", PillarID: "p1", Text: "X?", PositiveAnswer: AnswerYes}
	svc := NewCatalogService(store)

	err := svc.DeletePillar(memberCaller, "p1")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorForbidden {
		t.Fatalf("member delete error = %v, want forbidden", err)
	}

	if err := svc.DeletePillar(adminCaller, "p1"); err != nil {
		t.Fatalf("admin delete returned error: %v", err)
	}
	if len(store.pillars) != 0 || len(store.questions) != 0 {
		t.Fatalf("expected pillar and its questions gone, have %d/%d", len(store.pillars), len(store.questions))
	}

	if err := svc.DeletePillar(adminCaller, "p1"); err == nil {
		t.Fatalf("expected not found for second delete")
	}
}

func TestDeleteQuestionRequiresAdmin(t *testing.T) {
	store := newStubCatalogStore()
	store.pillars["p1"] = &Pillar{ID: "p1", Name: "Security"}
	store.questions["q1"] = &Question{ID: "q1", PillarID: "p1", Text: "X?", PositiveAnswer: AnswerYes}
	svc := NewCatalogService(store)

	if err := svc.DeleteQuestion(memberCaller, "q1"); err == nil {
		t.Fatalf("expected forbidden for member")
	}
	if err := svc.DeleteQuestion(adminCaller, "q1"); err != nil {
		t.Fatalf("admin delete returned error: %v", err)
	}
}

func TestSnapshotRequiresAuth(t *testing.T) {
	store := newStubCatalogStore()
	store.pillars["p1"] = &Pillar{ID: "p1", Name: "Security"}
	store.questions["q1"] = &Question{ID: "q1", PillarID: "p1", Text: "X?", PositiveAnswer: AnswerYes}
	svc := NewCatalogService(store)

	if _, err := svc.Snapshot(Identity{}); err == nil {
		t.Fatalf("expected unauthenticated error")
	}

	snap, err := svc.Snapshot(memberCaller)
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if len(snap.Pillars) != 1 || len(snap.Pillars[0].Questions) != 1 {
		t.Fatalf("snapshot = %+v, want one pillar with one question", snap)
	}
}

func TestListPillarsEmbedsQuestions(t *testing.T) {
	store := newStubCatalogStore()
	store.pillars["p1"] = &Pillar{ID: "p1", Name: "Security"}
	store.pillars["p2"] = &Pillar{ID: "p2", Name: "Operations"}
	store.questions["q1"] = &Question{ID: "q1", PillarID: "p1", Text: "X?", PositiveAnswer: AnswerYes}
	svc := NewCatalogService(store)

	if _, err := svc.ListPillars(Identity{}); err == nil {
		t.Fatalf("expected unauthenticated error")
	}

	pillars, err := svc.ListPillars(memberCaller)
	if err != nil {
		t.Fatalf("ListPillars returned error: %v", err)
	}
	if len(pillars) != 2 {
		t.Fatalf("pillars = %d, want 2", len(pillars))
	}
	if pillars[0].ID != "p1" || len(pillars[0].Questions) != 1 {
		t.Fatalf("first pillar = %+v, want p1 with its question", pillars[0])
	}
}
