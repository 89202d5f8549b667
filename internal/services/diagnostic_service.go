package services

import "time"

// DiagnosticStore is the storage dependency needed by DiagnosticService.
// Get methods return (nil, nil) when the record does not exist;
// ListResultsByUser returns newest first.
type DiagnosticStore interface {
	Snapshot() (*CatalogSnapshot, error)
	InsertResult(r *DiagnosticResult) (*DiagnosticResult, error)
	GetResult(id string) (*DiagnosticResult, error)
	ListResultsByUser(userID string) ([]*DiagnosticResult, error)
	DeleteResult(id string) error
}

// DiagnosticService scores submissions against the current catalog and
// manages the stored results. Results are write-once: there is no update
// path, only submit, read and delete.
type DiagnosticService struct {
	store   DiagnosticStore
	policy  *Policy
	neutral NeutralPolicy
	now     func() time.Time
	idGen   func(n int) string
}

func NewDiagnosticService(store DiagnosticStore, neutral NeutralPolicy) *DiagnosticService {
	return &DiagnosticService{
		store:   store,
		policy:  NewPolicy(),
		neutral: neutral,
		now:     func() time.Time { return time.Now().UTC() },
		idGen:   shortID,
	}
}

// Submit scores answers against one catalog snapshot and persists the
// outcome. Nothing is stored when validation fails. CompanyData is kept
// as supplied; only its presence is checked.
func (s *DiagnosticService) Submit(caller Identity, companyData map[string]any, answers map[string]string) (*DiagnosticResult, error) {
	if err := s.policy.Authorize(caller, ActionResultCreate, caller.UserID); err != nil {
		return nil, err
	}
	if companyData == nil {
		return nil, NewInvalidError("company_data required")
	}
	if answers == nil {
		answers = map[string]string{}
	}
	snapshot, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	scored, err := ScoreAnswers(answers, snapshot, s.neutral)
	if err != nil {
		return nil, err
	}
	result := &DiagnosticResult{
		ID:               s.idGen(12),
		UserID:           caller.UserID,
		CompanyData:      companyData,
		Answers:          answers,
		PillarScores:     scored.PillarScores,
		TotalScore:       scored.TotalScore,
		MaxPossibleScore: scored.MaxPossibleScore,
		PercentageScore:  scored.PercentageScore,
		CreatedAt:        s.now(),
	}
	stored, err := s.store.InsertResult(result)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return result, nil
	}
	return stored, nil
}

func (s *DiagnosticService) Get(caller Identity, id string) (*DiagnosticResult, error) {
	if !caller.Authenticated() {
		return nil, NewUnauthenticatedError("authentication required")
	}
	r, err := s.store.GetResult(id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, NewNotFoundError("result not found")
	}
	if err := s.policy.Authorize(caller, ActionResultRead, r.UserID); err != nil {
		return nil, err
	}
	return r, nil
}

// List returns the caller's own results, newest first.
func (s *DiagnosticService) List(caller Identity) ([]*DiagnosticResult, error) {
	if err := s.policy.Authorize(caller, ActionResultRead, caller.UserID); err != nil {
		return nil, err
	}
	return s.store.ListResultsByUser(caller.UserID)
}

func (s *DiagnosticService) Delete(caller Identity, id string) error {
	if !caller.Authenticated() {
		return NewUnauthenticatedError("authentication required")
	}
	r, err := s.store.GetResult(id)
	if err != nil {
		return err
	}
	if r == nil {
		return NewNotFoundError("result not found")
	}
	if err := s.policy.Authorize(caller, ActionResultDelete, r.UserID); err != nil {
		return err
	}
	return s.store.DeleteResult(id)
}
