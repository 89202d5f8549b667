package api

import "github.com/dmelojr/Diagnos/internal/services"

type diagnosticStoreAdapter struct {
	store Store
}

func newDiagnosticStoreAdapter(store Store) *diagnosticStoreAdapter {
	return &diagnosticStoreAdapter{store: store}
}

func (a *diagnosticStoreAdapter) Snapshot() (*services.CatalogSnapshot, error) {
	snap, err := a.store.CatalogSnapshot()
	if err != nil {
		return nil, storeErr(err)
	}
	return convertAPISnapshot(snap), nil
}

func (a *diagnosticStoreAdapter) InsertResult(r *services.DiagnosticResult) (*services.DiagnosticResult, error) {
	stored, err := a.store.AddResult(convertServiceResult(r))
	if err != nil {
		return nil, storeErr(err)
	}
	return convertAPIResult(stored), nil
}

func (a *diagnosticStoreAdapter) GetResult(id string) (*services.DiagnosticResult, error) {
	r, err := a.store.GetResult(id)
	if err != nil {
		return nil, storeErr(err)
	}
	return convertAPIResult(r), nil
}

func (a *diagnosticStoreAdapter) ListResultsByUser(userID string) ([]*services.DiagnosticResult, error) {
	results, err := a.store.ListResultsByUser(userID)
	if err != nil {
		return nil, storeErr(err)
	}
	out := make([]*services.DiagnosticResult, 0, len(results))
	for _, r := range results {
		out = append(out, convertAPIResult(r))
	}
	return out, nil
}

func (a *diagnosticStoreAdapter) DeleteResult(id string) error {
	return storeErr(a.store.DeleteResult(id))
}

// storeErr translates raw storage failures into the retry-safe unavailable
// code. ServiceErrors pass through untouched.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := services.AsServiceError(err); ok {
		return err
	}
	return services.NewUnavailableError(err.Error())
}

func convertServiceResult(r *services.DiagnosticResult) *DiagnosticResult {
	if r == nil {
		return nil
	}
	out := &DiagnosticResult{
		ID:               r.ID,
		UserID:           r.UserID,
		CompanyData:      r.CompanyData,
		Answers:          r.Answers,
		TotalScore:       r.TotalScore,
		MaxPossibleScore: r.MaxPossibleScore,
		PercentageScore:  r.PercentageScore,
		CreatedAt:        r.CreatedAt,
	}
	if r.PillarScores != nil {
		out.PillarScores = make(map[string]PillarScore, len(r.PillarScores))
		for id, ps := range r.PillarScores {
			out.PillarScores[id] = PillarScore{Earned: ps.Earned, Max: ps.Max, Percentage: ps.Percentage}
		}
	}
	return out
}

func convertAPIResult(r *DiagnosticResult) *services.DiagnosticResult {
	if r == nil {
		return nil
	}
	out := &services.DiagnosticResult{
		ID:               r.ID,
		UserID:           r.UserID,
		CompanyData:      r.CompanyData,
		Answers:          r.Answers,
		TotalScore:       r.TotalScore,
		MaxPossibleScore: r.MaxPossibleScore,
		PercentageScore:  r.PercentageScore,
		CreatedAt:        r.CreatedAt,
	}
	if r.PillarScores != nil {
		out.PillarScores = make(map[string]services.PillarScore, len(r.PillarScores))
		for id, ps := range r.PillarScores {
			out.PillarScores[id] = services.PillarScore{Earned: ps.Earned, Max: ps.Max, Percentage: ps.Percentage}
		}
	}
	return out
}

var (
	_ services.DiagnosticStore = (*diagnosticStoreAdapter)(nil)
	_ services.AnalyticsStore  = (*diagnosticStoreAdapter)(nil)
)
