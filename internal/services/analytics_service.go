package services

// AnalyticsStore is the storage dependency needed by AnalyticsService.
type AnalyticsStore interface {
	ListResultsByUser(userID string) ([]*DiagnosticResult, error)
}

// HistorySummary aggregates a user's diagnostic history.
type HistorySummary struct {
	Results          int                `json:"results"`
	LatestPercentage float64            `json:"latest_percentage"`
	FirstPercentage  float64            `json:"first_percentage"`
	Delta            float64            `json:"delta"`
	PillarAverages   map[string]float64 `json:"pillar_averages"`
}

// AnalyticsService derives read-only aggregates from stored results. Every
// query is scoped to the caller; it never sees anyone else's data.
type AnalyticsService struct {
	store  AnalyticsStore
	policy *Policy
}

func NewAnalyticsService(store AnalyticsStore) *AnalyticsService {
	return &AnalyticsService{store: store, policy: NewPolicy()}
}

// Summary reports how the caller's percentage moved between their first and
// latest diagnostic, plus the mean percentage per pillar across all runs.
func (s *AnalyticsService) Summary(caller Identity) (*HistorySummary, error) {
	if err := s.policy.Authorize(caller, ActionResultRead, caller.UserID); err != nil {
		return nil, err
	}
	results, err := s.store.ListResultsByUser(caller.UserID)
	if err != nil {
		return nil, err
	}
	out := &HistorySummary{PillarAverages: map[string]float64{}}
	if len(results) == 0 {
		return out, nil
	}
	out.Results = len(results)
	latest := results[0]
	first := results[len(results)-1]
	out.LatestPercentage = latest.PercentageScore
	out.FirstPercentage = first.PercentageScore
	out.Delta = latest.PercentageScore - first.PercentageScore

	sums := map[string]float64{}
	counts := map[string]int{}
	for _, r := range results {
		for pillarID, ps := range r.PillarScores {
			sums[pillarID] += ps.Percentage
			counts[pillarID]++
		}
	}
	for pillarID, sum := range sums {
		out.PillarAverages[pillarID] = sum / float64(counts[pillarID])
	}
	return out, nil
}
