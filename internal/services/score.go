package services

import "fmt"

// NeutralPolicy controls how a neutral "N/A" answer affects the attainable
// maximum. The default excludes the question from the denominator so an
// inapplicable question cannot drag the percentage down.
type NeutralPolicy int

const (
	// NeutralExcludedFromMax drops neutrally answered questions from both
	// earned and max.
	NeutralExcludedFromMax NeutralPolicy = iota
	// NeutralCountsTowardMax keeps the question's points in max while
	// earning nothing, treating "N/A" as a zero-score answer.
	NeutralCountsTowardMax
)

// ScoreAnswers evaluates a full answer set against one catalog snapshot.
// Every question in the snapshot must be answered with a value legal for
// its answer type; answers keyed by unknown question ids are ignored.
// The result is deterministic for equal inputs.
func ScoreAnswers(answers map[string]string, snapshot *CatalogSnapshot, policy NeutralPolicy) (*ScoredDiagnostic, error) {
	out := &ScoredDiagnostic{PillarScores: map[string]PillarScore{}}
	if snapshot == nil {
		return out, nil
	}
	for _, p := range snapshot.Pillars {
		ps := PillarScore{}
		for _, q := range p.Questions {
			val, ok := answers[q.ID]
			if !ok {
				return nil, NewInvalidError(fmt.Sprintf("missing answer for question %s", q.ID))
			}
			if !legalAnswer(q.AnswerType, val) {
				return nil, NewInvalidError(fmt.Sprintf("unsupported answer %q for question %s", val, q.ID))
			}
			pts := q.Points
			if pts < 1 {
				pts = 1
			}
			switch {
			case val == q.PositiveAnswer:
				ps.Earned += pts
				ps.Max += pts
			case val == AnswerNotApplicable:
				if policy == NeutralCountsTowardMax {
					ps.Max += pts
				}
			default:
				ps.Max += pts
			}
		}
		ps.Percentage = percentage(ps.Earned, ps.Max)
		out.PillarScores[p.ID] = ps
		out.TotalScore += ps.Earned
		out.MaxPossibleScore += ps.Max
	}
	out.PercentageScore = percentage(out.TotalScore, out.MaxPossibleScore)
	return out, nil
}

func legalAnswer(t AnswerType, val string) bool {
	switch val {
	case AnswerYes, AnswerNo:
		return true
	case AnswerNotApplicable:
		return t == AnswerTypeTernary
	default:
		return false
	}
}

func percentage(earned, max int) float64 {
	if max <= 0 {
		return 0
	}
	return float64(earned) / float64(max) * 100
}
