package services

import (
	"bytes"
	"encoding/csv"
	"sort"
	"strconv"
	"time"
)

// ExportResultsCSV renders results into a wide-format CSV: one row per
// result, one percentage column per pillar. Pillar columns are the sorted
// union across all rows so the header is stable; a result that predates a
// pillar leaves that cell empty.
func ExportResultsCSV(results []*DiagnosticResult) ([]byte, error) {
	pillarSet := map[string]struct{}{}
	for _, r := range results {
		for pillarID := range r.PillarScores {
			pillarSet[pillarID] = struct{}{}
		}
	}
	pillars := make([]string, 0, len(pillarSet))
	for id := range pillarSet {
		pillars = append(pillars, id)
	}
	sort.Strings(pillars)

	header := []string{"result_id", "created_at", "total_score", "max_possible_score", "percentage_score"}
	for _, id := range pillars {
		header = append(header, "pillar_"+id+"_pct")
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range results {
		rec := []string{
			r.ID,
			r.CreatedAt.UTC().Format(time.RFC3339),
			strconv.Itoa(r.TotalScore),
			strconv.Itoa(r.MaxPossibleScore),
			strconv.FormatFloat(r.PercentageScore, 'f', 2, 64),
		}
		for _, id := range pillars {
			if ps, ok := r.PillarScores[id]; ok {
				rec = append(rec, strconv.FormatFloat(ps.Percentage, 'f', 2, 64))
			} else {
				rec = append(rec, "")
			}
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
