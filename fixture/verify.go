package fixture

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/annlab/annfix/distance"
	"github.com/annlab/annfix/index/exact"
)

// DefaultMinOverlap is the minimum per-query overlap between retrieved and
// golden neighbor sets that Verify accepts. Approximate indexes drift between
// library versions; half the neighbors agreeing is the traditional bar.
const DefaultMinOverlap = 5

// Verifier checks a persisted index against an existing golden report.
type Verifier struct {
	// Dimension is the expected index dimensionality.
	Dimension int

	// MinOverlap is the minimum number of neighbor IDs per query that must
	// appear in both the report and a fresh query result.
	MinOverlap int

	// Logger receives progress output. nil disables logging.
	Logger *slog.Logger
}

// NewVerifier creates a Verifier with the standard fixture configuration.
func NewVerifier() *Verifier {
	return &Verifier{
		Dimension:  DefaultDimension,
		MinOverlap: DefaultMinOverlap,
	}
}

// VerifyResult summarizes a successful verification.
type VerifyResult struct {
	// Queries is the number of report lines checked.
	Queries int

	// WorstOverlap is the smallest per-query overlap observed.
	WorstOverlap int
}

// Run re-runs every query of the golden report for the given metric against
// the persisted index and fails if any query's overlap with the golden
// neighbor set falls below MinOverlap.
func (v *Verifier) Run(dir string, metric distance.Metric) (*VerifyResult, error) {
	log := v.logger()

	idx, err := exact.LoadFromFile(filepath.Join(dir, IndexFileName(metric)), exact.Options{
		Dimension: v.Dimension,
		Metric:    metric,
	})
	if err != nil {
		return nil, err
	}

	entries, err := ReadReport(filepath.Join(dir, ReportFileName(metric)))
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("report for metric %v is empty", metric)
	}

	result := &VerifyResult{Queries: len(entries)}
	for i, entry := range entries {
		got, err := idx.NearestByItem(entry.QueryID, len(entry.Neighbors))
		if err != nil {
			return nil, err
		}

		overlap := overlapCount(entry.Neighbors, got)
		if i == 0 || overlap < result.WorstOverlap {
			result.WorstOverlap = overlap
		}
		if overlap < v.MinOverlap {
			return nil, fmt.Errorf("query %d: only %d of %d golden neighbors retrieved (want >= %d)",
				entry.QueryID, overlap, len(entry.Neighbors), v.MinOverlap)
		}
		log.Debug("query verified", "id", entry.QueryID, "overlap", overlap)
	}
	return result, nil
}

func overlapCount(a, b []uint32) int {
	seen := make(map[uint32]struct{}, len(a))
	for _, id := range a {
		seen[id] = struct{}{}
	}
	count := 0
	for _, id := range b {
		if _, ok := seen[id]; ok {
			count++
		}
	}
	return count
}

func (v *Verifier) logger() *slog.Logger {
	if v.Logger != nil {
		return v.Logger
	}
	return slog.New(slog.DiscardHandler)
}
