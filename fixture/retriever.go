package fixture

import (
	"log/slog"
	"path/filepath"

	"github.com/annlab/annfix/distance"
	"github.com/annlab/annfix/index/exact"
)

// Retriever loads a persisted index and produces a neighbor report for a
// fixed query list.
type Retriever struct {
	// Dimension is the expected index dimensionality.
	Dimension int

	// K is the number of neighbors per query.
	K int

	// QueryIDs are the item IDs to query, in report order.
	QueryIDs []uint32

	// Logger receives progress output. nil disables logging.
	Logger *slog.Logger
}

// NewRetriever creates a Retriever with the standard fixture configuration:
// dimensionality 8, k=10, the fixed query list.
func NewRetriever() *Retriever {
	return &Retriever{
		Dimension: DefaultDimension,
		K:         DefaultK,
		QueryIDs:  DefaultQueryIDs,
	}
}

// Run loads the index for the given metric from dir, queries every ID in the
// fixed list, and writes the report file next to the index. It returns the
// report path.
//
// All queries are answered before anything is written: a failing query leaves
// any pre-existing report untouched.
func (r *Retriever) Run(dir string, metric distance.Metric) (string, error) {
	log := r.logger()

	indexPath := filepath.Join(dir, IndexFileName(metric))
	idx, err := exact.LoadFromFile(indexPath, exact.Options{
		Dimension: r.Dimension,
		Metric:    metric,
	})
	if err != nil {
		return "", err
	}
	log.Info("loaded index", "path", indexPath, "items", idx.Len())

	entries := make([]ReportEntry, 0, len(r.QueryIDs))
	for _, queryID := range r.QueryIDs {
		neighbors, err := idx.NearestByItem(queryID, r.K)
		if err != nil {
			return "", err
		}
		entries = append(entries, ReportEntry{QueryID: queryID, Neighbors: neighbors})
	}

	reportPath := filepath.Join(dir, ReportFileName(metric))
	if err := WriteReport(reportPath, entries); err != nil {
		return "", err
	}
	log.Info("wrote report", "path", reportPath, "queries", len(entries))
	return reportPath, nil
}

func (r *Retriever) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.New(slog.DiscardHandler)
}
