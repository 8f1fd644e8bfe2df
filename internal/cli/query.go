package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/annlab/annfix/distance"
	"github.com/annlab/annfix/fixture"
	"github.com/spf13/cobra"
)

var (
	queryMetric string
	queryDir    string
	queryK      int
	queryIDs    string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Produce neighbor reports from persisted indexes",
	Long: `Loads the persisted index for each selected metric and writes a
points.<metric>.ann.txt report: one line per query ID, tab-separated from the
comma-joined IDs of its nearest neighbors.`,
	Args: cobra.NoArgs,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&queryMetric, "metric", "m", "all", "metric to query (angular, euclidean or all)")
	queryCmd.Flags().StringVarP(&queryDir, "dir", "d", ".", "directory holding the index files")
	queryCmd.Flags().IntVarP(&queryK, "k", "k", fixture.DefaultK, "neighbors per query")
	queryCmd.Flags().StringVar(&queryIDs, "queries", "", "comma-separated query item IDs (default: the fixed fixture list)")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	metrics, err := metricsFromFlag(queryMetric)
	if err != nil {
		return err
	}

	retriever := fixture.NewRetriever()
	retriever.K = queryK
	retriever.Logger = newLogger()
	if queryIDs != "" {
		ids, err := parseIDList(queryIDs)
		if err != nil {
			return err
		}
		retriever.QueryIDs = ids
	}

	for _, metric := range metrics {
		path, err := retriever.Run(queryDir, metric)
		if err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}

// metricsFromFlag resolves a --metric value to the metrics to operate on.
func metricsFromFlag(s string) ([]distance.Metric, error) {
	if s == "all" {
		return distance.Metrics(), nil
	}
	m, err := distance.ParseMetric(s)
	if err != nil {
		return nil, err
	}
	return []distance.Metric{m}, nil
}

func parseIDList(s string) ([]uint32, error) {
	fields := strings.Split(s, ",")
	ids := make([]uint32, len(fields))
	for i, field := range fields {
		id, err := strconv.ParseUint(strings.TrimSpace(field), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("query ID %q: %w", field, err)
		}
		ids[i] = uint32(id)
	}
	return ids, nil
}
