package cli

import (
	"fmt"

	"github.com/annlab/annfix/fixture"
	"github.com/spf13/cobra"
)

var (
	verifyMetric     string
	verifyDir        string
	verifyMinOverlap int
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check persisted indexes against existing golden reports",
	Long: `Re-runs every query of the golden report against the persisted index and
fails if any query retrieves fewer than --min-overlap of the golden neighbors.`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVarP(&verifyMetric, "metric", "m", "all", "metric to verify (angular, euclidean or all)")
	verifyCmd.Flags().StringVarP(&verifyDir, "dir", "d", ".", "directory holding the index and report files")
	verifyCmd.Flags().IntVar(&verifyMinOverlap, "min-overlap", fixture.DefaultMinOverlap, "minimum per-query neighbor overlap")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	metrics, err := metricsFromFlag(verifyMetric)
	if err != nil {
		return err
	}

	verifier := fixture.NewVerifier()
	verifier.MinOverlap = verifyMinOverlap
	verifier.Logger = newLogger()

	for _, metric := range metrics {
		result, err := verifier.Run(verifyDir, metric)
		if err != nil {
			return fmt.Errorf("%v: %w", metric, err)
		}
		fmt.Printf("%v: %d queries ok, worst overlap %d\n", metric, result.Queries, result.WorstOverlap)
	}
	return nil
}
