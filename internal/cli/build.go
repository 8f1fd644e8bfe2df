package cli

import (
	"fmt"

	"github.com/annlab/annfix/fixture"
	"github.com/annlab/annfix/persistence"
	"github.com/spf13/cobra"
)

var (
	buildOut         string
	buildDim         int
	buildCompression string
	buildUpload      string
)

var buildCmd = &cobra.Command{
	Use:   "build [points.csv]",
	Short: "Build persisted indexes from a point-set file",
	Long: `Reads a point-set file (one point per line, comma-separated floats) and
builds one persisted index per metric (angular and euclidean). The zero-based
line position of each point becomes its item ID.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", ".", "output directory for index files")
	buildCmd.Flags().IntVar(&buildDim, "dim", fixture.DefaultDimension, "point dimensionality")
	buildCmd.Flags().StringVar(&buildCompression, "compression", "none", "index payload compression (none, lz4, zstd)")
	buildCmd.Flags().StringVar(&buildUpload, "upload", "", "object storage URL to copy artifacts to (s3://bucket/prefix or minio://host/bucket/prefix)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	input := fixture.PointsFileName
	if len(args) == 1 {
		input = args[0]
	}

	compression, err := persistence.ParseCompression(buildCompression)
	if err != nil {
		return err
	}

	builder := fixture.NewBuilder()
	builder.Dimension = buildDim
	builder.Compression = compression
	builder.Logger = newLogger()

	result, err := builder.Run(input, buildOut)
	if err != nil {
		return err
	}
	fmt.Printf("indexed %d points into %d files\n", result.Items, len(result.Files))

	if buildUpload != "" {
		store, err := storeFromURL(cmd.Context(), buildUpload)
		if err != nil {
			return err
		}
		names, err := fixture.UploadArtifacts(cmd.Context(), store, buildOut)
		if err != nil {
			return err
		}
		fmt.Printf("uploaded %d artifacts to %s\n", len(names), buildUpload)
	}
	return nil
}
