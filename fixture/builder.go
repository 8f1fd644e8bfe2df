package fixture

import (
	"io"
	"log/slog"
	"path/filepath"

	"github.com/annlab/annfix/distance"
	"github.com/annlab/annfix/index/exact"
	"github.com/annlab/annfix/persistence"
)

// Builder produces one persisted index per metric from a point-set file.
type Builder struct {
	// Dimension is the expected point dimensionality.
	Dimension int

	// Metrics lists the metrics to build indexes for.
	Metrics []distance.Metric

	// Compression selects the payload compression of the index files.
	Compression persistence.CompressionType

	// Logger receives progress output. nil disables logging.
	Logger *slog.Logger
}

// NewBuilder creates a Builder with the standard fixture configuration:
// dimensionality 8, both metrics, no compression.
func NewBuilder() *Builder {
	return &Builder{
		Dimension: DefaultDimension,
		Metrics:   distance.Metrics(),
	}
}

// BuildResult describes a completed build.
type BuildResult struct {
	// Items is the number of points indexed per metric.
	Items int

	// Files holds the paths of the written index files, in build order.
	Files []string
}

// Run reads the point set at inputPath and writes one index file per metric
// into outDir, overwriting existing files. The procedure is strictly
// sequential; on any failure it aborts without touching the target files.
func (b *Builder) Run(inputPath, outDir string) (*BuildResult, error) {
	log := b.logger()

	points, err := ReadPoints(inputPath, b.Dimension)
	if err != nil {
		return nil, err
	}
	log.Info("read point set", "path", inputPath, "points", len(points), "dim", b.Dimension)

	result := &BuildResult{Items: len(points)}
	for _, metric := range b.Metrics {
		path, err := b.buildOne(points, metric, outDir)
		if err != nil {
			return nil, err
		}
		log.Info("wrote index", "metric", metric.String(), "path", path)
		result.Files = append(result.Files, path)
	}
	return result, nil
}

func (b *Builder) buildOne(points [][]float32, metric distance.Metric, outDir string) (string, error) {
	idx, err := exact.New(b.Dimension, metric)
	if err != nil {
		return "", err
	}
	for i, point := range points {
		if err := idx.AddItem(uint32(i), point); err != nil {
			return "", err
		}
	}
	if err := idx.Build(); err != nil {
		return "", err
	}
	idx.SetCompression(b.Compression)

	path := filepath.Join(outDir, IndexFileName(metric))
	err = persistence.SaveToFile(path, func(w io.Writer) error {
		_, err := idx.WriteTo(w)
		return err
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.New(slog.DiscardHandler)
}
