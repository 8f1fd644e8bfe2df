package fixture

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/annlab/annfix/distance"
	"github.com/annlab/annfix/index/exact"
	"github.com/annlab/annfix/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writePointsCSV writes n random points of the given dimensionality and
// returns the file path. The seed is fixed so reruns see identical data.
func writePointsCSV(t *testing.T, dir string, n, dim int) string {
	t.Helper()

	rng := testutil.NewRNG(1234)
	var sb strings.Builder
	for _, vec := range rng.UniformVectors(n, dim) {
		for i, f := range vec {
			if i > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(&sb, "%.6f", f)
		}
		sb.WriteByte('\n')
	}

	path := filepath.Join(dir, PointsFileName)
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0644))
	return path
}

func TestBuilderRun(t *testing.T) {
	dir := t.TempDir()
	input := writePointsCSV(t, dir, 120, 8)

	builder := NewBuilder()
	result, err := builder.Run(input, dir)
	require.NoError(t, err)
	assert.Equal(t, 120, result.Items)
	require.Len(t, result.Files, 2)

	// Both index files must be loadable and hold every point under its
	// line-position item ID.
	for _, metric := range distance.Metrics() {
		idx, err := exact.LoadFromFile(filepath.Join(dir, IndexFileName(metric)), exact.Options{
			Dimension: 8,
			Metric:    metric,
		})
		require.NoError(t, err)
		assert.Equal(t, 120, idx.Len())

		ids, err := idx.NearestByItem(119, 1)
		require.NoError(t, err)
		assert.Equal(t, []uint32{119}, ids)
	}
}

func TestBuilderOverwrites(t *testing.T) {
	dir := t.TempDir()
	input := writePointsCSV(t, dir, 30, 8)

	target := filepath.Join(dir, IndexFileName(distance.Angular))
	require.NoError(t, os.WriteFile(target, []byte("stale"), 0644))

	_, err := NewBuilder().Run(input, dir)
	require.NoError(t, err)

	idx, err := exact.LoadFromFile(target, exact.Options{Dimension: 8, Metric: distance.Angular})
	require.NoError(t, err)
	assert.Equal(t, 30, idx.Len())
}

func TestBuilderIdempotent(t *testing.T) {
	dir := t.TempDir()
	input := writePointsCSV(t, dir, 60, 8)

	builder := NewBuilder()
	_, err := builder.Run(input, dir)
	require.NoError(t, err)

	first := map[string][]byte{}
	for _, metric := range distance.Metrics() {
		data, err := os.ReadFile(filepath.Join(dir, IndexFileName(metric)))
		require.NoError(t, err)
		first[metric.String()] = data
	}

	_, err = builder.Run(input, dir)
	require.NoError(t, err)

	for _, metric := range distance.Metrics() {
		data, err := os.ReadFile(filepath.Join(dir, IndexFileName(metric)))
		require.NoError(t, err)
		assert.Equal(t, first[metric.String()], data, "rebuild must be byte-identical")
	}
}

func TestBuilderMalformedInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, PointsFileName)
	require.NoError(t, os.WriteFile(path, []byte("1,2,3,4,5,6,7,8\n1,2,3,4,5,6,7\n"), 0644))

	_, err := NewBuilder().Run(path, dir)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Line)

	// No index file may be created on a failed build.
	for _, metric := range distance.Metrics() {
		_, err := os.Stat(filepath.Join(dir, IndexFileName(metric)))
		assert.True(t, os.IsNotExist(err))
	}
}

func TestBuilderMissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := NewBuilder().Run(filepath.Join(dir, "nope.csv"), dir)
	assert.True(t, os.IsNotExist(err))
}
