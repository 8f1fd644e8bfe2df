package exact

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/annlab/annfix/distance"
	"github.com/annlab/annfix/index"
	"github.com/annlab/annfix/persistence"
	"github.com/annlab/annfix/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestIndex(t *testing.T, metric distance.Metric, n int) *Index {
	t.Helper()

	rng := testutil.NewRNG(4711)
	x, err := New(8, metric)
	require.NoError(t, err)
	for i, v := range rng.UniformVectors(n, 8) {
		require.NoError(t, x.AddItem(uint32(i), v))
	}
	require.NoError(t, x.Build())
	return x
}

func TestWriteToRequiresBuild(t *testing.T) {
	x, err := New(8, distance.Euclidean)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = x.WriteTo(&buf)
	assert.ErrorIs(t, err, index.ErrNotBuilt)
}

func TestRoundTrip(t *testing.T) {
	for _, metric := range distance.Metrics() {
		t.Run(metric.String(), func(t *testing.T) {
			x := buildTestIndex(t, metric, 100)

			var buf bytes.Buffer
			n, err := x.WriteTo(&buf)
			require.NoError(t, err)
			assert.Equal(t, int64(buf.Len()), n)

			loaded, err := Load(&buf, Options{Dimension: 8, Metric: metric})
			require.NoError(t, err)
			assert.Equal(t, x.Len(), loaded.Len())
			assert.Equal(t, metric, loaded.Metric())

			for _, id := range []uint32{0, 42, 99} {
				want, err := x.NearestByItem(id, 10)
				require.NoError(t, err)
				got, err := loaded.NearestByItem(id, 10)
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestRoundTripCompressed(t *testing.T) {
	for _, ct := range []persistence.CompressionType{persistence.CompressionLZ4, persistence.CompressionZSTD} {
		t.Run(ct.String(), func(t *testing.T) {
			x := buildTestIndex(t, distance.Euclidean, 50)
			x.SetCompression(ct)

			var buf bytes.Buffer
			_, err := x.WriteTo(&buf)
			require.NoError(t, err)

			loaded, err := Load(&buf, Options{Dimension: 8, Metric: distance.Euclidean})
			require.NoError(t, err)
			assert.Equal(t, 50, loaded.Len())

			want, err := x.NearestByItem(25, 10)
			require.NoError(t, err)
			got, err := loaded.NearestByItem(25, 10)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestRoundTripSparse(t *testing.T) {
	x, err := New(2, distance.Euclidean)
	require.NoError(t, err)
	require.NoError(t, x.AddItem(3, []float32{0, 0}))
	require.NoError(t, x.AddItem(1000, []float32{1, 0}))
	require.NoError(t, x.Build())

	var buf bytes.Buffer
	_, err = x.WriteTo(&buf)
	require.NoError(t, err)

	loaded, err := Load(&buf, Options{Dimension: 2, Metric: distance.Euclidean})
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Len())

	ids, err := loaded.NearestByItem(1000, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1000, 3}, ids)
}

func TestLoadMismatch(t *testing.T) {
	x := buildTestIndex(t, distance.Angular, 10)

	var buf bytes.Buffer
	_, err := x.WriteTo(&buf)
	require.NoError(t, err)
	data := buf.Bytes()

	t.Run("Metric", func(t *testing.T) {
		_, err := Load(bytes.NewReader(data), Options{Dimension: 8, Metric: distance.Euclidean})
		var mm *index.ErrMetricMismatch
		require.ErrorAs(t, err, &mm)
		assert.Equal(t, distance.Euclidean, mm.Expected)
		assert.Equal(t, distance.Angular, mm.Actual)
	})

	t.Run("Dimension", func(t *testing.T) {
		_, err := Load(bytes.NewReader(data), Options{Dimension: 16, Metric: distance.Angular})
		var dm *index.ErrDimensionMismatch
		assert.ErrorAs(t, err, &dm)
	})
}

func TestLoadCorrupted(t *testing.T) {
	x := buildTestIndex(t, distance.Euclidean, 10)

	var buf bytes.Buffer
	_, err := x.WriteTo(&buf)
	require.NoError(t, err)

	t.Run("BadMagic", func(t *testing.T) {
		data := bytes.Clone(buf.Bytes())
		data[0] ^= 0xFF
		_, err := Load(bytes.NewReader(data), Options{Dimension: 8, Metric: distance.Euclidean})
		assert.ErrorIs(t, err, persistence.ErrInvalidMagic)
	})

	t.Run("FlippedPayloadByte", func(t *testing.T) {
		data := bytes.Clone(buf.Bytes())
		data[len(data)-1] ^= 0xFF
		_, err := Load(bytes.NewReader(data), Options{Dimension: 8, Metric: distance.Euclidean})
		assert.ErrorIs(t, err, persistence.ErrChecksum)
	})

	t.Run("Truncated", func(t *testing.T) {
		data := buf.Bytes()[:buf.Len()/2]
		_, err := Load(bytes.NewReader(data), Options{Dimension: 8, Metric: distance.Euclidean})
		assert.ErrorIs(t, err, persistence.ErrTruncated)
	})
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.annoy")

	x := buildTestIndex(t, distance.Euclidean, 30)
	var buf bytes.Buffer
	_, err := x.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, persistence.SaveToFile(path, func(w io.Writer) error {
		_, err := w.Write(buf.Bytes())
		return err
	}))

	loaded, err := LoadFromFile(path, Options{Dimension: 8, Metric: distance.Euclidean})
	require.NoError(t, err)
	assert.Equal(t, 30, loaded.Len())

	_, err = LoadFromFile(filepath.Join(dir, "missing.annoy"), Options{Dimension: 8, Metric: distance.Euclidean})
	assert.Error(t, err)
}
