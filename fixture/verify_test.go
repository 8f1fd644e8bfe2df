package fixture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/annlab/annfix/distance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifierAcceptsOwnReport(t *testing.T) {
	dir := buildFixtures(t, 2500)

	for _, metric := range distance.Metrics() {
		_, err := NewRetriever().Run(dir, metric)
		require.NoError(t, err)

		result, err := NewVerifier().Run(dir, metric)
		require.NoError(t, err)
		assert.Equal(t, len(DefaultQueryIDs), result.Queries)
		assert.Equal(t, DefaultK, result.WorstOverlap, "exact index reproduces its own report in full")
	}
}

func TestVerifierPartialOverlap(t *testing.T) {
	dir := buildFixtures(t, 2500)
	_, err := NewRetriever().Run(dir, distance.Angular)
	require.NoError(t, err)

	reportPath := filepath.Join(dir, ReportFileName(distance.Angular))
	entries, err := ReadReport(reportPath)
	require.NoError(t, err)

	// Replace half of each golden neighbor list with IDs that will not be
	// retrieved. Overlap drops to exactly 5, the default bar.
	for i := range entries {
		for j := 5; j < len(entries[i].Neighbors); j++ {
			entries[i].Neighbors[j] = uint32(4_000_000 + i*10 + j)
		}
	}
	require.NoError(t, WriteReport(reportPath, entries))

	result, err := NewVerifier().Run(dir, distance.Angular)
	require.NoError(t, err)
	assert.Equal(t, 5, result.WorstOverlap)

	// A stricter bar rejects the same report.
	verifier := NewVerifier()
	verifier.MinOverlap = 6
	_, err = verifier.Run(dir, distance.Angular)
	assert.Error(t, err)
}

func TestVerifierRejectsDoctoredReport(t *testing.T) {
	dir := buildFixtures(t, 2500)
	_, err := NewRetriever().Run(dir, distance.Euclidean)
	require.NoError(t, err)

	reportPath := filepath.Join(dir, ReportFileName(distance.Euclidean))
	entries, err := ReadReport(reportPath)
	require.NoError(t, err)
	for j := range entries[0].Neighbors {
		entries[0].Neighbors[j] = uint32(3_000_000 + j)
	}
	require.NoError(t, WriteReport(reportPath, entries))

	_, err = NewVerifier().Run(dir, distance.Euclidean)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "golden neighbors")
}

func TestVerifierMissingArtifacts(t *testing.T) {
	dir := t.TempDir()

	_, err := NewVerifier().Run(dir, distance.Angular)
	assert.ErrorIs(t, err, os.ErrNotExist)

	dir = buildFixtures(t, 50)
	_, err = NewVerifier().Run(dir, distance.Angular)
	assert.ErrorIs(t, err, os.ErrNotExist, "index present but report missing")
}

func TestVerifierEmptyReport(t *testing.T) {
	dir := buildFixtures(t, 50)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ReportFileName(distance.Angular)), nil, 0644))

	_, err := NewVerifier().Run(dir, distance.Angular)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}
