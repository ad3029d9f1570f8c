package dedupe

import (
	"context"
	"testing"

	"github.com/cvbridge/recruit/internal/ingest/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// MockStore returns a fixed candidate list.
type MockStore struct {
	candidates []models.Candidate
}

func (m *MockStore) ListCandidates(ctx context.Context) ([]models.Candidate, error) {
	return m.candidates, nil
}

func TestSimilarityProperties(t *testing.T) {
	names := []string{"jean dupont", "jean dupond", "marie curie", ""}
	for _, a := range names {
		assert.Equal(t, 1.0, Similarity(a, a), "sim(%q, %q)", a, a)
		for _, b := range names {
			assert.Equal(t, Similarity(a, b), Similarity(b, a),
				"similarity must be symmetric for %q and %q", a, b)
		}
	}
}

func TestSimilarityScore(t *testing.T) {
	// One substitution over eleven characters.
	sim := Similarity("jean dupont", "jean dupond")
	assert.InDelta(t, 1.0-1.0/11.0, sim, 1e-9)
}

func TestFindDuplicates(t *testing.T) {
	store := &MockStore{candidates: []models.Candidate{
		{FirstName: "Jean", LastName: "Dupont"},
		{FirstName: "Jean", LastName: "Dupond"},
		{FirstName: "JEAN", LastName: "DUPONT"},
		{FirstName: "Marie", LastName: "Curie"},
	}}
	detector := NewDetector(store, zaptest.NewLogger(t))

	pairs, err := detector.FindDuplicates(context.Background(), 0.85)
	require.NoError(t, err)

	// Dupont/Dupond, Dupont/DUPONT and Dupond/DUPONT all clear the
	// threshold; Marie Curie matches nobody.
	require.Len(t, pairs, 3)
	for _, pair := range pairs {
		assert.NotEqual(t, "Curie", pair.Candidate1.LastName)
		assert.NotEqual(t, "Curie", pair.Candidate2.LastName)
		assert.GreaterOrEqual(t, pair.Similarity, 0.85)
		assert.NotEmpty(t, pair.Reason)
	}

	// Exact case-insensitive duplicates rank first.
	assert.Equal(t, 1.0, pairs[0].Similarity)
	assert.Equal(t, 0, pairs[0].Distance)

	// Sorted by similarity, best first.
	for i := 1; i < len(pairs); i++ {
		assert.GreaterOrEqual(t, pairs[i-1].Similarity, pairs[i].Similarity)
	}
}

func TestFindDuplicatesHighThreshold(t *testing.T) {
	store := &MockStore{candidates: []models.Candidate{
		{FirstName: "Jean", LastName: "Dupont"},
		{FirstName: "Marie", LastName: "Curie"},
	}}
	detector := NewDetector(store, zaptest.NewLogger(t))

	pairs, err := detector.FindDuplicates(context.Background(), 0.9)
	require.NoError(t, err)
	assert.Empty(t, pairs)
}
