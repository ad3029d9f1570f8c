// Package dedupe finds candidate pairs whose full names are likely
// the same person. Detection is pure: nothing is mutated, and the
// merge workflow is a separate operator action.
package dedupe

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cvbridge/recruit/internal/ingest/models"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"go.uber.org/zap"
)

// Store lists the candidates to compare.
type Store interface {
	ListCandidates(ctx context.Context) ([]models.Candidate, error)
}

// Pair is one detected duplicate: both candidates, the similarity
// score, the raw edit distance and a human-readable reason.
type Pair struct {
	Candidate1 models.Candidate `json:"candidate1"`
	Candidate2 models.Candidate `json:"candidate2"`
	Similarity float64          `json:"similarity"`
	Distance   int              `json:"distance"`
	Reason     string           `json:"reason"`
}

type Detector struct {
	store  Store
	logger *zap.Logger
}

func NewDetector(store Store, logger *zap.Logger) *Detector {
	return &Detector{
		store:  store,
		logger: logger.Named("duplicate_detector"),
	}
}

// FindDuplicates compares every unordered candidate pair and returns
// those whose name similarity is at least threshold, best first.
// Quadratic in candidate count; this is an operator-triggered admin
// operation, not part of the request path.
func (d *Detector) FindDuplicates(ctx context.Context, threshold float64) ([]Pair, error) {
	candidates, err := d.store.ListCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}

	var pairs []Pair
	for i := 0; i < len(candidates); i++ {
		name1 := normalizeName(candidates[i].FullName())
		for j := i + 1; j < len(candidates); j++ {
			name2 := normalizeName(candidates[j].FullName())

			distance := fuzzy.LevenshteinDistance(name1, name2)
			similarity := Similarity(name1, name2)
			if similarity < threshold {
				continue
			}

			pairs = append(pairs, Pair{
				Candidate1: candidates[i],
				Candidate2: candidates[j],
				Similarity: similarity,
				Distance:   distance,
				Reason:     fmt.Sprintf("Name similarity: %.0f%%", similarity*100),
			})
		}
	}

	sort.Slice(pairs, func(a, b int) bool {
		return pairs[a].Similarity > pairs[b].Similarity
	})

	d.logger.Info("Duplicate detection finished",
		zap.Int("candidates", len(candidates)),
		zap.Int("pairs", len(pairs)),
		zap.Float64("threshold", threshold),
	)
	return pairs, nil
}

// Similarity is the normalized edit-distance score between two
// names: 1 - d / max(len(a), len(b)). Symmetric, and 1.0 for equal
// inputs.
func Similarity(a, b string) float64 {
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0
	}
	distance := fuzzy.LevenshteinDistance(a, b)
	return 1.0 - float64(distance)/float64(maxLen)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
