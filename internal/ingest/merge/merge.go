// Package merge consolidates duplicate Candidates or Companies onto
// one surviving entity. A merge is destructive and atomic: dependent
// applications are reassigned to the target, the sources are deleted
// and the target's notes are overwritten, all in one transaction. A
// missing target or source aborts the whole merge with no partial
// effect.
package merge

import (
	"context"
	"fmt"
	"strings"

	"github.com/cvbridge/recruit/internal/ingest/db"
	"github.com/cvbridge/recruit/internal/ingest/events"
	"github.com/cvbridge/recruit/internal/ingest/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Repository provides the transactional scope a merge runs in.
type Repository interface {
	WithTransaction(ctx context.Context, fn func(repo *db.Repository) error) error
}

// EventProducer publishes merge events.
type EventProducer interface {
	Produce(eventType events.EventType, entityID, detail string)
}

type Coordinator struct {
	repo     Repository
	producer EventProducer
	logger   *zap.Logger
}

func NewCoordinator(repo Repository, producer EventProducer, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("merge_coordinator"),
	}
}

// MergeCandidates reassigns every application of each source
// candidate to the target, deletes the sources and overwrites the
// target's global notes with the operator-supplied consolidated
// string. A source id equal to the target id is silently skipped.
func (c *Coordinator) MergeCandidates(ctx context.Context, targetID uuid.UUID, sourceIDs []uuid.UUID, notes string) (*models.Candidate, error) {
	var target *models.Candidate
	err := c.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		var err error
		target, err = tx.GetCandidate(ctx, targetID)
		if err != nil {
			return fmt.Errorf("target candidate %s: %w", targetID, err)
		}

		for _, sourceID := range sourceIDs {
			if sourceID == targetID {
				continue
			}
			source, err := tx.GetCandidate(ctx, sourceID)
			if err != nil {
				return fmt.Errorf("source candidate %s: %w", sourceID, err)
			}

			moved, err := tx.ReassignApplicationsCandidate(ctx, sourceID, targetID)
			if err != nil {
				return fmt.Errorf("failed to reassign applications of %s: %w", sourceID, err)
			}
			if err := tx.DeleteCandidate(ctx, sourceID); err != nil {
				return fmt.Errorf("failed to delete candidate %s: %w", sourceID, err)
			}

			c.logger.Info("Merged candidate",
				zap.String("source", source.FullName()),
				zap.String("target", target.FullName()),
				zap.Int64("applications_moved", moved),
			)
		}

		target.GlobalNotes = notes
		return tx.UpdateCandidate(ctx, target)
	})
	if err != nil {
		return nil, err
	}

	c.producer.Produce(events.CandidatesMerged, targetID.String(), joinIDs(sourceIDs))
	return target, nil
}

// MergeCompanies is the company counterpart of MergeCandidates.
func (c *Coordinator) MergeCompanies(ctx context.Context, targetID uuid.UUID, sourceIDs []uuid.UUID, notes string) (*models.Company, error) {
	var target *models.Company
	err := c.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		var err error
		target, err = tx.GetCompany(ctx, targetID)
		if err != nil {
			return fmt.Errorf("target company %s: %w", targetID, err)
		}

		for _, sourceID := range sourceIDs {
			if sourceID == targetID {
				continue
			}
			source, err := tx.GetCompany(ctx, sourceID)
			if err != nil {
				return fmt.Errorf("source company %s: %w", sourceID, err)
			}

			moved, err := tx.ReassignApplicationsCompany(ctx, sourceID, targetID)
			if err != nil {
				return fmt.Errorf("failed to reassign applications of %s: %w", sourceID, err)
			}
			if err := tx.DeleteCompany(ctx, sourceID); err != nil {
				return fmt.Errorf("failed to delete company %s: %w", sourceID, err)
			}

			c.logger.Info("Merged company",
				zap.String("source", source.Name),
				zap.String("target", target.Name),
				zap.Int64("applications_moved", moved),
			)
		}

		target.Notes = notes
		return tx.UpdateCompany(ctx, target)
	})
	if err != nil {
		return nil, err
	}

	c.producer.Produce(events.CompaniesMerged, targetID.String(), joinIDs(sourceIDs))
	return target, nil
}

func joinIDs(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}
