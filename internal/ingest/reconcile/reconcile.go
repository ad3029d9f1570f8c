// Package reconcile implements idempotent find-or-create against the
// Candidate, Job and Company stores, plus the idempotency-key lookup
// on the Application store. Reconciliation keys are byte-exact:
// near-miss duplicates are expected and handled after the fact by the
// duplicate/merge workflow.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	e "github.com/cvbridge/recruit/internal/ingest/errors"
	"github.com/cvbridge/recruit/internal/ingest/events"
	"github.com/cvbridge/recruit/internal/ingest/models"
	"go.uber.org/zap"
)

// Store is the subset of the repository the reconciler needs.
type Store interface {
	CreateCandidate(ctx context.Context, c *models.Candidate) error
	FindCandidateByName(ctx context.Context, firstName, lastName string) (*models.Candidate, error)
	UpdateCandidate(ctx context.Context, c *models.Candidate) error
	CreateJob(ctx context.Context, j *models.Job) error
	FindJobByReference(ctx context.Context, reference string) (*models.Job, error)
	CreateCompany(ctx context.Context, c *models.Company) error
	FindCompanyByName(ctx context.Context, name string) (*models.Company, error)
	ApplicationExistsByExternalID(ctx context.Context, externalID string) (bool, error)
}

// EventProducer publishes entity-created events.
type EventProducer interface {
	Produce(eventType events.EventType, entityID, detail string)
}

// Service performs the find-or-create operations for one import call.
type Service struct {
	store    Store
	producer EventProducer
	logger   *zap.Logger
}

func New(store Store, producer EventProducer, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		producer: producer,
		logger:   logger.Named("reconciler"),
	}
}

// FindOrCreateCandidate matches the exact (firstName, lastName) pair.
// When the candidate exists and carries no contract type yet, a
// supplied contract type is backfilled; an already-set value is never
// overwritten.
func (s *Service) FindOrCreateCandidate(ctx context.Context, firstName, lastName, contractType string) (*models.Candidate, error) {
	if firstName == "" || lastName == "" {
		return nil, fmt.Errorf("%w: candidate name must not be empty", e.ErrInvalidInput)
	}

	candidate, err := s.store.FindCandidateByName(ctx, firstName, lastName)
	if err == nil {
		if contractType != "" && candidate.ContractType == "" {
			candidate.ContractType = contractType
			if err := s.store.UpdateCandidate(ctx, candidate); err != nil {
				return nil, fmt.Errorf("failed to backfill contract type: %w", err)
			}
		}
		return candidate, nil
	}
	if !errors.Is(err, e.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up candidate: %w", err)
	}

	candidate = &models.Candidate{
		FirstName:    firstName,
		LastName:     lastName,
		ContractType: contractType,
	}
	if err := s.store.CreateCandidate(ctx, candidate); err != nil {
		return nil, fmt.Errorf("failed to create candidate: %w", err)
	}
	s.producer.Produce(events.CandidateCreated, candidate.ID.String(), candidate.FullName())
	return candidate, nil
}

// FindOrCreateJob matches the job reference. Absent jobs are created
// with status OPEN; existing jobs are never updated here.
func (s *Service) FindOrCreateJob(ctx context.Context, reference, title, category string) (*models.Job, error) {
	if reference == "" {
		return nil, fmt.Errorf("%w: job reference must not be empty", e.ErrInvalidInput)
	}

	job, err := s.store.FindJobByReference(ctx, reference)
	if err == nil {
		return job, nil
	}
	if !errors.Is(err, e.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up job: %w", err)
	}

	job = &models.Job{
		Reference: reference,
		Title:     title,
		Category:  category,
		Status:    models.JobOpen,
	}
	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	s.producer.Produce(events.JobCreated, job.ID.String(), reference)
	return job, nil
}

// FindOrCreateCompany matches the exact company name. A blank name
// means no company, which is not an error.
func (s *Service) FindOrCreateCompany(ctx context.Context, name string) (*models.Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	company, err := s.store.FindCompanyByName(ctx, name)
	if err == nil {
		return company, nil
	}
	if !errors.Is(err, e.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up company: %w", err)
	}

	company = &models.Company{Name: name}
	if err := s.store.CreateCompany(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	s.producer.Produce(events.CompanyCreated, company.ID.String(), name)
	return company, nil
}

// ApplicationExists reports whether an application already carries
// the given external id.
func (s *Service) ApplicationExists(ctx context.Context, externalID string) (bool, error) {
	if externalID == "" {
		return false, nil
	}
	return s.store.ApplicationExistsByExternalID(ctx, externalID)
}
