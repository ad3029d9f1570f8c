package reconcile

import (
	"context"
	"testing"

	"github.com/cvbridge/recruit/internal/ingest/db"
	"github.com/cvbridge/recruit/internal/ingest/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// MockProducer records produced events.
type MockProducer struct {
	produced []events.EventType
}

func (m *MockProducer) Produce(eventType events.EventType, entityID, detail string) {
	m.produced = append(m.produced, eventType)
}

func setup(t *testing.T) (*Service, *MockProducer) {
	repo, err := db.NewSQLiteRepository(":memory:")
	require.NoError(t, err, "failed to open test database")
	producer := &MockProducer{}
	return New(repo, producer, zaptest.NewLogger(t)), producer
}

func TestFindOrCreateCandidateIsIdempotent(t *testing.T) {
	svc, producer := setup(t)
	ctx := context.Background()

	first, err := svc.FindOrCreateCandidate(ctx, "Jean", "Dupont", "")
	require.NoError(t, err)

	second, err := svc.FindOrCreateCandidate(ctx, "Jean", "Dupont", "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, producer.produced, 1, "only the creation should produce an event")
}

func TestFindOrCreateCandidateIsCaseSensitive(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	lower, err := svc.FindOrCreateCandidate(ctx, "Jean", "Dupont", "")
	require.NoError(t, err)
	upper, err := svc.FindOrCreateCandidate(ctx, "JEAN", "DUPONT", "")
	require.NoError(t, err)

	// Strict-equality reconciliation: different casings create two
	// rows, to be consolidated later by the merge workflow.
	assert.NotEqual(t, lower.ID, upper.ID)
}

func TestFindOrCreateCandidateBackfillsContractType(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	_, err := svc.FindOrCreateCandidate(ctx, "Jean", "Dupont", "")
	require.NoError(t, err)

	withType, err := svc.FindOrCreateCandidate(ctx, "Jean", "Dupont", "Freelance")
	require.NoError(t, err)
	assert.Equal(t, "Freelance", withType.ContractType)

	// An existing contract type is never overwritten.
	unchanged, err := svc.FindOrCreateCandidate(ctx, "Jean", "Dupont", "Payroll")
	require.NoError(t, err)
	assert.Equal(t, "Freelance", unchanged.ContractType)
}

func TestFindOrCreateCandidateRejectsEmptyName(t *testing.T) {
	svc, _ := setup(t)

	_, err := svc.FindOrCreateCandidate(context.Background(), "", "Dupont", "")
	assert.Error(t, err)
}

func TestFindOrCreateJobNeverUpdatesExisting(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	created, err := svc.FindOrCreateJob(ctx, "I09526", "Architect", "IT")
	require.NoError(t, err)
	assert.Equal(t, "Architect", created.Title)

	found, err := svc.FindOrCreateJob(ctx, "I09526", "Different Title", "Other")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "Architect", found.Title, "title is fixed at creation time")
	assert.Equal(t, "IT", found.Category)
}

func TestFindOrCreateCompanyBlankNameIsNoCompany(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	company, err := svc.FindOrCreateCompany(ctx, "   ")
	require.NoError(t, err)
	assert.Nil(t, company)
}

func TestFindOrCreateCompanyIsIdempotent(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	first, err := svc.FindOrCreateCompany(ctx, "Extia")
	require.NoError(t, err)
	second, err := svc.FindOrCreateCompany(ctx, "Extia")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestApplicationExistsEmptyID(t *testing.T) {
	svc, _ := setup(t)

	exists, err := svc.ApplicationExists(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, exists)
}
