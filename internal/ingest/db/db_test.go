package db

import (
	"context"
	"errors"
	"testing"

	e "github.com/cvbridge/recruit/internal/ingest/errors"
	"github.com/cvbridge/recruit/internal/ingest/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SetupTestDB initializes an in-memory SQLite database for testing.
func SetupTestDB(t *testing.T) *Repository {
	repo, err := NewSQLiteRepository(":memory:")
	require.NoError(t, err, "failed to open test database")
	return repo
}

func TestFindCandidateByName(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	candidate := &models.Candidate{FirstName: "Jean", LastName: "Dupont"}
	require.NoError(t, repo.CreateCandidate(ctx, candidate))

	found, err := repo.FindCandidateByName(ctx, "Jean", "Dupont")
	require.NoError(t, err)
	assert.Equal(t, candidate.ID, found.ID)

	// Reconciliation is case-sensitive: a different casing is a miss.
	_, err = repo.FindCandidateByName(ctx, "JEAN", "DUPONT")
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestGetCandidateNotFound(t *testing.T) {
	repo := SetupTestDB(t)

	_, err := repo.GetCandidate(context.Background(), uuid.New())
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestFindJobByReference(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	job := &models.Job{Reference: "I09526", Title: "Architect", Status: models.JobOpen}
	require.NoError(t, repo.CreateJob(ctx, job))

	found, err := repo.FindJobByReference(ctx, "I09526")
	require.NoError(t, err)
	assert.Equal(t, job.ID, found.ID)
	assert.Equal(t, models.JobOpen, found.Status)

	_, err = repo.FindJobByReference(ctx, "I00000")
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestFindCompanyByNameExactMatch(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateCompany(ctx, &models.Company{Name: "Extia"}))

	found, err := repo.FindCompanyByName(ctx, "Extia")
	require.NoError(t, err)
	assert.Equal(t, "Extia", found.Name)

	_, err = repo.FindCompanyByName(ctx, "extia")
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestSearchCompaniesByNameIsCaseInsensitive(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateCompany(ctx, &models.Company{Name: "Extia"}))
	require.NoError(t, repo.CreateCompany(ctx, &models.Company{Name: "Accenture"}))

	companies, err := repo.SearchCompaniesByName(ctx, "EXT")
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, "Extia", companies[0].Name)
}

func TestApplicationExistsByExternalID(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	candidate := &models.Candidate{FirstName: "Jean", LastName: "Dupont"}
	require.NoError(t, repo.CreateCandidate(ctx, candidate))

	externalID := "pu-42"
	app := &models.Application{
		CandidateID:  candidate.ID,
		ExternalID:   &externalID,
		RoleCategory: "Developer",
		Status:       models.CVReceived,
	}
	require.NoError(t, repo.CreateApplication(ctx, app))

	exists, err := repo.ApplicationExistsByExternalID(ctx, "pu-42")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ApplicationExistsByExternalID(ctx, "pu-43")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestReassignApplicationsCandidate(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	from := &models.Candidate{FirstName: "Jean", LastName: "Dupont"}
	to := &models.Candidate{FirstName: "Jean", LastName: "DUPONT"}
	require.NoError(t, repo.CreateCandidate(ctx, from))
	require.NoError(t, repo.CreateCandidate(ctx, to))

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.CreateApplication(ctx, &models.Application{
			CandidateID:  from.ID,
			RoleCategory: "Developer",
			Status:       models.CVReceived,
		}))
	}

	moved, err := repo.ReassignApplicationsCandidate(ctx, from.ID, to.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, moved)

	apps, err := repo.ListApplicationsByCandidate(ctx, to.ID)
	require.NoError(t, err)
	assert.Len(t, apps, 3)

	remaining, err := repo.CountApplicationsByCandidate(ctx, from.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, remaining)
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	wantErr := errors.New("boom")
	err := repo.WithTransaction(ctx, func(tx *Repository) error {
		if err := tx.CreateCompany(ctx, &models.Company{Name: "Ghost"}); err != nil {
			return err
		}
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	_, err = repo.FindCompanyByName(ctx, "Ghost")
	assert.ErrorIs(t, err, e.ErrNotFound)
}
