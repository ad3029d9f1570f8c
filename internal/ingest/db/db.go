// Package db implements the persistence layer for the ingestion
// engine on top of GORM: the Candidate, Job, Company and Application
// stores plus the bulk operations used by the merge workflow.
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	e "github.com/cvbridge/recruit/internal/ingest/errors"
	"github.com/cvbridge/recruit/internal/ingest/models"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func NewRepository(cfg *Config) (*Repository, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	return open(postgres.Open(dsn))
}

// NewSQLiteRepository opens a SQLite-backed repository, used by the
// test suites and local tooling.
func NewSQLiteRepository(dsn string) (*Repository, error) {
	return open(sqlite.Open(dsn))
}

func open(dialector gorm.Dialector) (*Repository, error) {
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Candidate{},
		&models.Job{},
		&models.Company{},
		&models.Application{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{db: db}, nil
}

// Candidates

func (r *Repository) CreateCandidate(ctx context.Context, c *models.Candidate) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *Repository) GetCandidate(ctx context.Context, id uuid.UUID) (*models.Candidate, error) {
	var c models.Candidate
	result := r.db.WithContext(ctx).First(&c, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &c, nil
}

// FindCandidateByName matches the exact (firstName, lastName) pair.
// Case-sensitive: "Jean Dupont" and "JEAN DUPONT" are distinct rows,
// remediated later by the duplicate/merge workflow.
func (r *Repository) FindCandidateByName(ctx context.Context, firstName, lastName string) (*models.Candidate, error) {
	var c models.Candidate
	result := r.db.WithContext(ctx).
		First(&c, "first_name = ? AND last_name = ?", firstName, lastName)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &c, nil
}

func (r *Repository) UpdateCandidate(ctx context.Context, c *models.Candidate) error {
	result := r.db.WithContext(ctx).Save(c)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteCandidate(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Candidate{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) ListCandidates(ctx context.Context) ([]models.Candidate, error) {
	var candidates []models.Candidate
	result := r.db.WithContext(ctx).Order("last_name, first_name").Find(&candidates)
	return candidates, result.Error
}

// Jobs

func (r *Repository) CreateJob(ctx context.Context, j *models.Job) error {
	return r.db.WithContext(ctx).Create(j).Error
}

func (r *Repository) FindJobByReference(ctx context.Context, reference string) (*models.Job, error) {
	var j models.Job
	result := r.db.WithContext(ctx).First(&j, "reference = ?", reference)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &j, nil
}

func (r *Repository) UpdateJob(ctx context.Context, j *models.Job) error {
	result := r.db.WithContext(ctx).Save(j)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// Companies

func (r *Repository) CreateCompany(ctx context.Context, c *models.Company) error {
	result := r.db.WithContext(ctx).Create(c)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicate
		}
		return result.Error
	}
	return nil
}

func (r *Repository) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var c models.Company
	result := r.db.WithContext(ctx).First(&c, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &c, nil
}

// FindCompanyByName is the byte-exact reconciliation lookup.
func (r *Repository) FindCompanyByName(ctx context.Context, name string) (*models.Company, error) {
	var c models.Company
	result := r.db.WithContext(ctx).First(&c, "name = ?", name)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &c, nil
}

// SearchCompaniesByName is the case-insensitive listing search.
// Intentionally looser than FindCompanyByName.
func (r *Repository) SearchCompaniesByName(ctx context.Context, name string) ([]models.Company, error) {
	var companies []models.Company
	pattern := "%" + strings.ToLower(name) + "%"
	result := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", pattern).
		Order("name").
		Find(&companies)
	return companies, result.Error
}

func (r *Repository) UpdateCompany(ctx context.Context, c *models.Company) error {
	result := r.db.WithContext(ctx).Save(c)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Company{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) ListCompanies(ctx context.Context) ([]models.Company, error) {
	var companies []models.Company
	result := r.db.WithContext(ctx).Order("name").Find(&companies)
	return companies, result.Error
}

// Applications

func (r *Repository) CreateApplication(ctx context.Context, a *models.Application) error {
	result := r.db.WithContext(ctx).Create(a)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicate
		}
		return result.Error
	}
	return nil
}

// ApplicationExistsByExternalID is the idempotency-key check used
// before persisting a third-party import record.
func (r *Repository) ApplicationExistsByExternalID(ctx context.Context, externalID string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("external_id = ?", externalID).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

func (r *Repository) ListApplicationsByCandidate(ctx context.Context, candidateID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	result := r.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Find(&apps)
	return apps, result.Error
}

func (r *Repository) CountApplicationsByCandidate(ctx context.Context, candidateID uuid.UUID) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("candidate_id = ?", candidateID).
		Count(&count)
	return count, result.Error
}

// ReassignApplicationsCandidate moves every application owned by
// fromID onto toID in one statement.
func (r *Repository) ReassignApplicationsCandidate(ctx context.Context, fromID, toID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("candidate_id = ?", fromID).
		Update("candidate_id", toID)
	return result.RowsAffected, result.Error
}

// ReassignApplicationsCompany moves every application referencing
// company fromID onto toID in one statement.
func (r *Repository) ReassignApplicationsCompany(ctx context.Context, fromID, toID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("company_id = ?", fromID).
		Update("company_id", toID)
	return result.RowsAffected, result.Error
}

// WithTransaction runs fn inside a single transaction; fn receives a
// repository bound to that transaction.
func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
