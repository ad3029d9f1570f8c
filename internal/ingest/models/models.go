// Package models defines the domain entities materialized by the
// ingestion engine: Candidate, Job, Company and Application.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ApplicationStatus is one of the seven canonical application
// lifecycle states. Any status may be assigned at any time; no
// transition validation exists.
type ApplicationStatus string

const (
	CVReceived         ApplicationStatus = "CV_RECEIVED"
	CVReviewed         ApplicationStatus = "CV_REVIEWED"
	RemoteInterview    ApplicationStatus = "REMOTE_INTERVIEW"
	OnsiteInterview    ApplicationStatus = "ONSITE_INTERVIEW"
	ApprovedForMission ApplicationStatus = "APPROVED_FOR_MISSION"
	Rejected           ApplicationStatus = "REJECTED"
	OnHold             ApplicationStatus = "ON_HOLD"
)

// JobStatus is the lifecycle state of a job posting.
type JobStatus string

const (
	JobOpen   JobStatus = "OPEN"
	JobClosed JobStatus = "CLOSED"
	JobOnHold JobStatus = "ON_HOLD"
)

// Candidate is a person referenced by one or more applications.
// The reconciliation key is the exact (FirstName, LastName) pair;
// near-miss duplicates are remediated by the merge workflow.
type Candidate struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName    string    `gorm:"size:100;index:idx_candidate_name"`
	LastName     string    `gorm:"size:100;index:idx_candidate_name"`
	ContractType string    `gorm:"size:50"`
	GlobalNotes  string    `gorm:"size:5000"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName returns the display name used for duplicate detection.
func (c *Candidate) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Job is a position candidates apply to, reconciled by its
// external reference string. Title and category are fixed at
// creation and never overwritten by later imports.
type Job struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Reference       string    `gorm:"size:100;uniqueIndex"`
	Title           string    `gorm:"size:255"`
	Category        string    `gorm:"size:255"`
	Status          JobStatus `gorm:"size:20"`
	Source          string    `gorm:"size:100"`
	PublicationDate *time.Time
	Description     string `gorm:"size:5000"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Company is a supplier or intermediary, reconciled by exact name.
type Company struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:255;uniqueIndex"`
	Notes     string    `gorm:"size:5000"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Application ties a candidate to an optional job and company.
// ExternalID, when set, is the idempotency key for third-party
// imports: a second import carrying the same value is skipped,
// never merged into the existing row.
type Application struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey"`
	CandidateID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	JobID           *uuid.UUID        `gorm:"type:uuid;index"`
	CompanyID       *uuid.UUID        `gorm:"type:uuid;index"`
	ExternalID      *string           `gorm:"size:100;uniqueIndex"`
	RoleCategory    string            `gorm:"size:255;not null"`
	DailyRate       *decimal.Decimal  `gorm:"type:decimal(10,2)"`
	ApplicationDate time.Time         `gorm:"not null"`
	Status          ApplicationStatus `gorm:"size:30"`
	Conclusion      string            `gorm:"size:2000"`
	EvaluationNotes string            `gorm:"size:5000"`
	CVFilePath      string            `gorm:"size:500"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BeforeCreate assigns surrogate ids when the caller did not.
func (c *Candidate) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (j *Job) BeforeCreate(*gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

func (c *Company) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (a *Application) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
