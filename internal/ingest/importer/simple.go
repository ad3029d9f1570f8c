package importer

import (
	"context"
	"fmt"

	"github.com/cvbridge/recruit/internal/ingest/db"
	"github.com/cvbridge/recruit/internal/ingest/events"
	"github.com/cvbridge/recruit/internal/ingest/models"
	"github.com/cvbridge/recruit/internal/ingest/normalize"
	"github.com/cvbridge/recruit/internal/ingest/reconcile"
	"github.com/cvbridge/recruit/internal/ingest/status"
	"go.uber.org/zap"
)

// Simple CSV columns (semicolon-separated):
// application_date;job_reference;role_category;candidate_last_name;helper;candidate_first_name;company_name;daily_rate;evaluation_notes;conclusion
const (
	simColApplicationDate = iota
	simColJobReference
	simColRoleCategory
	simColLastName
	simColHelper // ignored
	simColFirstName
	simColCompanyName
	simColDailyRate
	simColEvaluationNotes
	simColConclusion
)

const simMinColumns = 10

// ImportSimpleCSV imports the dialect with explicit first/last name
// columns and a conclusion marker that may override the status.
func (i *Importer) ImportSimpleCSV(ctx context.Context, data []byte) (*Result, error) {
	return i.importCSV(ctx, data, simMinColumns, i.importSimpleRow)
}

func (i *Importer) importSimpleRow(ctx context.Context, tx *db.Repository, rec *reconcile.Service, row []string) error {
	dateStr := field(row, simColApplicationDate)
	jobReference := field(row, simColJobReference)
	roleCategory := field(row, simColRoleCategory)
	lastName := field(row, simColLastName)
	firstName := field(row, simColFirstName)
	companyName := field(row, simColCompanyName)
	rateStr := field(row, simColDailyRate)
	evaluationNotes := field(row, simColEvaluationNotes)
	conclusion := field(row, simColConclusion)

	if dateStr == "" {
		return fmt.Errorf("application date is required")
	}
	if roleCategory == "" {
		return fmt.Errorf("role category is required")
	}
	if lastName == "" {
		return fmt.Errorf("candidate last name is required")
	}
	if firstName == "" {
		return fmt.Errorf("candidate first name is required")
	}

	applicationDate, err := normalize.ParseDate(dateStr)
	if err != nil {
		return err
	}

	candidate, err := rec.FindOrCreateCandidate(ctx,
		normalize.CleanName(firstName),
		normalize.CleanName(lastName),
		"",
	)
	if err != nil {
		return err
	}

	var job *models.Job
	if jobReference != "" {
		job, err = rec.FindOrCreateJob(ctx, jobReference, roleCategory, roleCategory)
		if err != nil {
			return err
		}
	}

	company, err := rec.FindOrCreateCompany(ctx, companyName)
	if err != nil {
		return err
	}

	application := &models.Application{
		CandidateID:     candidate.ID,
		RoleCategory:    roleCategory,
		ApplicationDate: applicationDate,
		Status:          models.CVReceived,
		EvaluationNotes: evaluationNotes,
	}
	if job != nil {
		application.JobID = &job.ID
	}
	if company != nil {
		application.CompanyID = &company.ID
	}

	// Rate parse failure means no rate, not a failed record.
	if rateStr != "" {
		if rate, err := normalize.ParseRate(rateStr); err == nil {
			application.DailyRate = &rate
		} else {
			i.logger.Warn("Invalid daily rate, setting to null", zap.String("rate", rateStr))
		}
	}

	if conclusion != "" {
		text, override, ok := status.MapConclusion(conclusion)
		application.Conclusion = text
		if ok {
			application.Status = override
		}
	}

	if err := tx.CreateApplication(ctx, application); err != nil {
		return err
	}
	i.producer.Produce(events.ApplicationImported, application.ID.String(), candidate.FullName())
	return nil
}
