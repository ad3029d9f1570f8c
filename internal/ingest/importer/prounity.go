package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cvbridge/recruit/internal/ingest/db"
	"github.com/cvbridge/recruit/internal/ingest/events"
	"github.com/cvbridge/recruit/internal/ingest/models"
	"github.com/cvbridge/recruit/internal/ingest/normalize"
	"github.com/cvbridge/recruit/internal/ingest/reader"
	"github.com/cvbridge/recruit/internal/ingest/reconcile"
	"github.com/cvbridge/recruit/internal/ingest/status"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Field ladders probed in order on each candidate element. gjson
// paths, so nested locations cost nothing extra.
var (
	jobReferencePaths = []string{"projectCode", "jobReference", "reference", "jobPost.projectCode"}
	jobTitlePaths     = []string{"name", "title", "jobPost.name", "jobPost.title"}
	ratePaths         = []string{"proposedDailyRate", "benchmarkDailyRate", "dailyRate", "rate", "profile.dailyRate"}
	datePaths         = []string{"appliedDate", "createdDate", "submittedDate", "applicationDate", "date"}
)

// ImportProUnity imports a Pro-Unity JSON export. Candidates whose
// external id is already present are counted as skipped, not failed:
// re-importing an unmodified file is a no-op.
func (i *Importer) ImportProUnity(ctx context.Context, data []byte) (*Result, error) {
	root, err := reader.ParseTree(data)
	if err != nil {
		return nil, err
	}
	candidates, err := reader.FindCandidates(root)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	err = i.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		rec := reconcile.New(tx, i.producer, i.logger)

		// Job context applies to every candidate in the file. No
		// reference means spontaneous applications.
		var job *models.Job
		if ref := textLadder(root, jobReferencePaths); ref != "" {
			title := textLadder(root, jobTitlePaths)
			if title == "" {
				title = "Unknown"
			}
			var err error
			job, err = rec.FindOrCreateJob(ctx, ref, title, "Unknown")
			if err != nil {
				return err
			}
		} else {
			i.logger.Warn("No job reference found, importing as spontaneous applications")
		}

		index := 0
		for _, cand := range candidates.Array() {
			index++
			skipped, err := i.importProUnityCandidate(ctx, tx, rec, cand, job)
			switch {
			case err != nil:
				i.logger.Warn("Failed to import candidate",
					zap.Int("index", index),
					zap.Error(err),
				)
				result.AddError(index, err.Error())
			case skipped:
				result.Skipped++
			default:
				result.Success++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	i.logger.Info("Import completed",
		zap.Int("success", result.Success),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed()),
	)
	return result, nil
}

func (i *Importer) importProUnityCandidate(ctx context.Context, tx *db.Repository, rec *reconcile.Service, cand gjson.Result, job *models.Job) (skipped bool, err error) {
	externalID := textValue(cand, "id")
	if externalID != "" {
		exists, err := rec.ApplicationExists(ctx, externalID)
		if err != nil {
			return false, err
		}
		if exists {
			return true, nil
		}
	}

	firstName, lastName, err := i.candidateName(cand)
	if err != nil {
		return false, err
	}
	contractType := textValue(cand, "resourceType")

	candidate, err := rec.FindOrCreateCandidate(ctx, firstName, lastName, contractType)
	if err != nil {
		return false, err
	}

	company, err := rec.FindOrCreateCompany(ctx, companyName(cand))
	if err != nil {
		return false, err
	}

	application := &models.Application{
		CandidateID:     candidate.ID,
		RoleCategory:    roleCategory(cand, job),
		ApplicationDate: i.applicationDate(cand),
		Status:          status.Classify(statusLabel(cand)),
		EvaluationNotes: evaluationNotes(cand),
		Conclusion:      conclusion(cand),
	}
	if externalID != "" {
		application.ExternalID = &externalID
	}
	if job != nil {
		application.JobID = &job.ID
	}
	if company != nil {
		application.CompanyID = &company.ID
	}
	if rate, ok := dailyRate(cand); ok {
		application.DailyRate = &rate
	}

	if err := tx.CreateApplication(ctx, application); err != nil {
		return false, err
	}
	i.producer.Produce(events.ApplicationImported, application.ID.String(), candidate.FullName())
	return false, nil
}

// candidateName prefers the structured resourceProfile fields and
// falls back to splitting a single display string.
func (i *Importer) candidateName(cand gjson.Result) (firstName, lastName string, err error) {
	firstName = textValue(cand, "resourceProfile.firstName")
	lastName = textValue(cand, "resourceProfile.lastName")
	if firstName != "" && lastName != "" {
		return firstName, lastName, nil
	}

	fullName := textValue(cand, "fullName")
	if fullName == "" {
		fullName = textValue(cand, "profile.fullName")
	}
	if fullName == "" {
		return "", "", fmt.Errorf("missing candidate name information")
	}

	firstName, lastName = i.splitter.Split(fullName)
	return firstName, lastName, nil
}

func companyName(cand gjson.Result) string {
	if name := textValue(cand, "resourceProfile.contactInfo.company"); name != "" {
		return name
	}
	return textValue(cand, "supplierName")
}

func roleCategory(cand gjson.Result, job *models.Job) string {
	if role := textValue(cand, "roles.0.name"); role != "" {
		return role
	}
	if job != nil && job.Title != "" && job.Title != "Unknown" {
		return job.Title
	}
	if title := textValue(cand, "profile.jobTitle"); title != "" {
		return title
	}
	return "Unknown"
}

func dailyRate(cand gjson.Result) (rate decimal.Decimal, ok bool) {
	for _, path := range ratePaths {
		if raw := textValue(cand, path); raw != "" {
			if parsed, err := normalize.ParseRate(raw); err == nil {
				return parsed, true
			}
		}
	}
	return rate, false
}

// applicationDate walks the date field ladder. An unparseable or
// absent date falls back to today, unlike the CSV dialects where it
// fails the record.
func (i *Importer) applicationDate(cand gjson.Result) time.Time {
	for _, path := range datePaths {
		raw := textValue(cand, path)
		if raw == "" {
			continue
		}
		if parsed, err := normalize.ParseDate(raw); err == nil {
			return parsed
		}
	}
	return time.Now()
}

func statusLabel(cand gjson.Result) string {
	if label := textValue(cand, "status"); label != "" {
		return label
	}
	return textValue(cand, "statusLabel")
}

// evaluationNotes folds the status label, supplier and comments into
// one free-text block.
func evaluationNotes(cand gjson.Result) string {
	var b strings.Builder
	if label := textValue(cand, "statusLabel"); label != "" {
		b.WriteString("Status: " + label + "\n")
	}
	if supplier := textValue(cand, "supplier.name"); supplier != "" {
		b.WriteString("Supplier: " + supplier + "\n")
	}
	comments := cand.Get("comments")
	if comments.IsArray() && len(comments.Array()) > 0 {
		b.WriteString("\nComments:\n")
		for _, comment := range comments.Array() {
			if text := textValue(comment, "text"); text != "" {
				b.WriteString("- " + text + "\n")
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func conclusion(cand gjson.Result) string {
	if c := textValue(cand, "conclusion"); c != "" {
		return c
	}
	if reason := textValue(cand, "rejectionReason"); reason != "" {
		return "Rejected: " + reason
	}
	return ""
}

// textValue returns the trimmed string at path, treating absent,
// blank and literal "null" values as empty.
func textValue(node gjson.Result, path string) string {
	v := node.Get(path)
	if !v.Exists() {
		return ""
	}
	s := strings.TrimSpace(v.String())
	if strings.EqualFold(s, "null") {
		return ""
	}
	return s
}

// textLadder returns the first non-empty value along paths.
func textLadder(node gjson.Result, paths []string) string {
	for _, path := range paths {
		if v := textValue(node, path); v != "" {
			return v
		}
	}
	return ""
}
