package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/cvbridge/recruit/internal/ingest/db"
	"github.com/cvbridge/recruit/internal/ingest/events"
	"github.com/cvbridge/recruit/internal/ingest/models"
	"github.com/cvbridge/recruit/internal/ingest/normalize"
	"github.com/cvbridge/recruit/internal/ingest/reconcile"
)

// Enhanced CSV columns (semicolon-separated):
// Date;Canal;Demande;Fonction;NOM - Prenom;Linkedin;Supplier;Avis-CV-1;Avis-CV-2;Avis-interview
const (
	enhColDate = iota
	enhColCanal
	enhColDemande
	enhColFonction
	enhColNomPrenom
	enhColLinkedin
	enhColSupplier
	enhColAvisCV1
	enhColAvisCV2
	enhColAvisInterview
)

const enhMinColumns = 7

// ImportEnhancedCSV imports the reviewer-tracking CSV dialect whose
// candidate column carries "NOM - Prenom" display names.
func (i *Importer) ImportEnhancedCSV(ctx context.Context, data []byte) (*Result, error) {
	return i.importCSV(ctx, data, enhMinColumns, i.importEnhancedRow)
}

func (i *Importer) importEnhancedRow(ctx context.Context, tx *db.Repository, rec *reconcile.Service, row []string) error {
	dateStr := field(row, enhColDate)
	canal := field(row, enhColCanal)
	demande := field(row, enhColDemande)
	fonction := field(row, enhColFonction)
	nomPrenom := field(row, enhColNomPrenom)
	linkedin := field(row, enhColLinkedin)
	supplier := field(row, enhColSupplier)
	avisCV1 := field(row, enhColAvisCV1)
	avisCV2 := field(row, enhColAvisCV2)
	avisInterview := field(row, enhColAvisInterview)

	applicationDate, err := normalize.ParseDate(dateStr)
	if err != nil {
		return err
	}

	firstName, lastName, err := normalize.ParseNomPrenom(nomPrenom)
	if err != nil {
		return err
	}

	if fonction == "" {
		return fmt.Errorf("fonction (role category) is required")
	}

	candidate, err := rec.FindOrCreateCandidate(ctx, firstName, lastName, "")
	if err != nil {
		return err
	}

	if linkedin != "" {
		if err := addLinkedIn(ctx, tx, candidate, linkedin); err != nil {
			return err
		}
	}

	var job *models.Job
	if demande != "" {
		job, err = rec.FindOrCreateJob(ctx, demande, "Imported: "+fonction, fonction)
		if err != nil {
			return err
		}
		if canal != "" {
			if err := setJobSource(ctx, tx, job, canal); err != nil {
				return err
			}
		}
	}

	company, err := rec.FindOrCreateCompany(ctx, supplier)
	if err != nil {
		return err
	}

	application := &models.Application{
		CandidateID:     candidate.ID,
		RoleCategory:    fonction,
		ApplicationDate: applicationDate,
		Status:          models.CVReceived,
		Conclusion:      buildConclusion(avisCV1, avisCV2, avisInterview),
	}
	if job != nil {
		application.JobID = &job.ID
	}
	if company != nil {
		application.CompanyID = &company.ID
	}

	if err := tx.CreateApplication(ctx, application); err != nil {
		return err
	}
	i.producer.Produce(events.ApplicationImported, application.ID.String(), candidate.FullName())
	return nil
}

// addLinkedIn appends the LinkedIn URL to the candidate's global
// notes unless it is already recorded there.
func addLinkedIn(ctx context.Context, tx *db.Repository, candidate *models.Candidate, linkedin string) error {
	if strings.Contains(candidate.GlobalNotes, linkedin) {
		return nil
	}
	if candidate.GlobalNotes != "" {
		candidate.GlobalNotes += "\n"
	}
	candidate.GlobalNotes += "LinkedIn: " + linkedin
	return tx.UpdateCandidate(ctx, candidate)
}

// setJobSource records the origin channel on the job when no channel
// is known yet or only the provider default is set.
func setJobSource(ctx context.Context, tx *db.Repository, job *models.Job, canal string) error {
	if job.Source != "" && job.Source != "Pro-Unity" {
		return nil
	}
	job.Source = canal
	return tx.UpdateJob(ctx, job)
}

// buildConclusion folds the three review columns into one string.
func buildConclusion(avisCV1, avisCV2, avisInterview string) string {
	var parts []string
	if avisCV1 != "" {
		parts = append(parts, "CV Review 1: "+avisCV1)
	}
	if avisCV2 != "" {
		parts = append(parts, "CV Review 2: "+avisCV2)
	}
	if avisInterview != "" {
		parts = append(parts, "Interview: "+avisInterview)
	}
	return strings.Join(parts, " | ")
}
