// Package status maps free-text provider labels onto the canonical
// application states. Classification happens at import time only;
// nothing elsewhere validates state transitions.
package status

import (
	"strings"

	"github.com/cvbridge/recruit/internal/ingest/models"
)

// rule maps any of its substrings to a canonical state. Rules are
// evaluated in order; the first match wins.
type rule struct {
	substrings []string
	status     models.ApplicationStatus
}

var rules = []rule{
	{[]string{"reject", "declined", "withdrawn", "refused"}, models.Rejected},
	{[]string{"contract", "selected", "approved"}, models.ApprovedForMission},
	{[]string{"interview"}, models.RemoteInterview},
	{[]string{"shortlist", "preselected", "pinned", "longlist", "reviewed"}, models.CVReviewed},
	{[]string{"hold"}, models.OnHold},
}

// Classify returns the canonical state for a provider status label.
// Empty or unrecognized labels default to CV_RECEIVED.
func Classify(label string) models.ApplicationStatus {
	lower := strings.ToLower(label)
	for _, r := range rules {
		for _, sub := range r.substrings {
			if strings.Contains(lower, sub) {
				return r.status
			}
		}
	}
	return models.CVReceived
}

// MapConclusion interprets the conclusion column of the simple CSV
// dialect. Known negative and positive markers force a status and a
// normalized conclusion text; anything else is stored verbatim with
// no status override.
func MapConclusion(conclusion string) (text string, override models.ApplicationStatus, ok bool) {
	trimmed := strings.TrimSpace(conclusion)
	switch strings.ToLower(trimmed) {
	case "0", "nok", "ko", "rejected":
		return "Not suitable", models.Rejected, true
	case "1", "ok", "approved":
		return "Approved", models.ApprovedForMission, true
	}
	return trimmed, "", false
}
