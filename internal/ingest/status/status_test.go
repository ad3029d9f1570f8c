package status

import (
	"testing"

	"github.com/cvbridge/recruit/internal/ingest/models"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		label string
		want  models.ApplicationStatus
	}{
		{"Candidate Rejected by client", models.Rejected},
		{"DECLINED", models.Rejected},
		{"Withdrawn by supplier", models.Rejected},
		{"refused", models.Rejected},
		{"Contract signed", models.ApprovedForMission},
		{"Selected for mission", models.ApprovedForMission},
		{"approved", models.ApprovedForMission},
		{"Remote interview planned", models.RemoteInterview},
		{"Shortlisted for round 2", models.CVReviewed},
		{"preselected", models.CVReviewed},
		{"Pinned by reviewer", models.CVReviewed},
		{"longlisted", models.CVReviewed},
		{"CV reviewed", models.CVReviewed},
		{"On hold until Q3", models.OnHold},
		{"", models.CVReceived},
		{"something unusual", models.CVReceived},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.label), "Classify(%q)", tt.label)
	}
}

// Rule order matters: a label matching both the rejection and the
// approval rule is rejected.
func TestClassifyFirstRuleWins(t *testing.T) {
	assert.Equal(t, models.Rejected, Classify("approved then rejected"))
}

func TestMapConclusion(t *testing.T) {
	tests := []struct {
		input        string
		wantText     string
		wantOverride models.ApplicationStatus
		wantOK       bool
	}{
		{"0", "Not suitable", models.Rejected, true},
		{"NOK", "Not suitable", models.Rejected, true},
		{"ko", "Not suitable", models.Rejected, true},
		{"Rejected", "Not suitable", models.Rejected, true},
		{"1", "Approved", models.ApprovedForMission, true},
		{"OK", "Approved", models.ApprovedForMission, true},
		{"approved", "Approved", models.ApprovedForMission, true},
		{"Ne semble pas senior", "Ne semble pas senior", "", false},
	}
	for _, tt := range tests {
		text, override, ok := MapConclusion(tt.input)
		assert.Equal(t, tt.wantText, text, "MapConclusion(%q)", tt.input)
		assert.Equal(t, tt.wantOverride, override, "MapConclusion(%q)", tt.input)
		assert.Equal(t, tt.wantOK, ok, "MapConclusion(%q)", tt.input)
	}
}
