package label

import (
	"testing"

	"github.com/qiniu/reviewsync/pkg/models"

	"github.com/stretchr/testify/assert"
)

func TestLabelRoundTrip(t *testing.T) {
	attrs := Attributes{
		Severity:   "High",
		Type:       "FunctionalityBug",
		Response:   "Rejected",
		Status:     "Done",
		Pending:    2,
		Duplicated: true,
		Unsure:     true,
		TeamID:     "CS2103T-W12-3",
	}

	labels := ToLabels(attrs, models.PhaseBugReporting)
	got := FromLabels(labels)
	assert.Equal(t, attrs, got)
}

func TestToLabelsEmitsExpectedStrings(t *testing.T) {
	attrs := Attributes{
		Severity:   "Medium",
		Type:       "DocumentationBug",
		Duplicated: true,
		TeamID:     "CS2103T-W12-3",
	}

	labels := ToLabels(attrs, models.PhaseBugReporting)
	assert.ElementsMatch(t, []string{
		"severity.Medium",
		"type.DocumentationBug",
		"duplicate",
		"tutorial.CS2103T-W12",
		"team.3",
	}, labels)
}

func TestPendingOnlyEmittedWhenPositive(t *testing.T) {
	labels := ToLabels(Attributes{Severity: "Low"}, models.PhaseTeamResponse)
	assert.NotContains(t, labels, "pending.0")
	assert.Equal(t, []string{"severity.Low"}, labels)

	labels = ToLabels(Attributes{Pending: 3}, models.PhaseTeamResponse)
	assert.Equal(t, []string{"pending.3"}, labels)
}

func TestTeamLabelsOnlyInBugReportingPhase(t *testing.T) {
	attrs := Attributes{TeamID: "CS2103T-W12-3"}

	for _, phase := range []models.Phase{
		models.PhaseTeamResponse,
		models.PhaseTesterResponse,
		models.PhaseModeration,
	} {
		labels := ToLabels(attrs, phase)
		assert.Empty(t, labels, "phase %s should not emit team labels", phase)
	}
}

func TestFromLabelsIgnoresUnknownNamespaces(t *testing.T) {
	attrs := FromLabels([]string{
		"severity.High",
		"priority.Urgent", // 未知命名空间
		"wontfix",         // 未知布尔标签
		"type.FeatureFlaw",
	})

	assert.Equal(t, "High", attrs.Severity)
	assert.Equal(t, "FeatureFlaw", attrs.Type)
	assert.False(t, attrs.Duplicated)
}

func TestFromLabelsMissingNamespaceMeansUnset(t *testing.T) {
	attrs := FromLabels([]string{"severity.Low"})

	assert.Equal(t, "", attrs.Type)
	assert.Equal(t, "", attrs.Response)
	assert.Equal(t, 0, attrs.Pending)
	assert.Equal(t, "", attrs.TeamID)
}

func TestFromLabelsTeamRequiresBothParts(t *testing.T) {
	// 只有 tutorial 没有 team，队伍 ID 无法重建
	attrs := FromLabels([]string{"tutorial.CS2103T-W12"})
	assert.Equal(t, "", attrs.TeamID)
}

func TestSplitTeamID(t *testing.T) {
	tests := []struct {
		id       string
		tutorial string
		team     string
		ok       bool
	}{
		{"CS2103T-W12-3", "CS2103T-W12", "3", true},
		{"CS2113-T09-1", "CS2113-T09", "1", true},
		{"nodashes", "", "", false},
		{"one-dash", "", "", false},
		{"trailing-dash-", "", "", false},
	}

	for _, tt := range tests {
		tutorial, team, ok := SplitTeamID(tt.id)
		assert.Equal(t, tt.ok, ok, tt.id)
		assert.Equal(t, tt.tutorial, tutorial, tt.id)
		assert.Equal(t, tt.team, team, tt.id)
	}
}
