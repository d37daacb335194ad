package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sprintd/internal/models"
)

func testRows() []models.AccountTimelineRow {
	return []models.AccountTimelineRow{
		{
			Account: models.Account{ID: 1, Username: "alice"},
			Y:       0,
			Assignments: []models.AssignmentBar{
				{ID: "bar-1", Assignment: models.SprintAssignment{ID: 1}, X: 100, Width: 200, Height: 40},
				{ID: "bar-2", Assignment: models.SprintAssignment{ID: 2}, X: 250, Width: 150, Height: 40},
			},
		},
		{
			Account: models.Account{ID: 2, Username: "bob"},
			Y:       60,
			Assignments: []models.AssignmentBar{
				{ID: "bar-3", Assignment: models.SprintAssignment{ID: 3}, X: 500, Width: 10, Height: 40},
			},
		},
	}
}

func TestConvertToIndicators_ProjectsFirstAffectedBar(t *testing.T) {
	conflicts := []models.ConflictWarning{
		{
			ID:            "overlap-1-2",
			Kind:          models.KindOverlap,
			Severity:      models.SeverityError,
			Message:       "Overlapping assignments detected",
			AffectedItems: []string{"1", "2"},
			Resolutions:   []models.Resolution{{Action: models.ActionReschedule, AssignmentID: 2}},
		},
	}

	indicators := ConvertToIndicators(conflicts, testRows())
	require.Len(t, indicators, 1)

	ind := indicators[0]
	assert.Equal(t, "overlap-1-2", ind.ID)
	assert.Equal(t, models.KindOverlap, ind.Kind)
	// the rectangle belongs to bar-1, the first affected assignment
	assert.Equal(t, 100.0, ind.X)
	assert.Equal(t, 0.0, ind.Y)
	assert.Equal(t, 200.0, ind.Width)
	assert.Equal(t, 40.0, ind.Height)
	assert.Equal(t, []string{"1", "2"}, ind.AffectedAssignments)
	assert.Equal(t, conflicts[0].Resolutions, ind.Resolutions)
}

func TestConvertToIndicators_SecondRow(t *testing.T) {
	conflicts := []models.ConflictWarning{
		{ID: "cooldown-3", Kind: models.KindCooldown, Severity: models.SeverityError, AffectedItems: []string{"3"}},
	}

	indicators := ConvertToIndicators(conflicts, testRows())
	require.Len(t, indicators, 1)
	assert.Equal(t, 60.0, indicators[0].Y)
	assert.Equal(t, 500.0, indicators[0].X)
}

func TestConvertToIndicators_MissingBarDropped(t *testing.T) {
	// assignment 99 is not in the rendered rows: the warning stays in
	// the domain list but gets no indicator
	conflicts := []models.ConflictWarning{
		{ID: "cooldown-99", Kind: models.KindCooldown, Severity: models.SeverityError, AffectedItems: []string{"99"}},
		{ID: "cooldown-3", Kind: models.KindCooldown, Severity: models.SeverityError, AffectedItems: []string{"3"}},
	}

	indicators := ConvertToIndicators(conflicts, testRows())
	require.Len(t, indicators, 1)
	assert.Equal(t, "cooldown-3", indicators[0].ID)
	assert.Less(t, len(indicators), len(conflicts))
}

func TestConvertToIndicators_NoAffectedItems(t *testing.T) {
	conflicts := []models.ConflictWarning{
		{ID: "x", Kind: models.KindResource, Severity: models.SeverityWarning},
	}
	indicators := ConvertToIndicators(conflicts, testRows())
	assert.Empty(t, indicators)
}

func TestConvertToIndicators_EmptyInputs(t *testing.T) {
	assert.Empty(t, ConvertToIndicators(nil, testRows()))
	assert.Empty(t, ConvertToIndicators([]models.ConflictWarning{
		{ID: "x", AffectedItems: []string{"1"}},
	}, nil))
}
