package conflict

import (
	"sprintd/internal/models"
)

// Indicator is the visual projection of a warning: the rectangle of the
// first affected assignment bar currently in view.
type Indicator struct {
	ID                  string              `json:"id"`
	Kind                models.ConflictKind `json:"type"`
	Severity            models.Severity     `json:"severity"`
	X                   float64             `json:"x"`
	Y                   float64             `json:"y"`
	Width               float64             `json:"width"`
	Height              float64             `json:"height"`
	Message             string              `json:"message"`
	AffectedAssignments []string            `json:"affected_assignments"`
	Resolutions         []models.Resolution `json:"resolution_options"`
}

// ConvertToIndicators projects warnings onto already-positioned bars.
// A warning whose first affected assignment has no bar in the given
// rows (filtered out of the current view) is dropped from the visual
// set only; it still exists in the domain conflict list, so detection
// count and indicator count may legitimately differ.
func ConvertToIndicators(conflicts []models.ConflictWarning, rows []models.AccountTimelineRow) []Indicator {
	indicators := make([]Indicator, 0, len(conflicts))
	for i := range conflicts {
		if ind, ok := projectConflict(&conflicts[i], rows); ok {
			indicators = append(indicators, ind)
		}
	}
	return indicators
}

func projectConflict(w *models.ConflictWarning, rows []models.AccountTimelineRow) (Indicator, bool) {
	if len(w.AffectedItems) == 0 {
		return Indicator{}, false
	}
	first := w.AffectedItems[0]

	for i := range rows {
		row := &rows[i]
		for j := range row.Assignments {
			bar := &row.Assignments[j]
			if barAssignmentID(bar) != first {
				continue
			}
			return Indicator{
				ID:                  w.ID,
				Kind:                w.Kind,
				Severity:            w.Severity,
				X:                   bar.X,
				Y:                   row.Y,
				Width:               bar.Width,
				Height:              bar.Height,
				Message:             w.Message,
				AffectedAssignments: w.AffectedItems,
				Resolutions:         w.Resolutions,
			}, true
		}
	}
	return Indicator{}, false
}

func barAssignmentID(bar *models.AssignmentBar) string {
	return affected(bar.Assignment.ID)[0]
}
