package timeline

import (
	"strconv"
	"time"

	"sprintd/internal/models"
)

// MinBarWidth keeps zero-duration and sub-pixel assignments visible and
// clickable.
const MinBarWidth = 10

// BarPosition is the horizontal placement of one assignment bar.
type BarPosition struct {
	X     float64
	Width float64
}

// PositionAssignmentBar places an assignment interval on the timeline.
// Width is floored at MinBarWidth.
func PositionAssignmentBar(start, end, timelineStart time.Time, pixelsPerDay float64) BarPosition {
	x := DateToPixel(start, timelineStart, pixelsPerDay)
	endX := DateToPixel(end, timelineStart, pixelsPerDay)
	width := endX - x
	if width < MinBarWidth {
		width = MinBarWidth
	}
	return BarPosition{X: x, Width: width}
}

// PositionContentItems places content markers relative to their parent
// bar. A marker's x is clamped to [2, barWidth-8] so scheduled-time
// drift never pushes it outside the bar.
func PositionContentItems(items []models.SprintContentItem, assignmentStart, timelineStart time.Time, pixelsPerDay float64, barWidth float64) []models.ContentItemMarker {
	assignmentStartX := DateToPixel(assignmentStart, timelineStart, pixelsPerDay)

	markers := make([]models.ContentItemMarker, 0, len(items))
	for i, item := range items {
		scheduled, err := models.ParseDate(item.ScheduledTime)
		if err != nil {
			continue
		}

		relativeX := DateToPixel(scheduled, timelineStart, pixelsPerDay) - assignmentStartX
		x := clamp(relativeX, 2, barWidth-8)

		marker := models.ContentItemMarker{
			ID:            "content-" + strconv.Itoa(i),
			X:             x,
			ContentType:   item.ContentType,
			Status:        item.Status,
			IsEmergency:   item.IsEmergency,
			ScheduledTime: scheduled,
		}
		if item.PostedTime != "" {
			if posted, err := models.ParseDate(item.PostedTime); err == nil {
				marker.PostedTime = &posted
			}
		}
		markers = append(markers, marker)
	}
	return markers
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
