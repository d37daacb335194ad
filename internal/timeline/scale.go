package timeline

import (
	"fmt"
	"strconv"
	"time"

	"sprintd/internal/models"
)

// DaysBetween returns the signed distance from start to date in
// fractional days.
func DaysBetween(start, date time.Time) float64 {
	return date.Sub(start).Hours() / 24
}

// DateToPixel maps a date onto the pixel axis anchored at start.
func DateToPixel(date, start time.Time, pixelsPerDay float64) float64 {
	mustValidPixelsPerDay(pixelsPerDay)
	return DaysBetween(start, date) * pixelsPerDay
}

// PixelToDate is the exact algebraic inverse of DateToPixel.
func PixelToDate(pixel float64, start time.Time, pixelsPerDay float64) time.Time {
	mustValidPixelsPerDay(pixelsPerDay)
	days := pixel / pixelsPerDay
	return start.Add(time.Duration(days * 24 * float64(time.Hour)))
}

// minTotalWidth keeps very short ranges renderable.
const minTotalWidth = 1200

// TotalWidth returns the pixel width the full range needs, floored at
// the container width and at minTotalWidth so short ranges still fill
// the viewport.
func TotalWidth(r models.DateRange, pixelsPerDay, containerWidth float64) float64 {
	mustValidPixelsPerDay(pixelsPerDay)
	width := r.Days() * pixelsPerDay
	if width < containerWidth {
		width = containerWidth
	}
	if width < minTotalWidth {
		width = minTotalWidth
	}
	return width
}

// CalculateTimeScale builds the date-to-pixel mapping and both tick
// series for one (range, zoom) pair. CurrentTimeX is -1 when now is
// outside the range.
func CalculateTimeScale(r models.DateRange, containerWidth float64, zoom ZoomLevel, now time.Time) *models.TimeScale {
	mustValidPixelsPerDay(zoom.PixelsPerDay)

	currentTimeX := -1.0
	if r.Contains(now) {
		currentTimeX = DateToPixel(now, r.Start, zoom.PixelsPerDay)
	}

	return &models.TimeScale{
		Start:        r.Start,
		End:          r.End,
		PixelsPerDay: zoom.PixelsPerDay,
		TotalWidth:   TotalWidth(r, zoom.PixelsPerDay, containerWidth),
		MajorTicks:   generateTicks(r.Start, r.End, zoom.MajorTickInterval, true, zoom.PixelsPerDay),
		MinorTicks:   generateTicks(r.Start, r.End, zoom.MinorTickInterval, false, zoom.PixelsPerDay),
		CurrentTimeX: currentTimeX,
	}
}

// generateTicks walks from start to end inclusive at the given step.
// Major ticks snap to calendar boundaries: Mondays for weekly steps,
// the first of the month for monthly and coarser steps. The snapped
// origin may land before start; its x is then simply negative.
func generateTicks(start, end time.Time, intervalDays float64, isMajor bool, pixelsPerDay float64) []models.DateTick {
	step := time.Duration(intervalDays * 24 * float64(time.Hour))
	if step <= 0 {
		panic(fmt.Sprintf("timeline: non-positive tick step %v", step))
	}

	current := start
	if isMajor {
		switch {
		case intervalDays == 7:
			current = alignToMonday(current)
		case intervalDays >= 30:
			current = alignToFirstOfMonth(current)
		}
	}

	var ticks []models.DateTick
	for t := current; !t.After(end); t = t.Add(step) {
		ticks = append(ticks, models.DateTick{
			Date:    t,
			X:       DateToPixel(t, start, pixelsPerDay),
			Label:   formatTickLabel(t, intervalDays, isMajor),
			IsMajor: isMajor,
		})
	}
	return ticks
}

func alignToMonday(t time.Time) time.Time {
	offset := int(time.Monday - t.Weekday())
	if t.Weekday() == time.Sunday {
		offset = -6
	}
	return t.AddDate(0, 0, offset)
}

func alignToFirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func formatTickLabel(t time.Time, intervalDays float64, isMajor bool) string {
	switch {
	case intervalDays == 1:
		if isMajor {
			return t.Format("Jan 2")
		}
		return strconv.Itoa(t.Day())
	case intervalDays == 7:
		if isMajor {
			return t.Format("Jan 2")
		}
		return ""
	case intervalDays >= 30:
		if isMajor {
			return t.Format("Jan 2006")
		}
		return t.Format("Jan")
	}
	return t.Format("Jan 2")
}

func mustValidPixelsPerDay(pixelsPerDay float64) {
	if pixelsPerDay <= 0 {
		panic(fmt.Sprintf("timeline: pixelsPerDay must be positive, got %v", pixelsPerDay))
	}
}
