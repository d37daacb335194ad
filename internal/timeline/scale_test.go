package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sprintd/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDateToPixel_AtRangeStart(t *testing.T) {
	start := day("2025-01-01")
	assert.Equal(t, 0.0, DateToPixel(start, start, 60))
}

func TestDateToPixel_RoundTrip(t *testing.T) {
	start := day("2025-01-01")
	date := day("2025-03-15")

	for _, name := range ZoomNames() {
		zoom, ok := Zoom(name)
		require.True(t, ok)

		px := DateToPixel(date, start, zoom.PixelsPerDay)
		back := PixelToDate(px, start, zoom.PixelsPerDay)
		assert.Equal(t, date.Truncate(24*time.Hour), back.Truncate(24*time.Hour), "zoom %s", name)
	}
}

func TestDateToPixel_KnownValues(t *testing.T) {
	start := day("2025-01-01")

	// 14 days at the weekly density of 60 px/day
	assert.Equal(t, 840.0, DateToPixel(day("2025-01-15"), start, 60))
	// a date before the range start maps to a negative pixel
	assert.Equal(t, -60.0, DateToPixel(day("2024-12-31"), start, 60))
}

func TestDateToPixel_PanicsOnNonPositiveDensity(t *testing.T) {
	start := day("2025-01-01")
	assert.Panics(t, func() { DateToPixel(start, start, 0) })
	assert.Panics(t, func() { PixelToDate(100, start, -5) })
}

func TestTotalWidth_FloorsAtMinimum(t *testing.T) {
	short := models.DateRange{Start: day("2025-01-01"), End: day("2025-01-03")}
	assert.Equal(t, 1200.0, TotalWidth(short, 60, 0))

	long := models.DateRange{Start: day("2025-01-01"), End: day("2025-03-02")}
	assert.Equal(t, 3600.0, TotalWidth(long, 60, 1200))
}

func TestTotalWidth_WideContainerWins(t *testing.T) {
	short := models.DateRange{Start: day("2025-01-01"), End: day("2025-01-03")}
	assert.Equal(t, 1600.0, TotalWidth(short, 60, 1600))
}

func TestCalculateTimeScale_CurrentTimeInside(t *testing.T) {
	r := models.DateRange{Start: day("2025-01-01"), End: day("2025-02-01")}
	zoom := ZoomOrDefault("week")

	scale := CalculateTimeScale(r, 1200, zoom, day("2025-01-11"))
	assert.Equal(t, 600.0, scale.CurrentTimeX)
	assert.Equal(t, 1860.0, scale.TotalWidth)
}

func TestCalculateTimeScale_CurrentTimeOutside(t *testing.T) {
	r := models.DateRange{Start: day("2025-01-01"), End: day("2025-02-01")}
	zoom := ZoomOrDefault("week")

	scale := CalculateTimeScale(r, 1200, zoom, day("2025-06-01"))
	assert.Equal(t, -1.0, scale.CurrentTimeX)

	scale = CalculateTimeScale(r, 1200, zoom, day("2024-06-01"))
	assert.Equal(t, -1.0, scale.CurrentTimeX)
}

func TestCalculateTimeScale_WeeklyMajorTicksOnMonday(t *testing.T) {
	// 2025-01-01 is a Wednesday; the tick origin snaps back to Monday
	// 2024-12-30 and every major tick stays on a Monday.
	r := models.DateRange{Start: day("2025-01-01"), End: day("2025-02-01")}
	scale := CalculateTimeScale(r, 1200, ZoomOrDefault("week"), day("2025-01-15"))

	require.NotEmpty(t, scale.MajorTicks)
	assert.Equal(t, day("2024-12-30"), scale.MajorTicks[0].Date)
	assert.True(t, scale.MajorTicks[0].X < 0)
	for _, tick := range scale.MajorTicks {
		assert.Equal(t, time.Monday, tick.Date.Weekday())
		assert.True(t, tick.IsMajor)
	}
}

func TestCalculateTimeScale_MonthlyMajorTicksStartOnFirst(t *testing.T) {
	r := models.DateRange{Start: day("2025-01-15"), End: day("2025-04-15")}
	scale := CalculateTimeScale(r, 1200, ZoomOrDefault("month"), day("2025-02-01"))

	require.NotEmpty(t, scale.MajorTicks)
	assert.Equal(t, 1, scale.MajorTicks[0].Date.Day())
	assert.False(t, scale.MajorTicks[0].Date.After(r.Start))
}

func TestCalculateTimeScale_MinorTicksNotAligned(t *testing.T) {
	r := models.DateRange{Start: day("2025-01-01"), End: day("2025-01-15")}
	scale := CalculateTimeScale(r, 1200, ZoomOrDefault("week"), day("2025-01-05"))

	require.NotEmpty(t, scale.MinorTicks)
	// minor ticks start at the range start, no calendar snapping
	assert.Equal(t, r.Start, scale.MinorTicks[0].Date)
	assert.Equal(t, 0.0, scale.MinorTicks[0].X)
	for _, tick := range scale.MinorTicks {
		assert.False(t, tick.IsMajor)
	}
}

func TestCalculateTimeScale_TickLabels(t *testing.T) {
	r := models.DateRange{Start: day("2025-01-06"), End: day("2025-01-20")}

	daily := CalculateTimeScale(r, 1200, ZoomOrDefault("day"), day("2025-01-07"))
	require.NotEmpty(t, daily.MajorTicks)
	assert.Equal(t, "Jan 6", daily.MajorTicks[0].Label)

	monthly := CalculateTimeScale(models.DateRange{Start: day("2025-01-01"), End: day("2025-06-01")}, 1200, ZoomOrDefault("quarter"), day("2025-02-01"))
	require.NotEmpty(t, monthly.MajorTicks)
	assert.Equal(t, "Jan 2025", monthly.MajorTicks[0].Label)
}

func TestDaysBetween_Signed(t *testing.T) {
	assert.Equal(t, 10.0, DaysBetween(day("2025-01-01"), day("2025-01-11")))
	assert.Equal(t, -10.0, DaysBetween(day("2025-01-11"), day("2025-01-01")))
	assert.Equal(t, 0.5, DaysBetween(day("2025-01-01"), day("2025-01-01").Add(12*time.Hour)))
}
