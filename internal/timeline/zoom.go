package timeline

// ZoomLevel is one entry of the fixed zoom table. Tick intervals are in
// days and may be fractional for the sub-day views.
type ZoomLevel struct {
	Level             string
	PixelsPerDay      float64
	MajorTickInterval float64
	MinorTickInterval float64
	Label             string
}

var zoomLevels = []ZoomLevel{
	{Level: "hour", PixelsPerDay: 480, MajorTickInterval: 0.25, MinorTickInterval: 0.125, Label: "Hourly View"},
	{Level: "day", PixelsPerDay: 200, MajorTickInterval: 1, MinorTickInterval: 0.5, Label: "Daily View"},
	{Level: "week", PixelsPerDay: 60, MajorTickInterval: 7, MinorTickInterval: 1, Label: "Weekly View"},
	{Level: "month", PixelsPerDay: 20, MajorTickInterval: 30, MinorTickInterval: 7, Label: "Monthly View"},
	{Level: "quarter", PixelsPerDay: 6, MajorTickInterval: 90, MinorTickInterval: 30, Label: "Quarterly View"},
}

// Zoom looks up a zoom level by name.
func Zoom(level string) (ZoomLevel, bool) {
	for _, z := range zoomLevels {
		if z.Level == level {
			return z, true
		}
	}
	return ZoomLevel{}, false
}

// ZoomOrDefault falls back to the week view for unknown names.
func ZoomOrDefault(level string) ZoomLevel {
	if z, ok := Zoom(level); ok {
		return z
	}
	z, _ := Zoom("week")
	return z
}

// ZoomNames returns the configured level names in zoom-in order.
func ZoomNames() []string {
	names := make([]string, len(zoomLevels))
	for i, z := range zoomLevels {
		names[i] = z.Level
	}
	return names
}
