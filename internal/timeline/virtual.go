package timeline

import "fmt"

// RowRange is an inclusive window of row indexes. End < Start means the
// window is empty (zero rows).
type RowRange struct {
	Start int
	End   int
}

func (r RowRange) Empty() bool {
	return r.End < r.Start
}

func (r RowRange) Count() int {
	if r.Empty() {
		return 0
	}
	return r.End - r.Start + 1
}

// CalculateVisibleRange selects the rows worth materializing for the
// current scroll offset, with one buffer row past the viewport so fast
// scrolling never exposes a blank row. The result always satisfies
// 0 <= Start <= End <= totalRows-1, or is empty when totalRows is zero.
func CalculateVisibleRange(totalRows, rowHeight, viewportHeight, scrollTop int) RowRange {
	if rowHeight <= 0 {
		panic(fmt.Sprintf("timeline: rowHeight must be positive, got %d", rowHeight))
	}
	if totalRows <= 0 {
		return RowRange{Start: 0, End: -1}
	}
	if viewportHeight < 0 {
		viewportHeight = 0
	}

	start := scrollTop / rowHeight
	if start < 0 {
		start = 0
	}
	if start > totalRows-1 {
		start = totalRows - 1
	}

	end := start + viewportHeight/rowHeight + 1
	if end > totalRows-1 {
		end = totalRows - 1
	}

	return RowRange{Start: start, End: end}
}

// TotalHeight is the full scrollable height of the row area.
func TotalHeight(totalRows, rowHeight, headerHeight int) int {
	if rowHeight <= 0 {
		panic(fmt.Sprintf("timeline: rowHeight must be positive, got %d", rowHeight))
	}
	if totalRows < 0 {
		totalRows = 0
	}
	return totalRows*rowHeight + headerHeight
}
