package tiling

import (
	"fmt"

	"github.com/1broseidon/gridis/internal/platform"
)

// GridPlan is the two-row layout for a window count and desktop area.
type GridPlan struct {
	Area      platform.Rect `json:"area"`
	Windows   int           `json:"windows"`
	FirstRow  int           `json:"first_row"`
	SecondRow int           `json:"second_row"`
	RowHeight int           `json:"row_height"`
	// ColumnWidths holds the column width of row 0 and row 1.
	ColumnWidths [2]int `json:"column_widths"`
}

// PlanTwoRowGrid splits n windows into two rows: floor(n/2) on top and the
// rest below. Each row divides the full desktop width evenly.
func PlanTwoRowGrid(n int, area platform.Rect) (GridPlan, error) {
	first := n / 2
	if first == 0 {
		return GridPlan{}, fmt.Errorf("%w: need at least 2, got %d", ErrNotEnoughWindows, n)
	}
	second := n - first

	plan := GridPlan{
		Area:      area,
		Windows:   n,
		FirstRow:  first,
		SecondRow: second,
		RowHeight: area.Height() / 2,
		ColumnWidths: [2]int{
			area.Width() / first,
			area.Width() / second,
		},
	}

	if plan.RowHeight < 1 || plan.ColumnWidths[0] < 1 || plan.ColumnWidths[1] < 1 {
		return GridPlan{}, fmt.Errorf(
			"%w: %d windows in %s gives %dx%d cells",
			ErrInsufficientSpace, n, area, plan.ColumnWidths[1], plan.RowHeight,
		)
	}
	return plan, nil
}

// rowCount returns how many windows row holds.
func (p GridPlan) rowCount(row int) int {
	if row == 0 {
		return p.FirstRow
	}
	return p.SecondRow
}

// Cells returns every cell of the plan in placement order.
func (p GridPlan) Cells() []platform.Rect {
	cells := make([]platform.Rect, 0, p.Windows)
	c := newGridCursor(p)
	for {
		cell, ok := c.Cell()
		if !ok {
			return cells
		}
		cells = append(cells, cell)
		c.Advance()
	}
}

// CalculateTwoRowGrid returns the target rectangles for n windows.
func CalculateTwoRowGrid(n int, area platform.Rect) ([]platform.Rect, error) {
	plan, err := PlanTwoRowGrid(n, area)
	if err != nil {
		return nil, err
	}
	return plan.Cells(), nil
}

// gridCursor walks the plan left to right, wrapping to the next row when the
// next column would leave the desktop or the row is full.
type gridCursor struct {
	plan GridPlan
	row  int
	col  int
	x    int
}

func newGridCursor(plan GridPlan) *gridCursor {
	return &gridCursor{plan: plan}
}

// Cell returns the rectangle of the current position without consuming it.
func (c *gridCursor) Cell() (platform.Rect, bool) {
	for c.row < 2 {
		w := c.plan.ColumnWidths[c.row]
		if c.col < c.plan.rowCount(c.row) && c.x+w <= c.plan.Area.Width() {
			return platform.RectFromBounds(
				c.plan.Area.Left+c.x,
				c.plan.Area.Top+c.row*c.plan.RowHeight,
				w,
				c.plan.RowHeight,
			), true
		}
		c.row++
		c.col = 0
		c.x = 0
	}
	return platform.Rect{}, false
}

// Advance moves past the current cell.
func (c *gridCursor) Advance() {
	c.x += c.plan.ColumnWidths[c.row]
	c.col++
}
