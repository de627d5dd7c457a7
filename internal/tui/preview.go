package tui

import (
	"fmt"
	"strings"

	"github.com/1broseidon/gridis/internal/ipc"
	"github.com/1broseidon/gridis/internal/platform"
)

func summarizePlan(plan *ipc.PlanData) string {
	if plan == nil || len(plan.Cells) == 0 {
		return "no tiles"
	}
	p := plan.Plan
	if p.FirstRow == p.SecondRow {
		return fmt.Sprintf("%d tiles • %d×%d px each", len(plan.Cells), p.ColumnWidths[0], p.RowHeight)
	}
	return fmt.Sprintf("%d tiles • top %d×%d • bottom %d×%d",
		len(plan.Cells), p.ColumnWidths[0], p.RowHeight, p.ColumnWidths[1], p.RowHeight)
}

// renderGridPreview draws the plan's cells scaled onto a width x height
// character canvas, numbered in arrangement order.
func renderGridPreview(plan *ipc.PlanData, width, height int) []string {
	if plan == nil || width < 5 || height < 3 {
		return emptyCanvas(width, height)
	}
	area := plan.Plan.Area
	if area.Width() <= 0 || area.Height() <= 0 {
		return emptyCanvas(width, height)
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for i, cell := range plan.Cells {
		drawTile(canvas, cell, i+1, area, width, height)
	}

	drawBorder(canvas, width, height)

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

func drawTile(canvas [][]rune, cell platform.Rect, num int, area platform.Rect, canvasW, canvasH int) {
	// Map desktop coordinates to canvas coordinates.
	x1 := (cell.Left - area.Left) * canvasW / area.Width()
	y1 := (cell.Top - area.Top) * canvasH / area.Height()
	x2 := (cell.Right - area.Left) * canvasW / area.Width()
	y2 := (cell.Bottom - area.Top) * canvasH / area.Height()

	if x1 < 1 {
		x1 = 1
	}
	if y1 < 1 {
		y1 = 1
	}
	if x2 >= canvasW-1 {
		x2 = canvasW - 2
	}
	if y2 >= canvasH-1 {
		y2 = canvasH - 2
	}
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for x := x1; x <= x2; x++ {
		canvas[y1][x] = '─'
		canvas[y2][x] = '─'
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = '│'
		canvas[y][x2] = '│'
	}
	canvas[y1][x1] = '┌'
	canvas[y1][x2] = '┐'
	canvas[y2][x1] = '└'
	canvas[y2][x2] = '┘'

	centerY := (y1 + y2) / 2
	centerX := (x1 + x2) / 2
	if centerY > y1 && centerY < y2 && centerX > x1 && centerX < x2 {
		label := fmt.Sprintf("%d", num)
		startX := centerX - len(label)/2
		for i, r := range label {
			if startX+i > x1 && startX+i < x2 {
				canvas[centerY][startX+i] = r
			}
		}
	}
}

func drawBorder(canvas [][]rune, width, height int) {
	for x := 0; x < width; x++ {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}
	for y := 0; y < height; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}
	canvas[0][0] = '╔'
	canvas[0][width-1] = '╗'
	canvas[height-1][0] = '╚'
	canvas[height-1][width-1] = '╝'
}

func emptyCanvas(width, height int) []string {
	if height < 0 {
		height = 0
	}
	if width < 0 {
		width = 0
	}
	lines := make([]string, height)
	empty := strings.Repeat(" ", width)
	for i := range lines {
		lines[i] = empty
	}
	return lines
}
