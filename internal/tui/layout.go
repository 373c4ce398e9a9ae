package tui

const (
	// gridCols is the number of cells per row; extra slots wrap.
	gridCols   = 2
	cellWidth  = 9
	cellHeight = 5
	colGap     = 2
	rowGap     = 1
	// headerLines sit above the grid: target, timer and a spacer.
	headerLines = 3
)

// grid positions candidate cells on screen. View and hit testing share it so
// that what is drawn is what the pointer resolves to.
type grid struct {
	n       int
	cols    int
	rows    int
	originX int
	originY int
}

func newGrid(n, width int) grid {
	if n <= 0 {
		return grid{}
	}
	cols := min(gridCols, n)
	rows := (n + cols - 1) / cols
	g := grid{n: n, cols: cols, rows: rows, originY: headerLines}
	if w := g.width(); width > w {
		g.originX = (width - w) / 2
	}
	return g
}

func (g grid) width() int {
	if g.cols == 0 {
		return 0
	}
	return g.cols*cellWidth + (g.cols-1)*colGap
}

func (g grid) height() int {
	if g.rows == 0 {
		return 0
	}
	return g.rows*cellHeight + (g.rows-1)*rowGap
}

// cellAt returns the slot drawn at screen position (x, y), or -1 when the
// position falls between cells or outside the grid.
func (g grid) cellAt(x, y int) int {
	x -= g.originX
	y -= g.originY
	if x < 0 || y < 0 || x >= g.width() || y >= g.height() {
		return -1
	}
	col, cx := x/(cellWidth+colGap), x%(cellWidth+colGap)
	row, cy := y/(cellHeight+rowGap), y%(cellHeight+rowGap)
	if cx >= cellWidth || cy >= cellHeight {
		return -1
	}
	slot := row*g.cols + col
	if slot >= g.n {
		return -1
	}
	return slot
}

// center returns the screen position of the middle of slot.
func (g grid) center(slot int) (int, int) {
	col, row := slot%g.cols, slot/g.cols
	x := g.originX + col*(cellWidth+colGap) + cellWidth/2
	y := g.originY + row*(cellHeight+rowGap) + cellHeight/2
	return x, y
}
