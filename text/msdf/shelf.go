package msdf

// GridAllocator is a packing allocator for uniform grid-based layouts,
// used for baking a fixed-size charset into a single square atlas where
// every cell is the same size.
type GridAllocator struct {
	width    int // Atlas width
	height   int // Atlas height
	cellSize int // Size of each cell (square)
	padding  int // Padding between cells
	cols     int // Number of columns
	rows     int // Number of rows
	next     int // Next cell index
}

// NewGridAllocator creates a grid allocator for uniform cells.
func NewGridAllocator(width, height, cellSize, padding int) *GridAllocator {
	cellWithPad := cellSize + padding
	cols := width / cellWithPad
	rows := height / cellWithPad

	if cols <= 0 {
		cols = 1
	}
	if rows <= 0 {
		rows = 1
	}

	return &GridAllocator{
		width:    width,
		height:   height,
		cellSize: cellSize,
		padding:  padding,
		cols:     cols,
		rows:     rows,
		next:     0,
	}
}

// Allocate returns the position of the next available cell.
// Returns -1, -1, false if the grid is full.
func (g *GridAllocator) Allocate() (x, y int, ok bool) {
	if g.next >= g.cols*g.rows {
		return -1, -1, false
	}

	col := g.next % g.cols
	row := g.next / g.cols

	cellWithPad := g.cellSize + g.padding
	x = col * cellWithPad
	y = row * cellWithPad

	g.next++
	return x, y, true
}

// Reset clears all allocations.
func (g *GridAllocator) Reset() {
	g.next = 0
}

// Capacity returns the maximum number of cells that can be allocated.
func (g *GridAllocator) Capacity() int {
	return g.cols * g.rows
}

// Allocated returns the number of cells currently allocated.
func (g *GridAllocator) Allocated() int {
	return g.next
}

// Remaining returns the number of cells still available.
func (g *GridAllocator) Remaining() int {
	return g.Capacity() - g.next
}

// IsFull returns true if no more cells can be allocated.
func (g *GridAllocator) IsFull() bool {
	return g.next >= g.cols*g.rows
}

// Utilization returns the percentage of cells used (0.0 to 1.0).
func (g *GridAllocator) Utilization() float64 {
	capacity := g.Capacity()
	if capacity <= 0 {
		return 0
	}
	return float64(g.next) / float64(capacity)
}

// CellSize returns the size of each cell.
func (g *GridAllocator) CellSize() int {
	return g.cellSize
}

// GridDimensions returns the number of columns and rows.
func (g *GridAllocator) GridDimensions() (cols, rows int) {
	return g.cols, g.rows
}
