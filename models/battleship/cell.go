package battleship

// Cell is the smallest addressable unit of a grid. Identity is positional.
type Cell struct {
	col     int
	row     int
	hasShip bool
	hit     bool
}

func newCell(col, row int) *Cell {
	return &Cell{col: col, row: row}
}

func (c *Cell) Col() int {
	return c.col
}

func (c *Cell) Row() int {
	return c.row
}

func (c *Cell) Coordinates() Coordinates {
	return NewCoordinates(c.col, c.row)
}

func (c *Cell) HasShip() bool {
	return c.hasShip
}

func (c *Cell) SetShip(hasShip bool) {
	c.hasShip = hasShip
}

func (c *Cell) IsHit() bool {
	return c.hit
}

func (c *Cell) SetHit() {
	c.hit = true
}

func (c *Cell) Equal(other *Cell) bool {
	if other == nil {
		return false
	}
	return c.col == other.col && c.row == other.row
}

// IsNextTo reports whether other is the same cell or one of its 8 neighbours.
func (c *Cell) IsNextTo(other *Cell) bool {
	return abs(c.col-other.col) <= 1 && abs(c.row-other.row) <= 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
