package battleship

import (
	cerr "github.com/saeidalz13/battleship-engine/internal/error"
)

// Ship is a contiguous run of cells. The anchor is the first cell and the
// body extends from it according to the orientation.
type Ship struct {
	size        int
	orientation Direction
	col         int
	row         int
	cells       []*Cell
	fleet       *ShipSet
}

// ShipState is the minimal persisted state of a ship. It turns back into a
// Ship only through ShipSet.Restore.
type ShipState struct {
	Size        int       `json:"size"`
	Orientation Direction `json:"orientation"`
	Col         int       `json:"col"`
	Row         int       `json:"row"`
}

func newShip(fleet *ShipSet, col, row, size int, orientation Direction) (*Ship, error) {
	if err := validatePlacement(col, row, size, orientation, fleet.grid.Size()); err != nil {
		return nil, err
	}

	ship := &Ship{
		size:        size,
		orientation: orientation,
		col:         col,
		row:         row,
		fleet:       fleet,
	}
	ship.initializeCells()
	return ship, nil
}

// Every cell from the anchor up to size-1 extension steps must be on the grid.
func validatePlacement(col, row, size int, orientation Direction, gridSize int) error {
	if size < 1 {
		return cerr.ErrInvalidShipSize(size)
	}
	if !orientation.IsValid() {
		return cerr.ErrInvalidDirectionValue(orientation.String())
	}

	ext := extensionSteps[orientation]
	endCol := col + ext.dCol*(size-1)
	endRow := row + ext.dRow*(size-1)

	if !inRange(col, gridSize) || !inRange(row, gridSize) || !inRange(endCol, gridSize) || !inRange(endRow, gridSize) {
		return cerr.ErrShipOutOfGridBound(col, row, size, orientation.String())
	}
	return nil
}

func inRange(v, gridSize int) bool {
	return v >= 0 && v < gridSize
}

func (s *Ship) initializeCells() {
	ext := extensionSteps[s.orientation]
	s.cells = make([]*Cell, s.size)

	for i := 0; i < s.size; i++ {
		s.cells[i] = s.fleet.grid.cell(s.col+ext.dCol*i, s.row+ext.dRow*i)
	}
	for _, cell := range s.cells {
		cell.SetShip(true)
	}
}

// place repositions the ship. Callers validate the target beforehand.
func (s *Ship) place(col, row int, orientation Direction) {
	s.Close()
	s.col = col
	s.row = row
	s.orientation = orientation
	s.initializeCells()
}

func (s *Ship) Size() int {
	return s.size
}

func (s *Ship) Orientation() Direction {
	return s.orientation
}

func (s *Ship) Anchor() Coordinates {
	return NewCoordinates(s.col, s.row)
}

func (s *Ship) FirstCell() *Cell {
	return s.cells[0]
}

func (s *Ship) LastCell() *Cell {
	return s.cells[s.size-1]
}

// Cells returns the ship's cells from the anchor outwards.
func (s *Ship) Cells() []*Cell {
	cells := make([]*Cell, len(s.cells))
	copy(cells, s.cells)
	return cells
}

func (s *Ship) Coordinates() []Coordinates {
	coords := make([]Coordinates, 0, len(s.cells))
	for _, cell := range s.cells {
		coords = append(coords, cell.Coordinates())
	}
	return coords
}

func (s *Ship) IsDestroyed() bool {
	for _, cell := range s.cells {
		if !cell.IsHit() {
			return false
		}
	}
	return true
}

func (s *Ship) ContainsCell(cell *Cell) bool {
	for _, c := range s.cells {
		if c.Equal(cell) {
			return true
		}
	}
	return false
}

// KeepsDistanceTo reports whether at least one cell of water separates the
// two ships. Diagonal contact counts as touching.
func (s *Ship) KeepsDistanceTo(other *Ship) bool {
	for _, c := range s.cells {
		for _, o := range other.cells {
			if c.IsNextTo(o) {
				return false
			}
		}
	}
	return true
}

// Close marks the ship's cells as water, except the ones another ship of the
// fleet still occupies.
func (s *Ship) Close() {
	for _, cell := range s.cells {
		if s.fleet.shipsOnCellExcept(cell, s) == 0 {
			cell.SetShip(false)
		}
	}
}

// Move shifts the ship one cell in direction. It returns false and leaves the
// ship untouched when the new position would leave the grid.
func (s *Ship) Move(direction Direction) bool {
	if !direction.IsValid() {
		return false
	}

	mv := moveSteps[direction]
	col, row := s.col+mv.dCol, s.row+mv.dRow

	if !s.fleet.grid.InBounds(col, row) {
		return false
	}
	if err := validatePlacement(col, row, s.size, s.orientation, s.fleet.grid.Size()); err != nil {
		return false
	}

	s.place(col, row, s.orientation)
	return true
}

// TurnRight rotates the ship 90° clockwise around its middle cell.
func (s *Ship) TurnRight() bool {
	s.turn(s.orientation.Clockwise())
	return true
}

// TurnLeft rotates the ship 90° counter-clockwise around its middle cell.
func (s *Ship) TurnLeft() bool {
	s.turn(s.orientation.CounterClockwise())
	return true
}

// The middle cell keeps its position, then the anchor is clamped along the
// new extension axis so the whole ship stays on the grid.
func (s *Ship) turn(orientation Direction) {
	mid := s.size / 2
	oldExt := extensionSteps[s.orientation]
	newExt := extensionSteps[orientation]

	col := s.col + mid*oldExt.dCol - mid*newExt.dCol
	row := s.row + mid*oldExt.dRow - mid*newExt.dRow

	gridSize := s.fleet.grid.Size()
	switch {
	case newExt.dCol < 0:
		col = clamp(col, s.size-1, gridSize-1)
	case newExt.dCol > 0:
		col = clamp(col, 0, gridSize-s.size)
	case newExt.dRow < 0:
		row = clamp(row, s.size-1, gridSize-1)
	case newExt.dRow > 0:
		row = clamp(row, 0, gridSize-s.size)
	}

	s.place(col, row, orientation)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (s *Ship) State() ShipState {
	return ShipState{
		Size:        s.size,
		Orientation: s.orientation,
		Col:         s.col,
		Row:         s.row,
	}
}
