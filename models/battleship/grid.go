package battleship

import (
	cerr "github.com/saeidalz13/battleship-engine/internal/error"
)

const (
	GridSizeMin int = 5
	GridSizeMax int = 10
)

type Coordinates struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

func NewCoordinates(col, row int) Coordinates {
	return Coordinates{Col: col, Row: row}
}

// Grid is an N×N board. cells is indexed [col][row].
type Grid struct {
	size  int
	cells [][]*Cell
}

// Creates a new grid where every cell is water and not hit.
func NewGrid(size int) *Grid {
	cells := make([][]*Cell, size)
	for col := 0; col < size; col++ {
		cells[col] = make([]*Cell, size)
		for row := 0; row < size; row++ {
			cells[col][row] = newCell(col, row)
		}
	}

	return &Grid{size: size, cells: cells}
}

func IsGridSizeValid(size int) bool {
	return size >= GridSizeMin && size <= GridSizeMax
}

func (g *Grid) Size() int {
	return g.size
}

func (g *Grid) InBounds(col, row int) bool {
	return col >= 0 && col < g.size && row >= 0 && row < g.size
}

func (g *Grid) Cell(col, row int) (*Cell, error) {
	if !g.InBounds(col, row) {
		return nil, cerr.ErrXorYOutOfGridBound(col, row)
	}
	return g.cells[col][row], nil
}

// cell is used on coordinates that were already validated.
func (g *Grid) cell(col, row int) *Cell {
	return g.cells[col][row]
}
