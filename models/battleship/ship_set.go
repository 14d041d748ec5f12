package battleship

import (
	"math/rand/v2"
	"slices"

	cerr "github.com/saeidalz13/battleship-engine/internal/error"
)

const (
	randomPlacementAttempts = 200
	randomFleetAttempts     = 50
)

// Ship sizes each player has to place, indexed by grid size.
var standardFleets = map[int][]int{
	5:  {3, 2, 2},
	6:  {3, 3, 2, 2},
	7:  {4, 3, 2, 2},
	8:  {4, 3, 3, 2, 2},
	9:  {5, 4, 3, 2, 2},
	10: {5, 4, 3, 3, 2},
}

func StandardFleet(gridSize int) ([]int, error) {
	sizes, prs := standardFleets[gridSize]
	if !prs {
		return nil, cerr.ErrInvalidGridSizeValue(gridSize, GridSizeMin, GridSizeMax)
	}
	return slices.Clone(sizes), nil
}

// ShipSet is the fleet of one player. At the end of every accepted
// placement, move or turn no two ships touch.
type ShipSet struct {
	grid  *Grid
	ships []*Ship
}

func NewShipSet(grid *Grid) *ShipSet {
	return &ShipSet{
		grid:  grid,
		ships: make([]*Ship, 0, 5),
	}
}

func (ss *ShipSet) Grid() *Grid {
	return ss.grid
}

func (ss *ShipSet) Ships() []*Ship {
	return slices.Clone(ss.ships)
}

func (ss *ShipSet) Len() int {
	return len(ss.ships)
}

func (ss *ShipSet) Ship(index int) (*Ship, error) {
	if index < 0 || index >= len(ss.ships) {
		return nil, cerr.ErrShipIndexNotExists(index)
	}
	return ss.ships[index], nil
}

// PlaceShip adds a new ship to the fleet. The ship is rejected if it exceeds
// the grid or touches a ship that is already placed.
func (ss *ShipSet) PlaceShip(col, row, size int, orientation Direction) (*Ship, error) {
	ship, err := newShip(ss, col, row, size, orientation)
	if err != nil {
		return nil, err
	}

	if !ss.keepsDistance(ship) {
		ship.Close()
		return nil, cerr.ErrShipTouchesFleet(col, row, size)
	}

	ss.ships = append(ss.ships, ship)
	return ship, nil
}

func (ss *ShipSet) RemoveShip(index int) error {
	ship, err := ss.Ship(index)
	if err != nil {
		return err
	}

	ship.Close()
	ss.ships = slices.Delete(ss.ships, index, index+1)
	return nil
}

// Clear removes every ship and leaves the grid all water.
func (ss *ShipSet) Clear() {
	for len(ss.ships) > 0 {
		_ = ss.RemoveShip(len(ss.ships) - 1)
	}
}

func (ss *ShipSet) MoveShip(index int, direction Direction) (bool, error) {
	return ss.reposition(index, func(s *Ship) bool { return s.Move(direction) })
}

func (ss *ShipSet) TurnShipRight(index int) (bool, error) {
	return ss.reposition(index, (*Ship).TurnRight)
}

func (ss *ShipSet) TurnShipLeft(index int) (bool, error) {
	return ss.reposition(index, (*Ship).TurnLeft)
}

// Runs op on the ship and restores the previous position if the result
// touches another ship of the fleet.
func (ss *ShipSet) reposition(index int, op func(*Ship) bool) (bool, error) {
	ship, err := ss.Ship(index)
	if err != nil {
		return false, err
	}

	prev := ship.State()
	if !op(ship) {
		return false, nil
	}

	if !ss.keepsDistance(ship) {
		ship.place(prev.Col, prev.Row, prev.Orientation)
		return false, nil
	}
	return true, nil
}

func (ss *ShipSet) keepsDistance(ship *Ship) bool {
	for _, other := range ss.ships {
		if other == ship {
			continue
		}
		if !ship.KeepsDistanceTo(other) {
			return false
		}
	}
	return true
}

// KeepsDistance reports whether no two ships of the fleet touch.
func (ss *ShipSet) KeepsDistance() bool {
	for i, ship := range ss.ships {
		for _, other := range ss.ships[i+1:] {
			if !ship.KeepsDistanceTo(other) {
				return false
			}
		}
	}
	return true
}

func (ss *ShipSet) ShipsOnCell(cell *Cell) int {
	return ss.shipsOnCellExcept(cell, nil)
}

func (ss *ShipSet) shipsOnCellExcept(cell *Cell, except *Ship) int {
	count := 0
	for _, ship := range ss.ships {
		if ship == except {
			continue
		}
		if ship.ContainsCell(cell) {
			count++
		}
	}
	return count
}

func (ss *ShipSet) ShipAt(cell *Cell) *Ship {
	for _, ship := range ss.ships {
		if ship.ContainsCell(cell) {
			return ship
		}
	}
	return nil
}

// IsDestroyed reports whether every ship has been sunk. An empty fleet has
// nothing to sink and is never destroyed.
func (ss *ShipSet) IsDestroyed() bool {
	if len(ss.ships) == 0 {
		return false
	}
	for _, ship := range ss.ships {
		if !ship.IsDestroyed() {
			return false
		}
	}
	return true
}

func (ss *ShipSet) DestroyedShips() int {
	destroyed := 0
	for _, ship := range ss.ships {
		if ship.IsDestroyed() {
			destroyed++
		}
	}
	return destroyed
}

// Sizes returns the ship sizes sorted from largest to smallest.
func (ss *ShipSet) Sizes() []int {
	sizes := make([]int, 0, len(ss.ships))
	for _, ship := range ss.ships {
		sizes = append(sizes, ship.Size())
	}
	slices.Sort(sizes)
	slices.Reverse(sizes)
	return sizes
}

// MatchesSizes reports whether the fleet holds exactly the given ship sizes.
func (ss *ShipSet) MatchesSizes(sizes []int) bool {
	expected := slices.Clone(sizes)
	slices.Sort(expected)
	slices.Reverse(expected)
	return slices.Equal(expected, ss.Sizes())
}

func (ss *ShipSet) States() []ShipState {
	states := make([]ShipState, 0, len(ss.ships))
	for _, ship := range ss.ships {
		states = append(states, ship.State())
	}
	return states
}

// Restore re-attaches persisted ships to this fleet and its grid. It must run
// on an empty fleet before any other operation; on error the fleet is left
// empty.
func (ss *ShipSet) Restore(states []ShipState) error {
	ss.Clear()
	for _, state := range states {
		if _, err := ss.PlaceShip(state.Col, state.Row, state.Size, state.Orientation); err != nil {
			ss.Clear()
			return err
		}
	}
	return nil
}

// PlaceRandomly replaces the fleet with ships of the given sizes at random
// valid positions.
func (ss *ShipSet) PlaceRandomly(sizes []int, rng *rand.Rand) error {
	ordered := slices.Clone(sizes)
	slices.Sort(ordered)
	slices.Reverse(ordered)

	for attempt := 0; attempt < randomFleetAttempts; attempt++ {
		ss.Clear()
		if ss.tryPlaceAll(ordered, rng) {
			return nil
		}
	}

	ss.Clear()
	return cerr.ErrFleetDoesNotMatch(sizes, nil)
}

func (ss *ShipSet) tryPlaceAll(sizes []int, rng *rand.Rand) bool {
	for _, size := range sizes {
		if !ss.tryPlaceOne(size, rng) {
			return false
		}
	}
	return true
}

func (ss *ShipSet) tryPlaceOne(size int, rng *rand.Rand) bool {
	gridSize := ss.grid.Size()
	for i := 0; i < randomPlacementAttempts; i++ {
		orientation := Direction(rng.IntN(4))
		col := rng.IntN(gridSize)
		row := rng.IntN(gridSize)

		if _, err := ss.PlaceShip(col, row, size, orientation); err == nil {
			return true
		}
	}
	return false
}
