package battleship

import (
	"math/rand/v2"

	cerr "github.com/saeidalz13/battleship-engine/internal/error"
)

// Observation is the attacker's knowledge of one cell of the enemy grid.
type Observation uint8

const (
	ObservationUnknown Observation = iota
	ObservationMiss
	ObservationHit
	ObservationSunk
)

func (o Observation) String() string {
	switch o {
	case ObservationUnknown:
		return "unknown"
	case ObservationMiss:
		return "miss"
	case ObservationHit:
		return "hit"
	case ObservationSunk:
		return "sunk"
	default:
		return "invalid"
	}
}

// AttackView exposes attack results only, never ship positions.
type AttackView struct {
	size    int
	states  [][]Observation
	history []Coordinates
}

func newAttackView(size int, history []Coordinates) *AttackView {
	states := make([][]Observation, size)
	for col := range states {
		states[col] = make([]Observation, size)
	}
	return &AttackView{size: size, states: states, history: history}
}

// NewAttackView builds a view from raw observations indexed [col][row] and
// the chronological list of attacked cells.
func NewAttackView(states [][]Observation, history []Coordinates) *AttackView {
	view := newAttackView(len(states), history)
	for col := range states {
		copy(view.states[col], states[col])
	}
	return view
}

func (v *AttackView) set(col, row int, o Observation) {
	v.states[col][row] = o
}

func (v *AttackView) Size() int {
	return v.size
}

func (v *AttackView) InBounds(col, row int) bool {
	return col >= 0 && col < v.size && row >= 0 && row < v.size
}

// State returns the observation at (col,row); off-grid cells read as Miss.
func (v *AttackView) State(col, row int) Observation {
	if !v.InBounds(col, row) {
		return ObservationMiss
	}
	return v.states[col][row]
}

func (v *AttackView) IsAttacked(col, row int) bool {
	return v.State(col, row) != ObservationUnknown
}

// History returns the attacked cells, oldest first.
func (v *AttackView) History() []Coordinates {
	return v.history
}

func (v *AttackView) unattacked(filter func(col, row int) bool) []Coordinates {
	cells := make([]Coordinates, 0, v.size*v.size)
	for col := 0; col < v.size; col++ {
		for row := 0; row < v.size; row++ {
			if v.states[col][row] == ObservationUnknown && (filter == nil || filter(col, row)) {
				cells = append(cells, NewCoordinates(col, row))
			}
		}
	}
	return cells
}

// Strategy picks the next cell to attack. It must never return a cell that
// was already attacked or lies off the grid.
type Strategy interface {
	NextTarget(view *AttackView) (Coordinates, error)
}

// EasyStrategy attacks a uniformly random unattacked cell.
type EasyStrategy struct {
	rng *rand.Rand
}

func NewEasyStrategy(rng *rand.Rand) *EasyStrategy {
	if rng == nil {
		rng = NewRand()
	}
	return &EasyStrategy{rng: rng}
}

func (s *EasyStrategy) NextTarget(view *AttackView) (Coordinates, error) {
	return pickRandom(view.unattacked(nil), s.rng)
}

// HardStrategy hunts on a checkerboard until it hits something, then targets
// the neighbours of the live hits until the ship sinks.
type HardStrategy struct {
	rng *rand.Rand
}

func NewHardStrategy(rng *rand.Rand) *HardStrategy {
	if rng == nil {
		rng = NewRand()
	}
	return &HardStrategy{rng: rng}
}

var orthogonalSteps = [...]step{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

func (s *HardStrategy) NextTarget(view *AttackView) (Coordinates, error) {
	if target, ok := s.target(view); ok {
		return target, nil
	}

	parity := view.unattacked(func(col, row int) bool { return (col+row)%2 == 0 })
	if len(parity) > 0 {
		return pickRandom(parity, s.rng)
	}
	return pickRandom(view.unattacked(nil), s.rng)
}

// Walks the live hits from the most recent one backwards.
func (s *HardStrategy) target(view *AttackView) (Coordinates, bool) {
	history := view.History()
	for i := len(history) - 1; i >= 0; i-- {
		hit := history[i]
		if view.State(hit.Col, hit.Row) != ObservationHit {
			continue
		}

		if candidates := lineEnds(view, hit); len(candidates) > 0 {
			return candidates[s.rng.IntN(len(candidates))], true
		}

		candidates := make([]Coordinates, 0, len(orthogonalSteps))
		for _, st := range orthogonalSteps {
			col, row := hit.Col+st.dCol, hit.Row+st.dRow
			if view.InBounds(col, row) && !view.IsAttacked(col, row) {
				candidates = append(candidates, NewCoordinates(col, row))
			}
		}
		if len(candidates) > 0 {
			return candidates[s.rng.IntN(len(candidates))], true
		}
	}
	return Coordinates{}, false
}

// lineEnds returns the open ends of a run of live hits through hit, if the
// run is at least two cells long.
func lineEnds(view *AttackView, hit Coordinates) []Coordinates {
	ends := make([]Coordinates, 0, 2)

	for _, axis := range [...]step{{1, 0}, {0, 1}} {
		back := walkHits(view, hit, step{-axis.dCol, -axis.dRow})
		forward := walkHits(view, hit, axis)
		if back == hit && forward == hit {
			continue
		}

		for _, end := range [...]Coordinates{
			NewCoordinates(back.Col-axis.dCol, back.Row-axis.dRow),
			NewCoordinates(forward.Col+axis.dCol, forward.Row+axis.dRow),
		} {
			if view.InBounds(end.Col, end.Row) && !view.IsAttacked(end.Col, end.Row) {
				ends = append(ends, end)
			}
		}
	}
	return ends
}

func walkHits(view *AttackView, from Coordinates, st step) Coordinates {
	last := from
	for {
		next := NewCoordinates(last.Col+st.dCol, last.Row+st.dRow)
		if view.State(next.Col, next.Row) != ObservationHit {
			return last
		}
		last = next
	}
}

func pickRandom(cells []Coordinates, rng *rand.Rand) (Coordinates, error) {
	if len(cells) == 0 {
		return Coordinates{}, cerr.ErrNoTargetsLeft
	}
	return cells[rng.IntN(len(cells))], nil
}
