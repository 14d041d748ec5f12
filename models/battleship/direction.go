package battleship

import (
	"encoding/json"
	"strings"

	cerr "github.com/saeidalz13/battleship-engine/internal/error"
)

// Direction is the orientation of a ship or the direction of a move.
type Direction uint8

const (
	North Direction = iota
	East
	South
	West
)

type step struct {
	dCol int
	dRow int
}

var (
	// A ship's body extends from its anchor by this step per cell.
	extensionSteps = [...]step{
		North: {0, 1},
		East:  {-1, 0},
		South: {0, -1},
		West:  {1, 0},
	}

	// Moving a ship shifts its anchor by this step.
	moveSteps = [...]step{
		North: {0, -1},
		East:  {1, 0},
		South: {0, 1},
		West:  {-1, 0},
	}

	clockwise = [...]Direction{
		North: East,
		East:  South,
		South: West,
		West:  North,
	}

	counterClockwise = [...]Direction{
		North: West,
		West:  South,
		South: East,
		East:  North,
	}

	directionNames = [...]string{
		North: "NORTH",
		East:  "EAST",
		South: "SOUTH",
		West:  "WEST",
	}
)

func (d Direction) IsValid() bool {
	return d <= West
}

func (d Direction) String() string {
	if !d.IsValid() {
		return "UNKNOWN"
	}
	return directionNames[d]
}

func (d Direction) Clockwise() Direction {
	return clockwise[d]
}

func (d Direction) CounterClockwise() Direction {
	return counterClockwise[d]
}

func ParseDirection(s string) (Direction, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for d, n := range directionNames {
		if n == name {
			return Direction(d), nil
		}
	}
	return North, cerr.ErrInvalidDirectionValue(s)
}

func (d Direction) MarshalJSON() ([]byte, error) {
	if !d.IsValid() {
		return nil, cerr.ErrInvalidDirectionValue(d.String())
	}
	return json.Marshal(d.String())
}

func (d *Direction) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseDirection(name)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
