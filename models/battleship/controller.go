package battleship

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	cerr "github.com/saeidalz13/battleship-engine/internal/error"
)

// Player identifies a side of the match. The second player is the one the
// AI plays in single player modes.
type Player bool

const (
	PlayerOne Player = false
	PlayerTwo Player = true
)

func (p Player) Other() Player {
	return !p
}

func (p Player) String() string {
	if p == PlayerOne {
		return "player one"
	}
	return "player two"
}

func (p Player) index() int {
	if p == PlayerOne {
		return 0
	}
	return 1
}

type GameMode uint8

const (
	GameModeHumanVsHuman GameMode = iota
	GameModeVsAIEasy
	GameModeVsAIHard
)

func (m GameMode) IsValid() bool {
	return m <= GameModeVsAIHard
}

func (m GameMode) IsVsAI() bool {
	return m == GameModeVsAIEasy || m == GameModeVsAIHard
}

func (m GameMode) String() string {
	switch m {
	case GameModeHumanVsHuman:
		return "human-vs-human"
	case GameModeVsAIEasy:
		return "vs-ai-easy"
	case GameModeVsAIHard:
		return "vs-ai-hard"
	default:
		return "unknown"
	}
}

// Shot is the outcome of one attack.
type Shot struct {
	Attacker Player        `json:"attacker"`
	Col      int           `json:"col"`
	Row      int           `json:"row"`
	Hit      bool          `json:"hit"`
	Repeated bool          `json:"repeated"`
	Sunk     []Coordinates `json:"sunk,omitempty"`
	GameOver bool          `json:"game_over"`
}

// Controller is the turn based state machine of one match.
type Controller struct {
	uuid          string
	mode          GameMode
	gridSize      int
	grids         [2]*Grid
	fleets        [2]*ShipSet
	shots         [2][]Coordinates
	ready         [2]bool
	currentPlayer Player
	finished      bool
	winner        Player
	opponent      Strategy
	rng           *rand.Rand
	createdAt     time.Time
}

func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
}

// NewController sets up an empty match. In the AI modes the fleet of the
// second player is placed at random straight away.
func NewController(mode GameMode, gridSize int, rng *rand.Rand) (*Controller, error) {
	c, err := newController(uuid.NewString()[:6], mode, gridSize, rng)
	if err != nil {
		return nil, err
	}

	if mode.IsVsAI() {
		sizes, err := StandardFleet(gridSize)
		if err != nil {
			return nil, err
		}
		if err := c.fleets[PlayerTwo.index()].PlaceRandomly(sizes, c.rng); err != nil {
			return nil, err
		}
		c.ready[PlayerTwo.index()] = true
	}
	return c, nil
}

func newController(gameUuid string, mode GameMode, gridSize int, rng *rand.Rand) (*Controller, error) {
	if !mode.IsValid() {
		return nil, cerr.ErrInvalidGameModeValue(uint8(mode))
	}
	if !IsGridSizeValid(gridSize) {
		return nil, cerr.ErrInvalidGridSizeValue(gridSize, GridSizeMin, GridSizeMax)
	}
	if rng == nil {
		rng = NewRand()
	}

	c := &Controller{
		uuid:          gameUuid,
		mode:          mode,
		gridSize:      gridSize,
		currentPlayer: PlayerOne,
		rng:           rng,
		createdAt:     time.Now(),
	}
	for i := range c.grids {
		c.grids[i] = NewGrid(gridSize)
		c.fleets[i] = NewShipSet(c.grids[i])
		c.shots[i] = make([]Coordinates, 0, gridSize*gridSize)
	}

	switch mode {
	case GameModeVsAIEasy:
		c.opponent = NewEasyStrategy(rng)
	case GameModeVsAIHard:
		c.opponent = NewHardStrategy(rng)
	}
	return c, nil
}

func (c *Controller) Uuid() string {
	return c.uuid
}

func (c *Controller) Mode() GameMode {
	return c.mode
}

func (c *Controller) GridSize() int {
	return c.gridSize
}

// Rand is the random source of the match. It is not safe for concurrent use.
func (c *Controller) Rand() *rand.Rand {
	return c.rng
}

func (c *Controller) CreatedAt() time.Time {
	return c.createdAt
}

func (c *Controller) Grid(p Player) *Grid {
	return c.grids[p.index()]
}

func (c *Controller) Fleet(p Player) *ShipSet {
	return c.fleets[p.index()]
}

// Shots returns the cells p has attacked, oldest first.
func (c *Controller) Shots(p Player) []Coordinates {
	shots := make([]Coordinates, len(c.shots[p.index()]))
	copy(shots, c.shots[p.index()])
	return shots
}

func (c *Controller) CurrentPlayer() Player {
	return c.currentPlayer
}

func (c *Controller) SwitchPlayers() {
	c.currentPlayer = c.currentPlayer.Other()
}

func (c *Controller) IsGameOver() bool {
	return c.finished
}

// Winner returns the winning player once the game is over.
func (c *Controller) Winner() (Player, bool) {
	return c.winner, c.finished
}

// Validate checks that both fleets hold the standard ships for the grid
// size and that no two ships touch.
func (c *Controller) Validate() error {
	for _, p := range [...]Player{PlayerOne, PlayerTwo} {
		if err := c.ValidateFleet(p); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) ValidateFleet(p Player) error {
	sizes, err := StandardFleet(c.gridSize)
	if err != nil {
		return err
	}
	fleet := c.Fleet(p)
	if !fleet.MatchesSizes(sizes) {
		return cerr.ErrFleetDoesNotMatch(sizes, fleet.Sizes())
	}
	if !fleet.KeepsDistance() {
		return cerr.ErrShipsTooClose
	}
	return nil
}

// SetReady locks in the fleet of p. It fails unless the fleet is complete.
func (c *Controller) SetReady(p Player) error {
	if err := c.ValidateFleet(p); err != nil {
		return err
	}
	c.ready[p.index()] = true
	return nil
}

func (c *Controller) IsReady(p Player) bool {
	return c.ready[p.index()]
}

// IsStarted reports whether both fleets are locked in.
func (c *Controller) IsStarted() bool {
	return c.ready[0] && c.ready[1]
}

// MakeMove attacks the grid of the other player and reports a hit. A cell
// that was already attacked is left untouched and reported as a miss.
func (c *Controller) MakeMove(attacker Player, col, row int) (bool, error) {
	shot, err := c.Attack(attacker, col, row)
	if err != nil {
		return false, err
	}
	return shot.Hit && !shot.Repeated, nil
}

// Attack resolves an attack by attacker on the other player's grid. It never
// switches players; on a miss the caller does.
func (c *Controller) Attack(attacker Player, col, row int) (Shot, error) {
	if c.finished {
		return Shot{}, cerr.ErrGameIsFinished(c.uuid)
	}

	defender := attacker.Other()
	cell, err := c.Grid(defender).Cell(col, row)
	if err != nil {
		return Shot{}, err
	}

	shot := Shot{Attacker: attacker, Col: col, Row: row}
	if cell.IsHit() {
		shot.Repeated = true
		shot.Hit = cell.HasShip()
		return shot, nil
	}

	cell.SetHit()
	c.shots[attacker.index()] = append(c.shots[attacker.index()], NewCoordinates(col, row))
	shot.Hit = cell.HasShip()

	if shot.Hit {
		if ship := c.Fleet(defender).ShipAt(cell); ship != nil && ship.IsDestroyed() {
			shot.Sunk = ship.Coordinates()
		}
		if c.Fleet(defender).IsDestroyed() {
			c.finished = true
			c.winner = attacker
			shot.GameOver = true
		}
	}
	return shot, nil
}

// PlayOpponentTurn lets the AI attack until it misses or wins. It does
// nothing unless it is the second player's turn in an AI mode.
func (c *Controller) PlayOpponentTurn() ([]Shot, error) {
	shots := make([]Shot, 0, 4)

	for c.opponent != nil && c.currentPlayer == PlayerTwo && !c.finished {
		target, err := c.opponent.NextTarget(c.View(PlayerTwo))
		if err != nil {
			return shots, err
		}

		shot, err := c.Attack(PlayerTwo, target.Col, target.Row)
		if err != nil {
			return shots, err
		}
		shots = append(shots, shot)

		if !shot.Hit {
			c.SwitchPlayers()
		}
	}
	return shots, nil
}

// View is what attacker knows about the other player's grid.
func (c *Controller) View(attacker Player) *AttackView {
	defender := attacker.Other()
	grid := c.Grid(defender)
	fleet := c.Fleet(defender)

	view := newAttackView(c.gridSize, c.Shots(attacker))
	for col := 0; col < c.gridSize; col++ {
		for row := 0; row < c.gridSize; row++ {
			cell := grid.cell(col, row)
			if !cell.IsHit() {
				continue
			}
			switch {
			case !cell.HasShip():
				view.set(col, row, ObservationMiss)
			case fleet.ShipAt(cell) != nil && fleet.ShipAt(cell).IsDestroyed():
				view.set(col, row, ObservationSunk)
			default:
				view.set(col, row, ObservationHit)
			}
		}
	}
	return view
}
