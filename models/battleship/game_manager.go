package battleship

import (
	"math/rand/v2"
	"sync"

	cerr "github.com/saeidalz13/battleship-engine/internal/error"
)

type GameManager interface {
	CreateGame(mode GameMode, gridSize int) (*Match, error)
	AddGame(controller *Controller) *Match
	FetchGame(gameUuid string) (*Match, error)
	TerminateGame(gameUuid string)
}

// Match guards one controller. Every operation on a match runs under its
// own lock; turns alternate so nothing inside a match runs in parallel.
type Match struct {
	controller *Controller
	mu         sync.Mutex
}

func (m *Match) Uuid() string {
	return m.controller.Uuid()
}

func (m *Match) Do(fn func(c *Controller) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.controller)
}

type BattleshipGameManager struct {
	games map[string]*Match
	rng   *rand.Rand
	mu    sync.RWMutex
}

var _ GameManager = (*BattleshipGameManager)(nil)

func NewBattleshipGameManager() *BattleshipGameManager {
	return &BattleshipGameManager{
		games: make(map[string]*Match, 10),
		rng:   NewRand(),
	}
}

func (bgm *BattleshipGameManager) CreateGame(mode GameMode, gridSize int) (*Match, error) {
	bgm.mu.Lock()
	defer bgm.mu.Unlock()

	// rand.Rand is not safe for concurrent use; each match gets its own.
	seed1, seed2 := bgm.rng.Uint64(), bgm.rng.Uint64()
	controller, err := NewController(mode, gridSize, rand.New(rand.NewPCG(seed1, seed2)))
	if err != nil {
		return nil, err
	}

	match := &Match{controller: controller}
	bgm.games[controller.Uuid()] = match
	return match, nil
}

// AddGame registers a controller restored from storage, replacing any live
// match with the same uuid.
func (bgm *BattleshipGameManager) AddGame(controller *Controller) *Match {
	bgm.mu.Lock()
	defer bgm.mu.Unlock()

	match := &Match{controller: controller}
	bgm.games[controller.Uuid()] = match
	return match
}

func (bgm *BattleshipGameManager) FetchGame(gameUuid string) (*Match, error) {
	bgm.mu.RLock()
	match, prs := bgm.games[gameUuid]
	bgm.mu.RUnlock()
	if !prs {
		return nil, cerr.ErrGameNotExistsUuid(gameUuid)
	}

	return match, nil
}

func (bgm *BattleshipGameManager) TerminateGame(gameUuid string) {
	bgm.mu.Lock()
	delete(bgm.games, gameUuid)
	bgm.mu.Unlock()
}

func (bgm *BattleshipGameManager) Len() int {
	bgm.mu.RLock()
	defer bgm.mu.RUnlock()
	return len(bgm.games)
}
