package error

import (
	"errors"
	"fmt"
)

const (
	ConstErrAttackFailed     = "attack operation failed"
	ConstErrPlaceFailed      = "ship placement failed"
	ConstErrCreateGameFailed = "game creation failed"
	ConstErrResumeGameFailed = "resuming the game failed"
	ConstErrReadyFailed      = "fleet is not ready"
	ConstErrFetchStateFailed = "fetching the game state failed"
	ConstErrInvalidPayload   = "invalid request payload"
)

var (
	ErrInvalidPlacement   = errors.New("the ship exceeds the limits of the game grid")
	ErrShipsTooClose      = errors.New("ships must keep at least one cell distance")
	ErrCellOutOfGridBound = errors.New("cell is out of game grid bound")
	ErrGameFinished       = errors.New("game is already finished")
	ErrNoTargetsLeft      = errors.New("no unattacked cell left on the grid")
	ErrInvalidGameMode    = errors.New("invalid game mode")
	ErrInvalidGridSize    = errors.New("invalid grid size")
	ErrInvalidDirection   = errors.New("invalid direction")
	ErrFleetIncomplete    = errors.New("fleet does not match the required ships")
	ErrGameNotExists      = errors.New("game does not exist")
	ErrShipNotExists      = errors.New("ship does not exist")
	ErrNotTurnForAttacker = errors.New("not the turn of this player")
	ErrSessionNotFound    = errors.New("session not found")
	ErrFleetLocked        = errors.New("fleet is locked once the player is ready")
	ErrGameNotStarted     = errors.New("game has not started yet")
	ErrPlayerIsAI         = errors.New("player is controlled by the ai")
)

func ErrShipOutOfGridBound(col, row, size int, orientation string) error {
	return fmt.Errorf("%w\tcol: %d\trow: %d\tsize: %d\torientation: %s", ErrInvalidPlacement, col, row, size, orientation)
}

func ErrInvalidShipSize(size int) error {
	return fmt.Errorf("%w\tship size must be at least 1, got: %d", ErrInvalidPlacement, size)
}

func ErrShipTouchesFleet(col, row, size int) error {
	return fmt.Errorf("%w\tcol: %d\trow: %d\tsize: %d", ErrShipsTooClose, col, row, size)
}

func ErrXorYOutOfGridBound(col, row int) error {
	return fmt.Errorf("%w\tcol: %d\trow: %d", ErrCellOutOfGridBound, col, row)
}

func ErrGameIsFinished(gameUuid string) error {
	return fmt.Errorf("%w, uuid: %s", ErrGameFinished, gameUuid)
}

func ErrInvalidGameModeValue(mode uint8) error {
	return fmt.Errorf("%w: %d", ErrInvalidGameMode, mode)
}

func ErrInvalidGridSizeValue(size, min, max int) error {
	return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidGridSize, size, min, max)
}

func ErrInvalidDirectionValue(direction string) error {
	return fmt.Errorf("%w: %q", ErrInvalidDirection, direction)
}

func ErrFleetDoesNotMatch(expected, got []int) error {
	return fmt.Errorf("%w\texpected sizes: %v\tgot: %v", ErrFleetIncomplete, expected, got)
}

func ErrGameNotExistsUuid(gameUuid string) error {
	return fmt.Errorf("%w, uuid: %s", ErrGameNotExists, gameUuid)
}

func ErrShipIndexNotExists(index int) error {
	return fmt.Errorf("%w, index: %d", ErrShipNotExists, index)
}

func ErrNotTurnForPlayer(player string) error {
	return fmt.Errorf("%w: %s", ErrNotTurnForAttacker, player)
}

func ErrFleetIsLocked(player string) error {
	return fmt.Errorf("%w: %s", ErrFleetLocked, player)
}

func ErrGameIsNotStarted(gameUuid string) error {
	return fmt.Errorf("%w, uuid: %s", ErrGameNotStarted, gameUuid)
}

func ErrPlayerControlledByAI(player string) error {
	return fmt.Errorf("%w: %s", ErrPlayerIsAI, player)
}

func ErrSessionIdNotFound(sessionId string) error {
	return fmt.Errorf("%w, id: %s", ErrSessionNotFound, sessionId)
}

func ErrSessionIsNil(sessionId string) error {
	return fmt.Errorf("session is nil, id: %s", sessionId)
}
