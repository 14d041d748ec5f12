package battleship

import (
	"math/rand/v2"
	"time"
)

// Snapshot is the persisted state of a match. Cells are never stored; they
// are recomputed from the ship states and the shot histories on restore.
type Snapshot struct {
	Uuid          string        `json:"uuid"`
	Mode          GameMode      `json:"mode"`
	GridSize      int           `json:"grid_size"`
	CurrentPlayer Player        `json:"current_player"`
	ReadyOne      bool          `json:"ready_one"`
	ReadyTwo      bool          `json:"ready_two"`
	Finished      bool          `json:"finished"`
	Winner        Player        `json:"winner"`
	FleetOne      []ShipState   `json:"fleet_one"`
	FleetTwo      []ShipState   `json:"fleet_two"`
	ShotsOne      []Coordinates `json:"shots_one"`
	ShotsTwo      []Coordinates `json:"shots_two"`
	CreatedAt     time.Time     `json:"created_at"`
}

func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Uuid:          c.uuid,
		Mode:          c.mode,
		GridSize:      c.gridSize,
		CurrentPlayer: c.currentPlayer,
		ReadyOne:      c.ready[0],
		ReadyTwo:      c.ready[1],
		Finished:      c.finished,
		Winner:        c.winner,
		FleetOne:      c.fleets[0].States(),
		FleetTwo:      c.fleets[1].States(),
		ShotsOne:      c.Shots(PlayerOne),
		ShotsTwo:      c.Shots(PlayerTwo),
		CreatedAt:     c.createdAt,
	}
}

// RestoreController rebuilds a match from a snapshot: fleets are attached to
// fresh grids first, then the shot histories are replayed onto them.
func RestoreController(snap Snapshot, rng *rand.Rand) (*Controller, error) {
	c, err := newController(snap.Uuid, snap.Mode, snap.GridSize, rng)
	if err != nil {
		return nil, err
	}
	if !snap.CreatedAt.IsZero() {
		c.createdAt = snap.CreatedAt
	}

	if err := c.fleets[PlayerOne.index()].Restore(snap.FleetOne); err != nil {
		return nil, err
	}
	if err := c.fleets[PlayerTwo.index()].Restore(snap.FleetTwo); err != nil {
		return nil, err
	}

	for _, replay := range []struct {
		attacker Player
		shots    []Coordinates
	}{
		{PlayerOne, snap.ShotsOne},
		{PlayerTwo, snap.ShotsTwo},
	} {
		grid := c.Grid(replay.attacker.Other())
		for _, shot := range replay.shots {
			cell, err := grid.Cell(shot.Col, shot.Row)
			if err != nil {
				return nil, err
			}
			if cell.IsHit() {
				continue
			}
			cell.SetHit()
			c.shots[replay.attacker.index()] = append(c.shots[replay.attacker.index()], shot)
		}
	}

	c.ready = [2]bool{snap.ReadyOne, snap.ReadyTwo}
	c.currentPlayer = snap.CurrentPlayer
	c.finished = snap.Finished
	c.winner = snap.Winner
	return c, nil
}
