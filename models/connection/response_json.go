package connection

import (
	mb "github.com/saeidalz13/battleship-engine/models/battleship"
)

type RespSessionId struct {
	SessionID string `json:"session_id"`
}

type RespCreateGame struct {
	GameUuid string      `json:"game_uuid"`
	GameMode mb.GameMode `json:"game_mode"`
	GridSize int         `json:"grid_size"`
	Fleet    []int       `json:"fleet"`
}

type ShipView struct {
	Index       int              `json:"index"`
	Size        int              `json:"size"`
	Orientation mb.Direction     `json:"orientation"`
	Cells       []mb.Coordinates `json:"cells"`
	Destroyed   bool             `json:"destroyed"`
}

type RespFleet struct {
	Player   mb.Player  `json:"player"`
	Accepted bool       `json:"accepted"`
	Ships    []ShipView `json:"ships"`
}

func NewRespFleet(player mb.Player, accepted bool, fleet *mb.ShipSet) RespFleet {
	ships := make([]ShipView, 0, fleet.Len())
	for i, ship := range fleet.Ships() {
		ships = append(ships, ShipView{
			Index:       i,
			Size:        ship.Size(),
			Orientation: ship.Orientation(),
			Cells:       ship.Coordinates(),
			Destroyed:   ship.IsDestroyed(),
		})
	}
	return RespFleet{Player: player, Accepted: accepted, Ships: ships}
}

type RespReady struct {
	Player      mb.Player `json:"player"`
	OtherReady  bool      `json:"other_ready"`
	GameStarted bool      `json:"game_started"`
}

type RespAttack struct {
	mb.Shot
	CurrentPlayer mb.Player `json:"current_player"`
}

type RespOpponentAttack struct {
	Shots         []mb.Shot `json:"shots"`
	CurrentPlayer mb.Player `json:"current_player"`
}

type RespEndGame struct {
	Winner mb.Player `json:"winner"`
}

// RespGameState is what a client needs to redraw a match. The fleet of the
// other player is never included, only the attacker's observations of it.
type RespGameState struct {
	GameUuid      string             `json:"game_uuid"`
	GameMode      mb.GameMode        `json:"game_mode"`
	GridSize      int                `json:"grid_size"`
	Started       bool               `json:"started"`
	CurrentPlayer mb.Player          `json:"current_player"`
	GameOver      bool               `json:"game_over"`
	Fleet         RespFleet          `json:"fleet"`
	AttackGrid    [][]mb.Observation `json:"attack_grid"`
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewRespErr(errorDetails, message string) *RespErr {
	return &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}
