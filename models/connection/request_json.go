package connection

import (
	mb "github.com/saeidalz13/battleship-engine/models/battleship"
)

type ReqCreateGame struct {
	GameMode mb.GameMode `json:"game_mode"`
	GridSize int         `json:"grid_size"`
}

type ReqResumeGame struct {
	GameUuid string `json:"game_uuid"`
}

type ReqPlaceShip struct {
	GameUuid    string       `json:"game_uuid"`
	Player      mb.Player    `json:"player"`
	Col         int          `json:"col"`
	Row         int          `json:"row"`
	Size        int          `json:"size"`
	Orientation mb.Direction `json:"orientation"`
}

type ReqMoveShip struct {
	GameUuid  string       `json:"game_uuid"`
	Player    mb.Player    `json:"player"`
	ShipIndex int          `json:"ship_index"`
	Direction mb.Direction `json:"direction"`
}

type ReqTurnShip struct {
	GameUuid  string    `json:"game_uuid"`
	Player    mb.Player `json:"player"`
	ShipIndex int       `json:"ship_index"`
	Clockwise bool      `json:"clockwise"`
}

type ReqRemoveShip struct {
	GameUuid  string    `json:"game_uuid"`
	Player    mb.Player `json:"player"`
	ShipIndex int       `json:"ship_index"`
}

type ReqPlayer struct {
	GameUuid string    `json:"game_uuid"`
	Player   mb.Player `json:"player"`
}

type ReqAttack struct {
	GameUuid string    `json:"game_uuid"`
	Player   mb.Player `json:"player"`
	Col      int       `json:"col"`
	Row      int       `json:"row"`
}
