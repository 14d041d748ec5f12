package api

import (
	"context"
	"encoding/json"

	cerr "github.com/saeidalz13/battleship-engine/internal/error"
	mb "github.com/saeidalz13/battleship-engine/models/battleship"
	mc "github.com/saeidalz13/battleship-engine/models/connection"
)

// Request is one incoming message of a session. Every handler replies with
// a message of its own code; failures travel in Message.Error and never end
// the session.
type Request struct {
	payload []byte
}

func NewRequest(payload []byte) Request {
	return Request{payload: payload}
}

func decodePayload[T any](payload []byte) (T, error) {
	var msg mc.Message[T]
	if err := json.Unmarshal(payload, &msg); err != nil {
		var zero T
		return zero, err
	}
	return msg.Payload, nil
}

// Ships of the AI and of a ready player can no longer change.
func editableFleet(c *mb.Controller, player mb.Player) (*mb.ShipSet, error) {
	if c.Mode().IsVsAI() && player == mb.PlayerTwo {
		return nil, cerr.ErrPlayerControlledByAI(player.String())
	}
	if c.IsReady(player) {
		return nil, cerr.ErrFleetIsLocked(player.String())
	}
	return c.Fleet(player), nil
}

func (r Request) HandleCreateGame(gm mb.GameManager) (*mb.Match, mc.Message[mc.RespCreateGame]) {
	resp := mc.NewMessage[mc.RespCreateGame](mc.CodeCreateGame)

	req, err := decodePayload[mc.ReqCreateGame](r.payload)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrInvalidPayload)
		return nil, resp
	}

	match, err := gm.CreateGame(req.GameMode, req.GridSize)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrCreateGameFailed)
		return nil, resp
	}

	fleet, _ := mb.StandardFleet(req.GridSize)
	resp.AddPayload(mc.RespCreateGame{
		GameUuid: match.Uuid(),
		GameMode: req.GameMode,
		GridSize: req.GridSize,
		Fleet:    fleet,
	})
	return match, resp
}

func (r Request) HandlePlaceShip(gm mb.GameManager) (*mb.Match, mc.Message[mc.RespFleet]) {
	resp := mc.NewMessage[mc.RespFleet](mc.CodePlaceShip)

	req, err := decodePayload[mc.ReqPlaceShip](r.payload)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrInvalidPayload)
		return nil, resp
	}

	match, err := gm.FetchGame(req.GameUuid)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrPlaceFailed)
		return nil, resp
	}

	err = match.Do(func(c *mb.Controller) error {
		fleet, err := editableFleet(c, req.Player)
		if err != nil {
			return err
		}
		if _, err := fleet.PlaceShip(req.Col, req.Row, req.Size, req.Orientation); err != nil {
			return err
		}
		resp.AddPayload(mc.NewRespFleet(req.Player, true, fleet))
		return nil
	})
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrPlaceFailed)
		return nil, resp
	}
	return match, resp
}

func (r Request) HandleMoveShip(gm mb.GameManager) (*mb.Match, mc.Message[mc.RespFleet]) {
	resp := mc.NewMessage[mc.RespFleet](mc.CodeMoveShip)

	req, err := decodePayload[mc.ReqMoveShip](r.payload)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrInvalidPayload)
		return nil, resp
	}

	return r.reposition(gm, req.GameUuid, req.Player, resp, func(fleet *mb.ShipSet) (bool, error) {
		return fleet.MoveShip(req.ShipIndex, req.Direction)
	})
}

func (r Request) HandleTurnShip(gm mb.GameManager) (*mb.Match, mc.Message[mc.RespFleet]) {
	resp := mc.NewMessage[mc.RespFleet](mc.CodeTurnShip)

	req, err := decodePayload[mc.ReqTurnShip](r.payload)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrInvalidPayload)
		return nil, resp
	}

	return r.reposition(gm, req.GameUuid, req.Player, resp, func(fleet *mb.ShipSet) (bool, error) {
		if req.Clockwise {
			return fleet.TurnShipRight(req.ShipIndex)
		}
		return fleet.TurnShipLeft(req.ShipIndex)
	})
}

// A rejected move or turn is not an error; the reply carries accepted=false
// and the unchanged fleet.
func (r Request) reposition(
	gm mb.GameManager,
	gameUuid string,
	player mb.Player,
	resp mc.Message[mc.RespFleet],
	op func(fleet *mb.ShipSet) (bool, error),
) (*mb.Match, mc.Message[mc.RespFleet]) {
	match, err := gm.FetchGame(gameUuid)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrPlaceFailed)
		return nil, resp
	}

	err = match.Do(func(c *mb.Controller) error {
		fleet, err := editableFleet(c, player)
		if err != nil {
			return err
		}
		accepted, err := op(fleet)
		if err != nil {
			return err
		}
		resp.AddPayload(mc.NewRespFleet(player, accepted, fleet))
		return nil
	})
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrPlaceFailed)
		return nil, resp
	}
	return match, resp
}

func (r Request) HandleRemoveShip(gm mb.GameManager) (*mb.Match, mc.Message[mc.RespFleet]) {
	resp := mc.NewMessage[mc.RespFleet](mc.CodeRemoveShip)

	req, err := decodePayload[mc.ReqRemoveShip](r.payload)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrInvalidPayload)
		return nil, resp
	}

	match, err := gm.FetchGame(req.GameUuid)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrPlaceFailed)
		return nil, resp
	}

	err = match.Do(func(c *mb.Controller) error {
		fleet, err := editableFleet(c, req.Player)
		if err != nil {
			return err
		}
		if err := fleet.RemoveShip(req.ShipIndex); err != nil {
			return err
		}
		resp.AddPayload(mc.NewRespFleet(req.Player, true, fleet))
		return nil
	})
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrPlaceFailed)
		return nil, resp
	}
	return match, resp
}

// HandleRandomFleet replaces the fleet of the player with the standard ships
// at random positions.
func (r Request) HandleRandomFleet(gm mb.GameManager) (*mb.Match, mc.Message[mc.RespFleet]) {
	resp := mc.NewMessage[mc.RespFleet](mc.CodeRandomFleet)

	req, err := decodePayload[mc.ReqPlayer](r.payload)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrInvalidPayload)
		return nil, resp
	}

	match, err := gm.FetchGame(req.GameUuid)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrPlaceFailed)
		return nil, resp
	}

	err = match.Do(func(c *mb.Controller) error {
		fleet, err := editableFleet(c, req.Player)
		if err != nil {
			return err
		}
		sizes, err := mb.StandardFleet(c.GridSize())
		if err != nil {
			return err
		}
		if err := fleet.PlaceRandomly(sizes, c.Rand()); err != nil {
			return err
		}
		resp.AddPayload(mc.NewRespFleet(req.Player, true, fleet))
		return nil
	})
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrPlaceFailed)
		return nil, resp
	}
	return match, resp
}

func (r Request) HandleReady(gm mb.GameManager) (*mb.Match, mc.Message[mc.RespReady]) {
	resp := mc.NewMessage[mc.RespReady](mc.CodeReady)

	req, err := decodePayload[mc.ReqPlayer](r.payload)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrInvalidPayload)
		return nil, resp
	}

	match, err := gm.FetchGame(req.GameUuid)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrReadyFailed)
		return nil, resp
	}

	err = match.Do(func(c *mb.Controller) error {
		if c.Mode().IsVsAI() && req.Player == mb.PlayerTwo {
			return cerr.ErrPlayerControlledByAI(req.Player.String())
		}
		if err := c.SetReady(req.Player); err != nil {
			return err
		}
		resp.AddPayload(mc.RespReady{
			Player:      req.Player,
			OtherReady:  c.IsReady(req.Player.Other()),
			GameStarted: c.IsStarted(),
		})
		return nil
	})
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrReadyFailed)
		return nil, resp
	}
	return match, resp
}

// HandleAttack resolves one attack. A miss passes the turn to the other
// player; a hit or a repeated cell keeps it.
func (r Request) HandleAttack(gm mb.GameManager) (*mb.Match, mc.Message[mc.RespAttack]) {
	resp := mc.NewMessage[mc.RespAttack](mc.CodeAttack)

	req, err := decodePayload[mc.ReqAttack](r.payload)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrInvalidPayload)
		return nil, resp
	}

	match, err := gm.FetchGame(req.GameUuid)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrAttackFailed)
		return nil, resp
	}

	err = match.Do(func(c *mb.Controller) error {
		if !c.IsStarted() {
			return cerr.ErrGameIsNotStarted(c.Uuid())
		}
		if c.Mode().IsVsAI() && req.Player == mb.PlayerTwo {
			return cerr.ErrPlayerControlledByAI(req.Player.String())
		}
		if c.CurrentPlayer() != req.Player {
			return cerr.ErrNotTurnForPlayer(req.Player.String())
		}

		shot, err := c.Attack(req.Player, req.Col, req.Row)
		if err != nil {
			return err
		}
		if !shot.Hit && !shot.Repeated {
			c.SwitchPlayers()
		}
		resp.AddPayload(mc.RespAttack{Shot: shot, CurrentPlayer: c.CurrentPlayer()})
		return nil
	})
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrAttackFailed)
		return nil, resp
	}
	return match, resp
}

// HandleOpponentTurn lets the AI play if it is its turn. ok is false when
// there was nothing to play.
func HandleOpponentTurn(match *mb.Match) (mc.Message[mc.RespOpponentAttack], bool) {
	resp := mc.NewMessage[mc.RespOpponentAttack](mc.CodeOpponentAttack)
	played := false

	err := match.Do(func(c *mb.Controller) error {
		if !c.Mode().IsVsAI() || !c.IsStarted() || c.IsGameOver() || c.CurrentPlayer() != mb.PlayerTwo {
			return nil
		}
		played = true

		shots, err := c.PlayOpponentTurn()
		resp.AddPayload(mc.RespOpponentAttack{Shots: shots, CurrentPlayer: c.CurrentPlayer()})
		return err
	})
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrAttackFailed)
	}
	return resp, played
}

// EndGameMessage returns the end game message once the match is over.
func EndGameMessage(match *mb.Match) (mc.Message[mc.RespEndGame], bool) {
	resp := mc.NewMessage[mc.RespEndGame](mc.CodeEndGame)
	over := false

	_ = match.Do(func(c *mb.Controller) error {
		winner, finished := c.Winner()
		over = finished
		resp.AddPayload(mc.RespEndGame{Winner: winner})
		return nil
	})
	return resp, over
}

func (r Request) HandleFetchState(gm mb.GameManager) (*mb.Match, mc.Message[mc.RespGameState]) {
	resp := mc.NewMessage[mc.RespGameState](mc.CodeFetchState)

	req, err := decodePayload[mc.ReqPlayer](r.payload)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrInvalidPayload)
		return nil, resp
	}

	match, err := gm.FetchGame(req.GameUuid)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrFetchStateFailed)
		return nil, resp
	}

	var state mc.RespGameState
	err = match.Do(func(c *mb.Controller) error {
		if c.Mode().IsVsAI() && req.Player == mb.PlayerTwo {
			return cerr.ErrPlayerControlledByAI(req.Player.String())
		}
		state = gameState(c, req.Player)
		return nil
	})
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrFetchStateFailed)
		return nil, resp
	}

	resp.AddPayload(state)
	return match, resp
}

// Callers hold the match lock.
func gameState(c *mb.Controller, player mb.Player) mc.RespGameState {
	view := c.View(player)
	attackGrid := make([][]mb.Observation, view.Size())
	for col := range attackGrid {
		attackGrid[col] = make([]mb.Observation, view.Size())
		for row := range attackGrid[col] {
			attackGrid[col][row] = view.State(col, row)
		}
	}

	return mc.RespGameState{
		GameUuid:      c.Uuid(),
		GameMode:      c.Mode(),
		GridSize:      c.GridSize(),
		Started:       c.IsStarted(),
		CurrentPlayer: c.CurrentPlayer(),
		GameOver:      c.IsGameOver(),
		Fleet:         mc.NewRespFleet(player, true, c.Fleet(player)),
		AttackGrid:    attackGrid,
	}
}

// HandleResumeGame brings a match back into play. A match still in memory
// wins over the stored copy.
func (r Request) HandleResumeGame(ctx context.Context, gm mb.GameManager, store MatchStore) (*mb.Match, mc.Message[mc.RespGameState]) {
	resp := mc.NewMessage[mc.RespGameState](mc.CodeResumeGame)

	req, err := decodePayload[mc.ReqResumeGame](r.payload)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrInvalidPayload)
		return nil, resp
	}

	match, err := gm.FetchGame(req.GameUuid)
	if err != nil {
		if store == nil {
			resp.AddError(err.Error(), cerr.ConstErrResumeGameFailed)
			return nil, resp
		}

		snap, err := store.LoadMatch(ctx, req.GameUuid)
		if err != nil {
			resp.AddError(err.Error(), cerr.ConstErrResumeGameFailed)
			return nil, resp
		}
		controller, err := mb.RestoreController(snap, nil)
		if err != nil {
			resp.AddError(err.Error(), cerr.ConstErrResumeGameFailed)
			return nil, resp
		}
		match = gm.AddGame(controller)
	}

	_ = match.Do(func(c *mb.Controller) error {
		player := c.CurrentPlayer()
		if c.Mode().IsVsAI() {
			player = mb.PlayerOne
		}
		resp.AddPayload(gameState(c, player))
		return nil
	})
	return match, resp
}
