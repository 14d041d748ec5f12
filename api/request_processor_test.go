package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saeidalz13/battleship-engine/api"
	cerr "github.com/saeidalz13/battleship-engine/internal/error"
	mb "github.com/saeidalz13/battleship-engine/models/battleship"
	mc "github.com/saeidalz13/battleship-engine/models/connection"
)

type Test[T, K any] struct {
	name string

	expectedCode uint8
	expectedErr  bool

	reqPayload          T
	respPayload         K // Used to unmarshal the response
	expectedRespPayload K // To compare to data unmarshaled in respPayload
}

type testServer struct {
	url         string
	gameManager *mb.BattleshipGameManager
}

func newTestServer(t *testing.T, opts ...api.Option) testServer {
	t.Helper()

	bsm := mc.NewBattleshipSessionManager(time.Minute)
	bgm := mb.NewBattleshipGameManager()
	rp, err := api.NewRequestProcessor(bsm, bgm, opts...)
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.Handle("GET /battleship", rp)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return testServer{
		url:         "ws" + strings.TrimPrefix(srv.URL, "http") + "/battleship",
		gameManager: bgm,
	}
}

func (ts testServer) dial(t *testing.T) (*websocket.Conn, string) {
	t.Helper()

	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, _, err := dialer.Dial(ts.url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	resp := expectMessage[mc.RespSessionId](t, conn, mc.CodeSessionID)
	require.Nil(t, resp.Error)
	require.NotEmpty(t, resp.Payload.SessionID)
	return conn, resp.Payload.SessionID
}

func send[T any](t *testing.T, conn *websocket.Conn, code uint8, payload T) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(mc.Message[T]{Code: code, Payload: payload}))
}

func expectMessage[T any](t *testing.T, conn *websocket.Conn, code uint8) mc.Message[T] {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg mc.Message[T]
	require.NoError(t, json.Unmarshal(raw, &msg), string(raw))
	require.Equal(t, code, msg.Code, string(raw))
	return msg
}

func createGame(t *testing.T, conn *websocket.Conn, mode mb.GameMode, gridSize int) string {
	t.Helper()
	send(t, conn, mc.CodeCreateGame, mc.ReqCreateGame{GameMode: mode, GridSize: gridSize})
	resp := expectMessage[mc.RespCreateGame](t, conn, mc.CodeCreateGame)
	require.Nil(t, resp.Error)
	return resp.Payload.GameUuid
}

// Standard fleet of a 5x5 grid.
var smallFleet = []mb.ShipState{
	{Size: 3, Orientation: mb.West, Col: 0, Row: 0},
	{Size: 2, Orientation: mb.West, Col: 0, Row: 2},
	{Size: 2, Orientation: mb.West, Col: 0, Row: 4},
}

var smallFleetCells = []mb.Coordinates{
	{Col: 0, Row: 0}, {Col: 1, Row: 0}, {Col: 2, Row: 0},
	{Col: 0, Row: 2}, {Col: 1, Row: 2},
	{Col: 0, Row: 4}, {Col: 1, Row: 4},
}

func placeSmallFleet(t *testing.T, conn *websocket.Conn, gameUuid string, player mb.Player) {
	t.Helper()
	for _, ship := range smallFleet {
		send(t, conn, mc.CodePlaceShip, mc.ReqPlaceShip{
			GameUuid:    gameUuid,
			Player:      player,
			Col:         ship.Col,
			Row:         ship.Row,
			Size:        ship.Size,
			Orientation: ship.Orientation,
		})
		resp := expectMessage[mc.RespFleet](t, conn, mc.CodePlaceShip)
		require.Nil(t, resp.Error)
	}
}

func attack(t *testing.T, conn *websocket.Conn, gameUuid string, player mb.Player, col, row int) mc.Message[mc.RespAttack] {
	t.Helper()
	send(t, conn, mc.CodeAttack, mc.ReqAttack{GameUuid: gameUuid, Player: player, Col: col, Row: row})
	return expectMessage[mc.RespAttack](t, conn, mc.CodeAttack)
}

func TestInvalidCode(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := ts.dial(t)

	tests := []Test[mc.Message[mc.NoPayload], mc.Message[mc.NoPayload]]{
		{
			name:         "random invalid code",
			expectedCode: mc.CodeInvalidSignal,
			reqPayload:   mc.NewMessage[mc.NoPayload](255),
		},
		{
			name:         "another invalid code",
			expectedCode: mc.CodeInvalidSignal,
			reqPayload:   mc.NewMessage[mc.NoPayload](200),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.NoError(t, conn.WriteJSON(test.reqPayload))
			test.respPayload = expectMessage[mc.NoPayload](t, conn, test.expectedCode)
			assert.NotNil(t, test.respPayload.Error)
		})
	}
}

func TestSignalAbsent(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := ts.dial(t)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"payload":{}}`)))
	resp := expectMessage[mc.NoPayload](t, conn, mc.CodeSignalAbsent)
	assert.NotNil(t, resp.Error)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	resp = expectMessage[mc.NoPayload](t, conn, mc.CodeInvalidSignal)
	assert.NotNil(t, resp.Error)
}

func TestCreateGame(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := ts.dial(t)

	tests := []Test[mc.ReqCreateGame, mc.Message[mc.RespCreateGame]]{
		{
			name:         "human vs human",
			expectedCode: mc.CodeCreateGame,
			reqPayload:   mc.ReqCreateGame{GameMode: mb.GameModeHumanVsHuman, GridSize: 5},
			expectedRespPayload: mc.Message[mc.RespCreateGame]{Payload: mc.RespCreateGame{
				GameMode: mb.GameModeHumanVsHuman, GridSize: 5, Fleet: []int{3, 2, 2},
			}},
		},
		{
			name:         "vs hard ai",
			expectedCode: mc.CodeCreateGame,
			reqPayload:   mc.ReqCreateGame{GameMode: mb.GameModeVsAIHard, GridSize: 10},
			expectedRespPayload: mc.Message[mc.RespCreateGame]{Payload: mc.RespCreateGame{
				GameMode: mb.GameModeVsAIHard, GridSize: 10, Fleet: []int{5, 4, 3, 3, 2},
			}},
		},
		{
			name:         "grid too large",
			expectedCode: mc.CodeCreateGame,
			expectedErr:  true,
			reqPayload:   mc.ReqCreateGame{GameMode: mb.GameModeVsAIEasy, GridSize: 11},
		},
		{
			name:         "unknown mode",
			expectedCode: mc.CodeCreateGame,
			expectedErr:  true,
			reqPayload:   mc.ReqCreateGame{GameMode: mb.GameMode(9), GridSize: 6},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			send(t, conn, mc.CodeCreateGame, test.reqPayload)
			test.respPayload = expectMessage[mc.RespCreateGame](t, conn, test.expectedCode)

			if test.expectedErr {
				require.NotNil(t, test.respPayload.Error)
				return
			}
			require.Nil(t, test.respPayload.Error)

			got := test.respPayload.Payload
			want := test.expectedRespPayload.Payload
			assert.Len(t, got.GameUuid, 6)
			assert.Equal(t, want.GameMode, got.GameMode)
			assert.Equal(t, want.GridSize, got.GridSize)
			assert.Equal(t, want.Fleet, got.Fleet)

			_, err := ts.gameManager.FetchGame(got.GameUuid)
			assert.NoError(t, err)
		})
	}
}

func TestFleetEditing(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := ts.dial(t)
	gameUuid := createGame(t, conn, mb.GameModeHumanVsHuman, 5)

	send(t, conn, mc.CodePlaceShip, mc.ReqPlaceShip{GameUuid: gameUuid, Player: mb.PlayerOne, Col: 1, Row: 1, Size: 3, Orientation: mb.West})
	placed := expectMessage[mc.RespFleet](t, conn, mc.CodePlaceShip)
	require.Nil(t, placed.Error)
	require.Len(t, placed.Payload.Ships, 1)
	assert.Equal(t, []mb.Coordinates{{Col: 1, Row: 1}, {Col: 2, Row: 1}, {Col: 3, Row: 1}}, placed.Payload.Ships[0].Cells)

	// (4,1) touches the end of the first ship
	send(t, conn, mc.CodePlaceShip, mc.ReqPlaceShip{GameUuid: gameUuid, Player: mb.PlayerOne, Col: 4, Row: 2, Size: 2, Orientation: mb.South})
	rejected := expectMessage[mc.RespFleet](t, conn, mc.CodePlaceShip)
	require.NotNil(t, rejected.Error)
	assert.Contains(t, rejected.Error.ErrorDetails, cerr.ErrShipsTooClose.Error())

	tests := []Test[mc.ReqMoveShip, mc.Message[mc.RespFleet]]{
		{
			name:         "move south",
			expectedCode: mc.CodeMoveShip,
			reqPayload:   mc.ReqMoveShip{GameUuid: gameUuid, Player: mb.PlayerOne, ShipIndex: 0, Direction: mb.South},
			expectedRespPayload: mc.Message[mc.RespFleet]{Payload: mc.RespFleet{Accepted: true, Ships: []mc.ShipView{
				{Size: 3, Orientation: mb.West, Cells: []mb.Coordinates{{Col: 1, Row: 2}, {Col: 2, Row: 2}, {Col: 3, Row: 2}}},
			}}},
		},
		{
			name:         "move east",
			expectedCode: mc.CodeMoveShip,
			reqPayload:   mc.ReqMoveShip{GameUuid: gameUuid, Player: mb.PlayerOne, ShipIndex: 0, Direction: mb.East},
			expectedRespPayload: mc.Message[mc.RespFleet]{Payload: mc.RespFleet{Accepted: true, Ships: []mc.ShipView{
				{Size: 3, Orientation: mb.West, Cells: []mb.Coordinates{{Col: 2, Row: 2}, {Col: 3, Row: 2}, {Col: 4, Row: 2}}},
			}}},
		},
		{
			name:         "move east off the grid is rejected",
			expectedCode: mc.CodeMoveShip,
			reqPayload:   mc.ReqMoveShip{GameUuid: gameUuid, Player: mb.PlayerOne, ShipIndex: 0, Direction: mb.East},
			expectedRespPayload: mc.Message[mc.RespFleet]{Payload: mc.RespFleet{Accepted: false, Ships: []mc.ShipView{
				{Size: 3, Orientation: mb.West, Cells: []mb.Coordinates{{Col: 2, Row: 2}, {Col: 3, Row: 2}, {Col: 4, Row: 2}}},
			}}},
		},
		{
			name:         "unknown ship",
			expectedCode: mc.CodeMoveShip,
			expectedErr:  true,
			reqPayload:   mc.ReqMoveShip{GameUuid: gameUuid, Player: mb.PlayerOne, ShipIndex: 4, Direction: mb.North},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			send(t, conn, mc.CodeMoveShip, test.reqPayload)
			test.respPayload = expectMessage[mc.RespFleet](t, conn, test.expectedCode)

			if test.expectedErr {
				require.NotNil(t, test.respPayload.Error)
				return
			}
			require.Nil(t, test.respPayload.Error)
			assert.Equal(t, test.expectedRespPayload.Payload.Accepted, test.respPayload.Payload.Accepted)
			require.Len(t, test.respPayload.Payload.Ships, len(test.expectedRespPayload.Payload.Ships))
			for i, ship := range test.expectedRespPayload.Payload.Ships {
				assert.Equal(t, ship.Cells, test.respPayload.Payload.Ships[i].Cells)
			}
		})
	}

	// The middle cell (3,2) stays put.
	send(t, conn, mc.CodeTurnShip, mc.ReqTurnShip{GameUuid: gameUuid, Player: mb.PlayerOne, ShipIndex: 0, Clockwise: true})
	turned := expectMessage[mc.RespFleet](t, conn, mc.CodeTurnShip)
	require.Nil(t, turned.Error)
	assert.True(t, turned.Payload.Accepted)
	assert.Equal(t, mb.North, turned.Payload.Ships[0].Orientation)
	assert.Contains(t, turned.Payload.Ships[0].Cells, mb.Coordinates{Col: 3, Row: 2})

	send(t, conn, mc.CodeRemoveShip, mc.ReqRemoveShip{GameUuid: gameUuid, Player: mb.PlayerOne, ShipIndex: 0})
	removed := expectMessage[mc.RespFleet](t, conn, mc.CodeRemoveShip)
	require.Nil(t, removed.Error)
	assert.Empty(t, removed.Payload.Ships)

	send(t, conn, mc.CodeReady, mc.ReqPlayer{GameUuid: gameUuid, Player: mb.PlayerOne})
	notReady := expectMessage[mc.RespReady](t, conn, mc.CodeReady)
	require.NotNil(t, notReady.Error)

	send(t, conn, mc.CodeRandomFleet, mc.ReqPlayer{GameUuid: gameUuid, Player: mb.PlayerOne})
	random := expectMessage[mc.RespFleet](t, conn, mc.CodeRandomFleet)
	require.Nil(t, random.Error)
	assert.Len(t, random.Payload.Ships, 3)

	send(t, conn, mc.CodeReady, mc.ReqPlayer{GameUuid: gameUuid, Player: mb.PlayerOne})
	ready := expectMessage[mc.RespReady](t, conn, mc.CodeReady)
	require.Nil(t, ready.Error)
	assert.False(t, ready.Payload.GameStarted)

	// a ready fleet is locked
	send(t, conn, mc.CodeRemoveShip, mc.ReqRemoveShip{GameUuid: gameUuid, Player: mb.PlayerOne, ShipIndex: 0})
	locked := expectMessage[mc.RespFleet](t, conn, mc.CodeRemoveShip)
	require.NotNil(t, locked.Error)
	assert.Contains(t, locked.Error.ErrorDetails, cerr.ErrFleetLocked.Error())
}

func TestHumanVsHumanMatch(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := ts.dial(t)
	gameUuid := createGame(t, conn, mb.GameModeHumanVsHuman, 5)

	placeSmallFleet(t, conn, gameUuid, mb.PlayerOne)
	placeSmallFleet(t, conn, gameUuid, mb.PlayerTwo)

	// no attacks before both fleets are locked in
	notStarted := attack(t, conn, gameUuid, mb.PlayerOne, 4, 4)
	require.NotNil(t, notStarted.Error)
	assert.Contains(t, notStarted.Error.ErrorDetails, cerr.ErrGameNotStarted.Error())

	send(t, conn, mc.CodeReady, mc.ReqPlayer{GameUuid: gameUuid, Player: mb.PlayerOne})
	readyOne := expectMessage[mc.RespReady](t, conn, mc.CodeReady)
	require.Nil(t, readyOne.Error)
	assert.False(t, readyOne.Payload.GameStarted)

	send(t, conn, mc.CodeReady, mc.ReqPlayer{GameUuid: gameUuid, Player: mb.PlayerTwo})
	readyTwo := expectMessage[mc.RespReady](t, conn, mc.CodeReady)
	require.Nil(t, readyTwo.Error)
	assert.True(t, readyTwo.Payload.OtherReady)
	assert.True(t, readyTwo.Payload.GameStarted)
	expectMessage[mc.NoPayload](t, conn, mc.CodeStartGame)

	outOfTurn := attack(t, conn, gameUuid, mb.PlayerTwo, 0, 0)
	require.NotNil(t, outOfTurn.Error)
	assert.Contains(t, outOfTurn.Error.ErrorDetails, cerr.ErrNotTurnForAttacker.Error())

	miss := attack(t, conn, gameUuid, mb.PlayerOne, 4, 4)
	require.Nil(t, miss.Error)
	assert.False(t, miss.Payload.Hit)
	assert.Equal(t, mb.PlayerTwo, miss.Payload.CurrentPlayer)

	outOfBounds := attack(t, conn, gameUuid, mb.PlayerTwo, 5, 0)
	require.NotNil(t, outOfBounds.Error)

	miss = attack(t, conn, gameUuid, mb.PlayerTwo, 4, 4)
	require.Nil(t, miss.Error)
	assert.Equal(t, mb.PlayerOne, miss.Payload.CurrentPlayer)

	// attacking the same cell again keeps the turn
	repeated := attack(t, conn, gameUuid, mb.PlayerOne, 4, 4)
	require.Nil(t, repeated.Error)
	assert.True(t, repeated.Payload.Repeated)
	assert.Equal(t, mb.PlayerOne, repeated.Payload.CurrentPlayer)

	for i, cell := range smallFleetCells {
		hit := attack(t, conn, gameUuid, mb.PlayerOne, cell.Col, cell.Row)
		require.Nil(t, hit.Error)
		require.True(t, hit.Payload.Hit)
		assert.Equal(t, mb.PlayerOne, hit.Payload.CurrentPlayer)

		if i == len(smallFleetCells)-1 {
			assert.True(t, hit.Payload.GameOver)
			assert.Len(t, hit.Payload.Sunk, 2)
		}
	}

	end := expectMessage[mc.RespEndGame](t, conn, mc.CodeEndGame)
	assert.Equal(t, mb.PlayerOne, end.Payload.Winner)

	afterEnd := attack(t, conn, gameUuid, mb.PlayerOne, 3, 3)
	require.NotNil(t, afterEnd.Error)
	assert.Contains(t, afterEnd.Error.ErrorDetails, cerr.ErrGameFinished.Error())
}

func TestVsAIMatch(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := ts.dial(t)
	gameUuid := createGame(t, conn, mb.GameModeVsAIHard, 5)

	// the ai fleet cannot be touched or looked at
	send(t, conn, mc.CodeRandomFleet, mc.ReqPlayer{GameUuid: gameUuid, Player: mb.PlayerTwo})
	aiFleet := expectMessage[mc.RespFleet](t, conn, mc.CodeRandomFleet)
	require.NotNil(t, aiFleet.Error)
	assert.Contains(t, aiFleet.Error.ErrorDetails, cerr.ErrPlayerIsAI.Error())

	send(t, conn, mc.CodeFetchState, mc.ReqPlayer{GameUuid: gameUuid, Player: mb.PlayerTwo})
	aiState := expectMessage[mc.RespGameState](t, conn, mc.CodeFetchState)
	require.NotNil(t, aiState.Error)

	placeSmallFleet(t, conn, gameUuid, mb.PlayerOne)
	send(t, conn, mc.CodeReady, mc.ReqPlayer{GameUuid: gameUuid, Player: mb.PlayerOne})
	ready := expectMessage[mc.RespReady](t, conn, mc.CodeReady)
	require.Nil(t, ready.Error)
	require.True(t, ready.Payload.GameStarted)
	expectMessage[mc.NoPayload](t, conn, mc.CodeStartGame)

	gameOver := false
	for col := 0; col < 5 && !gameOver; col++ {
		for row := 0; row < 5 && !gameOver; row++ {
			shot := attack(t, conn, gameUuid, mb.PlayerOne, col, row)
			require.Nil(t, shot.Error)
			if shot.Payload.GameOver {
				gameOver = true
				break
			}
			if shot.Payload.Hit {
				assert.Equal(t, mb.PlayerOne, shot.Payload.CurrentPlayer)
				continue
			}

			reply := expectMessage[mc.RespOpponentAttack](t, conn, mc.CodeOpponentAttack)
			require.Nil(t, reply.Error)
			require.NotEmpty(t, reply.Payload.Shots)

			last := reply.Payload.Shots[len(reply.Payload.Shots)-1]
			for _, s := range reply.Payload.Shots {
				assert.Equal(t, mb.PlayerTwo, s.Attacker)
			}
			if last.GameOver {
				gameOver = true
				break
			}
			assert.False(t, last.Hit)
			assert.Equal(t, mb.PlayerOne, reply.Payload.CurrentPlayer)
		}
	}
	require.True(t, gameOver)
	expectMessage[mc.RespEndGame](t, conn, mc.CodeEndGame)

	send(t, conn, mc.CodeFetchState, mc.ReqPlayer{GameUuid: gameUuid, Player: mb.PlayerOne})
	state := expectMessage[mc.RespGameState](t, conn, mc.CodeFetchState)
	require.Nil(t, state.Error)
	assert.True(t, state.Payload.GameOver)
	assert.Len(t, state.Payload.AttackGrid, 5)
	assert.Len(t, state.Payload.Fleet.Ships, 3)
}

type memoryMatchStore struct {
	snapshots map[string]mb.Snapshot
	mu        sync.Mutex
}

func newMemoryMatchStore() *memoryMatchStore {
	return &memoryMatchStore{snapshots: make(map[string]mb.Snapshot)}
}

func (m *memoryMatchStore) SaveMatch(_ context.Context, snap mb.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[snap.Uuid] = snap
	return nil
}

func (m *memoryMatchStore) LoadMatch(_ context.Context, gameUuid string) (mb.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, prs := m.snapshots[gameUuid]
	if !prs {
		return mb.Snapshot{}, cerr.ErrGameNotExistsUuid(gameUuid)
	}
	return snap, nil
}

func (m *memoryMatchStore) DeleteMatch(_ context.Context, gameUuid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, gameUuid)
	return nil
}

func TestResumeGame(t *testing.T) {
	store := newMemoryMatchStore()
	ts := newTestServer(t, api.WithMatchStore(store))

	conn, _ := ts.dial(t)
	gameUuid := createGame(t, conn, mb.GameModeVsAIEasy, 5)
	placeSmallFleet(t, conn, gameUuid, mb.PlayerOne)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	require.Eventually(t, func() bool {
		_, err := ts.gameManager.FetchGame(gameUuid)
		return err != nil
	}, 5*time.Second, 20*time.Millisecond)

	other, _ := ts.dial(t)
	send(t, other, mc.CodeResumeGame, mc.ReqResumeGame{GameUuid: gameUuid})
	resumed := expectMessage[mc.RespGameState](t, other, mc.CodeResumeGame)
	require.Nil(t, resumed.Error)
	assert.Equal(t, gameUuid, resumed.Payload.GameUuid)
	assert.Equal(t, mb.GameModeVsAIEasy, resumed.Payload.GameMode)
	assert.False(t, resumed.Payload.Started)
	require.Len(t, resumed.Payload.Fleet.Ships, 3)
	assert.Equal(t, smallFleetCells[:3], resumed.Payload.Fleet.Ships[0].Cells)

	_, err := ts.gameManager.FetchGame(gameUuid)
	require.NoError(t, err)

	send(t, other, mc.CodeResumeGame, mc.ReqResumeGame{GameUuid: "nope"})
	missing := expectMessage[mc.RespGameState](t, other, mc.CodeResumeGame)
	require.NotNil(t, missing.Error)
}

func TestReconnectUnknownSession(t *testing.T) {
	ts := newTestServer(t)

	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, _, err := dialer.Dial(ts.url+"?"+api.URLQuerySessionIDKeyword+"=unknown", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	resp := expectMessage[mc.NoPayload](t, conn, mc.CodeSessionID)
	require.NotNil(t, resp.Error)
}

func TestCheckOrigin(t *testing.T) {
	ts := newTestServer(t, api.WithStage(api.StageProd), api.WithAllowedOrigins("http://example.com"))
	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}

	tests := []struct {
		name    string
		origin  string
		allowed bool
	}{
		{name: "no origin", origin: "", allowed: true},
		{name: "localhost page", origin: "http://localhost:3000", allowed: true},
		{name: "loopback page", origin: "http://127.0.0.1:8080", allowed: true},
		{name: "configured origin", origin: "http://example.com", allowed: true},
		{name: "foreign origin", origin: "http://evil.example.org", allowed: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			header := http.Header{}
			if test.origin != "" {
				header.Set("Origin", test.origin)
			}

			conn, resp, err := dialer.Dial(ts.url, header)
			if !test.allowed {
				require.Error(t, err)
				require.NotNil(t, resp)
				assert.Equal(t, http.StatusForbidden, resp.StatusCode)
				return
			}
			require.NoError(t, err)
			conn.Close()
		})
	}
}

func TestInvalidStage(t *testing.T) {
	_, err := api.NewRequestProcessor(mc.NewBattleshipSessionManager(time.Minute), mb.NewBattleshipGameManager(), api.WithStage("staging"))
	require.Error(t, err)
}
