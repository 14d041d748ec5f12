package api

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sqlc-dev/pqtype"

	"github.com/saeidalz13/battleship-engine/db/sqlc"
	mb "github.com/saeidalz13/battleship-engine/models/battleship"
	mc "github.com/saeidalz13/battleship-engine/models/connection"
)

const (
	URLQuerySessionIDKeyword string = "sessionID"

	StageProd = "prod"
	StageDev  = "dev"
)

type MatchStore interface {
	SaveMatch(ctx context.Context, snap mb.Snapshot) error
	LoadMatch(ctx context.Context, gameUuid string) (mb.Snapshot, error)
	DeleteMatch(ctx context.Context, gameUuid string) error
}

type AnalyticsStore interface {
	IncrementGamesCreatedCount(ctx context.Context, serverIpNet pqtype.Inet) error
	IncrementGamesFinishedCount(ctx context.Context, serverIpNet pqtype.Inet) error
}

type RequestProcessor struct {
	sessionManager mc.SessionManager
	gameManager    mb.GameManager
	matches        MatchStore
	analytics      AnalyticsStore
	stage          string
	allowedOrigins map[string]bool
	ipnet          net.IPNet
	upgrader       websocket.Upgrader
}

type Option func(*RequestProcessor) error

func WithStage(stage string) Option {
	return func(rp *RequestProcessor) error {
		if stage != StageProd && stage != StageDev {
			return fmt.Errorf("invalid type of development stage: %s", stage)
		}
		rp.stage = stage
		return nil
	}
}

func WithDbManager(dbm sqlc.DbManager) Option {
	return func(rp *RequestProcessor) error {
		if dbm.Matches != nil {
			rp.matches = dbm.Matches
		}
		if dbm.Analytics != nil {
			rp.analytics = dbm.Analytics
		}
		return nil
	}
}

func WithMatchStore(store MatchStore) Option {
	return func(rp *RequestProcessor) error {
		rp.matches = store
		return nil
	}
}

func WithAllowedOrigins(origins ...string) Option {
	return func(rp *RequestProcessor) error {
		for _, origin := range origins {
			rp.allowedOrigins[origin] = true
		}
		return nil
	}
}

func NewRequestProcessor(
	sessionManager mc.SessionManager,
	gameManager mb.GameManager,
	optFuncs ...Option,
) (*RequestProcessor, error) {
	rp := &RequestProcessor{
		sessionManager: sessionManager,
		gameManager:    gameManager,
		stage:          StageDev,
		allowedOrigins: make(map[string]bool),
		ipnet:          serverIpNet(),
	}
	for _, opt := range optFuncs {
		if err := opt(rp); err != nil {
			return nil, err
		}
	}

	rp.upgrader = websocket.Upgrader{
		// good average time since this is not a high-latency operation such as video streaming
		HandshakeTimeout: time.Second * 5,
		ReadBufferSize:   2048,
		WriteBufferSize:  2048,
		CheckOrigin:      rp.checkOrigin,
	}
	return rp, nil
}

// Outside dev only local pages and the configured origins may connect.
func (rp *RequestProcessor) checkOrigin(r *http.Request) bool {
	if rp.stage == StageDev {
		return true
	}

	origin := r.Header.Get("Origin")
	if origin == "" || rp.allowedOrigins[origin] {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// The first non loopback IPv4 of the machine tags the analytics rows. A
// machine without one is tagged with the loopback network.
func serverIpNet() net.IPNet {
	loopback := net.IPNet{IP: net.IPv4(127, 0, 0, 1), Mask: net.CIDRMask(8, 32)}

	ifaces, err := net.Interfaces()
	if err != nil {
		log.Println("failed to list network interfaces:", err)
		return loopback
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if ok && ipnet.IP.To4() != nil && !ipnet.IP.IsLoopback() {
				return *ipnet
			}
		}
	}
	return loopback
}

// Expose this method to use it in testing
func (rp *RequestProcessor) GetIpNet() net.IPNet {
	return rp.ipnet
}

func (rp *RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := rp.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client
		log.Println(err)
		return
	}

	sessionIdQuery := r.URL.Query().Get(URLQuerySessionIDKeyword)
	if sessionIdQuery == "" {
		log.Println("a new connection established\tRemote Addr: ", conn.RemoteAddr().String())
		rp.processSessionRequests(rp.sessionManager.GenerateNewSession(conn))
		return
	}

	session, err := rp.sessionManager.FindSession(sessionIdQuery)
	if err != nil {
		// This either means an expired session or invalid session ID
		msg := mc.NewMessage[mc.NoPayload](mc.CodeSessionID)
		msg.AddError(err.Error(), "invalid session id")
		_ = conn.WriteJSON(msg)
		_ = conn.Close()
		return
	}

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: session.Id()})
	if err := conn.WriteJSON(resp); err != nil {
		_ = conn.Close()
		return
	}
	log.Println("session reconnected\tRemote Addr: ", conn.RemoteAddr().String())
	rp.sessionManager.ReconnectSession(session, conn)
}

func (rp *RequestProcessor) processSessionRequests(session *mc.Session) {
	defer func() {
		if gameUuid := session.GameUuid(); gameUuid != "" {
			rp.gameManager.TerminateGame(gameUuid)
		}
		_ = session.Conn().Close()
		rp.sessionManager.TerminateSession(session)
	}()

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: session.Id()})
	if err := rp.sessionManager.WriteToSessionConn(session, resp, mc.MessageTypeJSON); err != nil {
		return
	}

	for {
		// A WebSocket frame can be one of 6 types: text=1, binary=2, ping=9, pong=10, close=8 and continuation=0
		// https://www.rfc-editor.org/rfc/rfc6455.html#section-11.8
		_, payload, err := rp.sessionManager.ReadFromSessionConn(session)
		if err != nil {
			return
		}

		if err := rp.dispatch(session, payload); err != nil {
			log.Printf("session %s: %s\n", session.Id(), err)
			return
		}
	}
}

// dispatch handles one request. The returned error is a connection failure
// and ends the session.
func (rp *RequestProcessor) dispatch(session *mc.Session, payload []byte) error {
	code, err := mc.FetchCodeFromMsg(payload)
	if err != nil {
		msg := mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal)
		msg.AddError(err.Error(), "invalid json in the incoming payload")
		return rp.write(session, msg)
	}

	req := NewRequest(payload)

	switch code {
	case mc.CodeSignalAbsent:
		msg := mc.NewMessage[mc.NoPayload](mc.CodeSignalAbsent)
		msg.AddError("incoming req payload must contain 'code' field", "")
		return rp.write(session, msg)

	case mc.CodeCreateGame:
		match, resp := req.HandleCreateGame(rp.gameManager)
		if match != nil {
			rp.switchSessionGame(session, match.Uuid())
			rp.recordGameCreated()
			rp.saveMatch(match)
		}
		return rp.write(session, resp)

	case mc.CodeResumeGame:
		ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
		match, resp := req.HandleResumeGame(ctx, rp.gameManager, rp.matches)
		cancel()

		if match != nil {
			rp.switchSessionGame(session, match.Uuid())
		}
		if err := rp.write(session, resp); err != nil {
			return err
		}
		if match != nil {
			return rp.afterTurn(session, match, false)
		}
		return nil

	case mc.CodePlaceShip:
		return writeAndSave(rp, session, req.HandlePlaceShip)

	case mc.CodeMoveShip:
		return writeAndSave(rp, session, req.HandleMoveShip)

	case mc.CodeTurnShip:
		return writeAndSave(rp, session, req.HandleTurnShip)

	case mc.CodeRemoveShip:
		return writeAndSave(rp, session, req.HandleRemoveShip)

	case mc.CodeRandomFleet:
		return writeAndSave(rp, session, req.HandleRandomFleet)

	case mc.CodeReady:
		match, resp := req.HandleReady(rp.gameManager)
		if match != nil {
			rp.saveMatch(match)
		}
		if err := rp.write(session, resp); err != nil {
			return err
		}
		if resp.Error == nil && resp.Payload.GameStarted {
			return rp.write(session, mc.NewMessage[mc.NoPayload](mc.CodeStartGame))
		}
		return nil

	case mc.CodeAttack:
		match, resp := req.HandleAttack(rp.gameManager)
		if err := rp.write(session, resp); err != nil {
			return err
		}
		if match == nil {
			return nil
		}
		return rp.afterTurn(session, match, true)

	case mc.CodeFetchState:
		_, resp := req.HandleFetchState(rp.gameManager)
		return rp.write(session, resp)

	default:
		respInvalidSignal := mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal)
		respInvalidSignal.AddError("", "invalid code in the incoming payload")
		return rp.write(session, respInvalidSignal)
	}
}

// afterTurn lets the AI answer, then announces the end of the game if a
// shot of this turn decided it. The match is saved in every case.
func (rp *RequestProcessor) afterTurn(session *mc.Session, match *mb.Match, attacked bool) error {
	defer rp.saveMatch(match)

	resp, played := HandleOpponentTurn(match)
	if played {
		if err := rp.write(session, resp); err != nil {
			return err
		}
	}
	if !attacked && !played {
		return nil
	}

	endResp, over := EndGameMessage(match)
	if !over {
		return nil
	}
	rp.recordGameFinished()
	return rp.write(session, endResp)
}

// writeAndSave runs a fleet edit, stores the match when the edit reached it
// and replies.
func writeAndSave[T any](rp *RequestProcessor, session *mc.Session, handle func(mb.GameManager) (*mb.Match, mc.Message[T])) error {
	match, resp := handle(rp.gameManager)
	if match != nil {
		rp.saveMatch(match)
	}
	return rp.write(session, resp)
}

func (rp *RequestProcessor) write(session *mc.Session, msg interface{}) error {
	return rp.sessionManager.WriteToSessionConn(session, msg, mc.MessageTypeJSON)
}

// A session plays one match at a time; the previous one is dropped from
// memory and stays resumable from the store.
func (rp *RequestProcessor) switchSessionGame(session *mc.Session, gameUuid string) {
	if prev := session.GameUuid(); prev != "" && prev != gameUuid {
		rp.gameManager.TerminateGame(prev)
	}
	session.SetGameUuid(gameUuid)
}

func (rp *RequestProcessor) saveMatch(match *mb.Match) {
	if rp.matches == nil {
		return
	}

	var snap mb.Snapshot
	_ = match.Do(func(c *mb.Controller) error {
		snap = c.Snapshot()
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()
	if err := rp.matches.SaveMatch(ctx, snap); err != nil {
		// for now not killing the game for it
		log.Println(err)
	}
}

func (rp *RequestProcessor) recordGameCreated() {
	if rp.analytics == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()
	if err := rp.analytics.IncrementGamesCreatedCount(ctx, pqtype.Inet{IPNet: rp.ipnet, Valid: true}); err != nil {
		log.Println(err)
	}
}

func (rp *RequestProcessor) recordGameFinished() {
	if rp.analytics == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()
	if err := rp.analytics.IncrementGamesFinishedCount(ctx, pqtype.Inet{IPNet: rp.ipnet, Valid: true}); err != nil {
		log.Println(err)
	}
}
