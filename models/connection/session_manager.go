package connection

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	cerr "github.com/saeidalz13/battleship-engine/internal/error"
)

const DefaultCleanupInterval = time.Minute * 20

type SessionManager interface {
	GenerateNewSession(conn *websocket.Conn) *Session
	CleanupPeriodically(ctx context.Context)

	FindSession(sessionId string) (*Session, error)
	TerminateSession(session *Session)
	ReconnectSession(session *Session, conn *websocket.Conn)
	WaitForReconnection(session *Session) error

	WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error
	ReadFromSessionConn(session *Session) (int, []byte, error)
}

type BattleshipSessionManager struct {
	cleanupInterval time.Duration
	gracePeriod     time.Duration
	sessions        map[string]*Session
	mu              sync.RWMutex
}

func NewBattleshipSessionManager(cleanupInterval time.Duration) *BattleshipSessionManager {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}

	return &BattleshipSessionManager{
		sessions:        make(map[string]*Session, 4),
		cleanupInterval: cleanupInterval,
		gracePeriod:     gracePeriod,
	}
}

var _ SessionManager = (*BattleshipSessionManager)(nil)

func (bsm *BattleshipSessionManager) GenerateNewSession(conn *websocket.Conn) *Session {
	sessionId := base64.RawURLEncoding.EncodeToString([]byte(uuid.New().String()))
	session := NewSession(sessionId, conn)

	bsm.mu.Lock()
	bsm.sessions[sessionId] = session
	bsm.mu.Unlock()

	return session
}

func (bsm *BattleshipSessionManager) FindSession(sessionId string) (*Session, error) {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()

	session, prs := bsm.sessions[sessionId]
	if !prs {
		return nil, cerr.ErrSessionIdNotFound(sessionId)
	}
	if session == nil {
		return nil, cerr.ErrSessionIsNil(sessionId)
	}
	return session, nil
}

func (bsm *BattleshipSessionManager) TerminateSession(session *Session) {
	bsm.mu.Lock()
	defer bsm.mu.Unlock()
	delete(bsm.sessions, session.id)
}

func (bsm *BattleshipSessionManager) Len() int {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()
	return len(bsm.sessions)
}

func (bsm *BattleshipSessionManager) ReconnectSession(session *Session, conn *websocket.Conn) {
	session.reconnect(conn)
}

// Sessions older than the cleanup interval are treated as stale and
// removed, so no dangling connection outlives it.
func (bsm *BattleshipSessionManager) CleanupPeriodically(ctx context.Context) {
	ticker := time.NewTicker(bsm.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bsm.cleanup()
		}
	}
}

func (bsm *BattleshipSessionManager) cleanup() {
	bsm.mu.Lock()
	defer bsm.mu.Unlock()

	for id, session := range bsm.sessions {
		if time.Since(session.createdAt) > bsm.cleanupInterval {
			delete(bsm.sessions, id)
			log.Printf("removed stale session: %s\n", id)
		}
	}
}

// WaitForReconnection blocks until the client of session reconnects or the
// grace period runs out.
func (bsm *BattleshipSessionManager) WaitForReconnection(session *Session) error {
	timer := time.NewTimer(bsm.gracePeriod)
	defer timer.Stop()

	select {
	case <-timer.C:
		log.Printf("grace period is over, session: %s\n", session.id)
		return NewConnErr(ConnLoopBreak).AddDesc("grace period is over for session: " + session.id)

	case <-session.reconnected():
		log.Printf("client reconnected, session: %s\n", session.id)
		return nil
	}
}

func (bsm *BattleshipSessionManager) WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error {
	err := session.writeToConnWithRetry(msg, msgType)
	if err == nil {
		return nil
	}

	var connErr ConnErr
	if !errors.As(err, &connErr) {
		return err
	}

	if connErr.Code() == ConnLoopAbnormalClosureRetry {
		if err := bsm.WaitForReconnection(session); err != nil {
			return connErr
		}
		return session.writeToConnWithRetry(msg, msgType)
	}
	return connErr
}

func (bsm *BattleshipSessionManager) ReadFromSessionConn(session *Session) (int, []byte, error) {
	var retries uint8

	for {
		conn := session.Conn()
		messageType, payload, err := conn.ReadMessage()
		if err == nil {
			return messageType, payload, nil
		}

		// the client came back on a new connection and the old one was closed
		if session.Conn() != conn {
			retries = 0
			continue
		}

		switch session.handleReadFromConnErr(err, retries) {
		case ConnLoopContinue:
			retries++

		case ConnLoopAbnormalClosureRetry:
			if err := bsm.WaitForReconnection(session); err != nil {
				return -1, nil, err
			}
			retries = 0

		default:
			return -1, nil, err
		}
	}
}

// FetchCodeFromMsg reads the code of a request. A message without a code
// field yields CodeSignalAbsent.
func FetchCodeFromMsg(payload []byte) (uint8, error) {
	var signal struct {
		Code *uint8 `json:"code"`
	}
	if err := json.Unmarshal(payload, &signal); err != nil {
		return CodeInvalidSignal, err
	}
	if signal.Code == nil {
		return CodeSignalAbsent, nil
	}
	return *signal.Code, nil
}
