package connection

const (
	CodeSessionID uint8 = iota
	CodeCreateGame
	CodeResumeGame
	CodePlaceShip
	CodeMoveShip
	CodeTurnShip
	CodeRemoveShip
	CodeRandomFleet
	CodeReady
	CodeStartGame
	CodeAttack
	CodeOpponentAttack
	CodeEndGame
	CodeFetchState
	CodeInvalidSignal

	// if the req msg does not contain "code" field
	CodeSignalAbsent
)

type Signal struct {
	Code uint8 `json:"code"`
}

func NewSignal(code uint8) Signal {
	return Signal{Code: code}
}
