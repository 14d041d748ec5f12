package sqlc

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sqlc-dev/pqtype"

	cerr "github.com/saeidalz13/battleship-engine/internal/error"
	mb "github.com/saeidalz13/battleship-engine/models/battleship"
)

// MatchManager stores match snapshots. A row holds exactly what
// mb.RestoreController needs to rebuild the match.
type MatchManager struct {
	queries Querier
}

func NewMatchManager(queries Querier) *MatchManager {
	return &MatchManager{queries: queries}
}

func (m *MatchManager) SaveMatch(ctx context.Context, snap mb.Snapshot) error {
	params, err := upsertParamsFromSnapshot(snap, time.Now())
	if err != nil {
		return err
	}
	return m.queries.UpsertMatch(ctx, params)
}

func (m *MatchManager) LoadMatch(ctx context.Context, gameUuid string) (mb.Snapshot, error) {
	row, err := m.queries.GetMatch(ctx, gameUuid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mb.Snapshot{}, cerr.ErrGameNotExistsUuid(gameUuid)
		}
		return mb.Snapshot{}, err
	}
	return snapshotFromRow(row)
}

func (m *MatchManager) DeleteMatch(ctx context.Context, gameUuid string) error {
	return m.queries.DeleteMatch(ctx, gameUuid)
}

// PruneFinished deletes finished matches last touched before the given time
// and returns how many were removed.
func (m *MatchManager) PruneFinished(ctx context.Context, before time.Time) (int64, error) {
	return m.queries.DeleteFinishedMatchesBefore(ctx, before.UnixMilli())
}

func upsertParamsFromSnapshot(snap mb.Snapshot, now time.Time) (UpsertMatchParams, error) {
	fleetOne, err := json.Marshal(snap.FleetOne)
	if err != nil {
		return UpsertMatchParams{}, fmt.Errorf("marshal fleet one: %w", err)
	}
	fleetTwo, err := json.Marshal(snap.FleetTwo)
	if err != nil {
		return UpsertMatchParams{}, fmt.Errorf("marshal fleet two: %w", err)
	}
	shotsOne, err := nullRawMessage(snap.ShotsOne)
	if err != nil {
		return UpsertMatchParams{}, fmt.Errorf("marshal shots one: %w", err)
	}
	shotsTwo, err := nullRawMessage(snap.ShotsTwo)
	if err != nil {
		return UpsertMatchParams{}, fmt.Errorf("marshal shots two: %w", err)
	}

	return UpsertMatchParams{
		Uuid:          snap.Uuid,
		GameMode:      int16(snap.Mode),
		GridSize:      int32(snap.GridSize),
		ReadyOne:      snap.ReadyOne,
		ReadyTwo:      snap.ReadyTwo,
		CurrentPlayer: bool(snap.CurrentPlayer),
		Finished:      snap.Finished,
		Winner:        bool(snap.Winner),
		FleetOne:      fleetOne,
		FleetTwo:      fleetTwo,
		ShotsOne:      shotsOne,
		ShotsTwo:      shotsTwo,
		CreatedAt:     snap.CreatedAt.UnixMilli(),
		UpdatedAt:     now.UnixMilli(),
	}, nil
}

// No shots yet is stored as NULL.
func nullRawMessage(shots []mb.Coordinates) (pqtype.NullRawMessage, error) {
	if len(shots) == 0 {
		return pqtype.NullRawMessage{}, nil
	}
	raw, err := json.Marshal(shots)
	if err != nil {
		return pqtype.NullRawMessage{}, err
	}
	return pqtype.NullRawMessage{RawMessage: raw, Valid: true}, nil
}

func snapshotFromRow(row Match) (mb.Snapshot, error) {
	snap := mb.Snapshot{
		Uuid:          row.Uuid,
		Mode:          mb.GameMode(row.GameMode),
		GridSize:      int(row.GridSize),
		ReadyOne:      row.ReadyOne,
		ReadyTwo:      row.ReadyTwo,
		CurrentPlayer: mb.Player(row.CurrentPlayer),
		Finished:      row.Finished,
		Winner:        mb.Player(row.Winner),
		CreatedAt:     time.UnixMilli(row.CreatedAt),
	}

	if err := json.Unmarshal(row.FleetOne, &snap.FleetOne); err != nil {
		return mb.Snapshot{}, fmt.Errorf("unmarshal fleet one: %w", err)
	}
	if err := json.Unmarshal(row.FleetTwo, &snap.FleetTwo); err != nil {
		return mb.Snapshot{}, fmt.Errorf("unmarshal fleet two: %w", err)
	}
	if row.ShotsOne.Valid {
		if err := json.Unmarshal(row.ShotsOne.RawMessage, &snap.ShotsOne); err != nil {
			return mb.Snapshot{}, fmt.Errorf("unmarshal shots one: %w", err)
		}
	}
	if row.ShotsTwo.Valid {
		if err := json.Unmarshal(row.ShotsTwo.RawMessage, &snap.ShotsTwo); err != nil {
			return mb.Snapshot{}, fmt.Errorf("unmarshal shots two: %w", err)
		}
	}
	return snap, nil
}
