package battleship_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerr "github.com/saeidalz13/battleship-engine/internal/error"
	mb "github.com/saeidalz13/battleship-engine/models/battleship"
)

func emptyStates(size int) [][]mb.Observation {
	states := make([][]mb.Observation, size)
	for col := range states {
		states[col] = make([]mb.Observation, size)
	}
	return states
}

func TestHardStrategy_TargetsNeighboursOfHit(t *testing.T) {
	states := emptyStates(10)
	states[5][5] = mb.ObservationHit
	history := []mb.Coordinates{{Col: 5, Row: 5}}

	neighbours := []mb.Coordinates{{Col: 4, Row: 5}, {Col: 6, Row: 5}, {Col: 5, Row: 4}, {Col: 5, Row: 6}}
	for seed := uint64(0); seed < 20; seed++ {
		strategy := mb.NewHardStrategy(rand.New(rand.NewPCG(seed, seed)))
		target, err := strategy.NextTarget(mb.NewAttackView(states, history))
		require.NoError(t, err)
		assert.Contains(t, neighbours, target)
	}
}

func TestHardStrategy_SkipsAttackedNeighbours(t *testing.T) {
	states := emptyStates(10)
	states[0][0] = mb.ObservationHit
	states[1][0] = mb.ObservationMiss
	history := []mb.Coordinates{{Col: 1, Row: 0}, {Col: 0, Row: 0}}

	strategy := mb.NewHardStrategy(rand.New(rand.NewPCG(1, 1)))
	target, err := strategy.NextTarget(mb.NewAttackView(states, history))
	require.NoError(t, err)
	assert.Equal(t, mb.Coordinates{Col: 0, Row: 1}, target)
}

func TestHardStrategy_ExtendsLine(t *testing.T) {
	states := emptyStates(10)
	states[5][5] = mb.ObservationHit
	states[6][5] = mb.ObservationHit
	history := []mb.Coordinates{{Col: 5, Row: 5}, {Col: 6, Row: 5}}

	ends := []mb.Coordinates{{Col: 4, Row: 5}, {Col: 7, Row: 5}}
	for seed := uint64(0); seed < 20; seed++ {
		strategy := mb.NewHardStrategy(rand.New(rand.NewPCG(seed, 3)))
		target, err := strategy.NextTarget(mb.NewAttackView(states, history))
		require.NoError(t, err)
		assert.Contains(t, ends, target)
	}

	states[4][5] = mb.ObservationMiss
	history = append(history, mb.Coordinates{Col: 4, Row: 5})
	strategy := mb.NewHardStrategy(rand.New(rand.NewPCG(2, 3)))
	target, err := strategy.NextTarget(mb.NewAttackView(states, history))
	require.NoError(t, err)
	assert.Equal(t, mb.Coordinates{Col: 7, Row: 5}, target)
}

func TestHardStrategy_HuntsOnCheckerboardAfterSinking(t *testing.T) {
	states := emptyStates(6)
	states[2][2] = mb.ObservationSunk
	states[2][3] = mb.ObservationSunk
	history := []mb.Coordinates{{Col: 2, Row: 2}, {Col: 2, Row: 3}}

	strategy := mb.NewHardStrategy(rand.New(rand.NewPCG(4, 4)))
	for i := 0; i < 20; i++ {
		target, err := strategy.NextTarget(mb.NewAttackView(states, history))
		require.NoError(t, err)
		assert.Zero(t, (target.Col+target.Row)%2)
		assert.Equal(t, mb.ObservationUnknown, states[target.Col][target.Row])
	}
}

func TestStrategies_ExhaustGrid(t *testing.T) {
	strategies := map[string]mb.Strategy{
		"easy": mb.NewEasyStrategy(rand.New(rand.NewPCG(1, 2))),
		"hard": mb.NewHardStrategy(rand.New(rand.NewPCG(1, 2))),
	}

	for name, strategy := range strategies {
		t.Run(name, func(t *testing.T) {
			const size = 5
			states := emptyStates(size)
			history := make([]mb.Coordinates, 0, size*size)

			for i := 0; i < size*size; i++ {
				target, err := strategy.NextTarget(mb.NewAttackView(states, history))
				require.NoError(t, err)
				require.True(t, target.Col >= 0 && target.Col < size && target.Row >= 0 && target.Row < size)
				require.Equal(t, mb.ObservationUnknown, states[target.Col][target.Row], "cell %v attacked twice", target)

				states[target.Col][target.Row] = mb.ObservationMiss
				history = append(history, target)
			}

			_, err := strategy.NextTarget(mb.NewAttackView(states, history))
			require.ErrorIs(t, err, cerr.ErrNoTargetsLeft)
		})
	}
}
