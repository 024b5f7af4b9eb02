package formation

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/mauv0809/touchline/internal/league"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRoster(n int) []league.Player {
	roster := make([]league.Player, 0, n)
	for i := 1; i <= n; i++ {
		roster = append(roster, league.Player{
			ID:          fmt.Sprintf("p%d", i),
			Name:        fmt.Sprintf("Player %d", i),
			ShirtNumber: i,
		})
	}
	return roster
}

func assertUniqueOccupants(t *testing.T, positions []league.TacticalPosition) {
	t.Helper()
	seen := map[string]bool{}
	for _, p := range positions {
		if p.IsEmpty() {
			continue
		}
		assert.False(t, seen[p.PlayerID], "player %s occupies two slots", p.PlayerID)
		seen[p.PlayerID] = true
	}
}

func TestApplyPreset(t *testing.T) {
	t.Run("full squad fills every slot in roster order", func(t *testing.T) {
		roster := makeRoster(11)
		engine := New(league.SportFootball, nil, nil)

		positions, err := engine.ApplyPreset("4-4-2", roster)
		require.NoError(t, err)
		require.Len(t, positions, 11)

		preset, ok := Lookup(league.SportFootball, "4-4-2")
		require.True(t, ok)
		assert.Equal(t, "p1", positions[0].PlayerID, "slot 0 is the goalkeeper")
		assert.Equal(t, goalkeeper.X, positions[0].X)
		assert.Equal(t, goalkeeper.Y, positions[0].Y)
		for i, p := range positions {
			assert.Equal(t, roster[i].ID, p.PlayerID)
			assert.Equal(t, preset.Slots[i].X, p.X)
			assert.Equal(t, preset.Slots[i].Y, p.Y)
			assert.Equal(t, league.SlotOccupied, p.Kind)
		}
	})

	t.Run("short roster only emits the first slots", func(t *testing.T) {
		engine := New(league.SportFootball, nil, nil)
		positions, err := engine.ApplyPreset("4-3-3", makeRoster(7))
		require.NoError(t, err)
		assert.Len(t, positions, 7)
		for _, p := range positions {
			assert.False(t, p.IsEmpty())
		}
	})

	t.Run("long roster leaves the rest on the bench", func(t *testing.T) {
		engine := New(league.SportFutsal, nil, nil)
		positions, err := engine.ApplyPreset("2-2", makeRoster(8))
		require.NoError(t, err)
		assert.Len(t, positions, 5)
		assert.Len(t, engine.Bench(), 3)
	})

	t.Run("empty roster is a no-op", func(t *testing.T) {
		existing := []league.TacticalPosition{league.Occupied("p1", 10, 10)}
		engine := New(league.SportFootball, makeRoster(1), existing)

		positions, err := engine.ApplyPreset("4-4-2", nil)
		require.NoError(t, err)
		assert.Equal(t, existing, positions)
	})

	t.Run("unknown preset is a no-op with an error", func(t *testing.T) {
		existing := []league.TacticalPosition{league.Occupied("p1", 10, 10)}
		engine := New(league.SportFutsal, nil, existing)

		positions, err := engine.ApplyPreset("4-4-2", makeRoster(5))
		assert.ErrorIs(t, err, ErrUnknownPreset)
		assert.Equal(t, existing, positions)
	})

	t.Run("replaces manual adjustments", func(t *testing.T) {
		roster := makeRoster(7)
		engine := New(league.SportSociety, roster, nil)
		_, err := engine.ApplyPreset("2-3-1", roster)
		require.NoError(t, err)
		require.True(t, engine.Move("p2", 1, 1))
		engine.AddEmptySlot(40, 40)

		positions, err := engine.ApplyPreset("2-3-1", roster)
		require.NoError(t, err)
		assert.Len(t, positions, 7)
		assert.Equal(t, 30.0, positions[1].X)
	})

	t.Run("clears a pending swap", func(t *testing.T) {
		roster := makeRoster(7)
		engine := New(league.SportSociety, roster, nil)
		_, err := engine.ApplyPreset("3-2-1", roster)
		require.NoError(t, err)
		_, err = engine.BeginSwap("p1")
		require.NoError(t, err)

		_, err = engine.ApplyPreset("2-2-2", roster)
		require.NoError(t, err)
		_, pending := engine.Pending()
		assert.False(t, pending)
	})
}

func TestMove(t *testing.T) {
	engine := New(league.SportFutsal, makeRoster(5), []league.TacticalPosition{
		league.Occupied("p1", 50, 90),
		league.Empty("slot-a", 30, 30),
	})

	assert.True(t, engine.Move("p1", 45, 85))
	assert.True(t, engine.Move("slot-a", 20, 25))
	assert.False(t, engine.Move("nobody", 0, 0))

	positions := engine.Positions()
	assert.Equal(t, league.Occupied("p1", 45, 85), positions[0])
	assert.Equal(t, league.Empty("slot-a", 20, 25), positions[1])
}

func TestSwap(t *testing.T) {
	t.Run("bench player takes the field player's coordinates", func(t *testing.T) {
		roster := makeRoster(2)
		engine := New(league.SportFutsal, roster, []league.TacticalPosition{league.Occupied("p1", 30, 70)})

		ctx, err := engine.BeginSwap("p1")
		require.NoError(t, err)
		assert.Equal(t, SwapContext{SlotID: "p1", X: 30, Y: 70}, ctx)

		require.NoError(t, engine.CompleteSwap("p2"))

		positions := engine.Positions()
		require.Len(t, positions, 1)
		assert.Equal(t, league.Occupied("p2", 30, 70), positions[0])

		bench := engine.Bench()
		require.Len(t, bench, 1)
		assert.Equal(t, "p1", bench[0].ID)

		_, pending := engine.Pending()
		assert.False(t, pending)
	})

	t.Run("empty slots can be filled", func(t *testing.T) {
		engine := New(league.SportFutsal, makeRoster(2), []league.TacticalPosition{
			league.Occupied("p1", 50, 90),
			league.Empty("gap", 40, 40),
		})
		require.NoError(t, engine.Swap("gap", "p2"))
		assert.Equal(t, league.Occupied("p2", 40, 40), engine.Positions()[1])
		assert.Empty(t, engine.Bench())
	})

	t.Run("complete without begin fails", func(t *testing.T) {
		engine := New(league.SportFutsal, makeRoster(2), []league.TacticalPosition{league.Occupied("p1", 30, 70)})
		assert.ErrorIs(t, engine.CompleteSwap("p2"), ErrNoPendingSwap)
		assert.Equal(t, []league.TacticalPosition{league.Occupied("p1", 30, 70)}, engine.Positions())
	})

	t.Run("player already on the field is rejected", func(t *testing.T) {
		engine := New(league.SportFutsal, makeRoster(2), []league.TacticalPosition{
			league.Occupied("p1", 30, 70),
			league.Occupied("p2", 70, 70),
		})
		_, err := engine.BeginSwap("p1")
		require.NoError(t, err)

		assert.ErrorIs(t, engine.CompleteSwap("p2"), ErrAlreadyOnField)
		_, pending := engine.Pending()
		assert.True(t, pending, "swap stays pending so another bench player can be picked")
		assertUniqueOccupants(t, engine.Positions())
	})

	t.Run("player outside the roster is rejected", func(t *testing.T) {
		engine := New(league.SportFutsal, makeRoster(2), []league.TacticalPosition{league.Occupied("p1", 30, 70)})
		_, err := engine.BeginSwap("p1")
		require.NoError(t, err)
		assert.ErrorIs(t, engine.CompleteSwap("stranger"), ErrNotInRoster)
	})

	t.Run("unknown slot cannot be selected", func(t *testing.T) {
		engine := New(league.SportFutsal, makeRoster(2), nil)
		_, err := engine.BeginSwap("p1")
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})

	t.Run("new begin replaces the pending swap", func(t *testing.T) {
		engine := New(league.SportFutsal, makeRoster(3), []league.TacticalPosition{
			league.Occupied("p1", 30, 70),
			league.Occupied("p2", 70, 70),
		})
		_, err := engine.BeginSwap("p1")
		require.NoError(t, err)
		_, err = engine.BeginSwap("p2")
		require.NoError(t, err)

		require.NoError(t, engine.CompleteSwap("p3"))
		assert.Equal(t, []league.TacticalPosition{
			league.Occupied("p1", 30, 70),
			league.Occupied("p3", 70, 70),
		}, engine.Positions())
	})

	t.Run("cancel leaves positions alone", func(t *testing.T) {
		engine := New(league.SportFutsal, makeRoster(2), []league.TacticalPosition{league.Occupied("p1", 30, 70)})
		_, err := engine.BeginSwap("p1")
		require.NoError(t, err)
		engine.CancelSwap()

		assert.ErrorIs(t, engine.CompleteSwap("p2"), ErrNoPendingSwap)
		assert.Equal(t, []league.TacticalPosition{league.Occupied("p1", 30, 70)}, engine.Positions())
	})

	t.Run("moving the pending slot keeps the context in step", func(t *testing.T) {
		engine := New(league.SportFutsal, makeRoster(2), []league.TacticalPosition{league.Occupied("p1", 30, 70)})
		_, err := engine.BeginSwap("p1")
		require.NoError(t, err)
		engine.Move("p1", 10, 20)

		ctx, ok := engine.Pending()
		require.True(t, ok)
		assert.Equal(t, 10.0, ctx.X)
		require.NoError(t, engine.CompleteSwap("p2"))
		assert.Equal(t, league.Occupied("p2", 10, 20), engine.Positions()[0])
	})
}

func TestClearSlot(t *testing.T) {
	engine := New(league.SportFutsal, makeRoster(2), []league.TacticalPosition{league.Occupied("p1", 30, 70)})

	assert.True(t, engine.ClearSlot("p1"))
	positions := engine.Positions()
	require.Len(t, positions, 1)
	assert.True(t, positions[0].IsEmpty())
	assert.NotEmpty(t, positions[0].Tag)
	assert.Equal(t, 30.0, positions[0].X)
	assert.Len(t, engine.Bench(), 2)

	assert.False(t, engine.ClearSlot("p1"))
	assert.False(t, engine.ClearSlot(positions[0].Tag))
}

func TestPositionsOfEmptyFormation(t *testing.T) {
	engine := New(league.SportFootball, makeRoster(3), nil)

	positions := engine.Positions()
	require.NotNil(t, positions)
	assert.Empty(t, positions)

	raw, err := json.Marshal(positions)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestDeriveBench(t *testing.T) {
	roster := makeRoster(14)
	engine := New(league.SportFootball, roster, nil)
	positions, err := engine.ApplyPreset("4-4-2", roster)
	require.NoError(t, err)
	require.Len(t, positions, 11)

	bench := DeriveBench(roster, positions)
	require.Len(t, bench, 3)

	onField := map[string]bool{}
	for _, p := range positions {
		onField[p.PlayerID] = true
	}
	for _, player := range bench {
		assert.False(t, onField[player.ID])
	}
	assert.Equal(t, []string{"p12", "p13", "p14"}, []string{bench[0].ID, bench[1].ID, bench[2].ID})
}

func TestNormalize(t *testing.T) {
	positions := Normalize([]league.TacticalPosition{
		league.Occupied("p1", 1, 1),
		league.Occupied("p1", 2, 2),
		league.Empty("", 3, 3),
		league.Empty("gap", 4, 4),
		league.Occupied("", 5, 5),
	})
	require.Len(t, positions, 3)
	assert.Equal(t, league.Occupied("p1", 1, 1), positions[0])
	assert.NotEmpty(t, positions[1].Tag)
	assert.Equal(t, "gap", positions[2].Tag)
}

func TestUniquenessAcrossOperations(t *testing.T) {
	roster := makeRoster(9)
	engine := New(league.SportSociety, roster, nil)

	_, err := engine.ApplyPreset("2-3-1", roster)
	require.NoError(t, err)
	assertUniqueOccupants(t, engine.Positions())

	engine.Move("p3", 12, 12)
	require.NoError(t, engine.Swap("p2", "p8"))
	assert.ErrorIs(t, engine.Swap("p4", "p8"), ErrAlreadyOnField)
	require.NoError(t, engine.Swap("p4", "p2"))
	engine.ClearSlot("p5")
	require.NoError(t, engine.Swap(engine.Positions()[4].Tag, "p9"))

	assertUniqueOccupants(t, engine.Positions())
	assert.Len(t, engine.Positions(), 7)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-5))
	assert.Equal(t, 100.0, Clamp(140))
	assert.Equal(t, 42.5, Clamp(42.5))
}
