package formation

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/touchline/internal/league"
)

var (
	ErrUnknownPreset  = errors.New("unknown formation preset")
	ErrSlotNotFound   = errors.New("slot not found in formation")
	ErrNoPendingSwap  = errors.New("no swap is pending")
	ErrAlreadyOnField = errors.New("player already occupies a slot")
	ErrNotInRoster    = errors.New("player is not in the roster")
)

// SwapContext is the slot waiting for a bench player to be picked.
type SwapContext struct {
	SlotID string  `json:"slot_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Engine holds the formation of one team, or of one side of one match.
// It is not safe for concurrent use.
type Engine struct {
	sport     league.SportType
	roster    []league.Player
	positions []league.TacticalPosition
	pending   *SwapContext
}

// New returns an engine seeded with a persisted formation. Duplicate
// occupied entries are dropped, first one wins.
func New(sport league.SportType, roster []league.Player, positions []league.TacticalPosition) *Engine {
	return &Engine{
		sport:     sport,
		roster:    append([]league.Player(nil), roster...),
		positions: Normalize(positions),
	}
}

func (e *Engine) Sport() league.SportType {
	return e.sport
}

// Positions returns a copy of the current formation. It is never nil.
func (e *Engine) Positions() []league.TacticalPosition {
	positions := make([]league.TacticalPosition, len(e.positions))
	copy(positions, e.positions)
	return positions
}

// Pending returns the swap awaiting a bench selection, if any.
func (e *Engine) Pending() (SwapContext, bool) {
	if e.pending == nil {
		return SwapContext{}, false
	}
	return *e.pending, true
}

// ApplyPreset replaces the formation with the named preset, binding roster
// players to slots in squad order. Slots beyond the roster size are not
// emitted. An empty roster leaves the formation untouched.
func (e *Engine) ApplyPreset(name string, roster []league.Player) ([]league.TacticalPosition, error) {
	preset, ok := Lookup(e.sport, name)
	if !ok {
		log.Debug("Ignoring unknown preset", "preset", name, "sport", e.sport)
		return e.Positions(), ErrUnknownPreset
	}
	if len(roster) == 0 {
		log.Debug("Ignoring preset for empty roster", "preset", name)
		return e.Positions(), nil
	}
	e.roster = append([]league.Player(nil), roster...)

	count := min(len(roster), len(preset.Slots))
	positions := make([]league.TacticalPosition, 0, count)
	for i := 0; i < count; i++ {
		slot := preset.Slots[i]
		positions = append(positions, league.Occupied(roster[i].ID, slot.X, slot.Y))
	}
	e.positions = Normalize(positions)
	e.pending = nil
	return e.Positions(), nil
}

// Move repositions one slot. Coordinates are expected to be clamped by the
// caller. It returns false when id is not on the pitch.
func (e *Engine) Move(id string, x, y float64) bool {
	idx := e.indexOf(id)
	if idx < 0 {
		log.Debug("Ignoring move for unknown slot", "id", id)
		return false
	}
	e.positions[idx].X = x
	e.positions[idx].Y = y
	if e.pending != nil && e.pending.SlotID == id {
		e.pending.X = x
		e.pending.Y = y
	}
	return true
}

// BeginSwap marks a slot as waiting for a bench player, replacing any swap
// already pending.
func (e *Engine) BeginSwap(slotID string) (SwapContext, error) {
	idx := e.indexOf(slotID)
	if idx < 0 {
		log.Debug("Ignoring swap for unknown slot", "id", slotID)
		return SwapContext{}, ErrSlotNotFound
	}
	ctx := SwapContext{
		SlotID: slotID,
		X:      e.positions[idx].X,
		Y:      e.positions[idx].Y,
	}
	e.pending = &ctx
	return ctx, nil
}

// CompleteSwap puts benchPlayerID in the pending slot. The previous occupant
// leaves the formation and is back on the bench.
func (e *Engine) CompleteSwap(benchPlayerID string) error {
	if e.pending == nil {
		return ErrNoPendingSwap
	}
	if e.occupies(benchPlayerID) {
		return ErrAlreadyOnField
	}
	if len(e.roster) > 0 && !e.inRoster(benchPlayerID) {
		return ErrNotInRoster
	}

	idx := e.indexOf(e.pending.SlotID)
	if idx < 0 {
		e.pending = nil
		return ErrSlotNotFound
	}
	slot := e.positions[idx]
	e.positions[idx] = league.Occupied(benchPlayerID, slot.X, slot.Y)
	log.Debug("Completed swap", "slot", e.pending.SlotID, "in", benchPlayerID)
	e.pending = nil
	return nil
}

// CancelSwap drops the pending swap without touching the formation.
func (e *Engine) CancelSwap() {
	e.pending = nil
}

// Swap runs a full substitution in one call.
func (e *Engine) Swap(slotID, benchPlayerID string) error {
	if _, err := e.BeginSwap(slotID); err != nil {
		return err
	}
	if err := e.CompleteSwap(benchPlayerID); err != nil {
		e.CancelSwap()
		return err
	}
	return nil
}

// ClearSlot sends a player to the bench and leaves an empty slot behind.
func (e *Engine) ClearSlot(playerID string) bool {
	idx := e.indexOf(playerID)
	if idx < 0 || e.positions[idx].IsEmpty() {
		return false
	}
	slot := e.positions[idx]
	e.positions[idx] = league.Empty(uuid.NewString(), slot.X, slot.Y)
	if e.pending != nil && e.pending.SlotID == playerID {
		e.pending = nil
	}
	return true
}

// AddEmptySlot appends a placeholder slot.
func (e *Engine) AddEmptySlot(x, y float64) league.TacticalPosition {
	slot := league.Empty(uuid.NewString(), x, y)
	e.positions = append(e.positions, slot)
	return slot
}

// Bench lists roster players without a slot.
func (e *Engine) Bench() []league.Player {
	return DeriveBench(e.roster, e.positions)
}

func (e *Engine) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, p := range e.positions {
		if p.ID() == id {
			return i
		}
	}
	return -1
}

func (e *Engine) occupies(playerID string) bool {
	for _, p := range e.positions {
		if !p.IsEmpty() && p.PlayerID == playerID {
			return true
		}
	}
	return false
}

func (e *Engine) inRoster(playerID string) bool {
	for _, p := range e.roster {
		if p.ID == playerID {
			return true
		}
	}
	return false
}

// DeriveBench returns roster players, in squad order, that have no occupied
// slot in positions.
func DeriveBench(roster []league.Player, positions []league.TacticalPosition) []league.Player {
	onField := make(map[string]struct{}, len(positions))
	for _, p := range positions {
		if !p.IsEmpty() {
			onField[p.PlayerID] = struct{}{}
		}
	}
	bench := make([]league.Player, 0, len(roster))
	for _, player := range roster {
		if _, ok := onField[player.ID]; !ok {
			bench = append(bench, player)
		}
	}
	return bench
}

// Normalize copies positions, dropping repeated or blank occupied entries.
// Empty slots without a tag are given one.
func Normalize(positions []league.TacticalPosition) []league.TacticalPosition {
	seen := make(map[string]struct{}, len(positions))
	out := make([]league.TacticalPosition, 0, len(positions))
	for _, p := range positions {
		if p.IsEmpty() {
			if p.Tag == "" {
				p.Tag = uuid.NewString()
			}
			out = append(out, p)
			continue
		}
		if _, dup := seen[p.PlayerID]; dup || p.PlayerID == "" {
			continue
		}
		seen[p.PlayerID] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Clamp bounds a coordinate to the pitch.
func Clamp(v float64) float64 {
	return max(0, min(100, v))
}
