package league

// SlotKind distinguishes a slot bound to a roster player from an
// intentionally empty one.
type SlotKind string

const (
	SlotOccupied SlotKind = "OCCUPIED"
	SlotEmpty    SlotKind = "EMPTY"
)

// TacticalPosition places either a player or an empty slot on the pitch.
// X and Y are percentages of pitch width and height, own goal at Y=100.
type TacticalPosition struct {
	Kind     SlotKind `json:"kind" msgpack:"kind"`
	PlayerID string   `json:"player_id,omitempty" msgpack:"player_id"`
	Tag      string   `json:"tag,omitempty" msgpack:"tag"`
	X        float64  `json:"x" msgpack:"x"`
	Y        float64  `json:"y" msgpack:"y"`
}

// Occupied returns a slot bound to playerID.
func Occupied(playerID string, x, y float64) TacticalPosition {
	return TacticalPosition{Kind: SlotOccupied, PlayerID: playerID, X: x, Y: y}
}

// Empty returns an unbound slot identified by tag.
func Empty(tag string, x, y float64) TacticalPosition {
	return TacticalPosition{Kind: SlotEmpty, Tag: tag, X: x, Y: y}
}

// ID is the player ID for occupied slots and the tag for empty ones.
func (p TacticalPosition) ID() string {
	if p.Kind == SlotEmpty {
		return p.Tag
	}
	return p.PlayerID
}

func (p TacticalPosition) IsEmpty() bool {
	return p.Kind == SlotEmpty
}
