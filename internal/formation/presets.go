package formation

import (
	"github.com/charmbracelet/log"
	"github.com/mauv0809/touchline/internal/league"
)

// Point is a pitch coordinate in percent. Y grows towards the team's own goal.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Preset is a named formation. Slot 0 is always the goalkeeper, followed by
// the defensive line left to right, then midfield, then attack.
type Preset struct {
	Name  string  `json:"name"`
	Slots []Point `json:"slots"`
}

var goalkeeper = Point{50, 90}

var footballPresets = []Preset{
	{Name: "4-4-2", Slots: []Point{
		goalkeeper,
		{15, 72}, {38, 75}, {62, 75}, {85, 72},
		{15, 48}, {38, 50}, {62, 50}, {85, 48},
		{35, 22}, {65, 22},
	}},
	{Name: "4-3-3", Slots: []Point{
		goalkeeper,
		{15, 72}, {38, 75}, {62, 75}, {85, 72},
		{30, 50}, {50, 52}, {70, 50},
		{18, 24}, {50, 20}, {82, 24},
	}},
	{Name: "3-5-2", Slots: []Point{
		goalkeeper,
		{25, 75}, {50, 77}, {75, 75},
		{10, 50}, {30, 52}, {50, 55}, {70, 52}, {90, 50},
		{35, 22}, {65, 22},
	}},
	{Name: "4-2-3-1", Slots: []Point{
		goalkeeper,
		{15, 72}, {38, 75}, {62, 75}, {85, 72},
		{38, 60}, {62, 60},
		{20, 38}, {50, 38}, {80, 38},
		{50, 18},
	}},
	{Name: "5-3-2", Slots: []Point{
		goalkeeper,
		{8, 68}, {28, 75}, {50, 77}, {72, 75}, {92, 68},
		{30, 50}, {50, 52}, {70, 50},
		{35, 22}, {65, 22},
	}},
}

var societyPresets = []Preset{
	{Name: "2-3-1", Slots: []Point{
		goalkeeper,
		{30, 72}, {70, 72},
		{15, 48}, {50, 50}, {85, 48},
		{50, 22},
	}},
	{Name: "3-2-1", Slots: []Point{
		goalkeeper,
		{20, 72}, {50, 75}, {80, 72},
		{35, 48}, {65, 48},
		{50, 22},
	}},
	{Name: "2-2-2", Slots: []Point{
		goalkeeper,
		{30, 72}, {70, 72},
		{30, 48}, {70, 48},
		{35, 22}, {65, 22},
	}},
	{Name: "3-1-2", Slots: []Point{
		goalkeeper,
		{20, 72}, {50, 75}, {80, 72},
		{50, 50},
		{35, 22}, {65, 22},
	}},
}

var futsalPresets = []Preset{
	{Name: "2-2", Slots: []Point{
		goalkeeper,
		{30, 70}, {70, 70},
		{30, 35}, {70, 35},
	}},
	{Name: "1-2-1", Slots: []Point{
		goalkeeper,
		{50, 72},
		{20, 50}, {80, 50},
		{50, 25},
	}},
	{Name: "3-1", Slots: []Point{
		goalkeeper,
		{20, 70}, {50, 72}, {80, 70},
		{50, 30},
	}},
	{Name: "4-0", Slots: []Point{
		goalkeeper,
		{15, 60}, {38, 62}, {62, 62}, {85, 60},
	}},
}

var beachSoccerPresets = []Preset{
	{Name: "2-2", Slots: []Point{
		goalkeeper,
		{30, 70}, {70, 70},
		{30, 32}, {70, 32},
	}},
	{Name: "1-2-1", Slots: []Point{
		goalkeeper,
		{50, 70},
		{25, 50}, {75, 50},
		{50, 28},
	}},
	{Name: "2-1-1", Slots: []Point{
		goalkeeper,
		{30, 70}, {70, 70},
		{50, 48},
		{50, 25},
	}},
}

var handballPresets = []Preset{
	{Name: "6-0", Slots: []Point{
		{50, 92},
		{5, 62}, {22, 70}, {40, 74}, {60, 74}, {78, 70}, {95, 62},
	}},
	{Name: "5-1", Slots: []Point{
		{50, 92},
		{5, 62}, {25, 71}, {50, 75}, {75, 71}, {95, 62},
		{50, 55},
	}},
	{Name: "3-2-1", Slots: []Point{
		{50, 92},
		{25, 72}, {50, 75}, {75, 72},
		{30, 58}, {70, 58},
		{50, 45},
	}},
}

var fieldHockeyPresets = []Preset{
	{Name: "4-3-3", Slots: []Point{
		goalkeeper,
		{15, 72}, {38, 75}, {62, 75}, {85, 72},
		{30, 50}, {50, 52}, {70, 50},
		{18, 24}, {50, 20}, {82, 24},
	}},
	{Name: "3-4-3", Slots: []Point{
		goalkeeper,
		{25, 75}, {50, 77}, {75, 75},
		{12, 50}, {38, 52}, {62, 52}, {88, 50},
		{20, 24}, {50, 20}, {80, 24},
	}},
	{Name: "4-4-2", Slots: []Point{
		goalkeeper,
		{15, 72}, {38, 75}, {62, 75}, {85, 72},
		{15, 48}, {38, 50}, {62, 50}, {85, 48},
		{35, 22}, {65, 22},
	}},
}

// defaultPresets is used for sport strings that do not parse.
var defaultPresets = footballPresets[:2]

// Catalogue returns the presets available for a sport.
func Catalogue(sport league.SportType) []Preset {
	switch sport {
	case league.SportFootball:
		return footballPresets
	case league.SportSociety:
		return societyPresets
	case league.SportFutsal:
		return futsalPresets
	case league.SportBeachSoccer:
		return beachSoccerPresets
	case league.SportHandball:
		return handballPresets
	case league.SportFieldHockey:
		return fieldHockeyPresets
	default:
		log.Warn("No preset catalogue for sport, using default", "sport", sport)
		return defaultPresets
	}
}

// CatalogueFor parses a raw sport value and falls back to the default
// two-preset catalogue when it is not a known sport.
func CatalogueFor(sport string) []Preset {
	parsed, ok := league.ParseSportType(sport)
	if !ok {
		return defaultPresets
	}
	return Catalogue(parsed)
}

// Lookup finds a preset by name within a sport's catalogue.
func Lookup(sport league.SportType, name string) (Preset, bool) {
	for _, preset := range Catalogue(sport) {
		if preset.Name == name {
			return preset, true
		}
	}
	return Preset{}, false
}

// SquadSize is the number of players a sport fields at once.
func SquadSize(sport league.SportType) int {
	presets := Catalogue(sport)
	return len(presets[0].Slots)
}
