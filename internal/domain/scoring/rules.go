package scoring

import (
	"math"
	"strings"

	"github.com/okian/rigscore/internal/domain/model"
)

// step awards points when the measured value is at least min.
type step struct {
	min    float64
	points float64
}

// ladder is a descending step function; the first step whose min is reached
// wins, otherwise floor applies.
type ladder struct {
	steps []step
	floor float64
}

func (l ladder) points(v float64) float64 {
	for _, s := range l.steps {
		if v >= s.min {
			return s.points
		}
	}
	return l.floor
}

// Reference ceilings and floors for the continuous sub-factors.
const (
	refPixels         = 3840 * 2400
	refNits           = 600.0
	refreshBaseline   = 60.0
	refreshCeiling    = 165.0
	sizeFloorInches   = 13.0
	sizeCeilingInches = 16.0

	massFloorKg    = 1.0
	massCeilingKg  = 3.0
	batteryCeiling = 99.0
	massWeight     = 0.6
	batteryWeight  = 0.4

	valueScale = 10.0
)

// Graphics tier boundaries on the 0-100 graphics figure.
const (
	tierLightMin  = 20.0
	tierMediumMin = 45.0
	tierHeavyMin  = 70.0
)

// Display point budgets.
const (
	displayResolutionPts = 30.0
	displayBrightnessPts = 20.0
	displayRefreshPts    = 15.0
	displayTouchPts      = 5.0
	displaySizePts       = 10.0
)

var panelPoints = map[model.Panel]float64{ //nolint:gochecknoglobals // static rule table
	model.PanelOLED:    20,
	model.PanelMiniLED: 12,
	model.PanelIPS:     12,
	model.PanelVA:      5,
	model.PanelTN:      5,
}

// Memory step tables.
var ( //nolint:gochecknoglobals // static rule tables
	ramLadder = ladder{steps: []step{{64, 25}, {32, 20}, {16, 14}, {8, 8}}, floor: 3}
	maxLadder = ladder{steps: []step{{96, 15}, {64, 12}, {32, 8}}, floor: 4}
	ssdLadder = ladder{steps: []step{{2048, 20}, {1024, 15}, {512, 10}}, floor: 4}
	bayLadder = ladder{steps: []step{{2, 10}}, floor: 4}
)

// Upgradability tiers.
const (
	upgradeMultiSlotPts  = 15.0
	upgradeSingleSlotPts = 9.0
	upgradeFixedPts      = 2.0
)

// memoryTechPoints classifies RAM technology into three tiers. An empty
// descriptor is treated as unknown and earns nothing.
func memoryTechPoints(ramType string) float64 {
	t := strings.ToUpper(strings.TrimSpace(ramType))
	switch {
	case t == "":
		return 0
	case strings.Contains(t, "LPDDR5X"):
		return 15
	case strings.Contains(t, "DDR5"):
		return 11
	default:
		return 5
	}
}

// Connectivity budgets.
const (
	thunderboltPerPort = 10.0
	thunderboltMaxPort = 3
	usbAPerPort        = 4.0
	usbAMaxPort        = 3
	ethernetPts        = 10.0
	hdmiPts            = 8.0
	sdCardPts          = 6.0
	bluetoothPts       = 5.0
	bluetoothMinVer    = 5.3
	multiBayPts        = 5.0
	auxVideoPts        = 4.0
)

// wifiPoints maps the wireless generation to one of three tiers.
func wifiPoints(c model.Connectivity) float64 {
	switch c.WiFiGeneration() {
	case 0:
		return 0
	case 7:
		return 15
	case 6:
		return 10
	default:
		return 4
	}
}

// upgradePoints ranks field-upgradability: several user-replaceable slots,
// a single slot, or fixed memory.
func upgradePoints(m model.Memory) float64 {
	switch {
	case m.Slots >= 2 && !m.Soldered:
		return upgradeMultiSlotPts
	case m.Slots >= 1:
		return upgradeSingleSlotPts
	default:
		return upgradeFixedPts
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ratio(v, ceiling float64) float64 {
	if ceiling <= 0 {
		return 0
	}
	return clamp(v/ceiling, 0, 1)
}

func span(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	return clamp((v-lo)/(hi-lo), 0, 1)
}
