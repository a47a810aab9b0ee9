// Package model contains the immutable domain records shared by the engines.
package model

import (
	"strings"
	"unicode"
)

// Panel classifies display technology by contrast characteristics.
type Panel string

// Panel technologies.
const (
	PanelOLED    Panel = "oled"
	PanelMiniLED Panel = "mini-led"
	PanelIPS     Panel = "ips"
	PanelVA      Panel = "va"
	PanelTN      Panel = "tn"
)

// Lineage is the {family, variant, generation} decomposition of an entity id.
// It is computed once when the catalog is loaded; Valid is false when the id
// does not follow the generational naming convention.
type Lineage struct {
	Family     string `json:"family,omitempty"`
	Variant    string `json:"variant,omitempty"`
	Generation int    `json:"generation,omitempty"`
	Valid      bool   `json:"valid"`
}

// Processor holds the benchmark keys of the compute components.
type Processor struct {
	CPU string `json:"cpu" yaml:"cpu"`
	GPU string `json:"gpu" yaml:"gpu"`
}

// Memory describes primary memory and storage.
type Memory struct {
	RAMGB        int    `json:"ram_gb" yaml:"ram_gb" validate:"gte=0"`
	MaxRAMGB     int    `json:"max_ram_gb" yaml:"max_ram_gb" validate:"gte=0"`
	RAMType      string `json:"ram_type" yaml:"ram_type"`
	Slots        int    `json:"slots" yaml:"slots" validate:"gte=0"`
	Soldered     bool   `json:"soldered" yaml:"soldered"`
	StorageGB    int    `json:"storage_gb" yaml:"storage_gb" validate:"gte=0"`
	StorageSlots int    `json:"storage_slots" yaml:"storage_slots" validate:"gte=0"`
}

// Display describes the built-in panel.
type Display struct {
	SizeInches float64 `json:"size_inches" yaml:"size_inches" validate:"gte=0"`
	Width      int     `json:"width" yaml:"width" validate:"gte=0"`
	Height     int     `json:"height" yaml:"height" validate:"gte=0"`
	Panel      Panel   `json:"panel" yaml:"panel" validate:"omitempty,oneof=oled mini-led ips va tn"`
	Nits       int     `json:"nits" yaml:"nits" validate:"gte=0"`
	RefreshHz  int     `json:"refresh_hz" yaml:"refresh_hz" validate:"gte=0"`
	Touch      bool    `json:"touch" yaml:"touch"`
}

// Pixels returns the native pixel count.
func (d Display) Pixels() int { return d.Width * d.Height }

// Connectivity describes ports and radios.
type Connectivity struct {
	Thunderbolt int     `json:"thunderbolt" yaml:"thunderbolt" validate:"gte=0"`
	USBC        int     `json:"usb_c" yaml:"usb_c" validate:"gte=0"`
	USBA        int     `json:"usb_a" yaml:"usb_a" validate:"gte=0"`
	HDMI        bool    `json:"hdmi" yaml:"hdmi"`
	Ethernet    bool    `json:"ethernet" yaml:"ethernet"`
	SDCard      bool    `json:"sd_card" yaml:"sd_card"`
	DisplayPort bool    `json:"display_port" yaml:"display_port"`
	WiFi        string  `json:"wifi" yaml:"wifi"`
	Bluetooth   float64 `json:"bluetooth" yaml:"bluetooth" validate:"gte=0"`
}

// WiFiGeneration reads the wireless generation from the whole words of the
// keyword: 7 for "7", "BE" or a BE chip, 6 for "6", "6E", "AX" or an AX chip,
// 1 for any other named radio and 0 when the entity lists none. The highest
// generation named wins.
func (c Connectivity) WiFiGeneration() int {
	tokens := strings.FieldsFunc(strings.ToLower(c.WiFi), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(tokens) == 0 {
		return 0
	}
	gen := 1
	for _, tok := range tokens {
		gen = max(gen, wifiToken(tok))
	}
	return gen
}

// wifiChips maps controller part prefixes to the generation they implement.
//
//nolint:gochecknoglobals
var wifiChips = []struct {
	prefix string
	gen    int
	model  bool
}{
	{"be", 7, true},
	{"ax", 6, true},
	{"mt7925", 7, false},
	{"mt7927", 7, false},
	{"mt792", 6, false},
	{"rtl8922", 7, false},
	{"rtl8852", 6, false},
	{"wcn785", 7, false},
	{"wcn685", 6, false},
}

func wifiToken(tok string) int {
	switch tok {
	case "7", "be", "11be":
		return 7
	case "6", "6e", "ax", "11ax":
		return 6
	}
	for _, chip := range wifiChips {
		rest, ok := strings.CutPrefix(tok, chip.prefix)
		if !ok {
			continue
		}
		// bare band prefixes only count when a model number follows
		if !chip.model || (rest != "" && rest[0] >= '0' && rest[0] <= '9') {
			return chip.gen
		}
	}
	return 0
}

// Physical describes chassis and battery.
type Physical struct {
	WeightKg    float64 `json:"weight_kg" yaml:"weight_kg" validate:"gte=0"`
	BatteryWh   float64 `json:"battery_wh" yaml:"battery_wh" validate:"gte=0"`
	ThicknessMm float64 `json:"thickness_mm" yaml:"thickness_mm" validate:"gte=0"`
}

// Entity is one catalog record. Entities are created once from static data
// and never mutated afterwards.
type Entity struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Lineup       string       `json:"lineup"`
	Series       string       `json:"series"`
	Lineage      Lineage      `json:"lineage"`
	Processor    Processor    `json:"processor"`
	Memory       Memory       `json:"memory"`
	Display      Display      `json:"display"`
	Connectivity Connectivity `json:"connectivity"`
	Physical     Physical     `json:"physical"`
}

// GroupKey returns the fine-grained (lineup+series) classification key.
func (e *Entity) GroupKey() string {
	return e.Lineup + "/" + e.Series
}
