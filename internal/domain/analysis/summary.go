package analysis

import (
	"fmt"
	"strings"

	"github.com/okian/rigscore/internal/domain/model"
)

const (
	ultraportableKg = 1.4
	portableKg      = 2.0
)

const genericClass = "laptop"

var classLabels = map[string]string{ //nolint:gochecknoglobals // static lookup table
	"thinkpad":  "business laptop",
	"latitude":  "business laptop",
	"elitebook": "business laptop",
	"xps":       "premium ultrabook",
	"zenbook":   "ultrabook",
	"macbook":   "premium notebook",
	"legion":    "gaming laptop",
	"rog":       "gaming laptop",
	"precision": "mobile workstation",
	"zbook":     "mobile workstation",
	"framework": "modular laptop",
}

var panelLabels = map[model.Panel]string{ //nolint:gochecknoglobals // static lookup table
	model.PanelOLED:    "OLED",
	model.PanelMiniLED: "Mini-LED",
	model.PanelIPS:     "IPS",
	model.PanelVA:      "VA",
	model.PanelTN:      "TN",
}

// ClassLabel resolves the classification label of a lineup.
func ClassLabel(lineup string) string {
	if l, ok := classLabels[strings.ToLower(strings.TrimSpace(lineup))]; ok {
		return l
	}
	return genericClass
}

// PortabilityLabel buckets a mass in kilograms. Unknown mass reads as portable.
func PortabilityLabel(kg float64) string {
	switch {
	case kg > 0 && kg < ultraportableKg:
		return "ultraportable"
	case kg <= 0 || kg < portableKg:
		return "portable"
	default:
		return "desktop-replacement"
	}
}

// ResolutionLabel names a panel resolution by its horizontal pixel count.
func ResolutionLabel(width int) string {
	switch {
	case width >= 3840:
		return "4K"
	case width >= 2880:
		return "3K"
	case width >= 2560:
		return "QHD"
	case width >= 1920:
		return "FHD"
	case width > 0:
		return "HD"
	default:
		return ""
	}
}

func upgradePhrase(m model.Memory) string {
	switch {
	case upgradeable(m):
		return "user-upgradeable"
	case m.Slots == 1 && !m.Soldered:
		return "single-slot upgradeable"
	default:
		return "non-upgradeable"
	}
}

func joinWords(words ...string) string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w != "" {
			out = append(out, w)
		}
	}
	return strings.Join(out, " ")
}

func displayPhrase(d model.Display) string {
	size := ""
	if d.SizeInches > 0 {
		size = fmt.Sprintf("%.1f-inch", d.SizeInches)
	}
	return joinWords(size, panelLabels[d.Panel], ResolutionLabel(d.Width), "display")
}

func memoryPhrase(m model.Memory) string {
	kind := joinWords(m.RAMType, "memory")
	if m.RAMGB <= 0 {
		return fmt.Sprintf("%s of unlisted size (%s)", kind, upgradePhrase(m))
	}
	return fmt.Sprintf("%d GB of %s (%s)", m.RAMGB, kind, upgradePhrase(m))
}

func article(word string) string {
	if word != "" && strings.ContainsRune("aeiou", rune(word[0])) {
		return "an"
	}
	return "a"
}

func physicalPhrase(p model.Physical) string {
	weight := "an unlisted weight"
	if p.WeightKg > 0 {
		weight = fmt.Sprintf("%.2f kg", p.WeightKg)
	}
	battery := "an unlisted"
	if p.BatteryWh > 0 {
		battery = fmt.Sprintf("a %.0f Wh", p.BatteryWh)
	}
	return fmt.Sprintf("weighs %s with %s battery", weight, battery)
}

// Summary renders the single-sentence description of an entity.
func Summary(e *model.Entity) string {
	if e == nil {
		return ""
	}
	name := e.Name
	if name == "" {
		name = e.ID
	}
	portability := PortabilityLabel(e.Physical.WeightKg)
	return fmt.Sprintf("The %s is %s %s %s with a %s and %s; it %s.",
		name,
		article(portability),
		portability,
		ClassLabel(e.Lineup),
		displayPhrase(e.Display),
		memoryPhrase(e.Memory),
		physicalPhrase(e.Physical),
	)
}
