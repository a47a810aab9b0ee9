package scoring

import (
	"math"

	"github.com/okian/rigscore/internal/domain/model"
)

// Component is one sub-factor of a dimension score. Points keep fractional
// precision; only the Breakdown total is rounded.
type Component struct {
	Name   string  `json:"name"`
	Points float64 `json:"points"`
	Max    float64 `json:"max"`
}

// Breakdown explains how a dimension score was composed.
type Breakdown struct {
	Dimension  model.Dimension `json:"dimension"`
	Components []Component     `json:"components"`
	Total      int             `json:"total"`
}

func newBreakdown(d model.Dimension, comps ...Component) Breakdown {
	sum := 0.0
	for _, c := range comps {
		sum += c.Points
	}
	return Breakdown{Dimension: d, Components: comps, Total: total(sum)}
}

// total rounds the aggregate once and caps it to the 0-100 range.
func total(sum float64) int {
	return int(math.Round(clamp(sum, 0, maxScoreValue)))
}

func (s *Scorer) cpuBreakdown(e *model.Entity) Breakdown {
	f, _ := s.bench.CPU.Lookup(e.Processor.CPU)
	return newBreakdown(model.DimCPU,
		Component{Name: "benchmark", Points: clamp(f.Composite, 0, maxScoreValue), Max: maxScoreValue},
	)
}

func (s *Scorer) gpuBreakdown(e *model.Entity) Breakdown {
	f, _ := s.bench.GPU.Lookup(e.Processor.GPU)
	return newBreakdown(model.DimGPU,
		Component{Name: "benchmark", Points: clamp(f.Graphics, 0, maxScoreValue), Max: maxScoreValue},
	)
}

func displayBreakdown(e *model.Entity) Breakdown {
	d := e.Display
	touch := 0.0
	if d.Touch {
		touch = displayTouchPts
	}
	return newBreakdown(model.DimDisplay,
		Component{Name: "resolution", Points: displayResolutionPts * ratio(float64(d.Pixels()), refPixels), Max: displayResolutionPts},
		Component{Name: "panel", Points: panelPoints[d.Panel], Max: panelPoints[model.PanelOLED]},
		Component{Name: "brightness", Points: displayBrightnessPts * ratio(float64(d.Nits), refNits), Max: displayBrightnessPts},
		Component{Name: "refresh", Points: displayRefreshPts * span(float64(d.RefreshHz), refreshBaseline, refreshCeiling), Max: displayRefreshPts},
		Component{Name: "touch", Points: touch, Max: displayTouchPts},
		Component{Name: "size", Points: displaySizePts * span(d.SizeInches, sizeFloorInches, sizeCeilingInches), Max: displaySizePts},
	)
}

func memoryBreakdown(e *model.Entity) Breakdown {
	m := e.Memory
	return newBreakdown(model.DimMemory,
		Component{Name: "ram", Points: ramLadder.points(float64(m.RAMGB)), Max: 25},
		Component{Name: "max_ram", Points: maxLadder.points(float64(m.MaxRAMGB)), Max: 15},
		Component{Name: "technology", Points: memoryTechPoints(m.RAMType), Max: 15},
		Component{Name: "storage", Points: ssdLadder.points(float64(m.StorageGB)), Max: 20},
		Component{Name: "upgradability", Points: upgradePoints(m), Max: upgradeMultiSlotPts},
		Component{Name: "storage_devices", Points: bayLadder.points(float64(m.StorageSlots)), Max: 10},
	)
}

func connectivityBreakdown(e *model.Entity) Breakdown {
	c := e.Connectivity
	flag := func(present bool, pts float64) float64 {
		if present {
			return pts
		}
		return 0
	}
	return newBreakdown(model.DimConnectivity,
		Component{Name: "thunderbolt", Points: thunderboltPerPort * float64(clampPorts(c.Thunderbolt, thunderboltMaxPort)), Max: thunderboltPerPort * thunderboltMaxPort},
		Component{Name: "usb_a", Points: usbAPerPort * float64(clampPorts(c.USBA, usbAMaxPort)), Max: usbAPerPort * usbAMaxPort},
		Component{Name: "ethernet", Points: flag(c.Ethernet, ethernetPts), Max: ethernetPts},
		Component{Name: "hdmi", Points: flag(c.HDMI, hdmiPts), Max: hdmiPts},
		Component{Name: "sd_card", Points: flag(c.SDCard, sdCardPts), Max: sdCardPts},
		Component{Name: "wifi", Points: wifiPoints(c), Max: 15},
		Component{Name: "bluetooth", Points: flag(c.Bluetooth >= bluetoothMinVer, bluetoothPts), Max: bluetoothPts},
		Component{Name: "drive_bays", Points: flag(e.Memory.StorageSlots >= 2, multiBayPts), Max: multiBayPts},
		Component{Name: "aux_video", Points: flag(c.DisplayPort, auxVideoPts), Max: auxVideoPts},
	)
}

func portabilityBreakdown(e *model.Entity) Breakdown {
	p := e.Physical
	mass := 0.0
	if p.WeightKg > 0 {
		mass = clamp(100*(1-(p.WeightKg-massFloorKg)/(massCeilingKg-massFloorKg)), 0, 100)
	}
	battery := clamp(100*p.BatteryWh/batteryCeiling, 0, 100)
	return newBreakdown(model.DimPortability,
		Component{Name: "mass", Points: massWeight * mass, Max: massWeight * 100},
		Component{Name: "battery", Points: batteryWeight * battery, Max: batteryWeight * 100},
	)
}

func clampPorts(n, limit int) int {
	if n < 0 {
		return 0
	}
	if n > limit {
		return limit
	}
	return n
}
