package model

import (
	"time"
)

// PriceCategory tags the condition an observed price refers to.
type PriceCategory string

// Price categories.
const (
	PriceNew         PriceCategory = "new"
	PriceRefurbished PriceCategory = "refurbished"
	PriceUsed        PriceCategory = "used"
)

// PriceObservation is one observed offer for an entity.
type PriceObservation struct {
	EntityID string        `json:"entity_id"`
	Retailer string        `json:"retailer"`
	Price    float64       `json:"price"`
	Date     time.Time     `json:"date"`
	Category PriceCategory `json:"category"`
}

// ObservationsFor returns the observations recorded for one entity, in input order.
func ObservationsFor(obs []PriceObservation, entityID string) []PriceObservation {
	var out []PriceObservation
	for i := range obs {
		if obs[i].EntityID == entityID {
			out = append(out, obs[i])
		}
	}
	return out
}

// BestPrice returns the minimum positive price among observations for an
// entity. ok is false when no usable observation exists.
func BestPrice(obs []PriceObservation, entityID string) (price float64, ok bool) {
	for i := range obs {
		o := &obs[i]
		if o.EntityID != entityID || o.Price <= 0 {
			continue
		}
		if !ok || o.Price < price {
			price = o.Price
			ok = true
		}
	}
	return price, ok
}

// PriceBaseline carries the reference prices for an entity.
type PriceBaseline struct {
	EntityID      string    `json:"entity_id"`
	MSRP          float64   `json:"msrp"`
	TypicalRetail float64   `json:"typical_retail"`
	HistoricalLow float64   `json:"historical_low"`
	LowDate       time.Time `json:"low_date"`
	LowRetailer   string    `json:"low_retailer"`
}

// Unset reports whether the baseline lacks the figures needed for a confident
// recommendation. Zero MSRP or historical low is the sentinel for "unset".
func (b PriceBaseline) Unset() bool {
	return b.MSRP == 0 || b.HistoricalLow == 0
}

// SaleEvent is a recurring annual sale, not bound to a particular year.
type SaleEvent struct {
	Name         string     `json:"name"`
	Month        time.Month `json:"month"`
	Week         int        `json:"week,omitempty"` // 0 = unspecified, otherwise 1..5
	DurationDays int        `json:"duration_days"`
	DiscountMin  float64    `json:"discount_min"`
	DiscountMax  float64    `json:"discount_max"`
}

// Signal is the purchase-timing recommendation.
type Signal string

// Signals.
const (
	SignalBuyNow   Signal = "buy-now"
	SignalGoodDeal Signal = "good-deal"
	SignalHold     Signal = "hold"
	SignalWait     Signal = "wait"
)
