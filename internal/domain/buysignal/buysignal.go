// Package buysignal decides whether to buy now or wait, from a price baseline,
// the current best price and the recurring sale calendar.
//
// The decision is a strict first-match table; every Decision names the one
// rule that fired.
package buysignal

import (
	"time"

	"github.com/okian/rigscore/internal/domain/model"
)

// Decision table constants.
const (
	DefaultLookaheadDays = 45

	lowTolerance     = 1.05
	minDiscount      = 0.10
	typicalTolerance = 1.10
)

// Rule names the row of the decision table that fired.
type Rule string

// Rules, in evaluation order.
const (
	RuleUnset         Rule = "unset-baseline"
	RuleNearLow       Rule = "near-historical-low"
	RuleDiscount      Rule = "discount-below-typical"
	RuleUpcomingSale  Rule = "upcoming-sale"
	RuleNoTrigger     Rule = "no-trigger"
	RuleNoPriceSignal Rule = "no-current-price"
)

// Decision is the recommendation plus the rule behind it. Event and DaysUntil
// are set only for the upcoming-sale rule.
type Decision struct {
	Signal    model.Signal `json:"signal"`
	Rule      Rule         `json:"rule"`
	Event     string       `json:"event,omitempty"`
	DaysUntil int          `json:"days_until,omitempty"`
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLookahead sets how many days ahead a sale may start and still warrant
// holding. Non-positive values are ignored.
func WithLookahead(days int) Option {
	return func(e *Engine) {
		if days > 0 {
			e.lookahead = days
		}
	}
}

// Engine evaluates the decision table. It holds no mutable state.
type Engine struct {
	lookahead int
}

// New constructs an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{lookahead: DefaultLookaheadDays}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Lookahead returns the configured lookahead window in days.
func (e *Engine) Lookahead() int { return e.lookahead }

// Signal returns the recommendation only.
func (e *Engine) Signal(b model.PriceBaseline, current float64, events []model.SaleEvent, today time.Time) model.Signal {
	return e.Explain(b, current, events, today).Signal
}

// Explain evaluates the decision table; the first matching rule wins.
func (e *Engine) Explain(b model.PriceBaseline, current float64, events []model.SaleEvent, today time.Time) Decision {
	if b.Unset() {
		return Decision{Signal: model.SignalWait, Rule: RuleUnset}
	}
	if current <= 0 {
		return Decision{Signal: model.SignalWait, Rule: RuleNoPriceSignal}
	}
	if current <= b.HistoricalLow*lowTolerance {
		return Decision{Signal: model.SignalBuyNow, Rule: RuleNearLow}
	}
	discount := (b.MSRP - current) / b.MSRP
	if current <= b.TypicalRetail && discount > minDiscount {
		return Decision{Signal: model.SignalGoodDeal, Rule: RuleDiscount}
	}
	if current <= b.TypicalRetail*typicalTolerance {
		if next, ok := NextEvent(events, today); ok && next.DaysUntil <= e.lookahead {
			return Decision{
				Signal:    model.SignalHold,
				Rule:      RuleUpcomingSale,
				Event:     next.Event.Name,
				DaysUntil: next.DaysUntil,
			}
		}
	}
	return Decision{Signal: model.SignalWait, Rule: RuleNoTrigger}
}
