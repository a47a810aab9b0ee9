package buysignal

import (
	"time"

	"github.com/okian/rigscore/internal/domain/model"
)

const (
	daysPerWeek = 7
	hoursPerDay = 24
)

// Upcoming is a sale event projected onto a concrete date.
type Upcoming struct {
	Event     model.SaleEvent
	Start     time.Time
	DaysUntil int
}

// StartDate projects an event onto a calendar year. Week 0 starts on the first
// of the month; week n starts on day 1+7(n-1), clamped to the month's last day.
func StartDate(ev model.SaleEvent, year int) time.Time {
	day := 1
	if ev.Week > 0 {
		day = 1 + daysPerWeek*(ev.Week-1)
	}
	if last := daysIn(ev.Month, year); day > last {
		day = last
	}
	return time.Date(year, ev.Month, day, 0, 0, 0, 0, time.UTC)
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysUntil returns the nearest non-negative whole-day offset from today to the
// event's start, checking this year and next year. ok is false for events with
// an invalid month.
func DaysUntil(ev model.SaleEvent, today time.Time) (days int, start time.Time, ok bool) {
	if ev.Month < time.January || ev.Month > time.December {
		return 0, time.Time{}, false
	}
	base := midnight(today)
	for _, y := range [2]int{base.Year(), base.Year() + 1} {
		s := StartDate(ev, y)
		if s.Before(base) {
			continue
		}
		return int(s.Sub(base).Hours() / hoursPerDay), s, true
	}
	return 0, time.Time{}, false
}

// NextEvent returns the event starting soonest on or after today. Ties keep
// the earlier event in input order.
func NextEvent(events []model.SaleEvent, today time.Time) (Upcoming, bool) {
	var (
		best  Upcoming
		found bool
	)
	for _, ev := range events {
		days, start, ok := DaysUntil(ev, today)
		if !ok {
			continue
		}
		if !found || days < best.DaysUntil {
			best = Upcoming{Event: ev, Start: start, DaysUntil: days}
			found = true
		}
	}
	return best, found
}
