package types

import (
	"errors"
	"fmt"
	"time"
)

var ErrPeriodReversed = errors.New("the start of the period must not be after its end")

// Period is an inclusive range of calendar days.
type Period struct {
	Start Date `json:"start" form:"start"`
	End   Date `json:"end" form:"end"`
}

// NewPeriod returns the period from start to end, both inclusive.
func NewPeriod(start, end Date) (Period, error) {
	if end.Before(start) {
		return Period{}, fmt.Errorf("%w: %s > %s", ErrPeriodReversed, start, end)
	}
	return Period{Start: start, End: end}, nil
}

// CurrentMonth returns the period covering the month of today.
func CurrentMonth() Period {
	return MonthOf(time.Now()).Period()
}

// Bounds returns the half-open instant range [from, to) covered by the period.
func (p Period) Bounds() (from, to time.Time) {
	return p.Start.Time(), p.End.AddDays(1).Time()
}

// Contains reports whether t falls on one of the days of the period.
func (p Period) Contains(t time.Time) bool {
	from, to := p.Bounds()
	return !t.Before(from) && t.Before(to)
}

// String returns the period formatted as "start..end".
func (p Period) String() string {
	return fmt.Sprintf("%s..%s", p.Start, p.End)
}
