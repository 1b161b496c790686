package dates

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidRange = errors.New("dates: checkout must be after checkin")
	ErrBadFormat    = errors.New("dates: expected YYYY-MM-DD")
)

const layout = "2006-01-02"

// Date is a calendar day with no time-of-day component. Two Dates are the
// same day iff they are equal; arithmetic moves in whole calendar days, so
// DST shifts cannot produce 23- or 25-hour "days".
type Date struct {
	t time.Time
}

func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func FromTime(t time.Time) Date {
	t = t.UTC()
	return New(t.Year(), t.Month(), t.Day())
}

// Parse reads an ISO calendar date (YYYY-MM-DD), the boundary representation.
func Parse(s string) (Date, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrBadFormat, s)
	}
	return Date{t: t}, nil
}

// MustParse panics on bad input; for fixtures and tests.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

func (d Date) Next() Date { return d.AddDays(1) }

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }
func (d Date) IsZero() bool       { return d.t.IsZero() }

func (d Date) String() string {
	return d.t.Format(layout)
}

func (d Date) Time() time.Time { return d.t }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return ErrBadFormat
	}
	parsed, err := Parse(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DaysBetween returns the number of calendar days from a to b; negative when
// b precedes a.
func DaysBetween(a, b Date) int {
	return int(b.t.Sub(a.t) / (24 * time.Hour))
}

// Range is a half-open interval [CheckIn, CheckOut): the check-in night is
// occupied, the check-out day is not.
type Range struct {
	CheckIn  Date
	CheckOut Date
}

func NewRange(checkIn, checkOut Date) (Range, error) {
	r := Range{CheckIn: checkIn, CheckOut: checkOut}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

func (r Range) Validate() error {
	if r.CheckIn.IsZero() || r.CheckOut.IsZero() {
		return ErrInvalidRange
	}
	if !r.CheckOut.After(r.CheckIn) {
		return ErrInvalidRange
	}
	return nil
}

func (r Range) Nights() int {
	n := DaysBetween(r.CheckIn, r.CheckOut)
	if n < 0 {
		return 0
	}
	return n
}

// ContainsDate reports whether d is an occupied night of the range.
func (r Range) ContainsDate(d Date) bool {
	return !d.Before(r.CheckIn) && d.Before(r.CheckOut)
}

func (r Range) Overlaps(o Range) bool {
	return r.CheckIn.Before(o.CheckOut) && o.CheckIn.Before(r.CheckOut)
}

// Dates lists every occupied night, check-in inclusive, check-out exclusive.
// Empty or inverted ranges yield no dates.
func (r Range) Dates() []Date {
	if r.CheckIn.IsZero() || r.CheckOut.IsZero() {
		return nil
	}
	var out []Date
	for d := r.CheckIn; d.Before(r.CheckOut); d = d.Next() {
		out = append(out, d)
	}
	return out
}
