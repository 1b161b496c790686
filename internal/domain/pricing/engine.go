// Package pricing computes nightly and stay prices for a room from the
// booking ledger: a festival multiplier when the night falls in a festival
// window, and a demand surcharge when hostel-wide occupancy crosses the
// threshold. The engine holds no mutable state; the ledger snapshot and
// inventory size are supplied by the caller on every quote.
package pricing

import (
	"fmt"
	"math"

	"greencurry/internal/domain/availability"
	"greencurry/internal/domain/booking"
	"greencurry/internal/domain/rooms"
	"greencurry/internal/domain/shared/dates"
)

const (
	// highOccupancyThreshold is exclusive: exactly 80% occupancy does not
	// trigger the surcharge.
	highOccupancyThreshold  = 0.8
	highOccupancyMultiplier = 1.2
)

// ErrInvalidInventory re-exported so engine callers match on one package.
var ErrInvalidInventory = availability.ErrInvalidInventory

type Engine struct {
	festivals []Festival
}

func NewEngine(festivals []Festival) *Engine {
	return &Engine{festivals: festivals}
}

// NightlyPrice prices a single night. Surcharges stack multiplicatively and
// the result is rounded half-up to a whole unit.
func (e *Engine) NightlyPrice(room rooms.Room, night dates.Date, ledger []*booking.Booking, totalRooms int) (int64, error) {
	multiplier := 1.0

	if f, ok := e.festivalFor(night); ok {
		multiplier = f.Multiplier
	}

	rate, err := availability.Rate(night, ledger, totalRooms)
	if err != nil {
		return 0, fmt.Errorf("pricing: occupancy for %s: %w", night, err)
	}
	if rate > highOccupancyThreshold {
		multiplier *= highOccupancyMultiplier
	}

	return int64(math.Round(float64(room.BasePrice) * multiplier)), nil
}

// StayTotal sums nightly prices across the half-open stay [checkIn, checkOut).
// A zero check-in or check-out means the form is still incomplete and quotes
// as 0; an inverted range quotes as a zero-night stay, though callers are
// expected to validate ordering before charging anyone.
//
// Occupancy is evaluated against the same ledger snapshot for every night:
// the quoted stay does not count itself toward occupancy on its own nights.
func (e *Engine) StayTotal(room rooms.Room, checkIn, checkOut dates.Date, ledger []*booking.Booking, totalRooms int) (int64, error) {
	if checkIn.IsZero() || checkOut.IsZero() {
		return 0, nil
	}
	var total int64
	for d := checkIn; d.Before(checkOut); d = d.Next() {
		price, err := e.NightlyPrice(room, d, ledger, totalRooms)
		if err != nil {
			return 0, err
		}
		total += price
	}
	return total, nil
}

// NightPrice pairs a night with its computed price for quote breakdowns.
type NightPrice struct {
	Date  dates.Date `json:"date"`
	Price int64      `json:"price"`
}

// StayBreakdown returns the per-night prices and their sum, for quote
// responses that show how the total was built.
func (e *Engine) StayBreakdown(room rooms.Room, checkIn, checkOut dates.Date, ledger []*booking.Booking, totalRooms int) ([]NightPrice, int64, error) {
	if checkIn.IsZero() || checkOut.IsZero() {
		return nil, 0, nil
	}
	var (
		nights []NightPrice
		total  int64
	)
	for d := checkIn; d.Before(checkOut); d = d.Next() {
		price, err := e.NightlyPrice(room, d, ledger, totalRooms)
		if err != nil {
			return nil, 0, err
		}
		nights = append(nights, NightPrice{Date: d, Price: price})
		total += price
	}
	return nights, total, nil
}

// festivalFor scans the table in order; with overlapping windows the first
// entry wins. The shipped table has no overlaps, so ordering only matters if
// one is ever introduced.
func (e *Engine) festivalFor(night dates.Date) (Festival, bool) {
	for _, f := range e.festivals {
		if f.Contains(night) {
			return f, true
		}
	}
	return Festival{}, false
}
