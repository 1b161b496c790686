// Package availability derives occupancy facts from the booking ledger: how
// many rooms are taken on a night, the dashboard percentage, per-day calendar
// badges and the blocked-date set shown to a prospective guest.
package availability

import (
	"errors"
	"math"
	"sort"

	"greencurry/internal/domain/booking"
	"greencurry/internal/domain/shared/dates"
)

// ErrInvalidInventory guards every occupancy-rate division: a zero or
// negative room count must fail loudly, never produce NaN on a charging path.
var ErrInvalidInventory = errors.New("availability: invalid inventory size")

// OccupiedCount counts confirmed bookings whose half-open stay covers the
// night, hostel-wide. The count is well-defined even if a caller let
// overlapping bookings for one room into the ledger.
func OccupiedCount(night dates.Date, ledger []*booking.Booking) int {
	n := 0
	for _, b := range ledger {
		if b == nil || b.Status != booking.StatusConfirmed {
			continue
		}
		if b.Stay.ContainsDate(night) {
			n++
		}
	}
	return n
}

// Rate is the fraction of total inventory confirmed for the night.
func Rate(night dates.Date, ledger []*booking.Booking, totalRooms int) (float64, error) {
	if totalRooms <= 0 {
		return 0, ErrInvalidInventory
	}
	return float64(OccupiedCount(night, ledger)) / float64(totalRooms), nil
}

// OccupancyPercent is the dashboard headline number, rounded to the nearest
// whole percent.
func OccupancyPercent(today dates.Date, ledger []*booking.Booking, totalRooms int) (int, error) {
	rate, err := Rate(today, ledger, totalRooms)
	if err != nil {
		return 0, err
	}
	return int(math.Round(rate * 100)), nil
}

type DayOccupancy struct {
	Date   dates.Date `json:"date"`
	Booked int        `json:"booked"`
	Total  int        `json:"total"`
}

// CalendarSummary returns booked/total for every day in [from, to).
func CalendarSummary(from, to dates.Date, ledger []*booking.Booking, totalRooms int) ([]DayOccupancy, error) {
	if totalRooms <= 0 {
		return nil, ErrInvalidInventory
	}
	var out []DayOccupancy
	for d := from; d.Before(to); d = d.Next() {
		out = append(out, DayOccupancy{Date: d, Booked: OccupiedCount(d, ledger), Total: totalRooms})
	}
	return out, nil
}

// BookedDates unions every occupied night of the room's confirmed bookings,
// sorted and deduplicated. It backs the blocked calendar in the booking form.
func BookedDates(roomID string, ledger []*booking.Booking) []dates.Date {
	seen := make(map[string]dates.Date)
	for _, b := range ledger {
		if b == nil || b.RoomID != roomID || b.Status != booking.StatusConfirmed {
			continue
		}
		for _, d := range b.Stay.Dates() {
			seen[d.String()] = d
		}
	}
	out := make([]dates.Date, 0, len(seen))
	for _, d := range seen {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
