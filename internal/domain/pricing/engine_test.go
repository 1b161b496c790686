package pricing

import (
	"errors"
	"fmt"
	"testing"

	"greencurry/internal/domain/availability"
	"greencurry/internal/domain/booking"
	"greencurry/internal/domain/rooms"
	"greencurry/internal/domain/shared/dates"
)

var (
	ensuite  = rooms.Room{ID: "101", Name: "Green Orchid (101)", Category: rooms.CategoryEnsuite, BasePrice: 450, HasPrivateBath: true, Capacity: 1}
	standard = rooms.Room{ID: "201", Name: "Bamboo Suite (201)", Category: rooms.CategoryStandard, BasePrice: 375, Capacity: 1}
)

func confirmedStay(id, roomID, checkIn, checkOut string) *booking.Booking {
	return &booking.Booking{
		ID:     id,
		RoomID: roomID,
		Stay:   dates.Range{CheckIn: dates.MustParse(checkIn), CheckOut: dates.MustParse(checkOut)},
		Status: booking.StatusConfirmed,
	}
}

func coveringLedger(n int, day string) []*booking.Booking {
	end := dates.MustParse(day).Next().String()
	ledger := make([]*booking.Booking, 0, n)
	for i := 0; i < n; i++ {
		ledger = append(ledger, confirmedStay(fmt.Sprintf("bk-%d", i), fmt.Sprintf("r-%d", i), day, end))
	}
	return ledger
}

func TestNightlyPriceBaseCase(t *testing.T) {
	engine := NewEngine(DefaultFestivals())
	got, err := engine.NightlyPrice(standard, dates.MustParse("2025-05-01"), nil, 9)
	if err != nil {
		t.Fatalf("NightlyPrice: %v", err)
	}
	if got != 375 {
		t.Fatalf("base price night = %d, want 375", got)
	}
}

func TestFestivalInclusiveBounds(t *testing.T) {
	engine := NewEngine(DefaultFestivals())
	cases := []struct {
		night string
		want  int64
	}{
		{"2025-04-11", 450}, // day before Songkran
		{"2025-04-12", 675}, // first festival day, 450 * 1.5
		{"2025-04-16", 675}, // last festival day is inclusive
		{"2025-04-17", 450}, // one day outside the range
	}
	for _, tc := range cases {
		got, err := engine.NightlyPrice(ensuite, dates.MustParse(tc.night), nil, 9)
		if err != nil {
			t.Fatalf("NightlyPrice(%s): %v", tc.night, err)
		}
		if got != tc.want {
			t.Errorf("night %s = %d, want %d", tc.night, got, tc.want)
		}
	}
}

func TestFirstMatchingFestivalWins(t *testing.T) {
	overlapping := []Festival{
		{Name: "first", Start: dates.MustParse("2025-07-01"), End: dates.MustParse("2025-07-10"), Multiplier: 1.2},
		{Name: "second", Start: dates.MustParse("2025-07-05"), End: dates.MustParse("2025-07-15"), Multiplier: 2.0},
	}
	engine := NewEngine(overlapping)
	got, err := engine.NightlyPrice(standard, dates.MustParse("2025-07-06"), nil, 9)
	if err != nil {
		t.Fatalf("NightlyPrice: %v", err)
	}
	if got != 450 { // 375 * 1.2 from the first entry, not 750 from the second
		t.Fatalf("overlap price = %d, want 450", got)
	}
}

func TestOccupancySurchargeThreshold(t *testing.T) {
	engine := NewEngine(nil)

	// Exactly 0.8 occupancy (4 of 5): threshold is strict, no surcharge.
	got, err := engine.NightlyPrice(standard, dates.MustParse("2025-05-10"), coveringLedger(4, "2025-05-10"), 5)
	if err != nil {
		t.Fatalf("NightlyPrice: %v", err)
	}
	if got != 375 {
		t.Fatalf("price at exactly 80%% = %d, want 375", got)
	}

	// 5 of 6 (~0.833 > 0.8): surcharge applies. round(375 * 1.2) = 450.
	got, err = engine.NightlyPrice(standard, dates.MustParse("2025-05-10"), coveringLedger(5, "2025-05-10"), 6)
	if err != nil {
		t.Fatalf("NightlyPrice: %v", err)
	}
	if got != 450 {
		t.Fatalf("price above 80%% = %d, want 450", got)
	}
}

func TestOccupancyIgnoresNonConfirmedAndOtherNights(t *testing.T) {
	engine := NewEngine(nil)
	night := dates.MustParse("2025-06-02")
	ledger := []*booking.Booking{
		confirmedStay("a", "r-1", "2025-06-01", "2025-06-03"),
		// Half-open: checks out on the 2nd, does not occupy it.
		confirmedStay("b", "r-2", "2025-05-30", "2025-06-02"),
		{ID: "c", RoomID: "r-3", Stay: dates.Range{CheckIn: dates.MustParse("2025-06-01"), CheckOut: dates.MustParse("2025-06-05")}, Status: booking.StatusPending},
		{ID: "d", RoomID: "r-4", Stay: dates.Range{CheckIn: dates.MustParse("2025-06-01"), CheckOut: dates.MustParse("2025-06-05")}, Status: booking.StatusCancelled},
	}
	if n := availability.OccupiedCount(night, ledger); n != 1 {
		t.Fatalf("OccupiedCount = %d, want 1", n)
	}
	got, err := engine.NightlyPrice(standard, night, ledger, 9)
	if err != nil {
		t.Fatalf("NightlyPrice: %v", err)
	}
	if got != 375 {
		t.Fatalf("price = %d, want 375", got)
	}
}

func TestSurchargesStackMultiplicatively(t *testing.T) {
	engine := NewEngine(DefaultFestivals())
	// Songkran (x1.5) plus high occupancy (x1.2): 450 * 1.5 * 1.2 = 810.
	got, err := engine.NightlyPrice(ensuite, dates.MustParse("2025-04-13"), coveringLedger(5, "2025-04-13"), 6)
	if err != nil {
		t.Fatalf("NightlyPrice: %v", err)
	}
	if got != 810 {
		t.Fatalf("stacked price = %d, want 810", got)
	}
}

func TestRoundingHalfUp(t *testing.T) {
	engine := NewEngine(nil)
	// 451 * 1.2 = 541.2 rounds down to 541.
	oddRoom := rooms.Room{ID: "x", BasePrice: 451}
	got, err := engine.NightlyPrice(oddRoom, dates.MustParse("2025-05-10"), coveringLedger(5, "2025-05-10"), 6)
	if err != nil {
		t.Fatalf("NightlyPrice: %v", err)
	}
	if got != 541 {
		t.Fatalf("541.2 rounded to %d, want 541", got)
	}

	// 375 * 1.5 = 562.5: a true half rounds up to 563.
	halfEngine := NewEngine([]Festival{{Name: "half", Start: dates.MustParse("2025-08-01"), End: dates.MustParse("2025-08-01"), Multiplier: 1.5}})
	got, err = halfEngine.NightlyPrice(standard, dates.MustParse("2025-08-01"), nil, 9)
	if err != nil {
		t.Fatalf("NightlyPrice: %v", err)
	}
	if got != 563 {
		t.Fatalf("562.5 rounded to %d, want 563", got)
	}
}

func TestInvalidInventoryFailsFast(t *testing.T) {
	engine := NewEngine(nil)
	if _, err := engine.NightlyPrice(standard, dates.MustParse("2025-05-01"), nil, 0); !errors.Is(err, ErrInvalidInventory) {
		t.Fatalf("zero inventory err = %v", err)
	}
	if _, err := engine.StayTotal(standard, dates.MustParse("2025-05-01"), dates.MustParse("2025-05-02"), nil, -1); !errors.Is(err, ErrInvalidInventory) {
		t.Fatalf("negative inventory err = %v", err)
	}
}

func TestDeterminism(t *testing.T) {
	engine := NewEngine(DefaultFestivals())
	ledger := coveringLedger(5, "2025-04-13")
	first, err := engine.NightlyPrice(ensuite, dates.MustParse("2025-04-13"), ledger, 6)
	if err != nil {
		t.Fatalf("NightlyPrice: %v", err)
	}
	for i := 0; i < 100; i++ {
		again, err := engine.NightlyPrice(ensuite, dates.MustParse("2025-04-13"), ledger, 6)
		if err != nil {
			t.Fatalf("NightlyPrice: %v", err)
		}
		if again != first {
			t.Fatalf("run %d returned %d, first run %d", i, again, first)
		}
	}
}

func TestStayTotalEndToEnd(t *testing.T) {
	engine := NewEngine(DefaultFestivals())
	// Bamboo Suite, empty ledger, 7 rooms, 3 nights in May: 3 * 375 = 1125.
	got, err := engine.StayTotal(standard, dates.MustParse("2025-05-01"), dates.MustParse("2025-05-04"), nil, 7)
	if err != nil {
		t.Fatalf("StayTotal: %v", err)
	}
	if got != 1125 {
		t.Fatalf("total = %d, want 1125", got)
	}
}

func TestStayTotalSoftZeroCases(t *testing.T) {
	engine := NewEngine(DefaultFestivals())
	var zero dates.Date

	got, err := engine.StayTotal(standard, zero, dates.MustParse("2025-05-04"), nil, 7)
	if err != nil || got != 0 {
		t.Fatalf("missing check-in: total=%d err=%v", got, err)
	}
	got, err = engine.StayTotal(standard, dates.MustParse("2025-05-01"), zero, nil, 7)
	if err != nil || got != 0 {
		t.Fatalf("missing check-out: total=%d err=%v", got, err)
	}
	// Zero-night identity.
	d := dates.MustParse("2025-05-01")
	got, err = engine.StayTotal(standard, d, d, nil, 7)
	if err != nil || got != 0 {
		t.Fatalf("same-day stay: total=%d err=%v", got, err)
	}
	// Inverted range behaves as a zero-night stay.
	got, err = engine.StayTotal(standard, dates.MustParse("2025-05-04"), dates.MustParse("2025-05-01"), nil, 7)
	if err != nil || got != 0 {
		t.Fatalf("inverted range: total=%d err=%v", got, err)
	}
}

func TestStayTotalSplitAdditivity(t *testing.T) {
	engine := NewEngine(DefaultFestivals())
	ledger := []*booking.Booking{
		confirmedStay("a", "r-1", "2025-04-10", "2025-04-20"),
		confirmedStay("b", "r-2", "2025-04-12", "2025-04-15"),
	}
	d1 := dates.MustParse("2025-04-10")
	d2 := dates.MustParse("2025-04-14")
	d3 := dates.MustParse("2025-04-19")

	whole, err := engine.StayTotal(ensuite, d1, d3, ledger, 9)
	if err != nil {
		t.Fatalf("StayTotal: %v", err)
	}
	left, err := engine.StayTotal(ensuite, d1, d2, ledger, 9)
	if err != nil {
		t.Fatalf("StayTotal: %v", err)
	}
	right, err := engine.StayTotal(ensuite, d2, d3, ledger, 9)
	if err != nil {
		t.Fatalf("StayTotal: %v", err)
	}
	if whole != left+right {
		t.Fatalf("split totals differ: %d vs %d + %d", whole, left, right)
	}
}

func TestStayBreakdownMatchesTotal(t *testing.T) {
	engine := NewEngine(DefaultFestivals())
	nights, total, err := engine.StayBreakdown(ensuite, dates.MustParse("2025-04-11"), dates.MustParse("2025-04-14"), nil, 9)
	if err != nil {
		t.Fatalf("StayBreakdown: %v", err)
	}
	if len(nights) != 3 {
		t.Fatalf("breakdown has %d nights, want 3", len(nights))
	}
	var sum int64
	for _, n := range nights {
		sum += n.Price
	}
	if sum != total {
		t.Fatalf("breakdown sum %d != total %d", sum, total)
	}
	wantTotal, err := engine.StayTotal(ensuite, dates.MustParse("2025-04-11"), dates.MustParse("2025-04-14"), nil, 9)
	if err != nil {
		t.Fatalf("StayTotal: %v", err)
	}
	if total != wantTotal {
		t.Fatalf("breakdown total %d != StayTotal %d", total, wantTotal)
	}
}
