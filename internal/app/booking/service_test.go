package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	domainbooking "greencurry/internal/domain/booking"
	"greencurry/internal/domain/pricing"
	"greencurry/internal/domain/rooms"
	"greencurry/internal/domain/shared/dates"
	"greencurry/internal/infra/storage/memory"

	"greencurry/internal/app/payment"
)

var fixedNow = time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

func newService(festivals []pricing.Festival) (*Service, *memory.BookingRepository, *memory.Outbox) {
	bookings := memory.NewBookingRepository()
	box := memory.NewOutbox()
	svc := &Service{
		Rooms:    memory.NewRoomRepository(rooms.DefaultCatalog()),
		Bookings: bookings,
		Engine:   pricing.NewEngine(festivals),
		Payments: payment.MockProcessor{},
		Outbox:   box,
		Clock:    func() time.Time { return fixedNow },
	}
	return svc, bookings, box
}

func TestQuoteIncompleteFormIsZero(t *testing.T) {
	svc, _, _ := newService(pricing.DefaultFestivals())
	ctx := context.Background()

	for _, tc := range [][2]string{
		{"", ""},
		{"2025-05-01", ""},
		{"", "2025-05-04"},
		{"garbage", "2025-05-04"},
	} {
		q, err := svc.Quote(ctx, "201", tc[0], tc[1])
		if err != nil {
			t.Fatalf("Quote(%q, %q): %v", tc[0], tc[1], err)
		}
		if q.Total != 0 || len(q.Nights) != 0 {
			t.Errorf("Quote(%q, %q) = %+v, want zero quote", tc[0], tc[1], q)
		}
	}
}

func TestQuoteUnknownRoom(t *testing.T) {
	svc, _, _ := newService(nil)
	if _, err := svc.Quote(context.Background(), "999", "2025-05-01", "2025-05-04"); !errors.Is(err, rooms.ErrRoomNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestQuoteThreeNightStay(t *testing.T) {
	svc, _, _ := newService(pricing.DefaultFestivals())
	q, err := svc.Quote(context.Background(), "201", "2025-05-01", "2025-05-04")
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if q.Total != 1125 || len(q.Nights) != 3 {
		t.Fatalf("quote = %+v, want 3 nights totalling 1125", q)
	}
}

func TestReserveConfirmsAndFreezesPrice(t *testing.T) {
	svc, repo, box := newService(pricing.DefaultFestivals())
	ctx := context.Background()

	b, err := svc.Reserve(ctx, ReserveParams{
		ID:         "bk-1",
		RoomID:     "201",
		GuestName:  "Mali",
		GuestEmail: "mali@example.com",
		GuestPhone: "+66 81 000 0000",
		CheckIn:    "2025-05-01",
		CheckOut:   "2025-05-04",
		CardNumber: "4242 4242 4242 4242",
	})
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if b.Status != domainbooking.StatusConfirmed {
		t.Fatalf("status = %s", b.Status)
	}
	if b.PricePaid != 1125 {
		t.Fatalf("price paid = %d, want 1125", b.PricePaid)
	}
	if box.Pending() != 2 { // requested + confirmed
		t.Fatalf("outbox pending = %d, want 2", box.Pending())
	}

	// A later pricing-rule change must not touch the stored amount.
	svc.Engine = pricing.NewEngine([]pricing.Festival{
		{Name: "everything doubles", Start: dates.MustParse("2025-01-01"), End: dates.MustParse("2025-12-31"), Multiplier: 2.0},
	})
	stored, err := repo.ByID(ctx, "bk-1")
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if stored.PricePaid != 1125 {
		t.Fatalf("stored price changed to %d", stored.PricePaid)
	}
}

func TestReserveValidation(t *testing.T) {
	svc, _, _ := newService(nil)
	ctx := context.Background()
	base := ReserveParams{
		RoomID: "201", GuestName: "Mali", GuestEmail: "m@x.c",
		CheckIn: "2025-05-01", CheckOut: "2025-05-04",
	}

	inverted := base
	inverted.CheckIn, inverted.CheckOut = "2025-05-04", "2025-05-01"
	if _, err := svc.Reserve(ctx, inverted); !errors.Is(err, dates.ErrInvalidRange) {
		t.Fatalf("inverted range err = %v", err)
	}

	past := base
	past.CheckIn, past.CheckOut = "2025-03-01", "2025-03-04"
	if _, err := svc.Reserve(ctx, past); !errors.Is(err, ErrCheckInInPast) {
		t.Fatalf("past check-in err = %v", err)
	}

	malformed := base
	malformed.CheckIn = "01/05/2025"
	if _, err := svc.Reserve(ctx, malformed); !errors.Is(err, dates.ErrBadFormat) {
		t.Fatalf("malformed date err = %v", err)
	}
}

func TestReserveRejectsConflicts(t *testing.T) {
	svc, _, _ := newService(nil)
	ctx := context.Background()
	params := ReserveParams{
		ID: "bk-1", RoomID: "201", GuestName: "Mali", GuestEmail: "m@x.c",
		CheckIn: "2025-05-01", CheckOut: "2025-05-04",
	}
	if _, err := svc.Reserve(ctx, params); err != nil {
		t.Fatalf("first reserve: %v", err)
	}
	clash := params
	clash.ID = "bk-2"
	clash.CheckIn, clash.CheckOut = "2025-05-03", "2025-05-06"
	if _, err := svc.Reserve(ctx, clash); !errors.Is(err, domainbooking.ErrRoomUnavailable) {
		t.Fatalf("conflict err = %v", err)
	}
	// Check-out day is free under the half-open rule.
	backToBack := params
	backToBack.ID = "bk-3"
	backToBack.CheckIn, backToBack.CheckOut = "2025-05-04", "2025-05-06"
	if _, err := svc.Reserve(ctx, backToBack); err != nil {
		t.Fatalf("back-to-back reserve: %v", err)
	}
}

func TestReserveDeclinedCardLeavesNoBooking(t *testing.T) {
	svc, repo, _ := newService(nil)
	ctx := context.Background()
	_, err := svc.Reserve(ctx, ReserveParams{
		ID: "bk-1", RoomID: "201", GuestName: "Mali", GuestEmail: "m@x.c",
		CheckIn: "2025-05-01", CheckOut: "2025-05-04",
		CardNumber: "1111 2222 3333 4444",
	})
	if !errors.Is(err, ErrPaymentIncomplete) || !errors.Is(err, payment.ErrCardDeclined) {
		t.Fatalf("err = %v", err)
	}
	list, _ := repo.List(ctx)
	if len(list) != 0 {
		t.Fatalf("declined payment left %d bookings", len(list))
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	svc, _, _ := newService(nil)
	ctx := context.Background()
	if _, err := svc.Reserve(ctx, ReserveParams{
		ID: "bk-1", RoomID: "201", GuestName: "Mali", GuestEmail: "m@x.c",
		CheckIn: "2025-05-01", CheckOut: "2025-05-04",
	}); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	pendingStatus := string(domainbooking.StatusPending)
	if _, err := svc.Update(ctx, "bk-1", UpdateParams{Status: &pendingStatus}); !errors.Is(err, ErrStatusNotAllowed) {
		t.Fatalf("confirmed->pending err = %v", err)
	}

	cancelled := string(domainbooking.StatusCancelled)
	b, err := svc.Update(ctx, "bk-1", UpdateParams{Status: &cancelled})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if b.Status != domainbooking.StatusCancelled {
		t.Fatalf("status = %s", b.Status)
	}

	confirmedStatus := string(domainbooking.StatusConfirmed)
	if _, err := svc.Update(ctx, "bk-1", UpdateParams{Status: &confirmedStatus}); err == nil {
		t.Fatal("reinstating a cancelled booking should fail")
	}
}

func TestUpdateNotesAndGuestName(t *testing.T) {
	svc, _, _ := newService(nil)
	ctx := context.Background()
	if _, err := svc.Reserve(ctx, ReserveParams{
		ID: "bk-1", RoomID: "201", GuestName: "Mali", GuestEmail: "m@x.c",
		CheckIn: "2025-05-01", CheckOut: "2025-05-04",
	}); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	notes := "vegetarian breakfast"
	name := "Mali T."
	b, err := svc.Update(ctx, "bk-1", UpdateParams{Notes: &notes, GuestName: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if b.Notes != notes || b.GuestName != name {
		t.Fatalf("updated booking = %+v", b)
	}
}

func TestRoomCalendarBlockedDates(t *testing.T) {
	svc, _, _ := newService(nil)
	ctx := context.Background()
	if _, err := svc.Reserve(ctx, ReserveParams{
		ID: "bk-1", RoomID: "201", GuestName: "Mali", GuestEmail: "m@x.c",
		CheckIn: "2025-06-01", CheckOut: "2025-06-03",
	}); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	blocked, err := svc.RoomCalendar(ctx, "201")
	if err != nil {
		t.Fatalf("RoomCalendar: %v", err)
	}
	want := []string{"2025-06-01", "2025-06-02"}
	if len(blocked) != len(want) {
		t.Fatalf("blocked = %v", blocked)
	}
	for i, w := range want {
		if blocked[i].String() != w {
			t.Errorf("blocked[%d] = %s, want %s", i, blocked[i], w)
		}
	}
}

func TestDashboard(t *testing.T) {
	svc, _, _ := newService(nil)
	ctx := context.Background()
	// Two stays covering "today" (2025-04-01) and one cancelled booking.
	for _, p := range []ReserveParams{
		{ID: "bk-1", RoomID: "201", GuestName: "A", GuestEmail: "a@x.c", CheckIn: "2025-04-01", CheckOut: "2025-04-03"},
		{ID: "bk-2", RoomID: "202", GuestName: "B", GuestEmail: "b@x.c", CheckIn: "2025-04-01", CheckOut: "2025-04-02"},
		{ID: "bk-3", RoomID: "203", GuestName: "C", GuestEmail: "c@x.c", CheckIn: "2025-07-01", CheckOut: "2025-07-02"},
	} {
		if _, err := svc.Reserve(ctx, p); err != nil {
			t.Fatalf("reserve %s: %v", p.ID, err)
		}
	}
	cancelled := string(domainbooking.StatusCancelled)
	if _, err := svc.Update(ctx, "bk-3", UpdateParams{Status: &cancelled}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	stats, err := svc.Dashboard(ctx, dates.MustParse("2025-04-01"), dates.MustParse("2025-04-03"))
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if stats.TotalRooms != 9 || stats.TotalBookings != 3 || stats.Confirmed != 2 || stats.Cancelled != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	// 2 of 9 rooms confirmed tonight -> 22%.
	if stats.OccupancyPercent != 22 {
		t.Fatalf("occupancy = %d, want 22", stats.OccupancyPercent)
	}
	if stats.Revenue != 375*2+375 {
		t.Fatalf("revenue = %d", stats.Revenue)
	}
	if len(stats.Calendar) != 2 || stats.Calendar[0].Booked != 2 || stats.Calendar[1].Booked != 1 {
		t.Fatalf("calendar = %+v", stats.Calendar)
	}
}
