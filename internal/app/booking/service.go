// Package booking is the reservation workflow around the pricing engine:
// quote, reserve-and-pay, admin edits, dashboard. It owns validation the
// engine deliberately does not (range ordering, past check-ins, conflicts).
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"greencurry/internal/app/notify"
	"greencurry/internal/app/outbox"
	"greencurry/internal/app/payment"
	"greencurry/internal/domain/availability"
	domainbooking "greencurry/internal/domain/booking"
	"greencurry/internal/domain/pricing"
	"greencurry/internal/domain/rooms"
	"greencurry/internal/domain/shared/dates"
)

var (
	ErrCheckInInPast     = errors.New("booking: check-in date is in the past")
	ErrStatusNotAllowed  = errors.New("booking: status change not allowed")
	ErrPaymentIncomplete = errors.New("booking: payment was not completed")
)

type Service struct {
	Rooms    rooms.Repository
	Bookings domainbooking.Repository
	Engine   *pricing.Engine
	Payments payment.Processor
	Mailer   notify.Notifier
	Outbox   outbox.Outbox
	Encoder  outbox.EventEncoder
	Logger   *slog.Logger
	Clock    func() time.Time
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// Quote prices a prospective stay against a fresh ledger snapshot. Missing or
// unparseable dates are not an error: the form is still being filled in, and
// the quote comes back as zero nights, total 0.
type Quote struct {
	RoomID string               `json:"room_id"`
	Nights []pricing.NightPrice `json:"nights,omitempty"`
	Total  int64                `json:"total"`
}

func (s *Service) Quote(ctx context.Context, roomID, checkInRaw, checkOutRaw string) (Quote, error) {
	room, err := s.Rooms.ByID(ctx, roomID)
	if err != nil {
		return Quote{}, err
	}
	checkIn, errIn := dates.Parse(checkInRaw)
	checkOut, errOut := dates.Parse(checkOutRaw)
	if errIn != nil || errOut != nil {
		return Quote{RoomID: room.ID, Total: 0}, nil
	}

	ledger, totalRooms, err := s.snapshot(ctx)
	if err != nil {
		return Quote{}, err
	}
	nights, total, err := s.Engine.StayBreakdown(room, checkIn, checkOut, ledger, totalRooms)
	if err != nil {
		return Quote{}, err
	}
	return Quote{RoomID: room.ID, Nights: nights, Total: total}, nil
}

type ReserveParams struct {
	ID         string
	RoomID     string
	GuestName  string
	GuestEmail string
	GuestPhone string
	CheckIn    string
	CheckOut   string
	Notes      string
	CardNumber string
}

// Reserve runs the whole checkout: validate, quote, charge, confirm, persist.
// The store performs the availability check and insert atomically, so two
// concurrent reservations for the last overlapping nights cannot both land.
func (s *Service) Reserve(ctx context.Context, params ReserveParams) (*domainbooking.Booking, error) {
	room, err := s.Rooms.ByID(ctx, params.RoomID)
	if err != nil {
		return nil, err
	}
	checkIn, err := dates.Parse(params.CheckIn)
	if err != nil {
		return nil, err
	}
	checkOut, err := dates.Parse(params.CheckOut)
	if err != nil {
		return nil, err
	}
	stay, err := dates.NewRange(checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if checkIn.Before(dates.FromTime(now)) {
		return nil, ErrCheckInInPast
	}

	ledger, totalRooms, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	// Early reject for a friendlier error; the store still re-checks under
	// its own lock.
	for _, existing := range ledger {
		if existing.RoomID == room.ID && existing.Status == domainbooking.StatusConfirmed && existing.Stay.Overlaps(stay) {
			return nil, domainbooking.ErrRoomUnavailable
		}
	}

	total, err := s.Engine.StayTotal(room, checkIn, checkOut, ledger, totalRooms)
	if err != nil {
		return nil, err
	}

	id := params.ID
	if id == "" {
		id = uuid.NewString()
	}
	b, err := domainbooking.New(domainbooking.CreateParams{
		ID:         id,
		RoomID:     room.ID,
		GuestName:  params.GuestName,
		GuestEmail: params.GuestEmail,
		GuestPhone: params.GuestPhone,
		Stay:       stay,
		Notes:      params.Notes,
		CreatedAt:  now,
	})
	if err != nil {
		return nil, err
	}

	receipt, err := s.Payments.Charge(ctx, payment.ChargeRequest{
		Amount:     total,
		CardNumber: params.CardNumber,
		Reference:  b.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPaymentIncomplete, err)
	}
	if err := b.Confirm(receipt.Amount, s.now()); err != nil {
		return nil, err
	}

	if err := s.Bookings.Create(ctx, b); err != nil {
		return nil, err
	}
	s.drainEvents(ctx, b)

	if s.Mailer != nil {
		if err := s.Mailer.BookingConfirmed(ctx, b, room); err != nil && s.Logger != nil {
			s.Logger.Warn("confirmation email failed", "booking_id", b.ID, "error", err)
		}
	}
	if s.Logger != nil {
		s.Logger.Info("booking confirmed", "booking_id", b.ID, "room_id", room.ID, "total", b.PricePaid)
	}
	return b, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domainbooking.Booking, error) {
	return s.Bookings.ByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*domainbooking.Booking, error) {
	return s.Bookings.List(ctx)
}

// UpdateParams carries the admin-editable fields; nil means leave unchanged.
type UpdateParams struct {
	Status    *string
	Notes     *string
	GuestName *string
}

func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*domainbooking.Booking, error) {
	b, err := s.Bookings.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if params.Status != nil && domainbooking.Status(*params.Status) != b.Status {
		if domainbooking.Status(*params.Status) != domainbooking.StatusCancelled {
			return nil, ErrStatusNotAllowed
		}
		if err := b.Cancel(now); err != nil {
			return nil, err
		}
	}
	if params.Notes != nil {
		b.UpdateNotes(*params.Notes, now)
	}
	if params.GuestName != nil {
		if err := b.UpdateGuestName(*params.GuestName, now); err != nil {
			return nil, err
		}
	}
	if err := s.Bookings.Save(ctx, b); err != nil {
		return nil, err
	}
	s.drainEvents(ctx, b)
	return b, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Bookings.Delete(ctx, id)
}

// RoomCalendar returns the blocked dates shown to a prospective guest.
func (s *Service) RoomCalendar(ctx context.Context, roomID string) ([]dates.Date, error) {
	if _, err := s.Rooms.ByID(ctx, roomID); err != nil {
		return nil, err
	}
	ledger, err := s.Bookings.List(ctx)
	if err != nil {
		return nil, err
	}
	return availability.BookedDates(roomID, ledger), nil
}

type DashboardStats struct {
	OccupancyPercent int                         `json:"occupancy_percent"`
	TotalRooms       int                         `json:"total_rooms"`
	TotalBookings    int                         `json:"total_bookings"`
	Confirmed        int                         `json:"confirmed"`
	Cancelled        int                         `json:"cancelled"`
	Revenue          int64                       `json:"revenue"`
	Calendar         []availability.DayOccupancy `json:"calendar,omitempty"`
}

// Dashboard aggregates the admin headline numbers for "today" and a per-day
// calendar over [from, to) when a window is given.
func (s *Service) Dashboard(ctx context.Context, from, to dates.Date) (DashboardStats, error) {
	ledger, totalRooms, err := s.snapshot(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	today := dates.FromTime(s.now())
	percent, err := availability.OccupancyPercent(today, ledger, totalRooms)
	if err != nil {
		return DashboardStats{}, err
	}
	stats := DashboardStats{
		OccupancyPercent: percent,
		TotalRooms:       totalRooms,
		TotalBookings:    len(ledger),
	}
	for _, b := range ledger {
		switch b.Status {
		case domainbooking.StatusConfirmed:
			stats.Confirmed++
			stats.Revenue += b.PricePaid
		case domainbooking.StatusCancelled:
			stats.Cancelled++
		}
	}
	if !from.IsZero() && !to.IsZero() && from.Before(to) {
		calendar, err := availability.CalendarSummary(from, to, ledger, totalRooms)
		if err != nil {
			return DashboardStats{}, err
		}
		stats.Calendar = calendar
	}
	return stats, nil
}

func (s *Service) snapshot(ctx context.Context) ([]*domainbooking.Booking, int, error) {
	ledger, err := s.Bookings.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	totalRooms, err := s.Rooms.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return ledger, totalRooms, nil
}

func (s *Service) drainEvents(ctx context.Context, b *domainbooking.Booking) {
	if err := outbox.RecordDomainEvents(ctx, s.Outbox, s.Encoder, b.PendingEvents()); err != nil && s.Logger != nil {
		s.Logger.Warn("outbox record failed", "booking_id", b.ID, "error", err)
	}
	b.ClearEvents()
}
