package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"greencurry/internal/domain/shared/dates"
	"greencurry/internal/domain/shared/events"
)

var (
	ErrBookingNotFound = errors.New("booking: not found")
	ErrDuplicateID     = errors.New("booking: id already exists")
	ErrRoomUnavailable = errors.New("booking: room already booked for these dates")
	ErrInvalidState    = errors.New("booking: invalid state transition")
	ErrGuestRequired   = errors.New("booking: guest name and email required")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Booking is a reservation of one room for a half-open stay. PricePaid is
// captured at confirmation and never recomputed: pricing-rule changes must
// not touch historical bookings.
type Booking struct {
	ID         string
	RoomID     string
	GuestName  string
	GuestEmail string
	GuestPhone string
	Stay       dates.Range
	Status     Status
	Notes      string
	PricePaid  int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Version    int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context) ([]*Booking, error)
	// Create must perform the availability check and the insert atomically:
	// it rejects with ErrRoomUnavailable when a confirmed booking for the
	// same room overlaps the stay, and with ErrDuplicateID on id reuse.
	Create(ctx context.Context, b *Booking) error
	Save(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, id string) error
}

type CreateParams struct {
	ID         string
	RoomID     string
	GuestName  string
	GuestEmail string
	GuestPhone string
	Stay       dates.Range
	Notes      string
	CreatedAt  time.Time
}

// New builds a pending booking awaiting payment.
func New(params CreateParams) (*Booking, error) {
	if strings.TrimSpace(params.GuestName) == "" || strings.TrimSpace(params.GuestEmail) == "" {
		return nil, ErrGuestRequired
	}
	if err := params.Stay.Validate(); err != nil {
		return nil, err
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:         params.ID,
		RoomID:     params.RoomID,
		GuestName:  strings.TrimSpace(params.GuestName),
		GuestEmail: strings.TrimSpace(params.GuestEmail),
		GuestPhone: strings.TrimSpace(params.GuestPhone),
		Stay:       params.Stay,
		Notes:      params.Notes,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	b.Record(BookingRequested{BookingID: b.ID, RoomID: b.RoomID, Stay: b.Stay, At: now})
	return b, nil
}

// Confirm moves a pending booking to confirmed after a successful charge,
// freezing the paid amount.
func (b *Booking) Confirm(pricePaid int64, now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidState
	}
	b.Status = StatusConfirmed
	b.PricePaid = pricePaid
	b.UpdatedAt = now.UTC()
	b.Record(BookingConfirmed{BookingID: b.ID, RoomID: b.RoomID, Stay: b.Stay, PricePaid: pricePaid, At: b.UpdatedAt})
	return nil
}

// Cancel is the only admin-triggered transition; cancelled is terminal and
// there is no reinstatement path.
func (b *Booking) Cancel(now time.Time) error {
	if b.Status != StatusConfirmed {
		return ErrInvalidState
	}
	b.Status = StatusCancelled
	b.UpdatedAt = now.UTC()
	b.Record(BookingCancelled{BookingID: b.ID, RoomID: b.RoomID, At: b.UpdatedAt})
	return nil
}

func (b *Booking) UpdateNotes(notes string, now time.Time) {
	b.Notes = notes
	b.UpdatedAt = now.UTC()
}

func (b *Booking) UpdateGuestName(name string, now time.Time) error {
	if strings.TrimSpace(name) == "" {
		return ErrGuestRequired
	}
	b.GuestName = strings.TrimSpace(name)
	b.UpdatedAt = now.UTC()
	return nil
}
