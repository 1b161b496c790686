package booking

import (
	"time"

	"greencurry/internal/domain/shared/dates"
)

type BookingRequested struct {
	BookingID string      `json:"booking_id"`
	RoomID    string      `json:"room_id"`
	Stay      dates.Range `json:"stay"`
	At        time.Time   `json:"at"`
}

func (e BookingRequested) EventName() string     { return "booking.requested" }
func (e BookingRequested) AggregateID() string   { return e.BookingID }
func (e BookingRequested) OccurredAt() time.Time { return e.At }

type BookingConfirmed struct {
	BookingID string      `json:"booking_id"`
	RoomID    string      `json:"room_id"`
	Stay      dates.Range `json:"stay"`
	PricePaid int64       `json:"price_paid"`
	At        time.Time   `json:"at"`
}

func (e BookingConfirmed) EventName() string     { return "booking.confirmed" }
func (e BookingConfirmed) AggregateID() string   { return e.BookingID }
func (e BookingConfirmed) OccurredAt() time.Time { return e.At }

type BookingCancelled struct {
	BookingID string    `json:"booking_id"`
	RoomID    string    `json:"room_id"`
	At        time.Time `json:"at"`
}

func (e BookingCancelled) EventName() string     { return "booking.cancelled" }
func (e BookingCancelled) AggregateID() string   { return e.BookingID }
func (e BookingCancelled) OccurredAt() time.Time { return e.At }
