// Package notify renders guest notifications. The only implementation writes
// the "email" to the log; real delivery is out of scope.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"greencurry/internal/domain/booking"
	"greencurry/internal/domain/rooms"
)

type Notifier interface {
	BookingConfirmed(ctx context.Context, b *booking.Booking, room rooms.Room) error
}

type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) BookingConfirmed(ctx context.Context, b *booking.Booking, room rooms.Room) error {
	if m.Logger == nil {
		return nil
	}
	body := fmt.Sprintf(
		"Hello %s, your reservation for %s is confirmed. Confirmation %s, check-in %s, check-out %s, total paid %d THB.",
		b.GuestName, room.Name, b.ID, b.Stay.CheckIn, b.Stay.CheckOut, b.PricePaid,
	)
	m.Logger.Info("mock confirmation email",
		"to", b.GuestEmail,
		"subject", "Sawadee-kap! Your stay at Green Curry Hostel is confirmed.",
		"body", body,
	)
	return nil
}
