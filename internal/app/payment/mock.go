// Package payment simulates a card charge; nothing here talks to a real
// processor.
package payment

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrCardDeclined = errors.New("payment: card declined")

// testCardNumber is the only accepted card, as on the mock checkout form.
const testCardNumber = "4242424242424242"

type ChargeRequest struct {
	Amount     int64
	CardNumber string
	Reference  string
}

type Receipt struct {
	ID        string    `json:"id"`
	Amount    int64     `json:"amount"`
	ChargedAt time.Time `json:"charged_at"`
}

type Processor interface {
	Charge(ctx context.Context, req ChargeRequest) (Receipt, error)
}

// MockProcessor approves the test card after a short delay and declines
// everything else.
type MockProcessor struct {
	Delay  time.Duration
	Logger *slog.Logger
	Clock  func() time.Time
}

func (p MockProcessor) Charge(ctx context.Context, req ChargeRequest) (Receipt, error) {
	if p.Delay > 0 {
		select {
		case <-ctx.Done():
			return Receipt{}, ctx.Err()
		case <-time.After(p.Delay):
		}
	}
	card := normalizeCard(req.CardNumber)
	if card != "" && card != testCardNumber {
		if p.Logger != nil {
			p.Logger.Info("mock payment declined", "reference", req.Reference, "amount", req.Amount)
		}
		return Receipt{}, ErrCardDeclined
	}
	receipt := Receipt{ID: "ch_" + uuid.NewString(), Amount: req.Amount, ChargedAt: p.now()}
	if p.Logger != nil {
		p.Logger.Info("mock payment captured", "reference", req.Reference, "amount", req.Amount, "receipt", receipt.ID)
	}
	return receipt, nil
}

func (p MockProcessor) now() time.Time {
	if p.Clock != nil {
		return p.Clock().UTC()
	}
	return time.Now().UTC()
}

func normalizeCard(raw string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(raw))
}
