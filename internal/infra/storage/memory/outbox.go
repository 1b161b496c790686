package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	appoutbox "greencurry/internal/app/outbox"
)

const (
	stateNew     = "NEW"
	stateClaimed = "CLAIMED"
	stateSent    = "SENT"
	stateFailed  = "FAILED"
)

type outboxEntry struct {
	record      appoutbox.EventRecord
	state       string
	attempts    int
	nextAttempt time.Time
	claimedBy   string
	lastError   string
}

// Outbox is the in-memory event store drained by the publishing worker.
type Outbox struct {
	mu      sync.Mutex
	entries map[string]*outboxEntry
}

func NewOutbox() *Outbox {
	return &Outbox{entries: make(map[string]*outboxEntry)}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entries[record.ID] = &outboxEntry{record: record, state: stateNew, nextAttempt: time.Now().UTC()}
	return nil
}

func (o *Outbox) Claim(ctx context.Context, workerID string) (*appoutbox.PendingEvent, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := time.Now().UTC()
	var candidates []*outboxEntry
	for _, e := range o.entries {
		if (e.state == stateNew || e.state == stateFailed) && !e.nextAttempt.After(now) {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].record.OccurredAt.Before(candidates[j].record.OccurredAt)
	})
	e := candidates[0]
	e.state = stateClaimed
	e.claimedBy = workerID
	return &appoutbox.PendingEvent{EventRecord: e.record, Attempts: e.attempts}, nil
}

func (o *Outbox) MarkSent(ctx context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if e, ok := o.entries[id]; ok {
		e.state = stateSent
	}
	return nil
}

func (o *Outbox) MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if e, ok := o.entries[id]; ok {
		e.state = stateFailed
		e.attempts++
		e.nextAttempt = next
		e.lastError = errMsg
	}
	return nil
}

// Pending reports how many entries still await publication; used by tests
// and the readiness probe.
func (o *Outbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, e := range o.entries {
		if e.state != stateSent {
			n++
		}
	}
	return n
}
