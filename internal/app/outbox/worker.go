package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrWorkerNotConfigured = errors.New("outbox: worker missing dependencies")

// PendingEvent is a claimed outbox entry with its delivery bookkeeping.
type PendingEvent struct {
	EventRecord
	Attempts int
}

// Queue is the claim/ack surface a publishing worker drains.
type Queue interface {
	Claim(ctx context.Context, workerID string) (*PendingEvent, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error
}

type Producer interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// Worker drains the outbox, wrapping each record as a CloudEvents envelope
// and publishing it to <aggregate>.events.v1.
type Worker struct {
	Queue       Queue
	Producer    Producer
	Interval    time.Duration
	TopicPrefix string
	Source      string
	ID          string
	Backoff     []time.Duration
}

func (w *Worker) Run(ctx context.Context) error {
	if w.Queue == nil || w.Producer == nil {
		return ErrWorkerNotConfigured
	}
	ticker := time.NewTicker(w.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.processOnce(ctx); err != nil {
				return err
			}
		}
	}
}

func (w *Worker) processOnce(ctx context.Context) error {
	ev, err := w.Queue.Claim(ctx, w.workerID())
	if err != nil || ev == nil {
		return err
	}
	topic := w.topicFor(ev.Name)
	payload, headers, err := w.formatPayload(ev)
	if err != nil {
		_ = w.Queue.MarkFailed(ctx, ev.ID, w.nextRetry(ev.Attempts), err.Error())
		return nil
	}
	if err := w.Producer.Publish(ctx, topic, ev.Aggregate, payload, headers); err != nil {
		_ = w.Queue.MarkFailed(ctx, ev.ID, w.nextRetry(ev.Attempts), err.Error())
		return nil
	}
	return w.Queue.MarkSent(ctx, ev.ID)
}

func (w *Worker) formatPayload(ev *PendingEvent) ([]byte, map[string]string, error) {
	data := map[string]any{}
	if err := json.Unmarshal(ev.Payload, &data); err != nil {
		return nil, nil, err
	}
	envelope := map[string]any{
		"specversion":     "1.0",
		"id":              uuid.NewString(),
		"type":            ev.Name + ".v1",
		"source":          w.source(),
		"time":            ev.OccurredAt,
		"datacontenttype": "application/json",
		"data":            data,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return nil, nil, err
	}
	headers := map[string]string{"content-type": "application/cloudevents+json"}
	for k, v := range ev.Headers {
		headers[k] = v
	}
	return payload, headers, nil
}

func (w *Worker) topicFor(name string) string {
	base := name
	if idx := strings.IndexRune(name, '.'); idx > 0 {
		base = name[:idx]
	}
	topic := base + ".events.v1"
	if w.TopicPrefix != "" {
		topic = w.TopicPrefix + topic
	}
	return topic
}

func (w *Worker) workerID() string {
	if w.ID != "" {
		return w.ID
	}
	return uuid.NewString()
}

func (w *Worker) interval() time.Duration {
	if w.Interval <= 0 {
		return 500 * time.Millisecond
	}
	return w.Interval
}

func (w *Worker) nextRetry(attempts int) time.Time {
	if attempts < len(w.Backoff) {
		return time.Now().Add(w.Backoff[attempts])
	}
	if len(w.Backoff) > 0 {
		return time.Now().Add(w.Backoff[len(w.Backoff)-1])
	}
	return time.Now().Add(5 * time.Second)
}

func (w *Worker) source() string {
	if w.Source != "" {
		return w.Source
	}
	return "app://greencurry"
}
