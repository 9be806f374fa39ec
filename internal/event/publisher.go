package event

import (
	"context"
	"time"
)

// JobEvent notifica un cambio de estado terminal de un import job.
type JobEvent struct {
	JobID      string    `json:"job_id"`
	UserID     string    `json:"user_id"`
	Status     string    `json:"status"`
	Processed  int64     `json:"processed"`
	Imported   int64     `json:"imported"`
	Failed     int64     `json:"failed"`
	Skipped    int64     `json:"skipped"`
	Error      string    `json:"error,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher publica eventos del ciclo de vida de imports.
type Publisher interface {
	PublishJobEvent(ctx context.Context, ev JobEvent) error
	Close() error
}

type disabledPublisher struct{}

// NewDisabledPublisher devuelve un publisher que descarta todos los eventos.
// Se usa cuando el broker no está configurado.
func NewDisabledPublisher() Publisher {
	return disabledPublisher{}
}

func (disabledPublisher) PublishJobEvent(context.Context, JobEvent) error { return nil }
func (disabledPublisher) Close() error                                    { return nil }
