package queue

import (
	"context"
	"encoding/json"
)

// Job defines a queue job handler.
type Job interface {
	// Name identifies the job in logs.
	Name() string

	// Type is the message type the job handles.
	Type() string

	// Handle processes one message payload. A non-nil error schedules a retry.
	Handle(ctx context.Context, payload json.RawMessage) error
}
