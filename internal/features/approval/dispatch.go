package approval

import (
	"context"

	"go.uber.org/zap"
)

// Listener consumes engine events after commit. Implementations must be
// idempotent: delivery is at-least-once and a failing listener does not
// undo the committed transition.
type Listener interface {
	Name() string
	HandleApprovalEvent(ctx context.Context, event Event) error
}

// Dispatcher fans events out to every registered listener. Listener errors
// are logged and contained; they never surface to the acting caller.
type Dispatcher struct {
	listeners []Listener
	logger    *zap.Logger
}

func NewDispatcher(listeners []Listener, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{listeners: listeners, logger: logger}
}

func (d *Dispatcher) Dispatch(ctx context.Context, events []Event) {
	for _, event := range events {
		for _, l := range d.listeners {
			if err := l.HandleApprovalEvent(ctx, event); err != nil {
				d.logger.Error("approval listener failed",
					zap.String("listener", l.Name()),
					zap.String("event", string(event.Type)),
					zap.String("request", event.Request.String()),
					zap.Error(err),
				)
			}
		}
	}
}
