package observer

import (
	"context"

	"github.com/tomhans2/poc-palantir/pkg/logging"
)

// NoOpObserver ignores all events. Useful as a default when no observer
// is configured.
type NoOpObserver struct{}

// OnEvent implements Observer interface (does nothing)
func (o *NoOpObserver) OnEvent(ctx context.Context, event Event) {}

// LogObserver writes simulation events to a structured logger
type LogObserver struct {
	logger *logging.Logger
}

// NewLogObserver creates an observer that logs events through the given logger
func NewLogObserver(logger *logging.Logger) *LogObserver {
	if logger == nil {
		logger = logging.New(logging.DefaultConfig())
	}
	return &LogObserver{logger: logger}
}

// OnEvent implements Observer interface
func (o *LogObserver) OnEvent(ctx context.Context, event Event) {
	log := o.logger.WithField("event_type", string(event.Type))
	if event.Domain != "" {
		log = log.WithDomain(event.Domain)
	}
	if event.ActionID != "" {
		log = log.WithActionID(event.ActionID).WithNodeID(event.TargetNodeID)
	}

	switch event.Type {
	case EventWorkspaceLoad:
		log.Info("workspace loaded")
	case EventActionStart:
		log.Debug("action execution started")
	case EventActionEnd:
		log = log.WithFields(map[string]interface{}{
			"success":       event.Success,
			"elapsed_ms":    event.ElapsedTime.Milliseconds(),
			"nodes_touched": event.NodesTouched,
			"insights":      event.InsightCount,
		})
		if event.Error != nil {
			log.WithError(event.Error).Warn("action execution failed")
		} else {
			log.Info("action execution completed")
		}
	case EventReset:
		log.Info("workspace reset")
	default:
		log.Info("simulation event")
	}
}
