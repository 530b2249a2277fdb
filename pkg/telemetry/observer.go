package telemetry

import (
	"context"

	"github.com/tomhans2/poc-palantir/pkg/observer"
)

// Observer bridges engine events to telemetry metrics. Register it on the
// engine to have every load, execution, and reset recorded.
type Observer struct {
	provider *Provider
}

// NewObserver creates a telemetry observer backed by the given provider
func NewObserver(provider *Provider) *Observer {
	return &Observer{provider: provider}
}

// OnEvent implements observer.Observer
func (o *Observer) OnEvent(ctx context.Context, event observer.Event) {
	if o.provider == nil {
		return
	}

	switch event.Type {
	case observer.EventWorkspaceLoad:
		o.provider.RecordWorkspaceLoad(ctx, event.Domain)
	case observer.EventActionEnd:
		o.provider.RecordSimulation(ctx, event.ActionID, event.ElapsedTime, event.Success, event.NodesTouched, event.InsightCount)
	case observer.EventReset:
		o.provider.RecordWorkspaceReset(ctx)
	}
}
