// Package history records simulation executions in chronological order.
package history

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomhans2/poc-palantir/pkg/types"
)

// Event is one recorded simulation execution
type Event struct {
	EventID      string           `json:"event_id"`
	Timestamp    string           `json:"timestamp"`
	ActionID     string           `json:"action_id"`
	TargetNodeID string           `json:"target_node_id"`
	RipplePath   []string         `json:"ripple_path"`
	Insights     []types.Insight  `json:"insights"`
	DeltaGraph   types.DeltaGraph `json:"delta_graph"`
}

// Queue is an append-only, mutex-guarded event log. Only the ripple
// executor pushes; Reset clears. A maxEvents of 0 means unbounded.
type Queue struct {
	events    []Event
	maxEvents int
	mu        sync.RWMutex
}

// NewQueue creates an event queue. maxEvents caps retained history;
// 0 keeps everything.
func NewQueue(maxEvents int) *Queue {
	return &Queue{maxEvents: maxEvents}
}

// Push records one successful execution with an auto-generated event id
// and an ISO-8601 UTC timestamp.
func (q *Queue) Push(actionID, targetNodeID string, result *types.SimulationResult) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.events = append(q.events, Event{
		EventID:      uuid.New().String(),
		Timestamp:    time.Now().UTC().Format(time.RFC3339Nano),
		ActionID:     actionID,
		TargetNodeID: targetNodeID,
		RipplePath:   result.RipplePath,
		Insights:     result.Insights,
		DeltaGraph:   result.DeltaGraph,
	})

	if q.maxEvents > 0 && len(q.events) > q.maxEvents {
		q.events = q.events[len(q.events)-q.maxEvents:]
	}
}

// Events returns the log in chronological order as a copy
func (q *Queue) Events() []Event {
	q.mu.RLock()
	defer q.mu.RUnlock()

	out := make([]Event, len(q.events))
	copy(out, q.events)
	return out
}

// Len returns the number of recorded events
func (q *Queue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.events)
}

// Clear removes all events
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = nil
}
