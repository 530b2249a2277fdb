// Package engine implements the ontology-driven simulation core: workspace
// loading, the ripple executor, snapshot/reset, and rendering.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomhans2/poc-palantir/pkg/config"
	"github.com/tomhans2/poc-palantir/pkg/effect"
	"github.com/tomhans2/poc-palantir/pkg/effect/builtin"
	"github.com/tomhans2/poc-palantir/pkg/expression"
	"github.com/tomhans2/poc-palantir/pkg/graph"
	"github.com/tomhans2/poc-palantir/pkg/history"
	"github.com/tomhans2/poc-palantir/pkg/logging"
	"github.com/tomhans2/poc-palantir/pkg/observer"
	"github.com/tomhans2/poc-palantir/pkg/types"
)

// Engine orchestrates workspace loading, action execution, ripple
// propagation, insight generation, and reset. One engine holds one
// mutable workspace; all public operations except History serialize on
// an internal mutex, so concurrent callers are safe but never parallel.
// History returns copies of the event log under the history queue's own
// lock.
type Engine struct {
	mu sync.Mutex

	cfg    *config.Config
	logger *logging.Logger

	graph     *graph.Graph
	workspace *types.Workspace
	snapshot  *Snapshot
	registry  *effect.Registry
	history   *history.Queue
	evaluator *expression.Evaluator
	observers *observer.Manager

	loadWarnings []string

	// Per-execution buffers, cleared on entry to ExecuteAction so
	// results never leak between executions.
	insights       []types.Insight
	ripplePath     []string
	updatedNodes   []map[string]interface{}
	highlightEdges []types.HighlightEdge
}

// LoadSummary is returned by LoadWorkspace and mirrors the load response
// of the HTTP surface.
type LoadSummary struct {
	Metadata            types.Metadata             `json:"metadata"`
	OntologyDef         types.OntologyDef          `json:"ontology_def"`
	GraphData           types.GraphData            `json:"graph_data"`
	Actions             []types.Action             `json:"actions"`
	RegisteredFunctions []types.RegisteredFunction `json:"registered_functions"`
	Warnings            []string                   `json:"warnings"`
}

// New creates an engine with the given configuration and logger.
// Nil arguments fall back to defaults.
func New(cfg *config.Config, logger *logging.Logger) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.New(logging.DefaultConfig())
	}
	return &Engine{
		cfg:       cfg,
		logger:    logger,
		graph:     graph.New(),
		registry:  effect.NewRegistry(),
		history:   history.NewQueue(cfg.MaxHistoryEvents),
		evaluator: expression.New(),
		observers: observer.NewManager(),
	}
}

// RegisterObserver adds an observer notified of loads, executions, and resets
func (e *Engine) RegisterObserver(obs observer.Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers.Register(obs)
}

// LoadWorkspace parses a workspace document and atomically replaces the
// engine's graph, snapshot, registry, and transient execution buffers.
// Custom effect modules register after the builtins, so a custom effect
// sharing a builtin's name overwrites it. The initial snapshot is captured
// after graph construction and before any execution.
func (e *Engine) LoadWorkspace(document []byte, customModules ...*effect.Module) (*LoadSummary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cfg.MaxPayloadSize > 0 && len(document) > e.cfg.MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(document))
	}

	var ws types.Workspace
	if err := json.Unmarshal(document, &ws); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	if e.cfg.MaxNodes > 0 && len(ws.GraphData.Nodes) > e.cfg.MaxNodes {
		return nil, fmt.Errorf("%w: %d nodes", ErrTooManyNodes, len(ws.GraphData.Nodes))
	}
	if e.cfg.MaxEdges > 0 && len(ws.GraphData.Edges) > e.cfg.MaxEdges {
		return nil, fmt.Errorf("%w: %d edges", ErrTooManyEdges, len(ws.GraphData.Edges))
	}
	if e.cfg.MaxActions > 0 && len(ws.ActionEngine.Actions) > e.cfg.MaxActions {
		return nil, fmt.Errorf("%w: %d actions", ErrTooManyActions, len(ws.ActionEngine.Actions))
	}

	// Build the graph on a fresh instance so a failing document never
	// clobbers the previously loaded workspace.
	g := graph.New()
	for _, node := range ws.GraphData.Nodes {
		attrs := map[string]interface{}{"type": node.Type}
		for k, v := range node.Properties {
			attrs[k] = v
		}
		g.AddNode(node.ID, attrs)
	}
	for _, edge := range ws.GraphData.Edges {
		attrs := map[string]interface{}{"type": edge.Type}
		for k, v := range edge.Properties {
			attrs[k] = v
		}
		if err := g.AddEdge(edge.Source, edge.Target, attrs); err != nil {
			return nil, fmt.Errorf("%w: %s -[%s]-> %s: %v", ErrInvalidDocument, edge.Source, edge.Type, edge.Target, err)
		}
	}

	// Registry: builtins first, custom modules after so custom wins.
	registry := effect.NewRegistry()
	registry.RegisterModule(builtin.Module(), effect.SourceBuiltin)
	for _, m := range customModules {
		if m != nil {
			registry.RegisterModule(m, effect.SourceCustom)
		}
	}

	e.graph = g
	e.workspace = &ws
	e.registry = registry
	e.snapshot = CaptureSnapshot(g)
	e.history.Clear()
	e.clearExecutionBuffers()
	e.loadWarnings = e.collectLoadWarnings(&ws)

	e.logger.WithDomain(ws.Metadata.Domain).
		WithFields(map[string]interface{}{
			"nodes":   g.NodeCount(),
			"edges":   g.EdgeCount(),
			"actions": len(ws.ActionEngine.Actions),
		}).Info("workspace loaded")

	e.observers.Notify(context.Background(), observer.Event{
		Type:      observer.EventWorkspaceLoad,
		Timestamp: time.Now().UTC(),
		Domain:    ws.Metadata.Domain,
	})

	return &LoadSummary{
		Metadata:            ws.Metadata,
		OntologyDef:         e.ontologyWithLabels(ws.OntologyDef),
		GraphData:           e.renderGraph(),
		Actions:             ws.ActionEngine.Actions,
		RegisteredFunctions: registry.List(),
		Warnings:            e.loadWarnings,
	}, nil
}

// collectLoadWarnings flags rules whose effect functions are unregistered
// at load time. Warnings never fail the load.
func (e *Engine) collectLoadWarnings(ws *types.Workspace) []string {
	warnings := []string{}
	for _, action := range ws.ActionEngine.Actions {
		for _, rule := range action.RippleRules {
			name := rule.EffectOnTarget.ActionToTrigger
			if !e.registry.Has(name) {
				warnings = append(warnings,
					fmt.Sprintf("Function '%s' referenced in rule '%s' is not registered in ActionRegistry", name, rule.RuleID))
			}
		}
	}
	return warnings
}

// HasWorkspace reports whether a workspace has been loaded
func (e *Engine) HasWorkspace() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.workspace != nil
}

// HasNode reports whether the loaded graph contains the given node
func (e *Engine) HasNode(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.HasNode(id)
}

// Warnings returns the warnings produced by the last successful load
func (e *Engine) Warnings() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string{}, e.loadWarnings...)
}

// RegisteredFunctions lists the effect registry entries, sorted by name
func (e *Engine) RegisteredFunctions() []types.RegisteredFunction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.List()
}

// AvailableActions returns the actions applicable to the given node,
// filtered by the node's type. An empty node id returns all actions.
func (e *Engine) AvailableActions(nodeID string) []types.Action {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.workspace == nil {
		return nil
	}
	if nodeID == "" {
		return append([]types.Action{}, e.workspace.ActionEngine.Actions...)
	}

	nodeType := e.graph.NodeType(nodeID)
	if nodeType == "" {
		return []types.Action{}
	}

	actions := []types.Action{}
	for _, a := range e.workspace.ActionEngine.Actions {
		if a.TargetNodeType == nodeType {
			actions = append(actions, a)
		}
	}
	return actions
}

// History returns the chronological event log
func (e *Engine) History() []history.Event {
	return e.history.Events()
}

// Reset restores every snapshotted node's property map to its state
// immediately after load, clears the event history and the per-execution
// buffers. Edges and the snapshot itself are untouched.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.workspace == nil {
		return ErrNoWorkspace
	}

	e.snapshot.Restore(e.graph)
	e.history.Clear()
	e.clearExecutionBuffers()

	e.logger.WithDomain(e.workspace.Metadata.Domain).Info("workspace reset")
	e.observers.Notify(context.Background(), observer.Event{
		Type:      observer.EventReset,
		Timestamp: time.Now().UTC(),
		Domain:    e.workspace.Metadata.Domain,
	})
	return nil
}

// clearExecutionBuffers resets the per-execution accumulators
func (e *Engine) clearExecutionBuffers() {
	e.insights = []types.Insight{}
	e.ripplePath = []string{}
	e.updatedNodes = []map[string]interface{}{}
	e.highlightEdges = []types.HighlightEdge{}
}

// findAction looks up an action definition by id in the loaded workspace
func (e *Engine) findAction(actionID string) *types.Action {
	if e.workspace == nil {
		return nil
	}
	for i := range e.workspace.ActionEngine.Actions {
		if e.workspace.ActionEngine.Actions[i].ActionID == actionID {
			return &e.workspace.ActionEngine.Actions[i]
		}
	}
	return nil
}

// ExecuteAction executes the named action on the target node, propagates
// its ripple rules through the graph, and returns the structured result.
// Unknown actions yield an error-status result and push no history event.
// The executor performs exactly one pass over the rules; it never
// re-enters ripple processing on newly updated nodes.
func (e *Engine) ExecuteAction(actionID, targetNodeID string) *types.SimulationResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	executionID := uuid.New().String()
	log := e.logger.WithActionID(actionID).WithNodeID(targetNodeID).WithExecutionID(executionID)

	e.clearExecutionBuffers()
	e.ripplePath = []string{targetNodeID}

	e.observers.Notify(context.Background(), observer.Event{
		Type:         observer.EventActionStart,
		Timestamp:    start.UTC(),
		ExecutionID:  executionID,
		ActionID:     actionID,
		TargetNodeID: targetNodeID,
	})

	action := e.findAction(actionID)
	if action == nil {
		log.Warn("action not found")
		e.notifyActionEnd(executionID, actionID, targetNodeID, start, fmt.Errorf("action %q not found", actionID))
		return &types.SimulationResult{
			Status:  types.StatusError,
			Message: fmt.Sprintf("Action '%s' not found", actionID),
		}
	}

	// Step 1: direct effect on the action's target node.
	if action.DirectEffect != nil && e.graph.HasNode(targetNodeID) {
		prop := action.DirectEffect.PropertyToUpdate
		oldValue := e.graph.NodeAttrs(targetNodeID)[prop]
		e.graph.SetNodeProp(targetNodeID, prop, action.DirectEffect.NewValue)
		e.updatedNodes = append(e.updatedNodes, map[string]interface{}{
			"id":          targetNodeID,
			prop:          action.DirectEffect.NewValue,
			"_old_" + prop: oldValue,
		})
	}

	// Step 2: ripple rules in declaration order.
	for i := range action.RippleRules {
		e.processRippleRule(&action.RippleRules[i], targetNodeID, log)
	}

	result := &types.SimulationResult{
		Status:      types.StatusSuccess,
		ExecutionID: executionID,
		DeltaGraph: types.DeltaGraph{
			UpdatedNodes:   e.updatedNodes,
			HighlightEdges: e.highlightEdges,
		},
		RipplePath: e.ripplePath,
		Insights:   e.insights,
	}

	e.history.Push(actionID, targetNodeID, result)

	log.WithFields(map[string]interface{}{
		"nodes_touched": len(e.ripplePath),
		"insights":      len(e.insights),
		"elapsed_ms":    time.Since(start).Milliseconds(),
	}).Info("action executed")

	e.notifyActionEnd(executionID, actionID, targetNodeID, start, nil)
	return result
}

// notifyActionEnd publishes the action_end observer event
func (e *Engine) notifyActionEnd(executionID, actionID, targetNodeID string, start time.Time, err error) {
	e.observers.Notify(context.Background(), observer.Event{
		Type:         observer.EventActionEnd,
		Timestamp:    time.Now().UTC(),
		ExecutionID:  executionID,
		ActionID:     actionID,
		TargetNodeID: targetNodeID,
		Success:      err == nil,
		ElapsedTime:  time.Since(start),
		NodesTouched: len(e.ripplePath),
		InsightCount: len(e.insights),
		Error:        err,
	})
}
