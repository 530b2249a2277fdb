package engine

import (
	"fmt"

	"github.com/tomhans2/poc-palantir/pkg/dsl"
	"github.com/tomhans2/poc-palantir/pkg/effect"
	"github.com/tomhans2/poc-palantir/pkg/graph"
	"github.com/tomhans2/poc-palantir/pkg/insight"
	"github.com/tomhans2/poc-palantir/pkg/logging"
	"github.com/tomhans2/poc-palantir/pkg/types"
)

// processRippleRule parses the rule's propagation path, walks the matching
// edges of the source node, evaluates the condition per neighbor, and
// applies the secondary effect. A malformed path selects no neighbors.
func (e *Engine) processRippleRule(rule *types.RippleRule, sourceNodeID string, log *logging.Logger) {
	path, ok := dsl.Parse(rule.PropagationPath)
	if !ok {
		log.WithRuleID(rule.RuleID).Warnf("malformed propagation path %q", rule.PropagationPath)
		return
	}

	var edges []*graph.Edge
	if path.Direction == dsl.DirectionIncoming {
		edges = e.graph.InEdges(sourceNodeID)
	} else {
		edges = e.graph.OutEdges(sourceNodeID)
	}

	for _, edge := range edges {
		neighborID := edge.Target
		if path.Direction == dsl.DirectionIncoming {
			neighborID = edge.Source
		}

		if edge.Type() != path.EdgeType {
			continue
		}
		if e.graph.NodeType(neighborID) != path.NodeType {
			continue
		}

		// A failing or erroring condition skips the neighbor, never
		// aborts the action.
		if rule.Condition != "" && !e.evalCondition(rule, sourceNodeID, neighborID, log) {
			continue
		}

		e.highlightEdges = append(e.highlightEdges, types.HighlightEdge{
			Source: edge.Source,
			Target: edge.Target,
			Type:   edge.Type(),
		})

		if !e.inRipplePath(neighborID) {
			e.ripplePath = append(e.ripplePath, neighborID)
		}

		e.applySecondaryEffect(rule, sourceNodeID, neighborID, log)
	}
}

// inRipplePath reports whether a node was already touched this execution
func (e *Engine) inRipplePath(nodeID string) bool {
	for _, id := range e.ripplePath {
		if id == nodeID {
			return true
		}
	}
	return false
}

// evalCondition evaluates the rule condition against attribute snapshots
// of the source node and the candidate neighbor
func (e *Engine) evalCondition(rule *types.RippleRule, sourceID, targetID string, log *logging.Logger) bool {
	sourceAttrs := types.DeepCopyMap(e.graph.NodeAttrs(sourceID))
	targetAttrs := types.DeepCopyMap(e.graph.NodeAttrs(targetID))

	result, err := e.evaluator.EvalCondition(rule.Condition, sourceAttrs, targetAttrs)
	if err != nil {
		log.WithRuleID(rule.RuleID).WithError(err).Debug("condition evaluation failed, treating as false")
		return false
	}
	return result
}

// applySecondaryEffect resolves the rule's effect function, invokes it
// with attribute snapshots, writes the returned properties back to the
// neighbor, records the delta, and emits one insight. An unregistered
// effect produces a warning insight and leaves the graph untouched.
func (e *Engine) applySecondaryEffect(rule *types.RippleRule, sourceNodeID, targetNodeID string, log *logging.Logger) {
	funcName := rule.EffectOnTarget.ActionToTrigger

	fn := e.registry.Get(funcName)
	if fn == nil {
		e.insights = append(e.insights, types.Insight{
			Text:       fmt.Sprintf("Warning: action function '%s' not registered", funcName),
			Type:       types.InsightTypeWarning,
			Severity:   types.SeverityWarning,
			SourceNode: sourceNodeID,
			TargetNode: targetNodeID,
			RuleID:     rule.RuleID,
		})
		return
	}

	ctx := &effect.Context{
		SourceNode: types.DeepCopyMap(e.graph.NodeAttrs(sourceNodeID)),
		TargetNode: types.DeepCopyMap(e.graph.NodeAttrs(targetNodeID)),
		SourceID:   sourceNodeID,
		TargetID:   targetNodeID,
		Params:     rule.EffectOnTarget.Parameters,
		Graph:      e.graph,
	}

	result, err := fn(ctx)
	if err != nil || result == nil {
		log.WithRuleID(rule.RuleID).WithError(err).Warnf("effect function %q failed", funcName)
		e.insights = append(e.insights, types.Insight{
			Text:       fmt.Sprintf("Warning: action function '%s' failed", funcName),
			Type:       types.InsightTypeWarning,
			Severity:   types.SeverityWarning,
			SourceNode: sourceNodeID,
			TargetNode: targetNodeID,
			RuleID:     rule.RuleID,
		})
		return
	}

	for prop, value := range result.UpdatedProperties {
		e.graph.SetNodeProp(targetNodeID, prop, value)
	}

	nodeUpdate := map[string]interface{}{"id": targetNodeID}
	for prop, value := range result.UpdatedProperties {
		nodeUpdate[prop] = value
	}
	for prop, value := range result.OldValues {
		nodeUpdate["_old_"+prop] = value
	}
	e.updatedNodes = append(e.updatedNodes, nodeUpdate)

	// The insight interpolates against post-effect attribute state.
	e.insights = append(e.insights, insight.Format(
		*rule,
		types.DeepCopyMap(e.graph.NodeAttrs(sourceNodeID)),
		types.DeepCopyMap(e.graph.NodeAttrs(targetNodeID)),
		sourceNodeID,
		targetNodeID,
	))
}
