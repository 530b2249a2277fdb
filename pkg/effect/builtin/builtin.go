// Package builtin provides the generic effect library usable without any
// custom module: property writes, numeric adjustments, and graph-aware
// exposure aggregation.
package builtin

import (
	"fmt"

	"github.com/tomhans2/poc-palantir/pkg/effect"
	"github.com/tomhans2/poc-palantir/pkg/graph"
	"github.com/tomhans2/poc-palantir/pkg/types"
)

// Module returns the built-in effect module. The engine registers it with
// source "builtin" on every workspace load, before any custom module.
func Module() *effect.Module {
	return effect.NewModule("builtin").
		Add("set_property", SetProperty).
		Add("adjust_numeric", AdjustNumeric).
		Add("update_risk_status", UpdateRiskStatus).
		Add("recalculate_valuation", RecalculateValuation).
		Add("compute_margin_gap", ComputeMarginGap).
		Add("graph_weighted_exposure", GraphWeightedExposure)
}

// SetProperty overwrites one named property with a literal value.
//
// Params:
//
//	property (string): name of the property to update
//	value (any): new value to assign
func SetProperty(ctx *effect.Context) (*effect.Result, error) {
	prop, ok := ctx.Params["property"].(string)
	if !ok {
		return nil, fmt.Errorf("set_property: %w: property", ErrMissingParam)
	}
	value, ok := ctx.Params["value"]
	if !ok {
		return nil, fmt.Errorf("set_property: %w: value", ErrMissingParam)
	}
	return &effect.Result{
		UpdatedProperties: map[string]interface{}{prop: value},
		OldValues:         map[string]interface{}{prop: ctx.TargetNode[prop]},
	}, nil
}

// AdjustNumeric multiplies one named numeric property by a scalar factor.
// A missing property defaults to 0.
//
// Params:
//
//	property (string): name of the numeric property
//	factor (number): multiplicative factor to apply
func AdjustNumeric(ctx *effect.Context) (*effect.Result, error) {
	prop, ok := ctx.Params["property"].(string)
	if !ok {
		return nil, fmt.Errorf("adjust_numeric: %w: property", ErrMissingParam)
	}
	factor, ok := types.ToFloat64(ctx.Params["factor"])
	if !ok {
		return nil, fmt.Errorf("adjust_numeric: %w: factor", ErrMissingParam)
	}
	oldValue := ctx.TargetNode[prop]
	oldNum, _ := types.ToFloat64(oldValue)
	return &effect.Result{
		UpdatedProperties: map[string]interface{}{prop: oldNum * factor},
		OldValues:         map[string]interface{}{prop: oldValue},
	}, nil
}

// UpdateRiskStatus writes the risk_status property.
//
// Params:
//
//	status (string): new risk status value, default "HIGH_RISK"
func UpdateRiskStatus(ctx *effect.Context) (*effect.Result, error) {
	newStatus := "HIGH_RISK"
	if s, ok := ctx.Params["status"].(string); ok {
		newStatus = s
	}
	return &effect.Result{
		UpdatedProperties: map[string]interface{}{"risk_status": newStatus},
		OldValues:         map[string]interface{}{"risk_status": ctx.TargetNode["risk_status"]},
	}, nil
}

// RecalculateValuation recomputes valuation as old * (1 + shock_factor).
//
// Params:
//
//	shock_factor (number): percentage change as a decimal (-0.3 for -30%)
func RecalculateValuation(ctx *effect.Context) (*effect.Result, error) {
	oldValue := ctx.TargetNode["valuation"]
	oldNum, _ := types.ToFloat64(oldValue)
	shock, _ := types.ToFloat64(ctx.Params["shock_factor"])
	return &effect.Result{
		UpdatedProperties: map[string]interface{}{"valuation": oldNum * (1 + shock)},
		OldValues:         map[string]interface{}{"valuation": oldValue},
	}, nil
}

// ComputeMarginGap computes loan_amount * (1 - collateral_ratio * (1 + stock_change)).
// Reads loan_amount and collateral_ratio from the target node and
// stock_change from the parameters; records both node inputs as old values.
//
// Params:
//
//	stock_change (number): stock price change as a decimal (-0.4 for -40%)
func ComputeMarginGap(ctx *effect.Context) (*effect.Result, error) {
	loanAmount, _ := types.ToFloat64(ctx.TargetNode["loan_amount"])
	collateralRatio := 1.0
	if cr, ok := types.ToFloat64(ctx.TargetNode["collateral_ratio"]); ok {
		collateralRatio = cr
	}
	stockChange, _ := types.ToFloat64(ctx.Params["stock_change"])

	marginGap := loanAmount * (1 - collateralRatio*(1+stockChange))

	return &effect.Result{
		UpdatedProperties: map[string]interface{}{"margin_gap": marginGap},
		OldValues: map[string]interface{}{
			"loan_amount":      ctx.TargetNode["loan_amount"],
			"collateral_ratio": ctx.TargetNode["collateral_ratio"],
		},
	}, nil
}

// GraphWeightedExposure traverses the target's neighborhood and writes an
// aggregate of neighbor_value * edge_weight to the exposure property.
// The max aggregation starts at 0, so all-negative products yield 0.
//
// Params:
//
//	direction (string): "in", "out", or "both", default "out"
//	edge_type (string): optional edge-type filter
//	value_property (string): neighbor property to read, default "valuation"
//	weight_property (string): edge property to read, default "weight" (1.0 when absent)
//	aggregation (string): "sum", "max", or "count", default "sum"
func GraphWeightedExposure(ctx *effect.Context) (*effect.Result, error) {
	if ctx.Graph == nil {
		return nil, ErrNoGraph
	}

	direction := stringParam(ctx.Params, "direction", "out")
	edgeType, _ := ctx.Params["edge_type"].(string)
	valueProperty := stringParam(ctx.Params, "value_property", "valuation")
	weightProperty := stringParam(ctx.Params, "weight_property", "weight")
	aggregation := stringParam(ctx.Params, "aggregation", "sum")

	var edges []*graph.Edge
	switch direction {
	case "in":
		edges = ctx.Graph.InEdges(ctx.TargetID)
	case "both":
		edges = append(edges, ctx.Graph.InEdges(ctx.TargetID)...)
		edges = append(edges, ctx.Graph.OutEdges(ctx.TargetID)...)
	default:
		edges = ctx.Graph.OutEdges(ctx.TargetID)
	}

	var total, maxVal float64
	count := 0

	for _, e := range edges {
		if edgeType != "" && e.Type() != edgeType {
			continue
		}
		neighborID := e.Target
		if neighborID == ctx.TargetID {
			neighborID = e.Source
		}
		neighborValue, _ := types.ToFloat64(ctx.Graph.NodeAttrs(neighborID)[valueProperty])
		weight := 1.0
		if w, ok := types.ToFloat64(e.Attrs[weightProperty]); ok {
			weight = w
		}
		weighted := neighborValue * weight

		total += weighted
		if weighted > maxVal {
			maxVal = weighted
		}
		count++
	}

	var result interface{}
	switch aggregation {
	case "max":
		result = maxVal
	case "count":
		result = count
	default:
		result = total
	}

	return &effect.Result{
		UpdatedProperties: map[string]interface{}{"exposure": result},
		OldValues:         map[string]interface{}{"exposure": ctx.TargetNode["exposure"]},
	}, nil
}

func stringParam(params map[string]interface{}, key, fallback string) string {
	if s, ok := params[key].(string); ok && s != "" {
		return s
	}
	return fallback
}
