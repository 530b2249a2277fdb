package samples

import (
	"math"

	"github.com/tomhans2/poc-palantir/pkg/effect"
	"github.com/tomhans2/poc-palantir/pkg/graph"
	"github.com/tomhans2/poc-palantir/pkg/types"
)

// PrivateBankingModule returns the custom effect module loaded alongside
// the private_banking sample. Its effects augment the builtins with
// domain intelligence for high-net-worth client management: L2 business
// logic plus graph-aware L3 analytics.
func PrivateBankingModule() *effect.Module {
	return effect.NewModule("private_banking").
		Add("pb_assess_aum_impact", pbAssessAUMImpact).
		Add("pb_compute_reinvestment", pbComputeReinvestment).
		Add("pb_assess_offshore_demand", pbAssessOffshoreDemand).
		Add("pb_divorce_asset_impact", pbDivorceAssetImpact).
		Add("pb_concentration_risk_check", pbConcentrationRiskCheck).
		Add("pb_detect_competitor_threat", pbDetectCompetitorThreat).
		Add("pb_compute_churn_risk", pbComputeChurnRisk).
		Add("pb_assess_retention_action", pbAssessRetentionAction)
}

// pbAssessAUMImpact recomputes a client's AUM after a major life event.
//
// Params:
//
//	event_type (string): event classification (IPO_SUCCESS, DIVORCE, ...)
//	uplift_factor (number): AUM change factor (positive = growth)
func pbAssessAUMImpact(ctx *effect.Context) (*effect.Result, error) {
	eventType := "UNKNOWN"
	if s, ok := ctx.Params["event_type"].(string); ok {
		eventType = s
	}
	uplift, _ := types.ToFloat64(ctx.Params["uplift_factor"])
	oldAUM := ctx.TargetNode["aum"]
	oldNum, _ := types.ToFloat64(oldAUM)

	return &effect.Result{
		UpdatedProperties: map[string]interface{}{
			"aum":            oldNum * (1 + uplift),
			"last_aum_event": eventType,
		},
		OldValues: map[string]interface{}{"aum": oldAUM},
	}, nil
}

// pbComputeReinvestment estimates capital needing reallocation when a
// financial product matures.
//
// Params:
//
//	amount_property (string): property holding the base amount, default "aum"
//	reinvest_ratio (number): share of the base amount to reallocate, default 0.1
func pbComputeReinvestment(ctx *effect.Context) (*effect.Result, error) {
	amountProperty := "aum"
	if s, ok := ctx.Params["amount_property"].(string); ok && s != "" {
		amountProperty = s
	}
	ratio := 0.1
	if r, ok := types.ToFloat64(ctx.Params["reinvest_ratio"]); ok {
		ratio = r
	}
	current := ctx.TargetNode[amountProperty]
	currentNum, _ := types.ToFloat64(current)

	return &effect.Result{
		UpdatedProperties: map[string]interface{}{
			"reinvestment_need":   currentNum * ratio,
			"reinvestment_status": "PENDING",
		},
		OldValues: map[string]interface{}{amountProperty: current},
	}, nil
}

// pbAssessOffshoreDemand evaluates cross-border service needs created by
// family events such as children studying abroad. The demand ratio uses a
// five-year planning horizon.
//
// Params:
//
//	annual_cost (number): estimated annual overseas expenditure
func pbAssessOffshoreDemand(ctx *effect.Context) (*effect.Result, error) {
	annualCost, _ := types.ToFloat64(ctx.Params["annual_cost"])
	aum, _ := types.ToFloat64(ctx.TargetNode["aum"])

	fiveYearTotal := annualCost * 5
	offshoreRatio := 0.0
	if aum > 0 {
		offshoreRatio = fiveYearTotal / aum
	}

	oldNeed := ctx.TargetNode["cross_border_need"]
	if oldNeed == nil {
		oldNeed = "LOW"
	}

	return &effect.Result{
		UpdatedProperties: map[string]interface{}{
			"cross_border_need":        "HIGH",
			"offshore_demand_ratio":    round4(offshoreRatio),
			"estimated_annual_outflow": annualCost,
		},
		OldValues: map[string]interface{}{"cross_border_need": oldNeed},
	}, nil
}

// pbDivorceAssetImpact estimates trust asset exposure during a divorce
// proceeding. Family trusts typically shield about 70% of assets from
// divorce claims.
//
// Params:
//
//	split_ratio (number): expected asset split ratio, default 0.5
func pbDivorceAssetImpact(ctx *effect.Context) (*effect.Result, error) {
	splitRatio := 0.5
	if r, ok := types.ToFloat64(ctx.Params["split_ratio"]); ok {
		splitRatio = r
	}
	oldScale := ctx.TargetNode["scale"]
	oldNum, _ := types.ToFloat64(oldScale)
	oldStatus := ctx.TargetNode["status"]
	if oldStatus == nil {
		oldStatus = "ACTIVE"
	}

	const protectionRate = 0.7
	atRisk := oldNum * (1 - protectionRate)
	potentialLoss := atRisk * splitRatio

	return &effect.Result{
		UpdatedProperties: map[string]interface{}{
			"scale":           oldNum - potentialLoss,
			"status":          "UNDER_REVIEW",
			"at_risk_amount":  atRisk,
			"protection_rate": protectionRate,
		},
		OldValues: map[string]interface{}{
			"scale":  oldScale,
			"status": oldStatus,
		},
	}, nil
}

// pbConcentrationRiskCheck analyzes portfolio concentration risk by
// traversing the client's investment graph: portfolio investments reached
// through Client -HAS_PORTFOLIO-> Portfolio -INVESTED_IN-> Entity chains,
// plus directly controlled entities whose exposure is the entity valuation
// weighted by the CONTROLS edge's equity share. The largest single
// exposure is classified against the threshold: HIGH above it, MODERATE
// above 60% of it, LOW otherwise. A client with no positive AUM gets
// concentration_risk "UNKNOWN".
//
// Params:
//
//	threshold (number): concentration warning threshold, default 0.4
func pbConcentrationRiskCheck(ctx *effect.Context) (*effect.Result, error) {
	threshold := 0.4
	if t, ok := types.ToFloat64(ctx.Params["threshold"]); ok {
		threshold = t
	}

	totalAUM, _ := types.ToFloat64(ctx.TargetNode["aum"])
	if totalAUM <= 0 {
		return &effect.Result{
			UpdatedProperties: map[string]interface{}{"concentration_risk": "UNKNOWN"},
			OldValues:         map[string]interface{}{},
		}, nil
	}

	var maxSingleExposure float64
	maxEntityName := ""

	if ctx.Graph != nil {
		// Client -> HAS_PORTFOLIO -> Portfolio -> INVESTED_IN -> Entity
		for _, pe := range ctx.Graph.OutEdges(ctx.TargetID) {
			if pe.Type() != "HAS_PORTFOLIO" {
				continue
			}
			for _, ie := range ctx.Graph.OutEdges(pe.Target) {
				if ie.Type() != "INVESTED_IN" {
					continue
				}
				amount, _ := types.ToFloat64(ie.Attrs["amount"])
				if amount > maxSingleExposure {
					maxSingleExposure = amount
					maxEntityName = entityName(ctx.Graph, ie.Target)
				}
			}
		}

		// Direct control relationships (equity in controlled entities)
		for _, ce := range ctx.Graph.OutEdges(ctx.TargetID) {
			if ce.Type() != "CONTROLS" {
				continue
			}
			equityPct, _ := types.ToFloat64(ce.Attrs["equity_pct"])
			valuation, _ := types.ToFloat64(ctx.Graph.NodeAttrs(ce.Target)["valuation"])
			if equityValue := valuation * equityPct; equityValue > maxSingleExposure {
				maxSingleExposure = equityValue
				maxEntityName = entityName(ctx.Graph, ce.Target)
			}
		}
	}

	concentration := maxSingleExposure / totalAUM
	riskLevel := "LOW"
	switch {
	case concentration > threshold:
		riskLevel = "HIGH"
	case concentration > threshold*0.6:
		riskLevel = "MODERATE"
	}

	oldRisk := ctx.TargetNode["concentration_risk"]
	if oldRisk == nil {
		oldRisk = "UNKNOWN"
	}

	return &effect.Result{
		UpdatedProperties: map[string]interface{}{
			"concentration_risk":  riskLevel,
			"max_single_exposure": maxSingleExposure,
			"max_exposure_entity": maxEntityName,
			"concentration_ratio": round4(concentration),
		},
		OldValues: map[string]interface{}{"concentration_risk": oldRisk},
	}, nil
}

// pbDetectCompetitorThreat scores the competitive pressure on a client by
// walking incoming TARGETS edges. Each competitor contributes its
// intensity (node attribute, falling back to the edge attribute, default
// MEDIUM); the triggering event amplifies the total because some events,
// like a banker departure, open a much wider poaching window.
//
// Params:
//
//	event_type (string): the triggering event attracting competitors
func pbDetectCompetitorThreat(ctx *effect.Context) (*effect.Result, error) {
	eventType := "UNKNOWN"
	if s, ok := ctx.Params["event_type"].(string); ok {
		eventType = s
	}

	intensityScores := map[string]float64{
		"LOW":       1,
		"MEDIUM":    2,
		"HIGH":      3,
		"VERY_HIGH": 4,
	}

	competitorCount := 0
	totalIntensity := 0.0

	if ctx.Graph != nil {
		for _, e := range ctx.Graph.InEdges(ctx.TargetID) {
			if e.Type() != "TARGETS" {
				continue
			}
			competitorCount++
			intensity, ok := ctx.Graph.NodeAttrs(e.Source)["intensity"].(string)
			if !ok {
				intensity, _ = e.Attrs["intensity"].(string)
			}
			score, ok := intensityScores[intensity]
			if !ok {
				score = 2
			}
			totalIntensity += score
		}
	}

	threatMultipliers := map[string]float64{
		"IPO_SUCCESS":      1.5, // IPO success makes the client highly attractive
		"PRODUCT_MATURITY": 1.3, // product maturity creates a switching window
		"BANKER_CHANGE":    1.8, // banker departure creates vulnerability
		"COMPETITOR_RAID":  2.0, // direct competitor action
	}
	multiplier, ok := threatMultipliers[eventType]
	if !ok {
		multiplier = 1.0
	}

	threatScore := totalIntensity * multiplier
	threatLevel := "LOW"
	switch {
	case threatScore >= 8:
		threatLevel = "CRITICAL"
	case threatScore >= 5:
		threatLevel = "HIGH"
	case threatScore >= 3:
		threatLevel = "MODERATE"
	}

	oldThreat := ctx.TargetNode["competitor_threat"]
	if oldThreat == nil {
		oldThreat = "UNKNOWN"
	}

	return &effect.Result{
		UpdatedProperties: map[string]interface{}{
			"competitor_threat": threatLevel,
			"competitor_count":  competitorCount,
			"threat_score":      round2(threatScore),
		},
		OldValues: map[string]interface{}{"competitor_threat": oldThreat},
	}, nil
}

// pbComputeChurnRisk calibrates a client's churn probability from three
// graph-derived signals: banker tenure on the SERVED_BY edge reduces risk
// (a departed banker contributes nothing), each competitor on an incoming
// TARGETS edge adds pressure, and the result is clamped to [0, 1].
//
// Params:
//
//	base_risk (number): base churn probability before adjustments, default 0.2
//	tenure_factor (number): risk reduction per year of banker service, default 0.03
//	competitive_factor (number): additional risk per active competitor, default 0.1
func pbComputeChurnRisk(ctx *effect.Context) (*effect.Result, error) {
	baseRisk := 0.2
	if v, ok := types.ToFloat64(ctx.Params["base_risk"]); ok {
		baseRisk = v
	}
	tenureFactor := 0.03
	if v, ok := types.ToFloat64(ctx.Params["tenure_factor"]); ok {
		tenureFactor = v
	}
	competitiveFactor := 0.1
	if v, ok := types.ToFloat64(ctx.Params["competitive_factor"]); ok {
		competitiveFactor = v
	}

	bankerTenure := 0.0
	competitorPressure := 0.0

	if ctx.Graph != nil {
		for _, e := range ctx.Graph.OutEdges(ctx.TargetID) {
			if e.Type() != "SERVED_BY" {
				continue
			}
			bankerAttrs := ctx.Graph.NodeAttrs(e.Target)
			bankerTenure, _ = types.ToFloat64(bankerAttrs["years_served"])
			// A departed banker offers no tenure protection.
			if bankerAttrs["status"] == "DEPARTED" {
				bankerTenure = 0
			}
			break
		}

		for _, e := range ctx.Graph.InEdges(ctx.TargetID) {
			if e.Type() == "TARGETS" {
				competitorPressure += competitiveFactor
			}
		}
	}

	churnRisk := baseRisk - bankerTenure*tenureFactor + competitorPressure
	churnRisk = math.Min(1.0, math.Max(0.0, churnRisk))

	riskLabel := "LOW"
	switch {
	case churnRisk >= 0.5:
		riskLabel = "CRITICAL"
	case churnRisk >= 0.35:
		riskLabel = "HIGH"
	case churnRisk >= 0.2:
		riskLabel = "MODERATE"
	}

	oldRisk := ctx.TargetNode["churn_risk"]
	if oldRisk == nil {
		oldRisk = 0.0
	}

	return &effect.Result{
		UpdatedProperties: map[string]interface{}{
			"churn_risk":       round4(churnRisk),
			"churn_risk_level": riskLabel,
		},
		OldValues: map[string]interface{}{"churn_risk": oldRisk},
	}, nil
}

// pbAssessRetentionAction recommends a retention tier and budget from the
// client's AUM: PLATINUM at 100M and above (0.1% of AUM), GOLD at 30M
// (0.05%), SILVER below that (0.02%).
//
// Params:
//
//	urgency (string): action urgency level (NORMAL, HIGH, IMMEDIATE), default NORMAL
func pbAssessRetentionAction(ctx *effect.Context) (*effect.Result, error) {
	urgency := "NORMAL"
	if s, ok := ctx.Params["urgency"].(string); ok && s != "" {
		urgency = s
	}
	aum, _ := types.ToFloat64(ctx.TargetNode["aum"])

	var retentionLevel string
	var budgetRatio float64
	switch {
	case aum >= 100_000_000:
		retentionLevel = "PLATINUM"
		budgetRatio = 0.001
	case aum >= 30_000_000:
		retentionLevel = "GOLD"
		budgetRatio = 0.0005
	default:
		retentionLevel = "SILVER"
		budgetRatio = 0.0002
	}

	oldPriority := ctx.TargetNode["retention_priority"]
	if oldPriority == nil {
		oldPriority = "NORMAL"
	}

	return &effect.Result{
		UpdatedProperties: map[string]interface{}{
			"retention_priority": urgency,
			"retention_level":    retentionLevel,
			"retention_budget":   aum * budgetRatio,
		},
		OldValues: map[string]interface{}{"retention_priority": oldPriority},
	}, nil
}

// entityName returns a node's display name, falling back to its id
func entityName(g *graph.Graph, id string) string {
	if name, ok := g.NodeAttrs(id)["name"].(string); ok {
		return name
	}
	return id
}

// round4 rounds to four decimal places
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// round2 rounds to two decimal places
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
