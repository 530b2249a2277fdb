// Package insight renders the structured insight records emitted when a
// ripple rule fires.
package insight

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tomhans2/poc-palantir/pkg/types"
)

// placeholderPattern matches one {..} group inside an insight template
var placeholderPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// Format builds the insight for a fired rule. The template is a
// map-scoped format string with two top-level names:
//
//	{source[attr]} expands to an attribute of the rule's source node
//	{target[attr]} expands to an attribute of the affected neighbor
//
// If any placeholder cannot be resolved, the raw template is used as the
// insight text. Without a template the text defaults to
// "Rule <rule_id>: effect applied to <target_id>". Type and severity
// default to "info".
func Format(rule types.RippleRule, sourceAttrs, targetAttrs map[string]interface{}, sourceID, targetID string) types.Insight {
	insightType := rule.InsightType
	if insightType == "" {
		insightType = types.InsightTypeInfo
	}
	severity := rule.InsightSeverity
	if severity == "" {
		severity = types.SeverityInfo
	}

	var text string
	if rule.InsightTemplate != "" {
		text = interpolate(rule.InsightTemplate, sourceAttrs, targetAttrs)
	} else {
		text = fmt.Sprintf("Rule %s: effect applied to %s", rule.RuleID, targetID)
	}

	return types.Insight{
		Text:       text,
		Type:       insightType,
		Severity:   severity,
		SourceNode: sourceID,
		TargetNode: targetID,
		RuleID:     rule.RuleID,
	}
}

// interpolate expands every placeholder, falling back to the raw template
// when any placeholder is malformed or references a missing attribute.
func interpolate(template string, sourceAttrs, targetAttrs map[string]interface{}) string {
	resolved := true
	out := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		inner := match[1 : len(match)-1]
		value, ok := lookup(inner, sourceAttrs, targetAttrs)
		if !ok {
			resolved = false
			return match
		}
		return types.FormatValue(value)
	})
	if !resolved {
		return template
	}
	return out
}

// lookup resolves one placeholder body of the form source[attr] or target[attr]
func lookup(inner string, sourceAttrs, targetAttrs map[string]interface{}) (interface{}, bool) {
	open := strings.Index(inner, "[")
	if open < 0 || !strings.HasSuffix(inner, "]") {
		return nil, false
	}
	scope := inner[:open]
	key := inner[open+1 : len(inner)-1]

	var attrs map[string]interface{}
	switch scope {
	case "source":
		attrs = sourceAttrs
	case "target":
		attrs = targetAttrs
	default:
		return nil, false
	}
	value, ok := attrs[key]
	return value, ok
}
