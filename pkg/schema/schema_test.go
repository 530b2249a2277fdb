package schema

import (
	"strings"
	"testing"
)

const validDocument = `{
  "metadata": {"domain": "test"},
  "ontology_def": {"node_types": {}, "edge_types": {}},
  "graph_data": {"nodes": [], "edges": []},
  "action_engine": {"actions": []}
}`

func TestValidateWorkspaceValid(t *testing.T) {
	fieldErrors, err := ValidateWorkspace([]byte(validDocument))
	if err != nil {
		t.Fatalf("ValidateWorkspace failed: %v", err)
	}
	if len(fieldErrors) != 0 {
		t.Errorf("expected no field errors, got %v", fieldErrors)
	}
}

func TestValidateWorkspaceMissingTopLevelKeys(t *testing.T) {
	fieldErrors, err := ValidateWorkspace([]byte(`{"metadata": {"domain": "x"}}`))
	if err != nil {
		t.Fatalf("ValidateWorkspace failed: %v", err)
	}
	if len(fieldErrors) == 0 {
		t.Fatal("expected field errors for missing keys")
	}

	joined := ""
	for _, fe := range fieldErrors {
		joined += fe.Field + " " + fe.Description + "\n"
	}
	for _, want := range []string{"ontology_def", "graph_data", "action_engine"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected error mentioning %q, got:\n%s", want, joined)
		}
	}
}

func TestValidateWorkspaceNodeMissingID(t *testing.T) {
	doc := `{
	  "metadata": {"domain": "test"},
	  "ontology_def": {"node_types": {}, "edge_types": {}},
	  "graph_data": {"nodes": [{"type": "Company"}], "edges": []},
	  "action_engine": {"actions": []}
	}`

	fieldErrors, err := ValidateWorkspace([]byte(doc))
	if err != nil {
		t.Fatalf("ValidateWorkspace failed: %v", err)
	}
	if len(fieldErrors) == 0 {
		t.Fatal("expected field error for node missing id")
	}
	if !strings.Contains(fieldErrors[0].Field, "nodes") {
		t.Errorf("expected field path referencing nodes, got %q", fieldErrors[0].Field)
	}
}

func TestValidateWorkspaceRuleMissingEffect(t *testing.T) {
	doc := `{
	  "metadata": {"domain": "test"},
	  "ontology_def": {"node_types": {}, "edge_types": {}},
	  "graph_data": {"nodes": [], "edges": []},
	  "action_engine": {"actions": [{
	    "action_id": "a1",
	    "target_node_type": "Company",
	    "display_name": "Test",
	    "ripple_rules": [{"rule_id": "r1", "propagation_path": "-[X]-> Y"}]
	  }]}
	}`

	fieldErrors, err := ValidateWorkspace([]byte(doc))
	if err != nil {
		t.Fatalf("ValidateWorkspace failed: %v", err)
	}
	if len(fieldErrors) == 0 {
		t.Fatal("expected field error for rule missing effect_on_target")
	}
}

func TestValidateWorkspaceUnparseable(t *testing.T) {
	if _, err := ValidateWorkspace([]byte("{not json")); err == nil {
		t.Error("expected error for unparseable document")
	}
}
