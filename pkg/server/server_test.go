package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/tomhans2/poc-palantir/pkg/config"
	"github.com/tomhans2/poc-palantir/pkg/engine"
	"github.com/tomhans2/poc-palantir/pkg/logging"
)

// One shared server per test binary: the telemetry provider registers its
// Prometheus collectors globally, so a second provider would collide.
var (
	testServerOnce sync.Once
	testServer     *Server
)

func getTestServer(t *testing.T) *Server {
	t.Helper()

	testServerOnce.Do(func() {
		srv, err := New(DefaultConfig(), config.Default())
		if err != nil {
			t.Fatalf("failed to create server: %v", err)
		}
		testServer = srv
	})
	return testServer
}

func loadSample(t *testing.T, srv *Server, sample string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/workspace/load?sample="+sample, nil)
	rec := httptest.NewRecorder()
	srv.handleLoadWorkspace(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("sample load failed with %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleLoadSample(t *testing.T) {
	srv := getTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/workspace/load?sample=corporate_acquisition", nil)
	rec := httptest.NewRecorder()
	srv.handleLoadWorkspace(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var summary map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	for _, key := range []string{"metadata", "ontology_def", "graph_data", "actions", "registered_functions", "warnings"} {
		if _, ok := summary[key]; !ok {
			t.Errorf("expected key %q in load summary", key)
		}
	}
}

func TestHandleLoadMissingInput(t *testing.T) {
	srv := getTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/workspace/load", nil)
	rec := httptest.NewRecorder()
	srv.handleLoadWorkspace(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing input, got %d", rec.Code)
	}
}

func TestHandleLoadUnknownSample(t *testing.T) {
	srv := getTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/workspace/load?sample=nope", nil)
	rec := httptest.NewRecorder()
	srv.handleLoadWorkspace(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown sample, got %d", rec.Code)
	}
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := io.Copy(part, strings.NewReader(content)); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestHandleLoadFileUpload(t *testing.T) {
	srv := getTestServer(t)

	doc := `{
	  "metadata": {"domain": "uploaded"},
	  "ontology_def": {"node_types": {}, "edge_types": {}},
	  "graph_data": {"nodes": [{"id": "A", "type": "Thing"}], "edges": []},
	  "action_engine": {"actions": []}
	}`

	body, contentType := multipartBody(t, "file", "workspace.json", doc)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workspace/load", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.handleLoadWorkspace(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleLoadMalformedJSONUpload(t *testing.T) {
	srv := getTestServer(t)

	body, contentType := multipartBody(t, "file", "workspace.json", "{broken")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workspace/load", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.handleLoadWorkspace(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed JSON, got %d", rec.Code)
	}
}

func TestHandleLoadSchemaInvalid(t *testing.T) {
	srv := getTestServer(t)

	body, contentType := multipartBody(t, "file", "workspace.json", `{"metadata": {"domain": "x"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workspace/load", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.handleLoadWorkspace(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for schema-invalid document, got %d", rec.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if _, ok := response["errors"]; !ok {
		t.Error("expected field errors enumerated in 422 payload")
	}
}

func TestHandleLoadRejectsActionFileUpload(t *testing.T) {
	srv := getTestServer(t)

	body, contentType := multipartBody(t, "action_file", "effects.py", "def set_property(ctx): ...")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workspace/load", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.handleLoadWorkspace(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for action_file upload, got %d", rec.Code)
	}
}

func TestHandleSimulate(t *testing.T) {
	srv := getTestServer(t)
	loadSample(t, srv, "corporate_acquisition")

	payload := `{"action_id": "trigger_acquisition_failure", "node_id": "E_ACQ_101"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workspace/simulate", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.handleSimulate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response SimulateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if response.Status != "success" {
		t.Errorf("expected success, got %s", response.Status)
	}
	if len(response.RipplePath) == 0 || response.RipplePath[0] != "E_ACQ_101" {
		t.Errorf("unexpected ripple path: %v", response.RipplePath)
	}
	if len(response.Insights) < 3 {
		t.Errorf("expected at least 3 insights, got %d", len(response.Insights))
	}
	if len(response.UpdatedGraphData.Nodes) == 0 {
		t.Error("expected updated graph data in response")
	}
}

func TestHandleSimulateUnknownNode(t *testing.T) {
	srv := getTestServer(t)
	loadSample(t, srv, "corporate_acquisition")

	payload := `{"action_id": "trigger_acquisition_failure", "node_id": "GHOST"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workspace/simulate", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	srv.handleSimulate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown node, got %d", rec.Code)
	}
}

func TestHandleSimulateUnknownAction(t *testing.T) {
	srv := getTestServer(t)
	loadSample(t, srv, "corporate_acquisition")

	payload := `{"action_id": "no_such_action", "node_id": "E_ACQ_101"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workspace/simulate", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	srv.handleSimulate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown action, got %d", rec.Code)
	}
}

func TestHandleResetAndHistory(t *testing.T) {
	srv := getTestServer(t)
	loadSample(t, srv, "corporate_acquisition")

	// Run one simulation so history has an event.
	payload := `{"action_id": "trigger_acquisition_failure", "node_id": "E_ACQ_101"}`
	simReq := httptest.NewRequest(http.MethodPost, "/api/v1/workspace/simulate", strings.NewReader(payload))
	simRec := httptest.NewRecorder()
	srv.handleSimulate(simRec, simReq)
	if simRec.Code != http.StatusOK {
		t.Fatalf("simulate failed: %d", simRec.Code)
	}

	histReq := httptest.NewRequest(http.MethodGet, "/api/v1/workspace/history", nil)
	histRec := httptest.NewRecorder()
	srv.handleHistory(histRec, histReq)
	var events []map[string]interface{}
	if err := json.Unmarshal(histRec.Body.Bytes(), &events); err != nil {
		t.Fatalf("invalid history JSON: %v", err)
	}
	if len(events) == 0 {
		t.Fatal("expected history events after simulation")
	}

	resetReq := httptest.NewRequest(http.MethodPost, "/api/v1/workspace/reset", nil)
	resetRec := httptest.NewRecorder()
	srv.handleReset(resetRec, resetReq)
	if resetRec.Code != http.StatusOK {
		t.Fatalf("expected 200 for reset, got %d", resetRec.Code)
	}

	histRec2 := httptest.NewRecorder()
	srv.handleHistory(histRec2, httptest.NewRequest(http.MethodGet, "/api/v1/workspace/history", nil))
	var eventsAfter []map[string]interface{}
	if err := json.Unmarshal(histRec2.Body.Bytes(), &eventsAfter); err != nil {
		t.Fatalf("invalid history JSON: %v", err)
	}
	if len(eventsAfter) != 0 {
		t.Errorf("expected history cleared by reset, got %d events", len(eventsAfter))
	}
}

func TestHandleListSamples(t *testing.T) {
	srv := getTestServer(t)

	rec := httptest.NewRecorder()
	srv.handleListSamples(rec, httptest.NewRequest(http.MethodGet, "/samples", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var list []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("invalid samples JSON: %v", err)
	}
	if len(list) < 2 {
		t.Errorf("expected at least 2 samples, got %d", len(list))
	}
	for _, s := range list {
		if s["name"] == "" {
			t.Error("expected sample name in listing")
		}
	}
}

func TestHandleAvailableActions(t *testing.T) {
	srv := getTestServer(t)
	loadSample(t, srv, "corporate_acquisition")

	rec := httptest.NewRecorder()
	srv.handleAvailableActions(rec, httptest.NewRequest(http.MethodGet, "/api/v1/workspace/actions?node_id=E_ACQ_101", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var actions []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &actions); err != nil {
		t.Fatalf("invalid actions JSON: %v", err)
	}
	if len(actions) != 1 {
		t.Errorf("expected 1 applicable action, got %d", len(actions))
	}
}

func TestHandleHealth(t *testing.T) {
	srv := getTestServer(t)

	rec := httptest.NewRecorder()
	srv.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("invalid health JSON: %v", err)
	}
	if response["status"] != "ok" {
		t.Errorf("expected status ok, got %v", response["status"])
	}
}

func TestCustomSampleLoadsPrivateBankingModule(t *testing.T) {
	srv := getTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/workspace/load?sample=private_banking", nil)
	rec := httptest.NewRecorder()
	srv.handleLoadWorkspace(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var summary struct {
		RegisteredFunctions []struct {
			Name   string `json:"name"`
			Source string `json:"source"`
		} `json:"registered_functions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}

	sources := map[string]string{}
	for _, fn := range summary.RegisteredFunctions {
		sources[fn.Name] = fn.Source
	}
	if sources["pb_assess_aum_impact"] != "custom" {
		t.Errorf("expected pb_assess_aum_impact tagged custom, got %q", sources["pb_assess_aum_impact"])
	}
	if sources["set_property"] != "builtin" {
		t.Errorf("expected set_property to stay builtin, got %q", sources["set_property"])
	}
}

// bareServer builds a handler-only server around a fresh engine, skipping
// the telemetry provider so tests can exercise pre-load guards.
func bareServer() *Server {
	return &Server{
		config: DefaultConfig(),
		engine: engine.New(config.Testing(), nil),
		logger: logging.New(logging.Config{Output: io.Discard}),
	}
}

func TestSimulateBeforeLoad(t *testing.T) {
	srv := bareServer()

	payload := `{"action_id": "a", "node_id": "n"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workspace/simulate", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	srv.handleSimulate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 before load, got %d", rec.Code)
	}
}

func TestResetBeforeLoad(t *testing.T) {
	srv := bareServer()

	rec := httptest.NewRecorder()
	srv.handleReset(rec, httptest.NewRequest(http.MethodPost, "/api/v1/workspace/reset", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 before load, got %d", rec.Code)
	}
}

func TestActionsBeforeLoad(t *testing.T) {
	srv := bareServer()

	rec := httptest.NewRecorder()
	srv.handleAvailableActions(rec, httptest.NewRequest(http.MethodGet, "/api/v1/workspace/actions", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 before load, got %d", rec.Code)
	}
}
