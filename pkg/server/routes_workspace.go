package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tomhans2/poc-palantir/pkg/effect"
	"github.com/tomhans2/poc-palantir/pkg/engine"
	"github.com/tomhans2/poc-palantir/pkg/samples"
	"github.com/tomhans2/poc-palantir/pkg/schema"
	"github.com/tomhans2/poc-palantir/pkg/types"
)

// SimulateRequest is the body of POST /api/v1/workspace/simulate
type SimulateRequest struct {
	ActionID string `json:"action_id"`
	NodeID   string `json:"node_id"`
}

// SimulateResponse extends the engine result with the refreshed graph
type SimulateResponse struct {
	Status           string           `json:"status"`
	DeltaGraph       types.DeltaGraph `json:"delta_graph"`
	RipplePath       []string         `json:"ripple_path"`
	Insights         []types.Insight  `json:"insights"`
	UpdatedGraphData types.GraphData  `json:"updated_graph_data"`
}

// handleLoadWorkspace loads a workspace from an uploaded JSON file or a
// built-in sample name. An explicit action_file upload is rejected:
// custom effects are statically linked modules, not runtime source.
func (s *Server) handleLoadWorkspace(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxRequestBodySize)

	var (
		document     []byte
		customModule *effect.Module
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(s.config.MaxRequestBodySize); err != nil {
			s.writeError(w, http.StatusBadRequest, "Failed to parse multipart form: "+err.Error())
			return
		}

		if f, _, err := r.FormFile("action_file"); err == nil {
			f.Close()
			s.writeError(w, http.StatusBadRequest,
				"Custom effect source upload is not supported: link effect modules into the host and register them at startup")
			return
		}

		file, _, err := r.FormFile("file")
		if err == nil {
			defer file.Close()
			document, err = io.ReadAll(file)
			if err != nil {
				s.writeError(w, http.StatusBadRequest, "Failed to read uploaded file: "+err.Error())
				return
			}
		}
	}

	if document == nil {
		sampleName := r.URL.Query().Get("sample")
		if sampleName == "" {
			s.writeError(w, http.StatusBadRequest, "Provide either a file upload or a 'sample' query parameter")
			return
		}

		var err error
		document, customModule, err = samples.Load(sampleName)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown sample %q", sampleName))
			return
		}
	}

	if !json.Valid(document) {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON in workspace document")
		return
	}

	fieldErrors, err := schema.ValidateWorkspace(document)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Workspace document could not be validated: "+err.Error())
		return
	}
	if len(fieldErrors) > 0 {
		s.writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"detail": "Workspace document failed schema validation",
			"errors": fieldErrors,
		})
		return
	}

	var modules []*effect.Module
	if customModule != nil {
		modules = append(modules, customModule)
	}

	summary, err := s.engine.LoadWorkspace(document, modules...)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Failed to load workspace: "+err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, summary)
}

// handleSimulate executes an action on a target node
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxRequestBodySize)

	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Failed to parse request: "+err.Error())
		return
	}

	if !s.engine.HasWorkspace() {
		s.writeError(w, http.StatusBadRequest, "No workspace loaded. Call /load first")
		return
	}
	if !s.engine.HasNode(req.NodeID) {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("Node %q not found in graph", req.NodeID))
		return
	}

	result := s.engine.ExecuteAction(req.ActionID, req.NodeID)
	if result.Status == types.StatusError {
		s.writeError(w, http.StatusBadRequest, result.Message)
		return
	}

	s.writeJSON(w, http.StatusOK, SimulateResponse{
		Status:           result.Status,
		DeltaGraph:       result.DeltaGraph,
		RipplePath:       result.RipplePath,
		Insights:         result.Insights,
		UpdatedGraphData: s.engine.GraphForRender(),
	})
}

// handleReset restores the workspace to its initial state and clears history
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Reset(); err != nil {
		if errors.Is(err, engine.ErrNoWorkspace) {
			s.writeError(w, http.StatusBadRequest, "No workspace loaded. Call /load first")
			return
		}
		s.writeError(w, http.StatusBadRequest, "Reset failed: "+err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, s.engine.GraphForRender())
}

// handleHistory returns the chronological event log
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.engine.History())
}

// handleAvailableActions lists actions, optionally filtered to those
// applicable to the node named by the node_id query parameter
func (s *Server) handleAvailableActions(w http.ResponseWriter, r *http.Request) {
	if !s.engine.HasWorkspace() {
		s.writeError(w, http.StatusBadRequest, "No workspace loaded. Call /load first")
		return
	}

	actions := s.engine.AvailableActions(r.URL.Query().Get("node_id"))
	s.writeJSON(w, http.StatusOK, actions)
}

// handleListSamples lists the embedded sample workspaces
func (s *Server) handleListSamples(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, samples.List())
}
