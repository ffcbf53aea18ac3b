package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"janus-hq/janus/pkg/policy"
)

// evaluateResponse is the wire shape of a decision, tagged with the
// request id for log correlation.
type evaluateResponse struct {
	RequestID string `json:"request_id"`
	policy.Decision
}

// policyInfo is the wire shape of one policy in the listing endpoint.
type policyInfo struct {
	ID          string         `json:"id"`
	Description string         `json:"description,omitempty"`
	Level       policy.Level   `json:"level"`
	Subject     string         `json:"subject"`
	Action      string         `json:"action"`
	Resource    string         `json:"resource"`
	Effect      policy.Effect  `json:"effect"`
	Match       map[string]any `json:"match,omitempty"`
	Priority    int            `json:"priority"`
	SourceFile  string         `json:"source_file,omitempty"`
}

// policiesResponse is the wire shape of the listing endpoint.
type policiesResponse struct {
	Version  string       `json:"version"`
	Count    int          `json:"count"`
	Policies []policyInfo `json:"policies"`
}

// errorResponse is the wire shape of a request-level failure. Note that
// an evaluation itself never fails; only malformed HTTP input does.
type errorResponse struct {
	Error string `json:"error"`
}

// handleEvaluate decodes a request context, evaluates it, and returns
// the decision with its full trace.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()

	var req policy.RequestContext
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	start := time.Now()
	decision := s.pdp.Evaluate(req)
	duration := time.Since(start)

	if s.metrics != nil {
		s.metrics.RecordEvaluation(decision, duration)
	}

	s.logger.Info("decision",
		"request_id", requestID,
		"subject", req.Subject,
		"action", req.Action,
		"resource", req.Resource,
		"effect", decision.Effect,
		"allow", decision.Allow,
		"matched_policy", decision.MatchedPolicy,
		"duration_us", duration.Microseconds(),
	)

	s.writeJSON(w, http.StatusOK, evaluateResponse{
		RequestID: requestID,
		Decision:  decision,
	})
}

// handlePolicies lists the active policy set for operator inspection.
func (s *Server) handlePolicies(w http.ResponseWriter, r *http.Request) {
	policies := s.store.List()

	resp := policiesResponse{
		Version:  s.store.Version(),
		Count:    len(policies),
		Policies: make([]policyInfo, 0, len(policies)),
	}
	for _, p := range policies {
		resp.Policies = append(resp.Policies, policyInfo{
			ID:          p.ID,
			Description: p.Description,
			Level:       p.Level,
			Subject:     p.Subject,
			Action:      p.Action,
			Resource:    p.Resource,
			Effect:      p.Effect,
			Match:       p.Match,
			Priority:    p.Priority,
			SourceFile:  p.SourceFile,
		})
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// handleHealth reports liveness plus the active policy set version.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"policies":       s.store.Size(),
		"policy_version": s.store.Version(),
	})
}

// writeJSON writes a JSON response with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
