package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pipegate/pipegate/pkg/domain/interfaces"
	"github.com/pipegate/pipegate/pkg/domain/model"
)

// DecisionHandler evaluates trigger metadata posted by an orchestrator
type DecisionHandler struct {
	gateUC interfaces.GateUseCase
}

// NewDecisionHandler creates a new DecisionHandler
func NewDecisionHandler(gateUC interfaces.GateUseCase) *DecisionHandler {
	return &DecisionHandler{gateUC: gateUC}
}

type decisionRequest struct {
	Ref    string `json:"ref"`
	Reason string `json:"reason"`
}

type decisionResponse struct {
	Decision model.GateDecision `json:"decision"`
	Plan     model.JobPlan      `json:"plan"`
}

// Handle evaluates one trigger event and responds with the decision and
// job plan. Malformed refs are a valid input producing a no-run decision,
// not an error; only an unreadable request body fails.
func (h *DecisionHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("Failed to decode decision request", "error", err)
		writeError(ctx, w, goerr.Wrap(err, "invalid JSON payload"), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Ref == "" {
		writeError(ctx, w, goerr.New("ref is required"), http.StatusBadRequest)
		return
	}

	event := &model.TriggerEvent{
		SourceRef: req.Ref,
		Reason:    model.ParseBuildReason(req.Reason),
	}

	decision, plan := h.gateUC.Evaluate(ctx, event)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(decisionResponse{
		Decision: decision,
		Plan:     plan,
	}); err != nil {
		logger.Error("Failed to encode decision response", "error", err)
	}
}
