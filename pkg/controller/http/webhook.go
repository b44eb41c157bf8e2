package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pipegate/pipegate/pkg/domain/interfaces"
	"github.com/pipegate/pipegate/pkg/domain/model"
)

// WebhookHandler translates GitHub webhooks into trigger events and gates
// them
type WebhookHandler struct {
	secret string
	gateUC interfaces.GateUseCase
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(secret string, gateUC interfaces.GateUseCase) *WebhookHandler {
	return &WebhookHandler{
		secret: secret,
		gateUC: gateUC,
	}
}

// Handle processes webhook requests
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	// Read payload
	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("Failed to read request body", "error", err)
		writeError(ctx, w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	// Verify signature
	signature := r.Header.Get("X-Hub-Signature-256")
	if !h.verifySignature(body, signature) {
		logger.Warn("Invalid webhook signature")
		writeError(ctx, w, goerr.New("invalid signature"), http.StatusUnauthorized)
		return
	}

	// Parse event using GitHub SDK
	eventType := r.Header.Get("X-GitHub-Event")
	payload, err := github.ParseWebHook(eventType, body)
	if err != nil {
		logger.Error("Failed to parse webhook payload", "error", err)
		writeError(ctx, w, goerr.Wrap(err, "invalid JSON payload"), http.StatusBadRequest)
		return
	}

	event, ok := triggerEventFrom(payload)
	if !ok {
		logger.Info("Ignoring webhook event with no trigger semantics",
			"event_type", eventType,
			"delivery", r.Header.Get("X-GitHub-Delivery"),
		)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		if err := json.NewEncoder(w).Encode(map[string]string{"status": "ignored"}); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
		return
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

// triggerEventFrom maps a parsed webhook payload to a TriggerEvent. The
// second return value is false for event types that carry no trigger
// semantics (ping, issues, ...).
func triggerEventFrom(payload any) (*model.TriggerEvent, bool) {
	switch e := payload.(type) {
	case *github.PushEvent:
		return &model.TriggerEvent{
			SourceRef: e.GetRef(),
			Reason:    model.ReasonIndividualCI,
		}, true
	case *github.PullRequestEvent:
		// pull request head refs arrive as bare branch names
		return &model.TriggerEvent{
			SourceRef: "refs/heads/" + e.GetPullRequest().GetHead().GetRef(),
			Reason:    model.ReasonPullRequest,
		}, true
	default:
		return nil, false
	}
}

// verifySignature verifies the webhook signature
func (h *WebhookHandler) verifySignature(payload []byte, signature string) bool {
	if signature == "" {
		return false
	}

	// Remove "sha256=" prefix if present
	signature = strings.TrimPrefix(signature, "sha256=")

	// Calculate HMAC-SHA256
	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(payload)
	expectedMAC := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(signature), []byte(expectedMAC))
}
