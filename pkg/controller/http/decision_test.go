package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	controller "github.com/pipegate/pipegate/pkg/controller/http"
	"github.com/pipegate/pipegate/pkg/domain/model"
	"github.com/pipegate/pipegate/pkg/usecase"
)

type decisionResponse struct {
	Decision model.GateDecision `json:"decision"`
	Plan     model.JobPlan      `json:"plan"`
}

func newTestServer(t *testing.T) *controller.Server {
	t.Helper()

	server, err := controller.NewServer(
		context.Background(),
		usecase.NewGate(nil),
		controller.WithAddr("localhost:0"),
		controller.WithWebhookSecret("test-secret"),
	)
	gt.NoError(t, err)
	return server
}

func postDecision(t *testing.T, server *controller.Server, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/decisions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.Handler.ServeHTTP(w, req)
	return w
}

func TestDecisionEndpoint_TagBuild(t *testing.T) {
	server := newTestServer(t)

	w := postDecision(t, server, `{"ref":"refs/tags/v1.0.0","reason":"manual"}`)
	gt.Value(t, w.Code).Equal(http.StatusOK)

	var resp decisionResponse
	gt.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	gt.Value(t, resp.Decision.ShouldRun).Equal(true)
	gt.Value(t, resp.Decision.ShouldPublish).Equal(true)
	gt.Value(t, resp.Decision.PublishTarget).Equal("pypi")
	gt.Number(t, len(resp.Plan.Jobs)).Greater(0)
	gt.Value(t, resp.Plan.DecisionID).Equal(resp.Decision.ID)
}

func TestDecisionEndpoint_FilteredBranch(t *testing.T) {
	server := newTestServer(t)

	w := postDecision(t, server, `{"ref":"refs/heads/backport-1.2","reason":"individual_ci"}`)
	gt.Value(t, w.Code).Equal(http.StatusOK)

	var resp decisionResponse
	gt.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	gt.Value(t, resp.Decision.ShouldRun).Equal(false)
	gt.Number(t, len(resp.Plan.Jobs)).Equal(0)
}

func TestDecisionEndpoint_UnknownReasonRunsOnly(t *testing.T) {
	server := newTestServer(t)

	w := postDecision(t, server, `{"ref":"refs/heads/feature-x","reason":"batched_ci"}`)
	gt.Value(t, w.Code).Equal(http.StatusOK)

	var resp decisionResponse
	gt.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	gt.Value(t, resp.Decision.ShouldRun).Equal(true)
	gt.Value(t, resp.Decision.ShouldPublish).Equal(false)
}

func TestDecisionEndpoint_BadRequests(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "invalid JSON", body: `{ref:`},
		{name: "missing ref", body: `{"reason":"manual"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postDecision(t, server, tt.body)
			gt.Value(t, w.Code).Equal(http.StatusBadRequest)
		})
	}
}

func TestDecisionEndpoint_MalformedRefIsNotAnError(t *testing.T) {
	server := newTestServer(t)

	w := postDecision(t, server, `{"ref":"not-a-ref","reason":"manual"}`)
	gt.Value(t, w.Code).Equal(http.StatusOK)

	var resp decisionResponse
	gt.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	gt.Value(t, resp.Decision.ShouldRun).Equal(false)
}
