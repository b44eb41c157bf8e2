package http_test

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	controller "github.com/pipegate/pipegate/pkg/controller/http"
)

func signPayload(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func postWebhook(server *controller.Server, eventType string, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/hooks/github", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", eventType)
	req.Header.Set("X-GitHub-Delivery", "test-delivery")
	if signature != "" {
		req.Header.Set("X-Hub-Signature-256", signature)
	}
	w := httptest.NewRecorder()
	server.Handler.ServeHTTP(w, req)
	return w
}

func TestWebhook_PushTagEvent(t *testing.T) {
	server := newTestServer(t)
	payload := []byte(`{"ref":"refs/tags/v1.0.0","repository":{"full_name":"test/repo"}}`)

	w := postWebhook(server, "push", payload, signPayload("test-secret", payload))
	gt.Value(t, w.Code).Equal(http.StatusOK)

	var resp decisionResponse
	gt.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	gt.Value(t, resp.Decision.ShouldRun).Equal(true)
	gt.Value(t, resp.Decision.ShouldPublish).Equal(true)
	gt.Value(t, resp.Decision.PublishTarget).Equal("pypi")
}

func TestWebhook_PushTrunkEvent(t *testing.T) {
	server := newTestServer(t)
	payload := []byte(`{"ref":"refs/heads/main","repository":{"full_name":"test/repo"}}`)

	w := postWebhook(server, "push", payload, signPayload("test-secret", payload))
	gt.Value(t, w.Code).Equal(http.StatusOK)

	var resp decisionResponse
	gt.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	gt.Value(t, resp.Decision.ShouldRun).Equal(true)
	gt.Value(t, resp.Decision.ShouldPublish).Equal(false)
}

func TestWebhook_PullRequestEvent(t *testing.T) {
	server := newTestServer(t)
	payload := []byte(`{"action":"opened","pull_request":{"head":{"ref":"feature-x"}}}`)

	w := postWebhook(server, "pull_request", payload, signPayload("test-secret", payload))
	gt.Value(t, w.Code).Equal(http.StatusOK)

	var resp decisionResponse
	gt.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	gt.Value(t, resp.Decision.ShouldRun).Equal(true)
	gt.Value(t, resp.Decision.ShouldPublish).Equal(false)
}

func TestWebhook_InvalidSignature(t *testing.T) {
	server := newTestServer(t)
	payload := []byte(`{"ref":"refs/heads/main"}`)

	tests := []struct {
		name      string
		signature string
	}{
		{name: "missing signature", signature: ""},
		{name: "wrong secret", signature: signPayload("wrong-secret", payload)},
		{name: "garbage signature", signature: "sha256=deadbeef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postWebhook(server, "push", payload, tt.signature)
			gt.Value(t, w.Code).Equal(http.StatusUnauthorized)
		})
	}
}

func TestWebhook_IgnoredEventType(t *testing.T) {
	server := newTestServer(t)
	payload := []byte(`{"zen":"Keep it logically awesome."}`)

	w := postWebhook(server, "ping", payload, signPayload("test-secret", payload))
	gt.Value(t, w.Code).Equal(http.StatusAccepted)
}
