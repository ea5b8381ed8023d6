package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func modelServer(t *testing.T, response string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %s, want /api/generate", r.URL.Path)
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("stream should be disabled")
		}
		json.NewEncoder(w).Encode(generateResponse{Response: response, Done: true})
	}))
}

func TestClient_ParseMessage(t *testing.T) {
	srv := modelServer(t, "Here you go:\n```json\n{\"intent\":\"add_expense\",\"expense\":{\"title\":\"Groceries\",\"amount\":50,\"currency\":\"USD\"}}\n```")
	defer srv.Close()

	c := NewClient(srv.URL, "test-model")
	action, err := c.ParseMessage(context.Background(), "spent 50 usd on groceries", time.Now())
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	if action.Intent != IntentAddExpense {
		t.Errorf("Intent = %s, want %s", action.Intent, IntentAddExpense)
	}
	if action.Expense == nil || action.Expense.Amount != 50 {
		t.Errorf("Expense = %+v, want amount 50", action.Expense)
	}
}

func TestClient_ParseMessage_NoJSON(t *testing.T) {
	srv := modelServer(t, "I am not able to help with that.")
	defer srv.Close()

	c := NewClient(srv.URL, "test-model")
	if _, err := c.ParseMessage(context.Background(), "hello", time.Now()); err == nil {
		t.Error("ParseMessage should fail when the model returns no JSON")
	}
}

func TestClient_ParseMessage_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-model")
	if _, err := c.ParseMessage(context.Background(), "hello", time.Now()); err == nil {
		t.Error("ParseMessage should surface server errors")
	}
}
