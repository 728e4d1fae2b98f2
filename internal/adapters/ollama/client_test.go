package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_Complete(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		responseBody string
		delay        time.Duration
		want         string
		wantErr      bool
		wantErrIs    error
	}{
		{
			name:         "Success",
			status:       http.StatusOK,
			responseBody: `{"message":{"role":"assistant","content":" {\"genres\":[]} "}}`,
			want:         `{"genres":[]}`,
		},
		{
			name:         "Server error",
			status:       http.StatusInternalServerError,
			responseBody: `{"error":"bad"}`,
			wantErr:      true,
		},
		{
			name:         "Model error in body",
			status:       http.StatusOK,
			responseBody: `{"error":"model not found"}`,
			wantErr:      true,
		},
		{
			name:         "Empty content",
			status:       http.StatusOK,
			responseBody: `{"message":{"role":"assistant","content":"   "}}`,
			wantErr:      true,
			wantErrIs:    ErrEmptyResponse,
		},
		{
			name:         "Timeout",
			status:       http.StatusOK,
			responseBody: `{"message":{"role":"assistant","content":"{}"}}`,
			delay:        200 * time.Millisecond,
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var gotRequest chatRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/chat" {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				if r.Method != http.MethodPost {
					w.WriteHeader(http.StatusMethodNotAllowed)
					return
				}
				if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				if tt.delay > 0 {
					time.Sleep(tt.delay)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "test-model", 50*time.Millisecond)
			got, err := client.Complete(context.Background(), "test prompt")

			if (err != nil) != tt.wantErr {
				t.Fatalf("expected err=%v, got %v", tt.wantErr, err)
			}
			if tt.wantErrIs != nil && !errors.Is(err, tt.wantErrIs) {
				t.Fatalf("expected %v, got %v", tt.wantErrIs, err)
			}
			if tt.wantErr {
				return
			}
			if got != tt.want {
				t.Fatalf("content: got %q, want %q", got, tt.want)
			}
			if gotRequest.Model != "test-model" {
				t.Fatalf("expected model test-model, got %q", gotRequest.Model)
			}
			if gotRequest.Format != "json" {
				t.Fatalf("expected format json, got %q", gotRequest.Format)
			}
			if gotRequest.Stream {
				t.Fatalf("expected non-streaming request")
			}
			if len(gotRequest.Messages) != 2 {
				t.Fatalf("expected 2 messages, got %d", len(gotRequest.Messages))
			}
			if gotRequest.Messages[0].Role != "system" || gotRequest.Messages[0].Content != systemPrompt {
				t.Fatalf("system prompt mismatch")
			}
			if gotRequest.Messages[1].Role != "user" || gotRequest.Messages[1].Content != "test prompt" {
				t.Fatalf("user message mismatch")
			}
		})
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", "", 0)
	if c.baseURL != defaultBaseURL || c.model != defaultModel || c.httpClient.Timeout != defaultTimeout {
		t.Fatalf("unexpected defaults: %+v timeout=%v", c, c.httpClient.Timeout)
	}
}
