package discord

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/margdarshak/margdarshak/notify"
)

func TestNewNotifier(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	testCases := []struct {
		name        string
		opts        Options
		logger      *slog.Logger
		expectError bool
		errorMsg    string
	}{
		{
			name:        "Valid options",
			opts:        Options{WebhookURL: "http://test.com"},
			logger:      logger,
			expectError: false,
		},
		{
			name:        "Missing webhook URL",
			opts:        Options{},
			logger:      logger,
			expectError: true,
			errorMsg:    "discord: WebhookURL is required",
		},
		{
			name:        "Missing logger",
			opts:        Options{WebhookURL: "http://test.com"},
			logger:      nil,
			expectError: true,
			errorMsg:    "discord: logger is required",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			notifier, err := New(tc.opts, tc.logger)

			if tc.expectError {
				if err == nil {
					t.Fatal("Expected an error, but got nil")
				}
				if err.Error() != tc.errorMsg {
					t.Errorf("Expected error message %q, got %q", tc.errorMsg, err.Error())
				}
				if notifier != nil {
					t.Error("Expected notifier to be nil on error")
				}
			} else {
				if err != nil {
					t.Fatalf("Did not expect an error, but got: %v", err)
				}
				if notifier == nil {
					t.Fatal("Expected a notifier, but got nil")
				}
			}
		})
	}
}

func TestSendDeliversToWebhook(t *testing.T) {
	received := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var p struct {
			Content string `json:"content"`
		}
		if err := json.Unmarshal(body, &p); err != nil {
			t.Errorf("failed to unmarshal webhook payload: %v", err)
		}
		received <- p.Content
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier, err := New(Options{WebhookURL: server.URL}, logger)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	n := notify.Notification{
		Type:    notify.AlarmNotification,
		Source:  "scheduler",
		Message: "job exhausted all attempts",
		Fields:  map[string]any{"job_id": 42},
	}
	if err := notifier.Send(context.Background(), n); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	select {
	case content := <-received:
		if !strings.Contains(content, "job exhausted all attempts") {
			t.Errorf("webhook content missing message: %q", content)
		}
		if !strings.Contains(content, "job_id") {
			t.Errorf("webhook content missing fields: %q", content)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("webhook was not called")
	}
}

func TestSendDropsWhenRateLimited(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier, err := New(Options{
		WebhookURL:   server.URL,
		APIRateLimit: 0.0001,
		APIBurst:     1,
	}, logger)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	n := notify.Notification{Message: "first"}
	if err := notifier.Send(context.Background(), n); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	// Burst exhausted; this one must be dropped without error.
	if err := notifier.Send(context.Background(), n); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	time.Sleep(200 * time.Millisecond)
	if calls > 1 {
		t.Errorf("expected at most 1 webhook call, got %d", calls)
	}
}
