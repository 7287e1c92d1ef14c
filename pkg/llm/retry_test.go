package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/devgraph-ai/devgraph/pkg/types"
)

type flakyClient struct {
	failures  int
	calls     int
	err       error
	responses *types.Response
}

func (f *flakyClient) Chat(_ context.Context, _ []types.Message) (*types.Response, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return f.responses, nil
}

func (f *flakyClient) Close() error { return nil }

func fastRetryConfig(maxRetries int) *RetryConfig {
	return &RetryConfig{
		MaxRetries:        maxRetries,
		InitialDelay:      time.Millisecond,
		MaxDelay:          5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func TestRetrySucceedsAfterTransientFailure(t *testing.T) {
	inner := &flakyClient{
		failures:  2,
		err:       errors.New("503 service unavailable"),
		responses: &types.Response{Content: "ok"},
	}
	client := NewRetryClient(inner, fastRetryConfig(2))

	resp, err := client.Chat(context.Background(), []types.Message{types.NewUserMessage("hi")})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if resp.Content != "ok" {
		t.Errorf("content = %q", resp.Content)
	}
	if inner.calls != 3 {
		t.Errorf("calls = %d, want 3", inner.calls)
	}
}

func TestRetryGivesUpAfterMaxRetries(t *testing.T) {
	inner := &flakyClient{failures: 10, err: errors.New("timeout")}
	client := NewRetryClient(inner, fastRetryConfig(2))

	_, err := client.Chat(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if inner.calls != 3 {
		t.Errorf("calls = %d, want 3", inner.calls)
	}
}

func TestRetryNonRetryableFailsImmediately(t *testing.T) {
	inner := &flakyClient{failures: 10, err: errors.New("400 bad request: invalid model")}
	client := NewRetryClient(inner, fastRetryConfig(3))

	_, err := client.Chat(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if inner.calls != 1 {
		t.Errorf("calls = %d, want 1 (no retries on client errors)", inner.calls)
	}
}

func TestRetryDoesNotRetryCancelledContext(t *testing.T) {
	inner := &flakyClient{failures: 10, err: context.DeadlineExceeded}
	client := NewRetryClient(inner, fastRetryConfig(3))

	_, err := client.Chat(context.Background(), nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("calls = %d, want 1 (deadline must surface promptly)", inner.calls)
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limit", errors.New("429 too many requests"), true},
		{"server error", errors.New("internal server error"), true},
		{"bad request", errors.New("400 invalid request"), false},
		{"cancelled", context.Canceled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableError(tt.err); got != tt.want {
				t.Errorf("isRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
