package llm

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

type stubClient struct {
	res   Result
	err   error
	calls int
}

func (s *stubClient) Chat(ctx context.Context, req Request) (Result, error) {
	s.calls++
	return s.res, s.err
}

func TestFallbackPrimarySucceeds(t *testing.T) {
	t.Parallel()

	primary := &stubClient{res: Result{Text: "from primary"}}
	secondary := &stubClient{res: Result{Text: "from secondary"}}
	fb, err := NewFallback(primary, secondary, nil)
	if err != nil {
		t.Fatalf("NewFallback() error = %v", err)
	}

	res, err := fb.Chat(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if res.Text != "from primary" {
		t.Fatalf("Chat() text = %q, want %q", res.Text, "from primary")
	}
	if secondary.calls != 0 {
		t.Fatalf("secondary calls = %d, want 0", secondary.calls)
	}
}

func TestFallbackSwitchesOnPrimaryFailure(t *testing.T) {
	t.Parallel()

	primary := &stubClient{err: fmt.Errorf("connection refused")}
	secondary := &stubClient{res: Result{Text: "hello"}}
	fb, err := NewFallback(primary, secondary, nil)
	if err != nil {
		t.Fatalf("NewFallback() error = %v", err)
	}

	res, err := fb.Chat(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if res.Text != "hello" {
		t.Fatalf("Chat() text = %q, want %q", res.Text, "hello")
	}
	if primary.calls != 1 || secondary.calls != 1 {
		t.Fatalf("calls = %d/%d, want 1/1", primary.calls, secondary.calls)
	}
}

func TestFallbackBothFail(t *testing.T) {
	t.Parallel()

	primary := &stubClient{err: fmt.Errorf("local down")}
	secondary := &stubClient{err: fmt.Errorf("cloud down")}
	fb, err := NewFallback(primary, secondary, nil)
	if err != nil {
		t.Fatalf("NewFallback() error = %v", err)
	}

	_, err = fb.Chat(context.Background(), Request{})
	if err == nil {
		t.Fatalf("Chat() expected error")
	}
	for _, fragment := range []string{"local down", "cloud down"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("Chat() error = %v, want to contain %q", err, fragment)
		}
	}
}

func TestNewFallbackRequiresPrimary(t *testing.T) {
	t.Parallel()

	if _, err := NewFallback(nil, &stubClient{}, nil); err == nil {
		t.Fatalf("NewFallback() expected error")
	}
}
