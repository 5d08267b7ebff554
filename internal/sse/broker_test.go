package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncRecorder guards the recorder body; ServeHTTP writes from another goroutine.
type syncRecorder struct {
	mu sync.Mutex
	*httptest.ResponseRecorder
}

func (r *syncRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ResponseRecorder.Write(p)
}

func (r *syncRecorder) body() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Body.String()
}

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
}

func TestPublishChange(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishChange(7)

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: document.changed") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"revision":7`) {
			t.Errorf("missing revision in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestPublishRulesChanged_Throttled(t *testing.T) {
	b := NewBroker(500 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishRulesChanged()
	b.PublishRulesChanged()
	b.PublishChange(1)

	time.Sleep(50 * time.Millisecond)
	rules, docs := 0, 0
loop:
	for {
		select {
		case msg := <-ch:
			if strings.Contains(string(msg), TypeRulesChanged) {
				rules++
			} else {
				docs++
			}
		default:
			break loop
		}
	}
	if rules != 1 {
		t.Errorf("rules events = %d, want 1 (throttled)", rules)
	}
	if docs != 1 {
		t.Errorf("document events = %d, want 1", docs)
	}
}

func TestSSEHandler(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil).WithContext(ctx)
	w := &syncRecorder{ResponseRecorder: httptest.NewRecorder()}

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client from handler")
	}

	b.PublishChange(3)
	time.Sleep(50 * time.Millisecond)

	cancel()
	<-done

	if body := w.body(); !strings.Contains(body, "event: document.changed") {
		t.Errorf("handler output missing event: %q", body)
	}

	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 0 {
		t.Errorf("client not cleaned up after disconnect")
	}
}

func TestPublishDropsOnFullBuffer(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	for i := 0; i < 70; i++ {
		b.PublishChange(uint64(i))
	}
}

func TestCloseClosesSubscribers(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	ch := b.Subscribe()
	b.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected subscriber channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel close")
	}
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after close")
	}

	b.PublishChange(1)
	b.PublishRulesChanged()
}

func TestPublishRulesChanged_TrailingAfterBurst(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishRulesChanged()
	time.Sleep(10 * time.Millisecond)
	b.PublishRulesChanged()
	time.Sleep(10 * time.Millisecond)
	b.PublishRulesChanged()

	count := func(d time.Duration) int {
		n := 0
		deadline := time.After(d)
		for {
			select {
			case msg := <-ch:
				if strings.Contains(string(msg), TypeRulesChanged) {
					n++
				}
			case <-deadline:
				return n
			}
		}
	}

	if n := count(50 * time.Millisecond); n != 1 {
		t.Fatalf("leading events = %d, want 1", n)
	}
	if n := count(150 * time.Millisecond); n != 1 {
		t.Fatalf("trailing events = %d, want 1", n)
	}
	if n := count(250 * time.Millisecond); n != 0 {
		t.Fatalf("events after quiet window = %d, want 0", n)
	}
}

func TestRulesChangedAfterQuietWindowIsImmediate(t *testing.T) {
	b := NewBroker(50 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishRulesChanged()
	<-ch
	// Window expires with nothing pending, so the next request opens a new one.
	time.Sleep(150 * time.Millisecond)

	start := time.Now()
	b.PublishRulesChanged()
	select {
	case <-ch:
		if waited := time.Since(start); waited > 40*time.Millisecond {
			t.Errorf("rules event delayed by %v", waited)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for rules event")
	}
}

func TestFramesCarryIncreasingIDs(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishChange(1)
	b.PublishChange(2)

	for _, want := range []string{"id: 1\n", "id: 2\n"} {
		select {
		case msg := <-ch:
			if !strings.HasPrefix(string(msg), want) {
				t.Errorf("frame %q does not start with %q", msg, want)
			}
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for frame")
		}
	}
}
