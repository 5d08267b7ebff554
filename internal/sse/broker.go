// Package sse streams document change notifications to local views over
// Server-Sent Events.
package sse

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Event types.
const (
	TypeDocumentChanged = "document.changed"
	TypeRulesChanged    = "rules.changed"
)

const clientBuffer = 64

// Event is one SSE frame.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// hub is the loop-owned client set. Only the run goroutine touches it.
type hub struct {
	clients map[chan []byte]struct{}
	seq     uint64
}

// send frames event with the next sequence id and offers it to every
// client. A client whose buffer is full misses the frame.
func (h *hub) send(event Event) {
	payload, err := json.Marshal(event.Data)
	if err != nil {
		return
	}
	h.seq++
	var buf bytes.Buffer
	buf.WriteString("id: " + strconv.FormatUint(h.seq, 10) + "\n")
	buf.WriteString("event: " + event.Type + "\n")
	buf.WriteString("data: ")
	buf.Write(payload)
	buf.WriteString("\n\n")
	raw := buf.Bytes()

	for ch := range h.clients {
		select {
		case ch <- raw:
		default:
		}
	}
}

// Broker fans events out to connected clients.
//
// One goroutine owns the hub; callers hand it closures over ops. rules.changed
// is coalesced: the first request in a quiet period goes out at once, later
// ones within the window collapse into a single trailing event.
type Broker struct {
	window time.Duration

	ops     chan func(*hub)
	rules   chan struct{}
	quit    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewBroker starts a broker. rules.changed is sent at most once per window.
func NewBroker(window time.Duration) *Broker {
	if window <= 0 {
		window = 2 * time.Second
	}
	b := &Broker{
		window:  window,
		ops:     make(chan func(*hub), 256),
		rules:   make(chan struct{}, 1),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.stopped)

	h := &hub{clients: make(map[chan []byte]struct{})}

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending bool
	)
	openWindow := func() {
		timer = time.NewTimer(b.window)
		timerC = timer.C
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
		for ch := range h.clients {
			close(ch)
		}
	}()

	for {
		select {
		case <-b.quit:
			return

		case op := <-b.ops:
			op(h)

		case <-b.rules:
			if timerC == nil {
				h.send(Event{Type: TypeRulesChanged, Data: map[string]string{}})
				openWindow()
			} else {
				pending = true
			}

		case <-timerC:
			if pending {
				pending = false
				h.send(Event{Type: TypeRulesChanged, Data: map[string]string{}})
				openWindow()
			} else {
				timer, timerC = nil, nil
			}
		}
	}
}

// do runs op on the loop and waits for it. It reports false once the
// broker is closed.
func (b *Broker) do(op func(*hub)) bool {
	done := make(chan struct{})
	wrapped := func(h *hub) {
		op(h)
		close(done)
	}
	select {
	case b.ops <- wrapped:
	case <-b.stopped:
		return false
	}
	select {
	case <-done:
		return true
	case <-b.stopped:
		select {
		case <-done:
			return true
		default:
			return false
		}
	}
}

// Close stops the loop and closes every client channel. It is safe to call
// more than once.
func (b *Broker) Close() {
	b.once.Do(func() { close(b.quit) })
	<-b.stopped
}

// Subscribe registers a client and returns its channel. After Close the
// channel is returned already closed.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, clientBuffer)
	if !b.do(func(h *hub) { h.clients[ch] = struct{}{} }) {
		close(ch)
	}
	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	b.do(func(h *hub) {
		if _, ok := h.clients[ch]; ok {
			delete(h.clients, ch)
			close(ch)
		}
	})
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	n := 0
	b.do(func(h *hub) { n = len(h.clients) })
	return n
}

// Publish sends an event to every client. It does not wait for delivery.
func (b *Broker) Publish(event Event) {
	select {
	case b.ops <- func(h *hub) { h.send(event) }:
	case <-b.stopped:
	}
}

// PublishChange announces a new document revision.
func (b *Broker) PublishChange(revision uint64) {
	b.Publish(Event{Type: TypeDocumentChanged, Data: map[string]uint64{"revision": revision}})
}

// PublishRulesChanged requests a rules.changed event. It never blocks;
// requests arriving while one is queued are merged.
func (b *Broker) PublishRulesChanged() {
	select {
	case b.rules <- struct{}{}:
	default:
	}
}

// ServeHTTP streams events to one client until it disconnects or the
// broker closes.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
