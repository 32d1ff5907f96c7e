package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"
)

// gateSink blocks inside Emit until released, so tests can hold the
// dispatcher's run loop at a known point.
type gateSink struct {
	started chan struct{}
	release chan struct{}
	got     chan Event
}

func newGateSink() *gateSink {
	return &gateSink{
		started: make(chan struct{}, 16),
		release: make(chan struct{}),
		got:     make(chan Event, 16),
	}
}

func (s *gateSink) Emit(_ context.Context, event Event) {
	s.started <- struct{}{}
	<-s.release
	s.got <- event
}

func waitSignal(t *testing.T, ch chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestDispatcherDeliversToSink(t *testing.T) {
	sink := NewChannelSink(8)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 8}, sink)
	defer d.Close()

	event := Event{
		Timestamp: time.Now().UTC(),
		EventType: "login_success",
		UserID:    "42",
		Email:     "alice@example.com",
		Success:   true,
	}
	d.Emit(context.Background(), event)

	select {
	case got := <-sink.Events():
		if got.EventType != "login_success" || got.UserID != "42" {
			t.Fatalf("unexpected event: %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event never reached sink")
	}
}

func TestDispatcherDrainsOnClose(t *testing.T) {
	sink := NewChannelSink(16)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 16}, sink)

	for i := 0; i < 5; i++ {
		d.Emit(context.Background(), Event{EventType: "logout"})
	}
	d.Close()

	// Close waits for the run loop to flush everything buffered.
	if got := len(sink.Events()); got != 5 {
		t.Fatalf("drained events: got %d want 5", got)
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	sink := newGateSink()
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	// First event is consumed by the run loop, which then parks in the sink.
	d.Emit(context.Background(), Event{EventType: "e1"})
	waitSignal(t, sink.started, "run loop to pick up first event")

	// Second event fills the buffer, third has nowhere to go.
	d.Emit(context.Background(), Event{EventType: "e2"})
	d.Emit(context.Background(), Event{EventType: "e3"})

	if got := d.Dropped(); got != 1 {
		t.Fatalf("dropped: got %d want 1", got)
	}

	close(sink.release)
	d.Close()

	delivered := 0
	for len(sink.got) > 0 {
		<-sink.got
		delivered++
	}
	if delivered != 2 {
		t.Fatalf("delivered: got %d want 2", delivered)
	}
}

func TestDispatcherDisabledIsNil(t *testing.T) {
	d := NewDispatcher(Config{Enabled: false}, NoOpSink{})
	if d != nil {
		t.Fatal("disabled dispatcher should be nil")
	}

	// Nil receivers are safe, callers never branch on audit being on.
	d.Emit(context.Background(), Event{EventType: "login_success"})
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("nil dispatcher reported drops")
	}
}

func TestDispatcherEmitAfterClose(t *testing.T) {
	sink := NewChannelSink(4)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 4}, sink)
	d.Close()

	d.Emit(context.Background(), Event{EventType: "login_success"})
	if got := len(sink.Events()); got != 0 {
		t.Fatalf("event accepted after close: %d", got)
	}
}

func TestJSONWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), Event{
		Timestamp: time.Now().UTC(),
		EventType: "refresh_reuse_detected",
		UserID:    "42",
		JTI:       "jti-1",
		Error:     "token revoked",
		Metadata:  map[string]string{"kind": "refresh"},
	})

	line := bytes.TrimSpace(buf.Bytes())
	var got Event
	if err := json.Unmarshal(line, &got); err != nil {
		t.Fatalf("unmarshal sink output: %v", err)
	}
	if got.EventType != "refresh_reuse_detected" || got.JTI != "jti-1" {
		t.Fatalf("unexpected event: %+v", got)
	}
	if got.Metadata["kind"] != "refresh" {
		t.Fatalf("metadata lost: %+v", got.Metadata)
	}
	if got.Success {
		t.Fatal("failure event marshalled as success")
	}
}
