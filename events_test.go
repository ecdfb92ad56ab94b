package leafclient

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestDispatcherDeliversAndCloseDrains(t *testing.T) {
	sink := NewChannelSink(16)
	d := newEventDispatcher(EventsConfig{Enabled: true, BufferSize: 16, DropIfFull: true}, sink)

	for i := 0; i < 5; i++ {
		d.Emit(RequestEvent{Path: "/stats", Success: true})
	}
	d.Close()

	var got int
	for {
		select {
		case <-sink.Events():
			got++
			continue
		default:
		}
		break
	}
	if got != 5 {
		t.Fatalf("expected 5 events after drain, got %d", got)
	}

	// Emitting after Close is a no-op, not a panic.
	d.Emit(RequestEvent{Path: "/late"})
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	// A sink that never consumes, a buffer of one: the second event must drop.
	blocked := NewChannelSink(1)
	// Fill the sink channel so the dispatcher goroutine blocks on delivery.
	blocked.Emit(context.Background(), RequestEvent{Path: "/fill"})

	d := newEventDispatcher(EventsConfig{Enabled: true, BufferSize: 1, DropIfFull: true}, blocked)

	deadline := time.After(time.Second)
	for d.Dropped() == 0 {
		d.Emit(RequestEvent{Path: "/x"})
		select {
		case <-deadline:
			t.Fatal("expected drops under backpressure")
		default:
		}
	}
}

func TestDisabledDispatcherIsNil(t *testing.T) {
	d := newEventDispatcher(EventsConfig{Enabled: false}, NewChannelSink(1))
	if d != nil {
		t.Fatal("disabled config must not start a dispatcher")
	}
	// All operations tolerate the nil dispatcher.
	d.Emit(RequestEvent{})
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("nil dispatcher has no drops")
	}
}

func TestJSONWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), RequestEvent{
		RequestID: "r1",
		Method:    "GET",
		Path:      "/stats",
		Code:      0,
		Success:   true,
	})
	sink.Emit(context.Background(), RequestEvent{
		RequestID: "r2",
		Method:    "GET",
		Path:      "/x",
		Code:      403,
		Error:     "nope",
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	var event RequestEvent
	if err := json.Unmarshal([]byte(lines[1]), &event); err != nil {
		t.Fatalf("line is not valid JSON: %v", err)
	}
	if event.RequestID != "r2" || event.Code != 403 || event.Error != "nope" {
		t.Fatalf("unexpected event: %+v", event)
	}
}
