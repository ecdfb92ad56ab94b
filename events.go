package leafclient

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// RequestEvent describes the outcome of one mediated request. Events are
// observability output only; they never influence the request result.
type RequestEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	RequestID string        `json:"request_id"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Status    int           `json:"status,omitempty"`
	Code      int           `json:"code"`
	Duration  time.Duration `json:"duration_ns"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// EventSink consumes request events. Implementations must be safe for
// concurrent use; Emit is called from the dispatcher goroutine.
type EventSink interface {
	Emit(ctx context.Context, event RequestEvent)
}

// NoOpSink discards events.
type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, RequestEvent) {}

// ChannelSink forwards events to a channel.
type ChannelSink struct {
	events chan RequestEvent
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{events: make(chan RequestEvent, buffer)}
}

func (s *ChannelSink) Emit(ctx context.Context, event RequestEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

func (s *ChannelSink) Events() <-chan RequestEvent {
	return s.events
}

// JSONWriterSink writes one JSON object per line to the wrapped writer.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{writer: w}
}

func (s *JSONWriterSink) Emit(ctx context.Context, event RequestEvent) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}

// ZerologSink logs request events through a zerolog logger. Successful
// requests log at debug level, failures at warn.
type ZerologSink struct {
	logger zerolog.Logger
}

func NewZerologSink(logger zerolog.Logger) *ZerologSink {
	return &ZerologSink{logger: logger}
}

func (s *ZerologSink) Emit(_ context.Context, event RequestEvent) {
	level := zerolog.DebugLevel
	if !event.Success {
		level = zerolog.WarnLevel
	}
	ev := s.logger.WithLevel(level).
		Str("request_id", event.RequestID).
		Str("method", event.Method).
		Str("path", event.Path).
		Int("code", event.Code).
		Dur("duration", event.Duration)
	if event.Status != 0 {
		ev = ev.Int("status", event.Status)
	}
	if event.Error != "" {
		ev = ev.Str("error", event.Error)
	}
	ev.Msg("request")
}
