// Package sse streams order events to browsers as Server-Sent Events, for
// dashboards that cannot hold a websocket open.
//
//	stream, ok := sse.New(w, r)
//	if !ok { return }
//	feed, cancel := bus.Subscribe(16)
//	defer cancel()
//	stream.Relay(feed, 15*time.Second)
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shashiranjanraj/delish/pkg/event"
	"github.com/shashiranjanraj/delish/pkg/response"
)

// Stream is one open event-stream response.
type Stream struct {
	w       http.ResponseWriter
	r       *http.Request
	flusher http.Flusher
}

// New writes the event-stream headers. It replies 500 and returns false when
// w cannot flush.
func New(w http.ResponseWriter, r *http.Request) (*Stream, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		response.Error(w, http.StatusInternalServerError, "Streaming not supported")
		return nil, false
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &Stream{w: w, r: r, flusher: flusher}, true
}

// Send writes e as a named event whose data is the JSON event.
func (s *Stream) Send(e event.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("sse: marshal: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", e.Name, payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// Comment writes a comment line, used as a keepalive.
func (s *Stream) Comment(msg string) error {
	if _, err := fmt.Fprintf(s.w, ": %s\n\n", msg); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// Relay forwards events until the client goes away, a write fails or the
// channel is closed. A heartbeat of zero disables keepalives.
func (s *Stream) Relay(events <-chan event.Event, heartbeat time.Duration) {
	var tick <-chan time.Time
	if heartbeat > 0 {
		t := time.NewTicker(heartbeat)
		defer t.Stop()
		tick = t.C
	}

	for {
		select {
		case <-s.r.Context().Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if err := s.Send(e); err != nil {
				return
			}
		case <-tick:
			if err := s.Comment("ping"); err != nil {
				return
			}
		}
	}
}
