package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Progress frame statuses. A stream carries started, one result (or an
// error frame), then completed. Frames are unnamed so EventSource-style
// readers see them through onmessage; the status field tells them apart.
const (
	statusStarted   = "started"
	statusCompleted = "completed"
)

var errStreamingUnsupported = errors.New("streaming unsupported by response writer")

type eventStream struct {
	w http.ResponseWriter
	f http.Flusher
}

// openStream writes the event-stream headers. Nothing may be written to w
// outside the stream afterwards.
func openStream(w http.ResponseWriter) (*eventStream, error) {
	f, ok := w.(http.Flusher)
	if !ok {
		return nil, errStreamingUnsupported
	}
	h := w.Header()
	h.Set("Content-Type", "text/event-stream; charset=utf-8")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	f.Flush()
	return &eventStream{w: w, f: f}, nil
}

func (s *eventStream) send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal stream frame: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return err
	}
	s.f.Flush()
	return nil
}
