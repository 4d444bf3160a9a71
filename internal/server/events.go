package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/sparqlviz/sparqlviz/internal/viewer"
	"github.com/sparqlviz/sparqlviz/internal/viz"
)

// handleEvents streams session events as server-sent events. Event names
// are the viewer.EventKind names; frame events carry positions and the
// view transform.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("streaming unsupported"))
		return
	}

	events, unsubscribe := s.session.Subscribe()
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if err := writeEvent(w, e); err != nil {
				s.logger.Debug("event stream closed", zap.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}

// writeEvent writes one SSE record.
func writeEvent(w io.Writer, e viewer.Event) error {
	var payload any
	switch e.Kind {
	case viewer.EventFrame:
		doc := viz.FrameDoc{Transform: e.Transform}
		if e.Frame != nil {
			doc.Frame = *e.Frame
		}
		payload = doc
	case viewer.EventNodeClicked:
		payload = map[string]string{"id": e.NodeID}
	default:
		payload = struct{}{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", e.Kind, err)
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Kind, data)
	return err
}
