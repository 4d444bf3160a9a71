package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sparqlviz/sparqlviz/internal/layout"
	"github.com/sparqlviz/sparqlviz/internal/rdf"
	"github.com/sparqlviz/sparqlviz/internal/store"
	"github.com/sparqlviz/sparqlviz/internal/viz"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Request bodies.
type (
	resizeRequest struct {
		Width      float64 `json:"width"`
		Height     float64 `json:"height"`
		Fullscreen bool    `json:"fullscreen"`
	}
	dragRequest struct {
		ID string  `json:"id"`
		X  float64 `json:"x"`
		Y  float64 `json:"y"`
	}
	clickRequest struct {
		ID      string `json:"id"`
		Dragged bool   `json:"dragged"`
	}
	zoomRequest struct {
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
		Factor float64 `json:"factor"`
		DeltaY float64 `json:"deltaY"`
	}
	panRequest struct {
		DX float64 `json:"dx"`
		DY float64 `json:"dy"`
	}
)

// DescribeRow is one triple as displayed in the describe panel.
type DescribeRow struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
}

// ClickResponse answers a click. Node is empty when the click was ignored.
type ClickResponse struct {
	Node    string        `json:"node,omitempty"`
	Triples []DescribeRow `json:"triples"`
}

// DragResponse answers a drag request.
type DragResponse struct {
	Position *layout.Vec `json:"position,omitempty"`
	Click    bool        `json:"click"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body: "+err.Error()))
		return false
	}
	return true
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := viz.GenerateViewerHTML(viz.ViewerOptions{Title: s.opts.Title})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(page))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.session.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"session": s.session.ID(),
		"state":   snap.State,
		"loaded":  snap.Graph != nil,
	})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	snap := s.session.Snapshot()
	var frame *layout.Frame
	if snap.Frame.Positions != nil {
		frame = &snap.Frame
	}
	writeJSON(w, http.StatusOK, viz.NewDocument(snap.Graph, frame, snap.Transform))
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	snap := s.session.Snapshot()
	writeJSON(w, http.StatusOK, viz.FrameDoc{Frame: snap.Frame, Transform: snap.Transform})
}

func (s *Server) handleExportSVG(w http.ResponseWriter, r *http.Request) {
	snap := s.session.Snapshot()
	scene := viz.NewScene(snap.Graph, snap.Frame, snap.Viewport, snap.Transform)
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Content-Disposition", `attachment; filename="`+viz.DefaultSVGName+`"`)
	if err := viz.RenderSVG(w, scene); err != nil {
		s.logger.Error("rendering svg", zap.Error(err))
	}
}

func (s *Server) handleCytoscape(w http.ResponseWriter, r *http.Request) {
	snap := s.session.Snapshot()
	if snap.Graph == nil {
		writeError(w, http.StatusNotFound, errors.New("no graph loaded"))
		return
	}
	out, err := viz.ToCytoscapeJSON(snap.Graph, &snap.Frame)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(out))
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	if !decode(w, r, &req) {
		return
	}
	vp := layout.Viewport{Width: req.Width, Height: req.Height}
	if err := s.session.Resize(vp, req.Fullscreen); err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	snap := s.session.Snapshot()
	writeJSON(w, http.StatusOK, snap.Viewport)
}

func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	var req dragRequest
	if !decode(w, r, &req) {
		return
	}
	p := layout.Vec{X: req.X, Y: req.Y}

	var (
		resp DragResponse
		err  error
	)
	switch chi.URLParam(r, "phase") {
	case "start":
		err = s.session.DragStart(req.ID, p)
	case "move":
		var pos layout.Vec
		if pos, err = s.session.DragMove(req.ID, p); err == nil {
			resp.Position = &pos
		}
	case "end":
		resp.Click, err = s.session.DragEnd(req.ID)
	default:
		writeError(w, http.StatusNotFound, errors.New("unknown drag phase"))
		return
	}
	if err != nil {
		writeError(w, dragStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func dragStatus(err error) int {
	switch {
	case errors.Is(err, layout.ErrUnknownNode):
		return http.StatusNotFound
	case errors.Is(err, layout.ErrNotDragging), errors.Is(err, layout.ErrStopped):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	if !decode(w, r, &req) {
		return
	}
	if !s.session.Click(req.ID, req.Dragged) {
		writeJSON(w, http.StatusOK, ClickResponse{Triples: []DescribeRow{}})
		return
	}

	pm, triples, err := s.describe(req.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	resp := ClickResponse{Node: req.ID, Triples: make([]DescribeRow, 0, len(triples))}
	for _, t := range triples {
		resp.Triples = append(resp.Triples, DescribeRow{
			Subject:   pm.AbbreviateTerm(t.Subject),
			Predicate: pm.AbbreviateTerm(t.Predicate),
			Object:    pm.AbbreviateTerm(t.Object),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// describe runs the follow-up query for a clicked node against the store,
// or the loaded dataset when there is no store or nothing imported yet.
func (s *Server) describe(id string) (rdf.PrefixMap, []rdf.Triple, error) {
	if s.opts.Store == nil {
		pm, triples := s.describeLoaded(id)
		return pm, triples, nil
	}
	triples, err := s.opts.Store.Describe(s.opts.Dataset, id, s.opts.DescribeLimit)
	if errors.Is(err, store.ErrDatasetNotFound) {
		pm, triples := s.describeLoaded(id)
		return pm, triples, nil
	}
	if err != nil {
		return nil, nil, err
	}
	s.mu.RLock()
	pm := s.prefixesFor(s.dataset)
	s.mu.RUnlock()
	return pm, triples, nil
}

func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request) {
	var req zoomRequest
	if !decode(w, r, &req) {
		return
	}
	anchor := layout.Vec{X: req.X, Y: req.Y}
	var t layout.Transform
	if req.Factor > 0 {
		t = s.session.Zoom(anchor, req.Factor)
	} else {
		t = s.session.Wheel(anchor, req.DeltaY)
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handlePan(w http.ResponseWriter, r *http.Request) {
	var req panRequest
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.session.Pan(req.DX, req.DY))
}
