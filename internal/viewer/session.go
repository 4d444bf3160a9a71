package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sparqlviz/sparqlviz/internal/graph"
	"github.com/sparqlviz/sparqlviz/internal/layout"
	"github.com/sparqlviz/sparqlviz/internal/rdf"
	"github.com/sparqlviz/sparqlviz/internal/viz"
)

// ErrClosed is returned by operations on a closed session.
var ErrClosed = errors.New("session closed")

// DefaultSubscriberBuffer is the channel capacity handed to subscribers.
// Frames that do not fit are dropped for that subscriber.
const DefaultSubscriberBuffer = 64

// Options configures a Session.
type Options struct {
	// Limit caps the triples mapped per load; <= 0 means graph.DefaultLimit.
	Limit int
	// Prefixes abbreviate IRIs in labels.
	Prefixes rdf.PrefixMap
	// Params tunes the layout. Nil means layout.DefaultParams.
	Params *layout.Params
	// Height is the fixed surface height outside fullscreen; 0 uses the
	// reported height.
	Height float64
	// TickRate is the maximum steps per second; 0 uses the runner default.
	TickRate float64
	// Manual disables the background runner. Callers advance the layout
	// with Step. Used for batch rendering and tests.
	Manual bool
	// Logger receives lifecycle messages. Nil means no logging.
	Logger *zap.Logger
}

// Snapshot is a consistent copy of what the surface shows.
type Snapshot struct {
	Graph     *graph.Graph
	Frame     layout.Frame
	Transform layout.Transform
	Viewport  layout.Viewport
	State     layout.State
}

// Session owns one graph and at most one live simulation for one surface.
// It is safe for concurrent use.
type Session struct {
	id     string
	opts   Options
	params layout.Params
	logger *zap.Logger
	parent context.Context

	mu          sync.Mutex
	closed      bool
	viewport    layout.Viewport
	fullscreen  bool
	widthBefore float64
	graph       *graph.Graph
	sim         *layout.Simulation
	runner      *layout.Runner
	cancel      context.CancelFunc
	frame       layout.Frame
	transform   layout.Transform
	gesture     layout.Gesture

	subs    map[int]chan Event
	nextSub int
}

// New creates an empty session for a surface of the given size. The
// context bounds every background runner the session starts.
func New(ctx context.Context, viewport layout.Viewport, opts Options) *Session {
	params := layout.DefaultParams()
	if opts.Params != nil {
		params = *opts.Params
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	return &Session{
		id:        id,
		opts:      opts,
		params:    params,
		logger:    logger.With(zap.String("session", id)),
		parent:    ctx,
		viewport:  viewport,
		transform: layout.Identity(),
		subs:      make(map[int]chan Event),
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Load replaces the graph with one built from triples. Empty input clears
// the surface. On error the current graph and layout are left untouched.
func (s *Session) Load(triples []rdf.Triple) error {
	return s.LoadDataset(&rdf.Dataset{Triples: triples})
}

// LoadDataset is Load for a parsed dataset; the dataset's own prefixes
// are used for labels on top of the session's.
func (s *Session) LoadDataset(ds *rdf.Dataset) error {
	g, err := graph.BuildFromDataset(ds, graph.Options{Prefixes: s.opts.Prefixes, Limit: s.opts.Limit})
	if err != nil {
		return fmt.Errorf("building graph: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	if g == nil || g.IsEmpty() {
		s.teardown()
		s.graph = nil
		s.frame = layout.Frame{}
		s.logger.Debug("surface cleared")
		s.publish(Event{Kind: EventCleared, Transform: s.transform})
		return nil
	}

	s.graph = g
	s.transform = layout.Identity()
	st := g.Stats()
	s.logger.Info("graph loaded", zap.Int("nodes", st.Nodes), zap.Int("links", st.Links))
	if err := s.rebuild(); err != nil {
		return err
	}
	s.publish(Event{Kind: EventGraph, Transform: s.transform})
	return nil
}

// Resize reports a new surface size. An invalid viewport is ignored.
// Otherwise the layout restarts from the cached graph in the new bounds.
func (s *Session) Resize(vp layout.Viewport, fullscreen bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	widthBefore := s.widthBefore
	switch {
	case fullscreen && !s.fullscreen:
		widthBefore = s.viewport.Width
	case !fullscreen && s.fullscreen:
		if widthBefore > 0 {
			vp.Width = widthBefore
		}
		widthBefore = 0
	}
	if !fullscreen && s.opts.Height > 0 {
		vp.Height = s.opts.Height
	}
	if !vp.Valid() {
		return nil
	}
	s.fullscreen, s.widthBefore = fullscreen, widthBefore
	s.viewport = vp

	if s.graph == nil {
		return nil
	}
	s.logger.Debug("viewport resized",
		zap.Float64("width", vp.Width), zap.Float64("height", vp.Height),
		zap.Bool("fullscreen", fullscreen))
	if err := s.rebuild(); err != nil {
		return err
	}
	s.publish(Event{Kind: EventGraph, Transform: s.transform})
	return nil
}

// Fullscreen reports whether the surface is in fullscreen mode.
func (s *Session) Fullscreen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fullscreen
}

// rebuild tears down the current simulation and seeds a new one for the
// cached graph. Callers hold s.mu.
func (s *Session) rebuild() error {
	s.teardown()
	if !s.viewport.Valid() {
		// Wait for a usable Resize.
		s.frame = layout.Frame{}
		return nil
	}
	sim, err := layout.New(s.graph, s.viewport, s.params)
	if err != nil {
		return fmt.Errorf("starting layout: %w", err)
	}
	s.sim = sim
	s.frame = sim.Frame()

	if s.opts.Manual {
		return nil
	}

	ropts := []layout.RunnerOption{layout.WithLogger(s.logger)}
	if s.opts.TickRate > 0 {
		ropts = append(ropts, layout.WithTickRate(s.opts.TickRate))
	}
	runner := layout.NewRunner(&stepper{s: s, sim: sim}, nil, ropts...)
	ctx, cancel := context.WithCancel(s.parent)
	s.runner, s.cancel = runner, cancel
	go runner.Run(ctx)
	return nil
}

// teardown stops the current simulation and its runner. Callers hold s.mu.
func (s *Session) teardown() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.sim != nil {
		s.sim.Stop()
	}
	s.sim, s.runner, s.cancel = nil, nil, nil
	s.gesture = layout.Gesture{}
}

// stepper adapts the session to layout.Stepper for one simulation. A
// stepper whose simulation has been replaced goes inactive.
type stepper struct {
	s   *Session
	sim *layout.Simulation
}

func (st *stepper) Step() layout.Frame {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	if st.s.sim != st.sim {
		return st.sim.Frame()
	}
	return st.s.advance()
}

func (st *stepper) Active() bool {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	return st.s.sim == st.sim && st.sim.Active()
}

// advance steps the live simulation and publishes the frame. Callers hold s.mu.
func (s *Session) advance() layout.Frame {
	f := s.sim.Step()
	s.frame = f
	s.publish(Event{Kind: EventFrame, Frame: &f, Transform: s.transform})
	return f
}

// Step advances the layout by one tick. It reports false when there is
// nothing to advance.
func (s *Session) Step() (layout.Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sim == nil || !s.sim.Active() {
		return s.frame, false
	}
	return s.advance(), true
}

// Settle steps until the layout rests or maxTicks steps have run.
func (s *Session) Settle(maxTicks int) layout.Frame {
	for i := 0; i < maxTicks; i++ {
		if _, ok := s.Step(); !ok {
			break
		}
	}
	return s.Snapshot().Frame
}

// DragStart pins node id under the pointer at screen point p.
func (s *Session) DragStart(id string, p layout.Vec) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sim == nil {
		return layout.ErrStopped
	}
	if err := s.sim.DragStart(id); err != nil {
		return err
	}
	s.gesture.Down(id, p)
	s.wake()
	return nil
}

// DragMove moves the dragged node to screen point p and returns its new
// position in layout coordinates.
func (s *Session) DragMove(id string, p layout.Vec) (layout.Vec, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sim == nil {
		return layout.Vec{}, layout.ErrStopped
	}
	pos, err := s.sim.DragMove(id, s.transform.Invert(p))
	if err != nil {
		return layout.Vec{}, err
	}
	s.gesture.Move(p)
	s.wake()
	return pos, nil
}

// DragEnd releases the dragged node. click reports whether the pointer
// stayed within the click tolerance.
func (s *Session) DragEnd(id string) (click bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sim == nil {
		return false, layout.ErrStopped
	}
	if err := s.sim.DragEnd(id); err != nil {
		return false, err
	}
	target, click := s.gesture.Up()
	s.wake()
	return click && target == id, nil
}

func (s *Session) wake() {
	if s.runner != nil {
		s.runner.Wake()
	}
}

// Click handles a click on node id. Clicks on predicate nodes, on unknown
// nodes and at the end of a drag are ignored. It reports whether an
// EventNodeClicked was published.
func (s *Session) Click(id string, wasDrag bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wasDrag || s.graph == nil {
		return false
	}
	n, ok := s.graph.Node(id)
	if !ok || n.Type == graph.NodeTypePred {
		return false
	}
	s.logger.Debug("node clicked", zap.String("id", id))
	s.publish(Event{Kind: EventNodeClicked, NodeID: id, Transform: s.transform})
	return true
}

// Zoom scales the view by factor around screen point anchor.
func (s *Session) Zoom(anchor layout.Vec, factor float64) layout.Transform {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transform = s.transform.ScaleAt(anchor, factor)
	s.publishView()
	return s.transform
}

// Wheel zooms for a mouse wheel delta at anchor.
func (s *Session) Wheel(anchor layout.Vec, deltaY float64) layout.Transform {
	return s.Zoom(anchor, layout.WheelFactor(deltaY))
}

// Pan shifts the view by a screen-space offset.
func (s *Session) Pan(dx, dy float64) layout.Transform {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transform = s.transform.Translate(dx, dy)
	s.publishView()
	return s.transform
}

// publishView sends the current frame with the new transform. Callers hold s.mu.
func (s *Session) publishView() {
	f := s.frame
	s.publish(Event{Kind: EventFrame, Frame: &f, Transform: s.transform})
}

// Snapshot returns the graph, latest frame and view transform.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Graph:     s.graph,
		Frame:     s.frame,
		Transform: s.transform,
		Viewport:  s.viewport,
	}
	if s.sim != nil {
		snap.State = s.sim.State()
	}
	return snap
}

// Scene returns the drawable scene for the latest frame, or nil when the
// surface is empty.
func (s *Session) Scene() *viz.Scene {
	snap := s.Snapshot()
	if snap.Graph == nil {
		return nil
	}
	return viz.NewScene(snap.Graph, snap.Frame, snap.Viewport, snap.Transform)
}

// Subscribe registers a listener. The returned function unsubscribes and
// closes the channel. Slow listeners miss events rather than blocking the
// layout.
func (s *Session) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Event, DefaultSubscriberBuffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

// publish delivers e to every subscriber without blocking. Callers hold s.mu.
func (s *Session) publish(e Event) {
	for _, ch := range s.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Close stops the layout and closes every subscriber channel.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.teardown()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.logger.Debug("session closed")
}
