package viewer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparqlviz/sparqlviz/internal/graph"
	"github.com/sparqlviz/sparqlviz/internal/layout"
	"github.com/sparqlviz/sparqlviz/internal/rdf"
)

func sampleTriples() []rdf.Triple {
	return []rdf.Triple{
		rdf.NewTriple("https://ex.org/a", rdf.RDFType, "https://ex.org/Thing"),
		rdf.NewTriple("https://ex.org/a", "https://ex.org/knows", "https://ex.org/b"),
		rdf.NewTriple("https://ex.org/b", "https://ex.org/name", "Bob"),
	}
}

func newManual(t *testing.T) *Session {
	t.Helper()
	s := New(context.Background(), layout.Viewport{Width: 400, Height: 300}, Options{Manual: true})
	t.Cleanup(s.Close)
	return s
}

// drain collects whatever events are buffered on ch.
func drain(ch <-chan Event) []Event {
	var out []Event
	for {
		select {
		case e, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, e)
		default:
			return out
		}
	}
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

func TestLoad_BuildsGraphAndSeeds(t *testing.T) {
	s := newManual(t)
	ch, unsub := s.Subscribe()
	defer unsub()

	require.NoError(t, s.Load(sampleTriples()))

	snap := s.Snapshot()
	require.NotNil(t, snap.Graph)
	assert.Equal(t, layout.Seeded, snap.State)
	assert.Len(t, snap.Frame.Positions, len(snap.Graph.Nodes))
	assert.Equal(t, []EventKind{EventGraph}, kinds(drain(ch)))
	assert.NotEmpty(t, s.ID())
}

func TestLoad_EmptyClears(t *testing.T) {
	s := newManual(t)
	require.NoError(t, s.Load(sampleTriples()))

	ch, unsub := s.Subscribe()
	defer unsub()
	require.NoError(t, s.Load(nil))

	snap := s.Snapshot()
	assert.Nil(t, snap.Graph)
	assert.Equal(t, layout.Idle, snap.State)
	assert.Nil(t, s.Scene())
	assert.Equal(t, []EventKind{EventCleared}, kinds(drain(ch)))
}

func TestLoad_ErrorKeepsPrevious(t *testing.T) {
	s := newManual(t)
	require.NoError(t, s.Load(sampleTriples()))
	before := s.Snapshot()

	bad := []rdf.Triple{{Subject: rdf.NewIRI("https://ex.org/a")}}
	err := s.Load(bad)
	require.ErrorIs(t, err, graph.ErrMalformedTriple)

	after := s.Snapshot()
	assert.Same(t, before.Graph, after.Graph)
	assert.Equal(t, before.Frame.Tick, after.Frame.Tick)
}

func TestResize_RebuildsWithSameCounts(t *testing.T) {
	s := newManual(t)
	require.NoError(t, s.Load(sampleTriples()))
	s.Settle(50)
	before := s.Snapshot()

	require.NoError(t, s.Resize(layout.Viewport{Width: 800, Height: 600}, false))

	after := s.Snapshot()
	assert.Same(t, before.Graph, after.Graph)
	assert.Len(t, after.Frame.Positions, len(before.Frame.Positions))
	assert.Equal(t, 0, after.Frame.Tick)
	assert.Equal(t, layout.Seeded, after.State)
	assert.Equal(t, 800.0, after.Viewport.Width)
}

func TestResize_InvalidIsNoop(t *testing.T) {
	s := newManual(t)
	require.NoError(t, s.Load(sampleTriples()))
	s.Settle(20)
	before := s.Snapshot()

	require.NoError(t, s.Resize(layout.Viewport{Width: 0, Height: 300}, false))

	after := s.Snapshot()
	assert.Equal(t, before.Viewport, after.Viewport)
	assert.Equal(t, before.Frame.Tick, after.Frame.Tick)
}

func TestResize_FullscreenRestoresWidth(t *testing.T) {
	s := New(context.Background(), layout.Viewport{Width: 400, Height: 300},
		Options{Manual: true, Height: 300})
	defer s.Close()
	require.NoError(t, s.Load(sampleTriples()))

	require.NoError(t, s.Resize(layout.Viewport{Width: 1920, Height: 1080}, true))
	assert.True(t, s.Fullscreen())
	assert.Equal(t, layout.Viewport{Width: 1920, Height: 1080}, s.Snapshot().Viewport)

	require.NoError(t, s.Resize(layout.Viewport{Width: 1920, Height: 1080}, false))
	assert.False(t, s.Fullscreen())
	assert.Equal(t, layout.Viewport{Width: 400, Height: 300}, s.Snapshot().Viewport)
}

func TestLoad_WithoutViewportWaitsForResize(t *testing.T) {
	s := New(context.Background(), layout.Viewport{}, Options{Manual: true})
	defer s.Close()

	require.NoError(t, s.Load(sampleTriples()))
	snap := s.Snapshot()
	require.NotNil(t, snap.Graph)
	assert.Equal(t, layout.Idle, snap.State)

	require.NoError(t, s.Resize(layout.Viewport{Width: 300, Height: 200}, false))
	assert.Equal(t, layout.Seeded, s.Snapshot().State)
}

func TestClick(t *testing.T) {
	s := newManual(t)
	require.NoError(t, s.Load(sampleTriples()))
	g := s.Snapshot().Graph
	pred := g.NodesOfType(graph.NodeTypePred)[0].ID

	ch, unsub := s.Subscribe()
	defer unsub()

	tests := []struct {
		name    string
		id      string
		wasDrag bool
		want    bool
	}{
		{"resource node", "https://ex.org/a", false, true},
		{"predicate node", pred, false, false},
		{"after drag", "https://ex.org/a", true, false},
		{"unknown", "https://ex.org/zzz", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Click(tt.id, tt.wasDrag))
		})
	}

	events := drain(ch)
	require.Len(t, events, 1)
	assert.Equal(t, EventNodeClicked, events[0].Kind)
	assert.Equal(t, "https://ex.org/a", events[0].NodeID)
}

func TestDrag_ClickVersusDrag(t *testing.T) {
	s := newManual(t)
	require.NoError(t, s.Load(sampleTriples()))
	id := "https://ex.org/a"
	p, ok := s.Snapshot().Frame.Positions[id]
	require.True(t, ok)

	require.NoError(t, s.DragStart(id, p))
	click, err := s.DragEnd(id)
	require.NoError(t, err)
	assert.True(t, click, "release without movement is a click")

	require.NoError(t, s.DragStart(id, p))
	target := layout.Vec{X: p.X + 40, Y: p.Y}
	got, err := s.DragMove(id, target)
	require.NoError(t, err)
	assert.InDelta(t, target.X, got.X, 1e-9)
	assert.Equal(t, layout.Dragging, s.Snapshot().State)

	f, stepped := s.Step()
	require.True(t, stepped)
	assert.InDelta(t, target.X, f.Positions[id].X, 1e-9)

	click, err = s.DragEnd(id)
	require.NoError(t, err)
	assert.False(t, click)
}

func TestDragMove_UsesViewTransform(t *testing.T) {
	s := newManual(t)
	require.NoError(t, s.Load(sampleTriples()))
	id := "https://ex.org/a"

	s.Pan(10, 20)
	require.NoError(t, s.DragStart(id, layout.Vec{}))
	got, err := s.DragMove(id, layout.Vec{X: 110, Y: 120})
	require.NoError(t, err)
	assert.InDelta(t, 100, got.X, 1e-9)
	assert.InDelta(t, 100, got.Y, 1e-9)
}

func TestDrag_WithoutGraph(t *testing.T) {
	s := newManual(t)
	require.ErrorIs(t, s.DragStart("x", layout.Vec{}), layout.ErrStopped)
	_, err := s.DragEnd("x")
	require.ErrorIs(t, err, layout.ErrStopped)
}

func TestZoomAndPan(t *testing.T) {
	s := newManual(t)
	ch, unsub := s.Subscribe()
	defer unsub()

	tr := s.Zoom(layout.Vec{X: 100, Y: 100}, 2)
	assert.InDelta(t, 2, tr.K, 1e-9)
	assert.Equal(t, layout.Vec{X: 100, Y: 100}, tr.Apply(layout.Vec{X: 100, Y: 100}))

	tr = s.Pan(5, -5)
	assert.Equal(t, tr, s.Snapshot().Transform)

	tr = s.Wheel(layout.Vec{}, -100)
	assert.Greater(t, tr.K, 2.0)

	assert.Equal(t, []EventKind{EventFrame, EventFrame, EventFrame}, kinds(drain(ch)))
}

func TestSettle_ReachesRest(t *testing.T) {
	s := newManual(t)
	require.NoError(t, s.Load(sampleTriples()))
	f := s.Settle(1000)
	assert.Equal(t, layout.AtRest, f.State)
	_, stepped := s.Step()
	assert.False(t, stepped)

	scene := s.Scene()
	require.NotNil(t, scene)
	assert.NotEmpty(t, scene.Circles)
}

func TestRunner_PublishesFramesUntilRest(t *testing.T) {
	s := New(context.Background(), layout.Viewport{Width: 400, Height: 300}, Options{TickRate: 10000})
	defer s.Close()
	ch, unsub := s.Subscribe()
	defer unsub()

	require.NoError(t, s.Load(sampleTriples()))

	require.Eventually(t, func() bool {
		return s.Snapshot().State == layout.AtRest
	}, 5*time.Second, 10*time.Millisecond)

	var frames int
	for _, e := range drain(ch) {
		if e.Kind == EventFrame {
			frames++
		}
	}
	assert.Positive(t, frames)
}

func TestClose_ClosesSubscribers(t *testing.T) {
	s := New(context.Background(), layout.Viewport{Width: 400, Height: 300}, Options{Manual: true})
	ch, _ := s.Subscribe()
	s.Close()

	_, ok := <-ch
	assert.False(t, ok)
	assert.ErrorIs(t, s.Load(sampleTriples()), ErrClosed)

	late, _ := s.Subscribe()
	_, ok = <-late
	assert.False(t, ok)
}

func TestUnsubscribe_Idempotent(t *testing.T) {
	s := newManual(t)
	ch, unsub := s.Subscribe()
	unsub()
	unsub()
	_, ok := <-ch
	assert.False(t, ok)
}

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "frame", EventFrame.String())
	assert.Equal(t, "clicked", EventNodeClicked.String())
	assert.Equal(t, "EventKind(9)", EventKind(9).String())
}
