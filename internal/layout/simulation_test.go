package layout

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparqlviz/sparqlviz/internal/graph"
	"github.com/sparqlviz/sparqlviz/internal/rdf"
)

var testViewport = Viewport{Width: 800, Height: 600}

func testGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.Build([]rdf.Triple{
		rdf.NewTriple("ex:Alice", "a", "ex:Person"),
		rdf.NewTriple("ex:Alice", "ex:knows", "ex:Bob"),
		rdf.NewTriple("ex:Bob", "a", "ex:Person"),
		rdf.NewTriple("ex:Bob", "ex:age", "42"),
		rdf.NewTriple("ex:Alice", "ex:friend", "_:b0"),
	}, graph.Options{})
	require.NoError(t, err)
	return g
}

func TestNew_Errors(t *testing.T) {
	g := testGraph(t)

	_, err := New(g, Viewport{}, DefaultParams())
	assert.ErrorIs(t, err, ErrNoViewport)

	_, err = New(g, Viewport{Width: 100, Height: -1}, DefaultParams())
	assert.ErrorIs(t, err, ErrNoViewport)

	_, err = New(nil, testViewport, DefaultParams())
	assert.ErrorIs(t, err, ErrEmptyGraph)
}

func TestNew_SeedsAroundCenter(t *testing.T) {
	g := testGraph(t)
	sim, err := New(g, testViewport, DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, Seeded, sim.State())
	assert.True(t, sim.Active())

	f := sim.Frame()
	require.Len(t, f.Positions, len(g.Nodes))
	for id, p := range f.Positions {
		assert.Less(t, p.Sub(testViewport.Center()).Len(), 100.0, "node %s seeded far from center", id)
	}
}

func TestNew_LinksResolvedByIdentity(t *testing.T) {
	g := testGraph(t)
	reversed := &graph.Graph{Links: g.Links, NodeTriples: g.NodeTriples}
	for i := len(g.Nodes) - 1; i >= 0; i-- {
		reversed.Nodes = append(reversed.Nodes, g.Nodes[i])
	}
	_, err := New(reversed, testViewport, DefaultParams())
	require.NoError(t, err)

	broken := &graph.Graph{
		Nodes: []graph.Node{{ID: "ex:A", Type: graph.NodeTypeNode}},
		Links: []graph.Link{{Source: "ex:A", Target: "ex:missing"}},
	}
	_, err = New(broken, testViewport, DefaultParams())
	assert.ErrorIs(t, err, ErrUnknownNode)
}

func TestRun_ReachesRest(t *testing.T) {
	sim, err := New(testGraph(t), testViewport, DefaultParams())
	require.NoError(t, err)

	f := sim.Run(1000)
	assert.Equal(t, AtRest, f.State)
	assert.False(t, sim.Active())
	assert.Less(t, f.Alpha, DefaultParams().AlphaMin)
	assert.LessOrEqual(t, f.Tick, 310)

	for id, p := range f.Positions {
		assert.False(t, math.IsNaN(p.X) || math.IsNaN(p.Y), "node %s has NaN position", id)
	}
}

func TestRun_StatesProgress(t *testing.T) {
	sim, err := New(testGraph(t), testViewport, DefaultParams())
	require.NoError(t, err)

	seen := map[State]bool{}
	for sim.Active() {
		seen[sim.Step().State] = true
	}
	assert.True(t, seen[Ticking], "never ticking")
	assert.True(t, seen[Cooling], "never cooling")
	assert.True(t, seen[AtRest], "never at rest")
}

func TestRun_CentersLayout(t *testing.T) {
	sim, err := New(testGraph(t), testViewport, DefaultParams())
	require.NoError(t, err)
	f := sim.Run(1000)

	var sum Vec
	for _, p := range f.Positions {
		sum = sum.Add(p)
	}
	mean := sum.Scale(1 / float64(len(f.Positions)))
	assert.InDelta(t, testViewport.Width/2, mean.X, 5)
	assert.InDelta(t, testViewport.Height/2, mean.Y, 5)
}

func TestRun_SeparatesNodes(t *testing.T) {
	g := testGraph(t)
	sim, err := New(g, testViewport, DefaultParams())
	require.NoError(t, err)
	f := sim.Run(1000)

	for i, a := range g.Nodes {
		for _, b := range g.Nodes[i+1:] {
			d := f.Positions[a.ID].Sub(f.Positions[b.ID]).Len()
			minDist := graph.Radius(a) + graph.Radius(b)
			assert.GreaterOrEqual(t, d, minDist-1, "%s and %s overlap", a.ID, b.ID)
		}
	}

	for _, l := range g.Links {
		d := f.Positions[l.Source].Sub(f.Positions[l.Target]).Len()
		assert.Less(t, d, 150.0, "link %s -> %s stretched", l.Source, l.Target)
	}
}

func TestRun_Deterministic(t *testing.T) {
	a, err := New(testGraph(t), testViewport, DefaultParams())
	require.NoError(t, err)
	b, err := New(testGraph(t), testViewport, DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, a.Run(50).Positions, b.Run(50).Positions)
}

func TestDrag_ClampsToViewport(t *testing.T) {
	sim, err := New(testGraph(t), testViewport, DefaultParams())
	require.NoError(t, err)
	sim.Run(1000)

	const id = "ex:Alice"
	r, _ := sim.RadiusOf(id)

	require.NoError(t, sim.DragStart(id))
	assert.Equal(t, Dragging, sim.State())
	assert.True(t, sim.Pinned(id))

	got, err := sim.DragMove(id, Vec{X: -500, Y: 5000})
	require.NoError(t, err)
	assert.Equal(t, Vec{X: r, Y: testViewport.Height - r}, got)

	sim.Step()
	pos, _ := sim.Position(id)
	assert.Equal(t, got, pos, "pinned node moved during tick")

	got, err = sim.DragMove(id, Vec{X: 10_000, Y: -3})
	require.NoError(t, err)
	assert.Equal(t, Vec{X: testViewport.Width - r, Y: r}, got)

	require.NoError(t, sim.DragEnd(id))
	assert.False(t, sim.Pinned(id))
	assert.NotEqual(t, Dragging, sim.State())
}

func TestDrag_ReheatsRestingSimulation(t *testing.T) {
	sim, err := New(testGraph(t), testViewport, DefaultParams())
	require.NoError(t, err)
	sim.Run(1000)
	require.False(t, sim.Active())

	require.NoError(t, sim.DragStart("ex:Bob"))
	assert.True(t, sim.Active())
	before := sim.Alpha()
	for i := 0; i < 20; i++ {
		sim.Step()
	}
	assert.Greater(t, sim.Alpha(), before)

	require.NoError(t, sim.DragEnd("ex:Bob"))
	f := sim.Run(2000)
	assert.Equal(t, AtRest, f.State)
}

func TestDrag_Errors(t *testing.T) {
	sim, err := New(testGraph(t), testViewport, DefaultParams())
	require.NoError(t, err)

	assert.ErrorIs(t, sim.DragStart("ex:nobody"), ErrUnknownNode)

	_, err = sim.DragMove("ex:Alice", Vec{})
	assert.ErrorIs(t, err, ErrNotDragging)
	assert.ErrorIs(t, sim.DragEnd("ex:Alice"), ErrNotDragging)

	sim.Stop()
	assert.Equal(t, Idle, sim.State())
	assert.ErrorIs(t, sim.DragStart("ex:Alice"), ErrStopped)
	assert.False(t, sim.Active())
}

func TestDrag_NewDragReleasesPrevious(t *testing.T) {
	sim, err := New(testGraph(t), testViewport, DefaultParams())
	require.NoError(t, err)

	require.NoError(t, sim.DragStart("ex:Alice"))
	require.NoError(t, sim.DragStart("ex:Bob"))
	assert.False(t, sim.Pinned("ex:Alice"))
	assert.True(t, sim.Pinned("ex:Bob"))
}

func TestStop_FreezesFrames(t *testing.T) {
	sim, err := New(testGraph(t), testViewport, DefaultParams())
	require.NoError(t, err)
	sim.Step()
	sim.Stop()

	before := sim.Frame()
	after := sim.Step()
	assert.Equal(t, before.Tick, after.Tick)
	assert.Equal(t, before.Positions, after.Positions)
}

type simStepper struct {
	sim *Simulation
}

func (l simStepper) Step() Frame  { return l.sim.Step() }
func (l simStepper) Active() bool { return l.sim.Active() }

func TestRunner_StepsUntilRestThenCancels(t *testing.T) {
	sim, err := New(testGraph(t), testViewport, DefaultParams())
	require.NoError(t, err)

	frames := make(chan Frame, 2048)
	r := NewRunner(simStepper{sim}, func(f Frame) { frames <- f }, WithUnlimitedRate())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	timeout := time.After(10 * time.Second)
	var last Frame
	for last.State != AtRest {
		select {
		case last = <-frames:
		case <-timeout:
			t.Fatal("runner did not reach rest")
		}
	}
	assert.Greater(t, last.Tick, 1)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop after cancel")
	}
}

func TestRunner_CancelBeforeStart(t *testing.T) {
	sim, err := New(testGraph(t), testViewport, DefaultParams())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(simStepper{sim}, nil, WithTickRate(30))
	assert.ErrorIs(t, r.Run(ctx), context.Canceled)
	assert.Equal(t, 0, sim.Tick())
}
