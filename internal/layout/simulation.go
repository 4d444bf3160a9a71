package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/sparqlviz/sparqlviz/internal/graph"
)

// State is the lifecycle state of one simulation instance.
type State int

const (
	Idle State = iota
	Seeded
	Ticking
	Cooling
	AtRest
	Dragging
)

var stateNames = [...]string{"idle", "seeded", "ticking", "cooling", "at_rest", "dragging"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Errors returned by the simulation.
var (
	ErrEmptyGraph  = errors.New("graph has no nodes")
	ErrUnknownNode = errors.New("unknown node")
	ErrNotDragging = errors.New("node is not being dragged")
	ErrStopped     = errors.New("simulation stopped")
)

// Params tunes the forces. DefaultParams matches the viewer's behavior.
type Params struct {
	// Charge is the many-body strength for a plain-sized node; each node's
	// strength is scaled by radius/RadiusPlain so smaller nodes repel less.
	Charge float64
	// DistanceMin2 bounds the squared distance used by the charge force.
	DistanceMin2 float64
	// LinkDistance is the spring rest length.
	LinkDistance float64
	// LinkIterations is the number of link relaxation passes per tick.
	LinkIterations int
	// CollideIterations is the number of collision relaxation passes per tick.
	CollideIterations int
	// CollidePadding is added to each node radius for collision.
	CollidePadding float64
	// CollideStrength in [0, 1].
	CollideStrength float64
	// VelocityDecay is the fraction of velocity lost per tick.
	VelocityDecay float64
	AlphaMin      float64
	AlphaDecay    float64
	// ReheatTarget is the alpha target while a node is dragged.
	ReheatTarget float64
	// CoolingAlpha separates Ticking from Cooling.
	CoolingAlpha float64
	// InitialRadius scales the phyllotaxis seeding.
	InitialRadius float64
}

// DefaultParams returns the standard force configuration.
func DefaultParams() Params {
	alphaMin := 0.001
	return Params{
		Charge:            -50,
		DistanceMin2:      1,
		LinkDistance:      50,
		LinkIterations:    1,
		CollideIterations: 2,
		CollidePadding:    2,
		CollideStrength:   1,
		VelocityDecay:     0.4,
		AlphaMin:          alphaMin,
		AlphaDecay:        1 - math.Pow(alphaMin, 1.0/300),
		ReheatTarget:      0.3,
		CoolingAlpha:      0.1,
		InitialRadius:     10,
	}
}

type body struct {
	pos    Vec
	vel    Vec
	fixed  *Vec
	radius float64
	charge float64
}

type spring struct {
	source, target int
	bias           float64
	strength       float64
}

// Frame is the pure output of one tick.
type Frame struct {
	Tick      int            `json:"tick"`
	Alpha     float64        `json:"alpha"`
	State     State          `json:"state"`
	Positions map[string]Vec `json:"positions"`
}

// Simulation is a single, non-restartable layout of one graph in one
// viewport. It is not safe for concurrent use; callers serialize access.
type Simulation struct {
	params   Params
	viewport Viewport
	ids      []string
	index    map[string]int
	bodies   []body
	springs  []spring
	rand     lcg

	alpha       float64
	alphaTarget float64
	tick        int
	state       State
	dragged     int
}

// New seeds a simulation for g inside viewport.
func New(g *graph.Graph, viewport Viewport, params Params) (*Simulation, error) {
	if !viewport.Valid() {
		return nil, ErrNoViewport
	}
	if g.IsEmpty() {
		return nil, ErrEmptyGraph
	}

	s := &Simulation{
		params:   params,
		viewport: viewport,
		ids:      make([]string, len(g.Nodes)),
		index:    make(map[string]int, len(g.Nodes)),
		bodies:   make([]body, len(g.Nodes)),
		rand:     lcg{s: 1},
		alpha:    1,
		dragged:  -1,
	}

	center := viewport.Center()
	angle := math.Pi * (3 - math.Sqrt(5))
	for i, n := range g.Nodes {
		s.ids[i] = n.ID
		s.index[n.ID] = i
		r := params.InitialRadius * math.Sqrt(0.5+float64(i))
		a := float64(i) * angle
		radius := graph.Radius(n)
		s.bodies[i] = body{
			pos:    Vec{center.X + r*math.Cos(a), center.Y + r*math.Sin(a)},
			radius: radius,
			charge: params.Charge * radius / graph.RadiusPlain,
		}
	}

	if err := s.bindLinks(g.Links); err != nil {
		return nil, err
	}
	s.state = Seeded
	return s, nil
}

// bindLinks resolves links by node identity rather than slice position.
func (s *Simulation) bindLinks(links []graph.Link) error {
	count := make([]int, len(s.bodies))
	s.springs = make([]spring, 0, len(links))
	for _, l := range links {
		src, ok := s.index[l.Source]
		if !ok {
			return fmt.Errorf("%w: link source %q", ErrUnknownNode, l.Source)
		}
		tgt, ok := s.index[l.Target]
		if !ok {
			return fmt.Errorf("%w: link target %q", ErrUnknownNode, l.Target)
		}
		count[src]++
		count[tgt]++
		s.springs = append(s.springs, spring{source: src, target: tgt})
	}
	for i := range s.springs {
		sp := &s.springs[i]
		cs, ct := float64(count[sp.source]), float64(count[sp.target])
		sp.bias = cs / (cs + ct)
		sp.strength = 1 / math.Min(cs, ct)
	}
	return nil
}

// Viewport returns the viewport the simulation was seeded with.
func (s *Simulation) Viewport() Viewport { return s.viewport }

// State returns the current lifecycle state.
func (s *Simulation) State() State { return s.state }

// Alpha returns the current temperature.
func (s *Simulation) Alpha() float64 { return s.alpha }

// Tick returns the number of completed steps.
func (s *Simulation) Tick() int { return s.tick }

// Active reports whether further steps would move anything.
func (s *Simulation) Active() bool {
	switch s.state {
	case Idle:
		return false
	case AtRest:
		return s.alphaTarget >= s.params.AlphaMin
	default:
		return true
	}
}

// Stop ends the simulation. Later calls to Step return the last positions
// without advancing.
func (s *Simulation) Stop() {
	s.state = Idle
	s.dragged = -1
}

// Position returns the current position of the node with the given ID.
func (s *Simulation) Position(id string) (Vec, bool) {
	i, ok := s.index[id]
	if !ok {
		return Vec{}, false
	}
	return s.bodies[i].pos, true
}

// RadiusOf returns the collision radius (without padding) for id.
func (s *Simulation) RadiusOf(id string) (float64, bool) {
	i, ok := s.index[id]
	if !ok {
		return 0, false
	}
	return s.bodies[i].radius, true
}

// Frame returns the current positions without stepping.
func (s *Simulation) Frame() Frame {
	pos := make(map[string]Vec, len(s.bodies))
	for i, b := range s.bodies {
		pos[s.ids[i]] = b.pos
	}
	return Frame{Tick: s.tick, Alpha: s.alpha, State: s.state, Positions: pos}
}

// Step advances the simulation by one tick.
func (s *Simulation) Step() Frame {
	if s.state == Idle {
		return s.Frame()
	}

	s.alpha += (s.alphaTarget - s.alpha) * s.params.AlphaDecay

	s.applyCharge()
	s.applyCenter()
	for i := 0; i < s.params.LinkIterations; i++ {
		s.applyLinks()
	}
	for i := 0; i < s.params.CollideIterations; i++ {
		s.applyCollide()
	}

	keep := 1 - s.params.VelocityDecay
	for i := range s.bodies {
		b := &s.bodies[i]
		if b.fixed != nil {
			b.pos = *b.fixed
			b.vel = Vec{}
			continue
		}
		b.vel = b.vel.Scale(keep)
		b.pos = b.pos.Add(b.vel)
	}

	s.tick++
	s.updateState()
	return s.Frame()
}

func (s *Simulation) updateState() {
	switch {
	case s.dragged >= 0:
		s.state = Dragging
	case s.alpha < s.params.AlphaMin:
		s.state = AtRest
	case s.alpha < s.params.CoolingAlpha:
		s.state = Cooling
	default:
		s.state = Ticking
	}
}

// Run steps until the simulation comes to rest or maxTicks steps have
// been taken, and returns the final frame.
func (s *Simulation) Run(maxTicks int) Frame {
	f := s.Frame()
	for i := 0; i < maxTicks && s.Active(); i++ {
		f = s.Step()
	}
	return f
}

// Reheat raises the alpha target, waking a resting simulation.
func (s *Simulation) Reheat(target float64) {
	s.alphaTarget = target
	if s.state == AtRest || s.state == Seeded {
		s.state = Ticking
	}
}
