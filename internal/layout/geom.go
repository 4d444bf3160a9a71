// Package layout positions graph nodes with a force-directed simulation.
//
// The simulation keeps node positions, velocities and pins in its own
// arena indexed by node, leaving graph.Node values untouched. Each Step
// advances the physics by one tick and returns a Frame holding a plain
// id -> position map; rendering adapters consume frames and never reach
// into the simulation.
package layout

import (
	"errors"
	"math"
)

// Vec is a 2-D point or vector in simulation units.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v+o.
func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

// Scale returns v*k.
func (v Vec) Scale(k float64) Vec { return Vec{v.X * k, v.Y * k} }

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }

// Viewport is the drawing surface size in device-independent pixels.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ErrNoViewport is returned when the surface has no usable size yet,
// typically because the container is not mounted.
var ErrNoViewport = errors.New("viewport has no size")

// Valid reports whether both dimensions are positive.
func (v Viewport) Valid() bool {
	return v.Width > 0 && v.Height > 0 && !math.IsInf(v.Width, 0) && !math.IsInf(v.Height, 0)
}

// Center returns the middle of the viewport.
func (v Viewport) Center() Vec {
	return Vec{v.Width / 2, v.Height / 2}
}

// Clamp keeps p at least r away from every edge. When the viewport is
// narrower than 2r the point is centered on that axis.
func (v Viewport) Clamp(p Vec, r float64) Vec {
	return Vec{clamp(p.X, r, v.Width-r), clamp(p.Y, r, v.Height-r)}
}

func clamp(x, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	return math.Max(lo, math.Min(hi, x))
}

// Scale limits for Transform.
const (
	MinScale = 0.1
	MaxScale = 10
)

// Transform is the zoom/pan applied to the rendered group. It maps
// simulation coordinates to screen coordinates and never feeds back into
// the physics.
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// Identity is the transform with no pan and unit scale.
func Identity() Transform {
	return Transform{K: 1}
}

// Apply maps a simulation point to the screen.
func (t Transform) Apply(p Vec) Vec {
	return Vec{p.X*t.K + t.X, p.Y*t.K + t.Y}
}

// Invert maps a screen point back to simulation space.
func (t Transform) Invert(p Vec) Vec {
	return Vec{(p.X - t.X) / t.K, (p.Y - t.Y) / t.K}
}

// Translate pans by a screen-space offset.
func (t Transform) Translate(dx, dy float64) Transform {
	return Transform{X: t.X + dx, Y: t.Y + dy, K: t.K}
}

// ScaleAt multiplies the scale by factor while keeping the screen point
// anchor fixed. The resulting scale is clamped to [MinScale, MaxScale].
func (t Transform) ScaleAt(anchor Vec, factor float64) Transform {
	if factor <= 0 || math.IsNaN(factor) {
		return t
	}
	k := clamp(t.K*factor, MinScale, MaxScale)
	p := t.Invert(anchor)
	return Transform{X: anchor.X - p.X*k, Y: anchor.Y - p.Y*k, K: k}
}

// WheelFactor converts a wheel deltaY (pixels) into a zoom factor.
func WheelFactor(deltaY float64) float64 {
	return math.Pow(2, -deltaY*0.002)
}

// lcg is the deterministic random source used for jiggle, so identical
// input always yields an identical layout.
type lcg struct{ s uint32 }

func (l *lcg) next() float64 {
	l.s = 1664525*l.s + 1013904223
	return float64(l.s) / 4294967296
}

func (l *lcg) jiggle() float64 {
	return (l.next() - 0.5) * 1e-6
}
