package layout

// ClickTolerance is how far, in screen pixels, a pointer may travel between
// press and release and still count as a click.
const ClickTolerance = 3.0

// Gesture tells drags from clicks for one pointer.
type Gesture struct {
	target string
	start  Vec
	active bool
	moved  bool
}

// Down starts a gesture on target at screen point p. An empty target means
// the background.
func (g *Gesture) Down(target string, p Vec) {
	*g = Gesture{target: target, start: p, active: true}
}

// Move records pointer movement and reports whether the gesture has become
// a drag.
func (g *Gesture) Move(p Vec) bool {
	if !g.active {
		return false
	}
	if !g.moved && p.Sub(g.start).Len() > ClickTolerance {
		g.moved = true
	}
	return g.moved
}

// Up ends the gesture. click is false when the pointer travelled far
// enough to count as a drag.
func (g *Gesture) Up() (target string, click bool) {
	if !g.active {
		return "", false
	}
	target, click = g.target, !g.moved
	*g = Gesture{}
	return target, click
}

// Active reports whether a pointer is down.
func (g *Gesture) Active() bool { return g.active }

// Target returns the node the gesture started on.
func (g *Gesture) Target() string { return g.target }

// Dragged reports whether the current gesture has moved past the tolerance.
func (g *Gesture) Dragged() bool { return g.moved }
