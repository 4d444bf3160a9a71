package layout

import "fmt"

// DragStart pins the node where it is and reheats the simulation so its
// neighbors make room. Only one node can be dragged at a time; starting a
// new drag releases the previous one.
func (s *Simulation) DragStart(id string) error {
	if s.state == Idle {
		return ErrStopped
	}
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	if s.dragged >= 0 && s.dragged != i {
		s.bodies[s.dragged].fixed = nil
	}
	pin := s.bodies[i].pos
	s.bodies[i].fixed = &pin
	s.dragged = i
	s.Reheat(s.params.ReheatTarget)
	s.state = Dragging
	return nil
}

// DragMove moves the pin to p, clamped so the whole circle stays inside the
// viewport. It returns the clamped position.
func (s *Simulation) DragMove(id string, p Vec) (Vec, error) {
	i, ok := s.index[id]
	if !ok {
		return Vec{}, fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	if s.dragged != i {
		return Vec{}, fmt.Errorf("%w: %q", ErrNotDragging, id)
	}
	pin := s.viewport.Clamp(p, s.bodies[i].radius)
	s.bodies[i].fixed = &pin
	s.bodies[i].pos = pin
	return pin, nil
}

// DragEnd unpins the node and lets the simulation cool.
func (s *Simulation) DragEnd(id string) error {
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	if s.dragged != i {
		return fmt.Errorf("%w: %q", ErrNotDragging, id)
	}
	s.bodies[i].fixed = nil
	s.dragged = -1
	s.alphaTarget = 0
	if s.state != Idle {
		s.updateState()
	}
	return nil
}

// Pinned reports whether id currently has a fixed position.
func (s *Simulation) Pinned(id string) bool {
	i, ok := s.index[id]
	return ok && s.bodies[i].fixed != nil
}
