// Package viewer holds the state of one drawing surface: the current graph,
// its running layout, the view transform and the listeners that render it.
//
// All mutation goes through Session methods, which serialize on one mutex
// and publish Events to subscribers. Renderers only read.
package viewer

import (
	"fmt"

	"github.com/sparqlviz/sparqlviz/internal/layout"
)

// EventKind names what changed.
type EventKind int

const (
	// EventFrame carries new positions or a new view transform.
	EventFrame EventKind = iota
	// EventGraph signals that a new graph replaced the old one; listeners
	// should fetch it again.
	EventGraph
	// EventCleared signals that the surface is now empty.
	EventCleared
	// EventNodeClicked carries the ID of a clicked resource node.
	EventNodeClicked
)

var eventNames = [...]string{"frame", "graph", "cleared", "clicked"}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// MarshalText encodes the kind by name.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event is one notification to subscribers.
type Event struct {
	Kind      EventKind        `json:"kind"`
	Frame     *layout.Frame    `json:"frame,omitempty"`
	Transform layout.Transform `json:"transform"`
	NodeID    string           `json:"node_id,omitempty"`
}
