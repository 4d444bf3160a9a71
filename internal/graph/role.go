package graph

// Role is the rendering class of a node. Exactly one applies.
type Role int

const (
	RolePlain Role = iota
	RoleClass
	RoleBlank
	RoleInstance
	RolePredicate
)

// String returns the CSS class used for the role.
func (r Role) String() string {
	switch r {
	case RoleClass:
		return "class"
	case RoleBlank:
		return "blank"
	case RoleInstance:
		return "instance"
	case RolePredicate:
		return "pred"
	default:
		return "node"
	}
}

// Classify picks the rendering role. Classes take precedence over blank
// nodes, which take precedence over instances.
func Classify(n Node) Role {
	switch {
	case n.Type == NodeTypePred:
		return RolePredicate
	case n.OWLClass:
		return RoleClass
	case n.Blank:
		return RoleBlank
	case n.Instance:
		return RoleInstance
	default:
		return RolePlain
	}
}

// Node radii in layout units.
const (
	RadiusBlank    = 7.0
	RadiusPlain    = 8.0
	RadiusClass    = 9.0
	RadiusInstance = 10.0
)

// Radius is used both for drawing and for collision and containment. Size
// follows its own precedence: blank, then instance, then class.
func Radius(n Node) float64 {
	switch {
	case n.Type == NodeTypePred:
		return RadiusPlain
	case n.Blank:
		return RadiusBlank
	case n.Instance:
		return RadiusInstance
	case n.OWLClass:
		return RadiusClass
	default:
		return RadiusPlain
	}
}
