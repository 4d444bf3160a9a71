package graph

import "testing"

func TestClassifyAndRadius(t *testing.T) {
	tests := []struct {
		name       string
		node       Node
		wantRole   Role
		wantRadius float64
	}{
		{"plain", Node{Type: NodeTypeNode}, RolePlain, 8},
		{"class", Node{Type: NodeTypeNode, OWLClass: true}, RoleClass, 9},
		{"instance", Node{Type: NodeTypeNode, Instance: true}, RoleInstance, 10},
		{"blank", Node{Type: NodeTypeNode, Blank: true}, RoleBlank, 7},
		{"blank instance", Node{Type: NodeTypeNode, Blank: true, Instance: true}, RoleBlank, 7},
		{"class and instance", Node{Type: NodeTypeNode, OWLClass: true, Instance: true}, RoleClass, 10},
		{"predicate", Node{Type: NodeTypePred}, RolePredicate, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.node); got != tt.wantRole {
				t.Errorf("Classify = %v, want %v", got, tt.wantRole)
			}
			if got := Radius(tt.node); got != tt.wantRadius {
				t.Errorf("Radius = %v, want %v", got, tt.wantRadius)
			}
		})
	}
}

func TestNodeType_JSON(t *testing.T) {
	b, err := NodeTypePred.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"pred"` {
		t.Errorf("got %s", b)
	}
	var nt NodeType
	if err := nt.UnmarshalJSON([]byte(`"node"`)); err != nil || nt != NodeTypeNode {
		t.Errorf("UnmarshalJSON = %v, %v", nt, err)
	}
	if err := nt.UnmarshalJSON([]byte(`"edge"`)); err == nil {
		t.Error("expected error for unknown type")
	}
}
