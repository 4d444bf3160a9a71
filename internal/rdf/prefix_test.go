package rdf

import "testing"

func TestPrefixMap_Abbreviate(t *testing.T) {
	pm := DefaultPrefixes().Merge(PrefixMap{
		{Prefix: "ex", Namespace: "http://example.org/"},
		{Prefix: "exv", Namespace: "http://example.org/vocab#"},
	})

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"rdf type", RDFType, "rdf:type"},
		{"simple namespace", "http://example.org/Alice", "ex:Alice"},
		{"longest namespace wins", "http://example.org/vocab#knows", "exv:knows"},
		{"no match", "http://other.org/x", "http://other.org/x"},
		{"already abbreviated", "ex:Alice", "ex:Alice"},
		{"literal", "42", "42"},
		{"namespace only in middle", "see http://example.org/x", "see http://example.org/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pm.Abbreviate(tt.value); got != tt.want {
				t.Errorf("Abbreviate(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestPrefixMap_AbbreviateIdempotent(t *testing.T) {
	pm := DefaultPrefixes()
	for _, v := range []string{RDFType, "http://www.w3.org/2002/07/owl#Class", "plain", "_:b0"} {
		once := pm.Abbreviate(v)
		if twice := pm.Abbreviate(once); twice != once {
			t.Errorf("Abbreviate not idempotent for %q: %q then %q", v, once, twice)
		}
	}
}

func TestPrefixMap_AbbreviateTerm_LeavesLiterals(t *testing.T) {
	pm := PrefixMap{{Prefix: "ex", Namespace: "http://example.org/"}}
	lit := NewLiteral("http://example.org/page")
	if got := pm.AbbreviateTerm(lit); got != "http://example.org/page" {
		t.Errorf("literal was abbreviated to %q", got)
	}
	if got := pm.AbbreviateTerm(NewIRI("http://example.org/page")); got != "ex:page" {
		t.Errorf("IRI abbreviated to %q, want ex:page", got)
	}
}

func TestPrefixMap_SetAndMerge(t *testing.T) {
	pm := PrefixMap{{Prefix: "ex", Namespace: "http://a/"}}
	merged := pm.Merge(PrefixMap{{Prefix: "ex", Namespace: "http://b/"}, {Prefix: "y", Namespace: "http://y/"}})

	if len(merged) != 2 {
		t.Fatalf("got %d bindings, want 2", len(merged))
	}
	if ns, _ := merged.Lookup("ex"); ns != "http://b/" {
		t.Errorf("ex bound to %q, want http://b/", ns)
	}
	if ns, _ := pm.Lookup("ex"); ns != "http://a/" {
		t.Errorf("Merge mutated the receiver: ex bound to %q", ns)
	}
}

func TestPrefixMap_Expand(t *testing.T) {
	pm := PrefixMap{{Prefix: "ex", Namespace: "http://example.org/"}}
	if got := pm.Expand("ex:A"); got != "http://example.org/A" {
		t.Errorf("Expand(ex:A) = %q", got)
	}
	if got := pm.Expand("a"); got != RDFType {
		t.Errorf("Expand(a) = %q", got)
	}
	if got := pm.Expand("zz:A"); got != "zz:A" {
		t.Errorf("Expand(zz:A) = %q", got)
	}
}

func TestPrefixMap_EmptyPrefix(t *testing.T) {
	pm := PrefixMap{{Prefix: "", Namespace: "http://example.org/"}}
	if got := pm.Abbreviate("http://example.org/A"); got != ":A" {
		t.Errorf("Abbreviate = %q, want :A", got)
	}
	if got := pm.Abbreviate(":A"); got != ":A" {
		t.Errorf("Abbreviate(:A) = %q, want unchanged", got)
	}
	if got := pm.Expand(":A"); got != "http://example.org/A" {
		t.Errorf("Expand(:A) = %q", got)
	}
}

func TestParseBinding(t *testing.T) {
	b, err := ParseBinding("ex=http://example.org/")
	if err != nil {
		t.Fatal(err)
	}
	if b.Prefix != "ex" || b.Namespace != "http://example.org/" {
		t.Errorf("got %+v", b)
	}
	for _, bad := range []string{"ex", "=http://x/", "ex="} {
		if _, err := ParseBinding(bad); err == nil {
			t.Errorf("ParseBinding(%q) should fail", bad)
		}
	}
}

func TestIsRDFType(t *testing.T) {
	for _, s := range []string{"a", "rdf:type", RDFType} {
		if !IsRDFType(s) {
			t.Errorf("IsRDFType(%q) = false", s)
		}
	}
	for _, s := range []string{"rdfs:type", "type", "ex:a"} {
		if IsRDFType(s) {
			t.Errorf("IsRDFType(%q) = true", s)
		}
	}
}
