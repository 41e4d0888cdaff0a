package manifest

import (
	"errors"
	"reflect"
	"testing"
)

func TestResolve(t *testing.T) {
	// The manifest [(a, target), (b, [(c, host)])]
	nodes := []Node{
		Leaf{Name: "a", Mode: ModeTarget},
		Dir{Name: "b", Children: []Node{
			Leaf{Name: "c", Mode: ModeHost},
		}},
	}

	target, err := Resolve(nodes, ModeTarget)
	if err != nil {
		t.Fatalf("Resolve(target) failed: %v", err)
	}
	if !reflect.DeepEqual(target, []string{"a"}) {
		t.Errorf("Resolve(target): got %v, want [a]", target)
	}

	host, err := Resolve(nodes, ModeHost)
	if err != nil {
		t.Fatalf("Resolve(host) failed: %v", err)
	}
	if !reflect.DeepEqual(host, []string{"b/c"}) {
		t.Errorf("Resolve(host): got %v, want [b/c]", host)
	}
}

func TestResolve_BothQualifiesForBothModes(t *testing.T) {
	nodes := []Node{
		Leaf{Name: "boot.lisp", Mode: ModeBoth},
		Leaf{Name: "compiler.go", Mode: ModeHost},
		Leaf{Name: "toplevel.lisp", Mode: ModeTarget},
	}

	host, err := Resolve(nodes, ModeHost)
	if err != nil {
		t.Fatalf("Resolve(host) failed: %v", err)
	}
	if !reflect.DeepEqual(host, []string{"boot.lisp", "compiler.go"}) {
		t.Errorf("Resolve(host): got %v", host)
	}

	target, err := Resolve(nodes, ModeTarget)
	if err != nil {
		t.Fatalf("Resolve(target) failed: %v", err)
	}
	if !reflect.DeepEqual(target, []string{"boot.lisp", "toplevel.lisp"}) {
		t.Errorf("Resolve(target): got %v", target)
	}
}

func TestResolve_DeclarationOrderIsPreserved(t *testing.T) {
	nodes := []Node{
		Leaf{Name: "z.lisp", Mode: ModeTarget},
		Dir{Name: "mid", Children: []Node{
			Leaf{Name: "b.lisp", Mode: ModeTarget},
			Leaf{Name: "a.lisp", Mode: ModeTarget},
		}},
		Leaf{Name: "a.lisp", Mode: ModeTarget},
	}
	want := []string{"z.lisp", "mid/b.lisp", "mid/a.lisp", "a.lisp"}

	// Repeated calls with identical input must produce identical output.
	for i := 0; i < 3; i++ {
		got, err := Resolve(nodes, ModeTarget)
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("call %d: got %v, want %v", i, got, want)
		}
	}
}

func TestResolve_EmptyManifest(t *testing.T) {
	got, err := Resolve(nil, ModeHost)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("empty manifest: got %v, want empty", got)
	}
}

func TestResolve_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		nodes []Node
		mode  Mode
	}{
		{"both is not a query mode", []Node{Leaf{Name: "a", Mode: ModeTarget}}, ModeBoth},
		{"unknown query mode", []Node{Leaf{Name: "a", Mode: ModeTarget}}, Mode("release")},
		{"unknown leaf mode", []Node{Leaf{Name: "a", Mode: Mode("bogus")}}, ModeTarget},
		{"duplicate leaf in scope", []Node{
			Leaf{Name: "a", Mode: ModeTarget},
			Leaf{Name: "a", Mode: ModeHost},
		}, ModeTarget},
		{"duplicate across leaf and dir", []Node{
			Leaf{Name: "a", Mode: ModeTarget},
			Dir{Name: "a"},
		}, ModeTarget},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Resolve(tc.nodes, tc.mode)
			var merr *Error
			if !errors.As(err, &merr) {
				t.Fatalf("got %v, want *manifest.Error", err)
			}
		})
	}
}

func TestResolve_SameNameInDifferentScopes(t *testing.T) {
	nodes := []Node{
		Dir{Name: "x", Children: []Node{Leaf{Name: "a", Mode: ModeTarget}}},
		Dir{Name: "y", Children: []Node{Leaf{Name: "a", Mode: ModeTarget}}},
	}
	got, err := Resolve(nodes, ModeTarget)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"x/a", "y/a"}) {
		t.Errorf("got %v", got)
	}
}

func TestEntryUnit(t *testing.T) {
	nodes := []Node{
		Leaf{Name: "boot.lisp", Mode: ModeTarget},
		Dir{Name: "repl", Children: []Node{
			Leaf{Name: "toplevel.lisp", Mode: ModeTarget, Entry: true},
		}},
	}
	entry, ok, err := EntryUnit(nodes)
	if err != nil {
		t.Fatalf("EntryUnit failed: %v", err)
	}
	if !ok || entry != "repl/toplevel.lisp" {
		t.Errorf("got %q ok=%v", entry, ok)
	}
}

func TestEntryUnit_NoneDesignated(t *testing.T) {
	_, ok, err := EntryUnit([]Node{Leaf{Name: "a", Mode: ModeTarget}})
	if err != nil {
		t.Fatalf("EntryUnit failed: %v", err)
	}
	if ok {
		t.Error("ok = true for manifest without entry")
	}
}

func TestEntryUnit_MoreThanOne(t *testing.T) {
	_, _, err := EntryUnit([]Node{
		Leaf{Name: "a", Mode: ModeTarget, Entry: true},
		Leaf{Name: "b", Mode: ModeTarget, Entry: true},
	})
	var merr *Error
	if !errors.As(err, &merr) {
		t.Fatalf("got %v, want *manifest.Error", err)
	}
}
