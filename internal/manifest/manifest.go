// Package manifest interprets the declarative module list that drives both
// bootstrap phases: which source units exist, in what order, and whether
// each belongs to the host build, the target build, or both.
//
// Declaration order is semantic. It becomes the compilation order, and
// later units may depend on state (bindings, macros) established by
// earlier ones, so the resolver never reorders.
package manifest

import (
	"fmt"
	"path"
)

// Mode selects which build a unit belongs to.
type Mode string

const (
	ModeHost   Mode = "host"
	ModeTarget Mode = "target"
	ModeBoth   Mode = "both"
)

// Error reports a malformed manifest entry or resolution request.
type Error struct {
	Entry string
	Msg   string
}

func (e *Error) Error() string {
	if e.Entry != "" {
		return fmt.Sprintf("manifest: %s: %s", e.Entry, e.Msg)
	}
	return "manifest: " + e.Msg
}

// Node is one entry of the manifest tree: a Leaf or a Dir.
type Node interface {
	nodeName() string
}

// Leaf is a single source unit.
type Leaf struct {
	Name  string
	Mode  Mode
	Entry bool
}

// Dir is a subdirectory whose name prefixes every descendant.
type Dir struct {
	Name     string
	Children []Node
}

func (l Leaf) nodeName() string { return l.Name }
func (d Dir) nodeName() string  { return d.Name }

// Resolve walks the manifest in pre-order, depth-first, declaration order
// and returns the slash-separated paths of every leaf qualifying for mode.
// A leaf qualifies if its mode equals the requested one or is "both".
// An empty manifest yields an empty sequence.
func Resolve(nodes []Node, mode Mode) ([]string, error) {
	if mode != ModeHost && mode != ModeTarget {
		return nil, &Error{Msg: fmt.Sprintf("cannot resolve for mode %q", mode)}
	}
	out := []string{}
	if err := walk(nodes, "", mode, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func walk(nodes []Node, prefix string, mode Mode, out *[]string) error {
	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		name := n.nodeName()
		if seen[name] {
			return &Error{Entry: path.Join(prefix, name), Msg: "duplicate name in directory scope"}
		}
		seen[name] = true
		switch n := n.(type) {
		case Leaf:
			switch n.Mode {
			case ModeHost, ModeTarget, ModeBoth:
			default:
				return &Error{Entry: path.Join(prefix, n.Name), Msg: fmt.Sprintf("unknown mode %q", n.Mode)}
			}
			if n.Mode == mode || n.Mode == ModeBoth {
				*out = append(*out, path.Join(prefix, n.Name))
			}
		case Dir:
			if err := walk(n.Children, path.Join(prefix, n.Name), mode, out); err != nil {
				return err
			}
		default:
			return &Error{Entry: name, Msg: fmt.Sprintf("unknown manifest node %T", n)}
		}
	}
	return nil
}

// EntryUnit returns the path of the leaf designated as the entry unit. The
// target phase compiles it last, after the environment is fully populated.
// More than one designated entry is an error.
func EntryUnit(nodes []Node) (string, bool, error) {
	found := ""
	has := false
	err := walkEntry(nodes, "", &found, &has)
	return found, has, err
}

func walkEntry(nodes []Node, prefix string, found *string, has *bool) error {
	for _, n := range nodes {
		switch n := n.(type) {
		case Leaf:
			if n.Entry {
				if *has {
					return &Error{Entry: path.Join(prefix, n.Name), Msg: "more than one entry unit"}
				}
				*found = path.Join(prefix, n.Name)
				*has = true
			}
		case Dir:
			if err := walkEntry(n.Children, path.Join(prefix, n.Name), found, has); err != nil {
				return err
			}
		}
	}
	return nil
}
