package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the parsed jscl.yaml: the core module list feeding both
// bootstrap phases, plus the unit lists for the auxiliary bundles.
type Manifest struct {
	Core      NodeList   `yaml:"core"`
	Tests     NodeList   `yaml:"tests"`
	Frontends []Frontend `yaml:"frontends"`
}

// Frontend describes one REPL front-end bundle.
type Frontend struct {
	Name    string   `yaml:"name"`
	Shebang bool     `yaml:"shebang"`
	Entries NodeList `yaml:"entries"`
}

// NodeList carries the ordered, possibly nested manifest entries. YAML
// sequences decode into the Leaf/Dir tree; sequence order is preserved.
type NodeList []Node

func (nl *NodeList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return &Error{Msg: "entries must be a sequence"}
	}
	out := make(NodeList, 0, len(value.Content))
	for _, item := range value.Content {
		var raw rawNode
		if err := item.Decode(&raw); err != nil {
			return err
		}
		node, err := raw.node()
		if err != nil {
			return err
		}
		out = append(out, node)
	}
	*nl = out
	return nil
}

type rawNode struct {
	File    string   `yaml:"file"`
	Mode    string   `yaml:"mode"`
	Entry   bool     `yaml:"entry"`
	Dir     string   `yaml:"dir"`
	Entries NodeList `yaml:"entries"`
}

func (r rawNode) node() (Node, error) {
	switch {
	case r.File != "" && r.Dir != "":
		return nil, &Error{Entry: r.File, Msg: "entry is both a file and a dir"}
	case r.File != "":
		mode := Mode(r.Mode)
		switch mode {
		case ModeHost, ModeTarget, ModeBoth:
		default:
			return nil, &Error{Entry: r.File, Msg: fmt.Sprintf("unknown mode %q", r.Mode)}
		}
		return Leaf{Name: r.File, Mode: mode, Entry: r.Entry}, nil
	case r.Dir != "":
		if r.Mode != "" {
			return nil, &Error{Entry: r.Dir, Msg: "directories do not take a mode"}
		}
		if r.Entry {
			return nil, &Error{Entry: r.Dir, Msg: "directories cannot be the entry unit"}
		}
		return Dir{Name: r.Dir, Children: r.Entries}, nil
	default:
		return nil, &Error{Msg: "entry must name a file or a dir"}
	}
}

// Parse decodes manifest data.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	return &m, nil
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	return Parse(data)
}
