package bootstrap

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jlollis/jscl/internal/cross"
	"github.com/jlollis/jscl/internal/manifest"
	"github.com/jlollis/jscl/internal/source"
	"github.com/jlollis/jscl/pkg/lang"
)

// TargetResult is the output of one target bootstrap: the concatenated
// emitted text and the environment it populated, already frozen.
type TargetResult struct {
	Output string
	Env    *lang.Environment
	Units  []string
}

// Target creates a fresh compile-time environment and cross-compiles every
// unit the manifest resolves in target mode against it, in resolved order,
// concatenating the emitted text. A leaf designated as the entry unit is
// compiled last, after the environment is fully populated, since its runtime
// behavior may depend on every prior binding being visible. When unit N
// fails, units after N are never touched.
func Target(nodes []manifest.Node, srcDir string, hc *HostCompiler, log *zap.Logger) (*TargetResult, error) {
	if log == nil {
		log = zap.NewNop()
	}
	paths, err := manifest.Resolve(nodes, manifest.ModeTarget)
	if err != nil {
		return nil, err
	}
	entry, hasEntry, err := manifest.EntryUnit(nodes)
	if err != nil {
		return nil, err
	}
	if hasEntry {
		paths = entryLast(paths, entry)
	}

	env := lang.NewEnvironment()
	var out strings.Builder
	for _, p := range paths {
		unit, err := source.Load(filepath.Join(srcDir, filepath.FromSlash(p)))
		if err != nil {
			return nil, err
		}
		text, err := cross.CompileUnit(unit, hc.Reader, hc.Compiler, env)
		if err != nil {
			return nil, err
		}
		out.WriteString(text)
		log.Debug("cross-compiled unit",
			zap.String("unit", p),
			zap.Int("bindings", env.Len()))
	}
	env.Freeze()
	log.Info("target bootstrap complete",
		zap.Int("units", len(paths)),
		zap.Int("bindings", env.Len()))
	return &TargetResult{Output: out.String(), Env: env, Units: paths}, nil
}

// entryLast moves the entry unit to the end while keeping every other
// unit's relative order.
func entryLast(paths []string, entry string) []string {
	out := make([]string, 0, len(paths))
	found := false
	for _, p := range paths {
		if p == entry {
			found = true
			continue
		}
		out = append(out, p)
	}
	if found {
		out = append(out, entry)
	}
	return out
}
