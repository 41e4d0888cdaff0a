// Package bootstrap runs the two build phases. The host phase loads the
// compiler's own implementation into the current process; the target phase
// then uses that running compiler to cross-compile the target-side
// implementation. The phases are strictly sequential: cross-compilation
// is performed by the compiler the host phase produced.
package bootstrap

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jlollis/jscl/internal/manifest"
	"github.com/jlollis/jscl/pkg/lang"
)

// NativeLoader compiles and loads one host-side unit into the current
// process. Materialize hands back the compiler the loaded units built up.
type NativeLoader interface {
	LoadFile(path string) error
	Materialize() (lang.Compiler, lang.FormReader, error)
}

// HostCompiler is the ready compiler instance produced by the host phase,
// passed explicitly into the target phase.
type HostCompiler struct {
	Compiler lang.Compiler
	Reader   lang.FormReader
	Units    []string
}

// Host loads every unit the manifest resolves in host mode, in resolved
// order. The first load failure aborts the whole bootstrap; units already
// loaded are not rolled back.
func Host(nodes []manifest.Node, srcDir string, loader NativeLoader, log *zap.Logger) (*HostCompiler, error) {
	if log == nil {
		log = zap.NewNop()
	}
	paths, err := manifest.Resolve(nodes, manifest.ModeHost)
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		log.Debug("loading host unit", zap.String("unit", p))
		if err := loader.LoadFile(filepath.Join(srcDir, filepath.FromSlash(p))); err != nil {
			return nil, err
		}
	}
	comp, rdr, err := loader.Materialize()
	if err != nil {
		return nil, err
	}
	log.Info("host bootstrap complete", zap.Int("units", len(paths)))
	return &HostCompiler{Compiler: comp, Reader: rdr, Units: paths}, nil
}
