// Package bundle wraps cross-compiled fragments in the fixed
// module-loading shell and writes finished artifacts. The same assembler
// builds every downstream artifact (primary runtime, test bundle, REPL
// front-ends) from different fragment lists.
package bundle

import (
	"bytes"

	"github.com/jlollis/jscl/internal/config"
	"github.com/jlollis/jscl/internal/source"
)

// Options control artifact assembly.
type Options struct {
	// Shebang prepends the interpreter line so the artifact runs
	// standalone; without it the artifact loads as a library module.
	Shebang bool
}

// The fixed shell: an immediately-executed function wrapper. The trailer
// passes the public-value table and the internals table into the module
// scope, so generated code resolves runtime primitives through the two
// wrapper parameters instead of free variables.
const (
	Preamble = "(function(" + config.PublicTableName + ", " + config.InternalsTableName + "){\n'use strict';\n"
	Trailer  = "})(" + config.PublicTableExpr + ", " + config.InternalsTableExpr + ");\n"
)

// Render produces the complete artifact: optional shebang, preamble, the
// fragments in the order given, trailer. Identical inputs render identical
// bytes.
func Render(fragments []string, opts Options) []byte {
	var buf bytes.Buffer
	if opts.Shebang {
		buf.WriteString(config.NodeShebang)
		buf.WriteByte('\n')
	}
	buf.WriteString(Preamble)
	for _, f := range fragments {
		buf.WriteString(f)
	}
	buf.WriteString(Trailer)
	return buf.Bytes()
}

// Assemble renders the fragments and writes the artifact to targetPath,
// replacing any existing file at that path.
func Assemble(fragments []string, targetPath string, opts Options) error {
	return source.WriteFile(targetPath, Render(fragments, opts))
}
