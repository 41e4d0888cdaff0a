// Package cross drives the external compiler over one loaded source unit.
// It is a pure driver loop around two collaborator operations and knows no
// compiler semantics itself.
package cross

import (
	"errors"
	"io"
	"strings"

	"github.com/jlollis/jscl/internal/source"
	"github.com/jlollis/jscl/pkg/lang"
)

// CompileUnit reads top-level forms from the unit until end of input and
// compiles each against env, which the compiler may mutate. Non-empty
// emissions are appended in order with no separators; empty emissions
// contribute nothing. The first failing form aborts the unit; there is no
// skip-and-continue mode.
func CompileUnit(unit *source.Unit, rdr lang.FormReader, comp lang.Compiler, env *lang.Environment) (string, error) {
	var out strings.Builder
	cursor := 0
	for index := 0; ; index++ {
		form, next, err := rdr.ReadForm(unit.Text, cursor)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", &lang.CompileError{Unit: unit.Path, Index: index, Err: err}
		}
		cursor = next
		emitted, err := comp.CompileTopLevel(form, env)
		if err != nil {
			return "", &lang.CompileError{Unit: unit.Path, Index: index, Form: form, Err: err}
		}
		out.WriteString(emitted)
	}
	return out.String(), nil
}
