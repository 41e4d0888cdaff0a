package lang

import "fmt"

// FormReader produces the next top-level form from source text.
type FormReader interface {
	ReadForm(text string, cursor int) (Form, int, error)
}

// Compiler compiles one top-level form against the environment, returning
// emitted target text. It may mutate the environment: new global bindings,
// advanced counters.
type Compiler interface {
	CompileTopLevel(form Form, env *Environment) (string, error)
}

// CompilerFunc adapts a function to the Compiler interface.
type CompilerFunc func(Form, *Environment) (string, error)

func (f CompilerFunc) CompileTopLevel(form Form, env *Environment) (string, error) {
	return f(form, env)
}

// ReaderFunc adapts a function to the FormReader interface.
type ReaderFunc func(string, int) (Form, int, error)

func (f ReaderFunc) ReadForm(text string, cursor int) (Form, int, error) {
	return f(text, cursor)
}

// CompileError reports a form the compiler (or reader) rejected, with
// enough context to name the offending unit. It aborts the whole build.
type CompileError struct {
	Unit  string
	Index int  // zero-based position of the form within the unit
	Form  Form // nil when the reader failed before producing a form
	Err   error
}

func (e *CompileError) Error() string {
	if e.Form != nil {
		return fmt.Sprintf("compile error in %s, form %d (%s): %v", e.Unit, e.Index, formSummary(e.Form), e.Err)
	}
	return fmt.Sprintf("compile error in %s, form %d: %v", e.Unit, e.Index, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

func formSummary(f Form) string {
	s := f.String()
	if len(s) > 60 {
		return s[:57] + "..."
	}
	return s
}
