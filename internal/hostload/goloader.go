// Package hostload natively compiles and loads host-side units into the
// current process. Host-side units are Go source evaluated by the yaegi
// interpreter; once every unit is loaded the process possesses a working
// compiler, extracted through Materialize.
package hostload

import (
	"fmt"
	"reflect"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/jlollis/jscl/internal/source"
	"github.com/jlollis/jscl/pkg/lang"
)

// GoLoader evaluates host units in a single shared interpreter, so later
// units see every definition made by earlier ones.
type GoLoader struct {
	interp *interp.Interpreter
	units  []string
}

func NewGoLoader() (*GoLoader, error) {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("hostload: stdlib symbols: %w", err)
	}
	if err := i.Use(langSymbols()); err != nil {
		return nil, fmt.Errorf("hostload: lang symbols: %w", err)
	}
	return &GoLoader{interp: i}, nil
}

// langSymbols exposes the boundary package to interpreted units, so a host
// unit can import "github.com/jlollis/jscl/pkg/lang" and define the
// compiler entry points in terms of the pipeline's own types.
func langSymbols() interp.Exports {
	return interp.Exports{
		"github.com/jlollis/jscl/pkg/lang/lang": {
			"Form":           reflect.ValueOf((*lang.Form)(nil)),
			"Symbol":         reflect.ValueOf((*lang.Symbol)(nil)),
			"Str":            reflect.ValueOf((*lang.Str)(nil)),
			"Num":            reflect.ValueOf((*lang.Num)(nil)),
			"List":           reflect.ValueOf((*lang.List)(nil)),
			"Environment":    reflect.ValueOf((*lang.Environment)(nil)),
			"Binding":        reflect.ValueOf((*lang.Binding)(nil)),
			"Counters":       reflect.ValueOf((*lang.Counters)(nil)),
			"BindingKind":    reflect.ValueOf((*lang.BindingKind)(nil)),
			"KindValue":      reflect.ValueOf(lang.KindValue),
			"KindFunction":   reflect.ValueOf(lang.KindFunction),
			"KindMacro":      reflect.ValueOf(lang.KindMacro),
			"NewEnvironment": reflect.ValueOf(lang.NewEnvironment),
			"ReadForm":       reflect.ValueOf(lang.ReadForm),
			"FormatNum":      reflect.ValueOf(lang.FormatNum),
		},
	}
}

// LoadFile evaluates one host unit. Loading is fail-fast: an error here is
// fatal to the whole bootstrap, and units already loaded are not rolled
// back.
func (l *GoLoader) LoadFile(path string) error {
	unit, err := source.Load(path)
	if err != nil {
		return err
	}
	if _, err := l.interp.Eval(unit.Text); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	l.units = append(l.units, path)
	return nil
}

// Units returns the paths loaded so far, in load order.
func (l *GoLoader) Units() []string {
	out := make([]string, len(l.units))
	copy(out, l.units)
	return out
}

// Materialize extracts the compiler defined by the loaded units. The units
// must have defined CompileTopLevel; a ReadForm definition, when present,
// replaces the built-in reader.
func (l *GoLoader) Materialize() (lang.Compiler, lang.FormReader, error) {
	v, err := l.interp.Eval("main.CompileTopLevel")
	if err != nil {
		return nil, nil, fmt.Errorf("hostload: host units define no CompileTopLevel: %w", err)
	}
	fn, ok := v.Interface().(func(lang.Form, *lang.Environment) (string, error))
	if !ok {
		return nil, nil, fmt.Errorf("hostload: CompileTopLevel has signature %T", v.Interface())
	}
	var rdr lang.FormReader = lang.DefaultReader{}
	if rv, err := l.interp.Eval("main.ReadForm"); err == nil {
		if rf, ok := rv.Interface().(func(string, int) (lang.Form, int, error)); ok {
			rdr = lang.ReaderFunc(rf)
		}
	}
	return lang.CompilerFunc(fn), rdr, nil
}
