package bootstrap

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jlollis/jscl/internal/manifest"
	"github.com/jlollis/jscl/internal/source"
	"github.com/jlollis/jscl/pkg/lang"
)

type fakeLoader struct {
	loaded []string
	failOn string
	comp   lang.Compiler
}

func (f *fakeLoader) LoadFile(path string) error {
	if f.failOn != "" && strings.HasSuffix(path, f.failOn) {
		return errors.New("native load failed")
	}
	f.loaded = append(f.loaded, path)
	return nil
}

func (f *fakeLoader) Materialize() (lang.Compiler, lang.FormReader, error) {
	comp := f.comp
	if comp == nil {
		comp = lang.CompilerFunc(func(form lang.Form, env *lang.Environment) (string, error) {
			return form.String() + ";", nil
		})
	}
	return comp, lang.DefaultReader{}, nil
}

func writeUnits(t *testing.T, units map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, text := range units {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestHost_LoadsInResolvedOrder(t *testing.T) {
	nodes := []manifest.Node{
		manifest.Leaf{Name: "boot.lisp", Mode: manifest.ModeBoth},
		manifest.Dir{Name: "compiler", Children: []manifest.Node{
			manifest.Leaf{Name: "codegen.go", Mode: manifest.ModeHost},
		}},
		manifest.Leaf{Name: "toplevel.lisp", Mode: manifest.ModeTarget},
	}
	loader := &fakeLoader{}
	hc, err := Host(nodes, "src", loader, nil)
	if err != nil {
		t.Fatalf("Host failed: %v", err)
	}

	want := []string{
		filepath.Join("src", "boot.lisp"),
		filepath.Join("src", "compiler", "codegen.go"),
	}
	if len(loader.loaded) != len(want) {
		t.Fatalf("loaded %v", loader.loaded)
	}
	for i := range want {
		if loader.loaded[i] != want[i] {
			t.Errorf("loaded[%d]: got %s, want %s", i, loader.loaded[i], want[i])
		}
	}
	if hc.Compiler == nil || hc.Reader == nil {
		t.Error("host compiler not materialized")
	}
}

func TestHost_FirstFailureAbortsBootstrap(t *testing.T) {
	nodes := []manifest.Node{
		manifest.Leaf{Name: "a.go", Mode: manifest.ModeHost},
		manifest.Leaf{Name: "b.go", Mode: manifest.ModeHost},
		manifest.Leaf{Name: "c.go", Mode: manifest.ModeHost},
	}
	loader := &fakeLoader{failOn: "b.go"}
	_, err := Host(nodes, "src", loader, nil)
	if err == nil {
		t.Fatal("Host succeeded with failing unit")
	}
	// a.go stays loaded (no rollback); c.go is never attempted.
	if len(loader.loaded) != 1 || !strings.HasSuffix(loader.loaded[0], "a.go") {
		t.Errorf("loaded: %v", loader.loaded)
	}
}

func TestTarget_ConcatenatesInOrder(t *testing.T) {
	dir := writeUnits(t, map[string]string{
		"a.lisp":     "(one) (two)",
		"sub/b.lisp": "(three)",
	})
	nodes := []manifest.Node{
		manifest.Leaf{Name: "a.lisp", Mode: manifest.ModeTarget},
		manifest.Dir{Name: "sub", Children: []manifest.Node{
			manifest.Leaf{Name: "b.lisp", Mode: manifest.ModeTarget},
		}},
	}
	loader := &fakeLoader{}
	hc, err := Host(nodes, dir, loader, nil)
	if err != nil {
		t.Fatalf("Host failed: %v", err)
	}

	tr, err := Target(nodes, dir, hc, nil)
	if err != nil {
		t.Fatalf("Target failed: %v", err)
	}
	if tr.Output != "(one);(two);(three);" {
		t.Errorf("output: %q", tr.Output)
	}
	if !tr.Env.Frozen() {
		t.Error("environment not frozen after target phase")
	}
}

func TestTarget_EntryUnitCompiledLast(t *testing.T) {
	dir := writeUnits(t, map[string]string{
		"toplevel.lisp": "(repl)",
		"boot.lisp":     "(boot)",
		"seq.lisp":      "(seq)",
	})
	// The entry unit is declared first but must be compiled last, once
	// every other binding is visible.
	nodes := []manifest.Node{
		manifest.Leaf{Name: "toplevel.lisp", Mode: manifest.ModeTarget, Entry: true},
		manifest.Leaf{Name: "boot.lisp", Mode: manifest.ModeTarget},
		manifest.Leaf{Name: "seq.lisp", Mode: manifest.ModeTarget},
	}
	loader := &fakeLoader{}
	hc, err := Host(nodes, dir, loader, nil)
	if err != nil {
		t.Fatalf("Host failed: %v", err)
	}

	tr, err := Target(nodes, dir, hc, nil)
	if err != nil {
		t.Fatalf("Target failed: %v", err)
	}
	if tr.Output != "(boot);(seq);(repl);" {
		t.Errorf("output: %q", tr.Output)
	}
	if len(tr.Units) != 3 || tr.Units[2] != "toplevel.lisp" {
		t.Errorf("units: %v", tr.Units)
	}
}

func TestTarget_FailureSkipsRemainingUnits(t *testing.T) {
	dir := writeUnits(t, map[string]string{
		"u1.lisp": "(ok1)",
		"u2.lisp": "(ok2)",
		"u3.lisp": "(bad)",
		"u4.lisp": "(ok4)",
		"u5.lisp": "(ok5)",
	})
	nodes := []manifest.Node{
		manifest.Leaf{Name: "u1.lisp", Mode: manifest.ModeTarget},
		manifest.Leaf{Name: "u2.lisp", Mode: manifest.ModeTarget},
		manifest.Leaf{Name: "u3.lisp", Mode: manifest.ModeTarget},
		manifest.Leaf{Name: "u4.lisp", Mode: manifest.ModeTarget},
		manifest.Leaf{Name: "u5.lisp", Mode: manifest.ModeTarget},
	}

	var compiled []string
	comp := lang.CompilerFunc(func(form lang.Form, env *lang.Environment) (string, error) {
		compiled = append(compiled, form.String())
		if form.String() == "(bad)" {
			return "", errors.New("rejected")
		}
		return "x;", nil
	})
	hc := &HostCompiler{Compiler: comp, Reader: lang.DefaultReader{}}

	_, err := Target(nodes, dir, hc, nil)
	var cerr *lang.CompileError
	if !errors.As(err, &cerr) {
		t.Fatalf("got %v, want *lang.CompileError", err)
	}
	if !strings.HasSuffix(cerr.Unit, "u3.lisp") {
		t.Errorf("failing unit: %s", cerr.Unit)
	}
	if len(compiled) != 3 {
		t.Errorf("compiled %v; units after the failure must never be processed", compiled)
	}
}

func TestTarget_MissingUnitIsIOError(t *testing.T) {
	dir := t.TempDir()
	nodes := []manifest.Node{
		manifest.Leaf{Name: "absent.lisp", Mode: manifest.ModeTarget},
	}
	hc := &HostCompiler{
		Compiler: lang.CompilerFunc(func(form lang.Form, env *lang.Environment) (string, error) {
			return "", nil
		}),
		Reader: lang.DefaultReader{},
	}
	_, err := Target(nodes, dir, hc, nil)
	var ioerr *source.IOError
	if !errors.As(err, &ioerr) {
		t.Fatalf("got %v, want *source.IOError", err)
	}
}
