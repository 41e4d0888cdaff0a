package lang

import "errors"

// BindingKind discriminates what a symbol is bound to.
type BindingKind string

const (
	KindValue    BindingKind = "value"
	KindFunction BindingKind = "function"
	KindMacro    BindingKind = "macro"
)

// Binding records one symbol's compile-time meaning. A macro payload is a
// form that must be re-evaluated into a live expander when the environment
// is reconstructed; value and function payloads are inert data.
type Binding struct {
	Symbol  string
	Kind    BindingKind
	Payload Form
}

// Counters are the three independent unique-name counters. Each only ever
// moves forward, so names allocated after a snapshot never collide with
// names already embedded in an artifact.
type Counters struct {
	Variable int64
	Gensym   int64
	Literal  int64
}

// ErrFrozen is returned when a frozen environment is defined into.
var ErrFrozen = errors.New("environment is frozen")

// Environment is the compiler's compile-time state: symbol bindings in
// definition order plus the unique-name counters. It is created once per
// target bootstrap, mutated only by the cross-compile loop, and frozen
// before serialization. It must not be shared between goroutines.
type Environment struct {
	bindings []Binding
	index    map[string]int
	counters Counters
	frozen   bool
}

func NewEnvironment() *Environment {
	return &Environment{index: make(map[string]int)}
}

// Define binds symbol. Redefinition replaces the binding in place, keeping
// the original definition order.
func (e *Environment) Define(symbol string, kind BindingKind, payload Form) error {
	if e.frozen {
		return ErrFrozen
	}
	b := Binding{Symbol: symbol, Kind: kind, Payload: payload}
	if i, ok := e.index[symbol]; ok {
		e.bindings[i] = b
		return nil
	}
	e.index[symbol] = len(e.bindings)
	e.bindings = append(e.bindings, b)
	return nil
}

func (e *Environment) Lookup(symbol string) (Binding, bool) {
	i, ok := e.index[symbol]
	if !ok {
		return Binding{}, false
	}
	return e.bindings[i], true
}

// Bindings returns the bindings in definition order.
func (e *Environment) Bindings() []Binding {
	out := make([]Binding, len(e.bindings))
	copy(out, e.bindings)
	return out
}

func (e *Environment) Len() int { return len(e.bindings) }

// Counters returns the current counter values.
func (e *Environment) Counters() Counters { return e.counters }

// NextVariable allocates a fresh variable number. The counter methods must
// not be called after Freeze.
func (e *Environment) NextVariable() int64 {
	e.counters.Variable++
	return e.counters.Variable
}

// NextGensym allocates a fresh gensym number.
func (e *Environment) NextGensym() int64 {
	e.counters.Gensym++
	return e.counters.Gensym
}

// NextLiteral allocates a fresh literal-table index.
func (e *Environment) NextLiteral() int64 {
	e.counters.Literal++
	return e.counters.Literal
}

// Freeze marks the environment immutable. It is called exactly once, after
// the last unit of the target bootstrap has been compiled.
func (e *Environment) Freeze() { e.frozen = true }

func (e *Environment) Frozen() bool { return e.frozen }
