// Package emit serializes the compile-time environment into target-runtime
// text. Executing that text reconstructs an environment observably
// equivalent to the snapshot, so the emitted program can keep compiling
// code at runtime.
package emit

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jlollis/jscl/internal/config"
	"github.com/jlollis/jscl/pkg/lang"
)

// Environment renders env as JavaScript statements: one assignment of the
// serialized binding table to the runtime's current-environment slot,
// followed by one assignment per counter. Macro payloads carry the "eval"
// tag so reconstruction evaluates them into live expanders; everything
// else is tagged "lit" and loaded as inert data.
//
// Must run strictly after the last unit has been cross-compiled: bindings
// and counters are read at their final values here, and the counter
// assignments are what keeps later runtime compilation from reusing a name
// already embedded in the artifact.
func Environment(env *lang.Environment) string {
	var sb strings.Builder

	sb.WriteString(config.EnvironmentSlot)
	sb.WriteString(" = {")
	for i, b := range env.Bindings() {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString("\n  ")
		sb.WriteString(jsString(b.Symbol))
		sb.WriteString(": {kind: ")
		sb.WriteString(jsString(string(b.Kind)))
		sb.WriteString(", payload: ")
		sb.WriteString(payload(b))
		sb.WriteString("}")
	}
	if env.Len() > 0 {
		sb.WriteByte('\n')
	}
	sb.WriteString("};\n")

	c := env.Counters()
	fmt.Fprintf(&sb, "%s = %d;\n", config.VariableCounterSlot, c.Variable)
	fmt.Fprintf(&sb, "%s = %d;\n", config.GensymCounterSlot, c.Gensym)
	fmt.Fprintf(&sb, "%s = %d;\n", config.LiteralCounterSlot, c.Literal)

	return sb.String()
}

func payload(b lang.Binding) string {
	tag := "lit"
	if b.Kind == lang.KindMacro {
		tag = "eval"
	}
	v := "null"
	if b.Payload != nil {
		v = FormLiteral(b.Payload)
	}
	return fmt.Sprintf("{t: %s, v: %s}", jsString(tag), v)
}

// FormLiteral prints a form as a JavaScript expression. Symbols go through
// the runtime's intern function so reconstruction shares the runtime's
// symbol table; lists become arrays.
func FormLiteral(f lang.Form) string {
	switch f := f.(type) {
	case lang.Symbol:
		return config.InternFuncExpr + "(" + jsString(f.Name) + ")"
	case lang.Str:
		return jsString(f.Value)
	case lang.Num:
		return lang.FormatNum(f.Value)
	case lang.List:
		var sb strings.Builder
		sb.WriteByte('[')
		for i, item := range f.Items {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(FormLiteral(item))
		}
		sb.WriteByte(']')
		return sb.String()
	default:
		return "null"
	}
}

func jsString(s string) string {
	data, err := json.Marshal(s)
	if err != nil {
		// json.Marshal cannot fail on a string
		return `""`
	}
	return string(data)
}
