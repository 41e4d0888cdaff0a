// Package lang defines the boundary between the bootstrap pipeline and the
// compiler it drives: the form model, the compile-time environment, and the
// two operations every compiler implementation provides (reading the next
// top-level form, compiling one top-level form). The pipeline itself knows
// nothing about the compiled language beyond this package.
package lang

import (
	"math"
	"strconv"
	"strings"
)

// Form is one top-level syntactic unit, the unit of compilation.
type Form interface {
	form()
	String() string
}

// Symbol is a name.
type Symbol struct {
	Name string
}

// Str is a string literal.
type Str struct {
	Value string
}

// Num is a numeric literal.
type Num struct {
	Value float64
}

// List is a parenthesized sequence of forms.
type List struct {
	Items []Form
}

func (Symbol) form() {}
func (Str) form()    {}
func (Num) form()    {}
func (List) form()   {}

func (s Symbol) String() string { return s.Name }

func (s Str) String() string { return strconv.Quote(s.Value) }

func (n Num) String() string { return FormatNum(n.Value) }

func (l List) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, item := range l.Items {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(item.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// FormatNum prints integral values without a fractional part.
func FormatNum(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
