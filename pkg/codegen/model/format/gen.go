// Copyright 2016-2026, Pulumi Corporation.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/model"
)

// ExpressionGenerator is an interface that can be implemented in order to generate code for bound expressions using
// a Formatter.
type ExpressionGenerator interface {
	// GenExpression generates code for the given expression.
	GenExpression(w io.Writer, x model.Expression)
}

// Formatter is a convenience type that implements a number of common utilities used to emit source code.
type Formatter struct {
	// The current indent level as a string.
	Indent string
	// The unit of indentation. Defaults to four spaces.
	IndentUnit string

	// The ExpressionGenerator to use in {G,Fg}en{,f}.
	g ExpressionGenerator
}

// NewFormatter creates a new emitter that will use the given ExpressionGenerator when generating code.
func NewFormatter(g ExpressionGenerator) *Formatter {
	return &Formatter{IndentUnit: "    ", g: g}
}

// Indented bumps the current indentation level, invokes the given function, and then resets the indentation level
// to its prior value.
func (e *Formatter) Indented(f func()) {
	unit := e.IndentUnit
	if unit == "" {
		unit = "    "
	}
	e.Indent += unit
	f()
	e.Indent = e.Indent[:len(e.Indent)-len(unit)]
}

// Fprint prints one or more values to the given writer.
func (e *Formatter) Fprint(w io.Writer, a ...interface{}) {
	_, err := fmt.Fprint(w, a...)
	if err != nil {
		panic(err)
	}
}

// Fprintf prints a formatted message to the given writer.
func (e *Formatter) Fprintf(w io.Writer, format string, a ...interface{}) {
	_, err := fmt.Fprintf(w, format, a...)
	if err != nil {
		panic(err)
	}
}

// Fgen generates code for a list of strings and expressions. Expressions are rendered with the formatter's
// ExpressionGenerator. Other values are printed as-is.
func (e *Formatter) Fgen(w io.Writer, vs ...interface{}) {
	for _, v := range vs {
		if x, ok := v.(model.Expression); ok {
			e.g.GenExpression(w, x)
		} else {
			e.Fprint(w, v)
		}
	}
}

// Fgenf generates code using a format string and its arguments. Any arguments that are expressions are rendered
// with the formatter's ExpressionGenerator when they are formatted with %v.
func (e *Formatter) Fgenf(w io.Writer, format string, args ...interface{}) {
	for i := range args {
		if x, ok := args[i].(model.Expression); ok {
			args[i] = formatter(func(f fmt.State, c rune) {
				e.g.GenExpression(f, x)
			})
		}
	}
	e.Fprintf(w, format, args...)
}

// Gen generates code for a list of strings and expressions into a string.
func (e *Formatter) Gen(vs ...interface{}) string {
	var sb strings.Builder
	e.Fgen(&sb, vs...)
	return sb.String()
}

// Genf generates code using a format string into a string.
func (e *Formatter) Genf(format string, args ...interface{}) string {
	var sb strings.Builder
	e.Fgenf(&sb, format, args...)
	return sb.String()
}

type formatter func(f fmt.State, c rune)

func (fn formatter) Format(f fmt.State, c rune) {
	fn(f, c)
}
