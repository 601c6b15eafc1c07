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

package model

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Print renders an expression in a compact notation. Lifts print as __lift(args..., eval(params..., body)).
func Print(x Expression) string {
	var sb strings.Builder
	printExpression(&sb, x)
	return sb.String()
}

func printList(w io.Writer, xs []Expression) {
	for i, x := range xs {
		if i > 0 {
			fmt.Fprint(w, ", ")
		}
		printExpression(w, x)
	}
}

func printExpression(w io.Writer, x Expression) {
	switch x := x.(type) {
	case *AnonymousFunctionExpression:
		fmt.Fprint(w, "eval(")
		for _, p := range x.Parameters {
			fmt.Fprintf(w, "%v, ", p.Name)
		}
		printExpression(w, x.Body)
		fmt.Fprint(w, ")")
	case *ConditionalExpression:
		printExpression(w, x.Condition)
		fmt.Fprint(w, " ? ")
		printExpression(w, x.TrueResult)
		fmt.Fprint(w, " : ")
		printExpression(w, x.FalseResult)
	case *ErrorExpression:
		fmt.Fprintf(w, "error(%q)", x.Message)
	case *FunctionCallExpression:
		fmt.Fprintf(w, "%v(", x.Name)
		printList(w, x.Args)
		fmt.Fprint(w, ")")
	case *IndexExpression:
		printExpression(w, x.Collection)
		fmt.Fprint(w, "[")
		printExpression(w, x.Key)
		fmt.Fprint(w, "]")
	case *IterationVariableExpression:
		if x.Part == IterationKey {
			fmt.Fprint(w, "range.key")
		} else {
			fmt.Fprint(w, "range.value")
		}
	case *LiftExpression:
		fmt.Fprint(w, "__lift(")
		for _, a := range x.Args {
			printExpression(w, a)
			fmt.Fprint(w, ", ")
		}
		printExpression(w, x.Then)
		fmt.Fprint(w, ")")
	case *LiteralValueExpression:
		fmt.Fprint(w, printLiteral(x.Value))
	case *ObjectConsExpression:
		fmt.Fprint(w, "{")
		for i, item := range x.Items {
			if i > 0 {
				fmt.Fprint(w, ", ")
			}
			fmt.Fprintf(w, "%v = ", item.Key)
			printExpression(w, item.Value)
		}
		fmt.Fprint(w, "}")
	case *PropertyAccessExpression:
		printExpression(w, x.Operand)
		fmt.Fprintf(w, ".%v", x.Property)
	case *ReferenceExpression:
		fmt.Fprint(w, x.Name)
	case *TemplateExpression:
		fmt.Fprint(w, "\"")
		for _, p := range x.Parts {
			if lit, ok := p.(*LiteralValueExpression); ok && lit.Value.Type() == cty.String && !lit.Value.IsNull() {
				fmt.Fprint(w, lit.Value.AsString())
				continue
			}
			fmt.Fprint(w, "${")
			printExpression(w, p)
			fmt.Fprint(w, "}")
		}
		fmt.Fprint(w, "\"")
	case *TupleConsExpression:
		fmt.Fprint(w, "[")
		printList(w, x.Expressions)
		fmt.Fprint(w, "]")
	default:
		fmt.Fprintf(w, "<%T>", x)
	}
}

func printLiteral(v cty.Value) string {
	if v.IsNull() {
		return "null"
	}
	switch v.Type() {
	case cty.Bool:
		if v.True() {
			return "true"
		}
		return "false"
	case cty.Number:
		return v.AsBigFloat().Text('f', -1)
	case cty.String:
		return strconv.Quote(v.AsString())
	default:
		return v.GoString()
	}
}
