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

package nodejs

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/model"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/pcl"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/schema"
	"github.com/pulumi/pulumi/sdk/v3/go/common/util/contract"
	"github.com/zclconf/go-cty/cty"
)

// GenExpression generates code for a lowered expression.
func (g *generator) GenExpression(w io.Writer, expr model.Expression) {
	switch expr := expr.(type) {
	case *model.AnonymousFunctionExpression:
		g.GenAnonymousFunctionExpression(w, expr)
	case *model.ConditionalExpression:
		g.GenConditionalExpression(w, expr)
	case *model.ErrorExpression:
		contract.Failf("unexpected error expression %v (%v)", expr.Message, expr.SrcRange)
	case *model.FunctionCallExpression:
		g.GenFunctionCallExpression(w, expr)
	case *model.IndexExpression:
		g.GenIndexExpression(w, expr)
	case *model.IterationVariableExpression:
		if expr.Part == model.IterationKey {
			g.Fprint(w, "range.key")
		} else {
			g.Fprint(w, "range.value")
		}
	case *model.LiftExpression:
		g.GenLiftExpression(w, expr)
	case *model.LiteralValueExpression:
		g.GenLiteralValueExpression(w, expr)
	case *model.ObjectConsExpression:
		g.GenObjectConsExpression(w, expr)
	case *model.PropertyAccessExpression:
		g.GenPropertyAccessExpression(w, expr)
	case *model.ReferenceExpression:
		g.GenReferenceExpression(w, expr)
	case *model.TemplateExpression:
		g.GenTemplateExpression(w, expr)
	case *model.TupleConsExpression:
		g.GenTupleConsExpression(w, expr)
	default:
		contract.Failf("unexpected expression node %T", expr)
	}
}

// genOperand generates an expression that is the receiver of a member access, wrapping it in parentheses where
// JavaScript precedence requires it.
func (g *generator) genOperand(w io.Writer, expr model.Expression) {
	switch expr.(type) {
	case *model.ConditionalExpression, *model.AnonymousFunctionExpression:
		g.Fgenf(w, "(%v)", expr)
	default:
		g.Fgen(w, expr)
	}
}

// bindParameter assigns an identifier to a continuation parameter.
func (g *generator) bindParameter(v *model.Variable) string {
	name := makeValidIdentifier(v.Name)
	if name == "pulumi" || name == "config" {
		name += "_"
	}
	g.params[v] = name
	return name
}

func (g *generator) GenAnonymousFunctionExpression(w io.Writer, expr *model.AnonymousFunctionExpression) {
	switch len(expr.Parameters) {
	case 0:
		g.Fgen(w, "()")
	case 1:
		g.Fgen(w, g.bindParameter(expr.Parameters[0]))
	default:
		g.Fgen(w, "([")
		for i, p := range expr.Parameters {
			if i > 0 {
				g.Fgen(w, ", ")
			}
			g.Fgen(w, g.bindParameter(p))
		}
		g.Fgen(w, "])")
	}
	g.Fgen(w, " => ")
	g.genArrowBody(w, expr.Body)
}

func (g *generator) genArrowBody(w io.Writer, body model.Expression) {
	if _, isObject := body.(*model.ObjectConsExpression); isObject {
		g.Fgenf(w, "(%v)", body)
		return
	}
	g.Fgen(w, body)
}

// genContinuation generates a call that runs body once the arguments resolve. Outputs are combined with
// pulumi.all and promises with Promise.all.
func (g *generator) genContinuation(w io.Writer, args []model.Expression, params []*model.Variable, body func()) {
	apply, all := "then", "Promise.all"
	for _, arg := range args {
		if model.ContainsOutputs(arg.Type()) {
			apply, all = "apply", "pulumi.all"
			break
		}
	}

	names := make([]string, len(params))
	for i, p := range params {
		names[i] = g.bindParameter(p)
	}

	if len(args) == 1 {
		g.genOperand(w, args[0])
		g.Fprintf(w, ".%s(%s => ", apply, names[0])
	} else {
		g.Fprintf(w, "%s([", all)
		for i, arg := range args {
			if i > 0 {
				g.Fprint(w, ", ")
			}
			g.Fgen(w, arg)
		}
		g.Fprintf(w, "]).%s(([%s]) => ", apply, strings.Join(names, ", "))
	}
	body()
	g.Fprint(w, ")")
}

func (g *generator) GenLiftExpression(w io.Writer, expr *model.LiftExpression) {
	g.genContinuation(w, expr.Args, expr.Then.Parameters, func() {
		g.genArrowBody(w, expr.Then.Body)
	})
}

func (g *generator) GenConditionalExpression(w io.Writer, expr *model.ConditionalExpression) {
	g.genOperand(w, expr.Condition)
	g.Fgenf(w, " ? %v : ", expr.TrueResult)
	g.genOperand(w, expr.FalseResult)
}

func (g *generator) GenFunctionCallExpression(w io.Writer, expr *model.FunctionCallExpression) {
	switch expr.Name {
	case pcl.ToLower:
		g.genOperand(w, expr.Args[0])
		g.Fgen(w, ".toLowerCase()")
	case pcl.ToUpper:
		g.genOperand(w, expr.Args[0])
		g.Fgen(w, ".toUpperCase()")
	case pcl.Length:
		switch model.ResolveOutputs(expr.Args[0].Type()).(type) {
		case *model.MapType, *model.ObjectType:
			g.Fgenf(w, "Object.keys(%v).length", expr.Args[0])
		default:
			g.genOperand(w, expr.Args[0])
			g.Fgen(w, ".length")
		}
	case pcl.Join:
		g.genOperand(w, expr.Args[0])
		g.Fgenf(w, ".join(%v)", expr.Args[1])
	case pcl.Split:
		g.genOperand(w, expr.Args[0])
		g.Fgenf(w, ".split(%v)", expr.Args[1])
	case pcl.ToJSON:
		g.Fgenf(w, "JSON.stringify(%v)", expr.Args[0])
	case pcl.Secret:
		g.Fgenf(w, "pulumi.secret(%v)", expr.Args[0])
	default:
		contract.Failf("unknown function %v", expr.Name)
	}
}

func (g *generator) GenIndexExpression(w io.Writer, expr *model.IndexExpression) {
	g.genOperand(w, expr.Collection)
	g.Fgenf(w, "[%v]", expr.Key)
}

func (g *generator) GenPropertyAccessExpression(w io.Writer, expr *model.PropertyAccessExpression) {
	g.genOperand(w, expr.Operand)
	if isLegalIdentifier(expr.Property) {
		g.Fgenf(w, ".%s", expr.Property)
	} else {
		g.Fgenf(w, "[\"%s\"]", escape(expr.Property))
	}
}

func (g *generator) GenReferenceExpression(w io.Writer, expr *model.ReferenceExpression) {
	if expr.Parameter != nil {
		name, ok := g.params[expr.Parameter]
		if !ok {
			name = makeValidIdentifier(expr.Parameter.Name)
		}
		g.Fgen(w, name)
		return
	}
	g.Fgen(w, g.variableName(expr.Name))
}

func (g *generator) genStringLiteral(w io.Writer, v string) {
	builder := strings.Builder{}
	newlines := strings.Count(v, "\n")
	if newlines == 0 || newlines == 1 && (v[0] == '\n' || v[len(v)-1] == '\n') {
		// This string either does not contain newlines or contains a single leading or trailing newline, so we'll
		// generate a normal string literal. Quotes, backslashes, and newlines will be escaped in conformance with
		// ECMA-262 11.8.4 ("String Literals").
		builder.WriteRune('"')
		for _, c := range v {
			if c == '\n' {
				builder.WriteString(`\n`)
			} else {
				if c == '"' || c == '\\' {
					builder.WriteRune('\\')
				}
				builder.WriteRune(c)
			}
		}
		builder.WriteRune('"')
	} else {
		builder.WriteRune('`')
		builder.WriteString(escapeTemplate(v))
		builder.WriteRune('`')
	}

	g.Fgenf(w, "%s", builder.String())
}

// escapeTemplate escapes "${", backquotes, and backslashes in conformance with ECMA-262 11.8.6 ("Template Literal
// Lexical Components").
func escapeTemplate(v string) string {
	var builder strings.Builder
	runes := []rune(v)
	for i, c := range runes {
		switch c {
		case '$':
			if i < len(runes)-1 && runes[i+1] == '{' {
				builder.WriteRune('\\')
			}
		case '`', '\\':
			builder.WriteRune('\\')
		}
		builder.WriteRune(c)
	}
	return builder.String()
}

// genEnumMember generates a reference to the enum member denoted by a literal. It returns false if the literal does
// not name a member.
func (g *generator) genEnumMember(w io.Writer, t *model.EnumType, v cty.Value) bool {
	enum, member, ok := pcl.EnumMember(t, v)
	if !ok {
		return false
	}
	name := member.Name
	if name == "" {
		name = fmt.Sprint(member.Value)
	}
	_, _, typeName, err := schema.DecomposeToken(enum.Token)
	if err != nil {
		return false
	}
	safeName, err := makeSafeEnumName(name, typeName)
	if err != nil {
		return false
	}
	g.Fgenf(w, "%s.%s", g.qualifiedName(enum.Package, enum.Token, typeName), safeName)
	return true
}

func (g *generator) GenLiteralValueExpression(w io.Writer, expr *model.LiteralValueExpression) {
	if enum, ok := expr.Type().(*model.EnumType); ok && g.genEnumMember(w, enum, expr.Value) {
		return
	}
	if expr.Value.IsNull() {
		g.Fgen(w, "undefined")
		return
	}

	switch expr.Value.Type() {
	case cty.Bool:
		g.Fgenf(w, "%v", expr.Value.True())
	case cty.Number:
		bf := expr.Value.AsBigFloat()
		if i, acc := bf.Int64(); acc == big.Exact {
			g.Fgenf(w, "%d", i)
		} else {
			f, _ := bf.Float64()
			g.Fgenf(w, "%g", f)
		}
	case cty.String:
		g.genStringLiteral(w, expr.Value.AsString())
	default:
		contract.Failf("unexpected literal type in GenLiteralValueExpression: %v (%v)", expr.Value.Type(),
			expr.SrcRange)
	}
}

func (g *generator) GenObjectConsExpression(w io.Writer, expr *model.ObjectConsExpression) {
	if len(expr.Items) == 0 {
		g.Fgen(w, "{}")
	} else {
		g.Fgen(w, "{")
		g.Indented(func() {
			for _, item := range expr.Items {
				g.Fgenf(w, "\n%s%s: %v,", g.Indent, propertyKey(item.Key), item.Value)
			}
		})
		g.Fgenf(w, "\n%s}", g.Indent)
	}
}

func (g *generator) GenTemplateExpression(w io.Writer, expr *model.TemplateExpression) {
	if len(expr.Parts) == 1 {
		if lit, ok := expr.Parts[0].(*model.LiteralValueExpression); ok && lit.Value.Type() == cty.String {
			g.GenLiteralValueExpression(w, lit)
			return
		}
	}

	g.Fgen(w, "`")
	for _, expr := range expr.Parts {
		if lit, ok := expr.(*model.LiteralValueExpression); ok && lit.Value.Type() == cty.String &&
			!lit.Value.IsNull() {
			g.Fgen(w, escapeTemplate(lit.Value.AsString()))
		} else {
			g.Fgenf(w, "${%v}", expr)
		}
	}
	g.Fgen(w, "`")
}

func (g *generator) GenTupleConsExpression(w io.Writer, expr *model.TupleConsExpression) {
	switch len(expr.Expressions) {
	case 0:
		g.Fgen(w, "[]")
	case 1:
		g.Fgenf(w, "[%v]", expr.Expressions[0])
	default:
		g.Fgen(w, "[")
		g.Indented(func() {
			for _, v := range expr.Expressions {
				g.Fgenf(w, "\n%s%v,", g.Indent, v)
			}
		})
		g.Fgen(w, "\n", g.Indent, "]")
	}
}
