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

package python

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/pulumi/pulumi-converter-arm/pkg/codegen"
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
			g.Fprintf(w, "%s['key']", rangeVariable)
		} else {
			g.Fprintf(w, "%s['value']", rangeVariable)
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

// genOperand generates an expression that is the receiver of an attribute access or call.
func (g *generator) genOperand(w io.Writer, expr model.Expression) {
	switch expr.(type) {
	case *model.ConditionalExpression, *model.AnonymousFunctionExpression:
		g.Fgenf(w, "(%v)", expr)
	default:
		g.Fgen(w, expr)
	}
}

func (g *generator) bindParameter(v *model.Variable) string {
	name := makeValidIdentifier(PyName(v.Name))
	switch name {
	case "pulumi", "config", "json", rangeVariable:
		name += "_"
	}
	g.params[v] = name
	return name
}

func (g *generator) GenAnonymousFunctionExpression(w io.Writer, expr *model.AnonymousFunctionExpression) {
	g.Fgen(w, "lambda")
	for i, p := range expr.Parameters {
		if i > 0 {
			g.Fgen(w, ",")
		}
		g.Fgenf(w, " %s", g.bindParameter(p))
	}
	g.Fgenf(w, "%s: %v", g.pinnedRange(), expr.Body)
}

// pinnedRange binds the current loop entry as a default argument of a lambda created inside a loop body, since
// Python closures capture the variable and not its value.
func (g *generator) pinnedRange() string {
	if !g.inLoop {
		return ""
	}
	return fmt.Sprintf(", %s=%s", rangeVariable, rangeVariable)
}

// genApply generates code that runs body once the arguments resolve. Invoke results are plain values in Python, so
// arguments that are only promises are substituted into the body directly.
func (g *generator) genApply(w io.Writer, args []model.Expression, params []*model.Variable, body func()) {
	var outputs []int
	for i, arg := range args {
		if model.ContainsOutputs(arg.Type()) {
			outputs = append(outputs, i)
		} else {
			g.inlined[params[i]] = arg
		}
	}

	switch len(outputs) {
	case 0:
		body()
	case 1:
		i := outputs[0]
		g.genOperand(w, args[i])
		g.Fprintf(w, ".apply(lambda %s%s: ", g.bindParameter(params[i]), g.pinnedRange())
		body()
		g.Fprint(w, ")")
	default:
		g.Fprint(w, "pulumi.Output.all(")
		g.Indented(func() {
			for n, i := range outputs {
				if n > 0 {
					g.Fprint(w, ",")
				}
				name := g.bindParameter(params[i])
				g.params[params[i]] = fmt.Sprintf("resolved_outputs['%s']", name)
				g.Fgenf(w, "\n%s%s=%v", g.Indent, name, args[i])
			}
		})
		g.Fprintf(w, "\n%s).apply(lambda resolved_outputs%s: ", g.Indent, g.pinnedRange())
		body()
		g.Fprint(w, ")")
	}
}

func (g *generator) GenLiftExpression(w io.Writer, expr *model.LiftExpression) {
	g.genApply(w, expr.Args, expr.Then.Parameters, func() {
		g.Fgen(w, expr.Then.Body)
	})
}

func (g *generator) GenConditionalExpression(w io.Writer, expr *model.ConditionalExpression) {
	g.genOperand(w, expr.TrueResult)
	g.Fgen(w, " if ")
	g.genOperand(w, expr.Condition)
	g.Fgen(w, " else ")
	g.Fgen(w, expr.FalseResult)
}

func (g *generator) GenFunctionCallExpression(w io.Writer, expr *model.FunctionCallExpression) {
	switch expr.Name {
	case pcl.ToLower:
		g.genOperand(w, expr.Args[0])
		g.Fgen(w, ".lower()")
	case pcl.ToUpper:
		g.genOperand(w, expr.Args[0])
		g.Fgen(w, ".upper()")
	case pcl.Length:
		g.Fgenf(w, "len(%v)", expr.Args[0])
	case pcl.Join:
		g.genOperand(w, expr.Args[1])
		g.Fgenf(w, ".join(%v)", expr.Args[0])
	case pcl.Split:
		g.genOperand(w, expr.Args[0])
		g.Fgenf(w, ".split(%v)", expr.Args[1])
	case pcl.ToJSON:
		g.Fgenf(w, "json.dumps(%v)", expr.Args[0])
	case pcl.Secret:
		g.Fgenf(w, "pulumi.Output.secret(%v)", expr.Args[0])
	default:
		contract.Failf("unknown function %v", expr.Name)
	}
}

func (g *generator) GenIndexExpression(w io.Writer, expr *model.IndexExpression) {
	g.genOperand(w, expr.Collection)
	g.Fgenf(w, "[%v]", expr.Key)
}

// isSchemaObject returns true if values of the given type are SDK classes with snake_cased attributes.
func isSchemaObject(t model.Type) bool {
	obj, ok := model.ResolveOutputs(t).(*model.ObjectType)
	return ok && len(obj.Annotations) != 0
}

func (g *generator) GenPropertyAccessExpression(w io.Writer, expr *model.PropertyAccessExpression) {
	g.genOperand(w, expr.Operand)
	if isSchemaObject(expr.Operand.Type()) {
		g.Fgenf(w, ".%s", PyName(expr.Property))
	} else {
		g.Fgenf(w, "[\"%s\"]", escapeString(expr.Property))
	}
}

func (g *generator) GenReferenceExpression(w io.Writer, expr *model.ReferenceExpression) {
	if expr.Parameter != nil {
		if arg, ok := g.inlined[expr.Parameter]; ok {
			g.Fgen(w, arg)
			return
		}
		name, ok := g.params[expr.Parameter]
		if !ok {
			name = makeValidIdentifier(PyName(expr.Parameter.Name))
		}
		g.Fgen(w, name)
		return
	}
	g.Fgen(w, g.variableName(expr.Name))
}

type runeWriter interface {
	WriteRune(c rune) (int, error)
}

// nolint: errcheck
func genEscapedString(w runeWriter, v string, escapeNewlines, escapeBraces bool) {
	for _, c := range v {
		switch c {
		case '\n':
			if escapeNewlines {
				w.WriteRune('\\')
				c = 'n'
			}
		case '"', '\\':
			w.WriteRune('\\')
		case '{', '}':
			if escapeBraces {
				w.WriteRune(c)
			}
		}
		w.WriteRune(c)
	}
}

// escapeString escapes a string for use inside a short double-quoted literal.
func escapeString(v string) string {
	var builder strings.Builder
	genEscapedString(&builder, v, true, false)
	return builder.String()
}

// escapeFString escapes a string for use inside a short double-quoted f-string.
func escapeFString(v string) string {
	var builder strings.Builder
	genEscapedString(&builder, v, true, true)
	return builder.String()
}

func (g *generator) genStringLiteral(w io.Writer, v string) {
	builder := &strings.Builder{}
	newlines := strings.Count(v, "\n")
	if newlines == 0 || newlines == 1 && (v[0] == '\n' || v[len(v)-1] == '\n') {
		// This string either does not contain newlines or contains a single leading or trailing newline, so we'll
		// Generate a short string literal. Quotes, backslashes, and newlines will be escaped in conformance with
		// https://docs.python.org/3.7/reference/lexical_analysis.html#literals.
		builder.WriteRune('"')
		genEscapedString(builder, v, true, false)
		builder.WriteRune('"')
	} else {
		// This string does contain newlines, so we'll generate a long string literal. Quotes and backslashes will
		// be escaped in conformance with https://docs.python.org/3.7/reference/lexical_analysis.html#literals.
		builder.WriteString(`"""`)
		genEscapedString(builder, v, false, false)
		builder.WriteString(`"""`)
	}

	g.Fgenf(w, "%s", builder.String())
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
		g.Fgen(w, "None")
		return
	}

	switch expr.Value.Type() {
	case cty.Bool:
		if expr.Value.True() {
			g.Fgen(w, "True")
		} else {
			g.Fgen(w, "False")
		}
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

// argsClass returns the name of the SDK input class for a schema object type, if there is one.
func (g *generator) argsClass(t model.Type) (string, bool) {
	obj, ok := t.(*model.ObjectType)
	if !ok {
		return "", false
	}
	st, ok := model.GetAnnotation[*schema.ObjectType](obj.Annotations)
	if !ok || st.Token == "" || st.Package == nil {
		return "", false
	}
	_, _, member, err := schema.DecomposeToken(st.Token)
	if err != nil {
		return "", false
	}
	return g.qualifiedName(st.Package, st.Token, codegen.Title(member)+"Args"), true
}

func (g *generator) GenObjectConsExpression(w io.Writer, expr *model.ObjectConsExpression) {
	if class, ok := g.argsClass(expr.ObjectType); ok {
		if len(expr.Items) == 0 {
			g.Fgenf(w, "%s()", class)
			return
		}
		g.Fgenf(w, "%s(", class)
		g.Indented(func() {
			for _, item := range expr.Items {
				g.Fgenf(w, "\n%s%s=%v,", g.Indent, PyName(item.Key), item.Value)
			}
		})
		g.Fgenf(w, "\n%s)", g.Indent)
		return
	}

	if len(expr.Items) == 0 {
		g.Fgen(w, "{}")
		return
	}
	g.Fgen(w, "{")
	g.Indented(func() {
		for _, item := range expr.Items {
			g.Fgenf(w, "\n%s\"%s\": %v,", g.Indent, escapeString(item.Key), item.Value)
		}
	})
	g.Fgenf(w, "\n%s}", g.Indent)
}

// interpolatable returns true if an expression can be placed inside the braces of a double-quoted f-string.
func interpolatable(x model.Expression) bool {
	ok := true
	model.Walk(x, func(n model.Expression) bool {
		switch n := n.(type) {
		case *model.LiteralValueExpression:
			if n.Value.Type() == cty.String {
				ok = false
			}
		case *model.ObjectConsExpression, *model.TemplateExpression:
			ok = false
		}
		return ok
	})
	return ok
}

func (g *generator) GenTemplateExpression(w io.Writer, expr *model.TemplateExpression) {
	if len(expr.Parts) == 1 {
		if lit, ok := expr.Parts[0].(*model.LiteralValueExpression); ok && lit.Value.Type() == cty.String {
			g.GenLiteralValueExpression(w, lit)
			return
		}
	}

	fstring := true
	for _, part := range expr.Parts {
		lit, isLit := part.(*model.LiteralValueExpression)
		switch {
		case isLit && lit.Value.Type() == cty.String:
			if strings.Contains(lit.Value.AsString(), "\n") {
				fstring = false
			}
		case !interpolatable(part):
			fstring = false
		}
	}

	if fstring {
		g.Fgen(w, `f"`)
		for _, part := range expr.Parts {
			if lit, ok := part.(*model.LiteralValueExpression); ok && lit.Value.Type() == cty.String {
				g.Fgen(w, escapeFString(lit.Value.AsString()))
			} else {
				g.Fgenf(w, "{%v}", part)
			}
		}
		g.Fgen(w, `"`)
		return
	}

	for i, part := range expr.Parts {
		if i > 0 {
			g.Fgen(w, " + ")
		}
		if lit, ok := part.(*model.LiteralValueExpression); ok && lit.Value.Type() == cty.String {
			g.genStringLiteral(w, lit.Value.AsString())
		} else {
			g.Fgenf(w, "str(%v)", part)
		}
	}
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
