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

package dotnet

import (
	"fmt"
	"io"
	"math/big"
	"strconv"
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
			g.Fprintf(w, "%s.Key", rangeVariable)
		} else {
			g.Fprintf(w, "%s.Value", rangeVariable)
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

// genOperand generates an expression that is the receiver of a member access.
func (g *generator) genOperand(w io.Writer, expr model.Expression) {
	switch expr.(type) {
	case *model.ConditionalExpression, *model.AnonymousFunctionExpression:
		g.Fgenf(w, "(%v)", expr)
	default:
		g.Fgen(w, expr)
	}
}

// scope binds a lambda local. The identifier gets a "Value" suffix if it would shadow a declaration or another
// local in scope.
func (g *generator) scope(base string) string {
	name := base
	for i := 1; g.names.Taken(name) || g.scoped[name] > 0; i++ {
		name = base + "Value"
		if i > 1 {
			name += strconv.Itoa(i)
		}
	}
	g.scoped[name]++
	return name
}

func (g *generator) unscope(name string) {
	g.scoped[name]--
}

func (g *generator) bindParameter(v *model.Variable) string {
	name := g.scope(variableName(v.Name))
	g.params[v] = name
	return name
}

func (g *generator) GenAnonymousFunctionExpression(w io.Writer, expr *model.AnonymousFunctionExpression) {
	names := make([]string, len(expr.Parameters))
	for i, p := range expr.Parameters {
		names[i] = g.bindParameter(p)
	}
	if len(names) == 1 {
		g.Fgenf(w, "%s => %v", names[0], expr.Body)
	} else {
		g.Fgenf(w, "(%s) => %v", strings.Join(names, ", "), expr.Body)
	}
	for _, name := range names {
		g.unscope(name)
	}
}

// genApply generates a call that runs body once the arguments resolve. Several arguments are combined with
// Output.Tuple and unpacked into locals inside a statement lambda.
func (g *generator) genApply(w io.Writer, args []model.Expression, params []*model.Variable, body func()) {
	if len(args) == 1 {
		g.genOperand(w, args[0])
		name := g.bindParameter(params[0])
		g.Fprintf(w, ".Apply(%s => ", name)
		body()
		g.Fprint(w, ")")
		g.unscope(name)
		return
	}
	if len(args) > maxTupleArity {
		g.diagnostics = append(g.diagnostics, pcl.UnsupportedConstructf(args[0].Range(),
			"a value derived from %d outputs cannot be expressed in C#; Output.Tuple accepts at most %d",
			len(args), maxTupleArity))
		g.Fprint(w, "null")
		return
	}

	g.Fprint(w, "Output.Tuple(")
	for i, arg := range args {
		if i > 0 {
			g.Fprint(w, ", ")
		}
		g.Fgen(w, arg)
	}
	values := g.scope("values")
	g.Fprintf(w, ").Apply(%s =>\n%s{\n", values, g.Indent)
	names := make([]string, len(params))
	g.Indented(func() {
		for i, p := range params {
			names[i] = g.bindParameter(p)
			g.Fprintf(w, "%svar %s = %s.Item%d;\n", g.Indent, names[i], values, i+1)
		}
		g.Fprintf(w, "%sreturn ", g.Indent)
		body()
		g.Fprint(w, ";\n")
	})
	g.Fprintf(w, "%s})", g.Indent)
	for _, name := range names {
		g.unscope(name)
	}
	g.unscope(values)
}

func (g *generator) GenLiftExpression(w io.Writer, expr *model.LiftExpression) {
	g.genApply(w, expr.Args, expr.Then.Parameters, func() {
		g.Fgen(w, expr.Then.Body)
	})
}

// genSecret generates a secret output of a value. Outputs are made secret inside Apply.
func (g *generator) genSecret(w io.Writer, x model.Expression) {
	if !model.IsEventual(x.Type()) {
		g.Fgenf(w, "Output.CreateSecret(%v)", x)
		return
	}
	args, params, body := pcl.LiftParts(x, "value")
	g.genApply(w, args, params, func() {
		g.Fgenf(w, "Output.CreateSecret(%v)", body)
	})
}

// genBranch generates a branch of a conditional. A plain branch of a conditional whose other branch is an output is
// lifted into an output.
func (g *generator) genBranch(w io.Writer, branch model.Expression, resultType model.Type) {
	if model.ContainsOutputs(resultType) && !model.IsEventual(branch.Type()) {
		g.Fgenf(w, "Output.Create(%v)", branch)
		return
	}
	g.Fgen(w, branch)
}

func (g *generator) GenConditionalExpression(w io.Writer, expr *model.ConditionalExpression) {
	g.genOperand(w, expr.Condition)
	g.Fprint(w, " ? ")
	g.genBranch(w, expr.TrueResult, expr.ResultType)
	g.Fprint(w, " : ")
	g.genBranch(w, expr.FalseResult, expr.ResultType)
}

// isCollection returns true if values of the given type are counted with Count rather than Length. Resource lists
// are List<T> and maps are dictionaries.
func isCollection(t model.Type) bool {
	switch t := model.ResolveOutputs(t).(type) {
	case *model.MapType, *model.ObjectType:
		return true
	case *model.ListType:
		_, isResource := pcl.ResourceSchema(t.ElementType)
		return isResource
	default:
		return false
	}
}

func (g *generator) GenFunctionCallExpression(w io.Writer, expr *model.FunctionCallExpression) {
	switch expr.Name {
	case pcl.ToLower:
		g.genOperand(w, expr.Args[0])
		g.Fprint(w, ".ToLower()")
	case pcl.ToUpper:
		g.genOperand(w, expr.Args[0])
		g.Fprint(w, ".ToUpper()")
	case pcl.Length:
		g.genOperand(w, expr.Args[0])
		if isCollection(expr.Args[0].Type()) {
			g.Fprint(w, ".Count")
		} else {
			g.Fprint(w, ".Length")
		}
	case pcl.Join:
		g.Fgenf(w, "string.Join(%v, %v)", expr.Args[1], expr.Args[0])
	case pcl.Split:
		g.genOperand(w, expr.Args[0])
		g.Fgenf(w, ".Split(%v)", expr.Args[1])
	case pcl.ToJSON:
		g.Fgenf(w, "JsonSerializer.Serialize(%v)", expr.Args[0])
	case pcl.Secret:
		g.genSecret(w, expr.Args[0])
	default:
		contract.Failf("unknown function %v", expr.Name)
	}
}

func (g *generator) GenIndexExpression(w io.Writer, expr *model.IndexExpression) {
	g.genOperand(w, expr.Collection)
	g.Fgenf(w, "[%v]", expr.Key)
}

// isSchemaObject returns true if values of the given type are SDK classes with title-cased properties.
func isSchemaObject(t model.Type) bool {
	obj, ok := model.ResolveOutputs(t).(*model.ObjectType)
	return ok && len(obj.Annotations) != 0
}

func (g *generator) GenPropertyAccessExpression(w io.Writer, expr *model.PropertyAccessExpression) {
	g.genOperand(w, expr.Operand)
	if isSchemaObject(expr.Operand.Type()) {
		g.Fprintf(w, ".%s", propertyName(expr.Property))
	} else {
		g.Fprintf(w, "[\"%s\"]", escape(expr.Property, false))
	}
}

func (g *generator) GenReferenceExpression(w io.Writer, expr *model.ReferenceExpression) {
	if expr.Parameter != nil {
		name, ok := g.params[expr.Parameter]
		if !ok {
			name = variableName(expr.Parameter.Name)
		}
		g.Fprint(w, name)
		return
	}
	g.Fprint(w, g.variableName(expr.Name))
}

func (g *generator) genStringLiteral(w io.Writer, v string) {
	newlines := strings.Count(v, "\n")
	if newlines == 0 || newlines == 1 && (v[0] == '\n' || v[len(v)-1] == '\n') {
		g.Fprintf(w, "\"%s\"", escape(v, false))
		return
	}
	// Verbatim strings only escape quotes.
	g.Fprintf(w, "@\"%s\"", strings.ReplaceAll(v, "\"", "\"\""))
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
	typeName = codegen.Title(typeName)
	safeName, err := makeSafeEnumName(name, typeName)
	if err != nil {
		return false
	}
	g.Fprintf(w, "%s.%s", g.qualifiedName(enum.Package, enum.Token, typeName), safeName)
	return true
}

func (g *generator) GenLiteralValueExpression(w io.Writer, expr *model.LiteralValueExpression) {
	if enum, ok := expr.Type().(*model.EnumType); ok && g.genEnumMember(w, enum, expr.Value) {
		return
	}
	if expr.Value.IsNull() {
		g.Fprint(w, "null")
		return
	}

	switch expr.Value.Type() {
	case cty.Bool:
		g.Fprint(w, strconv.FormatBool(expr.Value.True()))
	case cty.Number:
		bf := expr.Value.AsBigFloat()
		if i, acc := bf.Int64(); acc == big.Exact {
			g.Fprintf(w, "%d", i)
		} else {
			f, _ := bf.Float64()
			g.Fprintf(w, "%g", f)
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
	return g.qualifiedName(st.Package, st.Token, "Inputs."+codegen.Title(member)+"Args"), true
}

// genProperty generates the assignment of a property inside an object initializer. Maps are filled with a
// collection initializer.
func (g *generator) genProperty(w io.Writer, name string, value model.Expression) {
	if obj, ok := value.(*model.ObjectConsExpression); ok {
		if _, isArgs := g.argsClass(obj.ObjectType); !isArgs {
			g.Fprintf(w, "%s%s =\n%s{\n", g.Indent, name, g.Indent)
			g.Indented(func() {
				for _, item := range obj.Items {
					g.Fprintf(w, "%s{ \"%s\", ", g.Indent, escape(item.Key, false))
					g.genInputValue(w, item.Value)
					g.Fprint(w, " },\n")
				}
			})
			g.Fprintf(w, "%s},\n", g.Indent)
			return
		}
	}
	g.Fprintf(w, "%s%s = ", g.Indent, name)
	g.genInputValue(w, value)
	g.Fprint(w, ",\n")
}

// genInputValue generates a value in a position that accepts inputs. Schema objects become args classes.
func (g *generator) genInputValue(w io.Writer, value model.Expression) {
	switch x := value.(type) {
	case *model.ObjectConsExpression:
		class, ok := g.argsClass(x.ObjectType)
		if !ok {
			break
		}
		if len(x.Items) == 0 {
			g.Fprintf(w, "new %s()", class)
			return
		}
		g.Fprintf(w, "new %s\n%s{\n", class, g.Indent)
		g.Indented(func() {
			for _, item := range x.Items {
				g.genProperty(w, propertyName(item.Key), item.Value)
			}
		})
		g.Fprintf(w, "%s}", g.Indent)
		return
	case *model.TupleConsExpression:
		g.genArray(w, x, g.genInputValue)
		return
	}
	g.Fgen(w, value)
}

// elementTypeName returns the C# type of the elements of a list or map.
func (g *generator) elementTypeName(t model.Type) string {
	switch t := t.(type) {
	case *model.ListType:
		return g.typeName(t.ElementType)
	case *model.MapType:
		return g.typeName(t.ElementType)
	default:
		return "object?"
	}
}

func (g *generator) genArray(w io.Writer, x *model.TupleConsExpression, element func(io.Writer, model.Expression)) {
	elementType := g.elementTypeName(x.ListType)
	if len(x.Expressions) == 0 {
		g.Fprintf(w, "new %s[] { }", elementType)
		return
	}
	if elementType == "object?" {
		g.Fprint(w, "new object?[]")
	} else {
		g.Fprint(w, "new[]")
	}
	g.Fprintf(w, "\n%s{\n", g.Indent)
	g.Indented(func() {
		for _, v := range x.Expressions {
			g.Fprint(w, g.Indent)
			element(w, v)
			g.Fprint(w, ",\n")
		}
	})
	g.Fprintf(w, "%s}", g.Indent)
}

func (g *generator) GenObjectConsExpression(w io.Writer, expr *model.ObjectConsExpression) {
	if _, ok := g.argsClass(expr.ObjectType); ok {
		g.genInputValue(w, expr)
		return
	}

	g.Fprintf(w, "new Dictionary<string, %s>", g.elementTypeName(expr.ObjectType))
	if len(expr.Items) == 0 {
		g.Fprint(w, "()")
		return
	}
	g.Fprintf(w, "\n%s{\n", g.Indent)
	g.Indented(func() {
		for _, item := range expr.Items {
			g.Fgenf(w, "%s[\"%s\"] = %v,\n", g.Indent, escape(item.Key, false), item.Value)
		}
	})
	g.Fprintf(w, "%s}", g.Indent)
}

func (g *generator) GenTemplateExpression(w io.Writer, expr *model.TemplateExpression) {
	literal, interpolated := strings.Builder{}, false
	for _, part := range expr.Parts {
		if lit, ok := part.(*model.LiteralValueExpression); ok && lit.Value.Type() == cty.String &&
			!lit.Value.IsNull() {
			literal.WriteString(lit.Value.AsString())
		} else {
			interpolated = true
		}
	}
	if !interpolated {
		g.genStringLiteral(w, literal.String())
		return
	}

	g.Fprint(w, "$\"")
	for _, part := range expr.Parts {
		lit, isLit := part.(*model.LiteralValueExpression)
		switch {
		case isLit && lit.Value.Type() == cty.String && !lit.Value.IsNull():
			g.Fprint(w, escape(lit.Value.AsString(), true))
		case isConditional(part):
			// A colon inside an interpolation starts a format string.
			g.Fgenf(w, "{(%v)}", part)
		default:
			g.Fgenf(w, "{%v}", part)
		}
	}
	g.Fprint(w, "\"")
}

func isConditional(x model.Expression) bool {
	_, ok := x.(*model.ConditionalExpression)
	return ok
}

func (g *generator) GenTupleConsExpression(w io.Writer, expr *model.TupleConsExpression) {
	g.genArray(w, expr, func(w io.Writer, x model.Expression) {
		g.Fgen(w, x)
	})
}
