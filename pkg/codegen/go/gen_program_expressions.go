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

package gen

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

// GenExpression generates code for a lowered expression whose value is a plain Go value or an output.
func (g *generator) GenExpression(w io.Writer, expr model.Expression) {
	switch expr := expr.(type) {
	case *model.AnonymousFunctionExpression:
		contract.Failf("unexpected anonymous function outside of a lift (%v)", expr.Range())
	case *model.ConditionalExpression:
		g.genTempReference(w, expr)
	case *model.ErrorExpression:
		contract.Failf("unexpected error expression %v (%v)", expr.Message, expr.SrcRange)
	case *model.FunctionCallExpression:
		g.GenFunctionCallExpression(w, expr)
	case *model.IndexExpression:
		g.genOperand(w, expr.Collection)
		g.Fgenf(w, "[%v]", expr.Key)
	case *model.IterationVariableExpression:
		if expr.Part == model.IterationValue && (g.loop == nil || g.loop.Kind != pcl.CountedLoop) {
			g.Fprint(w, valueVariable)
		} else {
			g.Fprint(w, keyVariable)
		}
	case *model.LiftExpression:
		g.genApply(w, expr)
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

// genOperand generates an expression that is the receiver of a selector or index.
func (g *generator) genOperand(w io.Writer, expr model.Expression) {
	switch expr.(type) {
	case *model.ObjectConsExpression, *model.TupleConsExpression:
		g.Fgenf(w, "(%v)", expr)
	default:
		g.Fgen(w, expr)
	}
}

func (g *generator) genTempReference(w io.Writer, expr model.Expression) {
	name, ok := g.temps[expr]
	contract.Assertf(ok, "no temporary for %v", expr)
	g.Fprint(w, name)
}

// genInput generates an expression in a position that requires a pulumi.Input. Plain values are wrapped in the
// input type of their element type.
func (g *generator) genInput(w io.Writer, expr model.Expression) {
	switch x := expr.(type) {
	case *model.ObjectConsExpression:
		g.genObjectInput(w, x)
		return
	case *model.TupleConsExpression:
		g.genTupleInput(w, x)
		return
	case *model.LiteralValueExpression:
		if x.Value.IsNull() {
			g.Fprint(w, "nil")
			return
		}
		if enum, ok := x.Type().(*model.EnumType); ok && g.genEnumMember(w, enum, x.Value) {
			return
		}
	}

	t := expr.Type()
	if model.ContainsOutputs(t) {
		g.Fgen(w, expr)
		return
	}
	t = model.ResolvePromises(t)
	if enum, ok := t.(*model.EnumType); ok {
		if name, ok := g.enumTypeName(enum); ok {
			g.Fgenf(w, "%s(%v)", name, expr)
			return
		}
		t = enum.ElementType
	}

	wrapper := "pulumi.Any"
	if name, ok := primitiveName(t); ok {
		wrapper = "pulumi." + name
	} else {
		switch t := t.(type) {
		case *model.ListType:
			if name, ok := primitiveName(t.ElementType); ok {
				wrapper = "pulumi.To" + name + "Array"
			}
		case *model.MapType:
			if name, ok := primitiveName(t.ElementType); ok {
				wrapper = "pulumi.To" + name + "Map"
			}
		}
	}
	g.Fgenf(w, "%s(%v)", wrapper, expr)
}

func (g *generator) genObjectInput(w io.Writer, expr *model.ObjectConsExpression) {
	typeName, titleKeys := "pulumi.Map", false
	switch t := expr.ObjectType.(type) {
	case *model.ObjectType:
		if name, ok := g.objectTypeName(t); ok {
			typeName, titleKeys = "&"+name+"Args", true
		}
	case *model.MapType:
		if name, ok := primitiveName(t.ElementType); ok {
			typeName = "pulumi." + name + "Map"
		}
	}

	g.Fprintf(w, "%s{\n", typeName)
	for _, item := range expr.Items {
		if titleKeys {
			g.Fprintf(w, "%s: ", codegen.Title(item.Key))
		} else {
			g.Fprintf(w, "%s: ", strconv.Quote(item.Key))
		}
		g.genInput(w, item.Value)
		g.Fprint(w, ",\n")
	}
	g.Fprint(w, "}")
}

func (g *generator) genTupleInput(w io.Writer, expr *model.TupleConsExpression) {
	typeName := "pulumi.Array"
	if t, ok := expr.ListType.(*model.ListType); ok {
		if name, ok := primitiveName(t.ElementType); ok {
			typeName = "pulumi." + name + "Array"
		} else {
			switch elem := t.ElementType.(type) {
			case *model.ObjectType:
				if name, ok := g.objectTypeName(elem); ok {
					typeName = name + "Array"
				}
			case *model.EnumType:
				if name, ok := g.enumTypeName(elem); ok {
					typeName = name + "Array"
				}
			}
		}
	}

	g.Fprintf(w, "%s{\n", typeName)
	for _, x := range expr.Expressions {
		g.genInput(w, x)
		g.Fprint(w, ",\n")
	}
	g.Fprint(w, "}")
}

func primitiveName(t model.Type) (string, bool) {
	switch t {
	case model.StringType:
		return "String", true
	case model.IntType:
		return "Int", true
	case model.NumberType:
		return "Float64", true
	case model.BoolType:
		return "Bool", true
	default:
		return "", false
	}
}

func (g *generator) enumTypeName(t *model.EnumType) (string, bool) {
	enum, ok := model.GetAnnotation[*schema.EnumType](t.Annotations)
	if !ok || !g.knows(enum.Package) {
		return "", false
	}
	_, _, member, err := schema.DecomposeToken(enum.Token)
	if err != nil {
		return "", false
	}
	return g.moduleAlias(enum.Package, enum.Token) + "." + codegen.Title(member), true
}

// objectTypeName returns the qualified name of the SDK type of an object, if it has one. Resources are named by
// their struct type and invoke results by their result type.
func (g *generator) objectTypeName(t *model.ObjectType) (string, bool) {
	if obj, ok := model.GetAnnotation[*schema.ObjectType](t.Annotations); ok && obj.Token != "" && g.knows(obj.Package) {
		_, _, member, err := schema.DecomposeToken(obj.Token)
		if err != nil {
			return "", false
		}
		return g.moduleAlias(obj.Package, obj.Token) + "." + codegen.Title(member), true
	}
	if fn, ok := model.GetAnnotation[*schema.Function](t.Annotations); ok && g.knows(fn.Package) {
		return g.moduleAlias(fn.Package, fn.Token) + "." + g.functionName(fn) + "Result", true
	}
	if r, ok := model.GetAnnotation[*schema.Resource](t.Annotations); ok && g.knows(r.Package) {
		if r.IsProvider {
			return g.moduleAlias(r.Package, "") + ".Provider", true
		}
		_, _, member, err := schema.DecomposeToken(r.Token)
		if err != nil {
			return "", false
		}
		return g.moduleAlias(r.Package, r.Token) + "." + codegen.Title(member), true
	}
	return "", false
}

// goType returns the Go type of a value of the given type.
func (g *generator) goType(t model.Type) string {
	switch t := t.(type) {
	case *model.OutputType:
		name, _ := g.outputTypeName(model.ResolveOutputs(t.ElementType))
		return name
	case *model.PromiseType:
		return g.goType(t.ElementType)
	case *model.ListType:
		return "[]" + g.goType(t.ElementType)
	case *model.MapType:
		return "map[string]" + g.goType(t.ElementType)
	case *model.EnumType:
		return g.goType(t.ElementType)
	case *model.ObjectType:
		name, ok := g.objectTypeName(t)
		if !ok {
			return "map[string]interface{}"
		}
		if _, isResource := model.GetAnnotation[*schema.Resource](t.Annotations); isResource {
			return "*" + name
		}
		return name
	}

	switch t {
	case model.StringType:
		return "string"
	case model.IntType:
		return "int"
	case model.NumberType:
		return "float64"
	case model.BoolType:
		return "bool"
	default:
		return "interface{}"
	}
}

// outputTypeName returns the name of the output type that carries values of the given plain type. It returns
// pulumi.AnyOutput and false if the SDK has no typed output for it.
func (g *generator) outputTypeName(t model.Type) (string, bool) {
	if name, ok := primitiveName(t); ok {
		return "pulumi." + name + "Output", true
	}
	switch t := t.(type) {
	case *model.EnumType:
		return g.outputTypeName(t.ElementType)
	case *model.ListType:
		if name, ok := primitiveName(t.ElementType); ok {
			return "pulumi." + name + "ArrayOutput", true
		}
		if obj, ok := t.ElementType.(*model.ObjectType); ok {
			if name, ok := g.objectTypeName(obj); ok {
				return name + "ArrayOutput", true
			}
		}
	case *model.MapType:
		if name, ok := primitiveName(t.ElementType); ok {
			return "pulumi." + name + "MapOutput", true
		}
	case *model.ObjectType:
		if name, ok := g.objectTypeName(t); ok {
			return name + "Output", true
		}
	}
	return "pulumi.AnyOutput", false
}

// inputTypeName returns the name of the input interface for values of the given plain type.
func inputTypeName(t model.Type) string {
	if name, ok := primitiveName(t); ok {
		return "pulumi." + name + "Input"
	}
	return "pulumi.Input"
}

func zeroValue(goType string) string {
	switch {
	case goType == "string":
		return `""`
	case goType == "int" || goType == "float64":
		return "0"
	case goType == "bool":
		return "false"
	case goType == "interface{}" || strings.HasPrefix(goType, "[]") || strings.HasPrefix(goType, "map[") ||
		strings.HasPrefix(goType, "*"):
		return "nil"
	default:
		return goType + "{}"
	}
}

// collectTemps appends the sub-expressions of x that must be computed by statements ahead of the expression,
// innermost first. The bodies of lifts over outputs are skipped: their temporaries live inside the apply callback.
func collectTemps(x model.Expression, temps *[]model.Expression) {
	model.Walk(x, func(n model.Expression) bool {
		switch n := n.(type) {
		case *model.LiftExpression:
			outputs := false
			for _, arg := range n.Args {
				collectTemps(arg, temps)
				outputs = outputs || model.ContainsOutputs(arg.Type())
			}
			if !outputs {
				collectTemps(n.Then.Body, temps)
			}
			return false
		case *model.ConditionalExpression:
			collectTemps(n.Condition, temps)
			collectTemps(n.TrueResult, temps)
			collectTemps(n.FalseResult, temps)
			*temps = append(*temps, n)
			return false
		case *model.FunctionCallExpression:
			if n.Name != pcl.ToJSON {
				return true
			}
			for _, arg := range n.Args {
				collectTemps(arg, temps)
			}
			*temps = append(*temps, n)
			return false
		default:
			return true
		}
	})
}

// genTemps generates the statements that compute the temporaries of x. Inside an apply callback zero is the value
// returned alongside an error; at the top level it is empty and errors are returned directly.
func (g *generator) genTemps(w io.Writer, x model.Expression, zero string) {
	var temps []model.Expression
	collectTemps(x, &temps)

	for _, t := range temps {
		if _, ok := g.temps[t]; ok {
			continue
		}
		switch t := t.(type) {
		case *model.ConditionalExpression:
			name := g.names.Fresh(fmt.Sprintf("tmp%d", g.tmpCount))
			g.tmpCount++
			if model.ContainsOutputs(t.ResultType) {
				g.Fprintf(w, "var %s %s\n", name, inputTypeName(model.ResolveOutputs(t.ResultType)))
				g.Fgenf(w, "if %v {\n", t.Condition)
				g.Fprintf(w, "%s = ", name)
				g.genInput(w, t.TrueResult)
				g.Fprint(w, "\n} else {\n")
				g.Fprintf(w, "%s = ", name)
				g.genInput(w, t.FalseResult)
				g.Fprint(w, "\n}\n")
			} else {
				g.Fprintf(w, "var %s %s\n", name, g.goType(t.ResultType))
				g.Fgenf(w, "if %v {\n", t.Condition)
				g.Fgenf(w, "%s = %v\n", name, t.TrueResult)
				g.Fprint(w, "} else {\n")
				g.Fgenf(w, "%s = %v\n", name, t.FalseResult)
				g.Fprint(w, "}\n")
			}
			g.temps[t] = name
		case *model.FunctionCallExpression:
			g.stdImports.Add("encoding/json")
			name := g.names.Fresh(fmt.Sprintf("json%d", g.jsonCount))
			g.jsonCount++
			bytesVar := fmt.Sprintf("tmp%s", strings.ToUpper(name))
			g.Fgenf(w, "%s, err := json.Marshal(%v)\n", bytesVar, t.Args[0])
			g.Fprint(w, "if err != nil {\n")
			if zero != "" {
				g.Fprintf(w, "return %s, err\n", zero)
			} else {
				g.Fprintf(w, "%s\n", g.errReturn())
			}
			g.Fprint(w, "}\n")
			g.markErrAssigned()
			g.Fprintf(w, "%s := string(%s)\n", name, bytesVar)
			g.temps[t] = name
		}
	}
}

func (g *generator) bindParameter(v *model.Variable) string {
	name := variableName(v.Name)
	if g.names.Taken(name) && !g.isDeclaration(name) {
		name += "Value"
	}
	g.params[v] = name
	return name
}

// isDeclaration returns true if ident is the identifier of a declaration. Parameters may shadow declarations but
// not imports or builtins.
func (g *generator) isDeclaration(ident string) bool {
	for _, n := range g.program.Source.Nodes {
		if name, ok := g.names.Lookup(n.Name()); ok && name == ident {
			return true
		}
	}
	return false
}

// genApply generates an ApplyT over the output arguments of a lift. Arguments that are only promises are invoke
// results, which Go receives as plain values, so they are substituted into the body directly.
func (g *generator) genApply(w io.Writer, expr *model.LiftExpression) {
	var outputs []int
	for i, arg := range expr.Args {
		if model.ContainsOutputs(arg.Type()) {
			outputs = append(outputs, i)
		} else {
			g.inlined[expr.Then.Parameters[i]] = arg
		}
	}
	if len(outputs) == 0 {
		g.Fgen(w, expr.Then.Body)
		return
	}

	resultType := model.ResolveOutputs(expr.ResultType)
	outputType, typed := g.outputTypeName(resultType)
	returnType := "interface{}"
	if typed {
		returnType = g.goType(resultType)
	}

	params := expr.Then.Parameters
	if len(outputs) == 1 {
		i := outputs[0]
		g.genOperand(w, expr.Args[i])
		name := g.bindParameter(params[i])
		g.Fprintf(w, ".ApplyT(func(%s %s) (%s, error) {\n", name, g.goType(params[i].VariableType), returnType)
	} else {
		g.Fprint(w, "pulumi.All(")
		for n, i := range outputs {
			if n > 0 {
				g.Fprint(w, ", ")
			}
			g.Fgen(w, expr.Args[i])
		}
		g.Fprintf(w, ").ApplyT(func(_args []interface{}) (%s, error) {\n", returnType)
		for n, i := range outputs {
			name := g.bindParameter(params[i])
			g.Fprintf(w, "%s := _args[%d].(%s)\n", name, n, g.goType(params[i].VariableType))
		}
	}

	g.scopes++
	g.genTemps(w, expr.Then.Body, zeroValue(returnType))
	g.scopes--
	g.Fgenf(w, "return %v, nil\n", expr.Then.Body)
	g.Fprintf(w, "}).(%s)", outputType)
}

func (g *generator) GenFunctionCallExpression(w io.Writer, expr *model.FunctionCallExpression) {
	switch expr.Name {
	case pcl.ToLower:
		g.stdImports.Add("strings")
		g.Fgenf(w, "strings.ToLower(%v)", expr.Args[0])
	case pcl.ToUpper:
		g.stdImports.Add("strings")
		g.Fgenf(w, "strings.ToUpper(%v)", expr.Args[0])
	case pcl.Length:
		g.Fgenf(w, "len(%v)", expr.Args[0])
	case pcl.Join:
		g.stdImports.Add("strings")
		g.Fgenf(w, "strings.Join(%v, %v)", expr.Args[0], expr.Args[1])
	case pcl.Split:
		g.stdImports.Add("strings")
		g.Fgenf(w, "strings.Split(%v, %v)", expr.Args[0], expr.Args[1])
	case pcl.ToJSON:
		g.genTempReference(w, expr)
	case pcl.Secret:
		outputType, _ := g.outputTypeName(model.ResolveOutputs(expr.ReturnType))
		g.Fprint(w, "pulumi.ToSecret(")
		g.genInput(w, expr.Args[0])
		g.Fprintf(w, ").(%s)", outputType)
	default:
		contract.Failf("unknown function %v", expr.Name)
	}
}

func (g *generator) GenPropertyAccessExpression(w io.Writer, expr *model.PropertyAccessExpression) {
	g.genOperand(w, expr.Operand)
	if obj, ok := model.ResolveOutputs(expr.Operand.Type()).(*model.ObjectType); ok && len(obj.Annotations) != 0 {
		if _, isComponent := pcl.ComponentSchema(obj); isComponent {
			g.Fprintf(w, ".%s", componentField(expr.Property))
			return
		}
		if _, isResource := model.GetAnnotation[*schema.Resource](obj.Annotations); isResource &&
			expr.Property == "id" {
			g.Fprint(w, ".ID()")
			return
		}
		g.Fprintf(w, ".%s", codegen.Title(expr.Property))
		return
	}
	g.Fprintf(w, "[%s]", strconv.Quote(expr.Property))
}

func (g *generator) GenReferenceExpression(w io.Writer, expr *model.ReferenceExpression) {
	if expr.Parameter != nil {
		if arg, ok := g.inlined[expr.Parameter]; ok {
			g.Fgen(w, arg)
			return
		}
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
	if strings.Contains(v, "\n") && !strings.Contains(v, "`") {
		g.Fprintf(w, "`%s`", v)
		return
	}
	g.Fprint(w, strconv.Quote(v))
}

// genEnumMember generates a reference to the enum constant denoted by a literal. It returns false if the literal
// does not name a member.
func (g *generator) genEnumMember(w io.Writer, t *model.EnumType, v cty.Value) bool {
	enum, member, ok := pcl.EnumMember(t, v)
	if !ok || !g.knows(enum.Package) {
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
	safeName, err := makeSafeEnumName(name, codegen.Title(typeName))
	if err != nil {
		return false
	}
	g.Fprintf(w, "%s.%s", g.moduleAlias(enum.Package, enum.Token), safeName)
	return true
}

func (g *generator) GenLiteralValueExpression(w io.Writer, expr *model.LiteralValueExpression) {
	if enum, ok := expr.Type().(*model.EnumType); ok && g.genEnumMember(w, enum, expr.Value) {
		return
	}
	if expr.Value.IsNull() {
		g.Fprint(w, "nil")
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
			g.Fprint(w, strconv.FormatFloat(f, 'g', -1, 64))
		}
	case cty.String:
		g.genStringLiteral(w, expr.Value.AsString())
	default:
		contract.Failf("unexpected literal type in GenLiteralValueExpression: %v (%v)", expr.Value.Type(),
			expr.SrcRange)
	}
}

func (g *generator) GenObjectConsExpression(w io.Writer, expr *model.ObjectConsExpression) {
	typeName := "map[string]interface{}"
	if m, ok := expr.ObjectType.(*model.MapType); ok {
		typeName = "map[string]" + g.goType(m.ElementType)
	}
	g.Fprintf(w, "%s{\n", typeName)
	for _, item := range expr.Items {
		g.Fgenf(w, "%s: %v,\n", strconv.Quote(item.Key), item.Value)
	}
	g.Fprint(w, "}")
}

func (g *generator) GenTemplateExpression(w io.Writer, expr *model.TemplateExpression) {
	var literal strings.Builder
	var args []model.Expression
	for _, part := range expr.Parts {
		if lit, ok := part.(*model.LiteralValueExpression); ok && lit.Value.Type() == cty.String {
			literal.WriteString(lit.Value.AsString())
		} else {
			args = append(args, part)
		}
	}
	if len(args) == 0 {
		g.genStringLiteral(w, literal.String())
		return
	}

	var format strings.Builder
	for _, part := range expr.Parts {
		if lit, ok := part.(*model.LiteralValueExpression); ok && lit.Value.Type() == cty.String {
			format.WriteString(escapeFormat(lit.Value.AsString()))
		} else {
			format.WriteString("%v")
		}
	}
	g.stdImports.Add("fmt")
	g.Fprintf(w, "fmt.Sprintf(%s", strconv.Quote(format.String()))
	for _, arg := range args {
		g.Fgenf(w, ", %v", arg)
	}
	g.Fprint(w, ")")
}

func (g *generator) GenTupleConsExpression(w io.Writer, expr *model.TupleConsExpression) {
	elementType := "interface{}"
	if t, ok := expr.ListType.(*model.ListType); ok {
		elementType = g.goType(t.ElementType)
	}
	g.Fprintf(w, "[]%s{\n", elementType)
	for _, x := range expr.Expressions {
		g.Fgenf(w, "%v,\n", x)
	}
	g.Fprint(w, "}")
}
