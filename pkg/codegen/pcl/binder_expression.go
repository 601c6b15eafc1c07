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

package pcl

import (
	"fmt"
	"math/big"

	"github.com/hashicorp/hcl/v2"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/model"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/schema"
	"github.com/pulumi/pulumi-converter-arm/pkg/tree"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// scope controls which names an expression may refer to.
type scope struct {
	// resourceOptions permits references to resources declared anywhere in the program.
	resourceOptions bool
	// iteration is the iteration of the enclosing resource, if any.
	iteration Iteration
}

func (b *binder) bindExpression(x tree.Expr, s *scope) (model.Expression, hcl.Diagnostics) {
	switch x := x.(type) {
	case *tree.Literal:
		return &model.LiteralValueExpression{SrcRange: x.SrcRange, Value: x.Value}, nil
	case *tree.Reference:
		return b.bindReference(x, s)
	case *tree.PropertyAccess:
		return b.bindPropertyAccess(x, s)
	case *tree.Index:
		return b.bindIndex(x, s)
	case *tree.Call:
		return b.bindCall(x, s)
	case *tree.Conditional:
		return b.bindConditional(x, s)
	case *tree.RangeBinding:
		return b.bindRangeBinding(x, s)
	case *tree.Template:
		return b.bindTemplate(x, s)
	case *tree.Object:
		return b.bindObject(x, s)
	case *tree.Array:
		return b.bindArray(x, s)
	case nil:
		return &model.LiteralValueExpression{Value: cty.NullVal(cty.DynamicPseudoType)}, nil
	default:
		return &model.ErrorExpression{SrcRange: x.Range(), Message: fmt.Sprintf("unexpected expression %T", x)},
			hcl.Diagnostics{errorf(UnknownType, x.Range(), "unexpected expression of type %T", x)}
	}
}

func (b *binder) bindReference(x *tree.Reference, s *scope) (model.Expression, hcl.Diagnostics) {
	ref := &model.ReferenceExpression{SrcRange: x.SrcRange, Name: x.Name, ReferenceType: model.DynamicType}

	if n, ok := b.bound[x.Name]; ok {
		b.addDependency(x.Name)
		ref.ReferenceType = n.Type()
		return ref, nil
	}
	if r, ok := b.resources[x.Name]; ok && s.resourceOptions {
		b.addDependency(x.Name)
		ref.ReferenceType = r.VariableType
		return ref, nil
	}

	var diag *hcl.Diagnostic
	switch decl := b.declarations[x.Name].(type) {
	case nil:
		diag = errorf(UndefinedReference, x.SrcRange, "undefined variable %v", x.Name)
	case *tree.Export:
		diag = errorf(UndefinedReference, x.SrcRange, "stack output %v cannot be referenced", x.Name)
	default:
		diag = errorf(UndefinedReference, x.SrcRange, "%v is referenced before it is declared", x.Name)
		diag.Detail = fmt.Sprintf("%v is declared at %v", x.Name, decl.Range())
	}
	return ref, hcl.Diagnostics{diag}
}

// unwrapEventual returns the element type of an output or promise.
func unwrapEventual(t model.Type) model.Type {
	switch t := t.(type) {
	case *model.OutputType:
		return t.ElementType
	case *model.PromiseType:
		return unwrapEventual(t.ElementType)
	default:
		return t
	}
}

// liftType lifts a result type over the operands that are themselves eventual.
func liftType(result model.Type, operands ...model.Expression) model.Type {
	var eventuals []model.Type
	for _, x := range operands {
		if model.IsEventual(x.Type()) {
			eventuals = append(eventuals, x.Type())
		}
	}
	return liftFlat(result, eventuals...)
}

// liftFlat computes the type of a continuation that produces result once the eventual arguments resolve. An
// eventual result is flattened into the lifted type rather than nested inside it.
func liftFlat(result model.Type, eventuals ...model.Type) model.Type {
	if len(eventuals) == 0 {
		return result
	}
	if model.IsEventual(result) {
		eventuals = append(eventuals, result)
		result = unwrapEventual(result)
	}
	return model.LiftOperationType(result, eventuals...)
}

// EventualOperands returns the maximal sub-expressions of x whose type is an output or a promise, in evaluation
// order. These are the values a lifted expression must wait on.
func EventualOperands(x model.Expression) []model.Expression {
	var operands []model.Expression
	model.Walk(x, func(n model.Expression) bool {
		if !model.IsEventual(n.Type()) {
			return true
		}
		operands = append(operands, n)
		return false
	})
	return operands
}

func typeName(t model.Type) string {
	switch t := t.(type) {
	case *model.ObjectType:
		if r, ok := model.GetAnnotation[*schema.Resource](t.Annotations); ok {
			return r.Token
		}
		if o, ok := model.GetAnnotation[*schema.ObjectType](t.Annotations); ok && o.Token != "" {
			return o.Token
		}
		if f, ok := model.GetAnnotation[*schema.Function](t.Annotations); ok {
			return f.Token
		}
	}
	return t.String()
}

func (b *binder) bindPropertyAccess(x *tree.PropertyAccess, s *scope) (model.Expression, hcl.Diagnostics) {
	operand, diagnostics := b.bindExpression(x.Operand, s)
	access := &model.PropertyAccessExpression{
		SrcRange:     x.SrcRange,
		Operand:      operand,
		Property:     x.Property,
		PropertyType: model.DynamicType,
	}

	var propertyType model.Type
	switch t := unwrapEventual(operand.Type()).(type) {
	case *model.ObjectType:
		if p, ok := t.Properties[x.Property]; ok {
			propertyType = p
		} else {
			diagnostics = append(diagnostics, errorf(UnknownProperty, x.SrcRange, "unknown property %q of %v",
				x.Property, typeName(t)))
		}
	case *model.MapType:
		propertyType = t.ElementType
	case *model.ListType:
		diagnostics = append(diagnostics, errorf(UnknownProperty, x.SrcRange,
			"cannot access property %q of a list; index the list first", x.Property))
	default:
		if t != model.DynamicType {
			diagnostics = append(diagnostics, errorf(UnknownProperty, x.SrcRange, "%v has no property %q", t,
				x.Property))
		}
	}
	if propertyType != nil {
		access.PropertyType = liftType(propertyType, operand)
	}
	return access, diagnostics
}

func (b *binder) bindIndex(x *tree.Index, s *scope) (model.Expression, hcl.Diagnostics) {
	collection, diagnostics := b.bindExpression(x.Operand, s)
	key, diags := b.bindExpression(x.Key, s)
	diagnostics = append(diagnostics, diags...)

	index := &model.IndexExpression{
		SrcRange:    x.SrcRange,
		Collection:  collection,
		Key:         key,
		KeyType:     model.DynamicType,
		ElementType: model.DynamicType,
	}

	keyType := model.ResolveOutputs(key.Type())
	checkKey := func(expected model.Type) {
		index.KeyType = expected
		if !expected.ConversionFrom(keyType).Exists() {
			diagnostics = append(diagnostics, errorf(TypeMismatch, key.Range(), "index key must be %v, not %v",
				expected, keyType))
		}
	}

	var elementType model.Type
	switch t := unwrapEventual(collection.Type()).(type) {
	case *model.ListType:
		checkKey(model.NumberType)
		elementType = t.ElementType
	case *model.MapType:
		checkKey(model.StringType)
		elementType = t.ElementType
	case *model.ObjectType:
		checkKey(model.StringType)
		elementType = model.DynamicType
		if lit, ok := key.(*model.LiteralValueExpression); ok && lit.Value.Type() == cty.String && !lit.Value.IsNull() {
			if p, ok := t.Properties[lit.Value.AsString()]; ok {
				elementType = p
			} else {
				diagnostics = append(diagnostics, errorf(UnknownProperty, key.Range(), "unknown property %q of %v",
					lit.Value.AsString(), typeName(t)))
			}
		}
	default:
		if t != model.DynamicType {
			diagnostics = append(diagnostics, errorf(TypeMismatch, x.SrcRange, "cannot index a value of type %v", t))
		} else {
			elementType = model.DynamicType
		}
	}
	if elementType != nil {
		index.ElementType = liftType(elementType, collection, key)
	}
	return index, diagnostics
}

func (b *binder) bindCall(x *tree.Call, s *scope) (model.Expression, hcl.Diagnostics) {
	var diagnostics hcl.Diagnostics
	var args []model.Expression
	if x.Operand != nil {
		operand, diags := b.bindExpression(x.Operand, s)
		diagnostics = append(diagnostics, diags...)
		args = append(args, operand)
	}
	for _, arg := range x.Args {
		a, diags := b.bindExpression(arg, s)
		diagnostics = append(diagnostics, diags...)
		args = append(args, a)
	}

	call := &model.FunctionCallExpression{
		SrcRange:   x.SrcRange,
		Name:       x.Function,
		Args:       args,
		ReturnType: model.DynamicType,
	}

	argTypes := make([]model.Type, len(args))
	for i, a := range args {
		argTypes[i] = a.Type()
	}
	result, problems, ok := callType(x.Function, argTypes)
	if !ok {
		return call, append(diagnostics, errorf(UndefinedReference, x.SrcRange, "unknown function %q", x.Function))
	}
	for _, p := range problems {
		diagnostics = append(diagnostics, errorf(TypeMismatch, x.SrcRange, "%v", p))
	}

	if IsLifted(x.Function) {
		var eventuals []model.Type
		for _, a := range args {
			for _, e := range EventualOperands(a) {
				eventuals = append(eventuals, e.Type())
			}
		}
		result = liftFlat(result, eventuals...)
	}
	call.ReturnType = result
	return call, diagnostics
}

func (b *binder) bindConditional(x *tree.Conditional, s *scope) (model.Expression, hcl.Diagnostics) {
	condition, diagnostics := b.bindExpression(x.Condition, s)
	t, diags := b.bindExpression(x.True, s)
	diagnostics = append(diagnostics, diags...)
	f, diags := b.bindExpression(x.False, s)
	diagnostics = append(diagnostics, diags...)

	if ct := model.ResolveOutputs(condition.Type()); !model.BoolType.ConversionFrom(ct).Exists() {
		diagnostics = append(diagnostics, errorf(TypeMismatch, condition.Range(), "condition must be bool, not %v",
			ct))
	}

	var eventuals []model.Type
	for _, e := range EventualOperands(condition) {
		eventuals = append(eventuals, e.Type())
	}
	return &model.ConditionalExpression{
		SrcRange:    x.SrcRange,
		Condition:   condition,
		TrueResult:  t,
		FalseResult: f,
		ResultType:  liftFlat(model.UnifyTypes(t.Type(), f.Type()), eventuals...),
	}, diagnostics
}

func (b *binder) bindRangeBinding(x *tree.RangeBinding, s *scope) (model.Expression, hcl.Diagnostics) {
	part := model.IterationKey
	if x.Part == tree.RangeValue {
		part = model.IterationValue
	}
	v := &model.IterationVariableExpression{SrcRange: x.SrcRange, Part: part, VariableType: model.DynamicType}

	switch it := s.iteration.(type) {
	case *CountedIteration:
		v.VariableType = model.IntType
	case *EnumeratedIteration:
		v.VariableType = it.KeyType
		if part == model.IterationValue {
			v.VariableType = it.ValueType
		}
	default:
		return v, hcl.Diagnostics{errorf(UndefinedReference, x.SrcRange,
			"range.%v is only available inside an iterated resource", x.Part)}
	}
	return v, nil
}

func interpolatable(t model.Type) bool {
	switch t := t.(type) {
	case *model.EnumType:
		return interpolatable(t.ElementType)
	default:
		switch t {
		case model.StringType, model.NumberType, model.IntType, model.BoolType, model.DynamicType, model.NoneType:
			return true
		}
		return false
	}
}

func (b *binder) bindTemplate(x *tree.Template, s *scope) (model.Expression, hcl.Diagnostics) {
	var diagnostics hcl.Diagnostics
	template := &model.TemplateExpression{SrcRange: x.SrcRange}

	var eventuals []model.Type
	for _, part := range x.Parts {
		p, diags := b.bindExpression(part, s)
		diagnostics = append(diagnostics, diags...)
		if pt := model.ResolveOutputs(p.Type()); !diags.HasErrors() && !interpolatable(pt) {
			diagnostics = append(diagnostics, errorf(TypeMismatch, p.Range(), "cannot interpolate a value of type %v",
				pt))
		}
		for _, e := range EventualOperands(p) {
			eventuals = append(eventuals, e.Type())
		}
		template.Parts = append(template.Parts, p)
	}
	template.ExprType = liftFlat(model.StringType, eventuals...)
	return template, diagnostics
}

func (b *binder) bindObject(x *tree.Object, s *scope) (model.Expression, hcl.Diagnostics) {
	var diagnostics hcl.Diagnostics
	properties := map[string]model.Type{}
	object := &model.ObjectConsExpression{SrcRange: x.SrcRange}
	for _, item := range x.Items {
		value, diags := b.bindExpression(item.Value, s)
		diagnostics = append(diagnostics, diags...)
		object.Items = append(object.Items, model.ObjectConsItem{Key: item.Key, Value: value})
		properties[item.Key] = value.Type()
	}
	object.ObjectType = model.NewObjectType(properties)
	return object, diagnostics
}

func (b *binder) bindArray(x *tree.Array, s *scope) (model.Expression, hcl.Diagnostics) {
	var diagnostics hcl.Diagnostics
	tuple := &model.TupleConsExpression{SrcRange: x.SrcRange}
	types := make([]model.Type, 0, len(x.Items))
	for _, item := range x.Items {
		value, diags := b.bindExpression(item, s)
		diagnostics = append(diagnostics, diags...)
		tuple.Expressions = append(tuple.Expressions, value)
		types = append(types, value.Type())
	}
	tuple.ListType = model.NewListType(model.UnifyTypes(types...))
	return tuple, diagnostics
}

// assign checks that a value may be assigned to a destination of the given plain type. The value may be eventual.
// Number and bool literals widen to string, integral number literals narrow to int and string literals that name
// an enum member become that member. Object and list literals are checked element by element and take the
// destination type. The returned expression replaces the value.
func (b *binder) assign(dest model.Type, value model.Expression) (model.Expression, hcl.Diagnostics) {
	switch v := value.(type) {
	case *model.LiteralValueExpression:
		if v.Value.IsNull() {
			return v, nil
		}
		return assignLiteral(dest, v)
	case *model.ObjectConsExpression:
		switch d := dest.(type) {
		case *model.ObjectType:
			var diagnostics hcl.Diagnostics
			c := *v
			c.Items = make([]model.ObjectConsItem, len(v.Items))
			for i, item := range v.Items {
				c.Items[i] = item
				pt, ok := d.Properties[item.Key]
				if !ok {
					diagnostics = append(diagnostics, errorf(UnknownProperty, item.Value.Range(),
						"unknown property %q of %v", item.Key, typeName(d)))
					continue
				}
				iv, diags := b.assign(pt, item.Value)
				diagnostics = append(diagnostics, diags...)
				c.Items[i].Value = iv
			}
			c.ObjectType = d
			return &c, diagnostics
		case *model.MapType:
			var diagnostics hcl.Diagnostics
			c := *v
			c.Items = make([]model.ObjectConsItem, len(v.Items))
			for i, item := range v.Items {
				iv, diags := b.assign(d.ElementType, item.Value)
				diagnostics = append(diagnostics, diags...)
				c.Items[i] = model.ObjectConsItem{Key: item.Key, Value: iv}
			}
			c.ObjectType = d
			return &c, diagnostics
		}
	case *model.TupleConsExpression:
		if d, ok := dest.(*model.ListType); ok {
			var diagnostics hcl.Diagnostics
			c := *v
			c.Expressions = make([]model.Expression, len(v.Expressions))
			for i, x := range v.Expressions {
				ev, diags := b.assign(d.ElementType, x)
				diagnostics = append(diagnostics, diags...)
				c.Expressions[i] = ev
			}
			c.ListType = d
			return &c, diagnostics
		}
	}

	src := model.ResolveOutputs(value.Type())
	if !dest.ConversionFrom(src).Exists() {
		return value, hcl.Diagnostics{typeMismatch(dest, src, value.Range())}
	}
	return value, nil
}

func typeMismatch(dest, src model.Type, rng hcl.Range) *hcl.Diagnostic {
	return errorf(TypeMismatch, rng, "cannot assign a value of type %v to %v", typeName(src), typeName(dest))
}

func assignLiteral(dest model.Type, v *model.LiteralValueExpression) (model.Expression, hcl.Diagnostics) {
	retype := func(value cty.Value, t model.Type) *model.LiteralValueExpression {
		return &model.LiteralValueExpression{SrcRange: v.SrcRange, Value: value, LiteralType: t}
	}

	switch d := dest.(type) {
	case *model.EnumType:
		key, ok := enumKey(v.Value)
		if !ok {
			return v, hcl.Diagnostics{typeMismatch(d, v.Type(), v.SrcRange)}
		}
		if enum, ok := model.GetAnnotation[*schema.EnumType](d.Annotations); ok {
			if _, ok := enum.Element(key); !ok {
				return v, hcl.Diagnostics{errorf(TypeMismatch, v.SrcRange, "%v is not a member of %v",
					model.Print(v), d.Token)}
			}
		}
		return retype(v.Value, d), nil
	}

	switch {
	case dest == model.StringType && (v.Value.Type() == cty.Number || v.Value.Type() == cty.Bool):
		widened, err := convert.Convert(v.Value, cty.String)
		if err != nil {
			return v, hcl.Diagnostics{typeMismatch(dest, v.Type(), v.SrcRange)}
		}
		return retype(widened, model.StringType), nil
	case dest == model.IntType && v.Value.Type() == cty.Number:
		if _, accuracy := v.Value.AsBigFloat().Int64(); accuracy != big.Exact {
			return v, hcl.Diagnostics{errorf(TypeMismatch, v.SrcRange, "%v is not an integer", model.Print(v))}
		}
		return retype(v.Value, model.IntType), nil
	}

	if !dest.ConversionFrom(v.Type()).Exists() {
		return v, hcl.Diagnostics{typeMismatch(dest, v.Type(), v.SrcRange)}
	}
	return v, nil
}
