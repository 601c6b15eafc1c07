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

	"github.com/hashicorp/hcl/v2"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/model"
)

// Lower rewrites an expression so that every use of an eventual value happens inside an explicit lift.
//
//   - A property access or index whose operand is eventual is lifted over that operand.
//   - A builtin call or template with eventual sub-expressions is lifted over the maximal eventual sub-expressions,
//     which are replaced by the continuation's parameters. Calls to secret are not lifted.
//   - A conditional with an eventual condition is lifted over the condition only.
//
// Nested lifts are flattened into a single lift over the union of their arguments, and identical arguments share a
// parameter. The input expression is not modified.
func Lower(x model.Expression) (model.Expression, hcl.Diagnostics) {
	if x == nil {
		return nil, nil
	}
	return model.VisitExpression(x, model.IdentityVisitor, lowerNode)
}

func lowerNode(x model.Expression) (model.Expression, hcl.Diagnostics) {
	switch x := x.(type) {
	case *model.PropertyAccessExpression:
		if !model.IsEventual(x.Operand.Type()) {
			return x, nil
		}
		lb := newLiftBuilder()
		body := &model.PropertyAccessExpression{
			SrcRange:     x.SrcRange,
			Operand:      lb.param(x.Operand),
			Property:     x.Property,
			PropertyType: unwrapEventual(x.PropertyType),
		}
		return lb.finish(x.SrcRange, body), nil
	case *model.IndexExpression:
		if !model.IsEventual(x.Collection.Type()) && !model.IsEventual(x.Key.Type()) {
			return x, nil
		}
		lb := newLiftBuilder()
		body := &model.IndexExpression{
			SrcRange:    x.SrcRange,
			Collection:  lb.paramIfEventual(x.Collection),
			Key:         lb.paramIfEventual(x.Key),
			KeyType:     x.KeyType,
			ElementType: unwrapEventual(x.ElementType),
		}
		return lb.finish(x.SrcRange, body), nil
	case *model.FunctionCallExpression:
		if !IsLifted(x.Name) {
			return x, nil
		}
		lb := newLiftBuilder()
		body := &model.FunctionCallExpression{
			SrcRange:   x.SrcRange,
			Name:       x.Name,
			Args:       make([]model.Expression, len(x.Args)),
			ReturnType: unwrapEventual(x.ReturnType),
		}
		for i, arg := range x.Args {
			body.Args[i] = lb.replaceEventuals(arg)
		}
		if len(lb.args) == 0 {
			return x, nil
		}
		return lb.finish(x.SrcRange, body), nil
	case *model.TemplateExpression:
		lb := newLiftBuilder()
		body := &model.TemplateExpression{
			SrcRange: x.SrcRange,
			Parts:    make([]model.Expression, len(x.Parts)),
			ExprType: model.StringType,
		}
		for i, part := range x.Parts {
			body.Parts[i] = lb.replaceEventuals(part)
		}
		if len(lb.args) == 0 {
			return x, nil
		}
		return lb.finish(x.SrcRange, body), nil
	case *model.ConditionalExpression:
		lb := newLiftBuilder()
		body := &model.ConditionalExpression{
			SrcRange:    x.SrcRange,
			Condition:   lb.replaceEventuals(x.Condition),
			TrueResult:  x.TrueResult,
			FalseResult: x.FalseResult,
			ResultType:  model.UnifyTypes(x.TrueResult.Type(), x.FalseResult.Type()),
		}
		if len(lb.args) == 0 {
			return x, nil
		}
		return lb.finish(x.SrcRange, body), nil
	default:
		return x, nil
	}
}

// liftBuilder accumulates the arguments of a lift and the parameters that stand for them.
type liftBuilder struct {
	args   []model.Expression
	params []*model.Variable
	keys   map[string]*model.Variable
}

func newLiftBuilder() *liftBuilder {
	return &liftBuilder{keys: map[string]*model.Variable{}}
}

// param returns the expression that stands for the resolved value of x inside the continuation. If x is itself a
// lift, its arguments are merged into this lift and its body takes the place of x.
func (lb *liftBuilder) param(x model.Expression) model.Expression {
	if lift, ok := x.(*model.LiftExpression); ok {
		subst := make(map[*model.Variable]model.Expression, len(lift.Args))
		for i, arg := range lift.Args {
			subst[lift.Then.Parameters[i]] = lb.param(arg)
		}
		return substituteParameters(lift.Then.Body, subst)
	}

	key := model.Print(x)
	v, ok := lb.keys[key]
	if !ok {
		v = &model.Variable{Name: parameterName(x), VariableType: unwrapEventual(x.Type())}
		lb.keys[key] = v
		lb.args = append(lb.args, x)
		lb.params = append(lb.params, v)
	}
	return &model.ReferenceExpression{SrcRange: x.Range(), Name: v.Name, Parameter: v, ReferenceType: v.VariableType}
}

func (lb *liftBuilder) paramIfEventual(x model.Expression) model.Expression {
	if model.IsEventual(x.Type()) {
		return lb.param(x)
	}
	return x
}

// replaceEventuals replaces each maximal eventual sub-expression of x with a parameter.
func (lb *liftBuilder) replaceEventuals(x model.Expression) model.Expression {
	replaced, _ := model.VisitExpression(x, func(n model.Expression) (model.Expression, hcl.Diagnostics) {
		if model.IsEventual(n.Type()) {
			return lb.param(n), nil
		}
		return n, nil
	}, nil)
	return replaced
}

// finish names the parameters and builds the lift. Parameter names are unique within the lift and never shadow a
// declaration that the body refers to.
func (lb *liftBuilder) finish(rng hcl.Range, body model.Expression) model.Expression {
	reserved := map[string]bool{}
	model.Walk(body, func(n model.Expression) bool {
		if ref, ok := n.(*model.ReferenceExpression); ok && ref.Parameter == nil {
			reserved[ref.Name] = true
		}
		return true
	})

	for _, v := range lb.params {
		base, name := v.Name, v.Name
		for i := 1; reserved[name]; i++ {
			name = fmt.Sprintf("%v%d", base, i)
		}
		v.Name = name
		reserved[name] = true
	}
	body = renameParameters(body)

	argTypes := make([]model.Type, len(lb.args))
	for i, arg := range lb.args {
		argTypes[i] = arg.Type()
	}
	return &model.LiftExpression{
		SrcRange: rng,
		Args:     lb.args,
		Then: &model.AnonymousFunctionExpression{
			Parameters: lb.params,
			Body:       body,
		},
		ResultType: liftFlat(body.Type(), argTypes...),
	}
}

// parameterName derives a parameter name from the expression the parameter stands for.
func parameterName(x model.Expression) string {
	switch x := x.(type) {
	case *model.ReferenceExpression:
		return x.Name
	case *model.PropertyAccessExpression:
		return x.Property
	case *model.FunctionCallExpression:
		return x.Name
	case *model.IndexExpression:
		return parameterName(x.Collection)
	case *model.ConditionalExpression:
		return "condition"
	case *model.TemplateExpression:
		return "text"
	default:
		return "arg"
	}
}

// substituteParameters replaces references to the given parameters.
func substituteParameters(x model.Expression, subst map[*model.Variable]model.Expression) model.Expression {
	replaced, _ := model.VisitExpression(x, nil, func(n model.Expression) (model.Expression, hcl.Diagnostics) {
		if ref, ok := n.(*model.ReferenceExpression); ok && ref.Parameter != nil {
			if s, ok := subst[ref.Parameter]; ok {
				return s, nil
			}
		}
		return n, nil
	})
	return replaced
}

// renameParameters updates parameter references with their parameter's final name.
func renameParameters(x model.Expression) model.Expression {
	renamed, _ := model.VisitExpression(x, nil, func(n model.Expression) (model.Expression, hcl.Diagnostics) {
		if ref, ok := n.(*model.ReferenceExpression); ok && ref.Parameter != nil && ref.Name != ref.Parameter.Name {
			c := *ref
			c.Name = ref.Parameter.Name
			return &c, nil
		}
		return n, nil
	})
	return renamed
}

// LiftParts decomposes an eventual value into the arguments, parameters and body of a continuation. A lift yields
// its own parts. Any other value is treated as a lift of itself under a single parameter with the given name.
func LiftParts(x model.Expression, name string) ([]model.Expression, []*model.Variable, model.Expression) {
	if lift, ok := x.(*model.LiftExpression); ok {
		return lift.Args, lift.Then.Parameters, lift.Then.Body
	}
	v := &model.Variable{Name: name, VariableType: unwrapEventual(x.Type())}
	ref := &model.ReferenceExpression{SrcRange: x.Range(), Name: name, Parameter: v, ReferenceType: v.VariableType}
	return []model.Expression{x}, []*model.Variable{v}, ref
}
