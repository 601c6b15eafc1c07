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
	"math"
	"math/big"

	"github.com/hashicorp/hcl/v2"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/model"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/schema"
	"github.com/pulumi/pulumi-converter-arm/pkg/tree"
	"github.com/zclconf/go-cty/cty"
)

// declareResource resolves a resource's schema and computes its variable type.
func (b *binder) declareResource(n *tree.Resource, index int) (*Resource, hcl.Diagnostics) {
	node := &Resource{
		node:        b.newNode(&n.Declaration, index),
		LogicalName: n.LogicalName,
		Token:       n.Token,
		OutputType:  model.DynamicType,
	}
	if node.LogicalName == "" {
		node.LogicalName = n.Name
	}

	var diagnostics hcl.Diagnostics
	member, ok := b.resolver.Lookup(n.Token)
	switch res, isResource := member.(*schema.Resource); {
	case !ok:
		diagnostics = append(diagnostics, errorf(UnknownType, n.SrcRange, "unknown resource type %q", n.Token))
	case !isResource:
		diagnostics = append(diagnostics, errorf(UnknownType, n.SrcRange, "%q is a function, not a resource",
			n.Token))
	default:
		node.Schema = res
		node.InputType = b.resourceInputType(res)
		node.OutputType = b.resourceOutputType(res)
	}

	node.VariableType = node.OutputType
	if n.Iteration != nil {
		node.VariableType = model.NewListType(node.OutputType)
	}
	if diagnostics.HasErrors() {
		node.markErrors()
	}
	return node, diagnostics
}

func (b *binder) bindResource(n *tree.Resource) (*Resource, hcl.Diagnostics) {
	node := b.declared[n]

	var diagnostics hcl.Diagnostics
	s := &scope{}
	if n.Iteration != nil {
		iteration, diags := b.bindIteration(n.Iteration)
		diagnostics = append(diagnostics, diags...)
		node.Iteration = iteration
		s.iteration = iteration
	}

	for _, input := range n.Inputs {
		value, diags := b.bindExpression(input.Value, s)
		diagnostics = append(diagnostics, diags...)

		property := &Property{Name: input.Name, Value: value, Range: input.SrcRange}
		if node.Schema != nil {
			sp, ok := node.Schema.InputProperty(input.Name)
			if !ok {
				diagnostics = append(diagnostics, errorf(UnknownProperty, input.SrcRange,
					"unknown property %q for resource type %v", input.Name, n.Token))
			} else {
				property.Schema = sp
				property.Value, diags = b.assign(node.InputType.Properties[input.Name], value)
				diagnostics = append(diagnostics, diags...)
			}
		}
		node.Inputs = append(node.Inputs, property)
	}

	if n.Options != nil {
		options, diags := b.bindResourceOptions(n.Options)
		diagnostics = append(diagnostics, diags...)
		node.Options = options
	}
	return node, diagnostics
}

// bindIteration binds the iteration source of a resource. A numeric literal is a count. Any other expression must be
// a list or a map.
func (b *binder) bindIteration(x tree.Expr) (Iteration, hcl.Diagnostics) {
	if lit, ok := x.(*tree.Literal); ok && !lit.Value.IsNull() && lit.Value.Type() == cty.Number {
		count, accuracy := lit.Value.AsBigFloat().Int64()
		if accuracy != big.Exact || count < 0 {
			return invalidIteration(lit.SrcRange), hcl.Diagnostics{errorf(InvalidIterationSource, lit.SrcRange,
				"a resource count must be a non-negative integer, not %v", lit.Value.AsBigFloat().Text('f', -1))}
		}
		// Counts must fit the 32-bit loop bounds of every target language.
		if count > math.MaxInt32 {
			return invalidIteration(lit.SrcRange), hcl.Diagnostics{errorf(InvalidIterationSource, lit.SrcRange,
				"a resource count must be at most %d, not %d", math.MaxInt32, count)}
		}
		return &CountedIteration{SrcRange: lit.SrcRange, Count: int(count)}, nil
	}

	source, diagnostics := b.bindExpression(x, &scope{})
	if diagnostics.HasErrors() {
		return invalidIteration(x.Range()), diagnostics
	}

	iteration := &EnumeratedIteration{Source: source}
	switch t := model.ResolveOutputs(source.Type()).(type) {
	case *model.ListType:
		iteration.KeyType, iteration.ValueType = model.IntType, t.ElementType
	case *model.MapType:
		iteration.KeyType, iteration.ValueType = model.StringType, t.ElementType
	case *model.ObjectType:
		types := make([]model.Type, 0, len(t.Properties))
		for _, k := range sortedKeys(t.Properties) {
			types = append(types, t.Properties[k])
		}
		iteration.KeyType, iteration.ValueType = model.StringType, model.UnifyTypes(types...)
	default:
		if t != model.DynamicType {
			return invalidIteration(x.Range()), append(diagnostics, errorf(InvalidIterationSource, source.Range(),
				"cannot iterate over a value of type %v", t))
		}
		iteration.KeyType, iteration.ValueType = model.DynamicType, model.DynamicType
	}
	return iteration, diagnostics
}

// invalidIteration stands in for an iteration source that could not be bound so that the resource's inputs can
// still be checked.
func invalidIteration(rng hcl.Range) *EnumeratedIteration {
	return &EnumeratedIteration{
		Source:    &model.ErrorExpression{SrcRange: rng, Message: "invalid iteration source"},
		KeyType:   model.DynamicType,
		ValueType: model.DynamicType,
	}
}

// bindResourceOptions binds resource options. Unlike other expressions, options may refer to resources that are
// declared later in the program.
func (b *binder) bindResourceOptions(options *tree.ResourceOptions) (*ResourceOptions, hcl.Diagnostics) {
	var diagnostics hcl.Diagnostics
	s := &scope{resourceOptions: true}
	bind := func(x tree.Expr, check func(model.Type) bool, expected string) model.Expression {
		if x == nil {
			return nil
		}
		value, diags := b.bindExpression(x, s)
		diagnostics = append(diagnostics, diags...)
		if !diags.HasErrors() && !check(model.ResolveOutputs(value.Type())) {
			diagnostics = append(diagnostics, errorf(TypeMismatch, value.Range(), "expected %v, not %v", expected,
				value.Type()))
		}
		return value
	}

	return &ResourceOptions{
		Parent:   bind(options.Parent, isResourceType, "a resource"),
		Provider: bind(options.Provider, isProviderType, "a provider resource"),
		DependsOn: bind(options.DependsOn, func(t model.Type) bool {
			if list, ok := t.(*model.ListType); ok {
				return isResourceType(list.ElementType)
			}
			return isResourceType(t)
		}, "a resource or a list of resources"),
		Protect: bind(options.Protect, func(t model.Type) bool {
			return model.BoolType.ConversionFrom(t).Exists()
		}, "bool"),
	}, diagnostics
}

// ResourceSchema returns the schema of the resource described by a resource variable type, if any.
func ResourceSchema(t model.Type) (*schema.Resource, bool) {
	if obj, ok := t.(*model.ObjectType); ok {
		return model.GetAnnotation[*schema.Resource](obj.Annotations)
	}
	return nil, false
}

// isResourceType returns true for resources and component instances, which may both be parents and dependencies.
func isResourceType(t model.Type) bool {
	if t == model.DynamicType {
		return true
	}
	if _, ok := ComponentSchema(t); ok {
		return true
	}
	_, ok := ResourceSchema(t)
	return ok
}

func isProviderType(t model.Type) bool {
	if t == model.DynamicType {
		return true
	}
	r, ok := ResourceSchema(t)
	return ok && r.IsProvider
}
