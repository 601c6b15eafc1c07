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
	"github.com/hashicorp/hcl/v2"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/model"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/schema"
	"github.com/pulumi/pulumi-converter-arm/pkg/tree"
	"github.com/pulumi/pulumi/sdk/v3/go/common/util/contract"
	"github.com/pulumi/pulumi/sdk/v3/go/common/util/logging"
)

type binder struct {
	resolver schema.Resolver

	// declarations holds every declaration of the program by name.
	declarations map[string]tree.Node
	// resources holds the pre-resolved resources, which resource options may reference regardless of order.
	resources map[string]*Resource
	// declared maps each resource declaration to its pre-resolved node.
	declared map[*tree.Resource]*Resource
	// bound holds the declarations bound so far. Expressions may only reference these.
	bound map[string]Node

	objectTypes map[*schema.ObjectType]*model.ObjectType

	// components holds the component types defined so far by name. The binders of component bodies share it.
	components map[string]*ComponentDefinition
	// inComponent is set while binding the body of a component.
	inComponent bool

	// deps collects the dependencies of the node being bound.
	deps    []string
	depSet  map[string]bool
	program *Program
}

func newBinder(resolver schema.Resolver) *binder {
	return &binder{
		resolver:     resolver,
		declarations: map[string]tree.Node{},
		resources:    map[string]*Resource{},
		declared:     map[*tree.Resource]*Resource{},
		bound:        map[string]Node{},
		objectTypes:  map[*schema.ObjectType]*model.ObjectType{},
		components:   map[string]*ComponentDefinition{},
		program:      &Program{byName: map[string]Node{}},
	}
}

// BindProgram type-checks a program tree against the schemas known to the resolver. Binding does not stop at the
// first error: every declaration is bound and all diagnostics are returned together. Declarations that produced
// errors are marked with HasErrors.
func BindProgram(program *tree.Program, resolver schema.Resolver) (*Program, hcl.Diagnostics) {
	contract.Requiref(program != nil, "program", "must not be nil")
	contract.Requiref(resolver != nil, "resolver", "must not be nil")

	bound, diagnostics := newBinder(resolver).bindProgram(program)
	logging.V(7).Infof("bound %d declarations with %d diagnostics", len(bound.Nodes), len(diagnostics))
	return bound, diagnostics
}

func (b *binder) bindProgram(program *tree.Program) (*Program, hcl.Diagnostics) {
	var diagnostics hcl.Diagnostics
	duplicates := map[tree.Node]bool{}
	for _, n := range program.Nodes {
		decl := n.Decl()
		if _, has := b.declarations[decl.Name]; has {
			diagnostics = append(diagnostics, errorf(DuplicateDeclaration, decl.SrcRange,
				"duplicate declaration of %q", decl.Name))
			duplicates[n] = true
			continue
		}
		b.declarations[decl.Name] = n
	}

	// Resource types depend only on their schema and iteration, so they are resolved up front.
	for i, n := range program.Nodes {
		if r, ok := n.(*tree.Resource); ok {
			resource, diags := b.declareResource(r, i)
			diagnostics = append(diagnostics, diags...)
			b.declared[r] = resource
			if !duplicates[n] {
				b.resources[r.Name] = resource
			}
		}
	}

	for i, n := range program.Nodes {
		node, diags := b.bindNode(n, i)
		diagnostics = append(diagnostics, diags...)
		b.program.Nodes = append(b.program.Nodes, node)
		if !duplicates[n] {
			b.program.byName[node.Name()] = node
			if _, isOutput := node.(*OutputVariable); !isOutput {
				b.bound[node.Name()] = node
			}
		} else {
			node.(boundNode).markErrors()
		}
	}

	return b.program, diagnostics
}

// boundNode is implemented by every node type through its embedded node.
type boundNode interface {
	Node

	markErrors()
	setDependencies(deps []string)
}

func (n *node) markErrors()                   { n.errors = true }
func (n *node) setDependencies(deps []string) { n.deps = deps }

func (b *binder) addDependency(name string) {
	if !b.depSet[name] {
		b.depSet[name] = true
		b.deps = append(b.deps, name)
	}
}

func (b *binder) newNode(decl *tree.Declaration, index int) node {
	return node{name: decl.Name, rng: decl.SrcRange, index: index}
}

func (b *binder) bindNode(n tree.Node, index int) (Node, hcl.Diagnostics) {
	b.deps, b.depSet = nil, map[string]bool{}

	var result Node
	var diags hcl.Diagnostics
	switch n := n.(type) {
	case *tree.ConfigRead:
		result, diags = b.bindConfigVariable(n, index)
	case *tree.Variable:
		result, diags = b.bindLocalVariable(n, index)
	case *tree.Resource:
		result, diags = b.bindResource(n)
	case *tree.Invoke:
		result, diags = b.bindInvoke(n, index)
	case *tree.Export:
		result, diags = b.bindOutputVariable(n, index)
	case *tree.Component:
		result, diags = b.bindComponent(n, index)
	default:
		contract.Failf("unexpected node of type %T (%v)", n, n.Range())
	}

	bn := result.(boundNode)
	if diags.HasErrors() {
		bn.markErrors()
	}
	bn.setDependencies(b.deps)
	return result, diags
}

func (b *binder) bindConfigVariable(n *tree.ConfigRead, index int) (*ConfigVariable, hcl.Diagnostics) {
	node := &ConfigVariable{
		node:        b.newNode(&n.Declaration, index),
		Description: n.Description,
		Secret:      n.Secret,
	}

	var diagnostics hcl.Diagnostics
	configType, ok := parseConfigType(n.Type)
	if !ok {
		diagnostics = append(diagnostics, errorf(UnknownType, n.SrcRange, "unknown configuration type %q", n.Type))
		configType = model.DynamicType
	}
	node.ConfigType = configType

	if n.Default != nil {
		value, diags := b.bindExpression(n.Default, &scope{})
		diagnostics = append(diagnostics, diags...)
		value, diags = b.assign(configType, value)
		diagnostics = append(diagnostics, diags...)
		node.DefaultValue = value
		if b.inComponent && len(b.deps) > 0 {
			diagnostics = append(diagnostics, UnsupportedConstructf(n.Default.Range(),
				"the default value of component input %v must not refer to other declarations", n.Name))
		}
	}

	node.typ = configType
	switch {
	case b.inComponent:
		// Component inputs may be outputs of the enclosing program.
		node.typ = model.NewOutputType(configType)
	case n.Secret:
		node.typ = model.NewOutputType(configType)
	case node.DefaultValue != nil && model.IsEventual(node.DefaultValue.Type()):
		node.typ = model.LiftOperationType(configType, node.DefaultValue.Type())
	}
	return node, diagnostics
}

func (b *binder) bindLocalVariable(n *tree.Variable, index int) (*LocalVariable, hcl.Diagnostics) {
	value, diags := b.bindExpression(n.Value, &scope{})
	return &LocalVariable{node: b.newNode(&n.Declaration, index), Value: value}, diags
}

func (b *binder) bindOutputVariable(n *tree.Export, index int) (*OutputVariable, hcl.Diagnostics) {
	value, diags := b.bindExpression(n.Value, &scope{})
	return &OutputVariable{node: b.newNode(&n.Declaration, index), Value: value}, diags
}

func (b *binder) bindInvoke(n *tree.Invoke, index int) (*Invoke, hcl.Diagnostics) {
	node := &Invoke{node: b.newNode(&n.Declaration, index), Token: n.Token}

	var diagnostics hcl.Diagnostics
	var inputs, outputs *model.ObjectType
	member, ok := b.resolver.Lookup(n.Token)
	switch fn, isFunction := member.(*schema.Function); {
	case !ok:
		diagnostics = append(diagnostics, errorf(UnknownType, n.SrcRange, "unknown function %q", n.Token))
	case !isFunction:
		diagnostics = append(diagnostics, errorf(UnknownType, n.SrcRange, "%q is a resource, not a function",
			n.Token))
	default:
		node.Schema = fn
		inputs = b.objectType(fn.Inputs, fn)
		outputs = b.objectType(fn.Outputs, fn)
	}

	for _, arg := range n.Args {
		value, diags := b.bindExpression(arg.Value, &scope{})
		diagnostics = append(diagnostics, diags...)

		property := &Property{Name: arg.Name, Value: value, Range: arg.SrcRange}
		if node.Schema != nil {
			var sp *schema.Property
			if node.Schema.Inputs != nil {
				sp, _ = node.Schema.Inputs.Property(arg.Name)
			}
			if sp == nil {
				diagnostics = append(diagnostics, errorf(UnknownProperty, arg.SrcRange,
					"unknown argument %q for function %v", arg.Name, n.Token))
			} else {
				property.Schema = sp
				property.Value, diags = b.assign(inputs.Properties[arg.Name], value)
				diagnostics = append(diagnostics, diags...)
			}
		}
		node.Args = append(node.Args, property)
	}

	var result model.Type = model.DynamicType
	if outputs != nil {
		result = outputs
	}
	if len(node.Args) > 0 {
		node.ResultType = model.NewOutputType(result)
	} else {
		node.ResultType = model.NewPromiseType(result)
	}
	return node, diagnostics
}
