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
)

// Node represents a single top-level declaration in a bound program.
type Node interface {
	// Name returns the declared name of the node.
	Name() string
	// Range returns the source range of the declaration.
	Range() hcl.Range
	// Type returns the type of the value the node declares.
	Type() model.Type
	// Dependencies returns the names of the declarations the node refers to, in order of first reference.
	Dependencies() []string
	// HasErrors returns true if binding the node produced error diagnostics.
	HasErrors() bool

	documentIndex() int
}

type node struct {
	name   string
	rng    hcl.Range
	index  int
	deps   []string
	errors bool
}

func (n *node) Name() string           { return n.name }
func (n *node) Range() hcl.Range       { return n.rng }
func (n *node) Dependencies() []string { return n.deps }
func (n *node) HasErrors() bool        { return n.errors }
func (n *node) documentIndex() int     { return n.index }

// ConfigVariable represents a value read from stack configuration.
type ConfigVariable struct {
	node

	// ConfigType is the declared type of the configuration value.
	ConfigType model.Type
	// DefaultValue is used when the value is not configured. It may be nil.
	DefaultValue model.Expression
	Description  string
	// Secret is true if the value must be read as a secret.
	Secret bool

	typ model.Type
}

// Type returns the type of the variable. Secret configuration is always an output.
func (c *ConfigVariable) Type() model.Type { return c.typ }

// LocalVariable binds a name to a value.
type LocalVariable struct {
	node

	Value model.Expression
}

func (v *LocalVariable) Type() model.Type { return v.Value.Type() }

// OutputVariable represents a stack output.
type OutputVariable struct {
	node

	Value model.Expression
}

func (v *OutputVariable) Type() model.Type { return v.Value.Type() }

// Property is a single named input of a resource or argument of an invoke.
type Property struct {
	Name  string
	Value model.Expression
	Range hcl.Range

	// Schema is the schema definition of the property. It is nil if the owning token is unknown.
	Schema *schema.Property
}

// ResourceOptions holds the options of a resource. Each field is nil if the option is not set.
type ResourceOptions struct {
	Parent    model.Expression
	Provider  model.Expression
	DependsOn model.Expression
	Protect   model.Expression
}

// Iteration describes how a resource is replicated.
type Iteration interface {
	Range() hcl.Range

	isIteration()
}

// CountedIteration replicates a resource a fixed number of times. The key and value of each instance are its index.
type CountedIteration struct {
	SrcRange hcl.Range
	Count    int
}

func (i *CountedIteration) Range() hcl.Range { return i.SrcRange }

// EnumeratedIteration replicates a resource once per element of a list or entry of a map.
type EnumeratedIteration struct {
	Source model.Expression

	// KeyType is int for lists and string for maps.
	KeyType   model.Type
	ValueType model.Type
}

func (i *EnumeratedIteration) Range() hcl.Range { return i.Source.Range() }

func (*CountedIteration) isIteration()    {}
func (*EnumeratedIteration) isIteration() {}

// Resource represents a resource instantiation.
type Resource struct {
	node

	// The name visible to the engine. Defaults to the declared name.
	LogicalName string
	Token       string

	// Schema is the schema definition for this resource. It is nil if the token is unknown.
	Schema *schema.Resource
	// The type of the resource's inputs. This is nil if the token is unknown.
	InputType *model.ObjectType
	// The type of a single instance of the resource. Every property is an output.
	OutputType model.Type
	// The type of the resource variable: OutputType, or a list of OutputType when the resource is iterated.
	VariableType model.Type

	// The resource's inputs, in source order.
	Inputs []*Property
	// Iteration is nil for single resources.
	Iteration Iteration
	Options   *ResourceOptions

	// Loop is the lowered form of Iteration. It is only set on the nodes of a lowered program.
	Loop *LoweredIteration
}

func (r *Resource) Type() model.Type { return r.VariableType }

// Invoke represents a call to a provider function.
type Invoke struct {
	node

	Token string
	// Schema is the schema definition for this function. It is nil if the token is unknown.
	Schema *schema.Function
	// The invoke's arguments, in source order.
	Args []*Property

	// ResultType is output(T) when the invoke has arguments and promise(T) otherwise.
	ResultType model.Type
}

func (i *Invoke) Type() model.Type { return i.ResultType }

// OutputForm returns true if the invoke takes arguments and is therefore projected as an output-returning call.
func (i *Invoke) OutputForm() bool {
	return model.ContainsOutputs(i.ResultType)
}

// ComponentDefinition is the bound body of a component type. Every instance of the type shares its definition.
type ComponentDefinition struct {
	// Type is the name of the component type.
	Type string
	// Token is the type token registered with the engine.
	Token string
	// Body is the bound body. Its declarations cannot refer to the enclosing program.
	Body *Program
	// Inputs are the body's configuration variables in document order.
	Inputs []*ConfigVariable
	// Outputs are the body's stack outputs in document order.
	Outputs []*OutputVariable
	// OutputType is the type of an instance: one output property per body output.
	OutputType *model.ObjectType

	units []*Unit
}

// Input returns the input with the given name, if any.
func (d *ComponentDefinition) Input(name string) (*ConfigVariable, bool) {
	for _, in := range d.Inputs {
		if in.Name() == name {
			return in, true
		}
	}
	return nil, false
}

// Component represents an instance of a component type.
type Component struct {
	node

	// The name visible to the engine. Defaults to the declared name.
	LogicalName string
	// Definition is nil if the component type could not be resolved.
	Definition *ComponentDefinition
	// Inputs holds one value per definition input, in definition order. Omitted inputs take their default.
	Inputs  []*Property
	Options *ResourceOptions

	VariableType model.Type
}

func (c *Component) Type() model.Type { return c.VariableType }

// Program represents a bound program.
type Program struct {
	// Nodes are the program's declarations in document order.
	Nodes []Node

	byName map[string]Node
}

// Node returns the declaration with the given name, if any.
func (p *Program) Node(name string) (Node, bool) {
	n, ok := p.byName[name]
	return n, ok
}

// Resources returns the program's resources in document order.
func (p *Program) Resources() []*Resource {
	var resources []*Resource
	for _, n := range p.Nodes {
		if r, ok := n.(*Resource); ok {
			resources = append(resources, r)
		}
	}
	return resources
}

// Components returns the program's component instances in document order.
func (p *Program) Components() []*Component {
	var components []*Component
	for _, n := range p.Nodes {
		if c, ok := n.(*Component); ok {
			components = append(components, c)
		}
	}
	return components
}

// Expressions returns the top-level expressions of a node: values, inputs, arguments, options and the iteration
// source of a resource, in that order. Unset options are omitted.
func Expressions(n Node) []model.Expression {
	var exprs []model.Expression
	add := func(xs ...model.Expression) {
		for _, x := range xs {
			if x != nil {
				exprs = append(exprs, x)
			}
		}
	}
	switch n := n.(type) {
	case *ConfigVariable:
		add(n.DefaultValue)
	case *LocalVariable:
		add(n.Value)
	case *OutputVariable:
		add(n.Value)
	case *Invoke:
		for _, p := range n.Args {
			add(p.Value)
		}
	case *Component:
		for _, p := range n.Inputs {
			add(p.Value)
		}
		if n.Options != nil {
			add(n.Options.Parent, n.Options.Provider, n.Options.DependsOn, n.Options.Protect)
		}
	case *Resource:
		for _, p := range n.Inputs {
			add(p.Value)
		}
		if n.Options != nil {
			add(n.Options.Parent, n.Options.Provider, n.Options.DependsOn, n.Options.Protect)
		}
		if n.Loop != nil {
			add(n.Loop.Source)
		} else if it, ok := n.Iteration.(*EnumeratedIteration); ok {
			add(it.Source)
		}
	}
	return exprs
}

// Calls returns true if any expression of the node calls the named builtin.
func Calls(n Node, function string) bool {
	found := false
	for _, x := range Expressions(n) {
		model.Walk(x, func(e model.Expression) bool {
			if call, ok := e.(*model.FunctionCallExpression); ok && call.Name == function {
				found = true
			}
			return !found
		})
	}
	return found
}
