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

// Package tree defines the language-agnostic program tree that a front-end parser produces from a template
// document. The tree is unbound: type tokens are plain strings and expressions carry no types.
package tree

import (
	"github.com/hashicorp/hcl/v2"
)

// Program is an ordered sequence of top-level declarations.
type Program struct {
	// Nodes holds the declarations in document order.
	Nodes []Node
}

// Declaration holds the attributes shared by every top-level node.
type Declaration struct {
	// Name is the scope-local name of the declaration.
	Name string
	// SrcRange is the position of the declaration in its source document.
	SrcRange hcl.Range
}

// Decl returns the declaration itself.
func (d *Declaration) Decl() *Declaration {
	return d
}

// Range returns the source range of the declaration.
func (d *Declaration) Range() hcl.Range {
	return d.SrcRange
}

// Node is a top-level declaration in a program tree.
type Node interface {
	Decl() *Declaration
	Range() hcl.Range

	isNode()
}

// ConfigRead reads a value from the stack configuration.
type ConfigRead struct {
	Declaration

	// Type is the configuration type, e.g. "string", "int", "number", "bool", "list(string)" or "map(int)".
	Type string
	// Default is the value used when the key is absent. A nil default makes the key required.
	Default Expr
	// Description documents the configuration key.
	Description string
	// Secret marks the value as secret.
	Secret bool
}

// Variable binds a name to a local value.
type Variable struct {
	Declaration

	Value Expr
}

// Property is a named input of a resource or an argument of an invoke.
type Property struct {
	Name     string
	Value    Expr
	SrcRange hcl.Range
}

// ResourceOptions holds the metadata attached to a resource declaration.
type ResourceOptions struct {
	Parent    Expr
	Provider  Expr
	DependsOn Expr
	Protect   Expr
}

// Resource declares one resource, or one resource per element of its iteration source.
type Resource struct {
	Declaration

	// Token is the schema type token of the resource.
	Token string
	// LogicalName is the name registered with the engine. It defaults to the declaration name.
	LogicalName string
	// Inputs holds the input properties in document order.
	Inputs []*Property
	// Iteration is either a numeric count or an iterable expression. A nil iteration declares a single
	// resource.
	Iteration Expr
	// Options holds the resource options, if any.
	Options *ResourceOptions
}

// Invoke is a read-only call to a schema-defined function.
type Invoke struct {
	Declaration

	// Token is the schema token of the function.
	Token string
	// Args holds the arguments in document order.
	Args []*Property
}

// Export publishes a value as a stack output.
type Export struct {
	Declaration

	Value Expr
}

// Component instantiates a group of declarations that is deployed as a unit. The body is a program of its own:
// its config reads are the inputs of the component and its exports are the component's outputs.
type Component struct {
	Declaration

	// Type names the component. It defaults to the declaration name with its first letter capitalized.
	Type string
	// LogicalName is the name registered with the engine. It defaults to the declaration name.
	LogicalName string
	// Inputs holds the values passed to the body's config reads, in document order.
	Inputs []*Property
	// Options holds the resource options of the component, if any.
	Options *ResourceOptions
	// Body declares the component. A nil body instantiates a component of the same type declared earlier.
	Body *Program
}

func (*ConfigRead) isNode() {}
func (*Variable) isNode()   {}
func (*Resource) isNode()   {}
func (*Invoke) isNode()     {}
func (*Export) isNode()     {}
func (*Component) isNode()  {}
