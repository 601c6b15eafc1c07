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
)

// IterationKind is the shape of a lowered resource loop.
type IterationKind int

const (
	// CountedLoop runs a fixed number of times. Keys and values are the indices.
	CountedLoop IterationKind = iota
	// ListLoop runs once per list element, keyed by index.
	ListLoop
	// MapLoop runs once per map entry, keyed by the entry's key.
	MapLoop
)

func (k IterationKind) String() string {
	switch k {
	case CountedLoop:
		return "count"
	case ListLoop:
		return "list"
	default:
		return "map"
	}
}

// LoweredIteration describes a resource loop in the uniform (key, value) shape that every emitter renders.
type LoweredIteration struct {
	Kind IterationKind
	// Count is the number of iterations of a CountedLoop.
	Count int
	// Source is the lowered collection of a ListLoop or MapLoop.
	Source model.Expression

	KeyType   model.Type
	ValueType model.Type

	// Lifted is true if the source is eventual, in which case the loop runs once the source resolves.
	Lifted bool
}

// LowerIteration lowers a bound iteration.
func LowerIteration(it Iteration) (*LoweredIteration, hcl.Diagnostics) {
	switch it := it.(type) {
	case nil:
		return nil, nil
	case *CountedIteration:
		return &LoweredIteration{
			Kind:      CountedLoop,
			Count:     it.Count,
			KeyType:   model.IntType,
			ValueType: model.IntType,
		}, nil
	case *EnumeratedIteration:
		source, diags := Lower(it.Source)
		kind := MapLoop
		if it.KeyType == model.IntType {
			kind = ListLoop
		}
		return &LoweredIteration{
			Kind:      kind,
			Source:    source,
			KeyType:   it.KeyType,
			ValueType: it.ValueType,
			Lifted:    model.IsEventual(source.Type()),
		}, diags
	default:
		return nil, nil
	}
}

// LoweredProgram is a bound program whose declarations are in schedule order and whose expressions are lowered.
type LoweredProgram struct {
	// Source is the bound program. Its nodes are in document order.
	Source *Program
	// Nodes are lowered copies of the source nodes in schedule order.
	Nodes []Node
	// Components holds the lowered definitions of the program's component types in order of first use.
	Components []*LoweredComponent
}

// LoweredComponent is a component definition whose body is lowered.
type LoweredComponent struct {
	Definition *ComponentDefinition
	Body       *LoweredProgram
}

// Component returns the lowered form of a component definition.
func (p *LoweredProgram) Component(def *ComponentDefinition) (*LoweredComponent, bool) {
	for _, c := range p.Components {
		if c.Definition == def {
			return c, true
		}
	}
	return nil, false
}

// LowerProgram lowers the declarations of a program in the given schedule. The nodes of the bound program are not
// modified.
func LowerProgram(p *Program, units []*Unit) (*LoweredProgram, hcl.Diagnostics) {
	var diagnostics hcl.Diagnostics
	lower := func(x model.Expression) model.Expression {
		lowered, diags := Lower(x)
		diagnostics = append(diagnostics, diags...)
		return lowered
	}
	lowerOptions := func(opts *ResourceOptions) *ResourceOptions {
		if opts == nil {
			return nil
		}
		return &ResourceOptions{
			Parent:    lower(opts.Parent),
			Provider:  lower(opts.Provider),
			DependsOn: lower(opts.DependsOn),
			Protect:   lower(opts.Protect),
		}
	}
	lowerProperties := func(props []*Property) []*Property {
		lowered := make([]*Property, len(props))
		for i, p := range props {
			c := *p
			c.Value = lower(p.Value)
			lowered[i] = &c
		}
		return lowered
	}

	result := &LoweredProgram{Source: p, Nodes: make([]Node, 0, len(units))}
	for _, u := range units {
		var lowered Node
		switch n := u.Node.(type) {
		case *ConfigVariable:
			c := *n
			c.DefaultValue = lower(n.DefaultValue)
			lowered = &c
		case *LocalVariable:
			c := *n
			c.Value = lower(n.Value)
			lowered = &c
		case *OutputVariable:
			c := *n
			c.Value = lower(n.Value)
			lowered = &c
		case *Invoke:
			c := *n
			c.Args = lowerProperties(n.Args)
			lowered = &c
		case *Resource:
			c := *n
			c.Inputs = lowerProperties(n.Inputs)
			c.Options = lowerOptions(n.Options)
			loop, diags := LowerIteration(n.Iteration)
			diagnostics = append(diagnostics, diags...)
			c.Loop = loop
			lowered = &c
		case *Component:
			c := *n
			c.Inputs = lowerProperties(n.Inputs)
			c.Options = lowerOptions(n.Options)
			if def := n.Definition; def != nil {
				if _, ok := result.Component(def); !ok {
					body, diags := LowerProgram(def.Body, def.units)
					diagnostics = append(diagnostics, diags...)
					result.Components = append(result.Components, &LoweredComponent{Definition: def, Body: body})
				}
			}
			lowered = &c
		default:
			lowered = n
		}
		result.Nodes = append(result.Nodes, lowered)
	}
	return result, diagnostics
}
