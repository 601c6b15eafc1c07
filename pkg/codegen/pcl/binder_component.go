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
	"regexp"

	"github.com/hashicorp/hcl/v2"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/model"
	"github.com/pulumi/pulumi-converter-arm/pkg/tree"
)

// componentTypeName matches the component type names that every target language accepts as a class name.
var componentTypeName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)

// ComponentToken returns the type token of a component type.
func ComponentToken(typ string) string {
	return "components:index:" + typ
}

func (b *binder) bindComponent(n *tree.Component, index int) (*Component, hcl.Diagnostics) {
	node := &Component{
		node:         b.newNode(&n.Declaration, index),
		LogicalName:  n.LogicalName,
		VariableType: model.DynamicType,
	}
	if node.LogicalName == "" {
		node.LogicalName = n.Name
	}
	if b.inComponent {
		return node, hcl.Diagnostics{UnsupportedConstructf(n.SrcRange,
			"component %v cannot be declared inside another component", n.Name)}
	}

	def, diagnostics := b.componentDefinition(n)
	if def != nil {
		node.Definition = def
		node.VariableType = def.OutputType
	}

	provided := map[string]*Property{}
	for _, input := range n.Inputs {
		value, diags := b.bindExpression(input.Value, &scope{})
		diagnostics = append(diagnostics, diags...)
		if def == nil {
			continue
		}

		in, ok := def.Input(input.Name)
		if !ok {
			diagnostics = append(diagnostics, errorf(UnknownProperty, input.SrcRange,
				"unknown input %q for component %v", input.Name, def.Type))
			continue
		}
		value, diags = b.assign(in.ConfigType, value)
		diagnostics = append(diagnostics, diags...)
		provided[input.Name] = &Property{Name: input.Name, Value: value, Range: input.SrcRange}
	}

	if def != nil {
		for _, in := range def.Inputs {
			switch p, ok := provided[in.Name()]; {
			case ok:
				node.Inputs = append(node.Inputs, p)
			case in.DefaultValue != nil:
				node.Inputs = append(node.Inputs, &Property{Name: in.Name(), Value: in.DefaultValue, Range: n.SrcRange})
			default:
				diagnostics = append(diagnostics, errorf(TypeMismatch, n.SrcRange,
					"component %v requires a value for the input %q", n.Name, in.Name()))
			}
		}
	}

	if n.Options != nil {
		options, diags := b.bindResourceOptions(n.Options)
		diagnostics = append(diagnostics, diags...)
		node.Options = options
	}
	return node, diagnostics
}

// componentDefinition binds the body of a component, or finds the definition of an earlier component of the same
// type if the component has no body.
func (b *binder) componentDefinition(n *tree.Component) (*ComponentDefinition, hcl.Diagnostics) {
	typ := n.Type
	if typ == "" {
		typ = codegen.Title(n.Name)
	}
	if !componentTypeName.MatchString(typ) {
		return nil, hcl.Diagnostics{UnsupportedConstructf(n.SrcRange,
			"component type %q must be a letter followed by letters and digits", typ)}
	}

	existing, defined := b.components[typ]
	switch {
	case n.Body == nil && !defined:
		return nil, hcl.Diagnostics{errorf(UnknownType, n.SrcRange, "unknown component type %q", typ)}
	case n.Body == nil:
		return existing, nil
	case defined:
		return nil, hcl.Diagnostics{errorf(DuplicateDeclaration, n.SrcRange,
			"component type %q is already defined", typ)}
	}

	child := newBinder(b.resolver)
	child.objectTypes, child.components, child.inComponent = b.objectTypes, b.components, true
	body, diagnostics := child.bindProgram(n.Body)
	units, diags := Schedule(body)
	diagnostics = append(diagnostics, diags...)

	def := &ComponentDefinition{Type: typ, Token: ComponentToken(typ), Body: body, units: units}
	outputs := map[string]model.Type{}
	for _, bn := range body.Nodes {
		switch bn := bn.(type) {
		case *ConfigVariable:
			def.Inputs = append(def.Inputs, bn)
		case *OutputVariable:
			def.Outputs = append(def.Outputs, bn)
			outputs[bn.Name()] = model.NewOutputType(model.ResolveOutputs(bn.Type()))
		}
	}
	def.OutputType = model.NewObjectType(outputs, def)
	b.components[typ] = def
	return def, diagnostics
}

// ComponentSchema returns the definition of the component described by a component variable type, if any.
func ComponentSchema(t model.Type) (*ComponentDefinition, bool) {
	if obj, ok := t.(*model.ObjectType); ok {
		return model.GetAnnotation[*ComponentDefinition](obj.Annotations)
	}
	return nil, false
}
