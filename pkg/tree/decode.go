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

package tree

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// DecodeFile reads and decodes the serialized program tree at the given path.
func DecodeFile(path string) (*Program, hcl.Diagnostics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "reading program tree %v", path)
	}
	program, diags := Decode(path, data)
	return program, diags, nil
}

// Decode decodes a serialized program tree. The document is YAML (or JSON, which is a subset) of the form
//
//	nodes:
//	  - config: resourceGroupName
//	    type: string
//	  - resource: storage
//	    token: azure-native:storage:StorageAccount
//	    properties:
//	      resourceGroupName: {$ref: resourceGroupName}
//
// Scalars are literals, sequences are arrays and mappings are objects, unless a mapping has a single key
// that starts with '$', in which case it is one of $ref, $get, $index, $call, $if, $range or $template.
func Decode(filename string, data []byte) (*Program, hcl.Diagnostics) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "malformed program tree",
			Detail:   err.Error(),
			Subject:  &hcl.Range{Filename: filename},
		}}
	}

	d := &decoder{filename: filename}
	program := &Program{}
	if len(doc.Content) == 0 {
		return program, nil
	}

	root := resolveAlias(doc.Content[0])
	nodes := root
	if root.Kind == yaml.MappingNode {
		nodes = nil
		d.eachField(root, func(key string, keyNode, value *yaml.Node) {
			if key != "nodes" {
				d.errorf(keyNode, "unknown field %q", key)
				return
			}
			nodes = value
		})
	}
	if nodes == nil {
		return program, d.diags
	}
	if nodes.Kind != yaml.SequenceNode {
		d.errorf(nodes, "expected a sequence of declarations")
		return program, d.diags
	}

	program.Nodes = d.nodes(nodes)
	return program, d.diags
}

func (d *decoder) nodes(seq *yaml.Node) []Node {
	var nodes []Node
	for _, n := range seq.Content {
		if node := d.node(resolveAlias(n)); node != nil {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

type decoder struct {
	filename string
	diags    hcl.Diagnostics
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func (d *decoder) rangeOf(n *yaml.Node) hcl.Range {
	start := hcl.Pos{Line: n.Line, Column: n.Column}
	end := start
	if n.Kind == yaml.ScalarNode {
		end.Column += len(n.Value)
	}
	return hcl.Range{Filename: d.filename, Start: start, End: end}
}

func (d *decoder) errorf(n *yaml.Node, format string, args ...interface{}) {
	rng := d.rangeOf(n)
	d.diags = append(d.diags, &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  fmt.Sprintf(format, args...),
		Subject:  &rng,
	})
}

func (d *decoder) eachField(n *yaml.Node, f func(key string, keyNode, value *yaml.Node)) {
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], resolveAlias(n.Content[i+1])
		f(key.Value, key, value)
	}
}

func (d *decoder) scalar(n *yaml.Node) (string, bool) {
	if n.Kind != yaml.ScalarNode {
		d.errorf(n, "expected a scalar")
		return "", false
	}
	return n.Value, true
}

func (d *decoder) bool(n *yaml.Node) bool {
	var b bool
	if err := n.Decode(&b); err != nil {
		d.errorf(n, "expected a boolean")
	}
	return b
}

var nodeKinds = []string{"config", "variable", "resource", "invoke", "export", "component"}

func (d *decoder) node(n *yaml.Node) Node {
	if n.Kind != yaml.MappingNode {
		d.errorf(n, "expected a declaration")
		return nil
	}

	kind, name := "", ""
	var nameNode *yaml.Node
	d.eachField(n, func(key string, keyNode, value *yaml.Node) {
		for _, k := range nodeKinds {
			if key == k {
				if kind != "" {
					d.errorf(keyNode, "declaration is both a %v and a %v", kind, key)
					return
				}
				kind, nameNode = key, value
				name, _ = d.scalar(value)
			}
		}
	})
	if kind == "" {
		d.errorf(n, "declaration must have one of the fields %v", strings.Join(nodeKinds, ", "))
		return nil
	}
	decl := Declaration{Name: name, SrcRange: d.rangeOf(nameNode)}

	switch kind {
	case "config":
		return d.config(decl, n)
	case "variable":
		v := &Variable{Declaration: decl}
		d.eachField(n, func(key string, keyNode, value *yaml.Node) {
			switch key {
			case "variable":
			case "value":
				v.Value = d.expr(value)
			default:
				d.errorf(keyNode, "unknown field %q", key)
			}
		})
		if v.Value == nil {
			d.errorf(nameNode, "variable %v has no value", name)
		}
		return v
	case "resource":
		return d.resource(decl, n)
	case "component":
		return d.component(decl, n)
	case "invoke":
		i := &Invoke{Declaration: decl}
		d.eachField(n, func(key string, keyNode, value *yaml.Node) {
			switch key {
			case "invoke":
			case "token":
				i.Token, _ = d.scalar(value)
			case "args":
				i.Args = d.properties(value)
			default:
				d.errorf(keyNode, "unknown field %q", key)
			}
		})
		return i
	default:
		e := &Export{Declaration: decl}
		d.eachField(n, func(key string, keyNode, value *yaml.Node) {
			switch key {
			case "export":
			case "value":
				e.Value = d.expr(value)
			default:
				d.errorf(keyNode, "unknown field %q", key)
			}
		})
		if e.Value == nil {
			d.errorf(nameNode, "export %v has no value", name)
		}
		return e
	}
}

func (d *decoder) config(decl Declaration, n *yaml.Node) *ConfigRead {
	c := &ConfigRead{Declaration: decl, Type: "string"}
	d.eachField(n, func(key string, keyNode, value *yaml.Node) {
		switch key {
		case "config":
		case "type":
			c.Type, _ = d.scalar(value)
		case "default":
			c.Default = d.expr(value)
		case "description":
			c.Description, _ = d.scalar(value)
		case "secret":
			c.Secret = d.bool(value)
		default:
			d.errorf(keyNode, "unknown field %q", key)
		}
	})
	return c
}

func (d *decoder) resource(decl Declaration, n *yaml.Node) *Resource {
	r := &Resource{Declaration: decl}
	d.eachField(n, func(key string, keyNode, value *yaml.Node) {
		switch key {
		case "resource":
		case "token":
			r.Token, _ = d.scalar(value)
		case "logicalName":
			r.LogicalName, _ = d.scalar(value)
		case "properties":
			r.Inputs = d.properties(value)
		case "range":
			r.Iteration = d.expr(value)
		case "options":
			r.Options = d.options(value)
		default:
			d.errorf(keyNode, "unknown field %q", key)
		}
	})
	return r
}

func (d *decoder) component(decl Declaration, n *yaml.Node) *Component {
	c := &Component{Declaration: decl}
	d.eachField(n, func(key string, keyNode, value *yaml.Node) {
		switch key {
		case "component":
		case "type":
			c.Type, _ = d.scalar(value)
		case "logicalName":
			c.LogicalName, _ = d.scalar(value)
		case "inputs":
			c.Inputs = d.properties(value)
		case "options":
			c.Options = d.options(value)
		case "nodes":
			if value.Kind != yaml.SequenceNode {
				d.errorf(value, "expected a sequence of declarations")
				return
			}
			c.Body = &Program{Nodes: d.nodes(value)}
		default:
			d.errorf(keyNode, "unknown field %q", key)
		}
	})
	return c
}

func (d *decoder) options(n *yaml.Node) *ResourceOptions {
	if n.Kind != yaml.MappingNode {
		d.errorf(n, "expected a mapping of resource options")
		return nil
	}
	opts := &ResourceOptions{}
	d.eachField(n, func(key string, keyNode, value *yaml.Node) {
		switch key {
		case "parent":
			opts.Parent = d.expr(value)
		case "provider":
			opts.Provider = d.expr(value)
		case "dependsOn":
			opts.DependsOn = d.expr(value)
		case "protect":
			opts.Protect = d.expr(value)
		default:
			d.errorf(keyNode, "unknown resource option %q", key)
		}
	})
	return opts
}

func (d *decoder) properties(n *yaml.Node) []*Property {
	if n.Kind != yaml.MappingNode {
		d.errorf(n, "expected a mapping of properties")
		return nil
	}
	var props []*Property
	d.eachField(n, func(key string, keyNode, value *yaml.Node) {
		props = append(props, &Property{Name: key, Value: d.expr(value), SrcRange: d.rangeOf(keyNode)})
	})
	return props
}

func (d *decoder) expr(n *yaml.Node) Expr {
	n = resolveAlias(n)
	rng := d.rangeOf(n)
	switch n.Kind {
	case yaml.ScalarNode:
		return d.literal(n)
	case yaml.SequenceNode:
		items := make([]Expr, len(n.Content))
		for i, item := range n.Content {
			items[i] = d.expr(item)
		}
		return &Array{Items: items, SrcRange: rng}
	case yaml.MappingNode:
		if len(n.Content) == 2 && strings.HasPrefix(n.Content[0].Value, "$") {
			return d.intrinsic(n.Content[0], resolveAlias(n.Content[1]))
		}
		obj := &Object{SrcRange: rng}
		d.eachField(n, func(key string, keyNode, value *yaml.Node) {
			if strings.HasPrefix(key, "$") {
				d.errorf(keyNode, "intrinsic %v must be the only field of its mapping", key)
				return
			}
			obj.Items = append(obj.Items, &ObjectItem{Key: key, Value: d.expr(value)})
		})
		return obj
	default:
		d.errorf(n, "unexpected node")
		return &Literal{Value: cty.NullVal(cty.DynamicPseudoType), SrcRange: rng}
	}
}

func (d *decoder) literal(n *yaml.Node) *Literal {
	rng := d.rangeOf(n)
	switch n.ShortTag() {
	case "!!null":
		return &Literal{Value: cty.NullVal(cty.DynamicPseudoType), SrcRange: rng}
	case "!!bool":
		return &Literal{Value: cty.BoolVal(d.bool(n)), SrcRange: rng}
	case "!!int", "!!float":
		v, err := cty.ParseNumberVal(n.Value)
		if err != nil {
			d.errorf(n, "invalid number %q", n.Value)
			v = cty.NumberIntVal(0)
		}
		return &Literal{Value: v, SrcRange: rng}
	default:
		return &Literal{Value: cty.StringVal(n.Value), SrcRange: rng}
	}
}

// ref decodes a dotted path into a reference followed by property accesses.
func (d *decoder) ref(n *yaml.Node) Expr {
	path, ok := d.scalar(n)
	rng := d.rangeOf(n)
	if !ok || path == "" {
		d.errorf(n, "expected a reference")
		return &Reference{SrcRange: rng}
	}

	parts := strings.Split(path, ".")
	var x Expr = &Reference{Name: parts[0], SrcRange: rng}
	for _, p := range parts[1:] {
		if p == "" {
			d.errorf(n, "invalid reference %q", path)
			break
		}
		x = &PropertyAccess{Operand: x, Property: p, SrcRange: rng}
	}
	return x
}

func (d *decoder) intrinsic(keyNode, n *yaml.Node) Expr {
	rng := d.rangeOf(keyNode)
	switch keyNode.Value {
	case "$ref":
		return d.ref(n)
	case "$get":
		x := &PropertyAccess{SrcRange: rng}
		d.fields(n, map[string]func(*yaml.Node){
			"operand":  func(v *yaml.Node) { x.Operand = d.expr(v) },
			"property": func(v *yaml.Node) { x.Property, _ = d.scalar(v) },
		})
		if x.Operand == nil {
			d.errorf(keyNode, "$get requires an operand")
			x.Operand = &Reference{SrcRange: rng}
		}
		return x
	case "$index":
		x := &Index{SrcRange: rng}
		d.fields(n, map[string]func(*yaml.Node){
			"operand": func(v *yaml.Node) { x.Operand = d.expr(v) },
			"key":     func(v *yaml.Node) { x.Key = d.expr(v) },
		})
		if x.Operand == nil || x.Key == nil {
			d.errorf(keyNode, "$index requires an operand and a key")
			return &Literal{Value: cty.NullVal(cty.DynamicPseudoType), SrcRange: rng}
		}
		return x
	case "$call":
		x := &Call{SrcRange: rng}
		d.fields(n, map[string]func(*yaml.Node){
			"function": func(v *yaml.Node) { x.Function, _ = d.scalar(v) },
			"operand":  func(v *yaml.Node) { x.Operand = d.expr(v) },
			"args": func(v *yaml.Node) {
				if v.Kind != yaml.SequenceNode {
					d.errorf(v, "expected a sequence of arguments")
					return
				}
				for _, a := range v.Content {
					x.Args = append(x.Args, d.expr(a))
				}
			},
		})
		return x
	case "$if":
		x := &Conditional{SrcRange: rng}
		d.fields(n, map[string]func(*yaml.Node){
			"condition": func(v *yaml.Node) { x.Condition = d.expr(v) },
			"then":      func(v *yaml.Node) { x.True = d.expr(v) },
			"else":      func(v *yaml.Node) { x.False = d.expr(v) },
		})
		if x.Condition == nil || x.True == nil || x.False == nil {
			d.errorf(keyNode, "$if requires a condition, a then value and an else value")
			return &Literal{Value: cty.NullVal(cty.DynamicPseudoType), SrcRange: rng}
		}
		return x
	case "$range":
		part, _ := d.scalar(n)
		switch part {
		case "key":
			return &RangeBinding{Part: RangeKey, SrcRange: rng}
		case "value":
			return &RangeBinding{Part: RangeValue, SrcRange: rng}
		}
		d.errorf(n, "$range must be either key or value")
		return &RangeBinding{Part: RangeValue, SrcRange: rng}
	case "$template":
		x := &Template{SrcRange: rng}
		if n.Kind != yaml.SequenceNode {
			d.errorf(n, "expected a sequence of template parts")
			return x
		}
		for _, p := range n.Content {
			x.Parts = append(x.Parts, d.expr(p))
		}
		return x
	default:
		d.errorf(keyNode, "unknown intrinsic %q", keyNode.Value)
		return &Literal{Value: cty.NullVal(cty.DynamicPseudoType), SrcRange: rng}
	}
}

func (d *decoder) fields(n *yaml.Node, handlers map[string]func(*yaml.Node)) {
	if n.Kind != yaml.MappingNode {
		d.errorf(n, "expected a mapping")
		return
	}
	d.eachField(n, func(key string, keyNode, value *yaml.Node) {
		h, ok := handlers[key]
		if !ok {
			d.errorf(keyNode, "unknown field %q", key)
			return
		}
		h(value)
	})
}
