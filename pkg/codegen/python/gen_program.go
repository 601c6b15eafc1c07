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

package python

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/model"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/model/format"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/pcl"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/schema"
	"github.com/pulumi/pulumi/sdk/v3/go/common/util/contract"
	"github.com/pulumi/pulumi/sdk/v3/go/common/util/logging"
)

// rangeVariable is the loop variable of replicated resources. It does not shadow the range builtin.
const rangeVariable = "range_"

type generator struct {
	// The formatter to use when generating code.
	*format.Formatter

	program *pcl.LoweredProgram
	names   *codegen.NameTable
	// params maps the continuation parameters in scope to the code that reads them.
	params map[*model.Variable]string
	// inlined maps the parameters that stand for awaited invoke results to the invoke expressions themselves.
	inlined  map[*model.Variable]model.Expression
	packages map[string]*pythonPackage
	// component is set when generating the class of a component type.
	component *pcl.ComponentDefinition

	configCreated bool
	// inLoop is set while generating the body of a resource loop.
	inLoop bool
}

type pythonPackage struct {
	alias  string
	module string
}

// GenerateProgram generates a __main__.py for a lowered program, plus one module per component type.
func GenerateProgram(program *pcl.LoweredProgram) (map[string][]byte, hcl.Diagnostics, error) {
	g, err := newGenerator(program, nil)
	if err != nil {
		return nil, nil, err
	}

	var main bytes.Buffer
	g.genPreamble(&main)
	for _, n := range program.Nodes {
		g.genNode(&main, n)
	}
	files := map[string][]byte{"__main__.py": main.Bytes()}

	for _, c := range program.Components {
		cg, err := newGenerator(c.Body, c.Definition)
		if err != nil {
			return nil, nil, err
		}
		var module bytes.Buffer
		cg.genComponentClass(&module)
		files[PyName(c.Definition.Type)+".py"] = module.Bytes()
	}

	logging.V(7).Infof("generated __main__.py for %d declarations and %d components", len(program.Nodes),
		len(program.Components))
	return files, nil, nil
}

func newGenerator(program *pcl.LoweredProgram, component *pcl.ComponentDefinition) (*generator, error) {
	g := &generator{
		program:   program,
		params:    map[*model.Variable]string{},
		inlined:   map[*model.Variable]model.Expression{},
		packages:  map[string]*pythonPackage{},
		component: component,
	}
	g.Formatter = format.NewFormatter(g)

	if err := g.collectPackages(); err != nil {
		return nil, err
	}
	g.assignNames()
	return g, nil
}

func (g *generator) collectPackages() error {
	for _, n := range g.program.Nodes {
		var pkg *schema.Package
		switch n := n.(type) {
		case *pcl.Resource:
			contract.Assertf(n.Schema != nil, "resource %v has no schema", n.Name())
			pkg = n.Schema.Package
		case *pcl.Invoke:
			contract.Assertf(n.Schema != nil, "invoke %v has no schema", n.Name())
			pkg = n.Schema.Package
		default:
			continue
		}
		if _, ok := g.packages[pkg.Name]; ok {
			continue
		}
		info, err := lookupPackageInfo(pkg)
		if err != nil {
			return err
		}
		g.packages[pkg.Name] = &pythonPackage{alias: makeValidIdentifier(pkg.Name), module: info.PackageName}
	}
	return nil
}

func (g *generator) assignNames() {
	reserved := Builtins.Union(codegen.NewStringSet("pulumi", "config", "json", "range_body", rangeVariable))
	for _, p := range g.packages {
		reserved.Add(p.alias)
	}
	for _, c := range g.program.Components {
		reserved.Add(c.Definition.Type)
	}
	if g.component != nil {
		reserved = reserved.Union(codegen.NewStringSet("self", "name", "args", "opts", "Optional", "TypedDict",
			g.component.Type, g.component.Type+"Args"))
	}
	g.names = codegen.NewNameTable(PyName, reserved)
	for _, n := range g.program.Source.Nodes {
		g.names.Assign(n.Name())
	}
}

func (g *generator) variableName(name string) string {
	ident, ok := g.names.Lookup(name)
	contract.Assertf(ok, "no identifier for %v", name)
	return ident
}

func (g *generator) genPreamble(w io.Writer) {
	// Print the pulumi import at the top.
	g.Fprint(w, "import pulumi\n")

	var imports []string
	for _, p := range g.packages {
		imports = append(imports, fmt.Sprintf("import %s as %s", p.module, p.alias))
	}
	for _, n := range g.program.Nodes {
		if pcl.Calls(n, pcl.ToJSON) {
			imports = append(imports, "import json")
			break
		}
	}
	for _, c := range g.program.Components {
		imports = append(imports, fmt.Sprintf("from %s import %s", PyName(c.Definition.Type), c.Definition.Type))
	}
	if g.component != nil {
		imports = append(imports, "from typing import Optional, TypedDict")
	}

	// Now sort the imports and emit them.
	sort.Strings(imports)
	for _, i := range imports {
		g.Fprintf(w, "%s\n", i)
	}
	g.Fprint(w, "\n")
}

func (g *generator) genNode(w io.Writer, n pcl.Node) {
	switch n := n.(type) {
	case *pcl.ConfigVariable:
		if g.component != nil {
			g.genComponentInput(w, n)
			return
		}
		g.genConfigVariable(w, n)
	case *pcl.LocalVariable:
		g.Fgenf(w, "%s%s = %v\n", g.Indent, g.variableName(n.Name()), n.Value)
	case *pcl.Invoke:
		g.genInvoke(w, n)
	case *pcl.Resource:
		g.genResource(w, n)
	case *pcl.Component:
		g.genComponent(w, n)
	case *pcl.OutputVariable:
		if g.component != nil {
			g.Fgenf(w, "%sself.%s = %v\n", g.Indent, PyName(n.Name()), n.Value)
			return
		}
		g.Fgenf(w, "%spulumi.export(\"%s\", %v)\n", g.Indent, escapeString(n.Name()), n.Value)
	}
}

func (g *generator) genConfigVariable(w io.Writer, v *pcl.ConfigVariable) {
	if !g.configCreated {
		g.Fprintf(w, "%sconfig = pulumi.Config()\n", g.Indent)
		g.configCreated = true
	}

	getType := "_object"
	switch v.ConfigType {
	case model.StringType:
		getType = ""
	case model.NumberType:
		getType = "_float"
	case model.IntType:
		getType = "_int"
	case model.BoolType:
		getType = "_bool"
	}

	getOrRequire := "get"
	if v.DefaultValue == nil {
		getOrRequire = "require"
	}
	if v.Secret {
		getOrRequire += "_secret"
	}

	if v.Description != "" {
		for _, line := range strings.Split(v.Description, "\n") {
			g.Fgenf(w, "%s# %s\n", g.Indent, line)
		}
	}
	name := g.variableName(v.Name())
	g.Fgenf(w, "%s%s = config.%s%s(\"%s\")\n", g.Indent, name, getOrRequire, getType, escapeString(v.Name()))
	if v.DefaultValue != nil {
		g.Fgenf(w, "%sif %s is None:\n", g.Indent, name)
		g.Indented(func() {
			if v.Secret {
				g.Fgenf(w, "%s%s = pulumi.Output.secret(%v)\n", g.Indent, name, v.DefaultValue)
			} else {
				g.Fgenf(w, "%s%s = %v\n", g.Indent, name, v.DefaultValue)
			}
		})
	}
}

// qualifiedName returns the module path of a package member.
func (g *generator) qualifiedName(pkg *schema.Package, token, member string) string {
	p, ok := g.packages[pkg.Name]
	contract.Assertf(ok, "package %v was not imported", pkg.Name)
	if module := pkg.TokenToModule(token); module != "" {
		return fmt.Sprintf("%s.%s.%s", p.alias, makeValidIdentifier(module), member)
	}
	return fmt.Sprintf("%s.%s", p.alias, member)
}

func (g *generator) resourceTypeName(r *pcl.Resource) string {
	if r.Schema.IsProvider {
		return g.packages[r.Schema.Package.Name].alias + ".Provider"
	}
	_, _, member, err := schema.DecomposeToken(r.Token)
	contract.AssertNoErrorf(err, "invalid resource token %q", r.Token)
	return g.qualifiedName(r.Schema.Package, r.Token, codegen.Title(member))
}

func (g *generator) functionName(i *pcl.Invoke) string {
	_, _, member, err := schema.DecomposeToken(i.Token)
	contract.AssertNoErrorf(err, "invalid function token %q", i.Token)
	name := g.qualifiedName(i.Schema.Package, i.Token, PyName(member))
	if i.OutputForm() {
		name += "_output"
	}
	return name
}

func (g *generator) genInvoke(w io.Writer, i *pcl.Invoke) {
	g.Fprintf(w, "%s%s = %s(", g.Indent, g.variableName(i.Name()), g.functionName(i))
	switch len(i.Args) {
	case 0:
	case 1:
		g.Fgenf(w, "%s=%v", PyName(i.Args[0].Name), i.Args[0].Value)
	default:
		g.Indented(func() {
			for n, arg := range i.Args {
				if n > 0 {
					g.Fprint(w, ",")
				}
				g.Fgenf(w, "\n%s%s=%v", g.Indent, PyName(arg.Name), arg.Value)
			}
		})
	}
	g.Fprint(w, ")\n")
}

// genResourceOptions generates the opts argument of a constructor, if any option is set. Resources declared in a
// component default to the component as their parent.
func (g *generator) genResourceOptions(w io.Writer, opts *pcl.ResourceOptions, hasInputs bool) {
	type option struct {
		name  string
		value interface{}
	}
	var set []option
	if g.component != nil && (opts == nil || opts.Parent == nil) {
		set = append(set, option{"parent", "self"})
	}
	if opts != nil {
		for _, o := range []struct {
			name  string
			value model.Expression
		}{
			{"parent", opts.Parent},
			{"provider", opts.Provider},
			{"depends_on", opts.DependsOn},
			{"protect", opts.Protect},
		} {
			if o.value != nil {
				set = append(set, option{o.name, o.value})
			}
		}
	}
	if len(set) == 0 {
		return
	}

	prefix := " "
	if hasInputs {
		prefix = "\n" + g.Indent
	}
	g.Fprintf(w, ",%sopts = pulumi.ResourceOptions(", prefix)
	g.Indented(func() {
		for i, o := range set {
			if i > 0 {
				g.Fprintf(w, ",\n%s", g.Indent)
			}
			g.Fgenf(w, "%s=%v", o.name, o.value)
		}
	})
	g.Fprint(w, ")")
}

// genInstance generates the construction of a single resource instance.
func (g *generator) genInstance(w io.Writer, r *pcl.Resource, resName string) {
	g.Fgenf(w, "%s(%s", g.resourceTypeName(r), resName)
	indenter := func(f func()) { f() }
	if len(r.Inputs) > 1 {
		indenter = g.Indented
	}
	indenter(func() {
		for _, attr := range r.Inputs {
			propertyName := PyName(attr.Name)
			if len(r.Inputs) == 1 {
				g.Fgenf(w, ", %s=%v", propertyName, attr.Value)
			} else {
				g.Fgenf(w, ",\n%s%s=%v", g.Indent, propertyName, attr.Value)
			}
		}
		g.genResourceOptions(w, r.Options, len(r.Inputs) != 0)
	})
	g.Fprint(w, ")")
}

func (g *generator) genResource(w io.Writer, r *pcl.Resource) {
	nameVar := g.variableName(r.Name())
	if r.Loop == nil {
		g.Fgenf(w, "%s%s = ", g.Indent, nameVar)
		g.genInstance(w, r, g.resourceName(r.LogicalName, false))
		g.Fprint(w, "\n")
		return
	}

	g.Fgenf(w, "%s%s = []\n", g.Indent, nameVar)
	resName := g.resourceName(r.LogicalName, true)
	genLoop := func(source model.Expression) {
		g.Fprintf(w, "%sfor %s in ", g.Indent, rangeVariable)
		g.genLoopEntries(w, r.Loop, source)
		g.Fprint(w, ":\n")
		g.Indented(func() {
			g.inLoop = true
			defer func() { g.inLoop = false }()
			g.Fgenf(w, "%s%s.append(", g.Indent, nameVar)
			g.genInstance(w, r, resName)
			g.Fprint(w, ")\n")
		})
	}

	if !r.Loop.Lifted {
		genLoop(r.Loop.Source)
		return
	}

	// Generate a local definition which actually creates the resources once the collection resolves.
	localFuncName := g.names.Fresh("create" + codegen.Title(r.Name()))
	rangeBody := &model.Variable{Name: "range_body", VariableType: model.ResolveOutputs(r.Loop.Source.Type())}
	g.params[rangeBody] = "range_body"
	g.Fgenf(w, "%sdef %s(range_body):\n", g.Indent, localFuncName)
	g.Indented(func() {
		genLoop(&model.ReferenceExpression{
			SrcRange:      r.Loop.Source.Range(),
			Name:          rangeBody.Name,
			Parameter:     rangeBody,
			ReferenceType: rangeBody.VariableType,
		})
	})
	g.Fprint(w, "\n")

	args, params, body := pcl.LiftParts(r.Loop.Source, "range_body")
	ref, isRef := body.(*model.ReferenceExpression)
	if isRef && len(params) == 1 && ref.Parameter == params[0] && model.ContainsOutputs(args[0].Type()) {
		g.Fprint(w, g.Indent)
		g.genOperand(w, args[0])
		g.Fprintf(w, ".apply(%s)\n", localFuncName)
		return
	}
	g.Fprint(w, g.Indent)
	g.genApply(w, args, params, func() {
		g.Fgenf(w, "%s(%v)", localFuncName, body)
	})
	g.Fprint(w, "\n")
}

// genLoopEntries generates a list of {"key": k, "value": v} dictionaries to iterate over.
func (g *generator) genLoopEntries(w io.Writer, loop *pcl.LoweredIteration, source model.Expression) {
	switch loop.Kind {
	case pcl.CountedLoop:
		g.Fprintf(w, "[{\"key\": i, \"value\": i} for i in range(%d)]", loop.Count)
	case pcl.ListLoop:
		g.Fgenf(w, "[{\"key\": k, \"value\": v} for [k, v] in enumerate(%v)]", source)
	default:
		g.Fprint(w, "[{\"key\": k, \"value\": v} for [k, v] in ")
		g.genOperand(w, source)
		g.Fprint(w, ".items()]")
	}
}

// resourceName returns the logical name expression of a resource. Resources declared in a component are named after
// the component instance.
func (g *generator) resourceName(logicalName string, looped bool) string {
	switch {
	case g.component != nil && looped:
		return fmt.Sprintf("f\"{name}-%s-{%s['key']}\"", escapeFString(logicalName), rangeVariable)
	case g.component != nil:
		return fmt.Sprintf("f\"{name}-%s\"", escapeFString(logicalName))
	case looped:
		return fmt.Sprintf("f\"%s-{%s['key']}\"", escapeFString(logicalName), rangeVariable)
	default:
		return fmt.Sprintf("\"%s\"", escapeString(logicalName))
	}
}

func (g *generator) genComponent(w io.Writer, c *pcl.Component) {
	g.Fgenf(w, "%s%s = %s(\"%s\", {", g.Indent, g.variableName(c.Name()), c.Definition.Type,
		escapeString(c.LogicalName))
	g.Indented(func() {
		for i, in := range c.Inputs {
			if i > 0 {
				g.Fprint(w, ",")
			}
			g.Fgenf(w, "\n%s\"%s\": %v", g.Indent, PyName(in.Name), in.Value)
		}
	})
	if len(c.Inputs) > 0 {
		g.Fprintf(w, "\n%s", g.Indent)
	}
	g.Fprint(w, "}")
	g.genResourceOptions(w, c.Options, false)
	g.Fprint(w, ")\n")
}

// genComponentClass generates the module of a component type: a TypedDict for its arguments and a class that
// creates the body's resources in its initializer.
func (g *generator) genComponentClass(w io.Writer) {
	def := g.component
	g.genPreamble(w)
	g.Fprint(w, "\n")

	g.Fprintf(w, "class %sArgs(TypedDict):\n", def.Type)
	g.Indented(func() {
		if len(def.Inputs) == 0 {
			g.Fprintf(w, "%spass\n", g.Indent)
		}
		for _, in := range def.Inputs {
			g.Fprintf(w, "%s%s: pulumi.Input[%s]\n", g.Indent, PyName(in.Name()), typeName(in.ConfigType))
			if in.Description != "" {
				g.Fprintf(w, "%s\"\"\"%s\"\"\"\n", g.Indent, strings.ReplaceAll(in.Description, "\"", "\\\""))
			}
		}
	})
	g.Fprint(w, "\n\n")

	g.Fprintf(w, "class %s(pulumi.ComponentResource):\n", def.Type)
	g.Indented(func() {
		g.Fprintf(w, "%sdef __init__(self, name: str, args: %sArgs, opts: Optional[pulumi.ResourceOptions] = None):\n",
			g.Indent, def.Type)
		g.Indented(func() {
			g.Fprintf(w, "%ssuper().__init__(\"%s\", name, args, opts)\n\n", g.Indent, def.Token)
			for _, n := range g.program.Nodes {
				g.genNode(w, n)
			}

			g.Fprintf(w, "%sself.register_outputs({", g.Indent)
			g.Indented(func() {
				for i, out := range def.Outputs {
					if i > 0 {
						g.Fprint(w, ",")
					}
					g.Fprintf(w, "\n%s\"%s\": self.%s", g.Indent, escapeString(out.Name()), PyName(out.Name()))
				}
			})
			if len(def.Outputs) > 0 {
				g.Fprintf(w, "\n%s", g.Indent)
			}
			g.Fprint(w, "})\n")
		})
	})
}

// genComponentInput binds an input of a component to a local output.
func (g *generator) genComponentInput(w io.Writer, v *pcl.ConfigVariable) {
	wrap := "pulumi.Output.from_input"
	if v.Secret {
		wrap = "pulumi.Output.secret"
	}
	g.Fprintf(w, "%s%s = %s(args[\"%s\"])\n", g.Indent, g.variableName(v.Name()), wrap, PyName(v.Name()))
}

// typeName returns the annotation of a plain value.
func typeName(t model.Type) string {
	switch t := t.(type) {
	case *model.ListType:
		return fmt.Sprintf("list[%s]", typeName(t.ElementType))
	case *model.MapType:
		return fmt.Sprintf("dict[str, %s]", typeName(t.ElementType))
	}

	switch t {
	case model.StringType:
		return "str"
	case model.IntType:
		return "int"
	case model.NumberType:
		return "float"
	case model.BoolType:
		return "bool"
	default:
		return "object"
	}
}
