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

package nodejs

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

type generator struct {
	// The formatter to use when generating code.
	*format.Formatter

	program *pcl.LoweredProgram
	names   *codegen.NameTable
	// params maps the continuation parameters in scope to their identifiers.
	params   map[*model.Variable]string
	packages map[string]*nodePackage
	// component is set when generating the class of a component type.
	component *pcl.ComponentDefinition

	configCreated bool
}

// nodePackage is an imported package and the namespace it is bound to.
type nodePackage struct {
	alias string
	path  string
}

// GenerateProgram generates an index.ts for a lowered program, plus one module per component type.
func GenerateProgram(program *pcl.LoweredProgram) (map[string][]byte, hcl.Diagnostics, error) {
	g, err := newGenerator(program, nil)
	if err != nil {
		return nil, nil, err
	}

	var index bytes.Buffer
	g.genPreamble(&index)
	for _, n := range program.Nodes {
		g.genNode(&index, n)
	}
	files := map[string][]byte{"index.ts": index.Bytes()}

	for _, c := range program.Components {
		cg, err := newGenerator(c.Body, c.Definition)
		if err != nil {
			return nil, nil, err
		}
		var module bytes.Buffer
		cg.genComponentClass(&module)
		files[componentModule(c.Definition)+".ts"] = module.Bytes()
	}

	logging.V(7).Infof("generated index.ts for %d declarations and %d components", len(program.Nodes),
		len(program.Components))
	return files, nil, nil
}

func newGenerator(program *pcl.LoweredProgram, component *pcl.ComponentDefinition) (*generator, error) {
	g := &generator{
		program:   program,
		params:    map[*model.Variable]string{},
		packages:  map[string]*nodePackage{},
		component: component,
	}
	g.Formatter = format.NewFormatter(g)

	if err := g.collectPackages(); err != nil {
		return nil, err
	}
	g.assignNames()
	return g, nil
}

// componentModule returns the module that holds the class of a component type.
func componentModule(def *pcl.ComponentDefinition) string {
	return codegen.Camel(def.Type)
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
		info, err := lookupNodePackageInfo(pkg)
		if err != nil {
			return err
		}
		g.packages[pkg.Name] = &nodePackage{alias: makeValidIdentifier(pkg.Name), path: info.PackageName}
	}
	return nil
}

// assignNames binds every declaration to an identifier. Names are assigned in document order so that the
// identifiers do not depend on the schedule.
func (g *generator) assignNames() {
	reserved := codegen.NewStringSet("pulumi", "config", "range")
	for _, p := range g.packages {
		reserved.Add(p.alias)
	}
	for _, c := range g.program.Components {
		reserved.Add(c.Definition.Type)
	}
	if g.component != nil {
		reserved = reserved.Union(codegen.NewStringSet("name", "args", "opts", g.component.Type, g.component.Type+"Args"))
	}
	g.names = codegen.NewNameTable(variableName, reserved)
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
	g.Fprint(w, "import * as pulumi from \"@pulumi/pulumi\";\n")

	imports := make([]*nodePackage, 0, len(g.packages))
	for _, p := range g.packages {
		imports = append(imports, p)
	}
	sort.Slice(imports, func(i, j int) bool { return imports[i].path < imports[j].path })
	for _, p := range imports {
		g.Fprintf(w, "import * as %s from \"%s\";\n", p.alias, escape(p.path))
	}
	for _, c := range g.program.Components {
		g.Fprintf(w, "import { %s } from \"./%s\";\n", c.Definition.Type, componentModule(c.Definition))
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
		g.Fgenf(w, "%sconst %s = %v;\n", g.Indent, g.variableName(n.Name()), n.Value)
	case *pcl.Invoke:
		g.genInvoke(w, n)
	case *pcl.Resource:
		g.genResource(w, n)
	case *pcl.Component:
		g.genComponent(w, n)
	case *pcl.OutputVariable:
		if g.component != nil {
			g.genComponentOutput(w, n)
			return
		}
		g.Fgenf(w, "%sexport const %s = %v;\n", g.Indent, g.variableName(n.Name()), n.Value)
	}
}

// typeName returns the TypeScript type of a plain value.
func (g *generator) typeName(t model.Type) string {
	switch t := t.(type) {
	case *model.ListType:
		return g.typeName(t.ElementType) + "[]"
	case *model.MapType:
		return fmt.Sprintf("Record<string, %s>", g.typeName(t.ElementType))
	case *model.OutputType:
		return fmt.Sprintf("pulumi.Output<%s>", g.typeName(t.ElementType))
	case *model.PromiseType:
		return fmt.Sprintf("Promise<%s>", g.typeName(t.ElementType))
	case *model.EnumType:
		return g.typeName(t.ElementType)
	}

	switch t {
	case model.StringType:
		return "string"
	case model.IntType, model.NumberType:
		return "number"
	case model.BoolType:
		return "boolean"
	default:
		return "any"
	}
}

func (g *generator) genConfigVariable(w io.Writer, v *pcl.ConfigVariable) {
	if !g.configCreated {
		g.Fprintf(w, "%sconst config = new pulumi.Config();\n", g.Indent)
		g.configCreated = true
	}
	if v.Description != "" {
		for _, line := range strings.Split(v.Description, "\n") {
			g.Fprintf(w, "%s// %s\n", g.Indent, line)
		}
	}

	getType, fallback := "", "??"
	switch v.ConfigType {
	case model.StringType:
		fallback = "||"
	case model.IntType, model.NumberType:
		getType = "Number"
	case model.BoolType:
		getType = "Boolean"
	default:
		getType = fmt.Sprintf("Object<%s>", g.typeName(v.ConfigType))
	}
	getOrRequire := "require"
	if v.DefaultValue != nil {
		getOrRequire = "get"
	}
	secret := ""
	if v.Secret {
		secret = "Secret"
	}

	name := g.variableName(v.Name())
	read := fmt.Sprintf("config.%s%s%s(\"%s\")", getOrRequire, secret, getType, escape(v.Name()))
	switch {
	case v.DefaultValue == nil:
		g.Fprintf(w, "%sconst %s = %s;\n", g.Indent, name, read)
	case v.Secret:
		g.Fgenf(w, "%sconst %s = %s %s pulumi.secret(%v);\n", g.Indent, name, read, fallback, v.DefaultValue)
	case model.ContainsOutputs(v.DefaultValue.Type()):
		g.Fgenf(w, "%sconst %s = pulumi.output(%s %s %v);\n", g.Indent, name, read, fallback, v.DefaultValue)
	case model.ContainsPromises(v.DefaultValue.Type()):
		g.Fgenf(w, "%sconst %s = Promise.resolve(%s %s %v);\n", g.Indent, name, read, fallback, v.DefaultValue)
	default:
		g.Fgenf(w, "%sconst %s = %s %s %v;\n", g.Indent, name, read, fallback, v.DefaultValue)
	}
}

// qualifiedName returns the namespace path of a package member.
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
	name := g.qualifiedName(i.Schema.Package, i.Token, codegen.Camel(member))
	if i.OutputForm() {
		name += "Output"
	}
	return name
}

// genProperties generates an object literal for a list of named inputs.
func (g *generator) genProperties(w io.Writer, props []*pcl.Property) {
	if len(props) == 0 {
		g.Fprint(w, "{}")
		return
	}
	g.Fprint(w, "{\n")
	g.Indented(func() {
		for _, p := range props {
			g.Fgenf(w, "%s%s: %v,\n", g.Indent, propertyKey(p.Name), p.Value)
		}
	})
	g.Fprintf(w, "%s}", g.Indent)
}

func propertyKey(name string) string {
	if isLegalIdentifier(name) {
		return name
	}
	return fmt.Sprintf("\"%s\"", escape(name))
}

func (g *generator) genInvoke(w io.Writer, i *pcl.Invoke) {
	g.Fprintf(w, "%sconst %s = %s(", g.Indent, g.variableName(i.Name()), g.functionName(i))
	g.genProperties(w, i.Args)
	g.Fprint(w, ");\n")
}

// genResourceOptions generates the options argument of a constructor, if any option is set. Resources declared in a
// component default to the component as their parent.
func (g *generator) genResourceOptions(w io.Writer, opts *pcl.ResourceOptions) {
	type option struct {
		name  string
		value model.Expression
	}
	var set []option
	if opts != nil {
		for _, o := range []option{
			{"parent", opts.Parent},
			{"provider", opts.Provider},
			{"dependsOn", opts.DependsOn},
			{"protect", opts.Protect},
		} {
			if o.value != nil {
				set = append(set, o)
			}
		}
	}
	parented := g.component != nil && (opts == nil || opts.Parent == nil)
	if len(set) == 0 && !parented {
		return
	}

	g.Fprint(w, ", {\n")
	g.Indented(func() {
		if parented {
			g.Fprintf(w, "%sparent: this,\n", g.Indent)
		}
		for _, o := range set {
			g.Fgenf(w, "%s%s: %v,\n", g.Indent, o.name, o.value)
		}
	})
	g.Fprintf(w, "%s}", g.Indent)
}

// genNew generates the construction of a single resource instance.
func (g *generator) genNew(w io.Writer, r *pcl.Resource, name string) {
	g.Fprintf(w, "new %s(%s, ", g.resourceTypeName(r), name)
	g.genProperties(w, r.Inputs)
	g.genResourceOptions(w, r.Options)
	g.Fprint(w, ")")
}

// resourceName returns the logical name expression of a resource. Resources declared in a component are named after
// the component instance.
func (g *generator) resourceName(logicalName string, looped bool) string {
	switch {
	case g.component != nil && looped:
		return fmt.Sprintf("`${name}-%s-${range.key}`", escapeTemplate(logicalName))
	case g.component != nil:
		return fmt.Sprintf("`${name}-%s`", escapeTemplate(logicalName))
	case looped:
		return fmt.Sprintf("`%s-${range.key}`", escapeTemplate(logicalName))
	default:
		return fmt.Sprintf("\"%s\"", escape(logicalName))
	}
}

func (g *generator) genResource(w io.Writer, r *pcl.Resource) {
	name := g.variableName(r.Name())
	if r.Loop == nil {
		g.Fprintf(w, "%sconst %s = ", g.Indent, name)
		g.genNew(w, r, g.resourceName(r.LogicalName, false))
		g.Fprint(w, ";\n")
		return
	}

	g.Fprintf(w, "%sconst %s: %s[] = [];\n", g.Indent, name, g.resourceTypeName(r))
	genLoop := func(source model.Expression) {
		g.Fprintf(w, "%sfor (const range of ", g.Indent)
		g.genLoopEntries(w, r.Loop, source)
		g.Fprint(w, ") {\n")
		g.Indented(func() {
			g.Fprintf(w, "%s%s.push(", g.Indent, name)
			g.genNew(w, r, g.resourceName(r.LogicalName, true))
			g.Fprint(w, ");\n")
		})
		g.Fprintf(w, "%s}\n", g.Indent)
	}

	if !r.Loop.Lifted {
		genLoop(r.Loop.Source)
		return
	}

	// The instances are created once the collection resolves.
	args, params, body := pcl.LiftParts(r.Loop.Source, "rangeBody")
	g.Fprint(w, g.Indent)
	g.genContinuation(w, args, params, func() {
		g.Fprint(w, "{\n")
		g.Indented(func() {
			genLoop(body)
		})
		g.Fprintf(w, "%s}", g.Indent)
	})
	g.Fprint(w, ";\n")
}

// genLoopEntries generates an array of {key, value} pairs to iterate over.
func (g *generator) genLoopEntries(w io.Writer, loop *pcl.LoweredIteration, source model.Expression) {
	switch loop.Kind {
	case pcl.CountedLoop:
		g.Fprintf(w, "Array.from({length: %d}, (_, i) => ({key: i, value: i}))", loop.Count)
	case pcl.ListLoop:
		g.genOperand(w, source)
		g.Fprint(w, ".map((v, k) => ({key: k, value: v}))")
	default:
		g.Fgenf(w, "Object.entries(%v).map(([k, v]) => ({key: k, value: v}))", source)
	}
}

func (g *generator) genComponent(w io.Writer, c *pcl.Component) {
	g.Fprintf(w, "%sconst %s = new %s(\"%s\", ", g.Indent, g.variableName(c.Name()), c.Definition.Type,
		escape(c.LogicalName))
	g.genProperties(w, c.Inputs)
	g.genResourceOptions(w, c.Options)
	g.Fprint(w, ");\n")
}

// genComponentClass generates the module of a component type: an interface for its arguments and a class that
// creates the body's resources in its constructor.
func (g *generator) genComponentClass(w io.Writer) {
	def := g.component
	g.genPreamble(w)

	g.Fprintf(w, "export interface %sArgs {\n", def.Type)
	g.Indented(func() {
		for _, in := range def.Inputs {
			if in.Description != "" {
				g.Fprintf(w, "%s/** %s */\n", g.Indent, strings.ReplaceAll(in.Description, "\n", " "))
			}
			g.Fprintf(w, "%s%s: pulumi.Input<%s>;\n", g.Indent, propertyKey(in.Name()), g.typeName(in.ConfigType))
		}
	})
	g.Fprint(w, "}\n\n")

	g.Fprintf(w, "export class %s extends pulumi.ComponentResource {\n", def.Type)
	g.Indented(func() {
		for _, out := range def.Outputs {
			g.Fprintf(w, "%spublic readonly %s: %s;\n", g.Indent, propertyKey(out.Name()),
				g.typeName(def.OutputType.Properties[out.Name()]))
		}
		if len(def.Outputs) > 0 {
			g.Fprint(w, "\n")
		}

		g.Fprintf(w, "%sconstructor(name: string, args: %sArgs, opts?: pulumi.ComponentResourceOptions) {\n",
			g.Indent, def.Type)
		g.Indented(func() {
			g.Fprintf(w, "%ssuper(\"%s\", name, args, opts);\n", g.Indent, def.Token)
			for _, n := range g.program.Nodes {
				g.genNode(w, n)
			}

			if len(def.Outputs) == 0 {
				g.Fprintf(w, "%sthis.registerOutputs();\n", g.Indent)
				return
			}
			g.Fprintf(w, "%sthis.registerOutputs({\n", g.Indent)
			g.Indented(func() {
				for _, out := range def.Outputs {
					g.Fprintf(w, "%s%s: %s,\n", g.Indent, propertyKey(out.Name()), memberAccess("this", out.Name()))
				}
			})
			g.Fprintf(w, "%s});\n", g.Indent)
		})
		g.Fprintf(w, "%s}\n", g.Indent)
	})
	g.Fprint(w, "}\n")
}

// genComponentInput binds an input of a component to a local output.
func (g *generator) genComponentInput(w io.Writer, v *pcl.ConfigVariable) {
	wrap := "pulumi.output"
	if v.Secret {
		wrap = "pulumi.secret"
	}
	g.Fprintf(w, "%sconst %s = %s(%s);\n", g.Indent, g.variableName(v.Name()), wrap, memberAccess("args", v.Name()))
}

func (g *generator) genComponentOutput(w io.Writer, v *pcl.OutputVariable) {
	field := memberAccess("this", v.Name())
	if _, isOutput := v.Value.Type().(*model.OutputType); isOutput {
		g.Fgenf(w, "%s%s = %v;\n", g.Indent, field, v.Value)
		return
	}
	g.Fgenf(w, "%s%s = pulumi.output(%v);\n", g.Indent, field, v.Value)
}

func memberAccess(receiver, member string) string {
	if isLegalIdentifier(member) {
		return receiver + "." + member
	}
	return fmt.Sprintf("%s[\"%s\"]", receiver, escape(member))
}
