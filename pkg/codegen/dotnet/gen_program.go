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

package dotnet

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

const (
	// rangeVariable is the loop variable of replicated resources.
	rangeVariable = "range"
	// maxTupleArity is the largest number of outputs Output.Tuple accepts.
	maxTupleArity = 8
)

type generator struct {
	// The formatter to use when generating code.
	*format.Formatter

	program  *pcl.LoweredProgram
	names    *codegen.NameTable
	packages map[string]*csharpPackage

	// params maps the lambda parameters in scope to their identifiers.
	params map[*model.Variable]string
	// scoped counts the lambda locals currently in scope by identifier. C# does not allow them to shadow each
	// other or a declaration.
	scoped map[string]int

	configCreated bool
	diagnostics   hcl.Diagnostics
	// component is set when generating the class of a component type.
	component *pcl.ComponentDefinition
}

// csharpPackage is an imported package and the alias of its namespace.
type csharpPackage struct {
	alias     string
	namespace string
	info      CSharpPackageInfo
}

// GenerateProgram generates a Program.cs for a lowered program, plus one file per component type. The program
// body runs inside Deployment.RunAsync and the stack outputs are returned from it as a dictionary.
func GenerateProgram(program *pcl.LoweredProgram) (map[string][]byte, hcl.Diagnostics, error) {
	g, err := newGenerator(program, nil)
	if err != nil {
		return nil, nil, err
	}

	var body bytes.Buffer
	g.Indented(func() {
		var outputs []*pcl.OutputVariable
		for _, n := range program.Nodes {
			if o, ok := n.(*pcl.OutputVariable); ok {
				outputs = append(outputs, o)
				continue
			}
			g.genNode(&body, n)
		}
		g.genOutputs(&body, outputs, body.Len() != 0)
	})

	var file bytes.Buffer
	g.genPreamble(&file)
	g.Fprint(&file, body.String())
	g.Fprint(&file, "});\n")
	files := map[string][]byte{"Program.cs": file.Bytes()}

	diagnostics := g.diagnostics
	for _, c := range program.Components {
		cg, err := newGenerator(c.Body, c.Definition)
		if err != nil {
			return nil, nil, err
		}
		var class bytes.Buffer
		cg.genComponentClass(&class)
		files[c.Definition.Type+".cs"] = class.Bytes()
		diagnostics = append(diagnostics, cg.diagnostics...)
	}
	if diagnostics.HasErrors() {
		return nil, diagnostics, nil
	}

	logging.V(7).Infof("generated Program.cs for %d declarations and %d components", len(program.Nodes),
		len(program.Components))
	return files, diagnostics, nil
}

func newGenerator(program *pcl.LoweredProgram, component *pcl.ComponentDefinition) (*generator, error) {
	g := &generator{
		program:   program,
		packages:  map[string]*csharpPackage{},
		params:    map[*model.Variable]string{},
		scoped:    map[string]int{},
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
		alias := info.namespaceName(pkg.Name)
		g.packages[pkg.Name] = &csharpPackage{
			alias:     alias,
			namespace: info.RootNamespace + "." + alias,
			info:      info,
		}
	}
	return nil
}

// assignNames binds every declaration to an identifier in document order.
func (g *generator) assignNames() {
	reserved := codegen.NewStringSet("config", rangeVariable, "rangeIndex", "rangeValue", "rangePair")
	for _, p := range g.packages {
		reserved.Add(p.alias)
	}
	if len(g.program.Components) > 0 || g.component != nil {
		reserved.Add(componentNamespace)
	}
	if g.component != nil {
		reserved = reserved.Union(codegen.NewStringSet("name", "args", "opts"))
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
	g.genUsings(w)
	g.Fprint(w, "\nreturn await Deployment.RunAsync(() =>\n{\n")
}

func (g *generator) genUsings(w io.Writer) {
	g.Fprint(w, "using System.Collections.Generic;\n")
	if g.component != nil {
		g.Fprint(w, "using System.Collections.Immutable;\n")
	}
	g.Fprint(w, "using System.Linq;\n")
	for _, n := range g.program.Nodes {
		if pcl.Calls(n, pcl.ToJSON) {
			g.Fprint(w, "using System.Text.Json;\n")
			break
		}
	}
	g.Fprint(w, "using Pulumi;\n")

	aliases := make([]*csharpPackage, 0, len(g.packages))
	for _, p := range g.packages {
		aliases = append(aliases, p)
	}
	sort.Slice(aliases, func(i, j int) bool { return aliases[i].alias < aliases[j].alias })
	for _, p := range aliases {
		g.Fprintf(w, "using %s = %s;\n", p.alias, p.namespace)
	}
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
		g.Fgenf(w, "%svar %s = %v;\n", g.Indent, g.variableName(n.Name()), n.Value)
	case *pcl.Invoke:
		g.genInvoke(w, n)
	case *pcl.Resource:
		g.genResource(w, n)
	case *pcl.Component:
		g.genComponent(w, n)
	case *pcl.OutputVariable:
		g.genComponentOutput(w, n)
	}
}

// genOutputs generates the dictionary of stack outputs returned by the program.
func (g *generator) genOutputs(w io.Writer, outputs []*pcl.OutputVariable, separate bool) {
	if len(outputs) == 0 {
		return
	}
	if separate {
		g.Fprint(w, "\n")
	}
	g.Fprintf(w, "%sreturn new Dictionary<string, object?>\n", g.Indent)
	g.Fprintf(w, "%s{\n", g.Indent)
	g.Indented(func() {
		for _, o := range outputs {
			g.Fgenf(w, "%s[\"%s\"] = %v,\n", g.Indent, escape(o.Name(), false), o.Value)
		}
	})
	g.Fprintf(w, "%s};\n", g.Indent)
}

// typeName returns the C# type of a value.
func (g *generator) typeName(t model.Type) string {
	switch t := t.(type) {
	case *model.ListType:
		return g.typeName(t.ElementType) + "[]"
	case *model.MapType:
		return fmt.Sprintf("Dictionary<string, %s>", g.typeName(t.ElementType))
	case *model.ObjectType:
		return "Dictionary<string, object?>"
	case *model.OutputType:
		return fmt.Sprintf("Output<%s>", g.typeName(t.ElementType))
	case *model.PromiseType:
		return fmt.Sprintf("Output<%s>", g.typeName(t.ElementType))
	case *model.EnumType:
		return g.typeName(t.ElementType)
	}

	switch t {
	case model.StringType:
		return "string"
	case model.IntType:
		return "int"
	case model.NumberType:
		return "double"
	case model.BoolType:
		return "bool"
	default:
		return "object?"
	}
}

func (g *generator) genConfigVariable(w io.Writer, v *pcl.ConfigVariable) {
	if !g.configCreated {
		g.Fprintf(w, "%svar config = new Config();\n", g.Indent)
		g.configCreated = true
	}
	if v.Description != "" {
		for _, line := range strings.Split(v.Description, "\n") {
			g.Fprintf(w, "%s// %s\n", g.Indent, line)
		}
	}

	getType := ""
	switch v.ConfigType {
	case model.StringType:
	case model.IntType:
		getType = "Int32"
	case model.NumberType:
		getType = "Double"
	case model.BoolType:
		getType = "Boolean"
	default:
		getType = fmt.Sprintf("Object<%s>", g.typeName(v.ConfigType))
	}
	getOrRequire := "Require"
	if v.DefaultValue != nil {
		getOrRequire = "Get"
	}
	secret := ""
	if v.Secret {
		secret = "Secret"
	}

	name := g.variableName(v.Name())
	read := fmt.Sprintf("config.%s%s%s(\"%s\")", getOrRequire, secret, getType, escape(v.Name(), false))
	switch {
	case v.DefaultValue == nil:
		g.Fprintf(w, "%svar %s = %s;\n", g.Indent, name, read)
	case v.Secret:
		g.Fprintf(w, "%svar %s = %s ?? ", g.Indent, name, read)
		g.genSecret(w, v.DefaultValue)
		g.Fprint(w, ";\n")
	case model.IsEventual(v.DefaultValue.Type()):
		// Both branches are outputs.
		value := g.names.Fresh(name + "Value")
		g.Fgenf(w, "%svar %s = %s is { } %s ? Output.Create(%s) : %v;\n", g.Indent, name, read, value, value,
			v.DefaultValue)
	default:
		g.Fgenf(w, "%svar %s = %s ?? %v;\n", g.Indent, name, read, v.DefaultValue)
	}
}

// qualifiedName returns the namespace-qualified name of a package member.
func (g *generator) qualifiedName(pkg *schema.Package, token, member string) string {
	p, ok := g.packages[pkg.Name]
	contract.Assertf(ok, "package %v was not imported", pkg.Name)
	if module := pkg.TokenToModule(token); module != "" {
		return fmt.Sprintf("%s.%s.%s", p.alias, p.info.namespaceName(module), member)
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
	return g.qualifiedName(i.Schema.Package, i.Token, codegen.Title(member))
}

// genArgs generates a target-typed args object for a list of named inputs.
func (g *generator) genArgs(w io.Writer, props []*pcl.Property) {
	g.Fprint(w, "new()")
	if len(props) == 0 {
		return
	}
	g.Fprintf(w, "\n%s{\n", g.Indent)
	g.Indented(func() {
		for _, p := range props {
			g.genProperty(w, propertyName(p.Name), p.Value)
		}
	})
	g.Fprintf(w, "%s}", g.Indent)
}

func (g *generator) genInvoke(w io.Writer, i *pcl.Invoke) {
	name, function := g.variableName(i.Name()), g.functionName(i)
	if !i.OutputForm() {
		// InvokeAsync returns a task, which is wrapped in an output.
		g.Fprintf(w, "%svar %s = Output.Create(%s.InvokeAsync(", g.Indent, name, function)
		if len(i.Args) != 0 {
			g.genArgs(w, i.Args)
		}
		g.Fprint(w, "));\n")
		return
	}
	g.Fprintf(w, "%svar %s = %s.Invoke(", g.Indent, name, function)
	if len(i.Args) != 0 {
		g.genArgs(w, i.Args)
	}
	g.Fprint(w, ");\n")
}

type resourceOption struct {
	name  string
	value model.Expression
	// raw is the code of an option that has no source expression.
	raw string
}

// setOptions returns the options that are set. Resources declared in a component default to the component as their
// parent.
func (g *generator) setOptions(opts *pcl.ResourceOptions) []resourceOption {
	var set []resourceOption
	if g.component != nil && (opts == nil || opts.Parent == nil) {
		set = append(set, resourceOption{name: "Parent", raw: "this"})
	}
	if opts == nil {
		return set
	}
	for _, o := range []resourceOption{
		{name: "Parent", value: opts.Parent},
		{name: "Provider", value: opts.Provider},
		{name: "DependsOn", value: opts.DependsOn},
		{name: "Protect", value: opts.Protect},
	} {
		if o.value != nil {
			set = append(set, o)
		}
	}
	return set
}

func (g *generator) genResourceOptions(w io.Writer, class string, options []resourceOption) {
	g.Fprintf(w, "new %s\n%s{\n", class, g.Indent)
	g.Indented(func() {
		for _, o := range options {
			if o.raw != "" {
				g.Fprintf(w, "%s%s = %s,\n", g.Indent, o.name, o.raw)
				continue
			}
			if o.name != "DependsOn" {
				g.Fgenf(w, "%s%s = %v,\n", g.Indent, o.name, o.value)
				continue
			}
			tuple, ok := o.value.(*model.TupleConsExpression)
			if !ok {
				g.Fprintf(w, "%sDependsOn = ", g.Indent)
				g.genOperand(w, o.value)
				g.Fprint(w, ".ToArray<Resource>(),\n")
				continue
			}
			g.Fprintf(w, "%sDependsOn =\n%s{\n", g.Indent, g.Indent)
			g.Indented(func() {
				for _, x := range tuple.Expressions {
					g.Fgenf(w, "%s%v,\n", g.Indent, x)
				}
			})
			g.Fprintf(w, "%s},\n", g.Indent)
		}
	})
	g.Fprintf(w, "%s}", g.Indent)
}

// genNew generates the construction of a single resource instance.
func (g *generator) genNew(w io.Writer, r *pcl.Resource, name string) {
	g.Fprintf(w, "new %s(%s", g.resourceTypeName(r), name)
	options := g.setOptions(r.Options)
	if len(r.Inputs) != 0 || len(options) != 0 {
		g.Fprint(w, ", ")
		g.genArgs(w, r.Inputs)
	}
	if len(options) != 0 {
		g.Fprint(w, ", ")
		g.genResourceOptions(w, "CustomResourceOptions", options)
	}
	g.Fprint(w, ")")
}

func (g *generator) genResource(w io.Writer, r *pcl.Resource) {
	name := g.variableName(r.Name())
	if r.Loop == nil {
		g.Fprintf(w, "%svar %s = ", g.Indent, name)
		g.genNew(w, r, g.resourceName(r.LogicalName, false))
		g.Fprint(w, ";\n")
		return
	}
	if r.Loop.Lifted {
		g.diagnostics = append(g.diagnostics, pcl.UnsupportedConstructf(r.Range(),
			"resource %v iterates over a value that is not known until the program runs, which C# cannot express",
			r.Name()))
		return
	}

	g.Fprintf(w, "%svar %s = new List<%s>();\n", g.Indent, name, g.resourceTypeName(r))
	g.Fprintf(w, "%sforeach (var %s in ", g.Indent, rangeVariable)
	g.genLoopEntries(w, r.Loop)
	g.Fprintf(w, ")\n%s{\n", g.Indent)
	g.Indented(func() {
		g.Fprintf(w, "%s%s.Add(", g.Indent, name)
		g.genNew(w, r, g.resourceName(r.LogicalName, true))
		g.Fprint(w, ");\n")
	})
	g.Fprintf(w, "%s}\n", g.Indent)
}

// genLoopEntries generates a sequence of { Key, Value } pairs to iterate over.
func (g *generator) genLoopEntries(w io.Writer, loop *pcl.LoweredIteration) {
	switch loop.Kind {
	case pcl.CountedLoop:
		g.Fprintf(w, "Enumerable.Range(0, %d).Select(rangeIndex => new { Key = rangeIndex, Value = rangeIndex })",
			loop.Count)
	case pcl.ListLoop:
		g.genOperand(w, loop.Source)
		g.Fprint(w, ".Select((rangeValue, rangeIndex) => new { Key = rangeIndex, Value = rangeValue })")
	default:
		g.genOperand(w, loop.Source)
		g.Fprint(w, ".Select(rangePair => new { rangePair.Key, rangePair.Value })")
	}
}

// componentNamespace holds the classes of component types.
const componentNamespace = "Components"

// resourceName returns the logical name expression of a resource. Resources declared in a component are named after
// the component instance.
func (g *generator) resourceName(logicalName string, looped bool) string {
	switch {
	case g.component != nil && looped:
		return fmt.Sprintf("$\"{name}-%s-{%s.Key}\"", escape(logicalName, true), rangeVariable)
	case g.component != nil:
		return fmt.Sprintf("$\"{name}-%s\"", escape(logicalName, true))
	case looped:
		return fmt.Sprintf("$\"%s-{%s.Key}\"", escape(logicalName, true), rangeVariable)
	default:
		return fmt.Sprintf("\"%s\"", escape(logicalName, false))
	}
}

func (g *generator) genComponent(w io.Writer, c *pcl.Component) {
	g.Fprintf(w, "%svar %s = new %s.%s(\"%s\", ", g.Indent, g.variableName(c.Name()), componentNamespace,
		c.Definition.Type, escape(c.LogicalName, false))
	g.genArgs(w, c.Inputs)
	if options := g.setOptions(c.Options); len(options) != 0 {
		g.Fprint(w, ", ")
		g.genResourceOptions(w, "ComponentResourceOptions", options)
	}
	g.Fprint(w, ");\n")
}

// componentInputType returns the C# type of the args property that holds a component input.
func (g *generator) componentInputType(t model.Type) string {
	switch t := t.(type) {
	case *model.ListType:
		return fmt.Sprintf("InputList<%s>", g.typeName(t.ElementType))
	case *model.MapType:
		return fmt.Sprintf("InputMap<%s>", g.typeName(t.ElementType))
	}
	return fmt.Sprintf("Input<%s>", g.typeName(t))
}

// genComponentInput binds an input of a component to a local output of the input's plain type.
func (g *generator) genComponentInput(w io.Writer, v *pcl.ConfigVariable) {
	name, field := g.variableName(v.Name()), "args."+propertyName(v.Name())
	outputType := g.typeName(model.NewOutputType(v.ConfigType))

	var convert string
	switch t := v.ConfigType.(type) {
	case *model.ListType:
		value := g.scope(name + "Value")
		defer g.unscope(value)
		convert = fmt.Sprintf("((Output<ImmutableArray<%s>>)%s).Apply(%s => %s.ToArray())", g.typeName(t.ElementType),
			field, value, value)
	case *model.MapType:
		value, pair := g.scope(name+"Value"), g.scope("pair")
		defer g.unscope(value)
		defer g.unscope(pair)
		convert = fmt.Sprintf("((Output<ImmutableDictionary<string, %s>>)%s).Apply(%s => %s.ToDictionary(%s => %s.Key, %s => %s.Value))",
			g.typeName(t.ElementType), field, value, value, pair, pair, pair, pair)
	}

	switch {
	case v.Secret:
		if convert == "" {
			convert = fmt.Sprintf("((%s)%s)", outputType, field)
		}
		value := g.scope(name + "Secret")
		defer g.unscope(value)
		g.Fprintf(w, "%s%s %s = %s.Apply(%s => Output.CreateSecret(%s));\n", g.Indent, outputType, name, convert,
			value, value)
	case convert != "":
		g.Fprintf(w, "%s%s %s = %s;\n", g.Indent, outputType, name, convert)
	default:
		g.Fprintf(w, "%s%s %s = %s;\n", g.Indent, outputType, name, field)
	}
}

// componentOutputType returns the element type of the output property that holds a component output. Values of SDK
// object types are boxed, since their classes are not named by the program.
func (g *generator) componentOutputType(t model.Type) (string, bool) {
	t = model.ResolvePromises(model.ResolveOutputs(t))
	if containsObjects(t) {
		return "object?", true
	}
	return g.typeName(t), false
}

func containsObjects(t model.Type) bool {
	switch t := t.(type) {
	case *model.ObjectType:
		return true
	case *model.ListType:
		return containsObjects(t.ElementType)
	case *model.MapType:
		return containsObjects(t.ElementType)
	}
	return false
}

func (g *generator) genComponentOutput(w io.Writer, v *pcl.OutputVariable) {
	typ, boxed := g.componentOutputType(v.Value.Type())
	g.Fprintf(w, "%sthis.%s = ", g.Indent, propertyName(v.Name()))
	switch {
	case !model.IsEventual(v.Value.Type()):
		g.Fgenf(w, "Output.Create<%s>(%v)", typ, v.Value)
	case boxed:
		value := g.scope("value")
		g.genOperand(w, v.Value)
		g.Fprintf(w, ".Apply(%s => (object?)%s)", value, value)
		g.unscope(value)
	default:
		g.Fgen(w, v.Value)
	}
	g.Fprint(w, ";\n")
}

// genComponentClass generates the file of a component type: an args class for its inputs and a component resource
// class that creates the body's resources in its constructor.
func (g *generator) genComponentClass(w io.Writer) {
	def := g.component
	g.genUsings(w)
	g.Fprintf(w, "\nnamespace %s\n{\n", componentNamespace)
	g.Indented(func() {
		g.Fprintf(w, "%spublic class %sArgs : global::Pulumi.ResourceArgs\n%s{\n", g.Indent, def.Type, g.Indent)
		g.Indented(func() {
			for i, in := range def.Inputs {
				if i > 0 {
					g.Fprint(w, "\n")
				}
				if in.Description != "" {
					g.Fprintf(w, "%s/// <summary>\n", g.Indent)
					for _, line := range strings.Split(in.Description, "\n") {
						g.Fprintf(w, "%s/// %s\n", g.Indent, line)
					}
					g.Fprintf(w, "%s/// </summary>\n", g.Indent)
				}
				typ := g.componentInputType(in.ConfigType)
				g.Fprintf(w, "%s[Input(\"%s\")]\n", g.Indent, escape(in.Name(), false))
				g.Fprintf(w, "%spublic %s %s { get; set; } = null!;\n", g.Indent, typ, propertyName(in.Name()))
			}
		})
		g.Fprintf(w, "%s}\n\n", g.Indent)

		g.Fprintf(w, "%spublic class %s : global::Pulumi.ComponentResource\n%s{\n", g.Indent, def.Type, g.Indent)
		g.Indented(func() {
			for _, out := range def.Outputs {
				typ, _ := g.componentOutputType(out.Type())
				g.Fprintf(w, "%s[Output(\"%s\")]\n", g.Indent, escape(out.Name(), false))
				g.Fprintf(w, "%spublic Output<%s> %s { get; private set; }\n\n", g.Indent, typ, propertyName(out.Name()))
			}

			g.Fprintf(w, "%spublic %s(string name, %sArgs args, ComponentResourceOptions? opts = null)\n", g.Indent,
				def.Type, def.Type)
			g.Indented(func() {
				g.Fprintf(w, "%s: base(\"%s\", name, args, opts)\n", g.Indent, def.Token)
			})
			g.Fprintf(w, "%s{\n", g.Indent)
			g.Indented(func() {
				for _, n := range g.program.Nodes {
					g.genNode(w, n)
				}

				if len(def.Outputs) == 0 {
					g.Fprintf(w, "%sthis.RegisterOutputs();\n", g.Indent)
					return
				}
				g.Fprintf(w, "%sthis.RegisterOutputs(new Dictionary<string, object?>\n%s{\n", g.Indent, g.Indent)
				g.Indented(func() {
					for _, out := range def.Outputs {
						g.Fprintf(w, "%s[\"%s\"] = this.%s,\n", g.Indent, escape(out.Name(), false), propertyName(out.Name()))
					}
				})
				g.Fprintf(w, "%s});\n", g.Indent)
			})
			g.Fprintf(w, "%s}\n", g.Indent)
		})
		g.Fprintf(w, "%s}\n", g.Indent)
	})
	g.Fprint(w, "}\n")
}
