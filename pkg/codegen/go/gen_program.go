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

package gen

import (
	"bytes"
	"fmt"
	gofmt "go/format"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/pkg/errors"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/model"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/model/format"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/pcl"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/schema"
	"github.com/pulumi/pulumi/sdk/v3/go/common/util/contract"
	"github.com/pulumi/pulumi/sdk/v3/go/common/util/logging"
)

const (
	keyVariable    = "key0"
	valueVariable  = "val0"
	resultVariable = "__res"
)

type generator struct {
	// The formatter to use when generating code.
	*format.Formatter

	program  *pcl.LoweredProgram
	names    *codegen.NameTable
	packages map[string]*goPackage

	// referenced holds the declarations that some expression refers to.
	referenced codegen.StringSet
	// imports maps the module import paths used by the generated code to their aliases.
	imports    map[string]string
	stdImports codegen.StringSet
	usesConfig bool

	params  map[*model.Variable]string
	inlined map[*model.Variable]model.Expression
	temps   map[model.Expression]string

	tmpCount, jsonCount int
	// loop is the iteration of the resource being generated, if any.
	loop *pcl.LoweredIteration
	// scopes counts the function literals and loop bodies enclosing the code being generated.
	scopes        int
	isErrAssigned bool
	configCreated bool
	diagnostics   hcl.Diagnostics
	// component is set when generating the constructor of a component type.
	component *pcl.ComponentDefinition
}

type goPackage struct {
	// base is the import path of the package's index module.
	base  string
	alias string
}

// GenerateProgram generates a main.go for a lowered program, plus one file per component type. Constructs that Go
// cannot express are reported as UnsupportedConstruct diagnostics, in which case no files are returned.
func GenerateProgram(program *pcl.LoweredProgram) (map[string][]byte, hcl.Diagnostics, error) {
	g, err := newGenerator(program, nil)
	if err != nil {
		return nil, nil, err
	}

	// The body is generated first so that the imports it uses are known when the preamble is written.
	var body bytes.Buffer
	for _, n := range program.Nodes {
		g.genNode(&body, n)
	}
	var main bytes.Buffer
	g.genPreamble(&main)
	main.Write(body.Bytes())
	g.genPostamble(&main)

	sources := map[string][]byte{"main.go": main.Bytes()}
	diagnostics := g.diagnostics
	for _, c := range program.Components {
		cg, err := newGenerator(c.Body, c.Definition)
		if err != nil {
			return nil, nil, err
		}
		sources[strings.ToLower(c.Definition.Type)+".go"] = cg.genComponentFile()
		diagnostics = append(diagnostics, cg.diagnostics...)
	}
	if diagnostics.HasErrors() {
		return nil, diagnostics, nil
	}

	files := make(map[string][]byte, len(sources))
	for name, source := range sources {
		// Run Go formatter on the code before saving to disk
		formattedSource, err := gofmt.Source(source)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "invalid Go source code in %s:\n\n%s", name, source)
		}
		files[name] = formattedSource
	}

	logging.V(7).Infof("generated main.go for %d declarations and %d components", len(program.Nodes),
		len(program.Components))
	return files, diagnostics, nil
}

func newGenerator(program *pcl.LoweredProgram, component *pcl.ComponentDefinition) (*generator, error) {
	g := &generator{
		program:    program,
		packages:   map[string]*goPackage{},
		referenced: codegen.NewStringSet(),
		imports:    map[string]string{},
		stdImports: codegen.NewStringSet(),
		params:     map[*model.Variable]string{},
		inlined:    map[*model.Variable]model.Expression{},
		temps:      map[model.Expression]string{},
		component:  component,
	}
	g.Formatter = format.NewFormatter(g)

	if err := g.collectPackages(); err != nil {
		return nil, err
	}
	g.assignNames()
	return g, nil
}

func (g *generator) collectPackages() error {
	addPackage := func(pkg *schema.Package) error {
		if _, ok := g.packages[pkg.Name]; ok {
			return nil
		}
		base, err := packageImportBase(pkg)
		if err != nil {
			return err
		}
		g.packages[pkg.Name] = &goPackage{base: base, alias: packageAlias(pkg, base)}
		return nil
	}

	for _, n := range g.program.Nodes {
		switch n := n.(type) {
		case *pcl.Resource:
			contract.Assertf(n.Schema != nil, "resource %v has no schema", n.Name())
			if err := addPackage(n.Schema.Package); err != nil {
				return err
			}
		case *pcl.Invoke:
			contract.Assertf(n.Schema != nil, "invoke %v has no schema", n.Name())
			if err := addPackage(n.Schema.Package); err != nil {
				return err
			}
		}
	}
	return nil
}

// moduleAlias returns the alias of the Go package that holds the member with the given token and records its import.
func (g *generator) moduleAlias(pkg *schema.Package, token string) string {
	p, ok := g.packages[pkg.Name]
	contract.Assertf(ok, "package %v was not imported", pkg.Name)

	module := strings.ToLower(pkg.TokenToModule(token))
	if module == "" {
		g.imports[p.base] = p.alias
		return p.alias
	}

	importPath := p.base + "/" + module
	if i := strings.LastIndex(p.base, "/"); majorVersionSegment.MatchString(p.base[i+1:]) {
		importPath = p.base[:i] + "/" + module + p.base[i:]
	}
	alias := makeValidIdentifier(module)
	g.imports[importPath] = alias
	return alias
}

// typeModules records the modules that name the given type.
func (g *generator) typeModules(t model.Type, aliases codegen.StringSet) {
	switch t := t.(type) {
	case *model.OutputType:
		g.typeModules(t.ElementType, aliases)
	case *model.PromiseType:
		g.typeModules(t.ElementType, aliases)
	case *model.ListType:
		g.typeModules(t.ElementType, aliases)
	case *model.MapType:
		g.typeModules(t.ElementType, aliases)
	case *model.EnumType:
		if enum, ok := model.GetAnnotation[*schema.EnumType](t.Annotations); ok && g.knows(enum.Package) {
			aliases.Add(g.moduleAlias(enum.Package, enum.Token))
		}
	case *model.ObjectType:
		if obj, ok := model.GetAnnotation[*schema.ObjectType](t.Annotations); ok && obj.Token != "" &&
			g.knows(obj.Package) {
			aliases.Add(g.moduleAlias(obj.Package, obj.Token))
		}
		if fn, ok := model.GetAnnotation[*schema.Function](t.Annotations); ok && g.knows(fn.Package) {
			aliases.Add(g.moduleAlias(fn.Package, fn.Token))
		}
	}
}

func (g *generator) knows(pkg *schema.Package) bool {
	if pkg == nil {
		return false
	}
	_, ok := g.packages[pkg.Name]
	return ok
}

func (g *generator) assignNames() {
	reserved := goKeywords.Union(goBuiltins)
	for _, name := range []string{
		"ctx", "cfg", "err", "param", "pulumi", "config", "fmt", "strings", "json", "maps", "slices",
		keyVariable, valueVariable, resultVariable,
	} {
		reserved.Add(name)
	}
	for _, c := range g.program.Components {
		for _, name := range componentNames(c.Definition) {
			reserved.Add(name)
		}
	}
	if g.component != nil {
		for _, name := range append(componentNames(g.component), "name", "args", "opts", "componentResource") {
			reserved.Add(name)
		}
	}

	// Every module alias the program might use is reserved, so declarations never shadow an import.
	for _, n := range g.program.Nodes {
		switch n := n.(type) {
		case *pcl.Resource:
			reserved.Add(g.resourceModule(n))
		case *pcl.Invoke:
			reserved.Add(g.moduleAlias(n.Schema.Package, n.Token))
		}
		for _, x := range pcl.Expressions(n) {
			model.Walk(x, func(e model.Expression) bool {
				g.typeModules(e.Type(), reserved)
				if ref, ok := e.(*model.ReferenceExpression); ok && ref.Parameter == nil {
					g.referenced.Add(ref.Name)
				}
				return true
			})
		}
	}
	// Only the imports that the generated code actually uses are written.
	g.imports = map[string]string{}

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

// componentNames returns the top-level identifiers that the file of a component type declares.
func componentNames(def *pcl.ComponentDefinition) []string {
	return []string{def.Type, def.Type + "Args", "New" + def.Type}
}

// genPreamble generates package decl, imports, and opens the main func
func (g *generator) genPreamble(w io.Writer) {
	g.genImports(w)
	g.Fprintf(w, "func main() {\n")
	g.Fprintf(w, "pulumi.Run(func(ctx *pulumi.Context) error {\n")
}

func (g *generator) genImports(w io.Writer) {
	g.Fprint(w, "package main\n\n")
	g.Fprintf(w, "import (\n")

	for _, imp := range g.stdImports.SortedValues() {
		g.Fprintf(w, "\"%s\"\n", imp)
	}
	if g.stdImports.Any() {
		g.Fprintf(w, "\n")
	}

	g.Fprintf(w, "\"github.com/pulumi/pulumi/sdk/v3/go/pulumi\"\n")
	if g.usesConfig {
		g.Fprintf(w, "\"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config\"\n")
	}

	paths := make([]string, 0, len(g.imports))
	for p := range g.imports {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		if alias := g.imports[p]; alias != path.Base(p) {
			g.Fprintf(w, "%s \"%s\"\n", alias, p)
		} else {
			g.Fprintf(w, "\"%s\"\n", p)
		}
	}

	g.Fprintf(w, ")\n\n")
}

func (g *generator) genPostamble(w io.Writer) {
	g.Fprint(w, "return nil\n")
	g.Fprint(w, "})\n")
	g.Fprint(w, "}\n")
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
		g.genLocalVariable(w, n)
	case *pcl.Invoke:
		g.genInvoke(w, n)
	case *pcl.Resource:
		g.genResource(w, n)
	case *pcl.Component:
		g.genComponent(w, n)
	case *pcl.OutputVariable:
		g.genTemps(w, n.Value, "")
		if g.component != nil {
			g.genComponentOutput(w, n)
			return
		}
		g.Fprintf(w, "ctx.Export(%s, ", strconv.Quote(n.Name()))
		g.genInput(w, n.Value)
		g.Fprint(w, ")\n")
	}
}

func (g *generator) genConfigVariable(w io.Writer, v *pcl.ConfigVariable) {
	if !g.configCreated {
		g.Fprint(w, "cfg := config.New(ctx, \"\")\n")
		g.configCreated = true
		g.usesConfig = true
	}
	if v.Description != "" {
		for _, line := range strings.Split(v.Description, "\n") {
			g.Fprintf(w, "// %s\n", line)
		}
	}

	name, key := g.variableName(v.Name()), strconv.Quote(v.Name())
	if v.DefaultValue != nil {
		if v.Secret {
			g.diagnostics = append(g.diagnostics, pcl.UnsupportedConstructf(v.Range(),
				"secret configuration %v cannot have a default value in Go", v.Name()))
			return
		}
		g.genTemps(w, v.DefaultValue, "")
		if model.ContainsOutputs(v.DefaultValue.Type()) {
			g.genEventualConfigVariable(w, v, name, key)
			return
		}
	}

	getType := ""
	switch v.ConfigType {
	case model.StringType:
	case model.IntType:
		getType = "Int"
	case model.NumberType:
		getType = "Float64"
	case model.BoolType:
		getType = "Bool"
	default:
		g.genObjectConfigVariable(w, v, name, key)
		return
	}

	switch {
	case v.DefaultValue == nil && v.Secret:
		g.Fprintf(w, "%s := cfg.RequireSecret%s(%s)\n", name, getType, key)
	case v.DefaultValue == nil:
		g.Fprintf(w, "%s := cfg.Require%s(%s)\n", name, getType, key)
	default:
		g.Fgenf(w, "%s := %v\n", name, v.DefaultValue)
		switch v.ConfigType {
		case model.BoolType:
			g.Fprintf(w, "if param := cfg.GetBool(%s); param {\n", key)
		case model.StringType:
			g.Fprintf(w, "if param := cfg.Get(%s); param != \"\" {\n", key)
		default:
			g.Fprintf(w, "if param := cfg.Get%s(%s); param != 0 {\n", getType, key)
		}
		g.Fprintf(w, "%s = param\n", name)
		g.Fprint(w, "}\n")
	}
	g.genUnused(w, v.Name(), name)
}

func (g *generator) genObjectConfigVariable(w io.Writer, v *pcl.ConfigVariable, name, key string) {
	if v.Secret {
		g.diagnostics = append(g.diagnostics, pcl.UnsupportedConstructf(v.Range(),
			"secret configuration %v must have a primitive type in Go", v.Name()))
		return
	}
	if v.DefaultValue == nil {
		g.Fprintf(w, "var %s %s\n", name, g.goType(v.ConfigType))
		g.Fprintf(w, "cfg.RequireObject(%s, &%s)\n", key, name)
	} else {
		g.Fgenf(w, "%s := %v\n", name, v.DefaultValue)
		g.Fprintf(w, "if err := cfg.GetObject(%s, &%s); err != nil {\n", key, name)
		g.Fprintf(w, "%s\n", g.errReturn())
		g.Fprint(w, "}\n")
	}
	g.genUnused(w, v.Name(), name)
}

// genEventualConfigVariable generates a configuration variable whose default is an output. The variable is an
// output in both branches so that later references see a single type.
func (g *generator) genEventualConfigVariable(w io.Writer, v *pcl.ConfigVariable, name, key string) {
	prim, ok := primitiveName(v.ConfigType)
	if !ok {
		g.diagnostics = append(g.diagnostics, pcl.UnsupportedConstructf(v.Range(),
			"the default value of configuration %v must be known before the program runs in Go", v.Name()))
		return
	}
	g.Fprintf(w, "var %s pulumi.%sOutput\n", name, prim)
	switch v.ConfigType {
	case model.BoolType:
		g.Fprintf(w, "if param := cfg.GetBool(%s); param {\n", key)
	case model.StringType:
		g.Fprintf(w, "if param := cfg.Get(%s); param != \"\" {\n", key)
	default:
		g.Fprintf(w, "if param := cfg.Get%s(%s); param != 0 {\n", prim, key)
	}
	g.Fprintf(w, "%s = pulumi.%s(param).To%sOutput()\n", name, prim, prim)
	g.Fprint(w, "} else {\n")
	g.Fgenf(w, "%s = %v\n", name, v.DefaultValue)
	g.Fprint(w, "}\n")
	g.genUnused(w, v.Name(), name)
}

// genUnused marks a declaration that nothing refers to as used.
func (g *generator) genUnused(w io.Writer, declaration, name string) {
	if !g.referenced.Has(declaration) {
		g.Fprintf(w, "_ = %s\n", name)
	}
}

func (g *generator) genLocalVariable(w io.Writer, v *pcl.LocalVariable) {
	g.genTemps(w, v.Value, "")
	name := g.variableName(v.Name())
	g.Fgenf(w, "%s := %v\n", name, v.Value)
	g.genUnused(w, v.Name(), name)
}

// errAssignment returns the assignment operator for a statement that sets err alongside a discarded result.
func (g *generator) errAssignment() string {
	if g.isErrAssigned && g.scopes == 0 {
		return "="
	}
	return ":="
}

func (g *generator) markErrAssigned() {
	if g.scopes == 0 {
		g.isErrAssigned = true
	}
}

func (g *generator) genErrCheck(w io.Writer) {
	g.Fprint(w, "if err != nil {\n")
	g.Fprintf(w, "%s\n", g.errReturn())
	g.Fprint(w, "}\n")
}

// errReturn returns the statement that returns err from the enclosing function. Component constructors also return
// the component.
func (g *generator) errReturn() string {
	if g.component != nil {
		return "return nil, err"
	}
	return "return err"
}

// nolint: lll
// functionName returns the name of the Go function for an invoke. The Go SDK names a function Lookup<X> instead of
// Get<X> when the module also defines a resource <X>, whose Get<X> function reads existing resource state.
// For instance, the AWS VPC resource has a GetVpc getter, so the getVpc function is generated as LookupVpc:
// https://github.com/pulumi/pulumi-aws/blob/7835df354694e2f9f23371602a9febebc6b45be8/sdk/go/aws/ec2/getVpc.go#L15
func (g *generator) functionName(fn *schema.Function) string {
	pkg, module, member, err := schema.DecomposeToken(fn.Token)
	contract.AssertNoErrorf(err, "invalid function token %q", fn.Token)
	if strings.HasPrefix(member, "get") && len(member) > 3 {
		resourceToken := fmt.Sprintf("%s:%s:%s", pkg, module, codegen.Title(member[3:]))
		if _, ok := fn.Package.GetResource(resourceToken); ok {
			return "Lookup" + codegen.Title(member[3:])
		}
	}
	return codegen.Title(member)
}

func (g *generator) genInvoke(w io.Writer, i *pcl.Invoke) {
	for _, arg := range i.Args {
		g.genTemps(w, arg.Value, "")
	}

	mod, fn := g.moduleAlias(i.Schema.Package, i.Token), g.functionName(i.Schema)
	name := g.variableName(i.Name())
	referenced := g.referenced.Has(i.Name())

	if i.OutputForm() {
		if referenced {
			g.Fprintf(w, "%s := ", name)
		} else {
			g.Fprint(w, "_ = ")
		}
		g.Fprintf(w, "%s.%sOutput(ctx, %s.%sOutputArgs{\n", mod, fn, mod, fn)
		for _, arg := range i.Args {
			g.Fprintf(w, "%s: ", codegen.Title(arg.Name))
			g.genInput(w, arg.Value)
			g.Fprint(w, ",\n")
		}
		g.Fprint(w, "})\n")
		return
	}

	if referenced {
		g.Fprintf(w, "%s, err := ", name)
	} else {
		g.Fprintf(w, "_, err %s ", g.errAssignment())
	}
	g.markErrAssigned()
	if i.Schema.Inputs != nil {
		g.Fprintf(w, "%s.%s(ctx, nil)\n", mod, fn)
	} else {
		g.Fprintf(w, "%s.%s(ctx)\n", mod, fn)
	}
	g.genErrCheck(w)
}

// resourceModule returns the alias of the Go package that defines a resource.
func (g *generator) resourceModule(r *pcl.Resource) string {
	if r.Schema.IsProvider {
		return g.moduleAlias(r.Schema.Package, "")
	}
	return g.moduleAlias(r.Schema.Package, r.Token)
}

func (g *generator) resourceTypeName(r *pcl.Resource) string {
	if r.Schema.IsProvider {
		return "Provider"
	}
	_, _, member, err := schema.DecomposeToken(r.Token)
	contract.AssertNoErrorf(err, "invalid resource token %q", r.Token)
	return codegen.Title(member)
}

// genResourceOptions generates the options of a constructor call. Resources declared in a component default to the
// component as their parent.
func (g *generator) genResourceOptions(w io.Writer, opts *pcl.ResourceOptions) {
	if g.component != nil && (opts == nil || opts.Parent == nil) {
		g.Fprint(w, ", pulumi.Parent(&componentResource)")
	}
	if opts == nil {
		return
	}
	if opts.Parent != nil {
		g.Fgenf(w, ", pulumi.Parent(%v)", opts.Parent)
	}
	if opts.Provider != nil {
		g.Fgenf(w, ", pulumi.Provider(%v)", opts.Provider)
	}
	if opts.DependsOn != nil {
		g.Fprint(w, ", pulumi.DependsOn([]pulumi.Resource{\n")
		if tuple, ok := opts.DependsOn.(*model.TupleConsExpression); ok {
			for _, x := range tuple.Expressions {
				g.Fgenf(w, "%v,\n", x)
			}
		} else {
			g.Fgenf(w, "%v,\n", opts.DependsOn)
		}
		g.Fprint(w, "})")
	}
	if opts.Protect != nil {
		g.Fgenf(w, ", pulumi.Protect(%v)", opts.Protect)
	}
}

// genInstance generates the construction of a single resource instance followed by its error check.
func (g *generator) genInstance(w io.Writer, r *pcl.Resource, varName, resName string) {
	for _, input := range r.Inputs {
		g.genTemps(w, input.Value, "")
	}

	mod, typ := g.resourceModule(r), g.resourceTypeName(r)
	if varName != "" {
		g.Fprintf(w, "%s, err := ", varName)
	} else {
		g.Fprintf(w, "_, err %s ", g.errAssignment())
	}
	g.markErrAssigned()

	g.Fprintf(w, "%s.New%s(ctx, %s, ", mod, typ, resName)
	if len(r.Inputs) > 0 {
		g.Fprintf(w, "&%s.%sArgs{\n", mod, typ)
		for _, attr := range r.Inputs {
			g.Fprintf(w, "%s: ", codegen.Title(attr.Name))
			g.genInput(w, attr.Value)
			g.Fprint(w, ",\n")
		}
		g.Fprint(w, "}")
	} else {
		g.Fprint(w, "nil")
	}
	g.genResourceOptions(w, r.Options)
	g.Fprint(w, ")\n")
	g.genErrCheck(w)
}

func (g *generator) genResource(w io.Writer, r *pcl.Resource) {
	name := g.variableName(r.Name())
	if r.Loop == nil {
		varName := ""
		if g.referenced.Has(r.Name()) {
			varName = name
		}
		g.genInstance(w, r, varName, g.resourceName(r.LogicalName, false))
		return
	}
	if r.Loop.Lifted {
		g.diagnostics = append(g.diagnostics, pcl.UnsupportedConstructf(r.Range(),
			"resource %v iterates over a value that is not known until the program runs, which Go cannot express",
			r.Name()))
		return
	}

	if r.Loop.Source != nil {
		g.genTemps(w, r.Loop.Source, "")
	}
	g.stdImports.Add("fmt")
	g.Fprintf(w, "var %s []*%s.%s\n", name, g.resourceModule(r), g.resourceTypeName(r))

	// ahead of range statement declaration generate the resource instantiation
	// to detect and remove unused k,v variables
	g.loop = r.Loop
	g.scopes++
	var buf bytes.Buffer
	resName := g.resourceName(r.LogicalName, true)
	g.genInstance(&buf, r, resultVariable, resName)
	g.scopes--
	g.loop = nil

	usesValue := strings.Contains(buf.String(), valueVariable)
	switch r.Loop.Kind {
	case pcl.CountedLoop:
		g.Fprintf(w, "for %s := 0; %s < %d; %s++ {\n", keyVariable, keyVariable, r.Loop.Count, keyVariable)
	case pcl.MapLoop:
		// Map iteration order is random, so the keys are sorted to keep the instances stable between runs.
		source := g.loopSource(w, r)
		g.stdImports.Add("maps")
		g.stdImports.Add("slices")
		g.Fprintf(w, "for _, %s := range slices.Sorted(maps.Keys(%s)) {\n", keyVariable, source)
		if usesValue {
			g.Fprintf(w, "%s := %s[%s]\n", valueVariable, source, keyVariable)
		}
	default:
		valVar := "_"
		if usesValue {
			valVar = valueVariable
		}
		g.Fgenf(w, "for %s, %s := range %v {\n", keyVariable, valVar, r.Loop.Source)
	}
	g.Fprint(w, buf.String())
	g.Fprintf(w, "%s = append(%s, %s)\n", name, name, resultVariable)
	g.Fprint(w, "}\n")
}

// loopSource returns an identifier that holds the collection of a map loop. A source that is not already a
// variable is bound to one first, since it is read once for the keys and again for each value.
func (g *generator) loopSource(w io.Writer, r *pcl.Resource) string {
	if ref, ok := r.Loop.Source.(*model.ReferenceExpression); ok && ref.Parameter == nil {
		return g.variableName(ref.Name)
	}
	source := g.names.Fresh(r.Name() + "Source")
	g.Fgenf(w, "%s := %v\n", source, r.Loop.Source)
	return source
}

// escapeFormat escapes the verbs of a string used as a fmt format.
func escapeFormat(s string) string {
	return strings.ReplaceAll(s, "%", "%%")
}

// resourceName returns the logical name expression of a resource. Resources declared in a component are named after
// the component instance.
func (g *generator) resourceName(logicalName string, looped bool) string {
	switch {
	case g.component != nil && looped:
		g.stdImports.Add("fmt")
		return fmt.Sprintf("fmt.Sprintf(%s, name, %s)", strconv.Quote("%v-"+escapeFormat(logicalName)+"-%v"),
			keyVariable)
	case g.component != nil:
		g.stdImports.Add("fmt")
		return fmt.Sprintf("fmt.Sprintf(%s, name)", strconv.Quote("%v-"+escapeFormat(logicalName)))
	case looped:
		return fmt.Sprintf("fmt.Sprintf(%s, %s)", strconv.Quote(escapeFormat(logicalName)+"-%v"), keyVariable)
	default:
		return strconv.Quote(logicalName)
	}
}

// componentField returns the name of the struct field that holds an input or output of a component.
func componentField(name string) string {
	return codegen.Title(variableName(name))
}

// componentInputType returns the name of the SDK input and output types that carry a component input, without
// their Input or Output suffix.
func componentInputType(t model.Type) (string, bool) {
	if name, ok := primitiveName(t); ok {
		return name, true
	}
	switch t := t.(type) {
	case *model.ListType:
		if name, ok := primitiveName(t.ElementType); ok {
			return name + "Array", true
		}
	case *model.MapType:
		if name, ok := primitiveName(t.ElementType); ok {
			return name + "Map", true
		}
	}
	return "", false
}

// componentOutputType returns the output type of the struct field that holds a component output.
func (g *generator) componentOutputType(value model.Expression) string {
	t := value.Type()
	if _, ok := t.(*model.OutputType); ok {
		name, _ := g.outputTypeName(model.ResolveOutputs(t))
		return name
	}
	t = model.ResolvePromises(t)
	if enum, ok := t.(*model.EnumType); ok {
		t = enum.ElementType
	}
	if name, ok := primitiveName(t); ok {
		return "pulumi." + name + "Output"
	}
	return "pulumi.AnyOutput"
}

func (g *generator) genComponent(w io.Writer, c *pcl.Component) {
	for _, in := range c.Inputs {
		g.genTemps(w, in.Value, "")
	}

	if g.referenced.Has(c.Name()) {
		g.Fprintf(w, "%s, err := ", g.variableName(c.Name()))
	} else {
		g.Fprintf(w, "_, err %s ", g.errAssignment())
	}
	g.markErrAssigned()

	typ := c.Definition.Type
	g.Fprintf(w, "New%s(ctx, %s, &%sArgs{\n", typ, strconv.Quote(c.LogicalName), typ)
	for _, in := range c.Inputs {
		g.Fprintf(w, "%s: ", componentField(in.Name))
		g.genInput(w, in.Value)
		g.Fprint(w, ",\n")
	}
	g.Fprint(w, "}")
	g.genResourceOptions(w, c.Options)
	g.Fprint(w, ")\n")
	g.genErrCheck(w)
}

// genComponentInput binds an input of a component to a local output.
func (g *generator) genComponentInput(w io.Writer, v *pcl.ConfigVariable) {
	typ, ok := componentInputType(v.ConfigType)
	if !ok {
		g.diagnostics = append(g.diagnostics, pcl.UnsupportedConstructf(v.Range(),
			"component input %v must be a primitive or a list or map of primitives in Go", v.Name()))
		return
	}
	name, field := g.variableName(v.Name()), "args."+componentField(v.Name())
	if v.Secret {
		g.Fprintf(w, "%s := pulumi.ToSecret(%s).(pulumi.%sOutput)\n", name, field, typ)
	} else {
		g.Fprintf(w, "%s := %s.To%sOutput()\n", name, field, typ)
	}
	g.genUnused(w, v.Name(), name)
}

func (g *generator) genComponentOutput(w io.Writer, v *pcl.OutputVariable) {
	field := "componentResource." + componentField(v.Name())
	if _, isOutput := v.Value.Type().(*model.OutputType); isOutput {
		g.Fgenf(w, "%s = %v\n", field, v.Value)
		return
	}
	switch typ := g.componentOutputType(v.Value); typ {
	case "pulumi.AnyOutput":
		g.Fgenf(w, "%s = pulumi.Any(%v).ToAnyOutput()\n", field, v.Value)
	default:
		g.Fprintf(w, "%s = ", field)
		g.genInput(w, v.Value)
		g.Fprintf(w, ".To%s()\n", strings.TrimPrefix(typ, "pulumi."))
	}
}

// genComponentFile generates the file of a component type: a struct for its arguments, a resource struct with one
// field per output, and a constructor that registers the component and creates the body's resources.
func (g *generator) genComponentFile() []byte {
	def := g.component

	// The constructor declares err before the body runs.
	g.isErrAssigned = true
	var body bytes.Buffer
	for _, n := range g.program.Nodes {
		g.genNode(&body, n)
	}
	outputTypes := map[string]string{}
	for _, n := range g.program.Nodes {
		if out, ok := n.(*pcl.OutputVariable); ok {
			outputTypes[out.Name()] = g.componentOutputType(out.Value)
		}
	}

	var w bytes.Buffer
	g.genImports(&w)

	g.Fprintf(&w, "type %sArgs struct {\n", def.Type)
	for _, in := range def.Inputs {
		for _, line := range strings.Split(in.Description, "\n") {
			if line != "" {
				g.Fprintf(&w, "// %s\n", line)
			}
		}
		typ, _ := componentInputType(in.ConfigType)
		g.Fprintf(&w, "%s pulumi.%sInput\n", componentField(in.Name()), typ)
	}
	g.Fprint(&w, "}\n\n")

	g.Fprintf(&w, "type %s struct {\n", def.Type)
	g.Fprint(&w, "pulumi.ResourceState\n")
	if len(def.Outputs) > 0 {
		g.Fprint(&w, "\n")
	}
	for _, out := range def.Outputs {
		g.Fprintf(&w, "%s %s\n", componentField(out.Name()), outputTypes[out.Name()])
	}
	g.Fprint(&w, "}\n\n")

	g.Fprintf(&w, "func New%s(ctx *pulumi.Context, name string, args *%sArgs, opts ...pulumi.ResourceOption) (*%s, error) {\n",
		def.Type, def.Type, def.Type)
	g.Fprintf(&w, "var componentResource %s\n", def.Type)
	g.Fprintf(&w, "err := ctx.RegisterComponentResource(%s, name, &componentResource, opts...)\n",
		strconv.Quote(def.Token))
	g.genErrCheck(&w)
	w.Write(body.Bytes())

	g.Fprint(&w, "if err := ctx.RegisterResourceOutputs(&componentResource, pulumi.Map{\n")
	for _, out := range def.Outputs {
		g.Fprintf(&w, "%s: componentResource.%s,\n", strconv.Quote(out.Name()), componentField(out.Name()))
	}
	g.Fprint(&w, "}); err != nil {\n")
	g.Fprint(&w, "return nil, err\n")
	g.Fprint(&w, "}\n")
	g.Fprint(&w, "return &componentResource, nil\n")
	g.Fprint(&w, "}\n")

	logging.V(7).Infof("generated the %v component for %d declarations", def.Type, len(g.program.Nodes))
	return w.Bytes()
}
