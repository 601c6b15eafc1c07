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

package schema

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/blang/semver"
	"github.com/hashicorp/hcl/v2"
)

func memberPath(section, token string, rest ...string) string {
	path := fmt.Sprintf("#/%v/%v", section, url.PathEscape(token))
	if len(rest) != 0 {
		path += "/" + strings.Join(rest, "/")
	}
	return path
}

func errorf(path, message string, args ...interface{}) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  path + ": " + fmt.Sprintf(message, args...),
	}
}

type types struct {
	pkg     *Package
	spec    PackageSpec
	objects map[string]*ObjectType
	enums   map[string]*EnumType
}

// ImportSpec converts a serializable PackageSpec into a Package.
func ImportSpec(spec PackageSpec) (*Package, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	pkg := &Package{
		Name:          spec.Name,
		Description:   spec.Description,
		Language:      spec.Language,
		resourceTable: map[string]*Resource{},
		functionTable: map[string]*Function{},
	}
	if spec.Name == "" {
		diags = append(diags, errorf("#/name", "no name provided"))
	}
	if spec.Version != "" {
		version, err := semver.ParseTolerant(spec.Version)
		if err != nil {
			diags = append(diags, errorf("#/version", "failed to parse semver: %v", err))
		} else {
			pkg.Version = &version
		}
	}

	ts := &types{
		pkg:     pkg,
		spec:    spec,
		objects: map[string]*ObjectType{},
		enums:   map[string]*EnumType{},
	}

	// Declare every named type before binding any property so that types may refer to each other.
	for _, token := range sortedKeys(spec.Types) {
		t := spec.Types[token]
		if len(t.Enum) != 0 {
			ts.enums[token] = &EnumType{Package: pkg, Token: token}
		} else {
			ts.objects[token] = &ObjectType{Package: pkg, Token: token}
		}
	}
	for _, token := range sortedKeys(spec.Types) {
		t := spec.Types[token]
		path := memberPath("types", token)
		if enum, ok := ts.enums[token]; ok {
			diags = append(diags, ts.bindEnum(path, enum, t)...)
			continue
		}
		props, propDiags := ts.bindProperties(path+"/properties", t.Properties)
		diags = append(diags, propDiags...)
		ts.objects[token].Properties = props
		ts.objects[token].properties = propertyTable(props)
	}

	provider, providerDiags := ts.bindResource("pulumi:providers:"+spec.Name, spec.Provider, true)
	diags = append(diags, providerDiags...)
	pkg.Provider = provider
	pkg.resourceTable[provider.Token] = provider

	for _, token := range sortedKeys(spec.Resources) {
		r, resDiags := ts.bindResource(token, spec.Resources[token], false)
		diags = append(diags, resDiags...)
		pkg.Resources = append(pkg.Resources, r)
		pkg.resourceTable[token] = r
	}

	for _, token := range sortedKeys(spec.Functions) {
		f, fnDiags := ts.bindFunction(token, spec.Functions[token])
		diags = append(diags, fnDiags...)
		pkg.Functions = append(pkg.Functions, f)
		pkg.functionTable[token] = f
	}

	return pkg, diags
}

func (ts *types) bindEnum(path string, enum *EnumType, spec ComplexTypeSpec) hcl.Diagnostics {
	var diags hcl.Diagnostics
	switch spec.Type {
	case "boolean":
		enum.ElementType = BoolType
	case "integer":
		enum.ElementType = IntType
	case "number":
		enum.ElementType = NumberType
	case "string", "":
		enum.ElementType = StringType
	default:
		diags = append(diags, errorf(path+"/type", "enums may only be of type string, integer, number or boolean"))
		enum.ElementType = StringType
	}
	for _, e := range spec.Enum {
		enum.Elements = append(enum.Elements, &Enum{Name: e.Name, Value: e.Value})
	}
	return diags
}

func (ts *types) bindResource(token string, spec ResourceSpec, isProvider bool) (*Resource, hcl.Diagnostics) {
	path := memberPath("resources", token)
	if isProvider {
		path = "#/provider"
	}

	inputs, diags := ts.bindProperties(path+"/inputProperties", spec.InputProperties)
	outputs, outputDiags := ts.bindProperties(path+"/properties", spec.Properties)
	diags = append(diags, outputDiags...)

	// Every resource has an id and a urn, whether or not the schema lists them.
	outputTable := propertyTable(outputs)
	for _, name := range []string{"id", "urn"} {
		if _, ok := outputTable[name]; !ok {
			p := &Property{Name: name, Type: StringType}
			outputs = append(outputs, p)
			outputTable[name] = p
		}
	}

	return &Resource{
		Package:         ts.pkg,
		Token:           token,
		Description:     spec.Description,
		InputProperties: inputs,
		Properties:      outputs,
		IsProvider:      isProvider,
		inputs:          propertyTable(inputs),
		outputs:         outputTable,
	}, diags
}

func (ts *types) bindFunction(token string, spec FunctionSpec) (*Function, hcl.Diagnostics) {
	path := memberPath("functions", token)
	var diags hcl.Diagnostics

	f := &Function{Package: ts.pkg, Token: token, Description: spec.Description}
	if spec.Inputs != nil {
		props, propDiags := ts.bindProperties(path+"/inputs/properties", spec.Inputs.Properties)
		diags = append(diags, propDiags...)
		f.Inputs = &ObjectType{Package: ts.pkg, Properties: props, properties: propertyTable(props)}
	}
	if spec.Outputs != nil {
		props, propDiags := ts.bindProperties(path+"/outputs/properties", spec.Outputs.Properties)
		diags = append(diags, propDiags...)
		f.Outputs = &ObjectType{Package: ts.pkg, Properties: props, properties: propertyTable(props)}
	}
	return f, diags
}

func (ts *types) bindProperties(path string, specs map[string]PropertySpec) ([]*Property, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	props := make([]*Property, 0, len(specs))
	for _, name := range sortedKeys(specs) {
		spec := specs[name]
		t, typeDiags := ts.bindType(path+"/"+name, spec.TypeSpec)
		diags = append(diags, typeDiags...)
		props = append(props, &Property{
			Name:        name,
			Description: spec.Description,
			Type:        t,
			Secret:      spec.Secret,
		})
	}
	return props, diags
}

func (ts *types) bindType(path string, spec TypeSpec) (Type, hcl.Diagnostics) {
	if spec.Ref != "" {
		return ts.bindTypeRef(path+"/$ref", spec.Ref)
	}

	switch spec.Type {
	case "boolean":
		return BoolType, nil
	case "integer":
		return IntType, nil
	case "number":
		return NumberType, nil
	case "string":
		return StringType, nil
	case "array":
		if spec.Items == nil {
			return &ArrayType{ElementType: AnyType}, hcl.Diagnostics{errorf(path, "missing \"items\" property")}
		}
		element, diags := ts.bindType(path+"/items", *spec.Items)
		return &ArrayType{ElementType: element}, diags
	case "object":
		if spec.AdditionalProperties == nil {
			return &MapType{ElementType: AnyType}, nil
		}
		element, diags := ts.bindType(path+"/additionalProperties", *spec.AdditionalProperties)
		return &MapType{ElementType: element}, diags
	case "":
		return AnyType, hcl.Diagnostics{errorf(path, "missing \"type\" or \"$ref\" property")}
	default:
		return AnyType, hcl.Diagnostics{errorf(path+"/type", "unknown primitive type %v", spec.Type)}
	}
}

func (ts *types) bindTypeRef(path, ref string) (Type, hcl.Diagnostics) {
	switch ref {
	case "pulumi.json#/Any", "pulumi.json#/Json", "pulumi.json#/Archive", "pulumi.json#/Asset":
		return AnyType, nil
	}

	token, ok := strings.CutPrefix(ref, "#/types/")
	if !ok {
		return AnyType, hcl.Diagnostics{errorf(path, "only local type references are supported, not %v", ref)}
	}
	token, err := url.PathUnescape(token)
	if err != nil {
		return AnyType, hcl.Diagnostics{errorf(path, "failed to unescape type token: %v", err)}
	}
	if t, ok := ts.objects[token]; ok {
		return t, nil
	}
	if t, ok := ts.enums[token]; ok {
		return t, nil
	}
	return AnyType, hcl.Diagnostics{errorf(path, "type %v not found in package %v", token, ts.pkg.Name)}
}

func propertyTable(props []*Property) map[string]*Property {
	table := make(map[string]*Property, len(props))
	for _, p := range props {
		table[p.Name] = p
	}
	return table
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
