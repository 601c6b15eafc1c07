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
	"strings"

	"github.com/blang/semver"
	"github.com/segmentio/encoding/json"
)

// Type represents a datatype in the package schema.
type Type interface {
	String() string

	isType()
}

type primitiveType string

func (t primitiveType) String() string {
	return string(t)
}

func (primitiveType) isType() {}

var (
	// BoolType represents the set of boolean values.
	BoolType Type = primitiveType("boolean")
	// IntType represents the set of 32-bit integer values.
	IntType Type = primitiveType("integer")
	// NumberType represents the set of IEEE754 double-precision values.
	NumberType Type = primitiveType("number")
	// StringType represents the set of UTF-8 string values.
	StringType Type = primitiveType("string")
	// AnyType represents any value. Archives and assets are also represented as AnyType.
	AnyType Type = primitiveType("pulumi:pulumi:Any")
)

// ArrayType represents arrays of particular element types.
type ArrayType struct {
	ElementType Type
}

func (t *ArrayType) String() string {
	return fmt.Sprintf("array<%v>", t.ElementType)
}

func (*ArrayType) isType() {}

// MapType represents maps from strings to particular element types.
type MapType struct {
	ElementType Type
}

func (t *MapType) String() string {
	return fmt.Sprintf("map<%v>", t.ElementType)
}

func (*MapType) isType() {}

// Enum contains information about a single enum value.
type Enum struct {
	// Name is the name of the enum member, if any.
	Name string
	// Value is the value of the enum member.
	Value interface{}
}

// EnumType represents a named set of values of a primitive type.
type EnumType struct {
	Package *Package
	// Token is the type's Pulumi type token.
	Token string
	// ElementType is the underlying primitive type.
	ElementType Type
	Elements    []*Enum
}

func (t *EnumType) String() string {
	return t.Token
}

func (*EnumType) isType() {}

// Element returns the enum member with the given value.
func (t *EnumType) Element(value interface{}) (*Enum, bool) {
	for _, e := range t.Elements {
		if fmt.Sprint(e.Value) == fmt.Sprint(value) {
			return e, true
		}
	}
	return nil, false
}

// ObjectType represents an object with a fixed set of properties.
type ObjectType struct {
	Package *Package
	// Token is the type's Pulumi type token. Anonymous objects such as invoke arguments have no token.
	Token      string
	Properties []*Property

	properties map[string]*Property
}

func (t *ObjectType) String() string {
	if t.Token != "" {
		return t.Token
	}
	names := make([]string, len(t.Properties))
	for i, p := range t.Properties {
		names[i] = p.Name
	}
	return fmt.Sprintf("object{%v}", strings.Join(names, ", "))
}

func (*ObjectType) isType() {}

// Property returns the property with the given name.
func (t *ObjectType) Property(name string) (*Property, bool) {
	p, ok := t.properties[name]
	return p, ok
}

// Property describes an object or resource property.
type Property struct {
	Name        string
	Description string
	Type        Type
	// Secret is true if the property is secret.
	Secret bool
}

// Member is a resource or function defined by a package schema.
type Member interface {
	// DefiningPackage returns the package that defines the member.
	DefiningPackage() *Package
	// TypeToken returns the member's type token.
	TypeToken() string

	isMember()
}

// Resource describes a resource.
type Resource struct {
	Package *Package
	// Token is the resource's Pulumi type token.
	Token       string
	Description string
	// InputProperties is the list of the resource's input properties.
	InputProperties []*Property
	// Properties is the list of the resource's output properties. The list includes id and urn.
	Properties []*Property
	// IsProvider is true if the resource is a provider resource.
	IsProvider bool

	inputs  map[string]*Property
	outputs map[string]*Property
}

func (r *Resource) DefiningPackage() *Package { return r.Package }
func (r *Resource) TypeToken() string         { return r.Token }
func (*Resource) isMember()                   {}

// InputProperty returns the input property with the given name.
func (r *Resource) InputProperty(name string) (*Property, bool) {
	p, ok := r.inputs[name]
	return p, ok
}

// Property returns the output property with the given name.
func (r *Resource) Property(name string) (*Property, bool) {
	p, ok := r.outputs[name]
	return p, ok
}

// Function describes a function that can be invoked.
type Function struct {
	Package *Package
	// Token is the function's Pulumi type token.
	Token       string
	Description string
	// Inputs is the bag of input values for the function, if any.
	Inputs *ObjectType
	// Outputs is the bag of output values for the function, if any.
	Outputs *ObjectType
}

func (f *Function) DefiningPackage() *Package { return f.Package }
func (f *Function) TypeToken() string         { return f.Token }
func (*Function) isMember()                   {}

// Package describes a Pulumi package.
type Package struct {
	// Name is the unqualified name of the package (e.g. "aws", "azure-native").
	Name string
	// Version is the version of the package, if any.
	Version     *semver.Version
	Description string
	// Provider is the provider resource of the package.
	Provider  *Resource
	Resources []*Resource
	Functions []*Function
	// Language holds the raw language-specific information for the package.
	Language map[string]json.RawMessage

	resourceTable map[string]*Resource
	functionTable map[string]*Function
}

// GetResource returns the resource with the given token.
func (pkg *Package) GetResource(token string) (*Resource, bool) {
	r, ok := pkg.resourceTable[token]
	return r, ok
}

// GetFunction returns the function with the given token.
func (pkg *Package) GetFunction(token string) (*Function, bool) {
	f, ok := pkg.functionTable[token]
	return f, ok
}

// LanguageInfo decodes the language-specific information for the given language into info. The info is left
// untouched if the package has no information for that language.
func (pkg *Package) LanguageInfo(language string, info interface{}) error {
	raw, ok := pkg.Language[language]
	if !ok {
		return nil
	}
	return json.Unmarshal([]byte(raw), info)
}

// TokenToModule returns the module name for a member token. Submodule paths ("s3/bucket") are reduced to their
// first element and the "index" module is reported as the empty string.
func (pkg *Package) TokenToModule(token string) string {
	_, module, _, err := DecomposeToken(token)
	if err != nil {
		return ""
	}
	if i := strings.Index(module, "/"); i != -1 {
		module = module[:i]
	}
	if module == "index" {
		return ""
	}
	return module
}

// DecomposeToken splits a token of the form "pkg:module:Member" into its parts.
func DecomposeToken(token string) (pkg, module, member string, err error) {
	components := strings.Split(token, ":")
	if len(components) != 3 {
		return "", "", "", fmt.Errorf("invalid token '%s'", token)
	}
	return components[0], components[1], components[2], nil
}
