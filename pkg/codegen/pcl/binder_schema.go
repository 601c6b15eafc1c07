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
	"sort"
	"strings"

	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/model"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/schema"
	"github.com/zclconf/go-cty/cty"
)

// schemaType converts a schema type to its plain model type.
func (b *binder) schemaType(t schema.Type) model.Type {
	switch t := t.(type) {
	case *schema.ArrayType:
		return model.NewListType(b.schemaType(t.ElementType))
	case *schema.MapType:
		return model.NewMapType(b.schemaType(t.ElementType))
	case *schema.ObjectType:
		return b.objectType(t, t)
	case *schema.EnumType:
		return &model.EnumType{
			Token:       t.Token,
			ElementType: b.schemaType(t.ElementType),
			Annotations: []interface{}{t},
		}
	}

	switch t {
	case schema.BoolType:
		return model.BoolType
	case schema.IntType:
		return model.IntType
	case schema.NumberType:
		return model.NumberType
	case schema.StringType:
		return model.StringType
	default:
		return model.DynamicType
	}
}

// objectType converts a schema object type. Object types are memoized so that recursive types terminate. A nil
// object converts to an object without properties.
func (b *binder) objectType(t *schema.ObjectType, annotation interface{}) *model.ObjectType {
	if t == nil {
		return model.NewObjectType(map[string]model.Type{}, annotation)
	}
	if obj, ok := b.objectTypes[t]; ok {
		return obj
	}

	properties := map[string]model.Type{}
	obj := model.NewObjectType(properties, annotation)
	b.objectTypes[t] = obj
	for _, p := range t.Properties {
		properties[p.Name] = b.schemaType(p.Type)
	}
	return obj
}

// resourceInputType returns the plain type of a resource's inputs.
func (b *binder) resourceInputType(r *schema.Resource) *model.ObjectType {
	properties := map[string]model.Type{}
	for _, p := range r.InputProperties {
		properties[p.Name] = b.schemaType(p.Type)
	}
	return model.NewObjectType(properties, r)
}

// resourceOutputType returns the type of a resource instance. Every property of a resource is an output.
func (b *binder) resourceOutputType(r *schema.Resource) *model.ObjectType {
	properties := map[string]model.Type{}
	for _, p := range r.Properties {
		properties[p.Name] = model.NewOutputType(b.schemaType(p.Type))
	}
	return model.NewObjectType(properties, r)
}

// parseConfigType parses a configuration type: string, int, number, bool, list(T) or map(T).
func parseConfigType(s string) (model.Type, bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "string":
		return model.StringType, true
	case "int":
		return model.IntType, true
	case "number":
		return model.NumberType, true
	case "bool":
		return model.BoolType, true
	}

	for prefix, ctor := range map[string]func(model.Type) model.Type{
		"list(": func(t model.Type) model.Type { return model.NewListType(t) },
		"map(":  func(t model.Type) model.Type { return model.NewMapType(t) },
	} {
		if strings.HasPrefix(s, prefix) && strings.HasSuffix(s, ")") {
			element, ok := parseConfigType(s[len(prefix) : len(s)-1])
			if !ok || strings.TrimSpace(s[len(prefix):len(s)-1]) == "" {
				return nil, false
			}
			return ctor(element), true
		}
	}
	return nil, false
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// enumKey returns the value used to look up the enum member that a literal denotes.
func enumKey(v cty.Value) (interface{}, bool) {
	if v.IsNull() {
		return nil, false
	}
	switch v.Type() {
	case cty.String:
		return v.AsString(), true
	case cty.Number:
		return v.AsBigFloat().Text('f', -1), true
	default:
		return nil, false
	}
}

// EnumMember returns the schema enum and the member denoted by a literal of the given enum type.
func EnumMember(t *model.EnumType, v cty.Value) (*schema.EnumType, *schema.Enum, bool) {
	enum, ok := model.GetAnnotation[*schema.EnumType](t.Annotations)
	if !ok {
		return nil, nil, false
	}
	key, ok := enumKey(v)
	if !ok {
		return nil, nil, false
	}
	e, ok := enum.Element(key)
	return enum, e, ok
}
