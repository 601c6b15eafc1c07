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
	"github.com/segmentio/encoding/json"
)

// TypeSpec is the serializable form of a reference to a type.
type TypeSpec struct {
	// Type is the primitive or composite type, if any. May be "boolean", "integer", "number", "string",
	// "array", or "object".
	Type string `json:"type,omitempty"`
	// Ref is a reference to a type in this or another document. For example, the built-in Any type is referred
	// to as "pulumi.json#/Any", while package types are referred to as "#/types/pkg:module:Type".
	Ref string `json:"$ref,omitempty"`
	// AdditionalProperties, if set, describes the element type of an "object" (i.e. a string -> value map).
	AdditionalProperties *TypeSpec `json:"additionalProperties,omitempty"`
	// Items, if set, describes the element type of an array.
	Items *TypeSpec `json:"items,omitempty"`
}

// PropertySpec is the serializable form of an object or resource property.
type PropertySpec struct {
	TypeSpec

	Description string `json:"description,omitempty"`
	Secret      bool   `json:"secret,omitempty"`
}

// ObjectTypeSpec is the serializable form of an object type.
type ObjectTypeSpec struct {
	Description string                  `json:"description,omitempty"`
	Properties  map[string]PropertySpec `json:"properties,omitempty"`
	// Type must be "object" if this is an object type, or the underlying type for an enum.
	Type     string   `json:"type,omitempty"`
	Required []string `json:"required,omitempty"`
}

// EnumValueSpec is the serializable form of the values metadata associated with an enum type.
type EnumValueSpec struct {
	Name        string      `json:"name,omitempty"`
	Description string      `json:"description,omitempty"`
	Value       interface{} `json:"value"`
}

// ComplexTypeSpec is the serializable form of an object or enum type.
type ComplexTypeSpec struct {
	ObjectTypeSpec

	// Enum, if present, is the list of possible values for an enum type.
	Enum []EnumValueSpec `json:"enum,omitempty"`
}

// ResourceSpec is the serializable form of a resource description.
type ResourceSpec struct {
	ObjectTypeSpec

	InputProperties map[string]PropertySpec `json:"inputProperties,omitempty"`
	RequiredInputs  []string                `json:"requiredInputs,omitempty"`
}

// FunctionSpec is the serializable form of a function description.
type FunctionSpec struct {
	Description string          `json:"description,omitempty"`
	Inputs      *ObjectTypeSpec `json:"inputs,omitempty"`
	Outputs     *ObjectTypeSpec `json:"outputs,omitempty"`
}

// PackageSpec is the serializable description of a Pulumi package.
type PackageSpec struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`

	Language  map[string]json.RawMessage `json:"language,omitempty"`
	Provider  ResourceSpec               `json:"provider,omitempty"`
	Resources map[string]ResourceSpec    `json:"resources,omitempty"`
	Functions map[string]FunctionSpec    `json:"functions,omitempty"`
	Types     map[string]ComplexTypeSpec `json:"types,omitempty"`
}
