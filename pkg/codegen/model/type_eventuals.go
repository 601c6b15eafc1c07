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

package model

import "fmt"

// OutputType represents eventual values that carry additional application-specific information, such as whether
// the value is known or secret.
type OutputType struct {
	// ElementType is the element type of the output.
	ElementType Type
}

// NewOutputType creates a new output type with the given element type after replacing any output or promise types
// within the element type with their respective element types.
func NewOutputType(elementType Type) *OutputType {
	return &OutputType{ElementType: ResolveOutputs(elementType)}
}

func (t *OutputType) Equals(other Type) bool {
	o, ok := other.(*OutputType)
	return ok && t.ElementType.Equals(o.ElementType)
}

// ConversionFrom accepts any type whose resolved form is convertible to the element type.
func (t *OutputType) ConversionFrom(src Type) ConversionKind {
	return conversionFrom(t, src, func() ConversionKind {
		return t.ElementType.ConversionFrom(ResolveOutputs(src))
	})
}

func (t *OutputType) String() string { return fmt.Sprintf("output(%v)", t.ElementType) }
func (*OutputType) isType()          {}

// PromiseType represents eventual values that do not carry additional information.
type PromiseType struct {
	// ElementType is the element type of the promise.
	ElementType Type
}

// NewPromiseType creates a new promise type with the given element type after replacing any promise types within
// the element type with their respective element types.
func NewPromiseType(elementType Type) *PromiseType {
	return &PromiseType{ElementType: ResolvePromises(elementType)}
}

func (t *PromiseType) Equals(other Type) bool {
	o, ok := other.(*PromiseType)
	return ok && t.ElementType.Equals(o.ElementType)
}

// ConversionFrom accepts any type without outputs whose resolved form is convertible to the element type.
func (t *PromiseType) ConversionFrom(src Type) ConversionKind {
	return conversionFrom(t, src, func() ConversionKind {
		if ContainsOutputs(src) {
			return NoConversion
		}
		return t.ElementType.ConversionFrom(ResolvePromises(src))
	})
}

func (t *PromiseType) String() string { return fmt.Sprintf("promise(%v)", t.ElementType) }
func (*PromiseType) isType()          {}

type typeTransform int

var (
	makeIdentity = typeTransform(0)
	makePromise  = typeTransform(1)
	makeOutput   = typeTransform(2)
)

func (f typeTransform) do(t Type) Type {
	switch f {
	case makePromise:
		return NewPromiseType(t)
	case makeOutput:
		return NewOutputType(t)
	default:
		return t
	}
}

func resolveEventuals(t Type, resolveOutputs bool) (Type, typeTransform) {
	switch t := t.(type) {
	case *OutputType:
		if resolveOutputs {
			return t.ElementType, makeOutput
		}
		return t, makeIdentity
	case *PromiseType:
		element, transform := resolveEventuals(t.ElementType, resolveOutputs)
		if makePromise > transform {
			transform = makePromise
		}
		return element, transform
	case *MapType:
		resolved, transform := resolveEventuals(t.ElementType, resolveOutputs)
		return NewMapType(resolved), transform
	case *ListType:
		resolved, transform := resolveEventuals(t.ElementType, resolveOutputs)
		return NewListType(resolved), transform
	case *ObjectType:
		transform := makeIdentity
		properties := map[string]Type{}
		for k, t := range t.Properties {
			property, propertyTransform := resolveEventuals(t, resolveOutputs)
			if propertyTransform > transform {
				transform = propertyTransform
			}
			properties[k] = property
		}
		return NewObjectType(properties, t.Annotations...), transform
	default:
		return t, makeIdentity
	}
}

// ResolveOutputs recursively replaces all output(T) and promise(T) types in the input type with their element type.
func ResolveOutputs(t Type) Type {
	containsOutputs, containsPromises := ContainsEventuals(t)
	if !containsOutputs && !containsPromises {
		return t
	}

	resolved, _ := resolveEventuals(t, true)
	return resolved
}

// ResolvePromises recursively replaces all promise(T) types in the input type with their element type.
func ResolvePromises(t Type) Type {
	if !ContainsPromises(t) {
		return t
	}

	resolved, _ := resolveEventuals(t, false)
	return resolved
}

// ContainsEventuals returns true if the input type contains output or promise types.
func ContainsEventuals(t Type) (containsOutputs, containsPromises bool) {
	switch t := t.(type) {
	case *OutputType:
		return true, false
	case *PromiseType:
		return ContainsOutputs(t.ElementType), true
	case *MapType:
		return ContainsEventuals(t.ElementType)
	case *ListType:
		return ContainsEventuals(t.ElementType)
	case *ObjectType:
		for _, t := range t.Properties {
			outputs, promises := ContainsEventuals(t)
			containsOutputs = outputs || containsOutputs
			containsPromises = promises || containsPromises
		}
		return containsOutputs, containsPromises
	default:
		return false, false
	}
}

// ContainsOutputs returns true if the input type contains output types.
func ContainsOutputs(t Type) bool {
	containsOutputs, _ := ContainsEventuals(t)
	return containsOutputs
}

// ContainsPromises returns true if the input type contains promise types.
func ContainsPromises(t Type) bool {
	_, containsPromises := ContainsEventuals(t)
	return containsPromises
}

// IsEventual returns true if the type itself, rather than some component of it, is an output or a promise.
func IsEventual(t Type) bool {
	switch t.(type) {
	case *OutputType, *PromiseType:
		return true
	default:
		return false
	}
}

// LiftOperationType computes the type of an operation that accepts the resolved form of each argument and
// produces resultType: output(resultType) if any argument contains outputs, promise(resultType) if any argument
// contains promises, and resultType otherwise.
func LiftOperationType(resultType Type, args ...Type) Type {
	var transform typeTransform
	for _, t := range args {
		_, tr := resolveEventuals(t, true)
		if tr > transform {
			transform = tr
		}
	}
	return transform.do(resultType)
}
