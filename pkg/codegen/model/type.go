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

// Package model defines the bound representation of a program: types and typed expressions.
package model

import (
	"fmt"
	"sort"
	"strings"
)

type ConversionKind int

const (
	NoConversion     ConversionKind = 0
	UnsafeConversion ConversionKind = 1
	SafeConversion   ConversionKind = 2
)

func (k ConversionKind) Exists() bool {
	return k > NoConversion && k <= SafeConversion
}

// Type represents the type of a bound expression. Types created by this package are identical if they are
// equal values.
type Type interface {
	Equals(other Type) bool
	// ConversionFrom returns the kind of conversion, if any, that is possible from src to this type.
	ConversionFrom(src Type) ConversionKind
	String() string

	isType()
}

var (
	// NoneType represents the undefined value.
	NoneType Type = noneType(0)
	// BoolType represents the set of boolean values.
	BoolType Type = &OpaqueType{Name: "boolean"}
	// IntType represents the set of 32-bit integer values.
	IntType Type = &OpaqueType{Name: "int"}
	// NumberType represents the set of arbitrary-precision values.
	NumberType Type = &OpaqueType{Name: "number"}
	// StringType represents the set of UTF-8 string values.
	StringType Type = &OpaqueType{Name: "string"}
	// DynamicType represents the set of all values.
	DynamicType Type = &OpaqueType{Name: "dynamic"}
)

func conversionFrom(dest, src Type, impl func() ConversionKind) ConversionKind {
	if dest.Equals(src) || dest == DynamicType {
		return SafeConversion
	}
	switch src {
	case DynamicType:
		return UnsafeConversion
	case NoneType:
		return SafeConversion
	}
	return impl()
}

type noneType int

func (noneType) Equals(other Type) bool { return other == NoneType }

func (noneType) ConversionFrom(src Type) ConversionKind {
	if src == NoneType {
		return SafeConversion
	}
	return NoConversion
}

func (noneType) String() string { return "none" }
func (noneType) isType()        {}

// OpaqueType represents a primitive type. There is exactly one OpaqueType value per primitive.
type OpaqueType struct {
	Name string
}

func (t *OpaqueType) Equals(other Type) bool {
	return t == other
}

// ConversionFrom permits int to number. Every other primitive pairing is not convertible.
func (t *OpaqueType) ConversionFrom(src Type) ConversionKind {
	return conversionFrom(t, src, func() ConversionKind {
		if t == NumberType && src == IntType {
			return SafeConversion
		}
		if enum, ok := src.(*EnumType); ok {
			return t.ConversionFrom(enum.ElementType)
		}
		return NoConversion
	})
}

func (t *OpaqueType) String() string { return t.Name }
func (*OpaqueType) isType()          {}

// ListType represents lists of particular element types.
type ListType struct {
	ElementType Type
}

// NewListType creates a new list type with the given element type.
func NewListType(elementType Type) *ListType {
	return &ListType{ElementType: elementType}
}

func (t *ListType) Equals(other Type) bool {
	o, ok := other.(*ListType)
	return ok && t.ElementType.Equals(o.ElementType)
}

func (t *ListType) ConversionFrom(src Type) ConversionKind {
	return conversionFrom(t, src, func() ConversionKind {
		if src, ok := src.(*ListType); ok {
			return t.ElementType.ConversionFrom(src.ElementType)
		}
		return NoConversion
	})
}

func (t *ListType) String() string { return fmt.Sprintf("list(%v)", t.ElementType) }
func (*ListType) isType()          {}

// MapType represents maps from strings to particular element types.
type MapType struct {
	ElementType Type
}

// NewMapType creates a new map type with the given element type.
func NewMapType(elementType Type) *MapType {
	return &MapType{ElementType: elementType}
}

func (t *MapType) Equals(other Type) bool {
	o, ok := other.(*MapType)
	return ok && t.ElementType.Equals(o.ElementType)
}

// ConversionFrom accepts maps with convertible elements and objects whose properties are all convertible to the
// element type.
func (t *MapType) ConversionFrom(src Type) ConversionKind {
	return conversionFrom(t, src, func() ConversionKind {
		switch src := src.(type) {
		case *MapType:
			return t.ElementType.ConversionFrom(src.ElementType)
		case *ObjectType:
			kind := SafeConversion
			for _, p := range src.Properties {
				if k := t.ElementType.ConversionFrom(p); k < kind {
					kind = k
				}
			}
			return kind
		}
		return NoConversion
	})
}

func (t *MapType) String() string { return fmt.Sprintf("map(%v)", t.ElementType) }
func (*MapType) isType()          {}

// ObjectType represents objects with a fixed set of properties.
type ObjectType struct {
	Properties map[string]Type
	// Annotations records information about the type, e.g. the schema it was derived from.
	Annotations []interface{}
}

// NewObjectType creates a new object type with the given properties and annotations.
func NewObjectType(properties map[string]Type, annotations ...interface{}) *ObjectType {
	return &ObjectType{Properties: properties, Annotations: annotations}
}

func (t *ObjectType) Equals(other Type) bool {
	o, ok := other.(*ObjectType)
	if !ok || len(t.Properties) != len(o.Properties) {
		return false
	}
	for k, p := range t.Properties {
		op, ok := o.Properties[k]
		if !ok || !p.Equals(op) {
			return false
		}
	}
	return true
}

// ConversionFrom accepts objects whose properties all exist in this type and are convertible, and maps whose
// elements are convertible to every property of this type.
func (t *ObjectType) ConversionFrom(src Type) ConversionKind {
	return conversionFrom(t, src, func() ConversionKind {
		kind := SafeConversion
		switch src := src.(type) {
		case *ObjectType:
			for k, sp := range src.Properties {
				dp, ok := t.Properties[k]
				if !ok {
					return NoConversion
				}
				if c := dp.ConversionFrom(sp); c < kind {
					kind = c
				}
			}
			return kind
		case *MapType:
			for _, dp := range t.Properties {
				if c := dp.ConversionFrom(src.ElementType); c < kind {
					kind = c
				}
			}
			if kind > UnsafeConversion {
				kind = UnsafeConversion
			}
			return kind
		}
		return NoConversion
	})
}

func (t *ObjectType) String() string {
	keys := make([]string, 0, len(t.Properties))
	for k := range t.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("object({")
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%v = %v", k, t.Properties[k])
	}
	sb.WriteString("})")
	return sb.String()
}

func (*ObjectType) isType() {}

// EnumType represents a named set of values of a primitive element type.
type EnumType struct {
	Token       string
	ElementType Type
	// Annotations records information about the type, e.g. the schema it was derived from.
	Annotations []interface{}
}

func (t *EnumType) Equals(other Type) bool {
	o, ok := other.(*EnumType)
	return ok && t.Token == o.Token
}

// ConversionFrom accepts the enum's element type. Whether a particular value is a member of the enum is checked
// when literals are bound.
func (t *EnumType) ConversionFrom(src Type) ConversionKind {
	return conversionFrom(t, src, func() ConversionKind {
		return t.ElementType.ConversionFrom(src)
	})
}

func (t *EnumType) String() string { return fmt.Sprintf("enum(%v)", t.Token) }
func (*EnumType) isType()          {}

// GetAnnotation returns the first annotation of type T, if any.
func GetAnnotation[T any](annotations []interface{}) (T, bool) {
	for _, a := range annotations {
		if v, ok := a.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// UnifyTypes chooses the most general type that is convertible from all of the input types. The result is
// DynamicType if the types have nothing in common. If any input type is itself eventual, so is the result.
func UnifyTypes(types ...Type) Type {
	if len(types) == 0 {
		return NoneType
	}

	transform, resolved := makeIdentity, make([]Type, 0, len(types))
	for _, t := range types {
		r, tr := unwrapEventual(t)
		if tr > transform {
			transform = tr
		}
		if r != NoneType {
			resolved = append(resolved, r)
		}
	}
	if len(resolved) == 0 {
		return transform.do(NoneType)
	}

	unified := resolved[0]
	for _, t := range resolved[1:] {
		switch {
		case unified.Equals(t):
		case unified.ConversionFrom(t) == SafeConversion:
		case t.ConversionFrom(unified) == SafeConversion:
			unified = t
		default:
			return transform.do(DynamicType)
		}
	}
	return transform.do(unified)
}

// unwrapEventual strips the outermost output or promise from t.
func unwrapEventual(t Type) (Type, typeTransform) {
	switch t := t.(type) {
	case *OutputType:
		return t.ElementType, makeOutput
	case *PromiseType:
		element, transform := unwrapEventual(t.ElementType)
		if makePromise > transform {
			transform = makePromise
		}
		return element, transform
	default:
		return t, makeIdentity
	}
}
