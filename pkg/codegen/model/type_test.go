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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversionFrom(t *testing.T) {
	t.Parallel()

	object := NewObjectType(map[string]Type{"name": StringType, "size": IntType})

	cases := []struct {
		dest, src Type
		kind      ConversionKind
	}{
		{StringType, StringType, SafeConversion},
		{NumberType, IntType, SafeConversion},
		{IntType, NumberType, NoConversion},
		{StringType, NumberType, NoConversion},
		{StringType, BoolType, NoConversion},
		{StringType, DynamicType, UnsafeConversion},
		{DynamicType, NewListType(StringType), SafeConversion},
		{NewListType(StringType), StringType, NoConversion},
		{NewListType(NumberType), NewListType(IntType), SafeConversion},
		{NewMapType(StringType), NewObjectType(map[string]Type{"a": StringType}), SafeConversion},
		{NewMapType(StringType), NewObjectType(map[string]Type{"a": BoolType}), NoConversion},
		{object, NewObjectType(map[string]Type{"name": StringType}), SafeConversion},
		{object, NewObjectType(map[string]Type{"other": StringType}), NoConversion},
		{NewOutputType(StringType), StringType, SafeConversion},
		{NewOutputType(StringType), NewPromiseType(StringType), SafeConversion},
		{NewPromiseType(StringType), NewOutputType(StringType), NoConversion},
		{&EnumType{Token: "pkg:mod:Kind", ElementType: StringType}, StringType, SafeConversion},
		{StringType, &EnumType{Token: "pkg:mod:Kind", ElementType: StringType}, SafeConversion},
		{StringType, NoneType, SafeConversion},
	}
	for _, c := range cases {
		assert.Equal(t, c.kind, c.dest.ConversionFrom(c.src), "%v from %v", c.dest, c.src)
	}
}

func TestResolveOutputs(t *testing.T) {
	t.Parallel()

	resource := NewObjectType(map[string]Type{
		"id":   NewOutputType(StringType),
		"tags": NewOutputType(NewMapType(StringType)),
	})
	assert.True(t, ContainsOutputs(resource))
	assert.False(t, IsEventual(resource))

	resolved := ResolveOutputs(resource)
	assert.True(t, resolved.Equals(NewObjectType(map[string]Type{
		"id":   StringType,
		"tags": NewMapType(StringType),
	})))

	promise := NewPromiseType(NewObjectType(map[string]Type{"tenantId": StringType}))
	outputs, promises := ContainsEventuals(promise)
	assert.False(t, outputs)
	assert.True(t, promises)
	assert.True(t, IsEventual(promise))
}

func TestLiftOperationType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, StringType, LiftOperationType(StringType, StringType, IntType))
	assert.True(t, LiftOperationType(StringType, NewPromiseType(StringType)).Equals(NewPromiseType(StringType)))
	assert.True(t, LiftOperationType(StringType, NewPromiseType(StringType), NewOutputType(IntType)).
		Equals(NewOutputType(StringType)))
}

func TestUnifyTypes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, NoneType, UnifyTypes())
	assert.Equal(t, StringType, UnifyTypes(StringType, StringType))
	assert.Equal(t, NumberType, UnifyTypes(IntType, NumberType))
	assert.Equal(t, DynamicType, UnifyTypes(StringType, BoolType))
	assert.Equal(t, StringType, UnifyTypes(NoneType, StringType))
	assert.True(t, UnifyTypes(StringType, NewOutputType(StringType)).Equals(NewOutputType(StringType)))
}
