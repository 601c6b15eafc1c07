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

package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringSet(t *testing.T) {
	t.Parallel()

	set1234 := NewStringSet("1", "2", "3", "4")
	set125 := NewStringSet("1", "2", "5")

	assert.True(t, set1234.Any())
	assert.False(t, NewStringSet().Any())
	assert.True(t, set125.Has("5"))
	assert.False(t, set125.Has("3"))
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, set1234.Union(set125).SortedValues())
	assert.Equal(t, []string{"1", "2", "3", "4"}, set1234.SortedValues())
}

func TestNameTable(t *testing.T) {
	t.Parallel()

	names := NewNameTable(Camel, NewStringSet("this", "range"))

	assert.Equal(t, "storage", names.Assign("Storage"))
	assert.Equal(t, "storage1", names.Assign("storage"))
	assert.Equal(t, "storage", names.Assign("Storage"))
	assert.Equal(t, "this1", names.Assign("this"))
	assert.Equal(t, "range1", names.Fresh("range"))
	assert.Equal(t, "range2", names.Fresh("range"))

	ident, ok := names.Lookup("storage")
	assert.True(t, ok)
	assert.Equal(t, "storage1", ident)

	_, ok = names.Lookup("missing")
	assert.False(t, ok)
}

func TestCasing(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Name", Title("name"))
	assert.Equal(t, "", Title(""))
	assert.Equal(t, "name", Camel("Name"))
	assert.Equal(t, "Asterisk", ExpandShortEnumName("*"))
	assert.Equal(t, "Standard", ExpandShortEnumName("Standard"))
}
