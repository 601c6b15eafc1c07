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
	"fmt"
	"sort"
	"unicode"
)

type StringSet map[string]struct{}

func NewStringSet(values ...string) StringSet {
	s := StringSet{}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

func (ss StringSet) Add(s string) {
	ss[s] = struct{}{}
}

func (ss StringSet) Any() bool {
	return len(ss) > 0
}

func (ss StringSet) Has(s string) bool {
	_, ok := ss[s]
	return ok
}

func (ss StringSet) SortedValues() []string {
	values := make([]string, 0, len(ss))
	for v := range ss {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

func (ss StringSet) Union(other StringSet) StringSet {
	result := NewStringSet()
	for v := range ss {
		result.Add(v)
	}
	for v := range other {
		result.Add(v)
	}
	return result
}

var commonEnumNameReplacements = map[string]string{
	"*": "Asterisk",
	"0": "Zero",
	"1": "One",
	"2": "Two",
	"3": "Three",
	"4": "Four",
	"5": "Five",
	"6": "Six",
	"7": "Seven",
	"8": "Eight",
	"9": "Nine",
}

func ExpandShortEnumName(name string) string {
	if replacement, ok := commonEnumNameReplacements[name]; ok {
		return replacement
	}
	return name
}

// NameTable assigns each declaration a unique identifier in a target language. Identifiers are derived from the
// declared name by the table's format function. An identifier that is already taken or reserved gets the smallest
// numeric suffix that makes it unique. Assigning names in document order therefore produces the same identifiers
// for the same program every time.
type NameTable struct {
	format   func(string) string
	reserved StringSet
	used     StringSet
	assigned map[string]string
}

// NewNameTable creates a name table. Reserved words are never assigned.
func NewNameTable(format func(string) string, reserved StringSet) *NameTable {
	if reserved == nil {
		reserved = NewStringSet()
	}
	return &NameTable{
		format:   format,
		reserved: reserved,
		used:     NewStringSet(),
		assigned: map[string]string{},
	}
}

// Assign returns the identifier of the named declaration, assigning one if necessary.
func (t *NameTable) Assign(name string) string {
	if ident, ok := t.assigned[name]; ok {
		return ident
	}
	ident := t.Fresh(name)
	t.assigned[name] = ident
	return ident
}

// Lookup returns the identifier previously assigned to the named declaration.
func (t *NameTable) Lookup(name string) (string, bool) {
	ident, ok := t.assigned[name]
	return ident, ok
}

// Taken returns true if the identifier is reserved or assigned.
func (t *NameTable) Taken(ident string) bool {
	return t.used.Has(ident) || t.reserved.Has(ident)
}

// Fresh returns a new identifier derived from base that is not bound to any declaration.
func (t *NameTable) Fresh(base string) string {
	root := t.format(base)
	if root == "" {
		root = "_"
	}
	ident := root
	for i := 1; t.Taken(ident); i++ {
		ident = fmt.Sprintf("%v%d", root, i)
	}
	t.used.Add(ident)
	return ident
}

// Title capitalizes the first letter of s.
func Title(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Camel lower-cases the first letter of s.
func Camel(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
