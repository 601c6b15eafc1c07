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

package tree

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Expr is an unbound expression.
type Expr interface {
	Range() hcl.Range

	isExpr()
}

// Literal is a string, number, bool or null constant.
type Literal struct {
	Value    cty.Value
	SrcRange hcl.Range
}

// Reference names another declaration.
type Reference struct {
	Name     string
	SrcRange hcl.Range
}

// PropertyAccess reads a named property of its operand.
type PropertyAccess struct {
	Operand  Expr
	Property string
	SrcRange hcl.Range
}

// Index reads an element of a list or map.
type Index struct {
	Operand  Expr
	Key      Expr
	SrcRange hcl.Range
}

// Call invokes a builtin function. A non-nil operand is passed as the first argument, which is how method
// calls are represented.
type Call struct {
	Operand  Expr
	Function string
	Args     []Expr
	SrcRange hcl.Range
}

// Conditional selects between two values.
type Conditional struct {
	Condition Expr
	True      Expr
	False     Expr
	SrcRange  hcl.Range
}

// RangePart selects the key or the value of the current iteration.
type RangePart int

const (
	RangeKey   RangePart = 0
	RangeValue RangePart = 1
)

func (p RangePart) String() string {
	if p == RangeKey {
		return "key"
	}
	return "value"
}

// RangeBinding refers to the key or value of the iteration that encloses the expression.
type RangeBinding struct {
	Part     RangePart
	SrcRange hcl.Range
}

// Template concatenates the string forms of its parts.
type Template struct {
	Parts    []Expr
	SrcRange hcl.Range
}

// ObjectItem is a single key/value pair of an object literal.
type ObjectItem struct {
	Key   string
	Value Expr
}

// Object is an object literal. Items keep their document order.
type Object struct {
	Items    []*ObjectItem
	SrcRange hcl.Range
}

// Array is a list literal.
type Array struct {
	Items    []Expr
	SrcRange hcl.Range
}

func (x *Literal) Range() hcl.Range        { return x.SrcRange }
func (x *Reference) Range() hcl.Range      { return x.SrcRange }
func (x *PropertyAccess) Range() hcl.Range { return x.SrcRange }
func (x *Index) Range() hcl.Range          { return x.SrcRange }
func (x *Call) Range() hcl.Range           { return x.SrcRange }
func (x *Conditional) Range() hcl.Range    { return x.SrcRange }
func (x *RangeBinding) Range() hcl.Range   { return x.SrcRange }
func (x *Template) Range() hcl.Range       { return x.SrcRange }
func (x *Object) Range() hcl.Range         { return x.SrcRange }
func (x *Array) Range() hcl.Range          { return x.SrcRange }

func (*Literal) isExpr()        {}
func (*Reference) isExpr()      {}
func (*PropertyAccess) isExpr() {}
func (*Index) isExpr()          {}
func (*Call) isExpr()           {}
func (*Conditional) isExpr()    {}
func (*RangeBinding) isExpr()   {}
func (*Template) isExpr()       {}
func (*Object) isExpr()         {}
func (*Array) isExpr()          {}

// String returns a literal string expression.
func String(s string) *Literal {
	return &Literal{Value: cty.StringVal(s)}
}

// Number returns a literal number expression.
func Number(f float64) *Literal {
	return &Literal{Value: cty.NumberFloatVal(f)}
}

// Bool returns a literal bool expression.
func Bool(b bool) *Literal {
	return &Literal{Value: cty.BoolVal(b)}
}

// Ref returns a reference to the named declaration followed by the given property accesses.
func Ref(name string, properties ...string) Expr {
	var x Expr = &Reference{Name: name}
	for _, p := range properties {
		x = &PropertyAccess{Operand: x, Property: p}
	}
	return x
}
