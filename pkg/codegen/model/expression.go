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
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Expression represents a semantically-analyzed expression.
type Expression interface {
	// Range returns the source range of the expression.
	Range() hcl.Range
	// Type returns the type of the expression.
	Type() Type
	// String returns the expression in a compact, language-neutral notation.
	String() string

	isExpression()
}

// Variable is a named value that is not a top-level declaration, such as an anonymous function parameter.
type Variable struct {
	Name         string
	VariableType Type
}

// AnonymousFunctionExpression represents a semantically-analyzed anonymous function expression.
//
// These expressions are not the result of binding source nodes. Instead, they are synthesized by lowering.
type AnonymousFunctionExpression struct {
	// The parameter definitions for the anonymous function.
	Parameters []*Variable

	// The body of the anonymous function.
	Body Expression
}

func (x *AnonymousFunctionExpression) Range() hcl.Range { return x.Body.Range() }

// Type returns the type of the function body. The parameters are described by the Parameters field.
func (x *AnonymousFunctionExpression) Type() Type { return x.Body.Type() }

// ConditionalExpression represents a semantically-analyzed conditional expression (i.e.
// <condition> '?' <true> ':' <false>).
type ConditionalExpression struct {
	SrcRange hcl.Range

	Condition   Expression
	TrueResult  Expression
	FalseResult Expression

	// The type of the result of the expression.
	ResultType Type
}

func (x *ConditionalExpression) Range() hcl.Range { return x.SrcRange }
func (x *ConditionalExpression) Type() Type       { return x.ResultType }

// ErrorExpression represents an expression that could not be bound.
type ErrorExpression struct {
	SrcRange hcl.Range
	Message  string
}

func (x *ErrorExpression) Range() hcl.Range { return x.SrcRange }
func (x *ErrorExpression) Type() Type       { return DynamicType }

// FunctionCallExpression represents a call to a builtin function.
type FunctionCallExpression struct {
	SrcRange hcl.Range

	// The name of the called function.
	Name string
	// The arguments to the function call.
	Args []Expression
	// ReturnType is the type of the call after lifting over eventual arguments.
	ReturnType Type
}

func (x *FunctionCallExpression) Range() hcl.Range { return x.SrcRange }
func (x *FunctionCallExpression) Type() Type       { return x.ReturnType }

// IndexExpression represents a semantically-analyzed index expression.
type IndexExpression struct {
	SrcRange hcl.Range

	// The collection being indexed.
	Collection Expression
	// The index key.
	Key Expression

	// The type of the indexed value.
	KeyType Type
	// The type of the result.
	ElementType Type
}

func (x *IndexExpression) Range() hcl.Range { return x.SrcRange }
func (x *IndexExpression) Type() Type       { return x.ElementType }

// IterationPart selects the key or the value of an iteration.
type IterationPart int

const (
	IterationKey   IterationPart = 0
	IterationValue IterationPart = 1
)

// IterationVariableExpression refers to the key or the value of the iteration that encloses a resource.
type IterationVariableExpression struct {
	SrcRange hcl.Range

	Part         IterationPart
	VariableType Type
}

func (x *IterationVariableExpression) Range() hcl.Range { return x.SrcRange }
func (x *IterationVariableExpression) Type() Type       { return x.VariableType }

// LiftExpression derives a value from the resolved values of its eventual arguments. The result becomes
// available only once every argument has resolved; if any argument never resolves, neither does the result.
type LiftExpression struct {
	SrcRange hcl.Range

	// Args are the eventual values the continuation waits on.
	Args []Expression
	// Then receives one parameter per argument, bound to the argument's resolved value.
	Then *AnonymousFunctionExpression

	// ResultType is output(T) if any argument is an output and promise(T) otherwise.
	ResultType Type
}

func (x *LiftExpression) Range() hcl.Range { return x.SrcRange }
func (x *LiftExpression) Type() Type       { return x.ResultType }

// LiteralValueExpression represents a semantically-analyzed literal value expression.
type LiteralValueExpression struct {
	SrcRange hcl.Range

	// The value of the expression.
	Value cty.Value
	// LiteralType is the type of the literal. Enum members are typed by their enum.
	LiteralType Type
}

func (x *LiteralValueExpression) Range() hcl.Range { return x.SrcRange }

func (x *LiteralValueExpression) Type() Type {
	if x.LiteralType != nil {
		return x.LiteralType
	}
	if x.Value.IsNull() {
		return NoneType
	}
	switch x.Value.Type() {
	case cty.Bool:
		return BoolType
	case cty.Number:
		return NumberType
	case cty.String:
		return StringType
	default:
		return DynamicType
	}
}

// ObjectConsItem records a key-value pair that is part of object construction expression.
type ObjectConsItem struct {
	Key   string
	Value Expression
}

// ObjectConsExpression represents a semantically-analyzed object construction expression.
type ObjectConsExpression struct {
	SrcRange hcl.Range

	// The items that comprise the object construction expression, in document order.
	Items []ObjectConsItem

	// The type of the expression.
	ObjectType Type
}

func (x *ObjectConsExpression) Range() hcl.Range { return x.SrcRange }
func (x *ObjectConsExpression) Type() Type       { return x.ObjectType }

// PropertyAccessExpression reads a named property of its operand.
type PropertyAccessExpression struct {
	SrcRange hcl.Range

	Operand  Expression
	Property string

	// PropertyType is the type of the accessed property, lifted over the operand's eventual type.
	PropertyType Type
}

func (x *PropertyAccessExpression) Range() hcl.Range { return x.SrcRange }
func (x *PropertyAccessExpression) Type() Type       { return x.PropertyType }

// ReferenceExpression refers to a top-level declaration by name, or to an anonymous function parameter.
type ReferenceExpression struct {
	SrcRange hcl.Range

	// Name is the name of the referenced declaration or parameter.
	Name string
	// Parameter is set when the reference names an anonymous function parameter.
	Parameter *Variable

	ReferenceType Type
}

func (x *ReferenceExpression) Range() hcl.Range { return x.SrcRange }
func (x *ReferenceExpression) Type() Type       { return x.ReferenceType }

// TemplateExpression represents a semantically-analyzed template expression. Literal string parts are
// LiteralValueExpressions.
type TemplateExpression struct {
	SrcRange hcl.Range

	Parts []Expression

	// The type of the expression: string, or an eventual string if any part is eventual.
	ExprType Type
}

func (x *TemplateExpression) Range() hcl.Range { return x.SrcRange }
func (x *TemplateExpression) Type() Type       { return x.ExprType }

// TupleConsExpression represents a semantically-analyzed list construction expression.
type TupleConsExpression struct {
	SrcRange hcl.Range

	Expressions []Expression

	// The type of the expression.
	ListType Type
}

func (x *TupleConsExpression) Range() hcl.Range { return x.SrcRange }
func (x *TupleConsExpression) Type() Type       { return x.ListType }

func (*AnonymousFunctionExpression) isExpression() {}
func (*ConditionalExpression) isExpression()       {}
func (*ErrorExpression) isExpression()             {}
func (*FunctionCallExpression) isExpression()      {}
func (*IndexExpression) isExpression()             {}
func (*IterationVariableExpression) isExpression() {}
func (*LiftExpression) isExpression()              {}
func (*LiteralValueExpression) isExpression()      {}
func (*ObjectConsExpression) isExpression()        {}
func (*PropertyAccessExpression) isExpression()    {}
func (*ReferenceExpression) isExpression()         {}
func (*TemplateExpression) isExpression()          {}
func (*TupleConsExpression) isExpression()         {}

func (x *AnonymousFunctionExpression) String() string { return Print(x) }
func (x *ConditionalExpression) String() string       { return Print(x) }
func (x *ErrorExpression) String() string             { return Print(x) }
func (x *FunctionCallExpression) String() string      { return Print(x) }
func (x *IndexExpression) String() string             { return Print(x) }
func (x *IterationVariableExpression) String() string { return Print(x) }
func (x *LiftExpression) String() string              { return Print(x) }
func (x *LiteralValueExpression) String() string      { return Print(x) }
func (x *ObjectConsExpression) String() string        { return Print(x) }
func (x *PropertyAccessExpression) String() string    { return Print(x) }
func (x *ReferenceExpression) String() string         { return Print(x) }
func (x *TemplateExpression) String() string          { return Print(x) }
func (x *TupleConsExpression) String() string         { return Print(x) }
