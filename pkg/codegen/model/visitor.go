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
)

// An ExpressionVisitor is a function that visits and optionally replaces a node in an expression tree.
type ExpressionVisitor func(n Expression) (Expression, hcl.Diagnostics)

// IdentityVisitor is a ExpressionVisitor that returns the input node unchanged.
func IdentityVisitor(n Expression) (Expression, hcl.Diagnostics) {
	return n, nil
}

// VisitExpression visits each node in an expression tree using the given pre- and post-order visitors. If the preorder
// visitor returns a new node, that node's descendents will be visited. VisitExpression returns the result of the
// post-order visitor. All diagnostics are accumulated.
//
// The input tree is never modified: a node whose children change is copied before the new children are attached.
func VisitExpression(n Expression, pre, post ExpressionVisitor) (Expression, hcl.Diagnostics) {
	if n == nil {
		return nil, nil
	}
	if pre == nil {
		pre = IdentityVisitor
	}
	if post == nil {
		post = IdentityVisitor
	}

	n, diags := pre(n)

	visit := func(x Expression) Expression {
		if x == nil {
			return nil
		}
		v, vd := VisitExpression(x, pre, post)
		diags = append(diags, vd...)
		return v
	}
	visitList := func(xs []Expression) ([]Expression, bool) {
		changed := false
		out := make([]Expression, len(xs))
		for i, x := range xs {
			out[i] = visit(x)
			changed = changed || out[i] != x
		}
		return out, changed
	}

	switch x := n.(type) {
	case *AnonymousFunctionExpression:
		if body := visit(x.Body); body != x.Body {
			c := *x
			c.Body = body
			n = &c
		}
	case *ConditionalExpression:
		cond, t, f := visit(x.Condition), visit(x.TrueResult), visit(x.FalseResult)
		if cond != x.Condition || t != x.TrueResult || f != x.FalseResult {
			c := *x
			c.Condition, c.TrueResult, c.FalseResult = cond, t, f
			n = &c
		}
	case *FunctionCallExpression:
		if args, changed := visitList(x.Args); changed {
			c := *x
			c.Args = args
			n = &c
		}
	case *IndexExpression:
		coll, key := visit(x.Collection), visit(x.Key)
		if coll != x.Collection || key != x.Key {
			c := *x
			c.Collection, c.Key = coll, key
			n = &c
		}
	case *LiftExpression:
		args, changed := visitList(x.Args)
		then := visit(x.Then)
		if changed || then != Expression(x.Then) {
			c := *x
			c.Args = args
			c.Then = then.(*AnonymousFunctionExpression)
			n = &c
		}
	case *ObjectConsExpression:
		changed := false
		items := make([]ObjectConsItem, len(x.Items))
		for i, item := range x.Items {
			items[i] = ObjectConsItem{Key: item.Key, Value: visit(item.Value)}
			changed = changed || items[i].Value != item.Value
		}
		if changed {
			c := *x
			c.Items = items
			n = &c
		}
	case *PropertyAccessExpression:
		if operand := visit(x.Operand); operand != x.Operand {
			c := *x
			c.Operand = operand
			n = &c
		}
	case *TemplateExpression:
		if parts, changed := visitList(x.Parts); changed {
			c := *x
			c.Parts = parts
			n = &c
		}
	case *TupleConsExpression:
		if exprs, changed := visitList(x.Expressions); changed {
			c := *x
			c.Expressions = exprs
			n = &c
		}
	}

	n, postDiags := post(n)
	return n, append(diags, postDiags...)
}

// Walk calls f for every node of an expression tree in pre-order. Walk does not descend into the children of a
// node for which f returns false.
func Walk(n Expression, f func(Expression) bool) {
	_, _ = VisitExpression(n, func(x Expression) (Expression, hcl.Diagnostics) {
		if !f(x) {
			return &skip{x}, nil
		}
		return x, nil
	}, func(x Expression) (Expression, hcl.Diagnostics) {
		if s, ok := x.(*skip); ok {
			return s.Expression, nil
		}
		return x, nil
	})
}

// skip wraps a node whose children must not be walked. It has no children of its own, so VisitExpression does not
// descend into it.
type skip struct {
	Expression
}
