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

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
	"github.com/zclconf/go-cty/cty"
)

func ref(name string, t Type) *ReferenceExpression {
	return &ReferenceExpression{Name: name, ReferenceType: t}
}

func str(s string) *LiteralValueExpression {
	return &LiteralValueExpression{Value: cty.StringVal(s)}
}

func TestPrint(t *testing.T) {
	t.Parallel()

	param := &Variable{Name: "id", VariableType: StringType}
	lift := &LiftExpression{
		Args: []Expression{&PropertyAccessExpression{
			Operand:      ref("bucket", DynamicType),
			Property:     "id",
			PropertyType: NewOutputType(StringType),
		}},
		Then: &AnonymousFunctionExpression{
			Parameters: []*Variable{param},
			Body: &TemplateExpression{
				Parts:    []Expression{str("arn:"), &ReferenceExpression{Name: "id", Parameter: param}},
				ExprType: StringType,
			},
		},
		ResultType: NewOutputType(StringType),
	}
	assert.Equal(t, `__lift(bucket.id, eval(id, "arn:${id}"))`, lift.String())

	obj := &ObjectConsExpression{Items: []ObjectConsItem{
		{Key: "n", Value: &LiteralValueExpression{Value: cty.NumberIntVal(3)}},
		{Key: "l", Value: &TupleConsExpression{Expressions: []Expression{
			&LiteralValueExpression{Value: cty.True},
			&LiteralValueExpression{Value: cty.NullVal(cty.DynamicPseudoType)},
		}}},
		{Key: "c", Value: &FunctionCallExpression{Name: "toLower", Args: []Expression{str("A")}}},
		{Key: "i", Value: &IndexExpression{
			Collection: ref("names", NewListType(StringType)),
			Key:        &IterationVariableExpression{Part: IterationKey},
		}},
	}}
	assert.Equal(t, `{n = 3, l = [true, null], c = toLower("A"), i = names[range.key]}`, obj.String())
}

func TestVisitExpressionCopiesOnWrite(t *testing.T) {
	t.Parallel()

	original := &PropertyAccessExpression{
		Operand:      ref("bucket", DynamicType),
		Property:     "arn",
		PropertyType: DynamicType,
	}
	rewritten, diags := VisitExpression(original, IdentityVisitor, func(x Expression) (Expression, hcl.Diagnostics) {
		if r, ok := x.(*ReferenceExpression); ok && r.Name == "bucket" {
			return ref("other", DynamicType), nil
		}
		return x, nil
	})
	assert.Empty(t, diags)
	assert.Equal(t, "other.arn", rewritten.String())
	assert.Equal(t, "bucket.arn", original.String())

	unchanged, _ := VisitExpression(original, nil, nil)
	assert.Same(t, original, unchanged)
}

func TestWalk(t *testing.T) {
	t.Parallel()

	cond := &ConditionalExpression{
		Condition:   ref("flag", BoolType),
		TrueResult:  &FunctionCallExpression{Name: "toUpper", Args: []Expression{ref("a", StringType)}},
		FalseResult: ref("b", StringType),
	}

	var names []string
	Walk(cond, func(x Expression) bool {
		if r, ok := x.(*ReferenceExpression); ok {
			names = append(names, r.Name)
		}
		_, isCall := x.(*FunctionCallExpression)
		return !isCall
	})
	assert.Equal(t, []string{"flag", "b"}, names)
}
