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

package pcl

import (
	"testing"

	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
	"pgregory.net/rapid"
)

const liftSource = `
- config: name
- config: flag
  type: bool
  secret: true
- resource: rg
  token: azure-native:resources:ResourceGroup
- resource: storage
  token: azure-native:storage:StorageAccount
- invoke: client
  token: azure-native:authorization:getClientConfig
- invoke: accountKeys
  token: azure-native:storage:listStorageAccountKeys
  args:
    accountName: {$ref: storage.name}
- variable: plain
  value: {$ref: rg.name}
- variable: access
  value: {$ref: storage.primaryEndpoints.blob}
- variable: template
  value: {$template: ["https://", {$ref: rg.name}, "/", {$ref: rg.location}]}
- variable: shared
  value: {$template: [{$ref: rg.name}, "-", {$ref: rg.name}]}
- variable: call
  value: {$call: {function: toUpper, args: [{$ref: rg.name}]}}
- variable: nested
  value: {$call: {function: toUpper, args: [{$template: ["rg-", {$ref: rg.name}]}]}}
- variable: chain
  value: {$call: {function: toUpper, operand: {$ref: storage.primaryEndpoints.blob}}}
- variable: conditional
  value: {$if: {condition: {$ref: flag}, then: a, else: b}}
- variable: shadow
  value: {$template: [{$ref: rg.name}, {$ref: name}]}
- variable: index
  value: {$get: {operand: {$index: {operand: {$ref: accountKeys.keys}, key: 0}}, property: value}}
- variable: promise
  value: {$ref: client.tenantId}
- variable: secret
  value: {$call: {function: secret, args: [{$ref: rg.name}]}}
`

func TestLower(t *testing.T) {
	t.Parallel()

	program, diags := bindSource(t, liftSource)
	require.Empty(t, diags)

	cases := []struct {
		name     string
		expected string
	}{
		{"plain", `rg.name`},
		{"access", `__lift(storage.primaryEndpoints, eval(primaryEndpoints, primaryEndpoints.blob))`},
		{"template", `__lift(rg.name, rg.location, eval(name, location, "https://${name}/${location}"))`},
		{"shared", `__lift(rg.name, eval(name, "${name}-${name}"))`},
		{"call", `__lift(rg.name, eval(name, toUpper(name)))`},
		{"nested", `__lift(rg.name, eval(name, toUpper("rg-${name}")))`},
		{"chain", `__lift(storage.primaryEndpoints, eval(primaryEndpoints, toUpper(primaryEndpoints.blob)))`},
		{"conditional", `__lift(flag, eval(flag, flag ? "a" : "b"))`},
		{"shadow", `__lift(rg.name, eval(name1, "${name1}${name}"))`},
		{"index", `__lift(accountKeys, eval(accountKeys, accountKeys.keys[0].value))`},
		{"promise", `__lift(client, eval(client, client.tenantId))`},
		{"secret", `secret(rg.name)`},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			n, ok := program.Node(c.name)
			require.True(t, ok)
			bound := n.(*LocalVariable).Value
			before := model.Print(bound)

			lowered, diags := Lower(bound)
			require.Empty(t, diags)
			assert.Equal(t, c.expected, model.Print(lowered))
			assert.True(t, bound.Type().Equals(lowered.Type()), "%v vs %v", bound.Type(), lowered.Type())
			assert.Equal(t, before, model.Print(bound))
		})
	}
}

func TestLowerProgram(t *testing.T) {
	t.Parallel()

	program, diags := bindSource(t, `
- config: names
  type: list(string)
- resource: rg
  token: azure-native:resources:ResourceGroup
- resource: counted
  token: random:index/randomString:RandomString
  range: 2
  properties:
    length: 8
- resource: listed
  token: azure-native:storage:StorageAccount
  range: {$ref: names}
  properties:
    accountName: {$template: [{$ref: rg.name}, {$range: value}]}
    resourceGroupName: {$ref: rg.name}
  options:
    parent: {$ref: rg}
`)
	require.Empty(t, diags)
	units, diags := Schedule(program)
	require.Empty(t, diags)

	lowered, diags := LowerProgram(program, units)
	require.Empty(t, diags)
	require.Len(t, lowered.Nodes, 4)
	assert.Same(t, program, lowered.Source)

	counted := lowered.Nodes[2].(*Resource)
	require.NotNil(t, counted.Loop)
	assert.Equal(t, CountedLoop, counted.Loop.Kind)
	assert.Equal(t, 2, counted.Loop.Count)
	assert.Equal(t, model.IntType, counted.Loop.ValueType)

	listed := lowered.Nodes[3].(*Resource)
	require.NotNil(t, listed.Loop)
	assert.Equal(t, ListLoop, listed.Loop.Kind)
	assert.Equal(t, "list", listed.Loop.Kind.String())
	assert.False(t, listed.Loop.Lifted)
	assert.Equal(t, `__lift(rg.name, eval(name, "${name}${range.value}"))`, model.Print(listed.Inputs[0].Value))
	assert.Equal(t, `rg.name`, model.Print(listed.Inputs[1].Value))
	assert.Equal(t, `rg`, model.Print(listed.Options.Parent))

	// The bound nodes are left as they were.
	original, _ := program.Node("listed")
	assert.Nil(t, original.(*Resource).Loop)
	assert.Equal(t, `"${rg.name}${range.value}"`, model.Print(original.(*Resource).Inputs[0].Value))
}

func TestLowerFlattensChains(t *testing.T) {
	t.Parallel()

	rg := &model.ReferenceExpression{
		Name:          "rg",
		ReferenceType: model.NewObjectType(map[string]model.Type{"name": model.NewOutputType(model.StringType)}),
	}
	root := &model.PropertyAccessExpression{
		Operand:      rg,
		Property:     "name",
		PropertyType: model.NewOutputType(model.StringType),
	}

	rapid.Check(t, func(t *rapid.T) {
		depth := rapid.IntRange(1, 8).Draw(t, "depth")

		var x model.Expression = root
		for i := 0; i < depth; i++ {
			switch rapid.IntRange(0, 2).Draw(t, "wrapper") {
			case 0:
				x = &model.FunctionCallExpression{Name: ToUpper, Args: []model.Expression{x}, ReturnType: x.Type()}
			case 1:
				x = &model.FunctionCallExpression{Name: ToLower, Args: []model.Expression{x}, ReturnType: x.Type()}
			default:
				x = &model.TemplateExpression{
					Parts:    []model.Expression{&model.LiteralValueExpression{Value: cty.StringVal("x-")}, x},
					ExprType: x.Type(),
				}
			}
		}

		lowered, diags := Lower(x)
		if len(diags) != 0 {
			t.Fatalf("unexpected diagnostics: %v", diags)
		}
		lift, ok := lowered.(*model.LiftExpression)
		if !ok {
			t.Fatalf("expected a lift, got %v", model.Print(lowered))
		}
		if len(lift.Args) != 1 || model.Print(lift.Args[0]) != "rg.name" {
			t.Fatalf("expected a single lift over rg.name, got %v", model.Print(lowered))
		}
		if !lift.Type().Equals(model.NewOutputType(model.StringType)) {
			t.Fatalf("unexpected type %v", lift.Type())
		}
		model.Walk(lift.Then.Body, func(n model.Expression) bool {
			if model.IsEventual(n.Type()) {
				t.Fatalf("eventual value %v inside the continuation", model.Print(n))
			}
			return true
		})
	})
}

func TestLiftParts(t *testing.T) {
	t.Parallel()

	program, diags := bindSource(t, liftSource)
	require.Empty(t, diags)

	n, _ := program.Node("template")
	lowered, _ := Lower(n.(*LocalVariable).Value)
	args, params, body := LiftParts(lowered, "unused")
	require.Len(t, args, 2)
	require.Len(t, params, 2)
	assert.Equal(t, "rg.name", model.Print(args[0]))
	assert.Equal(t, "location", params[1].Name)
	assert.Equal(t, `"https://${name}/${location}"`, model.Print(body))

	n, _ = program.Node("plain")
	args, params, body = LiftParts(n.(*LocalVariable).Value, "rangeBody")
	require.Len(t, params, 1)
	assert.Equal(t, "rg.name", model.Print(args[0]))
	assert.Equal(t, "rangeBody", model.Print(body))
	assert.Equal(t, model.StringType, params[0].VariableType)
}

func TestExpressions(t *testing.T) {
	t.Parallel()

	program, diags := bindSource(t, liftSource+`
- resource: child
  token: azure-native:storage:StorageAccount
  properties:
    accountName: {$call: {function: toJSON, args: [{$ref: name}]}}
  options:
    parent: {$ref: rg}
    protect: true
`)
	require.Empty(t, diags)

	child, _ := program.Node("child")
	exprs := Expressions(child)
	require.Len(t, exprs, 3)
	assert.Equal(t, "rg", model.Print(exprs[1]))
	assert.True(t, Calls(child, ToJSON))
	assert.False(t, Calls(child, Secret))

	secret, _ := program.Node("secret")
	assert.True(t, Calls(secret, Secret))
	rg, _ := program.Node("rg")
	assert.Empty(t, Expressions(rg))
}
