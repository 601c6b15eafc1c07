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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const storageProgram = `
nodes:
  - config: storageSKU
    type: string
    default: Standard_LRS
    description: The storage SKU
  - invoke: currentResourceGroup
    token: azure-native:resources:getResourceGroup
    args:
      resourceGroupName: rg
  - resource: storage
    token: azure-native:storage:StorageAccount
    properties:
      kind: StorageV2
      location: {$ref: currentResourceGroup.location}
      sku:
        name: {$ref: storageSKU}
    range: 3
    options:
      protect: true
  - export: storageEndpoint
    value: {$ref: storage.primaryEndpoints}
`

func TestDecode(t *testing.T) {
	t.Parallel()

	program, diags := Decode("program.yaml", []byte(storageProgram))
	require.Empty(t, diags)
	require.Len(t, program.Nodes, 4)

	config, ok := program.Nodes[0].(*ConfigRead)
	require.True(t, ok)
	assert.Equal(t, "storageSKU", config.Name)
	assert.Equal(t, "string", config.Type)
	assert.Equal(t, "The storage SKU", config.Description)
	assert.Equal(t, cty.StringVal("Standard_LRS"), config.Default.(*Literal).Value)
	assert.Equal(t, 3, config.Range().Start.Line)

	invoke, ok := program.Nodes[1].(*Invoke)
	require.True(t, ok)
	assert.Equal(t, "azure-native:resources:getResourceGroup", invoke.Token)
	require.Len(t, invoke.Args, 1)
	assert.Equal(t, "resourceGroupName", invoke.Args[0].Name)

	resource, ok := program.Nodes[2].(*Resource)
	require.True(t, ok)
	require.Len(t, resource.Inputs, 3)
	assert.Equal(t, []string{"kind", "location", "sku"},
		[]string{resource.Inputs[0].Name, resource.Inputs[1].Name, resource.Inputs[2].Name})

	location, ok := resource.Inputs[1].Value.(*PropertyAccess)
	require.True(t, ok)
	assert.Equal(t, "location", location.Property)
	assert.Equal(t, "currentResourceGroup", location.Operand.(*Reference).Name)

	sku, ok := resource.Inputs[2].Value.(*Object)
	require.True(t, ok)
	require.Len(t, sku.Items, 1)
	assert.Equal(t, "name", sku.Items[0].Key)

	count, ok := resource.Iteration.(*Literal)
	require.True(t, ok)
	n, _ := count.Value.AsBigFloat().Int64()
	assert.Equal(t, int64(3), n)
	require.NotNil(t, resource.Options)
	assert.Equal(t, cty.True, resource.Options.Protect.(*Literal).Value)

	export, ok := program.Nodes[3].(*Export)
	require.True(t, ok)
	assert.Equal(t, "storageEndpoint", export.Name)
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	program, diags := Decode("program.json", []byte(`{"nodes": [
		{"variable": "names", "value": ["a", "b"]},
		{"resource": "bucket", "token": "aws:s3:Bucket", "range": {"$ref": "names"},
		 "properties": {"bucket": {"$template": ["prefix-", {"$range": "value"}]}}}
	]}`))
	require.Empty(t, diags)
	require.Len(t, program.Nodes, 2)

	names := program.Nodes[0].(*Variable)
	assert.Len(t, names.Value.(*Array).Items, 2)

	bucket := program.Nodes[1].(*Resource)
	template, ok := bucket.Inputs[0].Value.(*Template)
	require.True(t, ok)
	require.Len(t, template.Parts, 2)
	assert.Equal(t, RangeValue, template.Parts[1].(*RangeBinding).Part)
}

func TestDecodeIntrinsics(t *testing.T) {
	t.Parallel()

	program, diags := Decode("program.yaml", []byte(`
- variable: lower
  value:
    $call:
      function: toLower
      operand: {$ref: name}
- variable: pick
  value:
    $if:
      condition: true
      then: {$index: {operand: {$ref: names}, key: 0}}
      else: {$get: {operand: {$ref: obj}, property: field}}
`))
	require.Empty(t, diags)
	require.Len(t, program.Nodes, 2)

	call, ok := program.Nodes[0].(*Variable).Value.(*Call)
	require.True(t, ok)
	assert.Equal(t, "toLower", call.Function)
	assert.Equal(t, "name", call.Operand.(*Reference).Name)
	assert.Empty(t, call.Args)

	cond, ok := program.Nodes[1].(*Variable).Value.(*Conditional)
	require.True(t, ok)
	assert.IsType(t, &Index{}, cond.True)
	assert.Equal(t, "field", cond.False.(*PropertyAccess).Property)
}

func TestDecodeComponent(t *testing.T) {
	t.Parallel()

	program, diags := Decode("program.yaml", []byte(`
nodes:
- component: storageModule
  type: Storage
  inputs:
    location: westus
  options:
    protect: true
  nodes:
  - config: location
  - resource: account
    token: azure-native:storage:StorageAccount
    properties:
      location: {$ref: location}
  - export: endpoint
    value: {$ref: account.primaryEndpoints}
- component: second
  type: Storage
`))
	require.Empty(t, diags)
	require.Len(t, program.Nodes, 2)

	c, ok := program.Nodes[0].(*Component)
	require.True(t, ok)
	assert.Equal(t, "storageModule", c.Name)
	assert.Equal(t, "Storage", c.Type)
	require.Len(t, c.Inputs, 1)
	assert.Equal(t, "location", c.Inputs[0].Name)
	require.NotNil(t, c.Options)
	assert.Equal(t, cty.True, c.Options.Protect.(*Literal).Value)
	require.NotNil(t, c.Body)
	require.Len(t, c.Body.Nodes, 3)
	assert.IsType(t, &ConfigRead{}, c.Body.Nodes[0])
	assert.IsType(t, &Resource{}, c.Body.Nodes[1])
	assert.IsType(t, &Export{}, c.Body.Nodes[2])

	second := program.Nodes[1].(*Component)
	assert.Equal(t, "Storage", second.Type)
	assert.Nil(t, second.Body)
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		source  string
		summary string
	}{
		{"not a declaration", "- 42", "expected a declaration"},
		{"missing kind", "- value: 1", "declaration must have one of the fields config, variable, resource, invoke, export, component"},
		{"unknown field", "- variable: x\n  value: 1\n  extra: 2", `unknown field "extra"`},
		{"unknown intrinsic", "- variable: x\n  value: {$nope: 1}", `unknown intrinsic "$nope"`},
		{"mixed intrinsic", "- variable: x\n  value: {a: 1, $ref: b}", "intrinsic $ref must be the only field of its mapping"},
		{"component body", "- component: c\n  nodes: {a: 1}", "expected a sequence of declarations"},
		{"bad range", "- variable: x\n  value: {$range: index}", "$range must be either key or value"},
		{"malformed", "- [", "malformed program tree"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			_, diags := Decode("program.yaml", []byte(c.source))
			require.True(t, diags.HasErrors())
			assert.Equal(t, c.summary, diags[0].Summary)
		})
	}
}
