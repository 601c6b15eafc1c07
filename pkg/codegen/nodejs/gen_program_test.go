// Copyright 2020-2026, Pulumi Corporation.
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

package nodejs

import (
	"strings"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/model/format"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/testing/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var expectedSnippets = map[string][]string{
	"azure-storage": {
		`import * as pulumi from "@pulumi/pulumi";`,
		`import * as azure_native from "@pulumi/azure-native";`,
		"// The Azure region to deploy into.\n",
		`const location = config.get("location") || "WestUs";`,
		`const rg = new azure_native.resources.ResourceGroup("rg", {`,
		`kind: azure_native.storage.Kind.StorageV2,`,
		`name: azure_native.storage.SkuName.Standard_LRS,`,
		`minimumTlsVersion: "1.2",`,
		`export const endpoint = storage.primaryEndpoints.apply(primaryEndpoints => primaryEndpoints.blob);`,
		"export const accountUrl = storage.name.apply(name => `https://${name}.blob.core.windows.net`);",
	},
	"resource-range": {
		`import * as random from "@pulumi/random";`,
		`const prefix = config.get("prefix") || "app";`,
		`const suffix: random.RandomString[] = [];`,
		`for (const range of Array.from({length: 2}, (_, i) => ({key: i, value: i}))) {`,
		"suffix.push(new random.RandomString(`suffix-${range.key}`, {",
		"resourceGroupName: `${prefix}-${range.value}`,",
		`export const firstSuffix = suffix[0].result;`,
	},
	"iterate-collections": {
		`const names = config.requireObject<string[]>("names");`,
		`const tags = config.getObject<Record<string, string>>("tags") ?? {`,
		`tags: tags,`,
		`for (const range of names.map((v, k) => ({key: k, value: v}))) {`,
		"accounts.push(new azure_native.storage.StorageAccount(`accounts-${range.key}`, {",
		`accountName: range.value,`,
		`for (const range of Object.entries(tags).map(([k, v]) => ({key: k, value: v}))) {`,
		"resourceGroupName: `${range.key}-${range.value}`,",
		`export const accountCount = names.length;`,
	},
	"lifted-range": {
		`const rg = new azure_native.resources.ResourceGroup("rg", {});`,
		`const keys = azure_native.storage.listStorageAccountKeysOutput({`,
		`accountName: storage.name,`,
		`const keyGroups: azure_native.resources.ResourceGroup[] = [];`,
		"keys.apply(keys => {\n    for (const range of keys.keys.map((v, k) => ({key: k, value: v}))) {\n",
		"resourceGroupName: `keys-${range.key}`,",
		"    }\n});\n",
	},
	"invokes": {
		`const client = azure_native.authorization.getClientConfig({});`,
		`const group = azure_native.resources.getResourceGroupOutput({`,
		`resourceGroupName: "existing",`,
		`resourceGroupName: group.apply(group => group.name),`,
		`tenantId: client.then(client => client.tenantId),`,
		`family: azure_native.keyvault.SkuFamily.A,`,
		`name: azure_native.keyvault.SkuName.Standard,`,
		`export const tenantId = client.then(client => client.tenantId);`,
	},
	"resource-options": {
		`const west = new azure_native.Provider("west", {`,
		`const network = new azure_native.network.VirtualNetwork("child-network", {`,
		`addressPrefixes: ["10.0.0.0/16"],`,
		`name: "default",`,
		"}, {\n    parent: parent,\n    provider: west,\n    dependsOn: [ip],\n    protect: true,\n});",
		`export const ipAddress = ip.ipAddress;`,
	},
	"functions-secrets": {
		`const environment = config.get("environment") || "Dev";`,
		`const dbPassword = config.requireSecret("dbPassword");`,
		`const enabled = config.getBoolean("enabled") ?? true;`,
		`const loweredEnv = environment.toLowerCase();`,
		"resourceGroupName: `rg-${loweredEnv}`,",
		`password: pulumi.secret(dbPassword),`,
		`enabled: enabled ? "yes" : "no",`,
		`const parts = "a,b,c".split(",");`,
		`export const joined = parts.join("-");`,
		`export const upperName = rg.name.apply(name => name.toUpperCase());`,
		`export const settings = JSON.stringify({`,
		`count: parts.length,`,
	},
	"loop-outputs": {
		"accounts.push(new azure_native.storage.StorageAccount(`accounts-${range.key}`, {",
		"accountName: rg.name.apply(name => `${name}sa${range.key}`),",
		`resourceGroupName: rg.name,`,
		`export const secondAccount = accounts[1].name;`,
	},
	"config-from-invoke": {
		"// Defaults to the location of the existing resource group.\n",
		`const location = pulumi.output(config.get("location") || current.apply(current => current.location));`,
		`resourceGroupName: current.apply(current => current.name),`,
		`tenantId: client.then(client => client.tenantId),`,
		`region: location,`,
		`export const storageEndpoint = storage.primaryEndpoints.apply(primaryEndpoints => primaryEndpoints.blob);`,
	},
	"components": {
		`import { Storage } from "./storage";`,
		`const storageModule = new Storage("storageModule", {`,
		`location: current.apply(current => current.location),`,
		`minimumTlsVersion: "TLS1_2",`,
		`export const storageEndpoint = storageModule.endpoint;`,
	},
}

var expectedFiles = map[string]map[string][]string{
	"components": {
		"storage.ts": {
			`import * as azure_native from "@pulumi/azure-native";`,
			"export interface StorageArgs {\n" +
				"    /** The resource group to deploy into. */\n" +
				"    resourceGroupName: pulumi.Input<string>;\n" +
				"    location: pulumi.Input<string>;\n",
			"export class Storage extends pulumi.ComponentResource {\n" +
				"    public readonly endpoint: pulumi.Output<string>;\n\n" +
				"    constructor(name: string, args: StorageArgs, opts?: pulumi.ComponentResourceOptions) {\n" +
				"        super(\"components:index:Storage\", name, args, opts);\n" +
				"        const resourceGroupName = pulumi.output(args.resourceGroupName);\n",
			"const account = new azure_native.storage.StorageAccount(`${name}-account`, {",
			"purpose: location.apply(location => `storage-${location}`),",
			"        }, {\n            parent: this,\n        });\n",
			`this.endpoint = account.primaryEndpoints.apply(primaryEndpoints => primaryEndpoints.blob);`,
			"this.registerOutputs({\n            endpoint: this.endpoint,\n        });",
		},
	},
}

func TestGenerateProgram(t *testing.T) {
	t.Parallel()

	test.TestProgramCodegen(t, test.ProgramCodegenOptions{
		Language:   test.TestNodeJS,
		OutputFile: "index.ts",
		GenProgram: GenerateProgram,
		TestCases:  test.ProgramTests,
		Expected:   expectedSnippets,

		ExpectedFiles: expectedFiles,
	})
}

func TestGenerateProgramNames(t *testing.T) {
	t.Parallel()

	source := dedent.Dedent(`
		nodes:
		- config: config
		- config: class
		- config: max-count
		  type: int
		  default: 3
		- export: out
		  value: {$template: [{$ref: config}, {$ref: class}, {$ref: max-count}]}
		`)
	program := test.LowerSource(t, "names.yaml", []byte(source))

	files, diags, err := GenerateProgram(program)
	require.NoError(t, err)
	assert.Empty(t, diags)

	index := string(files["index.ts"])
	assert.Contains(t, index, `const config1 = config.require("config");`)
	assert.Contains(t, index, `const class_ = config.require("class");`)
	assert.Contains(t, index, `const maxCount = config.getNumber("max-count") ?? 3;`)
	assert.Contains(t, index, "export const out = `${config1}${class_}${maxCount}`;")
	assert.NotContains(t, index, "@pulumi/azure-native")
}

func TestGenStringLiteral(t *testing.T) {
	t.Parallel()

	g := &generator{}
	cases := []struct {
		input, expected string
	}{
		{"plain", `"plain"`},
		{`say "hi"`, `"say \"hi\""`},
		{"trailing\n", `"trailing\n"`},
		{"two\nlines\n", "`two\nlines\n`"},
		{"a\n${b}`c`", "`a\n\\${b}\\`c\\``"},
	}
	for _, c := range cases {
		var sb strings.Builder
		g.Formatter = format.NewFormatter(g)
		g.genStringLiteral(&sb, c.input)
		assert.Equal(t, c.expected, sb.String(), "%q", c.input)
	}
}
