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

package python

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
		"import pulumi\nimport pulumi_azure_native as azure_native\n\n",
		"# The Azure region to deploy into.\n",
		"location = config.get(\"location\")\nif location is None:\n    location = \"WestUs\"\n",
		"rg = azure_native.resources.ResourceGroup(\"rg\",\n    location=location,\n    tags={\n" +
			"        \"owner\": \"platform\",\n    })\n",
		`kind=azure_native.storage.Kind.STORAGE_V2`,
		"sku=azure_native.storage.SkuArgs(\n        name=azure_native.storage.SkuName.STANDARD_LRS,\n    )",
		`enable_https_traffic_only=True`,
		`minimum_tls_version="1.2"`,
		`pulumi.export("endpoint", storage.primary_endpoints.apply(lambda primary_endpoints: primary_endpoints.blob))`,
		`pulumi.export("accountUrl", storage.name.apply(lambda name: f"https://{name}.blob.core.windows.net"))`,
	},
	"resource-range": {
		"import pulumi_random as random\n",
		"prefix = config.get(\"prefix\")\nif prefix is None:\n    prefix = \"app\"\n",
		"suffix = []\nfor range_ in [{\"key\": i, \"value\": i} for i in range(2)]:\n",
		"    suffix.append(random.RandomString(f\"suffix-{range_['key']}\",\n        length=8,\n        special=False))\n",
		`groups.append(azure_native.resources.ResourceGroup(f"groups-{range_['key']}", ` +
			`resource_group_name=f"{prefix}-{range_['value']}"))`,
		`pulumi.export("firstSuffix", suffix[0].result)`,
	},
	"iterate-collections": {
		`names = config.require_object("names")`,
		"tags = config.get_object(\"tags\")\nif tags is None:\n    tags = {\n        \"env\": \"dev\",\n    }\n",
		`tags=tags`,
		`for range_ in [{"key": k, "value": v} for [k, v] in enumerate(names)]:`,
		`accounts.append(azure_native.storage.StorageAccount(f"accounts-{range_['key']}",`,
		`account_name=range_['value'],`,
		`for range_ in [{"key": k, "value": v} for [k, v] in tags.items()]:`,
		`tag_groups.append(azure_native.resources.ResourceGroup(f"tagGroups-{range_['key']}", ` +
			`resource_group_name=f"{range_['key']}-{range_['value']}"))`,
		`pulumi.export("accountCount", len(names))`,
	},
	"lifted-range": {
		"rg = azure_native.resources.ResourceGroup(\"rg\")\n",
		`storage = azure_native.storage.StorageAccount("storage", resource_group_name=rg.name)`,
		"keys = azure_native.storage.list_storage_account_keys_output(\n    account_name=storage.name,\n" +
			"    resource_group_name=rg.name)\n",
		"key_groups = []\ndef create_key_groups(range_body):\n" +
			"    for range_ in [{\"key\": k, \"value\": v} for [k, v] in enumerate(range_body)]:\n",
		`        key_groups.append(azure_native.resources.ResourceGroup(f"keyGroups-{range_['key']}", ` +
			`resource_group_name=f"keys-{range_['key']}"))`,
		"\nkeys.apply(lambda keys: create_key_groups(keys.keys))\n",
	},
	"invokes": {
		"client = azure_native.authorization.get_client_config()\n",
		`group = azure_native.resources.get_resource_group_output(resource_group_name="existing")`,
		`resource_group_name=group.apply(lambda group: group.name),`,
		"properties=azure_native.keyvault.VaultPropertiesArgs(\n        tenant_id=client.tenant_id,\n",
		"sku=azure_native.keyvault.SkuArgs(\n            family=azure_native.keyvault.SkuFamily.A,\n" +
			"            name=azure_native.keyvault.SkuName.STANDARD,\n        ),\n",
		`enable_soft_delete=True,`,
		`soft_delete_retention_in_days=7,`,
		`pulumi.export("tenantId", client.tenant_id)`,
	},
	"resource-options": {
		`west = azure_native.Provider("west", location="westus")`,
		`network = azure_native.network.VirtualNetwork("child-network",`,
		"address_space=azure_native.network.AddressSpaceArgs(\n        address_prefixes=[\"10.0.0.0/16\"],\n    ),",
		"subnets=[azure_native.network.SubnetArgs(\n        name=\"default\",\n",
		",\n    opts = pulumi.ResourceOptions(parent=parent,\n        provider=west,\n        depends_on=[ip],\n" +
			"        protect=True))\n",
		`pulumi.export("ipAddress", ip.ip_address)`,
	},
	"functions-secrets": {
		"import json\nimport pulumi_azure_native as azure_native\n",
		"environment = config.get(\"environment\")\nif environment is None:\n    environment = \"Dev\"\n",
		`db_password = config.require_secret("dbPassword")`,
		"enabled = config.get_bool(\"enabled\")\nif enabled is None:\n    enabled = True\n",
		`lowered_env = environment.lower()`,
		`resource_group_name=f"rg-{lowered_env}",`,
		`"password": pulumi.Output.secret(db_password),`,
		`"enabled": "yes" if enabled else "no",`,
		`parts = "a,b,c".split(",")`,
		`pulumi.export("joined", "-".join(parts))`,
		`pulumi.export("upperName", rg.name.apply(lambda name: name.upper()))`,
		"pulumi.export(\"settings\", json.dumps({\n    \"env\": environment,\n    \"count\": len(parts),\n}))",
	},
	"loop-outputs": {
		"accounts = []\nfor range_ in [{\"key\": i, \"value\": i} for i in range(2)]:\n",
		"account_name=rg.name.apply(lambda name, range_=range_: f\"{name}sa{range_['key']}\"),",
		`resource_group_name=rg.name,`,
		`pulumi.export("secondAccount", accounts[1].name)`,
	},
	"config-from-invoke": {
		"# Defaults to the location of the existing resource group.\n",
		"location = config.get(\"location\")\nif location is None:\n" +
			"    location = current.apply(lambda current: current.location)\n",
		`resource_group_name=current.apply(lambda current: current.name),`,
		`tenant_id=client.tenant_id,`,
		`"region": location,`,
		`pulumi.export("storageEndpoint", storage.primary_endpoints.apply(lambda primary_endpoints: primary_endpoints.blob))`,
	},
	"components": {
		"import pulumi\nfrom storage import Storage\nimport pulumi_azure_native as azure_native\n\n",
		"storage_module = Storage(\"storageModule\", {\n" +
			"    \"resource_group_name\": current.apply(lambda current: current.name),\n" +
			"    \"location\": current.apply(lambda current: current.location),\n" +
			"    \"minimum_tls_version\": \"TLS1_2\"\n})\n",
		`pulumi.export("storageEndpoint", storage_module.endpoint)`,
	},
}

var expectedFiles = map[string]map[string][]string{
	"components": {
		"storage.py": {
			"from typing import Optional, TypedDict\nimport pulumi_azure_native as azure_native\n\n\n",
			"class StorageArgs(TypedDict):\n" +
				"    resource_group_name: pulumi.Input[str]\n" +
				"    \"\"\"The resource group to deploy into.\"\"\"\n" +
				"    location: pulumi.Input[str]\n",
			"class Storage(pulumi.ComponentResource):\n" +
				"    def __init__(self, name: str, args: StorageArgs, opts: Optional[pulumi.ResourceOptions] = None):\n" +
				"        super().__init__(\"components:index:Storage\", name, args, opts)\n\n" +
				"        resource_group_name = pulumi.Output.from_input(args[\"resource_group_name\"])\n",
			`account = azure_native.storage.StorageAccount(f"{name}-account",`,
			`"purpose": location.apply(lambda location: f"storage-{location}"),`,
			",\n            opts = pulumi.ResourceOptions(parent=self))\n",
			"self.endpoint = account.primary_endpoints.apply(lambda primary_endpoints: primary_endpoints.blob)\n",
			"self.register_outputs({\n            \"endpoint\": self.endpoint\n        })\n",
		},
	},
}

func TestGenerateProgram(t *testing.T) {
	t.Parallel()

	test.TestProgramCodegen(t, test.ProgramCodegenOptions{
		Language:   test.TestPython,
		OutputFile: "__main__.py",
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
		- config: type
		- config: id
		- export: out
		  value: {$template: [{$ref: config}, {$ref: class}, {$ref: max-count}, {$ref: type}, {$ref: id}]}
		`)
	program := test.LowerSource(t, "names.yaml", []byte(source))

	files, diags, err := GenerateProgram(program)
	require.NoError(t, err)
	assert.Empty(t, diags)

	main := string(files["__main__.py"])
	assert.True(t, strings.HasPrefix(main, "import pulumi\n\n"))
	assert.Contains(t, main, `config1 = config.require("config")`)
	assert.Contains(t, main, `class_ = config.require("class")`)
	assert.Contains(t, main, "max_count = config.get_int(\"max-count\")\nif max_count is None:\n    max_count = 3\n")
	assert.Contains(t, main, `type1 = config.require("type")`)
	assert.Contains(t, main, `id1 = config.require("id")`)
	assert.Contains(t, main, `pulumi.export("out", f"{config1}{class_}{max_count}{type1}{id1}")`)
}

func TestGenTemplateExpression(t *testing.T) {
	t.Parallel()

	source := dedent.Dedent(`
		nodes:
		- config: name
		- variable: braces
		  value: {$template: ["{", {$ref: name}, "}"]}
		- variable: nested
		  value: {$template: ["a-", {$call: {function: join, args: [[{$ref: name}], ","]}}]}
		`)
	program := test.LowerSource(t, "templates.yaml", []byte(source))

	files, _, err := GenerateProgram(program)
	require.NoError(t, err)

	main := string(files["__main__.py"])
	assert.Contains(t, main, `braces = f"{{{name}}}"`)
	assert.Contains(t, main, `nested = "a-" + str(",".join([name]))`)
}

func TestGenStringLiteral(t *testing.T) {
	t.Parallel()

	g := &generator{}
	g.Formatter = format.NewFormatter(g)
	cases := []struct {
		input, expected string
	}{
		{"plain", `"plain"`},
		{`say "hi"`, `"say \"hi\""`},
		{"trailing\n", `"trailing\n"`},
		{"two\nlines\n", "\"\"\"two\nlines\n\"\"\""},
		{`back\slash`, `"back\\slash"`},
	}
	for _, c := range cases {
		var sb strings.Builder
		g.genStringLiteral(&sb, c.input)
		assert.Equal(t, c.expected, sb.String(), "%q", c.input)
	}
}
