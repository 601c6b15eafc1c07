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

package dotnet

import (
	"strings"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/model/format"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/pcl"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/testing/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var expectedSnippets = map[string][]string{
	"azure-storage": {
		"using System.Collections.Generic;\nusing System.Linq;\nusing Pulumi;\n" +
			"using AzureNative = Pulumi.AzureNative;\n\nreturn await Deployment.RunAsync(() =>\n{\n",
		"    var config = new Config();\n    // The Azure region to deploy into.\n" +
			"    var location = config.Get(\"location\") ?? \"WestUs\";\n",
		"    var rg = new AzureNative.Resources.ResourceGroup(\"rg\", new()\n    {\n" +
			"        Location = location,\n        Tags =\n        {\n" +
			"            { \"owner\", \"platform\" },\n        },\n    });\n",
		"    var storage = new AzureNative.Storage.StorageAccount(\"storage\", new()\n",
		"        ResourceGroupName = rg.Name,\n",
		"        Kind = AzureNative.Storage.Kind.StorageV2,\n",
		"        Sku = new AzureNative.Storage.Inputs.SkuArgs\n        {\n" +
			"            Name = AzureNative.Storage.SkuName.Standard_LRS,\n        },\n",
		"        EnableHttpsTrafficOnly = true,\n",
		"        MinimumTlsVersion = \"1.2\",\n",
		"    return new Dictionary<string, object?>\n    {\n" +
			"        [\"endpoint\"] = storage.PrimaryEndpoints.Apply(primaryEndpoints => primaryEndpoints.Blob),\n" +
			"        [\"accountUrl\"] = storage.Name.Apply(name => $\"https://{name}.blob.core.windows.net\"),\n" +
			"    };\n});\n",
	},
	"resource-range": {
		"using Random = Pulumi.Random;\n",
		"    var prefix = config.Get(\"prefix\") ?? \"app\";\n",
		"    var suffix = new List<Random.RandomString>();\n" +
			"    foreach (var range in Enumerable.Range(0, 2)" +
			".Select(rangeIndex => new { Key = rangeIndex, Value = rangeIndex }))\n    {\n" +
			"        suffix.Add(new Random.RandomString($\"suffix-{range.Key}\", new()\n        {\n" +
			"            Length = 8,\n            Special = false,\n        }));\n    }\n",
		"    var groups = new List<AzureNative.Resources.ResourceGroup>();\n",
		"            ResourceGroupName = $\"{prefix}-{range.Value}\",\n",
		"        [\"firstSuffix\"] = suffix[0].Result,\n",
	},
	"iterate-collections": {
		"    var names = config.RequireObject<string[]>(\"names\");\n",
		"    var tags = config.GetObject<Dictionary<string, string>>(\"tags\") ?? " +
			"new Dictionary<string, string>\n    {\n        [\"env\"] = \"dev\",\n    };\n",
		"        Tags = tags,\n",
		"    foreach (var range in names.Select((rangeValue, rangeIndex) => " +
			"new { Key = rangeIndex, Value = rangeValue }))\n",
		"            AccountName = range.Value,\n",
		"    foreach (var range in tags.Select(rangePair => new { rangePair.Key, rangePair.Value }))\n",
		"            ResourceGroupName = $\"{range.Key}-{range.Value}\",\n",
		"        [\"accountCount\"] = names.Length,\n",
	},
	"invokes": {
		"    var client = Output.Create(AzureNative.Authorization.GetClientConfig.InvokeAsync());\n",
		"    var group = AzureNative.Resources.GetResourceGroup.Invoke(new()\n    {\n" +
			"        ResourceGroupName = \"existing\",\n    });\n",
		"    var vault = new AzureNative.KeyVault.Vault(\"vault\", new()\n",
		"        ResourceGroupName = group.Apply(groupValue => groupValue.Name),\n",
		"        Properties = new AzureNative.KeyVault.Inputs.VaultPropertiesArgs\n        {\n",
		"            TenantId = client.Apply(clientValue => clientValue.TenantId),\n",
		"                Family = AzureNative.KeyVault.SkuFamily.A,\n",
		"                Name = AzureNative.KeyVault.SkuName.Standard,\n",
		"            SoftDeleteRetentionInDays = 7,\n",
		"        [\"tenantId\"] = client.Apply(clientValue => clientValue.TenantId),\n",
	},
	"resource-options": {
		"    var west = new AzureNative.Provider(\"west\", new()\n    {\n" +
			"        Location = \"westus\",\n    });\n",
		"    var parent = new AzureNative.Resources.ResourceGroup(\"parent\");\n",
		"    var ip = new AzureNative.Network.PublicIPAddress(\"ip\", new()\n",
		"        IdleTimeoutInMinutes = 4,\n",
		"    var network = new AzureNative.Network.VirtualNetwork(\"child-network\", new()\n",
		"            AddressPrefixes = new[]\n            {\n                \"10.0.0.0/16\",\n            },\n",
		"        Subnets = new[]\n        {\n            new AzureNative.Network.Inputs.SubnetArgs\n" +
			"            {\n                Name = \"default\",\n",
		"    }, new CustomResourceOptions\n    {\n        Parent = parent,\n        Provider = west,\n" +
			"        DependsOn =\n        {\n            ip,\n        },\n        Protect = true,\n    });\n",
		"        [\"ipAddress\"] = ip.IpAddress,\n",
	},
	"functions-secrets": {
		"using System.Linq;\nusing System.Text.Json;\nusing Pulumi;\n",
		"    var environment = config.Get(\"environment\") ?? \"Dev\";\n",
		"    var dbPassword = config.RequireSecret(\"dbPassword\");\n",
		"    var enabled = config.GetBoolean(\"enabled\") ?? true;\n",
		"    var loweredEnv = environment.ToLower();\n",
		"        ResourceGroupName = $\"rg-{loweredEnv}\",\n",
		"            { \"password\", dbPassword.Apply(value => Output.CreateSecret(value)) },\n",
		"            { \"enabled\", enabled ? \"yes\" : \"no\" },\n",
		"    var parts = \"a,b,c\".Split(\",\");\n",
		"        [\"joined\"] = string.Join(\"-\", parts),\n",
		"        [\"upperName\"] = rg.Name.Apply(name => name.ToUpper()),\n",
		"        [\"settings\"] = JsonSerializer.Serialize(new Dictionary<string, object?>\n        {\n" +
			"            [\"env\"] = environment,\n            [\"count\"] = parts.Length,\n        }),\n",
	},
	"loop-outputs": {
		"    var accounts = new List<AzureNative.Storage.StorageAccount>();\n",
		"        accounts.Add(new AzureNative.Storage.StorageAccount($\"accounts-{range.Key}\", new()\n",
		"            AccountName = rg.Name.Apply(name => $\"{name}sa{range.Key}\"),\n",
		"            ResourceGroupName = rg.Name,\n",
		"        [\"secondAccount\"] = accounts[1].Name,\n",
	},
	"config-from-invoke": {
		"    // Defaults to the location of the existing resource group.\n",
		"    var location = config.Get(\"location\") is { } locationValue ? Output.Create(locationValue) : " +
			"current.Apply(currentValue => currentValue.Location);\n",
		"        ResourceGroupName = current.Apply(currentValue => currentValue.Name),\n",
		"            TenantId = client.Apply(clientValue => clientValue.TenantId),\n",
		"            { \"region\", location },\n",
		"        [\"storageEndpoint\"] = storage.PrimaryEndpoints.Apply(primaryEndpoints => primaryEndpoints.Blob),\n",
	},
	"components": {
		"    var storageModule = new Components.Storage(\"storageModule\", new()\n    {\n",
		"        Location = current.Apply(currentValue => currentValue.Location),\n",
		"        MinimumTlsVersion = \"TLS1_2\",\n",
		"        [\"storageEndpoint\"] = storageModule.Endpoint,\n",
	},
}

var expectedFiles = map[string]map[string][]string{
	"components": {
		"Storage.cs": {
			"using System.Collections.Immutable;\n",
			"using AzureNative = Pulumi.AzureNative;\n\nnamespace Components\n{\n",
			"    public class StorageArgs : global::Pulumi.ResourceArgs\n    {\n" +
				"        /// <summary>\n        /// The resource group to deploy into.\n        /// </summary>\n" +
				"        [Input(\"resourceGroupName\")]\n" +
				"        public Input<string> ResourceGroupName { get; set; } = null!;\n\n" +
				"        [Input(\"location\")]\n        public Input<string> Location { get; set; } = null!;\n",
			"    public class Storage : global::Pulumi.ComponentResource\n    {\n" +
				"        [Output(\"endpoint\")]\n        public Output<string> Endpoint { get; private set; }\n\n" +
				"        public Storage(string name, StorageArgs args, ComponentResourceOptions? opts = null)\n" +
				"            : base(\"components:index:Storage\", name, args, opts)\n        {\n" +
				"            Output<string> resourceGroupName = args.ResourceGroupName;\n",
			"            var account = new AzureNative.Storage.StorageAccount($\"{name}-account\", new()\n",
			"                    { \"purpose\", location.Apply(locationValue => $\"storage-{locationValue}\") },\n",
			"            }, new CustomResourceOptions\n            {\n                Parent = this,\n            });\n",
			"            this.Endpoint = account.PrimaryEndpoints.Apply(primaryEndpoints => primaryEndpoints.Blob);\n",
			"            this.RegisterOutputs(new Dictionary<string, object?>\n            {\n" +
				"                [\"endpoint\"] = this.Endpoint,\n            });\n        }\n    }\n}\n",
		},
	},
}

func TestGenerateProgram(t *testing.T) {
	t.Parallel()

	test.TestProgramCodegen(t,
		test.ProgramCodegenOptions{
			Language:   test.TestDotnet,
			OutputFile: "Program.cs",
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

	main := string(files["Program.cs"])
	assert.Contains(t, main, "    var config = new Config();\n")
	assert.Contains(t, main, `var config1 = config.Require("config");`)
	assert.Contains(t, main, `var classValue = config.Require("class");`)
	assert.Contains(t, main, `var maxCount = config.GetInt32("max-count") ?? 3;`)
	assert.Contains(t, main, `["out"] = $"{config1}{classValue}{maxCount}",`)
}

func TestGenerateProgramTupleApply(t *testing.T) {
	t.Parallel()

	source := dedent.Dedent(`
		nodes:
		- resource: a
		  token: azure-native:resources:ResourceGroup
		- resource: b
		  token: azure-native:resources:ResourceGroup
		- export: both
		  value: {$template: [{$ref: a.name}, "/", {$ref: b.name}]}
		`)
	program := test.LowerSource(t, "tuple.yaml", []byte(source))

	files, diags, err := GenerateProgram(program)
	require.NoError(t, err)
	assert.Empty(t, diags)

	main := string(files["Program.cs"])
	assert.Contains(t, main, "        [\"both\"] = Output.Tuple(a.Name, b.Name).Apply(values =>\n        {\n"+
		"            var name = values.Item1;\n            var name1 = values.Item2;\n"+
		"            return $\"{name}/{name1}\";\n        }),\n")
}

func TestGenerateProgramTupleApplyShadowing(t *testing.T) {
	t.Parallel()

	source := dedent.Dedent(`
		nodes:
		- config: values
		- resource: a
		  token: azure-native:resources:ResourceGroup
		- resource: b
		  token: azure-native:resources:ResourceGroup
		- export: both
		  value: {$template: [{$ref: values}, {$ref: a.name}, {$ref: b.name}]}
		`)
	program := test.LowerSource(t, "tuple.yaml", []byte(source))

	files, diags, err := GenerateProgram(program)
	require.NoError(t, err)
	assert.Empty(t, diags)

	main := string(files["Program.cs"])
	assert.Contains(t, main, `var values = config.Require("values");`)
	assert.Contains(t, main, "Output.Tuple(a.Name, b.Name).Apply(valuesValue =>\n")
	assert.Contains(t, main, "var name = valuesValue.Item1;")
	assert.Contains(t, main, "return $\"{values}{name}{name1}\";")
}

func TestGenerateProgramUnsupported(t *testing.T) {
	t.Parallel()

	files, diags, err := GenerateProgram(test.LowerProgram(t, "lifted-range"))
	require.NoError(t, err)
	assert.Nil(t, files)
	assert.True(t, pcl.HasKind(diags, pcl.UnsupportedConstruct))
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
		{"two\nlines\n", "@\"two\nlines\n\""},
		{"quote \"a\"\nand\nmore", "@\"quote \"\"a\"\"\nand\nmore\""},
		{`back\slash`, `"back\\slash"`},
		{"tab\there", `"tab\there"`},
	}
	for _, c := range cases {
		var sb strings.Builder
		g.genStringLiteral(&sb, c.input)
		assert.Equal(t, c.expected, sb.String(), c.input)
	}
}

func TestGenTemplateExpression(t *testing.T) {
	t.Parallel()

	source := dedent.Dedent(`
		nodes:
		- config: name
		- config: flag
		  type: bool
		- variable: braces
		  value: {$template: ["{", {$ref: name}, "}"]}
		- variable: choice
		  value: {$template: ["is ", {$if: {condition: {$ref: flag}, then: "on", else: "off"}}]}
		- variable: constant
		  value: {$template: ["just ", "text"]}
		- export: out
		  value: {$template: [{$ref: braces}, {$ref: choice}, {$ref: constant}]}
		`)
	program := test.LowerSource(t, "templates.yaml", []byte(source))

	files, _, err := GenerateProgram(program)
	require.NoError(t, err)

	main := string(files["Program.cs"])
	assert.Contains(t, main, `var braces = $"{{{name}}}";`)
	assert.Contains(t, main, `var choice = $"is {(flag ? "on" : "off")}";`)
	assert.Contains(t, main, `var constant = "just text";`)
}
