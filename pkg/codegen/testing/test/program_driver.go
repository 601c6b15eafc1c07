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

package test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/pcl"
	"github.com/pulumi/pulumi/sdk/v3/go/common/util/cmdutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	TestNodeJS = "nodejs"
	TestPython = "python"
	TestGo     = "go"
	TestDotnet = "dotnet"
)

var allProgLanguages = codegen.NewStringSet(TestDotnet, TestPython, TestGo, TestNodeJS)

type ProgramTest struct {
	// Name is the name of the program under testdata/programs, without its extension.
	Name        string
	Description string
	Skip        codegen.StringSet
}

var ProgramTests = []ProgramTest{
	{
		Name:        "azure-storage",
		Description: "A resource group and a storage account with enums and a nested object",
	},
	{
		Name:        "resource-range",
		Description: "Counted resources and indexing into a resource list",
	},
	{
		Name:        "iterate-collections",
		Description: "Resources replicated over a list and a map from configuration",
	},
	{
		Name:        "lifted-range",
		Description: "Resources replicated over an eventual list",
		// Resources cannot be created inside an apply in these languages.
		Skip: codegen.NewStringSet(TestGo, TestDotnet),
	},
	{
		Name:        "invokes",
		Description: "Promise and output invokes feeding a resource",
	},
	{
		Name:        "resource-options",
		Description: "Parent, provider, dependsOn and protect with a forward reference",
	},
	{
		Name:        "functions-secrets",
		Description: "Builtin functions, secrets and conditionals",
	},
	{
		Name:        "loop-outputs",
		Description: "Counted resources whose inputs combine a resource output with the loop index",
	},
	{
		Name:        "config-from-invoke",
		Description: "An invoke result defaulting a configuration value that feeds a vault and a storage account",
	},
	{
		Name:        "components",
		Description: "A component type instantiated with outputs of an invoke",
	},
}

// SingleTestCase is useful when debugging a single test case.
func SingleTestCase(name string) []ProgramTest {
	output := make([]ProgramTest, 0)
	for _, t := range ProgramTests {
		if t.Name == name {
			output = append(output, t)
		}
	}
	return output
}

// GenProgram generates the files of a program in a target language.
type GenProgram = func(program *pcl.LoweredProgram) (map[string][]byte, hcl.Diagnostics, error)

type ProgramCodegenOptions struct {
	Language string
	// OutputFile is the name of the generated main file.
	OutputFile string
	GenProgram GenProgram
	TestCases  []ProgramTest
	// Expected maps a test name to snippets that the generated main file must contain.
	Expected map[string][]string
	// ExpectedFiles maps a test name to the snippets that other generated files must contain, by file name.
	ExpectedFiles map[string]map[string][]string
}

// TestProgramCodegen generates code for each test program and checks the result against the expected snippets.
// Generation must succeed without diagnostics and produce identical output when repeated.
//
// If PULUMI_ACCEPT is set, the generated files are written under testdata/output for inspection.
func TestProgramCodegen(t *testing.T, testcase ProgramCodegenOptions) {
	require.NotNil(t, testcase.TestCases, "Caller must provide test cases")
	pulumiAccept := cmdutil.IsTruthy(os.Getenv("PULUMI_ACCEPT"))

	for _, tt := range testcase.TestCases {
		t.Run(tt.Name, func(t *testing.T) {
			t.Parallel()

			if tt.Skip.Has(testcase.Language) {
				t.Skip()
				return
			}

			source := ReadProgram(t, tt.Name)
			program := LowerProgram(t, tt.Name)

			files, diags, err := testcase.GenProgram(program)
			require.NoError(t, err)
			if len(diags) > 0 {
				t.Fatalf("failed to generate program:\n%s", FormatDiagnostics(tt.Name+".yaml", source, diags))
			}

			main, ok := files[testcase.OutputFile]
			require.Truef(t, ok, "missing %v", testcase.OutputFile)
			for _, snippet := range testcase.Expected[tt.Name] {
				assert.Contains(t, string(main), snippet)
			}
			for name, snippets := range testcase.ExpectedFiles[tt.Name] {
				content, ok := files[name]
				if !assert.Truef(t, ok, "missing %v", name) {
					continue
				}
				for _, snippet := range snippets {
					assert.Contains(t, string(content), snippet)
				}
			}

			again, _, err := testcase.GenProgram(program)
			require.NoError(t, err)
			assert.Equal(t, files, again, "generation is not deterministic")

			if pulumiAccept {
				dir := filepath.Join("testdata", "output", tt.Name, testcase.Language)
				require.NoError(t, os.MkdirAll(dir, 0o700))
				for name, content := range files {
					require.NoError(t, os.WriteFile(filepath.Join(dir, name), content, 0o600))
				}
			}
		})
	}
}
