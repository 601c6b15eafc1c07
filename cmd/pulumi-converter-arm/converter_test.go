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

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/pcl"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/schema"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/testing/test"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/testing/utils"
	"github.com/pulumi/pulumi/sdk/v3/go/common/resource/plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var schemaDir = filepath.Join("..", "..", "pkg", "codegen", "testing", "utils", "testdata", "schemas")

func writeProgram(t *testing.T, name string, source []byte) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), source, 0o600))
	return dir
}

func TestParseRequestArgs(t *testing.T) {
	t.Parallel()

	opts, err := parseRequestArgs(nil)
	require.NoError(t, err)
	assert.Equal(t, "typescript", opts.language)
	assert.Empty(t, opts.schemas)

	opts, err = parseRequestArgs([]string{"--language", "python", "--schema", "a.json", "--schema", "b"})
	require.NoError(t, err)
	assert.Equal(t, "python", opts.language)
	assert.Equal(t, []string{"a.json", "b"}, opts.schemas)

	_, err = parseRequestArgs([]string{"--unknown"})
	assert.Error(t, err)
}

func TestConvertProgram(t *testing.T) {
	t.Parallel()

	cases := []struct {
		language string
		file     string
	}{
		{"typescript", "index.ts"},
		{"python", "__main__.py"},
		{"go", "main.go"},
		{"csharp", "Program.cs"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.language, func(t *testing.T) {
			t.Parallel()

			source := writeProgram(t, "program.yaml", test.ReadProgram(t, "azure-storage"))
			target := t.TempDir()
			converter := newConverter(utils.Registry(t), schema.NewLoader(), nil)

			resp, err := converter.ConvertProgram(context.Background(), &plugin.ConvertProgramRequest{
				SourceDirectory: source,
				TargetDirectory: target,
				Args:            []string{"--language", c.language},
			})
			require.NoError(t, err)
			assert.Empty(t, resp.Diagnostics)

			content, err := os.ReadFile(filepath.Join(target, c.file))
			require.NoError(t, err)
			assert.NotEmpty(t, content)
		})
	}
}

func TestConvertProgramJSON(t *testing.T) {
	t.Parallel()

	program := `{"nodes": [{"config": "name"}, {"export": "out", "value": {"$ref": "name"}}]}`
	source := writeProgram(t, "program.json", []byte(program))
	target := t.TempDir()
	converter := newConverter(utils.Registry(t), schema.NewLoader(), nil)

	resp, err := converter.ConvertProgram(context.Background(), &plugin.ConvertProgramRequest{
		SourceDirectory: source,
		TargetDirectory: target,
		Args:            []string{"--language", "python"},
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Diagnostics)
	assert.FileExists(t, filepath.Join(target, "__main__.py"))
}

func TestConvertProgramDiagnostics(t *testing.T) {
	t.Parallel()

	source := writeProgram(t, "program.yaml", []byte(dedent.Dedent(`
		nodes:
		- resource: thing
		  token: not.a.real/Type
		`)))
	target := filepath.Join(t.TempDir(), "out")
	converter := newConverter(utils.Registry(t), schema.NewLoader(), nil)

	resp, err := converter.ConvertProgram(context.Background(), &plugin.ConvertProgramRequest{
		SourceDirectory: source,
		TargetDirectory: target,
	})
	require.NoError(t, err)
	assert.Equal(t, []pcl.DiagnosticKind{pcl.UnknownType}, pcl.Kinds(resp.Diagnostics))
	assert.NoDirExists(t, target)
}

func TestConvertProgramMissingTree(t *testing.T) {
	t.Parallel()

	converter := newConverter(utils.Registry(t), schema.NewLoader(), nil)
	_, err := converter.ConvertProgram(context.Background(), &plugin.ConvertProgramRequest{
		SourceDirectory: t.TempDir(),
		TargetDirectory: t.TempDir(),
	})
	assert.ErrorContains(t, err, "no program tree found")
}

func TestConvertProgramRequestSchemas(t *testing.T) {
	t.Parallel()

	source := writeProgram(t, "program.yaml", test.ReadProgram(t, "resource-range"))
	target := t.TempDir()
	empty, err := schema.NewRegistry()
	require.NoError(t, err)
	converter := newConverter(empty, schema.NewLoader(), nil)

	resp, err := converter.ConvertProgram(context.Background(), &plugin.ConvertProgramRequest{
		SourceDirectory: source,
		TargetDirectory: target,
		Args:            []string{"--language", "go", "--schema", schemaDir},
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Diagnostics)
	assert.FileExists(t, filepath.Join(target, "main.go"))
}

func TestConvertState(t *testing.T) {
	t.Parallel()

	converter := newConverter(utils.Registry(t), schema.NewLoader(), nil)
	resp, err := converter.ConvertState(context.Background(), &plugin.ConvertStateRequest{})
	require.NoError(t, err)
	assert.Empty(t, resp.Resources)
	assert.Equal(t, []pcl.DiagnosticKind{pcl.UnsupportedConstruct}, pcl.Kinds(resp.Diagnostics))
}

func TestClose(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	converter := newConverter(utils.Registry(t), schema.NewLoader(), cancel)
	require.NoError(t, converter.Close())
	assert.Error(t, ctx.Err())
}

func TestRunConvert(t *testing.T) {
	t.Parallel()

	registry, err := loadRegistry(schema.NewLoader(), []string{schemaDir})
	require.NoError(t, err)

	dir := writeProgram(t, "storage.yaml", test.ReadProgram(t, "azure-storage"))
	out := t.TempDir()
	var stderr bytes.Buffer
	err = runConvert(registry, filepath.Join(dir, "storage.yaml"), []string{"typescript", "go"}, out, &stderr)
	require.NoError(t, err)
	assert.Empty(t, stderr.String())
	assert.FileExists(t, filepath.Join(out, "nodejs", "index.ts"))
	assert.FileExists(t, filepath.Join(out, "go", "main.go"))
}

func TestRunConvertFailure(t *testing.T) {
	t.Parallel()

	registry, err := loadRegistry(schema.NewLoader(), []string{schemaDir})
	require.NoError(t, err)

	dir := writeProgram(t, "lifted.yaml", test.ReadProgram(t, "lifted-range"))
	out := t.TempDir()
	var stderr bytes.Buffer
	err = runConvert(registry, filepath.Join(dir, "lifted.yaml"), []string{"python", "go"}, out, &stderr)
	assert.ErrorContains(t, err, "conversion to [go] failed")
	assert.Contains(t, stderr.String(), "lifted.yaml")
	assert.FileExists(t, filepath.Join(out, "python", "__main__.py"))
	assert.NoDirExists(t, filepath.Join(out, "go"))
}
