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
	"bytes"
	"embed"
	"path"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/pcl"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/testing/utils"
	"github.com/pulumi/pulumi-converter-arm/pkg/tree"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/programs
var programs embed.FS

// ReadProgram returns the source of the named test program.
func ReadProgram(t testing.TB, name string) []byte {
	t.Helper()

	source, err := programs.ReadFile(path.Join("testdata", "programs", name+".yaml"))
	require.NoError(t, err)
	return source
}

// LowerProgram decodes, binds, schedules and lowers the named test program. Any diagnostic fails the test.
func LowerProgram(t testing.TB, name string) *pcl.LoweredProgram {
	t.Helper()
	return LowerSource(t, name+".yaml", ReadProgram(t, name))
}

// LowerSource runs the front half of the conversion pipeline over a program source. Any diagnostic fails the
// test.
func LowerSource(t testing.TB, filename string, source []byte) *pcl.LoweredProgram {
	t.Helper()

	program, diags := tree.Decode(filename, source)
	requireNoDiagnostics(t, filename, source, "decode", diags)

	bound, diags := pcl.BindProgram(program, utils.Registry(t))
	requireNoDiagnostics(t, filename, source, "bind", diags)

	units, diags := pcl.Schedule(bound)
	requireNoDiagnostics(t, filename, source, "schedule", diags)

	lowered, diags := pcl.LowerProgram(bound, units)
	requireNoDiagnostics(t, filename, source, "lower", diags)
	return lowered
}

func requireNoDiagnostics(t testing.TB, filename string, source []byte, phase string, diags hcl.Diagnostics) {
	t.Helper()

	if len(diags) == 0 {
		return
	}
	t.Fatalf("failed to %v %v:\n%s", phase, filename, FormatDiagnostics(filename, source, diags))
}

// FormatDiagnostics renders diagnostics against their source for test failure messages.
func FormatDiagnostics(filename string, source []byte, diags hcl.Diagnostics) string {
	var buf bytes.Buffer
	files := map[string]*hcl.File{filename: {Bytes: source}}
	if err := hcl.NewDiagnosticTextWriter(&buf, files, 80, false).WriteDiagnostics(diags); err != nil {
		return diags.Error()
	}
	return buf.String()
}
