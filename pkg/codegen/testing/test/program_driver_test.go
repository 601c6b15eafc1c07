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
	"io/fs"
	"path"
	"strings"
	"testing"

	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/pcl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Checks that every program under testdata/programs is in the test list.
func TestProgramsCovered(t *testing.T) {
	t.Parallel()

	entries, err := fs.ReadDir(programs, path.Join("testdata", "programs"))
	require.NoError(t, err)

	tested := map[string]bool{}
	for _, tt := range ProgramTests {
		tested[tt.Name] = true
	}
	var untested []string
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".yaml")
		if !tested[name] {
			untested = append(untested, name)
		}
	}
	assert.Empty(t, untested, "untested programs")
	assert.Len(t, entries, len(ProgramTests))
}

func TestProgramsLower(t *testing.T) {
	t.Parallel()

	for _, tt := range ProgramTests {
		t.Run(tt.Name, func(t *testing.T) {
			t.Parallel()

			program := LowerProgram(t, tt.Name)
			assert.Len(t, program.Nodes, len(program.Source.Nodes))
			for _, n := range program.Nodes {
				assert.False(t, n.HasErrors(), n.Name())
			}
		})
	}
}

func TestResourceOptionsSchedule(t *testing.T) {
	t.Parallel()

	program := LowerProgram(t, "resource-options")
	names := make([]string, len(program.Nodes))
	for i, n := range program.Nodes {
		names[i] = n.Name()
	}
	assert.Equal(t, []string{"west", "parent", "ip", "network", "ipAddress"}, names)

	network, ok := program.Nodes[3].(*pcl.Resource)
	require.True(t, ok)
	assert.Equal(t, "child-network", network.LogicalName)
	assert.ElementsMatch(t, []string{"parent", "west", "ip"}, network.Dependencies())
}

func TestSingleTestCase(t *testing.T) {
	t.Parallel()

	assert.Len(t, SingleTestCase("invokes"), 1)
	assert.Empty(t, SingleTestCase("missing"))
	assert.True(t, allProgLanguages.Has(TestGo))
}
