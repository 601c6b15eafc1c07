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
	"testing"

	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/schema"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeSafeEnumName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"red", "Red", false},
		{"+", "", true},
		{"*", "Asterisk", false},
		{"0", "Zero", false},
		{"8.3", "TypeName_8_3", false},
		{"Microsoft.Storage", "Microsoft_Storage", false},
		{"SystemAssigned, UserAssigned", "SystemAssigned_UserAssigned", false},
		{"Standard_LRS", "Standard_LRS", false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := makeSafeEnumName(tt.input, "TypeName")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestVariableName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "storageAccount", variableName("storage-account"))
	assert.Equal(t, "resourceGroupName", variableName("resourceGroupName"))
	assert.Equal(t, "new_", variableName("new"))
	assert.Equal(t, "_1st", variableName("1st"))
	assert.Equal(t, "subnet2ndTier", variableName("Subnet2ndTier"))
	assert.Equal(t, "maxCount", variableName("max_count"))
}

func TestEscape(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "test", escape("test"))
	assert.Equal(t, `sub\"string\"`, escape(`sub"string"`))
	assert.Equal(t, `slash\\s`, escape(`slash\s`))
	assert.Equal(t, `line\nbreak`, escape("line\nbreak"))
}

func TestLookupNodePackageInfo(t *testing.T) {
	t.Parallel()

	info, err := lookupNodePackageInfo(&schema.Package{Name: "azure-native"})
	require.NoError(t, err)
	assert.Equal(t, "@pulumi/azure-native", info.PackageName)

	info, err = lookupNodePackageInfo(&schema.Package{
		Name:     "widgets",
		Language: map[string]json.RawMessage{"nodejs": json.RawMessage(`{"packageName": "@acme/widgets"}`)},
	})
	require.NoError(t, err)
	assert.Equal(t, "@acme/widgets", info.PackageName)

	_, err = lookupNodePackageInfo(&schema.Package{
		Name:     "broken",
		Language: map[string]json.RawMessage{"nodejs": json.RawMessage(`[]`)},
	})
	assert.ErrorContains(t, err, "decoding nodejs information for package broken")
}
