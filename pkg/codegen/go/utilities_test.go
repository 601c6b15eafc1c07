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

package gen

import (
	"testing"

	"github.com/blang/semver"
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
		{"+", "", true},
		{"*", "TypeNameAsterisk", false},
		{"0", "TypeNameZero", false},
		{"8.3", "TypeName_8_3", false},
		{"11", "TypeName_11", false},
		{"Microsoft-Windows-Shell-Startup", "TypeName_Microsoft_Windows_Shell_Startup", false},
		{"Microsoft.Batch", "TypeName_Microsoft_Batch", false},
		{"readonly", "TypeNameReadonly", false},
		{"SystemAssigned, UserAssigned", "TypeName_SystemAssigned_UserAssigned", false},
		{"Dev(NoSLA)_Standard_D11_v2", "TypeName_Dev_NoSLA_Standard_D11_v2", false},
		{"Standard_E8as_v4+1TB_PS", "TypeName_Standard_E8as_v4_1TB_PS", false},
		{"Standard_LRS", "SkuName_Standard_LRS", false},
		{"StorageV2", "TypeNameStorageV2", false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			typeName := "TypeName"
			if tt.input == "Standard_LRS" {
				typeName = "SkuName"
			}
			got, err := makeSafeEnumName(tt.input, typeName)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMakeValidIdentifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"&opts0", "&opts0"},
		{"8", "_8"},
		{"max-count", "max_count"},
		{"type", "_type"},
		{"len", "_len"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, makeValidIdentifier(tt.input))
		})
	}
}

func TestPackageImportBase(t *testing.T) {
	t.Parallel()

	withInfo := &schema.Package{
		Name:     "azure-native",
		Language: map[string]json.RawMessage{"go": json.RawMessage(`{"importBasePath": "github.com/pulumi/pulumi-azure-native-sdk/v2"}`)},
	}
	base, err := packageImportBase(withInfo)
	require.NoError(t, err)
	assert.Equal(t, "github.com/pulumi/pulumi-azure-native-sdk/v2", base)
	assert.Equal(t, "azurenative", packageAlias(withInfo, base))

	v4 := semver.MustParse("4.16.0")
	versioned := &schema.Package{Name: "random", Version: &v4}
	base, err = packageImportBase(versioned)
	require.NoError(t, err)
	assert.Equal(t, "github.com/pulumi/pulumi-random/sdk/v4/go/random", base)
	assert.Equal(t, "random", packageAlias(versioned, base))

	v1 := semver.MustParse("1.2.0")
	base, err = packageImportBase(&schema.Package{Name: "tls", Version: &v1})
	require.NoError(t, err)
	assert.Equal(t, "github.com/pulumi/pulumi-tls/sdk/go/tls", base)
}
