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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeValidIdentifier(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Name":  "Name",
		"class": "classValue",
		"1abc":  "_1abc",
		"a-b":   "a_b",
		"_x":    "_x",
	}
	for input, expected := range cases {
		assert.Equal(t, expected, makeValidIdentifier(input), input)
	}
}

func TestVariableName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "maxCount", variableName("max-count"))
	assert.Equal(t, "dbPassword", variableName("dbPassword"))
	assert.Equal(t, "stringValue", variableName("string"))
}

func TestMakeSafeEnumName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input, expected string
		wantErr         bool
	}{
		{input: "Standard_LRS", expected: "Standard_LRS"},
		{input: "standard", expected: "Standard"},
		{input: "*", expected: "Asterisk"},
		{input: "equals", expected: "EqualsValue"},
		{input: "a--b", expected: "A_b"},
		{input: "1.2", expected: "TlsVersion_1_2"},
		{input: "-", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := makeSafeEnumName(tt.input, "TlsVersion")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNamespaceName(t *testing.T) {
	t.Parallel()

	info := CSharpPackageInfo{Namespaces: map[string]string{"keyvault": "KeyVault"}}
	assert.Equal(t, "KeyVault", info.namespaceName("keyvault"))
	assert.Equal(t, "Storage", info.namespaceName("storage"))
	assert.Equal(t, "AppService", info.namespaceName("app-service"))
}

func TestEscape(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `a{b}\"`, escape(`a{b}"`, false))
	assert.Equal(t, `a{{b}}\"`, escape(`a{b}"`, true))
	assert.Equal(t, `line\nbreak\\`, escape("line\nbreak\\", false))
}
