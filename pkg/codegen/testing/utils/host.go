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

package utils

import (
	"testing"

	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/schema"
	"github.com/stretchr/testify/require"
)

// NewRegistry creates a schema registry over the given test packages. With no loaders, every test package is
// included.
func NewRegistry(loaders ...PackageLoader) (*schema.Registry, error) {
	if len(loaders) == 0 {
		loaders = []PackageLoader{AzureNative, Random}
	}
	pkgs := make([]*schema.Package, 0, len(loaders))
	for _, load := range loaders {
		pkg, err := load()
		if err != nil {
			return nil, err
		}
		pkgs = append(pkgs, pkg)
	}
	return schema.NewRegistry(pkgs...)
}

// Registry returns a registry over every test package and fails the test if one cannot be loaded.
func Registry(t testing.TB) *schema.Registry {
	registry, err := NewRegistry()
	require.NoError(t, err)
	return registry
}
