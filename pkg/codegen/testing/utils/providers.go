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
	"embed"
	"path"
	"sync"

	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/schema"
)

//go:embed testdata/schemas
var schemas embed.FS

// GetSchema returns the serialized schema of the named test package.
func GetSchema(name string) (*schema.PackageSpec, error) {
	for _, ext := range []string{".json", ".yaml"} {
		file := path.Join("testdata", "schemas", name+ext)
		data, err := schemas.ReadFile(file)
		if err != nil {
			continue
		}
		return schema.ParsePackageSpec(file, data)
	}
	return nil, &MissingSchemaError{Name: name}
}

// MissingSchemaError is returned when no test schema exists for a package.
type MissingSchemaError struct {
	Name string
}

func (e *MissingSchemaError) Error() string {
	return "no test schema for package " + e.Name
}

type PackageLoader func() (*schema.Package, error)

// NewPackageLoader returns a loader that binds the named test schema once and returns the same package on every
// call.
func NewPackageLoader(name string) PackageLoader {
	var once sync.Once
	var pkg *schema.Package
	var err error
	return func() (*schema.Package, error) {
		once.Do(func() {
			var spec *schema.PackageSpec
			if spec, err = GetSchema(name); err != nil {
				return
			}
			p, diags := schema.ImportSpec(*spec)
			if diags.HasErrors() {
				err = diags
				return
			}
			pkg = p
		})
		return pkg, err
	}
}

var (
	AzureNative = NewPackageLoader("azure-native")
	Random      = NewPackageLoader("random")
)
