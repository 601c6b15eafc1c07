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

package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const widgetSchema = `
name: widgets
version: 1.2.3
language:
  csharp:
    namespaces:
      widgets: Widgets
resources:
  widgets:shop:Widget:
    inputProperties:
      color:
        $ref: "#/types/widgets:shop:Color"
      size:
        $ref: "#/types/widgets:shop:Size"
      labels:
        type: object
        additionalProperties:
          type: string
    properties:
      serial:
        type: string
      parts:
        type: array
        items:
          $ref: "#/types/widgets:shop:Size"
functions:
  widgets:shop:getWidget:
    inputs:
      properties:
        serial:
          type: string
    outputs:
      properties:
        color:
          type: string
types:
  widgets:shop:Color:
    type: string
    enum:
    - name: Red
      value: red
    - value: blue
  widgets:shop:Size:
    type: object
    properties:
      height:
        type: integer
      depth:
        type: number
`

func loadWidgets(t *testing.T) *Package {
	spec, err := ParsePackageSpec("widgets.yaml", []byte(widgetSchema))
	require.NoError(t, err)
	pkg, diags := ImportSpec(*spec)
	require.Empty(t, diags)
	return pkg
}

func TestImportSpec(t *testing.T) {
	t.Parallel()

	pkg := loadWidgets(t)
	assert.Equal(t, "widgets", pkg.Name)
	require.NotNil(t, pkg.Version)
	assert.Equal(t, "1.2.3", pkg.Version.String())

	widget, ok := pkg.GetResource("widgets:shop:Widget")
	require.True(t, ok)
	assert.False(t, widget.IsProvider)

	color, ok := widget.InputProperty("color")
	require.True(t, ok)
	enum, ok := color.Type.(*EnumType)
	require.True(t, ok)
	assert.Equal(t, StringType, enum.ElementType)
	red, ok := enum.Element("red")
	require.True(t, ok)
	assert.Equal(t, "Red", red.Name)
	_, ok = enum.Element("green")
	assert.False(t, ok)

	size, ok := widget.InputProperty("size")
	require.True(t, ok)
	obj, ok := size.Type.(*ObjectType)
	require.True(t, ok)
	assert.Equal(t, "widgets:shop:Size", obj.Token)
	height, ok := obj.Property("height")
	require.True(t, ok)
	assert.Equal(t, IntType, height.Type)

	labels, ok := widget.InputProperty("labels")
	require.True(t, ok)
	assert.Equal(t, &MapType{ElementType: StringType}, labels.Type)

	parts, ok := widget.Property("parts")
	require.True(t, ok)
	arr, ok := parts.Type.(*ArrayType)
	require.True(t, ok)
	assert.Same(t, obj, arr.ElementType)

	for _, name := range []string{"id", "urn", "serial"} {
		_, ok := widget.Property(name)
		assert.True(t, ok, name)
	}

	fn, ok := pkg.GetFunction("widgets:shop:getWidget")
	require.True(t, ok)
	require.NotNil(t, fn.Inputs)
	require.NotNil(t, fn.Outputs)
	_, ok = fn.Outputs.Property("color")
	assert.True(t, ok)

	require.NotNil(t, pkg.Provider)
	assert.True(t, pkg.Provider.IsProvider)
	assert.Equal(t, "pulumi:providers:widgets", pkg.Provider.Token)
}

func TestImportSpecErrors(t *testing.T) {
	t.Parallel()

	_, diags := ImportSpec(PackageSpec{
		Version: "not-a-version",
		Resources: map[string]ResourceSpec{
			"p:m:R": {InputProperties: map[string]PropertySpec{
				"a": {TypeSpec: TypeSpec{Ref: "#/types/p:m:Missing"}},
				"b": {TypeSpec: TypeSpec{Type: "tuple"}},
				"c": {TypeSpec: TypeSpec{Ref: "other.json#/types/p:m:T"}},
			}},
		},
	})
	assert.True(t, diags.HasErrors())
	// Missing name, bad version and the three bad properties.
	assert.Len(t, diags, 5)
}

func TestLanguageInfo(t *testing.T) {
	t.Parallel()

	pkg := loadWidgets(t)
	var info struct {
		Namespaces map[string]string `json:"namespaces"`
	}
	require.NoError(t, pkg.LanguageInfo("csharp", &info))
	assert.Equal(t, map[string]string{"widgets": "Widgets"}, info.Namespaces)

	var none struct{ Field string }
	require.NoError(t, pkg.LanguageInfo("python", &none))
	assert.Empty(t, none.Field)
}

func TestTokenToModule(t *testing.T) {
	t.Parallel()

	pkg := &Package{Name: "p"}
	cases := map[string]string{
		"azure-native:storage:StorageAccount":   "storage",
		"random:index/randomString:RandomString": "",
		"aws:s3/bucket:Bucket":                   "s3",
		"p:index:Thing":                          "",
		"invalid":                                "",
	}
	for token, expected := range cases {
		assert.Equal(t, expected, pkg.TokenToModule(token), token)
	}
}

func TestDecomposeToken(t *testing.T) {
	t.Parallel()

	pkg, module, member, err := DecomposeToken("azure-native:storage:StorageAccount")
	require.NoError(t, err)
	assert.Equal(t, []string{"azure-native", "storage", "StorageAccount"}, []string{pkg, module, member})

	_, _, _, err = DecomposeToken("a:b")
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	pkg := loadWidgets(t)
	r, err := NewRegistry(pkg)
	require.NoError(t, err)

	m, ok := r.Lookup("widgets:shop:Widget")
	require.True(t, ok)
	assert.Equal(t, "widgets:shop:Widget", m.TypeToken())
	assert.Same(t, pkg, m.DefiningPackage())

	_, ok = r.Lookup("widgets:shop:getWidget")
	assert.True(t, ok)
	_, ok = r.Lookup("pulumi:providers:widgets")
	assert.True(t, ok)
	_, ok = r.Lookup("widgets:Shop:Widget")
	assert.False(t, ok)

	_, err = NewRegistry(pkg, pkg)
	assert.Error(t, err)
}

func TestLoader(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "widgets.yaml"), []byte(widgetSchema), 0o600))
	gadgets := dedent.Dedent(`
		{
		  "name": "gadgets",
		  "resources": {
		    "gadgets:index:Gadget": {"inputProperties": {"name": {"type": "string"}}}
		  }
		}
		`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gadgets.json"), []byte(gadgets), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("not a schema"), 0o600))

	l := NewLoader()
	r, err := l.LoadRegistry(dir)
	require.NoError(t, err)

	pkgs := r.Packages()
	require.Len(t, pkgs, 2)
	assert.Equal(t, "gadgets", pkgs[0].Name)
	assert.Equal(t, "widgets", pkgs[1].Name)

	again, err := l.LoadPackage(filepath.Join(dir, "widgets.yaml"))
	require.NoError(t, err)
	assert.Same(t, pkgs[1], again)

	_, err = l.LoadRegistry(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestParsePackageSpecInvalid(t *testing.T) {
	t.Parallel()

	_, err := ParsePackageSpec("bad.json", []byte("{"))
	assert.Error(t, err)
	_, err = ParsePackageSpec("bad.yaml", []byte("name: [unclosed"))
	assert.Error(t, err)
}
