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

package gen

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/schema"
)

// GoPackageInfo holds the "go" language section of a package schema.
type GoPackageInfo struct {
	// Base path for package imports, e.g. "github.com/pulumi/pulumi-azure-native-sdk/v2".
	ImportBasePath string `json:"importBasePath,omitempty"`
}

var goKeywords = codegen.NewStringSet(
	"break", "case", "chan", "const", "continue", "default", "defer", "else", "fallthrough", "for", "func", "go",
	"goto", "if", "import", "interface", "map", "package", "range", "return", "select", "struct", "switch", "type",
	"var",
)

var goBuiltins = codegen.NewStringSet(
	"any", "append", "bool", "byte", "cap", "close", "complex", "copy", "delete", "error", "false", "float32",
	"float64", "int", "iota", "len", "make", "new", "nil", "panic", "print", "println", "real", "recover",
	"rune", "string", "true", "uint", "uintptr",
)

func isReservedWord(s string) bool {
	return goKeywords.Has(s) || goBuiltins.Has(s)
}

func isLegalIdentifierStart(c rune) bool {
	return c == '_' || unicode.IsLetter(c)
}

func isLegalIdentifierPart(c rune) bool {
	return isLegalIdentifierStart(c) || unicode.IsDigit(c)
}

// makeValidIdentifier replaces characters that are not allowed in Go identifiers with underscores. A leading '&' is
// kept so that address-of expressions pass through unchanged.
func makeValidIdentifier(name string) string {
	var builder strings.Builder
	for i, c := range name {
		if i == 0 && c == '&' {
			builder.WriteRune(c)
			continue
		}
		if !isLegalIdentifierPart(c) {
			builder.WriteRune('_')
			continue
		}
		if i == 0 && !isLegalIdentifierStart(c) {
			builder.WriteRune('_')
		}
		builder.WriteRune(c)
	}
	name = builder.String()
	if isReservedWord(name) {
		return "_" + name
	}
	return name
}

// variableName computes the camelCase identifier of a declaration.
func variableName(name string) string {
	camel := strcase.ToLowerCamel(name)
	if camel == "" {
		camel = name
	}
	return makeValidIdentifier(camel)
}

var multipleUnderscores = regexp.MustCompile(`_+`)

func makeSafeEnumName(name, typeName string) (string, error) {
	// Replace common single character enum names.
	safeName := codegen.ExpandShortEnumName(name)

	// If the name is one illegal character, return an error.
	if len(safeName) == 1 && !isLegalIdentifierStart(rune(safeName[0])) {
		return "", fmt.Errorf("enum name %s is not a valid identifier", safeName)
	}

	// Capitalize and make a valid identifier.
	safeName = makeValidIdentifier(codegen.Title(safeName))

	// If there are multiple underscores in a row, replace with one.
	safeName = multipleUnderscores.ReplaceAllString(safeName, "_")

	// Add an underscore separator if the name is not a single word.
	if strings.Contains(safeName, "_") && !strings.HasPrefix(safeName, "_") {
		safeName = "_" + safeName
	}

	return typeName + safeName, nil
}

var majorVersionSegment = regexp.MustCompile(`^v\d+$`)

// packageImportBase returns the import path of a package's index module.
func packageImportBase(pkg *schema.Package) (string, error) {
	var info GoPackageInfo
	if err := pkg.LanguageInfo("go", &info); err != nil {
		return "", fmt.Errorf("decoding go package info of %v: %w", pkg.Name, err)
	}
	if info.ImportBasePath != "" {
		return info.ImportBasePath, nil
	}

	version := ""
	if pkg.Version != nil && pkg.Version.Major > 1 {
		version = fmt.Sprintf("/v%d", pkg.Version.Major)
	}
	return fmt.Sprintf("github.com/pulumi/pulumi-%s/sdk%s/go/%s", pkg.Name, version, pkg.Name), nil
}

// packageAlias returns the identifier under which the index module of a package is imported.
func packageAlias(pkg *schema.Package, base string) string {
	alias := base[strings.LastIndex(base, "/")+1:]
	if majorVersionSegment.MatchString(alias) || strings.Contains(alias, "-") {
		alias = strings.ReplaceAll(pkg.Name, "-", "")
	}
	return makeValidIdentifier(alias)
}
