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

package python

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/schema"
)

// isLegalIdentifierStart returns true if it is legal for c to be the first character of a Python identifier as per
// https://docs.python.org/3.7/reference/lexical_analysis.html#identifiers.
func isLegalIdentifierStart(c rune) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' ||
		unicode.In(c, unicode.Lu, unicode.Ll, unicode.Lt, unicode.Lm, unicode.Lo, unicode.Nl)
}

// isLegalIdentifierPart returns true if it is legal for c to be part of a Python identifier (besides the first
// character) as per https://docs.python.org/3.7/reference/lexical_analysis.html#identifiers.
func isLegalIdentifierPart(c rune) bool {
	return isLegalIdentifierStart(c) || c >= '0' && c <= '9' ||
		unicode.In(c, unicode.Lu, unicode.Ll, unicode.Lt, unicode.Lm, unicode.Lo, unicode.Nl, unicode.Mn, unicode.Mc,
			unicode.Nd, unicode.Pc)
}

// isLegalIdentifier returns true if s is a legal Python identifier.
func isLegalIdentifier(s string) bool {
	if s == "" || Keywords.Has(s) {
		return false
	}
	for i, c := range s {
		if i == 0 && !isLegalIdentifierStart(c) || !isLegalIdentifierPart(c) {
			return false
		}
	}
	return true
}

// makeValidIdentifier replaces characters that are not allowed in Python identifiers with underscores. No attempt is
// made to ensure that the result is unique.
func makeValidIdentifier(name string) string {
	var builder strings.Builder
	for i, c := range name {
		if !isLegalIdentifierPart(c) {
			builder.WriteRune('_')
			continue
		}
		if i == 0 && !isLegalIdentifierStart(c) {
			builder.WriteRune('_')
		}
		builder.WriteRune(c)
	}
	return EnsureKeywordSafe(builder.String())
}

var multipleUnderscores = regexp.MustCompile(`_+`)

// makeSafeEnumName returns the SCREAMING_SNAKE_CASE name of an enum member.
func makeSafeEnumName(name, typeName string) (string, error) {
	// Replace common single character enum names.
	safeName := codegen.ExpandShortEnumName(name)

	// If the name is one illegal character, return an error.
	if len(safeName) == 1 && !isLegalIdentifierStart(rune(safeName[0])) {
		return "", fmt.Errorf("enum name %s is not a valid identifier", safeName)
	}

	safeName = strings.ToUpper(pyName(safeName))

	// If there are multiple underscores in a row, replace with one.
	safeName = multipleUnderscores.ReplaceAllString(safeName, "_")

	// If the enum name starts with an underscore, add the type name as a prefix.
	if strings.HasPrefix(safeName, "_") {
		safeName = strings.ToUpper(pyName(typeName)) + safeName
	}

	return safeName, nil
}

// PackageInfo contains Python-specific information for a package.
type PackageInfo struct {
	// PackageName is the name of the PyPI package and the module it installs.
	PackageName string `json:"packageName,omitempty"`
}

func lookupPackageInfo(pkg *schema.Package) (PackageInfo, error) {
	var info PackageInfo
	if err := pkg.LanguageInfo("python", &info); err != nil {
		return info, errors.Wrapf(err, "decoding python information for package %v", pkg.Name)
	}
	if info.PackageName == "" {
		info.PackageName = "pulumi_" + makeValidIdentifier(pkg.Name)
	}
	return info, nil
}
