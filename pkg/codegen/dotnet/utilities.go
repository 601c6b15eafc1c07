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
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"
	"github.com/pkg/errors"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/schema"
)

// isReservedWord returns true if s is a C# reserved word as per
// https://docs.microsoft.com/en-us/dotnet/csharp/language-reference/language-specification/lexical-structure#keywords
func isReservedWord(s string) bool {
	switch s {
	case "abstract", "as", "base", "bool", "break", "byte", "case", "catch", "char", "checked", "class", "const",
		"continue", "decimal", "default", "delegate", "do", "double", "else", "enum", "event", "explicit", "extern",
		"false", "finally", "fixed", "float", "for", "foreach", "goto", "if", "implicit", "in", "int", "interface",
		"internal", "is", "lock", "long", "namespace", "new", "null", "object", "operator", "out", "override",
		"params", "private", "protected", "public", "readonly", "ref", "return", "sbyte", "sealed", "short",
		"sizeof", "stackalloc", "static", "string", "struct", "switch", "this", "throw", "true", "try", "typeof",
		"uint", "ulong", "unchecked", "unsafe", "ushort", "using", "virtual", "void", "volatile", "while":
		return true

	default:
		return false
	}
}

// isLegalIdentifierStart returns true if it is legal for c to be the first character of a C# identifier as per
// https://docs.microsoft.com/en-us/dotnet/csharp/language-reference/language-specification/lexical-structure#identifiers
func isLegalIdentifierStart(c rune) bool {
	return c == '_' ||
		unicode.In(c, unicode.Lu, unicode.Ll, unicode.Lt, unicode.Lm, unicode.Lo, unicode.Nl)
}

// isLegalIdentifierPart returns true if it is legal for c to be part of a C# identifier (besides the first character)
// as per https://docs.microsoft.com/en-us/dotnet/csharp/language-reference/language-specification/lexical-structure#identifiers.
func isLegalIdentifierPart(c rune) bool {
	return isLegalIdentifierStart(c) || unicode.In(c, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Cf)
}

// makeValidIdentifier replaces characters that are not allowed in C# identifiers with underscores. A reserved word
// gets a "Value" suffix. No attempt is made to ensure that the result is unique.
func makeValidIdentifier(name string) string {
	var builder strings.Builder
	for i, c := range name {
		if !isLegalIdentifierPart(c) {
			builder.WriteRune('_')
		} else {
			if i == 0 && !isLegalIdentifierStart(c) {
				builder.WriteRune('_')
			}
			builder.WriteRune(c)
		}
	}
	name = builder.String()
	if isReservedWord(name) {
		return name + "Value"
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

// propertyName returns a name as a valid identifier in title case.
func propertyName(name string) string {
	return makeValidIdentifier(codegen.Title(name))
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

	// "Equals" conflicts with a method on the enum struct.
	if safeName == "Equals" {
		safeName = "EqualsValue"
	}

	// If the enum name starts with an underscore, add the type name as a prefix.
	if strings.HasPrefix(safeName, "_") {
		safeName = typeName + safeName
	}

	return safeName, nil
}

// CSharpPackageInfo contains C#-specific information for a package.
type CSharpPackageInfo struct {
	// Namespaces maps package and module names to their namespace names.
	Namespaces    map[string]string `json:"namespaces,omitempty"`
	RootNamespace string            `json:"rootNamespace,omitempty"`
}

func lookupPackageInfo(pkg *schema.Package) (CSharpPackageInfo, error) {
	var info CSharpPackageInfo
	if err := pkg.LanguageInfo("csharp", &info); err != nil {
		return info, errors.Wrapf(err, "decoding csharp information for package %v", pkg.Name)
	}
	if info.RootNamespace == "" {
		info.RootNamespace = "Pulumi"
	}
	return info, nil
}

// namespaceName returns the namespace of a package or module name.
func (info CSharpPackageInfo) namespaceName(name string) string {
	if ns, ok := info.Namespaces[name]; ok {
		return ns
	}
	return makeValidIdentifier(strcase.ToCamel(name))
}

// escape returns the string escaped for a regular C# string literal. Braces are doubled if the literal is
// interpolated.
func escape(v string, interpolated bool) string {
	var builder strings.Builder
	for _, c := range v {
		switch c {
		case '"', '\\':
			builder.WriteRune('\\')
		case '\n':
			builder.WriteString(`\n`)
			continue
		case '\r':
			builder.WriteString(`\r`)
			continue
		case '\t':
			builder.WriteString(`\t`)
			continue
		case '{', '}':
			if interpolated {
				builder.WriteRune(c)
			}
		}
		builder.WriteRune(c)
	}
	return builder.String()
}
