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
	"strings"
	"unicode"

	"github.com/pulumi/pulumi-converter-arm/pkg/codegen"
)

// PyName turns a variable or function name, normally using camelCase, to an underscore_case name. Names that clash
// with a Python keyword get a trailing underscore.
func PyName(name string) string {
	return EnsureKeywordSafe(pyName(name))
}

// pyName splits name into words and joins them with underscores. A word starts at an uppercase letter that follows a
// lowercase letter or a digit, and at the last letter of an acronym that is followed by a lowercase word ("CIDRSet"
// is "cidr_set"). A lowercase "s" directly after an acronym pluralizes it ("podIPs" is "pod_ips"). Characters that
// are neither letters nor digits separate words and are dropped.
func pyName(name string) string {
	runes := []rune(name)

	var words []string
	var word []rune
	flush := func() {
		if len(word) > 0 {
			words = append(words, strings.ToLower(string(word)))
			word = word[:0]
		}
	}

	for i, c := range runes {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			flush()
			continue
		}
		if unicode.IsUpper(c) && i > 0 {
			prev := runes[i-1]
			switch {
			case unicode.IsLower(prev) || unicode.IsDigit(prev):
				flush()
			case unicode.IsUpper(prev) && startsLowerWord(runes, i+1):
				flush()
			}
		}
		word = append(word, c)
	}
	flush()

	result := strings.Join(words, "_")
	if result != "" && unicode.IsDigit(rune(result[0])) {
		result = "_" + result
	}
	return result
}

// startsLowerWord reports whether the runes at i begin a lowercase word rather than a plural suffix.
func startsLowerWord(runes []rune, i int) bool {
	if i >= len(runes) || !unicode.IsLower(runes[i]) {
		return false
	}
	plural := runes[i] == 's' && (i+1 == len(runes) || !unicode.IsLower(runes[i+1]))
	return !plural
}

// Keywords holds the reserved words of Python 2 and 3.
//
//   - Python 2: https://docs.python.org/2.5/ref/keywords.html
//   - Python 3: https://docs.python.org/3/reference/lexical_analysis.html#keywords
var Keywords = codegen.NewStringSet(
	"False", "None", "True",
	"and", "as", "assert", "async", "await", "break", "class", "continue", "def", "del", "elif", "else",
	"except", "exec", "finally", "for", "from", "global", "if", "import", "in", "is", "lambda", "nonlocal",
	"not", "or", "pass", "print", "raise", "return", "try", "while", "with", "yield",
)

// Builtins holds the builtin functions and types that a generated program may call or that a declaration would
// otherwise shadow.
var Builtins = codegen.NewStringSet(
	"all", "any", "bool", "dict", "enumerate", "filter", "float", "format", "hash", "id", "input", "int",
	"isinstance", "iter", "len", "list", "map", "max", "min", "next", "object", "open", "range", "set", "sorted",
	"str", "sum", "super", "tuple", "type", "vars", "zip",
)

// EnsureKeywordSafe adds a trailing underscore if the generated name clashes with a Python keyword, per PEP 8.
func EnsureKeywordSafe(name string) string {
	if Keywords.Has(name) {
		return name + "_"
	}
	return name
}
