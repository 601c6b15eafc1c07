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

package pcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

// DiagnosticKind classifies the diagnostics produced while converting a program. The kind of a diagnostic is stored
// in its Extra field.
type DiagnosticKind string

const (
	// UnknownType is reported for a resource or invoke token that no schema defines.
	UnknownType DiagnosticKind = "UnknownType"
	// TypeMismatch is reported when a value cannot be assigned to its destination type.
	TypeMismatch DiagnosticKind = "TypeMismatch"
	// UnknownProperty is reported for an input or property that the schema type does not define.
	UnknownProperty DiagnosticKind = "UnknownProperty"
	// UndefinedReference is reported for a reference to an undeclared or later-declared name.
	UndefinedReference DiagnosticKind = "UndefinedReference"
	// InvalidIterationSource is reported when a resource iterates over something other than a non-negative count, a
	// list, or a map.
	InvalidIterationSource DiagnosticKind = "InvalidIterationSource"
	// CyclicReference is reported when the declarations of a program depend on each other.
	CyclicReference DiagnosticKind = "CyclicReference"
	// UnsupportedConstruct is reported by an emitter that cannot express a construct in its language.
	UnsupportedConstruct DiagnosticKind = "UnsupportedConstruct"
	// DuplicateDeclaration is reported when two declarations share a name.
	DuplicateDeclaration DiagnosticKind = "DuplicateDeclaration"
)

func (k DiagnosticKind) String() string {
	return string(k)
}

// NewDiagnostic creates an error diagnostic of the given kind.
func NewDiagnostic(kind DiagnosticKind, rng hcl.Range, summary, detail string) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   detail,
		Subject:  &rng,
		Extra:    kind,
	}
}

func errorf(kind DiagnosticKind, rng hcl.Range, format string, args ...interface{}) *hcl.Diagnostic {
	return NewDiagnostic(kind, rng, fmt.Sprintf(format, args...), "")
}

// UnsupportedConstructf creates an UnsupportedConstruct diagnostic.
func UnsupportedConstructf(rng hcl.Range, format string, args ...interface{}) *hcl.Diagnostic {
	return errorf(UnsupportedConstruct, rng, format, args...)
}

// KindOf returns the kind of a diagnostic, if it has one.
func KindOf(d *hcl.Diagnostic) (DiagnosticKind, bool) {
	if d == nil {
		return "", false
	}
	kind, ok := d.Extra.(DiagnosticKind)
	return kind, ok
}

// HasKind returns true if any of the diagnostics has the given kind.
func HasKind(diags hcl.Diagnostics, kind DiagnosticKind) bool {
	for _, d := range diags {
		if k, ok := KindOf(d); ok && k == kind {
			return true
		}
	}
	return false
}

// Kinds returns the kinds of the diagnostics in order. Diagnostics without a kind are omitted.
func Kinds(diags hcl.Diagnostics) []DiagnosticKind {
	var kinds []DiagnosticKind
	for _, d := range diags {
		if k, ok := KindOf(d); ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
