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

package convert

import (
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/dotnet"
	gen "github.com/pulumi/pulumi-converter-arm/pkg/codegen/go"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/nodejs"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/pcl"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/python"
)

// An Emitter renders a lowered program as source files of one target language.
type Emitter interface {
	// Language returns the canonical name of the target language.
	Language() string
	// GenerateProgram returns the generated files keyed by file name. Unsupported constructs are reported as
	// error diagnostics, in which case no files are returned.
	GenerateProgram(program *pcl.LoweredProgram) (map[string][]byte, hcl.Diagnostics, error)
}

type programGenerator func(program *pcl.LoweredProgram) (map[string][]byte, hcl.Diagnostics, error)

type emitter struct {
	language string
	generate programGenerator
}

func (e *emitter) Language() string { return e.language }

func (e *emitter) GenerateProgram(program *pcl.LoweredProgram) (map[string][]byte, hcl.Diagnostics, error) {
	return e.generate(program)
}

// NewEmitter wraps a program generator as an emitter.
func NewEmitter(language string, generate programGenerator) Emitter {
	return &emitter{language: language, generate: generate}
}

var emitters = map[string]Emitter{
	"nodejs": NewEmitter("nodejs", nodejs.GenerateProgram),
	"python": NewEmitter("python", python.GenerateProgram),
	"go":     NewEmitter("go", gen.GenerateProgram),
	"dotnet": NewEmitter("dotnet", dotnet.GenerateProgram),
}

// canonicalLanguage translates well known language names to the names of their runtimes.
func canonicalLanguage(language string) string {
	switch language {
	case "csharp", "c#":
		return "dotnet"
	case "typescript", "javascript":
		return "nodejs"
	case "golang":
		return "go"
	default:
		return language
	}
}

// LookupEmitter returns the emitter for a target language. Aliases such as "typescript" and "csharp" are
// accepted.
func LookupEmitter(language string) (Emitter, bool) {
	e, ok := emitters[canonicalLanguage(language)]
	return e, ok
}

// Languages returns the canonical names of the supported target languages in sorted order.
func Languages() []string {
	languages := make([]string, 0, len(emitters))
	for l := range emitters {
		languages = append(languages, l)
	}
	sort.Strings(languages)
	return languages
}
