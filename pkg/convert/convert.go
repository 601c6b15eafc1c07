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
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/pcl"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/schema"
	"github.com/pulumi/pulumi-converter-arm/pkg/tree"
	"github.com/pulumi/pulumi/sdk/v3/go/common/util/contract"
	"github.com/pulumi/pulumi/sdk/v3/go/common/util/logging"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of converting a program tree to one target language.
type Result struct {
	// Language is the canonical name of the target language.
	Language string
	// Files holds the generated files keyed by file name. It is nil if Diagnostics has errors.
	Files map[string][]byte
	// Diagnostics holds every diagnostic of every stage that ran.
	Diagnostics hcl.Diagnostics
}

// UnknownLanguageError is returned when no emitter exists for a target language.
type UnknownLanguageError struct {
	Language string
}

func (e *UnknownLanguageError) Error() string {
	return fmt.Sprintf("unsupported target language %q", e.Language)
}

// Convert binds, schedules, lowers and emits a program tree for one target language.
//
// Binding and scheduling always cover the whole tree, so the result reports every binding problem and every
// dependency cycle at once. Files are generated only if no stage reported an error.
func Convert(program *tree.Program, resolver schema.Resolver, language string) (*Result, error) {
	contract.Requiref(program != nil, "program", "must not be nil")
	contract.Requiref(resolver != nil, "resolver", "must not be nil")

	e, ok := LookupEmitter(language)
	if !ok {
		return nil, &UnknownLanguageError{Language: language}
	}
	result := &Result{Language: e.Language()}
	start := time.Now()

	bound, diags := pcl.BindProgram(program, resolver)
	result.Diagnostics = append(result.Diagnostics, diags...)

	units, diags := pcl.Schedule(bound)
	result.Diagnostics = append(result.Diagnostics, diags...)
	if result.Diagnostics.HasErrors() {
		logging.V(5).Infof("not generating %v: %d diagnostics", e.Language(), len(result.Diagnostics))
		return result, nil
	}

	lowered, diags := pcl.LowerProgram(bound, units)
	result.Diagnostics = append(result.Diagnostics, diags...)
	if diags.HasErrors() {
		return result, nil
	}

	files, diags, err := e.GenerateProgram(lowered)
	if err != nil {
		return nil, err
	}
	result.Diagnostics = append(result.Diagnostics, diags...)
	if !diags.HasErrors() {
		result.Files = files
	}

	logging.V(7).Infof("converted %d declarations to %v in %v", len(program.Nodes), e.Language(),
		time.Since(start))
	return result, nil
}

// ConvertAll converts a program tree to several target languages concurrently. Each target binds its own copy of
// the program, so the results are independent. The results are keyed by the requested language names.
func ConvertAll(program *tree.Program, resolver schema.Resolver, languages ...string) (map[string]*Result, error) {
	results := make([]*Result, len(languages))

	var g errgroup.Group
	for i, language := range languages {
		i, language := i, language
		g.Go(func() error {
			result, err := Convert(program, resolver, language)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byLanguage := make(map[string]*Result, len(languages))
	for i, language := range languages {
		byLanguage[language] = results[i]
	}
	return byLanguage, nil
}
