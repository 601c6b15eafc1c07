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

package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/pkg/errors"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/pcl"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/schema"
	"github.com/pulumi/pulumi-converter-arm/pkg/convert"
	"github.com/pulumi/pulumi-converter-arm/pkg/tree"
	"github.com/pulumi/pulumi/sdk/v3/go/common/resource/plugin"
	"github.com/pulumi/pulumi/sdk/v3/go/common/util/logging"
	"github.com/spf13/pflag"
)

// programFiles are the names of the serialized program tree looked for in a source directory, in order.
var programFiles = []string{"program.yaml", "program.yml", "program.json"}

const defaultLanguage = "typescript"

// armConverter implements the converter plugin interface over the conversion pipeline.
type armConverter struct {
	registry *schema.Registry
	loader   *schema.Loader
	cancel   context.CancelFunc
}

var _ plugin.Converter = (*armConverter)(nil)

func newConverter(registry *schema.Registry, loader *schema.Loader, cancel context.CancelFunc) *armConverter {
	return &armConverter{registry: registry, loader: loader, cancel: cancel}
}

// Close stops the plugin's server.
func (c *armConverter) Close() error {
	if c.cancel != nil {
		c.cancel()
	}
	return nil
}

// ConvertState is not supported: the converter has no view of deployed resources.
func (c *armConverter) ConvertState(_ context.Context,
	_ *plugin.ConvertStateRequest,
) (*plugin.ConvertStateResponse, error) {
	return &plugin.ConvertStateResponse{Diagnostics: hcl.Diagnostics{
		pcl.NewDiagnostic(pcl.UnsupportedConstruct, hcl.Range{}, "state conversion is not supported",
			"the ARM converter only converts programs"),
	}}, nil
}

// requestOptions are the converter arguments given after "--" on the convert command line.
type requestOptions struct {
	language string
	schemas  []string
}

func parseRequestArgs(args []string) (requestOptions, error) {
	opts := requestOptions{}
	flags := pflag.NewFlagSet("pulumi-converter-arm", pflag.ContinueOnError)
	flags.StringVar(&opts.language, "language", defaultLanguage, "The language to generate")
	flags.StringSliceVar(&opts.schemas, "schema", nil, "Additional package schema files or directories")
	if err := flags.Parse(args); err != nil {
		return opts, errors.Wrap(err, "parsing converter arguments")
	}
	return opts, nil
}

// resolver returns the plugin's registry extended with the packages at the given paths. Packages that the plugin
// already knows take precedence.
func (c *armConverter) resolver(paths []string) (*schema.Registry, error) {
	if len(paths) == 0 {
		return c.registry, nil
	}
	extra, err := c.loader.LoadRegistry(paths...)
	if err != nil {
		return nil, err
	}
	pkgs := c.registry.Packages()
	for _, pkg := range extra.Packages() {
		if _, has := c.registry.Package(pkg.Name); !has {
			pkgs = append(pkgs, pkg)
		}
	}
	return schema.NewRegistry(pkgs...)
}

func findProgram(dir string) (string, error) {
	for _, name := range programFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", errors.Errorf("no program tree found in %v; expected one of %v", dir, programFiles)
}

// writeFiles writes generated files under a directory, creating it if necessary.
func writeFiles(dir string, files map[string][]byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %v", dir)
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, content, 0o600); err != nil {
			return errors.Wrapf(err, "writing %v", path)
		}
		logging.V(5).Infof("wrote %v", path)
	}
	return nil
}

// ConvertProgram converts the program tree in the source directory and writes the generated files into the
// target directory.
func (c *armConverter) ConvertProgram(_ context.Context,
	req *plugin.ConvertProgramRequest,
) (*plugin.ConvertProgramResponse, error) {
	opts, err := parseRequestArgs(req.Args)
	if err != nil {
		return nil, err
	}
	resolver, err := c.resolver(opts.schemas)
	if err != nil {
		return nil, err
	}

	path, err := findProgram(req.SourceDirectory)
	if err != nil {
		return nil, err
	}
	program, diags, err := tree.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	if diags.HasErrors() {
		return &plugin.ConvertProgramResponse{Diagnostics: diags}, nil
	}

	result, err := convert.Convert(program, resolver, opts.language)
	if err != nil {
		return nil, err
	}
	diags = append(diags, result.Diagnostics...)
	if result.Files != nil {
		if err := writeFiles(req.TargetDirectory, result.Files); err != nil {
			return nil, err
		}
	}
	return &plugin.ConvertProgramResponse{Diagnostics: diags}, nil
}
