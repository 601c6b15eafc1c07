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
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/pulumi/pulumi/sdk/v3/go/common/util/logging"
	"github.com/segmentio/encoding/json"
	"gopkg.in/yaml.v3"
)

// Resolver maps resource and function type tokens to their schema. Implementations must be safe for concurrent
// use by multiple conversions.
type Resolver interface {
	// Lookup returns the resource or function with the given token, exactly as it appears in the source
	// document. The second result is false if no package defines the token.
	Lookup(token string) (Member, bool)
}

// Registry is an immutable set of packages. A Registry is safe for concurrent use.
type Registry struct {
	packages map[string]*Package
	members  map[string]Member
}

// NewRegistry returns a registry over the given packages. Package names must be unique.
func NewRegistry(packages ...*Package) (*Registry, error) {
	r := &Registry{
		packages: map[string]*Package{},
		members:  map[string]Member{},
	}
	for _, pkg := range packages {
		if _, has := r.packages[pkg.Name]; has {
			return nil, fmt.Errorf("duplicate package %v", pkg.Name)
		}
		r.packages[pkg.Name] = pkg

		if pkg.Provider != nil {
			r.members[pkg.Provider.Token] = pkg.Provider
		}
		for _, res := range pkg.Resources {
			r.members[res.Token] = res
		}
		for _, fn := range pkg.Functions {
			r.members[fn.Token] = fn
		}
	}
	return r, nil
}

// Lookup implements Resolver.
func (r *Registry) Lookup(token string) (Member, bool) {
	m, ok := r.members[token]
	return m, ok
}

// Package returns the package with the given name.
func (r *Registry) Package(name string) (*Package, bool) {
	pkg, ok := r.packages[name]
	return pkg, ok
}

// Packages returns the registry's packages sorted by name.
func (r *Registry) Packages() []*Package {
	pkgs := make([]*Package, 0, len(r.packages))
	for _, pkg := range r.packages {
		pkgs = append(pkgs, pkg)
	}
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].Name < pkgs[j].Name })
	return pkgs
}

// Loader loads package schemas from files. Each path is read and bound at most once.
type Loader struct {
	m sync.RWMutex

	entries map[string]*Package
}

// NewLoader creates an empty loader.
func NewLoader() *Loader {
	return &Loader{entries: map[string]*Package{}}
}

func (l *Loader) getPackage(key string) (*Package, bool) {
	l.m.RLock()
	defer l.m.RUnlock()

	p, ok := l.entries[key]
	return p, ok
}

// LoadPackage loads the package schema at the given path. JSON and YAML documents are supported.
func (l *Loader) LoadPackage(path string) (*Package, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if p, ok := l.getPackage(key); ok {
		return p, nil
	}

	l.m.Lock()
	defer l.m.Unlock()

	if p, ok := l.entries[key]; ok {
		return p, nil
	}

	spec, err := ReadPackageSpec(path)
	if err != nil {
		return nil, err
	}
	pkg, diags := ImportSpec(*spec)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "binding schema %v", path)
	}
	logging.V(7).Infof("loaded schema for package %v from %v", pkg.Name, path)

	l.entries[key] = pkg
	return pkg, nil
}

// LoadRegistry loads every schema found at the given paths into a new registry. A path may name a schema file
// or a directory, in which case every .json, .yaml and .yml file in the directory is loaded.
func (l *Loader) LoadRegistry(paths ...string) (*Registry, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.Wrapf(err, "reading schema path %v", path)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, errors.Wrapf(err, "reading schema directory %v", path)
		}
		for _, e := range entries {
			if !e.IsDir() && isSchemaFile(e.Name()) {
				files = append(files, filepath.Join(path, e.Name()))
			}
		}
	}

	pkgs := make([]*Package, 0, len(files))
	for _, f := range files {
		pkg, err := l.LoadPackage(f)
		if err != nil {
			return nil, err
		}
		pkgs = append(pkgs, pkg)
	}
	return NewRegistry(pkgs...)
}

func isSchemaFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// ReadPackageSpec reads a serialized package schema from a JSON or YAML file.
func ReadPackageSpec(path string) (*PackageSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading schema %v", path)
	}
	return ParsePackageSpec(path, data)
}

// ParsePackageSpec decodes a serialized package schema. Documents whose name ends in .yaml or .yml are converted
// to JSON before decoding so that both forms share the JSON field names.
func ParsePackageSpec(name string, data []byte) (*PackageSpec, error) {
	if ext := strings.ToLower(filepath.Ext(name)); ext == ".yaml" || ext == ".yml" {
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrapf(err, "parsing schema %v", name)
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, errors.Wrapf(err, "converting schema %v", name)
		}
		data = converted
	}

	var spec PackageSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, errors.Wrapf(err, "decoding schema %v", name)
	}
	return &spec, nil
}
