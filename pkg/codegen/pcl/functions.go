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
	"sort"

	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/model"
)

// Builtin function names.
const (
	ToLower = "toLower"
	ToUpper = "toUpper"
	Length  = "length"
	Join    = "join"
	Split   = "split"
	ToJSON  = "toJSON"
	Secret  = "secret"
)

type parameter struct {
	name string
	typ  model.Type
}

// builtinFunction describes the signature of a builtin. The parameter types are checked against the resolved types of
// the arguments.
type builtinFunction struct {
	parameters []parameter
	// returnType computes the plain result type from the resolved argument types.
	returnType func(args []model.Type) model.Type
	// preservesEventuals is set for functions that accept eventual arguments directly instead of being lifted.
	preservesEventuals bool
}

var builtins = map[string]*builtinFunction{
	ToLower: {
		parameters: []parameter{{"value", model.StringType}},
		returnType: func([]model.Type) model.Type { return model.StringType },
	},
	ToUpper: {
		parameters: []parameter{{"value", model.StringType}},
		returnType: func([]model.Type) model.Type { return model.StringType },
	},
	Length: {
		parameters: []parameter{{"value", model.DynamicType}},
		returnType: func([]model.Type) model.Type { return model.IntType },
	},
	Join: {
		parameters: []parameter{{"values", model.NewListType(model.StringType)}, {"separator", model.StringType}},
		returnType: func([]model.Type) model.Type { return model.StringType },
	},
	Split: {
		parameters: []parameter{{"value", model.StringType}, {"separator", model.StringType}},
		returnType: func([]model.Type) model.Type { return model.NewListType(model.StringType) },
	},
	ToJSON: {
		parameters: []parameter{{"value", model.DynamicType}},
		returnType: func([]model.Type) model.Type { return model.StringType },
	},
	Secret: {
		parameters: []parameter{{"value", model.DynamicType}},
		returnType: func(args []model.Type) model.Type {
			return model.NewOutputType(model.ResolveOutputs(args[0]))
		},
		preservesEventuals: true,
	},
}

// Builtins returns the names of the builtin functions in alphabetical order.
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsLifted returns true if calls to the named function are lifted over their eventual arguments.
func IsLifted(function string) bool {
	fn, ok := builtins[function]
	return ok && !fn.preservesEventuals
}

// checkLength verifies that the argument of length is a measurable value.
func checkLength(t model.Type) bool {
	switch t := t.(type) {
	case *model.ListType, *model.MapType, *model.ObjectType:
		return true
	case *model.EnumType:
		return checkLength(t.ElementType)
	default:
		return t == model.StringType || t == model.DynamicType
	}
}

// callType computes the plain result type of a call to the named function from the types of its arguments. It
// returns a message for each argument that does not fit the signature. Lifting the result over eventual arguments is
// left to the caller.
func callType(function string, args []model.Type) (model.Type, []string, bool) {
	fn, ok := builtins[function]
	if !ok {
		return nil, nil, false
	}
	if len(args) != len(fn.parameters) {
		return model.DynamicType, []string{fmt.Sprintf("%v expects %d argument(s), got %d", function,
			len(fn.parameters), len(args))}, true
	}

	var problems []string
	resolved := make([]model.Type, len(args))
	for i, arg := range args {
		resolved[i] = model.ResolveOutputs(arg)
		p := fn.parameters[i]
		if function == Length {
			if !checkLength(resolved[i]) {
				problems = append(problems, fmt.Sprintf("cannot take the length of %v", resolved[i]))
			}
			continue
		}
		if !p.typ.ConversionFrom(resolved[i]).Exists() {
			problems = append(problems, fmt.Sprintf("argument %v of %v must be %v, not %v", p.name, function, p.typ,
				resolved[i]))
		}
	}
	return fn.returnType(resolved), problems, true
}
