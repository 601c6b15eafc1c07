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
	"container/heap"
	"errors"
	"fmt"
	"strings"

	"github.com/dominikbraun/graph"
	"github.com/hashicorp/hcl/v2"
	"github.com/pulumi/pulumi/sdk/v3/go/common/util/contract"
)

// Unit is a declaration in evaluation order.
type Unit struct {
	Node Node
	// Rank is the position of the unit in the schedule.
	Rank int
}

// Schedule orders the declarations of a program so that every declaration follows the declarations it depends on.
// The order is deterministic: among the declarations that are ready, the one declared first comes first, so a
// program whose declarations are already in dependency order keeps its document order.
//
// A dependency cycle is fatal: Schedule returns a CyclicReference diagnostic for each edge that closes a cycle and
// no units.
func Schedule(p *Program) ([]*Unit, hcl.Diagnostics) {
	g := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())

	nodes := make(map[string]Node, len(p.Nodes))
	for _, n := range p.Nodes {
		if _, has := nodes[n.Name()]; has {
			// Duplicate declarations are reported by the binder.
			continue
		}
		nodes[n.Name()] = n
		err := g.AddVertex(n.Name())
		contract.AssertNoErrorf(err, "adding vertex %v", n.Name())
	}

	var diagnostics hcl.Diagnostics
	for _, n := range p.Nodes {
		if nodes[n.Name()] != n {
			continue
		}
		for _, dep := range n.Dependencies() {
			if _, ok := nodes[dep]; !ok {
				continue
			}
			err := g.AddEdge(dep, n.Name())
			switch {
			case err == nil, errors.Is(err, graph.ErrEdgeAlreadyExists):
			case errors.Is(err, graph.ErrEdgeCreatesCycle):
				diagnostics = append(diagnostics, cycleDiagnostic(g, n, dep))
			default:
				contract.AssertNoErrorf(err, "adding edge %v -> %v", dep, n.Name())
			}
		}
	}
	if diagnostics.HasErrors() {
		return nil, diagnostics
	}

	predecessors, err := g.PredecessorMap()
	contract.AssertNoErrorf(err, "computing predecessors")
	successors, err := g.AdjacencyMap()
	contract.AssertNoErrorf(err, "computing successors")

	ready := &readyQueue{}
	for name, preds := range predecessors {
		if len(preds) == 0 {
			heap.Push(ready, nodes[name])
		}
	}

	units := make([]*Unit, 0, len(nodes))
	for ready.Len() > 0 {
		n := heap.Pop(ready).(Node)
		units = append(units, &Unit{Node: n, Rank: len(units)})
		for succ := range successors[n.Name()] {
			delete(predecessors[succ], n.Name())
			if len(predecessors[succ]) == 0 {
				heap.Push(ready, nodes[succ])
			}
		}
	}
	contract.Assertf(len(units) == len(nodes), "scheduled %d of %d declarations", len(units), len(nodes))
	return units, nil
}

// cycleDiagnostic describes the cycle closed by making n depend on dep.
func cycleDiagnostic(g graph.Graph[string, string], n Node, dep string) *hcl.Diagnostic {
	chain := []string{n.Name()}
	if dep == n.Name() {
		chain = append(chain, dep)
	} else if path, err := graph.ShortestPath(g, n.Name(), dep); err == nil {
		for i := len(path) - 1; i >= 0; i-- {
			chain = append(chain, path[i])
		}
	} else {
		chain = append(chain, dep, n.Name())
	}

	diag := errorf(CyclicReference, n.Range(), "circular reference between %v and %v", n.Name(), dep)
	diag.Detail = fmt.Sprintf("dependency chain: %v", strings.Join(chain, " -> "))
	return diag
}

// readyQueue orders ready declarations by their position in the document.
type readyQueue []Node

func (q readyQueue) Len() int           { return len(q) }
func (q readyQueue) Less(i, j int) bool { return q[i].documentIndex() < q[j].documentIndex() }
func (q readyQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *readyQueue) Push(x interface{}) { *q = append(*q, x.(Node)) }

func (q *readyQueue) Pop() interface{} {
	old := *q
	n := old[len(old)-1]
	*q = old[:len(old)-1]
	return n
}
