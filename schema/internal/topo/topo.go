// Package topo implements the compiler's topological sorter:
// Kahn's algorithm over a [schema.Context]'s DDL graph, with
// deterministic tie-breaking and cycle diagnostics.
package topo

import (
	"fmt"

	"github.com/gelflux/sdlc/diag"
	"github.com/gelflux/sdlc/schema"
)

// Sort drains ctx.DDLGraph into dependency order. Weak dependencies
// influence nothing structural here (they never block readiness) but a
// node's WeakDeps are still available on its DDLNode for any caller
// that wants to prefer emitting a weakly-depended-on node earlier among
// ties — this implementation sorts purely lexicographically, the
// simpler of the two design alternatives (see DESIGN.md).
func Sort(ctx *schema.Context) ([]schema.Command, *diag.Error) {
	remaining := make(map[schema.Name]map[schema.Name]bool, len(ctx.DDLGraph))
	for name, node := range ctx.DDLGraph {
		deps := make(map[schema.Name]bool, len(node.Deps))
		for dep := range node.Deps {
			if _, ok := ctx.DDLGraph[dep]; ok {
				deps[dep] = true
			}
		}
		remaining[name] = deps
	}

	out := make([]schema.Command, 0, len(remaining))

	for len(remaining) > 0 {
		ready := readySet(remaining)
		if len(ready) == 0 {
			return nil, cycleError(ctx, remaining)
		}

		for _, name := range ready {
			out = append(out, ctx.DDLGraph[name].Command)
			delete(remaining, name)
		}
		for _, deps := range remaining {
			for _, r := range ready {
				delete(deps, r)
			}
		}
	}

	return out, nil
}

// readySet returns every node with no remaining deps, sorted
// lexicographically.
func readySet(remaining map[schema.Name]map[schema.Name]bool) []schema.Name {
	var ready []schema.Name
	for name, deps := range remaining {
		if len(deps) == 0 {
			ready = append(ready, name)
		}
	}
	sortNames(ready)
	return ready
}

func sortNames(names []schema.Name) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j].Compare(names[j-1]) < 0; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

// cycleError picks the smallest-named node among the stuck remainder,
// traces a concrete cycle through it, and renders the two message
// forms prescribes.
func cycleError(ctx *schema.Context, remaining map[schema.Name]map[schema.Name]bool) *diag.Error {
	stuck := make([]schema.Name, 0, len(remaining))
	for name := range remaining {
		stuck = append(stuck, name)
	}
	sortNames(stuck)
	representative := stuck[0]

	path := findCyclePath(representative, remaining)

	node := ctx.DDLGraph[representative]
	var span = node.Command.Span()

	if len(path) == 1 {
		msg := fmt.Sprintf("%s is defined recursively", verbosenameFor(ctx, representative))
		return diag.New(diag.E_DefinitionCycle, msg).WithSpan(span)
	}

	other := path[len(path)-1]
	msg := fmt.Sprintf("definition dependency cycle between %s and %s",
		verbosenameFor(ctx, representative), verbosenameFor(ctx, other))
	return diag.New(diag.E_DefinitionCycle, msg).WithSpan(span)
}

// findCyclePath walks from start through each node's lexicographically
// first remaining dep until it reaches a node already on the path,
// returning the distinct nodes visited up to that point (the repeat is
// not included). Length 1 means start's first remaining dep is start
// itself.
func findCyclePath(start schema.Name, remaining map[schema.Name]map[schema.Name]bool) []schema.Name {
	visited := map[schema.Name]bool{start: true}
	path := []schema.Name{start}
	current := start

	for {
		deps := sortedKeys(remaining[current])
		if len(deps) == 0 {
			return path
		}
		next := deps[0]
		if next == start {
			return path
		}
		if visited[next] {
			return path
		}
		visited[next] = true
		path = append(path, next)
		current = next
		if len(path) > len(remaining)+1 {
			// defensive: should be unreachable given remaining is finite
			return path
		}
	}
}

func sortedKeys(set map[schema.Name]bool) []schema.Name {
	out := make([]schema.Name, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sortNames(out)
	return out
}

func verbosenameFor(ctx *schema.Context, name schema.Name) string {
	node, ok := ctx.DDLGraph[name]
	if !ok {
		return name.String()
	}
	inner := node.Command.Node
	for {
		w, ok := inner.(*schema.AlterWrapper)
		if !ok {
			break
		}
		inner = w.Body
	}
	if decl, ok := inner.(schema.DeclNode); ok {
		return schema.Verbosename(decl.DeclCategory(), name)
	}
	return name.String()
}
