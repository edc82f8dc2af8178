// Package inherit implements : ancestor-closure computation
// and the parent-before-child pointer merger.
package inherit

import (
	"fmt"

	"github.com/gelflux/sdlc/diag"
	"github.com/gelflux/sdlc/schema"
)

type visitState uint8

const (
	unvisited visitState = iota
	visiting
	visited
)

// ComputeAncestors computes, for every item in ctx.Parents, the
// transitive closure of its Merge set into ctx.Ancestors. DFS with a
// cycle sentinel (visiting) raises [diag.E_RecursiveDefinition] naming
// the offending object the moment a self-reachable path is found,
// mirroring yammm's detectCycles approach in
// schema/internal/complete/linearize.go.
func ComputeAncestors(ctx *schema.Context) *diag.Error {
	state := make(map[schema.Name]visitState, len(ctx.Parents))

	names := make([]schema.Name, 0, len(ctx.Parents))
	for name := range ctx.Parents {
		names = append(names, name)
	}
	sortNamesStable(names)

	for _, name := range names {
		if state[name] == visited {
			continue
		}
		if err := visit(ctx, name, state); err != nil {
			return err
		}
	}
	return nil
}

func visit(ctx *schema.Context, name schema.Name, state map[schema.Name]visitState) *diag.Error {
	switch state[name] {
	case visited:
		return nil
	case visiting:
		cat := schema.ObjectTypeCategory
		if entry, ok := ctx.Parents[name]; ok {
			cat = entry.Item.Category()
		}
		return diag.New(diag.E_RecursiveDefinition,
			fmt.Sprintf("%s is defined recursively", schema.Verbosename(cat, name)))
	}

	state[name] = visiting

	entry, ok := ctx.Parents[name]
	if !ok {
		state[name] = visited
		return nil
	}

	closure := map[schema.Name]bool{}
	for _, base := range entry.Merge {
		if err := visit(ctx, base, state); err != nil {
			return err
		}
		closure[base] = true
		for _, grandBase := range ctx.Ancestors[base] {
			closure[grandBase] = true
		}
	}

	ordered := make([]schema.Name, 0, len(closure))
	for n := range closure {
		ordered = append(ordered, n)
	}
	sortNamesStable(ordered)
	ctx.Ancestors[name] = ordered

	state[name] = visited
	return nil
}

func sortNamesStable(names []schema.Name) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j].Compare(names[j-1]) < 0; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}
