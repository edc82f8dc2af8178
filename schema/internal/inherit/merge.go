package inherit

import "github.com/gelflux/sdlc/schema"

// Merge walks ctx.Parents in topological order (parents before
// children) and, for each parent->child edge, copies the parent's
// pointers down into the child It is idempotent: a
// pointer already present on the child (explicitly declared, or
// already merged from an earlier call) is never overwritten, so
// re-running Merge on an already-merged context is a no-op.
func Merge(ctx *schema.Context) {
	order := topoOrder(ctx)
	for _, name := range order {
		entry := ctx.Parents[name]
		for _, baseName := range entry.Merge {
			baseEntry, ok := ctx.Parents[baseName]
			if !ok {
				continue
			}
			mergeInto(entry.Item, baseEntry.Item)
		}
	}
}

// topoOrder returns ctx.Parents' keys ordered so that every base
// precedes every item that merges from it. Ties (independent items)
// break lexicographically, consistent with the determinism rule
// applied throughout the dependency tracer and sorter.
func topoOrder(ctx *schema.Context) []schema.Name {
	remaining := map[schema.Name]map[schema.Name]bool{}
	for name, entry := range ctx.Parents {
		deps := map[schema.Name]bool{}
		for _, d := range entry.Deps {
			if _, ok := ctx.Parents[d]; ok {
				deps[d] = true
			}
		}
		remaining[name] = deps
	}

	var order []schema.Name
	for len(remaining) > 0 {
		var ready []schema.Name
		for name, deps := range remaining {
			if len(deps) == 0 {
				ready = append(ready, name)
			}
		}
		if len(ready) == 0 {
			// An inheritance cycle here was already caught by
			// ComputeAncestors; defensively break rather than loop
			// forever if Merge is ever called without it.
			for name := range remaining {
				ready = append(ready, name)
			}
		}
		sortNamesStable(ready)
		for _, name := range ready {
			order = append(order, name)
			delete(remaining, name)
		}
		for _, deps := range remaining {
			for _, r := range ready {
				delete(deps, r)
			}
		}
	}
	return order
}

// mergeInto copies child-missing pointers (and constraints,
// annotations) from base into child, and recursively merges entries
// present on both.
func mergeInto(child, base schema.Object) {
	childType, ok := child.(*schema.ObjectType)
	if ok {
		baseType, ok := base.(*schema.ObjectType)
		if ok {
			mergePointers(childType.OwnPointers, baseType.OwnPointers)
			mergeConstraints(childType.Constraints, baseType.Constraints)
			mergeAnnotations(childType.Annotations, baseType.Annotations)
		}
		return
	}

	childScalar, ok := child.(*schema.ScalarType)
	if ok {
		baseScalar, ok := base.(*schema.ScalarType)
		if ok {
			mergeConstraints(childScalar.Constraints, baseScalar.Constraints)
			mergeAnnotations(childScalar.Annotations, baseScalar.Annotations)
		}
	}
}

func mergePointers(child, base map[string]*schema.Pointer) {
	for name, baseP := range base {
		childP, exists := child[name]
		if !exists {
			child[name] = baseP.Clone()
			continue
		}
		mergePointers(childP.NestedPointers, baseP.NestedPointers)
		mergeAnnotations(childP.Annotations, baseP.Annotations)
	}
}

func mergeConstraints(child, base map[string]*schema.ConcreteConstraint) {
	for name, c := range base {
		if _, exists := child[name]; !exists {
			child[name] = c
		}
	}
}

func mergeAnnotations(child, base map[string]*schema.AnnotationValue) {
	for name, a := range base {
		if _, exists := child[name]; !exists {
			child[name] = a
		}
	}
}
