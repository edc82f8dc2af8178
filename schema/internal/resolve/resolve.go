// Package resolve implements the name resolver: turning an AST
// reference node into a fully-qualified [schema.Name], or a
// [diag.Error] with closest-name hints when it doesn't exist.
package resolve

import (
	"fmt"
	"sort"

	"github.com/gelflux/sdlc/diag"
	"github.com/gelflux/sdlc/internal/hint"
	"github.com/gelflux/sdlc/schema"
	"github.com/gelflux/sdlc/schema/expr"
)

// Reference resolves a TypeRef-shaped name (module-qualified or bare)
// under env, looking it up in ctx. cat is the category the caller
// expects to find — passed through to the host-schema lookup only; it
// does not restrict local lookups or hinting, and a found object of a
// different category is not rejected (that is
// [diag.E_InvalidReference], a concern layered on top of Reference by
// callers that need it).
func Reference(ctx *schema.Context, env *expr.Env, qualifier, name string, cat schema.Category) (schema.Name, *diag.Error) {
	if name == "anytype" && (qualifier == "" || env.Qualify(qualifier) == "std") {
		return schema.AnyType, nil
	}
	if name == "anytuple" && (qualifier == "" || env.Qualify(qualifier) == "std") {
		return schema.AnyTuple, nil
	}

	module := env.Qualify(qualifier)
	qname := schema.Name{Module: module, Name: name}

	if _, ok := ctx.Lookup(qname, cat); ok {
		return qname, nil
	}

	hints := closestNames(ctx, module, name)
	err := diag.New(diag.E_UnresolvedReference, fmt.Sprintf("unresolved name '%s'", qname.String()))
	if len(hints) > 0 {
		err = err.WithHints(hints)
	}
	return schema.Name{}, err
}

// closestNames collects candidate bare names visible from module (the
// target module plus every locally-declared module, // "closest names within the visible modules") and ranks them via
// [hint.Closest].
func closestNames(ctx *schema.Context, module, name string) []string {
	visible := map[string]bool{module: true}
	for m := range ctx.LocalModules {
		visible[m] = true
	}

	seen := map[string]bool{}
	var candidates []string
	for qn := range ctx.Objects {
		if !visible[qn.Module] {
			continue
		}
		if seen[qn.Name] {
			continue
		}
		seen[qn.Name] = true
		candidates = append(candidates, qn.Name)
	}
	sort.Strings(candidates)
	return hint.Closest(name, candidates)
}

// PseudoTypeGuard signals [diag.E_PseudoTypeInUserSchema] when a user
// declaration tries to name std::anytype/std::anytuple directly as a
// concrete base or target, rather than through generic-parameter
// position (error condition).
func PseudoTypeGuard(name schema.Name) *diag.Error {
	if name == schema.AnyType || name == schema.AnyTuple {
		return diag.New(diag.E_PseudoTypeInUserSchema,
			fmt.Sprintf("'%s' cannot be used as a concrete type in user schema", name.String()))
	}
	return nil
}
