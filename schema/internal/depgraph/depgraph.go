// Package depgraph implements the dependency tracer of :
// it walks the same declaration tree the layout tracer already
// registered into [schema.Context], and produces one [schema.DDLNode]
// per DDL command with its dependency sets populated.
package depgraph

import (
	"fmt"
	"sort"

	"github.com/gelflux/sdlc/diag"
	"github.com/gelflux/sdlc/schema"
	"github.com/gelflux/sdlc/schema/expr"
	"github.com/gelflux/sdlc/schema/internal/layout"
)

// Batch is the same module-keyed declaration list the layout tracer
// consumes; depgraph re-walks it once layout/inherit have populated
// ctx.Objects, ctx.Parents, and ctx.Ancestors.
type Batch = layout.Batch

var tracer = expr.NewTracer()

// Build populates ctx.DDLGraph.
func Build(ctx *schema.Context, batch Batch) *diag.Error {
	modules := make([]string, 0, len(batch))
	for m := range batch {
		modules = append(modules, m)
	}
	sort.Strings(modules)

	for _, module := range modules {
		for _, decl := range batch[module] {
			if err := traceTop(ctx, module, decl); err != nil {
				return err
			}
		}
	}
	return nil
}

func newEnv(ctx *schema.Context, module string) *expr.Env {
	env := expr.NewEnv(module)
	for alias, target := range ctx.ModuleAliases {
		env = env.WithAlias(alias, target)
	}
	return env
}

func traceTop(ctx *schema.Context, module string, decl schema.DeclNode) *diag.Error {
	name := schema.Name{Module: module, Name: decl.DeclName()}
	cat := decl.DeclCategory()

	if _, exists := ctx.DDLGraph[name]; exists {
		return diag.New(diag.E_DuplicateDeclaration,
			fmt.Sprintf("%s declared twice", schema.Verbosename(cat, name))).WithSpan(decl.Span())
	}

	node := schema.NewDDLNode(name, schema.NewCommand(name, decl))
	ctx.DDLGraph[name] = node
	ctx.DDLOrder = append(ctx.DDLOrder, name)

	for _, dep := range ancestorDeps(ctx, name) {
		node.AddDep(dep)
	}

	switch n := decl.(type) {
	case *schema.CreateObjectType, *schema.CreateScalarType:
		pop := ctx.PushDep(cat, name)
		defer pop()
		return traceSub(ctx, newEnv(ctx, module), name, subCommandsOf(decl))
	case *schema.CreateAlias:
		env := newEnv(ctx, module)
		addExprDepsWithClosure(ctx, node, env, n.Body)
		return nil
	case *schema.CreateGlobal:
		obj := ctx.Objects[name].(*schema.Global)
		if !obj.Target.IsZero() && !schema.IsStdlib(obj.Target.Module) {
			node.AddDep(obj.Target)
		}
		env := newEnv(ctx, module)
		addExprDepsWithClosure(ctx, node, env, n.Body)
		return nil
	case *schema.CreateFunction:
		env := newEnv(ctx, module)
		addExprDeps(ctx, node, env, n.Body, schema.Name{})
		return nil
	case *schema.CreateConstraint:
		env := newEnv(ctx, module)
		addExprDeps(ctx, node, env, n.Expr, schema.Name{})
		return nil
	case *schema.CreateAnnotation:
		return nil
	}
	return nil
}

func subCommandsOf(decl schema.DeclNode) []schema.ASTNode {
	if hs, ok := decl.(schema.HasSubCommands); ok {
		return hs.SubCommands()
	}
	return nil
}

// ancestorDeps returns the non-stdlib transitive ancestors of name,
// point 4(b): "declared bases plus their transitive
// ancestors".
func ancestorDeps(ctx *schema.Context, name schema.Name) []schema.Name {
	ancestors := ctx.Ancestors[name]
	out := make([]schema.Name, 0, len(ancestors))
	for _, a := range ancestors {
		if !schema.IsStdlib(a.Module) {
			out = append(out, a)
		}
	}
	return out
}

// traceSub recurses into owner's sub-commands, each of which becomes
// its own DDL graph node wrapped in the current dep-stack chain
// (points 3, 5, 7).
func traceSub(ctx *schema.Context, env *expr.Env, owner schema.Name, cmds []schema.ASTNode) *diag.Error {
	for _, cmd := range cmds {
		switch n := cmd.(type) {
		case *schema.CreateConcretePointer:
			if err := tracePointer(ctx, env, owner, n); err != nil {
				return err
			}
		case *schema.CreateConcreteConstraint:
			if err := traceConstraint(ctx, env, owner, n); err != nil {
				return err
			}
		case *schema.CreateConcreteIndex:
			if err := traceIndex(ctx, env, owner, n); err != nil {
				return err
			}
		case *schema.CreateAccessPolicy:
			if err := tracePolicy(ctx, env, owner, n); err != nil {
				return err
			}
		case *schema.CreateAnnotationValue:
			if err := traceAnnotationValue(ctx, owner, n); err != nil {
				return err
			}
		case *schema.SetField:
			// Plain field sets stay inline on the enclosing command;
			// nothing to do here unless Value carries an expression.
		}
	}
	return nil
}

func chain(ctx *schema.Context) []schema.DepStackEntry {
	out := make([]schema.DepStackEntry, len(ctx.DepStack))
	copy(out, ctx.DepStack)
	return out
}

func tracePointer(ctx *schema.Context, env *expr.Env, owner schema.Name, n *schema.CreateConcretePointer) *diag.Error {
	ptrName := schema.PointerID(owner, n.Name)
	cat := n.DeclCategory()

	if _, exists := ctx.DDLGraph[ptrName]; exists {
		return diag.New(diag.E_DuplicateDeclaration,
			fmt.Sprintf("%s declared twice", schema.Verbosename(cat, ptrName))).WithSpan(n.Span())
	}

	wrapped := schema.Wrap(n, chain(ctx))
	node := schema.NewDDLNode(ptrName, schema.NewCommand(ptrName, wrapped))
	ctx.DDLGraph[ptrName] = node
	ctx.DDLOrder = append(ctx.DDLOrder, ptrName)

	for _, entry := range ctx.DepStack {
		node.AddDep(entry.Name)
	}

	if ptr, ok := ctx.Objects[ptrName].(*schema.Pointer); ok && !ptr.Target.IsZero() && !schema.IsStdlib(ptr.Target.Module) {
		node.AddDep(ptr.Target)
	}

	addExprDeps(ctx, node, env, n.TargetExpr, owner)

	pop := ctx.PushDep(cat, ptrName)
	defer pop()
	return traceSub(ctx, env, ptrName, n.Commands)
}

func traceConstraint(ctx *schema.Context, env *expr.Env, subject schema.Name, n *schema.CreateConcreteConstraint) *diag.Error {
	signature := schema.ConstraintSignature(n.Args, n.SubjectExpr, n.ExceptExpr)
	concreteName := schema.ConcreteConstraintID(subject, n.ConstraintName, signature)
	cc, ok := ctx.Objects[concreteName].(*schema.ConcreteConstraint)
	if !ok {
		return diag.New(diag.E_InvalidReference,
			fmt.Sprintf("concrete constraint '%s' was not registered during layout", n.ConstraintName)).WithSpan(n.Span())
	}

	wrapped := schema.Wrap(n, chain(ctx))
	node := schema.NewDDLNode(cc.Name(), schema.NewCommand(cc.Name(), wrapped))
	ctx.DDLGraph[cc.Name()] = node
	ctx.DDLOrder = append(ctx.DDLOrder, cc.Name())

	for _, entry := range ctx.DepStack {
		node.AddDep(entry.Name)
	}

	for _, lc := range cc.LoopControl {
		node.LoopControl[lc] = true
		if subjectNode, ok := ctx.DDLGraph[lc]; ok {
			subjectNode.LoopControl[cc.Name()] = true
		}
	}

	if !cc.Of.IsZero() && !schema.IsStdlib(cc.Of.Module) {
		node.AddDep(cc.Of)
	}

	for _, arg := range n.Args {
		addExprDeps(ctx, node, env, arg, subject)
	}
	addExprDeps(ctx, node, env, n.SubjectExpr, subject)
	addExprDeps(ctx, node, env, n.ExceptExpr, subject)
	return nil
}

func traceIndex(ctx *schema.Context, env *expr.Env, owner schema.Name, n *schema.CreateConcreteIndex) *diag.Error {
	exceptKey := ""
	if n.Except != nil {
		exceptKey = n.Except.Span().String()
	}
	idxName := schema.ConcreteIndexID(owner, n.IndexName, n.Expr.Span().String(), exceptKey)

	wrapped := schema.Wrap(n, chain(ctx))
	node := schema.NewDDLNode(idxName, schema.NewCommand(idxName, wrapped))
	ctx.DDLGraph[idxName] = node
	ctx.DDLOrder = append(ctx.DDLOrder, idxName)

	for _, entry := range ctx.DepStack {
		node.AddDep(entry.Name)
	}
	addExprDeps(ctx, node, env, n.Expr, owner)
	addExprDeps(ctx, node, env, n.Except, owner)
	return nil
}

func tracePolicy(ctx *schema.Context, env *expr.Env, owner schema.Name, n *schema.CreateAccessPolicy) *diag.Error {
	policyName := schema.AccessPolicyID(owner, n.Name)

	wrapped := schema.Wrap(n, chain(ctx))
	node := schema.NewDDLNode(policyName, schema.NewCommand(policyName, wrapped))
	ctx.DDLGraph[policyName] = node
	ctx.DDLOrder = append(ctx.DDLOrder, policyName)

	for _, entry := range ctx.DepStack {
		node.AddDep(entry.Name)
	}
	addExprDeps(ctx, node, env, n.Condition, owner)
	addExprDeps(ctx, node, env, n.Using, owner)

	// Access policies additionally depend on every constraint of the
	// owning type so cardinality inference sees the correct constraint
	// environment.
	if obj, ok := ctx.Objects[owner].(*schema.ObjectType); ok {
		for _, cc := range obj.Constraints {
			if !schema.IsStdlib(cc.Name().Module) {
				node.AddDep(cc.Name())
			}
		}
	}
	return nil
}

func traceAnnotationValue(ctx *schema.Context, owner schema.Name, n *schema.CreateAnnotationValue) *diag.Error {
	valueName := schema.AnnotationValueID(owner, n.AnnotationName)
	wrapped := schema.Wrap(n, chain(ctx))
	node := schema.NewDDLNode(valueName, schema.NewCommand(valueName, wrapped))
	ctx.DDLGraph[valueName] = node
	ctx.DDLOrder = append(ctx.DDLOrder, valueName)

	for _, entry := range ctx.DepStack {
		node.AddDep(entry.Name)
	}
	return nil
}

// addExprDeps traces body (if non-nil) and adds every resulting
// reference as a hard dependency of node. subject is the qualified
// name path-step references resolve against; a zero subject means the
// body has no path-anchored steps (e.g. a top-level alias body rooted
// at a type name rather than `__subject__`).
func addExprDeps(ctx *schema.Context, node *schema.DDLNode, env *expr.Env, body expr.Expression, subject schema.Name) {
	if body == nil {
		return
	}
	traceEnv := env
	if !subject.IsZero() {
		traceEnv = env.WithSubject(subject.String())
	}

	refs := expr.NewRefSet()
	tracer.Trace(body, traceEnv, refs)

	for _, r := range refs.Sorted() {
		var depName schema.Name
		switch r.Kind {
		case expr.PointerRefKind:
			depName = schema.PointerID(subject, r.Name)
			if ptr, ok := resolveAncestorPointer(ctx, subject, r.Name); ok {
				depName = ptr
			}
		default:
			depName = schema.Name{Module: r.Qualifier, Name: r.Name}
		}
		if schema.IsStdlib(depName.Module) {
			continue
		}
		node.AddDep(depName)
	}
}

// addExprDepsWithClosure is addExprDeps for alias/global bodies, which
// additionally depend on every transitively reachable ancestor's
// pointers of any referenced object type (point 6's
// "structural closure"), so views see the full physical schema they
// reference.
func addExprDepsWithClosure(ctx *schema.Context, node *schema.DDLNode, env *expr.Env, body expr.Expression) {
	if body == nil {
		return
	}
	refs := expr.NewRefSet()
	tracer.Trace(body, env, refs)

	for _, r := range refs.Sorted() {
		if r.Kind != expr.TypeRefKind {
			continue
		}
		depName := schema.Name{Module: r.Qualifier, Name: r.Name}
		if schema.IsStdlib(depName.Module) {
			continue
		}
		node.AddDep(depName)
		closeOverPointers(ctx, node, depName)
	}
}

// closeOverPointers adds every pointer (merged, so inherited ones
// included) of the object type named target as a dependency of node.
func closeOverPointers(ctx *schema.Context, node *schema.DDLNode, target schema.Name) {
	obj, ok := ctx.Objects[target].(*schema.ObjectType)
	if !ok {
		return
	}
	for _, ptr := range obj.OwnPointers {
		// An inherited pointer never gets its own DDL node, but its
		// clone keeps the name of the ancestor declaration that does,
		// so both cases depend on ptr.Name(). The dependency is added
		// whether or not that node has been traced yet.
		node.AddDep(ptr.Name())
	}
}

func ptrBareName(ptr *schema.Pointer) string {
	_, rest := splitOwnerRestLocal(ptr.Name().Name)
	return rest
}

func splitOwnerRestLocal(compound string) (owner, rest string) {
	for i := 0; i < len(compound); i++ {
		if compound[i] == '@' {
			return compound[:i], compound[i+1:]
		}
	}
	return compound, ""
}

// resolveAncestorPointer implements fallback: "if a ref
// denotes a pointer on some type, and that exact pointer is not
// declared explicitly but ancestors declare it, fall back to all
// ancestor declarations of that pointer."
func resolveAncestorPointer(ctx *schema.Context, subject schema.Name, ptrName string) (schema.Name, bool) {
	direct := schema.PointerID(subject, ptrName)
	if _, ok := ctx.DDLGraph[direct]; ok {
		return direct, false
	}
	for _, ancestor := range ctx.Ancestors[subject] {
		candidate := schema.PointerID(ancestor, ptrName)
		if _, ok := ctx.DDLGraph[candidate]; ok {
			return candidate, true
		}
	}
	return schema.Name{}, false
}
