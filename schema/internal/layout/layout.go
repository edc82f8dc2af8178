// Package layout implements the layout tracer: the two-pass walk that
// populates a [schema.Context]'s objects map and inheritance graph
// from a batch of SDL AST declarations.
package layout

import (
	"fmt"
	"sort"

	"github.com/gelflux/sdlc/diag"
	"github.com/gelflux/sdlc/schema"
	"github.com/gelflux/sdlc/schema/expr"
	"github.com/gelflux/sdlc/schema/internal/resolve"
)

// Batch is the module_name -> AST-nodes input shape.
type Batch map[string][]schema.DeclNode

// Trace runs both sub-passes over batch against ctx. A registration
// pass should not use a recursive descent that resolves during
// registration — Trace enforces that by never calling
// [resolve.Reference] until the registration pass has finished for
// every module.
func Trace(ctx *schema.Context, batch Batch) *diag.Error {
	for module := range batch {
		ctx.LocalModules[module] = true
	}

	order := sortedModules(batch)

	for _, module := range order {
		for _, decl := range batch[module] {
			if err := register(ctx, module, decl); err != nil {
				return err
			}
		}
	}

	for _, module := range order {
		for _, decl := range batch[module] {
			if err := traceDecl(ctx, module, decl); err != nil {
				return err
			}
		}
	}

	return nil
}

func sortedModules(batch Batch) []string {
	out := make([]string, 0, len(batch))
	for m := range batch {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// register creates the empty placeholder object for decl and inserts
// it into ctx.Objects, so later forward references within the same
// batch resolve.
func register(ctx *schema.Context, module string, decl schema.DeclNode) *diag.Error {
	name := schema.Name{Module: module, Name: decl.DeclName()}

	if _, exists := ctx.Objects[name]; exists {
		return diag.New(diag.E_DuplicateDeclaration,
			fmt.Sprintf("%s declared twice", schema.Verbosename(decl.DeclCategory(), name))).
			WithSpan(decl.Span())
	}

	var obj schema.Object
	switch n := decl.(type) {
	case *schema.CreateObjectType:
		obj = schema.NewObjectType(name, n.Abstract)
	case *schema.CreateScalarType:
		obj = schema.NewScalarType(name, n.Abstract)
	case *schema.CreateAlias:
		obj = schema.NewAlias(name, nil)
	case *schema.CreateGlobal:
		obj = schema.NewGlobal(name, schema.Name{})
	case *schema.CreateFunction:
		obj = schema.NewFunction(name)
	case *schema.CreateConstraint:
		obj = schema.NewConstraintDef(name)
	case *schema.CreateAnnotation:
		obj = schema.NewAnnotationDef(name)
	case *schema.CreateLink, *schema.CreateProperty:
		obj = schema.NewPointer(name, decl.DeclCategory(), schema.Name{Module: module})
	default:
		return diag.New(diag.E_InvalidReference,
			fmt.Sprintf("unsupported top-level declaration kind for '%s'", name.String())).
			WithSpan(decl.Span())
	}

	ctx.Objects[name] = obj
	return nil
}

// traceDecl resolves decl's bases and sub-commands now that every
// top-level name in the batch has a placeholder.
func traceDecl(ctx *schema.Context, module string, decl schema.DeclNode) *diag.Error {
	name := schema.Name{Module: module, Name: decl.DeclName()}
	env := expr.NewEnv(module)
	for alias, target := range ctx.ModuleAliases {
		env = env.WithAlias(alias, target)
	}

	switch n := decl.(type) {
	case *schema.CreateObjectType:
		return traceObjectType(ctx, env, name, n)
	case *schema.CreateScalarType:
		return traceScalarType(ctx, env, name, n)
	case *schema.CreateAlias:
		obj := ctx.Objects[name].(*schema.Alias)
		obj.Body = n.Body
		return nil
	case *schema.CreateGlobal:
		obj := ctx.Objects[name].(*schema.Global)
		target, err := resolve.Reference(ctx, env, n.Target.Qualifier, n.Target.Name, schema.ScalarTypeCategory)
		if err != nil {
			return err.WithSpan(n.Target.Span())
		}
		obj.Target = target
		obj.Body = n.Body
		return nil
	case *schema.CreateFunction:
		obj := ctx.Objects[name].(*schema.Function)
		obj.Body = n.Body
		obj.IsNative = n.IsNative
		for _, p := range n.Params {
			obj.Params = append(obj.Params, schema.FunctionParam{Name: p.Name, Default: p.Default})
		}
		return nil
	case *schema.CreateConstraint:
		obj := ctx.Objects[name].(*schema.ConstraintDef)
		obj.Expr = n.Expr
		for _, p := range n.Params {
			obj.Params = append(obj.Params, schema.FunctionParam{Name: p.Name, Default: p.Default})
		}
		return nil
	case *schema.CreateAnnotation:
		obj := ctx.Objects[name].(*schema.AnnotationDef)
		obj.Inheritable = n.Inheritable
		return nil
	}
	return nil
}

func traceObjectType(ctx *schema.Context, env *expr.Env, name schema.Name, n *schema.CreateObjectType) *diag.Error {
	obj := ctx.Objects[name].(*schema.ObjectType)

	bases, err := traceBases(ctx, env, name, schema.ObjectTypeCategory, n.Bases)
	if err != nil {
		return err
	}
	obj.Bases = bases
	registerInheritance(ctx, obj, bases, nil)

	for _, cmd := range n.Commands {
		if err := traceSubCommand(ctx, env, name, schema.ObjectTypeCategory, obj.OwnPointers, obj.Constraints, obj.Annotations, cmd); err != nil {
			return err
		}
	}
	return nil
}

func traceScalarType(ctx *schema.Context, env *expr.Env, name schema.Name, n *schema.CreateScalarType) *diag.Error {
	obj := ctx.Objects[name].(*schema.ScalarType)

	var enumBase *schema.TypeRefNode
	var typeBases []schema.TypeRefNode
	for i := range n.Bases {
		if n.Bases[i].IsEnum() {
			enumBase = &n.Bases[i]
		} else {
			typeBases = append(typeBases, n.Bases[i])
		}
	}

	if enumBase != nil && (len(typeBases) > 0 || len(n.Bases) > 1) {
		return diag.New(diag.E_InvalidEnumComposition,
			fmt.Sprintf("enum base for '%s' cannot be combined with other bases", name.String())).
			WithSpan(enumBase.Span())
	}

	if enumBase != nil {
		obj.Enum = schema.EnumValues(enumBase.EnumValues)
	}

	bases, err := traceBases(ctx, env, name, schema.ScalarTypeCategory, typeBases)
	if err != nil {
		return err
	}
	obj.Bases = bases
	registerInheritance(ctx, obj, bases, nil)

	for _, cmd := range n.Commands {
		if err := traceSubCommand(ctx, env, name, schema.ScalarTypeCategory, nil, obj.Constraints, obj.Annotations, cmd); err != nil {
			return err
		}
	}
	return nil
}

// traceBases resolves every base reference, reporting
// [diag.E_PseudoTypeInUserSchema] for a direct anytype/anytuple base.
func traceBases(ctx *schema.Context, env *expr.Env, subject schema.Name, cat schema.Category, refs []schema.TypeRefNode) ([]schema.Name, *diag.Error) {
	bases := make([]schema.Name, 0, len(refs))
	for _, ref := range refs {
		resolved, err := resolve.Reference(ctx, env, ref.Qualifier, ref.Name, cat)
		if err != nil {
			return nil, err.WithSpan(ref.Span())
		}
		if guardErr := resolve.PseudoTypeGuard(resolved); guardErr != nil {
			return nil, guardErr.WithSpan(ref.Span())
		}
		bases = append(bases, resolved)
	}
	return bases, nil
}

// registerInheritance installs subject's inheritance-graph entry.
// Deps excludes stdlib bases; Merge does not.
func registerInheritance(ctx *schema.Context, item schema.Object, bases []schema.Name, extraMerge []schema.Name) {
	entry := &schema.InheritanceEntry{Item: item}
	for _, b := range bases {
		entry.Merge = append(entry.Merge, b)
		if !schema.IsStdlib(b.Module) {
			entry.Deps = append(entry.Deps, b)
		}
	}
	entry.Merge = append(entry.Merge, extraMerge...)
	ctx.Parents[item.Name()] = entry
}

// traceSubCommand dispatches one nested command under an object type
// or scalar type declaration.
func traceSubCommand(
	ctx *schema.Context,
	env *expr.Env,
	owner schema.Name,
	ownerCat schema.Category,
	pointers map[string]*schema.Pointer,
	constraints map[string]*schema.ConcreteConstraint,
	annotations map[string]*schema.AnnotationValue,
	cmd schema.ASTNode,
) *diag.Error {
	switch n := cmd.(type) {
	case *schema.CreateConcretePointer:
		return tracePointer(ctx, env, owner, pointers, n)
	case *schema.CreateConcreteConstraint:
		return traceConstraint(ctx, env, owner, ownerCat, constraints, n)
	case *schema.CreateConcreteIndex:
		return traceIndex(ctx, owner, n)
	case *schema.CreateAccessPolicy:
		return tracePolicy(ctx, owner, n)
	case *schema.CreateAnnotationValue:
		return traceAnnotationValue(ctx, env, owner, annotations, n)
	case *schema.SetField:
		return nil
	}
	return nil
}

func tracePointer(ctx *schema.Context, env *expr.Env, owner schema.Name, into map[string]*schema.Pointer, n *schema.CreateConcretePointer) *diag.Error {
	ptrName := schema.PointerID(owner, n.Name)
	cat := n.DeclCategory()
	ptr := schema.NewPointer(ptrName, cat, owner)
	ptr.Cardinality = n.Cardinality
	ptr.Required = n.Required

	if n.TargetExpr != nil {
		ptr.TargetExpr = n.TargetExpr
	} else if n.Target.Name != "" {
		target, err := resolve.Reference(ctx, env, n.Target.Qualifier, n.Target.Name, schema.ObjectTypeCategory)
		if err != nil {
			return err.WithSpan(n.Target.Span())
		}
		ptr.Target = target
	}

	if into != nil {
		into[n.Name] = ptr
	}
	ctx.Objects[ptrName] = ptr

	for _, sub := range n.Commands {
		if err := traceSubCommand(ctx, env, ptrName, cat, ptr.NestedPointers, ptr.Constraints, ptr.Annotations, sub); err != nil {
			return err
		}
	}
	return nil
}

func traceConstraint(ctx *schema.Context, env *expr.Env, subject schema.Name, subjectCat schema.Category, into map[string]*schema.ConcreteConstraint, n *schema.CreateConcreteConstraint) *diag.Error {
	abstractName, err := resolve.Reference(ctx, env, "", n.ConstraintName, schema.ConstraintCategory)
	if err != nil {
		return err.WithSpan(n.Span())
	}

	signature := schema.ConstraintSignature(n.Args, n.SubjectExpr, n.ExceptExpr)
	concreteName := schema.ConcreteConstraintID(subject, n.ConstraintName, signature)
	cc := schema.NewConcreteConstraint(concreteName, abstractName, subject)
	cc.Args = n.Args
	cc.SubjectExpr = n.SubjectExpr
	cc.ExceptExpr = n.ExceptExpr

	if subjectCat == schema.ScalarTypeCategory {
		cc.LoopControl = []schema.Name{subject}
	}

	if into != nil {
		into[n.ConstraintName] = cc
	}
	ctx.Objects[concreteName] = cc
	return nil
}

func traceIndex(ctx *schema.Context, owner schema.Name, n *schema.CreateConcreteIndex) *diag.Error {
	exceptKey := ""
	if n.Except != nil {
		exceptKey = n.Except.Span().String()
	}
	idxName := schema.ConcreteIndexID(owner, n.IndexName, n.Expr.Span().String(), exceptKey)
	idx := schema.NewIndex(idxName, owner)
	idx.Expr = n.Expr
	idx.Except = n.Except
	ctx.Objects[idxName] = idx
	return nil
}

func tracePolicy(ctx *schema.Context, owner schema.Name, n *schema.CreateAccessPolicy) *diag.Error {
	policyName := schema.AccessPolicyID(owner, n.Name)
	policy := schema.NewAccessPolicy(policyName, owner)
	policy.Condition = n.Condition
	policy.Using = n.Using
	policy.Kinds = n.Kinds
	policy.Allow = n.Allow
	ctx.Objects[policyName] = policy
	return nil
}

func traceAnnotationValue(ctx *schema.Context, env *expr.Env, owner schema.Name, into map[string]*schema.AnnotationValue, n *schema.CreateAnnotationValue) *diag.Error {
	abstractName, err := resolve.Reference(ctx, env, "", n.AnnotationName, schema.AnnotationCategory)
	if err != nil {
		return err.WithSpan(n.Span())
	}
	valueName := schema.AnnotationValueID(owner, n.AnnotationName)
	av := schema.NewAnnotationValue(valueName, abstractName, owner, n.Value)
	if into != nil {
		into[n.AnnotationName] = av
	}
	ctx.Objects[valueName] = av
	return nil
}
