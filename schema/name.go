// Package schema holds the data model that the compiler core operates
// over: qualified names, the schema object categories, the SDL AST
// node shapes fed in by the (external) parser, and the DDL command
// shapes emitted out.
package schema

import (
	"fmt"
	"strings"

	"github.com/gelflux/sdlc/schema/expr"
)

// Name is a fully-qualified schema object identifier: a dotted module
// path paired with a name unique within that module.
//
// The "name" half is not always a bare identifier — it may itself be a
// compound string ("owner@ptr", "owner@cons@@sig", a function's
// "name(params)" rendering) produced by the Pointer/Constraint/
// Function/Index/AccessPolicy ID builders below. Name does not
// interpret that structure; it is an opaque comparable key everywhere
// except the builders that construct it and the verbosename renderer
// that un-does it for diagnostics.
type Name struct {
	Module string
	Name   string
}

// String renders "module::name".
func (n Name) String() string {
	return n.Module + "::" + n.Name
}

// IsZero reports whether n is the unset name.
func (n Name) IsZero() bool {
	return n.Module == "" && n.Name == ""
}

// Compare orders names lexicographically by their string rendering.
// Every set iteration in the emission path sorts through
// this, so it is the single source of truth for "lexicographic order by
// qualified name" used throughout the dependency tracer and sorter.
func (n Name) Compare(other Name) int {
	return strings.Compare(n.String(), other.String())
}

// ModulePrefixes returns every dotted prefix of a module path, in
// order: "a::b::c" yields ["a", "a::b", "a::b::c"]; "" yields nil.
// Output assembly in schema/compile computes the same prefixes with
// its own helper and does not call this function.
func ModulePrefixes(module string) []string {
	if module == "" {
		return nil
	}
	parts := strings.Split(module, "::")
	prefixes := make([]string, len(parts))
	for i := range parts {
		prefixes[i] = strings.Join(parts[:i+1], "::")
	}
	return prefixes
}

// AnyType and AnyTuple are the two distinguished polymorphic
// pseudo-types. They are not entries in a compilation context's object
// map: the resolver maps the names "anytype"/"anytuple" to them
// directly.
var (
	AnyType  = Name{Module: "std", Name: "anytype"}
	AnyTuple = Name{Module: "std", Name: "anytuple"}
)

// IsStdlib reports whether a module is (or is nested under) the "std"
// standard-library module. References into stdlib modules resolve
// legally but never produce a DDL graph node.
func IsStdlib(module string) bool {
	return module == "std" || strings.HasPrefix(module, "std::")
}

// PointerID builds the fully-qualified identifier for a pointer
// (link or property) declared on owner: "module::owner@pointername".
func PointerID(owner Name, ptrName string) Name {
	return Name{Module: owner.Module, Name: owner.Name + "@" + ptrName}
}

// ConcreteConstraintID builds the fully-qualified identifier for a
// concrete constraint application:
// "module::subject@cons_basename@@signature".
//
// signature is the caller-computed stable rendering of the subject and
// except expressions — this function does not compute it, only
// assembles the final name.
func ConcreteConstraintID(subject Name, consBasename, signature string) Name {
	return Name{Module: subject.Module, Name: subject.Name + "@" + consBasename + "@@" + signature}
}

// FunctionID builds the fully-qualified identifier for a function:
// "module::name(param-rendering)".
func FunctionID(fn Name, paramRendering string) Name {
	return Name{Module: fn.Module, Name: fmt.Sprintf("%s(%s)", fn.Name, paramRendering)}
}

// ConcreteIndexID builds the fully-qualified identifier for a concrete
// index: "module::owner@name@@(expr)/(except_expr?)".
func ConcreteIndexID(owner Name, idxName, exprRendering, exceptRendering string) Name {
	name := fmt.Sprintf("%s@%s@@(%s)", owner.Name, idxName, exprRendering)
	if exceptRendering != "" {
		name += "/(" + exceptRendering + ")"
	}
	return Name{Module: owner.Module, Name: name}
}

// AccessPolicyID builds the fully-qualified identifier for an access
// policy: "module::owner@policy_name".
func AccessPolicyID(owner Name, policyName string) Name {
	return Name{Module: owner.Module, Name: owner.Name + "@" + policyName}
}

// AnnotationValueID builds the fully-qualified identifier for a
// concrete annotation application, following the same owner@name scheme
// as pointers and access policies.
func AnnotationValueID(owner Name, annoName string) Name {
	return Name{Module: owner.Module, Name: owner.Name + "@" + annoName}
}

// ConstraintSignature renders the stable source rendering of a
// concrete constraint's identity: the positional args joined by ",",
// then "|" and the subjectexpr, then "|" and the except_expr. An absent
// expression renders as "", so both "|" separators are always present.
// Fragments use each expression's source span as a stand-in for
// original source text, since the core never holds source text itself
// — only the AST the external parser already produced.
func ConstraintSignature(args []expr.Expression, subjectExpr, exceptExpr expr.Expression) string {
	sig := ""
	for i, a := range args {
		if i > 0 {
			sig += ","
		}
		sig += exprSpanKey(a)
	}
	sig += "|" + exprSpanKey(subjectExpr)
	sig += "|" + exprSpanKey(exceptExpr)
	return sig
}

func exprSpanKey(e expr.Expression) string {
	if e == nil {
		return ""
	}
	return e.Span().String()
}
