package schema

import (
	"github.com/gelflux/sdlc/location"
	"github.com/gelflux/sdlc/schema/expr"
)

// ASTNode is the interface every SDL input node and every DDL output
// node implements. Per design note this is modeled as a
// tagged sum over a closed set of concrete declaration types plus
// composable trait interfaces, rather than open-ended virtual
// dispatch — phases that care about a capability (bases, an
// expression body, sub-commands) type-assert the relevant trait
// instead of switching on every concrete type.
type ASTNode interface {
	Span() location.Span
	isASTNode()
}

type astBase struct {
	span location.Span
}

func (b astBase) Span() location.Span { return b.span }
func (astBase) isASTNode()            {}

// DeclNode is a top-level or nested declaration: it has a bare name
// (qualified by its enclosing context, not itself) and a Category
// identifying which concrete type it is.
type DeclNode interface {
	ASTNode
	DeclName() string
	DeclCategory() Category
}

// HasBases is implemented by declarations that can carry an
// `extending` clause (object types, scalar types, abstract links and
// properties, constraint defs).
type HasBases interface {
	DeclNode
	DeclBases() []TypeRefNode
}

// HasExprBody is implemented by declarations whose semantics are
// carried entirely by one expression (aliases, globals, computed
// pointers, functions, constraint defs, indexes).
type HasExprBody interface {
	DeclNode
	ExprBody() expr.Expression
}

// HasSubCommands is implemented by declarations that nest further
// declarations or field sets under them (object types, scalar types,
// abstract links and properties, concrete pointers).
type HasSubCommands interface {
	DeclNode
	SubCommands() []ASTNode
}

// TypeRefNode names a type referenced from an `extending` clause or a
// pointer target position.
type TypeRefNode struct {
	astBase
	Qualifier string
	Name      string
	EnumValues []string // non-nil iff this ref is `enum<...>`
}

func NewTypeRefNode(span location.Span, qualifier, name string) *TypeRefNode {
	return &TypeRefNode{astBase: astBase{span: span}, Qualifier: qualifier, Name: name}
}

// IsEnum reports whether this type reference is an inline
// `enum<v1, v2, ...>` base rather than a named-type reference.
func (n *TypeRefNode) IsEnum() bool { return n.EnumValues != nil }

// CreateObjectType is the top-level `type Name extending ... { ... }`
// declaration.
type CreateObjectType struct {
	astBase
	Name     string
	Bases    []TypeRefNode
	Abstract bool
	Commands []ASTNode
}

func (n *CreateObjectType) DeclName() string           { return n.Name }
func (n *CreateObjectType) DeclCategory() Category     { return ObjectTypeCategory }
func (n *CreateObjectType) DeclBases() []TypeRefNode    { return n.Bases }
func (n *CreateObjectType) SubCommands() []ASTNode      { return n.Commands }

// CreateScalarType is the top-level `scalar Name extending ...;`
// declaration.
type CreateScalarType struct {
	astBase
	Name     string
	Bases    []TypeRefNode
	Abstract bool
	Commands []ASTNode
}

func (n *CreateScalarType) DeclName() string       { return n.Name }
func (n *CreateScalarType) DeclCategory() Category { return ScalarTypeCategory }
func (n *CreateScalarType) DeclBases() []TypeRefNode { return n.Bases }
func (n *CreateScalarType) SubCommands() []ASTNode   { return n.Commands }

// CreateLink is a standalone abstract link declaration (as opposed to
// a concrete pointer nested under an object type — see
// [CreateConcretePointer]).
type CreateLink struct {
	astBase
	Name     string
	Bases    []TypeRefNode
	Commands []ASTNode
}

func (n *CreateLink) DeclName() string       { return n.Name }
func (n *CreateLink) DeclCategory() Category { return LinkCategory }
func (n *CreateLink) DeclBases() []TypeRefNode { return n.Bases }
func (n *CreateLink) SubCommands() []ASTNode   { return n.Commands }

// CreateProperty is a standalone abstract property declaration.
type CreateProperty struct {
	astBase
	Name     string
	Bases    []TypeRefNode
	Commands []ASTNode
}

func (n *CreateProperty) DeclName() string       { return n.Name }
func (n *CreateProperty) DeclCategory() Category { return PropertyCategory }
func (n *CreateProperty) DeclBases() []TypeRefNode { return n.Bases }
func (n *CreateProperty) SubCommands() []ASTNode   { return n.Commands }

// CreateAlias is the top-level `alias Name := expr;` declaration.
type CreateAlias struct {
	astBase
	Name string
	Body expr.Expression
}

func (n *CreateAlias) DeclName() string         { return n.Name }
func (n *CreateAlias) DeclCategory() Category   { return AliasCategory }
func (n *CreateAlias) ExprBody() expr.Expression { return n.Body }

// CreateGlobal is the top-level `global Name -> Type { default := expr; }`
// declaration. Body is nil when the global has no default.
type CreateGlobal struct {
	astBase
	Name   string
	Target TypeRefNode
	Body   expr.Expression
}

func (n *CreateGlobal) DeclName() string         { return n.Name }
func (n *CreateGlobal) DeclCategory() Category   { return GlobalCategory }
func (n *CreateGlobal) ExprBody() expr.Expression { return n.Body }

// ParamNode is one function or constraint parameter.
type ParamNode struct {
	Name    string
	Type    TypeRefNode
	Default expr.Expression
}

// CreateFunction is the top-level function declaration.
type CreateFunction struct {
	astBase
	Name       string
	Params     []ParamNode
	ReturnType TypeRefNode
	Body       expr.Expression // nil for native functions
	IsNative   bool
}

func (n *CreateFunction) DeclName() string         { return n.Name }
func (n *CreateFunction) DeclCategory() Category   { return FunctionCategory }
func (n *CreateFunction) ExprBody() expr.Expression { return n.Body }

// CreateConstraint is the top-level abstract constraint definition.
type CreateConstraint struct {
	astBase
	Name   string
	Bases  []TypeRefNode
	Params []ParamNode
	Expr   expr.Expression
}

func (n *CreateConstraint) DeclName() string         { return n.Name }
func (n *CreateConstraint) DeclCategory() Category   { return ConstraintCategory }
func (n *CreateConstraint) DeclBases() []TypeRefNode  { return n.Bases }
func (n *CreateConstraint) ExprBody() expr.Expression { return n.Expr }

// CreateAnnotation is the top-level abstract annotation definition.
type CreateAnnotation struct {
	astBase
	Name        string
	Inheritable bool
}

func (n *CreateAnnotation) DeclName() string       { return n.Name }
func (n *CreateAnnotation) DeclCategory() Category { return AnnotationCategory }

// CreateConcretePointer is a pointer (link or property) nested under
// an object type, a link (link property), or another pointer.
type CreateConcretePointer struct {
	astBase
	Name        string
	IsLink      bool // false for property
	Target      TypeRefNode // zero if TargetExpr is set (computed pointer)
	TargetExpr  expr.Expression
	Cardinality Cardinality
	Required    bool
	Commands    []ASTNode
}

func (n *CreateConcretePointer) DeclName() string { return n.Name }
func (n *CreateConcretePointer) DeclCategory() Category {
	if n.IsLink {
		return LinkCategory
	}
	return PropertyCategory
}
func (n *CreateConcretePointer) ExprBody() expr.Expression { return n.TargetExpr }
func (n *CreateConcretePointer) SubCommands() []ASTNode    { return n.Commands }

// CreateConcreteConstraint applies an abstract constraint to a subject
// with specific arguments.
type CreateConcreteConstraint struct {
	astBase
	ConstraintName string // the abstract ConstraintDef being applied
	Args           []expr.Expression
	SubjectExpr    expr.Expression
	ExceptExpr     expr.Expression
}

func (n *CreateConcreteConstraint) DeclName() string       { return n.ConstraintName }
func (n *CreateConcreteConstraint) DeclCategory() Category { return ConstraintCategory }

// CreateConcreteIndex attaches an index to its enclosing source.
type CreateConcreteIndex struct {
	astBase
	IndexName string
	Expr      expr.Expression
	Except    expr.Expression
}

func (n *CreateConcreteIndex) DeclName() string         { return n.IndexName }
func (n *CreateConcreteIndex) DeclCategory() Category   { return IndexCategory }
func (n *CreateConcreteIndex) ExprBody() expr.Expression { return n.Expr }

// CreateAccessPolicy attaches an access policy to its enclosing object
// type.
type CreateAccessPolicy struct {
	astBase
	Name      string
	Condition expr.Expression
	Using     expr.Expression
	Kinds     []string
	Allow     bool
}

func (n *CreateAccessPolicy) DeclName() string       { return n.Name }
func (n *CreateAccessPolicy) DeclCategory() Category { return AccessPolicyCategory }

// CreateAnnotationValue applies an abstract annotation to its
// enclosing owner with a literal value.
type CreateAnnotationValue struct {
	astBase
	AnnotationName string
	Value          string
}

func (n *CreateAnnotationValue) DeclName() string       { return n.AnnotationName }
func (n *CreateAnnotationValue) DeclCategory() Category { return AnnotationValueCategory }

// SetField is a plain field assignment (e.g. `required := true;`) that
// carries no nested declaration of its own. Value is nil when the
// field's value is a literal carried directly in Literal rather than
// an expression needing tracing.
type SetField struct {
	astBase
	Field   string
	Value   expr.Expression
	Literal any
}
