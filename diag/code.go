package diag

// Category groups codes by the phase of compilation that raises them.
// It is informational metadata for filtering, not part of a code's
// identity.
type Category uint8

const (
	// CategoryResolve covers name-resolution failures.
	CategoryResolve Category = iota
	// CategoryLayout covers registration/layout failures.
	CategoryLayout
	// CategoryInherit covers inheritance-graph failures.
	CategoryInherit
	// CategoryExpr covers expression-tracing failures.
	CategoryExpr
	// CategoryDepGraph covers dependency-tracer failures.
	CategoryDepGraph
	// CategoryTopo covers topological-sort failures.
	CategoryTopo
)

// String renders a human label for the category.
func (c Category) String() string {
	switch c {
	case CategoryResolve:
		return "resolve"
	case CategoryLayout:
		return "layout"
	case CategoryInherit:
		return "inherit"
	case CategoryExpr:
		return "expr"
	case CategoryDepGraph:
		return "depgraph"
	case CategoryTopo:
		return "topo"
	default:
		return "unknown"
	}
}

// Code is a stable, closed-set programmatic identifier for a diagnostic.
//
// Code values are only constructed via the package-level vars below —
// the unexported fields prevent code outside this package from minting
// new codes, so a type switch or equality check against e.g. [E_DefinitionCycle]
// is exhaustive by construction.
type Code struct {
	value string
	cat   Category
}

// String returns the code's stable identifier, e.g. "E_DEFINITION_CYCLE".
func (c Code) String() string { return c.value }

// Category returns the phase that raises this code.
func (c Code) Category() Category { return c.cat }

// IsZero reports whether c is the unset code.
func (c Code) IsZero() bool { return c.value == "" }

func code(value string, cat Category) Code {
	return Code{value: value, cat: cat}
}

// The error taxonomy every phase raises from.
var (
	// E_UnresolvedReference: a reference could not be qualified or
	// resolved against the local objects map or the host schema.
	E_UnresolvedReference = code("E_UNRESOLVED_REFERENCE", CategoryResolve)

	// E_AmbiguousReference is reserved for a future extension where a
	// bare name resolves against more than one visible module.
	E_AmbiguousReference = code("E_AMBIGUOUS_REFERENCE", CategoryResolve)

	// E_PseudoTypeInUserSchema: a user declaration tried to use
	// std::anytype/std::anytuple directly as a concrete type.
	E_PseudoTypeInUserSchema = code("E_PSEUDO_TYPE_IN_USER_SCHEMA", CategoryResolve)

	// E_InvalidEnumComposition: an enum base was combined with other
	// bases, or more than one enum base was declared.
	E_InvalidEnumComposition = code("E_INVALID_ENUM_COMPOSITION", CategoryLayout)

	// E_DuplicateDeclaration: the same fully-qualified name was declared
	// twice within one compile batch.
	E_DuplicateDeclaration = code("E_DUPLICATE_DECLARATION", CategoryLayout)

	// E_InvalidReference: a name resolved to an object of the wrong
	// category (e.g. a scalar where a type was expected).
	E_InvalidReference = code("E_INVALID_REFERENCE", CategoryLayout)

	// E_RecursiveDefinition: an inheritance cycle was detected during
	// ancestor-closure computation.
	E_RecursiveDefinition = code("E_RECURSIVE_DEFINITION", CategoryInherit)

	// E_UnknownReference: an expression referenced a name not bound in
	// its local parameter scope and not resolvable as a schema object.
	E_UnknownReference = code("E_UNKNOWN_REFERENCE", CategoryExpr)

	// E_DefinitionCycle: the DDL dependency graph could not be
	// linearized because it contains a cycle with no loop-control
	// exemption.
	E_DefinitionCycle = code("E_DEFINITION_CYCLE", CategoryTopo)
)
