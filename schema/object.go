package schema

import "github.com/gelflux/sdlc/schema/expr"

// Object is implemented by every category-specific schema object struct.
// Per each carries a qualified name and category-specific
// attributes; Object exposes only the two fields every phase needs
// regardless of category, mirroring yammm's narrow-interface
// style in schema/type.go rather than a single god-struct with unused
// fields per category.
type Object interface {
	Name() Name
	Category() Category
}

// common is embedded by every concrete object struct below to satisfy
// Object without repeating the two accessor methods.
type common struct {
	name Name
	cat  Category
}

func (c *common) Name() Name        { return c.name }
func (c *common) Category() Category { return c.cat }

// Bases lists the direct parents a type declared via `extending`, in
// declaration order. Order matters for the enum-composition check but
// not for ancestor closure, which treats it as a set.
type Bases []Name

// ObjectType is an entity type: a named bag of pointers, possibly
// inheriting from other object types.
type ObjectType struct {
	common
	Bases       Bases
	OwnPointers map[string]*Pointer // keyed by bare pointer name
	Constraints map[string]*ConcreteConstraint
	Indexes     []*Index
	Policies    []*AccessPolicy
	Annotations map[string]*AnnotationValue
	Abstract    bool
}

// NewObjectType constructs an ObjectType placeholder for the
// registration pass; callers fill in the maps during the layout pass.
func NewObjectType(name Name, abstract bool) *ObjectType {
	return &ObjectType{
		common:      common{name: name, cat: ObjectTypeCategory},
		OwnPointers: map[string]*Pointer{},
		Constraints: map[string]*ConcreteConstraint{},
		Annotations: map[string]*AnnotationValue{},
		Abstract:    abstract,
	}
}

// Pointers returns the merged view: after the inheritance merger has
// run, this includes both own and inherited pointers. Before it runs,
// it is identical to OwnPointers.
func (o *ObjectType) Pointers() map[string]*Pointer { return o.OwnPointers }

// EnumValues holds the values of the single `enum<...>` base a
// ScalarType declared. A scalar with an enum base may not combine it with any
// other base.
type EnumValues []string

// ScalarType is a possibly-enumerated scalar, optionally extending
// other scalars.
type ScalarType struct {
	common
	Bases       Bases
	Enum        EnumValues // non-nil iff this scalar is `enum<...>`
	Constraints map[string]*ConcreteConstraint
	Annotations map[string]*AnnotationValue
	Abstract    bool
}

func NewScalarType(name Name, abstract bool) *ScalarType {
	return &ScalarType{
		common:      common{name: name, cat: ScalarTypeCategory},
		Constraints: map[string]*ConcreteConstraint{},
		Annotations: map[string]*AnnotationValue{},
		Abstract:    abstract,
	}
}

// IsEnum reports whether this scalar was declared with an enum base.
func (s *ScalarType) IsEnum() bool { return s.Enum != nil }

// Pointer is the unified representation of a Link or Property, an
// umbrella term for both. Which one it is is carried by common.cat
// (LinkCategory or PropertyCategory).
type Pointer struct {
	common
	Source      Name  // the object type or link this pointer is declared on
	Target      Name  // zero if Target is computed (see TargetExpr)
	TargetExpr  expr.Expression // non-nil for computed pointers
	Cardinality Cardinality
	Required    bool
	// NestedPointers holds link properties declared on a Link pointer;
	// always empty for a Property.
	NestedPointers map[string]*Pointer
	Constraints    map[string]*ConcreteConstraint
	Annotations    map[string]*AnnotationValue
	// Inherited is set by the merger when this pointer entry was
	// copied down from a parent rather than declared on Source
	// itself; such pointers never produce their own DDL node.
	Inherited bool
}

func NewPointer(name Name, cat Category, source Name) *Pointer {
	return &Pointer{
		common:         common{name: name, cat: cat},
		Source:         source,
		NestedPointers: map[string]*Pointer{},
		Constraints:    map[string]*ConcreteConstraint{},
		Annotations:    map[string]*AnnotationValue{},
	}
}

// IsComputed reports whether the pointer's target is derived from an
// expression rather than declared directly.
func (p *Pointer) IsComputed() bool { return p.TargetExpr != nil }

// Clone returns a shallow copy of p suitable for installing on a child
// during inheritance merge. NestedPointers, Constraints, and Annotations are
// copied as new maps with the same entries, so later merges on the
// child never mutate the parent's maps.
func (p *Pointer) Clone() *Pointer {
	clone := &Pointer{
		common:      p.common,
		Source:      p.Source,
		Target:      p.Target,
		TargetExpr:  p.TargetExpr,
		Cardinality: p.Cardinality,
		Required:    p.Required,
		Inherited:   true,
	}
	clone.NestedPointers = make(map[string]*Pointer, len(p.NestedPointers))
	for k, v := range p.NestedPointers {
		clone.NestedPointers[k] = v
	}
	clone.Constraints = make(map[string]*ConcreteConstraint, len(p.Constraints))
	for k, v := range p.Constraints {
		clone.Constraints[k] = v
	}
	clone.Annotations = make(map[string]*AnnotationValue, len(p.Annotations))
	for k, v := range p.Annotations {
		clone.Annotations[k] = v
	}
	return clone
}

// Alias is a named expression yielding a derived type.
type Alias struct {
	common
	Body expr.Expression
}

func NewAlias(name Name, body expr.Expression) *Alias {
	return &Alias{common: common{name: name, cat: AliasCategory}, Body: body}
}

// Global is a named singleton expression (or a settable default with
// no body).
type Global struct {
	common
	Target Name
	Body   expr.Expression // nil if Global has no default expression
}

func NewGlobal(name Name, target Name) *Global {
	return &Global{common: common{name: name, cat: GlobalCategory}, Target: target}
}

// FunctionParam is one positional parameter of a Function.
type FunctionParam struct {
	Name    string
	Type    Name
	Default expr.Expression // nil if the parameter has no default
}

// Function is a named callable: either an expression body or native
// (host-implemented) code, never both.
type Function struct {
	common
	Params     []FunctionParam
	ReturnType Name
	Body       expr.Expression // nil for a native function
	IsNative   bool
}

func NewFunction(name Name) *Function {
	return &Function{common: common{name: name, cat: FunctionCategory}}
}

// ConstraintDef is an abstract constraint definition: a named,
// reusable constraint shape with its own parameters.
type ConstraintDef struct {
	common
	Params []FunctionParam
	Expr   expr.Expression
}

func NewConstraintDef(name Name) *ConstraintDef {
	return &ConstraintDef{common: common{name: name, cat: ConstraintCategory}}
}

// ConcreteConstraint is an application of an abstract ConstraintDef to
// a specific Subject, with specific arguments.
type ConcreteConstraint struct {
	common
	Of         Name // the abstract ConstraintDef this applies
	Subject    Name // the object or pointer the constraint is attached to
	Args       []expr.Expression
	SubjectExpr expr.Expression // non-nil for an `on (...)` clause
	ExceptExpr  expr.Expression // non-nil for an `except (...)` clause
	// LoopControl names identifiers that must not be treated as
	// dependencies of this constraint node even if referenced,
	// breaking the scalar-self-reference case of loop control.
	LoopControl []Name
}

func NewConcreteConstraint(name Name, of, subject Name) *ConcreteConstraint {
	return &ConcreteConstraint{common: common{name: name, cat: ConstraintCategory}, Of: of, Subject: subject}
}

// AccessPolicy is attached to an object type and carries boolean
// using/when/access-kind expressions.
type AccessPolicy struct {
	common
	Subject   Name
	Condition expr.Expression // the `when (...)` clause, may be nil
	Using     expr.Expression // the `using (...)` clause, may be nil
	Kinds     []string        // e.g. "select", "insert", "update", "delete"
	Allow     bool            // true for `allow`, false for `deny`
}

func NewAccessPolicy(name Name, subject Name) *AccessPolicy {
	return &AccessPolicy{common: common{name: name, cat: AccessPolicyCategory}, Subject: subject}
}

// Index is attached to a source and carries an "on" expression plus an
// optional "except" expression.
type Index struct {
	common
	Source Name
	Expr   expr.Expression
	Except expr.Expression // non-nil if the index has an `except (...)` clause
}

func NewIndex(name Name, source Name) *Index {
	return &Index{common: common{name: name, cat: IndexCategory}, Source: source}
}

// AnnotationDef is a named, reusable annotation kind.
type AnnotationDef struct {
	common
	Inheritable bool
}

func NewAnnotationDef(name Name) *AnnotationDef {
	return &AnnotationDef{common: common{name: name, cat: AnnotationCategory}}
}

// AnnotationValue is a concrete application of an AnnotationDef to an
// owner, carrying a literal string value.
type AnnotationValue struct {
	common
	Of    Name
	Owner Name
	Value string
}

func NewAnnotationValue(name Name, of, owner Name, value string) *AnnotationValue {
	return &AnnotationValue{common: common{name: name, cat: AnnotationValueCategory}, Of: of, Owner: owner, Value: value}
}
