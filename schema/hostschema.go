package schema

// HostSchema is the external collaborator requires of every
// caller of the core: the already-materialized schema a new batch of
// SDL declarations is compiled against. The core only ever reads it —
// the schema is never mutated in place, matching the DDL-accretion
// model: compiling emits commands the caller applies
// elsewhere.
type HostSchema interface {
	// Get looks up an already-materialized object by qualified name
	// and category. ok is false if no such object exists yet — that
	// is not itself an error, since the name may be defined later in
	// the same batch.
	Get(name Name, cat Category) (Object, bool)

	// GetGlobal looks up an object by category without requiring the
	// caller to know its owning module, used for the handful of
	// lookups describes as resolving across module
	// boundaries.
	GetGlobal(cat Category, name string) (Object, bool)

	// PointerCardinality reports the cardinality of an
	// already-materialized pointer, needed by the dependency tracer
	// when a path step crosses a to-one vs. to-many pointer. ok is
	// false if owner has no such pointer.
	PointerCardinality(owner Name, pointerName string) (card Cardinality, ok bool)
}
