package expr

// Env threads the name-resolution context through a single trace call:
// the module the expression lives in, any module aliases brought into
// scope by a WITH block, and the local parameter bindings visible at
// this point in the tree (function/constraint params, FOR-loop
// variables). It is immutable from the Tracer's point of view — nested
// scopes derive a child Env with WithLocal, WithAlias or WithSubject
// rather than mutating the parent.
type Env struct {
	module  string
	aliases map[string]string
	locals  map[string]bool
	// subject is the fully-qualified name of the type a bare path
	// expression's leading ".step" anchors to — // "subject anchor". It is opaque to this package (never parsed or
	// compared); callers set it to whatever their qualified-name
	// string scheme produces.
	subject string
}

// NewEnv starts a trace in module with no aliases or local bindings.
func NewEnv(module string) *Env {
	return &Env{module: module, aliases: map[string]string{}, locals: map[string]bool{}}
}

// WithAlias returns a child Env with alias bound to target module, for
// the scope of a WITH block.
func (e *Env) WithAlias(alias, targetModule string) *Env {
	child := e.clone()
	child.aliases[alias] = targetModule
	return child
}

// WithLocal returns a child Env with name bound as a local parameter,
// shadowing any top-level object of the same bare name within this
// expression subtree.
func (e *Env) WithLocal(name string) *Env {
	child := e.clone()
	child.locals[name] = true
	return child
}

func (e *Env) clone() *Env {
	aliases := make(map[string]string, len(e.aliases)+1)
	for k, v := range e.aliases {
		aliases[k] = v
	}
	locals := make(map[string]bool, len(e.locals)+1)
	for k := range e.locals {
		locals[k] = true
	}
	return &Env{module: e.module, aliases: aliases, locals: locals, subject: e.subject}
}

// WithSubject returns a child Env anchored to subject — the qualified
// name a bare ".step" path resolves its first step against.
func (e *Env) WithSubject(subject string) *Env {
	child := e.clone()
	child.subject = subject
	return child
}

// Subject returns the current subject anchor, or "" if none is set.
func (e *Env) Subject() string {
	return e.subject
}

// IsLocal reports whether name is bound as a local parameter in e,
// meaning a bare reference to it is not a schema-object lookup at all.
func (e *Env) IsLocal(name string) bool {
	return e.locals[name]
}

// Module returns the module an unqualified reference resolves into.
func (e *Env) Module() string {
	return e.module
}

// Qualify resolves a reference's written qualifier to the module path
// it denotes: an empty qualifier resolves to the current module, a
// known alias resolves to its target, and anything else passes through
// unchanged (the resolver will report it unresolved).
func (e *Env) Qualify(qualifier string) string {
	if qualifier == "" {
		return e.module
	}
	if target, ok := e.aliases[qualifier]; ok {
		return target
	}
	return qualifier
}
