package expr

import "sort"

// RefKind distinguishes the syntactic position a name reference was
// found in. The tracer assigns these from grammar shape alone; turning
// a Ref into an actual schema category is the resolver's job, since
// that requires HostSchema lookups this package has no access to.
type RefKind uint8

const (
	// TypeRefKind marks a name found where a type was expected (a
	// [TypeRef] node, or the target of a cast).
	TypeRefKind RefKind = iota
	// FuncRefKind marks the callee name of a [FuncCall].
	FuncRefKind
	// PointerRefKind marks a [PathStep] name — resolved against the
	// type reached so far along the path, not a top-level lookup.
	PointerRefKind
)

func (k RefKind) String() string {
	switch k {
	case FuncRefKind:
		return "function"
	case PointerRefKind:
		return "pointer"
	default:
		return "type"
	}
}

// Ref is one name reference collected while tracing an expression.
// For type and function refs, Qualifier is the module path the
// [Tracer] already resolved through Env.Qualify (the current module
// for a bare name); for pointer refs it is the Env's subject anchor.
type Ref struct {
	Qualifier string
	Name      string
	Kind      RefKind
}

// qualifiedKey identifies a Ref for deduplication purposes: two refs to
// the same name in the same position collapse to one, but a type
// reference and a pointer-step reference sharing a bare name do not.
type qualifiedKey struct {
	Qualifier string
	Name      string
	Kind      RefKind
}

// RefSet is the deduplicated, order-independent result of tracing an
// expression. Construction only ever adds; there is no removal,
// mirroring how layout tracing builds its forward-reference
// placeholders.
type RefSet struct {
	seen map[qualifiedKey]Ref
}

// NewRefSet returns an empty set.
func NewRefSet() *RefSet {
	return &RefSet{seen: make(map[qualifiedKey]Ref)}
}

// Add records a reference. Neither RefSet nor the [Tracer] filters out
// names in the "std" module; the dependency tracer drops those when it
// turns refs into dependencies.
func (s *RefSet) Add(r Ref) {
	key := qualifiedKey{Qualifier: r.Qualifier, Name: r.Name, Kind: r.Kind}
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = r
}

// Len reports the number of distinct references collected.
func (s *RefSet) Len() int {
	return len(s.seen)
}

// Sorted returns every collected reference ordered lexicographically by
// (qualifier, name, kind) — a stable order for tests and for callers
// that want deterministic iteration before qualifying into full names.
func (s *RefSet) Sorted() []Ref {
	out := make([]Ref, 0, len(s.seen))
	for _, r := range s.seen {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Qualifier != out[j].Qualifier {
			return out[i].Qualifier < out[j].Qualifier
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}
