package expr

// Tracer walks an expression tree collecting the name references it
// contains, the way yammm's schema/expr visitor walks an ANTLR
// parse tree — here by a type switch over already-built [Expression]
// nodes rather than over grammar contexts, since parsing happens
// upstream of this package.
//
// A Tracer is stateless and safe to reuse across calls; all per-trace
// state lives in the [Env] and [RefSet] passed in.
type Tracer struct{}

// NewTracer returns a ready-to-use Tracer.
func NewTracer() *Tracer {
	return &Tracer{}
}

// Trace walks expr under env, adding every name reference it finds to
// refs. It never returns an error: an expression tree with references
// that turn out not to exist is a resolver-phase concern, not a
// tracing-phase one (— tracing is purely syntactic).
func (t *Tracer) Trace(e Expression, env *Env, refs *RefSet) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *Literal:
		// no references
	case *TypeRef:
		if n.IsAnyType || n.IsAnyTuple {
			return
		}
		refs.Add(Ref{Qualifier: env.Qualify(n.Qualifier), Name: n.Name, Kind: TypeRefKind})
	case *FuncCall:
		refs.Add(Ref{Qualifier: env.Qualify(n.Qualifier), Name: n.Name, Kind: FuncRefKind})
		for _, arg := range n.Args {
			t.Trace(arg, env, refs)
		}
	case *Path:
		t.Trace(n.Root, env, refs)
		// Only the first step resolves against the known subject
		// anchor; multi-hop chains would need the target type of each
		// prior step, which requires type inference this tracer does
		// not perform.
		if len(n.Steps) > 0 && env.Subject() != "" {
			refs.Add(Ref{Qualifier: env.Subject(), Name: n.Steps[0].Name, Kind: PointerRefKind})
		}
	case *Subject:
		// anchors contribute no reference; the subject's type is
		// already known from context, not looked up by name.
	case *BinaryOp:
		t.Trace(n.Left, env, refs)
		t.Trace(n.Right, env, refs)
	case *UnaryOp:
		t.Trace(n.Operand, env, refs)
	case *If:
		t.Trace(n.Cond, env, refs)
		t.Trace(n.Then, env, refs)
		t.Trace(n.Else, env, refs)
	case *ParamRef:
		// local parameter reference, never a schema-object lookup
	case *List:
		for _, elem := range n.Elements {
			t.Trace(elem, env, refs)
		}
	default:
		panic("expr: Trace: unhandled node type")
	}
}
