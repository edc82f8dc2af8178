package schema

// InheritanceEntry is one node of the inheritance graph the layout
// tracer builds ("inheritance graph entry"): the object
// itself, the base names it must be ordered after for topological
// merging (Deps), and the base names whose pointers propagate into it
// (Merge). Deps excludes stdlib bases, since those never need to be
// ordered against (they already exist); Merge does not, since their
// pointers still need to be copied down.
type InheritanceEntry struct {
	Item  Object
	Deps  []Name
	Merge []Name
}

// DDLNode is one node of the dependency graph the dependency tracer
// builds: the assembled DDL command, its hard and weak
// dependency sets, and the loop-control exclusion set.
type DDLNode struct {
	Name        Name
	Command     Command
	Deps        map[Name]bool
	WeakDeps    map[Name]bool
	LoopControl map[Name]bool
}

// NewDDLNode returns an empty DDLNode for name.
func NewDDLNode(name Name, cmd Command) *DDLNode {
	return &DDLNode{
		Name:        name,
		Command:     cmd,
		Deps:        map[Name]bool{},
		WeakDeps:    map[Name]bool{},
		LoopControl: map[Name]bool{},
	}
}

// AddDep adds a hard dependency unless it names something in
// LoopControl (scalar-constraint loop-control rule).
func (n *DDLNode) AddDep(dep Name) {
	if n.LoopControl[dep] {
		return
	}
	n.Deps[dep] = true
}

// SortedDeps returns Deps in lexicographic order by qualified name.
func (n *DDLNode) SortedDeps() []Name {
	return sortNames(n.Deps)
}

// SortedWeakDeps returns WeakDeps in lexicographic order.
func (n *DDLNode) SortedWeakDeps() []Name {
	return sortNames(n.WeakDeps)
}

func sortNames(set map[Name]bool) []Name {
	out := make([]Name, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Compare(out[j-1]) < 0; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// Context is the per-invocation state every compile phase reads from
// and writes into. It is never
// reused across two Compile calls.
type Context struct {
	Host HostSchema

	// ModuleAliases maps a WITH-block alias to the full module path
	// it denotes, for the batch currently compiling.
	ModuleAliases map[string]string

	// LocalModules is the set of module names appearing in the
	// current batch, used by the resolver to decide which modules'
	// names are eligible for closest-name hinting.
	LocalModules map[string]bool

	// Objects holds every object registered so far this invocation,
	// populated by the layout tracer. It starts empty; AnyType and
	// AnyTuple are never entries here.
	Objects map[Name]Object

	// Parents and Ancestors hold the inheritance graph the layout
	// tracer builds and the ancestor-closure phase computes.
	Parents   map[Name]*InheritanceEntry
	Ancestors map[Name][]Name

	// DepStack is the chain of enclosing declarations currently being
	// traced, outermost first.
	DepStack []DepStackEntry

	// DDLGraph holds the dependency-tracer's output: one DDLNode per
	// emitted DDL command, keyed by its fully-qualified name.
	DDLGraph map[Name]*DDLNode

	// DDLOrder preserves document order of top-level DDLGraph
	// insertions, used only when the "preserve document order on ties"
	// design alternative from is wanted; the shipped sorter
	// ignores it in favor of lexicographic order (DESIGN.md).
	DDLOrder []Name
}

// NewContext returns a Context ready for one compile invocation, with
// every map empty.
func NewContext(host HostSchema, aliases map[string]string) *Context {
	if aliases == nil {
		aliases = map[string]string{}
	}
	ctx := &Context{
		Host:          host,
		ModuleAliases: aliases,
		LocalModules:  map[string]bool{},
		Objects:       map[Name]Object{},
		Parents:       map[Name]*InheritanceEntry{},
		Ancestors:     map[Name][]Name{},
		DDLGraph:      map[Name]*DDLNode{},
	}
	return ctx
}

// PushDep pushes a new dep-stack frame and returns a function that
// pops it, so callers can `defer ctx.PushDep(...)()`.
func (c *Context) PushDep(cat Category, name Name) func() {
	c.DepStack = append(c.DepStack, DepStackEntry{Category: cat, Name: name})
	return func() {
		c.DepStack = c.DepStack[:len(c.DepStack)-1]
	}
}

// Lookup resolves name against the objects registered so far this
// invocation, falling back to the host schema.
func (c *Context) Lookup(name Name, cat Category) (Object, bool) {
	if obj, ok := c.Objects[name]; ok {
		return obj, true
	}
	if c.Host == nil {
		return nil, false
	}
	return c.Host.Get(name, cat)
}
