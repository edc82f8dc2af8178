package schema

import "github.com/gelflux/sdlc/location"

// CreateModule is the module-creation prelude command emitted once
// per module appearing in the input and once per dotted prefix of
// each such module.
type CreateModule struct {
	astBase
	Module string
}

func NewCreateModule(module string) *CreateModule {
	return &CreateModule{Module: module}
}

// AlterWrapper represents the enclosing Alter* chain a nested
// declaration is wrapped in when it becomes its own DDL graph node:
// nested declarations are wrapped in Alter* chains representing their
// enclosing context. Wrapping is recursive: a pointer nested three
// levels deep inside an object type is represented as three nested
// AlterWrappers around its own Body.
type AlterWrapper struct {
	astBase
	TargetCategory Category
	TargetName     Name
	Body           ASTNode
	// SDLAlterIfExists corresponds to `sdl_alter_if_exists`
	// flag: set on CreateObject commands appearing under a nested
	// context, so the downstream executor alters-or-creates
	// idempotently.
	SDLAlterIfExists bool
}

func NewAlterWrapper(targetCat Category, targetName Name, body ASTNode) *AlterWrapper {
	return &AlterWrapper{TargetCategory: targetCat, TargetName: targetName, Body: body}
}

func (n *AlterWrapper) DeclName() string       { return n.TargetName.String() }
func (n *AlterWrapper) DeclCategory() Category { return n.TargetCategory }

// Wrap nests body inside one AlterWrapper per entry of the given
// chain of (category, name) enclosing contexts, outermost first —
// the shape the dependency tracer's "dep stack" produces when it
// unwinds.
func Wrap(body ASTNode, chain []DepStackEntry) ASTNode {
	wrapped := body
	for i := len(chain) - 1; i >= 0; i-- {
		entry := chain[i]
		wrapped = &AlterWrapper{TargetCategory: entry.Category, TargetName: entry.Name, Body: wrapped}
	}
	return wrapped
}

// DepStackEntry identifies one frame of the dependency tracer's dep
// stack: the enclosing declaration currently being
// visited, named by category and qualified name.
type DepStackEntry struct {
	Category Category
	Name     Name
}

// Command is one fully-assembled output DDL command: an AST subtree
// (possibly AlterWrapper-wrapped), paired with the fully-qualified
// name the sorter and output-assembly stage key it by.
type Command struct {
	Name Name
	Node ASTNode
}

// NewCommand pairs a command's name with its node, borrowing the
// node's own span if the caller has none more specific.
func NewCommand(name Name, node ASTNode) Command {
	return Command{Name: name, Node: node}
}

// Span implements a convenience passthrough so callers can render a
// location.Span for a Command without unwrapping Node themselves.
func (c Command) Span() location.Span {
	if c.Node == nil {
		return location.Span{}
	}
	return c.Node.Span()
}
