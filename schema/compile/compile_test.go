package compile_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gelflux/sdlc/diag"
	"github.com/gelflux/sdlc/location"
	"github.com/gelflux/sdlc/schema"
	"github.com/gelflux/sdlc/schema/compile"
	"github.com/gelflux/sdlc/schema/expr"
)

func readFixture(t *testing.T, name string) compile.Batch {
	t.Helper()
	data, err := os.ReadFile("../../testdata/" + name)
	require.NoError(t, err)
	batch, loadErr := compile.LoadFixture(data)
	require.NoError(t, loadErr)
	return batch
}

func TestCompileScenarioAFixtureFromJSONC(t *testing.T) {
	batch := readFixture(t, "scenario_a_forward_reference.jsonc")

	cmds, err := compile.Compile(nil, batch, nil)
	require.Nil(t, err)

	authorName := schema.Name{Module: "m", Name: "Author"}
	bookName := schema.Name{Module: "m", Name: "Book"}
	ptrName := schema.PointerID(bookName, "author")

	assert.Less(t, indexOfDecl(t, cmds, authorName), indexOfDecl(t, cmds, ptrName))
}

func TestCompileScenarioFFixtureFromJSONC(t *testing.T) {
	batch := readFixture(t, "scenario_f_pointer_inheritance.jsonc")

	cmds, err := compile.Compile(nil, batch, nil)
	require.Nil(t, err)

	namedName := schema.Name{Module: "m", Name: "Named"}
	personName := schema.Name{Module: "m", Name: "Person"}
	ownPtr := schema.PointerID(namedName, "name")
	inheritedPtr := schema.PointerID(personName, "name")

	found := map[schema.Name]bool{}
	for _, c := range cmds {
		found[c.Name] = true
	}
	assert.True(t, found[ownPtr])
	assert.False(t, found[inheritedPtr])
}

func sp() location.Span { return location.Point("m::main", 1, 1) }

func indexOfModule(t *testing.T, cmds []schema.Command, module string) int {
	t.Helper()
	for i, c := range cmds {
		if m, ok := c.Node.(*schema.CreateModule); ok && m.Module == module {
			return i
		}
	}
	t.Fatalf("no CreateModule %q in %v", module, cmds)
	return -1
}

func indexOfDecl(t *testing.T, cmds []schema.Command, name schema.Name) int {
	t.Helper()
	for i, c := range cmds {
		if c.Name == name {
			return i
		}
	}
	t.Fatalf("no command named %s in result", name)
	return -1
}

// Scenario A: forward reference between object types — Book declares a
// link to Author even though Author is declared after Book in document
// order; both must still come out, Author's CreateModule preceding
// both.
func TestCompileForwardReferenceBetweenObjectTypes(t *testing.T) {
	book := &schema.CreateObjectType{
		Name: "Book",
		Commands: []schema.ASTNode{
			&schema.CreateConcretePointer{
				Name:   "author",
				IsLink: true,
				Target: *schema.NewTypeRefNode(sp(), "", "Author"),
			},
		},
	}
	author := &schema.CreateObjectType{Name: "Author"}
	batch := compile.Batch{"m": {book, author}}

	cmds, err := compile.Compile(nil, batch, nil)
	require.Nil(t, err)

	bookName := schema.Name{Module: "m", Name: "Book"}
	authorName := schema.Name{Module: "m", Name: "Author"}
	moduleIdx := indexOfModule(t, cmds, "m")
	authorIdx := indexOfDecl(t, cmds, authorName)
	bookIdx := indexOfDecl(t, cmds, bookName)
	ptrIdx := indexOfDecl(t, cmds, schema.PointerID(bookName, "author"))

	assert.Less(t, moduleIdx, authorIdx)
	assert.Less(t, authorIdx, ptrIdx, "author must be emitted before the pointer referencing it")
	assert.Less(t, bookIdx, ptrIdx, "the enclosing object type precedes its own pointer")
}

// Scenario B: a concrete constraint applied to a scalar type referring
// to its own subject must not produce a cycle — loop_control
// suppresses the self-dependency while the constraint still orders
// after its enclosing scalar via the dep stack.
func TestCompileScalarConstraintDoesNotCycle(t *testing.T) {
	exprDef := &schema.CreateConstraint{Name: "expression"}
	smallInt := &schema.CreateScalarType{
		Name: "SmallInt",
		Commands: []schema.ASTNode{
			&schema.CreateConcreteConstraint{
				ConstraintName: "expression",
				SubjectExpr: expr.NewBinaryOp(sp(), "<",
					expr.NewSubject(sp(), "__subject__"),
					expr.NewLiteral(sp(), 100)),
			},
		},
	}
	batch := compile.Batch{"m": {exprDef, smallInt}}

	cmds, err := compile.Compile(nil, batch, nil)
	require.Nil(t, err)

	scalarName := schema.Name{Module: "m", Name: "SmallInt"}
	scalarIdx := indexOfDecl(t, cmds, scalarName)
	assert.GreaterOrEqual(t, scalarIdx, 0)
}

// Scenario C: an alias body referencing an object type closes
// structurally over that object type's pointer set, so the alias
// orders after every pointer the referenced type declares.
func TestCompileAliasClosesOverReferencedTypePointers(t *testing.T) {
	book := &schema.CreateObjectType{
		Name: "Book",
		Commands: []schema.ASTNode{
			&schema.CreateConcretePointer{Name: "title"},
		},
	}
	titles := &schema.CreateAlias{
		Name: "Titles",
		Body: expr.NewTypeRef(sp(), "", "Book"),
	}
	batch := compile.Batch{"m": {book, titles}}

	cmds, err := compile.Compile(nil, batch, nil)
	require.Nil(t, err)

	bookName := schema.Name{Module: "m", Name: "Book"}
	ptrName := schema.PointerID(bookName, "title")
	aliasName := schema.Name{Module: "m", Name: "Titles"}

	ptrIdx := indexOfDecl(t, cmds, ptrName)
	aliasIdx := indexOfDecl(t, cmds, aliasName)
	assert.Less(t, ptrIdx, aliasIdx, "alias must order after the pointer its body structurally depends on")
}

// Scenario D: two aliases referencing each other produce a cycle
// diagnostic.
func TestCompileDetectsCycleBetweenAliases(t *testing.T) {
	a := &schema.CreateAlias{Name: "A", Body: expr.NewTypeRef(sp(), "", "B")}
	b := &schema.CreateAlias{Name: "B", Body: expr.NewTypeRef(sp(), "", "A")}
	batch := compile.Batch{"m": {a, b}}

	_, err := compile.Compile(nil, batch, nil)
	require.NotNil(t, err)
	assert.Equal(t, diag.E_DefinitionCycle, err.Code())
}

// Scenario E: composing an enum scalar with a non-enum base is
// rejected.
func TestCompileRejectsEnumComposedWithOtherBase(t *testing.T) {
	base := &schema.CreateScalarType{Name: "Base"}
	enumBase := schema.NewTypeRefNode(sp(), "", "")
	enumBase.EnumValues = []string{"a", "b"}
	mixed := &schema.CreateScalarType{
		Name: "Mixed",
		Bases: []schema.TypeRefNode{
			*schema.NewTypeRefNode(sp(), "", "Base"),
			*enumBase,
		},
	}
	batch := compile.Batch{"m": {base, mixed}}

	_, err := compile.Compile(nil, batch, nil)
	require.NotNil(t, err)
	assert.Equal(t, diag.E_InvalidEnumComposition, err.Code())
}

// Scenario F: inherited pointers merge into the child's pointer set
// without producing their own emitted DDL command for the child — only
// the parent's own pointer command is emitted.
func TestCompilePointerInheritanceMergesWithoutDuplicateDDL(t *testing.T) {
	named := &schema.CreateObjectType{
		Name:     "Named",
		Abstract: true,
		Commands: []schema.ASTNode{
			&schema.CreateConcretePointer{Name: "name"},
		},
	}
	person := &schema.CreateObjectType{
		Name:  "Person",
		Bases: []schema.TypeRefNode{*schema.NewTypeRefNode(sp(), "", "Named")},
	}
	batch := compile.Batch{"m": {named, person}}

	cmds, err := compile.Compile(nil, batch, nil)
	require.Nil(t, err)

	namedName := schema.Name{Module: "m", Name: "Named"}
	personName := schema.Name{Module: "m", Name: "Person"}
	ownPtr := schema.PointerID(namedName, "name")
	inheritedPtr := schema.PointerID(personName, "name")

	foundOwn, foundInherited := false, false
	for _, c := range cmds {
		if c.Name == ownPtr {
			foundOwn = true
		}
		if c.Name == inheritedPtr {
			foundInherited = true
		}
	}
	assert.True(t, foundOwn, "the declaring type's own pointer command must be emitted")
	assert.False(t, foundInherited, "an inherited pointer with no own declaration must not get its own DDL command")
}

// Boundary: an empty batch emits nothing.
func TestCompileEmptyBatchEmitsNothing(t *testing.T) {
	cmds, err := compile.Compile(nil, compile.Batch{}, nil)
	require.Nil(t, err)
	assert.Empty(t, cmds)
}

// Boundary: a batch naming a module with no declarations still emits
// exactly one CreateModule.
func TestCompileEmptyModuleEmitsOneCreateModule(t *testing.T) {
	cmds, err := compile.Compile(nil, compile.Batch{"empty": {}}, nil)
	require.Nil(t, err)
	require.Len(t, cmds, 1)
	m, ok := cmds[0].Node.(*schema.CreateModule)
	require.True(t, ok)
	assert.Equal(t, "empty", m.Module)
}

// Boundary: a nested module path emits one CreateModule per dotted
// prefix, parent before child.
func TestCompileNestedModulePrefixesEmitInOrder(t *testing.T) {
	cmds, err := compile.Compile(nil, compile.Batch{"a::b::c": {}}, nil)
	require.Nil(t, err)
	require.Len(t, cmds, 3)

	var modules []string
	for _, c := range cmds {
		modules = append(modules, c.Node.(*schema.CreateModule).Module)
	}
	assert.Equal(t, []string{"a", "a::b", "a::b::c"}, modules)
}

// Boundary: declaring the same name twice in one module is rejected.
func TestCompileRejectsDuplicateDeclaration(t *testing.T) {
	a := &schema.CreateObjectType{Name: "Book"}
	b := &schema.CreateObjectType{Name: "Book"}
	batch := compile.Batch{"m": {a, b}}

	_, err := compile.Compile(nil, batch, nil)
	require.NotNil(t, err)
	assert.Equal(t, diag.E_DuplicateDeclaration, err.Code())
}

// Invariant: compiling the same batch twice produces byte-identical
// command name ordering (determinism/idempotency).
func TestCompileIsDeterministic(t *testing.T) {
	book := &schema.CreateObjectType{Name: "Book"}
	author := &schema.CreateObjectType{Name: "Author"}
	batch := compile.Batch{"m": {book, author}}

	first, err1 := compile.Compile(nil, batch, nil)
	require.Nil(t, err1)
	second, err2 := compile.Compile(nil, batch, nil)
	require.Nil(t, err2)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Name, second[i].Name)
	}
}

// Invariant: document order of declarations within a module does not
// affect the resulting dependency order, only the dependency graph
// does.
func TestCompileIsDocumentOrderIndependent(t *testing.T) {
	book := &schema.CreateObjectType{Name: "Book"}
	author := &schema.CreateObjectType{Name: "Author"}

	forward, err1 := compile.Compile(nil, compile.Batch{"m": {book, author}}, nil)
	require.Nil(t, err1)
	reversed, err2 := compile.Compile(nil, compile.Batch{"m": {author, book}}, nil)
	require.Nil(t, err2)

	names := func(cmds []schema.Command) []schema.Name {
		out := make([]schema.Name, len(cmds))
		for i, c := range cmds {
			out[i] = c.Name
		}
		return out
	}
	assert.Equal(t, names(forward), names(reversed))
}
