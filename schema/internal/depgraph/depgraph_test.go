package depgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gelflux/sdlc/diag"
	"github.com/gelflux/sdlc/location"
	"github.com/gelflux/sdlc/schema"
	"github.com/gelflux/sdlc/schema/expr"
	"github.com/gelflux/sdlc/schema/internal/depgraph"
	"github.com/gelflux/sdlc/schema/internal/inherit"
	"github.com/gelflux/sdlc/schema/internal/layout"
)

func sp() location.Span { return location.Point("m::main", 1, 1) }

func compileLayout(t *testing.T, batch layout.Batch) *schema.Context {
	t.Helper()
	ctx := schema.NewContext(nil, nil)
	require.Nil(t, layout.Trace(ctx, batch))
	require.Nil(t, inherit.ComputeAncestors(ctx))
	inherit.Merge(ctx)
	return ctx
}

func TestBuildForwardReferenceBetweenObjectTypes(t *testing.T) {
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
	batch := layout.Batch{"m": {book, author}}

	ctx := compileLayout(t, batch)
	require.Nil(t, depgraph.Build(ctx, batch))

	authorName := schema.Name{Module: "m", Name: "Author"}
	bookName := schema.Name{Module: "m", Name: "Book"}
	assert.Contains(t, ctx.DDLGraph, authorName)
	assert.Contains(t, ctx.DDLGraph, bookName)
	assert.Empty(t, ctx.DDLGraph[authorName].Deps)
	assert.Empty(t, ctx.DDLGraph[bookName].Deps)
}

func TestBuildNestedPointerDependsOnEnclosingType(t *testing.T) {
	book := &schema.CreateObjectType{
		Name: "Book",
		Commands: []schema.ASTNode{
			&schema.CreateConcretePointer{Name: "title"},
		},
	}
	batch := layout.Batch{"m": {book}}

	ctx := compileLayout(t, batch)
	require.Nil(t, depgraph.Build(ctx, batch))

	bookName := schema.Name{Module: "m", Name: "Book"}
	ptrName := schema.PointerID(bookName, "title")
	require.Contains(t, ctx.DDLGraph, ptrName)
	assert.True(t, ctx.DDLGraph[ptrName].Deps[bookName])
}

func TestBuildScalarConstraintLoopControlSuppressesSelfDep(t *testing.T) {
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
	batch := layout.Batch{"m": {exprDef, smallInt}}

	ctx := compileLayout(t, batch)
	require.Nil(t, depgraph.Build(ctx, batch))

	scalarName := schema.Name{Module: "m", Name: "SmallInt"}
	constraintName := schema.ConcreteConstraintID(scalarName, "expression",
		schema.ConstraintSignature(nil,
			expr.NewBinaryOp(sp(), "<", expr.NewSubject(sp(), "__subject__"), expr.NewLiteral(sp(), 100)), nil))

	require.Contains(t, ctx.DDLGraph, constraintName)
	assert.True(t, ctx.DDLGraph[constraintName].Deps[scalarName], "constraint must still depend on its enclosing scalar via the dep stack")
	assert.True(t, ctx.DDLGraph[scalarName].LoopControl[constraintName])
}

func TestBuildDuplicateDeclarationIsRejectedDuringLayout(t *testing.T) {
	a := &schema.CreateObjectType{Name: "Book"}
	b := &schema.CreateObjectType{Name: "Book"}
	batch := layout.Batch{"m": {a, b}}

	ctx := schema.NewContext(nil, nil)
	err := layout.Trace(ctx, batch)
	require.NotNil(t, err)
	assert.Equal(t, diag.E_DuplicateDeclaration, err.Code())
}
