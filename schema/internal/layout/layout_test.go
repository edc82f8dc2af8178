package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gelflux/sdlc/diag"
	"github.com/gelflux/sdlc/location"
	"github.com/gelflux/sdlc/schema"
	"github.com/gelflux/sdlc/schema/internal/layout"
)

func TestTraceRegistersObjectTypeAndResolvesForwardBase(t *testing.T) {
	child := &schema.CreateObjectType{
		Name:  "Person",
		Bases: []schema.TypeRefNode{*schema.NewTypeRefNode(location.Span{}, "", "Named")},
	}
	named := &schema.CreateObjectType{Name: "Named", Abstract: true}
	batch := layout.Batch{"m": {child, named}}

	ctx := schema.NewContext(nil, nil)
	require.Nil(t, layout.Trace(ctx, batch))

	personName := schema.Name{Module: "m", Name: "Person"}
	namedName := schema.Name{Module: "m", Name: "Named"}
	entry := ctx.Parents[personName]
	require.NotNil(t, entry)
	assert.Contains(t, entry.Deps, namedName)
}

func TestTraceRejectsDuplicateTopLevelName(t *testing.T) {
	a := &schema.CreateObjectType{Name: "Book"}
	b := &schema.CreateScalarType{Name: "Book"}
	batch := layout.Batch{"m": {a, b}}

	ctx := schema.NewContext(nil, nil)
	err := layout.Trace(ctx, batch)
	require.NotNil(t, err)
	assert.Equal(t, diag.E_DuplicateDeclaration, err.Code())
}

func TestTraceRejectsAnytypeBase(t *testing.T) {
	bad := &schema.CreateObjectType{
		Name:  "Weird",
		Bases: []schema.TypeRefNode{*schema.NewTypeRefNode(location.Span{}, "", "anytype")},
	}
	batch := layout.Batch{"m": {bad}}

	ctx := schema.NewContext(nil, nil)
	err := layout.Trace(ctx, batch)
	require.NotNil(t, err)
	assert.Equal(t, diag.E_PseudoTypeInUserSchema, err.Code())
}

func TestTraceRegistersNestedPointer(t *testing.T) {
	book := &schema.CreateObjectType{
		Name: "Book",
		Commands: []schema.ASTNode{
			&schema.CreateConcretePointer{Name: "title"},
		},
	}
	batch := layout.Batch{"m": {book}}

	ctx := schema.NewContext(nil, nil)
	require.Nil(t, layout.Trace(ctx, batch))

	bookName := schema.Name{Module: "m", Name: "Book"}
	ptrName := schema.PointerID(bookName, "title")
	assert.Contains(t, ctx.Objects, ptrName)

	obj := ctx.Objects[bookName].(*schema.ObjectType)
	assert.Contains(t, obj.OwnPointers, "title")
}
