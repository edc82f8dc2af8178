package inherit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gelflux/sdlc/diag"
	"github.com/gelflux/sdlc/schema"
	"github.com/gelflux/sdlc/schema/internal/inherit"
)

func setupNamedPerson(t *testing.T) (*schema.Context, schema.Name, schema.Name) {
	t.Helper()
	ctx := schema.NewContext(nil, nil)

	named := schema.Name{Module: "m", Name: "Named"}
	namedObj := schema.NewObjectType(named, true)
	namePtr := schema.NewPointer(schema.PointerID(named, "name"), schema.PropertyCategory, named)
	namePtr.Target = schema.Name{Module: "std", Name: "str"}
	namedObj.OwnPointers["name"] = namePtr
	ctx.Objects[named] = namedObj
	ctx.Parents[named] = &schema.InheritanceEntry{Item: namedObj}

	person := schema.Name{Module: "m", Name: "Person"}
	personObj := schema.NewObjectType(person, false)
	ctx.Objects[person] = personObj
	ctx.Parents[person] = &schema.InheritanceEntry{Item: personObj, Deps: []schema.Name{named}, Merge: []schema.Name{named}}

	return ctx, named, person
}

func TestMergeCopiesParentPointerIntoChild(t *testing.T) {
	ctx, _, person := setupNamedPerson(t)
	require.NoError(t, toErr(inherit.ComputeAncestors(ctx)))

	inherit.Merge(ctx)

	personObj := ctx.Objects[person].(*schema.ObjectType)
	require.Contains(t, personObj.OwnPointers, "name")
	assert.True(t, personObj.OwnPointers["name"].Inherited)
	assert.Equal(t, schema.Name{Module: "std", Name: "str"}, personObj.OwnPointers["name"].Target)
}

func TestMergeIsIdempotent(t *testing.T) {
	ctx, _, person := setupNamedPerson(t)
	require.NoError(t, toErr(inherit.ComputeAncestors(ctx)))

	inherit.Merge(ctx)
	personObj := ctx.Objects[person].(*schema.ObjectType)
	first := personObj.OwnPointers["name"]

	inherit.Merge(ctx)
	assert.Same(t, first, personObj.OwnPointers["name"])
}

func TestMergeNeverOverwritesExplicitChildPointer(t *testing.T) {
	ctx, named, person := setupNamedPerson(t)
	personObj := ctx.Objects[person].(*schema.ObjectType)
	explicitName := schema.NewPointer(schema.PointerID(person, "name"), schema.PropertyCategory, person)
	explicitName.Target = schema.Name{Module: "std", Name: "bytes"}
	personObj.OwnPointers["name"] = explicitName

	require.NoError(t, toErr(inherit.ComputeAncestors(ctx)))
	inherit.Merge(ctx)

	assert.Equal(t, schema.Name{Module: "std", Name: "bytes"}, personObj.OwnPointers["name"].Target)
	assert.False(t, personObj.OwnPointers["name"].Inherited)
	_ = named
}

func TestComputeAncestorsDetectsSelfCycle(t *testing.T) {
	ctx := schema.NewContext(nil, nil)
	a := schema.Name{Module: "m", Name: "A"}
	objA := schema.NewObjectType(a, false)
	ctx.Objects[a] = objA
	ctx.Parents[a] = &schema.InheritanceEntry{Item: objA, Deps: []schema.Name{a}, Merge: []schema.Name{a}}

	err := inherit.ComputeAncestors(ctx)
	require.NotNil(t, err)
	assert.Equal(t, diag.E_RecursiveDefinition, err.Code())
}

func toErr(err *diag.Error) error {
	if err == nil {
		return nil
	}
	return err
}
