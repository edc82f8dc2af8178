package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gelflux/sdlc/schema"
)

func TestNameString(t *testing.T) {
	n := schema.Name{Module: "m::sub", Name: "Book"}
	assert.Equal(t, "m::sub::Book", n.String())
}

func TestModulePrefixes(t *testing.T) {
	assert.Equal(t, []string{"a", "a::b", "a::b::c"}, schema.ModulePrefixes("a::b::c"))
	assert.Nil(t, schema.ModulePrefixes(""))
}

func TestIsStdlib(t *testing.T) {
	assert.True(t, schema.IsStdlib("std"))
	assert.True(t, schema.IsStdlib("std::net"))
	assert.False(t, schema.IsStdlib("m"))
	assert.False(t, schema.IsStdlib("stdx"))
}

func TestPointerID(t *testing.T) {
	owner := schema.Name{Module: "m", Name: "Book"}
	got := schema.PointerID(owner, "author")
	assert.Equal(t, schema.Name{Module: "m", Name: "Book@author"}, got)
}

func TestConcreteConstraintIDAlwaysAppendsSignatureMarker(t *testing.T) {
	subject := schema.Name{Module: "m", Name: "SmallInt"}
	got := schema.ConcreteConstraintID(subject, "expression", "")
	assert.Equal(t, "SmallInt@expression@@", got.Name)
}

func TestConcreteIndexIDWithAndWithoutExcept(t *testing.T) {
	owner := schema.Name{Module: "m", Name: "Book"}
	withoutExcept := schema.ConcreteIndexID(owner, "idx0", ".title", "")
	assert.Equal(t, "Book@idx0@@(.title)", withoutExcept.Name)

	withExcept := schema.ConcreteIndexID(owner, "idx0", ".title", ".archived")
	assert.Equal(t, "Book@idx0@@(.title)/(.archived)", withExcept.Name)
}

func TestNameCompareIsLexicographic(t *testing.T) {
	a := schema.Name{Module: "m", Name: "A"}
	b := schema.Name{Module: "m", Name: "B"}
	assert.Negative(t, a.Compare(b))
	assert.Positive(t, b.Compare(a))
	assert.Zero(t, a.Compare(a))
}
