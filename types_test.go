package wikiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineage(t *testing.T) {
	registry := newTestRegistry()

	assert.Equal(t, []TypeID{typeTreePage, typeWikiPage, typePage, Root}, registry.Lineage(typeTreePage))
	assert.Equal(t, []TypeID{Root}, registry.Lineage(Root))
	assert.Equal(t, []TypeID{"unknown"}, registry.Lineage("unknown"))
}

func TestLineageStopsOnCycle(t *testing.T) {
	registry := New()
	registry.DefineType("a", "b")
	registry.DefineType("b", "a")

	assert.Equal(t, []TypeID{"a", "b"}, registry.Lineage("a"))
}

func TestDefineTypeRedefinesParent(t *testing.T) {
	registry := newTestRegistry()
	registry.DefineType(typeTreePage, typePage)

	parent, ok := registry.Parent(typeTreePage)
	assert.True(t, ok)
	assert.Equal(t, typePage, parent)
}

func TestDefineTypeIgnoresRoot(t *testing.T) {
	registry := New()
	registry.DefineType(Root, "page")

	_, ok := registry.Parent(Root)
	assert.False(t, ok)
	assert.Equal(t, int64(0), registry.Metrics().DefinedTypes)
}

func TestIsA(t *testing.T) {
	registry := newTestRegistry()

	assert.True(t, registry.IsA(typeTreePage, typePage))
	assert.True(t, registry.IsA(typeTreePage, Root))
	assert.True(t, registry.IsA(typePage, typePage))
	assert.False(t, registry.IsA(typePage, typeTreePage))
}
