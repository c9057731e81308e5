package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaji/cactus/objects"
)

func TestArena_DefineAndGetInSameScope(t *testing.T) {
	a := New()
	a.Define(Global, "x", objects.Number{Value: 1})

	v, ok := a.Get(Global, "x")
	require.True(t, ok)
	assert.Equal(t, objects.Number{Value: 1}, v)
}

func TestArena_GetUnknownNameFails(t *testing.T) {
	a := New()
	_, ok := a.Get(Global, "missing")
	assert.False(t, ok)
}

func TestArena_ChildSeesParentBinding(t *testing.T) {
	a := New()
	a.Define(Global, "x", objects.Number{Value: 1})

	child := a.PushChild(Global)
	v, ok := a.Get(child, "x")
	require.True(t, ok)
	assert.Equal(t, objects.Number{Value: 1}, v)
}

func TestArena_ChildShadowsParentWithoutMutatingIt(t *testing.T) {
	a := New()
	a.Define(Global, "x", objects.Number{Value: 1})

	child := a.PushChild(Global)
	a.Define(child, "x", objects.Number{Value: 2})

	childVal, _ := a.Get(child, "x")
	parentVal, _ := a.Get(Global, "x")
	assert.Equal(t, objects.Number{Value: 2}, childVal)
	assert.Equal(t, objects.Number{Value: 1}, parentVal)
}

func TestArena_AssignWalksUpToDefiningScope(t *testing.T) {
	a := New()
	a.Define(Global, "x", objects.Number{Value: 1})
	child := a.PushChild(Global)

	ok := a.Assign(child, "x", objects.Number{Value: 99})
	require.True(t, ok)

	v, _ := a.Get(Global, "x")
	assert.Equal(t, objects.Number{Value: 99}, v)
}

func TestArena_AssignUndefinedNameFails(t *testing.T) {
	a := New()
	ok := a.Assign(Global, "ghost", objects.Number{Value: 1})
	assert.False(t, ok)
}

func TestArena_PushChildThenTruncateRestoresLength(t *testing.T) {
	a := New()
	before := a.Len()

	child := a.PushChild(Global)
	a.Define(child, "tmp", objects.Nil{})
	assert.Greater(t, a.Len(), before)

	a.Truncate(before)
	assert.Equal(t, before, a.Len())

	// the truncated scope's ID is no longer valid to read from; a fresh
	// PushChild reuses the same ID, confirming the arena shrank for real.
	reused := a.PushChild(Global)
	assert.Equal(t, child, reused)
}

func TestArena_NestedBlocksRestoreArenaLengthOnEveryExit(t *testing.T) {
	a := New()
	base := a.Len()

	outer := a.PushChild(Global)
	inner := a.PushChild(outer)
	a.Define(inner, "y", objects.Boolean{Value: true})

	a.Truncate(base)
	assert.Equal(t, base, a.Len())
}
