package undo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func edit(fwd, inv string) OldNew[string] { return OldNew[string]{Forward: fwd, Inverse: inv} }

func TestApplyUndoRedoLinear(t *testing.T) {
	tree := New[string]()

	n1 := tree.Apply(edit("insert a", "delete a"))
	n2 := tree.Apply(edit("insert b", "delete b"))
	assert.Equal(t, n2, tree.Current())

	inv, ok := tree.Undo()
	require.True(t, ok)
	assert.Equal(t, "delete b", inv)
	assert.Equal(t, n1, tree.Current())

	fwd, ok := tree.Redo()
	require.True(t, ok)
	assert.Equal(t, "insert b", fwd)
	assert.Equal(t, n2, tree.Current())
}

func TestUndoAtRootReportsFalse(t *testing.T) {
	tree := New[string]()
	_, ok := tree.Undo()
	assert.False(t, ok)
}

func TestRedoAtLeafReportsFalse(t *testing.T) {
	tree := New[string]()
	tree.Apply(edit("a", "-a"))
	_, ok := tree.Redo()
	assert.False(t, ok)
}

func TestApplyAfterUndoBranches(t *testing.T) {
	tree := New[string]()
	tree.Apply(edit("a", "-a"))
	_, ok := tree.Undo()
	require.True(t, ok)

	// A fresh edit from the root now forms a sibling branch rather than
	// overwriting the first child.
	branch := tree.Apply(edit("b", "-b"))
	assert.Equal(t, branch, tree.Current())
	assert.Len(t, tree.root.Children, 2)
}

func TestBranchHeadCycling(t *testing.T) {
	tree := New[string]()
	tree.Apply(edit("a", "-a"))
	tree.Undo()
	branchB := tree.Apply(edit("b", "-b"))

	prev, ok := tree.PrevBranchHead()
	require.True(t, ok)
	assert.Equal(t, tree.root.Children[0], prev)

	next, ok := tree.NextBranchHead()
	require.True(t, ok)
	assert.Equal(t, branchB, next)

	_, ok = tree.NextBranchHead()
	assert.False(t, ok)
}

func TestGoToAcrossBranchesViaLowestCommonAncestor(t *testing.T) {
	tree := New[string]()
	a := tree.Apply(edit("a", "-a"))
	tree.Undo()
	b := tree.Apply(edit("b", "-b"))
	c := tree.Apply(edit("c", "-c"))
	assert.Equal(t, c, tree.Current())

	// current = c (child of b, sibling of a under root); go to a.
	ops, err := tree.GoTo(a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"-c", "-b", "a"}, ops)
	assert.Equal(t, a, tree.Current())
}

func TestGoToSameNodeIsNoOp(t *testing.T) {
	tree := New[string]()
	n := tree.Apply(edit("a", "-a"))
	ops, err := tree.GoTo(n.ID)
	require.NoError(t, err)
	assert.Nil(t, ops)
}

func TestGoToUnknownNodeErrors(t *testing.T) {
	tree := New[string]()
	_, err := tree.GoTo(999)
	var unknown *ErrUnknownNode
	assert.ErrorAs(t, err, &unknown)
}

func TestGoToFromRootReachesTargetOnOtherBranch(t *testing.T) {
	tree := New[string]()
	tree.Apply(edit("a", "-a"))
	tree.Undo()
	tree.Apply(edit("b", "-b"))
	c := tree.Apply(edit("c", "-c"))

	tree.Undo()
	tree.Undo() // back at root
	_, err := tree.GoTo(c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, tree.Current())
}
