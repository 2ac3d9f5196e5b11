package selmode

import (
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/kimod/kimod/internal/buffer"
	"github.com/kimod/kimod/internal/coord"
	"github.com/kimod/kimod/internal/selection"
)

// syntaxNodeMode implements the tree-aware SyntaxNode/SyntaxNodeFine
// modes of spec.md §4.2. SyntaxNode restricts traversal to named nodes;
// SyntaxNodeFine additionally visits anonymous (punctuation/keyword)
// nodes. Per spec.md §9's design note, this is the canonical shape —
// the legacy two-contracts-named-SyntaxTree variant the original
// carried is deliberately not reproduced.
type syntaxNodeMode struct {
	fine bool
}

// SyntaxNode visits only named tree-sitter nodes.
func SyntaxNode() selection.Engine { return syntaxNodeMode{fine: false} }

// SyntaxNodeFine additionally visits anonymous nodes.
func SyntaxNodeFine() selection.Engine { return syntaxNodeMode{fine: true} }

func (m syntaxNodeMode) Mode() selection.Mode {
	if m.fine {
		return selection.ModeSyntaxNodeFine
	}
	return selection.ModeSyntaxNode
}

func toByteRange(n sitter.Node) coord.ByteRange {
	return coord.ByteRange{Start: uint32(n.StartByte()), End: uint32(n.EndByte())}
}

func (m syntaxNodeMode) childCount(n sitter.Node) uint32 {
	if m.fine {
		return n.ChildCount()
	}
	return n.NamedChildCount()
}

func (m syntaxNodeMode) child(n sitter.Node, i uint32) sitter.Node {
	if m.fine {
		return n.Child(i)
	}
	return n.NamedChild(i)
}

func (m syntaxNodeMode) nextSibling(n sitter.Node) sitter.Node {
	if m.fine {
		return n.NextSibling()
	}
	return n.NextNamedSibling()
}

func (m syntaxNodeMode) prevSibling(n sitter.Node) sitter.Node {
	if m.fine {
		return n.PrevSibling()
	}
	return n.PrevNamedSibling()
}

// nonDegenerateParent climbs n's ancestors, skipping any zero-width
// degenerate node, per spec.md §4.2's "up is the tree parent (ignoring
// zero-width degeneracies)".
func (m syntaxNodeMode) nonDegenerateParent(n sitter.Node) (sitter.Node, bool) {
	for cur := n.Parent(); !cur.IsNull(); cur = cur.Parent() {
		if cur.EndByte() > cur.StartByte() {
			return cur, true
		}
	}
	return sitter.Node{}, false
}

func (m syntaxNodeMode) currentNode(p selection.Params) (sitter.Node, bool) {
	buf, ok := asBuffer(p)
	if !ok {
		return sitter.Node{}, false
	}
	sel := coord.CharIndexRange{Start: p.Cursor, End: p.Cursor}
	return buf.GetCurrentNode(sel, true)
}

func (m syntaxNodeMode) Current(p selection.Params, ifNotFound selection.IfCurrentNotFound) (coord.ByteRange, bool, error) {
	n, ok := m.currentNode(p)
	if !ok {
		return coord.ByteRange{}, false, nil
	}
	return toByteRange(n), true, nil
}

func (m syntaxNodeMode) Next(p selection.Params) (coord.ByteRange, bool, error) {
	n, ok := m.currentNode(p)
	if !ok {
		return coord.ByteRange{}, false, nil
	}
	sib := m.nextSibling(n)
	if sib.IsNull() {
		return coord.ByteRange{}, false, nil
	}
	return toByteRange(sib), true, nil
}

func (m syntaxNodeMode) Previous(p selection.Params) (coord.ByteRange, bool, error) {
	n, ok := m.currentNode(p)
	if !ok {
		return coord.ByteRange{}, false, nil
	}
	sib := m.prevSibling(n)
	if sib.IsNull() {
		return coord.ByteRange{}, false, nil
	}
	return toByteRange(sib), true, nil
}

func (m syntaxNodeMode) Up(p selection.Params) (coord.ByteRange, bool, error) {
	n, ok := m.currentNode(p)
	if !ok {
		return coord.ByteRange{}, false, nil
	}
	parent, ok := m.nonDegenerateParent(n)
	if !ok {
		return coord.ByteRange{}, false, nil
	}
	return toByteRange(parent), true, nil
}

// Down mirrors FirstChild: descending "into" a node from its parent.
func (m syntaxNodeMode) Down(p selection.Params) (coord.ByteRange, bool, error) {
	return m.FirstChild(p)
}

func (m syntaxNodeMode) Parent(p selection.Params) (coord.ByteRange, bool, error) {
	return m.Up(p)
}

func (m syntaxNodeMode) FirstChild(p selection.Params) (coord.ByteRange, bool, error) {
	n, ok := m.currentNode(p)
	if !ok {
		return coord.ByteRange{}, false, nil
	}
	if m.childCount(n) == 0 {
		return coord.ByteRange{}, false, nil
	}
	return toByteRange(m.child(n, 0)), true, nil
}

func (m syntaxNodeMode) First(p selection.Params) (coord.ByteRange, bool, error) {
	n, ok := m.currentNode(p)
	if !ok {
		return coord.ByteRange{}, false, nil
	}
	parent, ok := m.nonDegenerateParent(n)
	if !ok {
		return toByteRange(n), true, nil
	}
	if m.childCount(parent) == 0 {
		return toByteRange(parent), true, nil
	}
	return toByteRange(m.child(parent, 0)), true, nil
}

func (m syntaxNodeMode) Last(p selection.Params) (coord.ByteRange, bool, error) {
	n, ok := m.currentNode(p)
	if !ok {
		return coord.ByteRange{}, false, nil
	}
	parent, ok := m.nonDegenerateParent(n)
	if !ok {
		return toByteRange(n), true, nil
	}
	count := m.childCount(parent)
	if count == 0 {
		return toByteRange(parent), true, nil
	}
	return toByteRange(m.child(parent, count-1)), true, nil
}

func (m syntaxNodeMode) ToIndex(p selection.Params, idx int) (coord.ByteRange, bool, error) {
	n, ok := m.currentNode(p)
	if !ok {
		return coord.ByteRange{}, false, nil
	}
	parent, ok := m.nonDegenerateParent(n)
	if !ok {
		return coord.ByteRange{}, false, nil
	}
	count := int(m.childCount(parent))
	if count == 0 {
		return coord.ByteRange{}, false, nil
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= count {
		idx = count - 1
	}
	return toByteRange(m.child(parent, uint32(idx))), true, nil
}
