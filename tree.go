package huf

import (
	"bytes"
	"container/heap"
	"fmt"
	"io"

	"github.com/chronos-tachyon/assert"
)

// Node is a node of a Huffman tree.
//
// A leaf carries a literal or EndOfStream Symbol and that symbol's count.  An
// internal node carries Internal, the sum of its children's counts, and two
// children.  The only exception is the root of a tree built from a single
// symbol, whose One child is nil (see BuildTree).
//
// Each Node is owned by exactly one parent, or by the caller for the root.
type Node struct {
	Symbol Symbol
	Count  uint64
	Zero   *Node
	One    *Node
}

// IsLeaf returns true if this Node carries a codeable Symbol.
func (n *Node) IsLeaf() bool {
	return n.Symbol != Internal
}

// Release dismantles the tree rooted at this Node, children before parents,
// and returns the number of nodes released.  The tree must not be used
// afterward.
func (n *Node) Release() int {
	if n == nil {
		return 0
	}
	released := n.Zero.Release() + n.One.Release()
	*n = Node{Symbol: Internal}
	return released + 1
}

// BuildTree builds a Huffman tree from the given FrequencyMap.
//
// The two nodes with the lowest counts are merged repeatedly; the first one
// removed becomes the Zero child and the second one the One child.  Equal
// counts are ordered deterministically: leaves before internal nodes, leaves
// by ascending Symbol, and internal nodes by age, oldest first.
//
// A FrequencyMap with a single entry yields an internal root with the leaf
// as its Zero child and no One child, giving that symbol the code "0".
//
func BuildTree(fm *FrequencyMap) (*Node, error) {
	if err := fm.Validate(); err != nil {
		return nil, err
	}

	// Step 1: build a minheap of leaves.

	keys := fm.Keys()
	h := nodeHeap{list: make([]heapItem, 0, len(keys))}
	for _, sym := range keys {
		h.list = append(h.list, heapItem{
			node:  &Node{Symbol: sym, Count: fm.Get(sym)},
			order: uint32(sym),
		})
	}
	h.Init()

	if h.Len() == 1 {
		leaf := heap.Pop(&h).(heapItem).node
		return &Node{Symbol: Internal, Count: leaf.Count, Zero: leaf}, nil
	}

	// Step 2: merge the two lowest-count nodes until only the root remains.
	// Internal nodes are ordered after every leaf (whose order is at most
	// EndOfStream) and among themselves by creation.

	nextOrder := uint32(EndOfStream) + 1
	for h.Len() > 1 {
		a := heap.Pop(&h).(heapItem)
		b := heap.Pop(&h).(heapItem)

		parent := &Node{
			Symbol: Internal,
			Count:  a.node.Count + b.node.Count,
			Zero:   a.node,
			One:    b.node,
		}
		heap.Push(&h, heapItem{node: parent, order: nextOrder})
		nextOrder++
	}

	root := heap.Pop(&h).(heapItem).node
	assert.Assertf(root.Count == fm.Total(), "root count %d != total %d", root.Count, fm.Total())
	return root, nil
}

// Dump writes a programmer-readable indented rendition of the tree rooted at
// this Node to the given writer.
func (n *Node) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	n.dump(&buf, 0)
	return buf.WriteTo(w)
}

func (n *Node) dump(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteByte('\t')
	}
	switch {
	case n == nil:
		buf.WriteString("nil\n")
	case n.IsLeaf():
		fmt.Fprintf(buf, "%v:%d\n", n.Symbol, n.Count)
	default:
		fmt.Fprintf(buf, "*:%d\n", n.Count)
		n.Zero.dump(buf, depth+1)
		n.One.dump(buf, depth+1)
	}
}

// type heapItem + type nodeHeap {{{

type heapItem struct {
	node  *Node
	order uint32
}

type nodeHeap struct {
	list []heapItem
}

func (h *nodeHeap) Init() {
	heap.Init(h)
}

func (h *nodeHeap) Len() int {
	return len(h.list)
}

func (h *nodeHeap) Swap(i, j int) {
	h.list[i], h.list[j] = h.list[j], h.list[i]
}

func (h *nodeHeap) Less(i, j int) bool {
	a, b := h.list[i], h.list[j]
	if a.node.Count != b.node.Count {
		return a.node.Count < b.node.Count
	}
	return a.order < b.order
}

func (h *nodeHeap) Push(x interface{}) {
	h.list = append(h.list, x.(heapItem))
}

func (h *nodeHeap) Pop() interface{} {
	last := uint(len(h.list)) - 1
	x := h.list[last]
	h.list[last] = heapItem{}
	h.list = h.list[:last]
	return x
}

var _ heap.Interface = (*nodeHeap)(nil)

// }}}
