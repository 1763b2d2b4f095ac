package ir

import "iter"

// Walk returns a depth-first traversal over every node in b in definition
// order. For each node, the traversal first recurses into the node's
// nested blocks, then yields the node itself.
//
// The traversal tolerates in-place rewriting: the successor link is
// captured before a node is yielded and destroyed nodes are skipped, so a
// visitor may destroy the node it was handed, or a node the cursor has not
// reached yet, without restarting the walk. Nodes inserted before the
// cursor are not revisited.
func (b *Block) Walk() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		b.walk(yield)
	}
}

func (b *Block) walk(yield func(*Node) bool) bool {
	for n := b.first; n != nil; {
		if n.destroyed {
			n = n.next
			continue
		}
		next := n.next // capture before yield: the visitor may mutate the list
		for _, sub := range n.blocks {
			if !sub.walk(yield) {
				return false
			}
		}
		if !yield(n) {
			return false
		}
		n = next
	}
	return true
}

// Nodes returns a snapshot of the nodes currently in b, without recursing
// into nested blocks.
func (b *Block) Nodes() []*Node {
	var nodes []*Node
	for n := b.first; n != nil; n = n.next {
		nodes = append(nodes, n)
	}
	return nodes
}
