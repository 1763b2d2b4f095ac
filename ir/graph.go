package ir

import (
	"fmt"
	"sort"
)

// internalAssert aborts the pipeline on a programming-invariant violation.
// Continuing with a corrupted graph would silently produce an invalid
// export, so there is no recoverable-error channel here.
func internalAssert(cond bool, format string, args ...any) {
	if !cond {
		panic("ir: invariant violated: " + fmt.Sprintf(format, args...))
	}
}

// Graph is the root of one traced program: a root block plus its formal
// inputs. The graph transitively owns every block, node, and value
// reachable from it; rewrites mutate this owned structure in place.
type Graph struct {
	block *Block
}

// NewGraph returns an empty graph with no inputs and no nodes.
func NewGraph() *Graph {
	g := &Graph{}
	g.block = newBlock(g, nil)
	return g
}

// Block returns the graph's root block.
func (g *Graph) Block() *Block { return g.block }

// AddInput adds a formal input of type t to the graph.
func (g *Graph) AddInput(t Type) *Value { return g.block.AddInput(t) }

// Inputs returns the graph's formal inputs.
func (g *Graph) Inputs() []*Value { return g.block.Inputs() }

// RegisterOutput appends v to the graph's outputs.
func (g *Graph) RegisterOutput(v *Value) { g.block.RegisterOutput(v) }

// Outputs returns the graph's outputs.
func (g *Graph) Outputs() []*Value { return g.block.Outputs() }

// Create builds a detached node of the given kind with outs fresh untyped
// outputs. The node belongs to no block until inserted or appended.
func (g *Graph) Create(kind OpKind, outs int) *Node {
	n := &Node{kind: kind, graph: g}
	for i := 0; i < outs; i++ {
		n.newOutput()
	}
	return n
}

// Block is an ordered, mutable sequence of nodes, scoped under an owning
// control-flow node or the graph itself. Block inputs and outputs are
// anchored on hidden param/return boundary nodes, so redirecting a value's
// uses also retargets block outputs.
type Block struct {
	graph *Graph
	owner *Node
	first *Node
	last  *Node
	param *Node
	ret   *Node
}

func newBlock(g *Graph, owner *Node) *Block {
	b := &Block{graph: g, owner: owner}
	b.param = &Node{kind: primParam, graph: g, block: b}
	b.ret = &Node{kind: primReturn, graph: g, block: b}
	return b
}

// Graph returns the graph that owns b.
func (b *Block) Graph() *Graph { return b.graph }

// Owner returns the control-flow node b is nested under, or nil for the
// graph's root block.
func (b *Block) Owner() *Node { return b.owner }

// AddInput adds a block input of type t.
func (b *Block) AddInput(t Type) *Value {
	v := b.param.newOutput()
	v.typ = t
	return v
}

// Inputs returns the block's inputs.
func (b *Block) Inputs() []*Value { return b.param.outputs }

// RegisterOutput appends v to the block's outputs.
func (b *Block) RegisterOutput(v *Value) { b.ret.AddInput(v) }

// Outputs returns the block's outputs.
func (b *Block) Outputs() []*Value { return b.ret.inputs }

// Append places n at the end of b's node list.
func (b *Block) Append(n *Node) *Node {
	internalAssert(!n.destroyed, "cannot append destroyed node %s", n.kind)
	internalAssert(n.block == nil, "node %s is already in a block", n.kind)
	internalAssert(n.graph == b.graph, "node %s belongs to a different graph", n.kind)
	n.block = b
	n.prev = b.last
	n.next = nil
	if b.last != nil {
		b.last.next = n
	} else {
		b.first = n
	}
	b.last = n
	return n
}

// remove unlinks n from b. The forward link is kept so a traversal cursor
// parked on n can still advance past it.
func (b *Block) remove(n *Node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		b.first = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		b.last = n.prev
	}
	n.prev = nil
	n.block = nil
}

// Node is one operation instance: an operator kind, ordered input values,
// ordered owned output values, named literal attributes, and zero or more
// nested blocks for control-flow operators.
type Node struct {
	kind      OpKind
	graph     *Graph
	block     *Block
	prev      *Node
	next      *Node
	inputs    []*Value
	outputs   []*Value
	blocks    []*Block
	attrs     map[string]Attribute
	destroyed bool
}

// Kind returns the node's operator kind.
func (n *Node) Kind() OpKind { return n.kind }

// Graph returns the graph that owns n.
func (n *Node) Graph() *Graph { return n.graph }

// Block returns the block n is currently placed in, or nil if detached.
func (n *Node) Block() *Block { return n.block }

// Destroyed reports whether n has been destroyed.
func (n *Node) Destroyed() bool { return n.destroyed }

// Inputs returns the node's input values in order.
func (n *Node) Inputs() []*Value { return n.inputs }

// Input returns the i-th input value.
func (n *Node) Input(i int) *Value {
	internalAssert(i >= 0 && i < len(n.inputs), "input %d out of range for %s with %d inputs", i, n.kind, len(n.inputs))
	return n.inputs[i]
}

// Outputs returns the node's output values in order.
func (n *Node) Outputs() []*Value { return n.outputs }

// Output returns the i-th output value.
func (n *Node) Output(i int) *Value {
	internalAssert(i >= 0 && i < len(n.outputs), "output %d out of range for %s with %d outputs", i, n.kind, len(n.outputs))
	return n.outputs[i]
}

// AddInput appends v as the last input of n and records the use.
func (n *Node) AddInput(v *Value) {
	internalAssert(v != nil, "nil input added to %s", n.kind)
	internalAssert(!n.destroyed, "input added to destroyed node %s", n.kind)
	n.inputs = append(n.inputs, v)
	v.uses = append(v.uses, Use{User: n, Offset: len(n.inputs) - 1})
}

// RemoveAllInputs detaches every input of n, dropping the matching use
// records from each input value.
func (n *Node) RemoveAllInputs() {
	for i, v := range n.inputs {
		v.dropUse(n, i)
	}
	n.inputs = nil
}

func (n *Node) newOutput() *Value {
	v := &Value{node: n, offset: len(n.outputs)}
	n.outputs = append(n.outputs, v)
	return v
}

// AddOutput appends a fresh output of type t to n.
func (n *Node) AddOutput(t Type) *Value {
	internalAssert(!n.destroyed, "output added to destroyed node %s", n.kind)
	v := n.newOutput()
	v.typ = t
	return v
}

// EraseOutput removes the i-th output, which must have no remaining uses.
// Later outputs shift down one position.
func (n *Node) EraseOutput(i int) {
	internalAssert(i >= 0 && i < len(n.outputs), "output %d out of range for %s with %d outputs", i, n.kind, len(n.outputs))
	internalAssert(len(n.outputs[i].uses) == 0, "cannot erase output %d of %s: %d uses remain", i, n.kind, len(n.outputs[i].uses))
	n.outputs = append(n.outputs[:i], n.outputs[i+1:]...)
	for j := i; j < len(n.outputs); j++ {
		n.outputs[j].offset = j
	}
}

// AddBlock appends a fresh nested block to n.
func (n *Node) AddBlock() *Block {
	b := newBlock(n.graph, n)
	n.blocks = append(n.blocks, b)
	return b
}

// Blocks returns the node's nested blocks in order.
func (n *Node) Blocks() []*Block { return n.blocks }

// InsertBefore places the detached node n immediately before pos.
func (n *Node) InsertBefore(pos *Node) *Node {
	internalAssert(!n.destroyed, "cannot insert destroyed node %s", n.kind)
	internalAssert(n.block == nil, "node %s is already in a block", n.kind)
	internalAssert(pos.block != nil, "insertion point %s is not in a block", pos.kind)
	b := pos.block
	n.block = b
	n.next = pos
	n.prev = pos.prev
	if pos.prev != nil {
		pos.prev.next = n
	} else {
		b.first = n
	}
	pos.prev = n
	return n
}

// InsertAfter places the detached node n immediately after pos.
func (n *Node) InsertAfter(pos *Node) *Node {
	internalAssert(!n.destroyed, "cannot insert destroyed node %s", n.kind)
	internalAssert(n.block == nil, "node %s is already in a block", n.kind)
	internalAssert(pos.block != nil, "insertion point %s is not in a block", pos.kind)
	b := pos.block
	n.block = b
	n.prev = pos
	n.next = pos.next
	if pos.next != nil {
		pos.next.prev = n
	} else {
		b.last = n
	}
	pos.next = n
	return n
}

// ReplaceAllUsesWith redirects every use of each output of n to the
// corresponding output of other. Both nodes must have the same output count.
func (n *Node) ReplaceAllUsesWith(other *Node) {
	internalAssert(len(n.outputs) == len(other.outputs),
		"output count mismatch: %s has %d, %s has %d", n.kind, len(n.outputs), other.kind, len(other.outputs))
	for i, out := range n.outputs {
		out.ReplaceAllUsesWith(other.outputs[i])
	}
}

// Destroy unlinks n from its block and marks it dead. Every output must
// have zero remaining uses; remaining inputs are detached first.
func (n *Node) Destroy() {
	internalAssert(!n.destroyed, "double destroy of %s", n.kind)
	for i, out := range n.outputs {
		internalAssert(len(out.uses) == 0, "cannot destroy %s: output %d has %d uses", n.kind, i, len(out.uses))
	}
	n.RemoveAllInputs()
	if n.block != nil {
		n.block.remove(n)
	}
	n.destroyed = true
}

func (n *Node) setAttr(name string, a Attribute) {
	internalAssert(!n.destroyed, "attribute set on destroyed node %s", n.kind)
	if n.attrs == nil {
		n.attrs = make(map[string]Attribute, 2)
	}
	n.attrs[name] = a
}

// SetInt attaches an integer attribute under name.
func (n *Node) SetInt(name string, v int64) { n.setAttr(name, IntAttr(v)) }

// Int returns the integer attribute stored under name.
func (n *Node) Int(name string) (int64, bool) {
	a, ok := n.attrs[name].(IntAttr)
	return int64(a), ok
}

// SetIntList attaches an integer-list attribute under name.
func (n *Node) SetIntList(name string, v []int64) { n.setAttr(name, IntListAttr(v)) }

// IntList returns the integer-list attribute stored under name.
func (n *Node) IntList(name string) ([]int64, bool) {
	a, ok := n.attrs[name].(IntListAttr)
	return []int64(a), ok
}

// SetTensor attaches a tensor-literal attribute under name.
func (n *Node) SetTensor(name string, t *Tensor) { n.setAttr(name, TensorAttr{Value: t}) }

// Tensor returns the tensor-literal attribute stored under name.
func (n *Node) Tensor(name string) (*Tensor, bool) {
	a, ok := n.attrs[name].(TensorAttr)
	if !ok {
		return nil, false
	}
	return a.Value, true
}

// AttrNames returns the node's attribute names in sorted order.
func (n *Node) AttrNames() []string {
	if len(n.attrs) == 0 {
		return nil
	}
	names := make([]string, 0, len(n.attrs))
	for name := range n.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Value is a single static-assignment result: it has exactly one defining
// node and a use record for every (node, slot) that consumes it. Use
// records are maintained only by the mutation primitives on Node and
// Value, never piecemeal by callers.
type Value struct {
	node   *Node
	offset int
	typ    Type
	uses   []Use
}

// Use records one consuming input slot of a value.
type Use struct {
	User   *Node
	Offset int
}

// Node returns the value's defining node.
func (v *Value) Node() *Node { return v.node }

// Offset returns the value's position among its defining node's outputs.
func (v *Value) Offset() int { return v.offset }

// Type returns the value's type, or nil when no type information exists.
func (v *Value) Type() Type { return v.typ }

// SetType sets the value's type.
func (v *Value) SetType(t Type) { v.typ = t }

// Uses returns the value's use records. The returned slice is owned by the
// value and must not be mutated.
func (v *Value) Uses() []Use { return v.uses }

// CopyMetadata copies the type facts of from onto v.
func (v *Value) CopyMetadata(from *Value) { v.typ = from.typ }

// ReplaceAllUsesWith redirects every use of v to other in one transaction.
// Afterwards v has zero uses.
func (v *Value) ReplaceAllUsesWith(other *Value) {
	if v == other {
		return
	}
	for _, u := range v.uses {
		u.User.inputs[u.Offset] = other
		other.uses = append(other.uses, u)
	}
	v.uses = nil
}

// dropUse removes the use record for slot offset of user.
func (v *Value) dropUse(user *Node, offset int) {
	for i, u := range v.uses {
		if u.User == user && u.Offset == offset {
			v.uses = append(v.uses[:i], v.uses[i+1:]...)
			return
		}
	}
	internalAssert(false, "use of a %s output by %s at slot %d is not recorded", v.node.kind, user.kind, offset)
}
