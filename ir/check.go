package ir

import (
	"github.com/pkg/errors"
)

// Check verifies the structural invariants of g and returns the first
// violation found, or nil if the graph is consistent.
//
// Checked invariants:
//   - every node input appears exactly once in that value's use list, and
//     every use record points back at a live node whose input slot holds
//     the value
//   - every value's defining node owns it at the recorded output offset
//   - node order is a valid topological order: a value is defined in the
//     same or an enclosing scope before any node that uses it
//   - no destroyed node remains linked into a block
//
// Rewrite passes assume these invariants; tests run Check after every
// mutation to catch graph corruption early.
func Check(g *Graph) error {
	if g == nil {
		return errors.New("graph is nil")
	}
	c := &checker{defined: make(map[*Value]bool)}
	return c.block(g.block)
}

type checker struct {
	defined map[*Value]bool
}

func (c *checker) block(b *Block) error {
	var scope []*Value
	defer func() {
		for _, v := range scope {
			delete(c.defined, v)
		}
	}()

	for i, in := range b.param.outputs {
		if err := c.checkOutput(b.param, i, in); err != nil {
			return err
		}
		c.defined[in] = true
		scope = append(scope, in)
	}

	for n := b.first; n != nil; n = n.next {
		if n.destroyed {
			return errors.Errorf("destroyed node %s is still linked into a block", n.kind)
		}
		if n.block != b {
			return errors.Errorf("node %s is linked into a block it does not record as its owner", n.kind)
		}
		if err := c.checkInputs(n); err != nil {
			return err
		}
		for _, sub := range n.blocks {
			if sub.owner != n {
				return errors.Errorf("nested block of %s does not record it as owner", n.kind)
			}
			if err := c.block(sub); err != nil {
				return err
			}
		}
		for i, out := range n.outputs {
			if err := c.checkOutput(n, i, out); err != nil {
				return err
			}
			c.defined[out] = true
			scope = append(scope, out)
		}
	}

	return c.checkInputs(b.ret)
}

// checkInputs verifies n's inputs are defined in scope and that each is
// backed by exactly one matching use record.
func (c *checker) checkInputs(n *Node) error {
	for i, v := range n.inputs {
		if v == nil {
			return errors.Errorf("input %d of %s is nil", i, n.kind)
		}
		if !c.defined[v] {
			return errors.Errorf("input %d of %s is used before its definition", i, n.kind)
		}
		matches := 0
		for _, u := range v.uses {
			if u.User == n && u.Offset == i {
				matches++
			}
		}
		if matches != 1 {
			return errors.Errorf("input %d of %s has %d matching use records, want 1", i, n.kind, matches)
		}
	}
	return nil
}

// checkOutput verifies the definition record of out and that every use
// record points back at a live consumer holding out.
func (c *checker) checkOutput(n *Node, i int, out *Value) error {
	if out.node != n || out.offset != i {
		return errors.Errorf("output %d of %s has an inconsistent definition record", i, n.kind)
	}
	for _, u := range out.uses {
		if u.User == nil {
			return errors.Errorf("output %d of %s has a use record with a nil user", i, n.kind)
		}
		if u.User.destroyed {
			return errors.Errorf("output %d of %s is still used by destroyed node %s", i, n.kind, u.User.kind)
		}
		if u.Offset < 0 || u.Offset >= len(u.User.inputs) || u.User.inputs[u.Offset] != out {
			return errors.Errorf("output %d of %s has a stale use record for %s slot %d", i, n.kind, u.User.kind, u.Offset)
		}
	}
	return nil
}
