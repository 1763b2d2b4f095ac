package ir

import (
	"strconv"
	"strings"
)

// printer renders graphs in the textual dump form used by logging and
// golden tests. Values are numbered in first-appearance order, so two
// structurally identical graphs produce identical dumps regardless of the
// rewrite history that built them.
type printer struct {
	sb    strings.Builder
	names map[*Value]int
	next  int
}

// String renders a textual dump of the whole graph.
func (g *Graph) String() string {
	p := &printer{names: make(map[*Value]int)}
	p.sb.WriteString("graph(")
	for i, in := range g.Inputs() {
		if i > 0 {
			p.sb.WriteString(",\n      ")
		}
		p.sb.WriteString(p.typedName(in))
	}
	p.sb.WriteString("):\n")
	p.printBlockBody(g.block, 1)
	return p.sb.String()
}

func (p *printer) name(v *Value) string {
	id, ok := p.names[v]
	if !ok {
		id = p.next
		p.next++
		p.names[v] = id
	}
	return "%" + strconv.Itoa(id)
}

func (p *printer) typedName(v *Value) string {
	t := "?"
	if v.typ != nil {
		t = v.typ.String()
	}
	return p.name(v) + " : " + t
}

func (p *printer) printBlockBody(b *Block, depth int) {
	indent := strings.Repeat("  ", depth)
	for n := b.first; n != nil; n = n.next {
		p.printNode(n, depth)
	}
	outs := make([]string, len(b.Outputs()))
	for i, v := range b.Outputs() {
		outs[i] = p.name(v)
	}
	p.sb.WriteString(indent + "return (" + strings.Join(outs, ", ") + ")\n")
}

func (p *printer) printNode(n *Node, depth int) {
	indent := strings.Repeat("  ", depth)
	p.sb.WriteString(indent)

	if len(n.outputs) > 0 {
		lhs := make([]string, len(n.outputs))
		for i, out := range n.outputs {
			lhs[i] = p.typedName(out)
		}
		p.sb.WriteString(strings.Join(lhs, ", ") + " = ")
	}

	p.sb.WriteString(n.kind.String())
	if names := n.AttrNames(); len(names) > 0 {
		attrs := make([]string, len(names))
		for i, name := range names {
			attrs[i] = name + "=" + n.attrs[name].String()
		}
		p.sb.WriteString("[" + strings.Join(attrs, ", ") + "]")
	}

	ins := make([]string, len(n.inputs))
	for i, in := range n.inputs {
		ins[i] = p.name(in)
	}
	p.sb.WriteString("(" + strings.Join(ins, ", ") + ")\n")

	for _, sub := range n.blocks {
		bins := make([]string, len(sub.Inputs()))
		for i, in := range sub.Inputs() {
			bins[i] = p.typedName(in)
		}
		p.sb.WriteString(indent + "  block(" + strings.Join(bins, ", ") + "):\n")
		p.printBlockBody(sub, depth+2)
	}
}
