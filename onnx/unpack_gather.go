package onnx

import (
	"github.com/sirupsen/logrus"

	"github.com/gojit/exportir/ir"
)

// matchComputedIntListUnpack reports whether n destructures an integer
// list that was computed (a shape query, a slice) rather than built by
// prim::ListConstruct. Literal constructions are fused away earlier or
// translated directly; only computed lists need per-position extraction.
func matchComputedIntListUnpack(n *ir.Node) bool {
	if n.Kind() != ir.PrimListUnpack || len(n.Inputs()) != 1 {
		return false
	}
	src := n.Input(0)
	if src.Node().Kind() == ir.PrimListConstruct {
		return false
	}
	list, ok := src.Type().(ir.ListType)
	if !ok {
		return false
	}
	elem, ok := list.Elem.(ir.ScalarType)
	if !ok || elem.Kind != ir.ScalarInt {
		return false
	}
	// A rewritten unpack stays in the block with every output dead. Skip it
	// so re-running the pipeline performs no further mutation.
	for _, out := range n.Outputs() {
		if len(out.Uses()) > 0 {
			return true
		}
	}
	return false
}

// fuseListUnpackWithGather rewrites the unpacking of a computed integer
// list into per-position onnx::Gather reads, so every unpacked scalar
// stays traceable as an explicit index into the source list. The unpack
// node itself is left in place; with all its outputs redirected it is
// dead and falls to later dead-code elimination.
//
// Before:
//
//	%2 : int[] = aten::size(%x)
//	%a : int, %b : int = prim::ListUnpack(%2)
//
// After:
//
//	%2 : int[] = aten::size(%x)
//	%7 : Int() = onnx::Constant[value={0}]()
//	%8 : Int() = onnx::Gather(%2, %7)
//	%9 : Int() = onnx::Constant[value={1}]()
//	%10 : Int() = onnx::Gather(%2, %9)
//	%a : int, %b : int = prim::ListUnpack(%2)
func fuseListUnpackWithGather(b *ir.Block) {
	for n := range b.Walk() {
		if !matchComputedIntListUnpack(n) {
			continue
		}
		src := n.Input(0)
		for i, out := range n.Outputs() {
			index := n.Graph().Create(ir.OnnxConstant, 1)
			index.SetTensor(attrValue, ir.IntScalarTensor(int64(i)))
			index.Output(0).SetType(ir.RankedTensor(ir.ScalarInt))
			index.InsertBefore(n)

			gather := n.Graph().Create(ir.OnnxGather, 1)
			gather.InsertBefore(n)
			gather.AddInput(src)
			gather.AddInput(index.Output(0))
			gather.Output(0).SetType(ir.RankedTensor(ir.ScalarInt))

			out.ReplaceAllUsesWith(gather.Output(0))
		}
		logrus.Debugf("onnx: rewrote %s over a computed int list into %d %s reads",
			ir.PrimListUnpack, len(n.Outputs()), ir.OnnxGather)
	}
}
