package onnx

import (
	"github.com/sirupsen/logrus"

	"github.com/gojit/exportir/ir"
)

// maskedOpFor picks the replacement operator for a masked index assignment
// from the rank of the assigned value: a zero-rank tensor fills every
// selected position with one scalar (masked_fill), anything higher
// scatters element-wise (masked_scatter). Unknown rank means no rewrite.
func maskedOpFor(value *ir.Value) (ir.OpKind, bool) {
	t, ok := value.Type().(ir.TensorType)
	if !ok || t.Rank == nil {
		return ir.OpKind{}, false
	}
	if *t.Rank == 0 {
		return ir.AtenMaskedFill, true
	}
	return ir.AtenMaskedScatter, true
}

// boolMaskOf returns the boolean mask tensor feeding an index_put_ node's
// index list, or nil when the mask chain does not match: the second input
// must come from a prim::ListConstruct whose first input is a tensor of
// statically known Bool kind. Only the first construct input is consulted,
// mirroring the traced single-mask pattern.
func boolMaskOf(n *ir.Node) *ir.Value {
	if len(n.Inputs()) < 3 {
		return nil
	}
	construct := n.Input(1).Node()
	if construct.Kind() != ir.PrimListConstruct || len(construct.Inputs()) == 0 {
		return nil
	}
	mask := construct.Input(0)
	t, ok := mask.Type().(ir.TensorType)
	if !ok || t.Kind == nil || *t.Kind != ir.ScalarBool {
		return nil
	}
	return mask
}

// replaceIndexPutWithMaskedOp lowers in-place masked index assignment to
// aten::masked_fill or aten::masked_scatter, which the export format can
// translate. The ListConstruct feeding the index list is left in place
// for later dead-code elimination.
//
// Before:
//
//	%22 : Tensor[] = prim::ListConstruct(%mask)
//	%24 : Float(2, 2) = aten::index_put_(%target, %22, %value)
//
// After:
//
//	%22 : Tensor[] = prim::ListConstruct(%mask)
//	%25 : Float(2, 2) = aten::masked_fill(%target, %mask, %value)
func replaceIndexPutWithMaskedOp(b *ir.Block) {
	for n := range b.Walk() {
		if n.Kind() != ir.AtenIndexPut {
			continue
		}
		mask := boolMaskOf(n)
		if mask == nil {
			continue
		}
		kind, ok := maskedOpFor(n.Input(2))
		if !ok {
			continue
		}

		masked := n.Graph().Create(kind, 1)
		masked.InsertBefore(n)
		masked.AddInput(n.Input(0))
		masked.AddInput(mask)
		masked.AddInput(n.Input(2))
		masked.Output(0).CopyMetadata(n.Output(0))
		n.ReplaceAllUsesWith(masked)
		n.RemoveAllInputs()
		n.Destroy()

		logrus.Debugf("onnx: lowered %s to %s", ir.AtenIndexPut, kind)
	}
}
