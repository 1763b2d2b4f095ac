package onnx

import (
	"github.com/sirupsen/logrus"

	"github.com/gojit/exportir/ir"
)

// fusibleWithListUnpack lists the operators that produce a statically
// sized sequence the exporter can split into individual outputs.
var fusibleWithListUnpack = map[ir.OpKind]bool{
	ir.AtenSplit:                true,
	ir.AtenSplitWithSizes:       true,
	ir.AtenUnsafeSplit:          true,
	ir.AtenUnsafeSplitWithSizes: true,
	ir.AtenUnbind:               true,
	ir.AtenUnsafeChunk:          true,
	ir.AtenWhere:                true,
}

// findFusibleListUnpack returns the prim::ListUnpack node that is the sole
// consumer of n's single output, or nil when the shape does not match.
func findFusibleListUnpack(n *ir.Node) *ir.Node {
	if len(n.Outputs()) != 1 {
		return nil
	}
	uses := n.Output(0).Uses()
	if len(uses) != 1 {
		return nil
	}
	unpack := uses[0].User
	if unpack.Kind() != ir.PrimListUnpack {
		return nil
	}
	return unpack
}

// fuseNodeWithListUnpack merges a sequence producer with the ListUnpack
// destructuring it, so the producer yields the unpacked values directly.
// The _outputs attribute records the arity for the symbolic translation
// stage, which otherwise could not know how many results to emit.
//
// Before:
//
//	%8 : Tensor[] = aten::split_with_sizes(%input, %sizes, %dim)
//	%9 : Float(2, 4), %10 : Float(1, 4) = prim::ListUnpack(%8)
//
// After:
//
//	%9 : Float(2, 4), %10 : Float(1, 4) = aten::split_with_sizes[_outputs=2](%input, %sizes, %dim)
func fuseNodeWithListUnpack(n *ir.Node) {
	unpack := findFusibleListUnpack(n)
	if unpack == nil {
		return
	}

	unpacked := unpack.Outputs()
	n.SetInt(attrOutputs, int64(len(unpacked)))
	for _, out := range unpacked {
		n.AddOutput(nil).CopyMetadata(out)
	}
	unpack.RemoveAllInputs()
	// The original sequence output fed only the unpack node; drop it so the
	// fused outputs start at position zero.
	n.EraseOutput(0)
	unpack.ReplaceAllUsesWith(n)
	unpack.Destroy()

	logrus.Debugf("onnx: fused %s with prim::ListUnpack into %d outputs", n.Kind(), len(n.Outputs()))
}

func fuseWithListUnpack(b *ir.Block) {
	for n := range b.Walk() {
		if fusibleWithListUnpack[n.Kind()] {
			fuseNodeWithListUnpack(n)
		}
	}
}
