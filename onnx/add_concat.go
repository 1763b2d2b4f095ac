package onnx

import (
	"github.com/sirupsen/logrus"

	"github.com/gojit/exportir/ir"
)

// matchIntListAdd reports whether n is an addition over two integer lists.
// Tensor addition, non-list operands, and non-integral element types are
// all left alone; handling those belongs to other parts of the exporter.
func matchIntListAdd(n *ir.Node) bool {
	if n.Kind() != ir.AtenAdd || len(n.Inputs()) != 2 {
		return false
	}
	lhs, ok := n.Input(0).Type().(ir.ListType)
	if !ok {
		return false
	}
	if _, ok := n.Input(1).Type().(ir.ListType); !ok {
		return false
	}
	elem, ok := lhs.Elem.(ir.ScalarType)
	return ok && elem.Kind == ir.ScalarInt
}

// replaceAddWithConcat rewrites integer-list addition into onnx::Concat
// along axis 0, which is the export-format spelling of list concatenation.
//
// Before:
//
//	%7 : int[] = aten::add(%l1, %l2)
//
// After:
//
//	%9 : Int = onnx::Concat[axis=0](%l1, %l2)
func replaceAddWithConcat(b *ir.Block) {
	for n := range b.Walk() {
		if !matchIntListAdd(n) {
			continue
		}

		concat := n.Graph().Create(ir.OnnxConcat, 1)
		concat.SetInt(attrAxis, 0)
		concat.InsertBefore(n)
		concat.AddInput(n.Input(0))
		concat.AddInput(n.Input(1))
		concat.Output(0).SetType(ir.TensorOf(ir.ScalarInt))
		n.ReplaceAllUsesWith(concat)
		n.RemoveAllInputs()
		n.Destroy()

		logrus.Debugf("onnx: replaced %s over int lists with %s", ir.AtenAdd, ir.OnnxConcat)
	}
}
