// Package exportir prepares traced IR graphs for ONNX export.
//
// A frontend traces a program into a graph of aten/prim operations; the
// export format cannot express some of the traced shapes directly.
// Preprocess rewrites those shapes in place so that a later symbolic
// translation stage can map every remaining node one-to-one onto
// export-format instructions.
//
// Example usage:
//
//	g := ir.NewGraph()
//	x := g.AddInput(ir.RankedTensor(ir.ScalarFloat, 5, 4))
//	size := g.Block().Append(g.Create(ir.AtenSize, 1))
//	size.AddInput(x)
//	size.Output(0).SetType(ir.ListOf(ir.ScalarType{Kind: ir.ScalarInt}))
//	// ... more traced nodes ...
//	exportir.Preprocess(g)
//	if err := exportir.Check(g); err != nil {
//	    log.Fatal(err)
//	}
//
// The rewrite passes themselves live in the onnx package; the graph model
// and its mutation primitives live in the ir package.
package exportir

import (
	"github.com/gojit/exportir/ir"
	"github.com/gojit/exportir/onnx"
)

// Preprocess rewrites g in place so its operator set matches the ONNX
// export format. The graph is mutated; no copy is made. Preprocess must
// have exclusive ownership of g for its whole run.
//
// The rewrite pipeline is:
//  1. Fuse sequence producers (split, unbind, ...) with prim::ListUnpack
//  2. Replace integer-list aten::add with onnx::Concat
//  3. Lower masked aten::index_put_ to masked_fill / masked_scatter
//  4. Rewrite remaining computed-list unpacks to onnx::Gather reads
//
// Nodes left without uses by a rewrite stay in the graph; run a dead-code
// pass afterwards to drop them.
func Preprocess(g *ir.Graph) {
	onnx.Preprocess(g)
}

// Check verifies the structural invariants of g.
//
// Checks include:
//   - Use-list consistency (every input backed by exactly one use record)
//   - Definition validity (every value owned by its defining node)
//   - Topological order (definitions precede uses, across nested blocks)
//
// Returns nil if the graph is consistent.
func Check(g *ir.Graph) error {
	return ir.Check(g)
}
