// Package onnx implements the graph rewrites that make a traced graph
// exportable: each pass recognizes one node shape the export format cannot
// express directly and replaces it in place with an equivalent it can.
//
// The passes run in a fixed order over the whole graph, nested control-flow
// blocks included. Every match decision is local and stateless; a failed
// match leaves the node untouched. Missing type information is a legitimate
// "no match", never guessed around.
package onnx

import (
	"github.com/sirupsen/logrus"

	"github.com/gojit/exportir/ir"
)

// Attribute names the rewrites attach for the symbolic translation stage.
const (
	// attrOutputs records the output arity of a fused list producer.
	attrOutputs = "_outputs"
	attrAxis    = "axis"
	attrValue   = "value"
)

// Preprocess rewrites g in place so its operator set matches the export
// format. The passes run strictly in order because later passes assume the
// invariants established by earlier ones: the gather rewrite only sees
// ListUnpack nodes that survived fusion.
//
// Preprocess is idempotent: a second run finds no further matches. Nodes
// left dead by a rewrite (ListConstruct mask producers, gathered
// ListUnpacks) stay in the graph for later dead-code elimination.
func Preprocess(g *ir.Graph) {
	fuseWithListUnpack(g.Block())
	replaceAddWithConcat(g.Block())
	replaceIndexPutWithMaskedOp(g.Block())
	fuseListUnpackWithGather(g.Block())

	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		logrus.Tracef("graph after onnx preprocessing:\n%s", g)
	}
}
