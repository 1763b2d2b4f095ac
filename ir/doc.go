// Package ir defines the graph intermediate representation for exportir.
//
// The IR is designed to be:
//   - Trace-shaped: One node per traced operation, one value per result
//   - Mutable: Rewrite passes edit the graph in place
//   - Consistent: Definition and use records are maintained transactionally
//
// # Structure
//
// The IR is organized around a Graph type that owns:
//   - A root Block: the ordered node list of the program
//   - Formal inputs: the values the traced program was called with
//
// Each Node carries an operator kind, ordered input and output values,
// named literal attributes, and zero or more nested blocks for
// control-flow operators. Each Value records its defining node and every
// (node, slot) pair that consumes it.
//
// # Rewrite Pipeline
//
// The typical export pipeline is:
//
//	Trace → Graph → rewrite passes (onnx package) → symbolic translation
//
// Passes traverse the graph with Block.Walk and mutate it with the
// primitives on Node and Value; the use lists stay consistent through
// every mutation, so a later pass can rely on them without rebuilding.
//
// # References
//
// This IR design follows the torch JIT graph representation used by the
// ONNX exporter.
package ir
