package ir

import (
	"strings"
	"testing"
)

func validCheckGraph() (*Graph, *Node) {
	g := NewGraph()
	x := g.AddInput(TensorOf(ScalarFloat))
	size := g.Block().Append(g.Create(AtenSize, 1))
	size.AddInput(x)
	size.Output(0).SetType(ListOf(ScalarType{Kind: ScalarInt}))
	g.RegisterOutput(size.Output(0))
	return g, size
}

func TestCheckValidGraph(t *testing.T) {
	g, _ := validCheckGraph()
	if err := Check(g); err != nil {
		t.Fatalf("Check failed on a valid graph: %v", err)
	}
}

func TestCheckNilGraph(t *testing.T) {
	if err := Check(nil); err == nil {
		t.Error("expected an error for a nil graph")
	}
}

func TestCheckDetectsStaleUseRecord(t *testing.T) {
	g, size := validCheckGraph()
	other := g.Block().Append(g.Create(Aten("relu"), 1))
	// Seed a use record that the supposed user does not hold.
	size.Output(0).uses = append(size.Output(0).uses, Use{User: other, Offset: 0})

	err := Check(g)
	if err == nil || !strings.Contains(err.Error(), "stale use record") {
		t.Errorf("Check() = %v, want stale use record error", err)
	}
}

func TestCheckDetectsMissingUseRecord(t *testing.T) {
	g, size := validCheckGraph()
	// Drop the use record backing the graph input's consumption.
	g.Inputs()[0].uses = nil
	_ = size

	err := Check(g)
	if err == nil || !strings.Contains(err.Error(), "use records") {
		t.Errorf("Check() = %v, want missing use record error", err)
	}
}

func TestCheckDetectsUseBeforeDefinition(t *testing.T) {
	g, size := validCheckGraph()
	user := g.Create(Aten("relu"), 1)
	user.AddInput(size.Output(0))
	user.InsertBefore(size) // user precedes its definition

	err := Check(g)
	if err == nil || !strings.Contains(err.Error(), "before its definition") {
		t.Errorf("Check() = %v, want use-before-definition error", err)
	}
}

func TestCheckDetectsLinkedDestroyedNode(t *testing.T) {
	g, size := validCheckGraph()
	// Flag the node dead without unlinking it, as a buggy rewrite might.
	size.destroyed = true

	err := Check(g)
	if err == nil || !strings.Contains(err.Error(), "destroyed node") {
		t.Errorf("Check() = %v, want destroyed-node error", err)
	}
}

func TestCheckDetectsBrokenDefinitionRecord(t *testing.T) {
	g, size := validCheckGraph()
	size.Output(0).offset = 5

	err := Check(g)
	if err == nil || !strings.Contains(err.Error(), "definition record") {
		t.Errorf("Check() = %v, want definition record error", err)
	}
}

func TestCheckAcceptsUseFromNestedBlock(t *testing.T) {
	// A nested block may use values defined in an enclosing scope.
	g := NewGraph()
	x := g.AddInput(TensorOf(ScalarFloat))
	cond := g.AddInput(ScalarType{Kind: ScalarBool})
	ifNode := g.Block().Append(g.Create(Prim("If"), 0))
	ifNode.AddInput(cond)
	sub := ifNode.AddBlock()
	inner := sub.Append(g.Create(AtenSize, 1))
	inner.AddInput(x)
	inner.Output(0).SetType(ListOf(ScalarType{Kind: ScalarInt}))
	sub.RegisterOutput(inner.Output(0))

	if err := Check(g); err != nil {
		t.Fatalf("Check failed: %v", err)
	}
}

func TestCheckRejectsUseOfInnerValueFromOuterScope(t *testing.T) {
	// A value defined inside a nested block is not visible after the
	// control-flow node.
	g := NewGraph()
	cond := g.AddInput(ScalarType{Kind: ScalarBool})
	ifNode := g.Block().Append(g.Create(Prim("If"), 0))
	ifNode.AddInput(cond)
	sub := ifNode.AddBlock()
	inner := sub.Append(g.Create(PrimConstant, 1))
	inner.Output(0).SetType(ScalarType{Kind: ScalarInt})

	escape := g.Block().Append(g.Create(Aten("relu"), 1))
	escape.AddInput(inner.Output(0))

	err := Check(g)
	if err == nil || !strings.Contains(err.Error(), "before its definition") {
		t.Errorf("Check() = %v, want scoping error", err)
	}
}
