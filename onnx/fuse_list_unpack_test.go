package onnx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gojit/exportir/ir"
)

func intList() ir.ListType { return ir.ListOf(ir.ScalarType{Kind: ir.ScalarInt}) }

// buildSplitGraph traces the split_with_sizes scenario: a [2,1,2] split
// unpacked into three consumers.
func buildSplitGraph() (*ir.Graph, *ir.Node, *ir.Node, []*ir.Node) {
	g := ir.NewGraph()
	x := g.AddInput(ir.RankedTensor(ir.ScalarFloat, 5, 4, 3))
	sizes := g.Block().Append(g.Create(ir.PrimConstant, 1))
	sizes.SetIntList("value", []int64{2, 1, 2})
	sizes.Output(0).SetType(intList())
	dim := g.Block().Append(g.Create(ir.PrimConstant, 1))
	dim.SetInt("value", 0)
	dim.Output(0).SetType(ir.ScalarType{Kind: ir.ScalarInt})

	split := g.Block().Append(g.Create(ir.AtenSplitWithSizes, 1))
	split.AddInput(x)
	split.AddInput(sizes.Output(0))
	split.AddInput(dim.Output(0))
	split.Output(0).SetType(ir.ListOf(ir.UnrankedTensor()))

	unpack := g.Block().Append(g.Create(ir.PrimListUnpack, 3))
	unpack.AddInput(split.Output(0))
	unpack.Output(0).SetType(ir.RankedTensor(ir.ScalarFloat, 2, 4, 3))
	unpack.Output(1).SetType(ir.RankedTensor(ir.ScalarFloat, 1, 4, 3))
	unpack.Output(2).SetType(ir.RankedTensor(ir.ScalarFloat, 2, 4, 3))

	consumers := make([]*ir.Node, 3)
	for i := range consumers {
		c := g.Block().Append(g.Create(ir.Aten("relu"), 1))
		c.AddInput(unpack.Output(i))
		c.Output(0).CopyMetadata(unpack.Output(i))
		g.RegisterOutput(c.Output(0))
		consumers[i] = c
	}
	return g, split, unpack, consumers
}

func countKind(g *ir.Graph, kind ir.OpKind) int {
	count := 0
	for n := range g.Block().Walk() {
		if n.Kind() == kind {
			count++
		}
	}
	return count
}

func TestFuseSplitWithSizes(t *testing.T) {
	g, split, unpack, consumers := buildSplitGraph()

	fuseWithListUnpack(g.Block())
	require.NoError(t, ir.Check(g))

	require.Len(t, split.Outputs(), 3)
	arity, ok := split.Int("_outputs")
	require.True(t, ok, "fused producer must carry the _outputs attribute")
	assert.EqualValues(t, 3, arity)

	assert.True(t, unpack.Destroyed())
	assert.Zero(t, countKind(g, ir.PrimListUnpack))

	for i, c := range consumers {
		assert.Same(t, split.Output(i), c.Input(0), "consumer %d not rewired to producer output %d", i, i)
	}
	assert.Equal(t, "Float(2, 4, 3)", split.Output(0).Type().String())
	assert.Equal(t, "Float(1, 4, 3)", split.Output(1).Type().String())
	assert.Equal(t, "Float(2, 4, 3)", split.Output(2).Type().String())
}

func TestFuseAllWhitelistedKinds(t *testing.T) {
	kinds := []ir.OpKind{
		ir.AtenSplit,
		ir.AtenSplitWithSizes,
		ir.AtenUnsafeSplit,
		ir.AtenUnsafeSplitWithSizes,
		ir.AtenUnbind,
		ir.AtenUnsafeChunk,
		ir.AtenWhere,
	}
	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			g := ir.NewGraph()
			x := g.AddInput(ir.TensorOf(ir.ScalarFloat))
			producer := g.Block().Append(g.Create(kind, 1))
			producer.AddInput(x)
			producer.Output(0).SetType(ir.ListOf(ir.UnrankedTensor()))
			unpack := g.Block().Append(g.Create(ir.PrimListUnpack, 2))
			unpack.AddInput(producer.Output(0))
			for _, out := range unpack.Outputs() {
				out.SetType(ir.UnrankedTensor())
				g.RegisterOutput(out)
			}

			fuseWithListUnpack(g.Block())
			require.NoError(t, ir.Check(g))

			require.Len(t, producer.Outputs(), 2)
			assert.Zero(t, countKind(g, ir.PrimListUnpack))
			assert.Equal(t, []*ir.Value{producer.Output(0), producer.Output(1)}, g.Outputs())
		})
	}
}

func TestFuseSkipsNonWhitelistedProducer(t *testing.T) {
	g := ir.NewGraph()
	x := g.AddInput(ir.TensorOf(ir.ScalarFloat))
	producer := g.Block().Append(g.Create(ir.Aten("chunk"), 1))
	producer.AddInput(x)
	producer.Output(0).SetType(ir.ListOf(ir.UnrankedTensor()))
	unpack := g.Block().Append(g.Create(ir.PrimListUnpack, 2))
	unpack.AddInput(producer.Output(0))

	fuseWithListUnpack(g.Block())
	require.NoError(t, ir.Check(g))

	assert.Len(t, producer.Outputs(), 1)
	assert.False(t, unpack.Destroyed())
}

func TestFuseSkipsMultipleUses(t *testing.T) {
	g, split, unpack, _ := buildSplitGraph()
	// A second consumer of the sequence output blocks the fusion.
	extra := g.Block().Append(g.Create(ir.Aten("len"), 1))
	extra.AddInput(split.Output(0))

	fuseWithListUnpack(g.Block())
	require.NoError(t, ir.Check(g))

	assert.Len(t, split.Outputs(), 1)
	assert.False(t, unpack.Destroyed())
	_, ok := split.Int("_outputs")
	assert.False(t, ok)
}

func TestFuseSkipsNonUnpackConsumer(t *testing.T) {
	g := ir.NewGraph()
	x := g.AddInput(ir.TensorOf(ir.ScalarFloat))
	producer := g.Block().Append(g.Create(ir.AtenUnbind, 1))
	producer.AddInput(x)
	producer.Output(0).SetType(ir.ListOf(ir.UnrankedTensor()))
	consumer := g.Block().Append(g.Create(ir.Aten("len"), 1))
	consumer.AddInput(producer.Output(0))

	fuseWithListUnpack(g.Block())
	require.NoError(t, ir.Check(g))

	assert.Len(t, producer.Outputs(), 1)
	assert.Same(t, producer.Output(0), consumer.Input(0))
}

func TestFuseInsideNestedBlocks(t *testing.T) {
	// A producer/unpack pair two levels deep is rewritten identically to
	// one at the top level.
	g := ir.NewGraph()
	x := g.AddInput(ir.TensorOf(ir.ScalarFloat))
	cond := g.AddInput(ir.ScalarType{Kind: ir.ScalarBool})

	outer := g.Block().Append(g.Create(ir.Prim("If"), 0))
	outer.AddInput(cond)
	level1 := outer.AddBlock()
	inner := level1.Append(g.Create(ir.Prim("If"), 0))
	inner.AddInput(cond)
	level2 := inner.AddBlock()

	producer := level2.Append(g.Create(ir.AtenUnbind, 1))
	producer.AddInput(x)
	producer.Output(0).SetType(ir.ListOf(ir.UnrankedTensor()))
	unpack := level2.Append(g.Create(ir.PrimListUnpack, 2))
	unpack.AddInput(producer.Output(0))
	for _, out := range unpack.Outputs() {
		out.SetType(ir.UnrankedTensor())
		level2.RegisterOutput(out)
	}

	fuseWithListUnpack(g.Block())
	require.NoError(t, ir.Check(g))

	require.Len(t, producer.Outputs(), 2)
	assert.True(t, unpack.Destroyed())
	assert.Equal(t, []*ir.Value{producer.Output(0), producer.Output(1)}, level2.Outputs())
}
