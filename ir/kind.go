package ir

// Namespace qualifies an operator name. Source-level operators live in the
// aten and prim namespaces; export-format operators live in onnx.
type Namespace uint8

const (
	NamespaceAten Namespace = iota
	NamespacePrim
	NamespaceOnnx
)

func (n Namespace) String() string {
	switch n {
	case NamespaceAten:
		return "aten"
	case NamespacePrim:
		return "prim"
	case NamespaceOnnx:
		return "onnx"
	default:
		return "ns?"
	}
}

// OpKind identifies an operator: a symbolic name qualified by a namespace.
// OpKind values are comparable and usable as map keys.
type OpKind struct {
	NS   Namespace
	Name string
}

func (k OpKind) String() string { return k.NS.String() + "::" + k.Name }

// Aten returns the aten-namespace operator kind with the given name.
func Aten(name string) OpKind { return OpKind{NS: NamespaceAten, Name: name} }

// Prim returns the prim-namespace operator kind with the given name.
func Prim(name string) OpKind { return OpKind{NS: NamespacePrim, Name: name} }

// Onnx returns the onnx-namespace operator kind with the given name.
func Onnx(name string) OpKind { return OpKind{NS: NamespaceOnnx, Name: name} }

// Operator kinds the export rewrites recognize or emit.
var (
	AtenSplit                = Aten("split")
	AtenSplitWithSizes       = Aten("split_with_sizes")
	AtenUnsafeSplit          = Aten("unsafe_split")
	AtenUnsafeSplitWithSizes = Aten("unsafe_split_with_sizes")
	AtenUnbind               = Aten("unbind")
	AtenUnsafeChunk          = Aten("unsafe_chunk")
	AtenWhere                = Aten("where")
	AtenAdd                  = Aten("add")
	AtenIndexPut             = Aten("index_put_")
	AtenMaskedFill           = Aten("masked_fill")
	AtenMaskedScatter        = Aten("masked_scatter")
	AtenSize                 = Aten("size")

	PrimListUnpack    = Prim("ListUnpack")
	PrimListConstruct = Prim("ListConstruct")
	PrimConstant      = Prim("Constant")

	OnnxConcat   = Onnx("Concat")
	OnnxConstant = Onnx("Constant")
	OnnxGather   = Onnx("Gather")
)

// Block boundary pseudo-operators. They anchor block inputs and outputs and
// are never part of a block's node list.
var (
	primParam  = Prim("Param")
	primReturn = Prim("Return")
)
