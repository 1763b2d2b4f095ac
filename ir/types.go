package ir

import (
	"strconv"
	"strings"
)

// ScalarKind represents the element kind of a scalar or tensor type.
type ScalarKind uint8

const (
	ScalarInt   ScalarKind = iota // Signed integer
	ScalarFloat                   // Floating point
	ScalarBool                    // Boolean
)

func (k ScalarKind) String() string {
	switch k {
	case ScalarInt:
		return "int"
	case ScalarFloat:
		return "float"
	case ScalarBool:
		return "bool"
	default:
		return "scalar" + strconv.Itoa(int(k))
	}
}

// Type describes the static type of a Value.
//
// A nil Type means the value carries no type information at all. Pass
// predicates treat missing information as "does not match", never as a
// default.
type Type interface {
	typeKind()
	String() string
}

// ScalarType represents a plain scalar value (a Python int/float/bool in
// the traced program, as opposed to a zero-rank tensor).
type ScalarType struct {
	Kind ScalarKind
}

func (ScalarType) typeKind() {}

func (t ScalarType) String() string { return t.Kind.String() }

// ListType represents a homogeneous sequence of values.
type ListType struct {
	Elem Type
}

func (ListType) typeKind() {}

func (t ListType) String() string {
	if t.Elem == nil {
		return "?[]"
	}
	return t.Elem.String() + "[]"
}

// ListOf returns the list type with the given element type.
func ListOf(elem Type) ListType { return ListType{Elem: elem} }

// TensorType represents a tensor with optional static facts. Each fact is
// independently optional: a nil Kind or Rank means the fact is unknown.
// When Rank is known, Shape either holds exactly *Rank dimensions or is
// nil when only the rank is known.
type TensorType struct {
	Kind  *ScalarKind
	Rank  *int
	Shape []int64
}

func (TensorType) typeKind() {}

func (t TensorType) String() string {
	if t.Kind == nil {
		return "Tensor"
	}
	name := tensorKindName(*t.Kind)
	if t.Rank == nil {
		return name
	}
	dims := make([]string, *t.Rank)
	for i := range dims {
		if i < len(t.Shape) {
			dims[i] = strconv.FormatInt(t.Shape[i], 10)
		} else {
			dims[i] = "*"
		}
	}
	return name + "(" + strings.Join(dims, ", ") + ")"
}

// tensorKindName returns the capitalized dtype name used in graph dumps.
func tensorKindName(k ScalarKind) string {
	switch k {
	case ScalarInt:
		return "Int"
	case ScalarFloat:
		return "Float"
	case ScalarBool:
		return "Bool"
	default:
		return "Scalar" + strconv.Itoa(int(k))
	}
}

// TensorOf returns a tensor type with a known element kind and unknown rank.
func TensorOf(kind ScalarKind) TensorType {
	return TensorType{Kind: &kind}
}

// RankedTensor returns a tensor type with a known element kind and shape.
// With no dims it is a zero-rank (scalar) tensor.
func RankedTensor(kind ScalarKind, dims ...int64) TensorType {
	rank := len(dims)
	return TensorType{Kind: &kind, Rank: &rank, Shape: dims}
}

// UnrankedTensor returns a tensor type with no static facts at all.
func UnrankedTensor() TensorType { return TensorType{} }
