package ir

import (
	"strconv"
	"strings"
)

// Attribute is a named literal attached directly to a node, outside the
// value graph. Attributes carry parameters the symbolic translation stage
// reads without tracing data flow (axis numbers, constant payloads).
type Attribute interface {
	attribute()
	String() string
}

// IntAttr is an integer attribute.
type IntAttr int64

func (IntAttr) attribute() {}

func (a IntAttr) String() string { return strconv.FormatInt(int64(a), 10) }

// IntListAttr is an integer-list attribute.
type IntListAttr []int64

func (IntListAttr) attribute() {}

func (a IntListAttr) String() string {
	parts := make([]string, len(a))
	for i, v := range a {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// TensorAttr is a tensor-literal attribute.
type TensorAttr struct {
	Value *Tensor
}

func (TensorAttr) attribute() {}

func (a TensorAttr) String() string {
	if a.Value == nil {
		return "{}"
	}
	return a.Value.String()
}

// Tensor is a literal tensor payload. Only integer data is representable;
// that covers every constant the export rewrites synthesize.
type Tensor struct {
	Kind  ScalarKind
	Shape []int64
	Ints  []int64
}

func (t *Tensor) String() string {
	parts := make([]string, len(t.Ints))
	for i, v := range t.Ints {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// IntScalarTensor returns a zero-rank integer tensor holding v.
func IntScalarTensor(v int64) *Tensor {
	return &Tensor{Kind: ScalarInt, Ints: []int64{v}}
}
