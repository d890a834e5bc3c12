package core

import "math"

type Scalar struct {
	Value float64
}

// ColumnTable holds the running per-column values maintained by the ops.
type ColumnTable struct {
	Sum *Scalar
	Max *Scalar
	Min *Scalar
}

func NewColumnTable() *ColumnTable {
	return &ColumnTable{
		Sum: &Scalar{Value: 0.0},
		Max: &Scalar{Value: -math.MaxFloat64},
		Min: &Scalar{Value: math.MaxFloat64},
	}
}

func (table *ColumnTable) Clone() *ColumnTable {
	return &ColumnTable{
		Sum: &Scalar{Value: table.Sum.Value},
		Max: &Scalar{Value: table.Max.Value},
		Min: &Scalar{Value: table.Min.Value},
	}
}
