package core

import (
	"math"
)

type MinOp struct{}

func NewMinOp() *MinOp {
	return &MinOp{}
}

func (op *MinOp) Apply(retData, aggData *ColumnTable, insertValue float64) {
	retData.Min.Value = math.Min(aggData.Min.Value, insertValue)
}

func (op *MinOp) Merge(retData *ColumnTable, values []ColumnTable) {
	for _, value := range values {
		retData.Min.Value = math.Min(retData.Min.Value, value.Min.Value)
	}
}
