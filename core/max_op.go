package core

import (
	"math"
)

type MaxOp struct{}

func NewMaxOp() *MaxOp {
	return &MaxOp{}
}

func (op *MaxOp) Apply(retData, aggData *ColumnTable, insertValue float64) {
	retData.Max.Value = math.Max(aggData.Max.Value, insertValue)
}

func (op *MaxOp) Merge(retData *ColumnTable, values []ColumnTable) {
	for _, value := range values {
		retData.Max.Value = math.Max(retData.Max.Value, value.Max.Value)
	}
}
