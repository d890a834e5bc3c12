package core

type SumOp struct{}

func NewSumOp() *SumOp {
	return &SumOp{}
}

func (op *SumOp) Apply(retData, aggData *ColumnTable, insertValue float64) {
	retData.Sum.Value = aggData.Sum.Value + insertValue
}

func (op *SumOp) Merge(retData *ColumnTable, values []ColumnTable) {
	for _, value := range values {
		retData.Sum.Value += value.Sum.Value
	}
}
