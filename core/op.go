package core

// Op maintains one field of a ColumnTable.
//
// Apply folds a single value into aggData and stores the result in retData;
// the two may be the same table. Merge folds already-aggregated tables into
// retData.
type Op interface {
	Apply(retData, aggData *ColumnTable, insertValue float64)
	Merge(retData *ColumnTable, values []ColumnTable)
}

func DefaultOps() []Op {
	return []Op{NewSumOp(), NewMaxOp(), NewMinOp()}
}
