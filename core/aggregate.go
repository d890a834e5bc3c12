package core

import (
	"fmt"
	"math"

	"perfstat/stats"
)

// Aggregate is the running state of one run: per-column tables and
// accumulators plus the number of accepted records. It is owned by a single
// run and is not safe for concurrent use.
type Aggregate struct {
	arity   int
	kind    NumericKind
	floor   bool
	rows    uint64
	columns []*ColumnTable
	moments []*stats.Welford
	ops     []Op

	// exact holds the integer column sums of an Integer aggregate, which
	// float64 cannot represent above 2^53.
	exact []int64
}

func NewAggregate(arity int, kind NumericKind) *Aggregate {
	agg := &Aggregate{
		arity:   arity,
		kind:    kind,
		columns: make([]*ColumnTable, arity),
		moments: make([]*stats.Welford, arity),
		ops:     DefaultOps(),
	}
	if kind == Integer {
		agg.exact = make([]int64, arity)
	}
	for i := 0; i < arity; i++ {
		agg.columns[i] = NewColumnTable()
		agg.moments[i] = stats.NewWelford()
	}
	return agg
}

// SetFloor makes Mean floor every quotient instead of returning the true
// quotient.
func (agg *Aggregate) SetFloor(floor bool) *Aggregate {
	agg.floor = floor
	return agg
}

func (agg *Aggregate) Arity() int {
	return agg.arity
}

func (agg *Aggregate) Kind() NumericKind {
	return agg.kind
}

func (agg *Aggregate) Floor() bool {
	return agg.floor
}

func (agg *Aggregate) Rows() uint64 {
	return agg.rows
}

// Ingest parses line and adds it as one record. On error the aggregate is
// left untouched.
func (agg *Aggregate) Ingest(line string) error {
	if agg.kind == Integer {
		values, err := ParseIntegers(line, agg.arity)
		if err != nil {
			return err
		}
		return agg.addIntegers(values)
	}
	record, err := ParseRecord(line, agg.arity, agg.kind)
	if err != nil {
		return err
	}
	return agg.Add(record)
}

func (agg *Aggregate) Add(record Record) error {
	if len(record) != agg.arity {
		return &FormatError{
			Reason: fmt.Sprintf("expected %d fields, got %d", agg.arity, len(record)),
		}
	}
	if agg.kind == Integer {
		values := make([]int64, len(record))
		for i, value := range record {
			if value != math.Trunc(value) || value < math.MinInt64 || value >= math.MaxInt64 {
				return &FormatError{
					Column: i + 1,
					Token:  fmt.Sprint(value),
					Reason: "not a valid integer",
				}
			}
			values[i] = int64(value)
		}
		return agg.addIntegers(values)
	}
	agg.apply(record)
	return nil
}

func (agg *Aggregate) addIntegers(values []int64) error {
	sums := make([]int64, len(values))
	for i, value := range values {
		sum, ok := addInt64(agg.exact[i], value)
		if !ok {
			return &FormatError{
				Column: i + 1,
				Token:  fmt.Sprint(value),
				Reason: "column total overflows int64",
			}
		}
		sums[i] = sum
	}

	record := make(Record, len(values))
	for i, value := range values {
		record[i] = float64(value)
	}
	agg.apply(record)
	copy(agg.exact, sums)
	return nil
}

func (agg *Aggregate) apply(record Record) {
	for i, value := range record {
		column := agg.columns[i]
		for _, op := range agg.ops {
			op.Apply(column, column, value)
		}
		agg.moments[i].Update(value)
	}
	agg.rows++
}

func (agg *Aggregate) exactSum(i int) int64 {
	if agg.exact == nil {
		return 0
	}
	return agg.exact[i]
}

func addInt64(a, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}

func (agg *Aggregate) Totals() []float64 {
	totals := make([]float64, agg.arity)
	for i, column := range agg.columns {
		totals[i] = column.Sum.Value
	}
	return totals
}

// IntegerTotals returns the exact column sums of an Integer aggregate. ok is
// false for Float aggregates.
func (agg *Aggregate) IntegerTotals() (totals []int64, ok bool) {
	if agg.kind != Integer {
		return nil, false
	}
	totals = make([]int64, agg.arity)
	copy(totals, agg.exact)
	return totals, true
}

func (agg *Aggregate) Mean() ([]float64, error) {
	if agg.rows == 0 {
		return nil, &DivisionError{Op: "mean"}
	}
	means := make([]float64, agg.arity)
	for i, column := range agg.columns {
		means[i] = stats.Quotient(column.Sum.Value, agg.rows, agg.floor)
	}
	return means, nil
}

// StdDev returns the sample standard deviation of every column.
func (agg *Aggregate) StdDev() ([]float64, error) {
	if agg.rows == 0 {
		return nil, &DivisionError{Op: "standard deviation"}
	}
	sds := make([]float64, agg.arity)
	for i, moment := range agg.moments {
		sds[i] = moment.GetSD()
	}
	return sds, nil
}

// Range returns the per-column minimum and maximum. ok is false when no
// record has been added.
func (agg *Aggregate) Range() (lo, hi []float64, ok bool) {
	if agg.rows == 0 {
		return nil, nil, false
	}
	lo = make([]float64, agg.arity)
	hi = make([]float64, agg.arity)
	for i, column := range agg.columns {
		lo[i] = column.Min.Value
		hi[i] = column.Max.Value
	}
	return lo, hi, true
}

// Merge folds the state of others into agg. All aggregates must share arity
// and numeric kind.
func (agg *Aggregate) Merge(others ...*Aggregate) error {
	for _, other := range others {
		if other.arity != agg.arity || other.kind != agg.kind {
			return &FormatError{
				Reason: fmt.Sprintf("cannot merge %d %s columns into %d %s columns",
					other.arity, other.kind, agg.arity, agg.kind),
			}
		}
	}

	var sums []int64
	if agg.kind == Integer {
		sums = make([]int64, agg.arity)
		copy(sums, agg.exact)
		for _, other := range others {
			for i, value := range other.exact {
				sum, ok := addInt64(sums[i], value)
				if !ok {
					return &FormatError{
						Column: i + 1,
						Token:  fmt.Sprint(value),
						Reason: "column total overflows int64",
					}
				}
				sums[i] = sum
			}
		}
	}

	for i, column := range agg.columns {
		tables := make([]ColumnTable, len(others))
		for j, other := range others {
			tables[j] = *other.columns[i]
		}
		for _, op := range agg.ops {
			op.Merge(column, tables)
		}
		for _, other := range others {
			agg.moments[i].Merge(other.moments[i])
		}
	}
	for _, other := range others {
		agg.rows += other.rows
	}
	if sums != nil {
		copy(agg.exact, sums)
	}
	return nil
}
