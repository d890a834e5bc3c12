package core

import (
	"time"

	"perfstat/stats"
)

// Snapshot is the archived result of one finished run.
type Snapshot struct {
	ID        uint64
	Layout    string
	Title     string
	Sources   []string
	CreatedAt time.Time
	Aggregate *Aggregate
}

func NewSnapshot(layout, title string, sources []string, agg *Aggregate) *Snapshot {
	return &Snapshot{
		Layout:    layout,
		Title:     title,
		Sources:   sources,
		CreatedAt: time.Now(),
		Aggregate: agg,
	}
}

// restoreAggregate rebuilds an aggregate from its archived column state.
func restoreAggregate(kind NumericKind, floor bool, rows uint64,
	columns []ColumnTable, moments []*stats.Welford, exact []int64) *Aggregate {
	agg := NewAggregate(len(columns), kind).SetFloor(floor)
	agg.rows = rows
	for i := range columns {
		agg.columns[i] = columns[i].Clone()
		agg.moments[i] = moments[i]
	}
	if kind == Integer {
		copy(agg.exact, exact)
	}
	return agg
}
