package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Render formats the aggregate according to spec. Averaged mode reports
// means and fails with DivisionError when no record was added; Raw mode
// reports totals.
func (agg *Aggregate) Render(spec *LabelSpec, mode Mode) (string, error) {
	if err := spec.Validate(agg.arity); err != nil {
		return "", err
	}

	switch mode {
	case Averaged:
		means, err := agg.Mean()
		if err != nil {
			return "", err
		}
		return spec.Format(means, mode), nil
	case Raw:
		if totals, ok := agg.IntegerTotals(); ok {
			return spec.formatCells(integerCells(totals), mode), nil
		}
		return spec.Format(agg.Totals(), mode), nil
	}
	return "", fmt.Errorf("unknown render mode %v", mode)
}

// cell is one column value ready for formatting. Integer cells keep the
// exact sum next to its float approximation.
type cell struct {
	value   float64
	exact   int64
	integer bool
}

func floatCells(values []float64) []cell {
	cells := make([]cell, len(values))
	for i, v := range values {
		cells[i] = cell{value: v}
	}
	return cells
}

func integerCells(values []int64) []cell {
	cells := make([]cell, len(values))
	for i, v := range values {
		cells[i] = cell{value: float64(v), exact: v, integer: true}
	}
	return cells
}

func (c cell) isZero() bool {
	if c.integer {
		return c.exact == 0
	}
	return c.value == 0
}

// plus stays exact while both cells are integers and the sum fits in int64.
func (c cell) plus(other cell) cell {
	sum := cell{value: c.value + other.value}
	if c.integer && other.integer {
		if exact, ok := addInt64(c.exact, other.exact); ok {
			sum.exact = exact
			sum.integer = true
		}
	}
	return sum
}

// Format lays out already computed column values.
func (spec *LabelSpec) Format(values []float64, mode Mode) string {
	return spec.formatCells(floatCells(values), mode)
}

func (spec *LabelSpec) formatCells(cells []cell, mode Mode) string {
	if spec.Summary {
		return spec.formatSummary(cells, mode)
	}
	return spec.formatPairs(cells, mode)
}

func (spec *LabelSpec) formatValue(c cell, mode Mode) string {
	if c.integer {
		return strconv.FormatInt(c.exact, 10)
	}
	if mode == Raw {
		return strconv.FormatFloat(c.value, 'f', 0, 64)
	}
	return strconv.FormatFloat(c.value, 'f', spec.precision(), 64)
}

func (spec *LabelSpec) formatPairs(cells []cell, mode Mode) string {
	lw, vw := spec.labelWidth(), spec.valueWidth()
	lines := make([]string, 0, len(spec.Groups))
	for i := range spec.Groups {
		group := &spec.Groups[i]
		lines = append(lines, fmt.Sprintf("%-*s: %*s    %-*s: %*s",
			lw, group.leftLabel(), vw, spec.formatValue(cells[group.Left], mode),
			lw, group.rightLabel(), vw, spec.formatValue(cells[group.Right], mode)))
	}
	return strings.Join(lines, "\n")
}

// formatSummary drops groups whose right value is zero from the listing, but
// the grand total still runs over every group.
func (spec *LabelSpec) formatSummary(cells []cell, mode Mode) string {
	parts := []string{fmt.Sprintf("%-*s", spec.titleWidth(), spec.Title)}
	leftTotal := cell{integer: true}
	rightTotal := cell{integer: true}
	for _, group := range spec.Groups {
		left, right := cells[group.Left], cells[group.Right]
		leftTotal = leftTotal.plus(left)
		rightTotal = rightTotal.plus(right)
		if right.isZero() {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s/%s",
			group.Label, spec.formatValue(right, mode), spec.formatValue(left, mode)))
	}
	if spec.Total {
		parts = append(parts, fmt.Sprintf("total: %s/%s",
			spec.formatValue(rightTotal, mode), spec.formatValue(leftTotal, mode)))
	}
	return strings.Join(parts, " ")
}
