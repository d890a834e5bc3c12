package core

import (
	"fmt"
)

// Mode selects which values a report shows.
type Mode int

const (
	// Averaged shows per-column means as fixed-point numbers.
	Averaged Mode = iota
	// Raw shows the per-column sums as integers.
	Raw
)

func (mode Mode) String() string {
	switch mode {
	case Averaged:
		return "averaged"
	case Raw:
		return "raw"
	}
	return fmt.Sprintf("Mode(%d)", int(mode))
}

const (
	DefaultLabelWidth = 20
	DefaultValueWidth = 10
	DefaultPrecision  = 2
	DefaultTitleWidth = 10
)

// Group pairs two adjacent columns under one label, e.g. the bytes and
// consumed counters of one object type.
type Group struct {
	Label      string
	Left       int
	Right      int
	LeftLabel  string
	RightLabel string
}

func (group *Group) leftLabel() string {
	if group.LeftLabel != "" {
		return group.LeftLabel
	}
	return group.Label
}

func (group *Group) rightLabel() string {
	if group.RightLabel != "" {
		return group.RightLabel
	}
	return group.Label
}

// LabelSpec describes how aggregated columns are laid out in a report.
//
// A pair layout prints one line per group. A summary layout prints a single
// line starting with Title, drops groups whose right value is zero and can
// end with a grand total.
type LabelSpec struct {
	Groups     []Group
	Summary    bool
	Title      string
	Total      bool
	TitleWidth int
	LabelWidth int
	ValueWidth int
	// Precision is the number of decimals of averaged values; nil means
	// DefaultPrecision.
	Precision *int
}

// Validate checks that every group refers to columns within arity.
func (spec *LabelSpec) Validate(arity int) error {
	if len(spec.Groups) == 0 {
		return fmt.Errorf("label spec has no groups")
	}
	if spec.Precision != nil && *spec.Precision < 0 {
		return fmt.Errorf("precision must not be negative, got %d", *spec.Precision)
	}
	for i, group := range spec.Groups {
		if group.Label == "" && (spec.Summary || group.LeftLabel == "" || group.RightLabel == "") {
			return fmt.Errorf("group %d has no label", i)
		}
		if group.Left < 0 || group.Left >= arity {
			return fmt.Errorf("group %q: left column %d out of range [0, %d)", group.Label, group.Left, arity)
		}
		if group.Right < 0 || group.Right >= arity {
			return fmt.Errorf("group %q: right column %d out of range [0, %d)", group.Label, group.Right, arity)
		}
	}
	return nil
}

func (spec *LabelSpec) titleWidth() int {
	if spec.TitleWidth > 0 {
		return spec.TitleWidth
	}
	return DefaultTitleWidth
}

func (spec *LabelSpec) labelWidth() int {
	if spec.LabelWidth > 0 {
		return spec.LabelWidth
	}
	return DefaultLabelWidth
}

func (spec *LabelSpec) valueWidth() int {
	if spec.ValueWidth > 0 {
		return spec.ValueWidth
	}
	return DefaultValueWidth
}

func (spec *LabelSpec) precision() int {
	if spec.Precision != nil {
		return *spec.Precision
	}
	return DefaultPrecision
}
