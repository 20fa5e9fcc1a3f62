package variants

import (
	"errors"
	"fmt"
)

// Breakpoint maps a short label to a pixel width.
type Breakpoint struct {
	Label string
	Width int
}

// Table is an ordered, read-only set of breakpoints shared by every image
// in a run.
type Table struct {
	entries []Breakpoint
	byLabel map[string]int
}

// NewTable validates and copies breakpoints into a Table.
func NewTable(breakpoints []Breakpoint) (Table, error) {
	if len(breakpoints) == 0 {
		return Table{}, errors.New("breakpoint table is empty")
	}
	table := Table{
		entries: make([]Breakpoint, 0, len(breakpoints)),
		byLabel: make(map[string]int, len(breakpoints)),
	}
	for _, bp := range breakpoints {
		if bp.Label == "" {
			return Table{}, errors.New("breakpoint label is empty")
		}
		if bp.Width <= 0 {
			return Table{}, fmt.Errorf("breakpoint %q: width must be positive", bp.Label)
		}
		if _, dup := table.byLabel[bp.Label]; dup {
			return Table{}, fmt.Errorf("breakpoint %q: duplicate label", bp.Label)
		}
		table.byLabel[bp.Label] = len(table.entries)
		table.entries = append(table.entries, bp)
	}
	return table, nil
}

// Entries returns a copy of the breakpoints in table order.
func (t Table) Entries() []Breakpoint {
	return append([]Breakpoint(nil), t.entries...)
}

// Labels returns the breakpoint labels in table order.
func (t Table) Labels() []string {
	labels := make([]string, len(t.entries))
	for i, bp := range t.entries {
		labels[i] = bp.Label
	}
	return labels
}

// Width returns the width registered for label.
func (t Table) Width(label string) (int, bool) {
	idx, ok := t.byLabel[label]
	if !ok {
		return 0, false
	}
	return t.entries[idx].Width, true
}

// Len reports the number of breakpoints.
func (t Table) Len() int {
	return len(t.entries)
}
