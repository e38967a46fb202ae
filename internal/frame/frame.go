//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package frame

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrNoSuchColumn    = errors.New("no such column")
	ErrNotText         = errors.New("column is not text")
	ErrLengthMismatch  = errors.New("column length does not match the row count")
	ErrDuplicateColumn = errors.New("duplicate column name")
	ErrEmptyFile       = errors.New("file holds no data")
	ErrUnsupported     = errors.New("unsupported file type")
)

// Kind - what a Cell holds
type Kind uint8

const (
	Null Kind = iota
	Text
	Number
)

// Cell - one value; a Text cell may hold the empty string, which is distinct from Null
type Cell struct {
	Kind Kind
	Text string
	Num  float64
}

func NullCell() Cell            { return Cell{} }
func TextCell(s string) Cell    { return Cell{Kind: Text, Text: s} }
func NumberCell(f float64) Cell { return Cell{Kind: Number, Num: f} }

func (c Cell) String() string {
	switch c.Kind {
	case Text:
		return c.Text
	case Number:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	default:
		return ""
	}
}

// IsBlank - null, or text that is only whitespace
func (c Cell) IsBlank() bool {
	return c.Kind == Null || (c.Kind == Text && strings.TrimSpace(c.Text) == "")
}

// Frame - an immutable table: ordered unique column names, rows aligned across columns.
// Every method that changes something returns a new Frame.
type Frame struct {
	cols  []string
	index map[string]int
	data  [][]Cell // column-major
	ids   []int    // row provenance: position in the upload
}

// New - build a frame from row-major data
func New(columns []string, rows [][]Cell) (*Frame, error) {
	f := &Frame{
		cols:  make([]string, len(columns)),
		index: make(map[string]int, len(columns)),
		data:  make([][]Cell, len(columns)),
		ids:   make([]int, len(rows)),
	}
	for i, c := range columns {
		if _, dup := f.index[c]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c)
		}
		f.cols[i] = c
		f.index[c] = i
		f.data[i] = make([]Cell, len(rows))
	}
	for r, row := range rows {
		if len(row) > len(columns) {
			return nil, fmt.Errorf("row %d has %d cells for %d columns: %w", r, len(row), len(columns), ErrLengthMismatch)
		}
		for c := range columns {
			if c < len(row) {
				f.data[c][r] = row[c]
			}
		}
		f.ids[r] = r
	}
	return f, nil
}

// FromRecords - string records as they come out of a spreadsheet; "" becomes Null, ragged rows are padded
func FromRecords(header []string, records [][]string) *Frame {
	cols := uniqueheader(header)
	width := len(cols)
	for _, r := range records {
		if len(r) > width {
			width = len(r)
		}
	}
	for len(cols) < width {
		cols = uniqueheader(append(cols, ""))
	}

	rows := make([][]Cell, len(records))
	for i, rec := range records {
		rows[i] = make([]Cell, width)
		for j, v := range rec {
			if v != "" {
				rows[i][j] = TextCell(v)
			}
		}
	}
	// uniqueheader guarantees New cannot fail
	f, _ := New(cols, rows)
	return f
}

// uniqueheader - blank names become "Column_N"; repeats become "name_2", "name_3", ...
func uniqueheader(header []string) []string {
	seen := make(map[string]bool, len(header))
	out := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		name := h
		for n := 2; seen[name]; n++ {
			name = fmt.Sprintf("%s_%d", h, n)
		}
		seen[name] = true
		out[i] = name
	}
	return out
}

func (f *Frame) Columns() []string {
	out := make([]string, len(f.cols))
	copy(out, f.cols)
	return out
}

func (f *Frame) Len() int { return len(f.ids) }

func (f *Frame) Has(col string) bool {
	_, ok := f.index[col]
	return ok
}

// Column - a copy of the named column
func (f *Frame) Column(col string) ([]Cell, error) {
	i, ok := f.index[col]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchColumn, col)
	}
	out := make([]Cell, len(f.data[i]))
	copy(out, f.data[i])
	return out, nil
}

// TextColumn - the named column, provided that it holds no numbers
func (f *Frame) TextColumn(col string) ([]Cell, error) {
	cc, err := f.Column(col)
	if err != nil {
		return nil, err
	}
	for _, c := range cc {
		if c.Kind == Number {
			return nil, fmt.Errorf("%w: %q", ErrNotText, col)
		}
	}
	return cc, nil
}

func (f *Frame) Cell(row int, col string) (Cell, error) {
	i, ok := f.index[col]
	if !ok {
		return Cell{}, fmt.Errorf("%w: %q", ErrNoSuchColumn, col)
	}
	if row < 0 || row >= f.Len() {
		return Cell{}, fmt.Errorf("row %d out of range", row)
	}
	return f.data[i][row], nil
}

// RowIDs - position of each row in the upload
func (f *Frame) RowIDs() []int {
	out := make([]int, len(f.ids))
	copy(out, f.ids)
	return out
}

// WithColumn - append the column, or overwrite it in place if the name is already present
func (f *Frame) WithColumn(name string, cells []Cell) (*Frame, error) {
	if len(cells) != f.Len() {
		return nil, fmt.Errorf("%q has %d cells for %d rows: %w", name, len(cells), f.Len(), ErrLengthMismatch)
	}
	nf := f.shallow()
	col := make([]Cell, len(cells))
	copy(col, cells)
	if i, ok := nf.index[name]; ok {
		nf.data[i] = col
		return nf, nil
	}
	nf.index[name] = len(nf.cols)
	nf.cols = append(nf.cols, name)
	nf.data = append(nf.data, col)
	return nf, nil
}

// NamedColumn - input to WithColumns
type NamedColumn struct {
	Name  string
	Cells []Cell
}

func (f *Frame) WithColumns(cc ...NamedColumn) (*Frame, error) {
	nf := f
	var err error
	for _, c := range cc {
		nf, err = nf.WithColumn(c.Name, c.Cells)
		if err != nil {
			return nil, err
		}
	}
	return nf, nil
}

// Filter - only the rows for which keep(row) is true; ids travel with their rows
func (f *Frame) Filter(keep func(row int) bool) *Frame {
	var kept []int
	for r := 0; r < f.Len(); r++ {
		if keep(r) {
			kept = append(kept, r)
		}
	}
	nf := &Frame{
		cols:  f.Columns(),
		index: make(map[string]int, len(f.cols)),
		data:  make([][]Cell, len(f.cols)),
		ids:   make([]int, len(kept)),
	}
	for i, c := range f.cols {
		nf.index[c] = i
		nf.data[i] = make([]Cell, len(kept))
		for j, r := range kept {
			nf.data[i][j] = f.data[i][r]
		}
	}
	for j, r := range kept {
		nf.ids[j] = f.ids[r]
	}
	return nf
}

// Head - the first n rows
func (f *Frame) Head(n int) *Frame {
	return f.Filter(func(r int) bool { return r < n })
}

// Clone - a deep copy
func (f *Frame) Clone() *Frame {
	return f.Filter(func(int) bool { return true })
}

// Equal - same columns in the same order, same cells, same row provenance
func (f *Frame) Equal(o *Frame) bool {
	if f == nil || o == nil {
		return f == o
	}
	if len(f.cols) != len(o.cols) || f.Len() != o.Len() {
		return false
	}
	for i := range f.cols {
		if f.cols[i] != o.cols[i] {
			return false
		}
		for r := range f.data[i] {
			if f.data[i][r] != o.data[i][r] {
				return false
			}
		}
	}
	for r := range f.ids {
		if f.ids[r] != o.ids[r] {
			return false
		}
	}
	return true
}

// Records - every row as strings; Null is ""
func (f *Frame) Records() [][]string {
	out := make([][]string, f.Len())
	for r := range out {
		out[r] = make([]string, len(f.cols))
		for c := range f.cols {
			out[r][c] = f.data[c][r].String()
		}
	}
	return out
}

// Table - a json-ready view
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Total   int        `json:"total"`
}

func (f *Frame) Table(n int) Table {
	h := f.Head(n)
	return Table{Columns: h.Columns(), Rows: h.Records(), Total: f.Len()}
}

// shallow - new column index and slice headers; the cells are shared until replaced
func (f *Frame) shallow() *Frame {
	nf := &Frame{
		cols:  f.Columns(),
		index: make(map[string]int, len(f.cols)),
		data:  make([][]Cell, len(f.data)),
		ids:   f.ids,
	}
	for k, v := range f.index {
		nf.index[k] = v
	}
	copy(nf.data, f.data)
	return nf
}
