//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/e-gun/TextAnalysisWorkbench/internal/frame"
	"github.com/e-gun/TextAnalysisWorkbench/internal/vv"
)

var (
	ErrNoDataset     = errors.New("no dataset has been uploaded")
	ErrBadView       = errors.New("unknown view mode")
	ErrDroppedColumn = errors.New("a module may not remove columns")
)

// View - which snapshot the display reads
type View string

const (
	Current  View = vv.VIEWCURRENT
	Original View = vv.VIEWORIGINAL
)

// Record - one finished module run
type Record struct {
	Module      string   `json:"module"`
	Description string   `json:"description"`
	Columns     []string `json:"columns_added"`
}

// Store - the per-session datasets plus the transformation log. It is a value: every
// method that changes something returns a new Store and leaves the receiver alone.
type Store struct {
	original *frame.Frame
	current  *frame.Frame
	log      []Record
	owners   map[string]string // column -> module that last wrote it
	view     View
}

// Initialize - a fresh upload: both snapshots are the upload, the log is empty, the view is "current"
func (s Store) Initialize(f *frame.Frame) Store {
	return Store{
		original: f.Clone(),
		current:  f.Clone(),
		owners:   map[string]string{},
		view:     Current,
	}
}

func (s Store) Loaded() bool { return s.original != nil }

// Current - the working dataset that modules read and replace
func (s Store) Current() *frame.Frame { return s.current }

// Original - the upload as it arrived
func (s Store) Original() *frame.Frame { return s.original }

func (s Store) View() View {
	if s.view == "" {
		return Current
	}
	return s.view
}

// WithView - the display toggle; neither dataset is touched
func (s Store) WithView(v View) (Store, error) {
	switch v {
	case Current, Original:
		s.view = v
		return s, nil
	default:
		return s, fmt.Errorf("%w: %q", ErrBadView, v)
	}
}

// Active - the dataset the display should show: the view selects, it never mutates
func (s Store) Active() *frame.Frame {
	if s.View() == Original {
		return s.original
	}
	return s.current
}

// Reset - current becomes a fresh copy of the original and the log is cleared; false if nothing was ever uploaded
func (s Store) Reset() (Store, bool) {
	if s.original == nil {
		return s, false
	}
	return Store{
		original: s.original,
		current:  s.original.Clone(),
		owners:   map[string]string{},
		view:     s.View(),
	}, true
}

// Apply - replace the working dataset wholesale and log the run
func (s Store) Apply(f *frame.Frame, module, description string, added []string) (Store, error) {
	if s.current == nil {
		return s, ErrNoDataset
	}
	for _, c := range s.current.Columns() {
		if !f.Has(c) {
			return s, fmt.Errorf("%w: %s dropped %q", ErrDroppedColumn, module, c)
		}
	}
	s.current = f
	return s.Record(module, added, description), nil
}

// Record - append to the log; provenance is last-writer-wins and only ever names derived columns
func (s Store) Record(module string, added []string, description string) Store {
	cols := make([]string, len(added))
	copy(cols, added)

	log := make([]Record, len(s.log), len(s.log)+1)
	copy(log, s.log)
	s.log = append(log, Record{Module: module, Description: description, Columns: cols})

	owners := make(map[string]string, len(s.owners)+len(cols))
	for k, v := range s.owners {
		owners[k] = v
	}
	for _, c := range cols {
		if s.original != nil && s.original.Has(c) {
			continue
		}
		owners[c] = module
	}
	s.owners = owners
	return s
}

// HasRun - advisory only; callers warn, they never refuse
func (s Store) HasRun(module string) bool {
	for _, r := range s.log {
		if r.Module == module {
			return true
		}
	}
	return false
}

// Summary - read-only view of the log
type Summary struct {
	Records    []Record          `json:"transformations"`
	Provenance map[string]string `json:"columns_added"`
	Applied    string            `json:"applied"`
	NewColumns []string          `json:"new_columns"`
	View       View              `json:"view_mode"`
	Rows       int               `json:"rows"`
	Columns    int               `json:"columns"`
}

func (s Store) Summary() Summary {
	sm := Summary{
		Records:    make([]Record, len(s.log)),
		Provenance: make(map[string]string, len(s.owners)),
		View:       s.View(),
	}
	copy(sm.Records, s.log)
	for k, v := range s.owners {
		sm.Provenance[k] = v
	}

	var mods []string
	for _, r := range s.log {
		mods = append(mods, r.Module)
	}
	sm.Applied = strings.Join(mods, " → ")

	if s.current != nil {
		sm.Rows = s.current.Len()
		sm.Columns = len(s.current.Columns())
		for _, c := range s.current.Columns() {
			if _, ok := s.owners[c]; ok {
				sm.NewColumns = append(sm.NewColumns, c)
			}
		}
	}
	return sm
}

// StatusLine - e.g. "Applied: Sentiment Analysis → Topic Modeling | +7 columns"
func (sm Summary) StatusLine() string {
	if len(sm.Records) == 0 {
		return "No transformations applied"
	}
	line := "Applied: " + sm.Applied
	if len(sm.NewColumns) > 0 {
		line += fmt.Sprintf(" | +%d columns: %s", len(sm.NewColumns), strings.Join(sm.NewColumns, ", "))
	}
	return line
}

// ColumnsFor - the columns a module may pick from; the text modules list the uploaded columns first
func (s Store) ColumnsFor(module string) []string {
	if s.current == nil {
		return nil
	}
	all := s.current.Columns()
	if module != vv.MODSENTIMENT && module != vv.MODTOPICS {
		return all
	}
	var orig, derived []string
	for _, c := range all {
		if s.original.Has(c) {
			orig = append(orig, c)
		} else {
			derived = append(derived, c)
		}
	}
	return append(orig, derived...)
}
