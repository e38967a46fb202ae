//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package sentiment

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/e-gun/TextAnalysisWorkbench/internal/frame"
	"github.com/e-gun/TextAnalysisWorkbench/internal/textprep"
	"github.com/e-gun/TextAnalysisWorkbench/internal/vv"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNothingToScore = errors.New("no rows left to score after filtering")
	ErrNoLexicon      = errors.New("a lexicon scorer is required")
)

// Analyzer - Transformer may be nil, in which case only the lexicon columns are written
type Analyzer struct {
	Transformer Classifier
	Lexicon     Classifier
	Workers     int
	Logf        func(string)
	Progress    func(done, total int)
}

// Report - what Analyze did; Counts holds label tallies per label column, Unknown rows excluded
type Report struct {
	Filter  textprep.FilterReport     `json:"filter"`
	Counts  map[string]map[string]int `json:"counts"`
	Failed  int                       `json:"failed"`
	Columns []string                  `json:"columns"`
}

type scored struct {
	label string
	score float64
	ok    bool
}

// Analyze - filter the rows, score what is left, append the label and score columns. A second run
// overwrites the same columns.
func (a Analyzer) Analyze(ctx context.Context, f *frame.Frame, col string) (*frame.Frame, Report, error) {
	if a.Lexicon == nil {
		return nil, Report{}, ErrNoLexicon
	}

	nf, fr, err := textprep.FilterEntries(f, col)
	if err != nil {
		return nil, Report{}, err
	}
	if nf.Len() == 0 {
		return nil, Report{}, ErrNothingToScore
	}
	cells, _ := nf.TextColumn(col)

	n := nf.Len()
	lex := make([]scored, n)
	var trf []scored
	if a.Transformer != nil {
		trf = make([]scored, n)
	}

	workers := a.Workers
	if workers < 1 {
		workers = vv.SENTWORKERS
	}

	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			text := cells[i].Text
			lex[i] = a.score(gctx, a.Lexicon, i, text)
			if trf != nil {
				trf[i] = a.score(gctx, a.Transformer, i, text)
			}
			if a.Progress != nil {
				a.Progress(int(done.Add(1)), n)
			}
			return nil
		})
	}
	_ = g.Wait()

	rep := Report{Filter: fr, Counts: make(map[string]map[string]int)}
	var cols []frame.NamedColumn
	if trf != nil {
		cols = append(cols, labelcolumn(vv.COLTRANSLABEL, trf), scorecolumn(vv.COLTRANSSCORE, trf))
	}
	cols = append(cols, labelcolumn(vv.COLVADERLABEL, lex), scorecolumn(vv.COLVADERSCORE, lex))

	combined := make([]frame.Cell, n)
	for i := range combined {
		label := vv.SENTPOSITIVE
		if !lex[i].ok || (trf != nil && !trf[i].ok) {
			label = vv.SENTUNKNOWN
			rep.Failed++
		} else if lex[i].label != vv.SENTPOSITIVE || (trf != nil && trf[i].label != vv.SENTPOSITIVE) {
			label = vv.SENTNEGATIVE
		}
		combined[i] = frame.TextCell(label)
	}
	cols = append(cols, frame.NamedColumn{Name: vv.COLSENTIMENT, Cells: combined})

	for _, c := range cols {
		rep.Columns = append(rep.Columns, c.Name)
		if c.Name == vv.COLTRANSSCORE || c.Name == vv.COLVADERSCORE {
			continue
		}
		tally := map[string]int{}
		for _, cell := range c.Cells {
			if cell.Text != vv.SENTUNKNOWN {
				tally[cell.Text]++
			}
		}
		rep.Counts[c.Name] = tally
	}

	out, err := nf.WithColumns(cols...)
	if err != nil {
		return nil, Report{}, err
	}
	return out, rep, nil
}

// score - a failing row is logged and marked; it never sinks the batch
func (a Analyzer) score(ctx context.Context, c Classifier, row int, text string) (s scored) {
	defer func() {
		if r := recover(); r != nil {
			a.logf(fmt.Sprintf("sentiment: row %d panicked: %v", row, r))
			s = scored{label: vv.SENTUNKNOWN}
		}
	}()
	label, score, err := c.Classify(ctx, text)
	if err != nil {
		a.logf(fmt.Sprintf("sentiment: row %d: %s", row, err.Error()))
		return scored{label: vv.SENTUNKNOWN}
	}
	return scored{label: label, score: score, ok: true}
}

func (a Analyzer) logf(s string) {
	if a.Logf != nil {
		a.Logf(s)
	}
}

func labelcolumn(name string, ss []scored) frame.NamedColumn {
	cc := make([]frame.Cell, len(ss))
	for i, s := range ss {
		cc[i] = frame.TextCell(s.label)
	}
	return frame.NamedColumn{Name: name, Cells: cc}
}

func scorecolumn(name string, ss []scored) frame.NamedColumn {
	cc := make([]frame.Cell, len(ss))
	for i, s := range ss {
		cc[i] = frame.NumberCell(s.score)
	}
	return frame.NamedColumn{Name: name, Cells: cc}
}
