//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package wordfreq

import (
	"errors"
	"fmt"
	"sort"

	"github.com/e-gun/TextAnalysisWorkbench/internal/frame"
	"github.com/e-gun/TextAnalysisWorkbench/internal/gen"
	"github.com/e-gun/TextAnalysisWorkbench/internal/textprep"
	"github.com/e-gun/TextAnalysisWorkbench/internal/vv"
)

var ErrEmptyCorpus = errors.New("no words left to count")

// Options - RemoveStops picks each document's stopwords by its own language; Exclude is the user's list
type Options struct {
	RemoveStops bool
	Exclude     []string
	TopN        int
}

// WordCount - one row of the frequency table
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Result - counts for the whole column
type Result struct {
	Column  string         `json:"column"`
	Counts  map[string]int `json:"-"`
	Top     []WordCount    `json:"top"`
	Docs    int            `json:"docs"`
	Skipped int            `json:"skipped"`

	source      *frame.Frame
	removestops bool
	trimmed     bool // user exclusions already applied
}

// CountedFrom - r holds the untrimmed counts of this very frame and column with the same stopword choice
func (r Result) CountedFrom(f *frame.Frame, col string, removestops bool) bool {
	return r.source != nil && r.source == f && r.Column == col && r.removestops == removestops && !r.trimmed
}

// Analyze - count the words of a text column; blank rows are skipped and a row that cannot be processed is logged and skipped
func Analyze(f *frame.Frame, col string, det textprep.Detector, opt Options, logf func(string)) (Result, error) {
	cells, err := f.TextColumn(col)
	if err != nil {
		return Result{}, err
	}
	if opt.TopN <= 0 {
		opt.TopN = vv.CLOUDTOPWORDS
	}
	exclude := textprep.WithUserWords(nil, opt.Exclude)

	res := Result{
		Column:      col,
		Counts:      make(map[string]int),
		source:      f,
		removestops: opt.RemoveStops,
		trimmed:     len(exclude) > 0,
	}
	for i, c := range cells {
		if c.IsBlank() {
			res.Skipped++
			continue
		}
		words, rerr := cleanrow(c.Text, det, opt.RemoveStops, exclude)
		if rerr != nil {
			res.Skipped++
			if logf != nil {
				logf(fmt.Sprintf("wordfreq: row %d skipped: %s", i, rerr.Error()))
			}
			continue
		}
		res.Docs++
		for _, w := range words {
			res.Counts[w]++
		}
	}

	if len(res.Counts) == 0 {
		return Result{}, ErrEmptyCorpus
	}
	res.Top = Top(res.Counts, opt.TopN)
	return res, nil
}

// cleanrow - a detector may panic on odd input; that costs the row and not the batch
func cleanrow(text string, det textprep.Detector, removestops bool, exclude textprep.StopSet) (words []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	words = textprep.AlphaTokens(text)
	if removestops {
		words = textprep.WithoutStops(words, textprep.DocumentStops(det, text))
	}
	return textprep.WithoutStops(words, exclude), nil
}

// Top - the n most frequent words, ties broken alphabetically
func Top(counts map[string]int, n int) []WordCount {
	keys := gen.SortedKeys(counts)
	sort.SliceStable(keys, func(i, j int) bool { return counts[keys[i]] > counts[keys[j]] })
	if n > len(keys) {
		n = len(keys)
	}
	out := make([]WordCount, n)
	for i := 0; i < n; i++ {
		out[i] = WordCount{Word: keys[i], Count: counts[keys[i]]}
	}
	return out
}

// Exclude - the same result with more words dropped; nothing is recounted
func (r Result) Exclude(words []string, n int) (Result, error) {
	drop := textprep.WithUserWords(nil, words)
	nr := r
	nr.trimmed = nr.trimmed || len(drop) > 0
	nr.Counts = make(map[string]int, len(r.Counts))
	for w, c := range r.Counts {
		if !drop.Has(w) {
			nr.Counts[w] = c
		}
	}
	if len(nr.Counts) == 0 {
		return Result{}, ErrEmptyCorpus
	}
	if n <= 0 {
		n = vv.CLOUDTOPWORDS
	}
	nr.Top = Top(nr.Counts, n)
	return nr, nil
}
