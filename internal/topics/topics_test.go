//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package topics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/e-gun/TextAnalysisWorkbench/internal/frame"
	"github.com/e-gun/TextAnalysisWorkbench/internal/vv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

var labels = []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot"}

// english - every document is English
type english struct{}

func (english) Detect(string) (string, bool) { return "en", true }

// labelled - the first word of a doc decides its topic; unknown first words spread evenly
type labelled struct {
	asked []int
}

func (e *labelled) Fit(docs []string, k int) (Fit, error) {
	e.asked = append(e.asked, k)

	seen := map[string]bool{}
	for _, d := range docs {
		for _, w := range strings.Fields(d) {
			seen[w] = true
		}
	}
	var vocab []string
	for w := range seen {
		vocab = append(vocab, w)
	}
	sort.Strings(vocab)
	col := make(map[string]int, len(vocab))
	for i, w := range vocab {
		col[w] = i
	}

	dt := mat.NewDense(len(docs), k, nil)
	tw := mat.NewDense(k, len(vocab), nil)
	in := make([]bool, len(docs))
	for d, doc := range docs {
		in[d] = true
		ww := strings.Fields(doc)
		t := -1
		for i, l := range labels {
			if ww[0] == l {
				t = i % k
			}
		}
		for c := 0; c < k; c++ {
			switch {
			case t < 0:
				dt.Set(d, c, 1/float64(k))
			case c == t:
				dt.Set(d, c, 0.9)
			default:
				dt.Set(d, c, 0.1/float64(k-1))
			}
		}
		if t < 0 {
			continue
		}
		for _, w := range ww {
			tw.Set(t, col[w], tw.At(t, col[w])+1)
		}
	}
	return Fit{DocTopic: dt, TopicWord: tw, Vocab: vocab, InVocab: in}, nil
}

func corpus(n int, extra ...string) *frame.Frame {
	var rows [][]string
	for i := 0; i < n; i++ {
		l := labels[i%len(labels)]
		rows = append(rows, []string{fmt.Sprintf("%d", i), fmt.Sprintf("%s %s%d the %sish", l, l, i%3, l)})
	}
	for i, e := range extra {
		rows = append(rows, []string{fmt.Sprintf("x%d", i), e})
	}
	return frame.FromRecords([]string{"id", "Answer"}, rows)
}

func fitted(t *testing.T, eng Engine, f *frame.Frame, k int) (Model, *frame.Frame) {
	t.Helper()
	m, out, err := Fitter{Engine: eng, Detector: english{}}.Fit(Model{}, f, Request{Column: "Answer", Topics: k})
	require.NoError(t, err)
	return m, out
}

func distinct(assign []int) int {
	set := map[int]bool{}
	for _, a := range assign {
		if a != vv.TOPICOUTLIER {
			set[a] = true
		}
	}
	return len(set)
}

func TestClampTopics(t *testing.T) {
	tests := []struct {
		k, natural, docs, want int
	}{
		{20, 6, 200, 15},
		{1, 6, 200, 2},
		{10, 6, 200, 10},
		{10, 6, 12, 6},
		{40, 30, 500, 40},
		{99, 40, 500, 50},
		{5, 1, 3, 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampTopics(tt.k, tt.natural, tt.docs), "%+v", tt)
	}
}

func TestTransitions(t *testing.T) {
	s, err := transition(Unfit, Fitting)
	require.NoError(t, err)
	s, err = transition(s, Fitted)
	require.NoError(t, err)
	s, err = transition(s, Reducing)
	require.NoError(t, err)
	s, err = transition(s, Fitted)
	require.NoError(t, err)
	assert.Equal(t, Fitted, s)

	_, err = transition(Unfit, Reducing)
	assert.ErrorIs(t, err, ErrBadTransition)
	_, err = transition(Unfit, Fitted)
	assert.ErrorIs(t, err, ErrBadTransition)
	for _, from := range []State{Unfit, Fitting, Fitted, Reducing} {
		to, err := transition(from, Unfit)
		assert.NoError(t, err)
		assert.Equal(t, Unfit, to)
	}
	assert.Equal(t, "REDUCING", Reducing.String())
}

func TestFitNatural(t *testing.T) {
	eng := &labelled{}
	f := corpus(200, "123", "the and of", "")
	var stages []float64
	m, out, err := Fitter{Engine: eng, Detector: english{}, Progress: func(_ string, frac float64) {
		stages = append(stages, frac)
	}}.Fit(Model{}, f, Request{Column: "Answer"})
	require.NoError(t, err)

	assert.Equal(t, Fitted, m.State())
	assert.Equal(t, []int{14}, eng.asked, "discovery runs at round(sqrt(docs))")
	assert.Equal(t, 6, m.Natural)
	assert.Equal(t, 6, m.Topics())
	assert.Equal(t, "en", m.Language)
	assert.Equal(t, vv.EMBEDMONOLINGUAL, m.Strategy)
	assert.Equal(t, 2, m.Filter.Removed)
	assert.Equal(t, []float64{0, 0.3, 0.7, 1}, stages)

	// "the and of" survives filtering but has nothing left after stopwords
	assert.Equal(t, 200, out.Len())
	assert.Equal(t, []string{"id", "Answer", vv.COLTOPIC, vv.COLTOPICPROB}, out.Columns())
	c, err := out.Cell(0, vv.COLTOPIC)
	require.NoError(t, err)
	assert.Equal(t, frame.Number, c.Kind)
	p, _ := out.Cell(0, vv.COLTOPICPROB)
	assert.InDelta(t, 0.9, p.Num, 1e-9)

	// alpha and bravo hold 34 docs each; ties keep discovery order
	ov, err := m.Info()
	require.NoError(t, err)
	require.Len(t, ov.Table, 6)
	assert.Equal(t, 34, ov.Table[0].Count)
	assert.Equal(t, "alpha", ov.Table[0].Keywords[0])
	assert.True(t, strings.HasPrefix(ov.Table[0].Name, "0_alpha_"))
	assert.Len(t, ov.Table[0].Representative, REPRESENTATIVE)
	assert.Equal(t, 15, ov.Max)
	assert.Equal(t, 0, ov.Outliers)
}

func TestFitWithCount(t *testing.T) {
	m, out := fitted(t, &labelled{}, corpus(200), 3)
	assert.Equal(t, 3, m.Topics())
	assert.Equal(t, 6, m.Natural)

	tc, _ := out.Column(vv.COLTOPIC)
	seen := map[float64]bool{}
	for _, c := range tc {
		seen[c.Num] = true
	}
	assert.Len(t, seen, 3)
}

func TestReduceClamps(t *testing.T) {
	eng := &labelled{}
	m, _ := fitted(t, eng, corpus(200), 0)
	ft := Fitter{Engine: eng}

	up, err := ft.Reduce(m, 20)
	require.NoError(t, err)
	assert.Equal(t, 15, eng.asked[len(eng.asked)-1], "20 is clamped to natural x 2.5")
	assert.LessOrEqual(t, distinct(up.Assignments()), 15)
	assert.Equal(t, 6, up.Natural)

	down, err := ft.Reduce(up, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, down.Topics())
	assert.Equal(t, 2, distinct(down.Assignments()))

	back, err := ft.Reduce(down, 6)
	require.NoError(t, err)
	assert.Equal(t, 6, back.Topics())
	assert.Equal(t, m.Assignments(), back.Assignments())
}

func TestReduceNeverExceedsRequest(t *testing.T) {
	eng := &labelled{}
	m, _ := fitted(t, eng, corpus(200, "stray words here", "stray again now"), 0)
	ft := Fitter{Engine: eng}
	for k := 2; k <= 15; k++ {
		r, err := ft.Reduce(m, k)
		require.NoError(t, err)
		assert.LessOrEqual(t, distinct(r.Assignments()), k, "k=%d", k)
		assert.Len(t, r.Assignments(), len(m.Docs))
	}
}

func TestReduceMergesProbability(t *testing.T) {
	m, _ := fitted(t, &labelled{}, corpus(60), 0)
	r, err := Fitter{Engine: &labelled{}}.Reduce(m, 2)
	require.NoError(t, err)
	for d, a := range r.Assignments() {
		assert.GreaterOrEqual(t, r.current.prob[d], m.current.prob[d], "doc %d topic %d", d, a)
		assert.InDelta(t, floatsum(m.current.dist[d]), floatsum(r.current.dist[d]), 1e-9)
	}
}

func floatsum(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}

func TestOutliers(t *testing.T) {
	m, out := fitted(t, &labelled{}, corpus(100, "stray one", "stray two", "stray three"), 0)
	ov, err := m.Info()
	require.NoError(t, err)
	assert.Equal(t, 3, ov.Outliers)
	assert.Equal(t, vv.TOPICOUTLIER, ov.Table[0].Topic)
	assert.Equal(t, "-1_outliers", ov.Table[0].Name)

	c, _ := out.Cell(out.Len()-1, vv.COLTOPIC)
	assert.Equal(t, float64(vv.TOPICOUTLIER), c.Num)

	r, err := Fitter{Engine: &labelled{}}.Reduce(m, 2)
	require.NoError(t, err)
	last := r.Assignments()[len(m.Docs)-1]
	assert.Equal(t, vv.TOPICOUTLIER, last, "outliers stay outliers when topics merge")
}

func TestAllOutliersFallsBack(t *testing.T) {
	m, _ := fitted(t, &labelled{}, corpus(0, "stray a b", "stray c d", "stray e f"), 0)
	assert.Equal(t, 0, m.current.assign[0])
	assert.Equal(t, 1, m.Natural)
}

func TestFitErrors(t *testing.T) {
	ft := Fitter{Engine: &labelled{}, Detector: english{}}
	m, _, err := ft.Fit(Model{}, corpus(1, "123"), Request{Column: "Answer"})
	assert.ErrorIs(t, err, ErrTooFewDocuments)
	assert.Equal(t, Unfit, m.State())

	_, _, err = ft.Fit(Model{}, corpus(10), Request{Column: "missing"})
	assert.ErrorIs(t, err, frame.ErrNoSuchColumn)

	_, err = ft.Reduce(Model{}, 4)
	assert.ErrorIs(t, err, ErrNotFitted)
	_, err = Model{}.Info()
	assert.ErrorIs(t, err, ErrNotFitted)
	_, err = Model{}.Map()
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestFitDigitOnlyCorpus(t *testing.T) {
	f := frame.FromRecords([]string{"Answer"}, [][]string{{"2024 2025"}, {"1999 2000"}, {"12 13"}, {"7 8 9"}})
	ft := Fitter{Engine: NewLDA(20, 1, 1), Detector: english{}}

	var err error
	var m Model
	require.NotPanics(t, func() {
		m, _, err = ft.Fit(Model{}, f, Request{Column: "Answer"})
	})
	assert.ErrorIs(t, err, ErrTooFewDocuments)
	assert.Equal(t, Unfit, m.State())

	f = frame.FromRecords([]string{"Answer"}, [][]string{{"2024 2025"}, {"great lectures"}, {"7 8 9"}})
	_, _, err = ft.Fit(Model{}, f, Request{Column: "Answer"})
	assert.ErrorIs(t, err, ErrTooFewDocuments)
}

func TestRefitAndDiscard(t *testing.T) {
	m, _ := fitted(t, &labelled{}, corpus(40), 0)
	again, _, err := Fitter{Engine: &labelled{}, Detector: english{}}.Fit(m, corpus(40), Request{Column: "Answer"})
	require.NoError(t, err)
	assert.Equal(t, Fitted, again.State())

	gone := again.Discard()
	assert.Equal(t, Unfit, gone.State())
	assert.Equal(t, 0, gone.Topics())
}

func TestAnnotateLaterFrame(t *testing.T) {
	m, out := fitted(t, &labelled{}, corpus(30), 0)
	head := out.Head(5)
	ann, err := m.Annotate(head)
	require.NoError(t, err)
	for r := 0; r < 5; r++ {
		a, _ := ann.Cell(r, vv.COLTOPIC)
		b, _ := out.Cell(r, vv.COLTOPIC)
		assert.Equal(t, b, a)
	}
}

func TestMap(t *testing.T) {
	m, _ := fitted(t, &labelled{}, corpus(120), 0)
	pts, err := m.Map()
	require.NoError(t, err)
	require.Len(t, pts, 6)
	for _, p := range pts {
		assert.False(t, math.IsNaN(p.X) || math.IsNaN(p.Y))
		assert.Positive(t, p.Size)
	}

	labels, sizes := m.Barchart(4)
	assert.Len(t, labels, 4)
	assert.Equal(t, []int{20, 20, 20, 20}, sizes)
}

func TestLDA(t *testing.T) {
	docs := []string{
		"cheap price cost money",
		"price cost expensive money",
		"lecturer lecture clear helpful",
		"lecture lecturer slides helpful",
		"money price cheap",
		"slides clear lecturer",
	}
	fit, err := NewLDA(30, 1, vv.LDASEED).Fit(docs, 2)
	require.NoError(t, err)

	r, c := fit.DocTopic.Dims()
	assert.Equal(t, 6, r)
	assert.Equal(t, 2, c)
	tr, tc := fit.TopicWord.Dims()
	assert.Equal(t, 2, tr)
	assert.Equal(t, len(fit.Vocab), tc)
	assert.Contains(t, fit.Vocab, "lecturer")
	for _, in := range fit.InVocab {
		assert.True(t, in)
	}
}
