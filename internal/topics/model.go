//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package topics

import (
	"fmt"
	"math"
	"sort"

	"github.com/e-gun/TextAnalysisWorkbench/internal/frame"
	"github.com/e-gun/TextAnalysisWorkbench/internal/gen"
	"github.com/e-gun/TextAnalysisWorkbench/internal/textprep"
	"github.com/e-gun/TextAnalysisWorkbench/internal/vv"
	"gonum.org/v1/gonum/mat"
)

// Request - Topics == 0 asks for the natural count
type Request struct {
	Column    string
	Topics    int
	UserStops []string
}

// Progress - coarse checkpoints: stage name and fraction done
type Progress func(stage string, frac float64)

// topicset - a set of topics and the documents that belong to them
type topicset struct {
	vectors [][]float64 // topic x vocab; each row sums to 1
	sizes   []int
	assign  []int       // per doc; -1 is the outlier topic
	prob    []float64   // per doc: probability of its assigned topic
	dist    [][]float64 // doc x topic
}

// Model - a fitted (or unfit) topic model. Methods return new Models.
type Model struct {
	state    State
	Column   string
	Language string
	Strategy string
	Filter   textprep.FilterReport
	Docs     []string // as the engine saw them
	RowIDs   []int    // upload positions of Docs
	Vocab    []string
	Natural  int
	// Embedding names the document embedding model; EmbedError says why there is none
	Embedding  string
	EmbedError string
	embeds     *mat.Dense // doc x dim, rows match Docs
	natural    topicset
	current    topicset
}

func (m Model) State() State { return m.state }

// Topics - the current number of topics
func (m Model) Topics() int { return len(m.current.vectors) }

// Assignments - per doc; -1 for outliers
func (m Model) Assignments() []int {
	out := make([]int, len(m.current.assign))
	copy(out, m.current.assign)
	return out
}

// Discard - any state may drop back to UNFIT
func (m Model) Discard() Model {
	return Model{state: Unfit}
}

// ClampTopics - requested count forced into [2, min(natural x 2.5, docs/2, 50)]
func ClampTopics(k, natural, docs int) int {
	hi := min(int(math.Floor(float64(natural)*vv.TOPICNATURALMULT)), docs/vv.TOPICDOCDIVISOR, vv.TOPICABSMAX)
	if hi < vv.TOPICMIN {
		hi = vv.TOPICMIN
	}
	return gen.Clamp(k, vv.TOPICMIN, hi)
}

// Fitter - everything Fit needs from the outside; Embedder may be nil
type Fitter struct {
	Engine   Engine
	Detector textprep.Detector
	Embedder Embedder
	Progress Progress
}

func (ft Fitter) progress(stage string, frac float64) {
	if ft.Progress != nil {
		ft.Progress(stage, frac)
	}
}

// Fit - filter, prepare, discover the natural topics, then reduce if a count was requested. The returned
// frame holds only the documents that survived preparation plus the Topic and Topic_Probability columns.
func (ft Fitter) Fit(m Model, f *frame.Frame, req Request) (Model, *frame.Frame, error) {
	st, err := transition(m.state, Fitting)
	if err != nil {
		return m, nil, err
	}
	ft.progress(st.String(), 0)

	nf, rep, err := textprep.FilterEntries(f, req.Column)
	if err != nil {
		return m, nil, err
	}
	cells, _ := nf.TextColumn(req.Column)
	texts := make([]string, len(cells))
	for i, c := range cells {
		texts[i] = c.Text
	}

	lang, _ := textprep.Dominant(ft.Detector, texts)
	strategy := textprep.SelectStrategy(lang, req.UserStops)

	prepared := make([]string, len(texts))
	for i, t := range texts {
		prepared[i] = strategy.Prepare(t)
	}
	nf = nf.Filter(func(r int) bool { return prepared[r] != "" })

	var docs []string
	for _, p := range prepared {
		if p != "" {
			docs = append(docs, p)
		}
	}
	if len(docs) < vv.TOPICMIN {
		return m, nil, fmt.Errorf("%w: %d left after filtering", ErrTooFewDocuments, len(docs))
	}
	ft.progress(st.String(), 0.3)

	embeds, ename, eerr := ft.embed(docs, strategy.Name, st)

	k0 := gen.Clamp(int(math.Round(math.Sqrt(float64(len(docs))))), vv.TOPICMIN, vv.TOPICABSMAX)
	fit, err := ft.Engine.Fit(docs, k0)
	if err != nil {
		return m, nil, err
	}
	natural := discover(fit, k0)
	ft.progress(st.String(), 0.7)

	nm := Model{
		state:    st,
		Column:   req.Column,
		Language: lang,
		Strategy: strategy.Name,
		Filter:   rep,
		Docs:     docs,
		RowIDs:   nf.RowIDs(),
		Vocab:    fit.Vocab,
		Natural:  len(natural.vectors),
		natural:  natural,
		current:  natural,
	}
	nm.embeds, nm.Embedding = embeds, ename
	if eerr != nil {
		nm.EmbedError = eerr.Error()
	}
	if nm.state, err = transition(nm.state, Fitted); err != nil {
		return m, nil, err
	}

	if req.Topics > 0 {
		if nm, err = ft.Reduce(nm, req.Topics); err != nil {
			return m, nil, err
		}
	}

	out, err := nm.Annotate(nf)
	if err != nil {
		return m, nil, err
	}
	ft.progress(nm.state.String(), 1)
	return nm, out, nil
}

// embed - a failed embedding leaves the model without one; the topics do not depend on it
func (ft Fitter) embed(docs []string, strategy string, st State) (*mat.Dense, string, error) {
	if ft.Embedder == nil {
		return nil, "", nil
	}
	emb, err := ft.Embedder.Embed(docs, strategy, func(frac float64) {
		ft.progress(st.String(), 0.3+0.2*frac)
	})
	if err != nil {
		return nil, "", err
	}
	return emb, ft.Embedder.Describe(strategy), nil
}

// Reduce - move to k topics (after clamping). At or below the natural count the natural topics are merged;
// above it the stored documents are refit. The natural fit is always the starting point.
func (ft Fitter) Reduce(m Model, k int) (Model, error) {
	if m.state != Fitted {
		return m, ErrNotFitted
	}
	st, err := transition(m.state, Reducing)
	if err != nil {
		return m, err
	}
	ft.progress(st.String(), 0)

	k = ClampTopics(k, m.Natural, len(m.Docs))
	nm := m

	if k >= m.Natural {
		if k == m.Natural {
			nm.current = m.natural
		} else {
			fit, ferr := ft.Engine.Fit(m.Docs, k)
			if ferr != nil {
				return m, ferr
			}
			nm.current = discover(fit, k)
			nm.Vocab = fit.Vocab
		}
	} else {
		nm.current = merge(m.natural, k)
	}

	nm.state, err = transition(st, Fitted)
	if err != nil {
		return m, err
	}
	ft.progress(nm.state.String(), 1)
	return nm, nil
}

// Annotate - write the current assignment into f; rows are matched by upload position, so f may be the
// frame Fit returned or any later frame derived from it
func (m Model) Annotate(f *frame.Frame) (*frame.Frame, error) {
	if m.state != Fitted {
		return nil, ErrNotFitted
	}
	where := make(map[int]int, len(m.RowIDs))
	for d, id := range m.RowIDs {
		where[id] = d
	}

	ids := f.RowIDs()
	topic := make([]frame.Cell, len(ids))
	prob := make([]frame.Cell, len(ids))
	for r, id := range ids {
		d, ok := where[id]
		if !ok {
			continue
		}
		topic[r] = frame.NumberCell(float64(m.current.assign[d]))
		prob[r] = frame.NumberCell(m.current.prob[d])
	}
	return f.WithColumns(
		frame.NamedColumn{Name: vv.COLTOPIC, Cells: topic},
		frame.NamedColumn{Name: vv.COLTOPICPROB, Cells: prob},
	)
}

// discover - argmax assignment with an outlier floor; empty topics are dropped and the rest relabelled by size
func discover(fit Fit, k int) topicset {
	docs, kt := fit.DocTopic.Dims()
	floor := 1/float64(k) + vv.TOPICOUTLIERMARG

	raw := make([]int, docs)
	rawp := make([]float64, docs)
	assigned := func(usefloor bool) int {
		n := 0
		for d := 0; d < docs; d++ {
			raw[d] = vv.TOPICOUTLIER
			if fit.InVocab != nil && !fit.InVocab[d] {
				continue
			}
			best, bp := 0, fit.DocTopic.At(d, 0)
			for t := 1; t < kt; t++ {
				if p := fit.DocTopic.At(d, t); p > bp {
					best, bp = t, p
				}
			}
			if usefloor && bp < floor {
				continue
			}
			raw[d], rawp[d] = best, bp
			n++
		}
		return n
	}
	if assigned(true) == 0 {
		// nothing clears the floor: plain argmax
		assigned(false)
	}

	sizes := make(map[int]int)
	for _, t := range raw {
		if t != vv.TOPICOUTLIER {
			sizes[t]++
		}
	}
	order := make([]int, 0, len(sizes))
	for t := range sizes {
		order = append(order, t)
	}
	sort.Slice(order, func(i, j int) bool {
		if sizes[order[i]] != sizes[order[j]] {
			return sizes[order[i]] > sizes[order[j]]
		}
		return order[i] < order[j]
	})
	relabel := make(map[int]int, len(order))
	for n, t := range order {
		relabel[t] = n
	}

	ts := topicset{
		vectors: make([][]float64, len(order)),
		sizes:   make([]int, len(order)),
		assign:  make([]int, docs),
		prob:    make([]float64, docs),
		dist:    make([][]float64, docs),
	}
	for n, t := range order {
		ts.vectors[n] = normalised(fit.TopicWord.RawRowView(t))
		ts.sizes[n] = sizes[t]
	}
	for d := 0; d < docs; d++ {
		ts.dist[d] = make([]float64, len(order))
		for n, t := range order {
			ts.dist[d][n] = fit.DocTopic.At(d, t)
		}
		if raw[d] == vv.TOPICOUTLIER {
			ts.assign[d] = vv.TOPICOUTLIER
			continue
		}
		ts.assign[d] = relabel[raw[d]]
		ts.prob[d] = rawp[d]
	}
	return ts
}

func normalised(v []float64) []float64 {
	out := make([]float64, len(v))
	var sum float64
	for _, x := range v {
		sum += x
	}
	if sum == 0 {
		return out
	}
	for i, x := range v {
		out[i] = x / sum
	}
	return out
}
