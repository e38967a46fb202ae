//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package topics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/e-gun/TextAnalysisWorkbench/internal/vv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	REPRESENTATIVE = 3
	OUTLIERNAME    = "outliers"
)

// TopicInfo - one row of the topic table
type TopicInfo struct {
	Topic          int      `json:"topic"`
	Count          int      `json:"count"`
	Name           string   `json:"name"`
	Keywords       []string `json:"keywords"`
	Representative []string `json:"representative"`
}

// Overview - the topic table plus the headline numbers shown above it
type Overview struct {
	State     string      `json:"state"`
	Language  string      `json:"language"`
	Strategy  string      `json:"strategy"`
	Docs      int         `json:"docs"`
	Natural   int         `json:"natural"`
	Topics    int         `json:"topics"`
	Outliers  int         `json:"outliers"`
	Max       int         `json:"max"`
	Embedding string      `json:"embedding,omitempty"`
	Table     []TopicInfo `json:"table"`
}

// Point - a topic placed on the intertopic distance map
type Point struct {
	Topic int     `json:"topic"`
	Name  string  `json:"name"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  int     `json:"size"`
}

// Keywords - the n heaviest words of topic t
func (m Model) Keywords(t, n int) []string {
	kw, _ := m.KeywordWeights(t, n)
	return kw
}

// KeywordWeights - the n heaviest words of topic t and their share of the topic
func (m Model) KeywordWeights(t, n int) ([]string, []float64) {
	if t < 0 || t >= len(m.current.vectors) {
		return nil, nil
	}
	v := m.current.vectors[t]
	idx := make([]int, len(v))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		if v[idx[i]] != v[idx[j]] {
			return v[idx[i]] > v[idx[j]]
		}
		return m.Vocab[idx[i]] < m.Vocab[idx[j]]
	})
	var kw []string
	var wt []float64
	for _, i := range idx {
		if len(kw) == n || v[i] == 0 {
			break
		}
		kw = append(kw, m.Vocab[i])
		wt = append(wt, v[i])
	}
	return kw, wt
}

// TopicName - "3_price_cost_money_expensive"
func (m Model) TopicName(t int) string {
	if t == vv.TOPICOUTLIER {
		return fmt.Sprintf("%d_%s", t, OUTLIERNAME)
	}
	kw := m.Keywords(t, vv.TOPICNAMEWORDS)
	return strings.Join(append([]string{fmt.Sprintf("%d", t)}, kw...), "_")
}

// Info - the topic table, largest topic first; the outlier row leads when there are outliers
func (m Model) Info() (Overview, error) {
	if m.state != Fitted {
		return Overview{}, ErrNotFitted
	}
	ov := Overview{
		State:     m.state.String(),
		Language:  m.Language,
		Strategy:  m.Strategy,
		Docs:      len(m.Docs),
		Natural:   m.Natural,
		Topics:    m.Topics(),
		Max:       ClampTopics(vv.TOPICABSMAX, m.Natural, len(m.Docs)),
		Embedding: m.Embedding,
	}

	members := make(map[int][]int)
	for d, t := range m.current.assign {
		members[t] = append(members[t], d)
	}
	ov.Outliers = len(members[vv.TOPICOUTLIER])

	if ov.Outliers > 0 {
		ov.Table = append(ov.Table, TopicInfo{
			Topic:          vv.TOPICOUTLIER,
			Count:          ov.Outliers,
			Name:           m.TopicName(vv.TOPICOUTLIER),
			Representative: m.representative(vv.TOPICOUTLIER, members[vv.TOPICOUTLIER], nil),
		})
	}
	cc := m.centroids()
	for t := range m.current.vectors {
		ov.Table = append(ov.Table, TopicInfo{
			Topic:          t,
			Count:          len(members[t]),
			Name:           m.TopicName(t),
			Keywords:       m.Keywords(t, vv.TOPICKEYWORDS),
			Representative: m.representative(t, members[t], cc),
		})
	}
	return ov, nil
}

// representative - the docs closest to the topic's mean embedding; by topic probability when there are
// no embeddings or for the outliers
func (m Model) representative(t int, docs []int, cc *mat.Dense) []string {
	score := func(d int) float64 { return m.current.prob[d] }
	if cc != nil && t >= 0 {
		ct := cc.RawRowView(t)
		score = func(d int) float64 { return cosine(m.embeds.RawRowView(d), ct) }
	}
	dd := append([]int{}, docs...)
	sort.SliceStable(dd, func(i, j int) bool { return score(dd[i]) > score(dd[j]) })
	var out []string
	for _, d := range dd {
		if len(out) == REPRESENTATIVE {
			break
		}
		out = append(out, m.Docs[d])
	}
	return out
}

// centroids - topic x dim: the mean embedding of each topic's documents; nil without embeddings
func (m Model) centroids() *mat.Dense {
	k := m.Topics()
	if m.embeds == nil || k == 0 {
		return nil
	}
	r, dim := m.embeds.Dims()
	if r != len(m.current.assign) {
		return nil
	}
	cc := mat.NewDense(k, dim, nil)
	counts := make([]int, k)
	for d, t := range m.current.assign {
		if t < 0 || t >= k {
			continue
		}
		floats.Add(cc.RawRowView(t), m.embeds.RawRowView(d))
		counts[t]++
	}
	for t, n := range counts {
		if n > 0 {
			floats.Scale(1/float64(n), cc.RawRowView(t))
		}
	}
	return cc
}

// Map - project the topics onto their first two principal components; the topics are placed by their
// mean document embedding when there is one, otherwise by their word distributions
func (m Model) Map() ([]Point, error) {
	if m.state != Fitted {
		return nil, ErrNotFitted
	}
	k := m.Topics()
	pts := make([]Point, k)
	for t := 0; t < k; t++ {
		pts[t] = Point{Topic: t, Name: m.TopicName(t), Size: m.current.sizes[t], X: float64(t)}
	}

	data := m.centroids()
	if data == nil && len(m.Vocab) > 0 {
		data = mat.NewDense(k, len(m.Vocab), nil)
		for t, v := range m.current.vectors {
			data.SetRow(t, v)
		}
	}
	if data == nil {
		return pts, nil
	}
	_, cols := data.Dims()
	if k < 2 || cols < 2 {
		return pts, nil
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(data, nil); !ok {
		return pts, nil
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	_, nc := vecs.Dims()
	dims := min(nc, 2)

	centred := mat.DenseCopyOf(data)
	for c := 0; c < cols; c++ {
		col := mat.Col(nil, c, data)
		mean := stat.Mean(col, nil)
		for r := 0; r < k; r++ {
			centred.Set(r, c, data.At(r, c)-mean)
		}
	}

	var proj mat.Dense
	proj.Mul(centred, vecs.Slice(0, cols, 0, dims))
	for t := 0; t < k; t++ {
		pts[t].X = proj.At(t, 0)
		pts[t].Y = 0
		if dims > 1 {
			pts[t].Y = proj.At(t, 1)
		}
	}
	return pts, nil
}

// Barchart - topic sizes for the bar chart, at most n topics
func (m Model) Barchart(n int) ([]string, []int) {
	var labels []string
	var sizes []int
	for t := 0; t < m.Topics() && t < n; t++ {
		labels = append(labels, m.TopicName(t))
		sizes = append(sizes, m.current.sizes[t])
	}
	return labels, sizes
}
