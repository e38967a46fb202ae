//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package bench

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/e-gun/TextAnalysisWorkbench/internal/anon"
	"github.com/e-gun/TextAnalysisWorkbench/internal/charts"
	"github.com/e-gun/TextAnalysisWorkbench/internal/cloud"
	"github.com/e-gun/TextAnalysisWorkbench/internal/frame"
	"github.com/e-gun/TextAnalysisWorkbench/internal/sentiment"
	"github.com/e-gun/TextAnalysisWorkbench/internal/store"
	"github.com/e-gun/TextAnalysisWorkbench/internal/topics"
	"github.com/e-gun/TextAnalysisWorkbench/internal/vv"
	"github.com/e-gun/TextAnalysisWorkbench/internal/wordfreq"
)

// every handler below takes the session Context by value and returns the next one; on error the
// caller keeps the Context it already had

const (
	CHARTWORDSPERTOPIC = 5
	EXPORTNAME         = "taw-export"
)

// Upload - a new file replaces everything: datasets, log, charts, and any fitted topic model
func (b *Bench) Upload(c Context, name string, size int64, r io.Reader) (Context, Outcome, error) {
	f, err := frame.ReadSpreadsheet(name, r)
	if err != nil {
		return c, Outcome{}, err
	}

	nc := NewContext(c.ID)
	nc.Store = nc.Store.Initialize(f)
	nc.Topics = c.Topics.Discard()
	nc.File = FileInfo{
		Name:    name,
		SizeKB:  math.Round(float64(size)/1024*10) / 10,
		Rows:    f.Len(),
		Columns: len(f.Columns()),
	}

	out := Outcome{
		Message: sprintf("Loaded %s: %d rows, %d columns", name, nc.File.Rows, nc.File.Columns),
		Payload: nc.File,
	}
	if c.Store.Loaded() {
		out.Warning = "The previous dataset and its transformations were discarded."
	}
	return nc, out, nil
}

// SetView - toggle between the original upload and the current dataset
func (b *Bench) SetView(c Context, mode string) (Context, Outcome, error) {
	if !c.Store.Loaded() {
		return c, Outcome{}, store.ErrNoDataset
	}
	st, err := c.Store.WithView(store.View(mode))
	if err != nil {
		return c, Outcome{}, err
	}
	nc := c
	nc.Store = st
	return nc, Outcome{Message: fmt.Sprintf("Showing the %s dataset", mode)}, nil
}

// Reset - back to the upload; the topic model and every chart go with the transformations
func (b *Bench) Reset(c Context) (Context, Outcome, error) {
	st, ok := c.Store.Reset()
	if !ok {
		return c, Outcome{}, store.ErrNoDataset
	}
	nc := c
	nc.Store = st
	nc.Topics = c.Topics.Discard()
	nc.Freq = nil
	nc.Cloud = nil
	nc.Charts = map[string]string{}
	return nc, Outcome{Message: "Dataset reset to the original upload"}, nil
}

// CloudRequest - Exclude holds the words the user struck from the top list
type CloudRequest struct {
	Column      string   `json:"column"`
	RemoveStops bool     `json:"remove_stopwords"`
	Exclude     []string `json:"exclude"`
}

// CloudResult - the top of the frequency table that the user picks exclusions from
type CloudResult struct {
	Top     []wordfreq.WordCount `json:"top"`
	Docs    int                  `json:"docs"`
	Skipped int                  `json:"skipped"`
}

// WordCloud - count, drop the user's exclusions, then render; no columns are added but the run is logged.
// The untrimmed counts stay in the Context so that a new exclusion list on the same data is not recounted.
func (b *Bench) WordCloud(c Context, req CloudRequest) (Context, Outcome, error) {
	if !c.Store.Loaded() {
		return c, Outcome{}, store.ErrNoDataset
	}
	cur := c.Store.Current()
	base := c.Freq
	if base == nil || !base.CountedFrom(cur, req.Column, req.RemoveStops) {
		counted, err := wordfreq.Analyze(cur, req.Column, b.Detector,
			wordfreq.Options{RemoveStops: req.RemoveStops, TopN: vv.CLOUDTOPWORDS}, b.logf)
		if err != nil {
			return c, Outcome{}, err
		}
		base = &counted
	}
	res, err := base.Exclude(req.Exclude, vv.CLOUDTOPWORDS)
	if err != nil {
		return c, Outcome{}, err
	}

	png, err := cloud.Render(wordfreq.Top(res.Counts, b.Cloud.MaxWords), b.Cloud)
	if err != nil {
		return c, Outcome{}, err
	}

	out := Outcome{
		Message: sprintf("Counted %d distinct words in %d responses", len(res.Counts), res.Docs),
		Payload: CloudResult{Top: res.Top, Docs: res.Docs, Skipped: res.Skipped},
	}
	if c.Store.HasRun(vv.MODWORDCLOUD) {
		out.Warning = vv.MODWORDCLOUD + " has already been run on this dataset."
	}

	desc := fmt.Sprintf("word frequencies of %q", req.Column)
	if len(req.Exclude) > 0 {
		desc += fmt.Sprintf(" excluding %s", strings.Join(req.Exclude, ", "))
	}

	nc := c
	nc.Freq = base
	nc.Cloud = png
	nc.Store = c.Store.Record(vv.MODWORDCLOUD, nil, desc)
	return nc, out, nil
}

// Sentiment - rows that fail the entry filter are dropped from the dataset; a rerun overwrites its columns
func (b *Bench) Sentiment(ctx context.Context, c Context, col string, rep Reporter) (Context, Outcome, error) {
	if !c.Store.Loaded() {
		return c, Outcome{}, store.ErrNoDataset
	}
	rep = reporter(rep)
	an := sentiment.Analyzer{
		Transformer: b.Transformer,
		Lexicon:     b.Lexicon,
		Workers:     b.Workers,
		Logf:        b.logf,
		Progress: func(done, total int) {
			rep.Report("scoring", float64(done)/float64(total))
		},
	}
	f, r, err := an.Analyze(ctx, c.Store.Current(), col)
	if err != nil {
		return c, Outcome{}, err
	}

	st, err := c.Store.Apply(f, vv.MODSENTIMENT, fmt.Sprintf("sentiment of %q", col), r.Columns)
	if err != nil {
		return c, Outcome{}, err
	}

	out := Outcome{
		Message: sprintf("Scored %d rows; %d removed by filtering", r.Filter.Remaining, r.Filter.Removed),
		Payload: r,
	}
	if c.Store.HasRun(vv.MODSENTIMENT) {
		out.Warning = vv.MODSENTIMENT + " has already been run; its columns were overwritten."
	}

	nc := c
	nc.Store = st
	nc = b.sentimentchart(nc, r)
	return nc, out, nil
}

func (b *Bench) sentimentchart(c Context, r sentiment.Report) Context {
	var groups []charts.Group
	for _, name := range []string{vv.COLTRANSLABEL, vv.COLVADERLABEL, vv.COLSENTIMENT} {
		tally, ok := r.Counts[name]
		if !ok {
			continue
		}
		g := charts.Group{Title: name}
		for _, l := range []string{vv.SENTPOSITIVE, vv.SENTNEGATIVE} {
			g.Labels = append(g.Labels, l)
			g.Values = append(g.Values, float64(tally[l]))
		}
		groups = append(groups, g)
	}
	html, err := charts.Page(vv.MODSENTIMENT, groups)
	if err != nil {
		b.logf(fmt.Sprintf("sentiment chart: %s", err.Error()))
		return c.withoutcharts(CHARTSENTIMENT)
	}
	return c.withchart(CHARTSENTIMENT, html)
}

// TopicModel - fit from scratch; documents that do not survive preparation leave the dataset
func (b *Bench) TopicModel(c Context, req topics.Request, rep Reporter) (Context, Outcome, error) {
	if !c.Store.Loaded() {
		return c, Outcome{}, store.ErrNoDataset
	}
	rep = reporter(rep)
	ft := topics.Fitter{Engine: b.Engine, Detector: b.Detector, Embedder: b.Embedder, Progress: rep.Report}

	m, f, err := ft.Fit(c.Topics, c.Store.Current(), req)
	if err != nil {
		return c, Outcome{}, err
	}
	desc := fmt.Sprintf("%d topics in %q", m.Topics(), req.Column)
	st, err := c.Store.Apply(f, vv.MODTOPICS, desc, []string{vv.COLTOPIC, vv.COLTOPICPROB})
	if err != nil {
		return c, Outcome{}, err
	}

	ov, _ := m.Info()
	out := Outcome{
		Message: sprintf("Found %d topics in %d documents (%d outliers)", ov.Topics, ov.Docs, ov.Outliers),
		Payload: ov,
	}
	if c.Store.HasRun(vv.MODTOPICS) {
		out.Warning = vv.MODTOPICS + " has already been run; the earlier model was replaced."
	}
	if m.EmbedError != "" {
		b.logf(fmt.Sprintf("topic embeddings: %s", m.EmbedError))
		out.Warning = strings.TrimSpace(out.Warning + " Document embeddings failed; representative documents are ranked by topic probability.")
	}

	nc := c
	nc.Store = st
	nc.Topics = m
	nc = b.topiccharts(nc)
	return nc, out, nil
}

// AdjustTopics - merge or expand the fitted model and rewrite the topic columns of the current dataset
func (b *Bench) AdjustTopics(c Context, k int, rep Reporter) (Context, Outcome, error) {
	if !c.Store.Loaded() {
		return c, Outcome{}, store.ErrNoDataset
	}
	rep = reporter(rep)
	ft := topics.Fitter{Engine: b.Engine, Detector: b.Detector, Embedder: b.Embedder, Progress: rep.Report}

	m, err := ft.Reduce(c.Topics, k)
	if err != nil {
		return c, Outcome{}, err
	}
	f, err := m.Annotate(c.Store.Current())
	if err != nil {
		return c, Outcome{}, err
	}
	st, err := c.Store.Apply(f, vv.MODTOPICS, fmt.Sprintf("adjusted to %d topics", m.Topics()), []string{vv.COLTOPIC, vv.COLTOPICPROB})
	if err != nil {
		return c, Outcome{}, err
	}

	ov, _ := m.Info()
	out := Outcome{Message: sprintf("Now %d topics", m.Topics()), Payload: ov}
	if kc := topics.ClampTopics(k, m.Natural, len(m.Docs)); kc != k {
		out.Warning = sprintf("%d topics is out of range; used %d (allowed: 2 to %d)", k, kc, ov.Max)
	}

	nc := c
	nc.Store = st
	nc.Topics = m
	nc = b.topiccharts(nc)
	return nc, out, nil
}

// topiccharts - a chart that cannot be drawn is logged and left out
func (b *Bench) topiccharts(c Context) Context {
	m := c.Topics
	c = c.withoutcharts(CHARTTOPICS, CHARTWORDS, CHARTMAP)

	labels, sizes := m.Barchart(vv.TOPICCHARTTOPICS)
	vals := make([]float64, len(sizes))
	for i, s := range sizes {
		vals[i] = float64(s)
	}
	if html, err := charts.Bar("Topics", "documents per topic", labels, vals); err == nil {
		c = c.withchart(CHARTTOPICS, html)
	} else {
		b.logf(fmt.Sprintf("topic chart: %s", err.Error()))
	}

	var groups []charts.Group
	for t := 0; t < m.Topics() && t < vv.TOPICCHARTTOPICS; t++ {
		kw, wt := m.KeywordWeights(t, CHARTWORDSPERTOPIC)
		groups = append(groups, charts.Group{Title: m.TopicName(t), Labels: kw, Values: wt})
	}
	if html, err := charts.Page("Top words per topic", groups); err == nil {
		c = c.withchart(CHARTWORDS, html)
	} else {
		b.logf(fmt.Sprintf("topic word chart: %s", err.Error()))
	}

	pts, err := m.Map()
	if err != nil {
		b.logf(fmt.Sprintf("intertopic map: %s", err.Error()))
		return c
	}
	cp := make([]charts.Point, len(pts))
	for i, p := range pts {
		cp[i] = charts.Point{Name: p.Name, X: p.X, Y: p.Y, Size: p.Size}
	}
	if html, err := charts.Scatter("Intertopic distance map", "", cp); err == nil {
		c = c.withchart(CHARTMAP, html)
	} else {
		b.logf(fmt.Sprintf("intertopic map: %s", err.Error()))
	}
	return c
}

// AnonResult - the report plus where the lists came from
type AnonResult struct {
	anon.Report
	Lexicons anon.Provenance `json:"lexicons"`
}

// Anonymize - every row is kept; the lists are fetched on first use
func (b *Bench) Anonymize(ctx context.Context, c Context, col string) (Context, Outcome, error) {
	if !c.Store.Loaded() {
		return c, Outcome{}, store.ErrNoDataset
	}
	var lx anon.Lexicons
	var prov anon.Provenance
	if b.Lexicons != nil {
		lx, prov = b.Lexicons.Get(ctx)
	}

	f, r, err := anon.Process(c.Store.Current(), col, lx, b.logf)
	if err != nil {
		return c, Outcome{}, err
	}
	st, err := c.Store.Apply(f, vv.MODANON, fmt.Sprintf("anonymized %q", col), r.Columns)
	if err != nil {
		return c, Outcome{}, err
	}

	out := Outcome{
		Message: sprintf("Made %d replacements in %d rows", r.Replacements, r.Changed),
		Payload: AnonResult{Report: r, Lexicons: prov},
	}
	var warn []string
	if lx.Empty() {
		warn = append(warn, "The name and illness lists could not be loaded; nothing was replaced.")
	}
	if c.Store.HasRun(vv.MODANON) {
		warn = append(warn, vv.MODANON+" has already been run on this dataset.")
	}
	out.Warning = strings.Join(warn, " ")

	nc := c
	nc.Store = st
	return nc, out, nil
}

// Export - the current dataset as csv or xlsx; returns the file name to offer
func (b *Bench) Export(c Context, format string, w io.Writer) (string, error) {
	if !c.Store.Loaded() {
		return "", store.ErrNoDataset
	}
	f := c.Store.Current()
	switch format {
	case "csv":
		return EXPORTNAME + ".csv", f.WriteCSV(w)
	case "xlsx":
		return EXPORTNAME + ".xlsx", f.WriteXLSX(w)
	default:
		return "", fmt.Errorf("%w: %q", ErrBadFormat, format)
	}
}

// Columns - what a module's column picker should offer
func (b *Bench) Columns(c Context, module string) ([]string, error) {
	if !c.Store.Loaded() {
		return nil, store.ErrNoDataset
	}
	return c.Store.ColumnsFor(module), nil
}

// TopicOverview - the topic table for the current model
func (b *Bench) TopicOverview(c Context) (topics.Overview, error) {
	return c.Topics.Info()
}
