//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package bench

import (
	"errors"

	"github.com/e-gun/TextAnalysisWorkbench/internal/frame"
	"github.com/e-gun/TextAnalysisWorkbench/internal/gen"
	"github.com/e-gun/TextAnalysisWorkbench/internal/store"
	"github.com/e-gun/TextAnalysisWorkbench/internal/topics"
	"github.com/e-gun/TextAnalysisWorkbench/internal/wordfreq"
	"golang.org/x/exp/maps"
)

var (
	ErrNoCloud   = errors.New("no word cloud has been rendered")
	ErrNoChart   = errors.New("no such chart")
	ErrBadFormat = errors.New("unknown export format")
)

// chart names
const (
	CHARTSENTIMENT = "sentiment"
	CHARTTOPICS    = "topics"
	CHARTWORDS     = "topicwords"
	CHARTMAP       = "topicmap"
)

// FileInfo - what the upload looked like
type FileInfo struct {
	Name    string  `json:"name"`
	SizeKB  float64 `json:"size_kb"`
	Rows    int     `json:"rows"`
	Columns int     `json:"columns"`
}

// Context - everything one browser session owns. Handlers take a Context and hand back a new one;
// nothing in here is shared with any other session.
type Context struct {
	ID     string
	Store  store.Store
	Topics topics.Model
	Freq   *wordfreq.Result
	File   FileInfo
	Cloud  []byte
	Charts map[string]string
}

func NewContext(id string) Context {
	return Context{ID: id, Charts: map[string]string{}}
}

// withchart - copy-on-write so that an older Context never sees a newer chart
func (c Context) withchart(name, html string) Context {
	cc := make(map[string]string, len(c.Charts)+1)
	maps.Copy(cc, c.Charts)
	cc[name] = html
	c.Charts = cc
	return c
}

func (c Context) withoutcharts(names ...string) Context {
	cc := maps.Clone(c.Charts)
	if cc == nil {
		cc = map[string]string{}
	}
	for _, n := range names {
		delete(cc, n)
	}
	c.Charts = cc
	return c
}

// Chart - the rendered html of a chart
func (c Context) Chart(name string) (string, error) {
	h, ok := c.Charts[name]
	if !ok {
		return "", ErrNoChart
	}
	return h, nil
}

// CloudImage - the last rendered word cloud
func (c Context) CloudImage() ([]byte, error) {
	if len(c.Cloud) == 0 {
		return nil, ErrNoCloud
	}
	return c.Cloud, nil
}

// Preview - the first n rows of whatever the view selector points at
func (c Context) Preview(n int) (frame.Table, error) {
	if !c.Store.Loaded() {
		return frame.Table{}, store.ErrNoDataset
	}
	return c.Store.Active().Table(n), nil
}

// Status - file info, the transformation summary, and the topic model state
type Status struct {
	Loaded  bool          `json:"loaded"`
	File    FileInfo      `json:"file"`
	Summary store.Summary `json:"summary"`
	Line    string        `json:"status"`
	Topics  string        `json:"topic_model"`
	Charts  []string      `json:"charts"`
}

func (c Context) Status() Status {
	sm := c.Store.Summary()
	st := Status{
		Loaded:  c.Store.Loaded(),
		File:    c.File,
		Summary: sm,
		Line:    sm.StatusLine(),
		Topics:  c.Topics.State().String(),
		Charts:  gen.SortedKeys(c.Charts),
	}
	return st
}

// Outcome - what a handler wants the user to see
type Outcome struct {
	Message string `json:"message"`
	Warning string `json:"warning,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// Reporter - coarse progress; stage names are free text
type Reporter interface {
	Report(stage string, frac float64)
}

type silent struct{}

func (silent) Report(string, float64) {}

func reporter(r Reporter) Reporter {
	if r == nil {
		return silent{}
	}
	return r
}
