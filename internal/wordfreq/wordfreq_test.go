//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package wordfreq

import (
	"testing"

	"github.com/e-gun/TextAnalysisWorkbench/internal/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixed map[string]string

func (f fixed) Detect(text string) (string, bool) {
	c, ok := f[text]
	return c, ok
}

type panicky struct{}

func (panicky) Detect(text string) (string, bool) {
	if text == "boom boom" {
		panic("detector fell over")
	}
	return "en", true
}

func corpus() *frame.Frame {
	return frame.FromRecords([]string{"text"}, [][]string{
		{"The course was great and the lecturer was great"},
		{""},
		{"De cursus was goed en de docent was goed"},
		{"Great!!! 2024"},
	})
}

func TestAnalyzeCountsAndStops(t *testing.T) {
	det := fixed{
		"The course was great and the lecturer was great": "en",
		"De cursus was goed en de docent was goed":        "nl",
	}
	res, err := Analyze(corpus(), "text", det, Options{RemoveStops: true}, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Docs)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 3, res.Counts["great"])
	assert.Equal(t, 2, res.Counts["goed"])
	assert.NotContains(t, res.Counts, "the")
	assert.NotContains(t, res.Counts, "de")
	assert.NotContains(t, res.Counts, "2024")
	assert.Equal(t, WordCount{Word: "great", Count: 3}, res.Top[0])
	assert.Equal(t, WordCount{Word: "goed", Count: 2}, res.Top[1])
}

func TestAnalyzeUndetectedUsesCombinedStops(t *testing.T) {
	f := frame.FromRecords([]string{"text"}, [][]string{{"het is the end"}})
	res, err := Analyze(f, "text", fixed{}, Options{RemoveStops: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"end": 1}, res.Counts)
}

func TestAnalyzeKeepsStopsWhenAsked(t *testing.T) {
	res, err := Analyze(corpus(), "text", fixed{}, Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Counts["was"])
}

func TestAnalyzeExclusions(t *testing.T) {
	res, err := Analyze(corpus(), "text", fixed{}, Options{RemoveStops: true, Exclude: []string{"Great"}}, nil)
	require.NoError(t, err)
	assert.NotContains(t, res.Counts, "great")

	res2, err := res.Exclude([]string{"goed"}, 5)
	require.NoError(t, err)
	assert.NotContains(t, res2.Counts, "goed")
	assert.Contains(t, res.Counts, "goed", "the receiver keeps its counts")
	assert.LessOrEqual(t, len(res2.Top), 5)
}

func TestCountedFrom(t *testing.T) {
	f := corpus()
	res, err := Analyze(f, "text", fixed{}, Options{RemoveStops: true}, nil)
	require.NoError(t, err)
	assert.True(t, res.CountedFrom(f, "text", true))
	assert.False(t, res.CountedFrom(f, "text", false))
	assert.False(t, res.CountedFrom(corpus(), "text", true))

	trimmed, err := res.Exclude([]string{"goed"}, 5)
	require.NoError(t, err)
	assert.False(t, trimmed.CountedFrom(f, "text", true))
	assert.True(t, res.CountedFrom(f, "text", true))

	excl, err := Analyze(f, "text", fixed{}, Options{RemoveStops: true, Exclude: []string{"great"}}, nil)
	require.NoError(t, err)
	assert.False(t, excl.CountedFrom(f, "text", true))
}

func TestAnalyzeRowFailureIsSkipped(t *testing.T) {
	f := frame.FromRecords([]string{"text"}, [][]string{{"boom boom"}, {"lovely weather"}})
	var logged []string
	res, err := Analyze(f, "text", panicky{}, Options{RemoveStops: true}, func(s string) { logged = append(logged, s) })
	require.NoError(t, err)
	assert.Equal(t, 1, res.Docs)
	assert.Equal(t, 1, res.Skipped)
	assert.Len(t, logged, 1)
	assert.Equal(t, map[string]int{"lovely": 1, "weather": 1}, res.Counts)
}

func TestAnalyzeErrors(t *testing.T) {
	_, err := Analyze(corpus(), "nope", fixed{}, Options{}, nil)
	assert.ErrorIs(t, err, frame.ErrNoSuchColumn)

	empty := frame.FromRecords([]string{"text"}, [][]string{{""}, {"the and"}})
	_, err = Analyze(empty, "text", fixed{}, Options{RemoveStops: true}, nil)
	assert.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestTopOrdering(t *testing.T) {
	top := Top(map[string]int{"b": 2, "a": 2, "c": 5, "d": 1}, 3)
	assert.Equal(t, []WordCount{{"c", 5}, {"a", 2}, {"b", 2}}, top)
}
