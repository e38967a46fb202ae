//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package textprep

import (
	"testing"

	"github.com/abadojack/whatlanggo"
	"github.com/e-gun/TextAnalysisWorkbench/internal/frame"
	"github.com/e-gun/TextAnalysisWorkbench/internal/vv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixed - a Detector that answers from a table
type fixed map[string]string

func (f fixed) Detect(text string) (string, bool) {
	c, ok := f[text]
	return c, ok
}

func TestKeepEntry(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Great course!", true},
		{"", false},
		{"   ", false},
		{"123", false},
		{"4.5", false},
		{"x", false},
		{" y ", false},
		{"ok", true},
		{"é!", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KeepEntry(tt.in), tt.in)
	}
}

func TestFilterEntries(t *testing.T) {
	f := frame.FromRecords([]string{"text"}, [][]string{{"Great course!"}, {""}, {"Terrible, I hated it."}, {"ok"}, {"42"}})
	nf, rep, err := FilterEntries(f, "text")
	require.NoError(t, err)
	assert.Equal(t, FilterReport{Before: 5, Removed: 2, Remaining: 3}, rep)
	assert.Equal(t, []int{0, 2, 3}, nf.RowIDs())

	_, _, err = FilterEntries(f, "missing")
	assert.ErrorIs(t, err, frame.ErrNoSuchColumn)
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"great", "course"}, Tokens("Great course!"))
	assert.Equal(t, []string{"terrible", "i", "hated", "it"}, Tokens("Terrible, I hated it."))
	assert.Equal(t, []string{"één", "cursus", "2024"}, Tokens("Één cursus (2024)"))
	assert.Equal(t, []string{"één", "cursus"}, AlphaTokens("Één cursus (2024)"))
}

func TestStopSets(t *testing.T) {
	assert.True(t, English().Has("the"))
	assert.False(t, English().Has("het"))
	assert.True(t, Dutch().Has("het"))
	assert.True(t, Combined().Has("the"))
	assert.True(t, Combined().Has("het"))
	assert.Equal(t, Combined(), ForLanguage("fr"))

	u := WithUserWords(English(), []string{" Course ", ""})
	assert.True(t, u.Has("course"))
	assert.False(t, English().Has("course"))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "coordinatie", Fold("coördinatie"))
	assert.Equal(t, "cafe", Fold("café"))
}

func TestDominant(t *testing.T) {
	det := fixed{"a": "en", "b": "en", "c": "nl"}
	lang, counts := Dominant(det, []string{"a", "b", "c", "zzz"})
	assert.Equal(t, "en", lang)
	assert.Equal(t, map[string]int{"en": 2, "nl": 1, vv.LANGUNKNOWN: 1}, counts)

	lang, _ = Dominant(det, []string{"a", "c"})
	assert.Equal(t, "en", lang, "ties go to the alphabetically first code")

	lang, _ = Dominant(det, nil)
	assert.Equal(t, vv.LANGUNKNOWN, lang)
}

func TestSelectStrategy(t *testing.T) {
	s := SelectStrategy("en", []string{"course"})
	assert.Equal(t, vv.EMBEDMONOLINGUAL, s.Name)
	assert.False(t, s.Fold)
	assert.Equal(t, "great", s.Prepare("The Great course!"))

	m := SelectStrategy("nl", nil)
	assert.Equal(t, vv.EMBEDMULTILINGUAL, m.Name)
	assert.True(t, m.Fold)
	assert.Equal(t, "coordinatie slecht", m.Prepare("De coördinatie was slecht"))

	assert.Equal(t, vv.EMBEDMULTILINGUAL, SelectStrategy(vv.LANGUNKNOWN, nil).Name)
	assert.Equal(t, "", s.Prepare("the and of"))
	assert.Equal(t, "", s.Prepare("2024 2025"))
	assert.Equal(t, "", m.Prepare("7 8 9"))
	assert.Equal(t, "covid19 2020", s.Prepare("Covid19 in 2020"))
}

func TestUnreliableDetectionFails(t *testing.T) {
	code, ok := reliable(whatlanggo.Info{Lang: whatlanggo.Eng, Confidence: 0.95})
	assert.True(t, ok)
	assert.Equal(t, "en", code)

	_, ok = reliable(whatlanggo.Info{Lang: whatlanggo.Eng, Confidence: 0.5})
	assert.False(t, ok)
	_, ok = reliable(whatlanggo.Info{Lang: whatlanggo.Eng, Confidence: 0})
	assert.False(t, ok)
}

func TestDocumentStops(t *testing.T) {
	det := fixed{"hello there": "en", "hallo daar": "nl"}
	assert.Equal(t, English(), DocumentStops(det, "hello there"))
	assert.Equal(t, Dutch(), DocumentStops(det, "hallo daar"))
	assert.Equal(t, Combined(), DocumentStops(det, "???"))
}

func TestWhatLangOnLongText(t *testing.T) {
	var det WhatLang
	en := "The lectures were well organised and the lecturer explained every difficult topic with a great deal of patience and clear examples."
	nl := "De colleges waren goed georganiseerd en de docent legde elk moeilijk onderwerp uit met veel geduld en duidelijke voorbeelden."

	code, ok := det.Detect(en)
	require.True(t, ok)
	assert.Equal(t, "en", code)

	code, ok = det.Detect(nl)
	require.True(t, ok)
	assert.Equal(t, "nl", code)

	_, ok = det.Detect("   ")
	assert.False(t, ok)
}
