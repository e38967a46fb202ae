//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/e-gun/TextAnalysisWorkbench/internal/frame"
	"github.com/e-gun/TextAnalysisWorkbench/internal/vv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keyword - Positive unless the text mentions "terrible"; "explode" fails
type keyword struct{}

func (keyword) Classify(_ context.Context, text string) (string, float64, error) {
	if strings.Contains(text, "explode") {
		return "", 0, errors.New("model unavailable")
	}
	if strings.Contains(strings.ToLower(text), "terrible") {
		return vv.SENTNEGATIVE, 0.98, nil
	}
	return vv.SENTPOSITIVE, 0.97, nil
}

func survey() *frame.Frame {
	return frame.FromRecords([]string{"id", "response"}, [][]string{
		{"1", "Great course!"},
		{"2", ""},
		{"3", "Terrible, I hated it."},
		{"4", "ok"},
	})
}

func TestLexicon(t *testing.T) {
	lx := NewLexicon()
	label, score, err := lx.Classify(context.Background(), "Great course!")
	require.NoError(t, err)
	assert.Equal(t, vv.SENTPOSITIVE, label)
	assert.Greater(t, score, 0.0)

	label, score, err = lx.Classify(context.Background(), "Terrible, I hated it.")
	require.NoError(t, err)
	assert.Equal(t, vv.SENTNEGATIVE, label)
	assert.Less(t, score, 0.0)
}

func TestAnalyzeSurvey(t *testing.T) {
	a := Analyzer{Transformer: keyword{}, Lexicon: NewLexicon(), Workers: 2}
	out, rep, err := a.Analyze(context.Background(), survey(), "response")
	require.NoError(t, err)

	// "" is filtered; "ok" has two characters and stays
	assert.Equal(t, 3, out.Len())
	assert.Equal(t, 1, rep.Filter.Removed)
	assert.Equal(t, []string{"id", "response",
		vv.COLTRANSLABEL, vv.COLTRANSSCORE, vv.COLVADERLABEL, vv.COLVADERSCORE, vv.COLSENTIMENT}, out.Columns())

	first, _ := out.Cell(0, vv.COLSENTIMENT)
	assert.Equal(t, vv.SENTPOSITIVE, first.Text)
	second, _ := out.Cell(1, vv.COLSENTIMENT)
	assert.Equal(t, vv.SENTNEGATIVE, second.Text)

	vs, _ := out.Cell(0, vv.COLVADERSCORE)
	assert.Equal(t, frame.Number, vs.Kind)
	assert.Equal(t, 0, rep.Failed)
	assert.Equal(t, 2, rep.Counts[vv.COLTRANSLABEL][vv.SENTPOSITIVE])
}

// fixed - the same label for every text
type fixed string

func (f fixed) Classify(context.Context, string) (string, float64, error) {
	return string(f), 0.5, nil
}

func TestCombinedNeedsEveryScorerPositive(t *testing.T) {
	f := frame.FromRecords([]string{"response"}, [][]string{{"Great course!"}, {"Not bad at all"}})
	for _, tc := range []struct {
		trans, lex, want string
	}{
		{vv.SENTPOSITIVE, vv.SENTPOSITIVE, vv.SENTPOSITIVE},
		{vv.SENTPOSITIVE, vv.SENTNEGATIVE, vv.SENTNEGATIVE},
		{vv.SENTNEGATIVE, vv.SENTPOSITIVE, vv.SENTNEGATIVE},
		{vv.SENTNEGATIVE, vv.SENTNEGATIVE, vv.SENTNEGATIVE},
	} {
		a := Analyzer{Transformer: fixed(tc.trans), Lexicon: fixed(tc.lex)}
		out, rep, err := a.Analyze(context.Background(), f, "response")
		require.NoError(t, err)
		for r := 0; r < out.Len(); r++ {
			c, _ := out.Cell(r, vv.COLSENTIMENT)
			assert.Equal(t, tc.want, c.Text, "transformer %s, lexicon %s", tc.trans, tc.lex)
		}
		assert.Equal(t, 0, rep.Failed)
	}

	// no transformer: the lexicon alone decides
	out, _, err := Analyzer{Lexicon: fixed(vv.SENTNEGATIVE)}.Analyze(context.Background(), f, "response")
	require.NoError(t, err)
	c, _ := out.Cell(0, vv.COLSENTIMENT)
	assert.Equal(t, vv.SENTNEGATIVE, c.Text)
}

func TestAnalyzeRerunOverwrites(t *testing.T) {
	a := Analyzer{Lexicon: NewLexicon()}
	once, _, err := a.Analyze(context.Background(), survey(), "response")
	require.NoError(t, err)
	twice, _, err := a.Analyze(context.Background(), once, "response")
	require.NoError(t, err)
	assert.Equal(t, once.Columns(), twice.Columns())
	assert.Equal(t, []string{"id", "response", vv.COLVADERLABEL, vv.COLVADERSCORE, vv.COLSENTIMENT}, twice.Columns())
	assert.Equal(t, once.Len(), twice.Len())
}

func TestAnalyzeRowFailure(t *testing.T) {
	f := frame.FromRecords([]string{"response"}, [][]string{{"this will explode"}, {"lovely"}})
	var mu sync.Mutex
	var logged []string
	a := Analyzer{
		Transformer: keyword{},
		Lexicon:     NewLexicon(),
		Logf: func(s string) {
			mu.Lock()
			defer mu.Unlock()
			logged = append(logged, s)
		},
	}
	out, rep, err := a.Analyze(context.Background(), f, "response")
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Failed)
	assert.Len(t, logged, 1)

	c, _ := out.Cell(0, vv.COLTRANSLABEL)
	assert.Equal(t, vv.SENTUNKNOWN, c.Text)
	c, _ = out.Cell(0, vv.COLSENTIMENT)
	assert.Equal(t, vv.SENTUNKNOWN, c.Text)
	assert.Equal(t, 1, rep.Counts[vv.COLTRANSLABEL][vv.SENTPOSITIVE]+rep.Counts[vv.COLTRANSLABEL][vv.SENTNEGATIVE])
}

func TestAnalyzeModuleErrors(t *testing.T) {
	a := Analyzer{Lexicon: NewLexicon()}
	_, _, err := a.Analyze(context.Background(), survey(), "missing")
	assert.ErrorIs(t, err, frame.ErrNoSuchColumn)

	blank := frame.FromRecords([]string{"response"}, [][]string{{""}, {"7"}})
	_, _, err = a.Analyze(context.Background(), blank, "response")
	assert.ErrorIs(t, err, ErrNothingToScore)

	_, _, err = Analyzer{}.Analyze(context.Background(), survey(), "response")
	assert.ErrorIs(t, err, ErrNoLexicon)
}

func TestAnalyzeProgress(t *testing.T) {
	var mu sync.Mutex
	var last, calls int
	a := Analyzer{Lexicon: NewLexicon(), Progress: func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		last = max(last, done)
		assert.Equal(t, 3, total)
	}}
	_, _, err := a.Analyze(context.Background(), survey(), "response")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, last)
}

func TestRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sekrit", r.Header.Get("Authorization"))
		var in map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		if strings.Contains(in["inputs"], "bad") {
			_, _ = w.Write([]byte(`[[{"label":"NEGATIVE","score":0.91},{"label":"POSITIVE","score":0.09}]]`))
			return
		}
		_, _ = w.Write([]byte(`[{"label":"POSITIVE","score":0.88}]`))
	}))
	defer srv.Close()

	rc := NewRemote(srv.URL, "sekrit")
	label, score, err := rc.Classify(context.Background(), "a bad day")
	require.NoError(t, err)
	assert.Equal(t, vv.SENTNEGATIVE, label)
	assert.InDelta(t, 0.91, score, 1e-9)

	label, _, err = rc.Classify(context.Background(), "a fine day")
	require.NoError(t, err)
	assert.Equal(t, vv.SENTPOSITIVE, label)
}

func TestRemoteErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/down" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"error":"loading"}`))
	}))
	defer srv.Close()

	_, _, err := NewRemote(srv.URL+"/down", "").Classify(context.Background(), "x")
	assert.ErrorIs(t, err, ErrBadResponse)
	_, _, err = NewRemote(srv.URL, "").Classify(context.Background(), "x")
	assert.ErrorIs(t, err, ErrBadResponse)
}
