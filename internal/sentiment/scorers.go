//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/e-gun/TextAnalysisWorkbench/internal/gen"
	"github.com/e-gun/TextAnalysisWorkbench/internal/vv"
	"github.com/jonreiter/govader"
)

var ErrBadResponse = errors.New("sentiment endpoint sent an unusable response")

// Classifier - one text in, a Positive/Negative label and a score out
type Classifier interface {
	Classify(ctx context.Context, text string) (string, float64, error)
}

//
// LEXICON (VADER)
//

// Lexicon - VADER; the score is the compound polarity in [-1, 1]
type Lexicon struct {
	an *govader.SentimentIntensityAnalyzer
}

func NewLexicon() *Lexicon {
	return &Lexicon{an: govader.NewSentimentIntensityAnalyzer()}
}

func (l *Lexicon) Classify(_ context.Context, text string) (string, float64, error) {
	c := l.an.PolarityScores(text).Compound
	if c >= 0 {
		return vv.SENTPOSITIVE, c, nil
	}
	return vv.SENTNEGATIVE, c, nil
}

//
// REMOTE TRANSFORMER
//

// Remote - a text-classification inference endpoint: POST {"inputs": text}; the reply is a list
// (or a list of lists) of {"label", "score"}
type Remote struct {
	URL    string
	Token  string
	Client *http.Client
}

func NewRemote(url, token string) *Remote {
	return &Remote{
		URL:    url,
		Token:  token,
		Client: &http.Client{Timeout: vv.SENTHTTPTIMEOUT * time.Second},
	}
}

type prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (r *Remote) Classify(ctx context.Context, text string) (string, float64, error) {
	body, err := json.Marshal(map[string]string{"inputs": gen.TruncateRunes(text, vv.SENTMAXRUNES)})
	if err != nil {
		return "", 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, bytes.NewReader(body))
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.Token)
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, err
	}
	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("%w: HTTP %d", ErrBadResponse, resp.StatusCode)
	}

	best, err := bestprediction(raw)
	if err != nil {
		return "", 0, err
	}
	if strings.HasPrefix(strings.ToUpper(best.Label), "POS") {
		return vv.SENTPOSITIVE, best.Score, nil
	}
	return vv.SENTNEGATIVE, best.Score, nil
}

func bestprediction(raw []byte) (prediction, error) {
	var nested [][]prediction
	var flat []prediction
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 {
		flat = nested[0]
	} else if err = json.Unmarshal(raw, &flat); err != nil {
		return prediction{}, fmt.Errorf("%w: %s", ErrBadResponse, err.Error())
	}
	if len(flat) == 0 {
		return prediction{}, ErrBadResponse
	}
	best := flat[0]
	for _, p := range flat[1:] {
		if p.Score > best.Score {
			best = p
		}
	}
	return best, nil
}
