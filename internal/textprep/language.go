//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package textprep

import (
	"sort"
	"strings"
	"unicode"

	"github.com/abadojack/whatlanggo"
	"github.com/e-gun/TextAnalysisWorkbench/internal/vv"
)

// Detector - guess the ISO 639-1 code of a text; false when no guess can be made
type Detector interface {
	Detect(text string) (string, bool)
}

// WhatLang - trigram detection
type WhatLang struct{}

func (WhatLang) Detect(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	return reliable(whatlanggo.Detect(text))
}

// reliable - a guess below whatlanggo's reliability threshold counts as a failure
func reliable(info whatlanggo.Info) (string, bool) {
	code := info.Lang.Iso6391()
	if code == "" || !info.IsReliable() {
		return "", false
	}
	return code, true
}

// Dominant - the most common language across the docs; failures count as "unknown"; ties go to the
// alphabetically first code so that the result does not depend on map order
func Dominant(det Detector, docs []string) (string, map[string]int) {
	counts := make(map[string]int)
	for _, d := range docs {
		code, ok := det.Detect(d)
		if !ok {
			code = vv.LANGUNKNOWN
		}
		counts[code]++
	}
	if len(counts) == 0 {
		return vv.LANGUNKNOWN, counts
	}

	codes := make([]string, 0, len(counts))
	for c := range counts {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool {
		if counts[codes[i]] != counts[codes[j]] {
			return counts[codes[i]] > counts[codes[j]]
		}
		return codes[i] < codes[j]
	})
	return codes[0], counts
}

// Strategy - how a corpus gets prepared for topic fitting
type Strategy struct {
	Name     string
	Language string
	Stops    StopSet
	Fold     bool
}

// SelectStrategy - English gets the monolingual set; everything else falls back to the multilingual one
func SelectStrategy(dominant string, userstops []string) Strategy {
	if dominant == "en" {
		return Strategy{
			Name:     vv.EMBEDMONOLINGUAL,
			Language: dominant,
			Stops:    WithUserWords(English(), userstops),
		}
	}
	return Strategy{
		Name:     vv.EMBEDMULTILINGUAL,
		Language: dominant,
		Stops:    WithUserWords(Combined(), userstops),
		Fold:     true,
	}
}

// Prepare - the document as the topic model sees it; "" means nothing survived
func (s Strategy) Prepare(doc string) string {
	tt := WithoutStops(Tokens(doc), s.Stops)
	out := strings.Join(tt, " ")
	if !strings.ContainsFunc(out, unicode.IsLetter) {
		// the vectoriser only keeps letters
		return ""
	}
	if s.Fold {
		out = Fold(out)
	}
	return out
}

// DocumentStops - per-document stopwords: detection failure means the combined set
func DocumentStops(det Detector, doc string) StopSet {
	code, ok := det.Detect(doc)
	if !ok {
		return Combined()
	}
	return ForLanguage(code)
}
