//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package textprep

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/e-gun/TextAnalysisWorkbench/internal/frame"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	numericonly = regexp.MustCompile(`^[\d.]+$`)
	punctuation = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	lower       = cases.Lower(language.Und)
)

// KeepEntry - worth analysing: not blank, not just a number, more than one character
func KeepEntry(s string) bool {
	t := strings.TrimSpace(s)
	if t == "" {
		return false
	}
	if numericonly.MatchString(t) {
		return false
	}
	return utf8.RuneCountInString(t) > 1
}

// FilterReport - what FilterEntries did
type FilterReport struct {
	Before    int `json:"before"`
	Removed   int `json:"removed"`
	Remaining int `json:"remaining"`
}

// FilterEntries - drop the rows whose value in col fails KeepEntry; null rows go too
func FilterEntries(f *frame.Frame, col string) (*frame.Frame, FilterReport, error) {
	cells, err := f.TextColumn(col)
	if err != nil {
		return nil, FilterReport{}, err
	}
	nf := f.Filter(func(r int) bool {
		return cells[r].Kind == frame.Text && KeepEntry(cells[r].Text)
	})
	rep := FilterReport{Before: f.Len(), Remaining: nf.Len()}
	rep.Removed = rep.Before - rep.Remaining
	return nf, rep, nil
}

// Lower - unicode-aware lowercasing
func Lower(s string) string {
	return lower.String(s)
}

// Tokens - lowercased, punctuation stripped, split on whitespace
func Tokens(s string) []string {
	return strings.Fields(punctuation.ReplaceAllString(Lower(s), ""))
}

// AlphaTokens - Tokens that consist of letters only
func AlphaTokens(s string) []string {
	tt := Tokens(s)
	out := tt[:0]
	for _, t := range tt {
		if isalpha(t) {
			out = append(out, t)
		}
	}
	return out
}

func isalpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

// WithoutStops - tokens minus the stopwords
func WithoutStops(tt []string, stops StopSet) []string {
	out := make([]string, 0, len(tt))
	for _, t := range tt {
		if !stops.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// Fold - strip diacritics: "coördinatie" -> "coordinatie"
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
