//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package anon

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/e-gun/TextAnalysisWorkbench/internal/frame"
	"github.com/e-gun/TextAnalysisWorkbench/internal/vv"
)

var ErrEmptyDataset = errors.New("the dataset has no rows")

const PREVIEWROWS = 10

var (
	// "Jan" or "Jan Jansen"; word boundaries are checked by hand since \b is ascii-only
	namecandidate = regexp.MustCompile(`\p{Lu}\p{Ll}+(?:[ \t]\p{Lu}\p{Ll}+)?`)
	placeholder   = regexp.MustCompile(`\[[A-Z]+\]`)
)

// Span - a detected entity: byte offsets into the text
type Span struct {
	Label string
	Start int
	End   int
}

// Entity - what ends up in the Entities_ column
type Entity struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Detect - name and illness spans, left to right, without overlaps
func (lx Lexicons) Detect(text string) []Span {
	var ss []Span

	if len(lx.Names) > 0 {
		for _, loc := range namecandidate.FindAllStringIndex(text, -1) {
			if !bounded(text, loc[0], loc[1]) {
				continue
			}
			whole := strings.ToLower(text[loc[0]:loc[1]])
			if _, ok := lx.Names[whole]; ok {
				ss = append(ss, Span{Label: vv.ANONNAMELABEL, Start: loc[0], End: loc[1]})
				continue
			}
			// "Gisteren Jan": the pair is no name but its second word is
			start := loc[0]
			for _, w := range strings.Fields(text[loc[0]:loc[1]]) {
				at := start + strings.Index(text[start:], w)
				if _, ok := lx.Names[strings.ToLower(w)]; ok {
					ss = append(ss, Span{Label: vv.ANONNAMELABEL, Start: at, End: at + len(w)})
				}
				start = at + len(w)
			}
		}
	}

	if lx.illre != nil {
		pos := 0
		for pos < len(text) {
			loc := lx.illre.FindStringSubmatchIndex(text[pos:])
			if loc == nil {
				break
			}
			s, e := pos+loc[2], pos+loc[3]
			if bounded(text, s, e) {
				ss = append(ss, Span{Label: vv.ANONILLLABEL, Start: s, End: e})
				pos = e
				continue
			}
			// a word runs into the start: no entry can begin here
			_, w := utf8.DecodeRuneInString(text[s:])
			pos = s + max(w, 1)
		}
	}

	return tidy(text, ss)
}

// bounded - no letter or digit touches either end of text[s:e]
func bounded(text string, s, e int) bool {
	if s > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:s])
		if wordrune(r) {
			return false
		}
	}
	if e < len(text) {
		r, _ := utf8.DecodeRuneInString(text[e:])
		if wordrune(r) {
			return false
		}
	}
	return true
}

func wordrune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// tidy - drop spans inside an existing placeholder, then resolve overlaps: the earliest span wins and, at
// the same start, the longest
func tidy(text string, ss []Span) []Span {
	held := placeholder.FindAllStringIndex(text, -1)
	inside := func(s Span) bool {
		for _, h := range held {
			if s.Start >= h[0] && s.End <= h[1] {
				return true
			}
		}
		return false
	}

	sort.SliceStable(ss, func(i, j int) bool {
		if ss[i].Start != ss[j].Start {
			return ss[i].Start < ss[j].Start
		}
		return ss[i].End > ss[j].End
	})

	var out []Span
	end := -1
	for _, s := range ss {
		if inside(s) || s.Start < end {
			continue
		}
		out = append(out, s)
		end = s.End
	}
	return out
}

// Anonymize - replace each span with [LABEL], working right to left so that offsets stay valid
func Anonymize(text string, ss []Span) string {
	for i := len(ss) - 1; i >= 0; i-- {
		s := ss[i]
		text = text[:s.Start] + "[" + s.Label + "]" + text[s.End:]
	}
	return text
}

// Entities - the detected text for each span
func Entities(text string, ss []Span) []Entity {
	out := make([]Entity, len(ss))
	for i, s := range ss {
		out[i] = Entity{Label: s.Label, Text: text[s.Start:s.End]}
	}
	return out
}

// PreviewRow - one row that had something replaced
type PreviewRow struct {
	Row        int      `json:"row"`
	Original   string   `json:"original"`
	Anonymized string   `json:"anonymized"`
	Entities   []Entity `json:"entities"`
}

// Report - totals plus the first few rows with replacements
type Report struct {
	Rows         int          `json:"rows"`
	Changed      int          `json:"changed"`
	Replacements int          `json:"replacements"`
	Failed       int          `json:"failed"`
	Columns      []string     `json:"columns"`
	Preview      []PreviewRow `json:"preview"`
}

// Process - append Anonymized_<col> and Entities_<col>; every row is kept. Null rows stay null; a row
// that cannot be processed is logged and left null.
func Process(f *frame.Frame, col string, lx Lexicons, logf func(string)) (*frame.Frame, Report, error) {
	if f.Len() == 0 {
		return nil, Report{}, ErrEmptyDataset
	}
	cells, err := f.Column(col)
	if err != nil {
		return nil, Report{}, err
	}

	rep := Report{Rows: len(cells)}
	anon := make([]frame.Cell, len(cells))
	ents := make([]frame.Cell, len(cells))

	for r, c := range cells {
		if c.Kind == frame.Null {
			continue
		}
		a, ee, perr := lx.row(c.String())
		if perr != nil {
			rep.Failed++
			if logf != nil {
				logf(fmt.Sprintf("anonymizer: row %d: %s", r, perr.Error()))
			}
			continue
		}
		js, _ := json.Marshal(ee)
		anon[r] = frame.TextCell(a)
		ents[r] = frame.TextCell(string(js))
		if len(ee) > 0 {
			rep.Changed++
			rep.Replacements += len(ee)
			if len(rep.Preview) < PREVIEWROWS {
				rep.Preview = append(rep.Preview, PreviewRow{Row: r, Original: c.String(), Anonymized: a, Entities: ee})
			}
		}
	}

	rep.Columns = []string{vv.ANONCOLPREFIX + col, vv.ANONENTPREFIX + col}
	out, err := f.WithColumns(
		frame.NamedColumn{Name: rep.Columns[0], Cells: anon},
		frame.NamedColumn{Name: rep.Columns[1], Cells: ents},
	)
	if err != nil {
		return nil, Report{}, err
	}
	return out, rep, nil
}

func (lx Lexicons) row(text string) (a string, ee []Entity, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panicked: %v", r)
		}
	}()
	ss := lx.Detect(text)
	return Anonymize(text, ss), Entities(text, ss), nil
}
