//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package textprep

import (
	"strings"

	"github.com/e-gun/TextAnalysisWorkbench/internal/gen"
)

// the NLTK lists

const englishstops = `i me my myself we our ours ourselves you you're you've you'll you'd your yours yourself
yourselves he him his himself she she's her hers herself it it's its itself they them their theirs themselves
what which who whom this that that'll these those am is are was were be been being have has had having do does
did doing a an the and but if or because as until while of at by for with about against between into through
during before after above below to from up down in out on off over under again further then once here there when
where why how all any both each few more most other some such no nor not only own same so than too very s t can
will just don don't should should've now d ll m o re ve y ain aren aren't couldn couldn't didn didn't doesn
doesn't hadn hadn't hasn hasn't haven haven't isn isn't ma mightn mightn't mustn mustn't needn needn't shan
shan't shouldn shouldn't wasn wasn't weren weren't won won't wouldn wouldn't`

const dutchstops = `de en van ik te dat die in een hij het niet zijn is was op aan met als voor had er maar om hem
dan zou of wat mijn men dit zo door over ze zich bij ook tot je mij uit der daar haar naar heb hoe heeft hebben
deze u want nog zal me zij nu ge geen omdat iets worden toch al waren veel meer doen toen moet ben zonder kan hun
dus alles onder ja eens hier wie werd altijd doch wordt wezen kunnen ons zelf tegen na reeds wil kon niets uw
iemand geweest andere`

// StopSet - a set of lowercased words
type StopSet map[string]struct{}

func (s StopSet) Has(w string) bool {
	_, ok := s[w]
	return ok
}

var (
	english  = StopSet(gen.ToSet(strings.Fields(englishstops)))
	dutch    = StopSet(gen.ToSet(strings.Fields(dutchstops)))
	combined = StopSet(gen.SetUnion(english, dutch))
)

func English() StopSet  { return english }
func Dutch() StopSet    { return dutch }
func Combined() StopSet { return combined }

// ForLanguage - the set for an ISO 639-1 code; anything unknown gets the combined set
func ForLanguage(code string) StopSet {
	switch code {
	case "en":
		return english
	case "nl":
		return dutch
	default:
		return combined
	}
}

// WithUserWords - a new set: base plus the extra words, lowercased and trimmed
func WithUserWords(base StopSet, extra []string) StopSet {
	out := make(StopSet, len(base)+len(extra))
	for k := range base {
		out[k] = struct{}{}
	}
	for _, w := range extra {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out[w] = struct{}{}
		}
	}
	return out
}
