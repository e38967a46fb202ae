//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package bench

import (
	"context"
	"sync"

	"github.com/e-gun/TextAnalysisWorkbench/internal/anon"
	"github.com/e-gun/TextAnalysisWorkbench/internal/cloud"
	"github.com/e-gun/TextAnalysisWorkbench/internal/sentiment"
	"github.com/e-gun/TextAnalysisWorkbench/internal/textprep"
	"github.com/e-gun/TextAnalysisWorkbench/internal/topics"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Bench - the collaborators every handler may call; built once at launch and shared by all sessions.
// Nothing here holds per-session state.
type Bench struct {
	Detector    textprep.Detector
	Transformer sentiment.Classifier // nil: VADER only
	Lexicon     sentiment.Classifier
	Workers     int
	Engine      topics.Engine
	Embedder    topics.Embedder // nil: no document embeddings
	Lexicons    *LexiconSource
	Cloud       cloud.Options
	Logf        func(string)
}

// numbers in messages get thousands separators
var printer = message.NewPrinter(language.English)

func New(det textprep.Detector, eng topics.Engine, lex *LexiconSource) *Bench {
	return &Bench{
		Detector: det,
		Lexicon:  sentiment.NewLexicon(),
		Engine:   eng,
		Lexicons: lex,
		Cloud:    cloud.DefaultOptions(),
	}
}

func (b *Bench) logf(s string) {
	if b.Logf != nil {
		b.Logf(s)
	}
}

func sprintf(f string, a ...any) string {
	return printer.Sprintf(f, a...)
}

// LexiconSource - the name and illness lists are fetched at most once per process
type LexiconSource struct {
	once sync.Once
	load func(ctx context.Context) (anon.Lexicons, anon.Provenance)
	lx   anon.Lexicons
	prov anon.Provenance
}

func NewLexiconSource(load func(ctx context.Context) (anon.Lexicons, anon.Provenance)) *LexiconSource {
	return &LexiconSource{load: load}
}

// FixedLexicons - no download at all
func FixedLexicons(lx anon.Lexicons) *LexiconSource {
	return NewLexiconSource(func(context.Context) (anon.Lexicons, anon.Provenance) {
		return lx, anon.Provenance{Names: anon.FROMCACHE, Illnesses: anon.FROMCACHE}
	})
}

// Get - blocks on the first call; later calls return what the first one found
func (ls *LexiconSource) Get(ctx context.Context) (anon.Lexicons, anon.Provenance) {
	ls.once.Do(func() {
		ls.lx, ls.prov = ls.load(ctx)
	})
	return ls.lx, ls.prov
}
