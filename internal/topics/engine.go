//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package topics

import (
	"fmt"
	"strings"

	"github.com/e-gun/TextAnalysisWorkbench/internal/vv"
	"github.com/e-gun/nlp"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Engine - fits k topics over prepared documents
type Engine interface {
	Fit(docs []string, k int) (Fit, error)
}

// Fit - what an Engine hands back
type Fit struct {
	DocTopic  *mat.Dense // docs x k; each row is a distribution
	TopicWord *mat.Dense // k x vocab
	Vocab     []string   // column labels of TopicWord
	InVocab   []bool     // false: the doc shares no word with the vocabulary
}

// LDA - latent dirichlet allocation via the nlp pipeline
type LDA struct {
	Iterations int
	Passes     int
	Processes  int
	Seed       uint64
}

func NewLDA(iterations, processes int, seed uint64) LDA {
	if iterations < 1 {
		iterations = vv.LDAITER
	}
	return LDA{
		Iterations: iterations,
		Passes:     vv.LDAXFORMPASSES,
		Processes:  processes,
		Seed:       seed,
	}
}

func (l LDA) Fit(docs []string, k int) (Fit, error) {
	vectoriser := nlp.NewCountVectoriser()

	lda := nlp.NewLatentDirichletAllocation(k)
	lda.Iterations = l.Iterations
	lda.TransformationPasses = l.Passes
	if l.Processes > 0 {
		lda.Processes = l.Processes
	}
	lda.Rnd = rand.New(rand.NewSource(l.Seed))

	pipeline := nlp.NewPipeline(vectoriser, lda)

	// topics x docs
	docsOverTopics, err := pipeline.FitTransform(docs...)
	if err != nil {
		return Fit{}, fmt.Errorf("lda fit failed: %w", err)
	}
	topicsOverWords := lda.Components()

	vocab := make([]string, len(vectoriser.Vocabulary))
	for w, i := range vectoriser.Vocabulary {
		vocab[i] = w
	}

	tr, dc := docsOverTopics.Dims()
	dt := mat.NewDense(dc, tr, nil)
	dt.Copy(docsOverTopics.T())

	tw := mat.DenseCopyOf(topicsOverWords)

	in := make([]bool, len(docs))
	for d, doc := range docs {
		for _, w := range strings.Fields(doc) {
			if _, ok := vectoriser.Vocabulary[w]; ok {
				in[d] = true
				break
			}
		}
	}

	return Fit{DocTopic: dt, TopicWord: tw, Vocab: vocab, InVocab: in}, nil
}
