//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package topics

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/e-gun/TextAnalysisWorkbench/internal/vv"
	"github.com/e-gun/wego/pkg/embedding"
	"github.com/e-gun/wego/pkg/model"
	"github.com/e-gun/wego/pkg/model/modelutil/vector"
	"github.com/e-gun/wego/pkg/model/word2vec"
	"gonum.org/v1/gonum/mat"
)

// Embedder - one vector per prepared document; strategy is the name SelectStrategy picked and decides which
// model gets trained
type Embedder interface {
	Embed(docs []string, strategy string, done func(frac float64)) (*mat.Dense, error)
	Describe(strategy string) string
}

// Word2Vec - trains a word2vec model on the corpus itself and averages the word vectors of each document
type Word2Vec struct {
	Iterations int
	Workers    int
}

func NewWord2Vec(iterations, workers int) Word2Vec {
	if iterations < 1 {
		iterations = vv.EMBEDITER
	}
	if workers < 1 {
		workers = 1
	}
	return Word2Vec{Iterations: iterations, Workers: workers}
}

// Options - skipgram for a monolingual English corpus; cbow with a wider window for everything else
func (w Word2Vec) Options(strategy string) word2vec.Options {
	cfg := word2vec.Options{
		BatchSize:          1024,
		Dim:                vv.EMBEDDIM,
		DocInMemory:        true,
		Goroutines:         w.Workers,
		Initlr:             0.025,
		Iter:               w.Iterations,
		LogBatch:           100000,
		MaxCount:           -1,
		MaxDepth:           150,
		MinCount:           vv.EMBEDMINCOUNT,
		MinLR:              0.0000025,
		ModelType:          vv.EMBEDSKIPGRAM,
		NegativeSampleSize: 5,
		OptimizerType:      vv.EMBEDOPTIMIZER,
		SubsampleThreshold: 0.001,
		ToLower:            false,
		UpdateLRBatch:      100000,
		Verbose:            false,
		Window:             5,
	}
	if strategy != vv.EMBEDMONOLINGUAL {
		cfg.ModelType = vv.EMBEDCBOW
		cfg.Window = 8
	}
	return cfg
}

// Describe - "word2vec skipgram, 100d"
func (w Word2Vec) Describe(strategy string) string {
	cfg := w.Options(strategy)
	return fmt.Sprintf("word2vec %s, %dd", cfg.ModelType, cfg.Dim)
}

func (w Word2Vec) Embed(docs []string, strategy string, done func(frac float64)) (*mat.Dense, error) {
	cfg := w.Options(strategy)

	var vm model.Model
	vm, err := word2vec.NewForOptions(cfg)
	if err != nil {
		return nil, fmt.Errorf("word2vec setup failed: %w", err)
	}

	// Train() wants an io.ReadSeeker; one document per line
	b := bytes.NewReader([]byte(strings.Join(docs, "\n")))

	finished := make(chan error, 1)
	go func() {
		finished <- vm.Train(b)
	}()

	ct := make(chan int)
	rep := make(chan string)
	go vm.Reporter(ct, rep)

	var terr error
	waiting := true
	for waiting {
		select {
		case terr = <-finished:
			waiting = false
		case i := <-ct:
			if done != nil && cfg.Iter > 0 {
				done(min(float64(i)/float64(cfg.Iter), 1))
			}
		case <-rep:
		}
	}
	if terr != nil {
		return nil, fmt.Errorf("word2vec training failed: %w", terr)
	}

	// skip the disk: save to a buffer and load it straight back
	var buf bytes.Buffer
	if err = vm.Save(&buf, vector.Agg); err != nil {
		return nil, fmt.Errorf("word2vec save failed: %w", err)
	}
	embs, err := embedding.Load(&buf)
	if err != nil {
		return nil, fmt.Errorf("word2vec load failed: %w", err)
	}

	words := make(map[string][]float64, len(embs))
	dim := 0
	for _, e := range embs {
		words[e.Word] = e.Vector
		dim = max(dim, len(e.Vector))
	}
	if dim == 0 {
		return nil, ErrNoEmbeddings
	}
	return average(docs, words, dim), nil
}

// average - each row is the mean of the known word vectors of a doc; a doc with no known word stays zero
func average(docs []string, words map[string][]float64, dim int) *mat.Dense {
	out := mat.NewDense(len(docs), dim, nil)
	for d, doc := range docs {
		n := 0
		row := make([]float64, dim)
		for _, w := range strings.Fields(doc) {
			v, ok := words[w]
			if !ok || len(v) != dim {
				continue
			}
			for i := range row {
				row[i] += v[i]
			}
			n++
		}
		if n == 0 {
			continue
		}
		for i := range row {
			row[i] /= float64(n)
		}
		out.SetRow(d, row)
	}
	return out
}
