//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package topics

import (
	"sort"

	"github.com/e-gun/TextAnalysisWorkbench/internal/vv"
	"gonum.org/v1/gonum/floats"
)

// cluster - natural topics that have been merged together
type cluster struct {
	members []int
	vector  []float64
	size    int
}

// merge - agglomerate the natural topics down to k by repeatedly joining the two most similar clusters;
// documents follow their natural topic into its cluster
func merge(nat topicset, k int) topicset {
	cc := make([]cluster, len(nat.vectors))
	for t := range nat.vectors {
		v := make([]float64, len(nat.vectors[t]))
		copy(v, nat.vectors[t])
		cc[t] = cluster{members: []int{t}, vector: v, size: nat.sizes[t]}
	}

	for len(cc) > k {
		bi, bj, best := 0, 1, -2.0
		for i := 0; i < len(cc); i++ {
			for j := i + 1; j < len(cc); j++ {
				if s := cosine(cc[i].vector, cc[j].vector); s > best {
					bi, bj, best = i, j, s
				}
			}
		}
		cc[bi] = join(cc[bi], cc[bj])
		cc = append(cc[:bj], cc[bj+1:]...)
	}

	sort.SliceStable(cc, func(i, j int) bool {
		if cc[i].size != cc[j].size {
			return cc[i].size > cc[j].size
		}
		return cc[i].members[0] < cc[j].members[0]
	})

	owner := make(map[int]int)
	out := topicset{
		vectors: make([][]float64, len(cc)),
		sizes:   make([]int, len(cc)),
		assign:  make([]int, len(nat.assign)),
		prob:    make([]float64, len(nat.assign)),
		dist:    make([][]float64, len(nat.assign)),
	}
	for n, c := range cc {
		out.vectors[n] = normalised(c.vector)
		out.sizes[n] = c.size
		for _, t := range c.members {
			owner[t] = n
		}
	}

	for d := range nat.assign {
		out.dist[d] = make([]float64, len(cc))
		for t, p := range nat.dist[d] {
			out.dist[d][owner[t]] += p
		}
		if nat.assign[d] == vv.TOPICOUTLIER {
			out.assign[d] = vv.TOPICOUTLIER
			continue
		}
		n := owner[nat.assign[d]]
		out.assign[d] = n
		out.prob[d] = out.dist[d][n]
	}
	return out
}

// join - size-weighted mean of the two topic vectors
func join(a, b cluster) cluster {
	total := a.size + b.size
	wa, wb := 0.5, 0.5
	if total > 0 {
		wa = float64(a.size) / float64(total)
		wb = float64(b.size) / float64(total)
	}
	v := make([]float64, len(a.vector))
	floats.AddScaled(v, wa, a.vector)
	floats.AddScaled(v, wb, b.vector)

	members := append(append([]int{}, a.members...), b.members...)
	sort.Ints(members)
	return cluster{members: members, vector: v, size: total}
}

func cosine(a, b []float64) float64 {
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a, b) / (na * nb)
}
