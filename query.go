// Copyright 2015 Daniël de Kok
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package wordvectors

import (
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

// WordSimilarity is a query result.
type WordSimilarity struct {
	Word       string
	Similarity float32

	// Cluster is the cluster label of Word, empty if the embeddings
	// do not have cluster labels.
	Cluster string
}

// Similarity returns the limit words that are most similar to word by
// cosine similarity, in order of decreasing similarity. word itself is
// never part of the result.
func (e *Embeddings) Similarity(word string, limit int) ([]WordSimilarity, error) {
	idx, ok := e.indices[word]
	if !ok {
		return nil, &UnknownWordError{Word: word}
	}

	skips := map[string]struct{}{
		word: {},
	}

	return e.similarity(e.row(idx), skips, limit), nil
}

// Analogy answers analogy queries using the mean of the positive
// embeddings and the negated negative embeddings. For example,
// king - man + woman is the query
//
//	Analogy([]string{"king", "woman"}, []string{"man"}, limit)
//
// Words from the query are never part of the result.
func (e *Embeddings) Analogy(positive, negative []string, limit int) ([]WordSimilarity, error) {
	if len(positive) == 0 && len(negative) == 0 {
		return nil, &EmptyQueryError{}
	}

	target := blas32.Vector{N: e.embedSize, Inc: 1, Data: make([]float32, e.embedSize)}
	skips := make(map[string]struct{}, len(positive)+len(negative))

	for _, terms := range []struct {
		words []string
		sign  float32
	}{{positive, 1}, {negative, -1}} {
		for _, word := range terms.words {
			idx, ok := e.indices[word]
			if !ok {
				return nil, &UnknownWordError{Word: word}
			}

			blas32.Axpy(terms.sign, blas32.Vector{N: e.embedSize, Inc: 1, Data: e.row(idx)}, target)
			skips[word] = struct{}{}
		}
	}

	blas32.Scal(1/float32(len(positive)+len(negative)), target)

	return e.similarity(target.Data, skips, limit), nil
}

// SimilarityVector returns the limit words whose embeddings have the
// highest dot product with vec, skipping the given words.
func (e *Embeddings) SimilarityVector(vec []float32, limit int, skip ...string) ([]WordSimilarity, error) {
	if len(vec) != e.embedSize {
		return nil, errors.Errorf("query vector has %d components, expected %d", len(vec), e.embedSize)
	}

	if !isFinite(vec) {
		return nil, errors.New("query vector contains a non-finite component")
	}

	skips := make(map[string]struct{}, len(skip))
	for _, word := range skip {
		skips[word] = struct{}{}
	}

	return e.similarity(vec, skips, limit), nil
}

func (e *Embeddings) similarity(vec []float32, skips map[string]struct{}, limit int) []WordSimilarity {
	if limit <= 0 || len(e.words) == 0 {
		return []WordSimilarity{}
	}

	sims := make([]float32, len(e.words))
	blas32.Gemv(blas.NoTrans, 1,
		blas32.General{Rows: len(e.words), Cols: e.embedSize, Stride: e.embedSize, Data: e.matrix},
		blas32.Vector{N: e.embedSize, Inc: 1, Data: vec},
		0,
		blas32.Vector{N: len(sims), Inc: 1, Data: sims})

	results := make([]WordSimilarity, 0, min(limit, len(e.words)))

	for idx, sim := range sims {
		// Skip words in the skip set.
		if _, ok := skips[e.words[idx]]; ok {
			continue
		}

		// Equal similarities keep vocabulary order.
		ip := sort.Search(len(results), func(i int) bool {
			return results[i].Similarity < sim
		})
		if ip < limit {
			results = insertWithLimit(results, limit, ip, e.result(idx, sim))
		}
	}

	return results
}

func (e *Embeddings) result(idx int, sim float32) WordSimilarity {
	ws := WordSimilarity{Word: e.words[idx], Similarity: sim}
	if e.clusters != nil {
		ws.Cluster = e.clusters[idx]
	}

	return ws
}

func insertWithLimit(slice []WordSimilarity, limit, index int, value WordSimilarity) []WordSimilarity {
	if len(slice) < limit {
		slice = append(slice, WordSimilarity{})
	}

	copy(slice[index+1:], slice[index:len(slice)-1])
	slice[index] = value
	return slice
}
