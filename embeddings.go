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
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// Embeddings stores a vocabulary and its word embeddings. Embeddings are
// normalized to unit length when they are added, so the dot product of two
// embeddings is their cosine similarity.
//
// An Embeddings value is immutable after construction and can be queried
// from multiple goroutines.
type Embeddings struct {
	words     []string
	indices   map[string]int
	matrix    []float32
	embedSize int
	clusters  []string
}

type options struct {
	clusters []string
}

// Option configures NewEmbeddings.
type Option func(*options)

// WithClusters assigns a cluster label to every word. The number of labels
// must equal the number of words.
func WithClusters(labels []string) Option {
	return func(o *options) {
		o.clusters = labels
	}
}

// NewEmbeddings creates embeddings from in-memory words and vectors. Every
// vector must have embedSize components.
func NewEmbeddings(embedSize int, words []string, vectors [][]float32, opts ...Option) (*Embeddings, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if embedSize <= 0 {
		return nil, errors.Errorf("embedding size should be positive, was %d", embedSize)
	}

	if len(words) != len(vectors) {
		return nil, errors.Errorf("got %d words and %d vectors", len(words), len(vectors))
	}

	if o.clusters != nil && len(o.clusters) != len(words) {
		return nil, errors.Errorf("got %d words and %d cluster labels", len(words), len(o.clusters))
	}

	matrix := make([]float32, 0, len(words)*embedSize)
	for idx, vec := range vectors {
		if len(vec) != embedSize {
			return nil, &FormatError{Entry: idx, Msg: fmt.Sprintf("embedding has %d components, expected %d", len(vec), embedSize)}
		}
		if !isFinite(vec) {
			return nil, &FormatError{Entry: idx, Msg: "embedding contains a non-finite component"}
		}
		matrix = append(matrix, vec...)
	}

	clusters := o.clusters
	if clusters != nil {
		clusters = append([]string(nil), clusters...)
	}

	return newEmbeddings(append([]string(nil), words...), matrix, embedSize, clusters), nil
}

// newEmbeddings takes ownership of words and matrix, normalizes the rows
// and builds the word index.
func newEmbeddings(words []string, matrix []float32, embedSize int, clusters []string) *Embeddings {
	for idx := range words {
		normalize(matrix[idx*embedSize : (idx+1)*embedSize])
	}

	// The first occurrence of a duplicate word wins.
	indices := make(map[string]int, len(words))
	for idx, word := range words {
		if _, ok := indices[word]; !ok {
			indices[word] = idx
		}
	}

	return &Embeddings{
		words:     words,
		indices:   indices,
		matrix:    matrix,
		embedSize: embedSize,
		clusters:  clusters,
	}
}

// Size returns the number of words in the vocabulary.
func (e *Embeddings) Size() int {
	return len(e.words)
}

// EmbeddingSize returns the dimensionality of the embeddings.
func (e *Embeddings) EmbeddingSize() int {
	return e.embedSize
}

// Word returns the word at vocabulary index idx. It panics when idx is
// out of range.
func (e *Embeddings) Word(idx int) string {
	return e.words[idx]
}

// Words returns the vocabulary in file order.
func (e *Embeddings) Words() []string {
	return append([]string(nil), e.words...)
}

// Index returns the vocabulary index of word. If word occurs more than
// once, the index of its first occurrence is returned.
func (e *Embeddings) Index(word string) (int, bool) {
	idx, ok := e.indices[word]
	return idx, ok
}

// Contains reports whether word is in the vocabulary.
func (e *Embeddings) Contains(word string) bool {
	_, ok := e.indices[word]
	return ok
}

// Embedding returns a copy of the (normalized) embedding of word.
func (e *Embeddings) Embedding(word string) ([]float32, bool) {
	idx, ok := e.indices[word]
	if !ok {
		return nil, false
	}

	return append([]float32(nil), e.row(idx)...), true
}

// Cluster returns the cluster label of word. ok is false when the word is
// unknown or the embeddings have no cluster labels.
func (e *Embeddings) Cluster(word string) (label string, ok bool) {
	idx, ok := e.indices[word]
	if !ok || e.clusters == nil {
		return "", false
	}

	return e.clusters[idx], true
}

// Iterate calls f for every word and its embedding in vocabulary order,
// until f returns false. The embedding passed to f is a copy that is
// reused between calls.
func (e *Embeddings) Iterate(f func(word string, embedding []float32) bool) {
	buf := make([]float32, e.embedSize)
	for idx, word := range e.words {
		copy(buf, e.row(idx))
		if !f(word, buf) {
			break
		}
	}
}

func (e *Embeddings) row(idx int) []float32 {
	return e.matrix[idx*e.embedSize : (idx+1)*e.embedSize : (idx+1)*e.embedSize]
}

// normalize scales vec to unit length. The norm is accumulated and
// divided in float64, so subnormal vectors do not overflow.
func normalize(vec []float32) {
	var sum float64
	for _, val := range vec {
		sum += float64(val) * float64(val)
	}

	norm := math.Sqrt(sum)
	if norm == 0 {
		return
	}

	for idx, val := range vec {
		vec[idx] = float32(float64(val) / norm)
	}
}

func isFinite(vec []float32) bool {
	for _, val := range vec {
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}

	return true
}
