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
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
)

// Allocations up front are bounded by these limits; beyond them, storage
// grows with the data that is actually read.
const (
	maxPreallocWords  = 1 << 16
	maxPreallocFloats = 1 << 22
	chunkFloats       = 1 << 12
)

type readOptions struct {
	encoding encoding.Encoding
	maxWords int
	vocab    map[string]struct{}
}

// ReadOption configures the word2vec readers.
type ReadOption func(*readOptions)

// WithEncoding decodes words from the given character encoding. Words are
// expected to be UTF-8 when this option is not used.
func WithEncoding(enc encoding.Encoding) ReadOption {
	return func(o *readOptions) {
		o.encoding = enc
	}
}

// WithMaxWords reads at most n entries. A non-positive n reads all entries.
func WithMaxWords(n int) ReadOption {
	return func(o *readOptions) {
		o.maxWords = n
	}
}

// WithVocabulary only retains entries for the given words. Other entries
// are parsed and discarded.
func WithVocabulary(words []string) ReadOption {
	return func(o *readOptions) {
		o.vocab = make(map[string]struct{}, len(words))
		for _, word := range words {
			o.vocab[word] = struct{}{}
		}
	}
}

// ReadWord2VecBinary reads embeddings in the binary word2vec format:
//
//	<n_words> <embed_size>\n
//	(<word> <embed_size little-endian float32s>\n)*
//
// The embeddings are normalized to unit length. On failure, no embeddings
// are returned and the error is one of *FormatError, *TruncatedDataError
// or a wrapped I/O error.
func ReadWord2VecBinary(r io.Reader, opts ...ReadOption) (*Embeddings, error) {
	br := bufferedReader(r)

	nWords, embedSize, err := readHeader(br)
	if err != nil {
		return nil, err
	}

	b := newBuilder(opts, nWords, embedSize)
	buf := make([]byte, 4*min(embedSize, chunkFloats))
	chunk := make([]float32, min(embedSize, chunkFloats))
	var vec []float32

	for idx := 0; idx < b.nWords; idx++ {
		raw, err := readWord(br, idx)
		if err != nil {
			return nil, err
		}

		word, err := b.decodeWord(idx, raw)
		if err != nil {
			return nil, err
		}

		if vec, err = readEmbedding(br, idx, embedSize, vec[:0], chunk, buf); err != nil {
			return nil, err
		}

		if err := b.add(idx, word, vec); err != nil {
			return nil, err
		}

		// Separator; it may be missing after the last entry.
		if _, err := br.ReadByte(); err != nil {
			if err == io.EOF && idx == b.nWords-1 {
				break
			}
			if err == io.EOF {
				return nil, &TruncatedDataError{Entry: idx, Msg: "missing entry separator", cause: err}
			}
			return nil, errors.Wrapf(err, "cannot read separator of entry %d", idx)
		}
	}

	return b.finish(), nil
}

// ReadWord2VecText reads embeddings in the text word2vec format:
//
//	<n_words> <embed_size>\n
//	(<word> <float> ... <float>\n)*
//
// The embeddings are normalized to unit length. Errors are reported as in
// ReadWord2VecBinary.
func ReadWord2VecText(r io.Reader, opts ...ReadOption) (*Embeddings, error) {
	br := bufferedReader(r)

	nWords, embedSize, err := readHeader(br)
	if err != nil {
		return nil, err
	}

	b := newBuilder(opts, nWords, embedSize)
	var vec []float32

	for idx := 0; idx < b.nWords; idx++ {
		line, err := br.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, errors.Wrapf(err, "cannot read entry %d", idx)
		}
		if len(line) == 0 {
			return nil, &TruncatedDataError{Entry: idx, Msg: "stream ends before entry", cause: err}
		}

		fields := bytes.Fields(line)
		if len(fields) == 0 {
			return nil, &FormatError{Entry: idx, Msg: "empty line"}
		}

		word, err := b.decodeWord(idx, fields[0])
		if err != nil {
			return nil, err
		}

		if len(fields)-1 != embedSize {
			return nil, &FormatError{
				Entry: idx,
				Msg:   fmt.Sprintf("embedding has %d components, expected %d", len(fields)-1, embedSize),
			}
		}

		vec = vec[:0]
		for _, field := range fields[1:] {
			val, err := strconv.ParseFloat(string(field), 32)
			if err != nil {
				return nil, &FormatError{Entry: idx, Msg: fmt.Sprintf("invalid component %q", field), cause: err}
			}
			vec = append(vec, float32(val))
		}

		if err := b.add(idx, word, vec); err != nil {
			return nil, err
		}
	}

	return b.finish(), nil
}

func bufferedReader(r io.Reader) *bufio.Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return br
	}

	return bufio.NewReader(r)
}

func readHeader(r *bufio.Reader) (nWords, embedSize int, err error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			return 0, 0, &FormatError{Entry: -1, Msg: "missing header line", cause: err}
		}
		return 0, 0, errors.Wrap(err, "cannot read header")
	}

	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, &FormatError{Entry: -1, Msg: fmt.Sprintf("expected 2 fields, got %d", len(fields))}
	}

	if nWords, err = parsePositive(fields[0]); err != nil {
		return 0, 0, err
	}

	if embedSize, err = parsePositive(fields[1]); err != nil {
		return 0, 0, err
	}

	return nWords, embedSize, nil
}

func parsePositive(field string) (int, error) {
	n, err := strconv.Atoi(field)
	if err != nil {
		return 0, &FormatError{Entry: -1, Msg: fmt.Sprintf("invalid number %q", field), cause: err}
	}
	if n <= 0 {
		return 0, &FormatError{Entry: -1, Msg: fmt.Sprintf("expected a positive number, got %d", n)}
	}

	return n, nil
}

// readWord reads a space-terminated word and returns it without the space.
func readWord(r *bufio.Reader, entry int) ([]byte, error) {
	raw, err := r.ReadBytes(' ')
	if err != nil {
		if err != io.EOF {
			return nil, errors.Wrapf(err, "cannot read word of entry %d", entry)
		}
		if len(raw) == 0 {
			return nil, &TruncatedDataError{Entry: entry, Msg: "stream ends before entry", cause: err}
		}
		return nil, &FormatError{Entry: entry, Msg: "word is not terminated by a space", cause: err}
	}

	return raw[:len(raw)-1], nil
}

// readEmbedding appends an embedding of embedSize floats to vec. The
// embedding is read in chunks, so vec only grows as far as the stream
// provides data.
func readEmbedding(r io.Reader, entry, embedSize int, vec, chunk []float32, buf []byte) ([]float32, error) {
	for remaining := embedSize; remaining > 0; {
		n := min(remaining, len(chunk))

		if got, err := io.ReadFull(r, buf[:4*n]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil, &TruncatedDataError{
					Entry: entry,
					Msg: fmt.Sprintf("expected %d bytes of embedding data, got %d",
						4*int64(embedSize), 4*int64(len(vec))+int64(got)),
					cause: err,
				}
			}
			return nil, errors.Wrapf(err, "cannot read embedding of entry %d", entry)
		}

		if err := decodeFloat32s(chunk[:n], buf[:4*n]); err != nil {
			return nil, err
		}

		vec = append(vec, chunk[:n]...)
		remaining -= n
	}

	return vec, nil
}

// decodeFloat32s decodes little-endian IEEE 754 floats from b into dst.
func decodeFloat32s(dst []float32, b []byte) error {
	if len(b) != 4*len(dst) {
		return errors.Errorf("cannot decode %d bytes into %d floats", len(b), len(dst))
	}

	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}

	return nil
}

// builder accumulates the entries shared by both readers.
type builder struct {
	opts      readOptions
	nWords    int
	embedSize int
	words     []string
	matrix    []float32
}

func newBuilder(opts []ReadOption, nWords, embedSize int) *builder {
	var o readOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.maxWords > 0 && o.maxWords < nWords {
		nWords = o.maxWords
	}

	capacity := min(nWords, maxPreallocWords)
	if o.vocab != nil {
		capacity = min(capacity, len(o.vocab))
	}

	return &builder{
		opts:      o,
		nWords:    nWords,
		embedSize: embedSize,
		words:     make([]string, 0, capacity),
		matrix:    make([]float32, 0, min(capacity, maxPreallocFloats/embedSize)*embedSize),
	}
}

func (b *builder) decodeWord(entry int, raw []byte) (string, error) {
	if b.opts.encoding != nil {
		decoded, err := b.opts.encoding.NewDecoder().Bytes(raw)
		if err != nil {
			return "", &FormatError{Entry: entry, Msg: "cannot decode word", cause: err}
		}
		raw = decoded
	}

	if len(raw) == 0 {
		return "", &FormatError{Entry: entry, Msg: "empty word"}
	}

	if !utf8.Valid(raw) {
		return "", &FormatError{Entry: entry, Msg: "word is not valid UTF-8"}
	}

	for _, c := range raw {
		if c == '\n' {
			return "", &FormatError{Entry: entry, Msg: "word contains a newline"}
		}
	}

	return string(raw), nil
}

// add copies vec into the matrix, unless word is filtered out.
func (b *builder) add(entry int, word string, vec []float32) error {
	if !isFinite(vec) {
		return &FormatError{Entry: entry, Msg: "embedding contains a non-finite component"}
	}

	if b.opts.vocab != nil {
		if _, ok := b.opts.vocab[word]; !ok {
			return nil
		}
	}

	b.words = append(b.words, word)
	b.matrix = append(b.matrix, vec...)

	return nil
}

func (b *builder) finish() *Embeddings {
	return newEmbeddings(b.words, b.matrix, b.embedSize, nil)
}
