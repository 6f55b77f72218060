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
	"bytes"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestReadBinaryRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	var entries []entry
	for i := 0; i < 50; i++ {
		vec := make([]float32, 8)
		for j := range vec {
			vec[j] = rng.Float32()*2 - 1
		}
		entries = append(entries, entry{fmt.Sprintf("wörd%d", i), vec})
	}

	embeds := readBinaryOrFail(t, binaryModel(8, entries...))

	require.Equal(t, 50, embeds.Size())
	require.Equal(t, 8, embeds.EmbeddingSize())

	for idx, e := range entries {
		assert.Equal(t, e.word, embeds.Word(idx))
		requireEmbedding(t, embeds, e.word, unit(e.vec...))
	}
}

func TestReadBinaryMissingFinalSeparator(t *testing.T) {
	data := binaryModel(2, entry{"cat", []float32{1, 0}}, entry{"dog", []float32{0, 3}})
	data = data[:len(data)-1]

	embeds := readBinaryOrFail(t, data)
	requireEmbedding(t, embeds, "dog", []float32{0, 1})
}

func TestReadBinaryZeroVector(t *testing.T) {
	embeds := readBinaryOrFail(t, binaryModel(3, entry{"nil", []float32{0, 0, 0}}))
	requireEmbedding(t, embeds, "nil", []float32{0, 0, 0})
}

func TestReadBinaryTruncated(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("1 300\nword ")
	writeFloats(&buf, make([]float32, 100)...)

	_, err := ReadWord2VecBinary(&buf)

	var truncErr *TruncatedDataError
	require.ErrorAs(t, err, &truncErr)
	assert.Equal(t, 0, truncErr.Entry)
}

func TestReadBinaryTruncatedEntries(t *testing.T) {
	for _, tc := range []struct {
		name string
		data []byte
	}{
		{"missing entry", bytes.TrimSuffix(binaryModel(1, entry{"a", []float32{1}}, entry{"b", []float32{1}}), []byte("b \x00\x00\x80\x3f\n"))},
		{"missing separator", binaryModel(1, entry{"a", []float32{1}}, entry{"b", []float32{1}})[:len("2 1\na ")+4]},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadWord2VecBinary(bytes.NewReader(tc.data))

			var truncErr *TruncatedDataError
			require.ErrorAs(t, err, &truncErr)
		})
	}
}

func TestReadTruncatedHugeHeader(t *testing.T) {
	_, err := ReadWord2VecBinary(strings.NewReader("4000000000000 4000000000\nw \x00\x00"))

	var truncErr *TruncatedDataError
	require.ErrorAs(t, err, &truncErr)
	assert.Equal(t, 0, truncErr.Entry)

	_, err = ReadWord2VecText(strings.NewReader("4000000000000 4000000000\nw 1 2\n"))
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)

	_, err = ReadWord2VecText(strings.NewReader("4000000000000 2\nw 1 2\n"))
	require.ErrorAs(t, err, &truncErr)
	assert.Equal(t, 1, truncErr.Entry)
}

func TestReadBinaryMultipleChunks(t *testing.T) {
	embedSize := 3*chunkFloats + 7

	vec := make([]float32, embedSize)
	for i := range vec {
		vec[i] = float32(i%13) - 6
	}

	embeds := readBinaryOrFail(t, binaryModel(embedSize, entry{"long", vec}, entry{"short", vec}))
	requireEmbedding(t, embeds, "short", unit(vec...))

	data := binaryModel(embedSize, entry{"long", vec})
	_, err := ReadWord2VecBinary(bytes.NewReader(data[:len(data)-4*chunkFloats]))

	var truncErr *TruncatedDataError
	require.ErrorAs(t, err, &truncErr)
}

func TestReadHeaderErrors(t *testing.T) {
	for _, header := range []string{
		"",
		"3 2",
		"3\n",
		"3 2 1\n",
		"three 2\n",
		"3 two\n",
		"0 2\n",
		"3 0\n",
		"-1 2\n",
	} {
		t.Run(fmt.Sprintf("%q", header), func(t *testing.T) {
			for _, read := range []func(r *strings.Reader) (*Embeddings, error){
				func(r *strings.Reader) (*Embeddings, error) { return ReadWord2VecBinary(r) },
				func(r *strings.Reader) (*Embeddings, error) { return ReadWord2VecText(r) },
			} {
				embeds, err := read(strings.NewReader(header))
				assert.Nil(t, embeds)

				var formatErr *FormatError
				require.ErrorAs(t, err, &formatErr)
				assert.Equal(t, -1, formatErr.Entry)
			}
		})
	}
}

func TestReadBinaryWordErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		data string
	}{
		{"unterminated", "1 1\nabc"},
		{"invalid UTF-8", "1 1\n\xff\xfe \x00\x00\x80\x3f\n"},
		{"empty word", "1 1\n \x00\x00\x80\x3f\n"},
		{"NaN", "1 1\nnan \x00\x00\xc0\x7f\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadWord2VecBinary(strings.NewReader(tc.data))

			var formatErr *FormatError
			require.ErrorAs(t, err, &formatErr)
			assert.Equal(t, 0, formatErr.Entry)
		})
	}
}

func TestReadBinaryIOError(t *testing.T) {
	_, err := ReadWord2VecBinary(failingReader{})
	require.Error(t, err)
	assert.Equal(t, errRead, errors.Cause(err))
}

var errRead = errors.New("read failed")

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errRead
}

func TestReadBinaryEncoding(t *testing.T) {
	data := binaryModel(1, entry{"caf\xe9", []float32{1}})

	_, err := ReadWord2VecBinary(bytes.NewReader(data))
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)

	embeds := readBinaryOrFail(t, data, WithEncoding(charmap.ISO8859_1))
	assert.True(t, embeds.Contains("café"))
}

func TestReadBinaryMaxWords(t *testing.T) {
	data := binaryModel(1,
		entry{"a", []float32{1}},
		entry{"b", []float32{1}},
		entry{"c", []float32{1}})

	embeds := readBinaryOrFail(t, data, WithMaxWords(2))
	assert.Equal(t, []string{"a", "b"}, embeds.Words())

	embeds = readBinaryOrFail(t, data, WithMaxWords(0))
	assert.Equal(t, 3, embeds.Size())
}

func TestReadBinaryVocabulary(t *testing.T) {
	data := binaryModel(2,
		entry{"a", []float32{1, 0}},
		entry{"b", []float32{0, 1}},
		entry{"c", []float32{1, 1}})

	embeds := readBinaryOrFail(t, data, WithVocabulary([]string{"c", "a", "z"}))
	assert.Equal(t, []string{"a", "c"}, embeds.Words())
	requireEmbedding(t, embeds, "c", unit(1, 1))
	assert.False(t, embeds.Contains("b"))
}

func TestReadText(t *testing.T) {
	embeds, err := ReadWord2VecText(strings.NewReader("3 3\nfoo 1 0 0\nbar 0 2 0\nbaz\t0 0 -4.5"))
	require.NoError(t, err)

	assert.Equal(t, []string{"foo", "bar", "baz"}, embeds.Words())
	requireEmbedding(t, embeds, "bar", []float32{0, 1, 0})
	requireEmbedding(t, embeds, "baz", []float32{0, 0, -1})
}

func TestReadTextWhitespace(t *testing.T) {
	embeds, err := ReadWord2VecText(strings.NewReader("2\f2\r\nfoo\f1\v0\r\n  bar\t0 1\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"foo", "bar"}, embeds.Words())
	requireEmbedding(t, embeds, "foo", []float32{1, 0})
}

func TestReadTextMatchesBinary(t *testing.T) {
	entries := []entry{
		{"cat", []float32{1, 2, 3}},
		{"dog", []float32{-1, 0.5, 0}},
	}

	binEmbeds := readBinaryOrFail(t, binaryModel(3, entries...))
	textEmbeds, err := ReadWord2VecText(strings.NewReader("2 3\ncat 1 2 3\ndog -1 0.5 0\n"))
	require.NoError(t, err)

	require.Equal(t, binEmbeds.Words(), textEmbeds.Words())
	for _, e := range entries {
		vec, _ := binEmbeds.Embedding(e.word)
		requireEmbedding(t, textEmbeds, e.word, vec)
	}
}

func TestReadTextErrors(t *testing.T) {
	for _, tc := range []struct {
		name      string
		data      string
		truncated bool
	}{
		{"too few components", "1 3\nfoo 1 0\n", false},
		{"too many components", "1 2\nfoo 1 0 0\n", false},
		{"invalid component", "1 2\nfoo 1 x\n", false},
		{"empty line", "2 1\nfoo 1\n\nbar 1\n", false},
		{"invalid UTF-8", "1 1\n\xff 1\n", false},
		{"infinite", "1 1\nfoo +Inf\n", false},
		{"missing entry", "2 1\nfoo 1\n", true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			embeds, err := ReadWord2VecText(strings.NewReader(tc.data))
			assert.Nil(t, embeds)

			if tc.truncated {
				var truncErr *TruncatedDataError
				require.ErrorAs(t, err, &truncErr)
				return
			}

			var formatErr *FormatError
			require.ErrorAs(t, err, &formatErr)
		})
	}
}

func TestDecodeFloat32s(t *testing.T) {
	dst := make([]float32, 2)
	require.Error(t, decodeFloat32s(dst, []byte{0, 0, 0}))

	require.NoError(t, decodeFloat32s(dst, []byte{0, 0, 0x80, 0x3f, 0, 0, 0, 0xc0}))
	assert.Equal(t, []float32{1, -2}, dst)
}
