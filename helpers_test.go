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
	"encoding/binary"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

type entry struct {
	word string
	vec  []float32
}

// binaryModel encodes entries in the binary word2vec format.
func binaryModel(embedSize int, entries ...entry) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d %d\n", len(entries), embedSize)
	for _, e := range entries {
		buf.WriteString(e.word)
		buf.WriteByte(' ')
		writeFloats(&buf, e.vec...)
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}

func writeFloats(buf *bytes.Buffer, vals ...float32) {
	var b [4]byte
	for _, val := range vals {
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(val))
		buf.Write(b[:])
	}
}

func unit(vec ...float32) []float32 {
	var norm float64
	for _, val := range vec {
		norm += float64(val) * float64(val)
	}
	norm = math.Sqrt(norm)

	result := make([]float32, len(vec))
	for idx, val := range vec {
		result[idx] = float32(float64(val) / norm)
	}

	return result
}

func readBinaryOrFail(t *testing.T, data []byte, opts ...ReadOption) *Embeddings {
	t.Helper()

	embeds, err := ReadWord2VecBinary(bytes.NewReader(data), opts...)
	require.NoError(t, err)

	return embeds
}

func requireEmbedding(t *testing.T, embeds *Embeddings, word string, expected []float32) {
	t.Helper()

	vec, ok := embeds.Embedding(word)
	require.True(t, ok, "word %q should be known", word)
	require.InDeltaSlice(t, expected, vec, 1e-6)
}
