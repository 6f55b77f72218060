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
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/pkg/errors"
)

// WriteWord2VecBinary writes the embeddings in the binary word2vec format.
// Since embeddings are normalized when they are read, the written
// embeddings are unit vectors.
func (e *Embeddings) WriteWord2VecBinary(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "%d %d\n", e.Size(), e.EmbeddingSize()); err != nil {
		return errors.Wrap(err, "cannot write header")
	}

	var buf []byte
	for idx, word := range e.words {
		buf = append(buf[:0], word...)
		buf = append(buf, ' ')
		for _, val := range e.row(idx) {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(val))
		}
		buf = append(buf, '\n')

		if _, err := bw.Write(buf); err != nil {
			return errors.Wrapf(err, "cannot write entry %d", idx)
		}
	}

	return errors.Wrap(bw.Flush(), "cannot flush embeddings")
}

// WriteWord2VecText writes the embeddings in the text word2vec format.
func (e *Embeddings) WriteWord2VecText(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "%d %d\n", e.Size(), e.EmbeddingSize()); err != nil {
		return errors.Wrap(err, "cannot write header")
	}

	var buf []byte
	for idx, word := range e.words {
		buf = append(buf[:0], word...)
		for _, val := range e.row(idx) {
			buf = append(buf, ' ')
			buf = strconv.AppendFloat(buf, float64(val), 'f', 6, 32)
		}
		buf = append(buf, '\n')

		if _, err := bw.Write(buf); err != nil {
			return errors.Wrapf(err, "cannot write entry %d", idx)
		}
	}

	return errors.Wrap(bw.Flush(), "cannot flush embeddings")
}
