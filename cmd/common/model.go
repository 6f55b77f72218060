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

package common

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/danieldk/wordvectors"
	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// LoadEmbeddings reads the model at path in the configured format. The
// file is memory-mapped for the duration of the read.
func LoadEmbeddings(path string, cfg *Config, logger *zap.Logger) (*wordvectors.Embeddings, error) {
	opts, err := cfg.ReadOptions()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open model")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "cannot stat model")
	}

	// Empty files cannot be mapped.
	var r io.Reader = bytes.NewReader(nil)
	if info.Size() > 0 {
		data, err := mmap.Map(f, mmap.RDONLY, 0)
		if err != nil {
			return nil, errors.Wrap(err, "cannot map model")
		}
		defer data.Unmap()

		r = bytes.NewReader(data)
	}

	read := wordvectors.ReadWord2VecBinary
	if cfg.Format == "text" {
		read = wordvectors.ReadWord2VecText
	}

	start := time.Now()
	embeds, err := read(r, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read model %s", path)
	}

	logger.Info("loaded embeddings",
		zap.String("path", path),
		zap.String("format", cfg.Format),
		zap.Int("words", embeds.Size()),
		zap.Int("dims", embeds.EmbeddingSize()),
		zap.Duration("elapsed", time.Since(start)))

	return embeds, nil
}

// PrintResults writes one result per line.
func PrintResults(w io.Writer, results []wordvectors.WordSimilarity) error {
	for _, result := range results {
		var err error
		if result.Cluster != "" {
			_, err = fmt.Fprintln(w, result.Word, result.Similarity, result.Cluster)
		} else {
			_, err = fmt.Fprintln(w, result.Word, result.Similarity)
		}
		if err != nil {
			return errors.Wrap(err, "cannot write results")
		}
	}

	return nil
}
