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

package main

import (
	"os"

	"github.com/danieldk/wordvectors/cmd/common"
	"github.com/spf13/cobra"
)

func main() {
	if err := newBin2TextCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newBin2TextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordvectors-bin2text vectors.bin",
		Short: "Convert a binary word2vec model to the text format",
		Long: `Convert a binary word2vec model to the text format. The model is
written to stdout. Embeddings are normalized to unit length.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         runBin2Text,
	}

	common.AddFlags(cmd.Flags())

	return cmd
}

func runBin2Text(cmd *cobra.Command, args []string) error {
	cfg, err := common.LoadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := common.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	embeds, err := common.LoadEmbeddings(args[0], cfg, logger)
	if err != nil {
		return err
	}

	return embeds.WriteWord2VecText(cmd.OutOrStdout())
}
