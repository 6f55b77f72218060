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
	"bufio"
	"os"

	"github.com/danieldk/wordvectors/cmd/common"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newDistanceCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newDistanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordvectors-distance vectors.bin",
		Short: "Print the words that are most similar to the words read from stdin",
		Long: `Print the words that are most similar to the words read from stdin.

Words are separated by whitespace. For every word, the most similar words
and their cosine similarities are printed, one per line.

Examples:
  echo Berlin | wordvectors-distance vectors.bin
  wordvectors-distance --format text --limit 20 vectors.txt`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         runDistance,
	}

	common.AddFlags(cmd.Flags())

	return cmd
}

func runDistance(cmd *cobra.Command, args []string) error {
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

	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		token := scanner.Text()

		results, err := embeds.Similarity(token, cfg.Limit)
		if err != nil {
			logger.Warn("skipping query", zap.String("word", token), zap.Error(err))
			continue
		}

		if err := common.PrintResults(cmd.OutOrStdout(), results); err != nil {
			return err
		}
	}

	return errors.Wrap(scanner.Err(), "cannot read queries")
}
