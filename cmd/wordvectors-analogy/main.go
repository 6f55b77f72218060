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
	"strings"

	"github.com/danieldk/wordvectors/cmd/common"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newAnalogyCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newAnalogyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordvectors-analogy vectors.bin",
		Short: "Answer analogy queries read from stdin",
		Long: `Answer analogy queries read from stdin, one query per line.

A line with three words a b c asks for the words d such that a is to b
as c is to d, using the embedding b - a + c. Alternatively, words can be
given with a + or - prefix, e.g. "+king -man +woman". Words without a
prefix are then positive.

Examples:
  echo "Paris Frankreich Berlin" | wordvectors-analogy vectors.bin
  echo "+king -man +woman" | wordvectors-analogy --limit 1 vectors.bin`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         runAnalogy,
	}

	common.AddFlags(cmd.Flags())

	return cmd
}

func runAnalogy(cmd *cobra.Command, args []string) error {
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
	scanner.Split(bufio.ScanLines)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		positive, negative, err := parseQuery(line)
		if err != nil {
			logger.Warn("skipping line", zap.String("line", line), zap.Error(err))
			continue
		}

		results, err := embeds.Analogy(positive, negative, cfg.Limit)
		if err != nil {
			logger.Warn("skipping query", zap.String("line", line), zap.Error(err))
			continue
		}

		if err := common.PrintResults(cmd.OutOrStdout(), results); err != nil {
			return err
		}
	}

	return errors.Wrap(scanner.Err(), "cannot read queries")
}

func parseQuery(line string) (positive, negative []string, err error) {
	parts := strings.Fields(line)

	signed := false
	for _, part := range parts {
		if len(part) > 1 && (part[0] == '+' || part[0] == '-') {
			signed = true
			break
		}
	}

	if !signed {
		if len(parts) != 3 {
			return nil, nil, errors.Errorf("expected three words, got %d", len(parts))
		}

		return []string{parts[1], parts[2]}, []string{parts[0]}, nil
	}

	for _, part := range parts {
		switch {
		case len(part) > 1 && part[0] == '-':
			negative = append(negative, part[1:])
		case len(part) > 1 && part[0] == '+':
			positive = append(positive, part[1:])
		default:
			positive = append(positive, part)
		}
	}

	return positive, negative, nil
}
