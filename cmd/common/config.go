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

// Package common contains the configuration, logging and model loading
// shared by the wordvectors tools.
package common

import (
	"os"
	"strings"

	"github.com/danieldk/wordvectors"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"golang.org/x/text/encoding/htmlindex"
)

// EnvPrefix is the prefix of environment variables that override the
// configuration file, e.g. WORDVECTORS_MAX_WORDS.
const EnvPrefix = "WORDVECTORS_"

// Config configures loading and querying embeddings.
type Config struct {
	// Format is the model format, binary or text.
	Format string `koanf:"format"`

	// Encoding is the character encoding of the words in the model.
	// An empty encoding is UTF-8.
	Encoding string `koanf:"encoding"`

	// MaxWords limits the number of words that are read, 0 reads all.
	MaxWords int `koanf:"max_words"`

	// Vocabulary is a file with one word per line. When set, only
	// these words are loaded.
	Vocabulary string `koanf:"vocabulary"`

	// Limit is the number of results per query.
	Limit int `koanf:"limit"`

	LogLevel string `koanf:"log_level"`
}

// DefaultConfig returns the configuration used when no file, environment
// variable or flag overrides it.
func DefaultConfig() *Config {
	return &Config{
		Format:   "binary",
		Limit:    10,
		LogLevel: "info",
	}
}

// AddFlags registers the flags that override the configuration.
func AddFlags(flags *pflag.FlagSet) {
	d := DefaultConfig()

	flags.String("config", "", "YAML configuration file")
	flags.String("format", d.Format, "model format (binary or text)")
	flags.String("encoding", d.Encoding, "character encoding of the words (default UTF-8)")
	flags.Int("max-words", d.MaxWords, "read at most this many words (0: all)")
	flags.String("vocabulary", d.Vocabulary, "file with the words to load, one per line")
	flags.Int("limit", d.Limit, "number of results per query")
	flags.String("log-level", d.LogLevel, "log level (debug, info, warn, error)")
}

// LoadConfig loads the configuration. Precedence, from highest to lowest:
// changed flags, WORDVECTORS_* environment variables, the YAML file named
// by the config flag, defaults.
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	path, err := flags.GetString("config")
	if err != nil {
		return nil, errors.Wrap(err, "cannot get config flag")
	}

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "cannot read config file")
		}

		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "cannot load config file %s", path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, errors.Wrap(err, "cannot load environment variables")
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal config")
	}

	if err := cfg.applyFlags(flags); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyFlags(flags *pflag.FlagSet) error {
	var err error

	flags.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}

		switch f.Name {
		case "format":
			c.Format, err = flags.GetString(f.Name)
		case "encoding":
			c.Encoding, err = flags.GetString(f.Name)
		case "max-words":
			c.MaxWords, err = flags.GetInt(f.Name)
		case "vocabulary":
			c.Vocabulary, err = flags.GetString(f.Name)
		case "limit":
			c.Limit, err = flags.GetInt(f.Name)
		case "log-level":
			c.LogLevel, err = flags.GetString(f.Name)
		}
	})

	return errors.Wrap(err, "cannot apply flags")
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Format != "binary" && c.Format != "text" {
		return errors.Errorf("unknown model format: %s", c.Format)
	}

	if c.Limit < 0 {
		return errors.Errorf("limit should not be negative, was %d", c.Limit)
	}

	if c.MaxWords < 0 {
		return errors.Errorf("max_words should not be negative, was %d", c.MaxWords)
	}

	if c.Encoding != "" {
		if _, err := htmlindex.Get(c.Encoding); err != nil {
			return errors.Wrapf(err, "unknown encoding %s", c.Encoding)
		}
	}

	return nil
}

// ReadOptions converts the configuration to reader options.
func (c *Config) ReadOptions() ([]wordvectors.ReadOption, error) {
	var opts []wordvectors.ReadOption

	if c.Encoding != "" {
		enc, err := htmlindex.Get(c.Encoding)
		if err != nil {
			return nil, errors.Wrapf(err, "unknown encoding %s", c.Encoding)
		}
		opts = append(opts, wordvectors.WithEncoding(enc))
	}

	if c.MaxWords > 0 {
		opts = append(opts, wordvectors.WithMaxWords(c.MaxWords))
	}

	if c.Vocabulary != "" {
		content, err := os.ReadFile(c.Vocabulary)
		if err != nil {
			return nil, errors.Wrap(err, "cannot read vocabulary")
		}
		opts = append(opts, wordvectors.WithVocabulary(strings.Fields(string(content))))
	}

	return opts, nil
}
