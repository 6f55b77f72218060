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

import "fmt"

// FormatError is returned when a header or word token is malformed.
type FormatError struct {
	// Entry is the zero-based entry index, or -1 for the header.
	Entry int
	Msg   string
	cause error
}

func (e *FormatError) Error() string {
	if e.Entry < 0 {
		return fmt.Sprintf("malformed header: %s", e.Msg)
	}

	return fmt.Sprintf("malformed entry %d: %s", e.Entry, e.Msg)
}

func (e *FormatError) Unwrap() error { return e.cause }

// TruncatedDataError is returned when the stream ends before all entries
// announced by the header were read.
type TruncatedDataError struct {
	Entry int
	Msg   string
	cause error
}

func (e *TruncatedDataError) Error() string {
	return fmt.Sprintf("truncated data in entry %d: %s", e.Entry, e.Msg)
}

func (e *TruncatedDataError) Unwrap() error { return e.cause }

// UnknownWordError is returned when a query uses a word that is not in
// the vocabulary.
type UnknownWordError struct {
	Word string
}

func (e *UnknownWordError) Error() string {
	return fmt.Sprintf("unknown word: %s", e.Word)
}

// EmptyQueryError is returned by an analogy query without positive or
// negative words.
type EmptyQueryError struct{}

func (e *EmptyQueryError) Error() string {
	return "analogy query without positive or negative words"
}
