// Package text holds the language processing used by the pipeline:
// sentence segmentation at ingestion and word-frequency summaries at read
// time. Both are English-specific.
package text

import (
	"fmt"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// Segmenter splits plain text into sentences using a pre-trained English
// Punkt model, which copes with abbreviations and decimal numbers that
// naive period splitting gets wrong.
type Segmenter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewSegmenter loads the English sentence tokenizer. The model data is
// compiled into the library, so this only fails on a broken build.
func NewSegmenter() (*Segmenter, error) {
	tok, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load english sentence tokenizer: %w", err)
	}
	return &Segmenter{tokenizer: tok}, nil
}

// Segment returns the sentences of text in reading order. Empty or
// whitespace-only input yields an empty slice, and no whitespace-only
// sentences are emitted.
func (s *Segmenter) Segment(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}
	raw := s.tokenizer.Tokenize(text)
	out := make([]string, 0, len(raw))
	for _, sen := range raw {
		t := strings.TrimSpace(sen.Text)
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}
