// Package analysis turns dataset text into the unigram and bigram terms used by the vector index.
package analysis

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/token/stop"
	bleveunicode "github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"

	"github.com/hyperjump/metaboost/internal/models"
)

const minTokenRunes = 2

// Analyzer tokenizes on word boundaries, lower-cases, drops English stop words,
// and emits unigrams followed by bigrams of adjacent surviving tokens.
// It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	tokenizer analysis.Tokenizer
	filters   []analysis.TokenFilter
}

// NewAnalyzer builds the analyzer with bleve's unicode tokenizer and the snowball English stop list.
func NewAnalyzer() (*Analyzer, error) {
	stopWords, err := en.TokenMapConstructor(nil, nil)
	if err != nil {
		return nil, fmt.Errorf("load english stop words: %w", err)
	}
	return &Analyzer{
		tokenizer: bleveunicode.NewUnicodeTokenizer(),
		filters: []analysis.TokenFilter{
			lowercase.NewLowerCaseFilter(),
			stop.NewStopTokensFilter(stopWords),
		},
	}, nil
}

// MustNewAnalyzer is NewAnalyzer that panics on error. The stop list is compiled in,
// so an error here means a broken build.
func MustNewAnalyzer() *Analyzer {
	a, err := NewAnalyzer()
	if err != nil {
		panic(err)
	}
	return a
}

// Tokens returns the filtered word tokens of text, in order.
func (a *Analyzer) Tokens(text string) []string {
	stream := a.tokenizer.Tokenize([]byte(text))
	for _, f := range a.filters {
		stream = f.Filter(stream)
	}
	out := make([]string, 0, len(stream))
	for _, tok := range stream {
		if utf8.RuneCount(tok.Term) < minTokenRunes {
			continue
		}
		out = append(out, string(tok.Term))
	}
	return out
}

// Terms returns unigrams then bigrams for text. Duplicates are kept so callers can count them.
func (a *Analyzer) Terms(text string) []string {
	tokens := a.Tokens(text)
	if len(tokens) == 0 {
		return nil
	}
	terms := make([]string, 0, 2*len(tokens)-1)
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}

// DocumentText builds the lower-cased text a dataset is indexed under:
// title, description, tags and category separated by spaces.
func DocumentText(rec models.DatasetRecord) string {
	var b strings.Builder
	b.WriteString(rec.Title)
	b.WriteByte(' ')
	b.WriteString(rec.Description)
	b.WriteByte(' ')
	b.WriteString(strings.Join(rec.Tags, " "))
	b.WriteByte(' ')
	b.WriteString(rec.Category)
	return strings.ToLower(b.String())
}
