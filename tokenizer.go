// Copyright 2025 the paradedb-go authors.
// Licensed under Apache 2.0, see LICENCE file for details.

package paradedb

import "fmt"

// TokenizerKind names a text-analysis strategy supported by the index.
type TokenizerKind string

const (
	TokenizerDefault           TokenizerKind = "default"
	TokenizerWhitespace        TokenizerKind = "whitespace"
	TokenizerRaw               TokenizerKind = "raw"
	TokenizerKeyword           TokenizerKind = "keyword"
	TokenizerSourceCode        TokenizerKind = "source_code"
	TokenizerChineseCompatible TokenizerKind = "chinese_compatible"
	TokenizerChineseLindera    TokenizerKind = "chinese_lindera"
	TokenizerJieba             TokenizerKind = "jieba"
	TokenizerICU               TokenizerKind = "icu"
	TokenizerRegex             TokenizerKind = "regex"
	TokenizerNGram             TokenizerKind = "ngram"
	TokenizerLiteral           TokenizerKind = "literal"
)

var tokenizerKinds = map[TokenizerKind]bool{
	TokenizerDefault: true, TokenizerWhitespace: true, TokenizerRaw: true,
	TokenizerKeyword: true, TokenizerSourceCode: true,
	TokenizerChineseCompatible: true, TokenizerChineseLindera: true,
	TokenizerJieba: true, TokenizerICU: true, TokenizerRegex: true,
	TokenizerNGram: true, TokenizerLiteral: true,
}

// matchTokenizers are the kinds accepted as a [Match] tokenizer override,
// the indexable kinds minus default and literal.
var matchTokenizers = map[TokenizerKind]bool{
	TokenizerWhitespace: true, TokenizerKeyword: true, TokenizerNGram: true,
	TokenizerRegex: true, TokenizerICU: true, TokenizerJieba: true,
	TokenizerChineseLindera: true, TokenizerChineseCompatible: true,
	TokenizerSourceCode: true, TokenizerRaw: true,
}

// stemmerLanguages are the languages with a stemming filter.
var stemmerLanguages = map[string]bool{
	"Arabic": true, "Danish": true, "Dutch": true, "English": true,
	"Finnish": true, "French": true, "German": true, "Greek": true,
	"Hungarian": true, "Italian": true, "Norwegian": true,
	"Portuguese": true, "Romanian": true, "Russian": true, "Spanish": true,
	"Swedish": true, "Tamil": true, "Turkish": true,
}

// stopwordLanguages are the languages with a built-in stopword list.
var stopwordLanguages = map[string]bool{
	"Danish": true, "Dutch": true, "English": true, "Finnish": true,
	"French": true, "German": true, "Hungarian": true, "Italian": true,
	"Norwegian": true, "Portuguese": true, "Russian": true, "Spanish": true,
	"Swedish": true,
}

// Tokenizer describes the text-analysis strategy for an indexed field: a
// tokenizer kind plus its normalization filters. Zero-valued knobs are left
// out of the serialized form; Lowercase and AsciiFolding are pointers so
// false can still be stated explicitly. Use [NewTokenizer], which validates
// the kind and the filter languages.
type Tokenizer struct {
	Kind    TokenizerKind
	Stemmer string
	// RemoveLong drops tokens longer than this many bytes.
	RemoveLong        int
	Lowercase         *bool
	StopwordsLanguage string
	Stopwords         []string
	AsciiFolding      *bool

	// Pattern is the token pattern, for the regex kind only.
	Pattern string
	// MinGram, MaxGram and PrefixOnly configure the ngram kind only.
	MinGram    int
	MaxGram    int
	PrefixOnly bool
}

// NewTokenizer validates and returns a tokenizer descriptor.
func NewTokenizer(t Tokenizer) (*Tokenizer, error) {
	if !tokenizerKinds[t.Kind] {
		return nil, fmt.Errorf("invalid tokenizer kind %q", t.Kind)
	}
	if t.Stemmer != "" && !stemmerLanguages[t.Stemmer] {
		return nil, fmt.Errorf("invalid stemmer language %q", t.Stemmer)
	}
	if t.StopwordsLanguage != "" && !stopwordLanguages[t.StopwordsLanguage] {
		return nil, fmt.Errorf("invalid stopwords language %q", t.StopwordsLanguage)
	}
	if t.Kind == TokenizerRegex && t.Pattern == "" {
		return nil, fmt.Errorf("regex tokenizer needs a pattern")
	}
	if t.Kind == TokenizerNGram && (t.MinGram <= 0 || t.MaxGram < t.MinGram) {
		return nil, fmt.Errorf("ngram tokenizer needs 0 < min_gram <= max_gram, got %d and %d",
			t.MinGram, t.MaxGram)
	}
	return &t, nil
}

// JSON returns the descriptor in the form embedded in an index definition's
// per-field configuration.
func (t *Tokenizer) JSON() map[string]any {
	m := map[string]any{"type": string(t.Kind)}
	switch t.Kind {
	case TokenizerRegex:
		m["pattern"] = t.Pattern
	case TokenizerNGram:
		m["min_gram"] = t.MinGram
		m["max_gram"] = t.MaxGram
		m["prefix_only"] = t.PrefixOnly
	}
	if t.Stemmer != "" {
		m["stemmer"] = t.Stemmer
	}
	if t.RemoveLong != 0 {
		m["remove_long"] = t.RemoveLong
	}
	if t.Lowercase != nil {
		m["lowercase"] = *t.Lowercase
	}
	if t.StopwordsLanguage != "" {
		m["stopwords_language"] = t.StopwordsLanguage
	}
	if t.Stopwords != nil {
		m["stopwords"] = t.Stopwords
	}
	if t.AsciiFolding != nil {
		m["ascii_folding"] = *t.AsciiFolding
	}
	return m
}
