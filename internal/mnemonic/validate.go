package mnemonic

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Accepted phrase lengths, in words.
const (
	MinWords = 12
	MaxWords = 24
)

// WordsCheck is the outcome of an incremental check on a phrase in progress.
type WordsCheck struct {
	Kind        Kind   `json:"error"`
	InvalidWord string `json:"invalid_word,omitempty"`
	ValidLength bool   `json:"valid_length"`
}

// Err returns the check as an error, or nil when Kind is None.
func (c WordsCheck) Err() error { return newError(c.Kind, c.InvalidWord) }

// ValidationResult is the outcome of a full phrase check.
// Mnemonic is set only when Valid is true. It is the canonical phrase: NFKC
// words joined by ASCII spaces, Japanese included. NFKD maps U+3000 to a
// space, so the seed matches the ideographic-space form.
type ValidationResult struct {
	Valid       bool   `json:"valid"`
	Mnemonic    string `json:"mnemonic,omitempty"`
	Kind        Kind   `json:"error"`
	InvalidWord string `json:"invalid_word,omitempty"`
}

// Err returns the result as an error, or nil for a valid phrase.
func (r ValidationResult) Err() error { return newError(r.Kind, r.InvalidWord) }

// Validator checks phrases against one wordlist. It holds no mutable state
// and is safe for concurrent use.
type Validator struct {
	wl *Wordlist
}

// NewValidator returns a Validator over wl. A nil wl means English.
func NewValidator(wl *Wordlist) *Validator {
	if wl == nil {
		wl = English()
	}
	return &Validator{wl: wl}
}

// Wordlist returns the vocabulary the validator checks against.
func (v *Validator) Wordlist() *Wordlist { return v.wl }

// Tokenize lower-cases and normalises text and splits it on runs of
// whitespace. Leading and trailing whitespace yields no empty tokens.
func Tokenize(text string) []string {
	fields := strings.Fields(text)
	for i, f := range fields {
		fields[i] = normalizeWord(f)
	}
	return fields
}

// ValidateSetOfWords classifies a phrase that may still be being typed.
//
// The word count is checked first. Within range, only the last token is
// inspected, and it passes if it is a prefix of (or equal to) some word.
// A single-token phrase therefore reports NotEnoughWords even when the
// token is garbage.
func (v *Validator) ValidateSetOfWords(text string) WordsCheck {
	tokens := Tokenize(text)
	n := len(tokens)

	switch {
	case n > MaxWords:
		return WordsCheck{Kind: TooManyWords}
	case n < MinWords:
		return WordsCheck{Kind: NotEnoughWords}
	}

	last := tokens[n-1]
	if !v.wl.HasPrefix(last) {
		return WordsCheck{Kind: InvalidWord, InvalidWord: last, ValidLength: true}
	}
	return WordsCheck{Kind: None, ValidLength: true}
}

// UserFinishedTypingWord reports whether the user is done with the last
// word: the text ends in whitespace, or the last token is a complete word
// that no other word extends.
func (v *Validator) UserFinishedTypingWord(text string) bool {
	if text == "" {
		return false
	}
	if r, _ := utf8.DecodeLastRuneInString(text); unicode.IsSpace(r) {
		return true
	}
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return false
	}
	return v.wl.IsUnambiguous(tokens[len(tokens)-1])
}

// ValidateMnemonic performs the full check used on submit. Errors are
// reported by priority: length, then the first non-word, then checksum.
// A valid result carries the canonical phrase, lower-case and single-spaced.
func (v *Validator) ValidateMnemonic(text string) ValidationResult {
	tokens := Tokenize(text)
	n := len(tokens)

	switch {
	case n > MaxWords:
		return ValidationResult{Kind: TooManyWords}
	case n < MinWords:
		return ValidationResult{Kind: NotEnoughWords}
	}

	for _, tok := range tokens {
		if _, ok := v.wl.index[tok]; !ok {
			return ValidationResult{Kind: InvalidWord, InvalidWord: tok}
		}
	}

	if !v.wl.checksumValid(tokens) {
		return ValidationResult{Kind: InvalidPhrase}
	}

	return ValidationResult{
		Valid:    true,
		Mnemonic: strings.Join(tokens, " "),
		Kind:     None,
	}
}

// Package-level helpers over the English wordlist.

// ValidateSetOfWords runs Validator.ValidateSetOfWords with English.
func ValidateSetOfWords(text string) WordsCheck {
	return NewValidator(nil).ValidateSetOfWords(text)
}

// UserFinishedTypingWord runs Validator.UserFinishedTypingWord with English.
func UserFinishedTypingWord(text string) bool {
	return NewValidator(nil).UserFinishedTypingWord(text)
}

// ValidateMnemonic runs Validator.ValidateMnemonic with English.
func ValidateMnemonic(text string) ValidationResult {
	return NewValidator(nil).ValidateMnemonic(text)
}
