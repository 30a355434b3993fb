package mnemonic

import (
	"errors"
	"fmt"
)

// Kind classifies why a phrase (or a phrase in progress) is not acceptable.
type Kind uint8

const (
	None Kind = iota
	InvalidWord
	InvalidPhrase
	TooManyWords
	NotEnoughWords
)

var kindNames = [...]string{
	None:           "none",
	InvalidWord:    "invalid_word",
	InvalidPhrase:  "invalid_phrase",
	TooManyWords:   "too_many_words",
	NotEnoughWords: "not_enough_words",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name produced by MarshalText.
func (k *Kind) UnmarshalText(b []byte) error {
	for i, name := range kindNames {
		if name == string(b) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown validation kind %q", b)
}

// Sentinel errors for errors.Is checks against a *ValidationError.
var (
	ErrInvalidWord    = &ValidationError{Kind: InvalidWord}
	ErrInvalidPhrase  = &ValidationError{Kind: InvalidPhrase}
	ErrTooManyWords   = &ValidationError{Kind: TooManyWords}
	ErrNotEnoughWords = &ValidationError{Kind: NotEnoughWords}
)

// ValidationError is the error form of a failed check.
type ValidationError struct {
	Kind Kind
	Word string // offending token, InvalidWord only
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case InvalidWord:
		if e.Word != "" {
			return fmt.Sprintf("invalid word: %s", e.Word)
		}
		return "invalid word"
	case InvalidPhrase:
		return "invalid phrase"
	case TooManyWords:
		return fmt.Sprintf("too many words: recovery phrase must be %d-%d words", MinWords, MaxWords)
	case NotEnoughWords:
		return fmt.Sprintf("not enough words: recovery phrase must be %d-%d words", MinWords, MaxWords)
	}
	return e.Kind.String()
}

// Is matches any *ValidationError of the same kind.
func (e *ValidationError) Is(target error) bool {
	var t *ValidationError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind Kind, word string) error {
	if kind == None {
		return nil
	}
	return &ValidationError{Kind: kind, Word: word}
}
