// Package mnemonic validates BIP-39 recovery phrases, both incrementally while
// a phrase is being typed and in full when it is submitted.
package mnemonic

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tyler-smith/go-bip39"
	"github.com/tyler-smith/go-bip39/wordlists"
	"golang.org/x/text/unicode/norm"
)

// WordlistSize is the number of entries in every BIP-39 wordlist.
const WordlistSize = 2048

// Wordlist is a read-only BIP-39 vocabulary with index and prefix lookups.
type Wordlist struct {
	name   string
	words  []string // BIP-39 index order
	index  map[string]int
	sorted []string
}

// NewWordlist builds a Wordlist from words in BIP-39 index order.
// Entries are lower-cased and NFKC-normalised.
func NewWordlist(name string, words []string) (*Wordlist, error) {
	if len(words) != WordlistSize {
		return nil, fmt.Errorf("wordlist %q has %d words, want %d", name, len(words), WordlistSize)
	}

	wl := &Wordlist{
		name:   name,
		words:  make([]string, len(words)),
		index:  make(map[string]int, len(words)),
		sorted: make([]string, len(words)),
	}
	for i, w := range words {
		w = normalizeWord(w)
		if w == "" {
			return nil, fmt.Errorf("wordlist %q: empty word at index %d", name, i)
		}
		if _, dup := wl.index[w]; dup {
			return nil, fmt.Errorf("wordlist %q: duplicate word %q", name, w)
		}
		wl.words[i] = w
		wl.index[w] = i
	}
	copy(wl.sorted, wl.words)
	sort.Strings(wl.sorted)
	return wl, nil
}

// Name returns the wordlist's language name.
func (w *Wordlist) Name() string { return w.name }

// Len returns the number of words.
func (w *Wordlist) Len() int { return len(w.words) }

// Word returns the word at BIP-39 index i.
func (w *Wordlist) Word(i int) string { return w.words[i] }

// Index returns the BIP-39 index of word.
func (w *Wordlist) Index(word string) (int, bool) {
	i, ok := w.index[normalizeWord(word)]
	return i, ok
}

// Contains reports whether word is an exact entry.
func (w *Wordlist) Contains(word string) bool {
	_, ok := w.index[normalizeWord(word)]
	return ok
}

// HasPrefix reports whether some entry starts with prefix.
// Every entry is a prefix of itself.
func (w *Wordlist) HasPrefix(prefix string) bool {
	prefix = normalizeWord(prefix)
	i := sort.SearchStrings(w.sorted, prefix)
	return i < len(w.sorted) && strings.HasPrefix(w.sorted[i], prefix)
}

// IsUnambiguous reports whether word is an exact entry that no other entry
// extends. "zoo" is unambiguous; "act" is not ("action", "actor", ...).
func (w *Wordlist) IsUnambiguous(word string) bool {
	word = normalizeWord(word)
	i := sort.SearchStrings(w.sorted, word)
	if i >= len(w.sorted) || w.sorted[i] != word {
		return false
	}
	return i+1 == len(w.sorted) || !strings.HasPrefix(w.sorted[i+1], word)
}

// checksumValid runs the BIP-39 checksum over words, which must all be
// entries. The checksum depends only on word indices, so the phrase is
// re-spelled in English before handing it to bip39.
func (w *Wordlist) checksumValid(words []string) bool {
	english := English()
	spelled := make([]string, len(words))
	for i, word := range words {
		idx, ok := w.index[word]
		if !ok {
			return false
		}
		spelled[i] = english.words[idx]
	}
	return bip39.IsMnemonicValid(strings.Join(spelled, " "))
}

func normalizeWord(s string) string {
	return norm.NFKC.String(strings.ToLower(strings.TrimSpace(s)))
}

var builtin = map[string][]string{
	"english":             wordlists.English,
	"spanish":             wordlists.Spanish,
	"french":              wordlists.French,
	"italian":             wordlists.Italian,
	"japanese":            wordlists.Japanese,
	"korean":              wordlists.Korean,
	"chinese_simplified":  wordlists.ChineseSimplified,
	"chinese_traditional": wordlists.ChineseTraditional,
	"czech":               wordlists.Czech,
}

var (
	cacheMu sync.Mutex
	cache   = make(map[string]*Wordlist)
)

// Lookup returns the built-in wordlist for a language name such as
// "english" or "japanese". Results are cached.
func Lookup(name string) (*Wordlist, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "english"
	}

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if wl, ok := cache[name]; ok {
		return wl, nil
	}
	words, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("unknown wordlist %q", name)
	}
	wl, err := NewWordlist(name, words)
	if err != nil {
		return nil, err
	}
	cache[name] = wl
	return wl, nil
}

// Languages returns the names accepted by Lookup, sorted.
func Languages() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// English returns the standard English BIP-39 wordlist.
func English() *Wordlist {
	wl, err := Lookup("english")
	if err != nil {
		panic(err)
	}
	return wl
}
