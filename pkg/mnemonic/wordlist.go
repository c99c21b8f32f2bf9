package mnemonic

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/tyler-smith/go-bip39/wordlists"
	"golang.org/x/text/unicode/norm"
)

// WordlistSize is the number of words in every BIP-39 wordlist.
const WordlistSize = 2048

// Locale codes for the bundled wordlists.
const (
	LocaleEnglish            = "en"
	LocaleSpanish            = "es"
	LocaleFrench             = "fr"
	LocaleItalian            = "it"
	LocaleJapanese           = "ja"
	LocaleKorean             = "ko"
	LocaleCzech              = "cs"
	LocaleChineseSimplified  = "zh_cn"
	LocaleChineseTraditional = "zh_tw"
)

// Word separators. Japanese phrases are joined with an ideographic space.
const (
	SeparatorSpace       = " "
	SeparatorIdeographic = "\u3000"
)

// Wordlist is an immutable, NFKD-normalized BIP-39 wordlist for one locale.
type Wordlist struct {
	locale    string
	separator string
	words     []string
	index     map[string]int
}

// NewWordlist builds a wordlist from exactly 2048 distinct words. Words are
// NFKD-normalized before indexing.
func NewWordlist(locale string, words []string, separator string) (*Wordlist, error) {
	if len(words) != WordlistSize {
		return nil, fmt.Errorf("%w: locale %q has %d words, want %d",
			ErrInvalidWordlist, locale, len(words), WordlistSize)
	}
	if separator == "" {
		separator = SeparatorSpace
	}

	wl := &Wordlist{
		locale:    locale,
		separator: separator,
		words:     make([]string, WordlistSize),
		index:     make(map[string]int, WordlistSize),
	}
	for i, w := range words {
		w = norm.NFKD.String(strings.TrimSpace(w))
		if w == "" {
			return nil, fmt.Errorf("%w: locale %q has an empty word at %d", ErrInvalidWordlist, locale, i)
		}
		if prev, dup := wl.index[w]; dup {
			return nil, fmt.Errorf("%w: locale %q repeats %q at %d and %d", ErrInvalidWordlist, locale, w, prev, i)
		}
		wl.words[i] = w
		wl.index[w] = i
	}
	return wl, nil
}

// Locale returns the locale code of the wordlist.
func (w *Wordlist) Locale() string {
	return w.locale
}

// Word returns the word at index i. It panics if i is outside [0, 2048).
func (w *Wordlist) Word(i int) string {
	return w.words[i]
}

// Index returns the position of word in the list. The lookup is done on the
// NFKD form of word.
func (w *Wordlist) Index(word string) (int, bool) {
	i, ok := w.index[norm.NFKD.String(word)]
	return i, ok
}

// Join joins words with the locale separator.
func (w *Wordlist) Join(words []string) string {
	return strings.Join(words, w.separator)
}

// Split normalizes a phrase to NFKD and splits it on any Unicode whitespace,
// including the ideographic space.
func (w *Wordlist) Split(phrase string) []string {
	return strings.FieldsFunc(norm.NFKD.String(phrase), unicode.IsSpace)
}

var english = sync.OnceValue(func() *Wordlist {
	wl, err := NewWordlist(LocaleEnglish, wordlists.English, SeparatorSpace)
	if err != nil {
		panic(err)
	}
	return wl
})

// English returns the English wordlist, the default for every codec call
// that is given a nil wordlist.
func English() *Wordlist {
	return english()
}

func orEnglish(wl *Wordlist) *Wordlist {
	if wl == nil {
		return English()
	}
	return wl
}

// Wordlists maps locale codes to wordlists. Build it once at startup with
// DefaultWordlists and pass it to whoever needs locale lookup.
type Wordlists map[string]*Wordlist

// DefaultWordlists builds every wordlist bundled with go-bip39.
func DefaultWordlists() (Wordlists, error) {
	sources := []struct {
		locale    string
		words     []string
		separator string
	}{
		{LocaleSpanish, wordlists.Spanish, SeparatorSpace},
		{LocaleFrench, wordlists.French, SeparatorSpace},
		{LocaleItalian, wordlists.Italian, SeparatorSpace},
		{LocaleJapanese, wordlists.Japanese, SeparatorIdeographic},
		{LocaleKorean, wordlists.Korean, SeparatorSpace},
		{LocaleCzech, wordlists.Czech, SeparatorSpace},
		{LocaleChineseSimplified, wordlists.ChineseSimplified, SeparatorSpace},
		{LocaleChineseTraditional, wordlists.ChineseTraditional, SeparatorSpace},
	}

	out := Wordlists{LocaleEnglish: English()}
	for _, src := range sources {
		wl, err := NewWordlist(src.locale, src.words, src.separator)
		if err != nil {
			return nil, err
		}
		out[src.locale] = wl
	}
	return out, nil
}

// Get returns the wordlist for locale.
func (w Wordlists) Get(locale string) (*Wordlist, error) {
	wl, ok := w[locale]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocale, locale)
	}
	return wl, nil
}

// Locales returns the registered locale codes in sorted order.
func (w Wordlists) Locales() []string {
	out := make([]string, 0, len(w))
	for locale := range w {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}
