package dictionary

import (
	"strings"

	"github.com/derekparker/trie"
)

// Dictionary is the read-only word membership structure built once at
// startup. Contains and HasPrefix answer against every loaded language;
// IsCommon flags high-frequency function words that should never be merged
// away by the normalizer.
type Dictionary struct {
	words  *trie.Trie
	common map[string]struct{}
}

func newDictionary() *Dictionary {
	return &Dictionary{
		words:  trie.New(),
		common: make(map[string]struct{}),
	}
}

func (d *Dictionary) add(word string) {
	d.words.Add(word, nil)
}

func (d *Dictionary) addCommon(word string) {
	d.common[word] = struct{}{}
}

// Contains reports whether the exact lowercase word is known.
func (d *Dictionary) Contains(word string) bool {
	_, ok := d.words.Find(strings.ToLower(word))

	return ok
}

// HasPrefix reports whether any known word starts with the given prefix.
func (d *Dictionary) HasPrefix(prefix string) bool {
	return d.words.HasKeysWithPrefix(strings.ToLower(prefix))
}

// IsCommon reports whether the word is a high-frequency word that stands on
// its own ("data base" merges, "of ten" must not).
func (d *Dictionary) IsCommon(word string) bool {
	_, ok := d.common[strings.ToLower(word)]

	return ok
}

// FromWords builds a dictionary directly from word lists, bypassing the
// hunspell loader. Used by tests and by callers with their own word sources.
func FromWords(words []string, common []string) *Dictionary {
	d := newDictionary()

	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			d.add(w)
		}
	}

	for _, w := range common {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			d.add(w)
			d.addCommon(w)
		}
	}

	return d
}
