package transcript_normalizer

import (
	"regexp"
	"strings"
	"unicode"

	"vox-aurora/dictionary"
)

// Longest word the merge pass will ever produce; anything bigger is noise.
const maxMergedWordLen = 20

var tokenPattern = regexp.MustCompile(`\pL+(?:['’]\pL+)*`)

// mergeSeparatedWords repairs words the transcription engine split in two
// ("data base" -> "database"). It scans left to right over adjacent token
// pairs; a pair merges when the concatenation is a known dictionary word and
// the halves are not both independently common words. Once a pair merges,
// scanning resumes after the merged token, so the pass never cascades and is
// idempotent on its own output.
func mergeSeparatedWords(text string, dict *dictionary.Dictionary) string {
	tokens := tokenPattern.FindAllStringIndex(text, -1)
	if len(tokens) < 2 {
		return text
	}

	var out strings.Builder
	out.Grow(len(text))

	lastEnd := 0
	i := 0

	for i < len(tokens) {
		if i+1 < len(tokens) {
			if merged, ok := tryMerge(text, tokens[i], tokens[i+1], dict); ok {
				out.WriteString(text[lastEnd:tokens[i][0]])
				out.WriteString(merged)

				lastEnd = tokens[i+1][1]
				i += 2

				continue
			}
		}

		out.WriteString(text[lastEnd:tokens[i][1]])
		lastEnd = tokens[i][1]
		i++
	}

	out.WriteString(text[lastEnd:])

	return out.String()
}

func tryMerge(text string, first, second []int, dict *dictionary.Dictionary) (string, bool) {
	// Tokens joined by anything but whitespace (hyphens, commas) were split
	// on purpose.
	gap := text[first[1]:second[0]]
	if strings.TrimSpace(gap) != "" {
		return "", false
	}

	a := text[first[0]:first[1]]
	b := text[second[0]:second[1]]

	// If no known word starts with the first half, no concatenation can be
	// in the dictionary.
	if !dict.HasPrefix(stripPunctuation(a)) {
		return "", false
	}

	candidate := stripPunctuation(a + b)
	lower := strings.ToLower(candidate)

	if !reasonableWord(lower) {
		return "", false
	}

	if !dict.Contains(lower) {
		return "", false
	}

	// Two common words next to each other are a phrase, not a split word:
	// "of ten" stays even though "often" is in the dictionary.
	if dict.IsCommon(a) && dict.IsCommon(b) {
		return "", false
	}

	return candidate, true
}

func stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || r == '\'' || r == '’' {
			return r
		}

		return -1
	}, s)
}

func reasonableWord(s string) bool {
	if s == "" || len([]rune(s)) > maxMergedWordLen {
		return false
	}

	for _, r := range s {
		if !unicode.IsLetter(r) && r != '\'' && r != '’' {
			return false
		}
	}

	return true
}
