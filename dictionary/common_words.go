package dictionary

// High-frequency function words per language. Two adjacent common words are
// almost always a genuine phrase, so the merge pass leaves them alone even
// when their concatenation happens to be a dictionary word.
var commonWords = map[string][]string{
	"en": {
		"the", "be", "to", "of", "and", "a", "in", "that", "have", "i",
		"it", "for", "not", "on", "with", "he", "as", "you", "do", "at",
		"this", "but", "his", "by", "from", "they", "we", "say", "her", "she",
		"or", "an", "will", "my", "one", "all", "would", "there", "their", "what",
		"so", "up", "out", "if", "about", "who", "get", "which", "go", "me",
		"when", "can", "like", "time", "no", "just", "him", "know", "take", "into",
		"some", "could", "them", "see", "other", "than", "then", "now", "only", "its",
		"over", "also", "after", "use", "two", "how", "our", "well", "way", "even",
		"new", "any", "these", "day", "most", "us", "is", "was", "are", "been",
		"has", "had", "were", "said", "did", "ten", "off",
	},
	"fr": {
		"le", "la", "les", "un", "une", "des", "de", "du", "et", "ou",
		"je", "tu", "il", "elle", "on", "nous", "vous", "ils", "elles", "ne",
		"pas", "que", "qui", "quoi", "dans", "sur", "sous", "avec", "sans", "pour",
		"par", "mais", "donc", "or", "ni", "car", "si", "ce", "cette", "ces",
		"mon", "ton", "son", "ma", "ta", "sa", "mes", "tes", "ses", "est",
		"sont", "suis", "es", "plus", "moins", "bien", "mal", "tout", "tous", "toute",
		"y", "en", "au", "aux", "se", "me", "te", "lui", "leur", "fait",
		"faire", "dit", "dire", "comme", "aussi", "alors", "quand", "très", "peu", "trop",
	},
}
