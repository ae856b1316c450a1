package agent

import (
	"strings"
	"unicode/utf8"
)

// minAnswerRunes is the shortest trimmed answer still considered usable.
const minAnswerRunes = 5

var negativePhrases = []string{
	"i don't know",
	"i do not know",
	"don't know",
	"no idea",
	"can't",
	"cannot",
	"unable to",
	"i'm not sure",
	"i am not sure",
}

// IsSatisfactory reports whether an answer looks usable: non-empty, at least
// five characters once trimmed and free of "I don't know" style phrases.
// The phrase check is plain case-insensitive substring containment.
func IsSatisfactory(text string) bool {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < minAnswerRunes {
		return false
	}
	lower := strings.ToLower(text)
	for _, phrase := range negativePhrases {
		if strings.Contains(lower, phrase) {
			return false
		}
	}
	return true
}
