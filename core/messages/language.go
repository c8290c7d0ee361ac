package messages

import (
	"strings"

	"golang.org/x/text/language"
)

// Supported languages, the names double as catalog keys.
const (
	English  = "ENGLISH"
	Japanese = "日本語"
)

var (
	supportedTags = []language.Tag{language.English, language.Japanese}
	tagNames      = []string{English, Japanese}
	matcher       = language.NewMatcher(supportedTags)
)

// NormalizeLanguage maps a user supplied language name to a supported
// language. It accepts the catalog names, their English names and BCP 47
// tags such as "ja-JP".
func NormalizeLanguage(name string) (string, bool) {
	name = strings.TrimSpace(name)

	switch strings.ToUpper(name) {
	case English, "EN":
		return English, true
	case Japanese, "JAPANESE", "JA":
		return Japanese, true
	}

	tag, err := language.Parse(name)
	if err != nil {
		return English, false
	}

	_, index, confidence := matcher.Match(tag)
	if confidence < language.High {
		return English, false
	}
	return tagNames[index], true
}
