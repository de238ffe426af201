package speech

import (
	"unicode"

	"golang.org/x/text/language"
)

var (
	Korean  = language.MustParse("ko-KR")
	English = language.MustParse("en-US")
)

// DetectLanguage guesses the language of text from its script: any Hangul
// means Korean, anything else English.
func DetectLanguage(text string) language.Tag {
	for _, r := range text {
		if unicode.Is(unicode.Hangul, r) {
			return Korean
		}
	}
	return English
}

// ResolveLanguage returns the tag for an optional BCP 47 hint, falling back
// to script detection when the hint is empty or malformed.
func ResolveLanguage(hint, text string) language.Tag {
	if hint != "" {
		if tag, err := language.Parse(hint); err == nil {
			return tag
		}
	}
	return DetectLanguage(text)
}
