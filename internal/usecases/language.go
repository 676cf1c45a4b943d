package usecases

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageHindi   Language = "hi"
)

// Devanagari block.
const (
	devanagariFirst = '\u0900'
	devanagariLast  = '\u097F'
)

// IsHindi reports whether text contains at least one Devanagari character.
func IsHindi(text string) bool {
	for _, r := range text {
		if r >= devanagariFirst && r <= devanagariLast {
			return true
		}
	}
	return false
}

func DetectLanguage(text string) Language {
	if IsHindi(text) {
		return LanguageHindi
	}
	return LanguageEnglish
}
