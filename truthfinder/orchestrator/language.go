package orchestrator

import "strings"

// Language selects which instruction block prompts use.
type Language string

const (
	LanguageEnglish   Language = "english"
	LanguageUrduHindi Language = "urdu_hindi"
)

// Common Urdu/Hindi words written in Roman script.
var romanUrduHindiWords = []string{
	"hai", "hy", "aur", "ka", "ki", "ke", "se", "mein", "kya", "yeh",
	"wo", "hum", "tum", "ap", "koi", "sab",
}

// DetectLanguage classifies a message as Urdu/Hindi or English based on
// script ranges and common Romanized words. Pure and cheap; it only
// picks a prompt template, nothing else.
func DetectLanguage(text string) Language {
	for _, r := range text {
		if isArabicScript(r) || isDevanagari(r) {
			return LanguageUrduHindi
		}
	}

	words := wordSet(strings.ToLower(text))
	for _, w := range romanUrduHindiWords {
		if words[w] {
			return LanguageUrduHindi
		}
	}
	return LanguageEnglish
}

func isArabicScript(r rune) bool {
	switch {
	case r >= 0x0600 && r <= 0x06FF,
		r >= 0x0750 && r <= 0x077F,
		r >= 0x08A0 && r <= 0x08FF,
		r >= 0xFB50 && r <= 0xFDFF,
		r >= 0xFE70 && r <= 0xFEFF:
		return true
	}
	return false
}

func isDevanagari(r rune) bool {
	return r >= 0x0900 && r <= 0x097F
}
