package service

import (
	"strings"
	"unicode"
)

// snippetContext is the number of characters kept on each side of a match
const snippetContext = 40

// communitySnippet describes why a community matched term, which must already
// be lower-cased. Description matches win over category matches.
func communitySnippet(description, category, term string) string {
	if s, ok := matchWindow(description, term, snippetContext); ok {
		return strings.TrimSpace(s)
	}
	if category != "" && strings.Contains(strings.ToLower(category), term) {
		return "Category: " + category
	}
	return ""
}

// matchWindow returns the text around the first case-insensitive occurrence of
// term, with up to width characters on each side clipped to the text bounds.
// Folding is done per rune so offsets in the folded text index the input text.
func matchWindow(text, term string, width int) (string, bool) {
	if text == "" || term == "" {
		return "", false
	}

	src := []rune(text)
	folded := make([]rune, len(src))
	for i, r := range src {
		folded[i] = unicode.ToLower(r)
	}
	needle := []rune(term)

	idx := indexRunes(folded, needle)
	if idx < 0 {
		return "", false
	}

	start := idx - width
	if start < 0 {
		start = 0
	}
	end := idx + len(needle) + width
	if end > len(src) {
		end = len(src)
	}
	return string(src[start:end]), true
}

func indexRunes(haystack, needle []rune) int {
	if len(needle) > len(haystack) {
		return -1
	}
outer:
	for i := 0; i+len(needle) <= len(haystack); i++ {
		for j, r := range needle {
			if haystack[i+j] != r {
				continue outer
			}
		}
		return i
	}
	return -1
}
