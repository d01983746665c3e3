package tokens

import (
	"unicode"
	"unicode/utf8"
)

// Breakdown splits text into maximal runs of word characters (letters,
// digits, underscore) and single non-space symbols; whitespace is dropped.
// The result is for display only and is not the provider's tokenization.
//
// Concatenating the result reproduces text with all whitespace removed.
func Breakdown(text string) []string {
	out := []string{}
	start := -1
	for i, r := range text {
		if isWord(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			out = append(out, text[start:i])
			start = -1
		}
		if isSpace(r) {
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		out = append(out, text[i:i+size])
	}
	if start >= 0 {
		out = append(out, text[start:])
	}
	return out
}

// isSpace also treats the ASCII information separators U+001C..U+001F as
// whitespace, which unicode.IsSpace does not.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// isWord reports whether r belongs to a word run: any Unicode letter or
// number, or underscore.
func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
