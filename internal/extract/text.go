package extract

import "strings"

// SplitLines normalizes line and page separators and splits extracted
// text into lines. Trace line numbers index into this slice, 1-based.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\f", "\n")
	return strings.Split(text, "\n")
}
