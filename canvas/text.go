package canvas

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// WrapText wraps text at word boundaries so that no line exceeds maxWidth cells.
// Words longer than a line are truncated with an ellipsis.
func WrapText(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		return nil
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{}
	}

	var lines []string
	var line strings.Builder
	width := 0
	for _, word := range words {
		ww := runewidth.StringWidth(word)
		if ww > maxWidth {
			word = runewidth.Truncate(word, maxWidth, "…")
			ww = runewidth.StringWidth(word)
		}
		if width > 0 && width+1+ww > maxWidth {
			lines = append(lines, line.String())
			line.Reset()
			width = 0
		}
		if width > 0 {
			line.WriteByte(' ')
			width++
		}
		line.WriteString(word)
		width += ww
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}
