package render

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Ellipsis marks a truncated label.
const Ellipsis = "…"

// Truncate shortens labels longer than max grapheme clusters to their first max-2
// clusters followed by an ellipsis. Combining marks and emoji sequences are never split.
func Truncate(label string, max int) string {
	if max <= 0 || uniseg.GraphemeClusterCount(label) <= max {
		return label
	}
	keep := max - 2
	if keep < 1 {
		keep = 1
	}
	var b strings.Builder
	g := uniseg.NewGraphemes(label)
	for n := 0; n < keep && g.Next(); n++ {
		b.WriteString(g.Str())
	}
	b.WriteString(Ellipsis)
	return b.String()
}
