package canvas

import (
	"os"
	"strings"
)

// Capabilities describes what the current terminal can display.
type Capabilities struct {
	Name          string
	Unicode       bool
	SupportsColor bool
	ColorDepth    int  // 0, 8, 256 or 24-bit
	IsCJK         bool // ambiguous-width runes occupy two cells
}

// ModeEnv overrides detection: "ascii" or "unicode".
const ModeEnv = "SEMGRAPH_TERMINAL_MODE"

// DetectCapabilities inspects the environment.
func DetectCapabilities() Capabilities {
	switch os.Getenv(ModeEnv) {
	case "ascii":
		return ForceASCII()
	case "unicode":
		return ForceUnicode()
	}

	term := os.Getenv("TERM")
	caps := Capabilities{Name: term}

	if term != "" && !strings.Contains(term, "dumb") {
		switch {
		case strings.Contains(term, "256color"):
			caps.SupportsColor, caps.ColorDepth = true, 256
		case strings.Contains(term, "color"),
			strings.HasPrefix(term, "xterm"),
			strings.HasPrefix(term, "screen"),
			strings.HasPrefix(term, "tmux"):
			caps.SupportsColor, caps.ColorDepth = true, 8
		}
	}
	if ct := os.Getenv("COLORTERM"); ct == "truecolor" || ct == "24bit" {
		caps.SupportsColor, caps.ColorDepth = true, 24
	}
	if os.Getenv("WT_SESSION") != "" {
		caps.Name, caps.SupportsColor, caps.ColorDepth = "windows-terminal", true, 24
	}
	// https://no-color.org/
	if os.Getenv("NO_COLOR") != "" {
		caps.SupportsColor, caps.ColorDepth = false, 0
	}

	caps.Unicode = detectUTF8Locale() && term != "linux" && term != "dumb"
	caps.IsCJK = detectCJKEnvironment()
	return caps
}

func detectUTF8Locale() bool {
	for _, env := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		v := strings.ToUpper(os.Getenv(env))
		if v == "" {
			continue
		}
		return strings.Contains(v, "UTF-8") || strings.Contains(v, "UTF8")
	}
	return false
}

func detectCJKEnvironment() bool {
	for _, env := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		switch strings.SplitN(os.Getenv(env), "_", 2)[0] {
		case "ja", "ko", "zh":
			return true
		}
	}
	return os.Getenv("EAST_ASIAN_AMBIGUOUS") == "2"
}

// ForceASCII returns capabilities for plain ASCII output without colour.
func ForceASCII() Capabilities {
	return Capabilities{Name: "ascii"}
}

// ForceUnicode returns capabilities for full Unicode and truecolor output.
func ForceUnicode() Capabilities {
	return Capabilities{Name: "unicode", Unicode: true, SupportsColor: true, ColorDepth: 24}
}

// Glyphs are the runes used for each kind of mark.
type Glyphs struct {
	Node, Pinned, Edge, Halo, Ring rune

	Horizontal, Vertical                       rune
	TopLeft, TopRight, BottomLeft, BottomRight rune
}

// UnicodeGlyphs draw with block and box-drawing characters.
var UnicodeGlyphs = Glyphs{
	Node: '█', Pinned: '▓', Edge: '·', Halo: '░', Ring: '○',
	Horizontal: '─', Vertical: '│',
	TopLeft: '╭', TopRight: '╮', BottomLeft: '╰', BottomRight: '╯',
}

// ASCIIGlyphs draw with 7-bit characters only.
var ASCIIGlyphs = Glyphs{
	Node: '#', Pinned: '@', Edge: '.', Halo: ':', Ring: 'o',
	Horizontal: '-', Vertical: '|',
	TopLeft: '+', TopRight: '+', BottomLeft: '+', BottomRight: '+',
}

// Glyphs returns the glyph set suited to the capabilities.
func (c Capabilities) Glyphs() Glyphs {
	if c.Unicode {
		return UnicodeGlyphs
	}
	return ASCIIGlyphs
}
