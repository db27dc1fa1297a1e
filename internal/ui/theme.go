package ui

import "strings"

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Title, Muted, Accent, Success, Error, Pending string
	Bullet                                        string
	CornerTL, CornerTR, CornerBL, CornerBR        string
	H, V                                          string
}

var themes = map[string]Theme{
	"classic": {
		Title: bold, Muted: fgGray, Accent: fgBlue,
		Success: fgGreen, Error: fgRed, Pending: fgYellow,
		Bullet:   "•",
		CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
		H: "─", V: "│",
	},
	"neon": {
		Title: "\033[95m", // bright magenta
		Muted: fgGray, Accent: "\033[96m",
		Success: fgGreen, Error: fgRed, Pending: "\033[93m",
		Bullet:   "◆",
		CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
		H: "─", V: "│",
	},
	"mono": {
		Bullet:   "-",
		CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
		H: "-", V: "|",
	},
}

var current = themes["classic"]

// SetTheme switches to a named theme; unknown names fall back to classic.
func SetTheme(name string) {
	name = strings.ToLower(strings.TrimSpace(name))
	t, ok := themes[name]
	if !ok {
		t = themes["classic"]
	}
	if name == "mono" {
		disableColor = true
	}
	current = t
}

// Expose what renderers need
func Current() Theme { return current }
