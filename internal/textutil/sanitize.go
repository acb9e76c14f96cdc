// Package textutil prepares untrusted text (file names, process output) for
// display in fixed-width terminal cells.
package textutil

import "strings"

// formatting runes are invisible but reorder or join text; they are shown
// as labels so a file name cannot disguise its extension.
var formattingLabels = map[rune]string{
	0x00AD: "⟪SHY⟫",
	0x061C: "⟪ALM⟫",
	0x180E: "⟪MVS⟫",
	0x200B: "⟪ZWSP⟫",
	0x200C: "⟪ZWNJ⟫",
	0x200D: "⟪ZWJ⟫",
	0x200E: "⟪LRM⟫",
	0x200F: "⟪RLM⟫",
	0x2028: "⟪LSEP⟫",
	0x2029: "⟪PSEP⟫",
	0x202A: "⟪LRE⟫",
	0x202B: "⟪RLE⟫",
	0x202C: "⟪PDF⟫",
	0x202D: "⟪LRO⟫",
	0x202E: "⟪RLO⟫",
	0x2060: "⟪WJ⟫",
	0x2066: "⟪LRI⟫",
	0x2067: "⟪RLI⟫",
	0x2068: "⟪FSI⟫",
	0x2069: "⟪PDI⟫",
	0xFEFF: "⟪BOM⟫",
}

func isControl(r rune) bool {
	return (r >= 0 && r < 0x20) || r == 0x7f
}

func needsRewrite(r rune) bool {
	if r == '\t' {
		return false
	}
	if isControl(r) {
		return true
	}
	_, ok := formattingLabels[r]
	return ok
}

// SanitizeTerminalText makes text safe to draw on a single row. Line breaks
// become spaces, other control characters become '?', and formatting runes
// are replaced by visible labels. Tabs are kept for ExpandTabs.
func SanitizeTerminalText(text string) string {
	if strings.IndexFunc(text, needsRewrite) < 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if label, ok := formattingLabels[r]; ok {
			b.WriteString(label)
			continue
		}
		switch {
		case r == '\n' || r == '\r':
			b.WriteByte(' ')
		case r == '\t':
			b.WriteByte('\t')
		case isControl(r):
			b.WriteByte('?')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// HasFormattingRunes reports whether text contains bidi or zero-width
// formatting runes.
func HasFormattingRunes(text string) bool {
	return strings.IndexFunc(text, func(r rune) bool {
		_, ok := formattingLabels[r]
		return ok
	}) >= 0
}
