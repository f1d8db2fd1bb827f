package fontbase

// Style represents a LaTeX text or math style command.
type Style int

const (
	StyleNormal Style = iota
	StyleBold
	StyleItalic
	StyleSlanted
	StyleSansSerif
	StyleBlackBoard
	StyleCalligraphic
	StyleFraktur
	StyleScript
	StyleEuScript
)

// String returns the LaTeX command name for the style
func (s Style) String() string {
	switch s {
	case StyleNormal:
		return "textnormal"
	case StyleBold:
		return "textbf"
	case StyleItalic:
		return "textit"
	case StyleSlanted:
		return "textsl"
	case StyleSansSerif:
		return "textsf"
	case StyleBlackBoard:
		return "mathbb"
	case StyleCalligraphic:
		return "mathcal"
	case StyleFraktur:
		return "mathfrak"
	case StyleScript:
		return "mathscr"
	case StyleEuScript:
		return "EuScript"
	default:
		return "textnormal"
	}
}

// IsMath reports whether the style is a math-mode alphabet
func (s Style) IsMath() bool {
	switch s {
	case StyleBlackBoard, StyleCalligraphic, StyleFraktur, StyleScript, StyleEuScript:
		return true
	default:
		return false
	}
}

// BasicStyles returns the normal style only
func BasicStyles() [][]Style {
	return [][]Style{{StyleNormal}}
}

// TextStyles returns the style combinations rendered for text glyphs
func TextStyles() [][]Style {
	return [][]Style{
		{StyleNormal},
		{StyleBold},
		{StyleItalic},
		{StyleSlanted},
		{StyleBold, StyleItalic},
		{StyleBold, StyleSlanted},
		{StyleSansSerif},
	}
}

// MathStyles returns the math alphabet styles rendered for math glyphs
func MathStyles() [][]Style {
	return [][]Style{
		{StyleBlackBoard},
		{StyleCalligraphic},
		{StyleFraktur},
		{StyleScript},
		{StyleEuScript},
	}
}

// stylesEqual reports whether two style stacks are identical
func stylesEqual(a, b []Style) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
