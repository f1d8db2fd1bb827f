package fontbase

import (
	_ "embed"
	"strings"
)

// The symbol tables are embedded so the font builder needs no runtime
// data directory. One entry per line.
var (
	//go:embed data/accents.txt
	accentsData string
	//go:embed data/math_accents.txt
	mathAccentsData string
	//go:embed data/punctuations.txt
	punctuationsData string
	//go:embed data/ligatures.txt
	ligaturesData string
	//go:embed data/greeks.txt
	greeksData string
	//go:embed data/hebrews.txt
	hebrewsData string
	//go:embed data/constructs.txt
	constructsData string
	//go:embed data/operations.txt
	operationsData string
	//go:embed data/arrows.txt
	arrowsData string
	//go:embed data/miscellaneous.txt
	miscellaneousData string
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// Symbol describes one base glyph to render, in every listed style
// combination.
type Symbol struct {
	Base      string
	Styles    [][]Style
	Modifiers []string
	Math      bool
}

// lines splits an embedded data file into its non-empty lines
func lines(data string) []string {
	var out []string
	for _, line := range strings.Split(data, "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// generateAlphanumeric returns the symbols for letters and digits,
// including math variants and sub/superscript forms
func generateAlphanumeric() []Symbol {
	var symbols []Symbol
	for _, chr := range alphabet {
		lower := string(chr)
		upper := strings.ToUpper(lower)
		symbols = append(symbols,
			Symbol{Base: lower, Styles: TextStyles()},
			Symbol{Base: upper, Styles: MathStyles(), Math: true},
			Symbol{Base: upper, Styles: TextStyles()},
			Symbol{Base: lower, Styles: BasicStyles(), Math: true},
			Symbol{Base: upper, Styles: BasicStyles(), Math: true},
			Symbol{Base: "^" + lower, Styles: BasicStyles(), Math: true},
			Symbol{Base: "_" + lower, Styles: BasicStyles(), Math: true},
			Symbol{Base: "^" + upper, Styles: BasicStyles(), Math: true},
			Symbol{Base: "_" + upper, Styles: BasicStyles(), Math: true},
		)
	}

	for _, digit := range "0123456789" {
		d := string(digit)
		symbols = append(symbols,
			Symbol{Base: d, Styles: TextStyles()},
			Symbol{Base: "^" + d, Styles: BasicStyles(), Math: true},
			Symbol{Base: "_" + d, Styles: BasicStyles(), Math: true},
		)
	}

	return symbols
}

// generateAccented returns every letter under every accent modifier
func generateAccented(data string, math bool) []Symbol {
	styles := TextStyles()
	if math {
		styles = BasicStyles()
	}

	var symbols []Symbol
	for _, accent := range lines(data) {
		for _, chr := range alphabet {
			lower := string(chr)
			symbols = append(symbols,
				Symbol{Base: lower, Styles: styles, Modifiers: []string{accent}, Math: math},
				Symbol{Base: strings.ToUpper(lower), Styles: styles, Modifiers: []string{accent}, Math: math},
			)
		}
	}
	return symbols
}

// generatePlain returns one basic-style symbol per line of data
func generatePlain(data string, math bool) []Symbol {
	styles := TextStyles()
	if math {
		styles = BasicStyles()
	}

	var symbols []Symbol
	for _, base := range lines(data) {
		symbols = append(symbols, Symbol{Base: base, Styles: styles, Math: math})
	}
	return symbols
}

// GenerateSymbols returns every symbol the font builder renders
func GenerateSymbols() []Symbol {
	var symbols []Symbol

	// Text
	symbols = append(symbols, generateAlphanumeric()...)
	symbols = append(symbols, generatePlain(punctuationsData, false)...)
	symbols = append(symbols, generatePlain(ligaturesData, false)...)
	symbols = append(symbols, generateAccented(accentsData, false)...)

	// Math
	for _, data := range []string{greeksData, hebrewsData, operationsData, arrowsData, miscellaneousData} {
		symbols = append(symbols, generatePlain(data, true)...)
	}
	symbols = append(symbols, generateAccented(mathAccentsData, true)...)
	for _, construct := range lines(constructsData) {
		for _, chr := range alphabet {
			lower := string(chr)
			symbols = append(symbols,
				Symbol{Base: lower, Styles: BasicStyles(), Modifiers: []string{construct}, Math: true},
				Symbol{Base: strings.ToUpper(lower), Styles: BasicStyles(), Modifiers: []string{construct}, Math: true},
			)
		}
	}

	return symbols
}
