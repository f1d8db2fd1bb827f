// Package latex assembles the recognized pages into a compilable LaTeX
// document, including the paragraph-break policy inferred from line
// margins.
package latex

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"

	"pdf2latex/internal/fontbase"
	"pdf2latex/internal/imaging"
	"pdf2latex/internal/logger"
	"pdf2latex/internal/page"
	"pdf2latex/internal/types"
)

// marginBreakSlack is how many pixels short of the dominant right margin
// a line must stop to be read as a paragraph end. A calibration value,
// not a contract.
const marginBreakSlack = 10

// Document renders recognized pages as one LaTeX source file.
type Document struct {
	Pages []*page.Page

	cfg *types.Config
}

// NewDocument creates a document over the given recognized pages
func NewDocument(pages []*page.Page, cfg *types.Config) *Document {
	return &Document{Pages: pages, cfg: cfg}
}

// Margin returns the document's left margin in inches, taken as the
// smallest left margin seen on any page
func (d *Document) Margin() float64 {
	margin, found := 0, false
	for _, p := range d.Pages {
		if x, ok := p.LeftMargin(); ok && (!found || x < margin) {
			margin, found = x, true
		}
	}

	dpi := d.cfg.DPI
	if dpi <= 0 {
		dpi = 1
	}
	return float64(margin) / float64(dpi)
}

// Content returns the complete LaTeX source for the document
func (d *Document) Content() string {
	var sb strings.Builder

	sb.WriteString("\\documentclass{article}\n")
	sb.WriteString("\\author{pdf2latex}\n")
	fmt.Fprintf(&sb, "\\usepackage[margin=%.1fin]{geometry}\n", d.Margin())
	sb.WriteString("\\usepackage{amsmath, amssymb, amsthm}\n")
	sb.WriteString("\\usepackage{euscript}\n")
	sb.WriteString("\\begin{document}")

	for _, p := range d.Pages {
		sb.WriteString(d.pageLatex(p))
	}

	sb.WriteString("\n\\end{document}\n")

	return norm.NFC.String(sb.String())
}

// pageLatex emits one page's lines, inserting a paragraph break after
// every line that stops clearly short of the page's dominant right margin
func (d *Document) pageLatex(p *page.Page) string {
	mode, _ := imaging.MostFrequent(p.RightMargins(), 0)

	var sb strings.Builder
	for i, line := range p.Lines {
		var prev, next *fontbase.KnownGlyph
		if i > 0 {
			prev = p.Lines[i-1].LastGuess(d.cfg.DistThreshold)
		}
		if i < len(p.Lines)-1 {
			next = p.Lines[i+1].FirstGuess(d.cfg.DistThreshold)
		}

		sb.WriteString("\n    ")
		sb.WriteString(line.Latex(prev, next, d.cfg.DistThreshold))

		if margin, ok := line.RightMargin(); ok && margin < mode-marginBreakSlack {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Save writes the document's LaTeX source to the given path
func (d *Document) Save(path string) error {
	content := d.Content()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return types.NewAppError(types.ErrInvalidInput, "failed to write output file", err)
	}

	logger.Info("saved document",
		logger.String("path", path),
		logger.Int("bytes", len(content)))
	return nil
}
