package fontbase

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"pdf2latex/internal/imaging"
	"pdf2latex/internal/logger"
	"pdf2latex/internal/types"
)

// markerWidth is the width of the image strip holding the "." baseline
// marker that every rendered document starts with. The dot's bottom edge
// is the baseline the glyph offset is measured against.
const markerWidth = 45

// renderTimeout bounds each external toolchain invocation
const renderTimeout = 2 * time.Minute

// glyphDocument is the standalone LaTeX document a glyph is rendered
// from. The leading dot provides the baseline reference.
const glyphDocument = `\documentclass[11pt, border=4pt]{standalone}
\usepackage{amsmath, amssymb, amsthm}
\usepackage{euscript, mathrsfs}
\begin{document}
. \fontfamily{%s}\selectfont %s
\end{document}`

// Renderer renders reference glyphs by invoking the LaTeX toolchain:
// pdflatex typesets a one-glyph document and pdftoppm rasterizes it at
// the same DPI the recognizer rasterizes pages at.
type Renderer struct {
	// WorkDir holds the temporary .tex/.pdf files
	WorkDir string
	// DPI must match the page rasterization DPI
	DPI int
}

// NewRenderer creates a Renderer using the given working directory
func NewRenderer(workDir string, dpi int) *Renderer {
	return &Renderer{WorkDir: workDir, DPI: dpi}
}

// Render typesets and rasterizes the glyph described by data. The id
// keeps concurrent renders from clobbering each other's temp files.
func (r *Renderer) Render(data GlyphData, id int) (*KnownGlyph, error) {
	latex := LatexFor(data, nil, nil, true)
	doc := fmt.Sprintf(glyphDocument, data.Code, latex)

	name := strconv.Itoa(id)
	texPath := filepath.Join(r.WorkDir, name+".tex")
	pdfPath := filepath.Join(r.WorkDir, name+".pdf")
	defer r.cleanup(name)

	if err := os.WriteFile(texPath, []byte(doc), 0644); err != nil {
		return nil, types.NewAppError(types.ErrRender, "failed to write glyph document", err)
	}

	if err := r.compile(texPath); err != nil {
		return nil, err
	}

	page, err := r.rasterize(pdfPath)
	if err != nil {
		return nil, err
	}

	bitmap, rect, offset, err := findGlyph(page)
	if err != nil {
		return nil, types.NewAppErrorWithDetails(types.ErrRender,
			"rendered image contains no glyph", latex, err)
	}

	return &KnownGlyph{
		Base:      data.Base,
		Code:      data.Code,
		Size:      data.Size,
		Styles:    data.Styles,
		Modifiers: data.Modifiers,
		Math:      data.Math,
		Rect:      rect,
		Bitmap:    bitmap,
		Offset:    offset,
	}, nil
}

// compile runs pdflatex on the glyph document
func (r *Renderer) compile(texPath string) error {
	ctx, cancel := context.WithTimeout(context.Background(), renderTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "pdflatex",
		"-interaction=nonstopmode",
		"-output-directory="+r.WorkDir,
		texPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		logger.Debug("pdflatex failed",
			logger.String("tex", texPath),
			logger.String("stderr", stderr.String()))
		return types.NewAppErrorWithDetails(types.ErrRender,
			"pdflatex failed", texPath, err)
	}
	return nil
}

// rasterize runs pdftoppm on the compiled document and decodes the first page
func (r *Renderer) rasterize(pdfPath string) (*image.Gray, error) {
	ctx, cancel := context.WithTimeout(context.Background(), renderTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "pdftoppm", "-r", strconv.Itoa(r.DPI), "-gray", pdfPath)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, types.NewAppErrorWithDetails(types.ErrRender,
			"pdftoppm failed", stderr.String(), err)
	}

	pages, err := imaging.DecodeNetpbm(stdout.Bytes())
	if err != nil {
		return nil, types.NewAppError(types.ErrRender, "failed to decode rendered page", err)
	}
	return pages[0], nil
}

// cleanup removes the temp files pdflatex leaves behind
func (r *Renderer) cleanup(name string) {
	for _, ext := range []string{".tex", ".aux", ".log", ".pdf"} {
		os.Remove(filepath.Join(r.WorkDir, name+ext))
	}
}

// findBaseline locates the baseline in a rendered glyph page from the
// bottom edge of the "." marker in the leftmost strip.
func findBaseline(page *image.Gray) int {
	h := page.Bounds().Dy()
	strip := imaging.NewRect(0, 0, markerWidth, h).Crop(page)

	parts := imaging.FindParts(strip, 0)
	if len(parts) == 0 {
		return h
	}
	return parts[len(parts)-1].End
}

// findGlyph crops the glyph out of a rendered page and computes its
// baseline offset. The marker strip is excluded before the boundary scan.
func findGlyph(page *image.Gray) ([]uint8, imaging.Rect, int, error) {
	baseline := findBaseline(page)

	w, h := page.Bounds().Dx(), page.Bounds().Dy()
	if w <= markerWidth {
		return nil, imaging.Rect{}, 0, fmt.Errorf("rendered page narrower than the baseline marker")
	}
	content := imaging.NewRect(markerWidth, 0, w-markerWidth, h).Crop(page)

	vertical := imaging.FindParts(content, 0)
	if len(vertical) == 0 {
		return nil, imaging.Rect{}, 0, fmt.Errorf("no ink outside the baseline marker")
	}
	y := vertical[0].Start
	height := vertical[len(vertical)-1].End - y + 1

	horizontal := imaging.FindParts(imaging.Rotate90(content), 0)
	if len(horizontal) == 0 {
		return nil, imaging.Rect{}, 0, fmt.Errorf("no ink outside the baseline marker")
	}
	x := horizontal[0].Start
	width := horizontal[len(horizontal)-1].End - x + 1

	crop := imaging.NewRect(x, y, width, height).Crop(content)
	offset := y + height - 1 - baseline

	return crop.Pix, imaging.NewRect(0, 0, width, height), offset, nil
}
