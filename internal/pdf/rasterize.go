package pdf

import (
	"bytes"
	"context"
	"image"
	"os/exec"
	"strconv"

	"pdf2latex/internal/imaging"
	"pdf2latex/internal/types"
)

// Rasterize renders the selected pages of a PDF to grayscale images at
// the given DPI using pdftoppm. A nil page selection renders every page.
// Page numbers are 1-based.
func Rasterize(ctx context.Context, path string, pages []int, dpi int) ([]*image.Gray, error) {
	if len(pages) == 0 {
		return rasterizeRange(ctx, path, 0, 0, dpi)
	}

	var images []*image.Gray
	for _, pageNum := range pages {
		rendered, err := rasterizeRange(ctx, path, pageNum, pageNum, dpi)
		if err != nil {
			return nil, err
		}
		images = append(images, rendered...)
	}
	return images, nil
}

// rasterizeRange renders one contiguous page range, or the whole
// document when first is 0
func rasterizeRange(ctx context.Context, path string, first, last, dpi int) ([]*image.Gray, error) {
	args := []string{"-r", strconv.Itoa(dpi), "-gray"}
	if first > 0 {
		args = append(args,
			"-f", strconv.Itoa(first),
			"-l", strconv.Itoa(last))
	}
	args = append(args, path)

	cmd := exec.CommandContext(ctx, "pdftoppm", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, types.NewAppErrorWithDetails(types.ErrRasterize,
			"pdftoppm failed", stderr.String(), err)
	}
	if stderr.Len() > 0 {
		return nil, types.NewAppErrorWithDetails(types.ErrInvalidInput,
			"this is not a PDF", stderr.String(), nil)
	}

	images, err := imaging.DecodeNetpbm(stdout.Bytes())
	if err != nil {
		return nil, types.NewAppError(types.ErrRasterize,
			"failed to decode pdftoppm output", err)
	}
	return images, nil
}
