package pdf

import (
	"os"
	"path/filepath"
	"unicode"

	ledongthucpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"pdf2latex/internal/types"
)

// Info describes a PDF before rasterization.
type Info struct {
	Path      string
	FileName  string
	FileSize  int64
	PageCount int
	// HasTextLayer reports whether the PDF already carries extractable
	// text. Recognition still runs, but the user probably wants to know.
	HasTextLayer bool
}

// Probe validates the file and reads its page count and text status
func Probe(path string) (*Info, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, types.NewAppErrorWithDetails(types.ErrFileNotFound,
				"file does not exist", path, err)
		}
		return nil, types.NewAppError(types.ErrInvalidInput, "cannot access file", err)
	}
	if fileInfo.IsDir() {
		return nil, types.NewAppErrorWithDetails(types.ErrInvalidInput,
			"path is a directory, not a file", path, nil)
	}

	if err := api.ValidateFile(path, nil); err != nil {
		return nil, types.NewAppError(types.ErrInvalidInput, "not a valid PDF file", err)
	}

	// ledongthuc/pdf is more reliable than pdfcpu for page counts on
	// some PDFs
	f, reader, err := ledongthucpdf.Open(path)
	if err != nil {
		return nil, types.NewAppError(types.ErrInvalidInput, "cannot open PDF file", err)
	}
	defer f.Close()

	return &Info{
		Path:         path,
		FileName:     filepath.Base(path),
		FileSize:     fileInfo.Size(),
		PageCount:    reader.NumPage(),
		HasTextLayer: hasTextLayer(reader),
	}, nil
}

// hasTextLayer tries extracting text from the first few pages
func hasTextLayer(reader *ledongthucpdf.Reader) bool {
	maxPages := 3
	if reader.NumPage() < maxPages {
		maxPages = reader.NumPage()
	}

	total := 0
	for pageNum := 1; pageNum <= maxPages; pageNum++ {
		p := reader.Page(pageNum)
		if p.V.IsNull() {
			continue
		}

		content, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		for _, r := range content {
			if !unicode.IsSpace(r) {
				total++
			}
		}
		if total > 50 {
			return true
		}
	}

	return total > 0
}
