package pdf

import (
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"pdf2latex/internal/types"
)

// ParsePageRange resolves a page selection like "1,3,5,7-9" into a sorted
// list of distinct 1-based page numbers, capped at pageCount. The grammar
// is pdfcpu's, so open ranges ("2-") and "even"/"odd" work too. An empty
// spec selects every page and returns nil.
func ParsePageRange(spec string, pageCount int) ([]int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}

	selection, err := api.ParsePageSelection(spec)
	if err != nil {
		return nil, types.NewAppErrorWithDetails(types.ErrInvalidInput,
			"invalid page range", spec, err)
	}

	selected, err := api.PagesForPageSelection(pageCount, selection, false, false)
	if err != nil {
		return nil, types.NewAppErrorWithDetails(types.ErrInvalidInput,
			"invalid page range", spec, err)
	}

	pages := make([]int, 0, len(selected))
	for n, ok := range selected {
		if ok {
			pages = append(pages, n)
		}
	}
	if len(pages) == 0 {
		return nil, types.NewAppErrorWithDetails(types.ErrInvalidInput,
			"page range selects no pages", spec, nil)
	}
	sort.Ints(pages)
	return pages, nil
}
