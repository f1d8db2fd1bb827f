// Package types defines core data types and enums for the pdf2latex application.
package types

// Config 应用配置
type Config struct {
	// FontDir is the directory holding the persisted font library,
	// one subdirectory per font family code.
	FontDir string `json:"font_dir"`
	// Threads is the maximum number of concurrent line-matching tasks.
	Threads int `json:"threads"`
	// DPI used for rasterization. Must match the DPI the font library
	// was rendered at, otherwise the pixel distance is meaningless.
	DPI int `json:"dpi"`
	// DistThreshold is the distance below which a match is accepted
	// without scanning further candidates.
	DistThreshold float64 `json:"dist_threshold"`
	// DistUnalignedThreshold is the distance above which a glyph is
	// re-matched without baseline alignment.
	DistUnalignedThreshold float64 `json:"dist_unaligned_threshold"`
	// CharThreshold is the grayscale value at or below which a pixel
	// seeds glyph extraction.
	CharThreshold uint8 `json:"char_threshold"`
	// FormulaModelPath is the path to the optional ONNX formula model.
	FormulaModelPath string `json:"formula_model_path"`
	// FormulaModelEnabled turns the formula recognizer on.
	FormulaModelEnabled bool `json:"formula_model_enabled"`
	// Verbose enables debug logging.
	Verbose bool `json:"verbose"`
}

// PageResult summarizes recognition for one page.
type PageResult struct {
	PageNumber int     `json:"page_number"`
	Lines      int     `json:"lines"`
	Glyphs     int     `json:"glyphs"`
	Unmatched  int     `json:"unmatched"`
	AvgDist    float64 `json:"avg_dist"`
}

// DocumentResult summarizes recognition for a whole document.
type DocumentResult struct {
	Input      string       `json:"input"`
	PageCount  int          `json:"page_count"`
	Pages      []PageResult `json:"pages"`
	DurationMS int64        `json:"duration_ms"`
}

// ErrorCode 错误代码枚举
type ErrorCode string

const (
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrRasterize    ErrorCode = "RASTERIZE_ERROR"
	ErrRender       ErrorCode = "RENDER_ERROR"
	ErrFontLoad     ErrorCode = "FONT_LOAD_ERROR"
	ErrFontDecode   ErrorCode = "FONT_DECODE_ERROR"
	ErrConfig       ErrorCode = "CONFIG_ERROR"
	ErrModel        ErrorCode = "MODEL_ERROR"
)

// AppError 应用错误
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface for AppError
func (e *AppError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError with the given code, message, and optional cause
func NewAppError(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewAppErrorWithDetails creates a new AppError with details
func NewAppErrorWithDetails(code ErrorCode, message, details string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}
