package fontbase

import "fmt"

// Code identifies a LaTeX font family.
type Code string

const (
	// Cmr is Computer Modern Roman
	Cmr Code = "cmr"
	// Lmr is Latin Modern Roman
	Lmr Code = "lmr"
	// Put is Utopia
	Put Code = "put"
	// Qag is TeX Gyre Adventor
	Qag Code = "qag"
	// Qcr is TeX Gyre Cursor
	Qcr Code = "qcr"
	// Qcs is TeX Gyre Schola
	Qcs Code = "qcs"
	// Qpl is TeX Gyre Pagella
	Qpl Code = "qpl"
)

// AllCodes returns every known font family code
func AllCodes() []Code {
	return []Code{Cmr, Lmr, Put, Qag, Qcr, Qcs, Qpl}
}

// ParseCode converts a string to a Code
func ParseCode(s string) (Code, error) {
	for _, code := range AllCodes() {
		if string(code) == s {
			return code, nil
		}
	}
	return "", fmt.Errorf("unknown font family code: %q", s)
}

// String returns the family code as used in LaTeX \fontfamily
func (c Code) String() string {
	return string(c)
}
