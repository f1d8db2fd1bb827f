package fontbase

// Size represents a LaTeX font size command.
type Size int

const (
	Tiny Size = iota
	Scriptsize
	Footnotesize
	Small
	Normalsize
	Large
	LLarge
	LLLarge
	Huge
	HHuge
)

// String returns the LaTeX command name for the size
func (s Size) String() string {
	switch s {
	case Tiny:
		return "tiny"
	case Scriptsize:
		return "scriptsize"
	case Footnotesize:
		return "footnotesize"
	case Small:
		return "small"
	case Normalsize:
		return "normalsize"
	case Large:
		return "large"
	case LLarge:
		return "Large"
	case LLLarge:
		return "LARGE"
	case Huge:
		return "huge"
	case HHuge:
		return "Huge"
	default:
		return "normalsize"
	}
}

// Path returns the size as a file name for the persisted font library
func (s Size) Path() string {
	switch s {
	case LLarge:
		return "llarge"
	case LLLarge:
		return "lllarge"
	case HHuge:
		return "hhuge"
	default:
		return s.String()
	}
}

// AllSizes returns every size, most common first so incremental font
// generation produces useful families early.
func AllSizes() []Size {
	return []Size{
		Normalsize, Small, Large, Footnotesize, LLarge,
		Scriptsize, Tiny, LLLarge, Huge, HHuge,
	}
}
