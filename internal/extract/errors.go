package extract

import "errors"

var (
	// ErrStructure is returned when a listing item lacks an element the
	// selectors require. Selectors are static, so this means the site markup
	// changed and is treated as a configuration error rather than bad data.
	ErrStructure = errors.New("unexpected markup structure")

	// ErrInvalidSelector is returned by NewExtractor when a selector does
	// not compile.
	ErrInvalidSelector = errors.New("invalid selector")
)
