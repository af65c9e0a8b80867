package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/fgscrap/internal/model"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown export format")

// Format is an export file format.
type Format string

// Supported formats.
const (
	FormatXLSX     Format = "xlsx"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Column headers shared by all formats.
const (
	HeaderTitle   = "title"
	HeaderTorrent = "torrent"
)

// Formats lists the supported formats in help-text order.
func Formats() []Format {
	return []Format{FormatXLSX, FormatMarkdown, FormatJSON}
}

// ParseFormat parses a format name. "md" is accepted for Markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xlsx", "excel":
		return FormatXLSX, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// DefaultFileName returns the output file name used when none is given.
func (f Format) DefaultFileName() string {
	switch f {
	case FormatMarkdown:
		return "games.md"
	case FormatJSON:
		return "games.json"
	default:
		return "games.xlsx"
	}
}

// Writer writes a set of records in one format.
//
// Design decision: Writers take the whole record slice rather than
// streaming rows. The table holds one row per game, and the spreadsheet
// writer has to build the workbook in memory anyway.
type Writer interface {
	Write(records []model.Record) error
}

// NewWriter returns the writer for format f.
func NewWriter(f Format, output io.Writer) (Writer, error) {
	switch f {
	case FormatXLSX:
		return NewXLSXWriter(output), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}
