package export

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/nao1215/fgscrap/internal/model"
)

// MarkdownWriter writes records as a Markdown table.
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// Write outputs a heading, the record count and the table.
func (w *MarkdownWriter) Write(records []model.Record) error {
	md := markdown.NewMarkdown(w.output)

	md.H1("Saved games")
	md.PlainText("")
	md.PlainText(strconv.Itoa(len(records)) + " games")
	md.PlainText("")

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.Title, "`" + r.Torrent + "`"})
	}
	md.Table(markdown.TableSet{
		Header: []string{HeaderTitle, HeaderTorrent},
		Rows:   rows,
	})

	return md.Build()
}
