// Package export writes the dedup table to spreadsheet, Markdown and JSON.
//
// Every writer receives the records in the order the store lists them
// (by title) and writes a title column and a torrent column, matching the
// two columns of the table itself.
package export
