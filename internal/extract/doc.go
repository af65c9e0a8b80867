// Package extract turns listing page markup into download candidates.
//
// # Architecture
//
// The Extractor runs the markup query engine (goquery over
// golang.org/x/net/html, with selectors compiled by cascadia) against one
// listing page and reports either:
//   - End: the page carries the end-of-listing marker, so there are no
//     more pages and the page yields no candidates
//   - Candidates: one entry per item that passed the content filter and
//     carries a qualifying download link
//
// # Steps
//
//  1. Parse the page
//  2. Look for the end-of-listing marker
//  3. Walk item containers, reading title and tag text
//  4. Apply the adult-content filter
//  5. Pick the first link per item whose text is the link marker and whose
//     target is not on a disallowed host
//
// # Usage
//
//	ex, err := extract.NewExtractor(extract.DefaultSelectors(),
//	    extract.WithFilter(model.FilterNoAdult))
//	result, err := ex.Extract(pageContent)
//
// Selectors are compiled once in NewExtractor and shared by every call, so
// an Extractor is safe for concurrent use.
package extract
