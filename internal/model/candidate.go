package model

import "math"

// PageNumber is the unit of work for the page producer and the fetch pool.
type PageNumber uint32

// MaxPageNumber is the largest page number. Used as the default end page
// it means "crawl until the listing reports its end".
const MaxPageNumber PageNumber = math.MaxUint32

// Candidate is a listing item that passed the content filter and carries
// exactly one qualifying download link.
type Candidate struct {
	// Title is the item title and the dedup key.
	Title string `json:"title"`

	// PasteReference is the opaque locator handed to the payload decoder.
	PasteReference string `json:"paste_reference"`
}
