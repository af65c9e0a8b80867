// Package model defines the data types shared by the scraper packages.
//
// This package contains the following main types:
//   - PageNumber: the unit of work handed from the producer to the fetch pool
//   - Candidate: a filtered listing item with its paste reference
//   - Filter: the adult-content predicate applied during extraction
//   - Artifact: a decoded, named payload ready to be written to disk
//   - Record: one dedup entry mapping a title to an artifact file name
//
// Design decision: We keep models in their own package so that extract,
// paste, database and pipeline can share them without import cycles.
package model
