// Package pipeline runs the concurrent crawl-and-decrypt pipeline.
//
// Work flows through two bounded queues between three stages:
//
//	producer ──pages──▶ fetch pool ──contents──▶ decrypt pool ──▶ files + store
//
// The producer emits page numbers in ascending order. Fetch workers turn a
// page number into page content. Decrypt workers extract candidates from
// the content, skip candidates that are already saved, decode the rest, and
// commit one dedup batch per page.
//
// Design decision: A single Flag is the only cancellation primitive. It is
// set when a worker sees the end-of-listing marker, when the operator
// interrupts, or when the context passed to Run is cancelled. Every stage
// polls it at loop boundaries and finishes what it holds before leaving, so
// a page batch is never abandoned halfway through. Only a second interrupt
// exits the process without waiting.
//
// Each queue's capacity equals the size of the pool consuming it, which
// gives backpressure: the producer blocks on a full page queue and fetch
// workers block on a full content queue.
package pipeline
