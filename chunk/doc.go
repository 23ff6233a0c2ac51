// Package chunk segments a document's ordered (text, anchor) units into the
// bounded-size chunks the matchers operate on. Chunking is order-preserving
// and anchor-complete; boundaries never split a text unit.
package chunk
