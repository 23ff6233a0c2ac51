// Package embed provides the embedding side of the engine: the immutable
// vocabulary/matrix model, a mean-of-word-vector embedder with a bounded
// memoization cache, and cosine similarity in pairwise and batched forms.
//
// A text with zero vocabulary-recognized tokens has no embedding. That is a
// valid search miss surfaced as (nil, false), not a zero vector and not an
// error; similarity against a miss is 0.
package embed
