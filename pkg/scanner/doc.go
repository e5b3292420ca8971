// Package scanner implements a one-pass, byte-at-a-time pattern scanner.
//
// A Pattern is an ordered list of elements, each a small byte class that
// must match once or up to a bounded number of consecutive times. A Token is
// the per-scan automaton for a pattern: it consumes one byte per call,
// advances or resets, and resets itself after each full match. A Scheduler
// runs several tokens side by side over the same io.ByteReader and hands each
// completion to the handler bound to that pattern.
//
// Nothing is buffered beyond the in-flight partial match, and there is no
// error path for malformed input: a byte that cannot continue a match
// simply resets the token.
package scanner
