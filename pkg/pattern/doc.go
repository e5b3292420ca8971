// Package pattern compiles pattern text and YAML rules files into
// scanner patterns.
//
// The pattern language is deliberately small: quoted literals, bracketed
// byte classes with a-z ranges, and an optional {N} or {1,N} bound after a
// class. There is no alternation, grouping, or anchoring. Every class is a
// capture group.
package pattern
