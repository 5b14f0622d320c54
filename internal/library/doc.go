// Package library enumerates the documents stored under a library root and
// guards the root against concurrent writers.
//
// Scanning is tolerant: a missing root yields no documents and unreadable
// subdirectories are skipped, so callers treat absence as data rather than
// an error. Mutating commands take the advisory lock before touching the tree.
package library
