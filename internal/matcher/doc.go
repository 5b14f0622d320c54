// Package matcher decides which scanned document is the publication target.
//
// Classifier is the swappable capability the organizer depends on. The
// MarkerClassifier implementation is a deliberately simple heuristic: a
// case-insensitive positive marker in the filename (vetoed by a conflicting
// marker), with a sibling text file as content fallback. False positives and
// negatives are accepted; stronger classifiers can replace it without touching
// scanning or publishing.
package matcher
