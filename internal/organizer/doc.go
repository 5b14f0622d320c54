// Package organizer runs the end-to-end organize pass over a library.
//
// A pass scans the library for documents, picks the first one the configured
// classifier accepts, publishes it into the view directory and writes its
// provenance record. Nothing is touched when no document matches. Steps are
// not rolled back: an annotate failure leaves the published artifact in place
// and the error carries the same marker the failing step produced.
package organizer
