// Command clawbot organizes a document library from the command line.
//
// organize finds the target document, publishes it into the view directory
// and stamps its provenance record. plan asks the reasoning service for a
// folder layout (or reads one from --from) and applies it. ingest copies
// files into the library, watch re-runs organize as documents arrive, and
// history lists previous runs. Mutating commands hold an advisory lock on the
// library root so two invocations never interleave.
package main
