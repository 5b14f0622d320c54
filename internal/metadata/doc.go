// Package metadata writes the provenance record stored beside each organized
// document as `<document>.meta.json`.
package metadata
