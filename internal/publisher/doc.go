// Package publisher exposes a matched document inside the publish directory.
//
// Publishing is idempotent: an occupied destination is returned as-is. A new
// artifact is a symbolic link to the absolute source path; only when the
// platform reports that links are unsupported or not permitted does the
// Linker fall back to a metadata-preserving copy, written through a temp file
// so the destination never holds a partial artifact. Any other link failure is
// returned to the caller.
package publisher
