// Package history records organize and plan runs in a SQLite database so the
// CLI can show what happened to a library over time.
//
// The store follows the same conventions as the rest of the state layer:
// embedded, ordered migrations tracked in schema_migrations, WAL journaling,
// and bounded retries when SQLite reports the database as busy.
package history
