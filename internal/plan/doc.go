// Package plan models reorganization plans and applies them to a library.
//
// Parse accepts only the strict JSON shape
//
//	{"actions": [{"action": "create_folder", "name": "..."},
//	             {"action": "move_file", "file": "...", "target": "..."}]}
//
// and rejects the whole plan on any deviation, so a malformed answer never
// touches the filesystem. Interpreter.Apply runs actions strictly in order and
// reports one Outcome per action; action-level problems are recorded as
// skipped outcomes rather than returned as errors.
package plan
