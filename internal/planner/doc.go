// Package planner asks the reasoning service for a reorganization plan over a
// list of library files.
//
// Propose returns the model's raw answer; Plan parses it with plan.Parse so a
// prose or malformed answer is rejected before anything is applied. Each call
// runs under the configured deadline.
package planner
