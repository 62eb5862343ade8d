// Package workflow orchestrates a tubegrab run.
//
// A reference is classified as a single item or a collection. Collections are
// expanded eagerly so progress can be reported as [i/N]; each item then flows
// through title resolution, the renamer, and the acquisition processor. Batch
// items fail in isolation while a single-item hard failure ends the run with
// an error. Empty fallback results are recorded but never fail a run.
package workflow
