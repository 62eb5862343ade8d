// Package scratch manages transient working directories for fallback
// acquisitions.
//
// Every acquisition gets its own uuid-named workspace below the transient
// root, so the newest-file heuristic only ever sees that acquisition's
// output. Release is meant to be deferred immediately after Acquire.
package scratch
