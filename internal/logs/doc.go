// Package logs reads the persistent run log written under the state
// directory. It returns the last N lines with bounded memory and can follow
// the file for lines appended by a concurrent run.
package logs
