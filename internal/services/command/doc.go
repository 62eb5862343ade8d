// Package command runs external binaries for the tool clients.
//
// Runner drains stdout and stderr concurrently, forwards stdout lines to the
// caller, and reports non-zero exits as *ExitError with the stderr tail
// attached. Clients accept the Executor interface so tests can substitute
// recording stubs.
package command
