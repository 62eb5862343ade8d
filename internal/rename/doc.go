// Package rename lets the operator override the name an item is saved under.
//
// A blank answer keeps the proposed name. No filesystem-safety validation is
// applied to operator input; separators in the answer create subdirectories.
package rename
