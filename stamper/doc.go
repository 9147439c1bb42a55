// Package stamper fills single-brace {VAR} placeholders in output names
// and reads extra blog variables from status files.
//
// A status file holds one "KEY VALUE" pair per line, split at the first
// space; blank and malformed lines are skipped. Its variables are exposed
// to templates as blog-wide data.
package stamper
