// Package digester compares files by SHA256 digest so that unchanged
// outputs and assets are not rewritten. Writes go through
// natefinch/atomic, leaving either the old or the new file in place.
package digester
