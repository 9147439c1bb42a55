// Package fault defines the error kinds reported by the rendering packages.
//
// Every failure is a *Error carrying a Kind:
//   - IO: a sink write failed, or a backing file could not be opened or read
//   - Parse: malformed template, unresolved placeholder, bad date format,
//     unknown element class
//   - FileNotFound: a referenced file does not exist
//   - WrongFileState: a path exists but is not what it should be
//   - FileParsingFailed: a configuration file did not decode
//
// Callers test kinds with Is, which walks wrapped chains:
//
//	if fault.Is(err, fault.FileNotFound) {
//	    // content missing rather than malformed
//	}
package fault
