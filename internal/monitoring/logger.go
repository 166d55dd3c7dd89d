// Package monitoring holds the package-level diagnostic logger shared by the
// loader and renderer.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but
// may be replaced by SetLogger. Tests or embedding code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Warnf logs a non-fatal condition, such as a fraction band that could not be
// placed because its boundary rows are absent from the trace.
func Warnf(format string, v ...interface{}) {
	Logf("WARNING: "+format, v...)
}
