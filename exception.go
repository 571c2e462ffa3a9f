// Package rdfox provides a CGO-free Go client for the RDFox knowledge graph engine.
package rdfox

// Every native entry point returns a pointer to an exception object, with
// zero meaning success. check translates that convention into Go errors.
// The exception object is owned by the engine and must not be retained after
// its name and message have been copied out.

// check converts the result of a native call into an error. The operation
// text names the call for logs and error messages.
func check(operation string, exception uintptr) error {
	if exception == 0 {
		return nil
	}
	name := cExceptionGetExceptionName(exception)
	what := cExceptionWhat(exception)
	logger().Debug("engine exception",
		"operation", operation,
		"exception", name,
		"what", what)
	engineExceptions.WithLabelValues(name).Inc()
	return newEngineError(name, what)
}
