package errors

// IsConfig reports whether err is a construction-time configuration mistake.
// Configuration errors are never retried; they must be fixed by the caller.
func IsConfig(err error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	switch e.code {
	case InvalidConfig, ValidationFailed, EmptyClusterList, UnknownOptimizerForm:
		return true
	}
	return false
}

// Code extracts the error code from err, or Unknown for foreign errors.
func Code(err error) ErrorCode {
	if e, ok := err.(*Error); ok {
		return e.code
	}
	return Unknown
}
