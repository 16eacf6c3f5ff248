package service

// ValidationError reports malformed input.  It is raised before the store
// is touched and maps to HTTP 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Field + " " + e.Message }
