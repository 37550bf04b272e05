package web

// ValidationError is a rejected user input, surfaced inline on the form. It
// never reaches the network layer.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
