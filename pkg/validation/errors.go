package validation

// ErrorType classifies a failed constraint.
type ErrorType string

const (
	ErrorRequired ErrorType = "required"
	ErrorMin      ErrorType = "min"
	ErrorMax      ErrorType = "max"
	ErrorPattern  ErrorType = "pattern"
	ErrorFormat   ErrorType = "format"
	ErrorCustom   ErrorType = "custom"
)

// Error describes one failed constraint for one field. Errors are plain
// values handed back to the rendering layer; the engine never raises them
// as Go errors across its boundary.
type Error struct {
	Field   string    `json:"field"`
	Message string    `json:"message"`
	Type    ErrorType `json:"type"`
}

func (e Error) Error() string {
	return e.Field + ": " + e.Message
}

func newError(field, message string, kind ErrorType) *Error {
	return &Error{Field: field, Message: message, Type: kind}
}
