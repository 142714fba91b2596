package protocol

import "fmt"

// Envelope is the fixed JSON response returned for every tool invocation,
// over both the MCP and plain HTTP surfaces. Exactly one of Message or Data
// is populated on success; Error is populated on failure.
type Envelope struct {
	// Success indicates whether the invocation succeeded.
	Success bool `json:"success"`
	// Message is a human-readable confirmation for text-mode tools.
	Message string `json:"message,omitempty"`
	// Data carries structured output for json-mode tools.
	Data any `json:"data,omitempty"`
	// Error is the failure description.
	Error string `json:"error,omitempty"`
}

// Text returns a success envelope carrying a message.
func Text(message string) Envelope {
	return Envelope{Success: true, Message: message}
}

// Structured returns a success envelope carrying data.
func Structured(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// Failure returns a failure envelope with the given error text.
func Failure(text string) Envelope {
	return Envelope{Success: false, Error: text}
}

// Failuref returns a failure envelope with a formatted error.
func Failuref(format string, args ...any) Envelope {
	return Envelope{Success: false, Error: fmt.Sprintf(format, args...)}
}
