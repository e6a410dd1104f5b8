package validation

import "errors"

// Kind classifies why a payload was rejected.
type Kind string

const (
	KindShape     Kind = "Shape"
	KindRange     Kind = "Range"
	KindReference Kind = "Reference"
	KindExpiry    Kind = "Expiry"
	KindUpstream  Kind = "Upstream"
)

// Error is the verdict of a failed validation. Message is meant to be shown
// to the caller as is.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func shapeError(message string) error {
	return &Error{Kind: KindShape, Message: message}
}

func rangeError(message string) error {
	return &Error{Kind: KindRange, Message: message}
}

func referenceError(message string) error {
	return &Error{Kind: KindReference, Message: message}
}

func upstreamError(err error) error {
	return &Error{Kind: KindUpstream, Message: err.Error()}
}

// KindOf returns the kind of a validation error, or "" for anything else.
func KindOf(err error) Kind {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Kind
	}
	return ""
}
