package exceptions

import (
	"errors"
	"fmt"
	"runtime"
	"virem-service/internal/pkg/constvars"
)

// Kind tells the screens which family of failure they are looking at.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindPolicy          Kind = "policy"
	KindRemoteRejection Kind = "remote_rejection"
	KindConnectivity    Kind = "connectivity"
	KindWorkflow        Kind = "workflow"
	KindInternal        Kind = "internal"
)

type CustomError struct {
	StatusCode    int        `json:"status_code"`
	Success       bool       `json:"success"`
	ClientMessage string     `json:"message"`
	Kind          Kind       `json:"kind,omitempty"`
	Field         string     `json:"field,omitempty"`
	DevMessage    string     `json:"dev_message,omitempty"`
	Locations     []Location `json:"locations,omitempty"`
	cause         error
}

type Location struct {
	File         string `json:"file"`
	Line         int    `json:"line"`
	FunctionName string `json:"function_name"`
}

func (e *CustomError) Error() string {
	if len(e.Locations) == 0 {
		return e.DevMessage
	}
	location := e.Locations[0]
	return fmt.Sprintf("%s (%s:%d %s)", e.DevMessage, location.File, location.Line, location.FunctionName)
}

func (e *CustomError) Unwrap() error {
	return e.cause
}

// WithField attaches the offending input field so the screen can place the message next to it.
func (e *CustomError) WithField(field string) *CustomError {
	e.Field = field
	return e
}

// BuildNewCustomError builds an internal-kind error. When err already is a
// CustomError the caller location is appended and the original is returned.
func BuildNewCustomError(err error, statusCode int, clientMessage, devMessage string) *CustomError {
	return newCustomError(KindInternal, err, statusCode, clientMessage, devMessage)
}

// BuildKindError is BuildNewCustomError with an explicit taxonomy kind.
func BuildKindError(kind Kind, err error, statusCode int, clientMessage, devMessage string) *CustomError {
	return newCustomError(kind, err, statusCode, clientMessage, devMessage)
}

func newCustomError(kind Kind, err error, statusCode int, clientMessage, devMessage string) *CustomError {
	// newCustomError <- Build* <- factory <- caller
	location := getLocation(4)

	var existing *CustomError
	if errors.As(err, &existing) {
		existing.Locations = append(existing.Locations, location)
		return existing
	}

	if err != nil {
		devMessage = fmt.Sprintf("%s: %s", devMessage, err.Error())
	}

	return &CustomError{
		StatusCode:    statusCode,
		Success:       false,
		ClientMessage: clientMessage,
		Kind:          kind,
		DevMessage:    devMessage,
		Locations:     []Location{location},
		cause:         err,
	}
}

// KindOf reports the taxonomy kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr.Kind
	}
	return KindInternal
}

func getLocation(skip int) Location {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return Location{
			File:         constvars.ResponseUnknown,
			Line:         0,
			FunctionName: constvars.ResponseUnknown,
		}
	}
	function := runtime.FuncForPC(pc).Name()
	return Location{
		File:         file,
		Line:         line,
		FunctionName: function,
	}
}
