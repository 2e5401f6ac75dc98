// Package response builds the envelopes every action answers with:
//
//	{"response": {"header": {...}, "payload": {"<key>": {"status": {"code": ..., "message": ...}, ...}}}}
//	{"response": {"header": {}, "payload": {"error": {"status": ..., "category": ..., "title": ..., "description": ...}}}}
package response

import (
	"net/http"

	apperrors "todo-mbaas/internal/shared/errors"
)

// StatusCode is the closed enumeration of codes clients switch on.
type StatusCode string

const (
	StatusProcessing  StatusCode = "SUCCESS_102"
	StatusSuccess     StatusCode = "SUCCESS_200"
	StatusBadInput    StatusCode = "ERR_400"
	StatusAuthFailed  StatusCode = "ERR_401"
	StatusInactive    StatusCode = "ERR_402"
	StatusServerError StatusCode = "ERR_500"
	errorKey                     = "error"
	authFailurePrefix            = "Authorization failure. "
)

// Status is the {code, message} pair placed under a payload section.
type Status struct {
	Code    StatusCode `json:"code"`
	Message string     `json:"message"`
}

// ErrorBody is the payload.error object. Title and Description are omitted
// for authorization failures.
type ErrorBody struct {
	Status      StatusCode `json:"status"`
	Category    string     `json:"category"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
}

// Body holds the header and payload of an envelope.
type Body struct {
	Header  map[string]interface{} `json:"header"`
	Payload map[string]interface{} `json:"payload"`
}

// Envelope is the top level response object.
type Envelope struct {
	Response Body `json:"response"`
}

// New returns the empty {response: {header: {}, payload: {}}} skeleton.
func New() *Envelope {
	return &Envelope{Response: Body{
		Header:  make(map[string]interface{}),
		Payload: make(map[string]interface{}),
	}}
}

// NewStatus returns a skeleton with payload[key] = {status: {code, message}}.
func NewStatus(key string, code StatusCode, message string) *Envelope {
	e := New()
	e.Response.Payload[key] = map[string]interface{}{
		"status": Status{Code: code, Message: message},
	}
	return e
}

// NewSuccess is NewStatus with StatusSuccess.
func NewSuccess(key, message string) *Envelope {
	return NewStatus(key, StatusSuccess, message)
}

// NewError returns a skeleton with payload.error filled in.
func NewError(code StatusCode, category, title, description string) *Envelope {
	e := New()
	e.Response.Payload[errorKey] = &ErrorBody{
		Status:      code,
		Category:    category,
		Title:       title,
		Description: description,
	}
	return e
}

// NewAuthFailure builds the ERR_401 envelope for a missing session token (empty
// sessionID) or for a token with no live session behind it.
func NewAuthFailure(sessionID string) *Envelope {
	if sessionID != "" {
		return NewError(StatusAuthFailed, authFailurePrefix+"Session does not exist for sessionId: "+sessionID, "", "")
	}
	return NewError(StatusAuthFailed, authFailurePrefix+"sessionId not specified.", "", "")
}

// FromError builds an error envelope whose code is derived from err's type and
// whose description is err's client facing message.
func FromError(err error, category, title string) *Envelope {
	return NewError(StatusCodeFor(err), category, title, apperrors.MessageOf(err))
}

// StatusCodeFor maps an error type onto the status enumeration.
func StatusCodeFor(err error) StatusCode {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeAuthFailure:
		return StatusAuthFailed
	case apperrors.ErrorTypeBadInput, apperrors.ErrorTypeInvalidArgument, apperrors.ErrorTypeNotFound:
		return StatusBadInput
	case apperrors.ErrorTypeInactive:
		return StatusInactive
	default:
		return StatusServerError
	}
}

// HTTPStatus maps a status code onto the HTTP status the transport answers with.
func HTTPStatus(code StatusCode) int {
	switch code {
	case StatusSuccess, StatusProcessing:
		return http.StatusOK
	case StatusBadInput:
		return http.StatusBadRequest
	case StatusAuthFailed:
		return http.StatusUnauthorized
	case StatusInactive:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// SetHeader sets response.header[key].
func (e *Envelope) SetHeader(key string, value interface{}) *Envelope {
	e.Response.Header[key] = value
	return e
}

// Set adds field=value next to the status of payload[key]. It is a no-op when
// the section does not exist.
func (e *Envelope) Set(key, field string, value interface{}) *Envelope {
	if section, ok := e.Response.Payload[key].(map[string]interface{}); ok {
		section[field] = value
	}
	return e
}

// Section returns payload[key] for status envelopes.
func (e *Envelope) Section(key string) (map[string]interface{}, bool) {
	section, ok := e.Response.Payload[key].(map[string]interface{})
	return section, ok
}

// Err returns payload.error, or nil for success envelopes.
func (e *Envelope) Err() *ErrorBody {
	body, _ := e.Response.Payload[errorKey].(*ErrorBody)
	return body
}

// IsError reports whether the envelope carries payload.error.
func (e *Envelope) IsError() bool {
	return e.Err() != nil
}

// Code returns the status code of the envelope: the error status for error
// envelopes, otherwise the status of the first section found.
func (e *Envelope) Code() StatusCode {
	if body := e.Err(); body != nil {
		return body.Status
	}
	for _, v := range e.Response.Payload {
		section, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		if st, ok := section["status"].(Status); ok {
			return st.Code
		}
	}
	return StatusSuccess
}
