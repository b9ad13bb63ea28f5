package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Error codes
const (
	CodeTransport = "TRANSPORT"
	CodeServer    = "SERVER"
	CodeNotFound  = "NOT_FOUND"
	CodeSchema    = "SCHEMA"
	CodeTimeout   = "TIMEOUT"
)

// Error is a failed commerce API call
type Error struct {
	Code    string
	Message string
	Status  int
	Errors  []string
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(code, message string, status int, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

func Transport(err error) *Error {
	return &Error{
		Code:    CodeTransport,
		Message: "no response from server",
		Err:     err,
	}
}

func Schema(message string, err error) *Error {
	return &Error{
		Code:    CodeSchema,
		Message: message,
		Status:  http.StatusOK,
		Err:     err,
	}
}

func NotFound(resource string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusOK,
	}
}

// IsCode reports whether err carries the given code
func IsCode(err error, code string) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}

// StatusOf returns the status reported for err, 0 when there was no response
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// MessageOf returns the user-facing message of err
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if len(apiErr.Errors) > 0 && apiErr.Message == "" {
			return strings.Join(apiErr.Errors, "\n")
		}
		return apiErr.Message
	}
	return err.Error()
}

// serverBody is the error document the backend sends with 4xx/5xx
type serverBody struct {
	Message string          `json:"message"`
	Status  int             `json:"status"`
	Errors  json.RawMessage `json:"errors"`
}

func fromResponse(status int, body []byte) *Error {
	e := &Error{
		Code:    CodeServer,
		Status:  status,
		Message: http.StatusText(status),
	}

	var sb serverBody
	if err := json.Unmarshal(body, &sb); err != nil {
		return e
	}
	if sb.Message != "" {
		e.Message = sb.Message
	}
	// The body status wins: the backend reports stock conflicts as 409 there.
	if sb.Status != 0 {
		e.Status = sb.Status
	}
	e.Errors = decodeErrorList(sb.Errors)
	if sb.Message == "" && len(e.Errors) > 0 {
		e.Message = strings.Join(e.Errors, "\n")
	}
	return e
}

// decodeErrorList accepts both ["a","b"] and {"field":"a"}
func decodeErrorList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var byField map[string]string
	if err := json.Unmarshal(raw, &byField); err == nil {
		out := make([]string, 0, len(byField))
		for _, v := range byField {
			out = append(out, v)
		}
		sort.Strings(out)
		return out
	}
	return nil
}
