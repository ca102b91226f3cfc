package instagram

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired   = errors.New("config is required")
	ErrClientIDRequired = errors.New("client ID is required")
	ErrInvalidBaseURL   = errors.New("invalid base URL")
	ErrNilClient        = errors.New("client is required")
)

// Error types reported by the Graph API in error.type.
const (
	ErrorTypeOAuth            = "OAuthException"
	ErrorTypeGraphMethod      = "GraphMethodException"
	ErrorTypeIGApi            = "IGApiException"
	ErrorTypeInvalidParameter = "InvalidParameterException"
)

// Error is the single error type returned by Client and OAuthHelper calls.
//
// Network failures, non-2xx responses, undecodable bodies and API-reported
// failures all surface as *Error. The structured fields are only filled when
// the server answered with a JSON error document of the form
//
//	{"error": {"message", "type", "code", "error_subcode", "fbtrace_id"}}
//
// Branch on Type, APICode and Subcode rather than on Message.
type Error struct {
	// Message is error.message from the API, or the transport error text.
	Message string
	// Code is the HTTP status of the failed response, 0 without a response.
	Code int
	// Cause is the underlying transport or decoding error.
	Cause error
	// Type is error.type, e.g. "OAuthException". Empty when absent.
	Type string
	// APICode is error.code. Nil when absent.
	APICode *int
	// Subcode is error.error_subcode. Nil when absent.
	Subcode *int
	// TraceID is error.fbtrace_id. Empty when absent.
	TraceID string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var details []string

	if e.Type != "" {
		details = append(details, "type: "+e.Type)
	}

	if e.APICode != nil {
		details = append(details, fmt.Sprintf("code: %d", *e.APICode))
	}

	if e.Subcode != nil {
		details = append(details, fmt.Sprintf("subcode: %d", *e.Subcode))
	}

	if e.TraceID != "" {
		details = append(details, "fbtrace_id: "+e.TraceID)
	}

	if len(details) == 0 {
		return e.Message
	}

	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(details, ", "))
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPError is implemented by transport errors that carry a response.
type HTTPError interface {
	error
	StatusCode() int
	Header() http.Header
	Body() []byte
}

// apiErrorBody mirrors the Graph API error document. Fields are decoded
// loosely so a type mismatch in one field does not lose the others.
type apiErrorBody struct {
	Error map[string]any `json:"error"`
}

// MapError converts any error raised while performing a request into an *Error.
// The original error is kept as Cause. A nil error maps to nil.
func MapError(err error) *Error {
	if err == nil {
		return nil
	}

	var mapped *Error
	if errors.As(err, &mapped) {
		return mapped
	}

	result := &Error{
		Message: err.Error(),
		Cause:   err,
	}

	var httpErr HTTPError
	if !errors.As(err, &httpErr) {
		return result
	}

	result.Code = httpErr.StatusCode()

	if !strings.Contains(httpErr.Header().Get("Content-Type"), "application/json") {
		return result
	}

	var body apiErrorBody

	decodeErr := json.Unmarshal(httpErr.Body(), &body)
	if decodeErr != nil {
		return result
	}

	if message, ok := stringField(body.Error, "message"); ok {
		result.Message = message
	}

	result.Type, _ = stringField(body.Error, "type")
	result.TraceID, _ = stringField(body.Error, "fbtrace_id")
	result.APICode = intField(body.Error, "code")
	result.Subcode = intField(body.Error, "error_subcode")

	return result
}

// AsError returns err as an *Error when it is or wraps one.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}

	return nil, false
}

// IsOAuthError reports whether the API rejected the request's credentials.
func IsOAuthError(err error) bool {
	apiErr, ok := AsError(err)

	return ok && apiErr.Type == ErrorTypeOAuth
}

// IsStatus reports whether the request failed with the given HTTP status.
func IsStatus(err error, status int) bool {
	apiErr, ok := AsError(err)

	return ok && apiErr.Code == status
}

func stringField(fields map[string]any, key string) (string, bool) {
	switch value := fields[key].(type) {
	case string:
		return value, true
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), true
	default:
		return "", false
	}
}

func intField(fields map[string]any, key string) *int {
	switch value := fields[key].(type) {
	case float64:
		n := int(value)

		return &n
	case string:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil
		}

		return &n
	default:
		return nil
	}
}
