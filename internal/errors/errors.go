package errors

import (
	"errors"
	"net/http"
)

// Kind classifies a domain error for the presentation layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindAuth
)

// Error is a domain error carrying a stable machine-readable code.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

var (
	// ErrEmailRequired is returned when registering without an email.
	ErrEmailRequired = newError(KindValidation, "EMAIL_REQUIRED", "email is required")
	// ErrPasswordRequired is returned when registering without a password.
	ErrPasswordRequired = newError(KindValidation, "PASSWORD_REQUIRED", "password is required")
	// ErrTitleRequired is returned when a listing or story has no title.
	ErrTitleRequired = newError(KindValidation, "TITLE_REQUIRED", "title is required")
	// ErrDescriptionRequired is returned when a listing has no description.
	ErrDescriptionRequired = newError(KindValidation, "DESCRIPTION_REQUIRED", "description is required")
	// ErrImageRequired is returned when a listing is submitted without an image.
	ErrImageRequired = newError(KindValidation, "IMAGE_REQUIRED", "no image selected")
	// ErrEmptyContent is returned for blank comments, messages and stories.
	ErrEmptyContent = newError(KindValidation, "EMPTY_CONTENT", "content cannot be empty")
	// ErrInvalidItemKind is returned when an item kind is neither lost nor found.
	ErrInvalidItemKind = newError(KindValidation, "INVALID_ITEM_KIND", "item kind must be lost or found")
	// ErrSelfMessage is returned when a user messages themselves.
	ErrSelfMessage = newError(KindValidation, "SELF_MESSAGE", "cannot send a message to yourself")

	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = newError(KindNotFound, "USER_NOT_FOUND", "user not found")
	// ErrReceiverNotFound is returned when a message receiver does not exist.
	ErrReceiverNotFound = newError(KindNotFound, "RECEIVER_NOT_FOUND", "receiver not found")
	// ErrItemNotFound is returned when a catalog item does not exist.
	ErrItemNotFound = newError(KindNotFound, "ITEM_NOT_FOUND", "item not found")
	// ErrStoryNotFound is returned when a story does not exist.
	ErrStoryNotFound = newError(KindNotFound, "STORY_NOT_FOUND", "story not found")

	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = newError(KindConflict, "EMAIL_TAKEN", "email already registered")

	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = newError(KindAuth, "INVALID_CREDENTIALS", "invalid credentials")
	// ErrUnauthenticated is returned when a mutating call has no authenticated user.
	ErrUnauthenticated = newError(KindAuth, "UNAUTHENTICATED", "authentication required")
	// ErrInvalidRefreshToken is returned when refresh token is invalid or expired.
	ErrInvalidRefreshToken = newError(KindAuth, "INVALID_REFRESH_TOKEN", "invalid or expired refresh token")
)

// KindOf returns the kind of the first domain error in err's chain,
// or KindInternal when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var e *Error
	if !errors.As(err, &e) {
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
	switch e.Kind {
	case KindValidation:
		return NewHTTPError(http.StatusBadRequest, e.Message, e.Code)
	case KindNotFound:
		return NewHTTPError(http.StatusNotFound, e.Message, e.Code)
	case KindConflict:
		return NewHTTPError(http.StatusConflict, e.Message, e.Code)
	case KindAuth:
		return NewHTTPError(http.StatusUnauthorized, e.Message, e.Code)
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
