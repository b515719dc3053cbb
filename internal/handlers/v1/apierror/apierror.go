// Package apierror replaces huma's problem+json error model with the
// {"message": "..."} body every client of this API expects.
package apierror

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/auth"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/service"
)

const (
	MessageUserExists         = "User already exists."
	MessageInvalidCredentials = "Invalid credentials."
	MessageUserNotFound       = "User not found"
	MessageForbidden          = "Forbidden."
)

type Error struct {
	status  int
	errs    []error
	Message string `json:"message" doc:"Human readable error message"`
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) GetStatus() int {
	return e.status
}

func (e *Error) Unwrap() []error {
	return e.errs
}

func New(status int, message string, errs ...error) huma.StatusError {
	var details []string
	for _, err := range errs {
		var detail *huma.ErrorDetail
		if errors.As(err, &detail) {
			details = append(details, detail.Error())
		}
	}
	if len(details) > 0 {
		message = message + ": " + strings.Join(details, "; ")
	}

	return &Error{
		status:  status,
		errs:    errs,
		Message: message,
	}
}

func init() {
	huma.NewError = New
}

// FromService maps service sentinels to their HTTP errors. Anything else is
// an internal error: internalMessage goes to the client and the cause goes to
// the request log.
func FromService(ctx context.Context, err error, internalMessage string) huma.StatusError {
	switch {
	case errors.Is(err, service.ErrConflict):
		return New(http.StatusBadRequest, MessageUserExists, err)
	case errors.Is(err, service.ErrInvalidCredentials):
		return New(http.StatusBadRequest, MessageInvalidCredentials, err)
	case errors.Is(err, service.ErrNotFound):
		return New(http.StatusNotFound, MessageUserNotFound, err)
	case errors.Is(err, service.ErrForbidden):
		return New(http.StatusForbidden, MessageForbidden, err)
	}

	logging.GetLogData(ctx).AddError(err)
	return New(http.StatusInternalServerError, internalMessage, err)
}

// Caller returns the user ID the access guard put on the context.
func Caller(ctx context.Context) (uuid.UUID, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, New(http.StatusUnauthorized, auth.UnauthenticatedMessage, auth.ErrUnauthenticated)
	}
	return userID, nil
}
