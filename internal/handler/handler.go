package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"lostfound/internal/auth"
	"lostfound/internal/errors"
	"lostfound/internal/model"
)

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// fail converts a service error into an echo HTTP error with an ErrorResponse body.
func fail(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func badRequest(message, code string) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// bindAndValidate binds the request into req and runs the registered validator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return badRequest("invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(err.Error(), "VALIDATION_ERROR")
	}
	return nil
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest("invalid "+name, "INVALID_ID")
	}
	return uint(id), nil
}

// parseItemRef reads the :kind and :id path parameters.
func parseItemRef(c echo.Context) (model.ItemRef, error) {
	kind, err := model.ParseItemKind(c.Param("kind"))
	if err != nil {
		return model.ItemRef{}, fail(errors.ErrInvalidItemKind)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return model.ItemRef{}, err
	}
	return model.ItemRef{Kind: kind, ID: id}, nil
}

// currentUserID returns the authenticated user placed in the request context
// by the router.
func currentUserID(c echo.Context) (uint, error) {
	id, ok := auth.UserIDFromContext(c.Request().Context())
	if !ok {
		return 0, fail(errors.ErrUnauthenticated)
	}
	return id, nil
}
