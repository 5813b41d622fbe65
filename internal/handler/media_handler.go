package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lostfound/internal/errors"
	"lostfound/internal/logging"
	"lostfound/internal/notify"
	"lostfound/internal/storage"
)

// ImageHandler resolves stored image keys to fetchable URLs.
type ImageHandler struct {
	images storage.ImageStore
}

// NewImageHandler creates a new image handler.
func NewImageHandler(images storage.ImageStore) *ImageHandler {
	return &ImageHandler{images: images}
}

// Redirect godoc
// @Summary Redirect to a stored image
// @Tags images
// @Param key path string true "Image key"
// @Success 302 {string} string "Found"
// @Failure 400 {object} errors.ErrorResponse
// @Router /images/{key} [get]
func (h *ImageHandler) Redirect(c echo.Context) error {
	url, err := h.images.URL(c.Request().Context(), c.Param("*"))
	if err != nil {
		return badRequest("invalid image key", "INVALID_IMAGE_KEY")
	}
	return c.Redirect(http.StatusFound, url)
}

// WSHandler attaches authenticated WebSocket clients to the notification hub.
type WSHandler struct {
	hub    *notify.Hub
	logger logging.Logger
}

// NewWSHandler creates a new WebSocket handler.
func NewWSHandler(hub *notify.Hub, logger logging.Logger) *WSHandler {
	return &WSHandler{hub: hub, logger: logger}
}

// Connect godoc
// @Summary Live notifications
// @Description Upgrades to a WebSocket that receives an event for every new message. The token may also be passed as the "token" query parameter.
// @Tags messages
// @Security BearerAuth
// @Success 101 {string} string "Switching Protocols"
// @Failure 401 {object} errors.ErrorResponse
// @Router /ws [get]
func (h *WSHandler) Connect(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	if err := h.hub.ServeWs(c.Response(), c.Request(), userID); err != nil {
		h.logger.Warn(c.Request().Context(), "websocket upgrade", "user_id", userID, "error", err)
		if !c.Response().Committed {
			return echo.NewHTTPError(http.StatusServiceUnavailable, errors.ErrorResponse{
				Error: "notifications unavailable",
				Code:  "WS_UNAVAILABLE",
			})
		}
	}
	return nil
}
