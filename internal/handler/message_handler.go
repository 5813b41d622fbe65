package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lostfound/internal/model"
	"lostfound/internal/service"
)

// MessageHandler handles direct message endpoints.
type MessageHandler struct {
	messageService service.MessageService
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// SendMessageRequest represents a direct message. ItemType and ItemID are
// optional and must be given together.
type SendMessageRequest struct {
	ReceiverID uint   `json:"receiver_id" validate:"required"`
	Content    string `json:"content" validate:"required"`
	ItemType   string `json:"item_type" validate:"required_with=ItemID,omitempty,oneof=lost found"`
	ItemID     uint   `json:"item_id" validate:"required_with=ItemType"`
}

// ContactRequest represents a message to an item's owner.
type ContactRequest struct {
	Content string `json:"content" form:"content" validate:"required"`
}

// Send godoc
// @Summary Send a direct message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SendMessageRequest true "Message"
// @Success 201 {object} model.Message
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /messages [post]
func (h *MessageHandler) Send(c echo.Context) error {
	var req SendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	var item *model.ItemRef
	if req.ItemType != "" {
		item = &model.ItemRef{Kind: model.ItemKind(req.ItemType), ID: req.ItemID}
	}

	msg, err := h.messageService.Send(c.Request().Context(), req.ReceiverID, req.Content, item)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, msg)
}

// ContactOwner godoc
// @Summary Message the owner of an item
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Item kind" Enums(lost, found)
// @Param id path int true "Item ID"
// @Param request body ContactRequest true "Message"
// @Success 201 {object} model.Message
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /items/{kind}/{id}/contact [post]
func (h *MessageHandler) ContactOwner(c echo.Context) error {
	ref, err := parseItemRef(c)
	if err != nil {
		return err
	}
	var req ContactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	msg, err := h.messageService.ContactOwner(c.Request().Context(), ref, req.Content)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, msg)
}

// Inbox godoc
// @Summary Messages received by the caller, newest first
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Message
// @Failure 401 {object} errors.ErrorResponse
// @Router /messages/inbox [get]
func (h *MessageHandler) Inbox(c echo.Context) error {
	messages, err := h.messageService.Inbox(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, messages)
}

// Conversation godoc
// @Summary Conversation between the caller and another user, oldest first
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param userID path int true "Other user ID"
// @Success 200 {array} model.Message
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /messages/with/{userID} [get]
func (h *MessageHandler) Conversation(c echo.Context) error {
	otherID, err := parseID(c, "userID")
	if err != nil {
		return err
	}
	messages, err := h.messageService.Conversation(c.Request().Context(), otherID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, messages)
}
