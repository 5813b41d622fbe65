package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"lostfound/internal/service"
)

// CommentHandler handles comment endpoints.
type CommentHandler struct {
	commentService service.CommentService
}

// NewCommentHandler creates a new comment handler.
func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// CommentRequest represents a new comment.
type CommentRequest struct {
	Content string `json:"content" form:"content" validate:"required"`
}

// Add godoc
// @Summary Comment on an item
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Item kind" Enums(lost, found)
// @Param id path int true "Item ID"
// @Param request body CommentRequest true "Comment"
// @Success 201 {object} model.Comment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /items/{kind}/{id}/comments [post]
func (h *CommentHandler) Add(c echo.Context) error {
	ref, err := parseItemRef(c)
	if err != nil {
		return err
	}
	var req CommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.commentService.AddComment(c.Request().Context(), ref, req.Content)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, comment)
}

// ListForItem godoc
// @Summary List comments on an item, oldest first
// @Tags comments
// @Produce json
// @Param kind path string true "Item kind" Enums(lost, found)
// @Param id path int true "Item ID"
// @Success 200 {array} model.Comment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /items/{kind}/{id}/comments [get]
func (h *CommentHandler) ListForItem(c echo.Context) error {
	ref, err := parseItemRef(c)
	if err != nil {
		return err
	}
	comments, err := h.commentService.ListForItem(c.Request().Context(), ref)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, comments)
}

// ListRecent godoc
// @Summary List recent comments across all items, newest first
// @Tags comments
// @Produce json
// @Param limit query int false "Maximum number of comments"
// @Success 200 {array} model.Comment
// @Failure 400 {object} errors.ErrorResponse
// @Router /comments [get]
func (h *CommentHandler) ListRecent(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return badRequest("invalid limit", "INVALID_LIMIT")
		}
		limit = n
	}
	comments, err := h.commentService.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, comments)
}
