package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lostfound/internal/service"
)

// StoryHandler handles story board endpoints.
type StoryHandler struct {
	storyService service.StoryService
}

// NewStoryHandler creates a new story handler.
func NewStoryHandler(storyService service.StoryService) *StoryHandler {
	return &StoryHandler{storyService: storyService}
}

// StoryRequest represents a new story.
type StoryRequest struct {
	Title   string `json:"title" form:"title" validate:"required,max=150"`
	Content string `json:"content" form:"content" validate:"required"`
}

// Post godoc
// @Summary Share a recovery story
// @Tags stories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body StoryRequest true "Story"
// @Success 201 {object} model.Story
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /stories [post]
func (h *StoryHandler) Post(c echo.Context) error {
	var req StoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	story, err := h.storyService.Post(c.Request().Context(), req.Title, req.Content)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, story)
}

// List godoc
// @Summary List stories, newest first
// @Tags stories
// @Produce json
// @Success 200 {array} model.Story
// @Router /stories [get]
func (h *StoryHandler) List(c echo.Context) error {
	stories, err := h.storyService.List(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, stories)
}

// Get godoc
// @Summary Get a story
// @Tags stories
// @Produce json
// @Param id path int true "Story ID"
// @Success 200 {object} model.Story
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /stories/{id} [get]
func (h *StoryHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	story, err := h.storyService.Get(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, story)
}
