package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lostfound/internal/assistant"
)

// ChatbotRequest is a question for the help assistant.
type ChatbotRequest struct {
	Message string `json:"message"`
}

// ChatbotResponse carries the assistant's reply.
type ChatbotResponse struct {
	Reply string `json:"reply"`
}

// Chatbot godoc
// @Summary Ask the help assistant
// @Tags assistant
// @Accept json
// @Produce json
// @Param request body ChatbotRequest true "Question"
// @Success 200 {object} ChatbotResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /chatbot [post]
func Chatbot(c echo.Context) error {
	var req ChatbotRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body", "INVALID_REQUEST")
	}
	return c.JSON(http.StatusOK, ChatbotResponse{Reply: assistant.Respond(req.Message)})
}
