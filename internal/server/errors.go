package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lamim/reqflow/internal/api"
	"github.com/lamim/reqflow/internal/config"
	"github.com/lamim/reqflow/internal/prompt"
)

// errInvalidInput marks caller mistakes that map to 400
var errInvalidInput = errors.New("invalid input")

// bindOptional decodes a JSON body; an empty body leaves req at its zero value
func bindOptional(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (s *Server) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, APIResponse{
		Success: false,
		Message: "Invalid request body",
		Error:   err.Error(),
	})
}

// handleError maps a pipeline error to a status code and JSON body
func (s *Server) handleError(c *gin.Context, op string, err error) {
	status := http.StatusInternalServerError
	message := "Internal error"
	resp := APIResponse{Success: false, Error: err.Error()}

	var apiErr *api.APIError
	switch {
	case errors.Is(err, errInvalidInput):
		status = http.StatusBadRequest
		message = "Invalid request body"
	case errors.Is(err, prompt.ErrPromptTooLarge), errors.Is(err, config.ErrDocumentTooLarge):
		status = http.StatusRequestEntityTooLarge
		message = "Input too large"
	case api.IsTimeout(err):
		status = http.StatusGatewayTimeout
		message = "AI provider timed out"
	case errors.As(err, &apiErr):
		status = http.StatusBadGateway
		message = "AI provider request failed"
		resp.UpstreamStatus = apiErr.StatusCode
	}
	resp.Message = message

	log := s.logger.Warn
	if status >= http.StatusInternalServerError {
		log = s.logger.Error
	}
	log("Request failed",
		"op", op,
		"status", status,
		"request_id", c.GetString(requestIDKey),
		"error", err)

	c.JSON(status, resp)
}
