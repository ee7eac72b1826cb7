package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lamim/reqflow/internal/config"
	"github.com/lamim/reqflow/internal/demo"
	"github.com/lamim/reqflow/internal/flow"
	"github.com/lamim/reqflow/internal/share"
	"github.com/lamim/reqflow/internal/util"
	"github.com/lamim/reqflow/pkg/models"
)

const previewLength = 300

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "Requirements conversation flow service",
		"status":    "running",
		"version":   s.version,
		"endpoints": s.endpoints(),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":            "healthy",
		"service":           ServiceName,
		"openai_configured": s.flows.Configured(),
		"model":             s.cfg.Model.ModelName,
	})
}

func (s *Server) handleSchema(c *gin.Context) {
	c.JSON(http.StatusOK, models.FlowSchema())
}

// validateDocument separates oversized input (413) from malformed input (400)
func (s *Server) validateDocument(doc string) error {
	err := config.ValidateDocument(doc, s.cfg.Server.MaxDocumentBytes)
	if err == nil || errors.Is(err, config.ErrDocumentTooLarge) {
		return err
	}
	return fmt.Errorf("%w: %v", errInvalidInput, err)
}

func (s *Server) validateHistory(history []models.Exchange, extra ...string) error {
	var b strings.Builder
	for _, ex := range history {
		b.WriteString(ex.Question)
		b.WriteString(ex.Response)
	}
	for _, e := range extra {
		b.WriteString(e)
	}
	return s.validateDocument(b.String())
}

func flowResponse(result *flow.Result[models.ConversationFlow], okMessage string) FlowResponse {
	resp := FlowResponse{
		Success:          true,
		ConversationFlow: result.Value,
		AIUsed:           result.AIUsed,
		FallbackUsed:     result.FallbackUsed,
		Message:          okMessage,
	}
	switch {
	case result.NotConfigured():
		resp.Message = flow.NotConfiguredMessage
	case result.FallbackUsed:
		resp.Message = "AI response could not be parsed, using fallback flow"
	}
	if result.Raw != "" {
		preview := util.TruncateString(result.Raw, previewLength)
		resp.AIResponsePreview = &preview
	}
	return resp
}

func (s *Server) handleCreateFlow(c *gin.Context) {
	var req CreateFlowRequest
	if err := bindOptional(c, &req); err != nil {
		s.badRequest(c, err)
		return
	}

	if strings.TrimSpace(req.TemplateContent) == "" {
		c.JSON(http.StatusOK, FlowResponse{
			Success:          true,
			ConversationFlow: demo.Flow(),
			Message:          "No template content supplied, returning demo flow",
		})
		return
	}
	if err := s.validateDocument(req.TemplateContent); err != nil {
		s.handleError(c, "create_flow", err)
		return
	}

	result, err := s.flows.CreateFlow(c.Request.Context(), req.TemplateContent, req.TemplateType)
	if err != nil {
		s.handleError(c, "create_flow", err)
		return
	}
	c.JSON(http.StatusOK, flowResponse(result, "Requirements converted to conversational flow"))
}

func (s *Server) handleConvertDocument(c *gin.Context) {
	var req ConvertDocumentRequest
	if err := bindOptional(c, &req); err != nil {
		s.badRequest(c, err)
		return
	}
	if err := s.validateDocument(req.DocumentContent); err != nil {
		s.handleError(c, "convert_document", err)
		return
	}

	result, err := s.flows.ConvertDocument(c.Request.Context(), req.DocumentContent)
	if err != nil {
		s.handleError(c, "convert_document", err)
		return
	}
	c.JSON(http.StatusOK, flowResponse(result, "Document converted to conversational flow"))
}

func (s *Server) handleProcessResponse(c *gin.Context) {
	var req ProcessResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, err)
		return
	}
	if err := s.validateHistory(req.ConversationHistory, req.CurrentQuestion, req.UserResponse); err != nil {
		s.handleError(c, "process_response", err)
		return
	}

	result, err := s.flows.ProcessResponse(c.Request.Context(),
		req.ConversationHistory, req.CurrentQuestion, req.UserResponse)
	if err != nil {
		s.handleError(c, "process_response", err)
		return
	}

	resp := ProcessResponseResponse{
		ProcessedResponse: result.Value,
		AIUsed:            result.AIUsed,
		FallbackUsed:      result.FallbackUsed,
	}
	if result.NotConfigured() {
		resp.Message = flow.NotConfiguredMessage
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleExtractDecisions(c *gin.Context) {
	var req ExtractDecisionsRequest
	if err := bindOptional(c, &req); err != nil {
		s.badRequest(c, err)
		return
	}
	if err := s.validateHistory(req.ConversationHistory); err != nil {
		s.handleError(c, "extract_decisions", err)
		return
	}

	result, err := s.flows.ExtractDecisions(c.Request.Context(), req.ConversationHistory, req.TemplateType)
	if err != nil {
		s.handleError(c, "extract_decisions", err)
		return
	}

	resp := ExtractDecisionsResponse{
		ExtractedDecisions: result.Value,
		AIUsed:             result.AIUsed,
		FallbackUsed:       result.FallbackUsed,
	}
	if result.NotConfigured() {
		resp.Message = flow.NotConfiguredMessage
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleCreateShareableLink(c *gin.Context) {
	var req ShareRequest
	if err := bindOptional(c, &req); err != nil {
		s.badRequest(c, err)
		return
	}
	if err := s.validateHistory(req.ConversationHistory, req.Title); err != nil {
		s.handleError(c, "create_shareable_link", err)
		return
	}

	link := share.NewLink(s.cfg.Server.PublicBaseURL, req.ConversationHistory, req.TemplateType, req.Title, s.now())
	s.logger.Debug("Created shareable link",
		"share_id", link.ShareID,
		"exchanges", len(link.Preview.Conversation))
	c.JSON(http.StatusOK, link)
}

func (s *Server) handleShared(c *gin.Context) {
	id := c.Param("share_id")
	if err := share.ValidateID(id); err != nil {
		c.JSON(http.StatusNotFound, APIResponse{
			Success: false,
			Message: "Shared conversation not found",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"share_id": id,
		"message":  "Shared conversation " + id,
		"note":     "Shared conversations are not stored; this page is a placeholder",
	})
}

func (s *Server) handleDemo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"original_format":  "Tabular requirements document",
		"converted_format": "Natural conversation flow",
		"demo_flow":        demo.Showcase(),
		"message":          "Requirements converted to chat-style conversations",
	})
}

func (s *Server) handleDemoConversation(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"message":           "Demo conversation flow based on the Adopt-A-Highway document",
		"conversation_flow": demo.Flow(),
	})
}

func (s *Server) handleConversationSample(c *gin.Context) {
	chat, decisions := demo.ConversationSample()
	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"conversation_sample": chat,
		"extracted_decisions": decisions,
		"shareable_link":      share.URL(s.cfg.Server.PublicBaseURL, "share_00123"),
		"message":             "Sample of the chat-style requirements gathering experience",
	})
}

func (s *Server) handleSimulateConversation(c *gin.Context) {
	chat, decisions := demo.SimulatedConversation()
	c.JSON(http.StatusOK, gin.H{
		"success":              true,
		"conversation_preview": chat,
		"extracted_decisions":  decisions,
		"message":              "Simulated conversation generated from the requirements",
	})
}
