package server

import "github.com/lamim/reqflow/pkg/models"

// APIResponse is the envelope for errors and simple acknowledgements
type APIResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	Error          string `json:"error,omitempty"`
	UpstreamStatus int    `json:"upstream_status,omitempty"`
}

// CreateFlowRequest is the body of POST /ai/create-flow
type CreateFlowRequest struct {
	TemplateContent string `json:"template_content"`
	TemplateType    string `json:"template_type"`
}

// ConvertDocumentRequest is the body of POST /ai/convert-document
type ConvertDocumentRequest struct {
	DocumentContent string `json:"document_content"`
}

// ProcessResponseRequest is the body of POST /ai/process-response
type ProcessResponseRequest struct {
	ConversationHistory []models.Exchange `json:"conversation_history"`
	UserResponse        string            `json:"user_response" binding:"required"`
	CurrentQuestion     string            `json:"current_question"`
}

// ExtractDecisionsRequest is the body of POST /ai/extract-decisions
type ExtractDecisionsRequest struct {
	ConversationHistory []models.Exchange `json:"conversation_history"`
	TemplateType        string            `json:"template_type"`
}

// ShareRequest is the body of POST /ai/create-shareable-link
type ShareRequest struct {
	ConversationHistory []models.Exchange `json:"conversation_history"`
	TemplateType        string            `json:"template_type"`
	Title               string            `json:"title"`
}

// FlowResponse carries a generated conversation flow
type FlowResponse struct {
	Success           bool                    `json:"success"`
	ConversationFlow  models.ConversationFlow `json:"conversation_flow"`
	AIUsed            bool                    `json:"ai_used"`
	FallbackUsed      bool                    `json:"fallback_used"`
	Message           string                  `json:"message"`
	AIResponsePreview *string                 `json:"ai_response_preview,omitempty"`
}

// ProcessResponseResponse is a ProcessedResponse plus pipeline flags
type ProcessResponseResponse struct {
	models.ProcessedResponse
	AIUsed       bool   `json:"ai_used"`
	FallbackUsed bool   `json:"fallback_used"`
	Message      string `json:"message,omitempty"`
}

// ExtractDecisionsResponse is an ExtractedDecisions plus pipeline flags
type ExtractDecisionsResponse struct {
	models.ExtractedDecisions
	AIUsed       bool   `json:"ai_used"`
	FallbackUsed bool   `json:"fallback_used"`
	Message      string `json:"message,omitempty"`
}
