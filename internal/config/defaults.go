package config

// Intent names used as keys under [intents]
const (
	IntentCreateFlow       = "create_flow"
	IntentConvertDocument  = "convert_document"
	IntentProcessResponse  = "process_response"
	IntentExtractDecisions = "extract_decisions"
)

// IntentNames returns every intent the service requires, in a stable order
func IntentNames() []string {
	return []string{
		IntentCreateFlow,
		IntentConvertDocument,
		IntentProcessResponse,
		IntentExtractDecisions,
	}
}

// DefaultIntents returns the built-in prompt configuration for each intent
func DefaultIntents() map[string]IntentConfig {
	return map[string]IntentConfig{
		IntentCreateFlow: {
			SystemPrompt:    GetDefaultFlowSystemPrompt(),
			Template:        GetDefaultCreateFlowTemplate(),
			Temperature:     0.7,
			MaxOutputTokens: 3000,
			HistoryLimit:    -1,
		},
		IntentConvertDocument: {
			SystemPrompt:    GetDefaultFlowSystemPrompt(),
			Template:        GetDefaultConvertDocumentTemplate(),
			Temperature:     0.7,
			MaxOutputTokens: 3000,
			HistoryLimit:    -1,
		},
		IntentProcessResponse: {
			SystemPrompt:    "You are processing user responses in a requirements conversation. Extract information and suggest next steps. Always respond with valid JSON.",
			Template:        GetDefaultProcessResponseTemplate(),
			Temperature:     0.5,
			MaxOutputTokens: 1000,
			HistoryLimit:    5,
		},
		IntentExtractDecisions: {
			SystemPrompt:    "You are extracting structured decisions from requirements conversations. Focus on key information and decisions. Always respond with valid JSON.",
			Template:        GetDefaultExtractDecisionsTemplate(),
			Temperature:     0.3,
			MaxOutputTokens: 1500,
			HistoryLimit:    -1,
		},
	}
}

// GetDefaultFlowSystemPrompt returns the system prompt for flow generation
func GetDefaultFlowSystemPrompt() string {
	return "You are a helpful assistant that converts requirements into conversational flows. Always respond with valid JSON."
}

// GetDefaultCreateFlowTemplate returns the default template for converting any requirements document
func GetDefaultCreateFlowTemplate() string {
	return `Convert this {{.DocumentType}} requirements document into a conversational flow.

REQUIREMENTS DOCUMENT:
{{.Document}}

Instructions:
1. Analyze the tabular structure and extract key information
2. Convert each requirement into natural, conversational questions
3. Group related questions into logical sections
4. Make questions feel like a helpful assistant is asking them
5. Use only these question types: text, select, multiselect, yesno, email, textarea
6. Add options where multiple choices are available

Return JSON with this exact structure:
{
    "title": "Program Configuration Assistant",
    "description": "Let's configure your program step by step",
    "sections": [
        {
            "id": "section_1",
            "title": "Section Title",
            "questions": [
                {
                    "id": "question_1",
                    "text": "Natural conversational question?",
                    "type": "select",
                    "required": true,
                    "options": ["Option 1", "Option 2"]
                }
            ]
        }
    ]
}`
}

// GetDefaultConvertDocumentTemplate returns the template for the Adopt-A-Highway style conversion
func GetDefaultConvertDocumentTemplate() string {
	return `Convert this requirements document into a natural conversation flow.

DOCUMENT CONTENT:
{{.Document}}

Create conversational questions that feel like a helpful assistant. Convert the tabular format into natural dialogue.

For example:
- Instead of "County Name: ___" ask "What county is implementing this program?"
- Instead of "Program Type: Volunteer Cleanup" ask "Tell me about the type of volunteer program you're setting up"

Return JSON with this structure:
{
    "title": "Adopt-A-Highway Program Setup",
    "description": "Let's set up your county's Adopt-A-Highway volunteer program",
    "sections": [
        {
            "id": "program_context",
            "title": "Program Context",
            "questions": [
                {
                    "id": "county_name",
                    "text": "What county is implementing this Adopt-A-Highway program?",
                    "type": "text",
                    "required": true
                },
                {
                    "id": "participating_departments",
                    "text": "Which departments will be involved?",
                    "type": "multiselect",
                    "options": ["Public Works", "Environmental Services", "GIS", "Communications", "Other"]
                }
            ]
        }
    ]
}`
}

// GetDefaultProcessResponseTemplate returns the template for reading one user answer
func GetDefaultProcessResponseTemplate() string {
	return `Process this user response in a requirements gathering conversation.

CONVERSATION HISTORY:
{{.History}}

CURRENT QUESTION: {{.CurrentQuestion}}
USER RESPONSE: {{.UserResponse}}

Extract key information and suggest the next question. Return JSON:
{
    "next_question": "What's the next question to ask?",
    "extracted_info": {
        "key1": "extracted value 1"
    },
    "is_complete": false,
    "confidence_score": 0.85
}`
}

// GetDefaultExtractDecisionsTemplate returns the template for summarizing a finished conversation
func GetDefaultExtractDecisionsTemplate() string {
	return `Extract all key decisions from this {{.DocumentType}} conversation.

CONVERSATION:
{{.History}}

Extract decisions and create a summary. Return JSON:
{
    "decisions": {
        "organization_name": "Green Valley Environmental Club",
        "organization_type": "non-profit",
        "contact_email": "contact@example.com"
    },
    "summary": "Brief summary of the application and key points"
}`
}
