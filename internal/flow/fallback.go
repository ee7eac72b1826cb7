package flow

import "github.com/lamim/reqflow/pkg/models"

// GenericFlow is returned for create_flow when the model output is unusable
func GenericFlow(documentType string) models.ConversationFlow {
	return models.ConversationFlow{
		Title: documentType + " Application",
		Sections: []models.Section{
			{
				ID:    "org_info",
				Title: "Organization Information",
				Questions: []models.Question{
					{ID: "q1", Text: "What is your organization's name?", Type: models.QuestionTypeText},
					{ID: "q2", Text: "What type of organization are you (individual, business, non-profit)?", Type: models.QuestionTypeSelect},
					{ID: "q3", Text: "What is your primary contact email?", Type: models.QuestionTypeEmail},
				},
			},
			{
				ID:    "project_details",
				Title: "Project Details",
				Questions: []models.Question{
					{ID: "q4", Text: "What is your project name?", Type: models.QuestionTypeText},
					{ID: "q5", Text: "Please describe your project goals.", Type: models.QuestionTypeTextarea},
				},
			},
		},
	}
}

// HighwayFlow is returned for convert_document when the model output is unusable
func HighwayFlow() models.ConversationFlow {
	return models.ConversationFlow{
		Title:       "Adopt-A-Highway Program Setup",
		Description: "Configure your county's volunteer highway cleanup program",
		Sections: []models.Section{
			{
				ID:    "program_basics",
				Title: "Program Basics",
				Questions: []models.Question{
					{ID: "county", Text: "What county is implementing this program?", Type: models.QuestionTypeText},
					{
						ID:      "duration",
						Text:    "How long should volunteer commitments last?",
						Type:    models.QuestionTypeSelect,
						Options: []string{"1 year", "2 years", "3 years"},
					},
					{
						ID:      "departments",
						Text:    "Which departments will participate?",
						Type:    models.QuestionTypeMultiSelect,
						Options: []string{"Public Works", "Environmental Services", "GIS", "Communications"},
					},
				},
			},
			{
				ID:    "volunteer_process",
				Title: "Volunteer Experience",
				Questions: []models.Question{
					{
						ID:      "registration",
						Text:    "How should volunteers register?",
						Type:    models.QuestionTypeSelect,
						Options: []string{"Simple registration", "Verification required", "Manual approval"},
					},
					{
						ID:      "segments",
						Text:    "How should volunteers select highway segments?",
						Type:    models.QuestionTypeSelect,
						Options: []string{"Free-draw on map", "Select predefined segments", "Both options"},
					},
				},
			},
		},
	}
}

// ProcessFallback asks the user to elaborate
func ProcessFallback() models.ProcessedResponse {
	return models.ProcessedResponse{
		NextQuestion:  "Could you tell me a bit more about that?",
		ExtractedInfo: models.Decisions{},
	}
}

// DecisionsFallback is returned for extract_decisions when the model output is unusable
func DecisionsFallback(documentType string) models.ExtractedDecisions {
	return models.ExtractedDecisions{
		Decisions: models.Decisions{"summary": "Information extracted from conversation"},
		Summary:   "Completed " + documentType + " requirements gathering",
	}
}
