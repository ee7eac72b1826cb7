// Package demo holds the canned payloads served by the demo endpoints.
// Each call returns a fresh value so callers may modify the result.
package demo

import "github.com/lamim/reqflow/pkg/models"

// ShowcaseSection is a section of the showcase flow, questions as plain text
type ShowcaseSection struct {
	Section   string   `json:"section"`
	Questions []string `json:"conversational_questions"`
}

// ShowcaseFlow illustrates what a converted document looks like
type ShowcaseFlow struct {
	Title              string            `json:"title"`
	Description        string            `json:"description"`
	Sections           []ShowcaseSection `json:"sections"`
	AITransformation   string            `json:"ai_transformation"`
	ChatLikeExperience bool              `json:"chat_like_experience"`
}

// SampleMessage is one message of the conversation sample.
// The sample uses "message" rather than "content" for the text.
type SampleMessage struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

// Showcase returns the highway showcase flow
func Showcase() ShowcaseFlow {
	return ShowcaseFlow{
		Title:       "Adopt-A-Highway Program Configuration",
		Description: "Let's set up your county's volunteer highway cleanup program",
		Sections: []ShowcaseSection{
			{
				Section: "Program Context",
				Questions: []string{
					"What county is implementing this Adopt-A-Highway program?",
					"Which departments will be involved? (Public Works, Environmental Services, GIS, Communications)",
					"How long should volunteer commitments last? (1 year, 2 years, 3 years)",
					"What are the main goals of your program? (Cleanliness, civic pride, cost reduction)",
				},
			},
			{
				Section: "Volunteer Experience",
				Questions: []string{
					"How should volunteers register for the program?",
					"Should volunteers be able to draw their own highway segments on a map, or select from predefined areas?",
					"How should volunteers handle the safety waiver? (Digital upload, paper submission, or both)",
					"What information should volunteers provide when applying to adopt a segment?",
				},
			},
			{
				Section: "GIS & Mapping",
				Questions: []string{
					"Do you already have a GIS layer for Adopt-A-Highway segments?",
					"Can Delasoft connect directly to your GIS service, or do you prefer scheduled imports?",
					"What attributes should each highway segment include? (SegmentID, RoadName, Mileposts, etc.)",
					"Should the system auto-calculate segment lengths, or will you provide them?",
				},
			},
			{
				Section: "Workflow Configuration",
				Questions: []string{
					"How often should volunteers clean their adopted segments? (4 times/year standard, 2 times/year rural)",
					"How should cleanup reminders be sent? (Automated email sequence or manual notifications)",
					"When should volunteer groups be flagged as inactive? (6 months, 12 months, or custom)",
					"How should cleanup reports be reviewed and approved?",
				},
			},
		},
		AITransformation:   "This shows how your tabular requirements become natural conversations",
		ChatLikeExperience: true,
	}
}

// Flow returns the four-section demo conversation flow
func Flow() models.ConversationFlow {
	return models.ConversationFlow{
		Title:       "Adopt-A-Highway Program Configuration",
		Description: "Let's configure your county's Adopt-A-Highway volunteer program",
		Sections: []models.Section{
			{
				ID:    "program_setup",
				Title: "Program Context & Setup",
				Questions: []models.Question{
					{ID: "county_name", Text: "What's the name of your county?", Type: models.QuestionTypeText, Required: true},
					{
						ID:      "program_duration",
						Text:    "How long should volunteer commitments last?",
						Type:    models.QuestionTypeSelect,
						Options: []string{"1 year", "2 years", "3 years", "Custom duration"},
						Default: "2 years",
					},
					{
						ID:      "participating_departments",
						Text:    "Which departments will participate in managing the program?",
						Type:    models.QuestionTypeMultiSelect,
						Options: []string{"Public Works", "Environmental Services", "GIS", "Communications", "Parks & Recreation"},
					},
				},
			},
			{
				ID:    "volunteer_experience",
				Title: "Volunteer User Experience",
				Questions: []models.Question{
					{
						ID:      "registration_type",
						Text:    "How should volunteers register for the program?",
						Type:    models.QuestionTypeSelect,
						Options: []string{"Simple email registration", "Account verification required", "Manual staff approval"},
					},
					{
						ID:      "segment_selection",
						Text:    "How should volunteers choose their highway segments?",
						Type:    models.QuestionTypeSelect,
						Options: []string{"Free-draw on map", "Select from predefined segments", "Both options available"},
					},
					{
						ID:      "safety_waiver",
						Text:    "How should volunteers handle the safety waiver?",
						Type:    models.QuestionTypeSelect,
						Options: []string{"Digital upload via portal", "Paper PDF upload by staff", "Both options"},
					},
				},
			},
			{
				ID:    "gis_mapping",
				Title: "GIS & Mapping Configuration",
				Questions: []models.Question{
					{ID: "existing_gis_layer", Text: "Do you already have a GIS layer for Adopt-A-Highway segments?", Type: models.QuestionTypeYesNo},
					{
						ID:       "gis_connection",
						Text:     "Can Delasoft connect directly to your GIS service?",
						Type:     models.QuestionTypeYesNo,
						FollowUp: "If yes, please provide Feature Service URL",
					},
					{
						ID:      "segment_attributes",
						Text:    "What attributes should be included in each highway segment?",
						Type:    models.QuestionTypeMultiSelect,
						Options: []string{"SegmentID", "RoadName", "County", "StartMilepost", "EndMilepost", "Length", "Direction", "SideOfRoad", "Status"},
						Default: []string{"SegmentID", "RoadName", "StartMilepost", "EndMilepost", "Status"},
					},
				},
			},
			{
				ID:    "workflow_config",
				Title: "Workflow & Process Configuration",
				Questions: []models.Question{
					{
						ID:      "cleanup_frequency",
						Text:    "How often should volunteers clean their adopted segments?",
						Type:    models.QuestionTypeSelect,
						Options: []string{"4 times per year (standard)", "2 times per year (rural/low traffic)", "Custom by district or coordinator"},
					},
					{
						ID:      "reminder_automation",
						Text:    "How should cleanup reminders be sent?",
						Type:    models.QuestionTypeSelect,
						Options: []string{"Auto 30/15/5-day email sequence", "Manual notifications by staff", "Custom timing"},
					},
					{
						ID:      "inactivity_threshold",
						Text:    "When should volunteer groups be flagged as inactive?",
						Type:    models.QuestionTypeSelect,
						Options: []string{"6 months without cleanup", "12 months without cleanup (default)", "Custom threshold (staff configurable)"},
					},
				},
			},
		},
	}
}

// ConversationSample returns a sample chat and the decisions read from it
func ConversationSample() ([]SampleMessage, map[string]any) {
	chat := []SampleMessage{
		{Role: "assistant", Message: "Hi! I'm here to help set up your Adopt-A-Highway program. Let's start - what county are you configuring this for?"},
		{Role: "user", Message: "We're setting this up for Orange County, California."},
		{Role: "assistant", Message: "Great! Orange County. Now, which departments will be involved? I typically see Public Works leading, with Environmental Services and GIS supporting."},
		{Role: "user", Message: "Yes, Public Works will lead. We'll also have Environmental Services and our GIS team involved."},
		{Role: "assistant", Message: "Perfect team! Now, do you already have GIS data for highway segments, or should Delasoft create the initial mapping layer for you?"},
		{Role: "user", Message: "We have some existing highway data, but it might need updates for the volunteer program."},
		{Role: "assistant", Message: "That's common! We can enhance your existing data. One more question - how often should volunteers be required to clean their segments? Most counties do 4 times per year, but rural areas sometimes prefer twice yearly."},
	}

	decisions := map[string]any{
		"county_name":            "Orange County, California",
		"lead_department":        "Public Works",
		"supporting_departments": []string{"Environmental Services", "GIS"},
		"existing_gis_data":      "Yes, but needs updates",
		"cleanup_frequency":      "To be determined (4x or 2x per year)",
	}

	return chat, decisions
}

// SimulatedConversation returns a simulated chat and the decisions read from it
func SimulatedConversation() ([]models.ChatTurn, map[string]any) {
	chat := []models.ChatTurn{
		{Role: "assistant", Content: "Hi! I'm here to help you set up your county's Adopt-A-Highway program. Let's start with the basics - what's the name of your county?"},
		{Role: "user", Content: "We're setting this up for Orange County."},
		{Role: "assistant", Content: "Great! Orange County. Now, which departments will be involved in managing the program? Typically we see Public Works, Environmental Services, GIS, and Communications."},
		{Role: "user", Content: "We'll have Public Works as the lead, plus Environmental Services and our GIS team."},
		{Role: "assistant", Content: "Perfect! Public Works, Environmental Services, and GIS. That's a solid team. Now, do you already have a GIS layer for highway segments, or would you like Delasoft to create one for you?"},
		{Role: "user", Content: "We have some existing GIS data, but it might need to be updated for the Adopt-A-Highway program."},
		{Role: "assistant", Content: "That's common! We can work with your existing data and enhance it. How often should volunteers be required to clean their adopted segments? Most counties go with 4 times per year, but rural areas sometimes prefer twice yearly."},
	}

	decisions := map[string]any{
		"county_name":               "Orange County",
		"participating_departments": []string{"Public Works", "Environmental Services", "GIS"},
		"existing_gis_data":         "Yes, but needs updates",
		"cleanup_frequency":         "To be determined",
	}

	return chat, decisions
}
