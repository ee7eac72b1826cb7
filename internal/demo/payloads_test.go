package demo

import (
	"strings"
	"testing"
)

func TestFlow_IsValid(t *testing.T) {
	flow := Flow()
	if err := flow.Validate(); err != nil {
		t.Fatalf("demo flow failed validation: %v", err)
	}
	if len(flow.Sections) != 4 {
		t.Errorf("Expected 4 sections, got %d", len(flow.Sections))
	}
	if flow.QuestionCount() != 12 {
		t.Errorf("Expected 12 questions, got %d", flow.QuestionCount())
	}
}

func TestFlow_ReturnsFreshCopy(t *testing.T) {
	a := Flow()
	a.Sections[0].Questions[0].Text = "changed"

	if b := Flow(); b.Sections[0].Questions[0].Text == "changed" {
		t.Error("Expected each call to return an independent value")
	}
}

func TestShowcase(t *testing.T) {
	s := Showcase()
	if len(s.Sections) != 4 {
		t.Fatalf("Expected 4 sections, got %d", len(s.Sections))
	}
	for _, sec := range s.Sections {
		if len(sec.Questions) != 4 {
			t.Errorf("Section %q: expected 4 questions, got %d", sec.Section, len(sec.Questions))
		}
	}
	if !s.ChatLikeExperience {
		t.Error("Expected chat_like_experience to be set")
	}
}

func TestSamples(t *testing.T) {
	chat, decisions := ConversationSample()
	if len(chat) != 7 || chat[0].Role != "assistant" {
		t.Errorf("Unexpected conversation sample: %d turns", len(chat))
	}
	if decisions["county_name"] != "Orange County, California" {
		t.Errorf("Unexpected county: %v", decisions["county_name"])
	}

	turns, simulated := SimulatedConversation()
	if len(turns) != 7 || turns[1].Role != "user" {
		t.Errorf("Unexpected simulated conversation: %d turns", len(turns))
	}
	if _, ok := simulated["participating_departments"].([]string); !ok {
		t.Error("Expected departments to be a list")
	}
}

func TestAdoptAHighwayTemplate(t *testing.T) {
	for _, want := range []string{"Section 1 – Program Context", "V-12: Relinquish segment", "Cleanup Cancellation Policy"} {
		if !strings.Contains(AdoptAHighwayTemplate, want) {
			t.Errorf("Expected template to contain %q", want)
		}
	}
}
