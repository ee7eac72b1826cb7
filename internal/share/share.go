// Package share builds shareable-link descriptors for a conversation.
// Nothing is stored: the ID is derived from the history and the link page is a stub.
package share

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/lamim/reqflow/pkg/models"
)

var idPattern = regexp.MustCompile(`^share_\d{5}$`)

// namespace scopes the name-based UUIDs share IDs are derived from
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("reqflow/share"))

// Link describes a shareable conversation
type Link struct {
	ShareID      string  `json:"share_id"`
	ShareableURL string  `json:"shareable_url"`
	Title        string  `json:"title"`
	Preview      Preview `json:"conversation_preview"`
}

// Preview is the conversation as it would appear on the shared page
type Preview struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	TemplateType string            `json:"template_type"`
	CreatedAt    string            `json:"created_at"`
	Conversation []models.Exchange `json:"conversation"`
	ShareableURL string            `json:"shareable_url"`
}

// ID derives a share ID of the form share_NNNNN from the history.
// Identical histories always map to the same ID.
func ID(history []models.Exchange) string {
	data, err := json.Marshal(history)
	if err != nil {
		// []Exchange holds only strings; Marshal cannot fail
		data = []byte(fmt.Sprint(history))
	}
	u := uuid.NewSHA1(namespace, data)
	return fmt.Sprintf("share_%05d", binary.BigEndian.Uint32(u[:4])%100000)
}

// ValidateID reports whether id has the share_NNNNN form
func ValidateID(id string) error {
	if !idPattern.MatchString(id) {
		return fmt.Errorf("invalid share id %q", id)
	}
	return nil
}

// NewLink builds the link descriptor for history under baseURL
func NewLink(baseURL string, history []models.Exchange, templateType, title string, now time.Time) Link {
	if templateType == "" {
		templateType = "Unknown"
	}
	if title == "" {
		title = templateType + " Requirements"
	}
	if history == nil {
		history = []models.Exchange{}
	}

	id := ID(history)
	url := URL(baseURL, id)

	return Link{
		ShareID:      id,
		ShareableURL: url,
		Title:        title,
		Preview: Preview{
			ID:           id,
			Title:        title,
			TemplateType: templateType,
			CreatedAt:    now.UTC().Format(time.RFC3339),
			Conversation: history,
			ShareableURL: url,
		},
	}
}

// URL returns the public link for a share ID
func URL(baseURL, id string) string {
	return baseURL + "/shared/" + id
}
