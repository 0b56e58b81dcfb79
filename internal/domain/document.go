package domain

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Title and content limits enforced before any network call.
const (
	MinTitleLen   = 3
	MaxTitleLen   = 100
	MinContentLen = 10
)

// Document is a stored document as the server reports it.
// The id is server-assigned; the client never derives one locally.
type Document struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// Preview returns the content truncated to max runes with an ellipsis.
func (d Document) Preview(max int) string {
	r := []rune(d.Content)
	if len(r) <= max {
		return d.Content
	}
	return string(r[:max]) + "..."
}

// DocumentInput is the client-side form state submitted on create/update.
type DocumentInput struct {
	Title    string            `json:"title"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Validate checks the input field by field. The returned error is a
// validation.Errors map keyed by field name, so a form can render each
// failure inline. A failing input must never reach the network layer.
func (in DocumentInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title,
			validation.Required.Error("title is required"),
			validation.RuneLength(MinTitleLen, MaxTitleLen),
		),
		validation.Field(&in.Content,
			validation.Required.Error("content is required"),
			validation.RuneLength(MinContentLen, 0),
		),
	)
}

// Normalized returns a copy with blank-key and blank-value metadata pairs
// dropped. Pairs build up in form state as the user adds rows; empty ones
// are discarded silently rather than rejected.
func (in DocumentInput) Normalized() DocumentInput {
	if len(in.Metadata) == 0 {
		return in
	}
	clean := make(map[string]string, len(in.Metadata))
	for k, v := range in.Metadata {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		clean[k] = v
	}
	if len(clean) == 0 {
		clean = nil
	}
	return DocumentInput{Title: in.Title, Content: in.Content, Metadata: clean}
}

// IsValidationError reports whether err came from DocumentInput.Validate.
func IsValidationError(err error) bool {
	_, ok := err.(validation.Errors)
	return ok
}
