package document

import (
	"fmt"
	"maps"
	"regexp"
	"strings"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// MaxTextSize is the maximum document text size in bytes.
const MaxTextSize = 163840 // 160KB

// Well-known metadata keys.
const (
	MetaTitle     = "title"
	MetaCategory  = "category"
	MetaFieldType = "field_type"
	MetaSeniority = "seniority"
	MetaSource    = "source"
)

// Document is a resume or job description (immutable value object).
type Document struct {
	id       string
	text     string
	metadata map[string]string
}

// New validates and creates a Document.
// ID: ^[a-zA-Z0-9_.-]+$, 1-256 chars. Text: non-blank, max 160KB.
func New(id, text string, metadata map[string]string) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	if len(id) > 256 {
		return Document{}, fmt.Errorf("document ID too long (max 256)")
	}
	if !idRegex.MatchString(id) {
		return Document{}, fmt.Errorf("document ID must be alphanumeric with dots, underscores and hyphens")
	}
	if strings.TrimSpace(text) == "" {
		return Document{}, fmt.Errorf("text is required")
	}
	if len(text) > MaxTextSize {
		return Document{}, fmt.Errorf("text too large (max %d bytes)", MaxTextSize)
	}

	return Document{id: id, text: text, metadata: maps.Clone(metadata)}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(id, text string, metadata map[string]string) Document {
	return Document{id: id, text: text, metadata: metadata}
}

// ID returns the document identifier.
func (d Document) ID() string { return d.id }

// Text returns the document text.
func (d Document) Text() string { return d.text }

// Metadata returns a copy of the metadata.
func (d Document) Metadata() map[string]string { return maps.Clone(d.metadata) }

// Meta returns a single metadata value ("" when absent).
func (d Document) Meta(key string) string { return d.metadata[key] }

// Title returns the job title carried in metadata, if any.
func (d Document) Title() string { return d.metadata[MetaTitle] }
