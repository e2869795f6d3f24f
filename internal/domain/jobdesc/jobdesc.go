// Package jobdesc models structured job descriptions and turns them into query text.
package jobdesc

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/OmarAli141/resumes-comparison/internal/domain/document"
	"github.com/OmarAli141/resumes-comparison/internal/domain/title"
)

// Chunking limits for long sections.
const (
	maxSectionLen = 1000
	maxChunkLen   = 900
	minChunkLen   = 25
)

// LabelTitle is the label of the position title section.
const LabelTitle = "Job Title"

// sectionOrder maps structured keys to labels. Keys not listed here are
// appended afterwards in key order, labeled in title case.
var sectionOrder = []struct{ key, label string }{
	{"Required Skills", "Required Skills"},
	{"Preferred Qualifications", "Preferred Qualifications"},
	{"Core Responsibilities", "Core Responsibilities"},
	{"Experience Level", "Experience Level"},
	{"Education", "Education"},
	{"Location", "Location"},
}

var (
	bullets      = regexp.MustCompile(`[•·▪►–]`)
	carriage     = regexp.MustCompile(`\r\n|\r`)
	blankLines   = regexp.MustCompile(`\n{2,}`)
	inlineSpaces = regexp.MustCompile(`[ \t]+`)
	sentenceEnd  = regexp.MustCompile(`[.;]\s+`)
)

// Section is one labeled part of a job description.
type Section struct {
	Label string
	Text  string
}

// JobDescription is a structured job description.
type JobDescription struct {
	ID            string
	PositionTitle string
	Sections      []Section
}

// FromStructured builds a job description from the extraction output: a
// position title plus a free-form map of section values (strings, lists or
// nested objects).
func FromStructured(id, positionTitle string, model map[string]any) JobDescription {
	jd := JobDescription{ID: id, PositionTitle: strings.TrimSpace(positionTitle)}

	if t := CleanValue(positionTitle); t != "" {
		jd.Sections = append(jd.Sections, Section{Label: LabelTitle, Text: t})
	}

	used := make(map[string]bool, len(sectionOrder))
	for _, s := range sectionOrder {
		used[s.key] = true
		if t := CleanValue(model[s.key]); t != "" {
			jd.Sections = append(jd.Sections, Section{Label: s.label, Text: t})
		}
	}

	for _, key := range slices.Sorted(maps.Keys(model)) {
		if used[key] {
			continue
		}
		if t := CleanValue(model[key]); t != "" {
			jd.Sections = append(jd.Sections, Section{Label: title.TitleCase(key), Text: t})
		}
	}
	return jd
}

// Text joins the labeled sections, one per line.
func (jd JobDescription) Text() string {
	lines := make([]string, 0, len(jd.Sections))
	for _, s := range jd.Sections {
		lines = append(lines, s.Label+": "+s.Text)
	}
	return strings.Join(lines, "\n")
}

// Document converts the job description into a matchable document.
func (jd JobDescription) Document() (document.Document, error) {
	meta := map[string]string{document.MetaSource: "job_descriptions"}
	if jd.PositionTitle != "" {
		meta[document.MetaTitle] = jd.PositionTitle
		meta[document.MetaSeniority] = title.DetectSeniority(jd.PositionTitle)
	}
	doc, err := document.New(jd.ID, jd.Text(), meta)
	if err != nil {
		return document.Document{}, fmt.Errorf("job description %s: %w", jd.ID, err)
	}
	return doc, nil
}

// Chunks returns the labeled sections ready for embedding. Sections longer
// than 1000 characters are split at sentence boundaries into chunks of at
// most 900 characters; chunks of 25 characters or fewer are dropped.
func (jd JobDescription) Chunks() []string {
	return ChunkSections(jd.Sections)
}

// ChunkSections applies the chunking rules of Chunks to arbitrary sections.
func ChunkSections(sections []Section) []string {
	var chunks []string
	for _, s := range sections {
		labeled := s.Label + ": " + s.Text
		if len(labeled) <= maxSectionLen {
			chunks = append(chunks, labeled)
			continue
		}

		var buf string
		for _, sentence := range splitSentences(labeled) {
			if len(buf)+len(sentence)+1 > maxChunkLen {
				if buf != "" {
					chunks = append(chunks, strings.TrimSpace(buf))
				}
				buf = sentence
				continue
			}
			if buf == "" {
				buf = sentence
			} else {
				buf = strings.TrimSpace(buf + " " + sentence)
			}
		}
		if buf != "" {
			chunks = append(chunks, strings.TrimSpace(buf))
		}
	}

	out := chunks[:0]
	for _, c := range chunks {
		if len(c) > minChunkLen {
			out = append(out, c)
		}
	}
	return out
}

// splitSentences splits after '.' or ';' followed by whitespace, keeping the punctuation.
func splitSentences(s string) []string {
	var out []string
	last := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(s, -1) {
		out = append(out, s[last:loc[0]+1])
		last = loc[1]
	}
	if last < len(s) {
		out = append(out, s[last:])
	}
	return out
}

// CleanValue normalizes a section value: lists are joined with "; ", objects
// become "key: value" pairs, bullets become dashes and whitespace is tidied.
// Placeholders such as "N/A" yield "".
func CleanValue(v any) string {
	var text string
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		text = val
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := strings.TrimSpace(fmt.Sprint(item)); item != nil && s != "" {
				parts = append(parts, s)
			}
		}
		text = strings.Join(parts, "; ")
	case []string:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := strings.TrimSpace(item); s != "" {
				parts = append(parts, s)
			}
		}
		text = strings.Join(parts, "; ")
	case map[string]any:
		parts := make([]string, 0, len(val))
		for _, k := range slices.Sorted(maps.Keys(val)) {
			if c := CleanValue(val[k]); c != "" {
				parts = append(parts, k+": "+c)
			}
		}
		text = strings.Join(parts, "; ")
	default:
		text = fmt.Sprint(val)
	}

	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "n/a", "not available", "none":
		return ""
	}

	text = bullets.ReplaceAllString(text, "-")
	text = carriage.ReplaceAllString(text, "\n")
	text = blankLines.ReplaceAllString(text, "\n")
	text = inlineSpaces.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			kept = append(kept, l)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

var sectionLine = regexp.MustCompile(`^([A-Z][\w&/()-]*(?: [A-Za-z&][\w&/()-]*){0,4}): (.+)$`)

// ParseSections recovers labeled sections from text produced by Text.
// Lines without a label continue the previous section. Text with no
// leading label yields no sections.
func ParseSections(text string) []Section {
	var out []Section
	for _, line := range strings.Split(carriage.ReplaceAllString(text, "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := sectionLine.FindStringSubmatch(line); m != nil {
			out = append(out, Section{Label: m[1], Text: strings.TrimSpace(m[2])})
			continue
		}
		if len(out) == 0 {
			return nil
		}
		out[len(out)-1].Text += "\n" + line
	}
	return out
}
