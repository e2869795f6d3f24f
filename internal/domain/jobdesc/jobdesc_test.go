package jobdesc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OmarAli141/resumes-comparison/internal/domain/document"
)

func sampleModel() map[string]any {
	return map[string]any{
		"Required Skills":       []any{"Excel", "GAAP", " "},
		"Core Responsibilities": "• Prepare monthly close\r\n\r\n• Reconcile accounts",
		"Location":              "N/A",
		"Benefits":              map[string]any{"health": "full", "pto": "20 days"},
		"Education":             nil,
	}
}

func TestFromStructured_SectionOrder(t *testing.T) {
	jd := FromStructured("jd_1", "Senior Accountant", sampleModel())

	labels := make([]string, 0, len(jd.Sections))
	for _, s := range jd.Sections {
		labels = append(labels, s.Label)
	}
	assert.Equal(t, []string{"Job Title", "Required Skills", "Core Responsibilities", "Benefits"}, labels)
	assert.Equal(t, "Excel; GAAP", jd.Sections[1].Text)
	assert.Equal(t, "- Prepare monthly close\n- Reconcile accounts", jd.Sections[2].Text)
	assert.Equal(t, "health: full; pto: 20 days", jd.Sections[3].Text)
}

func TestDocument(t *testing.T) {
	jd := FromStructured("jd_1", "Senior Accountant", sampleModel())
	doc, err := jd.Document()
	require.NoError(t, err)
	assert.Equal(t, "jd_1", doc.ID())
	assert.Equal(t, "Senior Accountant", doc.Meta(document.MetaTitle))
	assert.Equal(t, "senior", doc.Meta(document.MetaSeniority))
	assert.True(t, strings.HasPrefix(doc.Text(), "Job Title: Senior Accountant\nRequired Skills: Excel; GAAP"))
}

func TestDocument_InvalidID(t *testing.T) {
	jd := FromStructured("bad id", "Accountant", nil)
	_, err := jd.Document()
	assert.Error(t, err)
}

func TestChunks_DropsShort(t *testing.T) {
	jd := JobDescription{Sections: []Section{
		{Label: "Job Title", Text: "Clerk"},
		{Label: "Required Skills", Text: "Excel, bookkeeping, reconciliations"},
	}}
	assert.Equal(t, []string{"Required Skills: Excel, bookkeeping, reconciliations"}, jd.Chunks())
}

func TestChunks_SplitsLongSections(t *testing.T) {
	sentence := strings.Repeat("x", 95) + "."
	long := strings.TrimSpace(strings.Repeat(sentence+" ", 15))
	jd := JobDescription{Sections: []Section{{Label: "Core Responsibilities", Text: long}}}

	chunks := jd.Chunks()
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 900)
		assert.Greater(t, len(c), 25)
	}
	assert.Equal(t, len("Core Responsibilities: "+long), len(strings.Join(chunks, " ")))
}

func TestCleanValue_Placeholders(t *testing.T) {
	for _, v := range []any{"n/a", "None", "Not Available", "  ", nil, []any{}} {
		assert.Equal(t, "", CleanValue(v), "CleanValue(%v)", v)
	}
	assert.Equal(t, "42", CleanValue(42))
}

func TestParseSections_RoundTrip(t *testing.T) {
	jd := FromStructured("jd-1", "Senior Accountant", map[string]any{
		"Required Skills":  []any{"IFRS", "Excel"},
		"Location":         "Remote",
		"benefits_package": "Health\nDental",
	})

	got := ParseSections(jd.Text())
	if len(got) != len(jd.Sections) {
		t.Fatalf("got %d sections, want %d: %+v", len(got), len(jd.Sections), got)
	}
	for i := range got {
		if got[i] != jd.Sections[i] {
			t.Errorf("section %d = %+v, want %+v", i, got[i], jd.Sections[i])
		}
	}
}

func TestParseSections_FreeText(t *testing.T) {
	if got := ParseSections("We are hiring an accountant.\nJoin us: great team"); got != nil {
		t.Errorf("expected no sections for free text, got %+v", got)
	}
}
