package expansion

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/OmarAli141/resumes-comparison/internal/domain/document"
	"github.com/OmarAli141/resumes-comparison/internal/domain/jobdesc"
	"github.com/OmarAli141/resumes-comparison/internal/usecase/titles"
)

type fnStrategy struct {
	name string
	fn   func(ctx context.Context, jd document.Document) ([]string, error)
}

func (f fnStrategy) Name() string { return f.name }

func (f fnStrategy) Variants(ctx context.Context, jd document.Document) ([]string, error) {
	return f.fn(ctx, jd)
}

func static(name string, vs ...string) fnStrategy {
	return fnStrategy{name: name, fn: func(context.Context, document.Document) ([]string, error) { return vs, nil }}
}

func failing(name string) fnStrategy {
	return fnStrategy{name: name, fn: func(context.Context, document.Document) ([]string, error) {
		return nil, errors.New("provider down")
	}}
}

type mockSimilar struct {
	related []titles.Related
	err     error
	title   string
}

func (m *mockSimilar) Similar(_ context.Context, t string, _ float64, _ int) ([]titles.Related, error) {
	m.title = t
	return m.related, m.err
}

type mockParaphraser struct {
	out  []string
	err  error
	text string
	n    int
}

func (m *mockParaphraser) Paraphrase(_ context.Context, text string, n int) ([]string, error) {
	m.text, m.n = text, n
	return m.out, m.err
}

func jdDoc(t *testing.T, title, text string) document.Document {
	t.Helper()
	meta := map[string]string{}
	if title != "" {
		meta[document.MetaTitle] = title
	}
	d, err := document.New("jd-1", text, meta)
	require.NoError(t, err)
	return d
}

func TestExpand_OriginalFirst(t *testing.T) {
	svc := New(0, zap.NewNop(), static("a", "variant one", "variant two"))
	exp := svc.Expand(context.Background(), jdDoc(t, "", "original text"))

	assert.Equal(t, []string{"original text", "variant one", "variant two"}, exp.Variants())
}

func TestExpand_FailingStrategyDegrades(t *testing.T) {
	svc := New(0, zap.NewNop(), failing("broken"), static("ok", "extra"))
	exp := svc.Expand(context.Background(), jdDoc(t, "", "original text"))

	assert.Equal(t, []string{"original text", "extra"}, exp.Variants())
}

func TestExpand_AllFailingStillHasOriginal(t *testing.T) {
	svc := New(0, zap.NewNop(), failing("a"), failing("b"))
	exp := svc.Expand(context.Background(), jdDoc(t, "", "original text"))

	assert.Equal(t, []string{"original text"}, exp.Variants())
}

func TestExpand_DedupAndCap(t *testing.T) {
	svc := New(3, zap.NewNop(),
		static("a", "Original  TEXT", "one", "ONE", "", "two"),
		static("b", "three"),
	)
	exp := svc.Expand(context.Background(), jdDoc(t, "", "original text"))

	assert.Equal(t, []string{"original text", "one", "two"}, exp.Variants())
}

func TestExpand_Idempotent(t *testing.T) {
	svc := New(0, zap.NewNop(), static("a", "x", "y"))
	jd := jdDoc(t, "", "original text")

	assert.Equal(t, svc.Expand(context.Background(), jd).Variants(), svc.Expand(context.Background(), jd).Variants())
}

func TestSections(t *testing.T) {
	jd := jobdesc.FromStructured("jd-1", "Senior Accountant", map[string]any{
		"Required Skills":       []any{"IFRS reporting", "Excel modelling"},
		"Core Responsibilities": "Prepare the monthly close and reconcile accounts",
	})
	doc, err := jd.Document()
	require.NoError(t, err)

	vs, err := Sections{}.Variants(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Job Title: Senior Accountant",
		"Required Skills: IFRS reporting; Excel modelling",
		"Core Responsibilities: Prepare the monthly close and reconcile accounts",
	}, vs)
}

func TestSections_FreeText(t *testing.T) {
	vs, err := Sections{}.Variants(context.Background(), jdDoc(t, "", "We need a chef who loves pasta."))
	require.NoError(t, err)
	assert.Empty(t, vs)
}

func TestRelatedTitles(t *testing.T) {
	finder := &mockSimilar{related: []titles.Related{{Title: "Staff Accountant"}, {Title: "Auditor"}}}
	st := NewRelatedTitles(finder, 0, 0)

	vs, err := st.Variants(context.Background(), jdDoc(t, "Senior Accountant", "text"))
	require.NoError(t, err)
	assert.Equal(t, "Senior Accountant", finder.title)
	assert.Equal(t, []string{"Senior Accountant Staff Accountant Auditor"}, vs)
}

func TestRelatedTitles_NoTitleOrNoMatches(t *testing.T) {
	finder := &mockSimilar{}
	st := NewRelatedTitles(finder, 0.65, 10)

	vs, err := st.Variants(context.Background(), jdDoc(t, "", "text"))
	require.NoError(t, err)
	assert.Empty(t, vs)
	assert.Empty(t, finder.title, "finder must not be called without a title")

	vs, err = st.Variants(context.Background(), jdDoc(t, "Chef", "text"))
	require.NoError(t, err)
	assert.Empty(t, vs)
}

func TestRelatedTitles_Error(t *testing.T) {
	st := NewRelatedTitles(&mockSimilar{err: errors.New("index down")}, 0.65, 10)
	_, err := st.Variants(context.Background(), jdDoc(t, "Chef", "text"))
	require.Error(t, err)
}

func TestParaphrase(t *testing.T) {
	p := &mockParaphraser{out: []string{"a", "b"}}
	st := NewParaphrase(p, 2)

	vs, err := st.Variants(context.Background(), jdDoc(t, "", "original text"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, vs)
	assert.Equal(t, 2, p.n)
	assert.Equal(t, "original text", p.text)
}

func TestParaphrase_TruncatesInput(t *testing.T) {
	p := &mockParaphraser{}
	st := NewParaphrase(p, 1)

	_, err := st.Variants(context.Background(), jdDoc(t, "", strings.Repeat("x", maxParaphraseInput+100)))
	require.NoError(t, err)
	assert.Len(t, p.text, maxParaphraseInput)
}

func TestParaphrase_Disabled(t *testing.T) {
	p := &mockParaphraser{}
	vs, err := NewParaphrase(p, 0).Variants(context.Background(), jdDoc(t, "", "text"))
	require.NoError(t, err)
	assert.Nil(t, vs)
	assert.Empty(t, p.text)
}

func TestSections_DropsShortChunks(t *testing.T) {
	doc := jdDoc(t, "", "Job Title: Chef\nLocation: Rome, Italy and nearby towns")

	vs, err := Sections{}.Variants(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"Location: Rome, Italy and nearby towns"}, vs)
}
