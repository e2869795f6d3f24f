package match

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/OmarAli141/resumes-comparison/internal/domain"
	"github.com/OmarAli141/resumes-comparison/internal/domain/document"
	domexp "github.com/OmarAli141/resumes-comparison/internal/domain/expansion"
	"github.com/OmarAli141/resumes-comparison/internal/domain/match/candidate"
	"github.com/OmarAli141/resumes-comparison/internal/domain/search/filter"
	"github.com/OmarAli141/resumes-comparison/internal/domain/title"
	"github.com/OmarAli141/resumes-comparison/internal/repository/vectorindex"
)

// fakeEmbedder maps every text to a one-dimensional vector holding its variant
// position, so fakeIndex can answer per variant.
type fakeEmbedder struct {
	mu    sync.Mutex
	ids   map[string]int
	errs  map[string]error
	block map[string]bool
	// wide texts embed to two dimensions instead of one
	wide  map[string]bool
	calls int
}

func newFakeEmbedder(variants ...string) *fakeEmbedder {
	f := &fakeEmbedder{
		ids: map[string]int{}, errs: map[string]error{}, block: map[string]bool{}, wide: map[string]bool{},
	}
	for i, v := range variants {
		f.ids[v] = i
	}
	return f
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	f.mu.Lock()
	f.calls++
	id, ok := f.ids[text]
	err := f.errs[text]
	block := f.block[text]
	wide := f.wide[text]
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return domain.EmbeddingResult{}, ctx.Err()
	}
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	if !ok {
		return domain.EmbeddingResult{}, fmt.Errorf("unexpected text %q", text)
	}
	if wide {
		return domain.EmbeddingResult{Embedding: []float32{float32(id), 0}}, nil
	}
	return domain.EmbeddingResult{Embedding: []float32{float32(id)}}, nil
}

func (f *fakeEmbedder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// gaugeEmbedder records the highest number of concurrent Embed calls.
type gaugeEmbedder struct {
	inner    domain.Embedder
	inflight atomic.Int32
	peak     atomic.Int32
}

func (g *gaugeEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	n := g.inflight.Add(1)
	defer g.inflight.Add(-1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	return g.inner.Embed(ctx, text)
}

// fakeIndex returns hits[variant] for the variant encoded in the query vector.
type fakeIndex struct {
	mu    sync.Mutex
	hits  map[int][]candidate.Candidate
	err   error
	wait  bool
	// dim > 0 rejects vectors of another length, like vectorindex.Repo
	dim   int
	ks    []int
	calls int
}

func (f *fakeIndex) Query(
	ctx context.Context, c vectorindex.Collection, vector []float32, k int, _ filter.Expression,
) ([]candidate.Candidate, error) {
	f.mu.Lock()
	f.calls++
	f.ks = append(f.ks, k)
	wait := f.wait
	f.mu.Unlock()

	if f.dim > 0 && len(vector) != f.dim {
		return nil, fmt.Errorf("query vector: got %d, want %d: %w", len(vector), f.dim, domain.ErrVectorDimMismatch)
	}

	if wait {
		<-ctx.Done()
		return nil, domain.NewBackendUnavailable(domain.BackendVectorIndex, ctx.Err())
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if c.Name != vectorindex.Resumes.Name {
		return nil, fmt.Errorf("unexpected collection %s", c.Name)
	}
	if f.err != nil {
		return nil, f.err
	}
	src := f.hits[int(vector[0])]
	out := make([]candidate.Candidate, 0, min(k, len(src)))
	for i := 0; i < len(src) && i < k; i++ {
		out = append(out, src[i])
	}
	return out, nil
}

type staticExpander struct {
	extras []string
}

func (s staticExpander) Expand(_ context.Context, jd document.Document) domexp.Expansion {
	exp, err := domexp.New(jd.Text(), s.extras, 0)
	if err != nil {
		return domexp.Single(jd.Text())
	}
	return exp
}

// emptyExpander misbehaves by returning no variants at all.
type emptyExpander struct{}

func (emptyExpander) Expand(context.Context, document.Document) domexp.Expansion {
	return domexp.Expansion{}
}

type fakeTitles struct {
	set title.Set
	err error
	got string
}

func (f *fakeTitles) Lookup(_ context.Context, t string) (title.Set, error) {
	f.got = t
	return f.set, f.err
}

func hit(id string, distance float64) candidate.Candidate {
	return candidate.Candidate{ID: id, Distance: distance, Metadata: map[string]string{"category": "ACCOUNTANT"}}
}

func jd(t *testing.T, text, jobTitle string) document.Document {
	t.Helper()
	meta := map[string]string{}
	if jobTitle != "" {
		meta[document.MetaTitle] = jobTitle
	}
	d, err := document.New("jd-1", text, meta)
	require.NoError(t, err)
	return d
}

func newEngine(emb domain.Embedder, idx VectorIndex, opts ...Option) *Engine {
	return New(emb, idx, zap.NewNop(), opts...)
}
