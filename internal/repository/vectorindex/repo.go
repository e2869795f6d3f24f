// Package vectorindex stores embedded entries in Redis/Valkey hashes and
// answers k-NN queries over them.
package vectorindex

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/OmarAli141/resumes-comparison/internal/db"
	"github.com/OmarAli141/resumes-comparison/internal/domain"
	"github.com/OmarAli141/resumes-comparison/internal/domain/match/candidate"
	"github.com/OmarAli141/resumes-comparison/internal/domain/search/filter"
)

// store is the consumer interface for vector index operations (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string, deleteDocs bool) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// HNSWConfig holds HNSW index parameters. Zero values use server defaults.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Entry is one stored vector with its text and tags.
type Entry struct {
	// Key is unique within the collection, e.g. "r42:skills".
	Key     string
	Content string
	Vector  []float32
	Tags    map[string]string
}

// Repo is the Vector Index over Redis/Valkey search.
type Repo struct {
	store     store
	keyPrefix string
	vectorDim int
	hnsw      HNSWConfig
}

// New creates a vector index repository. keyPrefix namespaces every key and index.
func New(s store, keyPrefix string, vectorDim int, hnsw HNSWConfig) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix, vectorDim: vectorDim, hnsw: hnsw}
}

// IndexName returns the FT index name of a collection.
func (r *Repo) IndexName(c Collection) string {
	return r.keyPrefix + c.Name + ":idx"
}

func (r *Repo) keyspace(c Collection) string {
	return r.keyPrefix + c.Name + ":"
}

// EnsureIndex creates the collection index unless it already exists.
func (r *Repo) EnsureIndex(ctx context.Context, c Collection) error {
	name := r.IndexName(c)
	exists, err := r.store.IndexExists(ctx, name)
	if err != nil {
		return domain.NewBackendUnavailable(domain.BackendVectorIndex, fmt.Errorf("index info %s: %w", c.Name, err))
	}
	if exists {
		return nil
	}

	// categories and titles contain spaces and commas; keep "," out of the separator set
	b := db.NewIndex(name).Prefix(r.keyspace(c)).Tags(tagSeparator, c.Tags...)
	if c.Exact {
		b.Flat(FieldVector, vectorAlias, r.vectorDim)
	} else {
		b.HNSW(FieldVector, vectorAlias, r.vectorDim, r.hnsw.M, r.hnsw.EFConstruct)
	}
	def, err := b.Build()
	if err != nil {
		return fmt.Errorf("build index %s: %w", c.Name, err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return domain.NewBackendUnavailable(domain.BackendVectorIndex, fmt.Errorf("create index %s: %w", c.Name, err))
	}
	return nil
}

// Reset drops the collection index together with its entries and recreates
// it empty. Used when a collection is rebuilt from scratch.
func (r *Repo) Reset(ctx context.Context, c Collection) error {
	err := r.store.DropIndex(ctx, r.IndexName(c), true)
	if err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return domain.NewBackendUnavailable(domain.BackendVectorIndex, fmt.Errorf("drop index %s: %w", c.Name, err))
	}
	return r.EnsureIndex(ctx, c)
}

// Upsert writes entries in one pipelined round-trip, replacing fields of existing keys.
func (r *Repo) Upsert(ctx context.Context, c Collection, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, 0, len(entries))
	for _, e := range entries {
		if e.Key == "" {
			return fmt.Errorf("entry key is required: %w", domain.ErrInvalidInput)
		}
		if len(e.Vector) != r.vectorDim {
			return fmt.Errorf("entry %s: got %d, want %d: %w",
				e.Key, len(e.Vector), r.vectorDim, domain.ErrVectorDimMismatch)
		}

		fields := make(map[string]string, len(e.Tags)+2)
		maps.Copy(fields, e.Tags)
		fields[FieldContent] = e.Content
		fields[FieldVector] = vectorToBytes(e.Vector)

		items = append(items, db.HashSetItem{Key: r.keyspace(c) + e.Key, Fields: fields})
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return domain.NewBackendUnavailable(domain.BackendVectorIndex, fmt.Errorf("upsert %s: %w", c.Name, err))
	}
	return nil
}

// Query returns up to k nearest entries by ascending cosine distance.
// Ties are ordered by key so results are stable across calls.
// Every store failure is reported as BackendUnavailableError.
func (r *Repo) Query(
	ctx context.Context, c Collection, vector []float32, k int, filters filter.Expression,
) ([]candidate.Candidate, error) {
	if len(vector) != r.vectorDim {
		return nil, fmt.Errorf("query vector: got %d, want %d: %w",
			len(vector), r.vectorDim, domain.ErrVectorDimMismatch)
	}

	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.IndexName(c),
		VectorField:  vectorAlias,
		Filters:      filters,
		Vector:       vector,
		K:            k,
		ReturnFields: append(slices.Clone(c.Tags), FieldContent),
	})
	if err != nil {
		return nil, domain.NewBackendUnavailable(domain.BackendVectorIndex, fmt.Errorf("query %s: %w", c.Name, err))
	}
	if sr == nil {
		return nil, nil
	}

	entries := slices.Clone(sr.Entries)
	slices.SortStableFunc(entries, func(a, b db.SearchEntry) int {
		return cmp.Or(cmp.Compare(a.Distance, b.Distance), strings.Compare(a.Key, b.Key))
	})

	out := make([]candidate.Candidate, 0, len(entries))
	for _, e := range entries {
		out = append(out, r.toCandidate(c, e))
	}
	return out, nil
}

func (r *Repo) toCandidate(c Collection, e db.SearchEntry) candidate.Candidate {
	meta := make(map[string]string, len(e.Fields))
	var content string
	for k, v := range e.Fields {
		switch k {
		case FieldContent:
			content = v
		case FieldVector:
		default:
			meta[k] = v
		}
	}

	id := meta[c.IDField]
	if id == "" {
		id = strings.TrimPrefix(e.Key, r.keyspace(c))
	}
	return candidate.Candidate{ID: id, Distance: e.Distance, Content: content, Metadata: meta}
}

// Get loads one entry by key.
func (r *Repo) Get(ctx context.Context, c Collection, key string) (Entry, error) {
	fields, err := r.store.HGetAll(ctx, r.keyspace(c)+key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return Entry{}, fmt.Errorf("%s %s: %w", c.Name, key, domain.ErrNotFound)
		}
		return Entry{}, domain.NewBackendUnavailable(domain.BackendVectorIndex, fmt.Errorf("get %s: %w", c.Name, err))
	}

	e := Entry{Key: key, Tags: make(map[string]string, len(fields))}
	for k, v := range fields {
		switch k {
		case FieldContent:
			e.Content = v
		case FieldVector:
			e.Vector = bytesToVector(v)
		default:
			e.Tags[k] = v
		}
	}
	return e, nil
}

// Count returns the number of indexed entries in a collection.
func (r *Repo) Count(ctx context.Context, c Collection) (int, error) {
	n, err := r.store.SearchCount(ctx, r.IndexName(c), "*")
	if err != nil {
		return 0, domain.NewBackendUnavailable(domain.BackendVectorIndex, fmt.Errorf("count %s: %w", c.Name, err))
	}
	return n, nil
}

// VectorDim returns the configured embedding dimension.
func (r *Repo) VectorDim() int { return r.vectorDim }
