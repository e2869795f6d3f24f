package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/OmarAli141/resumes-comparison/internal/db"
	"github.com/OmarAli141/resumes-comparison/internal/domain"
)

type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	SetMulti(ctx context.Context, items []db.KVItem, ttl time.Duration) error
}

// Options configure the cache key space and expiry.
type Options struct {
	// KeyPrefix namespaces cache keys, e.g. "resmatch:".
	KeyPrefix string
	// Model is part of the key so switching models never serves stale vectors.
	Model string
	// TTL of cached vectors; zero keeps them forever.
	TTL time.Duration
}

// CachedEmbedder memoizes vectors by model and text hash.
// Cache failures are logged and degrade to a miss; they never fail a call.
type CachedEmbedder struct {
	inner   domain.Embedder
	store   store
	prefix  string
	ttl     time.Duration
	lookups *prometheus.CounterVec
	logger  *zap.Logger
}

// New wraps inner. lookups is a counter vec labelled "result" (hit/miss) and may be nil.
func New(
	inner domain.Embedder,
	s store,
	opts Options,
	lookups *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedEmbedder {
	return &CachedEmbedder{
		inner:   inner,
		store:   s,
		prefix:  opts.KeyPrefix + "emb_cache:" + opts.Model + ":",
		ttl:     opts.TTL,
		lookups: lookups,
		logger:  logger,
	}
}

// Embed serves a hit with zero tokens, otherwise embeds and stores the vector.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	key := c.cacheKey(text)

	if vec, ok := c.lookup(ctx, key); ok {
		c.count("hit", 1)
		return domain.EmbeddingResult{Embedding: vec}, nil
	}
	c.count("miss", 1)

	res, err := c.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", err)
	}

	if err := c.store.Set(ctx, key, encodeVector(res.Embedding), c.ttl); err != nil {
		c.logger.Warn("Failed to cache embedding", zap.String("key", key), zap.Error(err))
	}
	return res, nil
}

// BatchEmbed reads all keys with one MGET and sends the distinct misses to
// the inner embedder in a single batch. Duplicate texts are embedded once.
func (c *CachedEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}

	keys := make([]string, len(texts))
	for i, text := range texts {
		keys[i] = c.cacheKey(text)
	}
	cached := c.lookupMany(ctx, keys)

	out := domain.BatchEmbeddingResult{Embeddings: make([][]float32, len(texts))}
	pending := make(map[string][]int)
	var missTexts []string
	for i, text := range texts {
		if cached[i] != nil {
			out.Embeddings[i] = cached[i]
			continue
		}
		if _, seen := pending[text]; !seen {
			missTexts = append(missTexts, text)
		}
		pending[text] = append(pending[text], i)
	}
	c.count("hit", len(texts)-countPending(pending))
	c.count("miss", countPending(pending))

	if len(missTexts) == 0 {
		return out, nil
	}

	res, err := domain.BatchEmbed(ctx, c.inner, missTexts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w", err)
	}
	if len(res.Embeddings) != len(missTexts) {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed: got %d vectors for %d texts: %w",
			len(res.Embeddings), len(missTexts), domain.ErrEmbeddingProviderError)
	}

	items := make([]db.KVItem, len(missTexts))
	for j, text := range missTexts {
		idx := pending[text]
		for _, i := range idx {
			out.Embeddings[i] = res.Embeddings[j]
		}
		items[j] = db.KVItem{Key: keys[idx[0]], Value: encodeVector(res.Embeddings[j])}
	}
	if err := c.store.SetMulti(ctx, items, c.ttl); err != nil {
		c.logger.Warn("Failed to cache embeddings", zap.Int("count", len(items)), zap.Error(err))
	}

	out.PromptTokens = res.PromptTokens
	out.TotalTokens = res.TotalTokens
	return out, nil
}

// HealthCheck forwards to the inner embedder when it supports health checks.
func (c *CachedEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := c.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

func (c *CachedEmbedder) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return c.prefix + hex.EncodeToString(sum[:])
}

func (c *CachedEmbedder) lookup(ctx context.Context, key string) ([]float32, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to read cached embedding", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return c.decode(key, data)
}

// lookupMany returns one slot per key; nil marks a miss.
func (c *CachedEmbedder) lookupMany(ctx context.Context, keys []string) [][]float32 {
	out := make([][]float32, len(keys))
	values, err := c.store.MGet(ctx, keys)
	if err != nil {
		c.logger.Warn("Failed to read cached embeddings", zap.Int("count", len(keys)), zap.Error(err))
		return out
	}
	for i, data := range values {
		if vec, ok := c.decode(keys[i], data); ok {
			out[i] = vec
		}
	}
	return out
}

func (c *CachedEmbedder) decode(key string, data []byte) ([]float32, bool) {
	if len(data) == 0 {
		return nil, false
	}
	vec, err := decodeVector(data)
	if err != nil {
		c.logger.Warn("Discarding corrupt cached embedding", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return vec, true
}

func (c *CachedEmbedder) count(result string, n int) {
	if c.lookups != nil && n > 0 {
		c.lookups.WithLabelValues(result).Add(float64(n))
	}
}

func countPending(p map[string][]int) int {
	n := 0
	for _, idx := range p {
		n += len(idx)
	}
	return n
}

// Vectors are stored as little-endian float32, the same layout FT indexes use.
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("cached vector length %d is not a multiple of 4", len(data))
	}
	v := make([]float32, len(data)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return v, nil
}
