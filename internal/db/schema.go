package db

import (
	"errors"
	"fmt"
)

// VectorAlgorithm selects the FT vector index type.
type VectorAlgorithm string

const (
	VectorHNSW VectorAlgorithm = "HNSW"
	// VectorFlat is brute force: exact, linear in collection size.
	VectorFlat VectorAlgorithm = "FLAT"
)

// DistanceMetric used by vector fields.
type DistanceMetric string

// DistanceCosine reports distances in [0,2]; scoring assumes it.
const DistanceCosine DistanceMetric = "COSINE"

// TagField is a TAG attribute of an index.
type TagField struct {
	Name          string
	Separator     string
	CaseSensitive bool
}

// VectorField is the single FLOAT32 vector attribute of an index.
type VectorField struct {
	Name      string
	Alias     string
	Algorithm VectorAlgorithm
	Dim       int
	Distance  DistanceMetric
	// HNSW only; zero keeps the server default.
	M              int
	EFConstruction int
}

// IndexDefinition is an FT index over hashes: tag filters plus one vector.
type IndexDefinition struct {
	Name     string
	Prefixes []string
	Tags     []TagField
	Vector   VectorField
}

// Validate rejects definitions FT.CREATE would refuse or silently misread.
func (d *IndexDefinition) Validate() error {
	if d.Name == "" {
		return errors.New("index name is required")
	}
	if !IsValidIdentifier(d.Name) {
		return fmt.Errorf("index name %q contains invalid characters", d.Name)
	}
	if d.Vector.Name == "" {
		return errors.New("vector field is required")
	}
	if d.Vector.Dim <= 0 {
		return fmt.Errorf("vector field %s: DIM must be positive", d.Vector.Name)
	}
	switch d.Vector.Algorithm {
	case VectorHNSW, VectorFlat:
	default:
		return fmt.Errorf("vector field %s: unknown algorithm %q", d.Vector.Name, d.Vector.Algorithm)
	}

	seen := map[string]bool{d.Vector.Name: true}
	if d.Vector.Alias != "" {
		seen[d.Vector.Alias] = true
	}
	for _, t := range d.Tags {
		if t.Name == "" {
			return errors.New("tag field name is required")
		}
		if seen[t.Name] {
			return fmt.Errorf("duplicate field name: %s", t.Name)
		}
		seen[t.Name] = true
	}
	return nil
}

// IsValidIdentifier reports whether s matches [a-zA-Z0-9_:-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == ':', r == '-':
		default:
			return false
		}
	}
	return true
}

// IndexBuilder assembles an IndexDefinition fluently.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts a definition named name.
func NewIndex(name string) *IndexBuilder {
	return &IndexBuilder{def: IndexDefinition{Name: name}}
}

// Prefix adds key prefixes.
func (b *IndexBuilder) Prefix(prefixes ...string) *IndexBuilder {
	b.def.Prefixes = append(b.def.Prefixes, prefixes...)
	return b
}

// Tags adds case-insensitive tag fields sharing one separator.
func (b *IndexBuilder) Tags(separator string, names ...string) *IndexBuilder {
	for _, n := range names {
		b.def.Tags = append(b.def.Tags, TagField{Name: n, Separator: separator})
	}
	return b
}

// HNSW sets an approximate cosine vector field.
func (b *IndexBuilder) HNSW(name, alias string, dim, m, efConstruction int) *IndexBuilder {
	b.def.Vector = VectorField{
		Name: name, Alias: alias, Algorithm: VectorHNSW, Dim: dim, Distance: DistanceCosine,
		M: m, EFConstruction: efConstruction,
	}
	return b
}

// Flat sets an exact cosine vector field.
func (b *IndexBuilder) Flat(name, alias string, dim int) *IndexBuilder {
	b.def.Vector = VectorField{Name: name, Alias: alias, Algorithm: VectorFlat, Dim: dim, Distance: DistanceCosine}
	return b
}

// Build validates and returns the definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	def := b.def
	return &def, nil
}
