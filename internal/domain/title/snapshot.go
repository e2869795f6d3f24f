package title

import (
	"maps"
	"slices"
	"time"
)

// Set is a read-only set of member ids.
type Set map[string]struct{}

// Has reports whether id is a member.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of members.
func (s Set) Len() int { return len(s) }

// Sorted returns the members in ascending order.
func (s Set) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// Entry is one canonical title and its members.
type Entry struct {
	Canonical string
	Display   string
	Seniority string
	Members   []string
}

// Snapshot is an immutable canonical-title index. Build it with a Builder;
// it must not be modified after Build.
type Snapshot struct {
	version string
	builtAt time.Time
	entries map[string]Set
	display map[string]string
}

var emptySet = Set{}

// Lookup canonicalizes t and returns its members. Unknown titles return an empty set.
// The returned set must not be modified.
func (s *Snapshot) Lookup(t string) Set {
	if s == nil {
		return emptySet
	}
	if members, ok := s.entries[Canonicalize(t)]; ok {
		return members
	}
	return emptySet
}

// Version identifies the build that produced the snapshot.
func (s *Snapshot) Version() string { return s.version }

// BuiltAt returns the build time.
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

// Len returns the number of canonical titles.
func (s *Snapshot) Len() int { return len(s.entries) }

// Entries returns all entries ordered by canonical title.
func (s *Snapshot) Entries() []Entry {
	keys := slices.Sorted(maps.Keys(s.entries))
	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		out = append(out, Entry{
			Canonical: k,
			Display:   s.display[k],
			Seniority: DetectSeniority(k),
			Members:   s.entries[k].Sorted(),
		})
	}
	return out
}

// Builder accumulates members before producing a Snapshot.
type Builder struct {
	entries map[string]Set
	display map[string]string
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{entries: make(map[string]Set), display: make(map[string]string)}
}

// Add records id under the canonical form of t. Blank titles are ignored.
func (b *Builder) Add(t, id string) {
	key := Canonicalize(t)
	if key == "" || id == "" {
		return
	}
	set, ok := b.entries[key]
	if !ok {
		set = make(Set)
		b.entries[key] = set
		b.display[key] = t
	}
	set[id] = struct{}{}
}

// Build freezes the accumulated entries. The Builder must not be reused.
func (b *Builder) Build(version string, builtAt time.Time) *Snapshot {
	s := &Snapshot{
		version: version,
		builtAt: builtAt,
		entries: b.entries,
		display: b.display,
	}
	b.entries, b.display = nil, nil
	return s
}

// FromEntries rebuilds a Snapshot from stored entries (storage hydration).
func FromEntries(version string, builtAt time.Time, entries []Entry) *Snapshot {
	b := NewBuilder()
	for _, e := range entries {
		name := e.Display
		if name == "" {
			name = e.Canonical
		}
		for _, id := range e.Members {
			b.Add(name, id)
		}
	}
	return b.Build(version, builtAt)
}
