package title

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_Lookup(t *testing.T) {
	b := NewBuilder()
	b.Add("Senior Accountant", "r1")
	b.Add("Sr. Accountant", "r2")
	b.Add("Data Analyst", "r3")
	b.Add("", "r4")
	s := b.Build("v1", time.Unix(0, 0))

	got := s.Lookup("SR ACCOUNTANT")
	assert.Equal(t, []string{"r1", "r2"}, got.Sorted())
	assert.True(t, s.Lookup("data analyst").Has("r3"))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "v1", s.Version())
}

func TestSnapshot_UnknownTitle(t *testing.T) {
	s := NewBuilder().Build("v1", time.Now())
	got := s.Lookup("Chief Happiness Officer")
	assert.Equal(t, 0, got.Len())
	assert.False(t, got.Has("r1"))
}

func TestSnapshot_NilLookup(t *testing.T) {
	var s *Snapshot
	assert.Equal(t, 0, s.Lookup("anything").Len())
}

func TestSnapshot_EntriesRoundTrip(t *testing.T) {
	b := NewBuilder()
	b.Add("Senior Accountant", "r1")
	b.Add("Financial Analyst", "r2")
	b.Add("Financial Analyst", "r3")
	orig := b.Build("v7", time.Unix(100, 0))

	entries := orig.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "financial analyst", entries[0].Canonical)
	assert.Equal(t, []string{"r2", "r3"}, entries[0].Members)
	assert.Equal(t, SenioritySenior, entries[1].Seniority)

	restored := FromEntries("v7", orig.BuiltAt(), entries)
	assert.Equal(t, orig.Lookup("financial analyst").Sorted(), restored.Lookup("Financial Analyst").Sorted())
	assert.Equal(t, orig.Len(), restored.Len())
}
