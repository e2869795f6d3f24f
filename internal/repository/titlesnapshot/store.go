// Package titlesnapshot persists title index snapshots in a bbolt file.
//
// Every Save writes a new generation bucket and moves the current pointer in the
// same transaction, so a reader opening the file sees either the previous or the
// new snapshot, never a partial build.
package titlesnapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/OmarAli141/resumes-comparison/internal/domain"
	"github.com/OmarAli141/resumes-comparison/internal/domain/title"
)

var (
	bucketMeta        = []byte("meta")
	bucketGenerations = []byte("generations")
	bucketEntries     = []byte("entries")

	keyCurrent = []byte("current")
	keyInfo    = []byte("info")
)

// DefaultKeep is the number of generations retained after a Save.
const DefaultKeep = 3

type info struct {
	Version string    `json:"version"`
	BuiltAt time.Time `json:"built_at"`
	Count   int       `json:"count"`
}

type entryRecord struct {
	Display   string   `json:"display"`
	Seniority string   `json:"seniority"`
	Members   []string `json:"members"`
}

// Store reads and writes title snapshots.
type Store struct {
	db   *bbolt.DB
	keep int
}

// Open opens (or creates) the snapshot file at path.
func Open(path string, keep int) (*Store, error) {
	if keep < 1 {
		keep = DefaultKeep
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open title snapshot %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketMeta); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketGenerations)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init title snapshot buckets: %w", err)
	}

	return &Store{db: db, keep: keep}, nil
}

// Save writes snap as a new generation and makes it current.
func (s *Store) Save(ctx context.Context, snap *title.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("nil snapshot: %w", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		gens := tx.Bucket(bucketGenerations)
		seq, err := gens.NextSequence()
		if err != nil {
			return fmt.Errorf("next generation: %w", err)
		}
		name := generationKey(seq)

		gen, err := gens.CreateBucket(name)
		if err != nil {
			return fmt.Errorf("create generation %s: %w", name, err)
		}
		entries, err := gen.CreateBucket(bucketEntries)
		if err != nil {
			return fmt.Errorf("create entries bucket: %w", err)
		}

		for _, e := range snap.Entries() {
			data, err := json.Marshal(entryRecord{Display: e.Display, Seniority: e.Seniority, Members: e.Members})
			if err != nil {
				return fmt.Errorf("marshal entry %q: %w", e.Canonical, err)
			}
			if err := entries.Put([]byte(e.Canonical), data); err != nil {
				return fmt.Errorf("put entry %q: %w", e.Canonical, err)
			}
		}

		meta, err := json.Marshal(info{Version: snap.Version(), BuiltAt: snap.BuiltAt(), Count: snap.Len()})
		if err != nil {
			return fmt.Errorf("marshal info: %w", err)
		}
		if err := gen.Put(keyInfo, meta); err != nil {
			return fmt.Errorf("put info: %w", err)
		}

		if err := tx.Bucket(bucketMeta).Put(keyCurrent, name); err != nil {
			return fmt.Errorf("swap current: %w", err)
		}

		return s.prune(gens)
	})
}

// LoadCurrent reads the current snapshot. Returns domain.ErrNotFound when nothing was saved yet.
func (s *Store) LoadCurrent(ctx context.Context) (*title.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var snap *title.Snapshot
	err := s.db.View(func(tx *bbolt.Tx) error {
		name := tx.Bucket(bucketMeta).Get(keyCurrent)
		if name == nil {
			return fmt.Errorf("title snapshot: %w", domain.ErrNotFound)
		}
		gen := tx.Bucket(bucketGenerations).Bucket(name)
		if gen == nil {
			return fmt.Errorf("title snapshot generation %s missing: %w", name, domain.ErrNotFound)
		}

		var meta info
		if err := json.Unmarshal(gen.Get(keyInfo), &meta); err != nil {
			return fmt.Errorf("decode info: %w", err)
		}

		list := make([]title.Entry, 0, meta.Count)
		entries := gen.Bucket(bucketEntries)
		err := entries.ForEach(func(k, v []byte) error {
			var rec entryRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decode entry %q: %w", k, err)
			}
			list = append(list, title.Entry{
				Canonical: string(k),
				Display:   rec.Display,
				Seniority: rec.Seniority,
				Members:   rec.Members,
			})
			return nil
		})
		if err != nil {
			return err
		}

		snap = title.FromEntries(meta.Version, meta.BuiltAt, list)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Generations returns the number of stored generations.
func (s *Store) Generations() (int, error) {
	n := 0
	err := s.db.View(func(tx *bbolt.Tx) error {
		n = countChildren(tx.Bucket(bucketGenerations))
		return nil
	})
	return n, err
}

// Close releases the file lock.
func (s *Store) Close() error {
	return s.db.Close()
}

// prune drops the oldest generations beyond keep. Keys sort by sequence.
func (s *Store) prune(gens *bbolt.Bucket) error {
	var names [][]byte
	c := gens.Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		if v == nil {
			names = append(names, append([]byte(nil), k...))
		}
	}

	for len(names) > s.keep {
		if err := gens.DeleteBucket(names[0]); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
			return fmt.Errorf("prune generation %s: %w", names[0], err)
		}
		names = names[1:]
	}
	return nil
}

func countChildren(b *bbolt.Bucket) int {
	n := 0
	c := b.Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		if v == nil {
			n++
		}
	}
	return n
}

func generationKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("%016d", seq))
}
