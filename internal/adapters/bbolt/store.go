// Package bbolt implements ports.FileAccess over a bbolt database (embedded
// B+ tree). It lets a host ship the preset documents as a single asset file.
// Each data set gets its own top-level bucket holding file name -> document
// bytes, so several catalog versions can live in one database. Writes are
// transactional: a crash mid-import cannot corrupt previously committed sets.
package bbolt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/corey/osmnames/internal/ports"
)

// DefaultSet is the bucket used when no data set name is given.
const DefaultSet = "default"

// ErrSetNotFound is returned when a data set bucket does not exist.
var ErrSetNotFound = errors.New("data set not found")

// Store is a bbolt-backed asset database.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path for reading
// and writing.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenReadOnly opens an existing database without taking the write lock, so
// many readers can share one asset file.
func OpenReadOnly(path string) (*Store, error) {
	db, err := bolt.Open(path, 0400, &bolt.Options{Timeout: 1 * time.Second, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

func setName(set string) []byte {
	if set == "" {
		set = DefaultSet
	}
	return []byte(set)
}

// PutAll stores several documents in a data set in one transaction,
// replacing earlier versions of the same names.
func (s *Store) PutAll(set string, docs map[string][]byte) error {
	return s.write(set, docs, false)
}

// ReplaceSet swaps the whole content of a data set for docs in one
// transaction. Documents absent from docs are gone afterwards; if the write
// fails the previous content is kept.
func (s *Store) ReplaceSet(set string, docs map[string][]byte) error {
	return s.write(set, docs, true)
}

func (s *Store) write(set string, docs map[string][]byte, replace bool) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		name := setName(set)
		if replace {
			if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return err
			}
		}
		b, err := tx.CreateBucketIfNotExists(name)
		if err != nil {
			return err
		}
		for doc, data := range docs {
			if err := b.Put([]byte(doc), data); err != nil {
				return fmt.Errorf("put %s: %w", doc, err)
			}
		}
		return nil
	})
}

// Names lists the documents of a data set in key order.
func (s *Store) Names(set string) ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(setName(set))
		if b == nil {
			return fmt.Errorf("%w: %s", ErrSetNotFound, setName(set))
		}
		return b.ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

// Sets lists the data sets in the database.
func (s *Store) Sets() ([]string, error) {
	var sets []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			sets = append(sets, string(name))
			return nil
		})
	})
	return sets, err
}

// Access returns a ports.FileAccess view of one data set.
func (s *Store) Access(set string) *Access {
	return &Access{db: s.db, set: setName(set)}
}

// Access serves the documents of one data set.
type Access struct {
	db  *bolt.DB
	set []byte
}

var _ ports.FileAccess = (*Access)(nil)

// get copies a value out of the transaction (bbolt slices are only valid
// within tx). A nil result means absent.
func (a *Access) get(name string) ([]byte, error) {
	var data []byte
	err := a.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(a.set)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(name)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	return data, err
}

// Exists reports whether name is stored in the data set.
func (a *Access) Exists(_ context.Context, name string) (bool, error) {
	data, err := a.get(name)
	if err != nil {
		return false, fmt.Errorf("bbolt get %s: %w", name, err)
	}
	return data != nil, nil
}

// Open returns the stored document.
func (a *Access) Open(_ context.Context, name string) (io.ReadCloser, error) {
	data, err := a.get(name)
	if err != nil {
		return nil, fmt.Errorf("bbolt get %s: %w", name, err)
	}
	if data == nil {
		return nil, fmt.Errorf("open %s in set %s: %w", name, a.set, ports.ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
