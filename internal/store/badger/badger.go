// Package badger is an embedded store backend on Badger DB.
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/store"
	"github.com/dgraph-io/badger/v4"
)

// Key prefixes for the persisted graph
const (
	prefixEntity   = "e:" // e:<id> -> JSON record
	prefixChildren = "c:" // c:<parent id> -> JSON list of child ids
	keyBookmarks   = "o:bookmarks"
	keyFavorites   = "o:favorites"
)

// Store is the record graph backed by Badger DB.
type Store struct {
	db *badger.DB
}

var _ store.Backend = (*Store)(nil)

// Open opens or creates a store at the given path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", path, err)
	}

	return &Store{db: db}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Name() string { return "badger" }

// Load reads the graph in a single read transaction.
func (s *Store) Load(_ context.Context) (*store.Records, error) {
	snap := store.Snapshot{Children: make(map[string][]string)}

	err := s.db.View(func(txn *badger.Txn) error {
		err := iteratePrefix(txn, prefixEntity, func(_ string, val []byte) error {
			var rec domain.Record
			if err := json.Unmarshal(val, &rec); err != nil {
				return err
			}
			snap.Records = append(snap.Records, rec)
			return nil
		})
		if err != nil {
			return err
		}

		err = iteratePrefix(txn, prefixChildren, func(parent string, val []byte) error {
			var ids []string
			if err := json.Unmarshal(val, &ids); err != nil {
				return err
			}
			snap.Children[parent] = ids
			return nil
		})
		if err != nil {
			return err
		}

		if snap.Bookmarks, err = getList(txn, keyBookmarks); err != nil {
			return err
		}
		snap.Favorites, err = getList(txn, keyFavorites)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	return store.FromSnapshot(snap), nil
}

// Save writes the graph in a single read-write transaction.
func (s *Store) Save(_ context.Context, r *store.Records) error {
	snap := r.Snapshot()

	return s.db.Update(func(txn *badger.Txn) error {
		for _, id := range r.Removed() {
			if err := txn.Delete([]byte(prefixEntity + id)); err != nil {
				return err
			}
			if err := txn.Delete([]byte(prefixChildren + id)); err != nil {
				return err
			}
		}

		for _, rec := range snap.Records {
			if err := setJSON(txn, prefixEntity+rec.ID, rec); err != nil {
				return err
			}
		}

		for parent, ids := range snap.Children {
			key := []byte(prefixChildren + parent)
			if len(ids) == 0 {
				if err := txn.Delete(key); err != nil {
					return err
				}
				continue
			}
			if err := setJSON(txn, string(key), ids); err != nil {
				return err
			}
		}

		if err := setJSON(txn, keyBookmarks, snap.Bookmarks); err != nil {
			return err
		}
		return setJSON(txn, keyFavorites, snap.Favorites)
	})
}

func iteratePrefix(txn *badger.Txn, prefix string, fn func(suffix string, val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true
	it := txn.NewIterator(opts)
	defer it.Close()

	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		item := it.Item()
		suffix := string(item.Key()[len(p):])
		if err := item.Value(func(val []byte) error { return fn(suffix, val) }); err != nil {
			return fmt.Errorf("decode %s%s: %w", prefix, suffix, err)
		}
	}
	return nil
}

func getList(txn *badger.Txn, key string) ([]string, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var ids []string
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &ids)
	})
	return ids, err
}

func setJSON(txn *badger.Txn, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set([]byte(key), data)
}
