// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/giuliagiacomodonato/dcicflix/internal/recommend"
)

// Key prefixes for BadgerDB storage. Records are keyed by position so an
// iteration returns them in load order.
const (
	itemKeyPrefix  = "item:"
	eventKeyPrefix = "event:"
	metaKeyPrefix  = "meta:"
)

// archiveMeta marks a complete archive generation of one kind.
type archiveMeta struct {
	SavedAt time.Time `json:"saved_at"`
	Count   int       `json:"count"`
}

// Archive keeps the last loaded catalog and interaction log in BadgerDB.
type Archive struct {
	db *badger.DB
}

// OpenArchive opens the archive at path. An empty path opens an in-memory
// archive.
func OpenArchive(path string) (*Archive, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil // Suppress BadgerDB internal logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	return &Archive{db: db}, nil
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}

// SaveItems replaces the archived catalog.
func (a *Archive) SaveItems(ctx context.Context, items []recommend.Item) error {
	return a.replace(ctx, itemKeyPrefix, len(items), func(i int) ([]byte, error) {
		return json.Marshal(items[i])
	})
}

// SaveEvents replaces the archived interaction log.
func (a *Archive) SaveEvents(ctx context.Context, events []recommend.Event) error {
	return a.replace(ctx, eventKeyPrefix, len(events), func(i int) ([]byte, error) {
		return json.Marshal(events[i])
	})
}

// LoadItems returns the archived catalog. It implements
// recommend.CatalogStore.
func (a *Archive) LoadItems(ctx context.Context, limit int) ([]recommend.Item, error) {
	var items []recommend.Item
	err := a.scan(ctx, itemKeyPrefix, limit, func(val []byte) error {
		var it recommend.Item
		if err := json.Unmarshal(val, &it); err != nil {
			return err
		}
		items = append(items, it)
		return nil
	})
	return items, err
}

// LoadEvents returns the archived log.
func (a *Archive) LoadEvents(ctx context.Context) ([]recommend.Event, error) {
	return a.events(ctx, nil)
}

// UserEvents filters the archived log. Together with LoadEvents it
// implements recommend.InteractionStore.
func (a *Archive) UserEvents(ctx context.Context, filter recommend.EventFilter) ([]recommend.Event, error) {
	return a.events(ctx, func(ev *recommend.Event) bool {
		return ev.UserID == filter.UserID && (filter.Kind == "" || ev.Kind == filter.Kind)
	})
}

// SavedAt returns when the catalog and the log were last archived.
// Zero times mean never.
func (a *Archive) SavedAt() (items, events time.Time) {
	if m, err := a.meta(itemKeyPrefix); err == nil {
		items = m.SavedAt
	}
	if m, err := a.meta(eventKeyPrefix); err == nil {
		events = m.SavedAt
	}
	return items, events
}

func (a *Archive) events(ctx context.Context, keep func(*recommend.Event) bool) ([]recommend.Event, error) {
	var events []recommend.Event
	err := a.scan(ctx, eventKeyPrefix, 0, func(val []byte) error {
		var ev recommend.Event
		if err := json.Unmarshal(val, &ev); err != nil {
			return err
		}
		if keep == nil || keep(&ev) {
			events = append(events, ev)
		}
		return nil
	})
	return events, err
}

// replace drops the records under prefix and writes n new ones. The meta
// key is removed first and written last, so a partial write reads as empty.
func (a *Archive) replace(ctx context.Context, prefix string, n int, encode func(int) ([]byte, error)) error {
	if err := a.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(metaKey(prefix))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	}); err != nil {
		return fmt.Errorf("clear archive meta: %w", err)
	}
	if err := a.deletePrefix(prefix); err != nil {
		return fmt.Errorf("drop %s records: %w", prefix, err)
	}

	wb := a.db.NewWriteBatch()
	defer wb.Cancel()
	for i := 0; i < n; i++ {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		data, err := encode(i)
		if err != nil {
			return fmt.Errorf("marshal record %d: %w", i, err)
		}
		if err := wb.Set(recordKey(prefix, i), data); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush archive: %w", err)
	}

	meta, err := json.Marshal(archiveMeta{SavedAt: time.Now().UTC(), Count: n})
	if err != nil {
		return fmt.Errorf("marshal archive meta: %w", err)
	}
	return a.db.Update(func(txn *badger.Txn) error {
		return txn.Set(metaKey(prefix), meta)
	})
}

// scan calls fn for each record under prefix in key order, at most limit
// records when limit > 0. It returns ErrArchiveEmpty when no complete
// generation is stored.
func (a *Archive) scan(ctx context.Context, prefix string, limit int, fn func([]byte) error) error {
	if _, err := a.meta(prefix); err != nil {
		return err
	}

	return a.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		count := 0
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			if limit > 0 && count >= limit {
				break
			}
			if count%1000 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			if err := it.Item().Value(fn); err != nil {
				return fmt.Errorf("decode %s record: %w", prefix, err)
			}
			count++
		}
		return nil
	})
}

func (a *Archive) deletePrefix(prefix string) error {
	var keys [][]byte
	err := a.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil || len(keys) == 0 {
		return err
	}

	wb := a.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range keys {
		if err := wb.Delete(k); err != nil {
			return err
		}
	}
	return wb.Flush()
}

func (a *Archive) meta(prefix string) (archiveMeta, error) {
	var m archiveMeta
	err := a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(metaKey(prefix))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrArchiveEmpty
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &m)
		})
	})
	return m, err
}

func metaKey(prefix string) []byte {
	return []byte(metaKeyPrefix + prefix)
}

func recordKey(prefix string, i int) []byte {
	return []byte(fmt.Sprintf("%s%010d", prefix, i))
}
