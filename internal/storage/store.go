package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	itemsBucket = []byte("items")
	metaBucket  = []byte("metadata")

	totalKey = []byte("total")
)

var ErrNotSeeded = errors.New("store has no items; run `popfeed seed` first")

type Store struct {
	db *bolt.DB
}

func NewStore(dbPath string, timeout time.Duration) (*Store, error) {
	if timeout <= 0 {
		timeout = 1 * time.Second
	}
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{itemsBucket, metaBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})

	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func itemKey(id int) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(id))
	return k
}

// SeedItems replaces the stored records with ids 0..n-1.
func (s *Store) SeedItems(n int) error {
	if n < 0 {
		return fmt.Errorf("seed count must not be negative, got %d", n)
	}
	now := time.Now().UTC()

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(itemsBucket); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		b, err := tx.CreateBucket(itemsBucket)
		if err != nil {
			return err
		}

		for id := 0; id < n; id++ {
			data, err := json.Marshal(Record{ID: id, SeededAt: now})
			if err != nil {
				return err
			}
			if err := b.Put(itemKey(id), data); err != nil {
				return err
			}
		}

		return tx.Bucket(metaBucket).Put(totalKey, []byte(strconv.Itoa(n)))
	})
}

// Count reports how many records were seeded. ErrNotSeeded is returned
// for a fresh database.
func (s *Store) Count() (int, error) {
	var total int
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(metaBucket).Get(totalKey)
		if v == nil {
			return ErrNotSeeded
		}
		n, err := strconv.Atoi(string(v))
		if err != nil {
			return fmt.Errorf("corrupt item total %q: %w", v, err)
		}
		total = n
		return nil
	})
	return total, err
}

// Range returns up to limit records starting at offset, in id order.
func (s *Store) Range(offset, limit int) ([]Record, error) {
	if offset < 0 || limit < 0 {
		return nil, fmt.Errorf("invalid range offset=%d limit=%d", offset, limit)
	}

	records := make([]Record, 0, limit)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(itemsBucket).Cursor()
		for k, v := c.Seek(itemKey(offset)); k != nil && len(records) < limit; k, v = c.Next() {
			var r Record
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("decoding record %x: %w", k, err)
			}
			records = append(records, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
