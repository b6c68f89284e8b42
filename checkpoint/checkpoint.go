// Package checkpoint persists fit progress so long sampling runs can
// be resumed.
package checkpoint

import (
	"encoding/json"
	"time"

	"github.com/op/go-logging"

	bolt "go.etcd.io/bbolt"
)

// log is the global logging variable.
var log = logging.MustGetLogger("checkpoint")

// fits is the bucket holding all fit records.
var fits = []byte("fits")

// Record stores the progress of one fit.
type Record struct {
	// Parameters maps parameter names to their current values.
	Parameters map[string]float64 `json:"parameters"`
	// LnL is the log-likelihood of the stored point.
	LnL float64 `json:"lnL"`
	// Iter is the iteration the record was taken at.
	Iter int `json:"iter"`
	// Final marks a finished fit.
	Final bool `json:"final"`
}

// Store reads and writes the fit record of one run, throttling
// non-final saves.
type Store struct {
	db    *bolt.DB
	key   []byte
	last  time.Time
	every time.Duration
}

// NewStore creates a store for the run identified by key. Non-final
// saves more frequent than every are dropped.
func NewStore(db *bolt.DB, key []byte, every time.Duration) *Store {
	return &Store{
		db:    db,
		key:   key,
		every: every,
	}
}

// Save writes a record. Non-final records are skipped while the last
// save is recent.
func (s *Store) Save(rec *Record) error {
	if !rec.Final && time.Since(s.last) < s.every {
		return nil
	}
	// Even if saving fails we do not want to retry immediately.
	s.last = time.Now()

	data, err := json.Marshal(rec)
	if err != nil {
		log.Error("Error serializing checkpoint: ", err)
		return err
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(fits)
		if err != nil {
			return err
		}
		return b.Put(s.key, data)
	})
	if err != nil {
		log.Error("Error saving checkpoint: ", err)
	}
	return err
}

// Load returns the stored record, or nil if there is none.
func (s *Store) Load() (*Record, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(fits)
		if b == nil {
			return nil
		}
		if v := b.Get(s.key); v != nil {
			data = append(data, v...)
		}
		return nil
	})
	if err != nil || data == nil {
		return nil, err
	}

	rec := new(Record)
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, err
	}
	if len(rec.Parameters) == 0 {
		return nil, nil
	}

	if rec.Final {
		log.Noticef("Found finished fit checkpoint (iter=%v, lnL=%v)", rec.Iter, rec.LnL)
	} else {
		log.Noticef("Found unfinished fit checkpoint (iter=%v, lnL=%v)", rec.Iter, rec.LnL)
	}
	return rec, nil
}
