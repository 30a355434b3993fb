package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Klingon-tech/klingnet-seed/internal/storage"
)

// Status is the lifecycle of an import.
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Record is the journal entry for one import request. It never holds the
// phrase or the password.
type Record struct {
	ID          string    `json:"id"`
	Name        string    `json:"name,omitempty"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	Indexes     []uint32  `json:"indexes"`
	Addresses   []string  `json:"addresses,omitempty"`
	Status      Status    `json:"status"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

// Journal key layout, under the journal prefix:
//
//	r/<id>                  -> JSON record
//	t/<created unix nano>/<id> -> id (creation order index)
var (
	recordPrefix = []byte("r/")
	orderPrefix  = []byte("t/")
)

// JournalPrefix namespaces the journal inside a shared DB.
var JournalPrefix = []byte("imp/")

// Journal persists import records.
type Journal struct {
	db *storage.PrefixDB
	mu sync.Mutex
}

// NewJournal stores records in db under JournalPrefix.
func NewJournal(db storage.DB) *Journal {
	return &Journal{db: storage.NewPrefixDB(db, JournalPrefix)}
}

func recordKey(id string) []byte {
	return append(append([]byte{}, recordPrefix...), id...)
}

func orderKey(rec *Record) []byte {
	return []byte(fmt.Sprintf("%s%020d/%s", orderPrefix, rec.CreatedAt.UnixNano(), rec.ID))
}

// Put writes rec, replacing any record with the same ID.
func (j *Journal) Put(rec *Record) error {
	if rec.ID == "" {
		return errors.New("journal: record id is empty")
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	return j.put(rec)
}

func (j *Journal) put(rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	b := j.db.NewBatch()
	if err := b.Put(recordKey(rec.ID), data); err != nil {
		return err
	}
	if err := b.Put(orderKey(rec), []byte(rec.ID)); err != nil {
		return err
	}
	if err := b.Commit(); err != nil {
		return fmt.Errorf("write record %s: %w", rec.ID, err)
	}
	return nil
}

// Begin writes rec unless a pending or done record already holds its ID.
// In that case nothing is written and the existing record is returned with
// ErrDuplicateRequest. A failed record may be retried.
func (j *Journal) Begin(rec *Record) (*Record, error) {
	if rec.ID == "" {
		return nil, errors.New("journal: record id is empty")
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	prev, err := j.Get(rec.ID)
	switch {
	case err == nil && prev.Status != StatusFailed:
		return prev, fmt.Errorf("%w: %s is %s", ErrDuplicateRequest, rec.ID, prev.Status)
	case err != nil && !errors.Is(err, ErrRecordNotFound):
		return nil, err
	}
	return nil, j.put(rec)
}

// Get returns the record with the given ID.
func (j *Journal) Get(id string) (*Record, error) {
	data, err := j.db.Get(recordKey(id))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("read record %s: %w", id, err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse record %s: %w", id, err)
	}
	return &rec, nil
}

// List returns every record, oldest first.
func (j *Journal) List() ([]*Record, error) {
	var ids []string
	err := j.db.ForEach(orderPrefix, func(_, value []byte) error {
		ids = append(ids, string(value))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan journal: %w", err)
	}

	out := make([]*Record, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		rec, err := j.Get(id)
		if errors.Is(err, ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].CreatedAt.Before(out[b].CreatedAt)
	})
	return out, nil
}
