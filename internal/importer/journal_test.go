package importer

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Klingon-tech/klingnet-seed/internal/storage"
)

func TestJournal_PutGet(t *testing.T) {
	j := NewJournal(storage.NewMemory())
	rec := &Record{
		ID:        "req-1",
		Indexes:   []uint32{0, 1},
		Status:    StatusPending,
		CreatedAt: time.Unix(100, 0).UTC(),
	}
	if err := j.Put(rec); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	got, err := j.Get("req-1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Status != StatusPending || len(got.Indexes) != 2 || !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("Get() = %+v", got)
	}

	rec.Status = StatusDone
	rec.Name = "main"
	if err := j.Put(rec); err != nil {
		t.Fatalf("Put() update error: %v", err)
	}
	got, _ = j.Get("req-1")
	if got.Status != StatusDone || got.Name != "main" {
		t.Errorf("updated record = %+v", got)
	}

	list, err := j.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("List() after update = %d records, want 1", len(list))
	}
}

func TestJournal_GetMissing(t *testing.T) {
	j := NewJournal(storage.NewMemory())
	if _, err := j.Get("nope"); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("Get() error = %v, want ErrRecordNotFound", err)
	}
}

func TestJournal_EmptyID(t *testing.T) {
	j := NewJournal(storage.NewMemory())
	if err := j.Put(&Record{}); err == nil {
		t.Error("Put() with empty id should fail")
	}
}

func TestJournal_ListOrder(t *testing.T) {
	db, err := storage.NewSQLite(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("NewSQLite() error: %v", err)
	}
	defer db.Close()
	j := NewJournal(db)

	base := time.Unix(1700000000, 0).UTC()
	for i, id := range []string{"zz", "aa", "mm"} {
		err := j.Put(&Record{ID: id, Status: StatusDone, CreatedAt: base.Add(time.Duration(i) * time.Second)})
		if err != nil {
			t.Fatalf("Put(%s) error: %v", id, err)
		}
	}

	list, err := j.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	var ids []string
	for _, r := range list {
		ids = append(ids, r.ID)
	}
	if len(ids) != 3 || ids[0] != "zz" || ids[1] != "aa" || ids[2] != "mm" {
		t.Errorf("List() order = %v, want [zz aa mm]", ids)
	}
}

func TestJournal_SharedDB(t *testing.T) {
	db := storage.NewMemory()
	db.Put([]byte("other/key"), []byte("x"))

	j := NewJournal(db)
	j.Put(&Record{ID: "r", Status: StatusDone, CreatedAt: time.Now()})

	list, err := j.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("List() = %d records, want 1", len(list))
	}
	if ok, _ := db.Has([]byte("imp/r/r")); !ok {
		t.Error("record not stored under journal prefix")
	}
}
