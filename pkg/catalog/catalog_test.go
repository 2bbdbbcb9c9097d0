package catalog

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUpsertInsertThenUpdate(t *testing.T) {
	db := openTestDB(t)

	rec := Record{
		DatasetID:  "songdo/environment",
		GroupID:    "songdo",
		Kind:       "environment",
		Path:       "data/송도고_환경데이터.csv",
		RowCount:   120,
		LastStatus: StatusOK,
	}
	if err := db.Upsert(rec); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := db.Get("songdo/environment")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.RowCount != 120 || got.LastStatus != StatusOK || got.LastError != nil {
		t.Errorf("after insert: %+v", got)
	}
	if got.UpdatedAt == 0 {
		t.Error("UpdatedAt not set")
	}

	// Same dataset fails on the next load.
	msg := "ec column not found"
	rec.RowCount = 0
	rec.LastStatus = StatusParseError
	rec.LastError = &msg
	if err := db.Upsert(rec); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err = db.Get("songdo/environment")
	if err != nil {
		t.Fatalf("Get after update: %v", err)
	}
	if got.LastStatus != StatusParseError || got.LastError == nil || *got.LastError != msg {
		t.Errorf("after update: %+v", got)
	}
	if got.RowCount != 0 {
		t.Errorf("row count = %d, want 0", got.RowCount)
	}
}

func TestListOrderedByDatasetID(t *testing.T) {
	db := openTestDB(t)

	for _, id := range []string{"songdo/growth", "ara/environment", "haneul/environment"} {
		if err := db.Upsert(Record{DatasetID: id, GroupID: "x", Kind: "x", LastStatus: StatusMissing}); err != nil {
			t.Fatalf("Upsert %s: %v", id, err)
		}
	}

	records, err := db.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	want := []string{"ara/environment", "haneul/environment", "songdo/growth"}
	for i, w := range want {
		if records[i].DatasetID != w {
			t.Errorf("records[%d] = %s, want %s", i, records[i].DatasetID, w)
		}
	}
}

func TestGetUnknown(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.Get("nope/environment"); err == nil {
		t.Error("expected error for unknown dataset")
	}
}

func TestFileMtimeRoundTrip(t *testing.T) {
	db := openTestDB(t)

	m := int64(1756600000)
	rec := Record{
		DatasetID:  "ara/growth",
		GroupID:    "ara",
		Kind:       "growth",
		Path:       "data/4개교_생육결과데이터.xlsx",
		RowCount:   106,
		FileMtime:  &m,
		LastStatus: StatusOK,
	}
	if err := db.Upsert(rec); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := db.Get("ara/growth")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.FileMtime == nil || *got.FileMtime != m {
		t.Errorf("FileMtime = %v, want %d", got.FileMtime, m)
	}
}
