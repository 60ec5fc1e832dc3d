package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestRecordClearReturnsUUID(t *testing.T) {
	store := openTemp(t)
	id, err := store.RecordClear(1, 0, 4, 60)
	if err != nil {
		t.Fatalf("RecordClear() failed: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("id %q is not a uuid: %v", id, err)
	}
}

func TestBestClearsOrdering(t *testing.T) {
	store := openTemp(t)

	clears := []struct{ level, deaths, steps, ticks int }{
		{1, 2, 10, 500},
		{1, 0, 12, 700},
		{1, 0, 9, 900},
		{1, 0, 9, 400},
		{2, 0, 1, 10},
	}
	for _, c := range clears {
		if _, err := store.RecordClear(c.level, c.deaths, c.steps, c.ticks); err != nil {
			t.Fatalf("RecordClear() failed: %v", err)
		}
	}

	got, err := store.BestClears(1, 10)
	if err != nil {
		t.Fatalf("BestClears() failed: %v", err)
	}
	type row struct{ Deaths, Steps, Ticks int }
	var rows []row
	for _, e := range got {
		if e.LevelID != 1 {
			t.Errorf("entry from level %d", e.LevelID)
		}
		rows = append(rows, row{e.Deaths, e.Steps, e.Ticks})
	}
	want := []row{{0, 9, 400}, {0, 9, 900}, {0, 12, 700}, {2, 10, 500}}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	top, err := store.BestClears(1, 2)
	if err != nil {
		t.Fatalf("BestClears() failed: %v", err)
	}
	if len(top) != 2 {
		t.Errorf("limit 2 returned %d", len(top))
	}
}

func TestLevelStats(t *testing.T) {
	store := openTemp(t)

	empty, err := store.LevelStats(5)
	if err != nil {
		t.Fatalf("LevelStats() failed: %v", err)
	}
	if empty.Clears != 0 || !empty.LastCleared.IsZero() {
		t.Errorf("empty stats = %+v", empty)
	}

	store.RecordClear(5, 3, 20, 0)
	store.RecordClear(5, 1, 25, 0)

	stats, err := store.LevelStats(5)
	if err != nil {
		t.Fatalf("LevelStats() failed: %v", err)
	}
	if stats.Clears != 2 || stats.BestDeaths != 1 || stats.BestSteps != 20 {
		t.Errorf("stats = %+v", stats)
	}

	all, err := store.AllLevelStats()
	if err != nil {
		t.Fatalf("AllLevelStats() failed: %v", err)
	}
	if len(all) != 1 || all[5] == nil || all[5].Clears != 2 {
		t.Errorf("all stats = %+v", all)
	}
}

func TestClearedLevelsAndForget(t *testing.T) {
	store := openTemp(t)
	for _, lvl := range []int{3, 1, 3, 2} {
		store.RecordClear(lvl, 0, 1, 1)
	}

	ids, err := store.ClearedLevels()
	if err != nil {
		t.Fatalf("ClearedLevels() failed: %v", err)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, ids); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}

	if err := store.ForgetLevel(3); err != nil {
		t.Fatalf("ForgetLevel() failed: %v", err)
	}
	ids, _ = store.ClearedLevels()
	if diff := cmp.Diff([]int{1, 2}, ids); diff != "" {
		t.Errorf("after forget (-want +got):\n%s", diff)
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
