// ABOUTME: Tests for the SQLite embedding cache
// ABOUTME: Verifies round trips, overwrites and on-disk creation
package cache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSQLiteCache_PutGet(t *testing.T) {
	c, err := OpenSQLiteInMemory()
	if err != nil {
		t.Fatalf("OpenSQLiteInMemory() error = %v", err)
	}
	defer func() { _ = c.Close() }()

	if _, ok, err := c.Get("missing"); err != nil || ok {
		t.Errorf("Get(missing) = ok=%v err=%v, want miss", ok, err)
	}

	vector := []float64{0.1, -2.5, 3e-7, 0}
	if err := c.Put("k1", vector); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok, err := c.Get("k1")
	if err != nil || !ok {
		t.Fatalf("Get(k1) = ok=%v err=%v", ok, err)
	}
	if len(got) != len(vector) {
		t.Fatalf("len = %d, want %d", len(got), len(vector))
	}
	for i := range vector {
		if got[i] != vector[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], vector[i])
		}
	}
}

func TestSQLiteCache_Overwrite(t *testing.T) {
	c, err := OpenSQLiteInMemory()
	if err != nil {
		t.Fatalf("OpenSQLiteInMemory() error = %v", err)
	}
	defer func() { _ = c.Close() }()

	_ = c.Put("k", []float64{1})
	if err := c.Put("k", []float64{2, 3}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, _, _ := c.Get("k")
	if len(got) != 2 || got[0] != 2 {
		t.Errorf("Get(k) = %v, want [2 3]", got)
	}
	if n, _ := c.Count(); n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}

func TestOpenSQLite_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "embeddings.db")

	c, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	if err := c.Put("k", []float64{1, 2}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	_ = c.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}

	// reopen and read back
	c, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer func() { _ = c.Close() }()
	if _, ok, _ := c.Get("k"); !ok {
		t.Error("vector should survive reopen")
	}
}

func TestBlobRoundTrip(t *testing.T) {
	v := []float64{1.5, -0.25}
	got := blobToVector(vectorToBlob(v))
	if len(got) != 2 || got[0] != 1.5 || got[1] != -0.25 {
		t.Errorf("round trip = %v", got)
	}
}
