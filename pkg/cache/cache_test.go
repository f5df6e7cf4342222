package cache

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"gpstrack/pkg/db"
)

func TestSQLiteCache(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "cache_test.db")
	d, err := db.Init(dbPath)
	if err != nil {
		t.Fatalf("Failed to init db: %v", err)
	}
	defer d.Close()
	c := NewSQLiteCache(d)
	ctx := context.Background()

	val, hit := c.GetCache(ctx, "dem:2:8c1f")
	if hit || val != nil {
		t.Errorf("GetCache on empty cache = %v, %v", val, hit)
	}

	if err := c.SetCache(ctx, "dem:2:8c1f", []byte{1, 2, 3}); err != nil {
		t.Fatalf("SetCache returned error: %v", err)
	}
	val, hit = c.GetCache(ctx, "dem:2:8c1f")
	if !hit || !bytes.Equal(val, []byte{1, 2, 3}) {
		t.Errorf("GetCache = %v, %v", val, hit)
	}

	if err := c.SetCache(ctx, "dem:2:8c1f", []byte{9}); err != nil {
		t.Fatal(err)
	}
	val, _ = c.GetCache(ctx, "dem:2:8c1f")
	if !bytes.Equal(val, []byte{9}) {
		t.Errorf("overwrite not applied: %v", val)
	}

	// Fresh entries survive pruning.
	if n, err := d.PruneCache(time.Hour); err != nil || n != 0 {
		t.Errorf("PruneCache = %d, %v", n, err)
	}
}
