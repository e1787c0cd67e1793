package cache

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

type testBook struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

func newTestCache(t *testing.T) *DiskCache {
	t.Helper()
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestReadMissingKey(t *testing.T) {
	c := newTestCache(t)

	var out testBook
	err := c.Read(CategoryBooks, "11", &out)
	if !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	c := newTestCache(t)

	tests := []struct {
		name     string
		category string
		key      string
		value    any
		out      func() any
	}{
		{
			name:     "book metadata",
			category: CategoryBooks,
			key:      "11",
			value:    &testBook{ID: "11", Title: "Alice's Adventures in Wonderland", Author: "Lewis Carroll"},
			out:      func() any { return &testBook{} },
		},
		{
			name:     "chunk list",
			category: CategoryChunks,
			key:      "11_6000",
			value:    &[]string{"first chunk", "second chunk"},
			out:      func() any { return &[]string{} },
		},
		{
			name:     "graph payload",
			category: CategoryGraphs,
			key:      "11_names",
			value: &map[string]any{
				"book_id":    "11",
				"characters": []any{map[string]any{"name": "Alice", "mentions": float64(5)}},
			},
			out: func() any { return &map[string]any{} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.Write(tt.category, tt.key, tt.value); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if !c.Exists(tt.category, tt.key) {
				t.Fatal("Exists() = false after Write")
			}
			out := tt.out()
			if err := c.Read(tt.category, tt.key, out); err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(out, tt.value) {
				t.Errorf("Read() = %#v, want %#v", out, tt.value)
			}
		})
	}
}

func TestWriteOverwrites(t *testing.T) {
	c := newTestCache(t)

	if err := c.Write(CategoryBooks, "11", &testBook{ID: "11", Title: "old"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := c.Write(CategoryBooks, "11", &testBook{ID: "11", Title: "new"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var out testBook
	if err := c.Read(CategoryBooks, "11", &out); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if out.Title != "new" {
		t.Errorf("Title = %q, want %q", out.Title, "new")
	}
}

func TestCorruptEntryIsAMiss(t *testing.T) {
	c := newTestCache(t)

	p := filepath.Join(c.Root(), CategoryBooks, "11.json")
	if err := os.WriteFile(p, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out testBook
	if err := c.Read(CategoryBooks, "11", &out); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss for corrupt entry, got %v", err)
	}
	if c.Exists(CategoryBooks, "11") {
		t.Error("corrupt entry should have been removed")
	}
}

func TestInfoCountsEntries(t *testing.T) {
	c := newTestCache(t)

	info, err := c.Info()
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if info.Items != 0 || info.SizeBytes != 0 {
		t.Fatalf("empty cache Info() = %+v, want zero", info)
	}

	c.Write(CategoryBooks, "11", &testBook{ID: "11"})
	c.Write(CategoryGraphs, "11_all", map[string]string{"book_id": "11"})

	info, err = c.Info()
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if info.Items != 2 {
		t.Errorf("Items = %d, want 2", info.Items)
	}
	if info.SizeBytes <= 0 {
		t.Errorf("SizeBytes = %d, want > 0", info.SizeBytes)
	}
}

func TestClearWipesEverything(t *testing.T) {
	c := newTestCache(t)

	c.Write(CategoryBooks, "11", &testBook{ID: "11"})
	c.Write(CategoryChunks, "11_6000", []string{"chunk"})
	c.Write(CategoryGraphs, "11_names", map[string]string{})

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	info, err := c.Info()
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if info.Items != 0 {
		t.Errorf("Items after Clear = %d, want 0", info.Items)
	}

	for _, key := range []struct{ category, key string }{
		{CategoryBooks, "11"},
		{CategoryChunks, "11_6000"},
		{CategoryGraphs, "11_names"},
	} {
		if c.Exists(key.category, key.key) {
			t.Errorf("Exists(%s, %s) = true after Clear", key.category, key.key)
		}
		var out any
		if err := c.Read(key.category, key.key, &out); !errors.Is(err, ErrCacheMiss) {
			t.Errorf("Read(%s, %s) after Clear = %v, want ErrCacheMiss", key.category, key.key, err)
		}
	}
}

func TestKeySanitization(t *testing.T) {
	c := newTestCache(t)

	if err := c.Write(CategoryBooks, "../escape", &testBook{ID: "x"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	var out testBook
	if err := c.Read(CategoryBooks, "../escape", &out); err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(c.Root(), CategoryBooks))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry inside the category dir, got %d", len(entries))
	}
}
