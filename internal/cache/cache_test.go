package cache

import "testing"

func TestCache_WriteReadIndex(t *testing.T) {
	c := New(t.TempDir())

	if _, err := c.ReadIndex(); err == nil {
		t.Error("expected error reading empty cache")
	}
	if etag := c.ReadETag(); etag != "" {
		t.Errorf("ReadETag on empty cache = %q, want empty", etag)
	}

	if err := c.WriteIndex("# index body", `"abc123"`); err != nil {
		t.Fatalf("WriteIndex failed: %v", err)
	}

	body, err := c.ReadIndex()
	if err != nil {
		t.Fatalf("ReadIndex failed: %v", err)
	}
	if body != "# index body" {
		t.Errorf("ReadIndex = %q", body)
	}
	if etag := c.ReadETag(); etag != `"abc123"` {
		t.Errorf("ReadETag = %q", etag)
	}
}

func TestCache_EmptyETagRemovesStoredOne(t *testing.T) {
	c := New(t.TempDir())

	if err := c.WriteIndex("body", `"abc"`); err != nil {
		t.Fatalf("WriteIndex failed: %v", err)
	}
	if err := c.WriteIndex("body2", ""); err != nil {
		t.Fatalf("WriteIndex failed: %v", err)
	}

	if etag := c.ReadETag(); etag != "" {
		t.Errorf("stale ETag survived: %q", etag)
	}
	if body, _ := c.ReadIndex(); body != "body2" {
		t.Errorf("ReadIndex = %q, want %q", body, "body2")
	}
}

func TestCache_Clear(t *testing.T) {
	c := New(t.TempDir())

	if err := c.Clear(); err != nil {
		t.Errorf("Clear on empty cache failed: %v", err)
	}

	if err := c.WriteIndex("body", `"abc"`); err != nil {
		t.Fatalf("WriteIndex failed: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := c.ReadIndex(); err == nil {
		t.Error("index survived Clear")
	}
}
