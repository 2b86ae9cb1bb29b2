package local

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kbukum/speechkit/storage"
)

func newTestStorage(t *testing.T, publicURL string) *Storage {
	t.Helper()
	s, err := NewStorage(Config{BasePath: t.TempDir(), PublicURL: publicURL})
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	return s
}

func TestStorage_PutGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t, "")

	if err := storage.PutBytes(ctx, s, "transcripts/2026/10/a.txt", []byte("hello"), "text/plain"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	data, err := storage.GetBytes(ctx, s, "transcripts/2026/10/a.txt")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("got %q", data)
	}

	// Put replaces.
	if err := storage.PutBytes(ctx, s, "transcripts/2026/10/a.txt", []byte("bye"), "text/plain"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	data, _ = storage.GetBytes(ctx, s, "transcripts/2026/10/a.txt")
	if string(data) != "bye" {
		t.Errorf("expected replaced content, got %q", data)
	}
}

func TestStorage_GetMissing(t *testing.T) {
	s := newTestStorage(t, "")
	_, err := s.Get(context.Background(), "nope.json")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStorage_KeysStayUnderBase(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t, "")

	if err := storage.PutBytes(ctx, s, "../../escape.txt", []byte("x"), ""); err != nil {
		t.Fatalf("Put: %v", err)
	}
	ok, err := s.Exists(ctx, "escape.txt")
	if err != nil || !ok {
		t.Fatalf("expected key to be confined to base path, exists=%v err=%v", ok, err)
	}
	if err := s.Put(ctx, "/", strings.NewReader("x"), 1, ""); err == nil {
		t.Error("expected error for empty key")
	}
}

func TestStorage_DeleteAndExists(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t, "")
	_ = storage.PutBytes(ctx, s, "a.json", []byte("{}"), "application/json")

	if ok, _ := s.Exists(ctx, "a.json"); !ok {
		t.Fatal("expected object to exist")
	}
	if err := s.Delete(ctx, "a.json"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "a.json"); err != nil {
		t.Fatalf("Delete of missing key: %v", err)
	}
	if ok, _ := s.Exists(ctx, "a.json"); ok {
		t.Error("expected object to be gone")
	}
}

func TestStorage_List(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t, "")
	for _, k := range []string{"transcripts/b.pdf", "transcripts/a.txt", "other/c.json"} {
		_ = storage.PutBytes(ctx, s, k, []byte("x"), "")
	}

	objs, err := s.List(ctx, "transcripts/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(objs) != 2 || objs[0].Key != "transcripts/a.txt" || objs[1].Key != "transcripts/b.pdf" {
		t.Fatalf("unexpected listing %+v", objs)
	}
	if objs[1].ContentType != "application/pdf" {
		t.Errorf("content type = %q", objs[1].ContentType)
	}
}

func TestStorage_URL(t *testing.T) {
	ctx := context.Background()

	s := newTestStorage(t, "https://files.example.com/")
	u, err := storage.ShareURL(ctx, s, "transcripts/a.txt", 0)
	if err != nil {
		t.Fatalf("ShareURL: %v", err)
	}
	if u != "https://files.example.com/transcripts/a.txt" {
		t.Errorf("got %q", u)
	}

	s = newTestStorage(t, "")
	u, _ = s.URL(ctx, "a.txt")
	if !strings.HasPrefix(u, "file://") {
		t.Errorf("expected file URL, got %q", u)
	}
}

func TestFactory(t *testing.T) {
	dir := t.TempDir()
	s, err := Factory()(map[string]any{"base_path": dir})
	if err != nil {
		t.Fatalf("Factory: %v", err)
	}
	if s.Name() != storage.ProviderLocal || !s.IsAvailable(context.Background()) {
		t.Errorf("unexpected backend %s", s.Name())
	}
}
