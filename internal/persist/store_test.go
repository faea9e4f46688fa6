package persist

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) = %v, want ErrNotFound", err)
	}

	if err := s.Put(ctx, "a", []byte(`{"x":1}`)); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"x":1}` {
		t.Errorf("Get = %s", got)
	}

	// Overwrite wins.
	if err := s.Put(ctx, "a", []byte(`{"x":2}`)); err != nil {
		t.Fatal(err)
	}
	got, _ = s.Get(ctx, "a")
	if string(got) != `{"x":2}` {
		t.Errorf("after overwrite = %s", got)
	}

	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "a"); err != nil {
		t.Errorf("deleting an absent key is a no-op, got %v", err)
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	buf := []byte("original")
	if err := s.Put(ctx, "a", buf); err != nil {
		t.Fatal(err)
	}
	buf[0] = 'X' // caller mutates its slice after Put

	got, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "original" {
		t.Errorf("stored bytes aliased the caller's slice: %s", got)
	}
	got[0] = 'Y' // and after Get
	again, _ := s.Get(ctx, "a")
	if string(again) != "original" {
		t.Errorf("returned bytes aliased the store: %s", again)
	}
}
