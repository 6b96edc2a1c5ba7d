package storage

import (
	"bytes"
	"errors"
	"testing"
)

func TestMemDBRoundTrip(t *testing.T) {
	db := NewMemDB()
	if err := db.Put([]byte("a"), []byte("1")); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := db.Get([]byte("a"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(got, []byte("1")) {
		t.Fatalf("unexpected value %q", got)
	}
	if _, err := db.Get([]byte("missing")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	ok, err := db.Has([]byte("a"))
	if err != nil || !ok {
		t.Fatalf("has: %v %v", ok, err)
	}
	if err := db.Delete([]byte("a")); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if ok, _ := db.Has([]byte("a")); ok {
		t.Fatal("key survived delete")
	}
}

func TestMemDBWriteBatch(t *testing.T) {
	db := NewMemDB()
	if err := db.Put([]byte("stale"), []byte("x")); err != nil {
		t.Fatalf("put: %v", err)
	}
	err := db.Write([]Op{
		{Key: []byte("a"), Value: []byte("1")},
		{Key: []byte("b"), Value: []byte("2")},
		{Key: []byte("stale"), Delete: true},
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if got, _ := db.Get([]byte("b")); !bytes.Equal(got, []byte("2")) {
		t.Fatalf("unexpected value %q", got)
	}
	if ok, _ := db.Has([]byte("stale")); ok {
		t.Fatal("deleted key still present")
	}
}

func TestOverlayReadsThroughToBase(t *testing.T) {
	base := NewMemDB()
	if err := base.Put([]byte("a"), []byte("base")); err != nil {
		t.Fatalf("put: %v", err)
	}
	ov := NewOverlay(base)
	got, err := ov.Get([]byte("a"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(got, []byte("base")) {
		t.Fatalf("unexpected value %q", got)
	}
	if err := ov.Put([]byte("a"), []byte("staged")); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, _ = ov.Get([]byte("a"))
	if !bytes.Equal(got, []byte("staged")) {
		t.Fatalf("overlay did not shadow base, got %q", got)
	}
	// Base is untouched until commit.
	got, _ = base.Get([]byte("a"))
	if !bytes.Equal(got, []byte("base")) {
		t.Fatalf("base mutated before commit: %q", got)
	}
}

func TestOverlayCommitFlushesOnce(t *testing.T) {
	base := NewMemDB()
	ov := NewOverlay(base)
	if err := ov.Put([]byte("a"), []byte("1")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := ov.Delete([]byte("gone")); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !ov.Dirty() {
		t.Fatal("overlay should be dirty")
	}
	if err := ov.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if ov.Dirty() {
		t.Fatal("overlay should be clean after commit")
	}
	if got, _ := base.Get([]byte("a")); !bytes.Equal(got, []byte("1")) {
		t.Fatalf("commit lost write: %q", got)
	}
}

func TestOverlayDiscardLeavesBaseUntouched(t *testing.T) {
	base := NewMemDB()
	if err := base.Put([]byte("a"), []byte("base")); err != nil {
		t.Fatalf("put: %v", err)
	}
	ov := NewOverlay(base)
	if err := ov.Put([]byte("a"), []byte("staged")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := ov.Delete([]byte("a")); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// Drop the overlay without committing.
	ov = nil
	_ = ov
	if got, _ := base.Get([]byte("a")); !bytes.Equal(got, []byte("base")) {
		t.Fatalf("base mutated by discarded overlay: %q", got)
	}
}

func TestOverlayDeleteThenPut(t *testing.T) {
	base := NewMemDB()
	if err := base.Put([]byte("a"), []byte("base")); err != nil {
		t.Fatalf("put: %v", err)
	}
	ov := NewOverlay(base)
	if err := ov.Delete([]byte("a")); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := ov.Get([]byte("a")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := ov.Put([]byte("a"), []byte("again")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := ov.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if got, _ := base.Get([]byte("a")); !bytes.Equal(got, []byte("again")) {
		t.Fatalf("unexpected value %q", got)
	}
}
