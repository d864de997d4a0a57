package sstable

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestWriteSealOpenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "000001.sst")

	w, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}

	pairs := []struct{ key, val string }{
		{"bar", "baz"},
		{"baz", "frooble"},
		{"foo", "bar"},
	}
	for _, p := range pairs {
		if err := w.Append([]byte(p.key), []byte(p.val)); err != nil {
			t.Fatal(err)
		}
	}

	slab, err := w.Seal()
	if err != nil {
		t.Fatal(err)
	}
	if slab.Level != 0 {
		t.Fatalf("got level %d, want 0", slab.Level)
	}
	if string(slab.MinKey) != "bar" || string(slab.MaxKey) != "foo" {
		t.Fatalf("got min/max %q/%q, want bar/foo", slab.MinKey, slab.MaxKey)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	for _, p := range pairs {
		got, err := r.Get([]byte(p.key))
		if err != nil {
			t.Fatalf("get %q: %v", p.key, err)
		}
		if !bytes.Equal(got, []byte(p.val)) {
			t.Fatalf("get %q: got %q, want %q", p.key, got, p.val)
		}
	}

	if _, err := r.Get([]byte("foobar")); err != ErrKeyNotFound {
		t.Fatalf("got err %v, want ErrKeyNotFound", err)
	}
}

func TestSealedWriterRejectsFurtherMutation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "000001.sst")

	w, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Append([]byte("a"), []byte("1")); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Seal(); err != nil {
		t.Fatal(err)
	}

	if err := w.Append([]byte("b"), []byte("2")); err != ErrSealed {
		t.Fatalf("got err %v, want ErrSealed", err)
	}
	if _, err := w.Seal(); err != ErrSealed {
		t.Fatalf("got err %v, want ErrSealed", err)
	}
}

func TestSealingEmptyTableIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "000001.sst")

	w, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Seal(); err != ErrEmptyTable {
		t.Fatalf("got err %v, want ErrEmptyTable", err)
	}
}

func TestSlabCoverage(t *testing.T) {
	s := Slab{MinKey: []byte("alpha"), MaxKey: []byte("gamma")}

	for _, k := range []string{"alpha", "beta", "gamma"} {
		if !s.Covers([]byte(k)) {
			t.Fatalf("expected %q to be covered", k)
		}
	}
	for _, k := range []string{"aardvark", "iota", "gammb"} {
		if s.Covers([]byte(k)) {
			t.Fatalf("expected %q not to be covered", k)
		}
	}
}
