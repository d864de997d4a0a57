package engine

import (
	"path/filepath"
	"testing"

	"github.com/go-faker/faker/v4"
)

func open(t *testing.T, dir string) *Engine {
	t.Helper()
	cfg, err := NewBuilder(dir).Build()
	if err != nil {
		t.Fatal(err)
	}
	e, err := Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

func TestGetOnFreshEngineIsMiss(t *testing.T) {
	e := open(t, t.TempDir())
	val, err := e.Get([]byte("missing"))
	if err != nil {
		t.Fatal(err)
	}
	if val != nil {
		t.Fatalf("got %q, want nil", val)
	}
}

func TestSetThenGet(t *testing.T) {
	e := open(t, t.TempDir())
	if _, err := e.Set([]byte("foo"), []byte("bar")); err != nil {
		t.Fatal(err)
	}
	val, err := e.Get([]byte("foo"))
	if err != nil {
		t.Fatal(err)
	}
	if string(val) != "bar" {
		t.Fatalf("got %q, want bar", val)
	}
}

func TestSetTwiceReturnsPriorValueAndUpdates(t *testing.T) {
	e := open(t, t.TempDir())
	if _, err := e.Set([]byte("foo"), []byte("bar")); err != nil {
		t.Fatal(err)
	}
	prev, err := e.Set([]byte("foo"), []byte("baz"))
	if err != nil {
		t.Fatal(err)
	}
	if string(prev) != "bar" {
		t.Fatalf("got prior %q, want bar", prev)
	}
	val, err := e.Get([]byte("foo"))
	if err != nil {
		t.Fatal(err)
	}
	if string(val) != "baz" {
		t.Fatalf("got %q, want baz", val)
	}
}

func TestSetThenDelThenGetIsMiss(t *testing.T) {
	e := open(t, t.TempDir())
	if _, err := e.Set([]byte("foo"), []byte("bar")); err != nil {
		t.Fatal(err)
	}
	prev, err := e.Del([]byte("foo"))
	if err != nil {
		t.Fatal(err)
	}
	if string(prev) != "bar" {
		t.Fatalf("got prior %q, want bar", prev)
	}
	val, err := e.Get([]byte("foo"))
	if err != nil {
		t.Fatal(err)
	}
	if val != nil {
		t.Fatalf("got %q, want nil", val)
	}
}

func TestDeleteAbsentKeyIsNoop(t *testing.T) {
	e := open(t, t.TempDir())
	prev, err := e.Del([]byte("never-set"))
	if err != nil {
		t.Fatal(err)
	}
	if prev != nil {
		t.Fatalf("got %q, want nil", prev)
	}
}

func TestDurabilityAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	cfg, err := NewBuilder(dir).Build()
	if err != nil {
		t.Fatal(err)
	}

	e, err := Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Set([]byte("foo"), []byte("bar")); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Set([]byte("baz"), []byte("qux")); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Del([]byte("foo")); err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	val, err := reopened.Get([]byte("foo"))
	if err != nil {
		t.Fatal(err)
	}
	if val != nil {
		t.Fatalf("got %q for foo, want nil (deleted)", val)
	}

	val, err = reopened.Get([]byte("baz"))
	if err != nil {
		t.Fatal(err)
	}
	if string(val) != "qux" {
		t.Fatalf("got %q for baz, want qux", val)
	}
}

func TestIterReflectsMemtableOrderAndSkipsTombstones(t *testing.T) {
	e := open(t, t.TempDir())
	for _, kv := range [][2]string{{"b", "2"}, {"a", "1"}, {"c", "3"}} {
		if _, err := e.Set([]byte(kv[0]), []byte(kv[1])); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := e.Del([]byte("b")); err != nil {
		t.Fatal(err)
	}

	pairs := e.Iter()
	if len(pairs) != 2 {
		t.Fatalf("got %d pairs, want 2", len(pairs))
	}
	if string(pairs[0].Key) != "a" || string(pairs[1].Key) != "c" {
		t.Fatalf("got keys %q, %q; want a, c", pairs[0].Key, pairs[1].Key)
	}
}

func TestReplayWithRandomizedCorpus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	cfg, err := NewBuilder(dir).Build()
	if err != nil {
		t.Fatal(err)
	}

	e, err := Open(cfg)
	if err != nil {
		t.Fatal(err)
	}

	want := make(map[string]string)
	for i := 0; i < 50; i++ {
		k := faker.Word()
		v := faker.Word()
		if _, err := e.Set([]byte(k), []byte(v)); err != nil {
			t.Fatal(err)
		}
		want[k] = v
	}
	for k := range want {
		if _, err := e.Del([]byte(k)); err != nil {
			t.Fatal(err)
		}
		delete(want, k)
		break
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	for k, v := range want {
		got, err := reopened.Get([]byte(k))
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != v {
			t.Fatalf("key %q: got %q, want %q", k, got, v)
		}
	}
}

func TestUnsupportedFlushPolicyRejectedAtOpen(t *testing.T) {
	cfg, err := NewBuilder(t.TempDir()).WithWALFlushPolicy(FlushBatched).Build()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Open(cfg); err != ErrUnsupportedFlushPolicy {
		t.Fatalf("got err %v, want ErrUnsupportedFlushPolicy", err)
	}
}

func TestBuilderRejectsEmptyStoragePath(t *testing.T) {
	if _, err := NewBuilder("").Build(); err != ErrInvalidStoragePath {
		t.Fatalf("got err %v, want ErrInvalidStoragePath", err)
	}
}
