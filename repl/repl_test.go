package repl

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/certainty/r2d2/engine"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	cfg, err := engine.NewBuilder(t.TempDir()).Build()
	if err != nil {
		t.Fatal(err)
	}
	e, err := engine.Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

func TestShellSetGetDelIter(t *testing.T) {
	e := newTestEngine(t)

	input := "SET foo bar\nGET foo\nDEL foo\nGET foo\nSET a 1\nSET b 2\nITER\nEXIT\n"
	var out bytes.Buffer
	s := New(bufio.NewScanner(strings.NewReader(input)), &out, e)
	s.Run()

	got := out.String()
	if !strings.Contains(got, "OK.") {
		t.Fatalf("expected OK. in output, got:\n%s", got)
	}
	if !strings.Contains(got, "bar") {
		t.Fatalf("expected GET foo to echo bar, got:\n%s", got)
	}
	if !strings.Contains(got, "Key not found.") {
		t.Fatalf("expected Key not found. after delete, got:\n%s", got)
	}
	if !strings.Contains(got, "a = 1") || !strings.Contains(got, "b = 2") {
		t.Fatalf("expected ITER to list a and b, got:\n%s", got)
	}
}

func TestShellUnknownCommand(t *testing.T) {
	e := newTestEngine(t)

	var out bytes.Buffer
	s := New(bufio.NewScanner(strings.NewReader("FROB x\nEXIT\n")), &out, e)
	s.Run()

	if !strings.Contains(out.String(), "Unknown command") {
		t.Fatalf("expected unknown command message, got:\n%s", out.String())
	}
}
