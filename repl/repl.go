// Package repl implements the engine's interactive command shell: six
// commands read from a scanner, one per line, with errors rendered as
// a single line so the session never aborts mid-command.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/certainty/r2d2/engine"
)

// Shell reads commands from scanner and applies them to e until EXIT or
// end of input.
type Shell struct {
	scanner *bufio.Scanner
	out     io.Writer
	e       *engine.Engine
}

// New builds a Shell reading from scanner, writing output to out, and
// operating on e.
func New(scanner *bufio.Scanner, out io.Writer, e *engine.Engine) *Shell {
	return &Shell{scanner: scanner, out: out, e: e}
}

// Run prints the help banner and the prompt, then processes lines until
// the scanner is exhausted or EXIT is entered.
func (s *Shell) Run() {
	s.printHelp()
	s.printPrompt()
	for s.scanner.Scan() {
		if !s.process(s.scanner.Text()) {
			return
		}
		s.printPrompt()
	}
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `
r2d2

Available Commands:
  SET <key> <val>  Insert a key-value pair
  DEL <key>         Remove a key-value pair
  GET <key>         Retrieve the value for key
  ITER              List all live key-value pairs, in key order
  HELP              Show this message
  EXIT              Terminate this session
`)
}

func (s *Shell) printPrompt() {
	fmt.Fprint(s.out, "> ")
}

// process handles one input line. It returns false when the session
// should end.
func (s *Shell) process(line string) bool {
	fields := strings.Fields(line)
	if len(fields) < 1 {
		return true
	}
	command := strings.ToUpper(fields[0])
	args := fields[1:]

	switch command {
	case "SET":
		s.runSet(args)
	case "DEL":
		s.runDel(args)
	case "GET":
		s.runGet(args)
	case "ITER":
		s.runIter()
	case "HELP":
		s.printHelp()
	case "EXIT":
		return false
	default:
		fmt.Fprintf(s.out, "Unknown command %q\n", fields[0])
	}
	return true
}

func (s *Shell) runSet(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.out, "Usage: SET <key> <value>")
		return
	}
	if _, err := s.e.Set([]byte(args[0]), []byte(args[1])); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, "OK.")
}

func (s *Shell) runDel(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: DEL <key>")
		return
	}
	if _, err := s.e.Del([]byte(args[0])); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, "OK.")
}

func (s *Shell) runGet(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: GET <key>")
		return
	}
	val, err := s.e.Get([]byte(args[0]))
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	if val == nil {
		fmt.Fprintln(s.out, "Key not found.")
		return
	}
	fmt.Fprintln(s.out, string(val))
}

func (s *Shell) runIter() {
	for _, pair := range s.e.Iter() {
		fmt.Fprintf(s.out, "%s = %s\n", pair.Key, pair.Value)
	}
}

// Stdin wires a Shell to the process's standard input and output, the
// entrypoint's usual configuration.
func Stdin(e *engine.Engine) *Shell {
	return New(bufio.NewScanner(os.Stdin), os.Stdout, e)
}
