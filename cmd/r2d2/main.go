// Command r2d2 is an interactive shell over the storage engine: it
// opens (or creates) a store at a configurable directory, optionally
// resets or seeds it with demo data, then hands control to the REPL.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/go-faker/faker/v4"

	"github.com/certainty/r2d2/engine"
	"github.com/certainty/r2d2/repl"
)

var (
	shouldReset    *bool
	shouldSeed     *bool
	seedNumRecords *int
	dataDir        *string
)

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "r2d2-data"
	}
	return filepath.Join(home, ".r2d2")
}

func setupFlags() {
	shouldReset = flag.Bool("reset", false, "Reset the store by erasing its directory before startup.")
	shouldSeed = flag.Bool("seed", false, "Seed the store using records generated with go-faker.")
	seedNumRecords = flag.Int("records", 1000, "Number of records to seed the store with upon startup.")
	dataDir = flag.String("dir", defaultDataDir(), "Storage directory for the store.")
	flag.Usage = func() {
		fmt.Println("\nr2d2\n\nArguments:")
		flag.PrintDefaults()
	}
	flag.Parse()
}

func eraseDataDir(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		log.Fatal(err)
	}
}

func seedWithDemoRecords(e *engine.Engine, n int) {
	for i := 0; i < n; i++ {
		k := []byte(faker.Word() + faker.Word())
		v := []byte(faker.Word() + faker.Word())
		if _, err := e.Set(k, v); err != nil {
			log.Fatal(err)
		}
	}
}

func main() {
	setupFlags()

	if *shouldReset {
		eraseDataDir(*dataDir)
	}

	cfg, err := engine.NewBuilder(*dataDir).Build()
	if err != nil {
		log.Fatal(err)
	}

	e, err := engine.Open(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer e.Close()

	if *shouldSeed {
		seedWithDemoRecords(e, *seedNumRecords)
	}

	repl.Stdin(e).Run()
}
