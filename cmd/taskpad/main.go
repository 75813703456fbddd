// Command taskpad hosts the offline task collection: a local, single-user
// list persisted as a snapshot in a BoltDB file, with no server round trip.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/business-os/backend/domain"
	"github.com/business-os/backend/internal/infrastructure/snapshot"
	"github.com/business-os/backend/internal/taskpad"
	"github.com/business-os/backend/pkg/logger"
)

const usage = `usage: taskpad [-file path] <command> [args]

commands:
  list                      print all entries
  add <title> [description] add an entry
  done <id>                 mark an entry completed
  edit <id> <title>         retitle an entry
  rm <id>                   delete an entry
`

func main() {
	defaultPath := filepath.Join(dataDir(), "taskpad.db")
	file := flag.String("file", defaultPath, "snapshot database file")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	zapLogger, err := logger.New(logger.Config{Level: "warn", Encoding: "console"})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	store, err := snapshot.Open(*file, "taskpad")
	if err != nil {
		log.Fatalf("failed to open snapshot store: %v", err)
	}
	defer store.Close()

	pad, err := taskpad.Open(store, zapLogger)
	if err != nil {
		log.Fatalf("failed to load snapshot: %v", err)
	}

	if err := run(pad, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(pad *taskpad.Pad, args []string) error {
	switch args[0] {
	case "list":
		for _, e := range pad.Entries() {
			marker := " "
			if e.Status == domain.TaskStatusCompleted {
				marker = "x"
			}
			fmt.Printf("[%s] %s  %s\n", marker, e.ID, e.Title)
		}
		return nil

	case "add":
		if len(args) < 2 {
			return fmt.Errorf("add requires a title")
		}
		entry := taskpad.Entry{Title: args[1]}
		if len(args) > 2 {
			entry.Description = strings.Join(args[2:], " ")
		}
		added, err := pad.Add(entry)
		if err != nil {
			return err
		}
		fmt.Println(added.ID)
		return nil

	case "done":
		if len(args) < 2 {
			return fmt.Errorf("done requires an id")
		}
		status := domain.TaskStatusCompleted
		if _, ok := pad.Update(args[1], taskpad.EntryPatch{Status: &status}); !ok {
			return fmt.Errorf("no entry with id %s", args[1])
		}
		return nil

	case "edit":
		if len(args) < 3 {
			return fmt.Errorf("edit requires an id and a title")
		}
		title := strings.Join(args[2:], " ")
		if _, ok := pad.Update(args[1], taskpad.EntryPatch{Title: &title}); !ok {
			return fmt.Errorf("no entry with id %s", args[1])
		}
		return nil

	case "rm":
		if len(args) < 2 {
			return fmt.Errorf("rm requires an id")
		}
		if !pad.Delete(args[1]) {
			return fmt.Errorf("no entry with id %s", args[1])
		}
		return nil

	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func dataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".taskpad")
	}
	return "."
}
