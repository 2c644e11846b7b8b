// Command docgen renders the watch-monitor CLI reference as one
// markdown page per command.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra/doc"

	"github.com/sfeuerstein/watch-monitor/cmd/watch-monitor/cmd"
)

func main() {
	outDir := flag.String("output", "docs/cli", "directory the markdown files are written to")
	flag.Parse()

	n, err := generate(*outDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "docgen:", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d pages to %s\n", n, *outDir)
}

// generate renders the command tree into dir and returns the page
// count. Pages left over from renamed or removed commands are deleted
// first so the directory always mirrors the current tree.
func generate(dir string) (int, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return 0, err
	}

	stale, err := filepath.Glob(filepath.Join(dir, "watch-monitor*.md"))
	if err != nil {
		return 0, err
	}
	for _, f := range stale {
		if err := os.Remove(f); err != nil {
			return 0, err
		}
	}

	root := cmd.Root()
	root.DisableAutoGenTag = true
	if err := doc.GenMarkdownTree(root, dir); err != nil {
		return 0, err
	}

	pages, err := filepath.Glob(filepath.Join(dir, "watch-monitor*.md"))
	if err != nil {
		return 0, err
	}
	return len(pages), nil
}
