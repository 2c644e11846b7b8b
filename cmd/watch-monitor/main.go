// Package main is the entry point for the watch-monitor CLI.
package main

import (
	"github.com/sfeuerstein/watch-monitor/cmd/watch-monitor/cmd"
)

func main() {
	cmd.Execute()
}
