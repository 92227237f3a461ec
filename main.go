package main

import (
	"errors"
	"os"

	"github.com/charmbracelet/log"

	"github.com/rejot-dev/qakit/cmd/cli"
)

func init() {
	// Configure log format without timestamps
	log.SetTimeFormat("")
	log.SetStyles(log.DefaultStyles())
	// Debug messages are hidden unless --debug is passed
	log.SetLevel(log.InfoLevel)
}

func main() {
	err := cli.Execute()
	if err != nil {
		if !errors.Is(err, cli.ErrorNoTestCases) {
			log.Error("Command failed", "err", err)
		}
		os.Exit(1)
	}
}
