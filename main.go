package main

import (
	"log"
	"os"

	"dbstash/cmd"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:   "dbstash",
		Usage:  "Back up and restore database tables as per-table JSON files",
		Flags:  cmd.Flags(),
		Action: cmd.Run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
