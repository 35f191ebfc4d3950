package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags)

	// Optional .env for local runs; absence is fine.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] load .env: %v", err)
	}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&scanCmd{}, "scanning")
	commander.Register(&marketCmd{}, "scanning")
	commander.Register(&infoCmd{}, "scanning")
	commander.Register(&tradeCmd{}, "portfolio")
	commander.Register(&positionsCmd{}, "portfolio")
	commander.Register(&perfCmd{}, "portfolio")
	commander.Register(&watchCmd{}, "daemon")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
