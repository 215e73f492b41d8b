// Package main implements the gones NES emulator executable.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"nesgo/internal/app"
	"nesgo/internal/version"
)

func main() {
	var (
		romFile      = flag.String("rom", "", "Path to NES ROM file")
		configFile   = flag.String("config", "", "Path to a JSON configuration file")
		strictDecode = flag.Bool("strict", false, "Treat unrecognized opcodes as fatal errors")
		headless     = flag.Bool("headless", false, "Run without opening a window")
		frames       = flag.Int("frames", 120, "Frames to run before exiting in -headless mode")
		showVersion  = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		version.PrintBuildInfo()
		return
	}

	if *romFile == "" {
		fmt.Fprintln(os.Stderr, "usage: gones -rom <file> [-config <file>] [-strict] [-headless] [-frames N]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	config := app.NewConfig()
	if *configFile != "" {
		if err := config.LoadFromFile(*configFile); err != nil {
			log.Printf("gones: could not load config from %s, using defaults: %v", *configFile, err)
		}
	}
	config.StrictDecode = *strictDecode

	application := app.NewApplication(config, *headless)
	if err := application.LoadROM(*romFile); err != nil {
		log.Fatalf("gones: %v", err)
	}

	var err error
	if *headless {
		err = application.RunFrames(*frames)
	} else {
		err = application.Run()
	}
	if err != nil {
		log.Fatalf("gones: %v", err)
	}
}
