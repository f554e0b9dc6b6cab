// Copyright 2026 The CrossForge Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the crossword construction server and CLI.

CrossForge answers the questions a constructor keeps asking while filling a
grid: what fits this pattern, how constrained is every slot, and which
candidate word leaves its crossings the most room. It runs as a msgpack IPC
server for editor integration, or as a CLI for trying patterns by hand.

# Usage

Start the server against the default corpus database:

	forge

Use a custom database and enable debug mode:

	forge -db /path/to/crossword.db -d

Run in CLI mode for interactive pattern testing:

	forge -c -limit 10

Import the seed word lists into the database and exit:

	forge -import -seed data/seed_lists

# Configuration

Runtime configuration lives in a TOML file that is created with defaults on
first run:

	[server]
	max_limit = 100
	default_limit = 20
	max_grid_size = 21

	[corpus]
	db_path = "data/crossword.db"
	seed_dir = "data/seed_lists"

	[analysis]
	crossing_limit = 30
	suggest_limit = 20

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. A suggestion
request:

	{"id": "req1", "cmd": "suggest", "p": "P_A_O", "l": 10}

A fillability request sends the grid one string per row, '#' for black
squares:

	{"id": "req2", "cmd": "fillability", "grid": ["...#...", "...#...", ...]}

See pkg/server for the full command set and response shapes.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/crossforge/crossforge/internal/cli"
	"github.com/crossforge/crossforge/internal/logger"
	"github.com/crossforge/crossforge/internal/wordlist"
	"github.com/crossforge/crossforge/pkg/config"
	"github.com/crossforge/crossforge/pkg/corpus"
	"github.com/crossforge/crossforge/pkg/match"
	"github.com/crossforge/crossforge/pkg/server"
)

const (
	Version = "0.4.0"
	AppName = "crossforge"
	gh      = "https://github.com/crossforge/crossforge"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()
	defaults := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	configPath := flag.String("config", "", "Path to config file (default: user config dir)")
	dbPath := flag.String("db", "", "Path to the corpus database (overrides config)")
	runImport := flag.Bool("import", false, "Import seed word lists into the database and exit")
	seedDir := flag.String("seed", "", "Directory containing seed lists (overrides config)")
	limit := flag.Int("limit", defaults.Analysis.SuggestLimit, "Number of suggestions to return in CLI mode")
	source := flag.String("source", "", "Only show words from this source in CLI mode")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, loadedFrom, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if loadedFrom != "" {
		log.Debugf("Using config file: (%s)", loadedFrom)
	}
	if *dbPath != "" {
		appConfig.Corpus.DBPath = *dbPath
	}
	if *seedDir != "" {
		appConfig.Corpus.SeedDir = *seedDir
	}

	store, err := corpus.OpenSQL(appConfig.Corpus.DBPath)
	if err != nil {
		log.Fatalf("Failed to open corpus database at %s: %v", appConfig.Corpus.DBPath, err)
	}
	defer store.Close()
	if err := store.Init(); err != nil {
		log.Fatalf("Failed to init corpus schema: %v", err)
	}
	log.Debugf("Using corpus database at: %s", appConfig.Corpus.DBPath)

	if *runImport {
		stats, err := wordlist.ImportSeedDir(context.Background(), store, appConfig.Corpus.SeedDir)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		log.SetLevel(log.InfoLevel)
		log.Infof("Import done: %d inserted, %d updated, %d skipped",
			stats.Inserted, stats.Updated, stats.Skipped)
		return
	}

	index := corpus.NewIndex(store)

	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:", "limit", *limit, "source", *source)

		inputHandler := cli.NewInputHandler(match.New(store, index), *limit, *source)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(store, index, appConfig.Server.MaxLimit, appConfig.Server.MaxGridSize)

	showStartupInfo(appConfig.Corpus.DBPath)

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func printVersion() {
	banner := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ CrossForge ] Crossword construction, without the guesswork.")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(dbPath string) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("============")
	println(" CrossForge ")
	println("============")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	log.Infof("corpus db: ( %s )", dbPath)
	log.Info("status: ready")
	println("============")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
