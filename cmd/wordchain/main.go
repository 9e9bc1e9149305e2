// Copyright 2025 The wordchain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main runs the wordchain next-word suggestion engine as an
interactive prompt, a msgpack IPC server or an HTTP API.

wordchain learns from a text corpus which words follow which. While a word
is being typed, the prefix narrows the vocabulary and the previous word
ranks what is left by how often it was followed by each candidate.

# Usage

Start the interactive prompt on the built-in corpus:

	wordchain

Train on a directory of text files and enable debug logging:

	wordchain -corpus ./notes -d

Serve editors over stdin/stdout:

	wordchain -ipc -corpus docs.jsonl -field body.text

Serve HTTP:

	wordchain -http -corpus corpus.db -bucket documents

The HTTP address comes from server.http_addr unless -addr is given:

	wordchain -http -addr 127.0.0.1:9000

# Configuration

Settings live in config.toml inside the user config dir and are created with
defaults on first run. A -config path ending in .yaml or .yml is read as YAML.

	[engine]
	cache_size = 256

	[corpus]
	source = "sample"
	path = ""
	field = "text"
	bucket = "documents"

	[server]
	max_limit = 64
	default_limit = 10
	max_prefix = 60
	rate_limit = 0.0
	http_addr = ":8080"

	[cli]
	max_results = 3

Flags override the file.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/wordchain/internal/cli"
	"github.com/bastiangx/wordchain/internal/logger"
	"github.com/bastiangx/wordchain/internal/utils"
	"github.com/bastiangx/wordchain/pkg/config"
	"github.com/bastiangx/wordchain/pkg/corpus"
	"github.com/bastiangx/wordchain/pkg/server"
	"github.com/bastiangx/wordchain/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "wordchain"
	gh      = "https://github.com/bastiangx/wordchain"
)

// sigHandler prints the shutdown notice and exits normally on SIGINT/SIGTERM.
func sigHandler(out io.Writer) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(out, "\n%s\n", cli.ShutdownNotice)
		os.Exit(0)
	}()
}

type flags struct {
	showVersion bool
	debug       bool
	configPath  string
	resetConfig bool
	corpusPath  string
	source      string
	field       string
	bucket      string
	ipc         bool
	http        bool
	httpAddr    string
	results     int
}

func parseFlags() *flags {
	f := &flags{}
	flag.BoolVar(&f.showVersion, "version", false, "Show current version")
	flag.BoolVar(&f.debug, "d", false, "Toggle debug mode")
	flag.StringVar(&f.configPath, "config", "", "Path to a config file (.toml, .yaml or .yml)")
	flag.BoolVar(&f.resetConfig, "reset-config", false, "Rewrite the default config file with builtin defaults")
	flag.StringVar(&f.corpusPath, "corpus", "", "Corpus file or directory to train on")
	flag.StringVar(&f.source, "source", "", "Corpus source: sample, file, dir, jsonl or bolt (inferred from -corpus when empty)")
	flag.StringVar(&f.field, "field", "", "gjson path of the text in jsonl documents")
	flag.StringVar(&f.bucket, "bucket", "", "bbolt bucket holding the documents")
	flag.BoolVar(&f.ipc, "ipc", false, "Serve msgpack requests over stdin/stdout")
	flag.BoolVar(&f.http, "http", false, "Serve the HTTP API on server.http_addr")
	flag.StringVar(&f.httpAddr, "addr", "", "Override server.http_addr (e.g. :8080)")
	flag.IntVar(&f.results, "results", 0, "Suggestions shown per line in the prompt (default from config)")
	flag.Parse()
	return f
}

// applyFlags layers command line overrides on top of the loaded config.
func applyFlags(cfg *config.Config, f *flags, pr *utils.PathResolver) {
	if f.corpusPath != "" {
		cfg.Corpus.Path = f.corpusPath
		if f.source == "" {
			cfg.Corpus.Source = ""
		}
	}
	if cfg.Corpus.Path != "" && pr != nil {
		cfg.Corpus.Path = pr.ResolveCorpusPath(cfg.Corpus.Path)
	}
	if f.source != "" {
		cfg.Corpus.Source = f.source
	}
	if cfg.Corpus.Source == "" {
		cfg.Corpus.Source = corpus.InferSource(cfg.Corpus.Path)
	}
	if f.field != "" {
		cfg.Corpus.Field = f.field
	}
	if f.bucket != "" {
		cfg.Corpus.Bucket = f.bucket
	}
	if f.results > 0 {
		cfg.CLI.MaxResults = f.results
	}
	if f.httpAddr != "" {
		cfg.Server.HTTPAddr = f.httpAddr
	}
}

func printVersion() {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ wordchain ] next-word suggestions from what you type")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}

// main wires config, corpus, engine and the selected front end together.
func main() {
	f := parseFlags()

	if f.showVersion {
		printVersion()
		os.Exit(0)
	}

	if f.debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	if f.resetConfig {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		log.Infof("Config rebuilt at %s", config.GetActiveConfigPath(""))
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Warnf("Failed to initialize path resolver: %v. Corpus paths are used as given.", err)
	} else {
		log.Debug("runtime", "info", pathResolver.GetRuntimeInfo())
	}

	cfg, configPath, err := config.LoadConfigWithPriority(f.configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(configPath))
	applyFlags(cfg, f, pathResolver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	text, err := corpus.Load(ctx, cfg.Corpus)
	if err != nil {
		log.Fatalf("Failed to load corpus: %v", err)
	}

	engine := suggest.NewEngine(
		suggest.WithCacheSize(cfg.Engine.CacheSize),
		suggest.WithLogger(logger.New("engine")),
	)
	stats := engine.Train(text)
	log.Debug("corpus loaded", "source", cfg.Corpus.Source, "path", cfg.Corpus.Path,
		"vocabulary", utils.FormatWithCommas(stats.Vocabulary), "tokens", utils.FormatWithCommas(stats.Tokens))
	if stats.Vocabulary == 0 {
		log.Warn("Corpus has no words, every suggestion will be empty")
	}

	switch {
	case f.http:
		server.SetDebugMode(f.debug)
		svc := server.NewService(engine, cfg.Server, logger.New("http"))
		showStartupInfo("http "+cfg.Server.HTTPAddr, cfg.Corpus, stats)
		if err := server.ListenAndServe(ctx, cfg.Server.HTTPAddr, server.NewRouter(svc)); err != nil {
			log.Fatalf("HTTP server failed: %v", err)
		}
		fmt.Fprintln(os.Stderr, cli.ShutdownNotice)

	case f.ipc:
		stop()
		sigHandler(os.Stderr)
		svc := server.NewService(engine, cfg.Server, logger.New("ipc"))
		showStartupInfo("ipc", cfg.Corpus, stats)
		if err := server.NewServer(svc, os.Stdin, os.Stdout).Start(); err != nil {
			log.Fatalf("IPC server failed: %v", err)
		}

	default:
		stop()
		sigHandler(os.Stdout)
		log.SetReportTimestamp(false)
		handler := cli.NewInputHandler(engine, cfg.CLI.MaxResults, os.Stdin, os.Stdout)
		if err := handler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
	}
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(mode string, src config.CorpusConfig, stats suggest.TrainStats) {
	l := logger.Default(AppName)
	l.SetLevel(log.InfoLevel)

	l.Infof("Version: %s", Version)
	l.Infof("Process ID: [ %d ]", os.Getpid())
	l.Infof("mode: %s", mode)
	l.Infof("corpus: %s ( %s )", src.Source, src.Path)
	l.Infof("vocabulary: %s words, %s tokens",
		utils.FormatWithCommas(stats.Vocabulary), utils.FormatWithCommas(stats.Tokens))
	l.Info("status: ready")
	l.Info("Press Ctrl+C to exit")
}
