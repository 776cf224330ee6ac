// Package main is the scholar CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/scholar/internal/cli"
	"github.com/hyperjump/scholar/internal/config"
	"github.com/hyperjump/scholar/internal/index"
	"github.com/hyperjump/scholar/internal/models"
	"github.com/hyperjump/scholar/internal/server"
	"github.com/hyperjump/scholar/internal/storage"
	"github.com/hyperjump/scholar/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "config.yaml"

// loadConfig loads config from path. The default path is optional: when it
// does not exist the built-in defaults, resolved against the working
// directory, are used. Returns the config and the path that was loaded
// ("" for built-in defaults).
func loadConfig(path string) (*config.Config, string, error) {
	optional := path == defaultConfigPath
	cfg, err := config.LoadOrDefault(path, optional)
	if err != nil {
		return nil, "", err
	}
	if _, statErr := os.Stat(path); statErr != nil {
		return cfg, "", nil
	}
	return cfg, path, nil
}

// setup loads config and creates the logger for a subcommand.
func setup(configPath string, debug bool) (*config.Config, *zap.Logger) {
	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("config loaded",
		zap.String("config_path", resolved),
		zap.Bool("debug", debugMode),
	)
	return cfg, logger
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "build":
		runBuild()
	case "query":
		runQuery()
	case "search":
		runSearch()
	case "serve", "server":
		runServer()
	case "status":
		runStatus()
	case "init":
		runInit()
	case "version", "--version", "-v":
		fmt.Printf("scholar version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runBuild() {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	workers := fs.Int("workers", 0, "parallel analysis workers (0 = config or GOMAXPROCS)")
	snapshot := fs.String("snapshot", "", "also write a bolt snapshot to this path")
	_ = fs.Parse(os.Args[2:])

	cfg, logger := setup(*configPath, *debug)
	defer logger.Sync()
	if *workers > 0 {
		cfg.Build.Workers = *workers
	}
	if *snapshot != "" {
		cfg.Index.BoltPath = *snapshot
	}

	ctx, cancel := signalContext()
	defer cancel()
	start := time.Now()
	res, err := buildIndex(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Build failed", zap.Error(err))
	}
	stats := res.Index.Stats()
	fmt.Printf("Indexed %d documents: %d terms, %d postings (%s)\n",
		res.Documents, stats.Terms, stats.Postings, time.Since(start).Round(time.Millisecond))
}

func runQuery() {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	limit := fs.Int("limit", 0, "number of results (0 = search.top_k)")
	fromSnapshot := fs.Bool("snapshot", false, "load the index from the bolt snapshot")
	_ = fs.Parse(os.Args[2:])

	cfg, logger := setup(*configPath, *debug)
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, *fromSnapshot)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	ctx, cancel := signalContext()
	defer cancel()
	session := cli.NewSession(components.Engine, components.Recorder,
		cli.WithLimit(*limit),
		cli.WithLogger(logger),
	)
	if err := session.Run(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("Query loop failed", zap.Error(err))
	}
}

func runServer() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	fromSnapshot := fs.Bool("snapshot", false, "load the index from the bolt snapshot")
	_ = fs.Parse(os.Args[2:])

	cfg, logger := setup(*configPath, *debug)
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, *fromSnapshot)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	opts := []server.Option{
		server.WithRecorder(components.Recorder),
		server.WithArtifacts(artifacts(cfg)),
	}
	if components.Store != nil {
		opts = append(opts, server.WithFeedbackStore(components.Store))
	}
	srv := server.NewServer(components.Engine, &cfg.Server, logger, opts...)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// printSearchUsage prints search subcommand usage.
func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: scholar search [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  scholar search 图神经网络
  scholar search --limit 5 深度学习 推荐
  scholar search --output json --server http://localhost:8080 知识图谱
`)
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves any flags (and their values) that appear after the
// query to the front so that flag.Parse sees them; the flag package stops at
// the first non-flag argument.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = load corpus and index directly)")
	limit := fs.Int("limit", 0, "number of results (0 = search.top_k)")
	fromSnapshot := fs.Bool("snapshot", false, "load the index from the bolt snapshot")
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgsReorder(os.Args[2:]))

	queryStr := buildSearchQuery(fs.Args())
	if queryStr == "" {
		printSearchUsage(fs)
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	searchQuery := &models.SearchQuery{Query: queryStr, Limit: *limit}

	var response *models.SearchResponse
	if *serverURL != "" {
		response, err = searchViaHTTP(*serverURL, searchQuery)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg, logger := setup(*configPath, false)
		defer logger.Sync()
		components, err := initializeComponents(cfg, logger, *fromSnapshot)
		if err != nil {
			logger.Fatal("Failed to initialize", zap.Error(err))
		}
		defer components.Close()
		response, err = components.Engine.Search(context.Background(), searchQuery)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func searchViaHTTP(serverURL string, query *models.SearchQuery) (*models.SearchResponse, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(strings.TrimRight(serverURL, "/")+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

// statusResponse is the shape of GET /api/v1/status. Snapshot is only filled
// in local mode.
type statusResponse struct {
	Documents      int                 `json:"documents"`
	Terms          int                 `json:"terms"`
	Postings       int                 `json:"postings"`
	Feedback       *int64              `json:"feedback,omitempty"`
	Artifacts      []storage.Artifact  `json:"artifacts,omitempty"`
	DiskUsageBytes int64               `json:"disk_usage_bytes"`
	Snapshot       *index.SnapshotInfo `json:"snapshot,omitempty"`
}

// collectStatus gathers status from the files named in cfg without building
// an engine.
func collectStatus(ctx context.Context, cfg *config.Config) (*statusResponse, error) {
	docs, err := storage.LoadCorpus(cfg.Corpus.Path)
	if err != nil {
		return nil, err
	}
	idx, err := index.ReadFile(cfg.Index.Path)
	if err != nil {
		return nil, err
	}
	stats := idx.Stats()
	status := &statusResponse{
		Documents: len(docs),
		Terms:     stats.Terms,
		Postings:  stats.Postings,
	}

	if cfg.Index.BoltPath != "" {
		if _, err := os.Stat(cfg.Index.BoltPath); err == nil {
			store, err := index.OpenBoltStore(cfg.Index.BoltPath)
			if err != nil {
				return nil, err
			}
			info, err := store.Info()
			_ = store.Close()
			if err != nil {
				return nil, err
			}
			status.Snapshot = &info
		}
	}

	if cfg.Feedback.DatabasePath != "" {
		db, err := storage.NewSQLiteStorage(cfg.Feedback.DatabasePath)
		if err != nil {
			return nil, err
		}
		n, err := db.CountFeedback(ctx)
		_ = db.Close()
		if err != nil {
			return nil, err
		}
		status.Feedback = &n
	}

	arts, err := storage.StatArtifacts(artifacts(cfg))
	if err != nil {
		return nil, err
	}
	status.Artifacts = arts
	status.DiskUsageBytes = storage.TotalBytes(arts)
	return status, nil
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = read local files)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status *statusResponse
	var err error
	if *serverURL != "" {
		status, err = statusViaHTTP(*serverURL)
	} else {
		cfg, logger := setup(*configPath, false)
		defer logger.Sync()
		status, err = collectStatus(context.Background(), cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		writeStatusText(os.Stdout, status)
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func writeStatusText(w io.Writer, status *statusResponse) {
	fmt.Fprintf(w, "documents:          %d   # papers in the corpus\n", status.Documents)
	fmt.Fprintf(w, "terms:              %d   # distinct index terms\n", status.Terms)
	fmt.Fprintf(w, "postings:           %d   # (term, document) pairs\n", status.Postings)
	if status.Feedback != nil {
		fmt.Fprintf(w, "feedback:           %d   # stored feedback entries\n", *status.Feedback)
	}
	fmt.Fprintf(w, "disk_usage_bytes:   %d\n", status.DiskUsageBytes)
	if status.Snapshot != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "# snapshot")
		fmt.Fprintf(w, "built_at:           %s\n", status.Snapshot.BuiltAt.Format(time.RFC3339))
		fmt.Fprintf(w, "documents:          %d\n", status.Snapshot.Documents)
		fmt.Fprintf(w, "terms:              %d\n", status.Snapshot.Stats.Terms)
	}
	if len(status.Artifacts) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "# artifacts")
		for _, a := range status.Artifacts {
			if a.Path == "" {
				continue
			}
			state := "missing"
			if a.Exists {
				state = fmt.Sprintf("%d bytes", a.Bytes)
			}
			fmt.Fprintf(w, "%-18s  %s (%s)\n", a.Name+":", a.Path, state)
		}
	}
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(strings.TrimRight(serverURL, "/") + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

// writeDefaultConfig writes the built-in configuration to path, refusing to
// replace an existing file unless force is set. Paths are written relative
// to the config file.
func writeDefaultConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use -force to overwrite)", path)
	}
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return config.Save(path, cfg)
}

func runInit() {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path to create")
	force := fs.Bool("force", false, "overwrite an existing config file")
	_ = fs.Parse(os.Args[2:])

	if err := writeDefaultConfig(*configPath, *force); err != nil {
		fmt.Fprintf(os.Stderr, "Init failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", *configPath)
}

func printUsage() {
	fmt.Println(`scholar - paper corpus index builder and search engine

Usage:
  scholar build [flags]           Build the inverted index from the corpus
  scholar query [flags]           Interactive search with feedback (rate, exit)
  scholar search [flags] <query>  One-shot search
  scholar serve [flags]           Start the HTTP server
  scholar status [flags]          Show corpus/index/feedback status
  scholar init [flags]            Write a default config file
  scholar version                 Show version
  scholar help                    Show this help

Common Flags:
  --config string    Config file path (default: ./config.yaml, built-in defaults if absent)
  --debug            Enable debug logging (build, query, serve)

Build Flags:
  --workers int      Parallel analysis workers (default: build.workers or GOMAXPROCS)
  --snapshot string  Also write a bolt snapshot to this path

Query / Search / Serve Flags:
  --snapshot         Load the index from the bolt snapshot instead of the JSON file
  --limit int        Number of results (query, search; default: search.top_k)

Search Flags:
  --server string    Server URL; empty loads corpus and index directly
  --output string    Output format: text or json (default: text)

Status Flags:
  --server string    Server URL; empty reads local files
  --output string    Output format: text or json (default: text)

Examples:
  scholar init
  scholar build
  scholar query
  scholar search 图神经网络
  scholar serve --config /etc/scholar/config.yaml`)
}
