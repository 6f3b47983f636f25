// Package main is the metaboost CLI entry point.
package main

import (
	"bytes"
	"context"
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

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/hyperjump/metaboost/internal/analysis"
	"github.com/hyperjump/metaboost/internal/cli"
	"github.com/hyperjump/metaboost/internal/config"
	"github.com/hyperjump/metaboost/internal/models"
	"github.com/hyperjump/metaboost/internal/pipeline"
	"github.com/hyperjump/metaboost/internal/quality"
	"github.com/hyperjump/metaboost/internal/recommend"
	"github.com/hyperjump/metaboost/internal/server"
	"github.com/hyperjump/metaboost/internal/vector"
	"github.com/hyperjump/metaboost/internal/watcher"
	"github.com/hyperjump/metaboost/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/metaboost/config.yaml"

// loadConfig loads config from path. When path is the default, config.yaml in the
// current directory wins if it exists, and a missing default file yields built-in defaults.
// Returns the config and the path that was actually loaded ("" for built-in defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, err := os.Getwd(); err == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, err := os.Stat(fallback); err == nil {
				cfg, err := config.Load(fallback)
				if err != nil {
					return nil, "", err
				}
				return cfg, fallback, nil
			}
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return config.Default(), "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "report":
		runReport()
	case "recommend":
		runRecommend()
	case "version", "--version", "-v":
		fmt.Printf("metaboost version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// Components holds the wired analysis and recommendation stack.
type Components struct {
	Index    *vector.Index
	Engine   *recommend.Engine
	Pipeline *pipeline.Service
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	analyzer, err := analysis.NewAnalyzer()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize text analyzer: %w", err)
	}
	index := vector.NewIndex(analyzer,
		vector.WithLogger(logger),
		vector.WithFitOptions(vector.FitOptions{
			MaxFeatures:    cfg.Index.MaxFeatures,
			QueryCacheSize: cfg.Index.QueryCacheSize,
		}),
	)
	engine := recommend.NewEngine(index, vector.NewRanker(cfg.Index.Workers), &cfg.Recommend, logger)
	svc := pipeline.NewService(quality.NewAnalyzer(&cfg.Scoring), index,
		pipeline.WithLogger(logger),
		pipeline.WithCatalogPaths(cfg.Catalog.Paths),
	)
	return &Components{Index: index, Engine: engine, Pipeline: svc}, nil
}

// catalogPaths returns args as absolute paths when given, else the configured paths.
func catalogPaths(args []string, configured []string) []string {
	if len(args) == 0 {
		return configured
	}
	paths := make([]string, 0, len(args))
	for _, a := range args {
		if abs, err := filepath.Abs(a); err == nil {
			paths = append(paths, abs)
		} else {
			paths = append(paths, a)
		}
	}
	return paths
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (catalog reloads, index builds, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg.Catalog.Paths = catalogPaths(fs.Args(), cfg.Catalog.Paths)
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLoggerWithLevel(debugMode, cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
		zap.Strings("catalogs", cfg.Catalog.Paths),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// An unreadable catalog at startup leaves the index unfit; queries answer 503 until a reload succeeds.
	if len(cfg.Catalog.Paths) > 0 {
		if _, err := components.Pipeline.Reload(ctx); err != nil {
			logger.Error("initial catalog load failed", zap.Error(err))
		}
	} else {
		logger.Warn("no catalog paths configured")
	}

	var watchSvc server.WatchService
	if cfg.Catalog.Watch && len(cfg.Catalog.Paths) > 0 {
		watchOpts := []watcher.WatcherOption{
			watcher.WithDebounce(time.Duration(cfg.Catalog.DebounceMS) * time.Millisecond),
		}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		w := watcher.NewWatcher(cfg.Catalog.Paths, components.Pipeline.OnCatalogChange, watchOpts...)
		if err := w.Start(ctx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer w.Stop()
		watchSvc = w
	}

	srv := server.NewServer(components.Engine, components.Pipeline, &cfg.Server, logger, watchSvc)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
}

func runReport() {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text (summary and problems), compact (one dataset per line), or json")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: metaboost report [flags] [catalog files...]\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(argsReorder(fs, os.Args[2:]))

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg.Catalog.Paths = catalogPaths(fs.Args(), cfg.Catalog.Paths)
	if len(cfg.Catalog.Paths) == 0 {
		fs.Usage()
		os.Exit(1)
	}
	logger, err := utils.NewLoggerWithLevel(cfg.Debug, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	report, err := components.Pipeline.Reload(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteReport(os.Stdout, report, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// joinArgs joins positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves flags (and their values) to the front so that fs.Parse sees
// them, keeping the positional arguments in their original order. The flag
// package stops at the first non-flag argument. Everything after "--" is
// positional.
func argsReorder(fs *flag.FlagSet, args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			positional = append(positional, args[i+1:]...)
			return append(append(flags, "--"), positional...)
		}
		if len(a) < 2 || a[0] != '-' {
			positional = append(positional, a)
			continue
		}
		flags = append(flags, a)
		name := strings.TrimLeft(a, "-")
		if strings.Contains(name, "=") {
			continue
		}
		if takesValue(fs, name) && i+1 < len(args) {
			i++
			flags = append(flags, args[i])
		}
	}
	return append(flags, positional...)
}

func takesValue(fs *flag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	if f == nil {
		return false
	}
	if bf, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && bf.IsBoolFlag() {
		return false
	}
	return true
}

// buildRecommendQuery turns recommend flags into a query. A negative minSimilarity
// leaves the threshold to the configured default.
func buildRecommendQuery(id, category string, args []string, limit int, minSimilarity float64) *models.RecommendQuery {
	q := &models.RecommendQuery{
		ID:       strings.TrimSpace(id),
		Text:     joinArgs(args),
		Category: strings.TrimSpace(category),
		Limit:    limit,
	}
	if minSimilarity >= 0 {
		q.MinSimilarity = &minSimilarity
	}
	return q
}

func runRecommend() {
	fs := flag.NewFlagSet("recommend", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for local mode)")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = load the configured catalogs locally)")
	id := fs.String("id", "", "recommend datasets similar to this dataset id")
	category := fs.String("category", "", "recommend the most representative datasets of this category")
	limit := fs.Int("limit", 0, "number of recommendations (0 = configured default)")
	minSimilarity := fs.Float64("min-similarity", -1, "minimum similarity for id and text queries (negative = configured default)")
	outputFormat := fs.String("output", "text", "output format: text, compact (one result per line), or json")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: metaboost recommend [flags] [free text...]\n\n")
		fmt.Fprintf(fs.Output(), "Exactly one of --id, free text, or --category selects the query; --id wins over text, text over --category.\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(argsReorder(fs, os.Args[2:]))

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	query := buildRecommendQuery(*id, *category, fs.Args(), *limit, *minSimilarity)
	if _, err := query.Mode(); err != nil {
		fs.Usage()
		os.Exit(1)
	}

	var response *models.RecommendResponse
	if *serverURL != "" {
		response, err = recommendViaHTTP(*serverURL, query)
	} else {
		response, err = recommendLocal(*configPath, query)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Recommend failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteRecommendations(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func recommendLocal(configPath string, query *models.RecommendQuery) (*models.RecommendResponse, error) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := utils.NewLoggerWithLevel(cfg.Debug, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	if _, err := components.Pipeline.Reload(ctx); err != nil {
		return nil, err
	}
	return components.Engine.Recommend(ctx, query)
}

func recommendViaHTTP(serverURL string, query *models.RecommendQuery) (*models.RecommendResponse, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(strings.TrimRight(serverURL, "/")+"/api/v1/recommendations", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	var response models.RecommendResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func printUsage() {
	fmt.Println(`metaboost - Open-data catalog quality scoring and dataset recommendations

Usage:
  metaboost server [flags] [catalogs...]     Analyze catalogs and serve the HTTP API
  metaboost report [flags] [catalogs...]     Print a quality report for catalog files
  metaboost recommend [flags] [text...]      Recommend datasets by id, text, or category
  metaboost version                          Show version
  metaboost help                             Show this help

Catalog files may be .json, .csv (semicolon separated), .xlsx, or .db/.sqlite (datasets table).
When no catalogs are given, the paths from the config file are used.

Server Flags:
  --config string    Config file path (default: /usr/local/etc/metaboost/config.yaml)
  --debug            Enable debug logging

Report Flags:
  --config string    Config file path
  --output string    Output format: text, compact, or json (default: text)

Recommend Flags:
  --config string          Config file path (for local mode)
  --server string          Server URL (default: http://localhost:8080). Use --server "" to load catalogs locally.
  --id string              Dataset id to find similar datasets for
  --category string        Category to list representative datasets for
  --limit int              Number of recommendations (default from config, or 5)
  --min-similarity float   Minimum similarity (default from config, or 0.1)
  --output string          Output format: text, compact, or json (default: text)

Examples:
  metaboost server --config config.yaml
  metaboost report catalog.csv
  metaboost report --output json catalog.json
  metaboost recommend public transport madrid
  metaboost recommend --id bus-lines --limit 3
  metaboost recommend --category Transporte --output compact`)
}
