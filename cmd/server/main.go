package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"

	"github.com/polarplant/ecboard/pkg/api"
	"github.com/polarplant/ecboard/pkg/catalog"
	"github.com/polarplant/ecboard/pkg/chassis"
	"github.com/polarplant/ecboard/pkg/dataset"
	"github.com/polarplant/ecboard/pkg/fsmatch"
)

type config struct {
	Addr          string `yaml:"addr"`
	DataDir       string `yaml:"data_dir"`
	GroupsFile    string `yaml:"groups_file"`
	CatalogDB     string `yaml:"catalog_db"` // empty = catalog disabled
	CSVEncoding   string `yaml:"csv_encoding"`
	ResolvePolicy string `yaml:"resolve_policy"` // "sorted" (default) or "readdir"
	CertFile      string `yaml:"cert_file"`
	KeyFile       string `yaml:"key_file"`
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "export":
		cmdExport(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: ecboard <command>\n\nCommands:\n  serve    Start the dashboard server\n  export   Export one group's growth table to an XLSX file\n")
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg := loadConfig(*cfgPath, logger)

	groups, err := dataset.LoadGroups(cfg.GroupsFile)
	if err != nil {
		logger.Error("failed to load groups", "error", err)
		os.Exit(1)
	}

	var cat *catalog.DB
	if cfg.CatalogDB != "" {
		cat, err = catalog.Open(cfg.CatalogDB)
		if err != nil {
			logger.Error("failed to open catalog", "path", cfg.CatalogDB, "error", err)
			os.Exit(1)
		}
		defer cat.Close()
	}

	store := dataset.NewStore(dataset.Config{
		DataDir:  cfg.DataDir,
		Groups:   groups,
		Encoding: cfg.CSVEncoding,
		Resolver: fsmatch.Resolver{Policy: fsmatch.ParsePolicy(cfg.ResolvePolicy)},
		Catalog:  cat,
		Logger:   logger,
	})
	if err := store.Load(); err != nil {
		if errors.Is(err, dataset.ErrNoData) {
			// Serve anyway; endpoints report 503 until data appears and a
			// SIGHUP (or restart) picks it up.
			logger.Warn("no datasets found", "data_dir", cfg.DataDir)
		} else {
			logger.Error("failed to load datasets", "error", err)
			os.Exit(1)
		}
	}

	router := api.NewRouter(store, cat, logger)

	mcpSrv := mcpserver.NewMCPServer("ecboard", "1.0.0")
	api.RegisterMCPTools(mcpSrv, store, cat)

	srv, err := chassis.New(chassis.Config{
		Addr:      cfg.Addr,
		CertFile:  cfg.CertFile,
		KeyFile:   cfg.KeyFile,
		Handler:   router,
		MCPServer: mcpSrv,
		Logger:    logger,
	})
	if err != nil {
		logger.Error("failed to build server", "error", err)
		os.Exit(1)
	}

	// SIGHUP: re-scan the data directory.
	// SIGINT/SIGTERM: graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	go func() {
		for range sighup {
			logger.Info("SIGHUP received, reloading datasets")
			if err := store.Reload(); err != nil {
				logger.Warn("reload found no data", "error", err)
			}
		}
	}()

	if err := srv.Start(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Stop(shutdownCtx)
}

func loadConfig(path string, logger *slog.Logger) config {
	cfg := config{
		Addr:       ":8443",
		DataDir:    "data",
		GroupsFile: "groups.yaml",
		CatalogDB:  "ecboard.db",
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("no config file, using defaults", "path", path)
			return cfg
		}
		logger.Error("read config", "error", err)
		os.Exit(1)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Error("parse config", "error", err)
		os.Exit(1)
	}
	return cfg
}
