package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/hpungsan/moodlog/internal/config"
	"github.com/hpungsan/moodlog/internal/db"
	"github.com/hpungsan/moodlog/internal/logging"
	"github.com/hpungsan/moodlog/internal/mcp"
	"github.com/hpungsan/moodlog/internal/ops"
	"github.com/hpungsan/moodlog/internal/store"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"save": true, "log": true, "get": true, "list": true,
	"weeks": true, "recent": true, "report": true,
	"emotions": true, "debug": true,
	"export": true, "import": true, "web": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v"
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
  moodlog · a daily mood diary

  Usage: moodlog <command> [options]
         moodlog --help

  Try:   moodlog save -r Grief=3 -r Hopefulness=8 --notes "long walk"
         moodlog report
         moodlog web

  MCP server mode requires piped input.`)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion() {
		app := newCLIApp(ops.Deps{})
		if err := app.Run(os.Args); err != nil {
			fatal("%v", err)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if !isCLIMode() && len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'moodlog --help' for usage.\n")
		os.Exit(1)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fatal("could not determine home directory: %v", err)
	}
	baseDir := filepath.Join(homeDir, config.DirName)

	cwd, _ := os.Getwd()
	cfg, err := config.LoadWithRepo(baseDir, cwd)
	if err != nil {
		fatal("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		fatal("%v", err)
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		fatal("%v", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fatal("failed to build logger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	database, err := db.Init(baseDir)
	if err != nil {
		fatal("failed to initialize database: %v", err)
	}
	defer database.Close()
	db.ConfigurePool(database, cfg)

	deps := ops.Deps{
		Store:  store.New(db.NewSlots(database), catalog, store.WithLogger(log)),
		Config: cfg,
		Log:    log,
	}

	if isCLIMode() {
		app := newCLIApp(deps)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// MCP server mode (default)
	log.Debug("starting MCP server", zap.String("version", Version))
	if err := mcp.Run(deps, Version); err != nil {
		log.Error("MCP server stopped", zap.Error(err))
		fatal("%v", err)
	}
}
