// cmd/evscout/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/evscout/evscout/internal/checkpoint"
	"github.com/evscout/evscout/internal/config"
	"github.com/evscout/evscout/internal/errors"
	"github.com/evscout/evscout/internal/pipeline"
	"github.com/evscout/evscout/internal/utils"
)

// Version information (set by build flags)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

var errorService = errors.NewService()

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "run":
		runScraper(requireConfigArg("run"))

	case "validate":
		validateConfig(requireConfigArg("validate"))

	case "status":
		showStatus(requireConfigArg("status"))

	case "clear-checkpoint":
		clearCheckpoint(requireConfigArg("clear-checkpoint"))

	case "template":
		printTemplate()

	case "version", "--version":
		printVersion()

	case "help", "--help", "-h":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command '%s'\n", command)
		printUsage()
		os.Exit(1)
	}
}

func requireConfigArg(command string) string {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "Error: config file required\n")
		fmt.Fprintf(os.Stderr, "Usage: evscout %s <config.yaml>\n", command)
		os.Exit(1)
	}
	return os.Args[2]
}

func runScraper(configFile string) {
	verbose := hasFlag("-v") || hasFlag("--verbose")
	errorService = errorService.WithVerbose(verbose)

	cfg, err := config.LoadFromFile(configFile)
	if err != nil {
		fail(err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	logger := loggerFor(cfg.LogLevel)
	runner := pipeline.NewRunner(cfg, logger)

	// Ctrl-C stops after the source in flight; the checkpoint keeps
	// everything already finished.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := runner.Run(ctx)
	printSummary(summary)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Println("Interrupted; finished sources are checkpointed. Rerun to resume.")
			os.Exit(130)
		}
		fail(err)
	}
}

func validateConfig(configFile string) {
	verbose := hasFlag("-v") || hasFlag("--verbose")
	errorService = errorService.WithVerbose(verbose)

	cfg, err := config.LoadFromFile(configFile)
	if err != nil {
		fail(err)
	}

	if verbose {
		fmt.Printf("Configuration details:\n")
		fmt.Printf("  Name: %s\n", cfg.Name)
		fmt.Printf("  Catalog: %s\n", cfg.CatalogPath)
		fmt.Printf("  Checkpoint: %s\n", cfg.Checkpoint.Path)
		fmt.Printf("  Output format: %s\n", cfg.Output.Format)
	}
	fmt.Printf("Configuration file '%s' is valid\n", configFile)
}

func showStatus(configFile string) {
	cfg, err := config.LoadFromFile(configFile)
	if err != nil {
		fail(err)
	}

	cp := checkpoint.NewManager(cfg.Checkpoint.Path, loggerFor("error"))
	if !cp.Load() {
		fmt.Printf("No checkpoint at %s; next run starts fresh\n", cfg.Checkpoint.Path)
		return
	}
	progress := cp.GetProgress()
	fmt.Printf("Checkpoint: %s\n", cfg.Checkpoint.Path)
	fmt.Printf("  Completed sources: %d\n", progress.CompletedSources)
	fmt.Printf("  Scraped listings: %d\n", progress.ScrapedListings)
	if progress.StartTime != nil {
		fmt.Printf("  Run started: %s\n", progress.StartTime.Format("2006-01-02 15:04:05"))
	}
	if progress.LastUpdate != nil {
		fmt.Printf("  Last update: %s\n", progress.LastUpdate.Format("2006-01-02 15:04:05"))
	}
}

func clearCheckpoint(configFile string) {
	cfg, err := config.LoadFromFile(configFile)
	if err != nil {
		fail(err)
	}

	cp := checkpoint.NewManager(cfg.Checkpoint.Path, loggerFor("error"))
	if err := cp.Clear(); err != nil {
		fail(err)
	}
	fmt.Printf("Checkpoint %s cleared; next run starts fresh\n", cfg.Checkpoint.Path)
}

func printTemplate() {
	cfg := config.Default("dealerships.csv")
	data, err := yaml.Marshal(cfg)
	if err != nil {
		fail(err)
	}
	fmt.Print(string(data))
}

func printSummary(s *pipeline.Summary) {
	if s == nil {
		return
	}
	fmt.Println()
	fmt.Printf("Run finished in %s\n", s.Elapsed.Round(time.Second))
	fmt.Printf("  Sources: %d (%d skipped, %d failed)\n", s.Sources, s.SourcesSkipped, s.SourcesFailed)
	fmt.Printf("  Records: %d extracted, %d accepted, %d rejected\n",
		s.RecordsExtracted, s.RecordsAccepted, s.RecordsRejected)
	fmt.Printf("  Duplicates removed: %d\n", s.Duplicates)
	fmt.Printf("  Written to output: %d\n", s.RecordsWritten)
	if s.Report != nil && s.Report.Total > 0 {
		fmt.Println()
		s.Report.Write(os.Stdout)
	}
}

func loggerFor(level string) utils.Logger {
	return utils.NewLoggerWithLevel(utils.ParseLevel(level))
}

func fail(err error) {
	fmt.Fprint(os.Stderr, errorService.FormatErrorForCLI(err))
	os.Exit(errorService.GetExitCode(err))
}

func hasFlag(flag string) bool {
	for _, arg := range os.Args {
		if arg == flag {
			return true
		}
	}
	return false
}

func printUsage() {
	fmt.Println("evscout - Portland-area EV inventory scraper")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  evscout run <config.yaml>               Scrape every dealership in the catalog")
	fmt.Println("  evscout validate <config.yaml>          Validate a configuration file")
	fmt.Println("  evscout status <config.yaml>            Show checkpoint progress")
	fmt.Println("  evscout clear-checkpoint <config.yaml>  Delete the checkpoint and start fresh")
	fmt.Println("  evscout template                        Print a starter configuration")
	fmt.Println("  evscout version                         Show version information")
	fmt.Println("  evscout help                            Show this help message")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -v, --verbose                           Enable verbose output")
}

func printVersion() {
	fmt.Printf("evscout %s\n", version)
	fmt.Printf("Build time: %s\n", buildTime)
	fmt.Printf("Git commit: %s\n", gitCommit)
}
