package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lookbusy1344/regdeps-toolkit/api"
	"github.com/lookbusy1344/regdeps-toolkit/debugger"
	"github.com/lookbusy1344/regdeps-toolkit/regdeps"
	"github.com/lookbusy1344/regdeps-toolkit/stream"
	"github.com/lookbusy1344/regdeps-toolkit/trace"
	"github.com/lookbusy1344/regdeps-toolkit/tools"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		tuiMode     = flag.Bool("tui", false, "Browse the trace with the TUI")
		apiServer   = flag.Bool("api-server", false, "Start HTTP API server mode")
		apiPort     = flag.Int("port", 8080, "API server port (used with -api-server)")
		lintMode    = flag.Bool("lint", false, "Run the structural linter and exit")
		statsMode   = flag.Bool("stats", false, "Print category statistics and exit")
		topN        = flag.Int("top", debugger.DefaultTopCategories, "Number of categories to show with -stats")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("regdeps-toolkit %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	if *apiServer {
		runAPIServer(*apiPort)
		return
	}

	if flag.NArg() == 0 {
		printHelp()
		os.Exit(0)
	}

	tracePath := flag.Arg(0)
	insts, err := stream.Load(tracePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading trace: %v\n", err)
		os.Exit(1)
	}

	if *lintMode {
		runLint(insts)
		return
	}

	if *statsMode {
		runStats(insts, *topN)
		return
	}

	browser := debugger.NewBrowser(insts)

	if *tuiMode {
		if err := debugger.RunTUI(browser); err != nil {
			fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := debugger.RunCLI(browser); err != nil {
		fmt.Fprintf(os.Stderr, "CLI error: %v\n", err)
		os.Exit(1)
	}
}

func runLint(insts []*regdeps.Instruction) {
	issues := tools.Lint(insts)
	for _, issue := range issues {
		fmt.Println(issue.String())
	}
	if len(issues) == 0 {
		fmt.Println("no issues found")
	}
}

func runStats(insts []*regdeps.Instruction, topN int) {
	stats := trace.NewCategoryStats()
	stats.Analyze(insts)

	fmt.Printf("%d instructions total\n", stats.TotalInstructions)
	for _, c := range stats.TopCategories(topN) {
		fmt.Printf("%-20s %d\n", c.Category.String(), c.Count)
	}
}

func runAPIServer(port int) {
	server := api.NewServer(port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	performShutdown := func() {
		fmt.Println("\nShutting down API server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("API server stopped")
		os.Exit(0)
	}

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "API server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-sigChan
	performShutdown()
}

func printHelp() {
	fmt.Printf(`regdeps-toolkit %s

Usage: regdeps-toolkit [options] <trace-file>
       regdeps-toolkit -api-server [-port N]

Options:
  -help          Show this help message
  -version       Show version information
  -tui           Browse the trace with the TUI instead of the line CLI
  -lint          Run the structural linter over the trace and exit
  -stats         Print the top instruction categories and exit
  -top N         Number of categories to show with -stats (default %d)
  -api-server    Start HTTP API server mode (no trace file required)
  -port N        API server port (default: 8080, used with -api-server)

Examples:
  # Browse a decoded trace interactively
  regdeps-toolkit trace.regdeps

  # Browse with the TUI
  regdeps-toolkit -tui trace.regdeps

  # Run the structural linter
  regdeps-toolkit -lint trace.regdeps

  # Start the HTTP + WebSocket API server for remote tools
  regdeps-toolkit -api-server -port 3000
`, Version, debugger.DefaultTopCategories)
}
