package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fiiotools/autoeq-fiio/internal/config"
	"github.com/fiiotools/autoeq-fiio/internal/convert"
	"github.com/fiiotools/autoeq-fiio/internal/model"
)

func main() {
	// Command line flags
	var (
		searchFlag    = flag.String("search", "", "Search term for headphone profiles")
		nameFlag      = flag.String("name", "", "Exact headphone name to convert")
		allFlag       = flag.Bool("all", false, "Convert every matching profile")
		listFlag      = flag.Bool("list", false, "List matching profiles without converting")
		modelFlag     = flag.String("model", "", "Target DSP model name (overrides config)")
		outputFlag    = flag.String("output", "", "Output directory (overrides config)")
		configFlag    = flag.String("config", "", "Path to config file")
		cacheDirFlag  = flag.String("cache-dir", "", "Index cache directory (overrides config)")
		usePreampFlag = flag.Bool("use-preamp", true, "Use the profile preamp as master gain (false emits 0)")
		verboseFlag   = flag.Bool("verbose", false, "Show verbose output")
	)

	flag.Parse()

	// CLI mode - require a search term or name
	if *searchFlag == "" && *nameFlag == "" && flag.NArg() == 0 {
		fmt.Println("AutoEq to FiiO Converter - Generate FiiO DSP profiles from AutoEq")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  autoeq-fiio -search <term> [options]")
		fmt.Println("  autoeq-fiio -name \"<exact headphone name>\" [options]")
		fmt.Println("  autoeq-fiio <term> [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: autoeq-fiio-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *modelFlag != "" {
		settings.DSPModel = *modelFlag
	}
	if *outputFlag != "" {
		settings.OutputDir = *outputFlag
	}
	if *cacheDirFlag != "" {
		settings.CacheDir = *cacheDirFlag
	}
	settings.UsePreampGain = *usePreampFlag

	// Get search term
	term := *searchFlag
	if term == "" && flag.NArg() > 0 {
		term = strings.Join(flag.Args(), " ")
	}
	if *nameFlag != "" {
		term = *nameFlag
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	// Create manager with progress callback
	manager := convert.NewManager(settings, func(event convert.ProgressEvent) {
		if event.Level == convert.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := ""
		switch event.Level {
		case convert.LevelError:
			prefix = "❌ "
		case convert.LevelWarning:
			prefix = "⚠️  "
		case convert.LevelSuccess:
			prefix = "✅ "
		case convert.LevelInfo:
			prefix = "ℹ️  "
		default:
			prefix = "   "
		}

		fmt.Println(prefix + event.Message)
	})

	fmt.Printf("🎧 AutoEq → FiiO Converter (target: %s)\n\n", settings.DSPModel)

	if err := manager.LoadIndex(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading index: %v\n", err)
		os.Exit(1)
	}

	matches := manager.Search(term)
	if *nameFlag != "" {
		matches = exactMatch(manager, *nameFlag)
	}
	if len(matches) == 0 {
		fmt.Fprintf(os.Stderr, "No profiles match %q\n", term)
		os.Exit(1)
	}

	if *listFlag {
		for _, entry := range matches {
			fmt.Println(entry.Name)
		}
		return
	}

	if len(matches) > 1 && !*allFlag {
		fmt.Printf("%d profiles match %q:\n\n", len(matches), term)
		for _, entry := range matches {
			fmt.Printf("  %s\n", entry.Name)
		}
		fmt.Println("\nNarrow the search, use -name for an exact match, or pass -all to convert every match.")
		os.Exit(1)
	}

	results, err := manager.ConvertAll(ctx, matches)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nConversion cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error during conversion: %v\n", err)
		os.Exit(1)
	}

	saved := 0
	for _, result := range results {
		if err := manager.Save(result); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving %s: %v\n", result.OutputPath, err)
			continue
		}
		saved++
	}

	fmt.Println()
	fmt.Printf("✨ Complete! Converted %d/%d profiles\n", saved, len(matches))
	if saved == 0 {
		os.Exit(1)
	}
}

// exactMatch narrows the index down to the single entry whose name equals
// name (case-insensitive), or nothing when the index has no such entry.
func exactMatch(manager *convert.Manager, name string) []model.Entry {
	for _, entry := range manager.Entries() {
		if strings.EqualFold(entry.Name, name) {
			return []model.Entry{entry}
		}
	}
	return nil
}
