package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/popfeed/internal/config"
	"github.com/pders01/popfeed/internal/debuglog"
	"github.com/pders01/popfeed/internal/feed"
	"github.com/pders01/popfeed/internal/storage"
	"github.com/pders01/popfeed/internal/tui"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	configPath string
	dbPath     string
	sourceName string
	logLevel   string
	quiet      bool

	seedCount int
	dumpDelay bool
)

var rootCmd = &cobra.Command{
	Use:           "popfeed",
	Short:         "Infinite feed popup for the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("popfeed %s\n", Version)
		fmt.Println("infinite feed popup")
		fmt.Println("github.com/pders01/popfeed")
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configGenCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the default config file",
	Run: func(cmd *cobra.Command, args []string) {
		home, _ := os.UserHomeDir()
		configFile := filepath.Join(home, ".config", "popfeed", "config.toml")

		if err := config.GenerateDefaultConfig(configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated default configuration at: %s\n", configFile)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write synthetic feed items into the database",
	RunE:  runSeed,
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Load every page without the UI and print the items",
	RunE:  runDump,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to configuration file")
	pf.StringVar(&dbPath, "db", "", "Path to database file (overrides config)")
	pf.StringVar(&sourceName, "source", "", "Page source: simulated or bolt (overrides config)")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error, off")
	pf.BoolVar(&quiet, "quiet", false, "Skip startup banner")

	seedCmd.Flags().IntVar(&seedCount, "count", 0, "Number of items to seed (default page_size*max_pages)")
	dumpCmd.Flags().BoolVar(&dumpDelay, "delay", false, "Keep the simulated network delay")

	configCmd.AddCommand(configGenCmd)
	rootCmd.AddCommand(versionCmd, configCmd, seedCmd, dumpCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if dbPath != "" {
		cfg.Database.Path = config.ExpandPath(dbPath)
	}
	if sourceName != "" {
		cfg.Feed.Source = sourceName
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), cfg.Log.Path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openProvider builds the configured page source. The returned closer
// releases any backing store.
func openProvider(cfg *config.Config, withDelay bool) (feed.PageProvider, func() error, error) {
	switch cfg.Feed.Source {
	case config.SourceBolt:
		store, err := storage.NewStore(cfg.Database.Path, cfg.Database.Timeout)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewSource(store, cfg.Feed.PageSize), store.Close, nil
	default:
		src := feed.NewSimulatedSource(cfg)
		if !withDelay {
			src = src.WithoutDelay()
		}
		return src, func() error { return nil }, nil
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer debuglog.Close()

	tui.ApplyColors(cfg.UI.Colors)
	if !quiet {
		tui.ShowBanner(Version)
	}

	provider, closeProvider, err := openProvider(cfg, true)
	if err != nil {
		return err
	}
	defer closeProvider()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app := tui.NewApp(ctx, provider, cfg)
	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	_, err = p.Run()
	return err
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer debuglog.Close()

	count := seedCount
	if count <= 0 {
		count = cfg.Feed.PageSize * cfg.Feed.MaxPages
	}

	store, err := storage.NewStore(cfg.Database.Path, cfg.Database.Timeout)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SeedItems(count); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d items into %s\n", count, cfg.Database.Path)
	return nil
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer debuglog.Close()

	provider, closeProvider, err := openProvider(cfg, dumpDelay)
	if err != nil {
		return err
	}
	defer closeProvider()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := cmd.OutOrStdout()
	pager := feed.NewPager(provider)
	for !pager.State().ReachedEnd {
		items, err := pager.LoadNext(ctx)
		if err != nil {
			return err
		}
		for _, item := range items {
			fmt.Fprintln(out, item.String())
		}
	}
	fmt.Fprintf(out, "%d items in %d pages\n", pager.Len(), pager.State().Page)
	return nil
}
