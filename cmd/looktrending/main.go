package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TobiSchelling/LookTrending/internal/autopilot"
	"github.com/TobiSchelling/LookTrending/internal/config"
	"github.com/TobiSchelling/LookTrending/internal/database"
	"github.com/TobiSchelling/LookTrending/internal/generate"
	"github.com/TobiSchelling/LookTrending/internal/llm"
	"github.com/TobiSchelling/LookTrending/internal/trends"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "looktrending",
	Short:   "Autonomous trending-news desk",
	Long:    "LookTrending researches trending stories, writes illustrated articles with an LLM, and publishes them to a local feed.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.SetFlags(log.LstdFlags)

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			if verbose {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			}
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if verbose || strings.EqualFold(cfg.Logging.Level, "DEBUG") {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(articlesCmd)
	rootCmd.AddCommand(relatedCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("looktrending", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/looktrending/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to choose the LLM provider, image model and trend feeds,")
		fmt.Println("then export the API key under the name set in generation.api_key_env.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and provider status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Printf("Database: %s\n\n", db.Path())
		fmt.Println("Articles:")
		fmt.Printf("  Published: %d\n", stats.TotalArticles)
		fmt.Printf("  With cover image: %d\n", stats.WithImages)
		if stats.Latest != nil {
			fmt.Printf("  Latest: %s\n", stats.Latest.Local().Format("2006-01-02 15:04"))
		}

		fmt.Println("\nAutopilot:")
		fmt.Printf("  Interval: %s\n", cfg.Autopilot.Interval())
		fmt.Printf("  Autostart: %t\n", cfg.Autopilot.Autostart)

		fmt.Println("\nGeneration:")
		fmt.Printf("  Provider: %s (%s)\n", cfg.Generation.Provider, cfg.Generation.Model)
		if _, ok := os.LookupEnv(cfg.Generation.APIKeyEnv); ok {
			fmt.Printf("  API key: set (%s)\n", cfg.Generation.APIKeyEnv)
		} else {
			fmt.Printf("  API key: missing (%s)\n", cfg.Generation.APIKeyEnv)
		}
		if cfg.Images.Enabled {
			fmt.Printf("  Images: %s (%s)\n", cfg.Images.Provider, cfg.Images.Model)
		} else {
			fmt.Println("  Images: disabled")
		}
		fmt.Printf("  Trend feeds: %d\n", len(cfg.Trends.Feeds))
		return nil
	},
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return database.Open(cfg.DBPath())
}

// newAutopilot wires the configured providers, trend research and store
// into an Autopilot.
func newAutopilot(db *database.DB) (*autopilot.Autopilot, error) {
	g := cfg.Generation
	provider := llm.CreateProvider(llm.ProviderConfig{
		Provider:       g.Provider,
		Model:          g.Model,
		OllamaURL:      g.OllamaURL,
		OpenAIModel:    g.OpenAIModel,
		AnthropicModel: g.AnthropicModel,
		APIKeyEnv:      g.APIKeyEnv,
	})

	feeds := make([]trends.FeedConfig, 0, len(cfg.Trends.Feeds))
	for _, f := range cfg.Trends.Feeds {
		feeds = append(feeds, trends.FeedConfig{URL: f.URL, Name: f.Name})
	}
	scout := trends.NewScout(trends.Options{
		Feeds:          feeds,
		MaxHeadlines:   cfg.Trends.MaxHeadlines,
		FetchLeadStory: cfg.Trends.FetchLeadStory,
		Timeout:        cfg.Trends.FetchTimeout(),
	})

	// A nil provider leaves the generator unconfigured; cycles then log the
	// configuration error instead of failing startup.
	gen := generate.NewGenerator(provider, scout, generate.Options{
		MaxTokens:   g.MaxTokens,
		Temperature: g.Temperature,
	})

	opts := autopilot.Options{
		Generator:      gen,
		Store:          db,
		Interval:       cfg.Autopilot.Interval(),
		PollInterval:   cfg.Autopilot.PollInterval(),
		MaxLogs:        cfg.Autopilot.MaxLogs,
		ExclusionLimit: cfg.Autopilot.ExclusionLimit,
	}
	if img := llm.CreateImageGenerator(cfg.Images.Enabled, cfg.Images.Provider, cfg.Images.Model, cfg.Images.APIKeyEnv); img != nil {
		opts.Images = img
	}
	return autopilot.New(opts)
}
