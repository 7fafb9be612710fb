package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Autopilot  Autopilot  `yaml:"autopilot"`
	Generation Generation `yaml:"generation"`
	Images     Images     `yaml:"images"`
	Trends     Trends     `yaml:"trends"`
	Output     Output     `yaml:"output"`
	Server     Server     `yaml:"server"`
	Logging    Logging    `yaml:"logging"`
}

type Autopilot struct {
	IntervalSeconds int  `yaml:"interval_seconds"`
	PollIntervalMS  int  `yaml:"poll_interval_ms"`
	MaxLogs         int  `yaml:"max_logs"`
	ExclusionLimit  int  `yaml:"exclusion_limit"`
	Autostart       bool `yaml:"autostart"`
}

type Generation struct {
	Provider       string  `yaml:"provider"`
	Model          string  `yaml:"model"`
	OllamaURL      string  `yaml:"ollama_url"`
	OpenAIModel    string  `yaml:"openai_model"`
	AnthropicModel string  `yaml:"anthropic_model"`
	APIKeyEnv      string  `yaml:"api_key_env"`
	Temperature    float64 `yaml:"temperature"`
	MaxTokens      int     `yaml:"max_tokens"`
}

type Images struct {
	Enabled   bool   `yaml:"enabled"`
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

type Trends struct {
	Feeds               []Feed `yaml:"feeds"`
	MaxHeadlines        int    `yaml:"max_headlines"`
	FetchLeadStory      bool   `yaml:"fetch_lead_story"`
	FetchTimeoutSeconds int    `yaml:"fetch_timeout_seconds"`
}

type Feed struct {
	URL  string `yaml:"url"`
	Name string `yaml:"name"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for looktrending.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "looktrending")
}

// DataDir returns the XDG data directory for looktrending.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "looktrending")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/looktrending/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'looktrending init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Autopilot: Autopilot{
			IntervalSeconds: 30,
			PollIntervalMS:  1000,
			MaxLogs:         20,
			ExclusionLimit:  20,
		},
		Generation: Generation{
			Provider:       "gemini",
			Model:          "gemini-2.5-flash",
			OllamaURL:      "http://localhost:11434",
			OpenAIModel:    "gpt-4o-mini",
			AnthropicModel: "claude-sonnet-4-20250514",
			APIKeyEnv:      "API_KEY",
			Temperature:    0.7,
			MaxTokens:      4096,
		},
		Images: Images{
			Enabled:   true,
			Provider:  "gemini",
			Model:     "gemini-2.5-flash-image",
			APIKeyEnv: "API_KEY",
		},
		Trends: Trends{
			MaxHeadlines:        10,
			FetchTimeoutSeconds: 15,
		},
		Server:  Server{Port: 8000},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Autopilot.IntervalSeconds <= 0 {
		return fmt.Errorf("autopilot.interval_seconds must be positive, got %d", c.Autopilot.IntervalSeconds)
	}
	if c.Autopilot.PollIntervalMS <= 0 {
		return fmt.Errorf("autopilot.poll_interval_ms must be positive, got %d", c.Autopilot.PollIntervalMS)
	}
	if c.Autopilot.MaxLogs <= 0 {
		return fmt.Errorf("autopilot.max_logs must be positive, got %d", c.Autopilot.MaxLogs)
	}
	return nil
}

// Interval returns the time between generation cycles.
func (a Autopilot) Interval() time.Duration {
	return time.Duration(a.IntervalSeconds) * time.Second
}

// PollInterval returns how often the scheduler checks its deadline.
func (a Autopilot) PollInterval() time.Duration {
	return time.Duration(a.PollIntervalMS) * time.Millisecond
}

// FetchTimeout returns the HTTP timeout for trend research requests.
func (t Trends) FetchTimeout() time.Duration {
	if t.FetchTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(t.FetchTimeoutSeconds) * time.Second
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

// DBPath returns the location of the article database.
func (c *Config) DBPath() string {
	return filepath.Join(c.GetDataDir(), "looktrending.db")
}

// LockPath returns the lock file guarding a single serving instance.
func (c *Config) LockPath() string {
	return filepath.Join(c.GetDataDir(), "looktrending.lock")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
