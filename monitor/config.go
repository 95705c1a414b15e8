package monitor

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/proofwatch/provider"
)

// Config holds all monitor configuration.
type Config struct {
	// PageURL is the document to attach to.
	PageURL string `yaml:"page_url"`

	Browser BrowserConfig `yaml:"browser"`
	Check   CheckConfig   `yaml:"check"`

	// DBPath is the settings store. Defaults to proofwatch.db.
	DBPath string `yaml:"db_path"`

	// Provider overrides the stored provider selection when set.
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`

	// Rules extends the offline rule provider's correction table.
	Rules map[string]provider.RuleChange `yaml:"rules"`

	// AdminAddr serves /healthz and /status when non-empty.
	AdminAddr string `yaml:"admin_addr"`

	// EventLog mirrors check events as JSON lines on stdout.
	EventLog bool `yaml:"event_log"`

	// WebhookURL, when set, POSTs check events to an external collaborator.
	WebhookURL string `yaml:"webhook_url"`
}

// BrowserConfig controls the Chrome connection.
type BrowserConfig struct {
	RemoteURL string `yaml:"remote_url"`
	Headful   bool   `yaml:"headful"`
}

// CheckConfig controls check scheduling.
type CheckConfig struct {
	Quiet     time.Duration `yaml:"quiet"`
	MinLength int           `yaml:"min_length"`

	// Markdown sends contenteditable content to the provider as markdown
	// instead of flat prose, preserving emphasis and structure.
	Markdown bool `yaml:"markdown"`
}

func (c *Config) defaults() {
	if c.DBPath == "" {
		c.DBPath = "proofwatch.db"
	}
	if c.Check.Quiet <= 0 {
		c.Check.Quiet = 1500 * time.Millisecond
	}
	if c.Check.MinLength <= 0 {
		c.Check.MinLength = 10
	}
}

// LoadConfigFile reads a YAML config file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
