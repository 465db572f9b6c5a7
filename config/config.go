// Package config loads the engine's file-level configuration. The library
// packages are configured programmatically through functional options; this
// package exists for the CLI and other wiring layers that read a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Bbowlby22/oxproxion/core"
)

// AgentConfig seeds one agent into the router pool at startup.
type AgentConfig struct {
	Name      string `yaml:"name"`
	Available bool   `yaml:"available"`
	Load      int    `yaml:"load"`
}

// AdvisorConfig selects and configures the advisory backend.
type AdvisorConfig struct {
	// Provider is "anthropic", "openai" or "" (no advisor).
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	// JournalPath, when set, receives stored learnings as JSONL.
	JournalPath string `yaml:"journal_path"`
}

// LearningConfig tunes the best-effort learning notifier.
type LearningConfig struct {
	QueueSize int `yaml:"queue_size"`
}

// Config is the top-level file configuration.
type Config struct {
	// RepoA / RepoB name the two federated repositories.
	RepoA core.RepoID `yaml:"repo_a"`
	RepoB core.RepoID `yaml:"repo_b"`
	// LocalAgent is preferred on local routing requests.
	LocalAgent string `yaml:"local_agent"`
	// DefaultAgent, when set, replaces the hard routing error on an
	// exhausted pool. Leave empty unless a fallback is genuinely wanted.
	DefaultAgent string `yaml:"default_agent"`

	StateDir string `yaml:"state_dir"`

	Agents   []AgentConfig  `yaml:"agents"`
	Advisor  AdvisorConfig  `yaml:"advisor"`
	Learning LearningConfig `yaml:"learning"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		RepoA:      core.RepoOmniLore,
		RepoB:      core.RepoOxproxion,
		LocalAgent: string(core.RepoOxproxion),
		StateDir:   ".oxproxion",
		Learning:   LearningConfig{QueueSize: 64},
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// Load reads a YAML config file, applying defaults for unset fields. A
// missing file yields the defaults without error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.RepoA == "" || c.RepoB == "" {
		return fmt.Errorf("both repo_a and repo_b must be named")
	}
	if c.RepoA == c.RepoB {
		return fmt.Errorf("repo_a and repo_b must differ, got %q twice", c.RepoA)
	}
	switch c.Advisor.Provider {
	case "", "anthropic", "openai":
	default:
		return fmt.Errorf("unknown advisor provider %q", c.Advisor.Provider)
	}
	if c.Learning.QueueSize < 0 {
		return fmt.Errorf("learning queue_size must not be negative")
	}
	return nil
}

// SyncStatePath is the sync ledger's state document location.
func (c *Config) SyncStatePath() string {
	return filepath.Join(c.StateDir, "sync_state.json")
}

// RoutingStatePath is the router's state document location.
func (c *Config) RoutingStatePath() string {
	return filepath.Join(c.StateDir, "routing_state.json")
}

// SolutionStatePath is the orchestrator's state document location.
func (c *Config) SolutionStatePath() string {
	return filepath.Join(c.StateDir, "solution_state.json")
}
