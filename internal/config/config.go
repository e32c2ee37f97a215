// Package config loads the server settings from a YAML file, the environment and flags.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hal9000y/inbox-digest/internal/auth"
)

const (
	DefaultHTTPAddr     = "localhost:8080"
	DefaultAgentID      = "69a01a108b888baee3576cd5"
	DefaultAgentTimeout = 120 * time.Second
	DefaultMaxResults   = 10
)

// Config captures everything the server needs to run.
type Config struct {
	HTTPAddr   string `yaml:"http_addr"`
	Agent      Agent  `yaml:"agent"`
	MaxResults int    `yaml:"max_results"`

	Stdio   bool   `yaml:"-"`
	LogFile string `yaml:"-"`
}

// Agent describes the remote agent endpoint.
type Agent struct {
	URL        string        `yaml:"url"`
	ID         string        `yaml:"id"`
	APIKey     string        `yaml:"api_key"`
	AuthScheme string        `yaml:"auth_scheme"`
	Timeout    time.Duration `yaml:"timeout"`
	UserID     string        `yaml:"user_id"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		HTTPAddr: DefaultHTTPAddr,
		Agent: Agent{
			ID:         DefaultAgentID,
			AuthScheme: string(auth.SchemeAPIKey),
			Timeout:    DefaultAgentTimeout,
		},
		MaxResults: DefaultMaxResults,
	}
}

// RegisterFlags attaches all CLI flags to the provided command.
func RegisterFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("config", "", "Path to YAML config file")
	flags.String("env-file", "", "Path to env file")
	flags.String("http-addr", DefaultHTTPAddr, "HTTP server listen addr")
	flags.String("agent-url", "", "Agent endpoint URL (falls back to AGENT_URL env var)")
	flags.String("agent-id", DefaultAgentID, "Agent identifier (falls back to AGENT_ID env var)")
	flags.Duration("agent-timeout", DefaultAgentTimeout, "Agent request timeout")
	flags.Int("max-results", DefaultMaxResults, "Initial number of emails to summarize, 1-50")
	flags.Bool("stdio", false, "Enable stdio transport for MCP (disables stdout logging)")
	flags.String("log-file", "", "Path to log file (only used with stdio transport, otherwise logs to stdout)")
}

// LoadConfig layers defaults, the YAML file, the env file with process env and finally
// the flags the user set explicitly, then validates the result.
func LoadConfig(cmd *cobra.Command) (Config, error) {
	flags := cmd.Flags()

	cfg := Default()

	path, err := flags.GetString("config")
	if err != nil {
		return Config{}, err
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	envFile, err := flags.GetString("env-file")
	if err != nil {
		return Config{}, err
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("godotenv.Load failed: %w", err)
		}
	}
	cfg.applyEnv(os.LookupEnv)

	if err := cfg.applyFlags(cmd); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("os.ReadFile failed: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	vars := map[string]*string{
		"AGENT_URL":         &c.Agent.URL,
		"AGENT_ID":          &c.Agent.ID,
		"AGENT_API_KEY":     &c.Agent.APIKey,
		"AGENT_AUTH_SCHEME": &c.Agent.AuthScheme,
		"AGENT_USER_ID":     &c.Agent.UserID,
	}

	for name, dst := range vars {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}
}

func (c *Config) applyFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()

	var err error
	if flags.Changed("http-addr") {
		if c.HTTPAddr, err = flags.GetString("http-addr"); err != nil {
			return err
		}
	}
	if flags.Changed("agent-url") {
		if c.Agent.URL, err = flags.GetString("agent-url"); err != nil {
			return err
		}
	}
	if flags.Changed("agent-id") {
		if c.Agent.ID, err = flags.GetString("agent-id"); err != nil {
			return err
		}
	}
	if flags.Changed("agent-timeout") {
		if c.Agent.Timeout, err = flags.GetDuration("agent-timeout"); err != nil {
			return err
		}
	}
	if flags.Changed("max-results") {
		if c.MaxResults, err = flags.GetInt("max-results"); err != nil {
			return err
		}
	}

	if c.Stdio, err = flags.GetBool("stdio"); err != nil {
		return err
	}
	if c.LogFile, err = flags.GetString("log-file"); err != nil {
		return err
	}

	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return fmt.Errorf("--http-addr must be provided")
	}
	if c.Agent.URL == "" {
		return fmt.Errorf("agent URL must be provided via --agent-url, AGENT_URL or the config file")
	}
	if c.Agent.ID == "" {
		return fmt.Errorf("agent id must not be empty")
	}
	if _, err := auth.ParseScheme(c.Agent.AuthScheme); err != nil {
		return fmt.Errorf("auth.ParseScheme failed: %w", err)
	}
	if c.Agent.Timeout <= 0 {
		return fmt.Errorf("agent timeout must be positive, got %s", c.Agent.Timeout)
	}
	if c.MaxResults < 1 || c.MaxResults > 50 {
		return fmt.Errorf("max results must be between 1 and 50, got %d", c.MaxResults)
	}

	return nil
}
