package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/Afrawles/weekly/internal/bugzilla"
	"github.com/Afrawles/weekly/internal/gerrit"
	"github.com/Afrawles/weekly/internal/report"
)

const EnvPrefix = "WEEKLY"

type Config struct {
	EmailDomain string          `mapstructure:"email_domain"`
	Bugzilla    BugzillaConfig  `mapstructure:"bugzilla"`
	Gerrit      GerritConfig    `mapstructure:"gerrit"`
	Teams       map[string]Team `mapstructure:"teams"`
}

type BugzillaConfig struct {
	URL          string  `mapstructure:"url"`
	DefaultOwner string  `mapstructure:"default_owner"`
	Rate         float64 `mapstructure:"rate"`
	Cookie       string  `mapstructure:"cookie"`
	APIKey       string  `mapstructure:"api_key"`
}

type GerritConfig struct {
	ProjectPrefix string `mapstructure:"project_prefix"`
	KeyFile       string `mapstructure:"key_file"`
	KnownHosts    string `mapstructure:"known_hosts"`
	Insecure      bool   `mapstructure:"insecure"`
}

type Team struct {
	Name     string     `mapstructure:"-"`
	Projects []string   `mapstructure:"projects"`
	People   []string   `mapstructure:"people"`
	Gerrit   TeamGerrit `mapstructure:"gerrit"`
}

// TeamGerrit holds the review-system side of a team, which may track other
// projects and people than its bugs.
type TeamGerrit struct {
	Projects    []string `mapstructure:"projects"`
	People      []string `mapstructure:"people"`
	QueryUser   string   `mapstructure:"query_user"`
	QueryServer string   `mapstructure:"query_server"`
	QueryPort   int      `mapstructure:"query_port"`
}

// DefaultPaths are searched for weekly.yaml when no file is given.
func DefaultPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "weekly"))
	}
	return paths
}

// Load reads the configuration from path, or from weekly.yaml in
// DefaultPaths when path is empty. WEEKLY_* environment variables override
// file values, e.g. WEEKLY_BUGZILLA_COOKIE.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("weekly")
		for _, p := range DefaultPaths() {
			v.AddConfigPath(p)
		}
	}

	v.SetDefault("email_domain", "redhat.com")
	v.SetDefault("bugzilla.url", bugzilla.DefaultURL)
	v.SetDefault("bugzilla.default_owner", bugzilla.DefaultOwner)
	v.SetDefault("bugzilla.rate", 1.0)
	v.SetDefault("bugzilla.cookie", "")
	v.SetDefault("bugzilla.api_key", "")
	v.SetDefault("gerrit.project_prefix", gerrit.DefaultProjectPrefix)
	v.SetDefault("gerrit.key_file", "")
	v.SetDefault("gerrit.known_hosts", "")
	v.SetDefault("gerrit.insecure", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil, report.ConfigError("config", fmt.Errorf("no weekly.yaml found in %s", strings.Join(DefaultPaths(), ", ")))
		}
		return nil, report.ConfigError("config", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, report.ConfigError("config", fmt.Errorf("failed to decode: %w", err))
	}
	for name, team := range cfg.Teams {
		team.Name = name
		cfg.Teams[name] = team
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if len(c.Teams) == 0 {
		return report.ConfigError("config", errors.New("no teams configured"))
	}
	for _, name := range c.TeamNames() {
		team := c.Teams[name]
		if len(team.Projects) == 0 && len(team.People) == 0 && len(team.Gerrit.Projects) == 0 {
			return report.ConfigError(fmt.Sprintf("team %q", name), errors.New("needs projects or people"))
		}
		if p := team.Gerrit.QueryPort; p < 0 || p > 65535 {
			return report.ConfigError(fmt.Sprintf("team %q", name), fmt.Errorf("invalid gerrit query_port %d", p))
		}
	}
	if c.Bugzilla.Rate < 0 {
		return report.ConfigError("bugzilla.rate", fmt.Errorf("must not be negative, got %v", c.Bugzilla.Rate))
	}
	return nil
}

// Team looks a team up by name. Names are case-insensitive.
func (c *Config) Team(name string) (*Team, error) {
	team, ok := c.Teams[strings.ToLower(name)]
	if !ok {
		return nil, report.ConfigError(fmt.Sprintf("team %q", name),
			fmt.Errorf("%w, known teams: %s", report.ErrUnknownTeam, strings.Join(c.TeamNames(), ", ")))
	}
	return &team, nil
}

func (c *Config) TeamNames() []string {
	names := make([]string, 0, len(c.Teams))
	for name := range c.Teams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
