// Package config loads runtime settings for the trade manager: the main
// account, the alternate accounts items are pushed to, and the trade
// policy options.
//
// Sources are layered defaults -> YAML file -> command-line flags, later
// sources taking precedence. The file path comes from -c/-config.
package config

import "errors"

// ErrConfiguration indicates a config file that cannot be used: unreadable,
// invalid YAML, or missing required keys.
var ErrConfiguration = errors.New("configuration error")

// AccountConfig holds one identity's credentials. Priorities lists the
// item-type names this account prefers to receive; an empty list accepts
// anything.
type AccountConfig struct {
	Username       string   `yaml:"username"`
	Password       string   `yaml:"password"`
	SharedSecret   string   `yaml:"shared-secret"`
	IdentitySecret string   `yaml:"identity-secret"`
	Priorities     []string `yaml:"priorities"`
}

// Options are the trade-policy knobs.
type Options struct {
	MinPrice               float64 `yaml:"min-price"`
	AlwaysTradeGraffities  bool    `yaml:"always-trade-graffities"`
	AlwaysTradeStickers    bool    `yaml:"always-trade-stickers"`
	AlwaysTradeAgents      bool    `yaml:"always-trade-agents"`
	AlwaysTradeContainers  bool    `yaml:"always-trade-containers"`
	AlwaysTradeCollectible bool    `yaml:"always-trade-collectibles"`
	AlwaysTradePatches     bool    `yaml:"always-trade-patches"`
}

// Config holds the full runtime configuration.
type Config struct {
	MainAccount       AccountConfig
	AlternateAccounts []AccountConfig
	Options           Options
}

// LoadDefaults populates c with sensible defaults. Accounts have no
// defaults; they must come from the file.
func (c *Config) LoadDefaults() {
	c.Options = Options{MinPrice: 0.5}
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the YAML file and command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseYAML(cfg); err != nil {
		return nil, err
	}
	parseFlags(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MainAccount.Username == "" {
		return errMissingKey("main-account")
	}
	if c.MainAccount.SharedSecret == "" {
		return errMissingKey("main-account.shared-secret")
	}
	for _, alt := range c.AlternateAccounts {
		if alt.Username == "" {
			return errMissingKey("alternate-accounts[].username")
		}
	}
	return nil
}
