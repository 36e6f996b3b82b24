package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/tradekeeper/internal/flagx"
)

// yamlConfig is a DTO used exclusively for YAML unmarshalling; values are
// copied into the runtime Config afterwards.
type yamlConfig struct {
	MainAccount       *AccountConfig  `yaml:"main-account"`
	AlternateAccounts []AccountConfig `yaml:"alternate-accounts"`
	Options           *Options        `yaml:"options"`
}

func errMissingKey(key string) error {
	return fmt.Errorf("%w: key %q not present", ErrConfiguration, key)
}

// parseYAML overlays cfg with values from the file named by -c/-config.
// No flag means no file and no error; a named file that cannot be read or
// parsed is ErrConfiguration.
func parseYAML(cfg *Config) error {
	path := flagx.ConfigFileFlags()
	if path == "" {
		return nil
	}
	return parseYAMLFile(cfg, path)
}

func parseYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	if yc.MainAccount != nil {
		cfg.MainAccount = *yc.MainAccount
	}
	if yc.AlternateAccounts != nil {
		cfg.AlternateAccounts = yc.AlternateAccounts
	}
	if yc.Options != nil {
		cfg.Options = *yc.Options
	}
	return nil
}
