package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, 0.5, c.Options.MinPrice)
	assert.Empty(t, c.MainAccount.Username)
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseYAMLFile_FullConfig(t *testing.T) {
	path := writeConfigFile(t, `
main-account:
  username: main
  password: hunter2
  shared-secret: c2hhcmVk
  identity-secret: aWRlbnQ=
alternate-accounts:
  - username: alt1
    password: pw1
    shared-secret: czE=
    priorities: ["Knife", "Gloves"]
  - username: alt2
    password: pw2
    shared-secret: czI=
options:
  min-price: 1.25
  always-trade-stickers: true
`)

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseYAMLFile(cfg, path))

	assert.Equal(t, "main", cfg.MainAccount.Username)
	assert.Equal(t, "hunter2", cfg.MainAccount.Password)
	assert.Equal(t, "aWRlbnQ=", cfg.MainAccount.IdentitySecret)

	require.Len(t, cfg.AlternateAccounts, 2)
	assert.Equal(t, []string{"Knife", "Gloves"}, cfg.AlternateAccounts[0].Priorities)
	assert.Empty(t, cfg.AlternateAccounts[1].Priorities)

	assert.Equal(t, 1.25, cfg.Options.MinPrice)
	assert.True(t, cfg.Options.AlwaysTradeStickers)
	assert.False(t, cfg.Options.AlwaysTradeGraffities)
}

func TestParseYAMLFile_PartialKeepsDefaults(t *testing.T) {
	path := writeConfigFile(t, `
main-account:
  username: main
  shared-secret: czE=
`)

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseYAMLFile(cfg, path))

	assert.Equal(t, 0.5, cfg.Options.MinPrice)
}

func TestParseYAMLFile_InvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "main-account: [unclosed")

	cfg := &Config{}
	cfg.LoadDefaults()
	err := parseYAMLFile(cfg, path)

	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestParseYAMLFile_MissingFile(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	err := parseYAMLFile(cfg, filepath.Join(t.TempDir(), "nope.yaml"))

	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid",
			cfg: Config{
				MainAccount:       AccountConfig{Username: "m", SharedSecret: "s"},
				AlternateAccounts: []AccountConfig{{Username: "a"}},
			},
		},
		{
			name:    "missing main account",
			cfg:     Config{},
			wantErr: true,
		},
		{
			name:    "missing shared secret",
			cfg:     Config{MainAccount: AccountConfig{Username: "m"}},
			wantErr: true,
		},
		{
			name: "alternate without username",
			cfg: Config{
				MainAccount:       AccountConfig{Username: "m", SharedSecret: "s"},
				AlternateAccounts: []AccountConfig{{}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrConfiguration)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
