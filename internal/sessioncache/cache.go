// Package sessioncache persists one authenticated-session snapshot per
// account name, so a restart can adopt a still-valid web session instead of
// submitting credentials again.
//
// Records are stored as AES-GCM blobs under the user's config directory,
// keyed to the local machine. The cache is strictly best-effort: every read
// failure (missing file, foreign machine, corrupt blob, bad JSON) degrades
// to "no cached record" and the caller falls back to a full login.
package sessioncache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/tradekeeper/internal/cryptox"
	"github.com/dmitrijs2005/tradekeeper/internal/logging"
)

const appDirName = "tradekeeper"

// Record is the per-account session snapshot. LoginSecure is the opaque
// session secret the platform sets as a cookie on login.
type Record struct {
	SessionID   string `json:"session_id"`
	SteamID64   int64  `json:"steam_id64"`
	LoginSecure string `json:"steam_login_secure"`
}

// Cache stores and retrieves Records in a directory, one file per account.
// Instances are cheap; all state lives on disk.
type Cache struct {
	dir string
	key []byte
	log logging.Logger
}

// New returns a Cache rooted at the platform's per-user config directory.
// The directory itself is created lazily on the first Store.
func New(log logging.Logger) (*Cache, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve user config dir: %w", err)
	}
	return NewAt(filepath.Join(base, appDirName), log), nil
}

// NewAt returns a Cache rooted at dir. Used directly in tests.
func NewAt(dir string, log logging.Logger) *Cache {
	return &Cache{dir: dir, key: cryptox.DeriveMachineKey(), log: log}
}

func (c *Cache) file(accountName string) string {
	return filepath.Join(c.dir, accountName+".session")
}

// Load returns the cached record for accountName, or ok=false when no
// usable record exists. It never returns an error: a cache that cannot be
// read is the same as a cache that was never written.
func (c *Cache) Load(ctx context.Context, accountName string) (Record, bool) {
	blob, err := os.ReadFile(c.file(accountName))
	if err != nil {
		c.log.Debug(ctx, "no cached session data", "account", accountName)
		return Record{}, false
	}

	var rec Record
	if err := cryptox.DecryptRecord(blob, c.key, &rec); err != nil {
		c.log.Debug(ctx, "failed to read cached session", "account", accountName, "error", err)
		return Record{}, false
	}

	return rec, true
}

// Store writes the record for accountName, overwriting any previous one.
// Unlike Load, write failures are reported: the caller just logged in and
// should know its session will not survive a restart.
func (c *Cache) Store(ctx context.Context, accountName string, rec Record) error {
	if err := os.MkdirAll(c.dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", c.dir, err)
	}

	blob, err := cryptox.EncryptRecord(rec, c.key)
	if err != nil {
		return fmt.Errorf("encrypt session record: %w", err)
	}

	if err := os.WriteFile(c.file(accountName), blob, 0o600); err != nil {
		return fmt.Errorf("write session record: %w", err)
	}

	c.log.Debug(ctx, "stored session data", "account", accountName)
	return nil
}
