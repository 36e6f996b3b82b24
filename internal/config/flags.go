package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/tradekeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-m float   minimum price below which items are traded away
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.Float64Var(&cfg.Options.MinPrice, "m", cfg.Options.MinPrice, "minimum price below which items are traded away")

	_ = fs.Parse(args)
}
