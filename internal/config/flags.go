package config

import (
	"flag"
	"os"
	"time"

	"github.com/chtime/chtime/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-s string   path of the persisted store file (default from Config)
//	-t int      session TTL in hours (default from Config)
//	-k int      PBKDF2 iteration count (default from Config)
//
// The function filters os.Args to only the flags it knows about, using
// flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-t", "-k"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.StorePath, "s", cfg.StorePath, "path of the persisted store file")
	ttlHours := fs.Int("t", int(cfg.SessionTTL.Hours()), "session TTL (in hours)")
	fs.IntVar(&cfg.KDFIterations, "k", cfg.KDFIterations, "PBKDF2 iteration count")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SessionTTL = time.Duration(*ttlHours) * time.Hour
}
