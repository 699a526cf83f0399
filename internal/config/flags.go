package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/arsip/internal/flagx"
)

var knownFlags = []string{
	"-driver", "-dsn", "-http", "-export-dir", "-log-level", "-strict-csv",
}

// valueFlags are the configuration flags that take a value.
var valueFlags = []string{
	"-c", "-config", "--c", "--config",
	"-driver", "-dsn", "-http", "-export-dir", "-log-level",
}

// Positional returns the arguments left over once configuration flags and
// their values are removed.
func Positional(args []string) []string {
	return flagx.Positional(args, valueFlags)
}

// parseFlags applies the flags this package owns. Unrelated arguments are
// filtered out first so that subcommands can define their own flags.
//
//	-driver string      storage backend (sqlite, postgres, mysql)
//	-dsn string         database DSN
//	-http string        HTTP API listen address
//	-export-dir string  directory for CSV and backup files
//	-log-level string   debug, info, warn or error
//	-strict-csv         RFC 4180 quoting for CSV export
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("arsip", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DBDriver, "driver", cfg.DBDriver, "storage backend")
	fs.StringVar(&cfg.DatabaseDSN, "dsn", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.HTTPAddr, "http", cfg.HTTPAddr, "HTTP API listen address")
	fs.StringVar(&cfg.ExportDir, "export-dir", cfg.ExportDir, "export directory")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.BoolVar(&cfg.StrictCSV, "strict-csv", cfg.StrictCSV, "RFC 4180 CSV quoting")

	return fs.Parse(flagx.FilterArgs(args, knownFlags))
}
