package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/dmitrijs2005/arsip/internal/boot"
	"github.com/dmitrijs2005/arsip/internal/cli"
	"github.com/dmitrijs2005/arsip/internal/config"
	"github.com/dmitrijs2005/arsip/internal/filex"
	"github.com/dmitrijs2005/arsip/internal/httpapi"
	"github.com/dmitrijs2005/arsip/internal/query"
	"github.com/dmitrijs2005/arsip/internal/services"
	"github.com/spf13/cobra"
)

const configFlagsHelp = `
Configuration flags (also settable in a JSON/YAML file given with -c):
  -c, -config path    config file
  -driver string      storage backend: sqlite, postgres or mysql
  -dsn string         database DSN
  -http string        HTTP API listen address
  -export-dir string  directory for CSV and backup files
  -log-level string   debug, info, warn or error
  -strict-csv         RFC 4180 quoting for CSV export`

// withEnv loads configuration from args and opens the environment for the
// duration of fn.
func withEnv(cmd *cobra.Command, args []string, fn func(env *boot.Env) error) error {
	return withCheckedEnv(cmd, args, nil, fn)
}

// withCheckedEnv is withEnv with a configuration check that runs before
// anything is opened.
func withCheckedEnv(cmd *cobra.Command, args []string, check func(*config.Config) error, fn func(env *boot.Env) error) error {
	if wantsHelp(args) {
		return cmd.Help()
	}

	cfg, err := config.LoadConfig(args)
	if err != nil {
		return err
	}
	if check != nil {
		if err := check(cfg); err != nil {
			return err
		}
	}

	env, err := boot.Open(cmd.Context(), cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer env.Close()

	return fn(env)
}

func wantsHelp(args []string) bool {
	return slices.Contains(args, "-h") || slices.Contains(args, "--help")
}

func replCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "repl",
		Short:              "Interactive archive shell",
		Long:               "Interactive archive shell." + configFlagsHelp,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, args, func(env *boot.Env) error {
				app := cli.NewApp(env.Services, env.Config.ExportDir, os.Stdin, os.Stdout, env.Logger)
				app.Run(cmd.Context())
				return nil
			})
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "serve",
		Short:              "Start the JSON HTTP API",
		Long: "Start the JSON HTTP API. A jwt_secret (or ARSIP_JWT_SECRET) other than\n" +
			"the built-in default is required." + configFlagsHelp,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			check := (*config.Config).CheckJWTSecret
			return withCheckedEnv(cmd, args, check, func(env *boot.Env) error {
				srv := httpapi.NewServer(env.Config.HTTPAddr, env.Services, env.Config.JWTSecret, env.Config.TokenTTL, env.Logger)
				return srv.Run(cmd.Context())
			})
		},
	}
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "export",
		Short:              "Write all letters as CSV into the export directory",
		Long:               "Write all letters as CSV into the export directory." + configFlagsHelp,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, args, func(env *boot.Env) error {
				svc := env.Services
				f, err := svc.Archive.ExportCSV(svc.Letters.List(query.DefaultCriteria()))
				if err != nil {
					return err
				}
				path, err := filex.WriteExport(env.Config.ExportDir, f.Name, f.Data)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			})
		},
	}
}

func backupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup [upload]",
		Short: "Write a JSON backup, or upload one to the configured bucket",
		Long: "Write a JSON backup into the export directory. With \"upload\" the backup\n" +
			"is stored in the configured S3 bucket instead and a download link printed." + configFlagsHelp,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			upload := len(args) > 0 && args[0] == "upload"
			if upload {
				args = args[1:]
			}

			return withEnv(cmd, args, func(env *boot.Env) error {
				out := cmd.OutOrStdout()
				if upload {
					res, err := env.Services.Archive.UploadBackup(cmd.Context(), services.System)
					if err != nil {
						return err
					}
					fmt.Fprintln(out, res.Key)
					fmt.Fprintln(out, res.DownloadURL)
					return nil
				}

				f, err := env.Services.Archive.Backup(cmd.Context())
				if err != nil {
					return err
				}
				path, err := filex.WriteExport(env.Config.ExportDir, f.Name, f.Data)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, path)
				return nil
			})
		},
	}
}

func restoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "restore <backup.json>",
		Short:              "Replace letters, users and settings with a backup file",
		Long:               "Replace letters, users and settings with a backup file." + configFlagsHelp,
		DisableFlagParsing: true,
		Args:               cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if wantsHelp(args) {
				return cmd.Help()
			}
			files := config.Positional(args)
			if len(files) != 1 {
				return fmt.Errorf("restore takes exactly one backup file, got %d", len(files))
			}
			path := files[0]

			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			return withEnv(cmd, args, func(env *boot.Env) error {
				if err := env.Services.Archive.Restore(cmd.Context(), services.System, data); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "restored from", path)
				return nil
			})
		},
	}
}
