// Package cli implements the gophvault command line: account and login
// management, sealing and opening secrets, compiling query documents to SQL
// and preparing the database.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dmitrijs2005/gophvault/internal/config"
	"github.com/dmitrijs2005/gophvault/internal/logging"
)

// RootOptions holds state shared by all commands once flags are parsed.
type RootOptions struct {
	Config *config.Config
	Logger logging.Logger
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	defaults := &config.Config{}
	defaults.LoadDefaults()

	cmd := &cobra.Command{
		Use:           "gophvault",
		Short:         "Local password vault tooling",
		Long:          "Manage vault accounts and stored logins, seal and open secrets, compile structured queries to SQL and migrate the vault database.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(changedArgs(cmd.Flags()))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			log, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
			if err != nil {
				return err
			}
			opts.Config = cfg
			opts.Logger = log
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("config", "c", "", "config file (JSON, or YAML with a .yaml/.yml extension)")
	pf.StringP("dsn", "d", defaults.DatabaseDSN, "SQLite database DSN")
	pf.StringP("log-level", "l", defaults.LogLevel, "log level (debug|info|warn|error)")
	pf.Duration("access-rotation", defaults.AccessKeyRotation, "access signing key lifetime")
	pf.Duration("refresh-rotation", defaults.RefreshKeyRotation, "refresh signing key lifetime")
	pf.Duration("access-ttl", defaults.AccessTokenTTL, "access token lifetime")
	pf.Duration("refresh-ttl", defaults.RefreshTokenTTL, "refresh token lifetime")
	pf.Bool("standard-glue", defaults.StandardGlue, "join WHERE fragments with a space instead of \", \"")

	cmd.AddCommand(NewEncryptCommand(opts))
	cmd.AddCommand(NewDecryptCommand(opts))
	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewUserCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))

	return cmd
}

// changedArgs renders the flags set on the command line back into
// --name=value arguments for config.Load, so only explicit flags override
// the config file.
func changedArgs(fs *pflag.FlagSet) []string {
	var args []string
	fs.Visit(func(f *pflag.Flag) {
		args = append(args, "--"+f.Name+"="+f.Value.String())
	})
	return args
}
