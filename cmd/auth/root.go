package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aussiebroadwan/tenantauth/internal/auth/app"
)

// configFlags holds command line overrides of the environment config.
type configFlags struct {
	port         int
	logLevel     string
	databaseFile string
}

func (f *configFlags) register(fs *pflag.FlagSet) {
	fs.IntVar(&f.port, "port", 0, "HTTP port (overrides PORT)")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
	fs.StringVar(&f.databaseFile, "database-file", "", "SQLite database file (overrides AUTH_DATABASE_FILE)")
}

// load reads the environment and applies any flags that were set.
func (f *configFlags) load(fs *pflag.FlagSet) app.Config {
	cfg := app.LoadConfig()
	if fs.Changed("port") {
		cfg.Port = f.port
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if fs.Changed("database-file") {
		cfg.DatabaseFile = f.databaseFile
	}
	return cfg
}

// NewRootCmd creates the tenantauth command tree. Without a subcommand it
// serves the HTTP API.
func NewRootCmd() *cobra.Command {
	flags := &configFlags{}

	rootCmd := &cobra.Command{
		Use:               "tenantauth",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Short:             "OAuth2 client credentials token service for multi-tenant workloads",
		Long: `tenantauth issues short-lived HS256 access tokens to registered service
clients through the OAuth2 client_credentials grant, and lets resource
servers introspect them.

Configuration is read from the environment (and a .env file when present).
The flags below override the matching variables.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), flags.load(cmd.Flags()))
		},
	}

	flags.register(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newServeCmd(flags))
	rootCmd.AddCommand(newMigrateCmd(flags))
	rootCmd.AddCommand(newClientsCmd(flags))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
