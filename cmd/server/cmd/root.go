package cmd

import (
	"fmt"
	"os"

	"github.com/pankhokiudaan/server/internal/config"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	envFile    string
	logLevel   string
	logFormat  string
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}
	serve := newServeCommand(opts)

	root := &cobra.Command{
		Use:   "server",
		Short: "Pankho Ki Udaan server - API backend for the Pankho Ki Udaan website",
		Long: `Pankho Ki Udaan server is the API behind the organisation's website.

It provides:
- Admin login and account management
- Events and media articles with public read access
- Contact, podcast guest, disability inclusion and Udaan Talk forms relayed by email
- Health, readiness and Prometheus metrics endpoints`,
		SilenceUsage: true,
		// serve is the default when no subcommand is given
		RunE: serve.RunE,
	}
	root.Flags().AddFlagSet(serve.Flags())

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "YAML config file; environment variables take precedence")
	flags.StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error) (default: info)")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format (json, console) (default: json)")

	root.AddCommand(
		serve,
		newMigrateCommand(opts),
		newAdminCommand(opts),
		newHealthcheckCommand(),
		newVersionCommand(),
	)
	return root
}

// Execute runs the CLI. It is called once from main.
func Execute() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the dotenv file, then the optional YAML file, then the
// environment. Flags override all three.
func (o *globalOptions) loadConfig() (config.Config, error) {
	if o.envFile != "" {
		if err := config.LoadDotEnv(o.envFile); err != nil {
			return config.Config{}, err
		}
	}
	if o.configPath != "" {
		if err := config.ApplyFile(o.configPath); err != nil {
			return config.Config{}, err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Logging.Format = o.logFormat
	}
	return cfg, nil
}
