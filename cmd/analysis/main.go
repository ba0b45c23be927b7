package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"incident-analysis/internal/config"
	"incident-analysis/internal/database"
	"incident-analysis/internal/reliability"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

var (
	cfg        = config.Default()
	configPath string
	logLevel   string
	verbose    bool
	logger     = logrus.New()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "incident-analysis",
	Short: "Network incident log and reliability analysis",
	Long: `incident-analysis - Distribution network incident log

Records network incidents, imports them from spreadsheets and computes
reliability indices (SAIDI, SAIFI, CAIDI, END) over DD incidents.

Examples:
  incident-analysis serve --port 8080 --db incidents.db
  incident-analysis report --range "Last Year" --type DD
  incident-analysis import --file incidents.xlsx --sheet Feuil1`,
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "YAML config file")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Verbose output (debug logging)")
	config.BindFlags(pf, &cfg)

	rootCmd.SetVersionTemplate(`incident-analysis {{.Version}}
Build time: ` + BuildTime + `
`)

	rootCmd.AddCommand(serveCmd, reportCmd, importCmd)
}

// setup loads the config file and reapplies any flags given on the command
// line so they take precedence over file values
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}

	overrides := pflag.NewFlagSet("overrides", pflag.ContinueOnError)
	config.BindFlags(overrides, &loaded)
	config.BindServerFlags(overrides, &loaded)

	var setErr error
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if overrides.Lookup(f.Name) == nil || setErr != nil {
			return
		}
		setErr = overrides.Set(f.Name, f.Value.String())
	})
	if setErr != nil {
		return setErr
	}

	if logLevel != "" {
		loaded.LogLevel = logLevel
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg = loaded

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	if verbose {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return nil
}

// openStore opens the incident database and makes sure the schema exists
func openStore() (*database.DB, error) {
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.InitSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}
	return db, nil
}

func newEngine() (*reliability.Engine, error) {
	params, err := cfg.ReliabilityParams()
	if err != nil {
		return nil, err
	}
	return reliability.NewEngine(params), nil
}
