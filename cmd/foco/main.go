package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/foco-financeiro/internal/cli"
	"github.com/Veraticus/foco-financeiro/internal/common"
	"github.com/Veraticus/foco-financeiro/internal/config"
	"github.com/Veraticus/foco-financeiro/internal/engine"
	"github.com/Veraticus/foco-financeiro/internal/tui"
	"github.com/Veraticus/foco-financeiro/internal/tui/themes"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// app holds the state shared by every command of one invocation.
type app struct {
	in        io.Reader
	out       io.Writer
	errOut    io.Writer
	v         *viper.Viper
	logFile   io.Closer
	cfgFile   string
	settings  config.Settings
	ephemeral bool
}

func main() {
	handler := cli.NewInterruptHandler(os.Stderr)
	ctx, stop := handler.HandleInterrupts(context.Background())

	err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()

	switch {
	case handler.WasInterrupted():
		os.Exit(130)
	case err != nil:
		fmt.Fprintln(os.Stderr, cli.FormatError(errorMessage(err)))
		os.Exit(1)
	}
}

// errorMessage is the text shown to the user for err.
func errorMessage(err error) string {
	var userErr *common.UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}
	return engine.Message(err)
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out, errOut: errOut, v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "foco",
		Short: "💰 Foco Financeiro no terminal",
		Long: `foco: the Foco Financeiro personal finance client for the terminal.

Run without a subcommand to open the interactive dashboard, or use the
subcommands to manage the session, categorias and lançamentos directly.`,
		PersistentPreRunE:  a.initConfig,
		PersistentPostRunE: a.closeLog,
		RunE:               a.runTUI,
		SilenceErrors:      true,
		SilenceUsage:       true,
	}
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.config/foco/config.yaml)")
	flags.String("api-url", config.DefaultAPIURL, "base URL of the Foco Financeiro API")
	flags.String("session-db", "", "session database (default: $XDG_DATA_HOME/foco/session.db)")
	flags.String("theme", "default", "TUI theme ("+strings.Join(themes.Names, ", ")+")")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")
	flags.String("log-file", "", "write logs to this file instead of stderr")
	flags.BoolVar(&a.ephemeral, "ephemeral", false, "keep the session in memory only")

	// Bind flags to viper
	_ = a.v.BindPFlag(config.KeyAPIURL, flags.Lookup("api-url"))
	_ = a.v.BindPFlag(config.KeySessionPath, flags.Lookup("session-db"))
	_ = a.v.BindPFlag(config.KeyTheme, flags.Lookup("theme"))
	_ = a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = a.v.BindPFlag(config.KeyLogFormat, flags.Lookup("log-format"))
	_ = a.v.BindPFlag(config.KeyLogFile, flags.Lookup("log-file"))

	// Add commands
	rootCmd.AddCommand(a.loginCmd())
	rootCmd.AddCommand(a.registerCmd())
	rootCmd.AddCommand(a.logoutCmd())
	rootCmd.AddCommand(a.statusCmd())
	rootCmd.AddCommand(a.categoriasCmd())
	rootCmd.AddCommand(a.lancamentosCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	// A missing .env is fine; a malformed one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		dir, err := config.ConfigDir()
		if err != nil {
			return fmt.Errorf("failed to get config directory: %w", err)
		}

		// Search for config in standard locations
		a.v.AddConfigPath(dir)
		a.v.AddConfigPath(".")
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}

	config.SetDefaults(a.v)
	if err := config.BindEnv(a.v); err != nil {
		return err
	}
	a.v.SetEnvPrefix("FOCO")
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	settings, err := config.Load(a.v)
	if err != nil {
		return err
	}
	if !themes.Valid(settings.Theme) {
		return fmt.Errorf("%w: unknown theme %q", common.ErrInvalidConfig, settings.Theme)
	}
	a.settings = settings

	if err := a.setupLogging(!cmd.HasParent()); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}

// setupLogging sends logs to the configured file, or to stderr. The TUI owns
// the terminal, so it always logs to a file.
func (a *app) setupLogging(tuiMode bool) error {
	path := a.settings.LogFile
	if tuiMode {
		path = a.settings.DefaultLogFile()
	}
	if path == "" {
		return common.SetupLogger(a.errOut, a.settings.LogLevel, a.settings.LogFormat)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	a.logFile = f
	return common.SetupLogger(f, a.settings.LogLevel, a.settings.LogFormat)
}

func (a *app) closeLog(_ *cobra.Command, _ []string) error {
	if a.logFile == nil {
		return nil
	}
	err := a.logFile.Close()
	a.logFile = nil
	return err
}

func (a *app) runTUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	d, err := a.openDeps(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	return tui.Run(ctx,
		tui.WithSession(d.session),
		tui.WithSyncer(d.engine),
		tui.WithTheme(themes.GetTheme(a.settings.Theme)),
		tui.WithLogger(slog.Default()),
	)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "foco %s\n", version)
		},
	}
}
