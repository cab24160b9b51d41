package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"postergen/internal/config"
	"postergen/internal/gemini"
	"postergen/internal/logging"
	"postergen/internal/prompt"
	"postergen/internal/session"
	"postergen/internal/usage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	configPath string
	verbose    bool
	timeout    time.Duration

	cfg     *config.Config
	logger  *zap.Logger
	tracker = usage.NewTracker()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "postergen",
	Short: "postergen - event invitation posters from a form",
	Long: `postergen turns an event form into a poster with the Gemini image models.

Forms are YAML files; images and documents are referenced by path. Run
"postergen serve" for the HTTP API, or use the one-shot commands below.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		if err := logging.Initialize(cfg.Logging.Options(verbose)); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}

		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "postergen.yaml", "Config file (.yaml or .toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Operation timeout for one-shot commands")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newCompiler wires the default-logo fetcher and branding from config.
func newCompiler() *prompt.Compiler {
	b := cfg.Branding
	var logos prompt.LogoFetcher
	if b.DefaultLogoURL != "" {
		logos = prompt.NewHTTPLogoFetcher(b.DefaultLogoURL, b.GetLogoFetchTimeout())
	}
	return prompt.NewCompiler(logos, prompt.Branding{
		Organization: b.OrganizationName,
		Country:      b.Country,
		Slogan:       b.Slogan,
	})
}

// newSession builds a session backed by the Gemini API, recording token
// usage in tracker. The config must carry an API key.
func newSession(ctx context.Context) (*session.Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := gemini.New(ctx, cfg.Gemini)
	if err != nil {
		return nil, err
	}
	client.SetUsage(tracker)
	return session.New(newCompiler(), client, session.Options{FilePrefix: cfg.Branding.FilePrefix}), nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// commandContext bounds a one-shot command by --timeout and SIGINT/SIGTERM.
func commandContext() (context.Context, context.CancelFunc) {
	ctx, stop := signalContext()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}
