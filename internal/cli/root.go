// Package cli provides the command-line interface for ChromaViews.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/afalcongonzalez/chromaviews/internal/analyzer"
	"github.com/afalcongonzalez/chromaviews/internal/config"
	"github.com/afalcongonzalez/chromaviews/internal/imaging"
	"github.com/afalcongonzalez/chromaviews/internal/names"
)

// BuildInfo is set from ldflags by the main package.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("chromaviews %s\n  Build time: %s\n  Git commit: %s\n  Go version: %s",
		b.Version, b.BuildTime, b.GitCommit, runtime.Version())
}

// env is the state shared by all subcommands once the root command has
// loaded configuration.
type env struct {
	info   BuildInfo
	cfg    config.Config
	logger hclog.Logger
}

// Execute runs the root command and exits non-zero on failure.
func Execute(info BuildInfo) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := NewRootCmd(info).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd(info BuildInfo) *cobra.Command {
	e := &env{info: info}
	var (
		logLevel string
		envFile  string
	)

	rootCmd := &cobra.Command{
		Use:   "chromaviews",
		Short: "Dominant color palettes with human-readable names",
		Long: `ChromaViews extracts the dominant colors of an image, names each one
(for example "Blue (steel blue)") and marks where in the image it appears.

It runs as an HTTP service for the web client, as an MCP server over stdio,
or directly from the command line.`,
		Version:      info.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			e.cfg = cfg
			e.logger = newLogger(cfg.LogLevel, cmd.ErrOrStderr())
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error); overrides LOG_LEVEL")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "environment file to load (default: .env if present)")
	rootCmd.SetVersionTemplate(info.String() + "\n")

	rootCmd.AddCommand(
		newServeCmd(e),
		newMCPCmd(e),
		newAnalyzeCmd(e),
		newNameCmd(e),
		newVersionCmd(info),
	)
	return rootCmd
}

// newLogger writes to w, never stdout: stdout carries MCP traffic and
// command output.
func newLogger(level string, w io.Writer) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "chromaviews",
		Level:  hclog.LevelFromString(level),
		Output: w,
		Color:  hclog.AutoColor,
	})
}

// database loads the built-in names plus NAMES_FILE, if set.
func (e *env) database() (*names.Database, error) {
	opts := []names.Option{names.WithLogger(e.logger.Named("names"))}
	if e.cfg.NamesFile != "" {
		extra, err := names.ReadColorsFile(e.cfg.NamesFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, names.WithColors(extra))
	}
	return names.Load(opts...)
}

func (e *env) analyzer(prepare imaging.PrepareOptions) (*analyzer.Analyzer, error) {
	db, err := e.database()
	if err != nil {
		return nil, fmt.Errorf("failed to load color names: %w", err)
	}
	return analyzer.New(db, e.logger, analyzer.Options{Prepare: prepare}), nil
}

func newVersionCmd(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), info.String())
		},
	}
}
