package cli

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/afalcongonzalez/chromaviews/internal/httpapi"
	"github.com/afalcongonzalez/chromaviews/internal/server"
)

func newServeCmd(e *env) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API used by the web client.

Endpoints:
  GET  /healthz
  POST /api/analyze?k=8   multipart form with an "image" file
  GET  /api/name?hex=RRGGBB

Settings come from the environment (HTTP_ADDR, ALLOWED_ORIGINS, MAX_IMAGE_MB,
MAX_DIMENSION, DEFAULT_K, ENHANCE, NAMES_FILE, LOG_LEVEL) or a .env file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				e.cfg.HTTPAddr = addr
			}
			a, err := e.analyzer(e.cfg.PrepareOptions())
			if err != nil {
				return err
			}

			app := &httpapi.Application{
				Config:   e.cfg,
				Analyzer: a,
				Logger:   e.logger.Named("http"),
			}
			return app.Serve(http.NewServeMux())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	return cmd
}

func newMCPCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run as an MCP server over stdio",
		Long: `Run as a Model Context Protocol server, reading JSON-RPC requests from
stdin and writing responses to stdout. Logs go to stderr.

Tools: image_dimensions, palette_analyze, palette_overlay, color_name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.analyzer(e.cfg.PrepareOptions())
			if err != nil {
				return err
			}
			srv := server.New(a, e.logger, e.info.Version)
			return srv.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
