package httpapi

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second

	// uploadTimePerMB allows uploads down to about 256 KB/s.
	uploadTimePerMB = 4 * time.Second
	// analysisTimeout covers decoding and clustering the largest prepared
	// image at the highest k on a single core.
	analysisTimeout = 90 * time.Second
)

// serverTimeouts returns the read and write timeouts for uploads of up to
// maxImageMB. The write timeout starts with the request, so it includes the
// read time.
func serverTimeouts(maxImageMB int) (read, write time.Duration) {
	read = readHeaderTimeout + time.Duration(max(maxImageMB, 1))*uploadTimePerMB
	return read, read + analysisTimeout
}

// Serve listens on Config.HTTPAddr until SIGINT or SIGTERM, then drains
// in-flight requests for up to five seconds.
func (app *Application) Serve(mux *http.ServeMux) error {
	logger := app.logger()
	readTimeout, writeTimeout := serverTimeouts(app.Config.MaxImageMB)
	srv := &http.Server{
		Addr:              app.Config.HTTPAddr,
		Handler:           app.BuildRoutes(mux),
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		ErrorLog:          logger.StandardLogger(nil),
	}
	shutdownErr := make(chan error, 1)

	go func() {
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
		s := <-shutdown
		logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownErr <- srv.Shutdown(ctx)
	}()

	logger.Info("starting server", "addr", app.Config.HTTPAddr,
		"allowed_origins", app.Config.AllowedOrigins, "max_image_mb", app.Config.MaxImageMB,
		"read_timeout", readTimeout, "write_timeout", writeTimeout)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdownErr; err != nil {
		return err
	}

	logger.Info("stopped server", "addr", app.Config.HTTPAddr)
	return nil
}
