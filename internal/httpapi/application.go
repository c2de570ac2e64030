// Package httpapi exposes the analyzer over HTTP: palette analysis of
// uploaded images and nearest-name lookup for hex colors.
package httpapi

import (
	"github.com/hashicorp/go-hclog"

	"github.com/afalcongonzalez/chromaviews/internal/analyzer"
	"github.com/afalcongonzalez/chromaviews/internal/config"
)

// Application carries the dependencies shared by every handler.
type Application struct {
	Config   config.Config
	Analyzer *analyzer.Analyzer
	Logger   hclog.Logger
}

func (app *Application) logger() hclog.Logger {
	if app.Logger == nil {
		return hclog.NewNullLogger()
	}
	return app.Logger
}
